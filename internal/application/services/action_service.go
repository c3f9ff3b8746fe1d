package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"time"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/admini-go/internal/domain/entities/rendering"
	domainsvc "github.com/AtRiskMedia/admini-go/internal/domain/services"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/observability/metrics"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/outbound"
	elements "github.com/AtRiskMedia/admini-go/internal/presentation/templates/elements"
)

const (
	ActionKindButton = "button"
	ActionKindRow    = "row"
	ActionKindForm   = "form"
)

// ErrNotSubmittable is returned when a component cannot perform the
// requested action.
var ErrNotSubmittable = errors.New("component has no action")

// ActionRequest identifies an action and the page load it came from.
type ActionRequest struct {
	PageID      string
	ComponentID string
	ActionID    string
	Path        string
	SessionID   string
	Row         string // JSON of the table row, row actions only
}

// Submission is the parsed body of a form post.
type Submission struct {
	Values url.Values
	Files  map[string][]*multipart.FileHeader
}

// ActionResult is the status fragment answering an action. Refresh asks the
// page to reload its data-bound components now.
type ActionResult struct {
	HTML    string
	Success bool
	Refresh bool
}

// ActionService performs api buttons, row actions and form submissions.
type ActionService struct {
	documents    *DocumentService
	sessions     *SessionService
	executor     outbound.Executor
	statusWindow time.Duration
	logger       *logging.ChanneledLogger
	metrics      *metrics.Registry
}

// NewActionService creates a new action service
func NewActionService(documents *DocumentService, sessions *SessionService, executor outbound.Executor, statusWindow time.Duration, logger *logging.ChanneledLogger) *ActionService {
	return &ActionService{
		documents:    documents,
		sessions:     sessions,
		executor:     executor,
		statusWindow: statusWindow,
		logger:       logger,
		metrics:      metrics.Get(),
	}
}

type actionTarget struct {
	doc    *content.Document
	page   *content.PageDefinition
	node   content.ComponentNode
	params *rendering.ParameterMap
}

func (s *ActionService) resolve(req ActionRequest) (*actionTarget, error) {
	doc := s.documents.Document()
	page, ok := doc.FindPage(req.PageID)
	if !ok {
		return nil, fmt.Errorf("failed to resolve action on page %s: %w", req.PageID, ErrPageNotFound)
	}
	node, ok := domainsvc.FindComponent(page.Components, req.ComponentID)
	if !ok {
		return nil, fmt.Errorf("failed to resolve action on %s: %w", req.ComponentID, domainsvc.ErrComponentNotFound)
	}
	return &actionTarget{doc: doc, page: page, node: node, params: routeParams(doc.Pages, page, req.Path)}, nil
}

// Button performs an api button.
func (s *ActionService) Button(ctx context.Context, req ActionRequest) (*ActionResult, error) {
	target, err := s.resolve(req)
	if err != nil {
		return nil, err
	}
	if target.node.Type != content.ComponentButton || elements.ButtonAction(target.node) != rendering.ActionAPI {
		return nil, fmt.Errorf("failed to run button %s: %w", req.ComponentID, ErrNotSubmittable)
	}
	api, ok := content.FindAPI(target.doc.APIs, target.node.ApiID)
	if !ok {
		return s.inline(ActionKindButton, req, fmt.Errorf("button %s: %w", req.ComponentID, ErrAPINotFound)), nil
	}
	token := s.sessions.Token(ctx, req.SessionID, target.doc.APIs, target.params)
	_, err = s.executor.Do(ctx, domainsvc.BuildRequest(*api, target.params, token))
	return s.inline(ActionKindButton, req, err), nil
}

// Row performs an api row action with the row's values merged into the
// route params.
func (s *ActionService) Row(ctx context.Context, req ActionRequest) (*ActionResult, error) {
	target, err := s.resolve(req)
	if err != nil {
		return nil, err
	}
	action, ok := domainsvc.FindRowAction(target.node.Props, req.ActionID)
	if !ok || action.Action != rendering.ActionAPI {
		return nil, fmt.Errorf("failed to run row action %s: %w", req.ActionID, ErrNotSubmittable)
	}
	api, ok := content.FindAPI(target.doc.APIs, action.ApiID)
	if !ok {
		return s.inline(ActionKindRow, req, fmt.Errorf("row action %s: %w", req.ActionID, ErrAPINotFound)), nil
	}
	params := target.params
	if row, ok := domainsvc.DecodeRecord([]byte(req.Row)); ok {
		params = domainsvc.RowParams(params, row)
	}
	token := s.sessions.Token(ctx, req.SessionID, target.doc.APIs, target.params)
	_, err = s.executor.Do(ctx, domainsvc.BuildRequest(*api, params, token))
	return s.inline(ActionKindRow, req, err), nil
}

// Form submits a form or form_container. Every field is sent; the request
// is multipart only when a file was chosen.
func (s *ActionService) Form(ctx context.Context, req ActionRequest, sub Submission) (*ActionResult, error) {
	target, err := s.resolve(req)
	if err != nil {
		return nil, err
	}

	var values *domainsvc.FormAggregator
	switch target.node.Type {
	case content.ComponentFormContainer:
		values, err = containerValues(target.node, sub)
	case content.ComponentForm:
		api, _ := content.FindAPI(target.doc.APIs, target.node.ApiID)
		values, err = legacyValues(domainsvc.LegacyFormFields(target.node, api), sub)
	default:
		return nil, fmt.Errorf("failed to submit %s: %w", req.ComponentID, ErrNotSubmittable)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read submission: %w", err)
	}

	api, ok := content.FindAPI(target.doc.APIs, target.node.ApiID)
	if !ok {
		return s.banner(req, fmt.Errorf("form %s: %w", req.ComponentID, ErrAPINotFound)), nil
	}
	token := s.sessions.Token(ctx, req.SessionID, target.doc.APIs, target.params)
	bound, err := domainsvc.BuildSubmission(*api, target.params, token, values)
	if err != nil {
		return s.banner(req, err), nil
	}
	_, err = s.executor.Do(ctx, bound)
	return s.banner(req, err), nil
}

func (s *ActionService) inline(kind string, req ActionRequest, err error) *ActionResult {
	s.record(kind, req, err)
	return &ActionResult{
		HTML:    elements.RenderActionResult(err == nil, true, s.statusWindow.Milliseconds()),
		Success: err == nil,
	}
}

func (s *ActionService) banner(req ActionRequest, err error) *ActionResult {
	s.record(ActionKindForm, req, err)
	return &ActionResult{
		HTML:    elements.RenderFormResult(err == nil),
		Success: err == nil,
		Refresh: err == nil,
	}
}

func (s *ActionService) record(kind string, req ActionRequest, err error) {
	s.metrics.ActionResults.WithLabelValues(kind, metrics.Outcome(err)).Inc()
	if err != nil {
		s.logger.Outbound().Warn("Action failed", "kind", kind, "pageId", req.PageID, "componentId", req.ComponentID, "error", err)
		return
	}
	s.logger.Outbound().Debug("Action succeeded", "kind", kind, "pageId", req.PageID, "componentId", req.ComponentID)
}

// containerValues registers every field of the container with its
// submitted value. Unchecked checkboxes are false.
func containerValues(container content.ComponentNode, sub Submission) (*domainsvc.FormAggregator, error) {
	values := domainsvc.NewFormAggregator()
	for _, field := range domainsvc.ContainerFields(container) {
		name := domainsvc.FieldName(field)
		switch field.Type {
		case content.ComponentFormCheckbox:
			values.Register(name, sub.Values.Has(name))
		case content.ComponentFormMultiCheckbox:
			selected := sub.Values[name]
			if selected == nil {
				selected = []string{}
			}
			values.Register(name, selected)
		case content.ComponentFormFile:
			upload, err := fileValue(sub, name)
			if err != nil {
				return nil, err
			}
			values.Register(name, upload)
		default:
			values.Register(name, sub.Values.Get(name))
		}
	}
	return values, nil
}

func legacyValues(fields []domainsvc.LegacyField, sub Submission) (*domainsvc.FormAggregator, error) {
	values := domainsvc.NewFormAggregator()
	for _, field := range fields {
		switch field.Type {
		case "checkbox":
			values.Register(field.Name, sub.Values.Has(field.Name))
		case "file":
			upload, err := fileValue(sub, field.Name)
			if err != nil {
				return nil, err
			}
			values.Register(field.Name, upload)
		default:
			values.Register(field.Name, sub.Values.Get(field.Name))
		}
	}
	return values, nil
}

// fileValue reads the first file posted under name, or "" when none was.
func fileValue(sub Submission, name string) (any, error) {
	headers := sub.Files[name]
	if len(headers) == 0 || headers[0].Filename == "" {
		return "", nil
	}
	header := headers[0]
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &domainsvc.FileUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
