package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
	domainsvc "github.com/AtRiskMedia/admini-go/internal/domain/services"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/security"
)

var (
	ErrPageNotFound    = errors.New("page not found")
	ErrAPINotFound     = errors.New("api not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidCommand  = errors.New("invalid command")
	ErrUsernameInUse   = errors.New("username already in use")
	ErrUnknownTheme    = errors.New("unknown theme")
)

// ReplaceDocumentCommand overwrites the whole document (POST /api/storage).
type ReplaceDocumentCommand struct {
	Document *content.Document
}

func (c ReplaceDocumentCommand) Name() string { return "replace_document" }

func (c ReplaceDocumentCommand) Apply(doc *content.Document) error {
	if c.Document == nil {
		return fmt.Errorf("%w: document is required", ErrInvalidCommand)
	}
	*doc = *c.Document.Clone()
	return nil
}

// SaveAPICommand inserts or replaces an API definition. An empty id gets a
// fresh one.
type SaveAPICommand struct {
	API content.ApiDefinition
}

func (c *SaveAPICommand) Name() string { return "save_api" }

func (c *SaveAPICommand) Apply(doc *content.Document) error {
	api := c.API
	if strings.TrimSpace(api.URL) == "" {
		return fmt.Errorf("%w: api url is required", ErrInvalidCommand)
	}
	api.Method = content.HttpMethod(strings.ToUpper(strings.TrimSpace(string(api.Method))))
	if api.Method == "" {
		api.Method = content.MethodGet
	}
	if api.Headers == nil {
		api.Headers = []content.ApiHeader{}
	}
	if api.ID == "" {
		api.ID = security.GenerateULID()
	}
	c.API = api

	for i := range doc.APIs {
		if doc.APIs[i].ID == api.ID {
			doc.APIs[i] = api
			return nil
		}
	}
	doc.APIs = append(doc.APIs, api)
	return nil
}

// DeleteAPICommand removes an API definition. Components keep their apiId
// and render as unbound.
type DeleteAPICommand struct {
	ID string
}

func (c DeleteAPICommand) Name() string { return "delete_api" }

func (c DeleteAPICommand) Apply(doc *content.Document) error {
	for i := range doc.APIs {
		if doc.APIs[i].ID == c.ID {
			doc.APIs = append(doc.APIs[:i], doc.APIs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("failed to delete api %s: %w", c.ID, ErrAPINotFound)
}

// SavePageCommand inserts or replaces a page. Nil components keep the
// existing tree so metadata edits do not wipe the canvas.
type SavePageCommand struct {
	Page content.PageDefinition
}

func (c *SavePageCommand) Name() string { return "save_page" }

func (c *SavePageCommand) PageScope() string { return c.Page.ID }

func (c *SavePageCommand) Apply(doc *content.Document) error {
	page := c.Page
	if strings.TrimSpace(page.Name) == "" {
		return fmt.Errorf("%w: page name is required", ErrInvalidCommand)
	}
	page.Slug = NormalizeSlug(page.Slug)
	if page.ID == "" {
		page.ID = security.GenerateULID()
	}

	for i := range doc.Pages {
		if doc.Pages[i].ID != page.ID {
			continue
		}
		if page.Components == nil {
			page.Components = doc.Pages[i].Components
		}
		doc.Pages[i] = page.Clone()
		c.Page = page
		return nil
	}
	doc.Pages = append(doc.Pages, page.Clone())
	c.Page = page
	return nil
}

// NormalizeSlug slugifies every static segment and keeps ":name" captures.
func NormalizeSlug(raw string) string {
	segments := strings.Split(domainsvc.NormalizePath(raw), "/")
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		switch {
		case segment == "":
			continue
		case strings.HasPrefix(segment, ":"):
			out = append(out, segment)
		default:
			if s := slug.Make(segment); s != "" {
				out = append(out, s)
			}
		}
	}
	return strings.Join(out, "/")
}

// DeletePageCommand removes a page. Sidebar links to it resolve to "#".
type DeletePageCommand struct {
	ID string
}

func (c DeletePageCommand) Name() string { return "delete_page" }

func (c DeletePageCommand) PageScope() string { return c.ID }

func (c DeletePageCommand) Apply(doc *content.Document) error {
	for i := range doc.Pages {
		if doc.Pages[i].ID == c.ID {
			doc.Pages = append(doc.Pages[:i], doc.Pages[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("failed to delete page %s: %w", c.ID, ErrPageNotFound)
}

// SaveSidebarCommand replaces the sidebar tree. Items without an id get one.
type SaveSidebarCommand struct {
	Items []content.SidebarItem
}

func (c SaveSidebarCommand) Name() string { return "save_sidebar" }

func (c SaveSidebarCommand) Apply(doc *content.Document) error {
	items, err := prepareSidebar(c.Items, true)
	if err != nil {
		return err
	}
	doc.Sidebar = items
	return nil
}

func prepareSidebar(items []content.SidebarItem, topLevel bool) ([]content.SidebarItem, error) {
	out := make([]content.SidebarItem, 0, len(items))
	for _, item := range items {
		if item.ID == "" {
			item.ID = security.GenerateULID()
		}
		switch item.Type {
		case content.SidebarSection:
			if !topLevel {
				return nil, fmt.Errorf("%w: sections cannot be nested", ErrInvalidCommand)
			}
			children, err := prepareSidebar(item.Children, false)
			if err != nil {
				return nil, err
			}
			item.Children = children
		case content.SidebarLink:
			item.Children = nil
		default:
			return nil, fmt.Errorf("%w: unknown sidebar item type %q", ErrInvalidCommand, item.Type)
		}
		out = append(out, item)
	}
	return out, nil
}

// SaveSettingsCommand replaces the app settings. An empty icon keeps the
// current one.
type SaveSettingsCommand struct {
	Settings content.Settings
}

func (c SaveSettingsCommand) Name() string { return "save_settings" }

func (c SaveSettingsCommand) Apply(doc *content.Document) error {
	settings := c.Settings
	switch settings.Theme {
	case "":
		settings.Theme = doc.Settings.Theme
	case content.ThemeLight, content.ThemeDark:
	default:
		return fmt.Errorf("%w %q", ErrUnknownTheme, settings.Theme)
	}
	if settings.AppIcon == "" {
		settings.AppIcon = doc.Settings.AppIcon
	}
	doc.Settings = settings
	return nil
}

// SaveUserCommand inserts or updates an end user. Plaintext passwords are
// stored as bcrypt hashes; an empty password on update keeps the old one.
type SaveUserCommand struct {
	User content.User
}

func (c *SaveUserCommand) Name() string { return "save_user" }

func (c *SaveUserCommand) Apply(doc *content.Document) error {
	u := c.User
	u.Username = strings.TrimSpace(u.Username)
	if u.Username == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidCommand)
	}
	if u.Scopes == nil {
		u.Scopes = []string{}
	}
	for _, other := range doc.Users {
		if other.ID != u.ID && strings.EqualFold(other.Username, u.Username) {
			return fmt.Errorf("failed to save user %s: %w", u.Username, ErrUsernameInUse)
		}
	}

	existing, found := doc.FindUser(u.ID)
	if u.ID != "" && !found {
		return fmt.Errorf("failed to save user %s: %w", u.ID, ErrUserNotFound)
	}
	if u.Password == "" {
		if !found {
			return fmt.Errorf("%w: password is required", ErrInvalidCommand)
		}
		u.Password = existing.Password
	} else if u.Password != existingPassword(existing) {
		hashed, err := security.HashPassword(u.Password)
		if err != nil {
			return err
		}
		u.Password = hashed
	}

	if found {
		if u.CreatedAt == "" {
			u.CreatedAt = existing.CreatedAt
		}
		*existing = u
		c.User = u
		return nil
	}
	u.ID = security.GenerateULID()
	if u.CreatedAt == "" {
		u.CreatedAt = nowRFC3339()
	}
	doc.Users = append(doc.Users, u)
	c.User = u
	return nil
}

func existingPassword(u *content.User) string {
	if u == nil {
		return ""
	}
	return u.Password
}

// DeleteUserCommand removes an end user.
type DeleteUserCommand struct {
	ID string
}

func (c DeleteUserCommand) Name() string { return "delete_user" }

func (c DeleteUserCommand) Apply(doc *content.Document) error {
	for i := range doc.Users {
		if doc.Users[i].ID == c.ID {
			doc.Users = append(doc.Users[:i], doc.Users[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("failed to delete user %s: %w", c.ID, ErrUserNotFound)
}

// NewPaletteComponent builds the node added when a palette entry is dropped:
// fresh id, "New <type>" label, empty props. Form fields get a random name.
func NewPaletteComponent(kind content.ComponentType) content.ComponentNode {
	node := content.ComponentNode{
		ID:    security.GenerateComponentID(),
		Type:  kind,
		Label: "New " + string(kind),
		Props: map[string]any{},
	}
	if kind.IsContainer() {
		node.Children = []content.ComponentNode{}
	}
	if kind.IsFormField() {
		node.Props["name"] = "field_" + security.GenerateFieldSuffix()
	}
	return node
}

// pageTree runs fn against the component tree of pageID and stores the result.
func pageTree(doc *content.Document, pageID string, fn func([]content.ComponentNode) ([]content.ComponentNode, error)) error {
	page, ok := doc.FindPage(pageID)
	if !ok {
		return fmt.Errorf("failed to edit page %s: %w", pageID, ErrPageNotFound)
	}
	tree, err := fn(page.Components)
	if err != nil {
		return err
	}
	page.Components = tree
	return nil
}

// InsertComponentCommand adds a palette component under ParentID (empty for
// the top level) in Column of a layout parent. Node holds the inserted node
// after Apply.
type InsertComponentCommand struct {
	PageID   string
	ParentID string
	Type     content.ComponentType
	Column   int
	Node     content.ComponentNode
}

func (c *InsertComponentCommand) Name() string { return "insert_component" }

func (c *InsertComponentCommand) PageScope() string { return c.PageID }

func (c *InsertComponentCommand) Apply(doc *content.Document) error {
	if !c.Type.Valid() {
		return fmt.Errorf("%w: unknown component type %q", ErrInvalidCommand, c.Type)
	}
	c.Node = NewPaletteComponent(c.Type)
	return pageTree(doc, c.PageID, func(tree []content.ComponentNode) ([]content.ComponentNode, error) {
		return domainsvc.InsertComponent(tree, c.ParentID, c.Node, c.Column)
	})
}

// UpdateComponentCommand patches label, apiId or props of one component.
type UpdateComponentCommand struct {
	PageID      string
	ComponentID string
	Patch       domainsvc.ComponentPatch
}

func (c UpdateComponentCommand) Name() string { return "update_component" }

func (c UpdateComponentCommand) PageScope() string { return c.PageID }

func (c UpdateComponentCommand) Apply(doc *content.Document) error {
	return pageTree(doc, c.PageID, func(tree []content.ComponentNode) ([]content.ComponentNode, error) {
		return domainsvc.UpdateComponent(tree, c.ComponentID, c.Patch)
	})
}

// DeleteComponentCommand removes a component and its subtree.
type DeleteComponentCommand struct {
	PageID      string
	ComponentID string
}

func (c DeleteComponentCommand) Name() string { return "delete_component" }

func (c DeleteComponentCommand) PageScope() string { return c.PageID }

func (c DeleteComponentCommand) Apply(doc *content.Document) error {
	return pageTree(doc, c.PageID, func(tree []content.ComponentNode) ([]content.ComponentNode, error) {
		return domainsvc.DeleteComponent(tree, c.ComponentID)
	})
}

// MoveComponentCommand re-parents a component.
type MoveComponentCommand struct {
	PageID      string
	ComponentID string
	ParentID    string
	Column      int
}

func (c MoveComponentCommand) Name() string { return "move_component" }

func (c MoveComponentCommand) PageScope() string { return c.PageID }

func (c MoveComponentCommand) Apply(doc *content.Document) error {
	return pageTree(doc, c.PageID, func(tree []content.ComponentNode) ([]content.ComponentNode, error) {
		return domainsvc.MoveComponent(tree, c.ComponentID, c.ParentID, c.Column)
	})
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}
