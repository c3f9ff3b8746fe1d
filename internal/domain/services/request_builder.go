package services

import (
	"net/url"
	"strings"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/admini-go/internal/domain/entities/rendering"
)

const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	ContentTypeJSON     = "application/json"
)

// BoundRequest is an outbound request with every template resolved.
type BoundRequest struct {
	Method  string
	URL     string
	Headers []content.ApiHeader
	Body    []byte

	// Multipart requests carry Parts instead of Body; the transport adds the
	// Content-Type with its boundary.
	Multipart bool
	Parts     []FormEntry
}

// Header returns the value of a header, matched case-insensitively.
func (r BoundRequest) Header(key string) (string, bool) {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Key, key) {
			return h.Value, true
		}
	}
	return "", false
}

// HasBody reports whether the request carries a payload.
func (r BoundRequest) HasBody() bool {
	return len(r.Body) > 0 || (r.Multipart && len(r.Parts) > 0)
}

func (r *BoundRequest) setHeader(key, value string) {
	for i := range r.Headers {
		if strings.EqualFold(r.Headers[i].Key, key) {
			r.Headers[i].Value = value
			return
		}
	}
	r.Headers = append(r.Headers, content.ApiHeader{Key: key, Value: value})
}

func (r *BoundRequest) removeHeader(key string) {
	kept := r.Headers[:0]
	for _, h := range r.Headers {
		if !strings.EqualFold(h.Key, key) {
			kept = append(kept, h)
		}
	}
	r.Headers = kept
}

func baseRequest(api content.ApiDefinition, params *rendering.ParameterMap, authToken string) BoundRequest {
	method := strings.ToUpper(strings.TrimSpace(string(api.Method)))
	if method == "" {
		method = string(content.MethodGet)
	}
	req := BoundRequest{
		Method:  method,
		URL:     ResolvePlaceholders(api.URL, params),
		Headers: make([]content.ApiHeader, 0, len(api.Headers)+2),
	}
	for _, h := range api.Headers {
		if strings.TrimSpace(h.Key) == "" {
			continue
		}
		req.setHeader(h.Key, ResolvePlaceholders(h.Value, params))
	}
	if authToken != "" {
		req.setHeader(HeaderAuthorization, "Bearer "+authToken)
	}
	return req
}

// BuildRequest binds an API definition to params. Bodies are only sent for
// POST, PUT and PATCH with a body template, always as JSON.
func BuildRequest(api content.ApiDefinition, params *rendering.ParameterMap, authToken string) BoundRequest {
	req := baseRequest(api, params, authToken)
	if content.HttpMethod(req.Method).AllowsBody() && api.Body != "" {
		req.setHeader(HeaderContentType, ContentTypeJSON)
		req.Body = []byte(ResolvePlaceholders(api.Body, params))
	}
	return req
}

// BuildSubmission binds an API definition to collected form values. For
// POST, PUT and PATCH the values replace the body template: JSON when no
// value is a file, otherwise a multipart field set without an explicit
// Content-Type. Other methods send no body; the values are appended to the
// URL query instead, files by name.
func BuildSubmission(api content.ApiDefinition, params *rendering.ParameterMap, authToken string, values *FormAggregator) (BoundRequest, error) {
	req := baseRequest(api, params, authToken)
	if values == nil {
		values = NewFormAggregator()
	}
	if !content.HttpMethod(req.Method).AllowsBody() {
		req.URL = appendQuery(req.URL, values)
		return req, nil
	}
	if values.HasFile() {
		req.removeHeader(HeaderContentType)
		req.Multipart = true
		req.Parts = values.Entries()
		return req, nil
	}
	body, err := values.MarshalJSON()
	if err != nil {
		return BoundRequest{}, err
	}
	req.setHeader(HeaderContentType, ContentTypeJSON)
	req.Body = body
	return req, nil
}

// appendQuery adds every form value to rawURL's query. Multi-valued fields
// repeat their key.
func appendQuery(rawURL string, values *FormAggregator) string {
	entries := values.Entries()
	if len(entries) == 0 {
		return rawURL
	}
	query := url.Values{}
	for _, entry := range entries {
		switch v := entry.Value.(type) {
		case []string:
			for _, item := range v {
				query.Add(entry.Name, item)
			}
		case *FileUpload:
			if v != nil {
				query.Add(entry.Name, v.Filename)
			}
		default:
			query.Add(entry.Name, MultipartText(v))
		}
	}
	separator := "?"
	if strings.Contains(rawURL, "?") {
		separator = "&"
	}
	return rawURL + separator + query.Encode()
}
