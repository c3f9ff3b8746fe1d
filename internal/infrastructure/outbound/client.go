// Package outbound sends bound requests to operator-configured APIs.
package outbound

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"github.com/AtRiskMedia/admini-go/internal/domain/services"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/observability/metrics"
)

const maxResponseBytes = 8 << 20

// ResponseError is returned for non-2xx responses.
type ResponseError struct {
	StatusCode int
	Body       []byte
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// IsResponseError reports whether err is a non-2xx response.
func IsResponseError(err error) bool {
	var respErr *ResponseError
	return errors.As(err, &respErr)
}

// Response is a successful outbound response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Duration   time.Duration
}

// Executor sends bound requests. Implemented by Client and by test fakes.
type Executor interface {
	Do(ctx context.Context, req services.BoundRequest) (*Response, error)
}

// Client is the HTTP implementation of Executor.
type Client struct {
	http    *http.Client
	logger  *logging.ChanneledLogger
	metrics *metrics.Registry
}

// NewClient creates a client with the given per-request timeout.
func NewClient(timeout time.Duration, logger *logging.ChanneledLogger) *Client {
	return &Client{
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
		metrics: metrics.Get(),
	}
}

// NewClientWithHTTP wraps an existing http.Client.
func NewClientWithHTTP(httpClient *http.Client, logger *logging.ChanneledLogger) *Client {
	return &Client{http: httpClient, logger: logger, metrics: metrics.Get()}
}

// Do sends req. Network failures are wrapped; non-2xx responses return a
// *ResponseError. No retries.
func (c *Client) Do(ctx context.Context, req services.BoundRequest) (*Response, error) {
	start := time.Now()

	httpReq, err := c.newHTTPRequest(ctx, req)
	if err != nil {
		c.record(req.Method, err, start)
		return nil, err
	}

	c.logger.Outbound().Debug("Sending outbound request", "method", req.Method, "url", httpReq.URL.Redacted())

	resp, err := c.http.Do(httpReq)
	if err != nil {
		err = fmt.Errorf("failed to call %s %s: %w", req.Method, httpReq.URL.Redacted(), err)
		c.record(req.Method, err, start)
		c.logger.Outbound().Warn("Outbound request failed", "method", req.Method, "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		err = fmt.Errorf("failed to read response from %s: %w", httpReq.URL.Redacted(), err)
		c.record(req.Method, err, start)
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err = &ResponseError{StatusCode: resp.StatusCode, Body: body}
		c.record(req.Method, err, start)
		c.logger.Outbound().Warn("Outbound request returned non-OK status",
			"method", req.Method, "url", httpReq.URL.Redacted(), "status", resp.StatusCode)
		return nil, err
	}

	duration := time.Since(start)
	c.record(req.Method, nil, start)
	c.logger.Outbound().Info("Outbound request completed",
		"method", req.Method, "status", resp.StatusCode, "duration", duration)

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body, Duration: duration}, nil
}

func (c *Client) record(method string, err error, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.OutboundRequests.WithLabelValues(method, metrics.Outcome(err)).Inc()
	c.metrics.OutboundLatency.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

func (c *Client) newHTTPRequest(ctx context.Context, req services.BoundRequest) (*http.Request, error) {
	var (
		body        io.Reader
		contentType string
	)
	switch {
	case req.Multipart:
		encoded, ct, err := EncodeMultipart(req.Parts)
		if err != nil {
			return nil, err
		}
		body, contentType = encoded, ct
	case len(req.Body) > 0:
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", req.URL, err)
	}
	for _, h := range req.Headers {
		httpReq.Header.Set(h.Key, h.Value)
	}
	if contentType != "" {
		httpReq.Header.Set(services.HeaderContentType, contentType)
	}
	return httpReq, nil
}

// EncodeMultipart writes form entries as multipart/form-data and returns the
// body with its Content-Type (boundary included).
func EncodeMultipart(parts []services.FormEntry) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for _, part := range parts {
		if file, ok := part.Value.(*services.FileUpload); ok && file != nil {
			header := make(textproto.MIMEHeader)
			header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, part.Name, file.Filename))
			ct := file.ContentType
			if ct == "" {
				ct = "application/octet-stream"
			}
			header.Set("Content-Type", ct)
			fw, err := w.CreatePart(header)
			if err != nil {
				return nil, "", fmt.Errorf("failed to add file %s: %w", part.Name, err)
			}
			if _, err := fw.Write(file.Data); err != nil {
				return nil, "", fmt.Errorf("failed to write file %s: %w", part.Name, err)
			}
			continue
		}
		if err := w.WriteField(part.Name, services.MultipartText(part.Value)); err != nil {
			return nil, "", fmt.Errorf("failed to add field %s: %w", part.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}
