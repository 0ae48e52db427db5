package auditcli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/okian/wcag/internal/domain/types"
	"github.com/okian/wcag/pkg/logger"
)

// pollInterval is the delay between report lookups while an audit is pending.
const pollInterval = 200 * time.Millisecond

// Client talks to a running contrast service.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for baseURL with a per-request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Health verifies the service answers /healthz.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

// Evaluate implements Backend over POST /contrast.
func (c *Client) Evaluate(ctx context.Context, req types.ContrastRequest) (types.ContrastResponse, error) {
	var res types.ContrastResponse
	err := c.do(ctx, http.MethodPost, "/contrast", req, &res)
	return res, err
}

// Suggest implements Backend over POST /suggest.
func (c *Client) Suggest(ctx context.Context, req types.SuggestRequest) (types.SuggestResponse, error) {
	var res types.SuggestResponse
	err := c.do(ctx, http.MethodPost, "/suggest", req, &res)
	return res, err
}

// SubmitAudit posts an audit and returns the acknowledgement.
func (c *Client) SubmitAudit(ctx context.Context, req types.AuditRequest) (types.AuditResponse, error) {
	var ack types.AuditResponse
	err := c.do(ctx, http.MethodPost, "/audits", req, &ack)
	return ack, err
}

// Report fetches the report of an audit.
func (c *Client) Report(ctx context.Context, id string) (types.ReportResponse, error) {
	var r types.ReportResponse
	err := c.do(ctx, http.MethodGet, "/audits/"+url.PathEscape(id), nil, &r)
	return r, err
}

// WaitForReport polls until the audit leaves the pending state or ctx ends.
func (c *Client) WaitForReport(ctx context.Context, id string) (types.ReportResponse, error) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		r, err := c.Report(ctx, id)
		if err != nil {
			return r, err
		}
		if r.Status != "pending" {
			return r, nil
		}
		select {
		case <-ctx.Done():
			return r, fmt.Errorf("waiting for audit %s: %w", id, ctx.Err())
		case <-ticker.C:
		}
	}
}

// do sends body as JSON and decodes a 2xx answer into out. Error answers are
// decoded into ErrorResponse and wrapped with ErrRemote.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrRemote, method, path, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Debug(ctx, "failed to close response body", logger.Error(err))
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s: %w", ErrRemote, path, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var e types.ErrorResponse
		if json.Unmarshal(data, &e) == nil && e.Code != "" {
			return fmt.Errorf("%w: %s %s: %d %s: %s", ErrRemote, method, path, resp.StatusCode, e.Code, e.Message)
		}
		return fmt.Errorf("%w: %s %s: status %d", ErrRemote, method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode %s: %w", ErrRemote, path, err)
	}
	return nil
}
