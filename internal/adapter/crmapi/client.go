// Package crmapi reads users, workspace members and activities from the
// CRM GraphQL API and applies activity relation updates through it.
package crmapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/heartmarshall/crm-activity-backend/internal/config"
	"github.com/heartmarshall/crm-activity-backend/internal/domain"
	"github.com/heartmarshall/crm-activity-backend/pkg/ctxutil"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 4 << 20

// Client talks to the CRM GraphQL endpoint.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
	log        *slog.Logger
}

// New validates the embedded operation documents and returns a client for
// cfg.Endpoint.
func New(cfg config.CRMConfig, logger *slog.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, domain.NewValidationError("crm.endpoint", "required for the graphql backend")
	}
	if _, err := loadOperations(); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		endpoint:   cfg.Endpoint,
		token:      cfg.APIToken,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "crmapi"),
	}, nil
}

type request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors gqlerror.List   `json:"errors"`
}

// do sends the named operation and decodes its data into out.
func (c *Client) do(ctx context.Context, op string, vars map[string]any, out any) error {
	body, err := json.Marshal(request{Query: operations[op], OperationName: op, Variables: vars})
	if err != nil {
		return fmt.Errorf("crmapi: encode %s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("crmapi: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token := c.bearer(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.ErrorContext(ctx, "crm request failed", slog.String("operation", op), slog.String("error", err.Error()))
		return fmt.Errorf("crmapi: %s: %w: %w", op, domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	c.log.DebugContext(ctx, "crm request",
		slog.String("operation", op),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("crmapi: %s: read body: %w: %w", op, domain.ErrUnavailable, err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("crmapi: %s: status %d: %w", op, resp.StatusCode, domain.ErrUnavailable)
	}

	var decoded response
	if err := json.Unmarshal(raw, &decoded); err != nil {
		if mapped := statusError(resp.StatusCode); mapped != nil {
			return fmt.Errorf("crmapi: %s: %w", op, mapped)
		}
		return fmt.Errorf("crmapi: %s: decode response: %w: %w", op, domain.ErrUnavailable, err)
	}
	if len(decoded.Errors) > 0 {
		return fmt.Errorf("crmapi: %s: %w", op, mapErrors(decoded.Errors))
	}
	if mapped := statusError(resp.StatusCode); mapped != nil {
		return fmt.Errorf("crmapi: %s: %w", op, mapped)
	}
	if len(decoded.Data) == 0 || bytes.Equal(decoded.Data, []byte("null")) {
		return fmt.Errorf("crmapi: %s: empty data: %w", op, domain.ErrUnavailable)
	}

	if err := json.Unmarshal(decoded.Data, out); err != nil {
		return fmt.Errorf("crmapi: %s: decode data: %w: %w", op, domain.ErrUnavailable, err)
	}
	return nil
}

// Ping checks that the endpoint answers GraphQL requests.
func (c *Client) Ping(ctx context.Context) error {
	var out struct {
		Typename string `json:"__typename"`
	}
	return c.do(ctx, opPing, nil, &out)
}

// bearer prefers the caller's own token over the configured service token.
func (c *Client) bearer(ctx context.Context) string {
	if token := ctxutil.BearerTokenFromCtx(ctx); token != "" {
		return token
	}
	return c.token
}

var errUnexpectedStatus = errors.New("unexpected status")

func statusError(status int) error {
	switch {
	case status < http.StatusBadRequest:
		return nil
	case status == http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case status == http.StatusForbidden:
		return domain.ErrForbidden
	case status == http.StatusNotFound:
		return domain.ErrNotFound
	default:
		return fmt.Errorf("%w %d", errUnexpectedStatus, status)
	}
}
