// Package restapi talks to the pizza store backend that owns orders and
// sessions. It implements ports.OrderStore and ports.TokenRefresher over the
// backend's JSON API.
//
// Status mapping for every call:
//   - 401, 403: *ports.RemoteError wrapping ports.ErrUnauthorized
//   - 404 on an order: *errs.ObjectNotFoundError
//   - any other non-2xx or transport failure: *ports.RemoteError
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/tracing"

	"go.uber.org/zap"
)

const maxErrorBody = 512

// Client is the HTTP client shared by OrderStore and TokenRefresher.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a client for the backend at baseURL. Outbound requests
// are traced.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: tracing.Transport(http.DefaultTransport),
		},
		logger: logger,
	}
}

// do sends body as JSON, decodes a 2xx response into out (when non-nil) and
// maps every other outcome to a RemoteError. The returned status is 0 when no
// response arrived.
func (c *Client) do(
	ctx context.Context,
	op, method, path, accessToken string,
	body, out any,
) (int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, &ports.RemoteError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, c.statusError(op, method, path, resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, &ports.RemoteError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("decode response: %w", err),
		}
	}
	return resp.StatusCode, nil
}

func (c *Client) statusError(op, method, path string, resp *http.Response) error {
	text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	c.logger.Debug("backend call failed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.ByteString("body", text),
	)

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &ports.RemoteError{Op: op, StatusCode: resp.StatusCode, Err: ports.ErrUnauthorized}
	default:
		msg := strings.TrimSpace(string(text))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &ports.RemoteError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("%s", msg)}
	}
}
