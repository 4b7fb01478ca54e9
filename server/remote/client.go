// Package remote implements store.Store on top of a hosted PostgREST style
// backend. Tables are addressed as /rest/v1/<table> with eq./in. filters and
// aggregates are served by /rest/v1/rpc/<function>.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/topi314/club-directory/internal/xslog"
	"github.com/topi314/club-directory/server/store"
)

var ErrTooManyRequests = errors.New("too many requests")

var _ store.Store = (*Client)(nil)

func New(httpClient *http.Client, cfg Config) *Client {
	every := rate.Inf
	if cfg.Every > 0 {
		every = rate.Every(cfg.Every.Std())
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		httpClient: httpClient,
		cfg:        cfg,
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		limiter:    rate.NewLimiter(every, burst),
	}
}

type Client struct {
	httpClient *http.Client
	cfg        Config
	baseURL    string
	limiter    *rate.Limiter
}

type request struct {
	method     string
	path       string
	query      url.Values
	body       any
	prefer     string
	// idempotent marks a POST that is safe to send twice, like an upsert or
	// a read-only rpc call.
	idempotent bool
}

// retryable reports whether a response with status may be retried. A 429 is
// rejected before the request is processed. Gateway errors are only retried
// when sending the request again cannot apply it twice.
func (rq request) retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests:
		return true
	case http.StatusBadGateway, http.StatusServiceUnavailable:
		return rq.idempotent || rq.method != http.MethodPost
	}
	return false
}

func (c *Client) do(ctx context.Context, rq request, dst any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	return c.doTry(ctx, rq, dst, 0)
}

func (c *Client) doTry(ctx context.Context, rq request, dst any, try int) error {
	if try > c.cfg.MaxRetries {
		return fmt.Errorf("failed to %s %s after %d retries: %w", rq.method, rq.path, c.cfg.MaxRetries, ErrTooManyRequests)
	}

	var body io.Reader
	if rq.body != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(rq.body); err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = buf
	}

	u := c.baseURL + rq.path
	if len(rq.query) > 0 {
		u += "?" + rq.query.Encode()
	}

	rqCtx := ctx
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		rqCtx, cancel = context.WithTimeout(ctx, c.cfg.Timeout.Std())
		defer cancel()
	}

	httpRq, err := http.NewRequestWithContext(rqCtx, rq.method, u, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	httpRq.Header.Set("Accept", "application/json")
	httpRq.Header.Set("apikey", c.cfg.APIKey)
	httpRq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	if body != nil {
		httpRq.Header.Set("Content-Type", "application/json")
	}
	if rq.prefer != "" {
		httpRq.Header.Set("Prefer", rq.prefer)
	}

	rs, err := c.httpClient.Do(httpRq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer rs.Body.Close()

	if rs.StatusCode < 200 || rs.StatusCode >= 300 {
		data, _ := io.ReadAll(rs.Body)

		if rq.retryable(rs.StatusCode) {
			slog.WarnContext(ctx, "Retrying remote store request", slog.String("path", rq.path), slog.Int("status_code", rs.StatusCode), slog.Int("try", try), xslog.Component("remote"))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.cfg.RetryDelay.Std()):
			}
			return c.doTry(ctx, rq, dst, try+1)
		}

		return decodeError(rs.StatusCode, data)
	}

	if dst == nil || rs.StatusCode == http.StatusNoContent {
		return nil
	}

	logBuf := new(bytes.Buffer)
	bodyReader := io.TeeReader(rs.Body, logBuf)
	if err = json.NewDecoder(bodyReader).Decode(dst); err != nil {
		slog.ErrorContext(ctx, "Failed to decode response", slog.String("response", logBuf.String()), slog.Any("err", err), xslog.Component("remote"))
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(status int, data []byte) error {
	remoteErr := &store.RemoteError{Status: status}
	if err := json.Unmarshal(data, remoteErr); err != nil {
		remoteErr.Details = string(data)
	}
	remoteErr.Status = status
	return remoteErr
}

// eq builds a PostgREST equality filter.
func eq(v any) string {
	return fmt.Sprintf("eq.%v", v)
}

func in[T any](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return "in.(" + strings.Join(parts, ",") + ")"
}

// one returns the first row or store.ErrNotFound.
func one[T any](rows []T) (*T, error) {
	if len(rows) == 0 {
		return nil, store.ErrNotFound
	}
	return &rows[0], nil
}
