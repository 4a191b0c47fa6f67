// Package statsbomb fetches raw match data from the StatsBomb open-data
// endpoints and hands it to the normalization layer as generic records.
package statsbomb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/matchdata/internal/flatten"
	"github.com/riskibarqy/matchdata/internal/platform/logging"
	"github.com/riskibarqy/matchdata/internal/platform/resilience"
	"github.com/riskibarqy/matchdata/internal/usecase"
)

const (
	defaultBaseURL = "https://raw.githubusercontent.com/statsbomb/open-data/master/data"
	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 64 << 20
)

var errTransient = crerr.New("statsbomb transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.BreakerConfig
	// Trace wraps the transport with otelhttp so provider calls show up as
	// client spans.
	Trace bool
}

// Client implements usecase.DataSource against the open-data file tree.
// Every endpoint returns a top-level JSON array; anything else is a payload
// shape error, not a transport error.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.Breaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}
	if cfg.Trace {
		base := httpClient.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		httpClient.Transport = otelhttp.NewTransport(base)
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := cfg.CircuitBreaker.Normalize()

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewBreaker(breakerCfg),
		circuitEnabled: cfg.CircuitBreaker.Enabled,
	}
}

func (c *Client) Competitions(ctx context.Context) ([]flatten.Record, error) {
	return c.fetchRecords(ctx, "/competitions.json")
}

func (c *Client) Matches(ctx context.Context, competitionID, seasonID int64) ([]flatten.Record, error) {
	return c.fetchRecords(ctx, fmt.Sprintf("/matches/%d/%d.json", competitionID, seasonID))
}

func (c *Client) Lineups(ctx context.Context, gameID int64) ([]flatten.Record, error) {
	return c.fetchRecords(ctx, fmt.Sprintf("/lineups/%d.json", gameID))
}

func (c *Client) Events(ctx context.Context, gameID int64) ([]flatten.Record, error) {
	return c.fetchRecords(ctx, fmt.Sprintf("/events/%d.json", gameID))
}

// Frames returns the 360 tracking feed. Coverage is sparse: most matches
// have no file at all, and the provider answers 404. That is a normal empty
// result here, never an error.
func (c *Client) Frames(ctx context.Context, gameID int64) ([]flatten.Record, error) {
	recs, err := c.fetchRecords(ctx, fmt.Sprintf("/three-sixty/%d.json", gameID))
	if crerr.Is(err, usecase.ErrNotFound) {
		c.logger.DebugContext(ctx, "no 360 feed for match", "game_id", gameID)
		return []flatten.Record{}, nil
	}
	return recs, err
}

func (c *Client) fetchRecords(ctx context.Context, path string) ([]flatten.Record, error) {
	raw, err := c.fetch(ctx, path)
	if err != nil {
		return nil, err
	}
	recs, err := DecodeRecords(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

func (c *Client) fetch(ctx context.Context, path string) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "statsbomb circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: match data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + path
	out, err, _ := c.flight.Do(path, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusNotFound:
				return nil, fmt.Errorf("%w: provider has no data at %s", usecase.ErrNotFound, fullURL)
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "statsbomb request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

// DecodeRecords parses a provider payload that must be a top-level JSON
// array of objects. Any other top-level shape, including a bare object or a
// scalar, is a payload shape error.
func DecodeRecords(raw []byte) ([]flatten.Record, error) {
	var decoded any
	if err := sonic.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("%w: decode provider payload: %v", usecase.ErrPayloadShape, err)
	}

	items, ok := decoded.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: payload top level is %T, want array", usecase.ErrPayloadShape, decoded)
	}

	out := make([]flatten.Record, 0, len(items))
	for i, item := range items {
		rec, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: payload element %d is %T, want object", usecase.ErrPayloadShape, i, item)
		}
		out = append(out, rec)
	}
	return out, nil
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func abbreviateBody(raw []byte) string {
	body := strings.TrimSpace(string(raw))
	if len(body) > 256 {
		return body[:256] + "..."
	}
	return body
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
