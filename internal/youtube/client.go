// Package youtube fetches the regional trending chart from the YouTube Data API.
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/circuitbreaker"

	"github.com/j-veylop/trending-dashboard-tui/internal/logger"
	"github.com/j-veylop/trending-dashboard-tui/internal/models"
)

const (
	// DefaultBaseURL is the YouTube Data API v3 root.
	DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

	defaultTimeout      = 30 * time.Second
	breakerFailures     = 3
	breakerOpenDuration = 5 * time.Minute
)

// ErrCircuitOpen is returned while upstream calls are short-circuited after
// repeated failures.
var ErrCircuitOpen = errors.New("youtube: upstream temporarily disabled after repeated failures")

// ErrMissingAPIKey is returned when the client has no API key.
var ErrMissingAPIKey = errors.New("youtube: API key is empty")

// APIError is a non-200 response from the Data API.
type APIError struct {
	Reason     string
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("youtube api error (status %d, %s): %s", e.StatusCode, e.Reason, e.Message)
	}
	return fmt.Sprintf("youtube api error (status %d): %s", e.StatusCode, e.Message)
}

// IsQuotaExceeded reports whether the daily quota has been used up.
func (e *APIError) IsQuotaExceeded() bool {
	return e.Reason == "quotaExceeded" || e.Reason == "dailyLimitExceeded"
}

// IsAuth reports whether the key was rejected.
func (e *APIError) IsAuth() bool {
	return e.Reason == "keyInvalid" || e.StatusCode == http.StatusUnauthorized
}

// ClientConfig holds configuration for the API client.
type ClientConfig struct {
	HTTPClient    *http.Client
	OnStateChange func(from, to circuitbreaker.State)
	APIKey        string
	BaseURL       string
	Timeout       time.Duration
	// BreakerDelay is how long calls stay short-circuited once the breaker opens.
	BreakerDelay time.Duration
}

// Client calls the videos endpoint.
type Client struct {
	httpClient *http.Client
	breaker    circuitbreaker.CircuitBreaker[[]models.TrendingItem]
	apiKey     string
	baseURL    string
}

// NewClient creates a client with a circuit breaker that opens after three
// consecutive failures. Calls are never retried.
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.BreakerDelay == 0 {
		cfg.BreakerDelay = breakerOpenDuration
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	onChange := cfg.OnStateChange
	breaker := circuitbreaker.NewBuilder[[]models.TrendingItem]().
		WithFailureThreshold(breakerFailures).
		WithDelay(cfg.BreakerDelay).
		HandleIf(func(_ []models.TrendingItem, err error) bool {
			// Context cancellation is the caller's doing, not an upstream failure.
			return err != nil && !errors.Is(err, context.Canceled)
		}).
		OnStateChanged(func(event circuitbreaker.StateChangedEvent) {
			logger.Warn("youtube circuit breaker state change",
				"from", event.OldState.String(), "to", event.NewState.String())
			if onChange != nil {
				onChange(event.OldState, event.NewState)
			}
		}).
		Build()

	return &Client{
		httpClient: cfg.HTTPClient,
		breaker:    breaker,
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
	}
}

// BreakerOpen reports whether calls are currently short-circuited.
func (c *Client) BreakerOpen() bool {
	return c.breaker.IsOpen()
}

// ListTrending returns the most popular videos for a region.
func (c *Client) ListTrending(ctx context.Context, region string, maxResults int) ([]models.TrendingItem, error) {
	items, err := failsafe.With(c.breaker).WithContext(ctx).Get(func() ([]models.TrendingItem, error) {
		return c.listTrending(ctx, region, maxResults)
	})
	if errors.Is(err, circuitbreaker.ErrOpen) {
		return nil, ErrCircuitOpen
	}
	return items, err
}

func (c *Client) listTrending(ctx context.Context, region string, maxResults int) ([]models.TrendingItem, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	params := url.Values{}
	params.Set("part", "snippet,statistics")
	params.Set("chart", "mostPopular")
	params.Set("regionCode", region)
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/videos?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create trending request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("trending request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read trending response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseAPIError(resp.StatusCode, body)
	}

	var listResp videoListResponse
	if err := json.Unmarshal(body, &listResp); err != nil {
		return nil, fmt.Errorf("failed to parse trending response: %w", err)
	}

	return listResp.toItems(), nil
}

// videoListResponse is the subset of videos.list the dashboard reads.
type videoListResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			PublishedAt  string `json:"publishedAt"`
			Title        string `json:"title"`
			Description  string `json:"description"`
			ChannelTitle string `json:"channelTitle"`
		} `json:"snippet"`
		Statistics struct {
			ViewCount    string `json:"viewCount"`
			LikeCount    string `json:"likeCount"`
			CommentCount string `json:"commentCount"`
		} `json:"statistics"`
	} `json:"items"`
}

func (r *videoListResponse) toItems() []models.TrendingItem {
	items := make([]models.TrendingItem, 0, len(r.Items))
	for _, v := range r.Items {
		publishedAt, err := time.Parse(time.RFC3339, v.Snippet.PublishedAt)
		if err != nil {
			logger.Debug("unparseable publish time", "id", v.ID, "value", v.Snippet.PublishedAt)
		}
		items = append(items, models.TrendingItem{
			ID:           v.ID,
			Title:        v.Snippet.Title,
			Description:  v.Snippet.Description,
			ChannelTitle: v.Snippet.ChannelTitle,
			PublishedAt:  publishedAt,
			Statistics: models.Statistics{
				ViewCount:    parseCount(v.Statistics.ViewCount),
				LikeCount:    parseCount(v.Statistics.LikeCount),
				CommentCount: parseCount(v.Statistics.CommentCount),
			},
		})
	}
	return items
}

// parseCount parses the string-encoded counters; hidden counters are absent.
func parseCount(s string) uint64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// errorEnvelope is the standard Google API error body.
type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Errors  []struct {
			Reason  string `json:"reason"`
			Message string `json:"message"`
		} `json:"errors"`
		Code int `json:"code"`
	} `json:"error"`
}

func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil || env.Error.Message == "" {
		apiErr.Message = http.StatusText(status)
		return apiErr
	}

	apiErr.Message = env.Error.Message
	if len(env.Error.Errors) > 0 {
		apiErr.Reason = env.Error.Errors[0].Reason
	}
	return apiErr
}
