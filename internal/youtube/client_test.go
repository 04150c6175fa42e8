package youtube

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// MockRoundTripper implements http.RoundTripper for testing
type MockRoundTripper struct {
	RoundTripFunc func(req *http.Request) (*http.Response, error)
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.RoundTripFunc(req)
}

const trendingBody = `{
  "items": [
    {
      "id": "vid1",
      "snippet": {
        "publishedAt": "2024-03-10T10:00:00Z",
        "title": "Epic Goal | Top 5 Moments",
        "description": "Best of the week #football #shorts",
        "channelTitle": "Sports Daily"
      },
      "statistics": {"viewCount": "1234567", "likeCount": "890", "commentCount": "12"}
    },
    {
      "id": "vid2",
      "snippet": {
        "publishedAt": "2024-03-10T11:45:00Z",
        "title": "Hidden counters",
        "description": "",
        "channelTitle": "Quiet"
      },
      "statistics": {"viewCount": "42"}
    }
  ]
}`

func TestClient_ListTrending(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/videos" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, trendingBody)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{APIKey: "k", BaseURL: srv.URL})
	items, err := client.ListTrending(context.Background(), "IN", 50)
	if err != nil {
		t.Fatalf("ListTrending() error = %v", err)
	}

	for _, want := range []string{"chart=mostPopular", "regionCode=IN", "maxResults=50", "key=k", "part=snippet%2Cstatistics"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	first := items[0]
	if first.ID != "vid1" || first.Title != "Epic Goal | Top 5 Moments" || first.ChannelTitle != "Sports Daily" {
		t.Errorf("unexpected first item: %+v", first)
	}
	if first.Statistics.ViewCount != 1234567 || first.Statistics.LikeCount != 890 {
		t.Errorf("unexpected statistics: %+v", first.Statistics)
	}
	if !first.PublishedAt.Equal(time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected publish time: %v", first.PublishedAt)
	}
	if items[1].Statistics.LikeCount != 0 {
		t.Errorf("missing counters should parse as 0, got %d", items[1].Statistics.LikeCount)
	}
}

func TestClient_APIError(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantReason string
		wantQuota  bool
		wantAuth   bool
	}{
		{
			name:       "QuotaExceeded",
			status:     http.StatusForbidden,
			body:       `{"error":{"code":403,"message":"quota gone","errors":[{"reason":"quotaExceeded","message":"quota gone"}]}}`,
			wantReason: "quotaExceeded",
			wantQuota:  true,
		},
		{
			name:       "KeyInvalid",
			status:     http.StatusBadRequest,
			body:       `{"error":{"code":400,"message":"API key not valid","errors":[{"reason":"keyInvalid"}]}}`,
			wantReason: "keyInvalid",
			wantAuth:   true,
		},
		{
			name:   "PlainText",
			status: http.StatusBadGateway,
			body:   "upstream down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(ClientConfig{
				APIKey: "k",
				HTTPClient: &http.Client{Transport: &MockRoundTripper{
					RoundTripFunc: func(req *http.Request) (*http.Response, error) {
						return &http.Response{
							StatusCode: tt.status,
							Body:       io.NopCloser(strings.NewReader(tt.body)),
						}, nil
					},
				}},
			})

			_, err := client.ListTrending(context.Background(), "IN", 25)
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %v", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.status)
			}
			if apiErr.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", apiErr.Reason, tt.wantReason)
			}
			if apiErr.IsQuotaExceeded() != tt.wantQuota {
				t.Errorf("IsQuotaExceeded() = %v, want %v", apiErr.IsQuotaExceeded(), tt.wantQuota)
			}
			if apiErr.IsAuth() != tt.wantAuth {
				t.Errorf("IsAuth() = %v, want %v", apiErr.IsAuth(), tt.wantAuth)
			}
			if apiErr.Error() == "" {
				t.Error("Error() should not be empty")
			}
		})
	}
}

func TestClient_MissingKey(t *testing.T) {
	client := NewClient(ClientConfig{
		HTTPClient: &http.Client{Transport: &MockRoundTripper{
			RoundTripFunc: func(req *http.Request) (*http.Response, error) {
				t.Fatal("should not make HTTP request without an API key")
				return nil, nil
			},
		}},
	})

	if _, err := client.ListTrending(context.Background(), "IN", 25); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestClient_CircuitBreakerOpensAfterThreeFailures(t *testing.T) {
	var calls atomic.Int32
	client := NewClient(ClientConfig{
		APIKey:       "k",
		BreakerDelay: time.Hour,
		HTTPClient: &http.Client{Transport: &MockRoundTripper{
			RoundTripFunc: func(req *http.Request) (*http.Response, error) {
				calls.Add(1)
				return nil, errors.New("network error")
			},
		}},
	})

	for i := range 3 {
		_, err := client.ListTrending(context.Background(), "IN", 25)
		if err == nil || errors.Is(err, ErrCircuitOpen) {
			t.Fatalf("call %d: expected upstream error, got %v", i, err)
		}
	}

	if !client.BreakerOpen() {
		t.Fatal("breaker should be open after three consecutive failures")
	}

	_, err := client.ListTrending(context.Background(), "IN", 25)
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen, got %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("expected 3 upstream calls, got %d", got)
	}
}

func TestClient_SuccessResetsFailureCount(t *testing.T) {
	var calls atomic.Int32
	client := NewClient(ClientConfig{
		APIKey: "k",
		HTTPClient: &http.Client{Transport: &MockRoundTripper{
			RoundTripFunc: func(req *http.Request) (*http.Response, error) {
				n := calls.Add(1)
				if n == 3 {
					return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(`{"items":[]}`))}, nil
				}
				return nil, errors.New("network error")
			},
		}},
	})

	for range 4 {
		_, _ = client.ListTrending(context.Background(), "IN", 25)
	}

	if client.BreakerOpen() {
		t.Error("breaker should stay closed when failures are not consecutive")
	}
}
