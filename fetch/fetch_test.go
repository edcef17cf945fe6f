package fetch

import (
	"net/http"
	"testing"

	"placepix/config"

	"github.com/jarcoal/httpmock"
)

func setupMock(t *testing.T) {
	t.Helper()
	httpmock.ActivateNonDefault(Client)
	t.Cleanup(httpmock.DeactivateAndReset)
	oldDelay := config.FETCH_RETRY_DELAY
	config.FETCH_RETRY_DELAY = 1
	t.Cleanup(func() { config.FETCH_RETRY_DELAY = oldDelay })
}

func TestWithRetry_RecoversFromRateLimit(t *testing.T) {
	setupMock(t)
	calls := 0
	httpmock.RegisterResponder("GET", "http://example.com/a.jpg",
		func(req *http.Request) (*http.Response, error) {
			calls++
			if calls < 3 {
				return httpmock.NewStringResponse(http.StatusTooManyRequests, ""), nil
			}
			return httpmock.NewStringResponse(http.StatusOK, "image-bytes"), nil
		})
	data := WithRetry("http://example.com/a.jpg")
	if string(data) != "image-bytes" {
		t.Fatalf("expected body after retries, got %q", data)
	}
	if calls != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
}

func TestWithRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	setupMock(t)
	calls := 0
	httpmock.RegisterResponder("GET", "http://example.com/limited.jpg",
		func(req *http.Request) (*http.Response, error) {
			calls++
			return httpmock.NewStringResponse(http.StatusTooManyRequests, ""), nil
		})
	if data := WithRetry("http://example.com/limited.jpg"); data != nil {
		t.Fatalf("expected nil on exhaustion, got %q", data)
	}
	if calls != config.FETCH_MAX_ATTEMPTS {
		t.Errorf("expected %d attempts, got %d", config.FETCH_MAX_ATTEMPTS, calls)
	}
}

func TestWithRetry_NoRetryOnOtherFailures(t *testing.T) {
	setupMock(t)
	tests := []struct {
		name   string
		status int
	}{
		{"not found", http.StatusNotFound},
		{"server error", http.StatusInternalServerError},
		{"forbidden", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			httpmock.RegisterResponder("GET", "http://example.com/fail.jpg",
				func(req *http.Request) (*http.Response, error) {
					calls++
					return httpmock.NewStringResponse(tt.status, ""), nil
				})
			if data := WithRetry("http://example.com/fail.jpg"); data != nil {
				t.Fatalf("expected nil, got %q", data)
			}
			if calls != 1 {
				t.Errorf("expected a single attempt, got %d", calls)
			}
		})
	}
}
