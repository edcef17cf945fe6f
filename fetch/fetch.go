package fetch

import (
	"io"
	"log"
	"net/http"
	"time"

	"placepix/config"
)

var (
	// Client is shared by all outbound requests. Tests swap it for a mocked one.
	Client = &http.Client{Timeout: 60 * time.Second}
)

// WithRetry downloads the given URL and returns the body bytes. Rate-limit
// class failures (429/503) are retried with a doubling delay, up to the
// configured number of attempts. Every other failure class fails right away.
// Returns nil when nothing could be fetched - callers skip the item instead
// of aborting their batch.
func WithRetry(url string) []byte {
	delay := time.Duration(config.FETCH_RETRY_DELAY) * time.Millisecond
	for attempt := 1; attempt <= config.FETCH_MAX_ATTEMPTS; attempt++ {
		data, retryable := fetchOnce(url)
		if data != nil {
			return data
		}
		if !retryable || attempt == config.FETCH_MAX_ATTEMPTS {
			return nil
		}
		log.Printf("Rate limited for %s, retrying in %v (attempt %d/%d)", url, delay, attempt, config.FETCH_MAX_ATTEMPTS)
		time.Sleep(delay)
		delay *= 2
	}
	return nil
}

func fetchOnce(url string) (data []byte, retryable bool) {
	resp, err := Client.Get(url)
	if err != nil {
		log.Printf("Failed request to %s: %v", url, err)
		return nil, false
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable {
		return nil, true
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("Unexpected status %d for %s", resp.StatusCode, url)
		return nil, false
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("Failed reading body of %s: %v", url, err)
		return nil, false
	}
	return body, false
}
