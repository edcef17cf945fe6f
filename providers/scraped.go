package providers

import (
	"encoding/json"
	"fmt"
	"net/url"

	"placepix/fetch"
)

// scrapedProvider talks to the external scraper service that owns the
// DOM/selector logic for sites without a public API. The service exposes
// GET {base}/search/{provider} returning {items, link, error}.
type scrapedProvider struct {
	name    string
	baseURL string
}

func NewSocialProvider(baseURL string) Provider {
	return &scrapedProvider{name: "instagram", baseURL: baseURL}
}

func NewMapsProvider(baseURL string) Provider {
	return &scrapedProvider{name: "maps", baseURL: baseURL}
}

func (s *scrapedProvider) Name() string {
	return s.name
}

func (s *scrapedProvider) Search(q Query) Result {
	if s.baseURL == "" {
		return Failed("scraper service not configured")
	}
	u := fmt.Sprintf("%s/search/%s?name=%s&city=%s&country=%s&handle=%s",
		s.baseURL, s.name,
		url.QueryEscape(q.Name), url.QueryEscape(q.City), url.QueryEscape(q.Country), url.QueryEscape(q.Handle))
	data := fetch.WithRetry(u)
	if data == nil {
		return Failed("scraper request failed")
	}
	var parsed struct {
		Items []Item `json:"items"`
		Link  string `json:"link"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return Failed(err.Error())
	}
	if parsed.Error != "" {
		return Failed(parsed.Error)
	}
	return Result{Items: parsed.Items, Link: parsed.Link}
}
