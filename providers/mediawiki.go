package providers

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"placepix/fetch"
)

const mediaWikiImageLimit = 30

// Shared response shape of the MediaWiki action API (Wikipedia and
// Wikimedia Commons both speak it)
type mediaWikiResponse struct {
	Query struct {
		Pages map[string]mediaWikiPage `json:"pages"`
	} `json:"query"`
}

type mediaWikiPage struct {
	Title     string  `json:"title"`
	Missing   *string `json:"missing"`
	ImageInfo []struct {
		URL         string `json:"url"`
		ExtMetadata struct {
			Artist           struct{ Value string `json:"value"` } `json:"Artist"`
			LicenseShortName struct{ Value string `json:"value"` } `json:"LicenseShortName"`
		} `json:"extmetadata"`
	} `json:"imageinfo"`
}

func mediaWikiItems(apiURL string) ([]Item, string) {
	data := fetch.WithRetry(apiURL)
	if data == nil {
		return nil, "request failed"
	}
	parsed := mediaWikiResponse{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, err.Error()
	}
	items := []Item{}
	for _, page := range parsed.Query.Pages {
		for _, info := range page.ImageInfo {
			if !usableImageURL(info.URL) {
				continue
			}
			items = append(items, Item{
				URL:     info.URL,
				Author:  info.ExtMetadata.Artist.Value,
				License: info.ExtMetadata.LicenseShortName.Value,
			})
		}
	}
	return items, ""
}

// SVG drawings, PDFs and audio clips show up in article image lists too
func usableImageURL(u string) bool {
	lower := strings.ToLower(u)
	return strings.HasSuffix(lower, ".jpg") || strings.HasSuffix(lower, ".jpeg") || strings.HasSuffix(lower, ".png")
}

type WikipediaProvider struct {
	APIBase string
}

func NewWikipediaProvider() *WikipediaProvider {
	return &WikipediaProvider{APIBase: "https://en.wikipedia.org/w/api.php"}
}

func (w *WikipediaProvider) Name() string {
	return "wikipedia"
}

// Search lists the images embedded in the article matching the place name
func (w *WikipediaProvider) Search(q Query) Result {
	apiURL := fmt.Sprintf("%s?action=query&format=json&redirects=1&titles=%s&generator=images&gimlimit=%d&prop=imageinfo&iiprop=url%%7Cextmetadata",
		w.APIBase, url.QueryEscape(q.Name), mediaWikiImageLimit)
	items, errStr := mediaWikiItems(apiURL)
	if errStr != "" {
		return Failed(errStr)
	}
	return Result{
		Items: items,
		Link:  "https://en.wikipedia.org/wiki/" + url.PathEscape(strings.ReplaceAll(q.Name, " ", "_")),
	}
}

// ResolveOriginalName follows redirects/normalization to the canonical
// article title, which for most attractions is the original-language name
func (w *WikipediaProvider) ResolveOriginalName(q Query) string {
	apiURL := fmt.Sprintf("%s?action=query&format=json&redirects=1&titles=%s",
		w.APIBase, url.QueryEscape(q.Name))
	data := fetch.WithRetry(apiURL)
	if data == nil {
		return ""
	}
	parsed := mediaWikiResponse{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return ""
	}
	for _, page := range parsed.Query.Pages {
		if page.Missing != nil || page.Title == "" {
			continue
		}
		if page.Title != q.Name {
			return page.Title
		}
	}
	return ""
}

type CommonsProvider struct {
	APIBase string
}

func NewCommonsProvider() *CommonsProvider {
	return &CommonsProvider{APIBase: "https://commons.wikimedia.org/w/api.php"}
}

func (c *CommonsProvider) Name() string {
	return "commons"
}

// Search runs a full-text search over the File namespace
func (c *CommonsProvider) Search(q Query) Result {
	apiURL := fmt.Sprintf("%s?action=query&format=json&generator=search&gsrnamespace=6&gsrsearch=%s&gsrlimit=%d&prop=imageinfo&iiprop=url%%7Cextmetadata",
		c.APIBase, url.QueryEscape(q.Name+" "+q.City), mediaWikiImageLimit)
	items, errStr := mediaWikiItems(apiURL)
	if errStr != "" {
		return Failed(errStr)
	}
	return Result{Items: items}
}
