package providers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"placepix/fetch"
)

type UnsplashProvider struct {
	AccessKey string
}

func (u *UnsplashProvider) Name() string {
	return "unsplash"
}

func (u *UnsplashProvider) Search(q Query) Result {
	if u.AccessKey == "" {
		// Not configured - empty result, not an error
		return Result{}
	}
	search := q.Name + " " + q.City
	req, err := http.NewRequest("GET",
		"https://api.unsplash.com/search/photos?per_page=20&query="+url.QueryEscape(search), nil)
	if err != nil {
		return Failed(err.Error())
	}
	req.Header.Set("Authorization", "Client-ID "+u.AccessKey)
	req.Header.Set("Accept-Version", "v1")
	resp, err := fetch.Client.Do(req)
	if err != nil {
		return Failed(err.Error())
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Failed(fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}
	var parsed struct {
		Results []struct {
			URLs struct {
				Regular string `json:"regular"`
			} `json:"urls"`
			User struct {
				Name string `json:"name"`
			} `json:"user"`
		} `json:"results"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Failed(err.Error())
	}
	items := make([]Item, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		if r.URLs.Regular == "" {
			continue
		}
		items = append(items, Item{
			URL:     r.URLs.Regular,
			Author:  r.User.Name,
			License: "Unsplash License",
		})
	}
	return Result{
		Items: items,
		Link:  "https://unsplash.com/s/photos/" + url.PathEscape(search),
	}
}
