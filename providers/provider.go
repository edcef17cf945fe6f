package providers

import "placepix/config"

// Query is what a place search looks like to every provider
type Query struct {
	Name    string
	City    string
	Country string
	Handle  string // Social-media handle, when the place has one
}

// Item is one candidate photograph with its provenance
type Item struct {
	URL     string `json:"url"`
	Author  string `json:"author"`
	License string `json:"license"`
}

// Result is the uniform outcome of a single provider search: either items
// or a failure reason, never both
type Result struct {
	Items []Item
	Link  string // Canonical page for the place at this provider, when known
	Err   string
}

func Failed(reason string) Result {
	return Result{Err: reason}
}

// Provider is an external image source. How it obtains results (public API,
// scraper service) is its own business.
type Provider interface {
	Name() string
	Search(q Query) Result
}

// NameResolver is implemented by providers that can map a submitted name to
// the canonical original-language one
type NameResolver interface {
	ResolveOriginalName(q Query) string
}

// DefaultSet wires the production providers from config
func DefaultSet() *Set {
	return &Set{
		Social:       NewSocialProvider(config.SCRAPER_BASE_URL),
		Maps:         NewMapsProvider(config.SCRAPER_BASE_URL),
		Encyclopedia: NewWikipediaProvider(),
		Commons:      NewCommonsProvider(),
		Stock:        &UnsplashProvider{AccessKey: config.UNSPLASH_ACCESS_KEY},
	}
}
