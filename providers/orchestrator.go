package providers

import (
	"fmt"
	"sync"

	"placepix/config"
	"placepix/models"
)

// Set groups the providers applicable to a deployment. Any of them may be
// nil, which simply excludes that source.
type Set struct {
	Social       Provider
	Maps         Provider
	Encyclopedia Provider
	Commons      Provider
	Stock        Provider
}

// Outcome is the merged result of fanning a place out to its providers
type Outcome struct {
	ItemsBySource map[string][]Item
	Links         map[string]string // Provider name -> canonical page for the place
	OriginalName  string            // Canonical original-language name, when resolved
	Errors        []string          // One entry per failed provider call

	mu   sync.Mutex
	seen map[string]bool // Dedupes item URLs across supplementation rounds
}

func (o *Outcome) Yield() int {
	total := 0
	for _, items := range o.ItemsBySource {
		total += len(items)
	}
	return total
}

type job struct {
	p    Provider
	q    Query
	skip bool
}

// Acquire fans the place out to the applicable providers concurrently and
// merges everything into one Outcome. Provider failures are isolated: each
// contributes an error string and an empty item set, siblings are unaffected.
func (s *Set) Acquire(entry *models.QueueEntry) *Outcome {
	out := &Outcome{
		ItemsBySource: map[string][]Item{},
		Links:         map[string]string{},
		seen:          map[string]bool{},
	}
	q := Query{
		Name:    entry.BestName(),
		City:    entry.CityName,
		Country: entry.CountryName,
		Handle:  entry.SocialHandle,
	}
	if entry.IsBusiness() {
		// Absence of a handle short-circuits the social search, it is not an error
		s.run(out,
			job{p: s.Social, q: q, skip: q.Handle == ""},
			job{p: s.Maps, q: q})
		return out
	}

	// Tourist attraction: prefer the canonical original-language name
	if r, ok := s.Encyclopedia.(NameResolver); ok {
		out.OriginalName = r.ResolveOriginalName(q)
	}
	search := q
	if out.OriginalName != "" {
		search.Name = out.OriginalName
	}
	s.run(out, s.attractionJobs(entry, search)...)

	// Supplementation: when the canonical name differs from the submitted one
	// and the yield is low, one more round under the fallback name tops up
	// the results
	if out.OriginalName != "" && out.Yield() < config.YIELD_THRESHOLD {
		fallback := q
		if entry.NameFallback != "" {
			fallback.Name = entry.NameFallback
		}
		if fallback.Name != search.Name {
			s.run(out, s.attractionJobs(entry, fallback)...)
		}
	}
	return out
}

func (s *Set) attractionJobs(entry *models.QueueEntry, q Query) []job {
	jobs := []job{
		{p: s.Social, q: q, skip: q.Handle == ""},
		{p: s.Maps, q: q},
		{p: s.Encyclopedia, q: q},
		{p: s.Stock, q: q},
	}
	if entry.Famous {
		jobs = append(jobs, job{p: s.Commons, q: q})
	}
	return jobs
}

// run executes the given provider calls concurrently and settles all of
// them - a panicking or failing provider never takes down its siblings
func (s *Set) run(out *Outcome, jobs ...job) {
	var wg sync.WaitGroup
	for _, j := range jobs {
		if j.p == nil || j.skip {
			continue
		}
		wg.Add(1)
		go func(j job) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					out.mu.Lock()
					out.Errors = append(out.Errors, fmt.Sprintf("%s: panic: %v", j.p.Name(), r))
					out.mu.Unlock()
				}
			}()
			res := j.p.Search(j.q)
			out.mu.Lock()
			defer out.mu.Unlock()
			if res.Err != "" {
				out.Errors = append(out.Errors, j.p.Name()+": "+res.Err)
				return
			}
			for _, item := range res.Items {
				if out.seen[item.URL] {
					continue
				}
				out.seen[item.URL] = true
				out.ItemsBySource[j.p.Name()] = append(out.ItemsBySource[j.p.Name()], item)
			}
			if res.Link != "" && out.Links[j.p.Name()] == "" {
				out.Links[j.p.Name()] = res.Link
			}
		}(j)
	}
	wg.Wait()
}
