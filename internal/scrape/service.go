// Package scrape orchestrates minutes acquisition: per-URL dispatch between
// the browser-driven fetcher and the PDF-direct scraper, a content-addressable
// document cache, bounded-concurrency batch fetches, and export.
package scrape

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/civictext/gijiroku/internal/browse"
	"github.com/civictext/gijiroku/internal/cache"
	"github.com/civictext/gijiroku/internal/minutes"
)

// Fetcher produces one minutes document per URL. Both the browser-driven
// fetcher and the PDF-only scraper satisfy it.
type Fetcher interface {
	FetchMinutes(ctx context.Context, url string) (*minutes.Document, error)
}

// Service is the per-URL entry point. Each instance owns its own admission
// gate, so several services in one process never contend on shared state.
type Service struct {
	// Platform is the host signature of the minutes platform; empty means
	// the default platform host.
	Platform string

	Browser Fetcher
	PDF     Fetcher

	Cache    *cache.DocumentCache
	UseCache bool

	// MaxConcurrent bounds simultaneous navigate/extract phases in FetchAll.
	MaxConcurrent int64

	gateOnce sync.Once
	gate     *semaphore.Weighted
}

func (s *Service) admission() *semaphore.Weighted {
	s.gateOnce.Do(func() {
		n := s.MaxConcurrent
		if n <= 0 {
			n = 3
		}
		s.gate = semaphore.NewWeighted(n)
	})
	return s.gate
}

// Fetch acquires one minutes document, consulting the cache first when
// caching is enabled.
func (s *Service) Fetch(ctx context.Context, url string) (*minutes.Document, error) {
	return s.fetch(ctx, url, false)
}

// Refetch bypasses the cache read and overwrites the entry on success. This
// is the only path that replaces an existing cache entry.
func (s *Service) Refetch(ctx context.Context, url string) (*minutes.Document, error) {
	return s.fetch(ctx, url, true)
}

func (s *Service) fetch(ctx context.Context, url string, force bool) (*minutes.Document, error) {
	if s.UseCache && !force && s.Cache.Has(ctx, url) {
		doc, err := s.Cache.Load(ctx, url)
		if err == nil {
			log.Debug().Str("url", url).Msg("cache hit")
			return doc, nil
		}
		log.Warn().Err(err).Str("url", url).Msg("cache entry unreadable, fetching live")
	}

	fetcher := s.dispatch(url)
	if fetcher == nil {
		log.Debug().Str("url", url).Msg("unsupported url")
		return nil, ErrUnsupportedURL
	}

	if err := s.admission().Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.admission().Release(1)

	doc, err := fetcher.FetchMinutes(ctx, url)
	if err != nil {
		return nil, err
	}
	if doc == nil || strings.TrimSpace(doc.Body) == "" {
		return nil, ErrEmptyBody
	}

	if s.UseCache {
		if err := s.Cache.Save(ctx, url, doc); err != nil {
			// Cache trouble never fails a successful fetch.
			log.Warn().Err(err).Str("url", url).Msg("cache write failed")
		}
	}
	return doc, nil
}

// dispatch picks the fetcher for a URL: PDF-direct for `.pdf` paths, the
// browser fetcher for platform pages, nil for everything else.
func (s *Service) dispatch(raw string) Fetcher {
	u, err := url.Parse(raw)
	if err != nil {
		return nil
	}
	if strings.HasSuffix(strings.ToLower(u.Path), ".pdf") {
		return s.PDF
	}
	if browse.IsPlatformURL(raw, s.Platform) {
		return s.Browser
	}
	return nil
}

// FetchAll fetches every URL with at most MaxConcurrent in flight. The
// result slice parallels the input: slot i holds the document for urls[i] or
// nil when that URL failed or was unsupported. One bad URL never cancels its
// siblings.
func (s *Service) FetchAll(ctx context.Context, urls []string) []*minutes.Document {
	results := make([]*minutes.Document, len(urls))
	var wg sync.WaitGroup
	for i, u := range urls {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			doc, err := s.Fetch(ctx, u)
			if err != nil {
				log.Warn().Err(err).Str("url", u).Msg("fetch yielded no document")
				return
			}
			results[i] = doc
		}(i, u)
	}
	wg.Wait()
	return results
}
