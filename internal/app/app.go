// Package app wires configuration into a running scrape service.
package app

import (
	"net/http"

	"github.com/civictext/gijiroku/internal/browse"
	"github.com/civictext/gijiroku/internal/cache"
	"github.com/civictext/gijiroku/internal/pdftext"
	"github.com/civictext/gijiroku/internal/scrape"
)

// App bundles the long-lived resources behind a scrape service.
type App struct {
	Service *scrape.Service
	browser *browse.Browser
}

// New launches the browser and assembles the service. Defaults guarantee a
// cache directory, so caching never starts misconfigured.
func New(cfg Config) (*App, error) {
	cfg.Defaults()
	browser, err := browse.Launch(cfg.Headless)
	if err != nil {
		return nil, err
	}
	if cfg.UserAgent != "" {
		browser.UserAgent = cfg.UserAgent
	}

	handler := &pdftext.Handler{
		HTTPClient: &http.Client{Timeout: cfg.NavigationTimeout},
		UserAgent:  cfg.UserAgent,
		Dir:        cfg.PDFDir,
	}
	fetcher := &browse.Fetcher{
		Browser:           browser,
		PDF:               handler,
		NavigationTimeout: cfg.NavigationTimeout,
		SelectorTimeout:   cfg.SelectorTimeout,
		SettleDelay:       cfg.SettleDelay,
	}
	svc := &scrape.Service{
		Platform:      cfg.PlatformHost,
		Browser:       fetcher,
		PDF:           &scrape.PDFScraper{PDF: handler},
		Cache:         &cache.DocumentCache{Dir: cfg.CacheDir},
		UseCache:      cfg.UseCache,
		MaxConcurrent: cfg.MaxConcurrent,
	}
	return &App{Service: svc, browser: browser}, nil
}

// Close releases the browser.
func (a *App) Close() error {
	if a.browser == nil {
		return nil
	}
	return a.browser.Close()
}
