package app

import "time"

// Config holds runtime configuration for the acquisition engine.
type Config struct {
	// PlatformHost is the minutes platform's host signature; empty selects
	// the built-in default.
	PlatformHost string

	CacheDir  string
	PDFDir    string
	ExportDir string

	UserAgent     string
	MaxConcurrent int64
	Headless      bool
	UseCache      bool

	NavigationTimeout time.Duration
	SelectorTimeout   time.Duration
	SettleDelay       time.Duration

	Verbose bool
}

// Defaults fills zero-valued fields with working settings.
func (c *Config) Defaults() {
	if c.CacheDir == "" {
		c.CacheDir = ".gijiroku-cache"
	}
	if c.PDFDir == "" {
		c.PDFDir = ".gijiroku-pdf"
	}
	if c.ExportDir == "" {
		c.ExportDir = "export"
	}
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = 3
	}
	if c.NavigationTimeout <= 0 {
		c.NavigationTimeout = 60 * time.Second
	}
	if c.SelectorTimeout <= 0 {
		c.SelectorTimeout = 5 * time.Second
	}
	if c.SettleDelay <= 0 {
		c.SettleDelay = 2 * time.Second
	}
}
