package app

import (
	"os"
	"strconv"
	"time"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.PlatformHost == "" {
		cfg.PlatformHost = os.Getenv("GIJIROKU_PLATFORM_HOST")
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = os.Getenv("GIJIROKU_CACHE_DIR")
	}
	if cfg.PDFDir == "" {
		cfg.PDFDir = os.Getenv("GIJIROKU_PDF_DIR")
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = os.Getenv("GIJIROKU_EXPORT_DIR")
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = os.Getenv("GIJIROKU_USER_AGENT")
	}
	if cfg.MaxConcurrent == 0 {
		if n, err := strconv.ParseInt(os.Getenv("GIJIROKU_MAX_CONCURRENT"), 10, 64); err == nil && n > 0 {
			cfg.MaxConcurrent = n
		}
	}
	if cfg.NavigationTimeout == 0 {
		if d, err := time.ParseDuration(os.Getenv("GIJIROKU_NAV_TIMEOUT")); err == nil {
			cfg.NavigationTimeout = d
		}
	}
}
