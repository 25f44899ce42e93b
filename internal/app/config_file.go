package app

import (
	"errors"
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// Duration decodes YAML duration strings ("30s", "2m") as well as plain
// nanosecond integers.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("parse duration %q: %w", s, err)
		}
		*d = Duration(v)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return err
	}
	*d = Duration(n)
	return nil
}

// FileConfig is the single-file configuration schema. Nested sections map
// naturally to the flags and environment variables.
type FileConfig struct {
	Platform struct {
		Host string `yaml:"host"`
	} `yaml:"platform"`

	Cache struct {
		Dir     string `yaml:"dir"`
		Enabled *bool  `yaml:"enabled"`
	} `yaml:"cache"`

	PDF struct {
		Dir string `yaml:"dir"`
	} `yaml:"pdf"`

	Export struct {
		Dir string `yaml:"dir"`
	} `yaml:"export"`

	Browser struct {
		UserAgent         string   `yaml:"userAgent"`
		Headless          *bool    `yaml:"headless"`
		NavigationTimeout Duration `yaml:"navigationTimeout"`
		SelectorTimeout   Duration `yaml:"selectorTimeout"`
		SettleDelay       Duration `yaml:"settleDelay"`
	} `yaml:"browser"`

	MaxConcurrent int64 `yaml:"maxConcurrent"`
	Verbose       bool  `yaml:"verbose"`
}

// LoadConfigFile reads a YAML config file. A missing path is not an error;
// a present but unreadable or malformed file is.
func LoadConfigFile(path string) (*FileConfig, error) {
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &fc, nil
}

// ApplyFileToConfig overlays file values onto unset cfg fields. Explicit cfg
// string and numeric values take precedence over the file; boolean fields
// apply whenever the file sets them, and the CLI reasserts explicitly passed
// flags after the overlay.
func ApplyFileToConfig(cfg *Config, fc *FileConfig) {
	if cfg == nil || fc == nil {
		return
	}
	if cfg.PlatformHost == "" {
		cfg.PlatformHost = fc.Platform.Host
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = fc.Cache.Dir
	}
	if fc.Cache.Enabled != nil {
		cfg.UseCache = *fc.Cache.Enabled
	}
	if cfg.PDFDir == "" {
		cfg.PDFDir = fc.PDF.Dir
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = fc.Export.Dir
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = fc.Browser.UserAgent
	}
	if fc.Browser.Headless != nil {
		cfg.Headless = *fc.Browser.Headless
	}
	if cfg.NavigationTimeout == 0 {
		cfg.NavigationTimeout = time.Duration(fc.Browser.NavigationTimeout)
	}
	if cfg.SelectorTimeout == 0 {
		cfg.SelectorTimeout = time.Duration(fc.Browser.SelectorTimeout)
	}
	if cfg.SettleDelay == 0 {
		cfg.SettleDelay = time.Duration(fc.Browser.SettleDelay)
	}
	if cfg.MaxConcurrent == 0 {
		cfg.MaxConcurrent = fc.MaxConcurrent
	}
	if fc.Verbose {
		cfg.Verbose = true
	}
}
