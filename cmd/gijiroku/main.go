package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/civictext/gijiroku/internal/app"
	"github.com/civictext/gijiroku/internal/minutes"
	"github.com/civictext/gijiroku/internal/scrape"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		configPath    string
		inputPath     string
		platformHost  string
		cacheDir      string
		pdfDir        string
		exportDir     string
		userAgent     string
		maxConcurrent int64
		headless      bool
		noCache       bool
		refetch       bool
		exportPDF     bool
		verbose       bool
	)

	flag.StringVar(&configPath, "config", os.Getenv("GIJIROKU_CONFIG"), "Path to YAML config file")
	flag.StringVar(&inputPath, "input", "", "Path to a file with one minutes URL per line (URLs may also be passed as arguments)")
	flag.StringVar(&platformHost, "platform.host", "", "Minutes platform host signature")
	flag.StringVar(&cacheDir, "cache.dir", "", "Document cache directory")
	flag.StringVar(&pdfDir, "pdf.dir", "", "Directory for downloaded PDFs")
	flag.StringVar(&exportDir, "export.dir", "", "Directory for exported documents")
	flag.StringVar(&userAgent, "ua", "", "Browser user agent override")
	flag.Int64Var(&maxConcurrent, "max.concurrent", 0, "Maximum concurrent fetches")
	flag.BoolVar(&headless, "headless", true, "Run the browser headless")
	flag.BoolVar(&noCache, "no-cache", false, "Disable the document cache")
	flag.BoolVar(&refetch, "refetch", false, "Overwrite cached entries with a live fetch")
	flag.BoolVar(&exportPDF, "export.pdf", false, "Also write a PDF rendition next to each text export")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg := app.Config{
		PlatformHost:  platformHost,
		CacheDir:      cacheDir,
		PDFDir:        pdfDir,
		ExportDir:     exportDir,
		UserAgent:     userAgent,
		MaxConcurrent: maxConcurrent,
		Headless:      headless,
		UseCache:      !noCache,
		Verbose:       verbose,
	}
	fc, err := app.LoadConfigFile(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("config file")
	}
	app.ApplyFileToConfig(&cfg, fc)
	app.ApplyEnvToConfig(&cfg)
	// Flags the user actually passed win over file values.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "no-cache":
			cfg.UseCache = !noCache
		case "headless":
			cfg.Headless = headless
		}
	})
	cfg.Defaults()

	urls, err := collectURLs(inputPath, flag.Args())
	if err != nil {
		log.Fatal().Err(err).Msg("reading input")
	}
	if len(urls) == 0 {
		fmt.Fprintln(os.Stderr, "usage: gijiroku [flags] <url> [<url> ...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	engine, err := app.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("startup")
	}
	defer func() {
		if err := engine.Close(); err != nil {
			log.Warn().Err(err).Msg("browser shutdown")
		}
	}()

	ctx := context.Background()
	var docs []*scrapeResult
	if refetch {
		for _, u := range urls {
			doc, err := engine.Service.Refetch(ctx, u)
			if err != nil {
				log.Warn().Err(err).Str("url", u).Msg("refetch yielded no document")
			}
			docs = append(docs, &scrapeResult{url: u, doc: doc})
		}
	} else {
		for i, doc := range engine.Service.FetchAll(ctx, urls) {
			docs = append(docs, &scrapeResult{url: urls[i], doc: doc})
		}
	}

	if err := os.MkdirAll(cfg.ExportDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("export dir")
	}
	ok := 0
	for _, r := range docs {
		if r.doc == nil {
			continue
		}
		ok++
		base := filepath.Join(cfg.ExportDir, exportName(r.doc.CouncilID, r.doc.ScheduleID))
		if err := scrape.ExportText(r.doc, base+".txt"); err != nil {
			log.Warn().Err(err).Str("url", r.url).Msg("text export failed")
		}
		if exportPDF {
			if err := scrape.ExportPDF(r.doc, base+".pdf"); err != nil {
				log.Warn().Err(err).Str("url", r.url).Msg("pdf export failed")
			}
		}
	}
	log.Info().Int("requested", len(urls)).Int("captured", ok).Msg("done")
	if ok == 0 {
		os.Exit(1)
	}
}

type scrapeResult struct {
	url string
	doc *minutes.Document
}

func collectURLs(inputPath string, args []string) ([]string, error) {
	urls := append([]string(nil), args...)
	if inputPath == "" {
		return urls, nil
	}
	f, err := os.Open(inputPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, sc.Err()
}

func exportName(councilID, scheduleID string) string {
	if councilID == "" {
		councilID = "unknown"
	}
	if scheduleID == "" {
		scheduleID = "0"
	}
	return councilID + "_" + scheduleID
}
