package analyze

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dtnitsch/serp-benchmark/models"
	"github.com/dtnitsch/serp-benchmark/pkg/analytics"
	"github.com/dtnitsch/serp-benchmark/pkg/caching"
	"github.com/dtnitsch/serp-benchmark/pkg/db"
	"github.com/dtnitsch/serp-benchmark/pkg/fetcher"
	"github.com/dtnitsch/serp-benchmark/pkg/report"
	"github.com/dtnitsch/serp-benchmark/pkg/rows"
	"github.com/urfave/cli/v2"
)

func AnalyzeAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	} else if c.Bool("verbose") {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	startTime := time.Now()

	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(2)
	}
	applyFlags(c, cfg)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	var cache *caching.Cache
	if cfg.Fetch.CacheDir != "" {
		cache, err = caching.NewCache(cfg.Fetch.CacheDir, cfg.Fetch.CacheTTL)
		if err != nil {
			logger.Error("failed to initialize cache", "error", err)
			os.Exit(2)
		}
		logger.Debug("Markup cache enabled", "dir", cache.Dir(), "ttl", cfg.Fetch.CacheTTL)
	}
	f := fetcher.NewFetcher(fetcher.Config{
		Timeout:   cfg.Fetch.Timeout,
		UserAgent: cfg.Fetch.UserAgent,
		MaxBytes:  cfg.Fetch.MaxBytes,
	}, cache, logger)

	// URL wins when both are configured
	var source string
	var loaded *rows.Result
	switch {
	case cfg.Rows.URL != "":
		source = cfg.Rows.URL
		loaded, err = rows.FetchCSV(c.Context, f, cfg.Rows.URL)
	case cfg.Rows.Path != "":
		source = cfg.Rows.Path
		loaded, err = rows.LoadFile(cfg.Rows.Path)
	default:
		err = fmt.Errorf("no rows source: pass a file, --rows or --rows-url")
	}
	if err != nil {
		logger.Error("failed to load rows", "error", err, "source", source)
		os.Exit(2)
	}

	for _, skipped := range loaded.Skipped {
		logger.Warn("Skipping malformed row", "line", skipped.Line, "error", skipped.Err)
	}
	for _, u := range loaded.InvalidURLs {
		logger.Warn("Dropping invalid competitor URL", "url", u)
	}

	a, err := analytics.New(cfg.Language)
	if err != nil {
		logger.Error("failed to initialize analytics", "error", err)
		os.Exit(2)
	}

	logger.Info("Starting analysis", "source", source, "rows", len(loaded.Rows), "language", a.Language(),
		"site_workers", cfg.Workers.Sites, "page_workers", cfg.Workers.Pages)

	engine := NewEngine(f, a, Options{
		SiteWorkers: cfg.Workers.Sites,
		PageWorkers: cfg.Workers.Pages,
		TopTerms:    cfg.TopTerms,
		Describe:    !c.Bool("no-describe"),
	}, logger)
	results := engine.Run(c.Context, loaded.Rows)

	rep := report.New(results)
	rep.Source = source
	rep.Language = cfg.Language
	rep.InvalidURLs = loaded.InvalidURLs
	for _, skipped := range loaded.Skipped {
		rep.Skipped = append(rep.Skipped, report.SkippedRow{Line: skipped.Line, Reason: skipped.Err.Error()})
	}
	if err := report.Write(cfg.Report.Path, cfg.Report.Format, rep); err != nil {
		logger.Error("failed to write report", "error", err, "path", cfg.Report.Path)
		os.Exit(2)
	}

	var runID int64
	if !cfg.DB.Disabled {
		runID, err = recordRun(cfg, source, loaded, results)
		if err != nil {
			// history is best effort, the report is already written
			logger.Warn("failed to record run history", "error", err)
		}
	}

	unavailable := 0
	for _, r := range results {
		unavailable += r.PagesUnavailable
	}

	fmt.Printf("Analyzed %d sites from %d rows in %s\n", len(results), len(loaded.Rows), time.Since(startTime).Round(time.Millisecond))
	fmt.Printf("Skipped rows: %d, unavailable pages: %d\n", len(loaded.Skipped), unavailable)
	fmt.Printf("Report: %s\n", cfg.Report.Path)
	if runID > 0 {
		fmt.Printf("\nTip: Use 'serp-benchmark db run %d' to see this run again\n", runID)
	}

	if len(loaded.Skipped) > 0 || unavailable > 0 {
		os.Exit(1)
	}
	return nil
}

// applyFlags lets explicitly set flags override the config file.
func applyFlags(c *cli.Context, cfg *models.Config) {
	if c.NArg() > 0 {
		cfg.Rows.Path = c.Args().First()
		cfg.Rows.URL = ""
	}
	if c.IsSet("rows") {
		cfg.Rows.Path = c.String("rows")
		cfg.Rows.URL = ""
	}
	if c.IsSet("rows-url") {
		cfg.Rows.URL = c.String("rows-url")
	}
	if c.IsSet("language") {
		cfg.Language = c.String("language")
	}
	if c.IsSet("top-terms") {
		cfg.TopTerms = c.Int("top-terms")
	}
	if c.IsSet("report") {
		cfg.Report.Path = c.String("report")
	}
	if c.IsSet("format") {
		cfg.Report.Format = c.String("format")
	}
	if c.IsSet("workers") {
		cfg.Workers.Pages = c.Int("workers")
	}
	if c.IsSet("site-workers") {
		cfg.Workers.Sites = c.Int("site-workers")
	}
	if c.IsSet("timeout") {
		cfg.Fetch.Timeout = c.Duration("timeout")
	}
	if c.IsSet("cache-dir") {
		cfg.Fetch.CacheDir = c.String("cache-dir")
	}
	if c.IsSet("cache-ttl") {
		cfg.Fetch.CacheTTL = c.Duration("cache-ttl")
	}
	if c.IsSet("db") {
		cfg.DB.Path = c.String("db")
	}
	if c.Bool("no-db") {
		cfg.DB.Disabled = true
	}
	cfg.ApplyDefaults()
}

func recordRun(cfg *models.Config, source string, loaded *rows.Result, results []models.SiteResult) (int64, error) {
	database, err := db.Open(cfg.DB.Path)
	if err != nil {
		return 0, fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	return database.RecordRun(db.RunRecord{
		Source:      source,
		Language:    cfg.Language,
		RowCount:    len(loaded.Rows),
		SkippedRows: len(loaded.Skipped),
		ReportPath:  cfg.Report.Path,
	}, results)
}
