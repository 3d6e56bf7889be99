package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dtnitsch/serp-benchmark/internal/analyze"
	"github.com/dtnitsch/serp-benchmark/internal/db"
	"github.com/dtnitsch/serp-benchmark/models"
	"github.com/urfave/cli/v2"
)

func main() {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Value:   models.DefaultConfigPath,
		Usage:   "YAML config file",
	}
	dbFlag := &cli.StringFlag{
		Name:  "db",
		Usage: "run history database (default: next to the binary)",
	}

	app := &cli.App{
		Name:  "serp-benchmark",
		Usage: "Benchmark competitor pages from search results and recommend content targets per site",
		Commands: []*cli.Command{
			{
				Name:      "analyze",
				Usage:     "Fetch competitor pages for every (site, phrase) row and write recommendations",
				ArgsUsage: "[rows file (.csv, .tsv, .yaml, .json)]",
				Flags: []cli.Flag{
					configFlag,
					dbFlag,
					&cli.StringFlag{Name: "rows", Usage: "rows file (.csv, .tsv, .yaml, .json, .json5)"},
					&cli.StringFlag{Name: "rows-url", Usage: "published spreadsheet CSV export URL"},
					&cli.StringFlag{Name: "report", Aliases: []string{"o"}, Usage: "report output path"},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "report format: markdown, yaml, json"},
					&cli.StringFlag{Name: "language", Aliases: []string{"l"}, Usage: "stopword language: russian, english, auto"},
					&cli.IntFlag{Name: "top-terms", Usage: "number of LSI terms per site"},
					&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "concurrent page fetches per site"},
					&cli.IntFlag{Name: "site-workers", Usage: "sites analyzed concurrently"},
					&cli.DurationFlag{Name: "timeout", Value: 10 * time.Second, Usage: "per-page fetch timeout"},
					&cli.StringFlag{Name: "cache-dir", Usage: "cache fetched markup in this directory"},
					&cli.DurationFlag{Name: "cache-ttl", Value: 24 * time.Hour, Usage: "how long cached markup stays fresh"},
					&cli.BoolFlag{Name: "no-db", Usage: "do not record the run in the history database"},
					&cli.BoolFlag{Name: "no-describe", Usage: "skip readability metadata (page title, site name)"},
					&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "only log errors"},
					&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log per-page worker events"},
				},
				Action: analyze.AnalyzeAction,
			},
			{
				Name:  "db",
				Usage: "Inspect the run history database",
				Subcommands: []*cli.Command{
					{
						Name:   "runs",
						Usage:  "List recent runs",
						Flags:  []cli.Flag{configFlag, dbFlag, &cli.IntFlag{Name: "limit", Value: 20, Usage: "max runs to show (0 = all)"}},
						Action: db.RunsAction,
					},
					{
						Name:      "run",
						Usage:     "Show the site results of a run (latest when no id is given)",
						ArgsUsage: "[run id]",
						Flags:     []cli.Flag{configFlag, dbFlag, &cli.BoolFlag{Name: "pages", Usage: "list per-page observations"}},
						Action:    db.RunAction,
					},
					{
						Name:      "url",
						Usage:     "Show how often a competitor URL was reachable",
						ArgsUsage: "<url>",
						Flags:     []cli.Flag{configFlag, dbFlag},
						Action:    db.URLAction,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}
}
