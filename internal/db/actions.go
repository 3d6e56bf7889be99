package db

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
)

func RunsAction(c *cli.Context) error {
	database, err := OpenFromFlags(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runs, err := database.ListRuns(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs found")
		return nil
	}

	fmt.Printf("%-6s %-20s %-10s %-8s %-8s %-6s %-10s %-30s\n",
		"ID", "Created", "Status", "Rows", "Skipped", "Sites", "Language", "Source")
	fmt.Println(strings.Repeat("-", 110))

	for _, r := range runs {
		fmt.Printf("%-6d %-20s %-10s %-8d %-8d %-6d %-10s %-30s\n",
			r.RunID,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Status,
			r.RowCount,
			r.SkippedRows,
			r.SiteCount,
			r.Language,
			r.Source,
		)
	}

	fmt.Printf("\nTotal: %d runs\n", len(runs))
	fmt.Printf("\nTip: Use 'serp-benchmark db run <id>' to see details\n")

	return nil
}

// RunAction shows the site results of one run
func RunAction(c *cli.Context) error {
	database, err := OpenFromFlags(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runID, err := GetRunIDOrLatest(c, database)
	if err != nil {
		return err
	}

	run, err := database.GetRunByID(runID)
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	results, err := database.GetRunResults(runID)
	if err != nil {
		return fmt.Errorf("failed to get run results: %w", err)
	}

	fmt.Printf("Run %d\n", run.RunID)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Created:     %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
	if run.FinishedAt.Valid {
		fmt.Printf("Finished:    %s\n", run.FinishedAt.Time.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("Status:      %s\n", run.Status)
	fmt.Printf("Source:      %s\n", run.Source)
	fmt.Printf("Language:    %s\n", run.Language)
	fmt.Printf("Rows:        %d (%d skipped)\n", run.RowCount, run.SkippedRows)
	if run.ReportPath != "" {
		fmt.Printf("Report:      %s\n", run.ReportPath)
	}

	fmt.Printf("\nSites (%d):\n", len(results))
	fmt.Println(strings.Repeat("-", 60))
	for i, r := range results {
		fmt.Printf("%2d. %s\n", i+1, r.Site)
		fmt.Printf("    Phrases: %s\n", strings.Join(r.Phrases, ", "))
		fmt.Printf("    Occurrences: %.2f | Word occurrences: %.2f | Length: %.2f\n",
			r.MeanOccurrences, r.MeanWordOccurrences, r.MeanLength)
		fmt.Printf("    Pages: %d analyzed, %d unavailable\n", r.PagesAnalyzed, r.PagesUnavailable)
		if len(r.TopTerms) > 0 {
			fmt.Printf("    LSI terms: %s\n", strings.Join(r.TopTerms, ", "))
		}

		if c.Bool("pages") {
			for _, p := range r.Pages {
				if !p.Available {
					fmt.Printf("      - %s (unavailable)\n", p.URL)
					continue
				}
				fmt.Printf("      - %s | occ:%d words:%d len:%d %s\n",
					p.URL, p.Occurrences, p.WordOccurrences, p.BodyLength, p.Title)
			}
		}
	}

	return nil
}

// URLAction shows how often a competitor URL was reachable across runs
func URLAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("URL required\nUsage: serp-benchmark db url <url>")
	}

	database, err := OpenFromFlags(c)
	if err != nil {
		return err
	}
	defer database.Close()

	url := c.Args().First()
	urlID, err := database.GetURLID(url)
	if err != nil {
		return fmt.Errorf("URL not found in database: %s\nNote: Only analyzed competitor URLs are tracked", url)
	}

	success, failed, err := database.AvailabilityStats(urlID)
	if err != nil {
		return err
	}

	fmt.Printf("[#%d] %s\n", urlID, url)
	fmt.Printf("Fetched: %d ok, %d unavailable\n", success, failed)

	last, err := database.GetLastAccess(urlID)
	if err != nil {
		return err
	}
	if last != nil {
		status := "ok"
		if !last.Success {
			status = last.ErrorType
		}
		fmt.Printf("Last:    %s (%s)\n", last.AccessedAt.Format("2006-01-02 15:04:05"), status)
	}

	return nil
}
