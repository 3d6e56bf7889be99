package db

import (
	"fmt"

	"github.com/dtnitsch/serp-benchmark/models"
	dbpkg "github.com/dtnitsch/serp-benchmark/pkg/db"
	"github.com/urfave/cli/v2"
)

// OpenFromFlags opens the history database named by --db, falling back to the
// config file's db.path.
func OpenFromFlags(c *cli.Context) (*dbpkg.DB, error) {
	path := c.String("db")
	if path == "" {
		cfg, err := models.LoadConfig(c.String("config"))
		if err != nil {
			return nil, err
		}
		path = cfg.DB.Path
	}

	database, err := dbpkg.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

// GetRunIDOrLatest returns the run ID from args, or the latest run if not provided
func GetRunIDOrLatest(c *cli.Context, database *dbpkg.DB) (int64, error) {
	if c.NArg() == 0 {
		runs, err := database.ListRuns(1)
		if err != nil {
			return 0, fmt.Errorf("failed to get latest run: %w", err)
		}
		if len(runs) == 0 {
			return 0, fmt.Errorf("no runs found. Run 'serp-benchmark analyze <rows file>' first")
		}
		return runs[0].RunID, nil
	}

	var runID int64
	_, err := fmt.Sscanf(c.Args().First(), "%d", &runID)
	if err != nil {
		return 0, fmt.Errorf("invalid run ID: %s", c.Args().First())
	}
	return runID, nil
}
