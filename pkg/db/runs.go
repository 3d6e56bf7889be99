package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dtnitsch/serp-benchmark/models"
)

const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
)

// Run is one analyze invocation.
type Run struct {
	RunID       int64
	CreatedAt   time.Time
	FinishedAt  sql.NullTime
	Source      string
	Language    string
	RowCount    int
	SkippedRows int
	SiteCount   int
	ReportPath  string
	Status      string
}

// RunRecord describes a finished analyze invocation.
type RunRecord struct {
	Source      string
	Language    string
	RowCount    int
	SkippedRows int
	ReportPath  string
}

// RecordRun stores a run with every site result in one transaction, so a
// failure leaves no trace of the run. Results are stored in slice order.
func (db *DB) RecordRun(rec RunRecord, results []models.SiteResult) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op after Commit

	runID, err := createRun(tx, rec)
	if err != nil {
		return 0, err
	}
	for i, r := range results {
		if _, err := saveSiteResult(tx, runID, i, r); err != nil {
			return 0, err
		}
	}
	if err := finishRun(tx, runID, len(results), rec.ReportPath); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// createRun starts a run record and returns its id.
func createRun(q querier, rec RunRecord) (int64, error) {
	result, err := q.Exec(`
		INSERT INTO runs (source, language, row_count, skipped_rows, status)
		VALUES (?, ?, ?, ?, ?)
	`, rec.Source, rec.Language, rec.RowCount, rec.SkippedRows, RunStatusRunning)
	if err != nil {
		return 0, fmt.Errorf("failed to create run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}
	return runID, nil
}

// finishRun marks a run completed.
func finishRun(q querier, runID int64, siteCount int, reportPath string) error {
	_, err := q.Exec(`
		UPDATE runs
		SET finished_at = ?, site_count = ?, report_path = ?, status = ?
		WHERE run_id = ?
	`, time.Now().UTC(), siteCount, NewNullString(reportPath), RunStatusCompleted, runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// saveSiteResult stores a site result and its page observations. Each page
// also counts as one access of its URL.
func saveSiteResult(q querier, runID int64, position int, r models.SiteResult) (int64, error) {
	phrases, err := json.Marshal(r.Phrases)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal phrases: %w", err)
	}
	terms, err := json.Marshal(r.TopTerms)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal top terms: %w", err)
	}

	result, err := q.Exec(`
		INSERT INTO site_results (run_id, position, site, phrases, mean_occurrences,
		                          mean_word_occurrences, mean_length, top_terms,
		                          pages_analyzed, pages_unavailable)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, runID, position, r.Site, string(phrases), r.MeanOccurrences, r.MeanWordOccurrences,
		r.MeanLength, string(terms), r.PagesAnalyzed, r.PagesUnavailable)
	if err != nil {
		return 0, fmt.Errorf("failed to insert site result for %s: %w", r.Site, err)
	}
	resultID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get result ID: %w", err)
	}

	for i, page := range r.Pages {
		urlID, err := insertURL(q, page.URL)
		if err != nil {
			return 0, fmt.Errorf("failed to insert URL %s: %w", page.URL, err)
		}

		errorType := ""
		if !page.Available {
			errorType = "unavailable"
		}
		if err := recordAccess(q, urlID, 0, errorType, page.Available); err != nil {
			return 0, err
		}

		_, err = q.Exec(`
			INSERT INTO page_observations (result_id, url_id, position, available, occurrences,
			                               word_occurrences, body_length, title, site_name, language)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, resultID, urlID, i, page.Available, page.Occurrences, page.WordOccurrences,
			page.BodyLength, NewNullString(page.Title), NewNullString(page.SiteName), NewNullString(page.Language))
		if err != nil {
			return 0, fmt.Errorf("failed to insert page observation: %w", err)
		}
	}

	return resultID, nil
}

const runColumns = `run_id, created_at, finished_at, source, language, row_count,
	skipped_rows, site_count, report_path, status`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var r Run
	var reportPath sql.NullString
	err := s.Scan(&r.RunID, &r.CreatedAt, &r.FinishedAt, &r.Source, &r.Language, &r.RowCount,
		&r.SkippedRows, &r.SiteCount, &reportPath, &r.Status)
	r.ReportPath = reportPath.String
	return r, err
}

// GetRunByID retrieves a run.
func (db *DB) GetRunByID(runID int64) (*Run, error) {
	r, err := scanRun(db.QueryRow("SELECT "+runColumns+" FROM runs WHERE run_id = ?", runID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %d not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &r, nil
}

// ListRuns retrieves runs, most recent first. limit <= 0 means all.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	query := "SELECT " + runColumns + " FROM runs ORDER BY run_id DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRunResults rebuilds the site results of a run in their original order.
func (db *DB) GetRunResults(runID int64) ([]models.SiteResult, error) {
	rows, err := db.Query(`
		SELECT result_id, site, phrases, mean_occurrences, mean_word_occurrences, mean_length,
		       top_terms, pages_analyzed, pages_unavailable
		FROM site_results
		WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run results: %w", err)
	}

	var ids []int64
	var results []models.SiteResult
	for rows.Next() {
		var id int64
		var r models.SiteResult
		var phrases, terms sql.NullString
		if err := rows.Scan(&id, &r.Site, &phrases, &r.MeanOccurrences, &r.MeanWordOccurrences,
			&r.MeanLength, &terms, &r.PagesAnalyzed, &r.PagesUnavailable); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan site result: %w", err)
		}
		if err := unmarshalList(phrases, &r.Phrases); err != nil {
			_ = rows.Close()
			return nil, err
		}
		if err := unmarshalList(terms, &r.TopTerms); err != nil {
			_ = rows.Close()
			return nil, err
		}
		ids = append(ids, id)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	for i, id := range ids {
		pages, err := db.getPageObservations(id)
		if err != nil {
			return nil, err
		}
		results[i].Pages = pages
	}
	return results, nil
}

func (db *DB) getPageObservations(resultID int64) ([]models.PageObservation, error) {
	rows, err := db.Query(`
		SELECT u.original_url, p.available, p.occurrences, p.word_occurrences, p.body_length,
		       p.title, p.site_name, p.language
		FROM page_observations p
		JOIN urls u ON p.url_id = u.url_id
		WHERE p.result_id = ?
		ORDER BY p.position
	`, resultID)
	if err != nil {
		return nil, fmt.Errorf("failed to get page observations: %w", err)
	}
	defer rows.Close()

	var pages []models.PageObservation
	for rows.Next() {
		var p models.PageObservation
		var title, siteName, language sql.NullString
		if err := rows.Scan(&p.URL, &p.Available, &p.Occurrences, &p.WordOccurrences, &p.BodyLength,
			&title, &siteName, &language); err != nil {
			return nil, fmt.Errorf("failed to scan page observation: %w", err)
		}
		p.Title = title.String
		p.SiteName = siteName.String
		p.Language = language.String
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

func unmarshalList(raw sql.NullString, dst *[]string) error {
	if !raw.Valid || raw.String == "" || raw.String == "null" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw.String), dst); err != nil {
		return fmt.Errorf("failed to parse stored list: %w", err)
	}
	return nil
}
