package db

import (
	"reflect"
	"testing"

	"github.com/dtnitsch/serp-benchmark/models"
)

func sampleResult() models.SiteResult {
	return models.SiteResult{
		Site:                "https://mysite.ru",
		MeanOccurrences:     3.5,
		MeanWordOccurrences: 7,
		MeanLength:          500,
		TopTerms:            []string{"диван", "угловой"},
		Phrases:             []string{"купить диван"},
		PagesAnalyzed:       1,
		PagesUnavailable:    1,
		Pages: []models.PageObservation{
			{URL: "https://a.ru/1"},
			{URL: "https://b.ru/2", Available: true, Occurrences: 3, WordOccurrences: 7, BodyLength: 500, Title: "диваны", Language: "russian"},
		},
	}
}

func TestCreateAndFinishRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runID, err := createRun(db, RunRecord{Source: "rows.csv", Language: "russian", RowCount: 4, SkippedRows: 1})
	if err != nil {
		t.Fatalf("createRun() failed: %v", err)
	}

	run, err := db.GetRunByID(runID)
	if err != nil {
		t.Fatalf("GetRunByID() failed: %v", err)
	}
	if run.Status != RunStatusRunning || run.FinishedAt.Valid {
		t.Errorf("new run = %+v, want running and unfinished", run)
	}
	if run.Source != "rows.csv" || run.RowCount != 4 || run.SkippedRows != 1 {
		t.Errorf("run = %+v", run)
	}

	if err := finishRun(db, runID, 2, "recommendations.md"); err != nil {
		t.Fatalf("finishRun() failed: %v", err)
	}

	run, err = db.GetRunByID(runID)
	if err != nil {
		t.Fatalf("GetRunByID() failed: %v", err)
	}
	if run.Status != RunStatusCompleted || !run.FinishedAt.Valid {
		t.Errorf("finished run = %+v", run)
	}
	if run.SiteCount != 2 || run.ReportPath != "recommendations.md" {
		t.Errorf("finished run = %+v", run)
	}

	if _, err := db.GetRunByID(runID + 100); err == nil {
		t.Error("GetRunByID() with unknown id should return error")
	}
}

func TestRecordRun_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	want := sampleResult()
	other := models.SiteResult{Site: "https://other.ru", TopTerms: []string{}}

	runID, err := db.RecordRun(RunRecord{Source: "rows.yaml", Language: "russian", RowCount: 2, ReportPath: "out.md"},
		[]models.SiteResult{want, other})
	if err != nil {
		t.Fatalf("RecordRun() failed: %v", err)
	}

	run, err := db.GetRunByID(runID)
	if err != nil {
		t.Fatalf("GetRunByID() failed: %v", err)
	}
	if run.Status != RunStatusCompleted || !run.FinishedAt.Valid || run.SiteCount != 2 || run.ReportPath != "out.md" {
		t.Errorf("run = %+v", run)
	}

	got, err := db.GetRunResults(runID)
	if err != nil {
		t.Fatalf("GetRunResults() failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(got))
	}
	if !reflect.DeepEqual(got[0], want) {
		t.Errorf("result 0 =\n%+v\nwant\n%+v", got[0], want)
	}
	if got[1].Site != "https://other.ru" || len(got[1].Pages) != 0 {
		t.Errorf("result 1 = %+v", got[1])
	}

	urlID, err := db.GetURLID("https://a.ru/1")
	if err != nil {
		t.Fatalf("GetURLID() failed: %v", err)
	}
	access, err := db.GetLastAccess(urlID)
	if err != nil || access == nil {
		t.Fatalf("GetLastAccess() = %v, %v", access, err)
	}
	if access.Success || access.ErrorType != "unavailable" {
		t.Errorf("access = %+v, want unavailable", access)
	}
}

func TestRecordRun_FailureLeavesNoRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	broken := models.SiteResult{
		Site:  "https://broken.ru",
		Pages: []models.PageObservation{{URL: "http://[::1"}},
	}
	if _, err := db.RecordRun(RunRecord{Source: "rows.yaml", Language: "russian"},
		[]models.SiteResult{sampleResult(), broken}); err == nil {
		t.Fatal("RecordRun() expected error for unparsable page URL")
	}

	runs, err := db.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns() failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("runs = %+v, want none after a failed run", runs)
	}
	if _, err := db.GetURLID("https://a.ru/1"); err == nil {
		t.Error("URL of the first site survived the rollback")
	}

	// the connection is usable again
	if _, err := db.RecordRun(RunRecord{Source: "rows.yaml"}, nil); err != nil {
		t.Errorf("RecordRun() after rollback failed: %v", err)
	}
}

func TestSaveSiteResult_DuplicatePosition(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runID, _ := createRun(db, RunRecord{Source: "rows.yaml", Language: "russian", RowCount: 1})
	if _, err := saveSiteResult(db, runID, 0, sampleResult()); err != nil {
		t.Fatalf("saveSiteResult() failed: %v", err)
	}
	if _, err := saveSiteResult(db, runID, 0, sampleResult()); err == nil {
		t.Error("expected error for duplicate position")
	}
}

func TestListRuns(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	var ids []int64
	for _, src := range []string{"a.csv", "b.csv", "c.csv"} {
		id, err := db.RecordRun(RunRecord{Source: src, Language: "english", RowCount: 1}, nil)
		if err != nil {
			t.Fatalf("RecordRun() failed: %v", err)
		}
		ids = append(ids, id)
	}

	runs, err := db.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns() failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("len(runs) = %d, want 3", len(runs))
	}
	if runs[0].RunID != ids[2] || runs[0].Source != "c.csv" {
		t.Errorf("latest run = %+v, want %d", runs[0], ids[2])
	}

	runs, err = db.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns() failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("len(runs) with limit = %d, want 2", len(runs))
	}
}

func TestGetRunResults_Empty(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runID, _ := db.RecordRun(RunRecord{Source: "rows.yaml", Language: "russian"}, nil)
	got, err := db.GetRunResults(runID)
	if err != nil {
		t.Fatalf("GetRunResults() failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("results = %+v, want none", got)
	}
}
