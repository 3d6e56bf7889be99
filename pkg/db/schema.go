package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- URLs table: normalized competitor URL components
CREATE TABLE IF NOT EXISTS urls (
    url_id INTEGER PRIMARY KEY AUTOINCREMENT,
    original_url TEXT NOT NULL UNIQUE,
    canonical_url TEXT,
    scheme TEXT NOT NULL,
    domain TEXT NOT NULL,
    path TEXT,
    fragment TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_urls_domain ON urls(domain);

-- URL accesses: every fetch attempt tracked
CREATE TABLE IF NOT EXISTS url_accesses (
    access_id INTEGER PRIMARY KEY AUTOINCREMENT,
    url_id INTEGER NOT NULL,
    accessed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    status_code INTEGER,
    error_type TEXT,
    success BOOLEAN NOT NULL,
    FOREIGN KEY (url_id) REFERENCES urls(url_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_accesses_url ON url_accesses(url_id);
CREATE INDEX IF NOT EXISTS idx_accesses_success ON url_accesses(success);

-- Runs: one row per analyze invocation
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    finished_at TIMESTAMP,
    source TEXT NOT NULL,
    language TEXT NOT NULL,
    row_count INTEGER NOT NULL,
    skipped_rows INTEGER DEFAULT 0,
    site_count INTEGER DEFAULT 0,
    report_path TEXT,
    status TEXT NOT NULL DEFAULT 'running'
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);

-- Site results: the recommendation for one site within a run
CREATE TABLE IF NOT EXISTS site_results (
    result_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    site TEXT NOT NULL,
    phrases TEXT,                 -- JSON array
    mean_occurrences REAL NOT NULL,
    mean_word_occurrences REAL NOT NULL,
    mean_length REAL NOT NULL,
    top_terms TEXT,               -- JSON array, most frequent first
    pages_analyzed INTEGER DEFAULT 0,
    pages_unavailable INTEGER DEFAULT 0,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE,
    UNIQUE(run_id, position)
);

CREATE INDEX IF NOT EXISTS idx_site_results_run ON site_results(run_id);
CREATE INDEX IF NOT EXISTS idx_site_results_site ON site_results(site);

-- Page observations: per competitor page measurements behind a site result
CREATE TABLE IF NOT EXISTS page_observations (
    observation_id INTEGER PRIMARY KEY AUTOINCREMENT,
    result_id INTEGER NOT NULL,
    url_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    available BOOLEAN NOT NULL,
    occurrences INTEGER DEFAULT 0,
    word_occurrences INTEGER DEFAULT 0,
    body_length INTEGER DEFAULT 0,
    title TEXT,
    site_name TEXT,
    language TEXT,
    FOREIGN KEY (result_id) REFERENCES site_results(result_id) ON DELETE CASCADE,
    FOREIGN KEY (url_id) REFERENCES urls(url_id)
);

CREATE INDEX IF NOT EXISTS idx_observations_result ON page_observations(result_id);
`
