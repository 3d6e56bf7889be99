package analyze

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"unicode/utf8"

	"github.com/dtnitsch/serp-benchmark/models"
	"github.com/dtnitsch/serp-benchmark/pkg/analytics"
	"github.com/dtnitsch/serp-benchmark/pkg/mapreduce"
	"github.com/dtnitsch/serp-benchmark/pkg/parser"
	"github.com/dtnitsch/serp-benchmark/pkg/stats"
	"golang.org/x/sync/errgroup"
)

// PageFetcher returns page markup, or "" when the page is unavailable.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) string
}

// Options tunes the engine.
type Options struct {
	SiteWorkers int  // sites analyzed in parallel
	PageWorkers int  // competitor pages fetched in parallel per site
	TopTerms    int  // length of SiteResult.TopTerms
	Describe    bool // run readability on each page for title/site name
}

func (o *Options) defaults() {
	if o.SiteWorkers <= 0 {
		o.SiteWorkers = 1
	}
	if o.PageWorkers <= 0 {
		o.PageWorkers = 1
	}
	if o.TopTerms <= 0 {
		o.TopTerms = 20
	}
}

// Engine turns competitor pages into per-site summaries.
type Engine struct {
	fetcher   PageFetcher
	parser    *parser.Parser
	analytics *analytics.Analytics
	opts      Options
	logger    *slog.Logger
}

// NewEngine wires an engine. logger may be nil.
func NewEngine(f PageFetcher, a *analytics.Analytics, opts Options, logger *slog.Logger) *Engine {
	opts.defaults()
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Engine{
		fetcher:   f,
		parser:    &parser.Parser{},
		analytics: a,
		opts:      opts,
		logger:    logger,
	}
}

// siteJob is every row of one site folded together.
type siteJob struct {
	site    string
	phrases []string
	urls    []string
}

// pageSample is the outcome of one competitor URL.
type pageSample struct {
	observation models.PageObservation
	terms       []string
}

// Run analyzes rows grouped by site and returns one result per site, in the
// order each site first appears in rows. Rows without a site or phrase are
// skipped. A site never affects another site's result.
func (e *Engine) Run(ctx context.Context, rows []models.InputRow) []models.SiteResult {
	jobs := e.groupRows(rows)
	results := make([]models.SiteResult, len(jobs))

	var g errgroup.Group
	g.SetLimit(e.opts.SiteWorkers)
	for i, job := range jobs {
		g.Go(func() error {
			results[i] = e.analyzeSite(ctx, job)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (e *Engine) groupRows(rows []models.InputRow) []siteJob {
	var jobs []*siteJob
	bySite := make(map[string]*siteJob)
	seenURL := make(map[string]map[string]struct{})
	seenPhrase := make(map[string]map[string]struct{})

	for i, row := range rows {
		phrase := analytics.NormalizePhrase(row.Phrase)
		if row.Site == "" || phrase == "" {
			e.logger.Warn("Skipping malformed row", "row", i+1, "site", row.Site, "phrase", row.Phrase)
			continue
		}

		job, ok := bySite[row.Site]
		if !ok {
			job = &siteJob{site: row.Site}
			bySite[row.Site] = job
			jobs = append(jobs, job)
			seenURL[row.Site] = make(map[string]struct{})
			seenPhrase[row.Site] = make(map[string]struct{})
		}

		if _, dup := seenPhrase[row.Site][phrase]; !dup {
			seenPhrase[row.Site][phrase] = struct{}{}
			job.phrases = append(job.phrases, phrase)
		}
		for _, u := range row.CompetitorURLs {
			if _, dup := seenURL[row.Site][u]; dup {
				continue
			}
			seenURL[row.Site][u] = struct{}{}
			job.urls = append(job.urls, u)
		}
	}

	out := make([]siteJob, len(jobs))
	for i, job := range jobs {
		sort.Strings(job.phrases)
		out[i] = *job
	}
	return out
}

func (e *Engine) analyzeSite(ctx context.Context, job siteJob) models.SiteResult {
	logger := e.logger.With("site", job.site)
	logger.Info("Analyzing site", "phrases", job.phrases, "url_count", len(job.urls))

	samples := e.collectPages(ctx, logger, job)

	// Single writer from here on: samples are applied in URL order, which also
	// fixes the first-seen order of the frequency table.
	var occurrences, wordOccurrences, lengths []int
	var termLists [][]string
	result := models.SiteResult{
		Site:    job.site,
		Phrases: job.phrases,
		Pages:   make([]models.PageObservation, 0, len(samples)),
	}
	for _, s := range samples {
		result.Pages = append(result.Pages, s.observation)
		if !s.observation.Available {
			result.PagesUnavailable++
			continue
		}
		result.PagesAnalyzed++
		occurrences = append(occurrences, s.observation.Occurrences)
		wordOccurrences = append(wordOccurrences, s.observation.WordOccurrences)
		lengths = append(lengths, s.observation.BodyLength)
		termLists = append(termLists, s.terms)
	}
	table := mapreduce.Reduce(termLists)

	occSample := stats.RemoveOutliers(stats.FromInts(occurrences))
	wordSample := stats.RemoveOutliers(stats.FromInts(wordOccurrences))
	lenSample := stats.RemoveOutliers(stats.FromInts(lengths))

	result.MeanOccurrences = stats.Mean(occSample)
	result.MeanWordOccurrences = stats.Mean(wordSample)
	result.MeanLength = stats.Mean(lenSample)
	result.TopTerms = table.TopTerms(e.opts.TopTerms)

	logger.Info("Site finalized",
		"pages_analyzed", result.PagesAnalyzed,
		"pages_unavailable", result.PagesUnavailable,
		"occurrences_kept", len(occSample),
		"word_occurrences_kept", len(wordSample),
		"lengths_kept", len(lenSample),
		"distinct_terms", table.Len(),
		"top_keywords", table.TopKeywords(5),
	)
	return result
}

type pageJob struct {
	index int
	url   string
}

type pageResult struct {
	index  int
	sample pageSample
}

// collectPages fetches and measures every URL of a site with a small worker
// pool. The returned slice is index-aligned with job.urls.
func (e *Engine) collectPages(ctx context.Context, logger *slog.Logger, job siteJob) []pageSample {
	samples := make([]pageSample, len(job.urls))
	if len(job.urls) == 0 {
		return samples
	}

	workerCount := e.opts.PageWorkers
	if workerCount > len(job.urls) {
		workerCount = len(job.urls)
	}

	var wg sync.WaitGroup
	jobs := make(chan pageJob, len(job.urls))
	results := make(chan pageResult, len(job.urls))

	for w := 1; w <= workerCount; w++ {
		wg.Add(1)
		go e.pageWorker(ctx, w, logger, job.phrases, &wg, jobs, results)
	}

	for i, u := range job.urls {
		jobs <- pageJob{index: i, url: u}
	}
	close(jobs)

	wg.Wait()
	close(results)

	for r := range results {
		samples[r.index] = r.sample
	}
	return samples
}

func (e *Engine) pageWorker(ctx context.Context, id int, logger *slog.Logger, phrases []string, wg *sync.WaitGroup, jobs <-chan pageJob, results chan<- pageResult) {
	defer wg.Done()
	for job := range jobs {
		logger.Debug("Worker started job", "worker_id", id, "url", job.url)

		markup := e.fetcher.Fetch(ctx, job.url)
		if markup == "" {
			logger.Warn("Skipping unavailable page", "worker_id", id, "url", job.url)
			results <- pageResult{index: job.index, sample: pageSample{
				observation: models.PageObservation{URL: job.url},
			}}
			continue
		}

		results <- pageResult{index: job.index, sample: e.measurePage(job.url, markup, phrases)}
		logger.Debug("Worker finished job", "worker_id", id, "url", job.url)
	}
}

// measurePage runs zone extraction, term counting and tokenization on one page.
func (e *Engine) measurePage(url, markup string, phrases []string) pageSample {
	zones := e.parser.ExtractZones(markup)
	text := zones.Combined()
	terms, lang := mapreduce.Map(text, e.analytics)

	obs := models.PageObservation{
		URL:             url,
		Available:       true,
		Occurrences:     analytics.TotalPhraseOccurrences(text, phrases),
		WordOccurrences: analytics.WordOccurrences(text, phrases),
		BodyLength:      utf8.RuneCountInString(zones.Body),
		Title:           zones.Title,
		Language:        lang,
	}
	if e.opts.Describe {
		desc := e.parser.Describe(url, markup)
		obs.SiteName = desc.SiteName
		if obs.Title == "" {
			obs.Title = desc.Title
		}
	}

	return pageSample{observation: obs, terms: terms}
}
