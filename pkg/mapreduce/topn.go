package mapreduce

import (
	"fmt"
	"sort"
)

// TermCount is one entry of a FrequencyTable.
type TermCount struct {
	Term  string
	Count int
}

// FrequencyTable accumulates term counts and remembers the order in which
// terms were first seen, so ranking ties resolve deterministically.
// It is not safe for concurrent use; one goroutine owns a table.
type FrequencyTable struct {
	index   map[string]int
	entries []TermCount
}

// NewFrequencyTable returns an empty table.
func NewFrequencyTable() *FrequencyTable {
	return &FrequencyTable{index: make(map[string]int)}
}

// Add increments term by one.
func (t *FrequencyTable) Add(term string) {
	t.AddCount(term, 1)
}

// AddCount increments term by n.
func (t *FrequencyTable) AddCount(term string, n int) {
	if i, ok := t.index[term]; ok {
		t.entries[i].Count += n
		return
	}
	t.index[term] = len(t.entries)
	t.entries = append(t.entries, TermCount{Term: term, Count: n})
}

// AddAll increments every term in order.
func (t *FrequencyTable) AddAll(terms []string) {
	for _, term := range terms {
		t.Add(term)
	}
}

// Count returns the running count for term.
func (t *FrequencyTable) Count(term string) int {
	if i, ok := t.index[term]; ok {
		return t.entries[i].Count
	}
	return 0
}

// Len is the number of distinct terms.
func (t *FrequencyTable) Len() int {
	return len(t.entries)
}

// Top returns the n most frequent terms, ties broken by first-seen order.
func (t *FrequencyTable) Top(n int) []TermCount {
	ranked := make([]TermCount, len(t.entries))
	copy(ranked, t.entries)

	// entries are in first-seen order, so a stable sort keeps that order for ties
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if n < 0 {
		n = 0
	}
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// TopTerms returns just the terms of Top(n).
func (t *FrequencyTable) TopTerms(n int) []string {
	top := t.Top(n)
	terms := make([]string, len(top))
	for i, tc := range top {
		terms[i] = tc.Term
	}
	return terms
}

// TopKeywords returns the top n terms formatted as "word:count" (e.g., "диван:42").
func (t *FrequencyTable) TopKeywords(n int) []string {
	top := t.Top(n)
	keywords := make([]string, len(top))
	for i, tc := range top {
		keywords[i] = fmt.Sprintf("%s:%d", tc.Term, tc.Count)
	}
	return keywords
}
