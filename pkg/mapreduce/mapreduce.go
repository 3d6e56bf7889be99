package mapreduce

import "github.com/dtnitsch/serp-benchmark/pkg/analytics"

// Map turns a single document's content into its ordered list of terms and
// reports the stopword language that was applied.
func Map(content string, a *analytics.Analytics) ([]string, string) {
	return a.Terms(content)
}

// Reduce folds per-document term lists into one table. Documents are applied
// in slice order, which fixes the first-seen order of the result.
func Reduce(intermediate [][]string) *FrequencyTable {
	table := NewFrequencyTable()
	for _, terms := range intermediate {
		table.AddAll(terms)
	}
	return table
}
