package mapreduce

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/dtnitsch/serp-benchmark/pkg/analytics"
)

func TestFrequencyTable_TopBreaksTiesByFirstSeen(t *testing.T) {
	table := NewFrequencyTable()
	table.AddAll([]string{"кресло", "диван", "стол", "диван", "стул", "стол"})

	got := table.Top(10)
	want := []TermCount{
		{Term: "диван", Count: 2},
		{Term: "стол", Count: 2},
		{Term: "кресло", Count: 1},
		{Term: "стул", Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Top() = %v, want %v", got, want)
	}
}

func TestFrequencyTable_TopLimit(t *testing.T) {
	table := NewFrequencyTable()
	for i := 0; i < 30; i++ {
		table.AddCount(fmt.Sprintf("term%02d", i), 30-i)
	}

	terms := table.TopTerms(20)
	if len(terms) != 20 {
		t.Fatalf("TopTerms(20) returned %d terms", len(terms))
	}
	if terms[0] != "term00" || terms[19] != "term19" {
		t.Errorf("unexpected ranking: first=%s last=%s", terms[0], terms[19])
	}
	if got := table.TopTerms(-1); len(got) != 0 {
		t.Errorf("TopTerms(-1) = %v, want empty", got)
	}
}

func TestFrequencyTable_Deterministic(t *testing.T) {
	terms := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	first := Reduce([][]string{terms}).TopTerms(5)
	for i := 0; i < 20; i++ {
		if got := Reduce([][]string{terms}).TopTerms(5); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: %v != %v", i, got, first)
		}
	}
	if !reflect.DeepEqual(first, []string{"a", "b", "c", "d", "e"}) {
		t.Errorf("TopTerms() = %v", first)
	}
}

func TestFrequencyTable_CountAndKeywords(t *testing.T) {
	table := NewFrequencyTable()
	table.AddAll([]string{"диван", "диван", "кресло"})

	if table.Count("диван") != 2 || table.Count("стол") != 0 {
		t.Errorf("Count() mismatch: диван=%d стол=%d", table.Count("диван"), table.Count("стол"))
	}
	if table.Len() != 2 {
		t.Errorf("Len() = %d, want 2", table.Len())
	}
	want := []string{"диван:2", "кресло:1"}
	if got := table.TopKeywords(5); !reflect.DeepEqual(got, want) {
		t.Errorf("TopKeywords() = %v, want %v", got, want)
	}
}

func TestMapReduce(t *testing.T) {
	a, err := analytics.New(analytics.Russian)
	if err != nil {
		t.Fatalf("analytics.New() failed: %v", err)
	}

	first, lang := Map("диван и кресло", a)
	if lang != analytics.Russian {
		t.Errorf("Map() language = %q, want %q", lang, analytics.Russian)
	}
	second, _ := Map("кресло для дома", a)
	table := Reduce([][]string{first, second})

	want := []string{"кресло", "диван", "дома"}
	if got := table.TopTerms(20); !reflect.DeepEqual(got, want) {
		t.Errorf("TopTerms() = %v, want %v", got, want)
	}
}
