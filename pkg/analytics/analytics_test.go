package analytics

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "empty", text: "", want: nil},
		{name: "punctuation dropped", text: "купить диван, недорого!", want: []string{"купить", "диван", "недорого"}},
		{name: "numbers kept", text: "диван 2 метра", want: []string{"диван", "2", "метра"}},
		{name: "whitespace only", text: " \n\t ", want: nil},
		{name: "latin", text: "buy a sofa.", want: []string{"buy", "a", "sofa"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestTerms_DropsRussianStopwords(t *testing.T) {
	a, err := New(Russian)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	terms, lang := a.Terms("купить диван и кресло в москве, диван")
	want := []string{"купить", "диван", "кресло", "москве", "диван"}
	if !reflect.DeepEqual(terms, want) {
		t.Errorf("Terms() = %q, want %q", terms, want)
	}
	if lang != Russian {
		t.Errorf("language = %q, want %q", lang, Russian)
	}
}

func TestTerms_English(t *testing.T) {
	a, err := New(English)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	terms, _ := a.Terms("the best sofa for the living room")
	want := []string{"best", "sofa", "living", "room"}
	if !reflect.DeepEqual(terms, want) {
		t.Errorf("Terms() = %q, want %q", terms, want)
	}
}

func TestNew_KeepsLanguage(t *testing.T) {
	for _, lang := range []string{Russian, English, Auto} {
		a, err := New(lang)
		if err != nil {
			t.Fatalf("New(%q) failed: %v", lang, err)
		}
		if a.Language() != lang {
			t.Errorf("Language() = %q, want %q", a.Language(), lang)
		}
	}
}

func TestNew_UnknownLanguage(t *testing.T) {
	if _, err := New("klingon"); err == nil {
		t.Error("New() expected error for unknown language")
	}
}

func TestIsStopword(t *testing.T) {
	if !IsStopword("И", Russian) {
		t.Error("expected 'И' to be a Russian stopword")
	}
	if IsStopword("диван", Russian) {
		t.Error("'диван' is not a stopword")
	}
	if !IsStopword("the", English) {
		t.Error("expected 'the' to be an English stopword")
	}
}

func TestDetectLanguage_Auto(t *testing.T) {
	if testing.Short() {
		t.Skip("loads language models")
	}
	a, err := New(Auto)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if got := a.DetectLanguage("this sofa is the most comfortable piece of furniture in our living room"); got != English {
		t.Errorf("DetectLanguage(english text) = %q, want %q", got, English)
	}
	if got := a.DetectLanguage("этот диван самый удобный предмет мебели в нашей гостиной"); got != Russian {
		t.Errorf("DetectLanguage(russian text) = %q, want %q", got, Russian)
	}
}
