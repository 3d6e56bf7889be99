package common

import (
	"reflect"
	"testing"
)

func TestSanitizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "  https://example.com  ", want: "https://example.com"},
		{in: "https://example.com,", want: "https://example.com"},
		{in: "'https://example.com/a'", want: "https://example.com/a"},
		{in: "[docs](https://example.com/docs)", want: "https://example.com/docs"},
		{in: "<https://example.com>", want: "https://example.com"},
	}

	for _, tt := range tests {
		if got := SanitizeURL(tt.in); got != tt.want {
			t.Errorf("SanitizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeAndValidateURLs(t *testing.T) {
	in := []string{
		"https://example.com/divany",
		" https://мебель.рф/каталог ",
		"http://127.0.0.1:8080/page?id=1",
		"https://shop.example.com?q=диван",
		"ftp://example.com/file",
		"not a url",
		"",
		"https://example.com{}/x",
	}

	valid, invalid := SanitizeAndValidateURLs(in)

	wantValid := []string{
		"https://example.com/divany",
		"https://мебель.рф/каталог",
		"http://127.0.0.1:8080/page?id=1",
		"https://shop.example.com?q=диван",
	}
	if !reflect.DeepEqual(valid, wantValid) {
		t.Errorf("valid = %q, want %q", valid, wantValid)
	}
	if len(invalid) != 4 {
		t.Errorf("invalid = %q, want 4 entries", invalid)
	}
}

func TestContentHash(t *testing.T) {
	got := ContentHash([]byte("abc"))
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		t.Errorf("ContentHash() = %s, want %s", got, want)
	}
}
