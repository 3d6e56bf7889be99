package parser

import (
	"testing"

	"github.com/dtnitsch/serp-benchmark/models"
)

func TestExtractZones(t *testing.T) {
	p := &Parser{}

	tests := []struct {
		name string
		html string
		want models.PageText
	}{
		{
			name: "empty markup",
			html: "",
			want: models.PageText{},
		},
		{
			name: "whitespace markup",
			html: "   \n ",
			want: models.PageText{},
		},
		{
			name: "all zones lowercased",
			html: `<html><head><title>Купить Диван</title></head>
<body><h1>Диваны В Москве</h1><p>Лучшие ДИВАНЫ</p></body></html>`,
			want: models.PageText{
				Title:   "купить диван",
				Heading: "диваны в москве",
				Body:    "диваны в москве лучшие диваны",
			},
		},
		{
			name: "every h1 in document order",
			html: `<body><h1>Первый</h1><p>текст</p><h1>Второй <span>заголовок</span></h1></body>`,
			want: models.PageText{
				Heading: "первый второй заголовок",
				Body:    "первый текст второй заголовок",
			},
		},
		{
			name: "scripts and styles are not visible",
			html: `<html><head><style>p{color:red}</style></head><body><script>var x = "диван";</script><p>кресло</p><noscript>включите js</noscript></body></html>`,
			want: models.PageText{
				Body: "кресло",
			},
		},
		{
			name: "blocks do not glue words together",
			html: `<div><p>купить</p><p>диван</p></div><ul><li>один</li><li>два</li></ul>`,
			want: models.PageText{
				Body: "купить диван один два",
			},
		},
		{
			name: "inline tags keep words whole",
			html: `<p>ди<b>ван</b> <a href="/x">недорого</a></p>`,
			want: models.PageText{
				Body: "диван недорого",
			},
		},
		{
			name: "malformed markup degrades gracefully",
			html: `<body><p>кот <div>котел</p></span>`,
			want: models.PageText{
				Body: "кот котел",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.ExtractZones(tt.html)
			if got != tt.want {
				t.Errorf("ExtractZones() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExtractZones_FirstTitleWins(t *testing.T) {
	p := &Parser{}
	got := p.ExtractZones(`<html><head><title>Один</title><title>Два</title></head><body></body></html>`)
	if got.Title != "один" {
		t.Errorf("Title = %q, want %q", got.Title, "один")
	}
}

func TestPageText_Combined(t *testing.T) {
	pt := models.PageText{Title: "a", Heading: "b", Body: "c"}
	if got := pt.Combined(); got != "a b c" {
		t.Errorf("Combined() = %q, want %q", got, "a b c")
	}
}

func TestDescribe(t *testing.T) {
	p := &Parser{}

	if got := p.Describe("https://example.com", ""); got != (Description{}) {
		t.Errorf("Describe(empty) = %+v, want zero", got)
	}

	html := `<html><head><title>Диваны | Мебельный</title>
<meta property="og:site_name" content="Мебельный"></head>
<body><article><h1>Диваны</h1><p>` + longParagraph() + `</p></article></body></html>`

	got := p.Describe("https://example.com/divany", html)
	if got.SiteName != "Мебельный" {
		t.Errorf("SiteName = %q, want %q", got.SiteName, "Мебельный")
	}
	if got.Title == "" {
		t.Error("Title is empty")
	}
}

func longParagraph() string {
	s := ""
	for i := 0; i < 20; i++ {
		s += "Мягкий угловой диван с ящиком для белья подойдет для небольшой гостиной. "
	}
	return s
}
