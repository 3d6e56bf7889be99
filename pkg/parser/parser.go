package parser

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/serp-benchmark/models"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// invisibleTags never contribute to the body zone.
const invisibleTags = "script,style,noscript,template,iframe,svg"

// inlineTags do not break words: "ди<b>ван</b>" stays one word.
var inlineTags = map[string]struct{}{
	"a": {}, "abbr": {}, "b": {}, "bdi": {}, "bdo": {}, "cite": {}, "code": {},
	"data": {}, "dfn": {}, "em": {}, "font": {}, "i": {}, "kbd": {}, "mark": {},
	"q": {}, "s": {}, "samp": {}, "small": {}, "span": {}, "strong": {}, "sub": {},
	"sup": {}, "time": {}, "u": {}, "var": {},
}

type Parser struct{}

// Description carries readability metadata used to label a page in reports.
type Description struct {
	Title    string
	SiteName string
}

// ExtractZones isolates the title, level-1 heading and visible body text of a page.
// All zones are lowercased. Empty or unparsable markup yields empty zones.
func (p *Parser) ExtractZones(markup string) models.PageText {
	if strings.TrimSpace(markup) == "" {
		return models.PageText{}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return models.PageText{}
	}

	title := normalizeText(doc.Find("title").First().Text())

	var headings []string
	doc.Find("h1").Each(func(i int, s *goquery.Selection) {
		if text := visibleText(s.Nodes); text != "" {
			headings = append(headings, text)
		}
	})

	doc.Find(invisibleTags).Remove()
	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}

	return models.PageText{
		Title:   strings.ToLower(title),
		Heading: strings.ToLower(strings.Join(headings, " ")),
		Body:    strings.ToLower(visibleText(body.Nodes)),
	}
}

// Describe uses go-readability to find the page's own title and site name.
// Failures return an empty Description.
func (p *Parser) Describe(rawURL, markup string) Description {
	if strings.TrimSpace(markup) == "" {
		return Description{}
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return Description{}
	}

	readabilityParser := readability.NewParser()
	article, err := readabilityParser.Parse(strings.NewReader(markup), parsedURL)
	if err != nil {
		return Description{}
	}

	return Description{
		Title:    normalizeText(article.Title),
		SiteName: normalizeText(article.SiteName),
	}
}

// visibleText concatenates the text nodes under nodes, separating block-level
// elements with a space, and normalizes whitespace.
func visibleText(nodes []*html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.CommentNode, html.DoctypeNode:
			return
		}

		_, inline := inlineTags[n.Data]
		block := n.Type == html.ElementNode && !inline
		if block {
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			b.WriteString(" ")
		}
	}

	for _, n := range nodes {
		walk(n)
	}
	return normalizeText(b.String())
}

// normalizeText collapses every run of whitespace, newlines included, into a
// single space.
func normalizeText(input string) string {
	return strings.Join(strings.Fields(input), " ")
}
