package collector

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"funding-digest/internal/utils/text"
)

// summaryRunes bounds the summary kept per article.
const summaryRunes = 400

var stripPolicy = bluemonday.StrictPolicy()

// plainText turns a feed description into at most summaryRunes of plain text.
func plainText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if !strings.Contains(trimmed, "<") {
		return text.Truncate(text.CollapseSpace(html.UnescapeString(trimmed)), summaryRunes)
	}

	var out string
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(trimmed))
	if err == nil {
		doc.Find("script, style, noscript").Remove()
		// Keep words in adjacent blocks apart.
		doc.Find("p, div, li, br, h1, h2, h3, h4").Each(func(_ int, s *goquery.Selection) {
			s.AppendHtml(" ")
		})
		out = doc.Text()
	} else {
		out = html.UnescapeString(stripPolicy.Sanitize(trimmed))
	}

	return text.Truncate(text.CollapseSpace(out), summaryRunes)
}

// cleanHeadline strips markup and entities some feeds leave in titles.
func cleanHeadline(raw string) string {
	if strings.ContainsAny(raw, "<&") {
		raw = html.UnescapeString(stripPolicy.Sanitize(raw))
	}
	return text.CollapseSpace(raw)
}
