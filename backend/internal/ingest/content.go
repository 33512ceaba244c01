package ingest

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText flattens rich journal content to plain text: markup is
// dropped, script and style subtrees are removed entirely, and
// whitespace collapses to single spaces. Plain input passes through
// with only the whitespace normalization.
func PlainText(content string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return collapse(content)
	}
	doc.Find("script, style, noscript").Remove()
	return collapse(doc.Text())
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
