package fetch

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

var whitespaceReplacer = strings.NewReplacer("\n", " ", "\t", " ", "\r", " ")

// extractContent pulls the page title and readable body text out of an HTML
// document, dropping navigation chrome and scripts.
func extractContent(r io.Reader, maxLen int) (title, content string, err error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", "", fmt.Errorf("parse html: %w", err)
	}

	title = strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find("script, style, nav, footer, header, aside").Remove()

	body := doc.Find("body")
	var text string
	if body.Length() > 0 {
		text = body.Text()
	} else {
		text = doc.Text()
	}

	text = whitespaceReplacer.Replace(text)
	text = strings.Join(strings.Fields(text), " ")

	if len(text) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "..."
	}
	return title, text, nil
}
