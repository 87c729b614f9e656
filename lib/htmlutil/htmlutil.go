package htmlutil

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

var innerWhitespace = regexp.MustCompile(`\s\s+`)

// CleanText trims a scraped text fragment down to something worth
// storing: printable runes only, outer whitespace removed, inner runs
// of whitespace collapsed to one space.
func CleanText(s string) string {
	var printable strings.Builder
	for _, c := range s {
		if unicode.IsPrint(c) {
			printable.WriteRune(c)
		}
	}
	out := strings.Trim(printable.String(), " \t\n")
	return innerWhitespace.ReplaceAllString(out, " ")
}

type Anchor struct {
	Name string
	Href string
}

// GetAnchors collects the href and cleaned text of every node in the
// selection. Nodes without an href attribute are kept with an empty
// Href so callers can filter.
func GetAnchors(sel *goquery.Selection) []Anchor {
	anchors := []Anchor{}
	sel.Each(func(_ int, s *goquery.Selection) {
		anchors = append(anchors, Anchor{
			Name: CleanText(s.Text()),
			Href: s.AttrOr("href", ""),
		})
	})
	return anchors
}
