package vseprosport

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Lenar23/sfmp-vseprosport-ru/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
)

// ExtractForecast turns one detail page into a Forecast. It returns
// false when the primary heading is missing, which is how 404 pages and
// redirect landings look; a partial record is never returned. Every
// other lookup is optional and falls back to a zero value or, for
// PostedAt, the current time.
func ExtractForecast(ctx context.Context, doc *goquery.Document, baseUrl string) (Forecast, bool) {
	_, span := tracer.Start(ctx, "ExtractForecast")
	defer span.End()

	heading := doc.Find("h1.h1")
	if heading.Length() == 0 {
		return Forecast{}, false
	}

	f := Forecast{
		Title: htmlutil.CleanText(heading.First().Text()),
		Author: Author{
			Name:     htmlutil.CleanText(doc.Find("div.author-info div.d-flex span").First().Text()),
			PhotoUrl: baseUrl + doc.Find(`div.author-info source[type="image/jpg"]`).First().AttrOr("srcset", ""),
		},
		Sport:       htmlutil.CleanText(doc.Find("div.author-info span.sport").First().Text()),
		Tournament:  htmlutil.CleanText(doc.Find("div.top-prediction div.tournamentplace span").First().Text()),
		Teams:       getTeams(doc),
		EventTime:   doc.Find("div.col-4 time").First().AttrOr("datetime", ""),
		Description: strings.TrimSpace(doc.Find("div p").First().Text()),
		Bookmakers:  getBookmakers(doc),
		Bets:        getBets(doc),
		Content:     getContent(doc),
		PostedAt:    getPostedAt(doc, time.Now()),
	}

	span.SetAttributes(attribute.String("title", f.Title))
	return f, true
}

func getBookmakers(doc *goquery.Document) []string {
	names := []string{}
	doc.Find("div.bonus-item-bet picture").Each(func(_ int, s *goquery.Selection) {
		names = append(names, s.Find("img").First().AttrOr("title", ""))
	})
	return names
}

// getBets associates the i-th bet block with the i-th bookmaker name at
// extraction time. The bookmaker list is recomputed here on purpose so
// the keys cannot drift from getContent's even if the blocks move
// between calls.
func getBets(doc *goquery.Document) map[string]float64 {
	names := getBookmakers(doc)
	rates := map[string]float64{}
	doc.Find("div.bonus-item-bet").Each(func(i int, s *goquery.Selection) {
		if i >= len(names) {
			return
		}
		// unparseable rates become 0, same as the site serving an
		// empty span
		rate, _ := strconv.ParseFloat(strings.TrimSpace(s.Find("span").First().Text()), 64)
		rates[names[i]] = rate
	})
	return rates
}

// getContent concatenates the prediction paragraphs per bonus block. A
// paragraph carrying an emphasis marker is treated as a sentence
// boundary and gets a ". " appended.
func getContent(doc *goquery.Document) map[string]string {
	names := getBookmakers(doc)
	content := map[string]string{}
	doc.Find("section.prediction-section div.default-content div.bonus-item").Each(func(i int, s *goquery.Selection) {
		if i >= len(names) {
			return
		}
		var text strings.Builder
		s.Find("p").Each(func(_ int, p *goquery.Selection) {
			text.WriteString(p.Text())
			if p.Find("strong").Length() > 0 {
				text.WriteString(". ")
			}
		})
		content[names[i]] = strings.TrimRight(text.String(), " \t\n\r")
	})
	return content
}

func getTeams(doc *goquery.Document) [2]string {
	var teams [2]string
	doc.Find("div.top-prediction div.row div.col-sm div.text-center").Each(func(i int, s *goquery.Selection) {
		if i >= len(teams) {
			return
		}
		teams[i] = htmlutil.CleanText(s.Find("div.team-img span").First().Text())
	})
	return teams
}

var publishedHours = regexp.MustCompile(`\d+`)

// getPostedAt reads the "published N hours ago" marker. Absence of the
// marker is normal and yields `now`.
func getPostedAt(doc *goquery.Document, now time.Time) int64 {
	published := doc.Find("span.published")
	if published.Length() == 0 {
		return now.Unix()
	}
	match := publishedHours.FindString(published.First().Text())
	hours, err := strconv.Atoi(match)
	if err != nil {
		return now.Unix()
	}
	return now.Add(-time.Duration(hours) * time.Hour).Unix()
}
