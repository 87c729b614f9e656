package vseprosport

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/Lenar23/sfmp-vseprosport-ru/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
)

// Walker drives pagination over the forecast listing. Fetches are
// strictly sequential with a randomized politeness delay between them;
// the delay is part of the externally observed request rate, not an
// implementation detail.
type Walker struct {
	client   *Client
	minDelay time.Duration
	maxDelay time.Duration
}

type WalkerOptions struct {
	// politeness delay bounds, defaults to 1s..3s when both are zero
	MinDelay time.Duration
	MaxDelay time.Duration
}

func NewWalker(client *Client, opts WalkerOptions) *Walker {
	min, max := opts.MinDelay, opts.MaxDelay
	if min == 0 && max == 0 {
		min, max = time.Second, time.Second*3
	}
	if max < min {
		max = min
	}
	return &Walker{
		client:   client,
		minDelay: min,
		maxDelay: max,
	}
}

// PageCount reads the pagination control: fewer than 2 page links means
// a single page, otherwise the second-to-last link carries the last
// page number (the last one is the "next" arrow).
func PageCount(doc *goquery.Document) int {
	links := doc.Find(".pagination a.page-link")
	if links.Length() < 2 {
		return 1
	}
	label := strings.TrimSpace(links.Eq(links.Length() - 2).Text())
	pages, err := strconv.Atoi(label)
	if err != nil || pages < 1 {
		return 1
	}
	return pages
}

// Walk fetches every listing page starting at startUrl and extracts
// each linked forecast detail. Individual page or detail failures are
// logged and skipped; only an unreachable first listing page fails the
// walk. Ordering follows page order, then in-page link order.
func (w *Walker) Walk(ctx context.Context, startUrl string) ([]Forecast, error) {
	ctx, span := tracer.Start(ctx, "Walk")
	defer span.End()

	doc, err := w.client.FetchDocument(ctx, startUrl)
	if err != nil {
		return nil, fmt.Errorf("fetch listing page %q: %w", startUrl, err)
	}

	pages := PageCount(doc)
	span.SetAttributes(attribute.Int("pages", pages))
	slog.InfoContext(ctx, "walking forecast listing", "url", startUrl, "pages", pages)

	var forecasts []Forecast
	for page := 1; page <= pages; page++ {
		if page > 1 {
			if err := w.sleep(ctx); err != nil {
				return forecasts, err
			}
			pageUrl := fmt.Sprintf("%s/%d", startUrl, page)
			doc, err = w.client.FetchDocument(ctx, pageUrl)
			if err != nil {
				slog.ErrorContext(ctx, "failed to fetch listing page", "url", pageUrl, "err", err)
				continue
			}
		}
		slog.InfoContext(ctx, "parsing page", "page", page, "of", pages)
		forecasts = append(forecasts, w.walkPage(ctx, doc)...)
	}
	return forecasts, nil
}

func (w *Walker) walkPage(ctx context.Context, doc *goquery.Document) []Forecast {
	// teaser cards are the anchors wrapping a div; bare text links in
	// the same list are navigation noise
	teasers := doc.Find("div.forecast-list a").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Find("div").Length() > 0
	})

	var out []Forecast
	for _, anchor := range htmlutil.GetAnchors(teasers) {
		if anchor.Href == "" {
			continue
		}
		if err := w.sleep(ctx); err != nil {
			return out
		}

		detail, err := w.client.FetchDocument(ctx, anchor.Href)
		if err != nil {
			slog.ErrorContext(ctx, "failed to fetch forecast detail", "url", anchor.Href, "err", err)
			continue
		}
		forecast, ok := ExtractForecast(ctx, detail, w.client.BaseUrl.String())
		if !ok {
			slog.WarnContext(ctx, "document is not a forecast detail page", "url", anchor.Href)
			continue
		}
		out = append(out, forecast)
	}
	return out
}

func (w *Walker) sleep(ctx context.Context) error {
	delay := w.minDelay
	if w.maxDelay > w.minDelay {
		delay += rand.N(w.maxDelay - w.minDelay)
	}
	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
