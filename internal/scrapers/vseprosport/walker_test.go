package vseprosport

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Lenar23/sfmp-vseprosport-ru/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func TestPageCount(t *testing.T) {
	testCases := []struct {
		name     string
		html     string
		expected int
	}{
		{
			name:     "no pagination control",
			html:     `<html><body><div class="forecast-list"></div></body></html>`,
			expected: 1,
		},
		{
			name:     "single link",
			html:     `<html><body><div class="pagination"><a class="page-link">1</a></div></body></html>`,
			expected: 1,
		},
		{
			name: "labels one through five",
			html: `<html><body><div class="pagination">
				<a class="page-link">1</a><a class="page-link">2</a><a class="page-link">3</a>
				<a class="page-link">4</a><a class="page-link">5</a>
			</div></body></html>`,
			expected: 4,
		},
		{
			name: "non numeric label",
			html: `<html><body><div class="pagination">
				<a class="page-link">prev</a><a class="page-link">next</a>
			</div></body></html>`,
			expected: 1,
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			doc := docFromString(t, test.html)
			require.Equal(t, test.expected, PageCount(doc))
		})
	}
}

func detailHtml(title string) string {
	return fmt.Sprintf(`<html><body>
<h1 class="h1">%s</h1>
<div class="bonus-item-bet"><picture><img title="BetX"></picture><span>1.85</span></div>
<section class="prediction-section"><div class="default-content">
	<div class="bonus-item"><p>Pick home win</p></div>
</div></section>
</body></html>`, title)
}

const listingPage1 = `<html><body>
<div class="forecast-list">
	<a href="/forecast/a"><div class="teaser">Team A vs Team B</div></a>
	<a href="/about">plain navigation link</a>
	<a href="/forecast/bad"><div class="teaser">Broken teaser</div></a>
</div>
<div class="pagination">
	<a class="page-link" href="/forecasts">1</a>
	<a class="page-link" href="/forecasts/2">2</a>
	<a class="page-link" href="/forecasts/2">»</a>
</div>
</body></html>`

const listingPage2 = `<html><body>
<div class="forecast-list">
	<a href="/forecast/b"><div class="teaser">Team C vs Team D</div></a>
</div>
</body></html>`

func newTestWalker(t *testing.T, serverUrl string) *Walker {
	client, err := NewClient(ClientOptions{BaseUrl: serverUrl})
	require.NoError(t, err)
	return NewWalker(client, WalkerOptions{
		MinDelay: time.Millisecond,
		MaxDelay: time.Millisecond * 2,
	})
}

func TestWalk(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:vseprosport")
	defer cleanup()

	mux := http.NewServeMux()
	mux.HandleFunc("/forecasts", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, listingPage1)
	})
	mux.HandleFunc("/forecasts/2", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, listingPage2)
	})
	mux.HandleFunc("/forecast/a", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, detailHtml("Team A vs Team B"))
	})
	mux.HandleFunc("/forecast/b", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, detailHtml("Team C vs Team D"))
	})
	// detail without the heading marker, must be logged and skipped
	mux.HandleFunc("/forecast/bad", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><p>redirect landing</p></body></html>`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	walker := newTestWalker(t, server.URL)
	forecasts, err := walker.Walk(context.Background(), server.URL+"/forecasts")
	require.NoError(t, err)

	// the bad detail is omitted, ordering follows page then link order
	require.Len(t, forecasts, 2)
	require.Equal(t, "Team A vs Team B", forecasts[0].Title)
	require.Equal(t, "Team C vs Team D", forecasts[1].Title)
}

func TestWalkSkipsFailedDetailFetch(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:vseprosport")
	defer cleanup()

	mux := http.NewServeMux()
	mux.HandleFunc("/forecasts", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, listingPage1)
	})
	mux.HandleFunc("/forecast/a", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, detailHtml("Team A vs Team B"))
	})
	mux.HandleFunc("/forecast/bad", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	// page 2 unavailable as well, the whole page is skipped
	server := httptest.NewServer(mux)
	defer server.Close()

	walker := newTestWalker(t, server.URL)
	forecasts, err := walker.Walk(context.Background(), server.URL+"/forecasts")
	require.NoError(t, err)

	require.Len(t, forecasts, 1)
	require.Equal(t, "Team A vs Team B", forecasts[0].Title)
}

func TestWalkInitialPageUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	walker := newTestWalker(t, server.URL)
	_, err := walker.Walk(context.Background(), server.URL+"/forecasts")
	require.Error(t, err)
}
