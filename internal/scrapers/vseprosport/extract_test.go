package vseprosport

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const baseUrl = "https://www.vseprosport.ru"

func docFromString(t *testing.T, html string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

const detailPage = `<html><body>
<h1 class="h1">Team A vs Team B</h1>
<div class="author-info">
	<div class="d-flex"><span>Ivan Petrov</span></div>
	<picture><source type="image/jpg" srcset="/images/authors/ivan.jpg"></picture>
	<span class="sport">Футбол</span>
</div>
<div class="top-prediction">
	<div class="tournamentplace"><span>Премьер-лига</span></div>
	<div class="row">
		<div class="col-sm"><div class="text-center"><div class="team-img"><span> Team A </span></div></div></div>
		<div class="col-sm"><div class="text-center"><div class="team-img"><span> Team B </span></div></div></div>
	</div>
</div>
<div class="col-4"><time datetime="2024-05-01T19:00:00"></time></div>
<div><p>Главный матч тура.</p></div>
<div class="bonus-item-bet"><picture><img title="BetX"></picture><span>1.85</span></div>
<section class="prediction-section"><div class="default-content">
	<div class="bonus-item"><p>Pick home win</p></div>
</div></section>
</body></html>`

func TestExtractForecast(t *testing.T) {
	doc := docFromString(t, detailPage)

	forecast, ok := ExtractForecast(context.Background(), doc, baseUrl)
	require.True(t, ok)

	require.Equal(t, "Team A vs Team B", forecast.Title)
	require.Equal(t, "Ivan Petrov", forecast.Author.Name)
	require.Equal(t, baseUrl+"/images/authors/ivan.jpg", forecast.Author.PhotoUrl)
	require.Equal(t, "Футбол", forecast.Sport)
	require.Equal(t, "Премьер-лига", forecast.Tournament)
	require.Equal(t, [2]string{"Team A", "Team B"}, forecast.Teams)
	require.Equal(t, "2024-05-01T19:00:00", forecast.EventTime)
	require.Equal(t, "Главный матч тура.", forecast.Description)

	require.Equal(t, []string{"BetX"}, forecast.Bookmakers)
	require.Equal(t, map[string]float64{"BetX": 1.85}, forecast.Bets)
	require.Equal(t, map[string]string{"BetX": "Pick home win"}, forecast.Content)
}

func TestExtractMissingHeading(t *testing.T) {
	doc := docFromString(t, `<html><body><p>страница не найдена</p></body></html>`)

	_, ok := ExtractForecast(context.Background(), doc, baseUrl)
	require.False(t, ok)
}

const twoBookmakerPage = `<html><body>
<h1 class="h1">Team C vs Team D</h1>
<div class="bonus-item-bet"><picture><img title="BetX"></picture><span>1.85</span></div>
<div class="bonus-item-bet"><picture><img title="BetY"></picture></div>
<section class="prediction-section"><div class="default-content">
	<div class="bonus-item"><p>first pick</p></div>
	<div class="bonus-item"><p>second pick, part one</p><p><strong>part two</strong></p></div>
</div></section>
</body></html>`

// every related map must be keyed by the same bookmaker set even when
// a block is missing a rate span
func TestBookmakerAlignment(t *testing.T) {
	doc := docFromString(t, twoBookmakerPage)

	forecast, ok := ExtractForecast(context.Background(), doc, baseUrl)
	require.True(t, ok)

	require.Equal(t, []string{"BetX", "BetY"}, forecast.Bookmakers)
	for _, name := range forecast.Bookmakers {
		require.Contains(t, forecast.Bets, name)
		require.Contains(t, forecast.Content, name)
	}
	require.Len(t, forecast.Bets, len(forecast.Bookmakers))
	require.Len(t, forecast.Content, len(forecast.Bookmakers))

	// missing span parses to a zero rate, the entry still exists
	require.Equal(t, 0.0, forecast.Bets["BetY"])
	// the emphasized paragraph gets a sentence boundary appended
	require.Equal(t, "second pick, part onepart two.", forecast.Content["BetY"])
}

func TestGetPostedAt(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	doc := docFromString(t, `<html><body><span class="published">Опубликовано 5 часов назад</span></body></html>`)
	require.Equal(t, now.Add(-5*time.Hour).Unix(), getPostedAt(doc, now))

	doc = docFromString(t, `<html><body><h1 class="h1">t</h1></body></html>`)
	require.Equal(t, now.Unix(), getPostedAt(doc, now))

	doc = docFromString(t, `<html><body><span class="published">только что</span></body></html>`)
	require.Equal(t, now.Unix(), getPostedAt(doc, now))
}
