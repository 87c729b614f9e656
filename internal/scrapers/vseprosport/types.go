package vseprosport

type Author struct {
	Name     string
	PhotoUrl string
}

// Forecast is the canonical record built from one forecast detail page.
// Bets and Content are keyed by bookmaker name; the i-th entry of
// Bookmakers corresponds to the i-th bonus block of the source page, but
// consumers must always look entries up by name, never by index.
type Forecast struct {
	Title       string
	Author      Author
	Sport       string
	Tournament  string
	Teams       [2]string
	EventTime   string
	PostedAt    int64
	Description string
	Bookmakers  []string
	Bets        map[string]float64
	Content     map[string]string
}
