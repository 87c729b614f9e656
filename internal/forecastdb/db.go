package forecastdb

import (
	"database/sql"
	"strings"

	_ "embed"

	"go.opentelemetry.io/otel"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

var tracer = otel.Tracer("forecastdb")

// DedupPolicy picks the idempotency key for per-bookmaker fact rows.
type DedupPolicy int

const (
	// DedupByContent skips a fact row when any row with the same
	// prediction text exists. This is the historical behavior; two
	// forecasts with identical commentary will false-positive here.
	DedupByContent DedupPolicy = iota
	// DedupByEventBookmaker skips only when the same
	// (event, bookmaker, bet) triple already has a row.
	DedupByEventBookmaker
)

type Options struct {
	// natural identity of the crawled site, also the url prefix of
	// author photos
	SourceName string
	SourceUrl  string
	// label of the fixed forecast type every fact row gets
	ForecastType string
	Dedup        DedupPolicy
}

// Store owns all reads and writes against the forecast schema. It is
// not safe for concurrent pipeline instances targeting the same
// database: the check-then-insert registrars can race on a shared
// missing natural key.
type Store struct {
	db           *sql.DB
	sourceName   string
	sourceUrl    string
	forecastType string
	dedup        DedupPolicy
}

func NewStore(database *sql.DB, opts Options) *Store {
	if opts.SourceName == "" {
		opts.SourceName = "vseprosport.ru"
	}
	if opts.SourceUrl == "" {
		opts.SourceUrl = "https://www.vseprosport.ru"
	}
	if opts.ForecastType == "" {
		opts.ForecastType = "ординар"
	}
	return &Store{
		db:           database,
		sourceName:   opts.SourceName,
		sourceUrl:    opts.SourceUrl,
		forecastType: opts.ForecastType,
		dedup:        opts.Dedup,
	}
}

// Open opens (or creates) a sqlite database at `path` and applies the
// embedded schema.
func Open(path string, opts Options) (*Store, error) {
	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	_, err = database.Exec(Schema)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		database.Close()
		return nil, err
	}
	return NewStore(database, opts), nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
