package forecastdb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Lenar23/sfmp-vseprosport-ru/internal/scrapers/vseprosport"

	"go.opentelemetry.io/otel/attribute"
)

// PersistForecast decomposes one forecast into dimension rows in
// dependency order, then writes one fact row per bookmaker. Rates and
// prediction texts are looked up by bookmaker name; positional indices
// never cross this boundary.
func (s *Store) PersistForecast(ctx context.Context, f vseprosport.Forecast) error {
	ctx, span := tracer.Start(ctx, "PersistForecast")
	defer span.End()
	span.SetAttributes(attribute.String("title", f.Title))

	if err := s.registerDimensions(ctx, f); err != nil {
		return err
	}

	sourceID, err := s.SourceIDByUrl(ctx, s.sourceUrl)
	if err != nil {
		return resolveErr("source", s.sourceUrl, err)
	}
	authorID, err := s.AuthorID(ctx, f.Author.Name)
	if err != nil {
		return resolveErr("author", f.Author.Name, err)
	}
	eventID, err := s.EventID(ctx, f.Sport, f.Tournament, f.Teams[0], f.Teams[1])
	if err != nil {
		return resolveErr("event", f.Title, err)
	}
	typeID, err := s.ForecastTypeID(ctx, s.forecastType)
	if err != nil {
		return resolveErr("forecast type", s.forecastType, err)
	}

	for _, bookmaker := range f.Bookmakers {
		rate := f.Bets[bookmaker]
		content := f.Content[bookmaker]

		bookmakerID, err := s.BookmakerID(ctx, bookmaker)
		if err != nil {
			return resolveErr("bookmaker", bookmaker, err)
		}
		betID, err := s.BetID(ctx, rate, defaultMarketID, defaultOutcomeID)
		if err != nil {
			return resolveErr("bet", bookmaker, err)
		}

		exists, err := s.factExists(ctx, eventID, bookmakerID, betID, content)
		if err != nil {
			return fmt.Errorf("check fact row for %q: %w", bookmaker, err)
		}
		if exists {
			slog.DebugContext(ctx, "fact row already present, skipping",
				"title", f.Title, "bookmaker", bookmaker)
			continue
		}

		_, err = s.db.ExecContext(ctx, `
			INSERT INTO forecasts (
				source_id, author_id, event_id, bet_id,
				title, description, content,
				forecast_type_id, bookmaker_id, posted_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sourceID, authorID, eventID, betID,
			f.Title, f.Description, content,
			typeID, bookmakerID, f.PostedAt)
		if err != nil {
			return fmt.Errorf("insert fact row for %q: %w", bookmaker, err)
		}
	}
	return nil
}

// registerDimensions runs the registrars in topological order so that
// every foreign key resolves before its dependent is written:
// sources, authors, sports, tournaments, teams, bookmakers, bets,
// forecast_types, events.
func (s *Store) registerDimensions(ctx context.Context, f vseprosport.Forecast) error {
	if err := s.RegisterSource(ctx); err != nil {
		return fmt.Errorf("register source: %w", err)
	}
	if err := s.RegisterAuthor(ctx, f.Author.Name, f.Author.PhotoUrl); err != nil {
		return fmt.Errorf("register author %q: %w", f.Author.Name, err)
	}
	if err := s.RegisterSport(ctx, f.Sport); err != nil {
		return fmt.Errorf("register sport %q: %w", f.Sport, err)
	}
	if err := s.RegisterTournament(ctx, f.Tournament, f.Sport); err != nil {
		return fmt.Errorf("register tournament %q: %w", f.Tournament, err)
	}
	for _, team := range f.Teams {
		if err := s.RegisterTeam(ctx, team); err != nil {
			return fmt.Errorf("register team %q: %w", team, err)
		}
	}
	for _, bookmaker := range f.Bookmakers {
		if err := s.RegisterBookmaker(ctx, bookmaker); err != nil {
			return fmt.Errorf("register bookmaker %q: %w", bookmaker, err)
		}
	}
	for _, bookmaker := range f.Bookmakers {
		if err := s.RegisterBet(ctx, f.Bets[bookmaker]); err != nil {
			return fmt.Errorf("register bet for %q: %w", bookmaker, err)
		}
	}
	if err := s.RegisterForecastType(ctx, s.forecastType); err != nil {
		return fmt.Errorf("register forecast type: %w", err)
	}
	if err := s.RegisterEvent(ctx, f.Sport, f.Tournament, f.Teams[0], f.Teams[1]); err != nil {
		return fmt.Errorf("register event: %w", err)
	}
	return nil
}

func (s *Store) factExists(ctx context.Context, eventID, bookmakerID, betID int64, content string) (bool, error) {
	var err error
	switch s.dedup {
	case DedupByEventBookmaker:
		_, err = s.lookupID(ctx,
			`SELECT id FROM forecasts
			 WHERE event_id = ? AND bookmaker_id = ? AND bet_id = ?
			 LIMIT 1`,
			eventID, bookmakerID, betID)
	default:
		_, err = s.lookupID(ctx,
			`SELECT id FROM forecasts WHERE content = ? LIMIT 1`, content)
	}
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func resolveErr(kind, key string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: %s %q", ErrDependencyUnresolved, kind, key)
	}
	return fmt.Errorf("resolve %s %q: %w", kind, key, err)
}
