package forecastdb

import (
	"context"
	"database/sql"
	"errors"
)

// ErrNotFound signals "must be registered", not a failure. Lookups
// never mutate state.
var ErrNotFound = errors.New("entity not found")

// ErrDependencyUnresolved wraps a lookup that came back empty at a
// point where registration order guarantees the row should exist. It is
// fatal for the current forecast only.
var ErrDependencyUnresolved = errors.New("dependency unresolved")

func (s *Store) lookupID(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) SourceIDByName(ctx context.Context, name string) (int64, error) {
	return s.lookupID(ctx, `SELECT id FROM sources WHERE name = ? LIMIT 1`, name)
}

func (s *Store) SourceIDByUrl(ctx context.Context, url string) (int64, error) {
	return s.lookupID(ctx, `SELECT id FROM sources WHERE url = ? LIMIT 1`, url)
}

func (s *Store) AuthorID(ctx context.Context, name string) (int64, error) {
	return s.lookupID(ctx, `SELECT id FROM authors WHERE name = ? LIMIT 1`, name)
}

func (s *Store) SportID(ctx context.Context, name string) (int64, error) {
	return s.lookupID(ctx, `SELECT id FROM sports WHERE name = ? LIMIT 1`, name)
}

func (s *Store) TournamentID(ctx context.Context, name string) (int64, error) {
	return s.lookupID(ctx, `SELECT id FROM tournaments WHERE name = ? LIMIT 1`, name)
}

func (s *Store) TeamID(ctx context.Context, name string) (int64, error) {
	return s.lookupID(ctx, `SELECT id FROM teams WHERE name = ? LIMIT 1`, name)
}

func (s *Store) BookmakerID(ctx context.Context, name string) (int64, error) {
	return s.lookupID(ctx, `SELECT id FROM bookmakers WHERE name = ? LIMIT 1`, name)
}

func (s *Store) BetID(ctx context.Context, rate float64, marketID, outcomeID int64) (int64, error) {
	return s.lookupID(ctx,
		`SELECT id FROM bets WHERE rate = ? AND market_id = ? AND outcome_id = ? LIMIT 1`,
		rate, marketID, outcomeID)
}

func (s *Store) ForecastTypeID(ctx context.Context, name string) (int64, error) {
	return s.lookupID(ctx, `SELECT id FROM forecast_types WHERE name = ? LIMIT 1`, name)
}

// EventID resolves an event by the names of its dimensions rather than
// their ids, spanning the natural key across the related tables.
func (s *Store) EventID(ctx context.Context, sport, tournament, team1, team2 string) (int64, error) {
	return s.lookupID(ctx, `
		SELECT events.id FROM events
		JOIN sports ON events.sport_id = sports.id
		JOIN tournaments ON events.tournament_id = tournaments.id
		JOIN teams AS t1 ON events.team1_id = t1.id
		JOIN teams AS t2 ON events.team2_id = t2.id
		WHERE sports.name = ? AND tournaments.name = ? AND t1.name = ? AND t2.name = ?
		LIMIT 1`,
		sport, tournament, team1, team2)
}

func (s *Store) eventIDByKeys(ctx context.Context, sportID, tournamentID, team1ID, team2ID int64) (int64, error) {
	return s.lookupID(ctx,
		`SELECT id FROM events
		 WHERE sport_id = ? AND tournament_id = ? AND team1_id = ? AND team2_id = ?
		 LIMIT 1`,
		sportID, tournamentID, team1ID, team2ID)
}
