package forecastdb

import (
	"context"
	"errors"
	"fmt"
)

// every bet harvested from the site is a plain win/lose single on the
// same market and outcome
const (
	defaultMarketID  = 1
	defaultOutcomeID = 1
)

// The registrars all follow the same idempotency pattern: resolve by
// natural key, no-op when found, insert when absent. The check and the
// insert are two statements, not one transaction; see the Store doc
// comment for the single-writer assumption this rests on.

func (s *Store) RegisterSource(ctx context.Context) error {
	_, err := s.SourceIDByName(ctx, s.sourceName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sources (name, url) VALUES (?, ?)`,
		s.sourceName, s.sourceUrl)
	return err
}

func (s *Store) RegisterAuthor(ctx context.Context, name, photoUrl string) error {
	_, err := s.AuthorID(ctx, name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}
	sourceID, err := s.SourceIDByUrl(ctx, s.sourceUrl)
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: source %q", ErrDependencyUnresolved, s.sourceUrl)
	}
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO authors (source_id, name, photo_url) VALUES (?, ?, ?)`,
		sourceID, name, photoUrl)
	return err
}

func (s *Store) RegisterSport(ctx context.Context, name string) error {
	_, err := s.SportID(ctx, name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO sports (name) VALUES (?)`, name)
	return err
}

func (s *Store) RegisterTournament(ctx context.Context, name, sport string) error {
	_, err := s.TournamentID(ctx, name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}
	sportID, err := s.SportID(ctx, sport)
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: sport %q", ErrDependencyUnresolved, sport)
	}
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO tournaments (name, sport_id) VALUES (?, ?)`,
		name, sportID)
	return err
}

func (s *Store) RegisterTeam(ctx context.Context, name string) error {
	_, err := s.TeamID(ctx, name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO teams (name) VALUES (?)`, name)
	return err
}

func (s *Store) RegisterBookmaker(ctx context.Context, name string) error {
	_, err := s.BookmakerID(ctx, name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO bookmakers (name) VALUES (?)`, name)
	return err
}

func (s *Store) RegisterBet(ctx context.Context, rate float64) error {
	_, err := s.BetID(ctx, rate, defaultMarketID, defaultOutcomeID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO bets (rate, market_id, outcome_id) VALUES (?, ?, ?)`,
		rate, defaultMarketID, defaultOutcomeID)
	return err
}

func (s *Store) RegisterForecastType(ctx context.Context, name string) error {
	_, err := s.ForecastTypeID(ctx, name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO forecast_types (name) VALUES (?)`, name)
	return err
}

// RegisterEvent resolves its four dimension ids immediately before the
// existence check; any of them still missing here is a registration
// ordering bug upstream.
func (s *Store) RegisterEvent(ctx context.Context, sport, tournament, team1, team2 string) error {
	sportID, err := s.SportID(ctx, sport)
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: sport %q", ErrDependencyUnresolved, sport)
	}
	if err != nil {
		return err
	}
	tournamentID, err := s.TournamentID(ctx, tournament)
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: tournament %q", ErrDependencyUnresolved, tournament)
	}
	if err != nil {
		return err
	}
	team1ID, err := s.TeamID(ctx, team1)
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: team %q", ErrDependencyUnresolved, team1)
	}
	if err != nil {
		return err
	}
	team2ID, err := s.TeamID(ctx, team2)
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: team %q", ErrDependencyUnresolved, team2)
	}
	if err != nil {
		return err
	}

	_, err = s.eventIDByKeys(ctx, sportID, tournamentID, team1ID, team2ID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO events (sport_id, tournament_id, team1_id, team2_id) VALUES (?, ?, ?, ?)`,
		sportID, tournamentID, team1ID, team2ID)
	return err
}
