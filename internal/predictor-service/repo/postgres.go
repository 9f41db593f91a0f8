package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrUnavailable = errors.New("prediction store not configured")

// Sink grava e lista predições
type Sink interface {
	Available() bool
	Save(ctx context.Context, rec PredictionRecord) error
	ListRecent(ctx context.Context, limit int) ([]PredictionRecord, error)
}

// Postgres grava predições na tabela ai_predictions (Supabase)
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

func (p *Postgres) Available() bool { return p.db != nil }

// Save insere o registro; created_at vazio usa o relógio local
func (p *Postgres) Save(ctx context.Context, rec PredictionRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO ai_predictions
		  (league_id, season, home_team, away_team, prediction_type, prediction,
		   probability, reasoning, tweet, prompt_version, player_snapshot, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11::jsonb,$12)`,
		rec.LeagueID, rec.Season, rec.HomeTeam, rec.AwayTeam, rec.PredictionType, rec.Prediction,
		rec.Probability, rec.Reasoning, rec.Tweet, rec.PromptVersion, nullableJSON(rec.PlayerSnapshot), rec.CreatedAt,
	)
	return err
}

// ListRecent devolve as últimas predições, mais novas primeiro
func (p *Postgres) ListRecent(ctx context.Context, limit int) ([]PredictionRecord, error) {
	const q = `
		SELECT league_id, season, home_team, away_team, prediction_type, prediction,
		       probability, reasoning, tweet, prompt_version, player_snapshot, created_at
		FROM ai_predictions
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := p.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]PredictionRecord, 0, limit)
	for rows.Next() {
		var (
			rec                       PredictionRecord
			reasoning, tweet, version sql.NullString
			snapshot                  []byte
		)
		if err := rows.Scan(
			&rec.LeagueID, &rec.Season, &rec.HomeTeam, &rec.AwayTeam, &rec.PredictionType, &rec.Prediction,
			&rec.Probability, &reasoning, &tweet, &version, &snapshot, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		rec.Reasoning = reasoning.String
		rec.Tweet = tweet.String
		rec.PromptVersion = version.String
		if len(snapshot) > 0 {
			rec.PlayerSnapshot = snapshot
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// jsonb vai como texto; vazio vira NULL
func nullableJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

// Unavailable é usado quando não há DSN ou o banco não respondeu no start
type Unavailable struct{}

func (Unavailable) Available() bool { return false }

func (Unavailable) Save(context.Context, PredictionRecord) error { return ErrUnavailable }

func (Unavailable) ListRecent(context.Context, int) ([]PredictionRecord, error) {
	return nil, ErrUnavailable
}
