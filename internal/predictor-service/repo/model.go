package repo

import (
	"time"

	json "github.com/goccy/go-json"
)

// PredictionRecord é uma linha de ai_predictions (uma por partida por pedido)
type PredictionRecord struct {
	LeagueID       int             `json:"league_id"`
	Season         int             `json:"season"`
	HomeTeam       string          `json:"home_team"`
	AwayTeam       string          `json:"away_team"`
	PredictionType string          `json:"prediction_type"`
	Prediction     string          `json:"prediction"`
	Probability    int             `json:"probability"`
	Reasoning      string          `json:"reasoning"`
	Tweet          string          `json:"tweet"`
	PromptVersion  string          `json:"prompt_version"`
	PlayerSnapshot json.RawMessage `json:"player_snapshot,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}
