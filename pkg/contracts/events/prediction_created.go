package events

import "time"

// Evento publicado no tópico "prediction_created" após gravar a predição
type PredictionCreated struct {
	EventID        string    `json:"event_id"` // uuid gerado na publicação
	LeagueID       int       `json:"league_id"`
	Season         int       `json:"season"`
	HomeTeam       string    `json:"home_team"`
	AwayTeam       string    `json:"away_team"`
	PredictionType string    `json:"prediction_type"` // query do usuário, ex: "over 2.5"
	Prediction     string    `json:"prediction"`      // "OVER", "UNDER", "ANALYZING"
	Probability    int       `json:"probability"`
	PromptVersion  string    `json:"prompt_version"`
	CreatedAt      time.Time `json:"created_at"`
	TsUnixMs       int64     `json:"ts_unix_ms"`
}
