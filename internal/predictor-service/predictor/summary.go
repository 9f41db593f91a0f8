package predictor

import (
	"github.com/radieske/football-ai-predictor/internal/predictor-service/fixtures"
)

const (
	MaxFixtures = 10
	unknownTeam = "Unknown"
)

// FixtureSummary é o recorte de cada partida enviado ao modelo
type FixtureSummary struct {
	ID     int    `json:"id"`
	Home   string `json:"home"`
	Away   string `json:"away"`
	Date   string `json:"date"`
	Status string `json:"status"`

	homeID int
	awayID int
}

// Summarize recorta as primeiras `limit` partidas na ordem da fonte
// Itens que não decodificam são pulados (não são repostos)
func Summarize(env fixtures.Envelope, limit int) (out []FixtureSummary, skipped int) {
	if limit > 0 && len(env.Response) > limit {
		env.Response = env.Response[:limit]
	}
	fx, skipped := env.Fixtures()

	out = make([]FixtureSummary, 0, len(fx))
	for _, f := range fx {
		s := FixtureSummary{
			ID:     f.Fixture.ID,
			Home:   f.Teams.Home.Name,
			Away:   f.Teams.Away.Name,
			Date:   f.Fixture.Date,
			Status: f.Fixture.Status.Short,
			homeID: f.Teams.Home.ID,
			awayID: f.Teams.Away.ID,
		}
		if s.Home == "" {
			s.Home = unknownTeam
		}
		if s.Away == "" {
			s.Away = unknownTeam
		}
		out = append(out, s)
	}
	return out, skipped
}
