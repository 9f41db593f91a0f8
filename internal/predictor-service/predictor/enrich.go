package predictor

import (
	"context"
	"math"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/radieske/football-ai-predictor/internal/predictor-service/fixtures"
)

// ContextSource fornece dados extras pro prompt v2
type ContextSource interface {
	GetStandings(ctx context.Context, league, season int) fixtures.Envelope
	GetInjuries(ctx context.Context, league, season int) fixtures.Envelope
}

type goals struct {
	For     int `json:"for"`
	Against int `json:"against"`
}

type record struct {
	Played int   `json:"played"`
	Win    int   `json:"win"`
	Draw   int   `json:"draw"`
	Lose   int   `json:"lose"`
	Goals  goals `json:"goals"`
}

type standingRow struct {
	Rank      int           `json:"rank"`
	Team      fixtures.Team `json:"team"`
	Points    int           `json:"points"`
	GoalsDiff int           `json:"goalsDiff"`
	Form      string        `json:"form"`
	All       record        `json:"all"`
	Home      record        `json:"home"`
	Away      record        `json:"away"`
}

type standingsItem struct {
	League struct {
		Standings [][]standingRow `json:"standings"`
	} `json:"league"`
}

type injuryItem struct {
	Player struct {
		ID     int    `json:"id"`
		Name   string `json:"name"`
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"player"`
	Team    fixtures.Team `json:"team"`
	Fixture struct {
		ID int `json:"id"`
	} `json:"fixture"`
}

type tableEntry struct {
	Rank   int    `json:"rank"`
	Team   string `json:"team"`
	Points int    `json:"points"`
	Form   string `json:"form,omitempty"`
}

type teamStat struct {
	Team             string  `json:"team"`
	Played           int     `json:"played"`
	GoalsForPerGame  float64 `json:"goals_for_per_game"`
	GoalsAgstPerGame float64 `json:"goals_against_per_game"`
	HomeGoalsPerGame float64 `json:"home_total_goals_per_game"`
	AwayGoalsPerGame float64 `json:"away_total_goals_per_game"`
}

type missingPlayer struct {
	Team   string `json:"team"`
	Player string `json:"player"`
	Type   string `json:"type,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// enrichment guarda os blocos já serializados pro prompt
type enrichment struct {
	Standings string
	TeamStats string
	Players   string

	byFixture map[int][]missingPlayer
}

func emptyEnrichment() enrichment {
	return enrichment{Standings: "[]", TeamStats: "[]", Players: "{}", byFixture: map[int][]missingPlayer{}}
}

// enrich busca tabela e desfalques; cada parte falha sozinha sem abortar
func (p *Predictor) enrich(ctx context.Context, q Query, games []FixtureSummary) enrichment {
	out := emptyEnrichment()
	if p.Context == nil {
		return out
	}

	if rows, ok := p.standings(ctx, q); ok {
		out.Standings = marshalOr(table(rows), "[]")
		out.TeamStats = marshalOr(teamStats(rows, games), "[]")
	}

	if byFixture, ok := p.injuries(ctx, q, games); ok {
		out.byFixture = byFixture
		out.Players = marshalOr(byFixture, "{}")
	}
	return out
}

func (p *Predictor) standings(ctx context.Context, q Query) ([]standingRow, bool) {
	env := p.Context.GetStandings(ctx, q.League, q.Season)
	if env.Failed() || len(env.Response) == 0 {
		p.Log.Warn("standings unavailable for prompt", zap.String("reason", env.ErrorText()))
		return nil, false
	}

	var item standingsItem
	if err := json.Unmarshal(env.Response[0], &item); err != nil {
		p.Log.Warn("standings undecodable", zap.Error(err))
		return nil, false
	}

	var rows []standingRow
	for _, group := range item.League.Standings {
		rows = append(rows, group...)
	}
	return rows, len(rows) > 0
}

func (p *Predictor) injuries(ctx context.Context, q Query, games []FixtureSummary) (map[int][]missingPlayer, bool) {
	env := p.Context.GetInjuries(ctx, q.League, q.Season)
	if env.Failed() {
		p.Log.Warn("injuries unavailable for prompt", zap.String("reason", env.ErrorText()))
		return nil, false
	}

	inPlay := make(map[int]struct{}, len(games))
	for _, g := range games {
		inPlay[g.ID] = struct{}{}
	}

	out := make(map[int][]missingPlayer)
	for _, raw := range env.Response {
		var it injuryItem
		if err := json.Unmarshal(raw, &it); err != nil {
			continue
		}
		if _, ok := inPlay[it.Fixture.ID]; !ok {
			continue
		}
		out[it.Fixture.ID] = append(out[it.Fixture.ID], missingPlayer{
			Team:   it.Team.Name,
			Player: it.Player.Name,
			Type:   it.Player.Type,
			Reason: it.Player.Reason,
		})
	}
	return out, true
}

func table(rows []standingRow) []tableEntry {
	out := make([]tableEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, tableEntry{Rank: r.Rank, Team: r.Team.Name, Points: r.Points, Form: r.Form})
	}
	return out
}

// teamStats deriva médias de gols só para os times das partidas analisadas
func teamStats(rows []standingRow, games []FixtureSummary) []teamStat {
	wanted := make(map[int]struct{}, 2*len(games))
	for _, g := range games {
		wanted[g.homeID] = struct{}{}
		wanted[g.awayID] = struct{}{}
	}

	out := make([]teamStat, 0, len(wanted))
	for _, r := range rows {
		if _, ok := wanted[r.Team.ID]; !ok {
			continue
		}
		out = append(out, teamStat{
			Team:             r.Team.Name,
			Played:           r.All.Played,
			GoalsForPerGame:  perGame(r.All.Goals.For, r.All.Played),
			GoalsAgstPerGame: perGame(r.All.Goals.Against, r.All.Played),
			HomeGoalsPerGame: perGame(r.Home.Goals.For+r.Home.Goals.Against, r.Home.Played),
			AwayGoalsPerGame: perGame(r.Away.Goals.For+r.Away.Goals.Against, r.Away.Played),
		})
	}
	return out
}

func perGame(goals, played int) float64 {
	if played == 0 {
		return 0
	}
	return math.Round(float64(goals)/float64(played)*100) / 100
}

func marshalOr(v any, def string) string {
	b, err := json.Marshal(v)
	if err != nil {
		return def
	}
	return string(b)
}
