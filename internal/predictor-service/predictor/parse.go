package predictor

import (
	"strings"

	json "github.com/goccy/go-json"
)

const (
	stubPrediction = "ANALYZING"
	stubReasoning  = "AI analysis in progress"
	stubTweetRunes = 140
)

// ParseReply extrai o JSON entre o primeiro "{" e o último "}" da resposta
// Se não houver um objeto com "matches" válido, gera um stub por partida
// O bool indica se o JSON do modelo foi aproveitado
func ParseReply(text string, fixtures []FixtureSummary) (Result, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		var body struct {
			Matches *[]Match `json:"matches"`
		}
		if err := json.Unmarshal([]byte(text[start:end+1]), &body); err == nil && body.Matches != nil {
			matches := *body.Matches
			for i := range matches {
				matches[i].Prediction = strings.ToUpper(strings.TrimSpace(matches[i].Prediction))
			}
			return Result{Matches: matches}, true
		}
	}
	return stubs(text, fixtures), false
}

func stubs(text string, fixtures []FixtureSummary) Result {
	tweet := truncateRunes(text, stubTweetRunes)
	out := make([]Match, 0, len(fixtures))
	for _, f := range fixtures {
		out = append(out, Match{
			Home:        f.Home,
			Away:        f.Away,
			Prediction:  stubPrediction,
			Probability: 0,
			Reasoning:   stubReasoning,
			Tweet:       tweet,
		})
	}
	return Result{Matches: out}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
