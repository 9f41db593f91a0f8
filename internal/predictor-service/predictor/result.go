package predictor

import (
	"math"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

const (
	MsgNotConfigured = "GOOGLE_AI_API_KEY not configured"
	MsgNoFixtures    = "No fixtures available"
)

// Query é o pedido de análise
type Query struct {
	League int
	Season int
	Text   string // ex: "over 2.5"
}

// Probability aceita número ou string ("72", "72.5", "72%") e fica em 0..100
// Valor ilegível ("high", "N/A") vira 0 sem derrubar o resto da resposta
type Probability int

func (p *Probability) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	s = strings.Trim(s, `"`)
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	if s == "" || s == "null" {
		*p = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		*p = 0
		return nil
	}
	*p = Probability(math.Max(0, math.Min(100, math.Round(f))))
	return nil
}

type Match struct {
	Home        string      `json:"home"`
	Away        string      `json:"away"`
	Prediction  string      `json:"prediction"`
	Probability Probability `json:"probability"`
	Reasoning   string      `json:"reasoning"`
	Tweet       string      `json:"tweet"`

	// desfalques das duas equipes no momento da análise (só v2)
	PlayerSnapshot json.RawMessage `json:"-"`
}

// Result sempre carrega uma lista em matches (nunca null no JSON)
type Result struct {
	Matches       []Match `json:"matches"`
	Error         string  `json:"error,omitempty"`
	PromptVersion string  `json:"-"`
}

func failed(msg string) Result {
	return Result{Matches: []Match{}, Error: msg}
}
