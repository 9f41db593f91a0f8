package predictor

import (
	"context"
	"strings"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/radieske/football-ai-predictor/internal/predictor-service/fixtures"
)

// Generator é o serviço de texto generativo (genai.Client em produção)
type Generator interface {
	Configured() bool
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Predictor monta o prompt, chama o modelo e interpreta a resposta
type Predictor struct {
	Gen         Generator
	Context     ContextSource // opcional; usado só no prompt v2
	Version     string
	MaxFixtures int
	Log         *zap.Logger

	// OnFailure recebe "llm_error" ou "unparsable"
	OnFailure func(kind string)
}

func New(gen Generator, src ContextSource, version string, log *zap.Logger) *Predictor {
	if version == "" {
		version = VersionBasic
	}
	return &Predictor{Gen: gen, Context: src, Version: version, MaxFixtures: MaxFixtures, Log: log}
}

func (p *Predictor) Available() bool {
	return p.Gen != nil && p.Gen.Configured()
}

// Predict nunca devolve erro Go: falhas viram Result.Error com matches vazio
func (p *Predictor) Predict(ctx context.Context, q Query, env fixtures.Envelope) Result {
	if !p.Available() {
		return failed(MsgNotConfigured)
	}

	games, skipped := Summarize(env, p.MaxFixtures)
	if skipped > 0 {
		p.Log.Warn("fixtures skipped while summarizing", zap.Int("skipped", skipped))
	}
	if len(games) == 0 {
		return failed(MsgNoFixtures)
	}

	vars := map[string]string{
		"query":    q.Text,
		"fixtures": marshalIndent(games),
	}
	extra := emptyEnrichment()
	if p.Version == VersionEnriched {
		extra = p.enrich(ctx, q, games)
		vars["standings"] = extra.Standings
		vars["team_stats"] = extra.TeamStats
		vars["players"] = extra.Players
	}

	prompt, err := BuildPrompt(p.Version, vars)
	if err != nil {
		return failed(err.Error())
	}

	text, err := p.Gen.GenerateContent(ctx, prompt)
	if err != nil {
		p.Log.Error("ai prediction failed", zap.Error(err))
		p.fail("llm_error")
		return failed(err.Error())
	}

	res, ok := ParseReply(text, games)
	if !ok {
		p.Log.Warn("ai reply not parseable, returning stubs", zap.Int("reply_len", len(text)))
		p.fail("unparsable")
	}
	res.PromptVersion = p.Version

	if p.Version == VersionEnriched {
		attachSnapshots(res.Matches, games, extra.byFixture)
	}
	return res
}

func (p *Predictor) fail(kind string) {
	if p.OnFailure != nil {
		p.OnFailure(kind)
	}
}

// attachSnapshots liga cada match ao fixture pelos nomes dos times
func attachSnapshots(matches []Match, games []FixtureSummary, byFixture map[int][]missingPlayer) {
	for i := range matches {
		for _, g := range games {
			if !strings.EqualFold(matches[i].Home, g.Home) || !strings.EqualFold(matches[i].Away, g.Away) {
				continue
			}
			missing := byFixture[g.ID]
			if missing == nil {
				missing = []missingPlayer{}
			}
			if b, err := json.Marshal(missing); err == nil {
				matches[i].PlayerSnapshot = b
			}
			break
		}
	}
}

func marshalIndent(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(b)
}
