package predictor

import (
	"fmt"
	"strings"
)

const (
	VersionBasic    = "v1"
	VersionEnriched = "v2"
)

// v1: só as partidas
const promptBasic = `Analyze these upcoming football fixtures for "{{query}}" predictions:
{{fixtures}}

For each fixture, provide:
1. Over 2.5 goals probability (0-100)
2. Key analysis reasoning
3. A short tweet in Turkish

Return as JSON: {"matches": [{"home": "", "away": "", "prediction": "OVER/UNDER", "probability": 0, "reasoning": "", "tweet": ""}]}
`

// v2: partidas + tabela, números dos times e desfalques
const promptEnriched = `Analyze these upcoming football fixtures for "{{query}}" predictions:
{{fixtures}}

League table (rank, team, points, form):
{{standings}}

Season numbers for the teams in these fixtures (goals per game, home/away split):
{{team_stats}}

Unavailable players per fixture id (injuries and suspensions):
{{players}}

Use the table, the scoring numbers and the missing players to judge each fixture.
For each fixture, provide:
1. Over 2.5 goals probability (0-100)
2. Key analysis reasoning that cites the numbers above
3. A short tweet in Turkish

Return as JSON: {"matches": [{"home": "", "away": "", "prediction": "OVER/UNDER", "probability": 0, "reasoning": "", "tweet": ""}]}
`

var templates = map[string]string{
	VersionBasic:    promptBasic,
	VersionEnriched: promptEnriched,
}

// BuildPrompt troca os {{placeholders}} do template da versão
// Placeholders sem valor ficam vazios
func BuildPrompt(version string, vars map[string]string) (string, error) {
	tpl, ok := templates[version]
	if !ok {
		return "", fmt.Errorf("unknown prompt version %q", version)
	}

	pairs := make([]string, 0, 2*5)
	for _, name := range []string{"query", "fixtures", "standings", "team_stats", "players"} {
		pairs = append(pairs, "{{"+name+"}}", vars[name])
	}
	// passada única: valores com "{{...}}" não são reinterpretados
	return strings.NewReplacer(pairs...).Replace(tpl), nil
}
