package dto

const (
	DefaultLeague = 39
	DefaultSeason = 2025
	DefaultQuery  = "over 2.5"
)

// PredictRequest: todos os campos são opcionais
type PredictRequest struct {
	League *int    `json:"league"`
	Season *int    `json:"season"`
	Query  *string `json:"query"`
}

// PredictParams é o pedido já com defaults aplicados
type PredictParams struct {
	League int    `validate:"required|min:1"`
	Season int    `validate:"required|min:1900|max:2100"`
	Query  string `validate:"required|maxLen:200"`
}

// WithDefaults completa o que não veio no corpo
func (r PredictRequest) WithDefaults() PredictParams {
	p := PredictParams{League: DefaultLeague, Season: DefaultSeason, Query: DefaultQuery}
	if r.League != nil {
		p.League = *r.League
	}
	if r.Season != nil {
		p.Season = *r.Season
	}
	if r.Query != nil {
		p.Query = *r.Query
	}
	return p
}
