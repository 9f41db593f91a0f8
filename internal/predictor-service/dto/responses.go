package dto

type League struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// PopularLeagues é a lista fixa exposta em /api/leagues
var PopularLeagues = []League{
	{ID: 39, Name: "Premier League (England)"},
	{ID: 140, Name: "La Liga (Spain)"},
	{ID: 135, Name: "Serie A (Italy)"},
	{ID: 78, Name: "Bundesliga (Germany)"},
	{ID: 61, Name: "Ligue 1 (France)"},
}

type HealthResponse struct {
	Status   string `json:"status"`
	Redis    bool   `json:"redis"`
	Supabase bool   `json:"supabase"`
	GoogleAI bool   `json:"google_ai"`
	APIKeys  int    `json:"api_keys"`
}

// ErrorResponse é o corpo de erro do /api/predict (sempre com matches)
type ErrorResponse struct {
	Error   string `json:"error"`
	Matches []any  `json:"matches"`
}

func PredictError(msg string) ErrorResponse {
	return ErrorResponse{Error: msg, Matches: []any{}}
}
