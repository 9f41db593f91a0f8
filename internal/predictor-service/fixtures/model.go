package fixtures

import (
	json "github.com/goccy/go-json"
)

const (
	MsgAllKeysExhausted = "All API keys exhausted"
	MsgNoKeys           = "No API keys configured"
)

// Envelope é o formato de resposta da API-Football
// Os itens de response ficam crus pra que os endpoints de passagem devolvam tudo
type Envelope struct {
	Get        string            `json:"get,omitempty"`
	Parameters json.RawMessage   `json:"parameters,omitempty"`
	Errors     any               `json:"errors,omitempty"`
	Results    int               `json:"results,omitempty"`
	Paging     json.RawMessage   `json:"paging,omitempty"`
	Response   []json.RawMessage `json:"response"`
}

// Marker devolve o resultado vazio anotado com erro (nunca vira error Go)
func Marker(msg string) Envelope {
	return Envelope{Response: []json.RawMessage{}, Errors: msg}
}

// Failed: sem dados e com algum erro anotado ("errors": [] é resposta vazia normal)
func (e Envelope) Failed() bool {
	return len(e.Response) == 0 && hasUpstreamErrors(e.Errors)
}

// ErrorText devolve o marcador textual, se houver
func (e Envelope) ErrorText() string {
	s, _ := e.Errors.(string)
	return s
}

type Team struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Fixture cobre só os campos que o serviço lê
type Fixture struct {
	Fixture struct {
		ID     int    `json:"id"`
		Date   string `json:"date"`
		Status struct {
			Short string `json:"short"`
		} `json:"status"`
	} `json:"fixture"`
	League struct {
		ID     int `json:"id"`
		Season int `json:"season"`
	} `json:"league"`
	Teams struct {
		Home Team `json:"home"`
		Away Team `json:"away"`
	} `json:"teams"`
}

// Fixtures decodifica os itens na ordem da fonte; itens inválidos são pulados
func (e Envelope) Fixtures() (out []Fixture, skipped int) {
	out = make([]Fixture, 0, len(e.Response))
	for _, raw := range e.Response {
		var f Fixture
		if err := json.Unmarshal(raw, &f); err != nil {
			skipped++
			continue
		}
		out = append(out, f)
	}
	return out, skipped
}

// hasUpstreamErrors: a API responde 200 com "errors" preenchido quando recusa a chave
func hasUpstreamErrors(v any) bool {
	switch e := v.(type) {
	case nil:
		return false
	case []any:
		return len(e) > 0
	case map[string]any:
		return len(e) > 0
	case string:
		return e != ""
	default:
		return true
	}
}
