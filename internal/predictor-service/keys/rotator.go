package keys

import (
	"errors"
	"strings"
	"sync"
)

var ErrNoKeys = errors.New("no rapidapi keys configured")

// Rotator percorre a lista de credenciais em round-robin
// O cursor vive enquanto o processo vive e é compartilhado entre requisições
type Rotator struct {
	mu   sync.Mutex
	keys []string
	idx  int
}

// NewRotator descarta entradas vazias mantendo a ordem
func NewRotator(keys []string) *Rotator {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if strings.TrimSpace(k) != "" {
			out = append(out, k)
		}
	}
	return &Rotator{keys: out}
}

func (r *Rotator) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.keys)
}

// Current devolve o índice e a credencial apontada pelo cursor
func (r *Rotator) Current() (int, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.keys) == 0 {
		return 0, "", ErrNoKeys
	}
	return r.idx, r.keys[r.idx], nil
}

// Next avança o cursor (módulo N) e devolve a nova credencial
func (r *Rotator) Next() (int, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.keys) == 0 {
		return 0, "", ErrNoKeys
	}
	r.idx = (r.idx + 1) % len(r.keys)
	return r.idx, r.keys[r.idx], nil
}
