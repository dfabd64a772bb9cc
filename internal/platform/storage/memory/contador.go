package memory

import (
	"context"
	"sync"

	"github.com/marcelojr/quiniela/internal/domain"
)

// Contador substitui o contador Redis quando a API roda sem Redis.
type Contador struct {
	mu      sync.Mutex
	valores map[string]int64
}

func NewContador() *Contador {
	return &Contador{valores: make(map[string]int64)}
}

func (c *Contador) Incrementar(_ context.Context, chave string, delta int64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valores[chave] += delta
	return c.valores[chave], nil
}

func (c *Contador) Obter(_ context.Context, chave string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.valores[chave], nil
}

func (c *Contador) ObterTodos(_ context.Context, chaves []string) (map[string]int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make(map[string]int64, len(chaves))
	for _, ch := range chaves {
		result[ch] = c.valores[ch]
	}
	return result, nil
}

var _ domain.Contador = (*Contador)(nil)
