package antifraude

import (
	"context"

	"github.com/marcelojr/quiniela/internal/domain"
)

// Noop aceita qualquer palpite; usado com PALPITE_RATE_LIMIT_ENABLED=false ou sem Redis.
type Noop struct{}

func NewNoop() Noop {
	return Noop{}
}

func (Noop) Validar(context.Context, domain.Palpite) error {
	return nil
}

var _ domain.Antifraude = Noop{}
