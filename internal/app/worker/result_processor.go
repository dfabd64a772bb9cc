// Pacote worker contém o processamento assíncrono dos resultados vindos da fila Redis
// e a reconciliação periódica do ciclo de vida das quinielas.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/marcelojr/quiniela/internal/domain"
	"github.com/marcelojr/quiniela/internal/platform/metrics"
)

// ProcessadorResultados é a parte do serviço que o worker precisa para seguir um resultado.
type ProcessadorResultados interface {
	ProcessarResultado(ctx context.Context, evento domain.EventoResultado) error
}

// ResultProcessor recalcula agregados e liquida quinielas a partir dos eventos de resultado.
type ResultProcessor struct {
	service ProcessadorResultados
	clock   domain.Clock
}

func NewResultProcessor(service ProcessadorResultados, clock domain.Clock) *ResultProcessor {
	return &ResultProcessor{service: service, clock: clock}
}

func (p *ResultProcessor) Process(ctx context.Context, evento domain.EventoResultado) error {
	start := time.Now()

	// Evento publicado sem carimbo recebe a hora de chegada no worker.
	if evento.OcorridoEm.IsZero() {
		evento.OcorridoEm = p.clock.Agora()
	}

	if err := p.service.ProcessarResultado(ctx, evento); err != nil {
		metrics.ObserveResultadoProcessado("erro", time.Since(start).Seconds())
		return fmt.Errorf("worker: processar resultado da partida %s: %w", evento.PartidaID, err)
	}

	metrics.ObserveResultadoProcessado("ok", time.Since(start).Seconds())
	return nil
}
