package worker

import (
	"context"
	"errors"
	"time"

	"github.com/marcelojr/quiniela/internal/platform/logger"
)

type ReconciliadorQuinielas interface {
	ReconciliarQuinielas(ctx context.Context) (int, error)
}

// Reconciler grava periodicamente as transições guiadas pelo relógio (prazo, início da rodada).
type Reconciler struct {
	service   ReconciliadorQuinielas
	intervalo time.Duration
}

func NewReconciler(service ReconciliadorQuinielas, intervalo time.Duration) *Reconciler {
	return &Reconciler{service: service, intervalo: intervalo}
}

// Run executa uma rodada imediata e depois uma a cada intervalo, até o contexto encerrar.
func (r *Reconciler) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.intervalo)
	defer ticker.Stop()

	for {
		r.Rodada(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Rodada nunca falha: erros de quinielas individuais só viram log.
func (r *Reconciler) Rodada(ctx context.Context) int {
	mudaram, err := r.service.ReconciliarQuinielas(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("falha na reconciliacao de quinielas", "err", err)
	}
	if mudaram > 0 {
		logger.Info("quinielas reconciliadas", "total", mudaram)
	}
	return mudaram
}
