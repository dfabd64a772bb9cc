package quiniela

import (
	"context"
	"fmt"

	"github.com/marcelojr/quiniela/internal/domain"
	"github.com/marcelojr/quiniela/internal/platform/logger"
)

func (s *Service) ListarPagamentos(ctx context.Context, filtro domain.FiltroPagamentos) ([]domain.Pagamento, error) {
	if filtro.Status != "" && !filtro.Status.Valido() {
		return nil, fmt.Errorf("%w: %q", ErrStatusInvalido, filtro.Status)
	}
	return s.repos.Pagamentos.List(ctx, filtro)
}

// AtualizarPagamento muda o status e recalcula os ganhos de quem paga e de quem recebe.
func (s *Service) AtualizarPagamento(ctx context.Context, id domain.PagamentoID, status domain.StatusPagamento) (domain.Pagamento, error) {
	if !status.Valido() {
		return domain.Pagamento{}, fmt.Errorf("%w: %q", ErrStatusInvalido, status)
	}

	p, err := s.repos.Pagamentos.FindByID(ctx, id)
	if err != nil {
		return domain.Pagamento{}, traduzir(err, ErrPagamentoNaoEncontrado)
	}
	if p.Status == status {
		return p, nil
	}

	agora := s.clock.Agora()
	if err := s.repos.Pagamentos.AtualizarStatus(ctx, id, status, agora); err != nil {
		return domain.Pagamento{}, traduzir(err, ErrPagamentoNaoEncontrado)
	}
	anterior := p.Status
	p.Status = status
	p.AtualizadoEm = agora

	logger.Info("pagamento atualizado", "pagamento", id, "de", anterior, "para", status)
	s.recalcularVarios(ctx, map[domain.UsuarioID]bool{p.DeUsuarioID: true, p.ParaUsuarioID: true})
	return p, nil
}
