package quiniela

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/marcelojr/quiniela/internal/app/settlement"
	"github.com/marcelojr/quiniela/internal/domain"
	"github.com/marcelojr/quiniela/internal/platform/logger"
	"github.com/marcelojr/quiniela/internal/platform/metrics"
)

// LiquidarQuiniela exige todas as partidas encerradas, grava vencedores e pagamentos e finaliza a quiniela.
// Pode ser repetida: pagos e contestados nunca são tocados; pendentes que a nova liquidação
// não gera mais (ou gera com outro valor) são removidos.
func (s *Service) LiquidarQuiniela(ctx context.Context, id domain.QuinielaID) (domain.Liquidacao, error) {
	agora := s.clock.Agora()
	regras := settlement.Regras{Base: s.opcoes.ApostaBase, Vencimento: agora.Add(s.opcoes.PrazoPagamento)}

	var (
		liq           domain.Liquidacao
		criados       int
		removidos     int
		participantes = make(map[domain.UsuarioID]bool)
	)
	err := s.tx.Executar(ctx, func(ctx context.Context, repos domain.Repositorios) error {
		q, err := repos.Quinielas.FindByID(ctx, id)
		if err != nil {
			return traduzir(err, ErrQuinielaNaoEncontrada)
		}

		completa, err := s.todasEncerradas(ctx, repos, q)
		if err != nil {
			return err
		}
		if !completa {
			return fmt.Errorf("%w: %s", ErrPartidasPendentes, q.ID)
		}

		ranking, err := s.ranking(ctx, repos, q)
		if err != nil {
			return err
		}
		liq, err = settlement.Determinar(q.ID, ranking, regras)
		if errors.Is(err, settlement.ErrRankingVazio) {
			return fmt.Errorf("%w: %s", ErrSemPalpites, q.ID)
		}
		if err != nil {
			return err
		}

		if err := repos.Quinielas.RegistrarVencedores(ctx, q.ID, liq.Vencedores); err != nil {
			return err
		}
		removidos, err = removerPendentes(ctx, repos, q.ID, liq.Pagamentos)
		if err != nil {
			return err
		}
		for _, p := range liq.Pagamentos {
			p.CriadoEm = agora
			p.AtualizadoEm = agora
			novo, err := repos.Pagamentos.CriarSeAusente(ctx, p)
			if err != nil {
				return err
			}
			if novo {
				criados++
			}
		}

		q.LiquidadaEm = &agora
		q.Status = domain.QuinielaFinalizada
		q.AtualizadoEm = agora
		if err := repos.Quinielas.Update(ctx, q); err != nil {
			return err
		}

		for _, c := range ranking {
			participantes[c.UsuarioID] = true
		}
		return nil
	})
	if err != nil {
		return domain.Liquidacao{}, err
	}

	metrics.IncLiquidacao(strconv.Itoa(len(liq.Vencedores)))
	metrics.AddPagamentosCriados(criados)
	logger.Info("quiniela liquidada",
		"quiniela", id,
		"vencedores", liq.Vencedores,
		"pontuacao_maxima", liq.PontuacaoMaxima,
		"pagamentos_novos", criados,
		"pendentes_removidos", removidos,
	)

	s.recalcularVarios(ctx, participantes)
	return liq, nil
}

// todasEncerradas confere se cada partida da quiniela existe e já tem resultado.
func (s *Service) todasEncerradas(ctx context.Context, repos domain.Repositorios, q domain.Quiniela) (bool, error) {
	if len(q.PartidaIDs) == 0 {
		return false, nil
	}
	partidas, err := repos.Partidas.ListByIDs(ctx, q.PartidaIDs)
	if err != nil {
		return false, err
	}
	if len(partidas) != len(q.PartidaIDs) {
		return false, nil
	}
	for _, p := range partidas {
		if !p.Encerrada() {
			return false, nil
		}
	}
	return true, nil
}

// removerPendentes apaga os pagamentos pendentes da quiniela que não estão em vigentes com o mesmo valor.
func removerPendentes(ctx context.Context, repos domain.Repositorios, id domain.QuinielaID, vigentes []domain.Pagamento) (int, error) {
	manter := make(map[domain.PagamentoID]domain.Pagamento, len(vigentes))
	for _, p := range vigentes {
		manter[p.ID] = p
	}

	pendentes, err := repos.Pagamentos.List(ctx, domain.FiltroPagamentos{QuinielaID: id, Status: domain.PagamentoPendente})
	if err != nil {
		return 0, err
	}
	removidos := 0
	for _, p := range pendentes {
		if v, ok := manter[p.ID]; ok && v.Valor.Equal(p.Valor) {
			continue
		}
		if err := repos.Pagamentos.Delete(ctx, p.ID); err != nil {
			return removidos, fmt.Errorf("pagamento %s: %w", p.ID, err)
		}
		removidos++
	}
	return removidos, nil
}

// desfazerLiquidacoes reabre a liquidação das quinielas liquidadas que usam a partida.
// Com reverter, a quiniela volta para in_progress sem vencedores nem pendentes; sem ele
// (correção de placar) só LiquidadaEm é limpo e a liquidação automática refaz o resto.
func desfazerLiquidacoes(ctx context.Context, repos domain.Repositorios, partidaID domain.PartidaID, reverter bool, agora time.Time) ([]domain.QuinielaID, error) {
	quinielas, err := repos.Quinielas.ListByPartida(ctx, partidaID)
	if err != nil {
		return nil, err
	}

	var desfeitas []domain.QuinielaID
	for _, q := range quinielas {
		if q.LiquidadaEm == nil {
			continue
		}
		if reverter {
			if err := repos.Quinielas.RegistrarVencedores(ctx, q.ID, nil); err != nil {
				return nil, err
			}
			if _, err := removerPendentes(ctx, repos, q.ID, nil); err != nil {
				return nil, err
			}
			q.Status = domain.QuinielaEmAndamento
		}
		q.LiquidadaEm = nil
		q.AtualizadoEm = agora
		if err := repos.Quinielas.Update(ctx, q); err != nil {
			return nil, fmt.Errorf("quiniela %s: %w", q.ID, err)
		}
		desfeitas = append(desfeitas, q.ID)
	}
	return desfeitas, nil
}
