package quiniela

import (
	"context"
	"errors"
	"fmt"

	"github.com/marcelojr/quiniela/internal/app/scoring"
	"github.com/marcelojr/quiniela/internal/domain"
	"github.com/marcelojr/quiniela/internal/platform/logger"
	"github.com/marcelojr/quiniela/internal/platform/metrics"
)

// RegistrarResultado encerra a partida e repontua os palpites dela na mesma transação.
// Uma correção de placar também reabre a liquidação das quinielas já liquidadas.
// Agregados e liquidação automática seguem pela fila (ou em linha, sem fila).
func (s *Service) RegistrarResultado(ctx context.Context, id domain.PartidaID, golsCasa, golsFora int) (domain.Partida, error) {
	if golsCasa < 0 || golsFora < 0 {
		return domain.Partida{}, fmt.Errorf("%w: %d x %d", ErrPlacarInvalido, golsCasa, golsFora)
	}
	agora := s.clock.Agora()

	var (
		partida   domain.Partida
		reabertas []domain.QuinielaID
	)
	err := s.tx.Executar(ctx, func(ctx context.Context, repos domain.Repositorios) error {
		p, err := repos.Partidas.FindByID(ctx, id)
		if err != nil {
			return traduzir(err, ErrPartidaNaoEncontrada)
		}

		correcao := p.Encerrada()
		p.Status = domain.PartidaEncerrada
		p.GolsCasa, p.GolsFora = &golsCasa, &golsFora
		p.AtualizadoEm = agora
		if err := repos.Partidas.Update(ctx, p); err != nil {
			return err
		}
		if correcao {
			reabertas, err = desfazerLiquidacoes(ctx, repos, id, false, agora)
			if err != nil {
				return err
			}
		}

		repontuados, err := repontuar(ctx, repos, p)
		if err != nil {
			return err
		}
		metrics.AddPalpitesPontuados(repontuados)

		partida = p
		return nil
	})
	if err != nil {
		return domain.Partida{}, err
	}

	logger.Info("resultado registrado", "partida", id, "placar", fmt.Sprintf("%d x %d", golsCasa, golsFora))
	if len(reabertas) > 0 {
		logger.Info("correcao de placar reabre liquidacao", "partida", id, "quinielas", reabertas)
	}
	s.posResultado(ctx, domain.EventoResultado{PartidaID: id, OcorridoEm: agora})
	return partida, nil
}

// ReverterResultado volta a partida para SCHEDULED e zera os pontos dos palpites dela.
// Quinielas liquidadas que usam a partida voltam para in_progress sem vencedores nem pendentes.
func (s *Service) ReverterResultado(ctx context.Context, id domain.PartidaID) (domain.Partida, error) {
	agora := s.clock.Agora()

	var (
		partida   domain.Partida
		desfeitas []domain.QuinielaID
	)
	err := s.tx.Executar(ctx, func(ctx context.Context, repos domain.Repositorios) error {
		p, err := repos.Partidas.FindByID(ctx, id)
		if err != nil {
			return traduzir(err, ErrPartidaNaoEncontrada)
		}
		if !p.Encerrada() {
			return fmt.Errorf("%w: %s", ErrPartidaNaoEncerrada, id)
		}

		p.Status = domain.PartidaAgendada
		p.GolsCasa, p.GolsFora = nil, nil
		p.AtualizadoEm = agora
		if err := repos.Partidas.Update(ctx, p); err != nil {
			return err
		}

		if _, err := repontuar(ctx, repos, p); err != nil {
			return err
		}
		desfeitas, err = desfazerLiquidacoes(ctx, repos, id, true, agora)
		if err != nil {
			return err
		}
		partida = p
		return nil
	})
	if err != nil {
		return domain.Partida{}, err
	}

	logger.Info("resultado revertido", "partida", id, "liquidacoes_desfeitas", desfeitas)
	s.posResultado(ctx, domain.EventoResultado{PartidaID: id, Revertido: true, OcorridoEm: agora})
	return partida, nil
}

// RegistrarResultados aplica cada entrada de forma independente e junta os erros.
func (s *Service) RegistrarResultados(ctx context.Context, entradas []domain.ResultadoEntrada) error {
	var errs []error
	for _, e := range entradas {
		if _, err := s.RegistrarResultado(ctx, e.PartidaID, e.GolsCasa, e.GolsFora); err != nil {
			errs = append(errs, fmt.Errorf("partida %s: %w", e.PartidaID, err))
		}
	}
	return errors.Join(errs...)
}

// ProcessarResultado é a continuação assíncrona de um resultado: recalcula os agregados dos
// usuários que palpitaram na partida e liquida as quinielas que ficaram completas.
func (s *Service) ProcessarResultado(ctx context.Context, evento domain.EventoResultado) error {
	palpites, err := s.repos.Palpites.ListByPartida(ctx, evento.PartidaID)
	if err != nil {
		return err
	}
	afetados := make(map[domain.UsuarioID]bool, len(palpites))
	for _, p := range palpites {
		afetados[p.UsuarioID] = true
	}

	quinielas, err := s.repos.Quinielas.ListByPartida(ctx, evento.PartidaID)
	if err != nil {
		return err
	}

	if evento.Revertido {
		// Vitórias desfeitas mudam os agregados de quem palpitou em qualquer partida da quiniela.
		for _, q := range quinielas {
			daQuiniela, err := s.repos.Palpites.ListByQuiniela(ctx, q.ID)
			if err != nil {
				return err
			}
			for _, p := range daQuiniela {
				afetados[p.UsuarioID] = true
			}
		}
		s.recalcularVarios(ctx, afetados)
		return nil
	}
	s.recalcularVarios(ctx, afetados)

	var errs []error
	for _, q := range quinielas {
		// LiquidadaEm só fica vazio em quiniela nunca liquidada ou reaberta por correção de placar.
		if q.LiquidadaEm != nil {
			continue
		}
		completa, err := s.todasEncerradas(ctx, s.repos, q)
		if err != nil {
			errs = append(errs, fmt.Errorf("quiniela %s: %w", q.ID, err))
			continue
		}
		if !completa {
			continue
		}

		if _, err := s.LiquidarQuiniela(ctx, q.ID); err != nil {
			if errors.Is(err, ErrSemPalpites) {
				logger.Warn("quiniela completa sem palpites, liquidacao ignorada", "quiniela", q.ID)
				continue
			}
			errs = append(errs, fmt.Errorf("quiniela %s: %w", q.ID, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Service) posResultado(ctx context.Context, evento domain.EventoResultado) {
	if s.fila != nil {
		err := s.fila.PublicarResultado(ctx, evento)
		if err == nil {
			return
		}
		logger.Error("falha ao publicar resultado, processando em linha", "partida", evento.PartidaID, "err", err)
	}

	if err := s.ProcessarResultado(ctx, evento); err != nil {
		logger.Error("falha no pos-processamento do resultado", "partida", evento.PartidaID, "err", err)
	}
}

// repontuar recalcula os pontos de todos os palpites da partida; devolve quantos mudaram.
func repontuar(ctx context.Context, repos domain.Repositorios, p domain.Partida) (int, error) {
	palpites, err := repos.Palpites.ListByPartida(ctx, p.ID)
	if err != nil {
		return 0, err
	}

	mudaram := 0
	for _, palpite := range palpites {
		pontos := 0
		if p.Encerrada() {
			pontos = scoring.Pontuar(palpite.Placar(), p.Placar())
		}
		if pontos == palpite.Pontos {
			continue
		}
		if err := repos.Palpites.AtualizarPontos(ctx, palpite.ID, pontos); err != nil {
			return mudaram, fmt.Errorf("palpite %s: %w", palpite.ID, err)
		}
		mudaram++
	}
	return mudaram, nil
}
