package quiniela

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/marcelojr/quiniela/internal/app/lifecycle"
	"github.com/marcelojr/quiniela/internal/app/scoring"
	"github.com/marcelojr/quiniela/internal/domain"
	"github.com/marcelojr/quiniela/internal/platform/ids"
	"github.com/marcelojr/quiniela/internal/platform/logger"
	"github.com/marcelojr/quiniela/internal/platform/metrics"
)

// CriarQuiniela abre a quiniela da semana do prazo e a marca como atual.
func (s *Service) CriarQuiniela(ctx context.Context, nova domain.NovaQuiniela) (domain.QuinielaView, error) {
	nova.Nome = strings.TrimSpace(nova.Nome)
	if nova.Nome == "" {
		return domain.QuinielaView{}, fmt.Errorf("%w: nome obrigatorio", ErrQuinielaInvalida)
	}
	partidaIDs := semRepetidos(nova.PartidaIDs)
	if len(partidaIDs) == 0 {
		return domain.QuinielaView{}, fmt.Errorf("%w: ao menos uma partida", ErrQuinielaInvalida)
	}
	agora := s.clock.Agora()
	if !agora.Before(nova.Prazo) {
		return domain.QuinielaView{}, fmt.Errorf("%w: prazo deve estar no futuro", ErrQuinielaInvalida)
	}

	q := domain.Quiniela{
		ID:           ids.Quiniela(nova.Prazo),
		Nome:         nova.Nome,
		PartidaIDs:   partidaIDs,
		Prazo:        nova.Prazo,
		Status:       domain.QuinielaAberta,
		CriadoEm:     agora,
		AtualizadoEm: agora,
	}

	err := s.tx.Executar(ctx, func(ctx context.Context, repos domain.Repositorios) error {
		if _, err := repos.Quinielas.FindByID(ctx, q.ID); err == nil {
			return fmt.Errorf("%w: %s", ErrQuinielaDuplicada, q.ID)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		partidas, err := repos.Partidas.ListByIDs(ctx, partidaIDs)
		if err != nil {
			return err
		}
		if len(partidas) != len(partidaIDs) {
			return fmt.Errorf("%w: %d de %d partidas cadastradas", ErrPartidaNaoEncontrada, len(partidas), len(partidaIDs))
		}

		if err := repos.Quinielas.Create(ctx, q); err != nil {
			return err
		}
		return repos.Quinielas.DefinirAtual(ctx, q.ID)
	})
	if err != nil {
		return domain.QuinielaView{}, err
	}

	q.Atual = true
	logger.Info("quiniela criada", "quiniela", q.ID, "partidas", len(partidaIDs), "prazo", q.Prazo)
	return lifecycle.View(q, agora), nil
}

func (s *Service) QuinielaAtual(ctx context.Context) (domain.QuinielaView, error) {
	q, err := s.repos.Quinielas.Atual(ctx)
	if err != nil {
		return domain.QuinielaView{}, traduzir(err, ErrQuinielaNaoEncontrada)
	}
	return lifecycle.View(q, s.clock.Agora()), nil
}

func (s *Service) ObterQuiniela(ctx context.Context, id domain.QuinielaID) (domain.QuinielaView, error) {
	q, err := s.buscarQuiniela(ctx, id)
	if err != nil {
		return domain.QuinielaView{}, err
	}
	return lifecycle.View(q, s.clock.Agora()), nil
}

func (s *Service) FecharQuiniela(ctx context.Context, id domain.QuinielaID, motivo string) (domain.QuinielaView, error) {
	return s.transicionar(ctx, id, func(q domain.Quiniela, agora time.Time) (domain.Quiniela, error) {
		return lifecycle.Fechar(q, agora, motivo)
	})
}

func (s *Service) ReabrirQuiniela(ctx context.Context, id domain.QuinielaID) (domain.QuinielaView, error) {
	return s.transicionar(ctx, id, lifecycle.Reabrir)
}

func (s *Service) ReativarQuiniela(ctx context.Context, id domain.QuinielaID, novoPrazo *time.Time) (domain.QuinielaView, error) {
	return s.transicionar(ctx, id, func(q domain.Quiniela, agora time.Time) (domain.Quiniela, error) {
		return lifecycle.Reativar(q, agora, novoPrazo)
	})
}

func (s *Service) FinalizarQuiniela(ctx context.Context, id domain.QuinielaID) (domain.QuinielaView, error) {
	return s.transicionar(ctx, id, lifecycle.Finalizar)
}

func (s *Service) transicionar(ctx context.Context, id domain.QuinielaID, fn func(domain.Quiniela, time.Time) (domain.Quiniela, error)) (domain.QuinielaView, error) {
	q, err := s.buscarQuiniela(ctx, id)
	if err != nil {
		return domain.QuinielaView{}, err
	}
	agora := s.clock.Agora()

	anterior := q.Status
	q, err = fn(q, agora)
	if err != nil {
		return domain.QuinielaView{}, err
	}
	if err := s.repos.Quinielas.Update(ctx, q); err != nil {
		return domain.QuinielaView{}, err
	}

	metrics.IncTransicao(string(q.Status), "manual")
	logger.Info("quiniela transicionada", "quiniela", q.ID, "de", anterior, "para", q.Status)
	return lifecycle.View(q, agora), nil
}

// ReconciliarQuinielas grava as transições automáticas (prazo vencido, primeira partida iniciada)
// de todas as quinielas ainda não finalizadas. Devolve quantas mudaram.
func (s *Service) ReconciliarQuinielas(ctx context.Context) (int, error) {
	quinielas, err := s.repos.Quinielas.ListByStatus(ctx, domain.QuinielaAberta, domain.QuinielaFechada)
	if err != nil {
		return 0, err
	}
	agora := s.clock.Agora()

	var errs []error
	mudaram := 0
	for _, q := range quinielas {
		primeira, err := s.primeiraPartida(ctx, q)
		if err != nil {
			errs = append(errs, fmt.Errorf("quiniela %s: %w", q.ID, err))
			continue
		}

		nova, mudou := lifecycle.Reconciliar(q, agora, primeira)
		if !mudou {
			continue
		}
		if !lifecycle.Avanca(q.Status, nova.Status) {
			errs = append(errs, fmt.Errorf("quiniela %s: %w: %s para %s", q.ID, lifecycle.ErrTransicaoInvalida, q.Status, nova.Status))
			continue
		}
		if err := s.repos.Quinielas.Update(ctx, nova); err != nil {
			errs = append(errs, fmt.Errorf("quiniela %s: %w", q.ID, err))
			continue
		}

		mudaram++
		metrics.IncTransicao(string(nova.Status), "automatica")
		logger.Info("quiniela reconciliada", "quiniela", q.ID, "de", q.Status, "para", nova.Status)
	}

	return mudaram, errors.Join(errs...)
}

func (s *Service) RankingQuiniela(ctx context.Context, id domain.QuinielaID) ([]domain.Colocacao, error) {
	q, err := s.buscarQuiniela(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.ranking(ctx, s.repos, q)
}

// Resumo lê dos contadores; sem contador configurado devolve zeros.
func (s *Service) Resumo(ctx context.Context, id domain.QuinielaID) (domain.ResumoQuiniela, error) {
	q, err := s.buscarQuiniela(ctx, id)
	if err != nil {
		return domain.ResumoQuiniela{}, err
	}

	resumo := domain.ResumoQuiniela{QuinielaID: q.ID, PorPartida: make(map[domain.PartidaID]int64, len(q.PartidaIDs))}
	for _, pid := range q.PartidaIDs {
		resumo.PorPartida[pid] = 0
	}
	if s.contador == nil {
		return resumo, nil
	}

	chaves := make([]string, 0, len(q.PartidaIDs)+1)
	chaves = append(chaves, CounterKeyTotalQuiniela(q.ID))
	for _, pid := range q.PartidaIDs {
		chaves = append(chaves, CounterKeyPartida(q.ID, pid))
	}
	valores, err := s.contador.ObterTodos(ctx, chaves)
	if err != nil {
		return domain.ResumoQuiniela{}, err
	}

	resumo.TotalPalpites = valores[CounterKeyTotalQuiniela(q.ID)]
	for _, pid := range q.PartidaIDs {
		resumo.PorPartida[pid] = valores[CounterKeyPartida(q.ID, pid)]
	}
	return resumo, nil
}

func (s *Service) ranking(ctx context.Context, repos domain.Repositorios, q domain.Quiniela) ([]domain.Colocacao, error) {
	palpites, err := repos.Palpites.ListByQuiniela(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	return scoring.Classificar(scoring.Somar(palpites, q.PartidaIDs)), nil
}

func (s *Service) buscarQuiniela(ctx context.Context, id domain.QuinielaID) (domain.Quiniela, error) {
	q, err := s.repos.Quinielas.FindByID(ctx, id)
	if err != nil {
		return domain.Quiniela{}, traduzir(err, ErrQuinielaNaoEncontrada)
	}
	return q, nil
}

// primeiraPartida devolve o horário da partida mais cedo; zero se a quiniela não tiver partidas cadastradas.
func (s *Service) primeiraPartida(ctx context.Context, q domain.Quiniela) (time.Time, error) {
	partidas, err := s.repos.Partidas.ListByIDs(ctx, q.PartidaIDs)
	if err != nil {
		return time.Time{}, err
	}
	var primeira time.Time
	for _, p := range partidas {
		if primeira.IsZero() || p.Data.Before(primeira) {
			primeira = p.Data
		}
	}
	return primeira, nil
}

func semRepetidos(partidas []domain.PartidaID) []domain.PartidaID {
	vistos := make(map[domain.PartidaID]bool, len(partidas))
	result := make([]domain.PartidaID, 0, len(partidas))
	for _, id := range partidas {
		id = domain.PartidaID(strings.TrimSpace(string(id)))
		if id == "" || vistos[id] {
			continue
		}
		vistos[id] = true
		result = append(result, id)
	}
	return result
}
