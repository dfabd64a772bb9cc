package quiniela

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/marcelojr/quiniela/internal/domain"
	"github.com/marcelojr/quiniela/internal/platform/logger"
)

func (s *Service) CriarPartida(ctx context.Context, p domain.Partida) (domain.Partida, error) {
	p.TimeCasa = strings.TrimSpace(p.TimeCasa)
	p.TimeFora = strings.TrimSpace(p.TimeFora)
	if err := validarPartida(p); err != nil {
		return domain.Partida{}, err
	}
	switch p.Status {
	case "":
		p.Status = domain.PartidaAgendada
	case domain.PartidaAgendada, domain.PartidaAoVivo:
	default:
		// Resultado só entra por RegistrarResultado, que também pontua os palpites.
		return domain.Partida{}, fmt.Errorf("%w: partida nova nao pode nascer como %s", ErrStatusInvalido, p.Status)
	}

	if p.ID == "" {
		p.ID = domain.PartidaID(s.ids.New())
	} else if _, err := s.repos.Partidas.FindByID(ctx, p.ID); err == nil {
		return domain.Partida{}, fmt.Errorf("%w: %s", ErrPartidaDuplicada, p.ID)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.Partida{}, err
	}

	agora := s.clock.Agora()
	p.GolsCasa, p.GolsFora = nil, nil
	p.CriadoEm = agora
	p.AtualizadoEm = agora

	if err := s.repos.Partidas.Create(ctx, p); err != nil {
		return domain.Partida{}, err
	}
	return p, nil
}

// ImportarPartidas grava cada partida de forma independente; falhas não impedem as demais.
func (s *Service) ImportarPartidas(ctx context.Context, partidas []domain.Partida) ([]domain.Partida, error) {
	criadas := make([]domain.Partida, 0, len(partidas))
	var errs []error
	for i, p := range partidas {
		criada, err := s.CriarPartida(ctx, p)
		if err != nil {
			errs = append(errs, fmt.Errorf("partida %d (%s x %s): %w", i, p.TimeCasa, p.TimeFora, err))
			continue
		}
		criadas = append(criadas, criada)
	}

	if len(errs) > 0 {
		logger.Warn("importacao de partidas com falhas", "total", len(partidas), "falhas", len(errs))
	}
	return criadas, errors.Join(errs...)
}

// AtualizarPartida troca os dados descritivos; status e placar têm operações próprias.
func (s *Service) AtualizarPartida(ctx context.Context, p domain.Partida) (domain.Partida, error) {
	atual, err := s.buscarPartida(ctx, p.ID)
	if err != nil {
		return domain.Partida{}, err
	}

	atual.TimeCasa = strings.TrimSpace(p.TimeCasa)
	atual.TimeFora = strings.TrimSpace(p.TimeFora)
	atual.Liga = p.Liga
	atual.Data = p.Data
	if err := validarPartida(atual); err != nil {
		return domain.Partida{}, err
	}
	atual.AtualizadoEm = s.clock.Agora()

	if err := s.repos.Partidas.Update(ctx, atual); err != nil {
		return domain.Partida{}, traduzir(err, ErrPartidaNaoEncontrada)
	}
	return atual, nil
}

// AtualizarStatusPartida só alterna entre SCHEDULED e LIVE; encerrar exige placar.
func (s *Service) AtualizarStatusPartida(ctx context.Context, id domain.PartidaID, status domain.StatusPartida) (domain.Partida, error) {
	if status != domain.PartidaAgendada && status != domain.PartidaAoVivo {
		return domain.Partida{}, fmt.Errorf("%w: %q (use o registro de resultado para encerrar)", ErrStatusInvalido, status)
	}
	p, err := s.buscarPartida(ctx, id)
	if err != nil {
		return domain.Partida{}, err
	}
	if p.Encerrada() {
		return domain.Partida{}, fmt.Errorf("%w: partida encerrada, reverta o resultado antes", ErrStatusInvalido)
	}

	p.Status = status
	p.AtualizadoEm = s.clock.Agora()
	if err := s.repos.Partidas.Update(ctx, p); err != nil {
		return domain.Partida{}, traduzir(err, ErrPartidaNaoEncontrada)
	}
	return p, nil
}

func (s *Service) ListarPartidas(ctx context.Context, partidaIDs []domain.PartidaID) ([]domain.Partida, error) {
	return s.repos.Partidas.ListByIDs(ctx, semRepetidos(partidaIDs))
}

// ExcluirPartida remove a partida e seus palpites; recusa se alguma quiniela não finalizada a usa.
func (s *Service) ExcluirPartida(ctx context.Context, id domain.PartidaID) error {
	afetados := make(map[domain.UsuarioID]bool)

	err := s.tx.Executar(ctx, func(ctx context.Context, repos domain.Repositorios) error {
		if _, err := repos.Partidas.FindByID(ctx, id); err != nil {
			return traduzir(err, ErrPartidaNaoEncontrada)
		}

		quinielas, err := repos.Quinielas.ListByPartida(ctx, id)
		if err != nil {
			return err
		}
		for _, q := range quinielas {
			if q.Status != domain.QuinielaFinalizada {
				return fmt.Errorf("%w: quiniela %s (%s)", ErrPartidaEmUso, q.ID, q.Status)
			}
		}

		palpites, err := repos.Palpites.ListByPartida(ctx, id)
		if err != nil {
			return err
		}
		for _, p := range palpites {
			afetados[p.UsuarioID] = true
		}

		if _, err := repos.Palpites.DeleteByPartida(ctx, id); err != nil {
			return err
		}
		return repos.Partidas.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	logger.Info("partida excluida", "partida", id, "usuarios_afetados", len(afetados))
	s.recalcularVarios(ctx, afetados)
	return nil
}

func (s *Service) buscarPartida(ctx context.Context, id domain.PartidaID) (domain.Partida, error) {
	p, err := s.repos.Partidas.FindByID(ctx, id)
	if err != nil {
		return domain.Partida{}, traduzir(err, ErrPartidaNaoEncontrada)
	}
	return p, nil
}

func validarPartida(p domain.Partida) error {
	if p.TimeCasa == "" || p.TimeFora == "" {
		return fmt.Errorf("%w: times obrigatorios", ErrPartidaInvalida)
	}
	if strings.EqualFold(p.TimeCasa, p.TimeFora) {
		return fmt.Errorf("%w: time da casa e visitante iguais", ErrPartidaInvalida)
	}
	if p.Data.IsZero() {
		return fmt.Errorf("%w: data obrigatoria", ErrPartidaInvalida)
	}
	return nil
}
