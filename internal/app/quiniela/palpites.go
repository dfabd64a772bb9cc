package quiniela

import (
	"context"
	"fmt"

	"github.com/marcelojr/quiniela/internal/app/lifecycle"
	"github.com/marcelojr/quiniela/internal/domain"
	"github.com/marcelojr/quiniela/internal/platform/ids"
	"github.com/marcelojr/quiniela/internal/platform/logger"
)

// EnviarPalpite grava (ou sobrescreve) o palpite do usuário para a partida.
// Sem QuinielaID, vale a quiniela atual.
func (s *Service) EnviarPalpite(ctx context.Context, p domain.Palpite) (domain.Palpite, error) {
	if p.UsuarioID == "" || p.PartidaID == "" {
		return domain.Palpite{}, fmt.Errorf("%w: usuario e partida obrigatorios", ErrPalpiteInvalido)
	}
	if p.GolsCasa < 0 || p.GolsFora < 0 {
		return domain.Palpite{}, fmt.Errorf("%w: gols negativos", ErrPalpiteInvalido)
	}

	var q domain.Quiniela
	var err error
	if p.QuinielaID == "" {
		q, err = s.repos.Quinielas.Atual(ctx)
		err = traduzir(err, ErrQuinielaNaoEncontrada)
	} else {
		q, err = s.buscarQuiniela(ctx, p.QuinielaID)
	}
	if err != nil {
		return domain.Palpite{}, err
	}

	agora := s.clock.Agora()
	if !lifecycle.EstaAberta(q, agora) {
		return domain.Palpite{}, fmt.Errorf("%w: %s (%s)", ErrQuinielaFechada, q.ID, lifecycle.StatusEfetivo(q, agora))
	}
	if !q.ContemPartida(p.PartidaID) {
		return domain.Palpite{}, fmt.Errorf("%w: %s em %s", ErrPartidaForaDaQuiniela, p.PartidaID, q.ID)
	}
	partida, err := s.buscarPartida(ctx, p.PartidaID)
	if err != nil {
		return domain.Palpite{}, err
	}
	// Palpite em partida com placar conhecido só é possível após reativar a quiniela.
	if partida.Encerrada() {
		return domain.Palpite{}, fmt.Errorf("%w: %s", ErrPartidaEncerrada, p.PartidaID)
	}
	if _, err := s.repos.Usuarios.FindByID(ctx, p.UsuarioID); err != nil {
		return domain.Palpite{}, traduzir(err, ErrUsuarioNaoEncontrado)
	}

	p.QuinielaID = q.ID
	if s.antifraude != nil {
		if err := s.antifraude.Validar(ctx, p); err != nil {
			return domain.Palpite{}, err
		}
	}

	p.ID = ids.Palpite(p.UsuarioID, p.PartidaID)
	p.Pontos = 0
	p.CriadoEm = agora
	p.AtualizadoEm = agora

	novo, err := s.repos.Palpites.Upsert(ctx, p)
	if err != nil {
		return domain.Palpite{}, err
	}
	if novo {
		s.contarPalpite(ctx, p)
	}
	return p, nil
}

func (s *Service) ListarPalpites(ctx context.Context, usuarioID domain.UsuarioID, quinielaID domain.QuinielaID) ([]domain.Palpite, error) {
	palpites, err := s.repos.Palpites.ListByUsuario(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	if quinielaID == "" {
		return palpites, nil
	}

	filtrados := make([]domain.Palpite, 0, len(palpites))
	for _, p := range palpites {
		if p.QuinielaID == quinielaID {
			filtrados = append(filtrados, p)
		}
	}
	return filtrados, nil
}

// contarPalpite alimenta o resumo; contador fora do ar não invalida o palpite já gravado.
func (s *Service) contarPalpite(ctx context.Context, p domain.Palpite) {
	if s.contador == nil {
		return
	}
	if _, err := s.contador.Incrementar(ctx, CounterKeyTotalQuiniela(p.QuinielaID), 1); err != nil {
		logger.Warn("falha ao incrementar contador", "quiniela", p.QuinielaID, "err", err)
		return
	}
	if _, err := s.contador.Incrementar(ctx, CounterKeyPartida(p.QuinielaID, p.PartidaID), 1); err != nil {
		logger.Warn("falha ao incrementar contador", "quiniela", p.QuinielaID, "partida", p.PartidaID, "err", err)
	}
}
