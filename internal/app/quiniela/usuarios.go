package quiniela

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/marcelojr/quiniela/internal/domain"
	"github.com/marcelojr/quiniela/internal/platform/logger"
)

func (s *Service) CriarUsuario(ctx context.Context, u domain.Usuario) (domain.Usuario, error) {
	u.Nome = strings.TrimSpace(u.Nome)
	if u.Nome == "" {
		return domain.Usuario{}, fmt.Errorf("%w: nome obrigatorio", ErrUsuarioInvalido)
	}
	switch u.Papel {
	case "":
		u.Papel = domain.PapelUsuario
	case domain.PapelUsuario, domain.PapelAdmin:
	default:
		return domain.Usuario{}, fmt.Errorf("%w: papel %q", ErrUsuarioInvalido, u.Papel)
	}

	if u.ID == "" {
		u.ID = domain.UsuarioID(s.ids.New())
	} else if _, err := s.repos.Usuarios.FindByID(ctx, u.ID); err == nil {
		return domain.Usuario{}, fmt.Errorf("%w: %s", ErrUsuarioDuplicado, u.ID)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.Usuario{}, err
	}

	agora := s.clock.Agora()
	u.TotalPontos = 0
	u.TotalGanhos = decimal.Zero
	u.QuinielasVencidas = 0
	u.QuinielasJogadas = 0
	u.CriadoEm = agora
	u.AtualizadoEm = agora

	if err := s.repos.Usuarios.Create(ctx, u); err != nil {
		return domain.Usuario{}, err
	}
	return u, nil
}

// ExcluirUsuario recusa enquanto houver pagamento pendente envolvendo o usuário.
func (s *Service) ExcluirUsuario(ctx context.Context, id domain.UsuarioID) error {
	if _, err := s.repos.Usuarios.FindByID(ctx, id); err != nil {
		return traduzir(err, ErrUsuarioNaoEncontrado)
	}

	pendentes, err := s.repos.Pagamentos.List(ctx, domain.FiltroPagamentos{UsuarioID: id, Status: domain.PagamentoPendente})
	if err != nil {
		return err
	}
	if len(pendentes) > 0 {
		return fmt.Errorf("%w: %d", ErrPagamentosPendentes, len(pendentes))
	}

	if err := s.repos.Usuarios.Delete(ctx, id); err != nil {
		return traduzir(err, ErrUsuarioNaoEncontrado)
	}
	logger.Info("usuario excluido", "usuario", id)
	return nil
}

// RankingGlobal lista quem joga (admins ficam de fora) por pontos totais.
func (s *Service) RankingGlobal(ctx context.Context) ([]domain.Usuario, error) {
	usuarios, err := s.repos.Usuarios.List(ctx)
	if err != nil {
		return nil, err
	}

	ranking := make([]domain.Usuario, 0, len(usuarios))
	for _, u := range usuarios {
		if u.Papel == domain.PapelAdmin {
			continue
		}
		ranking = append(ranking, u)
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		if ranking[i].TotalPontos != ranking[j].TotalPontos {
			return ranking[i].TotalPontos > ranking[j].TotalPontos
		}
		return ranking[i].ID < ranking[j].ID
	})
	return ranking, nil
}

// RecalcularAgregados refaz os totais do usuário a partir de palpites, pagamentos pagos e vitórias.
func (s *Service) RecalcularAgregados(ctx context.Context, id domain.UsuarioID) (domain.Usuario, error) {
	u, err := s.repos.Usuarios.FindByID(ctx, id)
	if err != nil {
		return domain.Usuario{}, traduzir(err, ErrUsuarioNaoEncontrado)
	}

	agregados, err := s.agregados(ctx, id)
	if err != nil {
		return domain.Usuario{}, err
	}
	if err := s.repos.Usuarios.AtualizarAgregados(ctx, id, agregados); err != nil {
		return domain.Usuario{}, traduzir(err, ErrUsuarioNaoEncontrado)
	}

	u.TotalPontos = agregados.TotalPontos
	u.TotalGanhos = agregados.TotalGanhos
	u.QuinielasVencidas = agregados.QuinielasVencidas
	u.QuinielasJogadas = agregados.QuinielasJogadas
	return u, nil
}

func (s *Service) agregados(ctx context.Context, id domain.UsuarioID) (domain.AgregadosUsuario, error) {
	palpites, err := s.repos.Palpites.ListByUsuario(ctx, id)
	if err != nil {
		return domain.AgregadosUsuario{}, err
	}
	a := domain.AgregadosUsuario{TotalGanhos: decimal.Zero}
	jogadas := make(map[domain.QuinielaID]bool)
	for _, p := range palpites {
		a.TotalPontos += p.Pontos
		jogadas[p.QuinielaID] = true
	}
	a.QuinielasJogadas = len(jogadas)

	recebidos, err := s.repos.Pagamentos.List(ctx, domain.FiltroPagamentos{UsuarioID: id, Status: domain.PagamentoPago})
	if err != nil {
		return domain.AgregadosUsuario{}, err
	}
	for _, p := range recebidos {
		if p.ParaUsuarioID == id {
			a.TotalGanhos = a.TotalGanhos.Add(p.Valor)
		}
	}

	a.QuinielasVencidas, err = s.repos.Quinielas.ContarVitorias(ctx, id)
	if err != nil {
		return domain.AgregadosUsuario{}, err
	}
	return a, nil
}

// recalcularVarios é usado nos pós-processamentos: falha de um usuário não interrompe os outros.
func (s *Service) recalcularVarios(ctx context.Context, usuarios map[domain.UsuarioID]bool) {
	for id := range usuarios {
		if _, err := s.RecalcularAgregados(ctx, id); err != nil {
			if errors.Is(err, ErrUsuarioNaoEncontrado) {
				continue
			}
			logger.Error("falha ao recalcular agregados", "usuario", id, "err", err)
		}
	}
}
