package httpapi

import (
	"errors"
	"net/http"

	"github.com/marcelojr/quiniela/internal/app/lifecycle"
	"github.com/marcelojr/quiniela/internal/app/quiniela"
	"github.com/marcelojr/quiniela/internal/platform/antifraude"
)

var (
	errValidacao     = errors.New("requisicao invalida")
	errNaoAutorizado = errors.New("token de administracao invalido")
)

var (
	errosRequisicao = []error{
		errValidacao,
		quiniela.ErrQuinielaInvalida,
		quiniela.ErrPartidaInvalida,
		quiniela.ErrPartidaForaDaQuiniela,
		quiniela.ErrPlacarInvalido,
		quiniela.ErrPalpiteInvalido,
		quiniela.ErrStatusInvalido,
		quiniela.ErrUsuarioInvalido,
		lifecycle.ErrMotivoObrigatorio,
	}
	errosNaoEncontrado = []error{
		quiniela.ErrQuinielaNaoEncontrada,
		quiniela.ErrPartidaNaoEncontrada,
		quiniela.ErrPagamentoNaoEncontrado,
		quiniela.ErrUsuarioNaoEncontrado,
	}
	errosConflito = []error{
		quiniela.ErrQuinielaDuplicada,
		quiniela.ErrQuinielaFechada,
		quiniela.ErrPartidaDuplicada,
		quiniela.ErrPartidaEmUso,
		quiniela.ErrPartidaNaoEncerrada,
		quiniela.ErrPartidaEncerrada,
		quiniela.ErrPartidasPendentes,
		quiniela.ErrUsuarioDuplicado,
		quiniela.ErrPagamentosPendentes,
		quiniela.ErrSemPalpites,
		lifecycle.ErrTransicaoInvalida,
		lifecycle.ErrPrazoEncerrado,
	}
)

func statusHTTP(err error) int {
	switch {
	case errors.Is(err, errNaoAutorizado):
		return http.StatusUnauthorized
	case errors.Is(err, antifraude.ErrRateLimitExceeded):
		return http.StatusTooManyRequests
	case algum(err, errosRequisicao):
		return http.StatusBadRequest
	case algum(err, errosNaoEncontrado):
		return http.StatusNotFound
	case algum(err, errosConflito):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// statusMetrica classifica o envio de palpite para o rótulo do Prometheus.
func statusMetrica(err error) string {
	switch {
	case errors.Is(err, antifraude.ErrRateLimitExceeded):
		return "rate_limited"
	case errors.Is(err, quiniela.ErrQuinielaFechada):
		return "closed"
	case algum(err, errosRequisicao):
		return "invalid"
	case algum(err, errosNaoEncontrado):
		return "not_found"
	default:
		return "error"
	}
}

func algum(err error, alvos []error) bool {
	for _, alvo := range alvos {
		if errors.Is(err, alvo) {
			return true
		}
	}
	return false
}
