package httpapi

import (
	"net/http"
	"time"

	"github.com/marcelojr/quiniela/internal/domain"
)

type novaQuinielaRequest struct {
	Nome       string    `json:"nome" validate:"required,max=120"`
	PartidaIDs []string  `json:"partida_ids" validate:"required,min=1,dive,required"`
	Prazo      time.Time `json:"prazo" validate:"required"`
}

type fecharRequest struct {
	Motivo string `json:"motivo" validate:"required,max=500"`
}

type reativarRequest struct {
	Prazo *time.Time `json:"prazo"`
}

func (a *API) quinielaAtual(w http.ResponseWriter, r *http.Request) {
	view, err := a.service.QuinielaAtual(r.Context())
	if err != nil {
		a.logger.Warn("erro ao obter quiniela atual", "err", err)
		a.responderErro(w, err)
		return
	}
	responderJSON(w, http.StatusOK, view)
}

func (a *API) obterQuiniela(w http.ResponseWriter, r *http.Request) {
	view, err := a.service.ObterQuiniela(r.Context(), domain.QuinielaID(paramID(r)))
	if err != nil {
		a.responderErro(w, err)
		return
	}
	responderJSON(w, http.StatusOK, view)
}

func (a *API) rankingQuiniela(w http.ResponseWriter, r *http.Request) {
	ranking, err := a.service.RankingQuiniela(r.Context(), domain.QuinielaID(paramID(r)))
	if err != nil {
		a.logger.Error("erro ao montar ranking", "err", err, "quiniela", paramID(r))
		a.responderErro(w, err)
		return
	}
	responderJSON(w, http.StatusOK, ranking)
}

func (a *API) resumoQuiniela(w http.ResponseWriter, r *http.Request) {
	resumo, err := a.service.Resumo(r.Context(), domain.QuinielaID(paramID(r)))
	if err != nil {
		a.logger.Error("erro ao obter resumo", "err", err, "quiniela", paramID(r))
		a.responderErro(w, err)
		return
	}
	responderJSON(w, http.StatusOK, resumo)
}

func (a *API) criarQuiniela(w http.ResponseWriter, r *http.Request) {
	var req novaQuinielaRequest
	if err := a.decodificar(r.Context(), r, &req); err != nil {
		a.responderErro(w, err)
		return
	}

	partidas := make([]domain.PartidaID, 0, len(req.PartidaIDs))
	for _, id := range req.PartidaIDs {
		partidas = append(partidas, domain.PartidaID(id))
	}

	view, err := a.service.CriarQuiniela(r.Context(), domain.NovaQuiniela{Nome: req.Nome, PartidaIDs: partidas, Prazo: req.Prazo})
	if err != nil {
		a.logger.Warn("falha ao criar quiniela", "err", err, "nome", req.Nome)
		a.responderErro(w, err)
		return
	}
	responderJSON(w, http.StatusCreated, view)
}

func (a *API) fecharQuiniela(w http.ResponseWriter, r *http.Request) {
	var req fecharRequest
	if err := a.decodificar(r.Context(), r, &req); err != nil {
		a.responderErro(w, err)
		return
	}
	a.responderView(w, r, func(id domain.QuinielaID) (domain.QuinielaView, error) {
		return a.service.FecharQuiniela(r.Context(), id, req.Motivo)
	})
}

func (a *API) reabrirQuiniela(w http.ResponseWriter, r *http.Request) {
	a.responderView(w, r, func(id domain.QuinielaID) (domain.QuinielaView, error) {
		return a.service.ReabrirQuiniela(r.Context(), id)
	})
}

// reativarQuiniela aceita corpo vazio: sem novo prazo, mantém o atual.
func (a *API) reativarQuiniela(w http.ResponseWriter, r *http.Request) {
	var req reativarRequest
	if r.ContentLength != 0 {
		if err := a.decodificar(r.Context(), r, &req); err != nil {
			a.responderErro(w, err)
			return
		}
	}
	a.responderView(w, r, func(id domain.QuinielaID) (domain.QuinielaView, error) {
		return a.service.ReativarQuiniela(r.Context(), id, req.Prazo)
	})
}

func (a *API) finalizarQuiniela(w http.ResponseWriter, r *http.Request) {
	a.responderView(w, r, func(id domain.QuinielaID) (domain.QuinielaView, error) {
		return a.service.FinalizarQuiniela(r.Context(), id)
	})
}

func (a *API) liquidarQuiniela(w http.ResponseWriter, r *http.Request) {
	liq, err := a.service.LiquidarQuiniela(r.Context(), domain.QuinielaID(paramID(r)))
	if err != nil {
		a.logger.Warn("falha ao liquidar quiniela", "err", err, "quiniela", paramID(r))
		a.responderErro(w, err)
		return
	}
	responderJSON(w, http.StatusOK, liq)
}

func (a *API) responderView(w http.ResponseWriter, r *http.Request, fn func(domain.QuinielaID) (domain.QuinielaView, error)) {
	view, err := fn(domain.QuinielaID(paramID(r)))
	if err != nil {
		a.logger.Warn("transicao de quiniela recusada", "err", err, "quiniela", paramID(r), "rota", r.URL.Path)
		a.responderErro(w, err)
		return
	}
	responderJSON(w, http.StatusOK, view)
}
