package httpapi

import (
	"net/http"

	"github.com/marcelojr/quiniela/internal/domain"
	"github.com/marcelojr/quiniela/internal/platform/metrics"
)

type palpiteRequest struct {
	UsuarioID  string `json:"usuario_id" validate:"required"`
	PartidaID  string `json:"partida_id" validate:"required"`
	QuinielaID string `json:"quiniela_id"`
	GolsCasa   *int   `json:"gols_casa" validate:"required,min=0"`
	GolsFora   *int   `json:"gols_fora" validate:"required,min=0"`
}

func (a *API) enviarPalpite(w http.ResponseWriter, r *http.Request) {
	var req palpiteRequest
	if err := a.decodificar(r.Context(), r, &req); err != nil {
		metrics.ObservePalpiteRequest("invalid_payload")
		a.logger.Warn("payload invalido ao enviar palpite", "err", err)
		a.responderErro(w, err)
		return
	}

	palpite, err := a.service.EnviarPalpite(r.Context(), domain.Palpite{
		UsuarioID:  domain.UsuarioID(req.UsuarioID),
		PartidaID:  domain.PartidaID(req.PartidaID),
		QuinielaID: domain.QuinielaID(req.QuinielaID),
		GolsCasa:   *req.GolsCasa,
		GolsFora:   *req.GolsFora,
	})
	if err != nil {
		status := statusMetrica(err)
		metrics.ObservePalpiteRequest(status)
		a.logger.Warn("falha ao enviar palpite", "err", err, "usuario", req.UsuarioID, "partida", req.PartidaID, "status", status)
		a.responderErro(w, err)
		return
	}

	metrics.ObservePalpiteRequest("accepted")
	responderJSON(w, http.StatusCreated, palpite)
}

func (a *API) listarPalpites(w http.ResponseWriter, r *http.Request) {
	palpites, err := a.service.ListarPalpites(r.Context(), domain.UsuarioID(paramID(r)), domain.QuinielaID(r.URL.Query().Get("quiniela")))
	if err != nil {
		a.responderErro(w, err)
		return
	}
	if palpites == nil {
		palpites = []domain.Palpite{}
	}
	responderJSON(w, http.StatusOK, palpites)
}
