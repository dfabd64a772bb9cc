package httpapi

import (
	"net/http"
	"time"

	"github.com/marcelojr/quiniela/internal/domain"
)

type partidaRequest struct {
	ID       string    `json:"id" validate:"omitempty,max=64"`
	TimeCasa string    `json:"time_casa" validate:"required,max=80"`
	TimeFora string    `json:"time_fora" validate:"required,max=80"`
	Liga     string    `json:"liga" validate:"omitempty,max=80"`
	Data     time.Time `json:"data" validate:"required"`
	Status   string    `json:"status" validate:"omitempty,oneof=SCHEDULED LIVE"`
}

func (p partidaRequest) partida() domain.Partida {
	return domain.Partida{
		ID:       domain.PartidaID(p.ID),
		TimeCasa: p.TimeCasa,
		TimeFora: p.TimeFora,
		Liga:     p.Liga,
		Data:     p.Data,
		Status:   domain.StatusPartida(p.Status),
	}
}

type importarRequest struct {
	Partidas []partidaRequest `json:"partidas" validate:"required,min=1,dive"`
}

type importarResponse struct {
	Partidas []domain.Partida `json:"partidas"`
	Erro     string           `json:"erro,omitempty"`
}

type statusPartidaRequest struct {
	Status string `json:"status" validate:"required,oneof=SCHEDULED LIVE"`
}

type placarRequest struct {
	GolsCasa *int `json:"gols_casa" validate:"required,min=0"`
	GolsFora *int `json:"gols_fora" validate:"required,min=0"`
}

type resultadoEntradaRequest struct {
	PartidaID string `json:"partida_id" validate:"required"`
	GolsCasa  *int   `json:"gols_casa" validate:"required,min=0"`
	GolsFora  *int   `json:"gols_fora" validate:"required,min=0"`
}

type resultadosRequest struct {
	Resultados []resultadoEntradaRequest `json:"resultados" validate:"required,min=1,dive"`
}

func (a *API) listarPartidas(w http.ResponseWriter, r *http.Request) {
	raw := separarLista(r.URL.Query().Get("ids"))
	ids := make([]domain.PartidaID, 0, len(raw))
	for _, id := range raw {
		ids = append(ids, domain.PartidaID(id))
	}

	partidas, err := a.service.ListarPartidas(r.Context(), ids)
	if err != nil {
		a.logger.Error("erro ao listar partidas", "err", err)
		a.responderErro(w, err)
		return
	}
	if partidas == nil {
		partidas = []domain.Partida{}
	}
	responderJSON(w, http.StatusOK, partidas)
}

func (a *API) criarPartida(w http.ResponseWriter, r *http.Request) {
	var req partidaRequest
	if err := a.decodificar(r.Context(), r, &req); err != nil {
		a.responderErro(w, err)
		return
	}

	p, err := a.service.CriarPartida(r.Context(), req.partida())
	if err != nil {
		a.logger.Warn("falha ao criar partida", "err", err)
		a.responderErro(w, err)
		return
	}
	responderJSON(w, http.StatusCreated, p)
}

// importarPartidas responde 200 com as criadas mesmo em falha parcial; o erro vem junto no corpo.
func (a *API) importarPartidas(w http.ResponseWriter, r *http.Request) {
	var req importarRequest
	if err := a.decodificar(r.Context(), r, &req); err != nil {
		a.responderErro(w, err)
		return
	}

	partidas := make([]domain.Partida, 0, len(req.Partidas))
	for _, p := range req.Partidas {
		partidas = append(partidas, p.partida())
	}

	criadas, err := a.service.ImportarPartidas(r.Context(), partidas)
	if err != nil && len(criadas) == 0 {
		a.responderErro(w, err)
		return
	}

	resp := importarResponse{Partidas: criadas}
	if err != nil {
		a.logger.Warn("importacao parcial de partidas", "err", err, "criadas", len(criadas), "enviadas", len(partidas))
		resp.Erro = err.Error()
	}
	responderJSON(w, http.StatusOK, resp)
}

func (a *API) atualizarPartida(w http.ResponseWriter, r *http.Request) {
	var req partidaRequest
	if err := a.decodificar(r.Context(), r, &req); err != nil {
		a.responderErro(w, err)
		return
	}
	p := req.partida()
	p.ID = domain.PartidaID(paramID(r))

	atualizada, err := a.service.AtualizarPartida(r.Context(), p)
	if err != nil {
		a.responderErro(w, err)
		return
	}
	responderJSON(w, http.StatusOK, atualizada)
}

func (a *API) atualizarStatusPartida(w http.ResponseWriter, r *http.Request) {
	var req statusPartidaRequest
	if err := a.decodificar(r.Context(), r, &req); err != nil {
		a.responderErro(w, err)
		return
	}

	p, err := a.service.AtualizarStatusPartida(r.Context(), domain.PartidaID(paramID(r)), domain.StatusPartida(req.Status))
	if err != nil {
		a.responderErro(w, err)
		return
	}
	responderJSON(w, http.StatusOK, p)
}

func (a *API) excluirPartida(w http.ResponseWriter, r *http.Request) {
	if err := a.service.ExcluirPartida(r.Context(), domain.PartidaID(paramID(r))); err != nil {
		a.logger.Warn("falha ao excluir partida", "err", err, "partida", paramID(r))
		a.responderErro(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) registrarResultado(w http.ResponseWriter, r *http.Request) {
	var req placarRequest
	if err := a.decodificar(r.Context(), r, &req); err != nil {
		a.responderErro(w, err)
		return
	}

	p, err := a.service.RegistrarResultado(r.Context(), domain.PartidaID(paramID(r)), *req.GolsCasa, *req.GolsFora)
	if err != nil {
		a.logger.Error("falha ao registrar resultado", "err", err, "partida", paramID(r))
		a.responderErro(w, err)
		return
	}
	responderJSON(w, http.StatusOK, p)
}

func (a *API) reverterResultado(w http.ResponseWriter, r *http.Request) {
	p, err := a.service.ReverterResultado(r.Context(), domain.PartidaID(paramID(r)))
	if err != nil {
		a.responderErro(w, err)
		return
	}
	responderJSON(w, http.StatusOK, p)
}

func (a *API) registrarResultados(w http.ResponseWriter, r *http.Request) {
	var req resultadosRequest
	if err := a.decodificar(r.Context(), r, &req); err != nil {
		a.responderErro(w, err)
		return
	}

	entradas := make([]domain.ResultadoEntrada, 0, len(req.Resultados))
	for _, e := range req.Resultados {
		entradas = append(entradas, domain.ResultadoEntrada{PartidaID: domain.PartidaID(e.PartidaID), GolsCasa: *e.GolsCasa, GolsFora: *e.GolsFora})
	}

	if err := a.service.RegistrarResultados(r.Context(), entradas); err != nil {
		a.logger.Warn("resultados em lote com falhas", "err", err, "total", len(entradas))
		a.responderErro(w, err)
		return
	}
	responderJSON(w, http.StatusOK, map[string]int{"registrados": len(entradas)})
}
