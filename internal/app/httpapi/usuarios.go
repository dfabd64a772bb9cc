package httpapi

import (
	"net/http"

	"github.com/marcelojr/quiniela/internal/domain"
)

type usuarioRequest struct {
	ID    string `json:"id" validate:"omitempty,max=64"`
	Nome  string `json:"nome" validate:"required,max=120"`
	Email string `json:"email" validate:"omitempty,email"`
	Papel string `json:"papel" validate:"omitempty,oneof=user admin"`
}

type pagamentoRequest struct {
	Status string `json:"status" validate:"required,oneof=pending paid disputed"`
}

func (a *API) rankingGlobal(w http.ResponseWriter, r *http.Request) {
	ranking, err := a.service.RankingGlobal(r.Context())
	if err != nil {
		a.logger.Error("erro ao montar ranking global", "err", err)
		a.responderErro(w, err)
		return
	}
	if ranking == nil {
		ranking = []domain.Usuario{}
	}
	responderJSON(w, http.StatusOK, ranking)
}

func (a *API) criarUsuario(w http.ResponseWriter, r *http.Request) {
	var req usuarioRequest
	if err := a.decodificar(r.Context(), r, &req); err != nil {
		a.responderErro(w, err)
		return
	}

	u, err := a.service.CriarUsuario(r.Context(), domain.Usuario{
		ID:    domain.UsuarioID(req.ID),
		Nome:  req.Nome,
		Email: req.Email,
		Papel: domain.Papel(req.Papel),
	})
	if err != nil {
		a.responderErro(w, err)
		return
	}
	responderJSON(w, http.StatusCreated, u)
}

func (a *API) excluirUsuario(w http.ResponseWriter, r *http.Request) {
	if err := a.service.ExcluirUsuario(r.Context(), domain.UsuarioID(paramID(r))); err != nil {
		a.logger.Warn("falha ao excluir usuario", "err", err, "usuario", paramID(r))
		a.responderErro(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) recalcularAgregados(w http.ResponseWriter, r *http.Request) {
	u, err := a.service.RecalcularAgregados(r.Context(), domain.UsuarioID(paramID(r)))
	if err != nil {
		a.responderErro(w, err)
		return
	}
	responderJSON(w, http.StatusOK, u)
}

func (a *API) listarPagamentos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pagamentos, err := a.service.ListarPagamentos(r.Context(), domain.FiltroPagamentos{
		QuinielaID: domain.QuinielaID(q.Get("quiniela")),
		UsuarioID:  domain.UsuarioID(q.Get("usuario")),
		Status:     domain.StatusPagamento(q.Get("status")),
	})
	if err != nil {
		a.responderErro(w, err)
		return
	}
	if pagamentos == nil {
		pagamentos = []domain.Pagamento{}
	}
	responderJSON(w, http.StatusOK, pagamentos)
}

func (a *API) atualizarPagamento(w http.ResponseWriter, r *http.Request) {
	var req pagamentoRequest
	if err := a.decodificar(r.Context(), r, &req); err != nil {
		a.responderErro(w, err)
		return
	}

	p, err := a.service.AtualizarPagamento(r.Context(), domain.PagamentoID(paramID(r)), domain.StatusPagamento(req.Status))
	if err != nil {
		a.logger.Warn("falha ao atualizar pagamento", "err", err, "pagamento", paramID(r))
		a.responderErro(w, err)
		return
	}
	responderJSON(w, http.StatusOK, p)
}
