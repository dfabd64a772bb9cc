// Pacote httpapi expõe os handlers REST e traduz requisições HTTP para o serviço do bolão.
package httpapi

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/marcelojr/quiniela/internal/domain"
	"github.com/marcelojr/quiniela/internal/platform/health"
)

const HeaderAdminToken = "X-Admin-Token"

// API empacota handlers HTTP ligados ao serviço do bolão e ao logger.
type API struct {
	service    domain.QuinielaService
	logger     *slog.Logger
	validator  *validator.Validate
	adminToken string
}

func New(service domain.QuinielaService, logger *slog.Logger, adminToken string) *API {
	return &API{
		service:    service,
		logger:     logger,
		validator:  validator.New(),
		adminToken: strings.TrimSpace(adminToken),
	}
}

// Register monta as rotas públicas e o sub-roteador de administração.
func (a *API) Register(r chi.Router) {
	r.Get("/healthz", health.LiveHandler())

	r.Get("/quinielas/atual", a.quinielaAtual)
	r.Get("/quinielas/{id}", a.obterQuiniela)
	r.Get("/quinielas/{id}/ranking", a.rankingQuiniela)
	r.Get("/quinielas/{id}/resumo", a.resumoQuiniela)
	r.Post("/palpites", a.enviarPalpite)
	r.Get("/usuarios/{id}/palpites", a.listarPalpites)
	r.Get("/ranking", a.rankingGlobal)
	r.Get("/partidas", a.listarPartidas)
	r.Get("/pagamentos", a.listarPagamentos)

	r.Route("/admin", func(r chi.Router) {
		r.Use(a.exigirAdmin)

		r.Post("/quinielas", a.criarQuiniela)
		r.Post("/quinielas/{id}/fechar", a.fecharQuiniela)
		r.Post("/quinielas/{id}/reabrir", a.reabrirQuiniela)
		r.Post("/quinielas/{id}/reativar", a.reativarQuiniela)
		r.Post("/quinielas/{id}/finalizar", a.finalizarQuiniela)
		r.Post("/quinielas/{id}/liquidar", a.liquidarQuiniela)

		r.Post("/partidas", a.criarPartida)
		r.Post("/partidas/importar", a.importarPartidas)
		r.Put("/partidas/{id}", a.atualizarPartida)
		r.Put("/partidas/{id}/status", a.atualizarStatusPartida)
		r.Delete("/partidas/{id}", a.excluirPartida)
		r.Put("/partidas/{id}/resultado", a.registrarResultado)
		r.Delete("/partidas/{id}/resultado", a.reverterResultado)
		r.Post("/resultados", a.registrarResultados)

		r.Post("/usuarios", a.criarUsuario)
		r.Delete("/usuarios/{id}", a.excluirUsuario)
		r.Post("/usuarios/{id}/recalcular", a.recalcularAgregados)

		r.Patch("/pagamentos/{id}", a.atualizarPagamento)
	})
}

// exigirAdmin compara o token em tempo constante; sem token configurado a área fica fechada.
func (a *API) exigirAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.adminToken == "" {
			responderJSON(w, http.StatusServiceUnavailable, map[string]string{"erro": "administracao desabilitada: ADMIN_TOKEN ausente"})
			return
		}
		token := r.Header.Get(HeaderAdminToken)
		if subtle.ConstantTimeCompare([]byte(token), []byte(a.adminToken)) != 1 {
			a.logger.Warn("token de administracao invalido", "rota", r.URL.Path, "ip", r.RemoteAddr)
			a.responderErro(w, errNaoAutorizado)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// decodificar lê o corpo JSON e aplica as regras `validate` do payload.
func (a *API) decodificar(ctx context.Context, r *http.Request, payload any) error {
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		return fmt.Errorf("%w: payload invalido: %v", errValidacao, err)
	}
	if err := a.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: %v", errValidacao, err)
	}
	return nil
}

func responderJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// responderErro devolve a mensagem dos erros de domínio; falhas internas só vão para o log.
func (a *API) responderErro(w http.ResponseWriter, err error) {
	status := statusHTTP(err)
	if status == http.StatusInternalServerError {
		a.logger.Error("falha interna", "err", err)
		responderJSON(w, status, map[string]string{"erro": "erro interno"})
		return
	}
	responderJSON(w, status, map[string]string{"erro": err.Error()})
}

func paramID(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "id"))
}

// separarLista aceita "a,b, c" e descarta itens vazios.
func separarLista(raw string) []string {
	if raw == "" {
		return nil
	}
	partes := strings.Split(raw, ",")
	itens := make([]string, 0, len(partes))
	for _, p := range partes {
		if p = strings.TrimSpace(p); p != "" {
			itens = append(itens, p)
		}
	}
	return itens
}
