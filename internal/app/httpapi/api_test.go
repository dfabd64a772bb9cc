package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/marcelojr/quiniela/internal/app/lifecycle"
	"github.com/marcelojr/quiniela/internal/app/quiniela"
	"github.com/marcelojr/quiniela/internal/domain"
	"github.com/marcelojr/quiniela/internal/platform/antifraude"
)

const tokenTeste = "segredo"

// MockQuinielaService implementa domain.QuinielaService para testes
type MockQuinielaService struct {
	mock.Mock
}

func (m *MockQuinielaService) CriarQuiniela(ctx context.Context, nova domain.NovaQuiniela) (domain.QuinielaView, error) {
	args := m.Called(ctx, nova)
	return args.Get(0).(domain.QuinielaView), args.Error(1)
}

func (m *MockQuinielaService) QuinielaAtual(ctx context.Context) (domain.QuinielaView, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.QuinielaView), args.Error(1)
}

func (m *MockQuinielaService) ObterQuiniela(ctx context.Context, id domain.QuinielaID) (domain.QuinielaView, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.QuinielaView), args.Error(1)
}

func (m *MockQuinielaService) FecharQuiniela(ctx context.Context, id domain.QuinielaID, motivo string) (domain.QuinielaView, error) {
	args := m.Called(ctx, id, motivo)
	return args.Get(0).(domain.QuinielaView), args.Error(1)
}

func (m *MockQuinielaService) ReabrirQuiniela(ctx context.Context, id domain.QuinielaID) (domain.QuinielaView, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.QuinielaView), args.Error(1)
}

func (m *MockQuinielaService) ReativarQuiniela(ctx context.Context, id domain.QuinielaID, novoPrazo *time.Time) (domain.QuinielaView, error) {
	args := m.Called(ctx, id, novoPrazo)
	return args.Get(0).(domain.QuinielaView), args.Error(1)
}

func (m *MockQuinielaService) FinalizarQuiniela(ctx context.Context, id domain.QuinielaID) (domain.QuinielaView, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.QuinielaView), args.Error(1)
}

func (m *MockQuinielaService) LiquidarQuiniela(ctx context.Context, id domain.QuinielaID) (domain.Liquidacao, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Liquidacao), args.Error(1)
}

func (m *MockQuinielaService) RankingQuiniela(ctx context.Context, id domain.QuinielaID) ([]domain.Colocacao, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]domain.Colocacao), args.Error(1)
}

func (m *MockQuinielaService) Resumo(ctx context.Context, id domain.QuinielaID) (domain.ResumoQuiniela, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.ResumoQuiniela), args.Error(1)
}

func (m *MockQuinielaService) CriarPartida(ctx context.Context, p domain.Partida) (domain.Partida, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(domain.Partida), args.Error(1)
}

func (m *MockQuinielaService) ImportarPartidas(ctx context.Context, partidas []domain.Partida) ([]domain.Partida, error) {
	args := m.Called(ctx, partidas)
	return args.Get(0).([]domain.Partida), args.Error(1)
}

func (m *MockQuinielaService) AtualizarPartida(ctx context.Context, p domain.Partida) (domain.Partida, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(domain.Partida), args.Error(1)
}

func (m *MockQuinielaService) AtualizarStatusPartida(ctx context.Context, id domain.PartidaID, status domain.StatusPartida) (domain.Partida, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(domain.Partida), args.Error(1)
}

func (m *MockQuinielaService) ListarPartidas(ctx context.Context, ids []domain.PartidaID) ([]domain.Partida, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.Partida), args.Error(1)
}

func (m *MockQuinielaService) ExcluirPartida(ctx context.Context, id domain.PartidaID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockQuinielaService) RegistrarResultado(ctx context.Context, id domain.PartidaID, golsCasa, golsFora int) (domain.Partida, error) {
	args := m.Called(ctx, id, golsCasa, golsFora)
	return args.Get(0).(domain.Partida), args.Error(1)
}

func (m *MockQuinielaService) ReverterResultado(ctx context.Context, id domain.PartidaID) (domain.Partida, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Partida), args.Error(1)
}

func (m *MockQuinielaService) RegistrarResultados(ctx context.Context, entradas []domain.ResultadoEntrada) error {
	return m.Called(ctx, entradas).Error(0)
}

func (m *MockQuinielaService) EnviarPalpite(ctx context.Context, p domain.Palpite) (domain.Palpite, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(domain.Palpite), args.Error(1)
}

func (m *MockQuinielaService) ListarPalpites(ctx context.Context, usuarioID domain.UsuarioID, quinielaID domain.QuinielaID) ([]domain.Palpite, error) {
	args := m.Called(ctx, usuarioID, quinielaID)
	return args.Get(0).([]domain.Palpite), args.Error(1)
}

func (m *MockQuinielaService) ListarPagamentos(ctx context.Context, filtro domain.FiltroPagamentos) ([]domain.Pagamento, error) {
	args := m.Called(ctx, filtro)
	return args.Get(0).([]domain.Pagamento), args.Error(1)
}

func (m *MockQuinielaService) AtualizarPagamento(ctx context.Context, id domain.PagamentoID, status domain.StatusPagamento) (domain.Pagamento, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(domain.Pagamento), args.Error(1)
}

func (m *MockQuinielaService) CriarUsuario(ctx context.Context, u domain.Usuario) (domain.Usuario, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(domain.Usuario), args.Error(1)
}

func (m *MockQuinielaService) ExcluirUsuario(ctx context.Context, id domain.UsuarioID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockQuinielaService) RankingGlobal(ctx context.Context) ([]domain.Usuario, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Usuario), args.Error(1)
}

func (m *MockQuinielaService) RecalcularAgregados(ctx context.Context, id domain.UsuarioID) (domain.Usuario, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Usuario), args.Error(1)
}

// setupAPI monta o roteador completo com serviço mockado
func setupAPI(t *testing.T) (http.Handler, *MockQuinielaService) {
	mockService := new(MockQuinielaService)
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{}))
	api := New(mockService, logger, tokenTeste)

	r := chi.NewRouter()
	api.Register(r)

	t.Cleanup(func() {
		mockService.AssertExpectations(t)
	})

	return r, mockService
}

func requisitar(t *testing.T, h http.Handler, metodo, rota, corpo string, admin bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(metodo, rota, strings.NewReader(corpo))
	if admin {
		req.Header.Set(HeaderAdminToken, tokenTeste)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func erroDoCorpo(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var response map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	return response["erro"]
}

// === TESTES GET /healthz ===

func TestHealthz_QuandoSolicitado_DeveRetornar200(t *testing.T) {
	h, _ := setupAPI(t)

	w := requisitar(t, h, http.MethodGet, "/healthz", "", false)

	assert.Equal(t, http.StatusOK, w.Code)
}

// === TESTES /quinielas ===

func TestQuinielaAtual_QuandoExiste_DeveRetornarView(t *testing.T) {
	h, mockService := setupAPI(t)
	view := domain.QuinielaView{Quiniela: domain.Quiniela{ID: "week_2024_10", Nome: "Rodada 10"}, StatusEfetivo: domain.QuinielaAberta, Aberta: true}
	mockService.On("QuinielaAtual", mock.Anything).Return(view, nil)

	w := requisitar(t, h, http.MethodGet, "/quinielas/atual", "", false)

	assert.Equal(t, http.StatusOK, w.Code)
	var response domain.QuinielaView
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, domain.QuinielaID("week_2024_10"), response.ID)
	assert.True(t, response.Aberta)
}

func TestQuinielaAtual_QuandoNaoExiste_DeveRetornar404(t *testing.T) {
	h, mockService := setupAPI(t)
	mockService.On("QuinielaAtual", mock.Anything).Return(domain.QuinielaView{}, quiniela.ErrQuinielaNaoEncontrada)

	w := requisitar(t, h, http.MethodGet, "/quinielas/atual", "", false)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, erroDoCorpo(t, w), "nao encontrada")
}

func TestRankingQuiniela_DeveRepassarIDDaRota(t *testing.T) {
	h, mockService := setupAPI(t)
	ranking := []domain.Colocacao{{Posicao: 1, UsuarioID: "ana", Pontos: 7}}
	mockService.On("RankingQuiniela", mock.Anything, domain.QuinielaID("week_2024_10")).Return(ranking, nil)

	w := requisitar(t, h, http.MethodGet, "/quinielas/week_2024_10/ranking", "", false)

	assert.Equal(t, http.StatusOK, w.Code)
	var response []domain.Colocacao
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, ranking, response)
}

func TestResumo_QuandoServicoFalha_DeveRetornar500(t *testing.T) {
	h, mockService := setupAPI(t)
	mockService.On("Resumo", mock.Anything, domain.QuinielaID("week_2024_10")).Return(domain.ResumoQuiniela{}, assert.AnError)

	w := requisitar(t, h, http.MethodGet, "/quinielas/week_2024_10/resumo", "", false)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "erro interno", erroDoCorpo(t, w))
}

func TestResponderErro_QuandoFalhaInterna_NaoDeveVazarDetalhe(t *testing.T) {
	h, mockService := setupAPI(t)
	mockService.On("ObterQuiniela", mock.Anything, domain.QuinielaID("week_2024_10")).
		Return(domain.QuinielaView{}, errors.New(`gorm quiniela: buscar: pq: relation "quinielas" does not exist`))

	w := requisitar(t, h, http.MethodGet, "/quinielas/week_2024_10", "", false)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "gorm")
	assert.Equal(t, "erro interno", erroDoCorpo(t, w))
}

// === TESTES POST /palpites ===

func TestEnviarPalpite_QuandoValido_DeveRetornar201(t *testing.T) {
	h, mockService := setupAPI(t)
	mockService.On("EnviarPalpite", mock.Anything, mock.MatchedBy(func(p domain.Palpite) bool {
		return p.UsuarioID == "ana" && p.PartidaID == "p1" && p.GolsCasa == 2 && p.GolsFora == 0 && p.QuinielaID == ""
	})).Return(domain.Palpite{ID: "ana_p1", UsuarioID: "ana", PartidaID: "p1", QuinielaID: "week_2024_10", GolsCasa: 2}, nil)

	w := requisitar(t, h, http.MethodPost, "/palpites", `{"usuario_id":"ana","partida_id":"p1","gols_casa":2,"gols_fora":0}`, false)

	assert.Equal(t, http.StatusCreated, w.Code)
	var response domain.Palpite
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, domain.PalpiteID("ana_p1"), response.ID)
}

func TestEnviarPalpite_QuandoPayloadInvalido_DeveRetornar400SemChamarServico(t *testing.T) {
	tests := []struct {
		name  string
		corpo string
	}{
		{name: "json quebrado", corpo: `{"usuario_id":`},
		{name: "sem gols", corpo: `{"usuario_id":"ana","partida_id":"p1"}`},
		{name: "gols negativos", corpo: `{"usuario_id":"ana","partida_id":"p1","gols_casa":-1,"gols_fora":0}`},
		{name: "sem usuario", corpo: `{"partida_id":"p1","gols_casa":1,"gols_fora":0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := setupAPI(t)

			w := requisitar(t, h, http.MethodPost, "/palpites", tt.corpo, false)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestEnviarPalpite_DeveMapearErrosDoServico(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "quiniela fechada", err: fmt.Errorf("%w: week_2024_10", quiniela.ErrQuinielaFechada), status: http.StatusConflict},
		{name: "limite excedido", err: fmt.Errorf("%w: 61 envios", antifraude.ErrRateLimitExceeded), status: http.StatusTooManyRequests},
		{name: "partida fora", err: quiniela.ErrPartidaForaDaQuiniela, status: http.StatusBadRequest},
		{name: "partida encerrada", err: fmt.Errorf("%w: p1", quiniela.ErrPartidaEncerrada), status: http.StatusConflict},
		{name: "usuario inexistente", err: quiniela.ErrUsuarioNaoEncontrado, status: http.StatusNotFound},
		{name: "falha inesperada", err: assert.AnError, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mockService := setupAPI(t)
			mockService.On("EnviarPalpite", mock.Anything, mock.Anything).Return(domain.Palpite{}, tt.err)

			w := requisitar(t, h, http.MethodPost, "/palpites", `{"usuario_id":"ana","partida_id":"p1","gols_casa":1,"gols_fora":1}`, false)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

// === TESTES consultas públicas ===

func TestListarPartidas_DeveSepararIDsDaQuery(t *testing.T) {
	h, mockService := setupAPI(t)
	mockService.On("ListarPartidas", mock.Anything, []domain.PartidaID{"p1", "p2"}).Return([]domain.Partida(nil), nil)

	w := requisitar(t, h, http.MethodGet, "/partidas?ids=p1,%20p2,", "", false)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestListarPagamentos_DeveMontarFiltro(t *testing.T) {
	h, mockService := setupAPI(t)
	filtro := domain.FiltroPagamentos{QuinielaID: "week_2024_10", UsuarioID: "bia"}
	mockService.On("ListarPagamentos", mock.Anything, filtro).Return([]domain.Pagamento{{ID: "week_2024_10_bia_ana"}}, nil)

	w := requisitar(t, h, http.MethodGet, "/pagamentos?quiniela=week_2024_10&usuario=bia", "", false)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListarPalpites_DeveUsarUsuarioDaRotaEQuinielaDaQuery(t *testing.T) {
	h, mockService := setupAPI(t)
	mockService.On("ListarPalpites", mock.Anything, domain.UsuarioID("ana"), domain.QuinielaID("week_2024_10")).Return([]domain.Palpite{{ID: "ana_p1"}}, nil)

	w := requisitar(t, h, http.MethodGet, "/usuarios/ana/palpites?quiniela=week_2024_10", "", false)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRankingGlobal_DeveRetornarLista(t *testing.T) {
	h, mockService := setupAPI(t)
	mockService.On("RankingGlobal", mock.Anything).Return([]domain.Usuario{{ID: "ana", TotalPontos: 12}}, nil)

	w := requisitar(t, h, http.MethodGet, "/ranking", "", false)

	assert.Equal(t, http.StatusOK, w.Code)
	var response []domain.Usuario
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	require.Len(t, response, 1)
	assert.Equal(t, 12, response[0].TotalPontos)
}

// === TESTES /admin ===

func TestAdmin_QuandoTokenAusenteOuErrado_DeveRetornar401(t *testing.T) {
	h, _ := setupAPI(t)

	w := requisitar(t, h, http.MethodPost, "/admin/quinielas/week_2024_10/liquidar", "", false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/admin/quinielas/week_2024_10/liquidar", nil)
	req.Header.Set(HeaderAdminToken, "outro")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdmin_QuandoTokenNaoConfigurado_DeveFecharArea(t *testing.T) {
	api := New(new(MockQuinielaService), slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), "")
	r := chi.NewRouter()
	api.Register(r)

	w := requisitar(t, r, http.MethodPost, "/admin/usuarios", `{"nome":"Ana"}`, true)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCriarQuiniela_QuandoValida_DeveRetornar201(t *testing.T) {
	h, mockService := setupAPI(t)
	prazo := time.Date(2024, 3, 8, 18, 0, 0, 0, time.UTC)
	mockService.On("CriarQuiniela", mock.Anything, domain.NovaQuiniela{
		Nome:       "Rodada 10",
		PartidaIDs: []domain.PartidaID{"p1", "p2"},
		Prazo:      prazo,
	}).Return(domain.QuinielaView{Quiniela: domain.Quiniela{ID: "week_2024_10"}}, nil)

	w := requisitar(t, h, http.MethodPost, "/admin/quinielas", `{"nome":"Rodada 10","partida_ids":["p1","p2"],"prazo":"2024-03-08T18:00:00Z"}`, true)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCriarQuiniela_QuandoSemPartidas_DeveRetornar400(t *testing.T) {
	h, _ := setupAPI(t)

	w := requisitar(t, h, http.MethodPost, "/admin/quinielas", `{"nome":"Rodada 10","partida_ids":[],"prazo":"2024-03-08T18:00:00Z"}`, true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCriarQuiniela_QuandoDuplicada_DeveRetornar409(t *testing.T) {
	h, mockService := setupAPI(t)
	mockService.On("CriarQuiniela", mock.Anything, mock.Anything).Return(domain.QuinielaView{}, quiniela.ErrQuinielaDuplicada)

	w := requisitar(t, h, http.MethodPost, "/admin/quinielas", `{"nome":"Rodada 10","partida_ids":["p1"],"prazo":"2024-03-08T18:00:00Z"}`, true)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestTransicoes_DeveMapearErrosDoCicloDeVida(t *testing.T) {
	h, mockService := setupAPI(t)
	mockService.On("FecharQuiniela", mock.Anything, domain.QuinielaID("q1"), "adiada").Return(domain.QuinielaView{}, lifecycle.ErrTransicaoInvalida)
	mockService.On("ReabrirQuiniela", mock.Anything, domain.QuinielaID("q1")).Return(domain.QuinielaView{}, lifecycle.ErrPrazoEncerrado)
	mockService.On("FinalizarQuiniela", mock.Anything, domain.QuinielaID("q1")).Return(domain.QuinielaView{Quiniela: domain.Quiniela{ID: "q1", Status: domain.QuinielaFinalizada}}, nil)

	w := requisitar(t, h, http.MethodPost, "/admin/quinielas/q1/fechar", `{"motivo":"adiada"}`, true)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = requisitar(t, h, http.MethodPost, "/admin/quinielas/q1/fechar", `{}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = requisitar(t, h, http.MethodPost, "/admin/quinielas/q1/reabrir", "", true)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = requisitar(t, h, http.MethodPost, "/admin/quinielas/q1/finalizar", "", true)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReativarQuiniela_ComESemNovoPrazo(t *testing.T) {
	h, mockService := setupAPI(t)
	novo := time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)
	mockService.On("ReativarQuiniela", mock.Anything, domain.QuinielaID("q1"), (*time.Time)(nil)).Return(domain.QuinielaView{}, nil).Once()
	mockService.On("ReativarQuiniela", mock.Anything, domain.QuinielaID("q1"), mock.MatchedBy(func(p *time.Time) bool {
		return p != nil && p.Equal(novo)
	})).Return(domain.QuinielaView{}, nil).Once()

	w := requisitar(t, h, http.MethodPost, "/admin/quinielas/q1/reativar", "", true)
	assert.Equal(t, http.StatusOK, w.Code)

	w = requisitar(t, h, http.MethodPost, "/admin/quinielas/q1/reativar", `{"prazo":"2024-03-15T18:00:00Z"}`, true)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLiquidarQuiniela_QuandoPartidasPendentes_DeveRetornar409(t *testing.T) {
	h, mockService := setupAPI(t)
	mockService.On("LiquidarQuiniela", mock.Anything, domain.QuinielaID("q1")).Return(domain.Liquidacao{}, quiniela.ErrPartidasPendentes)

	w := requisitar(t, h, http.MethodPost, "/admin/quinielas/q1/liquidar", "", true)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegistrarResultado_DevePassarPlacarDaRota(t *testing.T) {
	h, mockService := setupAPI(t)
	mockService.On("RegistrarResultado", mock.Anything, domain.PartidaID("p1"), 0, 0).Return(domain.Partida{ID: "p1", Status: domain.PartidaEncerrada}, nil)

	w := requisitar(t, h, http.MethodPut, "/admin/partidas/p1/resultado", `{"gols_casa":0,"gols_fora":0}`, true)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReverterResultado_QuandoNaoEncerrada_DeveRetornar409(t *testing.T) {
	h, mockService := setupAPI(t)
	mockService.On("ReverterResultado", mock.Anything, domain.PartidaID("p1")).Return(domain.Partida{}, quiniela.ErrPartidaNaoEncerrada)

	w := requisitar(t, h, http.MethodDelete, "/admin/partidas/p1/resultado", "", true)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegistrarResultados_DeveConverterEntradas(t *testing.T) {
	h, mockService := setupAPI(t)
	mockService.On("RegistrarResultados", mock.Anything, []domain.ResultadoEntrada{
		{PartidaID: "p1", GolsCasa: 2, GolsFora: 1},
		{PartidaID: "p2", GolsCasa: 0, GolsFora: 0},
	}).Return(nil)

	w := requisitar(t, h, http.MethodPost, "/admin/resultados", `{"resultados":[{"partida_id":"p1","gols_casa":2,"gols_fora":1},{"partida_id":"p2","gols_casa":0,"gols_fora":0}]}`, true)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"registrados":2}`, w.Body.String())
}

func TestImportarPartidas_QuandoFalhaParcial_DeveRetornar200ComErro(t *testing.T) {
	h, mockService := setupAPI(t)
	mockService.On("ImportarPartidas", mock.Anything, mock.MatchedBy(func(p []domain.Partida) bool { return len(p) == 2 })).
		Return([]domain.Partida{{ID: "p1"}}, fmt.Errorf("partida 1: %w", quiniela.ErrPartidaDuplicada))

	corpo := `{"partidas":[
		{"time_casa":"Flamengo","time_fora":"Vasco","data":"2024-03-08T20:00:00Z"},
		{"id":"p1","time_casa":"Santos","time_fora":"Palmeiras","data":"2024-03-08T21:00:00Z"}]}`
	w := requisitar(t, h, http.MethodPost, "/admin/partidas/importar", corpo, true)

	assert.Equal(t, http.StatusOK, w.Code)
	var response importarResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Len(t, response.Partidas, 1)
	assert.Contains(t, response.Erro, "ja cadastrada")
}

func TestCriarPartida_QuandoStatusFinished_DeveRetornar400(t *testing.T) {
	h, _ := setupAPI(t)

	w := requisitar(t, h, http.MethodPost, "/admin/partidas", `{"time_casa":"A","time_fora":"B","data":"2024-03-08T20:00:00Z","status":"FINISHED"}`, true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAtualizarPartida_DeveUsarIDDaRota(t *testing.T) {
	h, mockService := setupAPI(t)
	mockService.On("AtualizarPartida", mock.Anything, mock.MatchedBy(func(p domain.Partida) bool {
		return p.ID == "p1" && p.Liga == "Carioca"
	})).Return(domain.Partida{ID: "p1"}, nil)

	w := requisitar(t, h, http.MethodPut, "/admin/partidas/p1", `{"id":"outro","time_casa":"A","time_fora":"B","liga":"Carioca","data":"2024-03-08T20:00:00Z"}`, true)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAtualizarStatusPartida(t *testing.T) {
	h, mockService := setupAPI(t)
	mockService.On("AtualizarStatusPartida", mock.Anything, domain.PartidaID("p1"), domain.PartidaAoVivo).Return(domain.Partida{ID: "p1", Status: domain.PartidaAoVivo}, nil)

	w := requisitar(t, h, http.MethodPut, "/admin/partidas/p1/status", `{"status":"LIVE"}`, true)
	assert.Equal(t, http.StatusOK, w.Code)

	w = requisitar(t, h, http.MethodPut, "/admin/partidas/p1/status", `{"status":"FINISHED"}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExcluirPartida_QuandoEmUso_DeveRetornar409(t *testing.T) {
	h, mockService := setupAPI(t)
	mockService.On("ExcluirPartida", mock.Anything, domain.PartidaID("p1")).Return(quiniela.ErrPartidaEmUso).Once()
	mockService.On("ExcluirPartida", mock.Anything, domain.PartidaID("p2")).Return(nil).Once()

	w := requisitar(t, h, http.MethodDelete, "/admin/partidas/p1", "", true)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = requisitar(t, h, http.MethodDelete, "/admin/partidas/p2", "", true)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestUsuarios_Admin(t *testing.T) {
	h, mockService := setupAPI(t)
	mockService.On("CriarUsuario", mock.Anything, domain.Usuario{Nome: "Ana", Email: "ana@exemplo.com", Papel: domain.PapelAdmin}).
		Return(domain.Usuario{ID: "01H", Nome: "Ana", Papel: domain.PapelAdmin}, nil)
	mockService.On("ExcluirUsuario", mock.Anything, domain.UsuarioID("bia")).Return(quiniela.ErrPagamentosPendentes)
	mockService.On("RecalcularAgregados", mock.Anything, domain.UsuarioID("caio")).Return(domain.Usuario{ID: "caio", TotalPontos: 3}, nil)

	w := requisitar(t, h, http.MethodPost, "/admin/usuarios", `{"nome":"Ana","email":"ana@exemplo.com","papel":"admin"}`, true)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = requisitar(t, h, http.MethodPost, "/admin/usuarios", `{"nome":"Ana","email":"nao-e-email"}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = requisitar(t, h, http.MethodDelete, "/admin/usuarios/bia", "", true)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = requisitar(t, h, http.MethodPost, "/admin/usuarios/caio/recalcular", "", true)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAtualizarPagamento(t *testing.T) {
	h, mockService := setupAPI(t)
	mockService.On("AtualizarPagamento", mock.Anything, domain.PagamentoID("q1_bia_ana"), domain.PagamentoPago).
		Return(domain.Pagamento{ID: "q1_bia_ana", Status: domain.PagamentoPago}, nil)
	mockService.On("AtualizarPagamento", mock.Anything, domain.PagamentoID("q1_x_y"), domain.PagamentoContestado).
		Return(domain.Pagamento{}, quiniela.ErrPagamentoNaoEncontrado)

	w := requisitar(t, h, http.MethodPatch, "/admin/pagamentos/q1_bia_ana", `{"status":"paid"}`, true)
	assert.Equal(t, http.StatusOK, w.Code)

	w = requisitar(t, h, http.MethodPatch, "/admin/pagamentos/q1_x_y", `{"status":"disputed"}`, true)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = requisitar(t, h, http.MethodPatch, "/admin/pagamentos/q1_bia_ana", `{"status":"cancelado"}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
