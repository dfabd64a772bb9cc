package domain

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("registro nao encontrado")

type PartidaRepository interface {
	Create(ctx context.Context, p Partida) error
	Update(ctx context.Context, p Partida) error
	FindByID(ctx context.Context, id PartidaID) (Partida, error)
	ListByIDs(ctx context.Context, ids []PartidaID) ([]Partida, error)
	Delete(ctx context.Context, id PartidaID) error
}

type PalpiteRepository interface {
	// Upsert grava por ID (última escrita vence) e informa se o palpite é novo.
	Upsert(ctx context.Context, p Palpite) (bool, error)
	FindByID(ctx context.Context, id PalpiteID) (Palpite, error)
	ListByPartida(ctx context.Context, partidaID PartidaID) ([]Palpite, error)
	ListByUsuario(ctx context.Context, usuarioID UsuarioID) ([]Palpite, error)
	ListByQuiniela(ctx context.Context, quinielaID QuinielaID) ([]Palpite, error)
	AtualizarPontos(ctx context.Context, id PalpiteID, pontos int) error
	DeleteByPartida(ctx context.Context, partidaID PartidaID) (int64, error)
}

type QuinielaRepository interface {
	Create(ctx context.Context, q Quiniela) error
	Update(ctx context.Context, q Quiniela) error
	FindByID(ctx context.Context, id QuinielaID) (Quiniela, error)
	Atual(ctx context.Context) (Quiniela, error)
	DefinirAtual(ctx context.Context, id QuinielaID) error
	ListByStatus(ctx context.Context, status ...StatusQuiniela) ([]Quiniela, error)
	ListByPartida(ctx context.Context, partidaID PartidaID) ([]Quiniela, error)
	RegistrarVencedores(ctx context.Context, id QuinielaID, vencedores []UsuarioID) error
	ContarVitorias(ctx context.Context, usuarioID UsuarioID) (int, error)
}

type PagamentoRepository interface {
	// CriarSeAusente nunca sobrescreve um pagamento existente (preserva status pago/contestado).
	CriarSeAusente(ctx context.Context, p Pagamento) (bool, error)
	FindByID(ctx context.Context, id PagamentoID) (Pagamento, error)
	AtualizarStatus(ctx context.Context, id PagamentoID, status StatusPagamento, agora time.Time) error
	Delete(ctx context.Context, id PagamentoID) error
	List(ctx context.Context, filtro FiltroPagamentos) ([]Pagamento, error)
}

type UsuarioRepository interface {
	Create(ctx context.Context, u Usuario) error
	FindByID(ctx context.Context, id UsuarioID) (Usuario, error)
	List(ctx context.Context) ([]Usuario, error)
	AtualizarAgregados(ctx context.Context, id UsuarioID, agregados AgregadosUsuario) error
	Delete(ctx context.Context, id UsuarioID) error
}

// Repositorios agrupa os repositórios ligados a uma mesma transação.
type Repositorios struct {
	Partidas   PartidaRepository
	Palpites   PalpiteRepository
	Quinielas  QuinielaRepository
	Pagamentos PagamentoRepository
	Usuarios   UsuarioRepository
}

type Transactor interface {
	Executar(ctx context.Context, fn func(ctx context.Context, repos Repositorios) error) error
}

type Contador interface {
	Incrementar(ctx context.Context, chave string, delta int64) (int64, error)
	Obter(ctx context.Context, chave string) (int64, error)
	ObterTodos(ctx context.Context, chaves []string) (map[string]int64, error)
}

type Fila interface {
	PublicarResultado(ctx context.Context, evento EventoResultado) error
	ConsumirResultados(ctx context.Context, handler func(context.Context, EventoResultado) error) error
}

type Antifraude interface {
	Validar(ctx context.Context, palpite Palpite) error
}

type Clock interface {
	Agora() time.Time
}

type QuinielaService interface {
	CriarQuiniela(ctx context.Context, nova NovaQuiniela) (QuinielaView, error)
	QuinielaAtual(ctx context.Context) (QuinielaView, error)
	ObterQuiniela(ctx context.Context, id QuinielaID) (QuinielaView, error)
	FecharQuiniela(ctx context.Context, id QuinielaID, motivo string) (QuinielaView, error)
	ReabrirQuiniela(ctx context.Context, id QuinielaID) (QuinielaView, error)
	ReativarQuiniela(ctx context.Context, id QuinielaID, novoPrazo *time.Time) (QuinielaView, error)
	FinalizarQuiniela(ctx context.Context, id QuinielaID) (QuinielaView, error)
	LiquidarQuiniela(ctx context.Context, id QuinielaID) (Liquidacao, error)
	RankingQuiniela(ctx context.Context, id QuinielaID) ([]Colocacao, error)
	Resumo(ctx context.Context, id QuinielaID) (ResumoQuiniela, error)

	CriarPartida(ctx context.Context, p Partida) (Partida, error)
	ImportarPartidas(ctx context.Context, partidas []Partida) ([]Partida, error)
	AtualizarPartida(ctx context.Context, p Partida) (Partida, error)
	AtualizarStatusPartida(ctx context.Context, id PartidaID, status StatusPartida) (Partida, error)
	ListarPartidas(ctx context.Context, ids []PartidaID) ([]Partida, error)
	ExcluirPartida(ctx context.Context, id PartidaID) error
	RegistrarResultado(ctx context.Context, id PartidaID, golsCasa, golsFora int) (Partida, error)
	ReverterResultado(ctx context.Context, id PartidaID) (Partida, error)
	RegistrarResultados(ctx context.Context, entradas []ResultadoEntrada) error

	EnviarPalpite(ctx context.Context, p Palpite) (Palpite, error)
	ListarPalpites(ctx context.Context, usuarioID UsuarioID, quinielaID QuinielaID) ([]Palpite, error)

	ListarPagamentos(ctx context.Context, filtro FiltroPagamentos) ([]Pagamento, error)
	AtualizarPagamento(ctx context.Context, id PagamentoID, status StatusPagamento) (Pagamento, error)

	CriarUsuario(ctx context.Context, u Usuario) (Usuario, error)
	ExcluirUsuario(ctx context.Context, id UsuarioID) error
	RankingGlobal(ctx context.Context) ([]Usuario, error)
	RecalcularAgregados(ctx context.Context, id UsuarioID) (Usuario, error)
}
