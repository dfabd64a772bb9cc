package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type (
	QuinielaID  string
	PartidaID   string
	PalpiteID   string
	PagamentoID string
	UsuarioID   string
)

type StatusPartida string

const (
	PartidaAgendada  StatusPartida = "SCHEDULED"
	PartidaAoVivo    StatusPartida = "LIVE"
	PartidaEncerrada StatusPartida = "FINISHED"
)

type StatusQuiniela string

const (
	QuinielaAberta      StatusQuiniela = "open"
	QuinielaFechada     StatusQuiniela = "closed"
	QuinielaEmAndamento StatusQuiniela = "in_progress"
	QuinielaFinalizada  StatusQuiniela = "finished"
)

type StatusPagamento string

const (
	PagamentoPendente   StatusPagamento = "pending"
	PagamentoPago       StatusPagamento = "paid"
	PagamentoContestado StatusPagamento = "disputed"
)

func (s StatusPagamento) Valido() bool {
	switch s {
	case PagamentoPendente, PagamentoPago, PagamentoContestado:
		return true
	}
	return false
}

type Papel string

const (
	PapelUsuario Papel = "user"
	PapelAdmin   Papel = "admin"
)

// Placar aceita gols ausentes: partidas não encerradas não têm placar.
type Placar struct {
	Casa *int `json:"casa"`
	Fora *int `json:"fora"`
}

func NovoPlacar(casa, fora int) Placar {
	return Placar{Casa: &casa, Fora: &fora}
}

type Partida struct {
	ID           PartidaID     `gorm:"column:id;type:varchar(64);primaryKey" json:"id"`
	TimeCasa     string        `gorm:"column:time_casa;type:text;not null" json:"time_casa"`
	TimeFora     string        `gorm:"column:time_fora;type:text;not null" json:"time_fora"`
	Liga         string        `gorm:"column:liga;type:text" json:"liga"`
	Data         time.Time     `gorm:"column:data;not null;index:idx_partidas_data" json:"data"`
	Status       StatusPartida `gorm:"column:status;type:varchar(16);not null;default:SCHEDULED;index:idx_partidas_status" json:"status"`
	GolsCasa     *int          `gorm:"column:gols_casa" json:"gols_casa,omitempty"`
	GolsFora     *int          `gorm:"column:gols_fora" json:"gols_fora,omitempty"`
	CriadoEm     time.Time     `gorm:"column:criado_em;autoCreateTime" json:"criado_em"`
	AtualizadoEm time.Time     `gorm:"column:atualizado_em;autoUpdateTime" json:"atualizado_em"`
}

func (p Partida) Encerrada() bool {
	return p.Status == PartidaEncerrada
}

func (p Partida) Placar() Placar {
	return Placar{Casa: p.GolsCasa, Fora: p.GolsFora}
}

type Palpite struct {
	ID           PalpiteID  `gorm:"column:id;type:varchar(160);primaryKey" json:"id"`
	UsuarioID    UsuarioID  `gorm:"column:usuario_id;type:varchar(64);not null;index:idx_palpites_usuario" json:"usuario_id"`
	PartidaID    PartidaID  `gorm:"column:partida_id;type:varchar(64);not null;index:idx_palpites_partida" json:"partida_id"`
	QuinielaID   QuinielaID `gorm:"column:quiniela_id;type:varchar(64);not null;index:idx_palpites_quiniela" json:"quiniela_id"`
	GolsCasa     int        `gorm:"column:gols_casa;not null" json:"gols_casa"`
	GolsFora     int        `gorm:"column:gols_fora;not null" json:"gols_fora"`
	Pontos       int        `gorm:"column:pontos;not null;default:0" json:"pontos"`
	CriadoEm     time.Time  `gorm:"column:criado_em;autoCreateTime" json:"criado_em"`
	AtualizadoEm time.Time  `gorm:"column:atualizado_em;autoUpdateTime" json:"atualizado_em"`
}

func (p Palpite) Placar() Placar {
	return NovoPlacar(p.GolsCasa, p.GolsFora)
}

type Quiniela struct {
	ID                 QuinielaID     `gorm:"column:id;type:varchar(64);primaryKey" json:"id"`
	Nome               string         `gorm:"column:nome;type:text;not null" json:"nome"`
	PartidaIDs         []PartidaID    `gorm:"-" json:"partida_ids"`
	Prazo              time.Time      `gorm:"column:prazo;not null" json:"prazo"`
	Status             StatusQuiniela `gorm:"column:status;type:varchar(16);not null;default:open;index:idx_quinielas_status" json:"status"`
	Atual              bool           `gorm:"column:atual;not null;default:false" json:"atual"`
	FechadaManualmente bool           `gorm:"column:fechada_manualmente;not null;default:false" json:"fechada_manualmente"`
	MotivoFechamento   string         `gorm:"column:motivo_fechamento;type:text" json:"motivo_fechamento,omitempty"`
	LiquidadaEm        *time.Time     `gorm:"column:liquidada_em" json:"liquidada_em,omitempty"`
	CriadoEm           time.Time      `gorm:"column:criado_em;autoCreateTime" json:"criado_em"`
	AtualizadoEm       time.Time      `gorm:"column:atualizado_em;autoUpdateTime" json:"atualizado_em"`
}

func (q Quiniela) ContemPartida(id PartidaID) bool {
	for _, pid := range q.PartidaIDs {
		if pid == id {
			return true
		}
	}
	return false
}

// QuinielaPartida guarda o conjunto ordenado de partidas de cada quiniela.
type QuinielaPartida struct {
	QuinielaID QuinielaID `gorm:"column:quiniela_id;type:varchar(64);primaryKey"`
	PartidaID  PartidaID  `gorm:"column:partida_id;type:varchar(64);primaryKey;index:idx_quiniela_partidas_partida"`
	Ordem      int        `gorm:"column:ordem;not null"`
}

type QuinielaVencedor struct {
	QuinielaID QuinielaID `gorm:"column:quiniela_id;type:varchar(64);primaryKey"`
	UsuarioID  UsuarioID  `gorm:"column:usuario_id;type:varchar(64);primaryKey;index:idx_quiniela_vencedores_usuario"`
}

type Pagamento struct {
	ID            PagamentoID     `gorm:"column:id;type:varchar(200);primaryKey" json:"id"`
	QuinielaID    QuinielaID      `gorm:"column:quiniela_id;type:varchar(64);not null;index:idx_pagamentos_quiniela" json:"quiniela_id"`
	DeUsuarioID   UsuarioID       `gorm:"column:de_usuario_id;type:varchar(64);not null;index:idx_pagamentos_de" json:"de_usuario_id"`
	ParaUsuarioID UsuarioID       `gorm:"column:para_usuario_id;type:varchar(64);not null;index:idx_pagamentos_para" json:"para_usuario_id"`
	Valor         decimal.Decimal `gorm:"column:valor;type:numeric(12,2);not null" json:"valor"`
	Status        StatusPagamento `gorm:"column:status;type:varchar(16);not null;default:pending" json:"status"`
	Vencimento    time.Time       `gorm:"column:vencimento" json:"vencimento"`
	Motivo        string          `gorm:"column:motivo;type:text" json:"motivo"`
	CriadoEm      time.Time       `gorm:"column:criado_em;autoCreateTime" json:"criado_em"`
	AtualizadoEm  time.Time       `gorm:"column:atualizado_em;autoUpdateTime" json:"atualizado_em"`
}

func (p Pagamento) Envolve(id UsuarioID) bool {
	return p.DeUsuarioID == id || p.ParaUsuarioID == id
}

// Usuario carrega agregados em cache; a fonte de verdade são palpites e pagamentos.
type Usuario struct {
	ID                UsuarioID       `gorm:"column:id;type:varchar(64);primaryKey" json:"id"`
	Nome              string          `gorm:"column:nome;type:text;not null" json:"nome"`
	Email             string          `gorm:"column:email;type:text" json:"email,omitempty"`
	Papel             Papel           `gorm:"column:papel;type:varchar(16);not null;default:user" json:"papel"`
	TotalPontos       int             `gorm:"column:total_pontos;not null;default:0" json:"total_pontos"`
	TotalGanhos       decimal.Decimal `gorm:"column:total_ganhos;type:numeric(12,2);not null;default:0" json:"total_ganhos"`
	QuinielasVencidas int             `gorm:"column:quinielas_vencidas;not null;default:0" json:"quinielas_vencidas"`
	QuinielasJogadas  int             `gorm:"column:quinielas_jogadas;not null;default:0" json:"quinielas_jogadas"`
	CriadoEm          time.Time       `gorm:"column:criado_em;autoCreateTime" json:"criado_em"`
	AtualizadoEm      time.Time       `gorm:"column:atualizado_em;autoUpdateTime" json:"atualizado_em"`
}

type AgregadosUsuario struct {
	TotalPontos       int
	TotalGanhos       decimal.Decimal
	QuinielasVencidas int
	QuinielasJogadas  int
}

type Colocacao struct {
	Posicao   int       `json:"posicao"`
	UsuarioID UsuarioID `json:"usuario_id"`
	Pontos    int       `json:"pontos"`
}

type Liquidacao struct {
	QuinielaID      QuinielaID  `json:"quiniela_id"`
	PontuacaoMaxima int         `json:"pontuacao_maxima"`
	Vencedores      []UsuarioID `json:"vencedores"`
	Pagamentos      []Pagamento `json:"pagamentos"`
}

// QuinielaView expõe o status efetivo, que considera o prazo além do status gravado.
type QuinielaView struct {
	Quiniela
	StatusEfetivo StatusQuiniela `json:"status_efetivo"`
	Aberta        bool           `json:"aberta"`
}

type NovaQuiniela struct {
	Nome       string
	PartidaIDs []PartidaID
	Prazo      time.Time
}

type ResultadoEntrada struct {
	PartidaID PartidaID `json:"partida_id"`
	GolsCasa  int       `json:"gols_casa"`
	GolsFora  int       `json:"gols_fora"`
}

type ResumoQuiniela struct {
	QuinielaID    QuinielaID          `json:"quiniela_id"`
	TotalPalpites int64               `json:"total_palpites"`
	PorPartida    map[PartidaID]int64 `json:"por_partida"`
}

type FiltroPagamentos struct {
	QuinielaID QuinielaID
	UsuarioID  UsuarioID
	Status     StatusPagamento
}

// EventoResultado é publicado na fila sempre que o placar de uma partida muda.
type EventoResultado struct {
	PartidaID  PartidaID `json:"partida_id"`
	Revertido  bool      `json:"revertido"`
	OcorridoEm time.Time `json:"ocorrido_em"`
}

func (Partida) TableName() string { return "partidas" }

func (Palpite) TableName() string { return "palpites" }

func (Quiniela) TableName() string { return "quinielas" }

func (QuinielaPartida) TableName() string { return "quiniela_partidas" }

func (QuinielaVencedor) TableName() string { return "quiniela_vencedores" }

func (Pagamento) TableName() string { return "pagamentos" }

func (Usuario) TableName() string { return "usuarios" }
