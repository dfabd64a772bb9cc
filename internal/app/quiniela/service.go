// Pacote quiniela implementa as regras de negócio do bolão: quinielas, partidas, palpites,
// liquidação e agregados de usuário.
package quiniela

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marcelojr/quiniela/internal/domain"
	"github.com/marcelojr/quiniela/internal/platform/ids"
)

var (
	ErrQuinielaInvalida       = errors.New("quiniela invalida")
	ErrQuinielaNaoEncontrada  = errors.New("quiniela nao encontrada")
	ErrQuinielaDuplicada      = errors.New("ja existe quiniela para esta semana")
	ErrQuinielaFechada        = errors.New("quiniela fechada para palpites")
	ErrPartidaInvalida        = errors.New("partida invalida")
	ErrPartidaNaoEncontrada   = errors.New("partida nao encontrada")
	ErrPartidaDuplicada       = errors.New("partida ja cadastrada")
	ErrPartidaForaDaQuiniela  = errors.New("partida nao pertence a quiniela")
	ErrPartidaEmUso           = errors.New("partida usada por quiniela ativa")
	ErrPartidaNaoEncerrada    = errors.New("partida sem resultado registrado")
	ErrPartidaEncerrada       = errors.New("partida ja encerrada")
	ErrPartidasPendentes      = errors.New("quiniela possui partidas sem resultado")
	ErrPlacarInvalido         = errors.New("placar invalido")
	ErrPalpiteInvalido        = errors.New("palpite invalido")
	ErrStatusInvalido         = errors.New("status invalido")
	ErrPagamentoNaoEncontrado = errors.New("pagamento nao encontrado")
	ErrUsuarioInvalido        = errors.New("usuario invalido")
	ErrUsuarioNaoEncontrado   = errors.New("usuario nao encontrado")
	ErrUsuarioDuplicado       = errors.New("usuario ja cadastrado")
	ErrPagamentosPendentes    = errors.New("usuario possui pagamentos pendentes")
	ErrSemPalpites            = errors.New("quiniela sem palpites")
)

// Opcoes carrega as regras de dinheiro vindas da config.
type Opcoes struct {
	ApostaBase     decimal.Decimal
	PrazoPagamento time.Duration
}

func OpcoesPadrao() Opcoes {
	return Opcoes{ApostaBase: decimal.NewFromInt(50), PrazoPagamento: 7 * 24 * time.Hour}
}

// Service concentra as regras do bolão e delega persistência, fila e contadores.
type Service struct {
	repos      domain.Repositorios
	tx         domain.Transactor
	contador   domain.Contador
	fila       domain.Fila
	antifraude domain.Antifraude
	clock      domain.Clock
	ids        *ids.Generator
	opcoes     Opcoes
}

func NewService(
	repos domain.Repositorios,
	tx domain.Transactor,
	contador domain.Contador,
	fila domain.Fila,
	antifraude domain.Antifraude,
	clock domain.Clock,
	idsGen *ids.Generator,
	opcoes Opcoes,
) *Service {
	if idsGen == nil {
		idsGen = ids.DefaultGenerator()
	}
	if !opcoes.ApostaBase.IsPositive() {
		opcoes.ApostaBase = OpcoesPadrao().ApostaBase
	}
	return &Service{
		repos:      repos,
		tx:         tx,
		contador:   contador,
		fila:       fila,
		antifraude: antifraude,
		clock:      clock,
		ids:        idsGen,
		opcoes:     opcoes,
	}
}

// traduzir troca o ErrNotFound genérico do repositório pelo erro da entidade.
func traduzir(err error, alvo error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return alvo
	}
	return err
}

var _ domain.QuinielaService = (*Service)(nil)
