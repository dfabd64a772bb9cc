// Pacote lifecycle implementa a máquina de estados da quiniela
// (open → closed → in_progress → finished, mais reabrir e reativar).
package lifecycle

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/marcelojr/quiniela/internal/domain"
)

var (
	ErrTransicaoInvalida = errors.New("transicao de status invalida")
	ErrPrazoEncerrado    = errors.New("prazo da quiniela encerrado")
	ErrMotivoObrigatorio = errors.New("motivo obrigatorio para fechamento manual")
)

var ordem = map[domain.StatusQuiniela]int{
	domain.QuinielaAberta:      0,
	domain.QuinielaFechada:     1,
	domain.QuinielaEmAndamento: 2,
	domain.QuinielaFinalizada:  3,
}

// EstaAberta só aceita palpites quando o status gravado e o prazo concordam.
func EstaAberta(q domain.Quiniela, agora time.Time) bool {
	return q.Status == domain.QuinielaAberta && agora.Before(q.Prazo)
}

// StatusEfetivo é o status que toda leitura deve reportar: "open" vencido é lido como "closed"
// mesmo antes de alguém gravar a transição.
func StatusEfetivo(q domain.Quiniela, agora time.Time) domain.StatusQuiniela {
	if q.Status == domain.QuinielaAberta && !agora.Before(q.Prazo) {
		return domain.QuinielaFechada
	}
	return q.Status
}

func View(q domain.Quiniela, agora time.Time) domain.QuinielaView {
	return domain.QuinielaView{
		Quiniela:      q,
		StatusEfetivo: StatusEfetivo(q, agora),
		Aberta:        EstaAberta(q, agora),
	}
}

// Reconciliar aplica as transições automáticas guiadas pelo relógio.
// primeiraPartida zero significa que a quiniela não tem partidas agendadas.
func Reconciliar(q domain.Quiniela, agora, primeiraPartida time.Time) (domain.Quiniela, bool) {
	mudou := false

	if q.Status == domain.QuinielaAberta && !agora.Before(q.Prazo) {
		q.Status = domain.QuinielaFechada
		mudou = true
	}

	if q.Status == domain.QuinielaFechada && !primeiraPartida.IsZero() && !agora.Before(primeiraPartida) {
		q.Status = domain.QuinielaEmAndamento
		mudou = true
	}

	if mudou {
		q.AtualizadoEm = agora
	}
	return q, mudou
}

func Fechar(q domain.Quiniela, agora time.Time, motivo string) (domain.Quiniela, error) {
	if q.Status != domain.QuinielaAberta {
		return q, fmt.Errorf("%w: fechar a partir de %s", ErrTransicaoInvalida, q.Status)
	}
	motivo = strings.TrimSpace(motivo)
	if motivo == "" {
		return q, ErrMotivoObrigatorio
	}
	q.Status = domain.QuinielaFechada
	q.FechadaManualmente = true
	q.MotivoFechamento = motivo
	q.AtualizadoEm = agora
	return q, nil
}

// Reabrir só vale para quinielas fechadas cujo prazo ainda não passou.
func Reabrir(q domain.Quiniela, agora time.Time) (domain.Quiniela, error) {
	if q.Status != domain.QuinielaFechada {
		return q, fmt.Errorf("%w: reabrir a partir de %s", ErrTransicaoInvalida, q.Status)
	}
	if !agora.Before(q.Prazo) {
		return q, fmt.Errorf("%w: prazo %s", ErrPrazoEncerrado, q.Prazo.Format(time.RFC3339))
	}
	q.Status = domain.QuinielaAberta
	q.FechadaManualmente = false
	q.MotivoFechamento = ""
	q.AtualizadoEm = agora
	return q, nil
}

// Reativar volta qualquer status para "open"; um novo prazo, se informado, precisa estar no futuro.
func Reativar(q domain.Quiniela, agora time.Time, novoPrazo *time.Time) (domain.Quiniela, error) {
	if novoPrazo != nil {
		if !agora.Before(*novoPrazo) {
			return q, fmt.Errorf("%w: novo prazo %s ja passou", ErrPrazoEncerrado, novoPrazo.Format(time.RFC3339))
		}
		q.Prazo = *novoPrazo
	}
	q.Status = domain.QuinielaAberta
	q.FechadaManualmente = false
	q.MotivoFechamento = ""
	q.LiquidadaEm = nil
	q.AtualizadoEm = agora
	return q, nil
}

func Finalizar(q domain.Quiniela, agora time.Time) (domain.Quiniela, error) {
	if q.Status == domain.QuinielaFinalizada {
		return q, fmt.Errorf("%w: quiniela ja finalizada", ErrTransicaoInvalida)
	}
	q.Status = domain.QuinielaFinalizada
	q.AtualizadoEm = agora
	return q, nil
}

// Avanca reporta se "para" segue a ordem natural a partir de "de" (sem voltar).
func Avanca(de, para domain.StatusQuiniela) bool {
	o1, ok1 := ordem[de]
	o2, ok2 := ordem[para]
	return ok1 && ok2 && o2 >= o1
}
