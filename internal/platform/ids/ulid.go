// Pacote ids gera identificadores ULID e compõe as chaves determinísticas de palpites, pagamentos e quinielas.
package ids

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/marcelojr/quiniela/internal/domain"
)

type Generator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewGenerator() *Generator {
	src := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Generator{
		entropy: ulid.Monotonic(src, 0),
	}
}

func (g *Generator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now().UTC()), g.entropy).String()
}

var (
	defaultOnce sync.Once
	defaultGen  *Generator
)

func DefaultGenerator() *Generator {
	defaultOnce.Do(func() {
		defaultGen = NewGenerator()
	})
	return defaultGen
}

func NewULID() string {
	return DefaultGenerator().New()
}

// Palpite compõe {usuario}_{partida}: no máximo um palpite por usuário e partida.
func Palpite(usuario domain.UsuarioID, partida domain.PartidaID) domain.PalpiteID {
	return domain.PalpiteID(fmt.Sprintf("%s_%s", usuario, partida))
}

// Pagamento compõe {quiniela}_{de}_{para}; recriar a mesma dívida cai no mesmo documento.
func Pagamento(quiniela domain.QuinielaID, de, para domain.UsuarioID) domain.PagamentoID {
	return domain.PagamentoID(fmt.Sprintf("%s_%s_%s", quiniela, de, para))
}

// Quiniela usa a semana ISO do prazo: week_{ano}_{semana}.
func Quiniela(prazo time.Time) domain.QuinielaID {
	ano, semana := prazo.ISOWeek()
	return domain.QuinielaID(fmt.Sprintf("week_%d_%d", ano, semana))
}
