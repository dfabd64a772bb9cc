// Pacote memory implementa os repositórios em mapas na memória.
// Usado em desenvolvimento (STORAGE_DRIVER=memory) e nos testes de serviço; não persiste nada.
package memory

import (
	"context"
	"sync"

	"github.com/marcelojr/quiniela/internal/domain"
)

type Store struct {
	mu sync.RWMutex
	// txMu serializa transações com qualquer outra operação: o rollback
	// restaura o snapshot inteiro e não pode apagar escritas alheias.
	txMu sync.Mutex

	partidas   map[domain.PartidaID]domain.Partida
	palpites   map[domain.PalpiteID]domain.Palpite
	quinielas  map[domain.QuinielaID]domain.Quiniela
	atual      domain.QuinielaID
	vencedores map[domain.QuinielaID][]domain.UsuarioID
	pagamentos map[domain.PagamentoID]domain.Pagamento
	usuarios   map[domain.UsuarioID]domain.Usuario
}

func NewStore() *Store {
	return &Store{
		partidas:   make(map[domain.PartidaID]domain.Partida),
		palpites:   make(map[domain.PalpiteID]domain.Palpite),
		quinielas:  make(map[domain.QuinielaID]domain.Quiniela),
		vencedores: make(map[domain.QuinielaID][]domain.UsuarioID),
		pagamentos: make(map[domain.PagamentoID]domain.Pagamento),
		usuarios:   make(map[domain.UsuarioID]domain.Usuario),
	}
}

func (s *Store) Partidas() *PartidaRepository { return &PartidaRepository{s: s} }

func (s *Store) Palpites() *PalpiteRepository { return &PalpiteRepository{s: s} }

func (s *Store) Quinielas() *QuinielaRepository { return &QuinielaRepository{s: s} }

func (s *Store) Pagamentos() *PagamentoRepository { return &PagamentoRepository{s: s} }

func (s *Store) Usuarios() *UsuarioRepository { return &UsuarioRepository{s: s} }

func (s *Store) Repositorios() domain.Repositorios {
	return s.repositorios(false)
}

// repositorios com tx=true já rodam sob txMu, tomado por Executar.
func (s *Store) repositorios(tx bool) domain.Repositorios {
	return domain.Repositorios{
		Partidas:   &PartidaRepository{s: s, tx: tx},
		Palpites:   &PalpiteRepository{s: s, tx: tx},
		Quinielas:  &QuinielaRepository{s: s, tx: tx},
		Pagamentos: &PagamentoRepository{s: s, tx: tx},
		Usuarios:   &UsuarioRepository{s: s, tx: tx},
	}
}

func (s *Store) travar(tx bool) func() {
	if tx {
		return func() {}
	}
	s.txMu.Lock()
	return s.txMu.Unlock
}

// Executar tira um snapshot antes de rodar fn e o restaura se fn falhar.
// Não é reentrante: dentro de fn use apenas os repositórios recebidos.
func (s *Store) Executar(ctx context.Context, fn func(ctx context.Context, repos domain.Repositorios) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(ctx, s.repositorios(true)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	partidas   map[domain.PartidaID]domain.Partida
	palpites   map[domain.PalpiteID]domain.Palpite
	quinielas  map[domain.QuinielaID]domain.Quiniela
	atual      domain.QuinielaID
	vencedores map[domain.QuinielaID][]domain.UsuarioID
	pagamentos map[domain.PagamentoID]domain.Pagamento
	usuarios   map[domain.UsuarioID]domain.Usuario
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		partidas:   copiarMapa(s.partidas),
		palpites:   copiarMapa(s.palpites),
		quinielas:  copiarMapa(s.quinielas),
		atual:      s.atual,
		vencedores: copiarMapa(s.vencedores),
		pagamentos: copiarMapa(s.pagamentos),
		usuarios:   copiarMapa(s.usuarios),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.partidas = snap.partidas
	s.palpites = snap.palpites
	s.quinielas = snap.quinielas
	s.atual = snap.atual
	s.vencedores = snap.vencedores
	s.pagamentos = snap.pagamentos
	s.usuarios = snap.usuarios
}

func copiarMapa[K comparable, V any](m map[K]V) map[K]V {
	copia := make(map[K]V, len(m))
	for k, v := range m {
		copia[k] = v
	}
	return copia
}

var _ domain.Transactor = (*Store)(nil)
