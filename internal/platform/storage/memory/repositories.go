package memory

import (
	"context"
	"sort"
	"time"

	"github.com/marcelojr/quiniela/internal/domain"
)

type PartidaRepository struct {
	s  *Store
	tx bool
}

func (r *PartidaRepository) Create(_ context.Context, p domain.Partida) error {
	defer r.s.travar(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.partidas[p.ID] = p
	return nil
}

func (r *PartidaRepository) Update(_ context.Context, p domain.Partida) error {
	defer r.s.travar(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.partidas[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.partidas[p.ID] = p
	return nil
}

func (r *PartidaRepository) FindByID(_ context.Context, id domain.PartidaID) (domain.Partida, error) {
	defer r.s.travar(r.tx)()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.partidas[id]
	if !ok {
		return domain.Partida{}, domain.ErrNotFound
	}
	return p, nil
}

// ListByIDs ignora IDs inexistentes e devolve em ordem de data, como o repositório SQL.
func (r *PartidaRepository) ListByIDs(_ context.Context, ids []domain.PartidaID) ([]domain.Partida, error) {
	defer r.s.travar(r.tx)()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := make([]domain.Partida, 0, len(ids))
	vistos := make(map[domain.PartidaID]bool, len(ids))
	for _, id := range ids {
		if vistos[id] {
			continue
		}
		vistos[id] = true
		if p, ok := r.s.partidas[id]; ok {
			result = append(result, p)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Data.Before(result[j].Data) })
	return result, nil
}

func (r *PartidaRepository) Delete(_ context.Context, id domain.PartidaID) error {
	defer r.s.travar(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.partidas[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.partidas, id)
	return nil
}

type PalpiteRepository struct {
	s  *Store
	tx bool
}

func (r *PalpiteRepository) Upsert(_ context.Context, p domain.Palpite) (bool, error) {
	defer r.s.travar(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existente, ok := r.s.palpites[p.ID]
	if ok {
		// Pontos só mudam por AtualizarPontos, como no repositório SQL.
		p.CriadoEm = existente.CriadoEm
		p.Pontos = existente.Pontos
	}
	r.s.palpites[p.ID] = p
	return !ok, nil
}

func (r *PalpiteRepository) FindByID(_ context.Context, id domain.PalpiteID) (domain.Palpite, error) {
	defer r.s.travar(r.tx)()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.palpites[id]
	if !ok {
		return domain.Palpite{}, domain.ErrNotFound
	}
	return p, nil
}

func (r *PalpiteRepository) ListByPartida(_ context.Context, partidaID domain.PartidaID) ([]domain.Palpite, error) {
	defer r.s.travar(r.tx)()
	return r.filtrar(func(p domain.Palpite) bool { return p.PartidaID == partidaID }), nil
}

func (r *PalpiteRepository) ListByUsuario(_ context.Context, usuarioID domain.UsuarioID) ([]domain.Palpite, error) {
	defer r.s.travar(r.tx)()
	return r.filtrar(func(p domain.Palpite) bool { return p.UsuarioID == usuarioID }), nil
}

func (r *PalpiteRepository) ListByQuiniela(_ context.Context, quinielaID domain.QuinielaID) ([]domain.Palpite, error) {
	defer r.s.travar(r.tx)()
	return r.filtrar(func(p domain.Palpite) bool { return p.QuinielaID == quinielaID }), nil
}

func (r *PalpiteRepository) AtualizarPontos(_ context.Context, id domain.PalpiteID, pontos int) error {
	defer r.s.travar(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.palpites[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Pontos = pontos
	r.s.palpites[id] = p
	return nil
}

func (r *PalpiteRepository) DeleteByPartida(_ context.Context, partidaID domain.PartidaID) (int64, error) {
	defer r.s.travar(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var total int64
	for id, p := range r.s.palpites {
		if p.PartidaID == partidaID {
			delete(r.s.palpites, id)
			total++
		}
	}
	return total, nil
}

func (r *PalpiteRepository) filtrar(keep func(domain.Palpite) bool) []domain.Palpite {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var result []domain.Palpite
	for _, p := range r.s.palpites {
		if keep(p) {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

type QuinielaRepository struct {
	s  *Store
	tx bool
}

func (r *QuinielaRepository) Create(_ context.Context, q domain.Quiniela) error {
	defer r.s.travar(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q.PartidaIDs = append([]domain.PartidaID(nil), q.PartidaIDs...)
	r.s.quinielas[q.ID] = q
	return nil
}

func (r *QuinielaRepository) Update(_ context.Context, q domain.Quiniela) error {
	defer r.s.travar(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existente, ok := r.s.quinielas[q.ID]
	if !ok {
		return domain.ErrNotFound
	}
	q.PartidaIDs = append([]domain.PartidaID(nil), q.PartidaIDs...)
	q.Atual = existente.Atual
	r.s.quinielas[q.ID] = q
	return nil
}

func (r *QuinielaRepository) FindByID(_ context.Context, id domain.QuinielaID) (domain.Quiniela, error) {
	defer r.s.travar(r.tx)()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	q, ok := r.s.quinielas[id]
	if !ok {
		return domain.Quiniela{}, domain.ErrNotFound
	}
	return r.comAtual(q), nil
}

func (r *QuinielaRepository) Atual(_ context.Context) (domain.Quiniela, error) {
	defer r.s.travar(r.tx)()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	q, ok := r.s.quinielas[r.s.atual]
	if !ok {
		return domain.Quiniela{}, domain.ErrNotFound
	}
	return r.comAtual(q), nil
}

func (r *QuinielaRepository) DefinirAtual(_ context.Context, id domain.QuinielaID) error {
	defer r.s.travar(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.quinielas[id]; !ok {
		return domain.ErrNotFound
	}
	r.s.atual = id
	return nil
}

func (r *QuinielaRepository) ListByStatus(_ context.Context, status ...domain.StatusQuiniela) ([]domain.Quiniela, error) {
	defer r.s.travar(r.tx)()
	aceitos := make(map[domain.StatusQuiniela]bool, len(status))
	for _, st := range status {
		aceitos[st] = true
	}
	return r.filtrar(func(q domain.Quiniela) bool { return aceitos[q.Status] }), nil
}

func (r *QuinielaRepository) ListByPartida(_ context.Context, partidaID domain.PartidaID) ([]domain.Quiniela, error) {
	defer r.s.travar(r.tx)()
	return r.filtrar(func(q domain.Quiniela) bool { return q.ContemPartida(partidaID) }), nil
}

func (r *QuinielaRepository) RegistrarVencedores(_ context.Context, id domain.QuinielaID, vencedores []domain.UsuarioID) error {
	defer r.s.travar(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.quinielas[id]; !ok {
		return domain.ErrNotFound
	}
	r.s.vencedores[id] = append([]domain.UsuarioID(nil), vencedores...)
	return nil
}

func (r *QuinielaRepository) ContarVitorias(_ context.Context, usuarioID domain.UsuarioID) (int, error) {
	defer r.s.travar(r.tx)()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	total := 0
	for _, vencedores := range r.s.vencedores {
		for _, v := range vencedores {
			if v == usuarioID {
				total++
				break
			}
		}
	}
	return total, nil
}

func (r *QuinielaRepository) filtrar(keep func(domain.Quiniela) bool) []domain.Quiniela {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var result []domain.Quiniela
	for _, q := range r.s.quinielas {
		if keep(q) {
			result = append(result, r.comAtual(q))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Prazo.Before(result[j].Prazo) })
	return result
}

func (r *QuinielaRepository) comAtual(q domain.Quiniela) domain.Quiniela {
	q.Atual = q.ID == r.s.atual
	q.PartidaIDs = append([]domain.PartidaID(nil), q.PartidaIDs...)
	return q
}

type PagamentoRepository struct {
	s  *Store
	tx bool
}

func (r *PagamentoRepository) CriarSeAusente(_ context.Context, p domain.Pagamento) (bool, error) {
	defer r.s.travar(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.pagamentos[p.ID]; ok {
		return false, nil
	}
	r.s.pagamentos[p.ID] = p
	return true, nil
}

func (r *PagamentoRepository) FindByID(_ context.Context, id domain.PagamentoID) (domain.Pagamento, error) {
	defer r.s.travar(r.tx)()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.pagamentos[id]
	if !ok {
		return domain.Pagamento{}, domain.ErrNotFound
	}
	return p, nil
}

func (r *PagamentoRepository) AtualizarStatus(_ context.Context, id domain.PagamentoID, status domain.StatusPagamento, agora time.Time) error {
	defer r.s.travar(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.pagamentos[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Status = status
	p.AtualizadoEm = agora
	r.s.pagamentos[id] = p
	return nil
}

func (r *PagamentoRepository) Delete(_ context.Context, id domain.PagamentoID) error {
	defer r.s.travar(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.pagamentos[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.pagamentos, id)
	return nil
}

func (r *PagamentoRepository) List(_ context.Context, filtro domain.FiltroPagamentos) ([]domain.Pagamento, error) {
	defer r.s.travar(r.tx)()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var result []domain.Pagamento
	for _, p := range r.s.pagamentos {
		if filtro.QuinielaID != "" && p.QuinielaID != filtro.QuinielaID {
			continue
		}
		if filtro.UsuarioID != "" && !p.Envolve(filtro.UsuarioID) {
			continue
		}
		if filtro.Status != "" && p.Status != filtro.Status {
			continue
		}
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

type UsuarioRepository struct {
	s  *Store
	tx bool
}

func (r *UsuarioRepository) Create(_ context.Context, u domain.Usuario) error {
	defer r.s.travar(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.usuarios[u.ID] = u
	return nil
}

func (r *UsuarioRepository) FindByID(_ context.Context, id domain.UsuarioID) (domain.Usuario, error) {
	defer r.s.travar(r.tx)()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.usuarios[id]
	if !ok {
		return domain.Usuario{}, domain.ErrNotFound
	}
	return u, nil
}

func (r *UsuarioRepository) List(_ context.Context) ([]domain.Usuario, error) {
	defer r.s.travar(r.tx)()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := make([]domain.Usuario, 0, len(r.s.usuarios))
	for _, u := range r.s.usuarios {
		result = append(result, u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *UsuarioRepository) AtualizarAgregados(_ context.Context, id domain.UsuarioID, a domain.AgregadosUsuario) error {
	defer r.s.travar(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.usuarios[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.TotalPontos = a.TotalPontos
	u.TotalGanhos = a.TotalGanhos
	u.QuinielasVencidas = a.QuinielasVencidas
	u.QuinielasJogadas = a.QuinielasJogadas
	r.s.usuarios[id] = u
	return nil
}

func (r *UsuarioRepository) Delete(_ context.Context, id domain.UsuarioID) error {
	defer r.s.travar(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.usuarios[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.usuarios, id)
	return nil
}

var (
	_ domain.PartidaRepository   = (*PartidaRepository)(nil)
	_ domain.PalpiteRepository   = (*PalpiteRepository)(nil)
	_ domain.QuinielaRepository  = (*QuinielaRepository)(nil)
	_ domain.PagamentoRepository = (*PagamentoRepository)(nil)
	_ domain.UsuarioRepository   = (*UsuarioRepository)(nil)
)
