package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marcelojr/quiniela/internal/domain"
)

type PagamentoRepository struct {
	db *gorm.DB
}

func NewPagamentoRepository(db *gorm.DB) *PagamentoRepository {
	return &PagamentoRepository{db: db}
}

// CriarSeAusente usa ON CONFLICT DO NOTHING: reliquidar nunca apaga um pagamento já pago ou contestado.
func (r *PagamentoRepository) CriarSeAusente(ctx context.Context, p domain.Pagamento) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&p)
	if res.Error != nil {
		return false, fmt.Errorf("gorm pagamento: inserir: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *PagamentoRepository) FindByID(ctx context.Context, id domain.PagamentoID) (domain.Pagamento, error) {
	var p domain.Pagamento
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if notFound(err) {
			return domain.Pagamento{}, domain.ErrNotFound
		}
		return domain.Pagamento{}, fmt.Errorf("gorm pagamento: buscar id: %w", err)
	}
	return p, nil
}

func (r *PagamentoRepository) AtualizarStatus(ctx context.Context, id domain.PagamentoID, status domain.StatusPagamento, agora time.Time) error {
	res := r.db.WithContext(ctx).Model(&domain.Pagamento{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        status,
			"atualizado_em": agora,
		})
	if res.Error != nil {
		return fmt.Errorf("gorm pagamento: atualizar status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PagamentoRepository) Delete(ctx context.Context, id domain.PagamentoID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Pagamento{})
	if res.Error != nil {
		return fmt.Errorf("gorm pagamento: excluir: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PagamentoRepository) List(ctx context.Context, filtro domain.FiltroPagamentos) ([]domain.Pagamento, error) {
	query := r.db.WithContext(ctx).Model(&domain.Pagamento{})
	if filtro.QuinielaID != "" {
		query = query.Where("quiniela_id = ?", filtro.QuinielaID)
	}
	if filtro.UsuarioID != "" {
		query = query.Where("de_usuario_id = ? OR para_usuario_id = ?", filtro.UsuarioID, filtro.UsuarioID)
	}
	if filtro.Status != "" {
		query = query.Where("status = ?", filtro.Status)
	}

	var pagamentos []domain.Pagamento
	if err := query.Order("id ASC").Find(&pagamentos).Error; err != nil {
		return nil, fmt.Errorf("gorm pagamento: listar: %w", err)
	}
	return pagamentos, nil
}

var _ domain.PagamentoRepository = (*PagamentoRepository)(nil)
