package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/marcelojr/quiniela/internal/domain"
)

type PartidaRepository struct {
	db *gorm.DB
}

func NewPartidaRepository(db *gorm.DB) *PartidaRepository {
	return &PartidaRepository{db: db}
}

func (r *PartidaRepository) Create(ctx context.Context, p domain.Partida) error {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return fmt.Errorf("gorm partida: inserir: %w", err)
	}
	return nil
}

func (r *PartidaRepository) Update(ctx context.Context, p domain.Partida) error {
	res := r.db.WithContext(ctx).Model(&domain.Partida{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"time_casa":     p.TimeCasa,
			"time_fora":     p.TimeFora,
			"liga":          p.Liga,
			"data":          p.Data,
			"status":        p.Status,
			"gols_casa":     p.GolsCasa,
			"gols_fora":     p.GolsFora,
			"atualizado_em": p.AtualizadoEm,
		})
	if res.Error != nil {
		return fmt.Errorf("gorm partida: atualizar: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PartidaRepository) FindByID(ctx context.Context, id domain.PartidaID) (domain.Partida, error) {
	var p domain.Partida
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if notFound(err) {
			return domain.Partida{}, domain.ErrNotFound
		}
		return domain.Partida{}, fmt.Errorf("gorm partida: buscar id: %w", err)
	}
	return p, nil
}

func (r *PartidaRepository) ListByIDs(ctx context.Context, ids []domain.PartidaID) ([]domain.Partida, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var partidas []domain.Partida
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("data ASC").
		Find(&partidas).Error; err != nil {
		return nil, fmt.Errorf("gorm partida: listar ids: %w", err)
	}
	return partidas, nil
}

func (r *PartidaRepository) Delete(ctx context.Context, id domain.PartidaID) error {
	res := r.db.WithContext(ctx).Delete(&domain.Partida{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("gorm partida: excluir: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ domain.PartidaRepository = (*PartidaRepository)(nil)
