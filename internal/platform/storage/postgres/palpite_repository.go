package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marcelojr/quiniela/internal/domain"
)

// PalpiteRepository grava palpites pela chave {usuario}_{partida}; reenvios sobrescrevem o placar.
type PalpiteRepository struct {
	db *gorm.DB
}

func NewPalpiteRepository(db *gorm.DB) *PalpiteRepository {
	return &PalpiteRepository{db: db}
}

func (r *PalpiteRepository) Upsert(ctx context.Context, p domain.Palpite) (bool, error) {
	novo := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existentes int64
		if err := tx.Model(&domain.Palpite{}).Where("id = ?", p.ID).Count(&existentes).Error; err != nil {
			return err
		}
		novo = existentes == 0

		// pontos e criado_em ficam de fora: são do palpite original até o próximo resultado.
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quiniela_id", "gols_casa", "gols_fora", "atualizado_em"}),
		}).Create(&p).Error
	})
	if err != nil {
		return false, fmt.Errorf("gorm palpite: upsert: %w", err)
	}
	return novo, nil
}

func (r *PalpiteRepository) FindByID(ctx context.Context, id domain.PalpiteID) (domain.Palpite, error) {
	var p domain.Palpite
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if notFound(err) {
			return domain.Palpite{}, domain.ErrNotFound
		}
		return domain.Palpite{}, fmt.Errorf("gorm palpite: buscar id: %w", err)
	}
	return p, nil
}

func (r *PalpiteRepository) ListByPartida(ctx context.Context, partidaID domain.PartidaID) ([]domain.Palpite, error) {
	return r.listar(ctx, "partida_id = ?", partidaID)
}

func (r *PalpiteRepository) ListByUsuario(ctx context.Context, usuarioID domain.UsuarioID) ([]domain.Palpite, error) {
	return r.listar(ctx, "usuario_id = ?", usuarioID)
}

func (r *PalpiteRepository) ListByQuiniela(ctx context.Context, quinielaID domain.QuinielaID) ([]domain.Palpite, error) {
	return r.listar(ctx, "quiniela_id = ?", quinielaID)
}

func (r *PalpiteRepository) AtualizarPontos(ctx context.Context, id domain.PalpiteID, pontos int) error {
	res := r.db.WithContext(ctx).Model(&domain.Palpite{}).
		Where("id = ?", id).
		Update("pontos", pontos)
	if res.Error != nil {
		return fmt.Errorf("gorm palpite: atualizar pontos: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PalpiteRepository) DeleteByPartida(ctx context.Context, partidaID domain.PartidaID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&domain.Palpite{}, "partida_id = ?", partidaID)
	if res.Error != nil {
		return 0, fmt.Errorf("gorm palpite: excluir por partida: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *PalpiteRepository) listar(ctx context.Context, filtro string, valor any) ([]domain.Palpite, error) {
	var palpites []domain.Palpite
	if err := r.db.WithContext(ctx).
		Where(filtro, valor).
		Order("id ASC").
		Find(&palpites).Error; err != nil {
		return nil, fmt.Errorf("gorm palpite: listar: %w", err)
	}
	return palpites, nil
}

var _ domain.PalpiteRepository = (*PalpiteRepository)(nil)
