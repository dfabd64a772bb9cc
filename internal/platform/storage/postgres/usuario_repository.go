package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/marcelojr/quiniela/internal/domain"
)

type UsuarioRepository struct {
	db *gorm.DB
}

func NewUsuarioRepository(db *gorm.DB) *UsuarioRepository {
	return &UsuarioRepository{db: db}
}

func (r *UsuarioRepository) Create(ctx context.Context, u domain.Usuario) error {
	if err := r.db.WithContext(ctx).Create(&u).Error; err != nil {
		return fmt.Errorf("gorm usuario: inserir: %w", err)
	}
	return nil
}

func (r *UsuarioRepository) FindByID(ctx context.Context, id domain.UsuarioID) (domain.Usuario, error) {
	var u domain.Usuario
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if notFound(err) {
			return domain.Usuario{}, domain.ErrNotFound
		}
		return domain.Usuario{}, fmt.Errorf("gorm usuario: buscar id: %w", err)
	}
	return u, nil
}

func (r *UsuarioRepository) List(ctx context.Context) ([]domain.Usuario, error) {
	var usuarios []domain.Usuario
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&usuarios).Error; err != nil {
		return nil, fmt.Errorf("gorm usuario: listar: %w", err)
	}
	return usuarios, nil
}

func (r *UsuarioRepository) AtualizarAgregados(ctx context.Context, id domain.UsuarioID, a domain.AgregadosUsuario) error {
	res := r.db.WithContext(ctx).Model(&domain.Usuario{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"total_pontos":       a.TotalPontos,
			"total_ganhos":       a.TotalGanhos,
			"quinielas_vencidas": a.QuinielasVencidas,
			"quinielas_jogadas":  a.QuinielasJogadas,
		})
	if res.Error != nil {
		return fmt.Errorf("gorm usuario: atualizar agregados: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UsuarioRepository) Delete(ctx context.Context, id domain.UsuarioID) error {
	res := r.db.WithContext(ctx).Delete(&domain.Usuario{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("gorm usuario: excluir: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ domain.UsuarioRepository = (*UsuarioRepository)(nil)
