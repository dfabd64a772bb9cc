package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/marcelojr/quiniela/internal/domain"
)

// QuinielaRepository mapeia a quiniela e o conjunto ordenado de partidas (quiniela_partidas).
type QuinielaRepository struct {
	db *gorm.DB
}

func NewQuinielaRepository(db *gorm.DB) *QuinielaRepository {
	return &QuinielaRepository{db: db}
}

type quinielaModel struct {
	ID                 string                 `gorm:"column:id;primaryKey"`
	Nome               string                 `gorm:"column:nome"`
	Prazo              time.Time              `gorm:"column:prazo"`
	Status             string                 `gorm:"column:status"`
	Atual              bool                   `gorm:"column:atual"`
	FechadaManualmente bool                   `gorm:"column:fechada_manualmente"`
	MotivoFechamento   string                 `gorm:"column:motivo_fechamento"`
	LiquidadaEm        *time.Time             `gorm:"column:liquidada_em"`
	CriadoEm           time.Time              `gorm:"column:criado_em"`
	AtualizadoEm       time.Time              `gorm:"column:atualizado_em"`
	Partidas           []quinielaPartidaModel `gorm:"foreignKey:QuinielaID;references:ID"`
}

func (quinielaModel) TableName() string {
	return "quinielas"
}

type quinielaPartidaModel struct {
	QuinielaID string `gorm:"column:quiniela_id;primaryKey"`
	PartidaID  string `gorm:"column:partida_id;primaryKey"`
	Ordem      int    `gorm:"column:ordem"`
}

func (quinielaPartidaModel) TableName() string {
	return "quiniela_partidas"
}

func (m quinielaModel) toDomain() domain.Quiniela {
	q := domain.Quiniela{
		ID:                 domain.QuinielaID(m.ID),
		Nome:               m.Nome,
		Prazo:              m.Prazo,
		Status:             domain.StatusQuiniela(m.Status),
		Atual:              m.Atual,
		FechadaManualmente: m.FechadaManualmente,
		MotivoFechamento:   m.MotivoFechamento,
		LiquidadaEm:        m.LiquidadaEm,
		CriadoEm:           m.CriadoEm,
		AtualizadoEm:       m.AtualizadoEm,
		PartidaIDs:         make([]domain.PartidaID, len(m.Partidas)),
	}
	for i, qp := range m.Partidas {
		q.PartidaIDs[i] = domain.PartidaID(qp.PartidaID)
	}
	return q
}

func vinculos(q domain.Quiniela) []quinielaPartidaModel {
	result := make([]quinielaPartidaModel, len(q.PartidaIDs))
	for i, id := range q.PartidaIDs {
		result[i] = quinielaPartidaModel{QuinielaID: string(q.ID), PartidaID: string(id), Ordem: i}
	}
	return result
}

func fromDomainQuiniela(q domain.Quiniela) quinielaModel {
	return quinielaModel{
		ID:                 string(q.ID),
		Nome:               q.Nome,
		Prazo:              q.Prazo,
		Status:             string(q.Status),
		Atual:              q.Atual,
		FechadaManualmente: q.FechadaManualmente,
		MotivoFechamento:   q.MotivoFechamento,
		LiquidadaEm:        q.LiquidadaEm,
		CriadoEm:           q.CriadoEm,
		AtualizadoEm:       q.AtualizadoEm,
		Partidas:           vinculos(q),
	}
}

func (r *QuinielaRepository) Create(ctx context.Context, q domain.Quiniela) error {
	model := fromDomainQuiniela(q)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("gorm quiniela: inserir: %w", err)
	}
	return nil
}

// Update regrava os campos e o conjunto de partidas; o marcador "atual" só muda via DefinirAtual.
func (r *QuinielaRepository) Update(ctx context.Context, q domain.Quiniela) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&quinielaModel{}).
			Where("id = ?", q.ID).
			Updates(map[string]any{
				"nome":                q.Nome,
				"prazo":               q.Prazo,
				"status":              string(q.Status),
				"fechada_manualmente": q.FechadaManualmente,
				"motivo_fechamento":   q.MotivoFechamento,
				"liquidada_em":        q.LiquidadaEm,
				"atualizado_em":       q.AtualizadoEm,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}

		if err := tx.Where("quiniela_id = ?", q.ID).Delete(&quinielaPartidaModel{}).Error; err != nil {
			return err
		}
		if len(q.PartidaIDs) == 0 {
			return nil
		}
		ligacoes := vinculos(q)
		return tx.Create(&ligacoes).Error
	})
	if errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("gorm quiniela: atualizar: %w", err)
	}
	return nil
}

func (r *QuinielaRepository) FindByID(ctx context.Context, id domain.QuinielaID) (domain.Quiniela, error) {
	return r.primeira(ctx, "id = ?", id)
}

func (r *QuinielaRepository) Atual(ctx context.Context) (domain.Quiniela, error) {
	return r.primeira(ctx, "atual = ?", true)
}

func (r *QuinielaRepository) DefinirAtual(ctx context.Context, id domain.QuinielaID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&quinielaModel{}).
			Where("atual = ?", true).
			Update("atual", false).Error; err != nil {
			return err
		}
		res := tx.Model(&quinielaModel{}).Where("id = ?", id).Update("atual", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
	if errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("gorm quiniela: definir atual: %w", err)
	}
	return nil
}

func (r *QuinielaRepository) ListByStatus(ctx context.Context, status ...domain.StatusQuiniela) ([]domain.Quiniela, error) {
	if len(status) == 0 {
		return nil, nil
	}
	valores := make([]string, len(status))
	for i, st := range status {
		valores[i] = string(st)
	}
	return r.listar(ctx, r.db.Where("status IN ?", valores))
}

func (r *QuinielaRepository) ListByPartida(ctx context.Context, partidaID domain.PartidaID) ([]domain.Quiniela, error) {
	sub := r.db.Model(&quinielaPartidaModel{}).Select("quiniela_id").Where("partida_id = ?", partidaID)
	return r.listar(ctx, r.db.Where("id IN (?)", sub))
}

func (r *QuinielaRepository) RegistrarVencedores(ctx context.Context, id domain.QuinielaID, vencedores []domain.UsuarioID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiniela_id = ?", id).Delete(&domain.QuinielaVencedor{}).Error; err != nil {
			return err
		}
		if len(vencedores) == 0 {
			return nil
		}
		linhas := make([]domain.QuinielaVencedor, len(vencedores))
		for i, v := range vencedores {
			linhas[i] = domain.QuinielaVencedor{QuinielaID: id, UsuarioID: v}
		}
		return tx.Create(&linhas).Error
	})
	if err != nil {
		return fmt.Errorf("gorm quiniela: registrar vencedores: %w", err)
	}
	return nil
}

func (r *QuinielaRepository) ContarVitorias(ctx context.Context, usuarioID domain.UsuarioID) (int, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&domain.QuinielaVencedor{}).
		Where("usuario_id = ?", usuarioID).
		Count(&total).Error; err != nil {
		return 0, fmt.Errorf("gorm quiniela: contar vitorias: %w", err)
	}
	return int(total), nil
}

func (r *QuinielaRepository) primeira(ctx context.Context, filtro string, valor any) (domain.Quiniela, error) {
	var model quinielaModel
	if err := r.db.WithContext(ctx).
		Preload("Partidas", ordenarPartidas).
		First(&model, filtro, valor).Error; err != nil {
		if notFound(err) {
			return domain.Quiniela{}, domain.ErrNotFound
		}
		return domain.Quiniela{}, fmt.Errorf("gorm quiniela: buscar: %w", err)
	}
	return model.toDomain(), nil
}

func (r *QuinielaRepository) listar(ctx context.Context, filtro *gorm.DB) ([]domain.Quiniela, error) {
	var models []quinielaModel
	if err := r.db.WithContext(ctx).
		Preload("Partidas", ordenarPartidas).
		Where(filtro).
		Order("prazo ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("gorm quiniela: listar: %w", err)
	}

	result := make([]domain.Quiniela, len(models))
	for i, m := range models {
		result[i] = m.toDomain()
	}
	return result, nil
}

func ordenarPartidas(db *gorm.DB) *gorm.DB {
	return db.Order("ordem ASC")
}

var _ domain.QuinielaRepository = (*QuinielaRepository)(nil)
