// Pacote migrations centraliza as versões gormigrate aplicadas na inicialização.
package migrations

import (
	"fmt"

	gormigrate "github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/marcelojr/quiniela/internal/domain"
)

func lista() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: "202403010001_init_schema",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(
					&domain.Usuario{},
					&domain.Partida{},
					&domain.Quiniela{},
					&domain.QuinielaPartida{},
					&domain.Palpite{},
				)
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("palpites", "quiniela_partidas", "quinielas", "partidas", "usuarios")
			},
		},
		{
			ID: "202403080001_liquidacao",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&domain.Pagamento{}, &domain.QuinielaVencedor{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("quiniela_vencedores", "pagamentos")
			},
		},
	}
}

func Run(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("migrations: db nulo")
	}

	m := gormigrate.New(db, gormigrate.DefaultOptions, lista())
	if err := m.Migrate(); err != nil {
		return fmt.Errorf("migrations: falha ao aplicar: %w", err)
	}

	return nil
}

// Rollback desfaz a última versão aplicada.
func Rollback(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("migrations: db nulo")
	}

	m := gormigrate.New(db, gormigrate.DefaultOptions, lista())
	if err := m.RollbackLast(); err != nil {
		return fmt.Errorf("migrations: falha ao desfazer: %w", err)
	}
	return nil
}
