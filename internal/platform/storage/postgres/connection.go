// Pacote postgres implementa a camada de persistência no Postgres via GORM.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/marcelojr/quiniela/internal/domain"
)

type Pool struct {
	MaxOpen     int
	MaxIdle     int
	MaxIdleTime time.Duration
	MaxLifetime time.Duration
}

func DefaultPool() Pool {
	return Pool{MaxOpen: 25, MaxIdle: 25, MaxIdleTime: 5 * time.Minute, MaxLifetime: 60 * time.Minute}
}

func Open(ctx context.Context, dsn string, pool Pool) (*gorm.DB, error) {
	// Logs do GORM só em WARN; as queries lentas já aparecem ali.
	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: false,
		},
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("postgres gorm: abrir conexao: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres gorm: obter sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(pool.MaxOpen)
	sqlDB.SetMaxIdleConns(pool.MaxIdle)
	sqlDB.SetConnMaxIdleTime(pool.MaxIdleTime)
	sqlDB.SetConnMaxLifetime(pool.MaxLifetime)

	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctxPing); err != nil {
		return nil, fmt.Errorf("postgres gorm: ping falhou: %w", err)
	}

	return gormDB, nil
}

// Repositorios liga todos os repositórios à mesma conexão (ou transação).
func Repositorios(db *gorm.DB) domain.Repositorios {
	return domain.Repositorios{
		Partidas:   NewPartidaRepository(db),
		Palpites:   NewPalpiteRepository(db),
		Quinielas:  NewQuinielaRepository(db),
		Pagamentos: NewPagamentoRepository(db),
		Usuarios:   NewUsuarioRepository(db),
	}
}

type Transactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{db: db}
}

func (t *Transactor) Executar(ctx context.Context, fn func(ctx context.Context, repos domain.Repositorios) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, Repositorios(tx))
	})
}

func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

var _ domain.Transactor = (*Transactor)(nil)
