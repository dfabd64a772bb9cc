// Executável principal da API: carrega a configuração, inicializa dependências e sobe o servidor HTTP.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/marcelojr/quiniela/internal/app/httpapi"
	"github.com/marcelojr/quiniela/internal/app/quiniela"
	"github.com/marcelojr/quiniela/internal/app/worker"
	"github.com/marcelojr/quiniela/internal/domain"
	"github.com/marcelojr/quiniela/internal/platform/antifraude"
	"github.com/marcelojr/quiniela/internal/platform/clock"
	"github.com/marcelojr/quiniela/internal/platform/config"
	"github.com/marcelojr/quiniela/internal/platform/health"
	"github.com/marcelojr/quiniela/internal/platform/ids"
	"github.com/marcelojr/quiniela/internal/platform/logger"
	"github.com/marcelojr/quiniela/internal/platform/migrations"
	"github.com/marcelojr/quiniela/internal/platform/storage/memory"
	postgresstorage "github.com/marcelojr/quiniela/internal/platform/storage/postgres"
	redisstorage "github.com/marcelojr/quiniela/internal/platform/storage/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("configuracao invalida", "err", err)
	}
	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))

	var (
		repos    domain.Repositorios
		tx       domain.Transactor
		checagem = []health.Verificacao{}
	)

	switch cfg.StorageDriver {
	case config.StorageMemory:
		store := memory.NewStore()
		repos, tx = store.Repositorios(), store
		logger.Warn("armazenamento em memoria: nada sera persistido")
	default:
		db, err := postgresstorage.Open(ctx, cfg.PostgresDSN(), postgresstorage.DefaultPool())
		if err != nil {
			logger.Fatal("falha ao conectar no postgres", "err", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			logger.Fatal("falha ao resgatar sql.DB", "err", err)
		}
		defer sqlDB.Close()

		if cfg.AutoMigrate {
			if err := migrations.Run(db); err != nil {
				logger.Fatal("falha na migracao automatica", "err", err)
			}
		}
		repos, tx = postgresstorage.Repositorios(db), postgresstorage.NewTransactor(db)
		checagem = append(checagem, health.Banco(sqlDB))
	}

	// Sem Redis a API segue: contador em memória, antifraude desligado e pós-resultado em linha.
	var (
		redisClient   *goredis.Client
		contador      domain.Contador = memory.NewContador()
		fila          domain.Fila
		antifraudeSvc domain.Antifraude = antifraude.NewNoop()
	)
	if cfg.StorageDriver == config.StoragePostgres {
		redisClient, err = redisstorage.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Warn("redis indisponivel, seguindo sem fila e sem antifraude", "err", err)
		} else {
			defer redisClient.Close()
			contador = redisstorage.NewContador(redisClient, cfg.ContadorKeyPrefix, cfg.ContadorTTL)
			fila = redisstorage.NewFila(redisClient, cfg.FilaKey)
			if cfg.RateLimitEnabled {
				janela := time.Duration(cfg.RateLimitWindowSeconds) * time.Second
				antifraudeSvc = antifraude.NewRedisRateLimiter(redisClient, cfg.RateLimitMaxActions, janela, cfg.RateLimitKeyPrefix)
			}
		}
	}
	checagem = append(checagem, health.Redis(redisClient))

	opcoes := quiniela.Opcoes{
		ApostaBase:     cfg.ApostaBase,
		PrazoPagamento: time.Duration(cfg.PrazoPagamentoDia) * 24 * time.Hour,
	}
	servico := quiniela.NewService(repos, tx, contador, fila, antifraudeSvc, clock.NewSystemClock(), ids.NewGenerator(), opcoes)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	api := httpapi.New(servico, logger.L(), cfg.AdminToken)
	api.Register(r)
	r.Get("/readyz", health.NewChecker(checagem...).ReadyHandler())
	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("api ouvindo", "addr", cfg.HTTPAddress, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	// Em memória não existe worker separado: a reconciliação roda no próprio processo.
	if cfg.StorageDriver == config.StorageMemory {
		reconciler := worker.NewReconciler(servico, cfg.LifecycleInterval)
		g.Go(func() error {
			if err := reconciler.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Fatal("erro no servidor", "err", err)
	}
	logger.Info("api finalizada")
}
