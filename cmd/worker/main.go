// Worker assíncrono que consome resultados da fila, recalcula agregados, liquida quinielas
// e reconcilia o ciclo de vida pelo relógio.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

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

	if cfg.StorageDriver != config.StoragePostgres {
		logger.Fatal("worker exige STORAGE_DRIVER=postgres", "storage", cfg.StorageDriver)
	}

	// Worker usa a mesma conexão GORM da API para compartilhar migrations e modelos.
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

	// Redis é obrigatório aqui: a fila de resultados vive nele.
	redisClient, err := redisstorage.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatal("falha ao conectar no redis", "err", err)
	}
	defer redisClient.Close()

	fila := redisstorage.NewFila(redisClient, cfg.FilaKey)
	contador := redisstorage.NewContador(redisClient, cfg.ContadorKeyPrefix, cfg.ContadorTTL)
	clockSystem := clock.NewSystemClock()

	opcoes := quiniela.Opcoes{
		ApostaBase:     cfg.ApostaBase,
		PrazoPagamento: time.Duration(cfg.PrazoPagamentoDia) * 24 * time.Hour,
	}
	// O worker não republica: sem fila no serviço, o pós-resultado roda em linha aqui.
	servico := quiniela.NewService(
		postgresstorage.Repositorios(db),
		postgresstorage.NewTransactor(db),
		contador,
		nil,
		antifraude.NewNoop(),
		clockSystem,
		ids.NewGenerator(),
		opcoes,
	)
	processor := worker.NewResultProcessor(servico, clockSystem)
	reconciler := worker.NewReconciler(servico, cfg.LifecycleInterval)

	if pendentes, err := fila.Reprocessar(ctx); err != nil {
		logger.Warn("falha ao devolver eventos com falha para a fila", "err", err)
	} else if pendentes > 0 {
		logger.Info("eventos com falha devolvidos para a fila", "total", pendentes)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("worker iniciado, aguardando resultados", "fila", cfg.FilaKey)
		return fila.ConsumirResultados(gctx, func(ctx context.Context, evento domain.EventoResultado) error {
			if err := processor.Process(ctx, evento); err != nil {
				logger.Error("erro ao processar resultado", "partida", evento.PartidaID, "err", err)
				return err
			}
			return nil
		})
	})

	g.Go(func() error {
		return reconciler.Run(gctx)
	})

	if cfg.WorkerMetricsAddress != "" {
		checker := health.NewChecker(health.Banco(sqlDB), health.Redis(redisClient))
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/readyz", checker.ReadyHandler())
		mux.HandleFunc("/healthz", health.LiveHandler())
		srv := &http.Server{Addr: cfg.WorkerMetricsAddress, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

		g.Go(func() error {
			logger.Info("worker metrics ouvindo", "addr", cfg.WorkerMetricsAddress)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		logger.Fatal("worker finalizado com erro", "err", err)
	}

	logger.Info("worker finalizado")
}
