// Worker assíncrono que consome alertas de ocupação da fila, entrega aos destinatários e mantém métricas expostas.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vidaplena/modulo-terapeutico/internal/app/ocupacao"
	"github.com/vidaplena/modulo-terapeutico/internal/app/worker"
	"github.com/vidaplena/modulo-terapeutico/internal/domain"
	"github.com/vidaplena/modulo-terapeutico/internal/platform/clock"
	"github.com/vidaplena/modulo-terapeutico/internal/platform/config"
	"github.com/vidaplena/modulo-terapeutico/internal/platform/health"
	"github.com/vidaplena/modulo-terapeutico/internal/platform/ids"
	"github.com/vidaplena/modulo-terapeutico/internal/platform/logger"
	"github.com/vidaplena/modulo-terapeutico/internal/platform/migrations"
	"github.com/vidaplena/modulo-terapeutico/internal/platform/notificacao"
	postgresstorage "github.com/vidaplena/modulo-terapeutico/internal/platform/storage/postgres"
	redisstorage "github.com/vidaplena/modulo-terapeutico/internal/platform/storage/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("configuracao invalida", "err", err)
	}

	// Worker usa a mesma conexão GORM da API para compartilhar migrations e modelos.
	db, err := postgresstorage.Open(ctx, cfg.PostgresDSN())
	if err != nil {
		logger.Fatal("falha ao conectar no postgres", "err", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("falha ao resgatar sql.DB", "err", err)
	}
	defer sqlDB.Close()

	if cfg.AutoMigrate {
		// Evitamos divergência de schema rodando a mesma migração condicional da API.
		if err := migrations.Run(db); err != nil {
			logger.Fatal("falha na migracao automatica", "err", err)
		}
	}

	// Redis é obrigatório aqui porque a fila de alertas vive sobre a mesma instância.
	redisClient, err := redisstorage.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatal("falha ao conectar no redis", "err", err)
	}
	defer redisClient.Close()

	fila := redisstorage.NewFilaAlertas(redisClient, cfg.FilaKeyPrefix)
	clockSystem := clock.NewSystemClock()
	checker := health.NewChecker(sqlDB, redisClient)

	if cfg.WorkerMetricsAddress != "" {
		go func() {
			// Metrics expõe observabilidade enquanto a goroutine principal consome a fila.
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			mux.HandleFunc("/readyz", checker.ReadyHandler())
			logger.Info("worker metrics ouvindo", "addr", cfg.WorkerMetricsAddress)
			if err := http.ListenAndServe(cfg.WorkerMetricsAddress, mux); err != nil {
				logger.Error("erro no servidor de metrics do worker", "err", err)
			}
		}()
	}

	var notificador domain.Notificador = notificacao.NewNoop()
	if cfg.AlertaWebhookURL != "" {
		notificador = notificacao.NewWebhook(cfg.AlertaWebhookURL, cfg.AlertaDestinatarios)
	}

	ocupacaoSvc := ocupacao.NewService(
		postgresstorage.NewSalaRepository(db),
		postgresstorage.NewAlocacaoRepository(db),
		postgresstorage.NewAtendimentoRepository(db),
		postgresstorage.NewAlertaRepository(db),
		fila,
		notificador,
		clockSystem,
		ids.NewGenerator(),
		cfg.LimiarOcupacao,
		cfg.AlertaDestinatarios,
		cfg.AlertaMaxTentativas,
		time.Duration(cfg.AlertaBackoffSegundos)*time.Second,
	)
	processor := worker.NewAlertaProcessor(ocupacaoSvc)

	logger.Info("worker iniciado, aguardando alertas")
	err = fila.ConsumirAlertas(ctx, func(ctx context.Context, id domain.AlertaID) error {
		// Processamos alerta a alerta; falha de entrega não derruba o consumo.
		if err := processor.Process(ctx, id); err != nil {
			logger.Error("erro ao processar alerta", "alerta", id, "err", err)
		}
		return nil
	})

	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		logger.Fatal("worker finalizado com erro", "err", err)
	}

	logger.Info("worker finalizado")
}
