// Executável principal da API: carrega a configuração, inicializa dependências e sobe o servidor HTTP.
package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vidaplena/modulo-terapeutico/internal/app/alocacao"
	"github.com/vidaplena/modulo-terapeutico/internal/app/atendimento"
	"github.com/vidaplena/modulo-terapeutico/internal/app/httpapi"
	"github.com/vidaplena/modulo-terapeutico/internal/app/ocorrencia"
	"github.com/vidaplena/modulo-terapeutico/internal/app/ocupacao"
	"github.com/vidaplena/modulo-terapeutico/internal/app/salas"
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

	// Mantemos a conexão compartilhada em todo o ciclo para reaproveitar pool e checar readiness.
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
		// Rodamos migrations automáticas apenas se habilitado para evitar surpresas em produção.
		if err := migrations.Run(db); err != nil {
			logger.Fatal("falha na migracao automatica", "err", err)
		}
	}

	// Redis centraliza a fila de alertas e os contadores de ocupação dos painéis.
	redisClient, err := redisstorage.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatal("falha ao conectar no redis", "err", err)
	}
	defer redisClient.Close()

	salaRepo := postgresstorage.NewSalaRepository(db)
	alocacaoRepo := postgresstorage.NewAlocacaoRepository(db)
	atendimentoRepo := postgresstorage.NewAtendimentoRepository(db)
	ocorrenciaRepo := postgresstorage.NewOcorrenciaRepository(db)
	alertaRepo := postgresstorage.NewAlertaRepository(db)
	contador := redisstorage.NewContador(redisClient, cfg.ContadorKeyPrefix)
	fila := redisstorage.NewFilaAlertas(redisClient, cfg.FilaKeyPrefix)
	clockSystem := clock.NewSystemClock()
	idGen := ids.NewGenerator()

	var notificador domain.Notificador = notificacao.NewNoop()
	if cfg.AlertaWebhookURL != "" {
		notificador = notificacao.NewWebhook(cfg.AlertaWebhookURL, cfg.AlertaDestinatarios)
	}

	ocupacaoSvc := ocupacao.NewService(
		salaRepo,
		alocacaoRepo,
		atendimentoRepo,
		alertaRepo,
		fila,
		notificador,
		clockSystem,
		idGen,
		cfg.LimiarOcupacao,
		cfg.AlertaDestinatarios,
		cfg.AlertaMaxTentativas,
		time.Duration(cfg.AlertaBackoffSegundos)*time.Second,
	)

	salasSvc := salas.NewService(salaRepo, clockSystem, idGen)
	alocacaoSvc := alocacao.NewService(salaRepo, alocacaoRepo, contador, ocupacaoSvc, clockSystem, idGen)
	atendimentoSvc := atendimento.NewService(atendimentoRepo, ocorrenciaRepo, contador, ocupacaoSvc, clockSystem, idGen)
	ocorrenciaSvc := ocorrencia.NewService(ocorrenciaRepo, clockSystem, idGen)

	mux := http.NewServeMux()
	checker := health.NewChecker(sqlDB, redisClient)

	// HTTP expõe API, health check e métricas que o Prometheus coleta.
	api := httpapi.New(salasSvc, alocacaoSvc, atendimentoSvc, ocorrenciaSvc, ocupacaoSvc, logger.L())
	api.Register(mux)
	mux.HandleFunc("/readyz", checker.ReadyHandler())
	mux.Handle("/metrics", promhttp.Handler())

	logger.Info("api ouvindo", "addr", cfg.HTTPAddress)
	if err := http.ListenAndServe(cfg.HTTPAddress, mux); err != nil {
		logger.Fatal("erro no servidor", "err", err)
	}
}
