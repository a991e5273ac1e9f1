// Pacote config centraliza o carregamento das variáveis de ambiente usadas pelos binários.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config agrega todos os parâmetros necessários para API e worker.
type Config struct {
	HTTPAddress string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	FilaKeyPrefix     string
	ContadorKeyPrefix string

	// LimiarOcupacao é comparado contra a razão bruta de ocupação (0..1).
	LimiarOcupacao        float64
	AlertaDestinatarios   []string
	AlertaWebhookURL      string
	AlertaMaxTentativas   int
	AlertaBackoffSegundos int

	AutoMigrate bool

	WorkerMetricsAddress string
}

func Load() (Config, error) {
	// .env é opcional; em Docker/K8s as variáveis chegam pelo ambiente.
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddress:           getEnv("HTTP_ADDRESS", ":8080"),
		PostgresHost:          getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:          getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:          getEnv("POSTGRES_USER", "clinica"),
		PostgresPassword:      getEnv("POSTGRES_PASSWORD", "clinica"),
		PostgresDB:            getEnv("POSTGRES_DB", "modulo_terapeutico"),
		PostgresSSLMode:       getEnv("POSTGRES_SSLMODE", "disable"),
		RedisAddr:             getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:         os.Getenv("REDIS_PASSWORD"),
		FilaKeyPrefix:         getEnv("REDIS_QUEUE_PREFIX", "fila:alertas"),
		ContadorKeyPrefix:     getEnv("REDIS_COUNTER_PREFIX", "ocupacao"),
		AlertaWebhookURL:      os.Getenv("ALERTA_WEBHOOK_URL"),
		AlertaMaxTentativas:   getEnvAsInt("ALERTA_MAX_TENTATIVAS", 3),
		AlertaBackoffSegundos: getEnvAsInt("ALERTA_BACKOFF_SEGUNDOS", 2),
		AutoMigrate:           getEnvAsBool("DB_AUTO_MIGRATE", true),
		WorkerMetricsAddress:  getEnv("WORKER_METRICS_ADDRESS", ":9090"),
	}

	limiarStr := getEnv("ALERTA_LIMIAR_OCUPACAO", "0.8")
	limiar, err := strconv.ParseFloat(limiarStr, 64)
	if err != nil || limiar <= 0 || limiar > 1 {
		return Config{}, fmt.Errorf("config: ALERTA_LIMIAR_OCUPACAO invalido: %q", limiarStr)
	}
	cfg.LimiarOcupacao = limiar

	if destinatarios := os.Getenv("ALERTA_DESTINATARIOS"); destinatarios != "" {
		for _, d := range strings.Split(destinatarios, ",") {
			if d = strings.TrimSpace(d); d != "" {
				cfg.AlertaDestinatarios = append(cfg.AlertaDestinatarios, d)
			}
		}
	}

	dbStr := getEnv("REDIS_DB", "0")
	dbInt, err := strconv.Atoi(dbStr)
	if err != nil {
		return Config{}, fmt.Errorf("config: REDIS_DB invalido: %w", err)
	}
	cfg.RedisDB = dbInt

	return cfg, nil
}

func (c Config) PostgresDSN() string {
	// Mantemos o formato DSN compatível com GORM e ferramentas de migração.
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.PostgresUser,
		c.PostgresPassword,
		c.PostgresHost,
		c.PostgresPort,
		c.PostgresDB,
		c.PostgresSSLMode,
	)
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvAsInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}

func getEnvAsBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	switch value {
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return true
	}
}
