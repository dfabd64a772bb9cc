// Pacote config centraliza o carregamento das variáveis de ambiente usadas pelos binários.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config agrega todos os parâmetros necessários para API e worker.
type Config struct {
	HTTPAddress string
	LogLevel    string

	StorageDriver string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	FilaKey           string
	ContadorKeyPrefix string
	ContadorTTL       time.Duration

	RateLimitEnabled       bool
	RateLimitMaxActions    int
	RateLimitWindowSeconds int
	RateLimitKeyPrefix     string

	AutoMigrate bool

	WorkerMetricsAddress string
	AdminToken           string

	ApostaBase        decimal.Decimal
	PrazoPagamentoDia int
	LifecycleInterval time.Duration
}

func Load() (Config, error) {
	// .env é opcional; variáveis já exportadas têm precedência.
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddress:            getEnv("HTTP_ADDRESS", ":8080"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		StorageDriver:          getEnv("STORAGE_DRIVER", StoragePostgres),
		PostgresHost:           getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:           getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:           getEnv("POSTGRES_USER", "quiniela"),
		PostgresPassword:       getEnv("POSTGRES_PASSWORD", "quiniela"),
		PostgresDB:             getEnv("POSTGRES_DB", "quiniela"),
		PostgresSSLMode:        getEnv("POSTGRES_SSLMODE", "disable"),
		RedisAddr:              getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:          os.Getenv("REDIS_PASSWORD"),
		FilaKey:                getEnv("REDIS_QUEUE_KEY", "fila:resultados"),
		ContadorKeyPrefix:      getEnv("REDIS_COUNTER_PREFIX", "contador"),
		ContadorTTL:            time.Duration(getEnvAsInt("REDIS_COUNTER_TTL_HOURS", 720)) * time.Hour,
		RateLimitEnabled:       getEnv("PALPITE_RATE_LIMIT_ENABLED", "true") == "true",
		RateLimitMaxActions:    getEnvAsInt("PALPITE_RATE_LIMIT_MAX", 60),
		RateLimitWindowSeconds: getEnvAsInt("PALPITE_RATE_LIMIT_WINDOW", 60),
		RateLimitKeyPrefix:     getEnv("PALPITE_RATE_LIMIT_PREFIX", "ratelimit"),
		AutoMigrate:            getEnvAsBool("DB_AUTO_MIGRATE", true),
		WorkerMetricsAddress:   getEnv("WORKER_METRICS_ADDRESS", ":9090"),
		AdminToken:             os.Getenv("ADMIN_TOKEN"),
		PrazoPagamentoDia:      getEnvAsInt("PAGAMENTO_PRAZO_DIAS", 7),
		LifecycleInterval:      time.Duration(getEnvAsInt("LIFECYCLE_INTERVAL_SECONDS", 30)) * time.Second,
	}

	dbStr := getEnv("REDIS_DB", "0")
	dbInt, err := strconv.Atoi(dbStr)
	if err != nil {
		return Config{}, fmt.Errorf("config: REDIS_DB invalido: %w", err)
	}
	cfg.RedisDB = dbInt

	base, err := decimal.NewFromString(getEnv("APOSTA_BASE", "50"))
	if err != nil {
		return Config{}, fmt.Errorf("config: APOSTA_BASE invalido: %w", err)
	}
	if !base.IsPositive() {
		return Config{}, fmt.Errorf("config: APOSTA_BASE deve ser positivo, veio %s", base)
	}
	cfg.ApostaBase = base

	switch cfg.StorageDriver {
	case StorageMemory, StoragePostgres:
	default:
		return Config{}, fmt.Errorf("config: STORAGE_DRIVER desconhecido: %q", cfg.StorageDriver)
	}

	if cfg.LifecycleInterval <= 0 {
		return Config{}, fmt.Errorf("config: LIFECYCLE_INTERVAL_SECONDS deve ser positivo")
	}

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
