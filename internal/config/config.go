package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"

	"github.com/mvalerio/account-service/internal/domain"
)

type Config struct {
	Server   ServerConfig   `env:",prefix=SERVER_"`
	Postgres PostgresConfig `env:",prefix=POSTGRES_"`
	Redis    RedisConfig    `env:",prefix=REDIS_"`
	Token    TokenConfig    `env:",prefix=TOKEN_"`
	Kafka    KafkaConfig    `env:",prefix=KAFKA_"`
	Security SecurityConfig `env:",prefix="`
	CORS     CORSConfig     `env:",prefix=CORS_"`
	Env      string         `env:"ENV,default=development"`
}

type ServerConfig struct {
	Port         string   `env:"PORT,default=8080"`
	Host         string   `env:"HOST,default=0.0.0.0"`
	ReadTimeout  Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout Duration `env:"WRITE_TIMEOUT,default=15s"`
}

type PostgresConfig struct {
	Host     string `env:"HOST,default=localhost"`
	Port     string `env:"PORT,default=5432"`
	User     string `env:"USER,default=account_service"`
	Password string `env:"PASSWORD,default=account_service_password"`
	DBName   string `env:"DB,default=account_service_db"`
	SSLMode  string `env:"SSLMODE,default=disable"`
}

type RedisConfig struct {
	Host     string `env:"HOST,default=localhost"`
	Port     string `env:"PORT,default=6379"`
	Password string `env:"PASSWORD,default="`
	DB       int    `env:"DB,default=0"`
}

type TokenConfig struct {
	Secret        string   `env:"SECRET"`
	SessionExpiry Duration `env:"SESSION_EXPIRY,default=1d"`
}

// KafkaConfig configures the notification gateway. With Enabled unset
// the service runs without out-of-band code delivery.
type KafkaConfig struct {
	Enabled           bool     `env:"ENABLED,default=false"`
	Brokers           []string `env:"BROKERS,default=localhost:9092"`
	VerificationTopic string   `env:"VERIFICATION_TOPIC"`
	RecoveryTopic     string   `env:"RECOVERY_TOPIC"`
}

type SecurityConfig struct {
	RateLimitRequests int      `env:"RATE_LIMIT_REQUESTS,default=10"`
	RateLimitWindow   Duration `env:"RATE_LIMIT_WINDOW,default=1m"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS,default=http://localhost:3000"`
	AllowedMethods []string `env:"ALLOWED_METHODS,default=GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders []string `env:"ALLOWED_HEADERS,default=Content-Type,Authorization"`
}

// DSN returns PostgreSQL connection string
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode)
}

// URL returns the PostgreSQL connection URL used by the migration runner
func (p PostgresConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DBName, p.SSLMode)
}

// Address returns Redis connection address
func (r RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// Load loads configuration from environment variables and fails fast on
// values the service cannot run with.
func Load(ctx context.Context) (*Config, error) {
	var config Config

	if err := envconfig.Process(ctx, &config); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if len(config.Token.Secret) < 32 {
		return nil, domain.NewValidationErrorWithValue(domain.CodeInternalErrorInvalidEnv, "TOKEN_SECRET")
	}

	if config.Kafka.Enabled {
		if len(config.Kafka.Brokers) == 0 {
			return nil, domain.NewValidationErrorWithValue(domain.CodeInternalErrorInvalidEnv, "KAFKA_BROKERS")
		}
		if config.Kafka.VerificationTopic == "" {
			return nil, domain.NewValidationErrorWithValue(domain.CodeInternalErrorInvalidEnv, "KAFKA_VERIFICATION_TOPIC")
		}
		if config.Kafka.RecoveryTopic == "" {
			return nil, domain.NewValidationErrorWithValue(domain.CodeInternalErrorInvalidEnv, "KAFKA_RECOVERY_TOPIC")
		}
	}

	return &config, nil
}

// LoadWithDefaults loads configuration with default context
func LoadWithDefaults() (*Config, error) {
	return Load(context.Background())
}
