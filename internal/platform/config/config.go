// Package config builds runtime configuration from the environment so main
// stays lean.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration

	// OwnerAccount is the top-level authority granted at deployment. All
	// registry and settings mutations require this caller.
	OwnerAccount string
	// OwnerKeyHash is the bcrypt hash of the authority API key protecting
	// owner-only routes at the transport layer.
	OwnerKeyHash string

	JWTSigningKey string

	// OracleURL is the identity oracle base URL. Empty selects the static
	// in-process oracle (development only).
	OracleURL      string
	OracleTimeout  time.Duration
	OracleCacheTTL time.Duration

	// CompetencyThreshold seeds the settings store; mutable at runtime by
	// the owner.
	CompetencyThreshold uint32

	PostgresURL string
	RedisURL    string

	KafkaBrokers []string
	KafkaTopic   string
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	cfg := Server{
		Addr:                getEnv("MEDGATE_ADDR", ":8080"),
		HTTPReadTimeout:     getDuration("MEDGATE_HTTP_READ_TIMEOUT", 10*time.Second),
		HTTPWriteTimeout:    getDuration("MEDGATE_HTTP_WRITE_TIMEOUT", 30*time.Second),
		OwnerAccount:        os.Getenv("MEDGATE_OWNER_ACCOUNT"),
		OwnerKeyHash:        os.Getenv("MEDGATE_OWNER_KEY_HASH"),
		JWTSigningKey:       getEnv("MEDGATE_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		OracleURL:           os.Getenv("MEDGATE_ORACLE_URL"),
		OracleTimeout:       getDuration("MEDGATE_ORACLE_TIMEOUT", 3*time.Second),
		OracleCacheTTL:      getDuration("MEDGATE_ORACLE_CACHE_TTL", time.Minute),
		CompetencyThreshold: getUint32("MEDGATE_COMPETENCY_THRESHOLD", 50),
		PostgresURL:         os.Getenv("MEDGATE_POSTGRES_URL"),
		RedisURL:            os.Getenv("MEDGATE_REDIS_URL"),
		KafkaTopic:          getEnv("MEDGATE_KAFKA_TOPIC", "medgate.notifications"),
	}
	if brokers := os.Getenv("MEDGATE_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getUint32(key string, fallback uint32) uint32 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			return uint32(n)
		}
	}
	return fallback
}
