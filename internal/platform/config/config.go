package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	pkgstrings "cotejo/pkg/platform/strings"
)

// Config captures everything the server needs from the environment so main
// stays lean. Matching thresholds and validation minimums live here rather
// than as literals scattered through the classifier and validators; the
// reference defaults below stand in until the authoritative business rules
// land, and every one can be overridden per deployment.
type Config struct {
	Addr          string
	LogLevel      string
	JWTSigningKey string

	Matching MatchingConfig
	Dispatch DispatchConfig
	Session  SessionConfig
	Redis    RedisConfig
	Audit    AuditConfig

	// Collaborator base URLs. Empty values select deterministic mock
	// clients, which keeps local development network-free.
	RegistryBaseURL string
	NotifierBaseURL string
}

// MatchingConfig centralizes ranking and severity policy knobs.
type MatchingConfig struct {
	ThresholdCritical    float64
	ThresholdHigh        float64
	ThresholdMedium      float64
	MaxVisibleCandidates int
	MinJustificationLen  int
	MinReasonLen         int
}

// DispatchConfig bounds terminal dispatches to collaborators.
type DispatchConfig struct {
	Timeout time.Duration
}

// SessionConfig governs intake session retention.
type SessionConfig struct {
	TTL time.Duration
}

// RedisConfig configures the optional redis-backed session store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// AuditConfig configures the audit pipeline sinks.
type AuditConfig struct {
	KafkaBrokers []string
	Topic        string
	PostgresDSN  string
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	return Config{
		Addr:          envString("COTEJO_ADDR", ":8080"),
		LogLevel:      envString("COTEJO_LOG_LEVEL", "info"),
		JWTSigningKey: envString("COTEJO_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		Matching: MatchingConfig{
			ThresholdCritical:    envFloat("COTEJO_THRESHOLD_CRITICAL", 0.90),
			ThresholdHigh:        envFloat("COTEJO_THRESHOLD_HIGH", 0.75),
			ThresholdMedium:      envFloat("COTEJO_THRESHOLD_MEDIUM", 0.50),
			MaxVisibleCandidates: envInt("COTEJO_MAX_VISIBLE_CANDIDATES", 5),
			MinJustificationLen:  envInt("COTEJO_MIN_JUSTIFICATION_LEN", 20),
			MinReasonLen:         envInt("COTEJO_MIN_REASON_LEN", 10),
		},
		Dispatch: DispatchConfig{
			Timeout: envDuration("COTEJO_DISPATCH_TIMEOUT", 10*time.Second),
		},
		Session: SessionConfig{
			TTL: envDuration("COTEJO_SESSION_TTL", 4*time.Hour),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("COTEJO_REDIS_URL"),
			PoolSize:     envInt("COTEJO_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("COTEJO_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("COTEJO_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("COTEJO_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("COTEJO_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Audit: AuditConfig{
			KafkaBrokers: envList("COTEJO_KAFKA_BROKERS"),
			Topic:        envString("COTEJO_AUDIT_TOPIC", "cotejo.audit.events"),
			PostgresDSN:  os.Getenv("COTEJO_AUDIT_POSTGRES_DSN"),
		},
		RegistryBaseURL: os.Getenv("COTEJO_REGISTRY_BASE_URL"),
		NotifierBaseURL: os.Getenv("COTEJO_NOTIFIER_BASE_URL"),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	return pkgstrings.DedupeAndTrim(strings.Split(v, ","))
}
