package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr             string
	GRPCAddr             string
	ServiceAuthToken     string
	BackendURL           string
	BackendTimeout       time.Duration
	SessionSecret        string
	SessionMaxAge        time.Duration
	CookieSecure         bool
	CSRFKey              string
	CORSOrigins          []string
	JWTSecret            string
	JWTIssuer            string
	RedisAddr            string
	RedisPassword        string
	DatabaseURL          string
	NATSURL              string
	StagingTTL           time.Duration
	LeaderCacheTTL       time.Duration
	BackendProbeInterval time.Duration
	AuditRetentionDays   int
	AuditPurgeInterval   time.Duration
	B2KeyID              string
	B2AppKey             string
	B2Bucket             string
	LogLevel             string
	LogFormat            string
	DocsPath             string
}

// Load reads the process environment. A .env file in the working directory,
// when present, seeds variables that are not already set.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		HTTPAddr:             getenv("HTTP_ADDR", ":8080"),
		GRPCAddr:             lookupenv("GRPC_ADDR", ":9090"),
		ServiceAuthToken:     getenv("SERVICE_AUTH_TOKEN", ""),
		BackendURL:           strings.TrimRight(getenv("BACKEND_URL", "http://127.0.0.1:5000"), "/"),
		BackendTimeout:       getenvDuration("BACKEND_TIMEOUT", 15*time.Second),
		SessionSecret:        getenv("SESSION_SECRET", "dev-session-secret-change-me"),
		SessionMaxAge:        getenvDuration("SESSION_MAX_AGE", 7*24*time.Hour),
		CookieSecure:         getenvBool("COOKIE_SECURE", false),
		CSRFKey:              getenv("CSRF_KEY", ""),
		CORSOrigins:          getenvList("CORS_ORIGINS"),
		JWTSecret:            getenv("JWT_SECRET", ""),
		JWTIssuer:            getenv("JWT_ISSUER", ""),
		RedisAddr:            getenv("REDIS_ADDR", ""),
		RedisPassword:        getenv("REDIS_PASSWORD", ""),
		DatabaseURL:          getenv("DATABASE_URL", ""),
		NATSURL:              getenv("NATS_URL", ""),
		StagingTTL:           getenvDuration("STAGING_TTL", time.Second),
		LeaderCacheTTL:       getenvDuration("LEADER_CACHE_TTL", 30*time.Minute),
		BackendProbeInterval: getenvDuration("BACKEND_PROBE_INTERVAL", 30*time.Second),
		AuditRetentionDays:   getenvInt("AUDIT_RETENTION_DAYS", 90),
		AuditPurgeInterval:   getenvDuration("AUDIT_PURGE_INTERVAL", 6*time.Hour),
		B2KeyID:              getenv("B2_KEY_ID", ""),
		B2AppKey:             getenv("B2_APP_KEY", ""),
		B2Bucket:             getenv("B2_BUCKET", ""),
		LogLevel:             getenv("LOG_LEVEL", "info"),
		LogFormat:            getenv("LOG_FORMAT", "json"),
		DocsPath:             getenv("DOCS_PATH", ""),
	}
}

// ArchiveEnabled reports whether exports should be copied to B2.
func (c Config) ArchiveEnabled() bool {
	return c.B2KeyID != "" && c.B2AppKey != "" && c.B2Bucket != ""
}

// GRPCEnabled reports whether the health listener should be started.
func (c Config) GRPCEnabled() bool {
	return c.GRPCAddr != ""
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// lookupenv keeps an explicitly empty value, unlike getenv.
func lookupenv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(val)
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	if val := os.Getenv(key + "_SECONDS"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getenvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}
