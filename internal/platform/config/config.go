package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"
)

// Config is the process configuration shared by the API server and fuelctl.
type Config struct {
	Port string

	// AuthMode is "jwt" (default) or "dev".
	AuthMode   string
	DevSubject string
	DevIssuer  string
	// JWT is populated only when AuthMode is "jwt".
	JWT JWTConfig

	// StorageBackend is "memory" (default), "postgres" or "firestore".
	StorageBackend     string
	DatabaseURL        string
	DBMaxConns         int32
	FirestoreProjectID string

	// IdempotencyBackend defaults to the storage backend for memory and postgres,
	// and to memory for firestore. "redis" uses RedisURL.
	IdempotencyBackend string
	RedisURL           string
	IdempotencyTTL     time.Duration

	StoreBreaker        bool
	BreakerFailures     uint32
	BreakerOpenTimeout  time.Duration
	OverviewConcurrency int
	BudgetTimezone      *time.Location
	CurrencySymbol      string
	LogLevel            string
	LogFormat           string
	ShutdownTimeout     time.Duration
	ReadHeaderTimeout   time.Duration
	MigrateOnStart      bool
}

// Load reads the environment. JWT settings are required only in jwt auth mode.
func Load() (Config, error) { return load(true) }

// LoadStorage reads everything except the auth settings. Offline tools use it.
func LoadStorage() (Config, error) { return load(false) }

func load(withAuth bool) (Config, error) {
	cfg := Config{
		Port:               getenv("PORT", "8080"),
		AuthMode:           getenv("AUTH_MODE", "jwt"),
		DevSubject:         getenv("DEV_SUBJECT", "dev|local"),
		DevIssuer:          getenv("DEV_ISSUER", "dev"),
		StorageBackend:     getenv("STORAGE_BACKEND", "memory"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		FirestoreProjectID: os.Getenv("FIRESTORE_PROJECT_ID"),
		IdempotencyBackend: os.Getenv("IDEMPOTENCY_BACKEND"),
		RedisURL:           getenv("REDIS_URL", "redis://localhost:6379/0"),
		CurrencySymbol:     getenv("CURRENCY_SYMBOL", "€"),
		LogLevel:           getenv("LOG_LEVEL", "info"),
		LogFormat:          getenv("LOG_FORMAT", "text"),
	}

	if withAuth {
		switch cfg.AuthMode {
		case "dev":
		case "jwt":
			jwtCfg, err := LoadJWTConfigFromEnv()
			if err != nil {
				return Config{}, err
			}
			cfg.JWT = jwtCfg
		default:
			return Config{}, fmt.Errorf("AUTH_MODE must be jwt or dev, got %q", cfg.AuthMode)
		}
	}

	switch cfg.StorageBackend {
	case "memory":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND=postgres")
		}
	case "firestore":
		if cfg.FirestoreProjectID == "" {
			return Config{}, fmt.Errorf("FIRESTORE_PROJECT_ID is required when STORAGE_BACKEND=firestore")
		}
	default:
		return Config{}, fmt.Errorf("STORAGE_BACKEND must be memory, postgres or firestore, got %q", cfg.StorageBackend)
	}

	if cfg.IdempotencyBackend == "" {
		cfg.IdempotencyBackend = "memory"
		if cfg.StorageBackend == "postgres" {
			cfg.IdempotencyBackend = "postgres"
		}
	}
	switch cfg.IdempotencyBackend {
	case "memory", "redis":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required when IDEMPOTENCY_BACKEND=postgres")
		}
	default:
		return Config{}, fmt.Errorf("IDEMPOTENCY_BACKEND must be memory, postgres or redis, got %q", cfg.IdempotencyBackend)
	}

	var err error
	if cfg.IdempotencyTTL, err = durationEnv("IDEMPOTENCY_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.BreakerOpenTimeout, err = durationEnv("STORE_BREAKER_OPEN_TIMEOUT", 30*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = durationEnv("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.ReadHeaderTimeout, err = durationEnv("READ_HEADER_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}

	switch v := getenv("STORE_BREAKER", "off"); v {
	case "on":
		cfg.StoreBreaker = true
	case "off":
	default:
		return Config{}, fmt.Errorf("STORE_BREAKER must be on or off, got %q", v)
	}
	failures, err := intEnv("STORE_BREAKER_FAILURES", 5)
	if err != nil {
		return Config{}, err
	}
	if failures <= 0 {
		return Config{}, fmt.Errorf("STORE_BREAKER_FAILURES must be positive")
	}
	cfg.BreakerFailures = uint32(failures)

	maxConns, err := intEnv("DB_MAX_CONNS", 0)
	if err != nil {
		return Config{}, err
	}
	cfg.DBMaxConns = int32(maxConns)

	if cfg.OverviewConcurrency, err = intEnv("OVERVIEW_CONCURRENCY", 8); err != nil {
		return Config{}, err
	}

	if cfg.MigrateOnStart, err = boolEnv("MIGRATE_ON_START", false); err != nil {
		return Config{}, err
	}

	tz := getenv("BUDGET_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Config{}, fmt.Errorf("BUDGET_TIMEZONE must be an IANA zone name (e.g. Europe/Berlin): %w", err)
	}
	cfg.BudgetTimezone = loc

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return Config{}, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func durationEnv(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration (e.g. %s): %w", k, def, err)
	}
	return d, nil
}

func intEnv(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", k, err)
	}
	return n, nil
}

func boolEnv(k string, def bool) (bool, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", k, err)
	}
	return b, nil
}
