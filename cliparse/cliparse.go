package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Supported DatabaseType values
const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
	DatabaseMongo    = "mongo"
)

// Supported SessionStore values
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	DatabaseName string

	SessionSecret string
	SessionStore  string
	RedisURL      string
	SessionTTL    time.Duration
	SecureCookies bool

	// Origins allowed to make credentialed cross-origin requests
	AllowedOrigins []string

	// Optional admin account created at startup when all three are set
	AdminIdentity string
	AdminName     string
	AdminDOB      string
}

// SeedAdmin reports whether an admin account should be ensured at startup
func (c Config) SeedAdmin() bool {
	return c.AdminIdentity != ""
}

// ParseFlags validates flags and sets port number
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("ems", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite, postgres or mongo)")
	fs.StringVar(&cfg.DatabaseName, "db-name", "", "Mongo database name")

	// Sessions
	fs.StringVar(&cfg.SessionSecret, "session-secret", "", "Session cookie signing secret (prefer env)")
	fs.StringVar(&cfg.SessionStore, "session-store", "", "Session store (memory or redis)")
	fs.StringVar(&cfg.RedisURL, "redis-url", "", "Redis URL for the redis session store")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", 0, "Session lifetime")
	fs.BoolVar(&cfg.SecureCookies, "secure-cookies", false, "Mark session cookies Secure")

	// CORS
	var origins string
	fs.StringVar(&origins, "allowed-origins", "", "Comma-separated origins allowed to call the API with credentials")

	// Admin seed
	fs.StringVar(&cfg.AdminIdentity, "admin-identity", "", "Identity of the admin to seed")
	fs.StringVar(&cfg.AdminName, "admin-name", "", "Name of the admin to seed")
	fs.StringVar(&cfg.AdminDOB, "admin-dob", "", "Date of birth of the admin to seed (YYYY-MM-DD)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 5000 // default
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DatabaseSQLite
		}
	}
	switch cfg.DatabaseType {
	case DatabaseSQLite, DatabasePostgres, DatabaseMongo:
	default:
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" && cfg.DatabaseType == DatabaseMongo {
		cfg.DatabaseURL = os.Getenv("MONGO_URI")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseName == "" {
		cfg.DatabaseName = os.Getenv("DATABASE_NAME")
		if cfg.DatabaseName == "" {
			cfg.DatabaseName = "evote"
		}
	}

	// Secrets - MUST be provided
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	}
	if cfg.SessionSecret == "" {
		return Config{}, errors.New("SESSION_SECRET required")
	}

	if cfg.SessionStore == "" {
		cfg.SessionStore = os.Getenv("SESSION_STORE")
		if cfg.SessionStore == "" {
			cfg.SessionStore = SessionStoreMemory
		}
	}
	switch cfg.SessionStore {
	case SessionStoreMemory:
	case SessionStoreRedis:
		if cfg.RedisURL == "" {
			cfg.RedisURL = os.Getenv("REDIS_URL")
		}
		if cfg.RedisURL == "" {
			return Config{}, errors.New("REDIS_URL required for the redis session store")
		}
	default:
		return Config{}, fmt.Errorf("unsupported session store %q", cfg.SessionStore)
	}

	if cfg.SessionTTL == 0 {
		if ttlStr := os.Getenv("SESSION_TTL"); ttlStr != "" {
			ttl, err := time.ParseDuration(ttlStr)
			if err != nil {
				return Config{}, errors.New("invalid SESSION_TTL env variable")
			}
			cfg.SessionTTL = ttl
		} else {
			cfg.SessionTTL = 12 * time.Hour
		}
	}
	if cfg.SessionTTL < 0 {
		return Config{}, errors.New("session TTL must be positive")
	}

	if !set["secure-cookies"] {
		if v := os.Getenv("SECURE_COOKIES"); v != "" {
			secure, err := strconv.ParseBool(v)
			if err != nil {
				return Config{}, errors.New("invalid SECURE_COOKIES env variable")
			}
			cfg.SecureCookies = secure
		}
	}

	if origins == "" {
		origins = os.Getenv("ALLOWED_ORIGINS")
	}
	cfg.AllowedOrigins = splitOrigins(origins)

	if cfg.AdminIdentity == "" {
		cfg.AdminIdentity = os.Getenv("ADMIN_IDENTITY")
	}
	if cfg.AdminName == "" {
		cfg.AdminName = os.Getenv("ADMIN_NAME")
	}
	if cfg.AdminDOB == "" {
		cfg.AdminDOB = os.Getenv("ADMIN_DOB")
	}
	if cfg.AdminIdentity != "" && cfg.AdminDOB == "" {
		return Config{}, errors.New("ADMIN_DOB required when ADMIN_IDENTITY is set")
	}
	if cfg.AdminIdentity == "" && (cfg.AdminName != "" || cfg.AdminDOB != "") {
		return Config{}, errors.New("ADMIN_IDENTITY required when seeding an admin")
	}
	if cfg.AdminIdentity != "" {
		if _, err := time.Parse("2006-01-02", cfg.AdminDOB); err != nil {
			return Config{}, errors.New("ADMIN_DOB must be YYYY-MM-DD")
		}
	}

	return cfg, nil
}

// splitOrigins parses a comma-separated origin list, dropping blanks and
// trailing slashes
func splitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		o = strings.TrimSuffix(strings.TrimSpace(o), "/")
		if o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
