package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Store kinds.
const (
	StoreKindPostgres = "postgres"
	StoreKindSQLite   = "sqlite"
	StoreKindStatic   = "static"
)

// ErrVersion is returned by NewConfig when --version was requested.
var ErrVersion = errors.New("version requested")

// Config contains server configuration parameters.
type Config struct {
	LogLevel      int       `env:"LOG_LEVEL" envDefault:"0"`
	LogFile       string    `env:"LOG_FILE"`
	LogMaxSizeMB  int       `env:"LOG_MAX_SIZE_MB" envDefault:"100"`
	LogMaxBackups int       `env:"LOG_MAX_BACKUPS" envDefault:"3"`
	Transport     Transport `envPrefix:"TRANSPORT_"`
	Store         Store     `envPrefix:"STORE_"`
	Static        Static    `envPrefix:"STATIC_"`
	Database      Database  `envPrefix:"DATABASE_"`
	SQLite        SQLite    `envPrefix:"SQLITE_"`
	Storage       Storage   `envPrefix:"MINIO_"`
	Health        Health    `envPrefix:"HEALTH_"`
}

// Transport contains request socket parameters.
type Transport struct {
	Endpoint string `env:"ENDPOINT" envDefault:"tcp://*:8080"`
}

// Store selects the credential store variant.
type Store struct {
	Kind string `env:"KIND" envDefault:"postgres"`
}

// Static contains the location of the static user records.
// ObjectKey is read from MinIO when set, Path from the local disk otherwise.
type Static struct {
	Path      string `env:"PATH"`
	ObjectKey string `env:"OBJECT_KEY"`
}

// Database contains database connection parameters.
type Database struct {
	DSN           string        `env:"DSN"`
	Host          string        `env:"HOST" envDefault:"localhost"`
	Port          int           `env:"PORT" envDefault:"5432"`
	User          string        `env:"USER"`
	Password      string        `env:"PASSWORD"`
	Name          string        `env:"NAME"`
	SSLMode       string        `env:"SSLMODE" envDefault:"disable"`
	Migrate       bool          `env:"MIGRATE" envDefault:"false"`
	LookupTimeout time.Duration `env:"LOOKUP_TIMEOUT" envDefault:"5s"`
}

// SQLite contains the SQLite database location.
type SQLite struct {
	Path string `env:"PATH" envDefault:"credcheck.db"`
}

// Storage contains object storage parameters.
type Storage struct {
	Enabled   bool   `env:"ENABLED" envDefault:"false"`
	Endpoint  string `env:"ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Bucket    string `env:"BUCKET_NAME" envDefault:"credcheck"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

// Health contains the gRPC health endpoint parameters.
type Health struct {
	Enabled            bool   `env:"ENABLED" envDefault:"false"`
	Port               string `env:"PORT" envDefault:"50051"`
	EnableHTTPS        bool   `env:"ENABLE_HTTPS" envDefault:"false"`
	CertFileName       string `env:"CERT_FILE_NAME" envDefault:"cert.pem"`
	PrivateKeyFileName string `env:"PRIVATE_KEY_FILE_NAME" envDefault:"key.pem"`
}

// legacyDatabase holds the MYSQL_* names older deployments keep in .env.
type legacyDatabase struct {
	Host     string `env:"MYSQL_HOST"`
	User     string `env:"MYSQL_USER"`
	Password string `env:"MYSQL_PASSWORD"`
	Name     string `env:"MYSQL_DATABASE"`
}

// applyLegacyDatabase fills database fields from MYSQL_* variables when the
// matching DATABASE_* variable is unset.
func applyLegacyDatabase(db *Database) error {
	legacy := legacyDatabase{}
	if err := env.Parse(&legacy); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	fallbacks := []struct {
		name   string
		legacy string
		dst    *string
	}{
		{"DATABASE_HOST", legacy.Host, &db.Host},
		{"DATABASE_USER", legacy.User, &db.User},
		{"DATABASE_PASSWORD", legacy.Password, &db.Password},
		{"DATABASE_NAME", legacy.Name, &db.Name},
	}
	for _, f := range fallbacks {
		if _, set := os.LookupEnv(f.name); set || f.legacy == "" {
			continue
		}
		*f.dst = f.legacy
	}
	return nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are ignored and already set variables win.
func LoadDotEnv(filenames ...string) error {
	for _, name := range filenames {
		if err := godotenv.Load(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", name, err)
		}
	}
	return nil
}

// NewConfig loads configuration from environment variables and applies
// command line overrides from args (without the program name).
func NewConfig(args []string) (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := applyLegacyDatabase(&cfg.Database); err != nil {
		return nil, err
	}

	flags := pflag.NewFlagSet("credcheck", pflag.ContinueOnError)
	jsonPath := flags.StringP("json", "j", "", "use a static JSON file as the user database")
	version := flags.Bool("version", false, "print build information and exit")
	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}
	if *version {
		return nil, ErrVersion
	}

	if *jsonPath != "" {
		cfg.Store.Kind = StoreKindStatic
		cfg.Static.Path = *jsonPath
		cfg.Static.ObjectKey = ""
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Kind {
	case StoreKindPostgres, StoreKindSQLite:
	case StoreKindStatic:
		if c.Static.Path == "" && c.Static.ObjectKey == "" {
			return fmt.Errorf("static store requires STATIC_PATH, STATIC_OBJECT_KEY or --json")
		}
		if c.Static.ObjectKey != "" && !c.Storage.Enabled {
			return fmt.Errorf("STATIC_OBJECT_KEY requires MINIO_ENABLED")
		}
	default:
		return fmt.Errorf("unknown store kind %q", c.Store.Kind)
	}
	return nil
}
