// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Server holds the settings for cmd/server. CLI flags override these.
type Server struct {
	HTTPAddr        string `env:"RPSARENA_HTTP_ADDR" envDefault:":8080"`
	Store           string `env:"RPSARENA_STORE" envDefault:"memory"`
	DBDSN           string `env:"RPSARENA_DB_DSN"`
	SQLitePath      string `env:"RPSARENA_SQLITE_PATH" envDefault:"rpsarena.db"`
	MigrationsDir   string `env:"RPSARENA_MIGRATIONS_DIR" envDefault:"db/migrations"`
	LogLevel        string `env:"RPSARENA_LOG_LEVEL" envDefault:"info"`
	LogFormat       string `env:"RPSARENA_LOG_FORMAT" envDefault:"console"`
	ContractName    string `env:"RPSARENA_CONTRACT_NAME" envDefault:"rpsarena"`
	GuardInitialize bool   `env:"RPSARENA_GUARD_INITIALIZE"`
	StrictMoves     bool   `env:"RPSARENA_STRICT_MOVES"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadServer parses the environment, lets override adjust the result (CLI
// flags), then validates. override may be nil.
func LoadServer(override func(*Server)) (Server, error) {
	var cfg Server
	if err := ParseEnv(&cfg); err != nil {
		return Server{}, err
	}
	if override != nil {
		override(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

func (c Server) Validate() error {
	switch c.Store {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if strings.TrimSpace(c.DBDSN) == "" {
			return fmt.Errorf("RPSARENA_DB_DSN is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown store %q (want memory, postgres or sqlite)", c.Store)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log format %q (want console or json)", c.LogFormat)
	}
	return nil
}
