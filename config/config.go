// Package config resolves runtime settings from flags and environment.
package config

import (
	"flag"
	"os"

	"github.com/joho/godotenv"
)

// Config is everything main needs to wire the server.
type Config struct {
	Addr        string // HTTP listen address
	DBPath      string // SQLite database path, ":memory:" for ephemeral
	TokenSecret string // session token signing secret
}

// Load reads .env (when present), environment variables, and command-line
// flags. Flags win over environment, environment over defaults.
func Load(args []string) (Config, error) {
	// Missing .env is fine; environment may be set directly.
	godotenv.Load()

	cfg := Config{
		Addr:        envOr("CAIXA_ADDR", ":8080"),
		DBPath:      envOr("CAIXA_DB", "caixa.db"),
		TokenSecret: envOr("CAIXA_TOKEN_SECRET", "caixa-dev-secret"),
	}

	fs := flag.NewFlagSet("caixa", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path (\":memory:\" for in-memory)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
