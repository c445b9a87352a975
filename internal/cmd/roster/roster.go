// Package roster parses roster service flags and launches the service.
package roster

import (
	"context"
	"flag"

	entrypoint "github.com/astrocorps/stargate/internal/platform/cmd"
	server "github.com/astrocorps/stargate/internal/services/roster/app"
)

// Config holds roster command configuration.
type Config struct {
	Port int `env:"STARGATE_PORT" envDefault:"8080"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The roster HTTP server port")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the roster HTTP API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceRoster, func(context.Context) error {
		return server.Run(ctx, cfg.Port)
	})
}
