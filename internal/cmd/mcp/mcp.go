// Package mcp parses MCP command flags and selects stdio or HTTP transport.
package mcp

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/louisbranch/dicemaiden/internal/core/dice/roller"
	platformcmd "github.com/louisbranch/dicemaiden/internal/platform/cmd"
	"github.com/louisbranch/dicemaiden/internal/services/dice/app"
	"github.com/louisbranch/dicemaiden/internal/services/mcp/service"
)

// Config holds MCP command configuration.
type Config struct {
	HTTPAddr      string   `env:"MCP_HTTP_ADDR"     envDefault:"localhost:8081"`
	Transport     string   `env:"MCP_TRANSPORT"     envDefault:"stdio"`
	AllowedHosts  []string `env:"MCP_ALLOWED_HOSTS" envSeparator:","`
	HistoryDB     string   `env:"HISTORY_DB"`
	Locale        string   `env:"LOCALE"            envDefault:"en-US"`
	PlanCacheSize int      `env:"PLAN_CACHE_SIZE"   envDefault:"1024"`
}

// ParseConfig parses environment and flags into a Config. Flags win.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio or http")
	fs.StringVar(&cfg.HistoryDB, "history", cfg.HistoryDB, "SQLite roll history path; empty disables history")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "Default locale for error messages")
	fs.IntVar(&cfg.PlanCacheSize, "plan-cache", cfg.PlanCacheSize, "Number of parsed rolls to cache")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.PlanCacheSize <= 0 {
		cfg.PlanCacheSize = roller.DefaultCacheSize
	}
	return cfg, nil
}

func transportKind(value string) (service.TransportKind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "stdio", "":
		return service.TransportStdio, nil
	case "http":
		return service.TransportHTTP, nil
	default:
		return "", fmt.Errorf("invalid transport %q: must be 'stdio' or 'http'", value)
	}
}

// Run starts the MCP protocol adapter.
func Run(ctx context.Context, cfg Config) error {
	kind, err := transportKind(cfg.Transport)
	if err != nil {
		return err
	}
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceMCP, func(ctx context.Context) error {
		rt, err := app.Open(ctx, app.RuntimeConfig{HistoryDB: cfg.HistoryDB, PlanCacheSize: cfg.PlanCacheSize})
		if err != nil {
			return err
		}
		defer rt.Close()

		return service.Run(ctx, service.Config{
			Transport:    kind,
			HTTPAddr:     cfg.HTTPAddr,
			AllowedHosts: cfg.AllowedHosts,
			Locale:       cfg.Locale,
		}, rt.Service)
	})
}
