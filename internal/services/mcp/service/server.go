package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	apperrors "github.com/louisbranch/dicemaiden/internal/platform/errors"
	"github.com/louisbranch/dicemaiden/internal/services/mcp/domain"
)

// serverVersion identifies the MCP server version.
const serverVersion = "0.1.0"

// serverName identifies this MCP server to clients.
const serverName = "Dice Maiden MCP"

type mcpRegistrationModule struct {
	name     string
	register func(*mcp.Server)
}

const (
	mcpDiceToolsModuleName       = "dice-tools"
	mcpAliasResourceModuleName   = "alias-resources"
	mcpHistoryResourceModuleName = "history-resources"
)

// newMCPRegistrationModules lists tool and resource groups. History
// resources are only registered when the dice service records rolls.
func newMCPRegistrationModules(dice domain.DiceService, locale string, notify domain.ResourceUpdateNotifier) []mcpRegistrationModule {
	modules := []mcpRegistrationModule{
		{
			name: mcpDiceToolsModuleName,
			register: func(server *mcp.Server) {
				mcp.AddTool(server, domain.RollDiceTool(), domain.RollDiceHandler(dice, locale, notify))
				mcp.AddTool(server, domain.ListAliasesTool(), domain.ListAliasesHandler(dice))
			},
		},
		{
			name: mcpAliasResourceModuleName,
			register: func(server *mcp.Server) {
				server.AddResource(domain.AliasTableResource(), domain.AliasTableResourceHandler(dice))
			},
		},
	}
	if dice.HistoryEnabled() {
		modules = append(modules, mcpRegistrationModule{
			name: mcpHistoryResourceModuleName,
			register: func(server *mcp.Server) {
				server.AddResourceTemplate(domain.RollResourceTemplate(), domain.RollResourceHandler(dice, locale))
				server.AddResource(domain.UsageResource(), domain.UsageResourceHandler(dice, locale))
			},
		})
	}
	return modules
}

// TransportKind identifies the MCP transport implementation.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP runs MCP over streamable HTTP for remote clients.
	TransportHTTP TransportKind = "http"
)

// Config configures the MCP server.
type Config struct {
	Transport TransportKind
	// HTTPAddr defaults to localhost:8081 for HTTP transport.
	HTTPAddr string
	// AllowedHosts extends the loopback hosts accepted by HTTP transport.
	AllowedHosts []string
	// Locale selects the catalog for error messages when a call does not
	// name one.
	Locale string
}

// Server hosts the MCP server.
type Server struct {
	mcpServer *mcp.Server
}

// New creates an MCP server exposing dice tools and resources.
func New(dice domain.DiceService, locale string) (*Server, error) {
	if dice == nil {
		return nil, fmt.Errorf("dice service is required")
	}
	if strings.TrimSpace(locale) == "" {
		locale = apperrors.DefaultLocale
	}

	opts := &mcp.ServerOptions{
		CompletionHandler: completionHandler,
	}
	if dice.HistoryEnabled() {
		opts.SubscribeHandler = resourceSubscribeHandler
		opts.UnsubscribeHandler = resourceUnsubscribeHandler
	}
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, opts)

	var notify domain.ResourceUpdateNotifier
	if dice.HistoryEnabled() {
		notify = func(ctx context.Context, uri string) {
			if err := mcpServer.ResourceUpdated(ctx, &mcp.ResourceUpdatedNotificationParams{URI: uri}); err != nil {
				log.Printf("mcp resource updated notify failed: uri=%s err=%v", uri, err)
			}
		}
	}

	for _, module := range newMCPRegistrationModules(dice, locale, notify) {
		module.register(mcpServer)
	}
	return &Server{mcpServer: mcpServer}, nil
}

// completionHandler returns empty completions; no prompt or template
// argument has a useful completion source.
func completionHandler(context.Context, *mcp.CompleteRequest) (*mcp.CompleteResult, error) {
	return &mcp.CompleteResult{
		Completion: mcp.CompletionResultDetails{
			Values: []string{},
		},
	}, nil
}

// resourceSubscribeHandler accepts resource subscriptions with a valid URI.
func resourceSubscribeHandler(_ context.Context, req *mcp.SubscribeRequest) error {
	if req == nil || req.Params == nil || strings.TrimSpace(req.Params.URI) == "" {
		return fmt.Errorf("resource uri is required")
	}
	return nil
}

// resourceUnsubscribeHandler accepts resource unsubscriptions with a valid URI.
func resourceUnsubscribeHandler(_ context.Context, req *mcp.UnsubscribeRequest) error {
	if req == nil || req.Params == nil || strings.TrimSpace(req.Params.URI) == "" {
		return fmt.Errorf("resource uri is required")
	}
	return nil
}

// Run is the service entrypoint for MCP and blocks until context cancellation.
func Run(ctx context.Context, cfg Config, dice domain.DiceService) error {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}
	switch cfg.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}

	server, err := New(dice, cfg.Locale)
	if err != nil {
		return err
	}
	if cfg.Transport == TransportHTTP {
		return NewHTTPTransport(cfg.HTTPAddr, server.mcpServer, cfg.AllowedHosts).Start(ctx)
	}
	return server.Serve(ctx)
}

// Serve starts the MCP server on stdio and blocks until it stops or the context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// serveWithTransport runs the MCP server over transport. Cancellation is a
// clean stop.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}
