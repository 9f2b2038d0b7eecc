package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	apperrors "github.com/louisbranch/dicemaiden/internal/platform/errors"
)

const (
	// AliasTableResourceURI addresses the alias table resource.
	AliasTableResourceURI = "aliases://table"
	// UsageResourceURI addresses the usage statistics resource.
	UsageResourceURI = "stats://usage"

	rollURIPrefix = "roll://"
)

// RollResourceURI returns the resource URI of a recorded roll.
func RollResourceURI(rollID string) string {
	return rollURIPrefix + rollID
}

// AliasTablePayload represents the alias table resource.
type AliasTablePayload struct {
	Aliases []AliasResult `json:"aliases"`
}

// RollRecordPayload represents a recorded roll resource.
type RollRecordPayload struct {
	ID          string          `json:"id"`
	Requester   string          `json:"requester,omitempty"`
	Input       string          `json:"input"`
	Expanded    string          `json:"expanded"`
	Total       int             `json:"total"`
	DiceRolled  int             `json:"dice_rolled"`
	AliasFamily string          `json:"alias_family,omitempty"`
	Seed        int64           `json:"seed"`
	CreatedAt   string          `json:"created_at"`
	Result      json.RawMessage `json:"result"`
}

// UsageFamily is one alias family row of the usage resource.
type UsageFamily struct {
	Family string `json:"family"`
	Rolls  int    `json:"rolls"`
}

// UsagePayload represents the usage statistics resource.
type UsagePayload struct {
	Rolls      int           `json:"rolls"`
	DiceRolled int           `json:"dice_rolled"`
	Families   []UsageFamily `json:"families"`
}

// AliasTableResource defines the MCP resource for the alias table.
func AliasTableResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "alias_table",
		Title:       "Alias Table",
		Description: "Game-system shorthand rules with an example and its expansion, in match order",
		MIMEType:    "application/json",
		URI:         AliasTableResourceURI,
	}
}

// RollResourceTemplate defines the MCP resource template for recorded rolls.
func RollResourceTemplate() *mcp.ResourceTemplate {
	return &mcp.ResourceTemplate{
		Name:        "roll",
		Title:       "Recorded Roll",
		Description: "A roll from history with its full result. URI format: roll://{id}",
		MIMEType:    "application/json",
		URITemplate: "roll://{id}",
	}
}

// UsageResource defines the MCP resource for usage statistics.
func UsageResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "usage_stats",
		Title:       "Usage Statistics",
		Description: "Rolls recorded, dice rolled and rolls per alias family",
		MIMEType:    "application/json",
		URI:         UsageResourceURI,
	}
}

// AliasTableResourceHandler returns a readable alias table resource.
func AliasTableResourceHandler(svc DiceService) mcp.ResourceHandler {
	return func(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if svc == nil {
			return nil, fmt.Errorf("dice service is not configured")
		}
		uri := resourceURI(req, AliasTableResourceURI)
		if uri != AliasTableResourceURI {
			return nil, fmt.Errorf("invalid URI: expected %s, got %q", AliasTableResourceURI, uri)
		}
		return jsonResource(uri, AliasTablePayload{Aliases: aliasResults(svc.Aliases(), "")}, "alias table")
	}
}

// RollResourceHandler returns a readable recorded roll resource.
func RollResourceHandler(svc DiceService, locale string) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if svc == nil {
			return nil, fmt.Errorf("dice service is not configured")
		}
		if req == nil || req.Params == nil || req.Params.URI == "" {
			return nil, fmt.Errorf("roll ID is required; use URI format roll://{id}")
		}
		uri := req.Params.URI
		rollID, err := parseRollIDFromURI(uri)
		if err != nil {
			return nil, fmt.Errorf("parse roll ID from URI: %w", err)
		}

		runCtx, cancel := context.WithTimeout(ctx, serviceCallTimeout)
		defer cancel()

		record, err := svc.Lookup(runCtx, rollID)
		if apperrors.IsCode(err, apperrors.CodeNotFound) {
			return nil, mcp.ResourceNotFoundError(uri)
		}
		if err != nil {
			return nil, resourceError(err, locale)
		}
		payload := RollRecordPayload{
			ID:          record.ID,
			Requester:   record.Requester,
			Input:       record.Input,
			Expanded:    record.Expanded,
			Total:       record.Total,
			DiceRolled:  record.DiceRolled,
			AliasFamily: record.AliasFamily,
			Seed:        record.Seed,
			CreatedAt:   record.CreatedAt.UTC().Format(time.RFC3339),
			Result:      json.RawMessage(record.ResultJSON),
		}
		if len(payload.Result) == 0 {
			payload.Result = json.RawMessage("null")
		}
		return jsonResource(uri, payload, "roll")
	}
}

// UsageResourceHandler returns a readable usage statistics resource.
func UsageResourceHandler(svc DiceService, locale string) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if svc == nil {
			return nil, fmt.Errorf("dice service is not configured")
		}
		uri := resourceURI(req, UsageResourceURI)
		if uri != UsageResourceURI {
			return nil, fmt.Errorf("invalid URI: expected %s, got %q", UsageResourceURI, uri)
		}

		runCtx, cancel := context.WithTimeout(ctx, serviceCallTimeout)
		defer cancel()

		stats, err := svc.Usage(runCtx)
		if err != nil {
			return nil, resourceError(err, locale)
		}
		payload := UsagePayload{
			Rolls:      stats.Rolls,
			DiceRolled: stats.DiceRolled,
			Families:   make([]UsageFamily, 0, len(stats.Families)),
		}
		for _, f := range stats.Families {
			payload.Families = append(payload.Families, UsageFamily{Family: f.Family, Rolls: f.Rolls})
		}
		return jsonResource(uri, payload, "usage stats")
	}
}

// parseRollIDFromURI extracts the roll ID from a URI of the form roll://{id}.
func parseRollIDFromURI(uri string) (string, error) {
	if !strings.HasPrefix(uri, rollURIPrefix) {
		return "", fmt.Errorf("URI must start with %q", rollURIPrefix)
	}
	rollID := strings.TrimSpace(strings.TrimPrefix(uri, rollURIPrefix))
	if rollID == "" {
		return "", fmt.Errorf("roll ID is required in URI")
	}
	if strings.Contains(rollID, "/") {
		return "", fmt.Errorf("roll ID must not contain '/'")
	}
	return rollID, nil
}

func resourceURI(req *mcp.ReadResourceRequest, fallback string) string {
	if req != nil && req.Params != nil && req.Params.URI != "" {
		return req.Params.URI
	}
	return fallback
}

// resourceError localizes domain errors; resource reads have no IsError flag.
func resourceError(err error, locale string) error {
	if IsDomainError(err) {
		return fmt.Errorf("%s: %w", apperrors.LocalizedMessage(err, locale), err)
	}
	return err
}

func jsonResource(uri string, payload any, what string) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", what, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		},
	}, nil
}
