package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/dicemaiden/internal/core/dice/alias"
	"github.com/louisbranch/dicemaiden/internal/core/dice/eval"
	"github.com/louisbranch/dicemaiden/internal/core/dice/roller"
	"github.com/louisbranch/dicemaiden/internal/core/dice/segment"
	"github.com/louisbranch/dicemaiden/internal/services/dice/app"
	"github.com/louisbranch/dicemaiden/internal/services/dice/storage"
)

// DiceService is the subset of the dice application service MCP handlers use.
type DiceService interface {
	Roll(ctx context.Context, req app.RollRequest) (app.RollResponse, error)
	Lookup(ctx context.Context, rollID string) (storage.RollRecord, error)
	Usage(ctx context.Context) (storage.UsageStats, error)
	Aliases() []alias.Entry
	HistoryEnabled() bool
}

// RollDiceInput represents the MCP tool input for rolling dice.
type RollDiceInput struct {
	Notation  string `json:"notation" jsonschema:"dice notation, e.g. 4d6 k3, 2d20 kl1 + 5, 4cod or 6 4d6 k3; separate independent rolls with ;"`
	Seed      *int64 `json:"seed,omitempty" jsonschema:"optional seed for a deterministic roll"`
	Requester string `json:"requester,omitempty" jsonschema:"optional name recorded with the roll"`
	Locale    string `json:"locale,omitempty" jsonschema:"optional locale for error messages, e.g. en-US or pt-BR"`
}

// DieResult represents one rolled die.
type DieResult struct {
	Value        int    `json:"value" jsonschema:"value the die contributes"`
	Face         int    `json:"face" jsonschema:"face shown on the die"`
	Sides        int    `json:"sides" jsonschema:"number of sides, 0 for fudge dice"`
	Group        string `json:"group" jsonschema:"die group: base, wild, wrath, stress or bonus"`
	ExplodedFrom int    `json:"exploded_from" jsonschema:"index of the die whose explosion added this one, or -1"`
	Rerolls      []int  `json:"rerolls,omitempty" jsonschema:"faces replaced by rerolls, oldest first"`
	Dropped      bool   `json:"dropped,omitempty" jsonschema:"whether keep/drop removed the die"`
	Success      int    `json:"success,omitempty" jsonschema:"successes the die counts for"`
	Failure      bool   `json:"failure,omitempty" jsonschema:"whether the die counts as a failure"`
	Botch        bool   `json:"botch,omitempty" jsonschema:"whether the die counts as a botch"`
}

// AnnotationResult represents a game-system note on an outcome.
type AnnotationResult struct {
	Kind   string `json:"kind" jsonschema:"annotation kind, e.g. wild_die, glitch, wrath"`
	Value  string `json:"value,omitempty" jsonschema:"short result value"`
	Detail string `json:"detail,omitempty" jsonschema:"human-readable explanation"`
}

// TermResult represents one additional dice term in an expression.
type TermResult struct {
	Notation  string      `json:"notation" jsonschema:"term notation"`
	Mode      string      `json:"mode" jsonschema:"sum or tally"`
	Total     int         `json:"total" jsonschema:"term total"`
	Successes int         `json:"successes,omitempty" jsonschema:"successes counted"`
	Failures  int         `json:"failures,omitempty" jsonschema:"failures counted"`
	Dice      []DieResult `json:"dice" jsonschema:"term dice"`
}

// OutcomeResult represents one evaluated roll.
type OutcomeResult struct {
	Total       int                `json:"total" jsonschema:"final total; for success pools the net successes"`
	Mode        string             `json:"mode" jsonschema:"sum or tally"`
	Successes   int                `json:"successes,omitempty" jsonschema:"successes counted"`
	Failures    int                `json:"failures,omitempty" jsonschema:"failures counted"`
	Botches     int                `json:"botches,omitempty" jsonschema:"botches counted"`
	Dice        []DieResult        `json:"dice" jsonschema:"base dice in display order"`
	Terms       []TermResult       `json:"terms,omitempty" jsonschema:"additional dice terms"`
	Annotations []AnnotationResult `json:"annotations,omitempty" jsonschema:"game-system notes"`
}

// SegmentResult represents one ;-separated roll.
type SegmentResult struct {
	Source   string          `json:"source" jsonschema:"segment notation after alias expansion"`
	Alias    string          `json:"alias,omitempty" jsonschema:"alias rule applied, if any"`
	Label    string          `json:"label,omitempty" jsonschema:"roll label"`
	Comment  string          `json:"comment,omitempty" jsonschema:"roll comment"`
	Flags    []string        `json:"flags,omitempty" jsonschema:"presentation flags: p, s, nr, ul"`
	Repeat   int             `json:"repeat" jsonschema:"number of times the roll was repeated"`
	Total    int             `json:"total" jsonschema:"segment total"`
	Outcomes []OutcomeResult `json:"outcomes" jsonschema:"one outcome per repetition"`
}

// RollDiceResult represents the MCP tool output for rolling dice.
type RollDiceResult struct {
	ID       string          `json:"id" jsonschema:"roll identifier; readable as roll://{id} when history is enabled"`
	Input    string          `json:"input" jsonschema:"notation as given"`
	Expanded string          `json:"expanded" jsonschema:"notation after alias expansion"`
	Seed     int64           `json:"seed" jsonschema:"seed that replays this roll"`
	Segments []SegmentResult `json:"segments" jsonschema:"results per segment"`
}

// ListAliasesInput represents the MCP tool input for listing aliases.
type ListAliasesInput struct {
	System string `json:"system,omitempty" jsonschema:"optional game system filter, case-insensitive substring"`
}

// AliasResult describes one alias rule.
type AliasResult struct {
	Name      string `json:"name" jsonschema:"rule name"`
	System    string `json:"system" jsonschema:"game system"`
	Example   string `json:"example" jsonschema:"example input"`
	Expansion string `json:"expansion" jsonschema:"notation the example expands to"`
}

// ListAliasesResult represents the MCP tool output for listing aliases.
type ListAliasesResult struct {
	Aliases []AliasResult `json:"aliases" jsonschema:"alias rules in match order"`
}

// RollDiceTool defines the MCP tool schema for rolling dice.
func RollDiceTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "roll_dice",
		Description: "Rolls dice from notation, including game-system aliases, roll sets and multiple ;-separated rolls",
	}
}

// ListAliasesTool defines the MCP tool schema for listing aliases.
func ListAliasesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_aliases",
		Description: "Lists the game-system shorthand the roller understands",
	}
}

// RollDiceHandler executes a dice roll.
func RollDiceHandler(svc DiceService, defaultLocale string, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[RollDiceInput, RollDiceResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RollDiceInput) (*mcp.CallToolResult, RollDiceResult, error) {
		if svc == nil {
			return nil, RollDiceResult{}, fmt.Errorf("dice service is not configured")
		}
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, RollDiceResult{}, fmt.Errorf("generate invocation id: %w", err)
		}
		meta := ToolCallMetadata{InvocationID: invocationID}
		locale := strings.TrimSpace(input.Locale)
		if locale == "" {
			locale = defaultLocale
		}

		runCtx, cancel := context.WithTimeout(ctx, serviceCallTimeout)
		defer cancel()

		response, err := svc.Roll(runCtx, app.RollRequest{
			Input:     input.Notation,
			Seed:      input.Seed,
			Requester: input.Requester,
		})
		if err != nil {
			if IsDomainError(err) {
				return ToolErrorResult(err, locale, meta), RollDiceResult{}, nil
			}
			return nil, RollDiceResult{}, fmt.Errorf("roll dice: %w", err)
		}

		if svc.HistoryEnabled() {
			NotifyResourceUpdates(ctx, notify, RollResourceURI(response.ID), UsageResourceURI)
		}
		return CallToolResultWithMetadata(meta), rollDiceResult(response), nil
	}
}

// ListAliasesHandler lists alias rules.
func ListAliasesHandler(svc DiceService) mcp.ToolHandlerFor[ListAliasesInput, ListAliasesResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input ListAliasesInput) (*mcp.CallToolResult, ListAliasesResult, error) {
		if svc == nil {
			return nil, ListAliasesResult{}, fmt.Errorf("dice service is not configured")
		}
		return nil, ListAliasesResult{Aliases: aliasResults(svc.Aliases(), input.System)}, nil
	}
}

func aliasResults(entries []alias.Entry, system string) []AliasResult {
	filter := strings.ToLower(strings.TrimSpace(system))
	out := make([]AliasResult, 0, len(entries))
	for _, e := range entries {
		if filter != "" && !strings.Contains(strings.ToLower(e.System), filter) {
			continue
		}
		out = append(out, AliasResult{Name: e.Name, System: e.System, Example: e.Example, Expansion: e.Expansion})
	}
	return out
}

func rollDiceResult(response app.RollResponse) RollDiceResult {
	res := response.Result
	out := RollDiceResult{
		ID:       response.ID,
		Input:    res.Input,
		Expanded: res.Expanded,
		Seed:     res.Seed,
		Segments: make([]SegmentResult, 0, len(res.Segments)),
	}
	for _, seg := range res.Segments {
		out.Segments = append(out.Segments, segmentResult(seg))
	}
	return out
}

func segmentResult(seg roller.SegmentResult) SegmentResult {
	out := SegmentResult{
		Source:   seg.Source,
		Alias:    seg.Alias,
		Label:    seg.Label,
		Comment:  seg.Comment,
		Flags:    flagNames(seg.Flags),
		Repeat:   seg.Repeat,
		Total:    seg.Total,
		Outcomes: make([]OutcomeResult, 0, len(seg.Outcomes)),
	}
	for _, o := range seg.Outcomes {
		out.Outcomes = append(out.Outcomes, outcomeResult(o))
	}
	return out
}

func outcomeResult(o eval.Outcome) OutcomeResult {
	out := OutcomeResult{
		Total:     o.Total,
		Mode:      string(o.Mode),
		Successes: o.Successes,
		Failures:  o.Failures,
		Botches:   o.Botches,
		Dice:      dieResults(o.Dice),
	}
	for _, term := range o.Terms {
		out.Terms = append(out.Terms, TermResult{
			Notation:  term.Notation,
			Mode:      string(term.Mode),
			Total:     term.Total,
			Successes: term.Successes,
			Failures:  term.Failures,
			Dice:      dieResults(term.Dice),
		})
	}
	for _, a := range o.Annotations {
		out.Annotations = append(out.Annotations, AnnotationResult{Kind: a.Kind, Value: a.Value, Detail: a.Detail})
	}
	return out
}

func dieResults(dice []eval.Die) []DieResult {
	out := make([]DieResult, 0, len(dice))
	for _, d := range dice {
		out = append(out, DieResult{
			Value:        d.Value,
			Face:         d.Face,
			Sides:        d.Sides,
			Group:        string(d.Group),
			ExplodedFrom: d.ExplodedFrom,
			Rerolls:      d.RerolledFrom,
			Dropped:      d.Dropped,
			Success:      d.Success,
			Failure:      d.Failure,
			Botch:        d.Botch,
		})
	}
	return out
}

func flagNames(f segment.Flags) []string {
	var out []string
	if f.Private {
		out = append(out, "p")
	}
	if f.Simple {
		out = append(out, "s")
	}
	if f.NoResults {
		out = append(out, "nr")
	}
	if f.Unsorted {
		out = append(out, "ul")
	}
	return out
}
