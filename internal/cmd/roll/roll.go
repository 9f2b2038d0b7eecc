// Package roll implements the roll command line: it rolls notation given as
// arguments and prints a plain-text summary or the JSON result.
package roll

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/louisbranch/dicemaiden/internal/core/dice/roller"
	platformcmd "github.com/louisbranch/dicemaiden/internal/platform/cmd"
	"github.com/louisbranch/dicemaiden/internal/platform/config"
	apperrors "github.com/louisbranch/dicemaiden/internal/platform/errors"
	"github.com/louisbranch/dicemaiden/internal/platform/i18n/catalog"
	"github.com/louisbranch/dicemaiden/internal/services/dice/app"
	"github.com/louisbranch/dicemaiden/internal/services/dice/storage"
)

// Config holds roll command defaults read from the environment.
type Config struct {
	HistoryDB     string `env:"HISTORY_DB"`
	Locale        string `env:"LOCALE"          envDefault:"en-US"`
	PlanCacheSize int    `env:"PLAN_CACHE_SIZE" envDefault:"1024"`
}

// ParseConfig loads environment defaults. Command flags override them.
func ParseConfig() (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.PlanCacheSize <= 0 {
		cfg.PlanCacheSize = roller.DefaultCacheSize
	}
	return cfg, nil
}

// UserError carries a message already localized for the user.
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string { return e.Message }

func (e *UserError) Unwrap() error { return e.Err }

type options struct {
	cfg       Config
	seed      int64
	json      bool
	requester string
	system    string
	limit     int
	pageToken string
}

// NewCommand builds the roll command tree.
func NewCommand(cfg Config) *cobra.Command {
	opts := &options{cfg: cfg}

	root := &cobra.Command{
		Use:   "roll [notation...]",
		Short: "Roll dice from notation",
		Long: "Roll dice from notation such as \"4d6 k3\", \"2d20 kl1 + 5\", \"4cod\" or \"6 4d6 k3\".\n" +
			"Separate independent rolls with \";\".",
		Example:       "  roll 4d6 k3\n  roll \"(attack) 1d20 + 5 ! sword; 2d6 + 3\"\n  roll --seed 42 --json sr6",
		Args:          usageArgs(cobra.MinimumNArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var seed *int64
			if cmd.Flags().Changed("seed") {
				seed = &opts.seed
			}
			return runRoll(cmd.Context(), cmd.OutOrStdout(), opts, strings.Join(args, " "), seed)
		},
	}
	// Notation such as "1d20 -2" must not be read as flags.
	root.Flags().SetInterspersed(false)
	root.PersistentFlags().StringVar(&opts.cfg.Locale, "locale", cfg.Locale, "Locale for output and errors, e.g. en-US or pt-BR")
	root.PersistentFlags().StringVar(&opts.cfg.HistoryDB, "history", cfg.HistoryDB, "SQLite roll history path; empty disables history")
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "Print JSON instead of text")
	root.Flags().Int64Var(&opts.seed, "seed", 0, "Seed for a reproducible roll")
	root.Flags().StringVar(&opts.requester, "requester", "", "Name recorded with the roll in history")

	aliases := &cobra.Command{
		Use:   "aliases",
		Short: "List game-system shorthand",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAliases(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	aliases.Flags().StringVar(&opts.system, "system", "", "Only list aliases whose system contains this text")

	history := &cobra.Command{
		Use:   "history",
		Short: "List recorded rolls, newest first",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	history.Flags().IntVar(&opts.limit, "limit", 20, "Number of rolls per page")
	history.Flags().StringVar(&opts.pageToken, "page-token", "", "Token of the page to list")

	root.AddCommand(aliases, history)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &config.UsageError{Err: err}
	})
	return root
}

// usageArgs marks argument validation failures as usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return &config.UsageError{Err: err}
		}
		return nil
	}
}

// Execute runs the command tree against args.
func Execute(ctx context.Context, cfg Config, args []string, out io.Writer) error {
	root := NewCommand(cfg)
	root.SetArgs(args)
	root.SetOut(out)
	return root.ExecuteContext(ctx)
}

// Run executes the command tree with telemetry configured for the roll
// service.
func Run(ctx context.Context, cfg Config, args []string, out io.Writer) error {
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceRoll, func(ctx context.Context) error {
		return Execute(ctx, cfg, args, out)
	})
}

func openRuntime(ctx context.Context, opts *options) (*app.Runtime, error) {
	return app.Open(ctx, app.RuntimeConfig{
		HistoryDB:     opts.cfg.HistoryDB,
		PlanCacheSize: opts.cfg.PlanCacheSize,
	})
}

func runRoll(ctx context.Context, out io.Writer, opts *options, input string, seed *int64) error {
	rt, err := openRuntime(ctx, opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	resp, err := rt.Service.Roll(ctx, app.RollRequest{Input: input, Seed: seed, Requester: opts.requester})
	if err != nil {
		return localize(err, opts.cfg.Locale)
	}
	if opts.json {
		return writeJSON(out, resp)
	}
	return RenderText(out, resp.Result, opts.cfg.Locale)
}

func runAliases(ctx context.Context, out io.Writer, opts *options) error {
	rt, err := openRuntime(ctx, opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	entries := rt.Service.Aliases()
	filter := strings.ToLower(strings.TrimSpace(opts.system))
	if filter != "" {
		kept := entries[:0]
		for _, e := range entries {
			if strings.Contains(strings.ToLower(e.System), filter) {
				kept = append(kept, e)
			}
		}
		entries = kept
	}
	if opts.json {
		return writeJSON(out, entries)
	}

	p := catalog.Default().Printer(opts.cfg.Locale)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, p.Sprintf("roll.aliases.header"))
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.System, e.Name, e.Example, e.Expansion)
	}
	return tw.Flush()
}

func runHistory(ctx context.Context, out io.Writer, opts *options) error {
	rt, err := openRuntime(ctx, opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	page, err := rt.Service.History(ctx, opts.limit, opts.pageToken)
	if err != nil {
		return localize(err, opts.cfg.Locale)
	}
	if opts.json {
		return writeJSON(out, historyJSON(page))
	}

	p := catalog.Default().Printer(opts.cfg.Locale)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, p.Sprintf("roll.history.header"))
	for _, r := range page.Rolls {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\n",
			r.ID, r.CreatedAt.Local().Format(time.DateTime), r.Requester, r.Input, r.Total, r.Seed)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if page.NextPageToken != "" {
		fmt.Fprintf(out, "\n%s\n", p.Sprintf("roll.history.more", page.NextPageToken))
	}
	return nil
}

type historyRow struct {
	ID        string    `json:"id"`
	Requester string    `json:"requester,omitempty"`
	Input     string    `json:"input"`
	Expanded  string    `json:"expanded"`
	Total     int       `json:"total"`
	Seed      int64     `json:"seed"`
	CreatedAt time.Time `json:"created_at"`
}

type historyPage struct {
	Rolls         []historyRow `json:"rolls"`
	NextPageToken string       `json:"next_page_token,omitempty"`
}

func historyJSON(page storage.RollPage) historyPage {
	out := historyPage{Rolls: make([]historyRow, 0, len(page.Rolls)), NextPageToken: page.NextPageToken}
	for _, r := range page.Rolls {
		out.Rolls = append(out.Rolls, historyRow{
			ID:        r.ID,
			Requester: r.Requester,
			Input:     r.Input,
			Expanded:  r.Expanded,
			Total:     r.Total,
			Seed:      r.Seed,
			CreatedAt: r.CreatedAt,
		})
	}
	return out
}

// localize turns dice errors into a UserError with the catalog message for
// locale. Other errors pass through unchanged.
func localize(err error, locale string) error {
	if apperrors.GetCode(err) == apperrors.CodeUnknown {
		return err
	}
	var userErr *UserError
	if errors.As(err, &userErr) {
		return err
	}
	return &UserError{Message: apperrors.LocalizedMessage(err, locale), Err: err}
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
