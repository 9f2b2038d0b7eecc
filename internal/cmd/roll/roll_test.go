package roll

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/louisbranch/dicemaiden/internal/core/dice/alias"
	"github.com/louisbranch/dicemaiden/internal/platform/config"
	apperrors "github.com/louisbranch/dicemaiden/internal/platform/errors"
	"github.com/louisbranch/dicemaiden/internal/services/dice/app"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DICEMAIDEN_HISTORY_DB",
		"DICEMAIDEN_LOCALE",
		"DICEMAIDEN_PLAN_CACHE_SIZE",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Chdir(t.TempDir())
}

func testConfig() Config {
	return Config{Locale: "en-US", PlanCacheSize: 16}
}

func execute(t *testing.T, cfg Config, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := Execute(context.Background(), cfg, args, &out)
	return out.String(), err
}

func TestParseConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := ParseConfig()
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	want := Config{Locale: "en-US", PlanCacheSize: 1024}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseConfigFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DICEMAIDEN_HISTORY_DB", "rolls.db")
	t.Setenv("DICEMAIDEN_LOCALE", "pt-BR")
	t.Setenv("DICEMAIDEN_PLAN_CACHE_SIZE", "-1")

	cfg, err := ParseConfig()
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	want := Config{HistoryDB: "rolls.db", Locale: "pt-BR", PlanCacheSize: 1024}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestRollPrintsSummary(t *testing.T) {
	out, err := execute(t, testConfig(), "--seed", "42", "(str)", "4d6", "k3")
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	if !strings.HasPrefix(out, "(str) 4d6 k3\n") {
		t.Fatalf("expected labelled source line, got:\n%s", out)
	}
	if !strings.Contains(out, "seed 42") {
		t.Fatalf("expected seed in output, got:\n%s", out)
	}
	if strings.Count(out, "(") < 2 {
		t.Fatalf("expected a dropped die, got:\n%s", out)
	}
}

func TestRollSeedIsReproducible(t *testing.T) {
	first, err := execute(t, testConfig(), "--seed", "7", "3d6 e6; 4cod")
	if err != nil {
		t.Fatalf("first roll: %v", err)
	}
	second, err := execute(t, testConfig(), "--seed", "7", "3d6 e6; 4cod")
	if err != nil {
		t.Fatalf("second roll: %v", err)
	}
	if first != second {
		t.Fatalf("seeded rolls differ:\n%s\n---\n%s", first, second)
	}
}

func TestRollJSON(t *testing.T) {
	out, err := execute(t, testConfig(), "--json", "--seed", "3", "4cod")
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	var resp app.RollResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if resp.ID == "" {
		t.Fatal("expected roll id")
	}
	if resp.Result.Expanded != "4d10 t8 ie10" || resp.Result.Seed != 3 {
		t.Fatalf("unexpected result: %+v", resp.Result)
	}
}

func TestRollLocalizedErrors(t *testing.T) {
	tests := []struct {
		name   string
		locale string
		want   string
	}{
		{name: "english", locale: "en-US", want: "exceeds the limit"},
		{name: "portuguese", locale: "pt-BR", want: "excede o limite"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := execute(t, testConfig(), "--locale", tc.locale, "1000d6")
			if err == nil {
				t.Fatal("expected error")
			}
			var userErr *UserError
			if !errors.As(err, &userErr) {
				t.Fatalf("expected UserError, got %T", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in %q", tc.want, err.Error())
			}
			if !apperrors.IsCode(err, apperrors.CodeDiceLimitExceeded) {
				t.Fatalf("expected limit code, got %s", apperrors.GetCode(err))
			}
		})
	}
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "missing notation", args: nil},
		{name: "unknown flag", args: []string{"--sed", "3", "1d6"}},
		{name: "bad seed", args: []string{"--seed", "x", "1d6"}},
		{name: "aliases args", args: []string{"aliases", "extra"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := execute(t, testConfig(), tc.args...)
			var usage *config.UsageError
			if !errors.As(err, &usage) {
				t.Fatalf("expected usage error, got %T: %v", err, err)
			}
		})
	}
}

func TestAliasesCommand(t *testing.T) {
	out, err := execute(t, testConfig(), "aliases", "--system", "chronicles")
	if err != nil {
		t.Fatalf("aliases: %v", err)
	}
	if !strings.Contains(out, "4d10 t8 ie10") {
		t.Fatalf("expected chronicles expansion, got:\n%s", out)
	}
	if strings.Contains(out, "Wrath & Glory") {
		t.Fatalf("expected filtered table, got:\n%s", out)
	}

	out, err = execute(t, testConfig(), "aliases", "--json")
	if err != nil {
		t.Fatalf("aliases json: %v", err)
	}
	var entries []alias.Entry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected alias entries")
	}
}

func TestHistoryCommand(t *testing.T) {
	cfg := testConfig()
	cfg.HistoryDB = filepath.Join(t.TempDir(), "rolls.db")

	for _, notation := range []string{"1d6", "2d8 + 1"} {
		if _, err := execute(t, cfg, "--requester", "ana", notation); err != nil {
			t.Fatalf("roll %q: %v", notation, err)
		}
	}

	out, err := execute(t, cfg, "history", "--json", "--limit", "1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var page historyPage
	if err := json.Unmarshal([]byte(out), &page); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if len(page.Rolls) != 1 || page.Rolls[0].Requester != "ana" {
		t.Fatalf("unexpected first page: %+v", page)
	}
	if page.NextPageToken == "" {
		t.Fatal("expected next page token")
	}
	first := page.Rolls[0].Input

	out, err = execute(t, cfg, "history", "--page-token", page.NextPageToken)
	if err != nil {
		t.Fatalf("history page 2: %v", err)
	}
	second := "1d6"
	if first == "1d6" {
		second = "2d8 + 1"
	}
	if !strings.Contains(out, second) {
		t.Fatalf("expected %q on second page:\n%s", second, out)
	}
	if strings.Contains(out, "More rolls") {
		t.Fatalf("expected last page:\n%s", out)
	}
}

func TestHistoryDisabled(t *testing.T) {
	_, err := execute(t, testConfig(), "history")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Roll history is not enabled") {
		t.Fatalf("unexpected message: %v", err)
	}
}
