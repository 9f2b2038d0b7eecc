// Package roller drives alias expansion, parsing and evaluation for a whole
// input line: roll sets, multi-roll segments and their results.
package roller

import (
	"fmt"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/louisbranch/dicemaiden/internal/core/dice"
	"github.com/louisbranch/dicemaiden/internal/core/dice/alias"
	"github.com/louisbranch/dicemaiden/internal/core/dice/eval"
	"github.com/louisbranch/dicemaiden/internal/core/dice/notation"
	"github.com/louisbranch/dicemaiden/internal/core/dice/segment"
	apperrors "github.com/louisbranch/dicemaiden/internal/platform/errors"
	"github.com/louisbranch/dicemaiden/internal/random"
)

// DefaultCacheSize is the number of parsed plans kept by default.
const DefaultCacheSize = 1024

// SegmentResult holds every outcome of one ";"-separated segment.
type SegmentResult struct {
	Index    int            `json:"index"`
	Source   string         `json:"source"`
	Alias    string         `json:"alias,omitempty"`
	Label    string         `json:"label,omitempty"`
	Comment  string         `json:"comment,omitempty"`
	Flags    segment.Flags  `json:"flags"`
	Repeat   int            `json:"repeat"`
	Outcomes []eval.Outcome `json:"outcomes"`
	// Total sums the outcomes' totals; for roll sets it is the set total.
	Total int `json:"total"`
}

// Result is an evaluated input line.
type Result struct {
	Input    string          `json:"input"`
	Expanded string          `json:"expanded"`
	Seed     int64           `json:"seed,omitempty"`
	Segments []SegmentResult `json:"segments"`
}

// Plan is a parsed input line, safe to evaluate any number of times.
type Plan struct {
	Input    string
	Expanded string
	Aliases  []string
	Segments []notation.Segment
}

// Roller evaluates dice input. It is safe for concurrent use when its source
// is.
type Roller struct {
	table     *alias.Table
	src       dice.Source
	cacheSize int
	plans     *lru.Cache[string, Plan]
}

// Option configures a Roller.
type Option func(*Roller)

// WithTable replaces the default alias table.
func WithTable(t *alias.Table) Option {
	return func(r *Roller) { r.table = t }
}

// WithSource sets the random source used by Roll.
func WithSource(src dice.Source) Option {
	return func(r *Roller) { r.src = src }
}

// WithCacheSize sets how many parsed plans are cached.
func WithCacheSize(n int) Option {
	return func(r *Roller) { r.cacheSize = n }
}

// New builds a Roller. Without WithSource it seeds a source from crypto/rand.
func New(opts ...Option) (*Roller, error) {
	r := &Roller{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(r)
	}
	if r.table == nil {
		r.table = alias.DefaultTable()
	}
	if r.src == nil {
		seed, err := random.NewSeed()
		if err != nil {
			return nil, fmt.Errorf("seed dice source: %w", err)
		}
		r.src = dice.NewSource(seed)
	}
	cache, err := lru.New[string, Plan](r.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create plan cache: %w", err)
	}
	r.plans = cache
	return r, nil
}

// Table returns the alias table used for expansion.
func (r *Roller) Table() *alias.Table {
	return r.table
}

// Roll evaluates input with the roller's source.
func (r *Roller) Roll(input string) (Result, error) {
	return r.roll(input, r.src)
}

// RollSeed evaluates input with a fresh source built from seed, so the same
// input and seed always produce the same result.
func (r *Roller) RollSeed(input string, seed int64) (Result, error) {
	res, err := r.roll(input, dice.NewSource(seed))
	if err != nil {
		return Result{}, err
	}
	res.Seed = seed
	return res, nil
}

// Plan expands and parses input, reusing a cached plan when possible.
func (r *Roller) Plan(input string) (Plan, error) {
	input = strings.TrimSpace(input)
	if len(input) > notation.MaxInputLength {
		return Plan{}, apperrors.WithMetadata(apperrors.CodeDiceLimitExceeded, "input too long",
			map[string]string{
				apperrors.MetaToken: "input length",
				apperrors.MetaLimit: strconv.Itoa(notation.MaxInputLength),
			})
	}
	if plan, ok := r.plans.Get(input); ok {
		return plan, nil
	}

	expanded, aliases, err := r.table.ExpandRules(input)
	if err != nil {
		return Plan{}, err
	}
	segments, err := notation.Parse(expanded)
	if err != nil {
		return Plan{}, err
	}
	plan := Plan{Input: input, Expanded: expanded, Aliases: aliases, Segments: segments}
	r.plans.Add(input, plan)
	return plan, nil
}

func (r *Roller) roll(input string, src dice.Source) (Result, error) {
	plan, err := r.Plan(input)
	if err != nil {
		return Result{}, err
	}

	res := Result{Input: plan.Input, Expanded: plan.Expanded}
	for _, seg := range plan.Segments {
		sr := SegmentResult{
			Index:   seg.Index,
			Source:  seg.Source,
			Label:   seg.Spec.Label,
			Comment: seg.Spec.Comment,
			Flags:   seg.Spec.Flags,
			Repeat:  seg.Repeat,
		}
		if seg.Index < len(plan.Aliases) {
			sr.Alias = plan.Aliases[seg.Index]
		}
		for i := 0; i < seg.Repeat; i++ {
			out, err := eval.Evaluate(seg.Spec, src)
			if err != nil {
				return Result{}, apperrors.InSegment(err, seg.Index+1)
			}
			if seg.Repeat > 1 {
				out.Label = setLabel(seg.Spec, i+1)
			}
			sr.Outcomes = append(sr.Outcomes, out)
			sr.Total += out.Total
		}
		res.Segments = append(res.Segments, sr)
	}
	return res, nil
}

// setLabel names the i-th roll of a set.
func setLabel(spec notation.Spec, i int) string {
	if spec.HasLabel && spec.Label != "" {
		return spec.Label + " " + strconv.Itoa(i)
	}
	return "Set " + strconv.Itoa(i)
}
