// Package app composes the dice roller with roll history, tracing and id
// generation. Transports (MCP, CLI) call into Service.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/dicemaiden/internal/core/dice/alias"
	"github.com/louisbranch/dicemaiden/internal/core/dice/roller"
	apperrors "github.com/louisbranch/dicemaiden/internal/platform/errors"
	"github.com/louisbranch/dicemaiden/internal/platform/id"
	"github.com/louisbranch/dicemaiden/internal/platform/otel"
	"github.com/louisbranch/dicemaiden/internal/platform/pagination"
	"github.com/louisbranch/dicemaiden/internal/platform/timeouts"
	"github.com/louisbranch/dicemaiden/internal/random"
	"github.com/louisbranch/dicemaiden/internal/services/dice/storage"
)

const tracerScope = "github.com/louisbranch/dicemaiden/internal/services/dice/app"

var historyPageSize = pagination.PageSizeConfig{Default: 20, Max: 100}

// ErrHistoryDisabled is returned by history operations when no store is set.
var ErrHistoryDisabled = apperrors.New(apperrors.CodeHistoryDisabled, "roll history is not configured")

// RollRequest asks for one input line to be rolled.
type RollRequest struct {
	Input string
	// Seed pins the random source; nil draws a fresh seed.
	Seed      *int64
	Requester string
}

// RollResponse is a rolled input line and the id it was recorded under.
type RollResponse struct {
	ID     string        `json:"id"`
	Result roller.Result `json:"result"`
}

// Service exposes dice operations to transports.
type Service struct {
	roller *roller.Roller
	store  storage.RollStore
	tracer trace.Tracer
	clock  func() time.Time
	newID  func() (string, error)
}

// Option configures a Service.
type Option func(*Service)

// WithStore enables roll history.
func WithStore(store storage.RollStore) Option {
	return func(s *Service) { s.store = store }
}

// WithTracer overrides the tracer used for roll spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) { s.tracer = tracer }
}

// WithClock overrides the clock used for record timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// WithIDGenerator overrides roll id generation.
func WithIDGenerator(newID func() (string, error)) Option {
	return func(s *Service) { s.newID = newID }
}

// NewService creates a dice service around r.
func NewService(r *roller.Roller, opts ...Option) *Service {
	s := &Service{
		roller: r,
		tracer: otel.Tracer(tracerScope),
		clock:  time.Now,
		newID:  id.NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HistoryEnabled reports whether rolls are recorded.
func (s *Service) HistoryEnabled() bool {
	return s.store != nil
}

// Roll evaluates req.Input. Every roll is seeded so a recorded roll can be
// replayed; failing to record is logged and does not fail the roll.
func (s *Service) Roll(ctx context.Context, req RollRequest) (RollResponse, error) {
	ctx, span := s.tracer.Start(ctx, "dice.roll",
		trace.WithAttributes(attribute.String("dice.input", req.Input)))
	defer span.End()

	if err := ctx.Err(); err != nil {
		return RollResponse{}, err
	}
	seed, err := random.ResolveSeed(req.Seed)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "seed")
		return RollResponse{}, err
	}
	res, err := s.roller.RollSeed(req.Input, seed)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("dice.error_code", string(apperrors.GetCode(err))))
		span.SetStatus(codes.Error, err.Error())
		return RollResponse{}, err
	}
	span.SetAttributes(attribute.Int("dice.segments", len(res.Segments)))

	rollID, err := s.newID()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "id")
		return RollResponse{}, err
	}
	if s.store != nil {
		if err := s.record(ctx, rollID, req.Requester, res); err != nil {
			span.RecordError(err)
			log.Printf("record roll failed: id=%s input=%q err=%v", rollID, req.Input, err)
		}
	}
	return RollResponse{ID: rollID, Result: res}, nil
}

func (s *Service) record(ctx context.Context, rollID, requester string, res roller.Result) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode roll result: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.Storage)
	defer cancel()
	return s.store.RecordRoll(ctx, storage.RollRecord{
		ID:          rollID,
		Requester:   strings.TrimSpace(requester),
		Input:       res.Input,
		Expanded:    res.Expanded,
		ResultJSON:  payload,
		Total:       Total(res),
		DiceRolled:  DiceRolled(res),
		AliasFamily: AliasFamily(res),
		Seed:        res.Seed,
		CreatedAt:   s.clock().UTC(),
	})
}

// History lists recorded rolls, newest first.
func (s *Service) History(ctx context.Context, pageSize int, pageToken string) (storage.RollPage, error) {
	if s.store == nil {
		return storage.RollPage{}, ErrHistoryDisabled
	}
	return s.store.ListRolls(ctx, pagination.ClampPageSize(pageSize, historyPageSize), pageToken)
}

// Lookup returns one recorded roll.
func (s *Service) Lookup(ctx context.Context, rollID string) (storage.RollRecord, error) {
	if s.store == nil {
		return storage.RollRecord{}, ErrHistoryDisabled
	}
	record, err := s.store.GetRoll(ctx, rollID)
	if errors.Is(err, storage.ErrNotFound) {
		return storage.RollRecord{}, apperrors.WrapWithMetadata(apperrors.CodeNotFound,
			fmt.Sprintf("roll %s not found", rollID),
			map[string]string{"Resource": "Roll"}, err)
	}
	return record, err
}

// Usage returns aggregate statistics over recorded rolls.
func (s *Service) Usage(ctx context.Context) (storage.UsageStats, error) {
	if s.store == nil {
		return storage.UsageStats{}, ErrHistoryDisabled
	}
	return s.store.UsageStats(ctx)
}

// Aliases lists the alias table in match order.
func (s *Service) Aliases() []alias.Entry {
	return s.roller.Table().Entries()
}

// Total sums every segment total of res.
func Total(res roller.Result) int {
	total := 0
	for _, seg := range res.Segments {
		total += seg.Total
	}
	return total
}

// DiceRolled counts every die rolled for res, including explosions and
// additional dice terms.
func DiceRolled(res roller.Result) int {
	n := 0
	for _, seg := range res.Segments {
		for _, out := range seg.Outcomes {
			n += len(out.Dice)
			for _, term := range out.Terms {
				n += len(term.Dice)
			}
		}
	}
	return n
}

// AliasFamily names the first alias rule used by res, or "".
func AliasFamily(res roller.Result) string {
	for _, seg := range res.Segments {
		if seg.Alias != "" {
			return seg.Alias
		}
	}
	return ""
}
