package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a requested roll record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a roll with the same id was already recorded.
	ErrAlreadyExists = errors.New("record already exists")
)

// RollRecord stores one evaluated input line.
type RollRecord struct {
	ID        string
	Requester string
	Input     string
	Expanded  string
	// ResultJSON is the JSON encoding of the full roll result.
	ResultJSON  []byte
	Total       int
	DiceRolled  int
	AliasFamily string
	Seed        int64
	CreatedAt   time.Time
}

// RollPage stores one page of roll records, newest first.
type RollPage struct {
	Rolls         []RollRecord
	NextPageToken string
}

// FamilyCount is the number of rolls that used one alias family.
type FamilyCount struct {
	Family string
	Rolls  int
}

// UsageStats aggregates recorded rolls.
type UsageStats struct {
	Rolls      int
	DiceRolled int
	// Families is ordered by roll count, highest first.
	Families []FamilyCount
}

// RollStore persists roll history.
type RollStore interface {
	RecordRoll(ctx context.Context, record RollRecord) error
	GetRoll(ctx context.Context, id string) (RollRecord, error)
	ListRolls(ctx context.Context, pageSize int, pageToken string) (RollPage, error)
	UsageStats(ctx context.Context) (UsageStats, error)
}
