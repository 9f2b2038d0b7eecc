package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/dicemaiden/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/dicemaiden/internal/services/dice/storage"
	"github.com/louisbranch/dicemaiden/internal/services/dice/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists roll history in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite roll store and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(ctx, sqlDB, migrations.FS, "."); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// RecordRoll inserts one roll record.
func (s *Store) RecordRoll(ctx context.Context, record storage.RollRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id := strings.TrimSpace(record.ID)
	if id == "" {
		return fmt.Errorf("roll id is required")
	}
	if strings.TrimSpace(record.Input) == "" {
		return fmt.Errorf("input is required")
	}
	createdAt := record.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	resultJSON := record.ResultJSON
	if resultJSON == nil {
		resultJSON = []byte("{}")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO rolls (
		   id,
		   requester,
		   input,
		   expanded,
		   result_json,
		   total,
		   dice_rolled,
		   alias_family,
		   seed,
		   created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		strings.TrimSpace(record.Requester),
		record.Input,
		record.Expanded,
		resultJSON,
		record.Total,
		record.DiceRolled,
		record.AliasFamily,
		record.Seed,
		toMillis(createdAt),
	)
	if err != nil {
		if isRollUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("record roll: %w", err)
	}
	return nil
}

const rollColumns = `id, requester, input, expanded, result_json, total,
		        dice_rolled, alias_family, seed, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRoll(row scanner) (storage.RollRecord, error) {
	var record storage.RollRecord
	var createdAt int64
	if err := row.Scan(
		&record.ID,
		&record.Requester,
		&record.Input,
		&record.Expanded,
		&record.ResultJSON,
		&record.Total,
		&record.DiceRolled,
		&record.AliasFamily,
		&record.Seed,
		&createdAt,
	); err != nil {
		return storage.RollRecord{}, err
	}
	record.CreatedAt = fromMillis(createdAt)
	return record, nil
}

// GetRoll returns one roll by id.
func (s *Store) GetRoll(ctx context.Context, id string) (storage.RollRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.RollRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.RollRecord{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.RollRecord{}, fmt.Errorf("roll id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT `+rollColumns+`
		   FROM rolls
		  WHERE id = ?`,
		id,
	)
	record, err := scanRoll(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.RollRecord{}, storage.ErrNotFound
		}
		return storage.RollRecord{}, fmt.Errorf("get roll: %w", err)
	}
	return record, nil
}

// ListRolls returns one page of rolls, newest first.
func (s *Store) ListRolls(ctx context.Context, pageSize int, pageToken string) (storage.RollPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.RollPage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.RollPage{}, fmt.Errorf("storage is not configured")
	}
	if pageSize <= 0 {
		return storage.RollPage{}, fmt.Errorf("page size must be greater than zero")
	}
	pageToken = strings.TrimSpace(pageToken)

	var (
		rows *sql.Rows
		err  error
	)
	if pageToken == "" {
		rows, err = s.sqlDB.QueryContext(ctx,
			`SELECT `+rollColumns+`
			   FROM rolls
			  ORDER BY created_at DESC, id DESC
			  LIMIT ?`,
			pageSize+1,
		)
	} else {
		createdAt, id, perr := parsePageToken(pageToken)
		if perr != nil {
			return storage.RollPage{}, perr
		}
		rows, err = s.sqlDB.QueryContext(ctx,
			`SELECT `+rollColumns+`
			   FROM rolls
			  WHERE created_at < ? OR (created_at = ? AND id < ?)
			  ORDER BY created_at DESC, id DESC
			  LIMIT ?`,
			createdAt, createdAt, id,
			pageSize+1,
		)
	}
	if err != nil {
		return storage.RollPage{}, fmt.Errorf("list rolls: %w", err)
	}
	defer rows.Close()

	page := storage.RollPage{Rolls: make([]storage.RollRecord, 0, pageSize)}
	for rows.Next() {
		record, err := scanRoll(rows)
		if err != nil {
			return storage.RollPage{}, fmt.Errorf("list rolls: %w", err)
		}
		page.Rolls = append(page.Rolls, record)
	}
	if err := rows.Err(); err != nil {
		return storage.RollPage{}, fmt.Errorf("list rolls: %w", err)
	}
	if len(page.Rolls) > pageSize {
		last := page.Rolls[pageSize-1]
		page.NextPageToken = pageTokenFor(last)
		page.Rolls = page.Rolls[:pageSize]
	}
	return page, nil
}

// UsageStats aggregates every recorded roll.
func (s *Store) UsageStats(ctx context.Context) (storage.UsageStats, error) {
	if err := ctx.Err(); err != nil {
		return storage.UsageStats{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.UsageStats{}, fmt.Errorf("storage is not configured")
	}

	var stats storage.UsageStats
	if err := s.sqlDB.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(dice_rolled), 0) FROM rolls`,
	).Scan(&stats.Rolls, &stats.DiceRolled); err != nil {
		return storage.UsageStats{}, fmt.Errorf("usage stats: %w", err)
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT alias_family, COUNT(*) AS n
		   FROM rolls
		  WHERE alias_family != ''
		  GROUP BY alias_family
		  ORDER BY n DESC, alias_family ASC`,
	)
	if err != nil {
		return storage.UsageStats{}, fmt.Errorf("usage stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var fc storage.FamilyCount
		if err := rows.Scan(&fc.Family, &fc.Rolls); err != nil {
			return storage.UsageStats{}, fmt.Errorf("usage stats: %w", err)
		}
		stats.Families = append(stats.Families, fc)
	}
	if err := rows.Err(); err != nil {
		return storage.UsageStats{}, fmt.Errorf("usage stats: %w", err)
	}
	return stats, nil
}

// pageTokenFor encodes the keyset position after record as "<millis>:<id>".
func pageTokenFor(record storage.RollRecord) string {
	return strconv.FormatInt(toMillis(record.CreatedAt), 10) + ":" + record.ID
}

func parsePageToken(token string) (int64, string, error) {
	millis, id, ok := strings.Cut(token, ":")
	if !ok || id == "" {
		return 0, "", fmt.Errorf("invalid page token")
	}
	createdAt, err := strconv.ParseInt(millis, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid page token: %w", err)
	}
	return createdAt, id, nil
}

func isRollUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed") &&
		strings.Contains(message, "rolls.id")
}

var _ storage.RollStore = (*Store)(nil)
