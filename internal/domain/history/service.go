// Package history persists tool execution records. Rows are append-only:
// there are no updates or deletes, only inserts and newest-first reads.
package history

import (
	"context"
	"database/sql"
	"time"

	"github.com/aetheris-lab/aetheris/pkg/uuid"
)

// Execution is one recorded tool run.
type Execution struct {
	ID         string    `json:"id"`
	ToolID     string    `json:"tool_id"`
	CacheHit   bool      `json:"cache_hit"`
	Success    bool      `json:"success"`
	DurationMS int64     `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Service reads and writes the tool_execution table.
type Service struct {
	db *sql.DB
}

// NewService creates a history service over an open database.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Record inserts one execution row. A zero ID or CreatedAt is filled in.
func (s *Service) Record(ctx context.Context, e *Execution) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tool_execution (id, tool_id, cache_hit, success, duration_ms, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.ToolID, boolToInt(e.CacheHit), boolToInt(e.Success), e.DurationMS, e.Error,
		e.CreatedAt.Format(time.RFC3339Nano))
	return err
}

// List returns executions newest first, plus the total row count for paging.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Execution, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tool_execution").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tool_id, cache_hit, success, duration_ms, error, created_at
		FROM tool_execution
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	executions := make([]Execution, 0, limit)
	for rows.Next() {
		var (
			e         Execution
			cacheHit  int
			success   int
			createdAt string
		)
		if err := rows.Scan(&e.ID, &e.ToolID, &cacheHit, &success, &e.DurationMS, &e.Error, &createdAt); err != nil {
			return nil, 0, err
		}
		e.CacheHit = cacheHit != 0
		e.Success = success != 0
		if ts, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
			e.CreatedAt = ts
		}
		executions = append(executions, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return executions, total, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
