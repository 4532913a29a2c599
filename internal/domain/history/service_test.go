package history

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/aetheris-lab/aetheris/internal/domain/tool"
	"github.com/aetheris-lab/aetheris/internal/infra/eventbus"
	"github.com/aetheris-lab/aetheris/internal/infra/sqlite"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	// A file-backed DB: with a connection pool, every ":memory:" connection
	// would see its own empty database.
	db, err := sqlite.NewDB(filepath.Join(t.TempDir(), "test.sqlite"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := sqlite.MigrateUp(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestRecordAndList(t *testing.T) {
	t.Parallel()

	s := NewService(newTestDB(t))
	ctx := context.Background()

	first := &Execution{ToolID: "json_formatter", Success: true, DurationMS: 3}
	if err := s.Record(ctx, first); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if first.ID == "" {
		t.Fatal("Record must assign an id")
	}

	second := &Execution{ToolID: "unit_converter", CacheHit: true, Success: true, CreatedAt: time.Now().UTC().Add(time.Second)}
	if err := s.Record(ctx, second); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}

	executions, total, err := s.List(ctx, 10, 0)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if total != 2 || len(executions) != 2 {
		t.Fatalf("total = %d, rows = %d", total, len(executions))
	}
	if executions[0].ToolID != "unit_converter" {
		t.Fatalf("expected newest first, got %+v", executions)
	}
	if !executions[0].CacheHit || executions[1].DurationMS != 3 {
		t.Fatalf("rows = %+v", executions)
	}
}

func TestList_Paging(t *testing.T) {
	t.Parallel()

	s := NewService(newTestDB(t))
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		err := s.Record(ctx, &Execution{
			ToolID:    "base_converter",
			Success:   true,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("Record returned error: %v", err)
		}
	}

	page, total, err := s.List(ctx, 2, 2)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if total != 5 || len(page) != 2 {
		t.Fatalf("total = %d, rows = %d", total, len(page))
	}
}

func TestList_Empty(t *testing.T) {
	t.Parallel()

	s := NewService(newTestDB(t))
	executions, total, err := s.List(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if total != 0 || len(executions) != 0 {
		t.Fatalf("total = %d, rows = %d", total, len(executions))
	}
}

func TestRecorder_PersistsEvents(t *testing.T) {
	t.Parallel()

	s := NewService(newTestDB(t))
	bus := eventbus.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := NewRecorder(s, bus)
	rec.Start(ctx)

	bus.Publish(tool.TopicToolExecuted, tool.Execution{
		Tool:     "json_formatter",
		Success:  true,
		Duration: 42 * time.Millisecond,
	})
	bus.Publish(tool.TopicToolExecuted, tool.Execution{
		Tool:  "unit_converter",
		Error: "bad unit",
	})

	deadline := time.After(2 * time.Second)
	for {
		_, total, err := s.List(context.Background(), 10, 0)
		if err != nil {
			t.Fatalf("List returned error: %v", err)
		}
		if total == 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("recorder persisted %d rows, want 2", total)
		case <-time.After(10 * time.Millisecond):
		}
	}

	executions, _, err := s.List(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	byTool := map[string]Execution{}
	for _, e := range executions {
		byTool[e.ToolID] = e
	}
	if e := byTool["json_formatter"]; !e.Success || e.DurationMS != 42 {
		t.Fatalf("json_formatter row = %+v", e)
	}
	if e := byTool["unit_converter"]; e.Success || e.Error != "bad unit" {
		t.Fatalf("unit_converter row = %+v", e)
	}

	cancel()
	rec.Wait()
}
