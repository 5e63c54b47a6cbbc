package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"parkboard/internal/db"
	"parkboard/internal/migrate"
)

func newTestRepo(t *testing.T) Repo {
	t.Helper()
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return Repo{DB: conn}
}

func insertCycle(t *testing.T, r Repo, c Cycle) {
	t.Helper()
	ctx := context.Background()
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer tx.Rollback()
	if err := r.InsertCycle(ctx, tx, c); err != nil {
		t.Fatalf("insert cycle: %v", err)
	}
	w := EventWriter{DB: r.DB, Now: func() time.Time { return time.Date(2025, 3, 7, 9, 0, 0, 0, time.UTC) }}
	if err := w.Append(ctx, tx, "cycle.completed", c.ID, EventPayload{"state": c.State}); err != nil {
		t.Fatalf("append event: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}
}

func TestLatestEmpty(t *testing.T) {
	r := newTestRepo(t)
	if _, err := r.Latest(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v want ErrNotFound", err)
	}
}

func TestInsertAndList(t *testing.T) {
	r := newTestRepo(t)
	off := 5
	insertCycle(t, r, Cycle{
		ID: "c1", TS: "2025-03-06T09:00:00Z", UserID: "u1", State: "future",
		Line1: "Sam 03/06 9:00 AM", Line2: "Your Trip Is In", Line3: "1 days", Line4: "woohoo!",
		DayOffset: &off,
	})
	insertCycle(t, r, Cycle{
		ID: "c2", TS: "2025-03-07T09:00:00Z", UserID: "u1", State: "today",
		Line1: "Sam 03/07 9:00 AM", Line2: "Thunder Run", Line3: "60 minutes", Line4: "in Frontierland",
		Slot: "event_1000",
	})

	latest, err := r.Latest(context.Background())
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.ID != "c2" || latest.Slot != "event_1000" {
		t.Fatalf("latest = %+v", latest)
	}
	if latest.DayOffset != nil {
		t.Errorf("day offset should be absent for today cycles")
	}

	items, err := r.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 || items[0].ID != "c2" || items[1].ID != "c1" {
		t.Fatalf("items = %+v", items)
	}
	if items[1].DayOffset == nil || *items[1].DayOffset != 5 {
		t.Errorf("day offset = %+v", items[1].DayOffset)
	}

	limited, err := r.List(context.Background(), 1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("limited list = %+v,%v", limited, err)
	}
}
