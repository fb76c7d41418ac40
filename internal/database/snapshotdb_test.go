package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/wulab/labsite/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *SnapshotDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func pubs(titles ...string) []model.Publication {
	out := make([]model.Publication, len(titles))
	for i, title := range titles {
		out[i] = model.Publication{Year: "2026", Title: title, Journal: "J"}
	}
	return out
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, FileName)); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
		if db.Path() != filepath.Join(dbDir, FileName) {
			t.Errorf("Path() = %q", db.Path())
		}
	})

	t.Run("CreateIfNotExists=false fails for a missing database", func(t *testing.T) {
		t.Parallel()

		_, err := Open(filepath.Join(t.TempDir(), "missing"), Options{CreateIfNotExists: false})
		if err == nil {
			t.Error("expected error for missing database")
		}
	})

	t.Run("reopens an existing database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		db, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatal(err)
		}
		if _, err := db.SaveSnapshot(context.Background(), &model.Snapshot{Source: "s", Publications: pubs("A")}); err != nil {
			t.Fatal(err)
		}
		_ = db.Close()

		db, err = Open(dir, Options{CreateIfNotExists: false})
		if err != nil {
			t.Fatalf("failed to reopen: %v", err)
		}
		defer db.Close()

		latest, err := db.Latest(context.Background())
		if err != nil || latest == nil {
			t.Fatalf("Latest() = %v, %v", latest, err)
		}
	})
}

func TestSaveSnapshot(t *testing.T) {
	t.Parallel()

	t.Run("first snapshot is stored", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		snap := &model.Snapshot{
			Source:       "0000-0002-7733-2498",
			TakenAt:      time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
			Publications: pubs("A", "B"),
		}

		saved, err := db.SaveSnapshot(context.Background(), snap)
		if err != nil {
			t.Fatalf("SaveSnapshot() error = %v", err)
		}
		if !saved || snap.ID == 0 || snap.Hash == "" {
			t.Errorf("saved=%v id=%d hash=%q", saved, snap.ID, snap.Hash)
		}

		got, err := db.SnapshotByID(context.Background(), snap.ID)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(snap, got); diff != "" {
			t.Errorf("stored snapshot mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("identical records are not stored twice", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		first := &model.Snapshot{Source: "s", Publications: pubs("A")}
		if _, err := db.SaveSnapshot(context.Background(), first); err != nil {
			t.Fatal(err)
		}

		second := &model.Snapshot{Source: "s", Publications: pubs("A")}
		saved, err := db.SaveSnapshot(context.Background(), second)
		if err != nil {
			t.Fatal(err)
		}
		if saved {
			t.Error("identical snapshot should not be saved")
		}
		if second.ID != first.ID {
			t.Errorf("ID = %d, want %d", second.ID, first.ID)
		}

		history, err := db.History(context.Background(), 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(history) != 1 {
			t.Errorf("history length = %d, want 1", len(history))
		}
	})

	t.Run("changed records are stored", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		for _, titles := range [][]string{{"A"}, {"A", "B"}, {"A"}} {
			saved, err := db.SaveSnapshot(context.Background(), &model.Snapshot{Source: "s", Publications: pubs(titles...)})
			if err != nil {
				t.Fatal(err)
			}
			if !saved {
				t.Errorf("snapshot %v should be saved", titles)
			}
		}

		history, err := db.History(context.Background(), 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(history) != 3 {
			t.Fatalf("history length = %d, want 3", len(history))
		}
		if history[0].ID <= history[1].ID {
			t.Error("history should be newest first")
		}
		if history[1].PublicationCount != 2 {
			t.Errorf("PublicationCount = %d, want 2", history[1].PublicationCount)
		}
	})
}

func TestLatestSnapshots(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	empty, err := db.LatestSnapshots(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no snapshots, got %d", len(empty))
	}
	if latest, err := db.Latest(ctx); err != nil || latest != nil {
		t.Errorf("Latest() on empty db = %v, %v", latest, err)
	}

	for _, title := range []string{"one", "two", "three"} {
		if _, err := db.SaveSnapshot(ctx, &model.Snapshot{Source: "s", Publications: pubs(title)}); err != nil {
			t.Fatal(err)
		}
	}

	snaps, err := db.LatestSnapshots(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(snaps) != 2 {
		t.Fatalf("got %d snapshots", len(snaps))
	}
	if snaps[0].Publications[0].Title != "three" || snaps[1].Publications[0].Title != "two" {
		t.Errorf("unexpected order: %q, %q", snaps[0].Publications[0].Title, snaps[1].Publications[0].Title)
	}

	limited, err := db.History(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("History(1) length = %d", len(limited))
	}
}

func TestSnapshotByIDMissing(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	snap, err := db.SnapshotByID(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap != nil {
		t.Errorf("expected nil, got %+v", snap)
	}
}

func TestHashPublications(t *testing.T) {
	t.Parallel()

	a, err := HashPublications(pubs("A", "B"))
	if err != nil {
		t.Fatal(err)
	}
	b, _ := HashPublications(pubs("A", "B"))
	c, _ := HashPublications(pubs("B", "A"))
	empty, _ := HashPublications(nil)
	emptySlice, _ := HashPublications([]model.Publication{})

	if a != b {
		t.Error("equal records should hash equally")
	}
	if a == c {
		t.Error("order should change the hash")
	}
	if empty != emptySlice {
		t.Error("nil and empty should hash equally")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64", len(a))
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	want := time.Date(2026, 3, 1, 10, 0, 0, 123, time.UTC)
	if got := parseTimestamp(want.Format(timestampLayout)); !got.Equal(want) {
		t.Errorf("parseTimestamp() = %v, want %v", got, want)
	}
	if got := parseTimestamp("not a time"); !got.IsZero() {
		t.Errorf("expected zero time, got %v", got)
	}
}
