package database

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhishek-geeks/organize-cli/internal"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewDatabase() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewDatabase(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "nested", "history.db")

	db, err := NewDatabase(dbPath)
	if err != nil {
		t.Fatalf("NewDatabase() error = %v", err)
	}
	defer db.Close()

	if db.db == nil {
		t.Error("Expected database connection")
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Expected database file to be created")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	got, err := ExpandPath("~/.organize-cli/history.db")
	if err != nil {
		t.Fatalf("ExpandPath() error = %v", err)
	}
	if got != filepath.Join(home, ".organize-cli", "history.db") {
		t.Errorf("ExpandPath() = %s", got)
	}

	got, err = ExpandPath("/abs/history.db")
	if err != nil || got != "/abs/history.db" {
		t.Errorf("ExpandPath() = %s, %v", got, err)
	}
}

func TestDatabase_RecordRun(t *testing.T) {
	db := newTestDatabase(t)

	run := &Run{
		Folder:     "/data",
		Kind:       string(internal.KindOrganize),
		StartedAt:  time.Now().Add(-time.Second),
		FinishedAt: time.Now(),
		Discovered: 3,
		Moved:      2,
		Duplicates: 1,
		FreedBytes: 1024,
		Moves: []MoveEntry{
			{From: "/data/a.mp3", To: "/data/Audio/a.mp3"},
			{From: "/data/b.pdf", To: "/data/Documents/b.pdf"},
		},
	}

	if err := db.RecordRun(run); err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}
	if run.ID == "" {
		t.Fatal("Expected generated run ID")
	}

	loaded, err := db.GetRun(run.ID)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if loaded.Folder != "/data" || loaded.Moved != 2 || loaded.FreedBytes != 1024 {
		t.Errorf("Unexpected run: %+v", loaded)
	}
	if len(loaded.Moves) != 2 {
		t.Fatalf("Expected 2 moves, got %d", len(loaded.Moves))
	}
	if loaded.Moves[0].Seq != 1 || loaded.Moves[0].From != "/data/a.mp3" {
		t.Errorf("Unexpected first move: %+v", loaded.Moves[0])
	}
	if loaded.Moves[1].Seq != 2 || loaded.Moves[1].To != "/data/Documents/b.pdf" {
		t.Errorf("Unexpected second move: %+v", loaded.Moves[1])
	}
}

func TestDatabase_RecordRun_Duplicate(t *testing.T) {
	db := newTestDatabase(t)

	run := &Run{ID: "fixed-id", Folder: "/data", Kind: string(internal.KindRestore), StartedAt: time.Now(), FinishedAt: time.Now()}
	if err := db.RecordRun(run); err != nil {
		t.Fatalf("First RecordRun() error = %v", err)
	}

	again := &Run{ID: "fixed-id", Folder: "/other", Kind: string(internal.KindRestore), StartedAt: time.Now(), FinishedAt: time.Now()}
	if err := db.RecordRun(again); err == nil {
		t.Error("Expected error when recording a duplicate run ID")
	}
}

func TestDatabase_ListRuns(t *testing.T) {
	db := newTestDatabase(t)

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	runs := []*Run{
		{Folder: "/a", Kind: string(internal.KindOrganize), StartedAt: base, FinishedAt: base},
		{Folder: "/b", Kind: string(internal.KindOrganize), StartedAt: base.Add(time.Hour), FinishedAt: base.Add(time.Hour)},
		{Folder: "/a", Kind: string(internal.KindRestore), StartedAt: base.Add(2 * time.Hour), FinishedAt: base.Add(2 * time.Hour)},
	}
	for _, run := range runs {
		if err := db.RecordRun(run); err != nil {
			t.Fatalf("RecordRun() error = %v", err)
		}
	}

	all, err := db.ListRuns("", 0)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(all))
	}
	if all[0].Kind != string(internal.KindRestore) {
		t.Errorf("Expected newest run first, got %+v", all[0])
	}

	folderRuns, err := db.ListRuns("/a", 0)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(folderRuns) != 2 {
		t.Errorf("Expected 2 runs for /a, got %d", len(folderRuns))
	}

	limited, err := db.ListRuns("", 1)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("Expected 1 run with limit, got %d", len(limited))
	}
}

func TestDatabase_FindRun(t *testing.T) {
	db := newTestDatabase(t)

	for _, id := range []string{"aaaa1111-0000", "aaaa2222-0000", "bbbb1111-0000"} {
		run := &Run{
			ID:         id,
			Folder:     "/d",
			Kind:       string(internal.KindOrganize),
			StartedAt:  time.Now(),
			FinishedAt: time.Now(),
			Moves:      []MoveEntry{{From: "/d/a.txt", To: "/d/Documents/a.txt"}},
		}
		if err := db.RecordRun(run); err != nil {
			t.Fatalf("RecordRun() error = %v", err)
		}
	}

	run, err := db.FindRun("bbbb")
	if err != nil {
		t.Fatalf("FindRun() error = %v", err)
	}
	if run.ID != "bbbb1111-0000" || len(run.Moves) != 1 {
		t.Errorf("Unexpected run: %+v", run)
	}

	if _, err := db.FindRun("aaaa"); !errors.Is(err, ErrAmbiguousRun) {
		t.Errorf("Expected ErrAmbiguousRun, got %v", err)
	}
	if _, err := db.FindRun("cccc"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Expected ErrRunNotFound, got %v", err)
	}
	if _, err := db.FindRun(""); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Expected ErrRunNotFound for empty prefix, got %v", err)
	}
}
