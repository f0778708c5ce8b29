package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/abhishek-geeks/organize-cli/internal"
	"github.com/abhishek-geeks/organize-cli/pkg/database"
)

func TestRenderRuns(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	runs := []database.Run{
		{
			ID:         "0f8fad5b-d9cb-469f-a165-70867728950e",
			Folder:     "/data/downloads",
			Kind:       string(internal.KindOrganize),
			StartedAt:  now.Add(-2 * time.Hour),
			FinishedAt: now.Add(-2*time.Hour + 1500*time.Millisecond),
			Moved:      12,
			Duplicates: 3,
			Skipped:    1,
			FreedBytes: 3 * 1024 * 1024,
		},
		{
			ID:         "7c9e6679-7425-40de-944b-e07fc1f90ae7",
			Folder:     "/data/downloads",
			Kind:       string(internal.KindRestore),
			DryRun:     true,
			StartedAt:  now.Add(-time.Hour),
			FinishedAt: now.Add(-time.Hour),
			Restored:   9,
			Failed:     2,
			Error:      "context canceled",
		},
	}

	out := renderRuns(runs, now)

	for _, want := range []string{
		"0f8fad5b",
		"7c9e6679",
		"/data/downloads",
		"organize",
		"restore (dry run)",
		"3.0 MiB",
		"1.5s",
		"context canceled",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}

	if strings.Contains(out, "0f8fad5b-d9cb") {
		t.Error("Expected run IDs to be shortened")
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID(abc) = %s", got)
	}
	if got := shortID("0123456789"); got != "01234567" {
		t.Errorf("shortID() = %s", got)
	}
}

func TestFormatBytes(t *testing.T) {
	if got := formatBytes(0); got != "0 B" {
		t.Errorf("formatBytes(0) = %s", got)
	}
	if got := formatBytes(1536); got != "1.5 KiB" {
		t.Errorf("formatBytes(1536) = %s", got)
	}
	if got := formatBytes(-1); got != "0 B" {
		t.Errorf("formatBytes(-1) = %s", got)
	}
}

func TestRenderRun(t *testing.T) {
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	run := &database.Run{
		ID:         "0f8fad5b-d9cb-469f-a165-70867728950e",
		Folder:     "/data",
		Kind:       string(internal.KindOrganize),
		StartedAt:  start,
		FinishedAt: start.Add(250 * time.Millisecond),
		Moves: []database.MoveEntry{
			{Seq: 1, From: "/data/a.mp3", To: "/data/Audio/a.mp3"},
			{Seq: 2, From: "/data/b.pdf", To: "/data/Documents/b.pdf"},
		},
	}

	out := renderRun(run)
	for _, want := range []string{
		"0f8fad5b-d9cb-469f-a165-70867728950e",
		"organize",
		"250ms",
		"/data/a.mp3",
		"/data/Audio/a.mp3",
		"/data/Documents/b.pdf",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
	if strings.Index(out, "/data/a.mp3") > strings.Index(out, "/data/b.pdf") {
		t.Error("Expected moves in recorded order")
	}

	run.Moves = nil
	if !strings.Contains(renderRun(run), "没有移动记录") {
		t.Error("Expected empty-moves message")
	}
}
