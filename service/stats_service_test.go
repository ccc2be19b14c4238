package service

import (
	"testing"
	"time"

	"plumenote/dao"
)

func fixedNow() time.Time {
	return time.Date(2025, 8, 30, 15, 4, 5, 0, time.Local)
}

func TestBuildDailyActivityGapless(t *testing.T) {
	now := fixedNow()
	series := buildDailyActivity(nil, now)

	if len(series) != activityDays {
		t.Fatalf("expected %d buckets, got %d", activityDays, len(series))
	}
	start := dayStart(now).AddDate(0, 0, -(activityDays - 1))
	for i, bucket := range series {
		want := start.AddDate(0, 0, i).Format(dateLayout)
		if bucket.Date != want {
			t.Fatalf("bucket %d: expected date %s, got %s", i, want, bucket.Date)
		}
		if bucket.Created != 0 || bucket.Modified != 0 {
			t.Fatalf("bucket %s: expected zero counts, got %+v", bucket.Date, bucket)
		}
	}
	if series[activityDays-1].Date != now.Format(dateLayout) {
		t.Fatalf("series should end today, ends %s", series[activityDays-1].Date)
	}
}

func TestBuildDailyActivitySameDayCreateAndModify(t *testing.T) {
	now := fixedNow()
	created := now.Add(-3 * time.Hour)
	rows := []dao.NoteTimestamps{
		{CreatedAt: created, UpdatedAt: created.Add(20 * time.Minute)},
	}
	series := buildDailyActivity(rows, now)

	today := series[activityDays-1]
	if today.Created != 1 || today.Modified != 1 {
		t.Fatalf("expected created=1 modified=1, got %+v", today)
	}
}

func TestBuildDailyActivityNeverModified(t *testing.T) {
	now := fixedNow()
	created := now.Add(-2 * time.Hour)
	rows := []dao.NoteTimestamps{
		// gorm writes the same instant to both columns on insert.
		{CreatedAt: created, UpdatedAt: created},
	}
	series := buildDailyActivity(rows, now)

	today := series[activityDays-1]
	if today.Created != 1 || today.Modified != 0 {
		t.Fatalf("expected created=1 modified=0, got %+v", today)
	}
}

func TestBuildDailyActivitySplitDays(t *testing.T) {
	now := fixedNow()
	created := now.AddDate(0, 0, -5)
	rows := []dao.NoteTimestamps{
		{CreatedAt: created, UpdatedAt: now.Add(-time.Hour)},
	}
	series := buildDailyActivity(rows, now)

	fiveDaysAgo := series[activityDays-6]
	today := series[activityDays-1]
	if fiveDaysAgo.Created != 1 || fiveDaysAgo.Modified != 0 {
		t.Fatalf("creation bucket wrong: %+v", fiveDaysAgo)
	}
	if today.Created != 0 || today.Modified != 1 {
		t.Fatalf("modification bucket wrong: %+v", today)
	}
}

func TestBuildDailyActivityIgnoresOutOfWindow(t *testing.T) {
	now := fixedNow()
	old := now.AddDate(0, 0, -60)
	rows := []dao.NoteTimestamps{
		// Created long before the window, edited inside it: only the edit counts.
		{CreatedAt: old, UpdatedAt: now.Add(-time.Hour)},
		// Entirely outside the window.
		{CreatedAt: old, UpdatedAt: old.Add(time.Minute)},
	}
	series := buildDailyActivity(rows, now)

	var totalCreated, totalModified int64
	for _, bucket := range series {
		totalCreated += bucket.Created
		totalModified += bucket.Modified
	}
	if totalCreated != 0 {
		t.Fatalf("expected no in-window creations, got %d", totalCreated)
	}
	if totalModified != 1 {
		t.Fatalf("expected one in-window modification, got %d", totalModified)
	}
}

func TestMergeContributorCountsKeepsZeroSides(t *testing.T) {
	created := map[uint64]int64{1: 3}
	modified := map[uint64]int64{2: 2}

	ranked := mergeContributorCounts(created, modified, 5)
	if len(ranked) != 2 {
		t.Fatalf("expected 2 contributors, got %d", len(ranked))
	}
	if ranked[0].ID != 1 || ranked[0].NotesCreated != 3 || ranked[0].NotesModified != 0 {
		t.Fatalf("creator-only entry wrong: %+v", ranked[0])
	}
	if ranked[1].ID != 2 || ranked[1].NotesCreated != 0 || ranked[1].NotesModified != 2 {
		t.Fatalf("modifier-only entry wrong: %+v", ranked[1])
	}
}

func TestMergeContributorCountsOrderAndLimit(t *testing.T) {
	created := map[uint64]int64{1: 1, 2: 4, 3: 2}
	modified := map[uint64]int64{1: 1, 3: 2, 4: 1}

	// totals: u2=4, u3=4, u1=2, u4=1; tie between u2/u3 breaks on id.
	ranked := mergeContributorCounts(created, modified, 3)
	if len(ranked) != 3 {
		t.Fatalf("expected 3 contributors, got %d", len(ranked))
	}
	wantOrder := []uint64{2, 3, 1}
	for i, want := range wantOrder {
		if ranked[i].ID != want {
			t.Fatalf("position %d: expected user %d, got %d", i, want, ranked[i].ID)
		}
	}
}

func TestMergeContributorCountsSingleNoteRanks(t *testing.T) {
	ranked := mergeContributorCounts(map[uint64]int64{7: 1}, nil, 5)
	if len(ranked) != 1 || ranked[0].ID != 7 {
		t.Fatalf("a single created note should rank: %+v", ranked)
	}
}

func TestContainerNamePrefersFolder(t *testing.T) {
	folder := "Runbooks"
	workspace := "Infra"
	if got := containerName(&folder, &workspace); got != "Runbooks" {
		t.Fatalf("expected folder name, got %q", got)
	}
	if got := containerName(nil, &workspace); got != "Infra" {
		t.Fatalf("expected workspace name, got %q", got)
	}
	if got := containerName(nil, nil); got != "" {
		t.Fatalf("expected empty container, got %q", got)
	}
}
