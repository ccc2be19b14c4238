package dao

import (
	"fmt"
	"os"
	"testing"
	"time"

	"plumenote/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// testDB connects to the database named by TEST_MYSQL_DSN, or skips. The
// tests create their own users/notes and remove them afterwards, so a shared
// development database is fine.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("TEST_MYSQL_DSN not set; skipping DB-backed test")
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Workspace{},
		&model.WorkspaceMember{},
		&model.Folder{},
		&model.Note{},
		&model.ViewEvent{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUserAndNote(t *testing.T, db *gorm.DB) (*model.User, *model.Note) {
	t.Helper()
	suffix := time.Now().UnixNano()
	user := &model.User{
		Email:    fmt.Sprintf("viewer-%d@test.local", suffix),
		Username: fmt.Sprintf("viewer_%d", suffix),
		Password: "x",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	note := &model.Note{
		Title:   fmt.Sprintf("note-%d", suffix),
		Content: "body",
		OwnerID: user.ID,
	}
	if err := db.Create(note).Error; err != nil {
		t.Fatalf("seed note: %v", err)
	}
	t.Cleanup(func() {
		db.Where("user_id = ?", user.ID).Delete(&model.ViewEvent{})
		db.Unscoped().Delete(note)
		db.Delete(user)
	})
	return user, note
}

func TestRecordViewDedupWindow(t *testing.T) {
	db := testDB(t)
	dao := NewViewEventDAO(db)
	user, note := seedUserAndNote(t, db)

	base := time.Now().Add(-3 * time.Hour).Truncate(time.Second)
	window := time.Hour

	// Snapshot the persisted edit timestamp; viewing must never move it.
	var before model.Note
	if err := db.Take(&before, note.ID).Error; err != nil {
		t.Fatalf("load note: %v", err)
	}

	// First-ever view always counts.
	counted, views, err := dao.RecordView(user.ID, note.ID, base, window)
	if err != nil {
		t.Fatalf("first view: %v", err)
	}
	if !counted || views != 1 {
		t.Fatalf("first view: counted=%v views=%d, want true/1", counted, views)
	}

	// Repeat inside the window is deduplicated and leaves the counter alone.
	counted, views, err = dao.RecordView(user.ID, note.ID, base.Add(30*time.Minute), window)
	if err != nil {
		t.Fatalf("repeat view: %v", err)
	}
	if counted || views != 1 {
		t.Fatalf("repeat view: counted=%v views=%d, want false/1", counted, views)
	}

	// The deduplicated visit still refreshed viewed_at.
	var event model.ViewEvent
	if err := db.Where("user_id = ? AND note_id = ?", user.ID, note.ID).Take(&event).Error; err != nil {
		t.Fatalf("load event: %v", err)
	}
	if !event.ViewedAt.Equal(base.Add(30 * time.Minute)) {
		t.Fatalf("viewed_at not refreshed: %v", event.ViewedAt)
	}

	// A full window after the refreshed viewed_at counts again.
	counted, views, err = dao.RecordView(user.ID, note.ID, base.Add(90*time.Minute), window)
	if err != nil {
		t.Fatalf("third view: %v", err)
	}
	if !counted || views != 2 {
		t.Fatalf("third view: counted=%v views=%d, want true/2", counted, views)
	}

	// Counted views bump views_count/last_viewed_at only; updated_at is
	// owned by the edit path, so a viewed-but-never-edited note must still
	// look unmodified (updated_at == created_at) to the daily aggregation.
	var after model.Note
	if err := db.Take(&after, note.ID).Error; err != nil {
		t.Fatalf("reload note: %v", err)
	}
	if !after.UpdatedAt.Equal(before.UpdatedAt) {
		t.Fatalf("updated_at moved by viewing: %v -> %v", before.UpdatedAt, after.UpdatedAt)
	}
	if !after.UpdatedAt.Equal(after.CreatedAt) {
		t.Fatalf("never-edited note should keep updated_at == created_at, got %v / %v", after.UpdatedAt, after.CreatedAt)
	}
	if after.LastViewedAt == nil || !after.LastViewedAt.Equal(base.Add(90*time.Minute)) {
		t.Fatalf("last_viewed_at not set by counted view: %v", after.LastViewedAt)
	}
}

func TestRecordViewMonotonic(t *testing.T) {
	db := testDB(t)
	dao := NewViewEventDAO(db)
	user, note := seedUserAndNote(t, db)

	base := time.Now().Add(-48 * time.Hour).Truncate(time.Second)
	var last int64
	for i := 0; i < 6; i++ {
		// Alternate counted and deduplicated visits.
		_, views, err := dao.RecordView(user.ID, note.ID, base.Add(time.Duration(i)*40*time.Minute), time.Hour)
		if err != nil {
			t.Fatalf("view %d: %v", i, err)
		}
		if views < last {
			t.Fatalf("views_count decreased: %d -> %d", last, views)
		}
		last = views
	}
}

func TestRecentlyViewedExcludesDeleted(t *testing.T) {
	db := testDB(t)
	dao := NewViewEventDAO(db)
	user, note := seedUserAndNote(t, db)

	second := &model.Note{Title: note.Title + "-b", OwnerID: user.ID}
	if err := db.Create(second).Error; err != nil {
		t.Fatalf("seed second note: %v", err)
	}
	t.Cleanup(func() { db.Unscoped().Delete(second) })

	now := time.Now().Truncate(time.Second)
	if _, _, err := dao.RecordView(user.ID, note.ID, now.Add(-time.Minute), time.Hour); err != nil {
		t.Fatalf("view first: %v", err)
	}
	if _, _, err := dao.RecordView(user.ID, second.ID, now, time.Hour); err != nil {
		t.Fatalf("view second: %v", err)
	}

	entries, err := dao.RecentlyViewed(user.ID, 20)
	if err != nil {
		t.Fatalf("recently viewed: %v", err)
	}
	if len(entries) != 2 || entries[0].ID != second.ID {
		t.Fatalf("expected both notes, newest first, got %+v", entries)
	}

	if err := db.Delete(second).Error; err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	entries, err = dao.RecentlyViewed(user.ID, 20)
	if err != nil {
		t.Fatalf("recently viewed after delete: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != note.ID {
		t.Fatalf("deleted note should drop out, got %+v", entries)
	}
}
