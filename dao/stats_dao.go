package dao

import (
	"time"

	"plumenote/model"

	"gorm.io/gorm"
)

// StatsDAO holds the read-only aggregation queries behind the admin
// statistics endpoint. Every query excludes soft-deleted notes via the
// default gorm scope and optionally narrows to one workspace. The
// sub-queries are independent snapshots; no consistency across them is
// promised.
type StatsDAO struct {
	db *gorm.DB
}

func NewStatsDAO(db *gorm.DB) *StatsDAO {
	return &StatsDAO{db: db}
}

func scoped(q *gorm.DB, workspaceID *uint64) *gorm.DB {
	if workspaceID != nil {
		q = q.Where("workspace_id = ?", *workspaceID)
	}
	return q
}

// NoteTimestamps is the minimal projection needed for daily bucketing.
type NoteTimestamps struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NoteTimestampsSince returns creation/modification instants for live notes
// touching the window, leaving the calendar bucketing to the service layer.
func (dao *StatsDAO) NoteTimestampsSince(since time.Time, workspaceID *uint64) ([]NoteTimestamps, error) {
	rows := make([]NoteTimestamps, 0)
	err := scoped(dao.db.Model(&model.Note{}), workspaceID).
		Select("created_at", "updated_at").
		Where("created_at >= ? OR updated_at >= ?", since, since).
		Scan(&rows).Error
	return rows, err
}

// TopNoteRow is one ranked entry of the most-viewed leaderboard.
type TopNoteRow struct {
	ID            uint64  `json:"id"`
	Title         string  `json:"title"`
	ViewsCount    int64   `json:"views_count"`
	FolderName    *string `json:"-"`
	WorkspaceName *string `json:"-"`
}

// TopNotes ranks live notes by view count, never-viewed notes excluded.
// Ties break on id ascending so the ordering is stable.
func (dao *StatsDAO) TopNotes(limit int, workspaceID *uint64) ([]TopNoteRow, error) {
	rows := make([]TopNoteRow, 0, limit)
	q := dao.db.Model(&model.Note{})
	if workspaceID != nil {
		// Qualified: folders carries a workspace_id column too.
		q = q.Where("notes.workspace_id = ?", *workspaceID)
	}
	err := q.
		Select("notes.id, notes.title, notes.views_count, f.name AS folder_name, w.name AS workspace_name").
		Joins("LEFT JOIN folders f ON f.id = notes.folder_id").
		Joins("LEFT JOIN workspaces w ON w.id = notes.workspace_id").
		Where("notes.views_count > 0").
		Order("notes.views_count DESC, notes.id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

type userCountRow struct {
	UserID uint64
	Cnt    int64
}

// CreatedCountsByUser counts live notes grouped by creator.
func (dao *StatsDAO) CreatedCountsByUser(workspaceID *uint64) (map[uint64]int64, error) {
	rows := make([]userCountRow, 0)
	err := scoped(dao.db.Model(&model.Note{}), workspaceID).
		Select("owner_id AS user_id, COUNT(*) AS cnt").
		Group("owner_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return countsToMap(rows), nil
}

// ModifiedCountsByUser counts live notes grouped by last editor. Notes that
// were never edited after creation carry a NULL editor and are skipped.
func (dao *StatsDAO) ModifiedCountsByUser(workspaceID *uint64) (map[uint64]int64, error) {
	rows := make([]userCountRow, 0)
	err := scoped(dao.db.Model(&model.Note{}), workspaceID).
		Select("last_editor_id AS user_id, COUNT(*) AS cnt").
		Where("last_editor_id IS NOT NULL").
		Group("last_editor_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return countsToMap(rows), nil
}

func countsToMap(rows []userCountRow) map[uint64]int64 {
	m := make(map[uint64]int64, len(rows))
	for _, row := range rows {
		m[row.UserID] = row.Cnt
	}
	return m
}

// TotalViews sums counted views across live notes.
func (dao *StatsDAO) TotalViews(workspaceID *uint64) (int64, error) {
	var total int64
	err := scoped(dao.db.Model(&model.Note{}), workspaceID).
		Select("COALESCE(SUM(views_count), 0)").
		Scan(&total).Error
	return total, err
}
