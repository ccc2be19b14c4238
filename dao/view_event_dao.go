package dao

import (
	"time"

	"plumenote/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ViewEventDAO struct {
	db *gorm.DB
}

func NewViewEventDAO(db *gorm.DB) *ViewEventDAO {
	return &ViewEventDAO{db: db}
}

// RecordView runs the whole ledger update in one transaction:
//
//  1. Upsert the (user, note) view event. The conflict branch is a single
//     statement whose assignments evaluate in order, so `counted` is decided
//     against the previous viewed_at before viewed_at itself is overwritten.
//     viewed_at is refreshed on every visit, counted or not, which keeps the
//     recency list tracking attention while the counter tracks engagement.
//  2. Read the row back (it is locked by this transaction) to learn whether
//     the visit counted.
//  3. If it counted, bump views_count/last_viewed_at on the note with an
//     in-database increment, never read-modify-write in Go.
//
// Two concurrent calls for the same pair serialize on the unique index, so a
// first view cannot be counted twice.
func (dao *ViewEventDAO) RecordView(userID, noteID uint64, now time.Time, window time.Duration) (counted bool, viewCount int64, err error) {
	cutoff := now.Add(-window)
	err = dao.db.Transaction(func(tx *gorm.DB) error {
		event := &model.ViewEvent{
			UserID:   userID,
			NoteID:   noteID,
			ViewedAt: now,
			Counted:  true,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "note_id"}},
			DoUpdates: clause.Set{
				{
					Column: clause.Column{Name: "counted"},
					Value:  gorm.Expr("CASE WHEN viewed_at <= ? THEN 1 ELSE 0 END", cutoff),
				},
				{Column: clause.Column{Name: "viewed_at"}, Value: now},
				{Column: clause.Column{Name: "updated_at"}, Value: now},
			},
		}).Create(event).Error; err != nil {
			return err
		}

		var current model.ViewEvent
		if err := tx.Where("user_id = ? AND note_id = ?", userID, noteID).
			Take(&current).Error; err != nil {
			return err
		}
		counted = current.Counted

		if counted {
			// UpdateColumns, not Updates: a counted view must leave
			// updated_at alone, that column belongs to the edit path.
			if err := tx.Model(&model.Note{}).
				Where("id = ?", noteID).
				UpdateColumns(map[string]interface{}{
					"views_count":    gorm.Expr("views_count + ?", 1),
					"last_viewed_at": now,
				}).Error; err != nil {
				return err
			}
		}

		var note model.Note
		if err := tx.Select("views_count").Take(&note, noteID).Error; err != nil {
			return err
		}
		viewCount = note.ViewsCount
		return nil
	})
	if err != nil {
		return false, 0, err
	}
	return counted, viewCount, nil
}

// RecentlyViewedEntry is one row of a user's recently-viewed list.
type RecentlyViewedEntry struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	FolderID  *uint64   `json:"folder_id"`
	UpdatedAt time.Time `json:"updated_at"`
	ViewedAt  time.Time `json:"viewed_at"`
}

// RecentlyViewed lists the user's most recent view events joined to their
// live note. Notes deleted after being viewed drop out at query time; the
// stale events are left in place.
func (dao *ViewEventDAO) RecentlyViewed(userID uint64, limit int) ([]RecentlyViewedEntry, error) {
	entries := make([]RecentlyViewedEntry, 0, limit)
	err := dao.db.Model(&model.Note{}).
		Select("notes.id, notes.title, notes.folder_id, notes.updated_at, ve.viewed_at").
		Joins("JOIN view_events ve ON ve.note_id = notes.id").
		Where("ve.user_id = ?", userID).
		Order("ve.viewed_at DESC").
		Limit(limit).
		Scan(&entries).Error
	return entries, err
}
