package dao

import (
	"plumenote/model"

	"gorm.io/gorm"
)

type NoteDAO struct {
	db *gorm.DB
}

func NewNoteDAO(db *gorm.DB) *NoteDAO {
	return &NoteDAO{db: db}
}

// Create 创建笔记
func (dao *NoteDAO) Create(note *model.Note) error {
	return dao.db.Create(note).Error
}

// GetByID fetches one live note. Soft-deleted rows are excluded by the
// default gorm scope, so "deleted" and "never existed" are indistinguishable
// to the caller.
func (dao *NoteDAO) GetByID(id uint64) (*model.Note, error) {
	var note model.Note
	if err := dao.db.First(&note, id).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

// UpdateContent 更新标题/正文并记录最后编辑者
func (dao *NoteDAO) UpdateContent(id uint64, title, content string, editorID uint64) error {
	return dao.db.Model(&model.Note{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"title":          title,
			"content":        content,
			"last_editor_id": editorID,
		}).Error
}

// SoftDelete marks the note deleted. Deleting a note that is already gone
// affects zero rows and is still treated as success (idempotent delete).
func (dao *NoteDAO) SoftDelete(id, ownerID uint64) error {
	return dao.db.Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&model.Note{}).Error
}

// ListByOwner 按更新时间倒序列出用户自己的笔记
func (dao *NoteDAO) ListByOwner(ownerID uint64, limit int) ([]model.Note, error) {
	notes := make([]model.Note, 0)
	err := dao.db.Where("owner_id = ?", ownerID).
		Order("updated_at DESC").
		Limit(limit).
		Find(&notes).Error
	return notes, err
}

// RecentlyModified returns the owner's live notes ordered by last edit.
func (dao *NoteDAO) RecentlyModified(ownerID uint64, limit int) ([]model.Note, error) {
	notes := make([]model.Note, 0)
	err := dao.db.Select("id", "title", "folder_id", "updated_at").
		Where("owner_id = ?", ownerID).
		Order("updated_at DESC").
		Limit(limit).
		Find(&notes).Error
	return notes, err
}

// Count returns the number of live notes, optionally workspace scoped.
func (dao *NoteDAO) Count(workspaceID *uint64) (int64, error) {
	q := dao.db.Model(&model.Note{})
	if workspaceID != nil {
		q = q.Where("workspace_id = ?", *workspaceID)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}
