package service

import (
	"errors"

	"plumenote/dao"
	"plumenote/model"

	"gorm.io/gorm"
)

// ErrNoteNotFound covers missing, soft-deleted and inaccessible notes alike.
// Collapsing the three keeps handlers from leaking whether a note exists to
// users who may not see it.
var ErrNoteNotFound = errors.New("note not found")

// NoteService owns note CRUD and the access rule shared by every note
// endpoint: the owner always has access, workspace members have access to
// the workspace's notes, nobody else does.
type NoteService struct {
	notes      *dao.NoteDAO
	workspaces *dao.WorkspaceDAO
	folders    *dao.FolderDAO
}

func NewNoteService(notes *dao.NoteDAO, workspaces *dao.WorkspaceDAO, folders *dao.FolderDAO) *NoteService {
	return &NoteService{notes: notes, workspaces: workspaces, folders: folders}
}

// Create 创建笔记；folder/workspace 归属均可选
func (s *NoteService) Create(ownerID uint64, title, content string, folderID, workspaceID *uint64) (*model.Note, error) {
	if folderID != nil {
		folder, err := s.folders.GetByID(*folderID)
		if err != nil {
			return nil, ErrNoteNotFound
		}
		// 文件夹隶属工作区时，笔记继承该工作区
		if workspaceID == nil {
			workspaceID = folder.WorkspaceID
		}
	}
	if workspaceID != nil {
		ok, err := s.workspaces.IsMember(*workspaceID, ownerID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrNoteNotFound
		}
	}
	note := &model.Note{
		Title:       title,
		Content:     content,
		OwnerID:     ownerID,
		FolderID:    folderID,
		WorkspaceID: workspaceID,
	}
	if err := s.notes.Create(note); err != nil {
		return nil, err
	}
	return note, nil
}

// GetAccessible resolves a note the user is allowed to see, or
// ErrNoteNotFound. All view/read paths go through here before touching the
// note, including the view-tracking endpoint.
func (s *NoteService) GetAccessible(noteID, userID uint64) (*model.Note, error) {
	note, err := s.notes.GetByID(noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	if note.OwnerID == userID {
		return note, nil
	}
	if note.WorkspaceID != nil {
		ok, err := s.workspaces.IsMember(*note.WorkspaceID, userID)
		if err != nil {
			return nil, err
		}
		if ok {
			return note, nil
		}
	}
	return nil, ErrNoteNotFound
}

// Update 修改标题/正文并记录最后编辑者；updated_at 由 gorm 自动前进
func (s *NoteService) Update(noteID, editorID uint64, title, content string) (*model.Note, error) {
	if _, err := s.GetAccessible(noteID, editorID); err != nil {
		return nil, err
	}
	if err := s.notes.UpdateContent(noteID, title, content, editorID); err != nil {
		return nil, err
	}
	return s.notes.GetByID(noteID)
}

// Delete soft-deletes the caller's note. Absent or already-deleted notes are
// a no-op success, matching the idempotent delete convention used elsewhere.
func (s *NoteService) Delete(noteID, ownerID uint64) error {
	return s.notes.SoftDelete(noteID, ownerID)
}

// ListOwn 列出用户自己的笔记
func (s *NoteService) ListOwn(ownerID uint64, limit int) ([]model.Note, error) {
	return s.notes.ListByOwner(ownerID, limit)
}
