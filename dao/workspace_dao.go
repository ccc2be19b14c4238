package dao

import (
	"plumenote/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WorkspaceDAO struct {
	db *gorm.DB
}

func NewWorkspaceDAO(db *gorm.DB) *WorkspaceDAO {
	return &WorkspaceDAO{db: db}
}

// Create inserts the workspace and its owner membership in one transaction.
func (dao *WorkspaceDAO) Create(ws *model.Workspace) error {
	return dao.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ws).Error; err != nil {
			return err
		}
		member := &model.WorkspaceMember{
			WorkspaceID: ws.ID,
			UserID:      ws.OwnerID,
			Role:        "owner",
		}
		return tx.Create(member).Error
	})
}

// GetByID 根据 ID 查询工作区
func (dao *WorkspaceDAO) GetByID(id uint64) (*model.Workspace, error) {
	var ws model.Workspace
	if err := dao.db.First(&ws, id).Error; err != nil {
		return nil, err
	}
	return &ws, nil
}

// AddMember 添加工作区成员，重复添加视为成功
func (dao *WorkspaceDAO) AddMember(workspaceID, userID uint64, role string) error {
	member := &model.WorkspaceMember{
		WorkspaceID: workspaceID,
		UserID:      userID,
		Role:        role,
	}
	return dao.db.Clauses(clause.OnConflict{DoNothing: true}).Create(member).Error
}

// IsMember reports whether the user belongs to the workspace.
func (dao *WorkspaceDAO) IsMember(workspaceID, userID uint64) (bool, error) {
	var n int64
	err := dao.db.Model(&model.WorkspaceMember{}).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		Count(&n).Error
	return n > 0, err
}

// ListMembers 列出工作区成员
func (dao *WorkspaceDAO) ListMembers(workspaceID uint64) ([]model.WorkspaceMember, error) {
	members := make([]model.WorkspaceMember, 0)
	err := dao.db.Where("workspace_id = ?", workspaceID).
		Order("created_at ASC").
		Find(&members).Error
	return members, err
}

// ListForUser 列出用户所属的全部工作区
func (dao *WorkspaceDAO) ListForUser(userID uint64) ([]model.Workspace, error) {
	workspaces := make([]model.Workspace, 0)
	err := dao.db.Model(&model.Workspace{}).
		Joins("JOIN workspace_members wm ON wm.workspace_id = workspaces.id").
		Where("wm.user_id = ?", userID).
		Order("workspaces.created_at ASC").
		Find(&workspaces).Error
	return workspaces, err
}

// Count returns the total number of workspaces.
func (dao *WorkspaceDAO) Count() (int64, error) {
	var n int64
	err := dao.db.Model(&model.Workspace{}).Count(&n).Error
	return n, err
}
