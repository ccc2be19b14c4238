package service

import (
	"errors"

	"plumenote/dao"
	"plumenote/model"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var ErrWorkspaceExists = errors.New("workspace slug already taken")
var ErrWorkspaceNotFound = errors.New("workspace not found")

// WorkspaceService 管理工作区与成员关系
type WorkspaceService struct {
	workspaces *dao.WorkspaceDAO
	folders    *dao.FolderDAO
}

func NewWorkspaceService(workspaces *dao.WorkspaceDAO, folders *dao.FolderDAO) *WorkspaceService {
	return &WorkspaceService{workspaces: workspaces, folders: folders}
}

// Create 创建工作区，创建者自动成为 owner 成员
func (s *WorkspaceService) Create(ownerID uint64, name, slug string) (*model.Workspace, error) {
	ws := &model.Workspace{
		Name:    name,
		Slug:    slug,
		OwnerID: ownerID,
	}
	if err := s.workspaces.Create(ws); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrWorkspaceExists
		}
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return nil, ErrWorkspaceExists
		}
		return nil, err
	}
	return ws, nil
}

// AddMember 将用户加入工作区；仅 owner 可以邀请，重复加入视为成功
func (s *WorkspaceService) AddMember(workspaceID, actorID, userID uint64) error {
	ws, err := s.workspaces.GetByID(workspaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWorkspaceNotFound
		}
		return err
	}
	if ws.OwnerID != actorID {
		return ErrWorkspaceNotFound
	}
	return s.workspaces.AddMember(workspaceID, userID, "member")
}

// ListForUser 列出用户所属的工作区
func (s *WorkspaceService) ListForUser(userID uint64) ([]model.Workspace, error) {
	return s.workspaces.ListForUser(userID)
}

// ListMembers 列出工作区成员；仅成员可见
func (s *WorkspaceService) ListMembers(workspaceID, actorID uint64) ([]model.WorkspaceMember, error) {
	ok, err := s.workspaces.IsMember(workspaceID, actorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrWorkspaceNotFound
	}
	return s.workspaces.ListMembers(workspaceID)
}

// CreateFolder 在（可选的）工作区内创建文件夹
func (s *WorkspaceService) CreateFolder(ownerID uint64, name string, workspaceID *uint64) (*model.Folder, error) {
	if workspaceID != nil {
		ok, err := s.workspaces.IsMember(*workspaceID, ownerID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrWorkspaceNotFound
		}
	}
	folder := &model.Folder{
		Name:        name,
		WorkspaceID: workspaceID,
		OwnerID:     ownerID,
	}
	if err := s.folders.Create(folder); err != nil {
		return nil, err
	}
	return folder, nil
}

// ListFolders 列出用户的文件夹
func (s *WorkspaceService) ListFolders(ownerID uint64) ([]model.Folder, error) {
	return s.folders.ListByOwner(ownerID)
}
