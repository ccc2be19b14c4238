package dao

import (
	"plumenote/model"

	"gorm.io/gorm"
)

type FolderDAO struct {
	db *gorm.DB
}

func NewFolderDAO(db *gorm.DB) *FolderDAO {
	return &FolderDAO{db: db}
}

// Create 创建文件夹
func (dao *FolderDAO) Create(folder *model.Folder) error {
	return dao.db.Create(folder).Error
}

// GetByID 根据 ID 查询文件夹
func (dao *FolderDAO) GetByID(id uint64) (*model.Folder, error) {
	var folder model.Folder
	if err := dao.db.First(&folder, id).Error; err != nil {
		return nil, err
	}
	return &folder, nil
}

// ListByOwner 列出用户的文件夹
func (dao *FolderDAO) ListByOwner(ownerID uint64) ([]model.Folder, error) {
	folders := make([]model.Folder, 0)
	err := dao.db.Where("owner_id = ?", ownerID).
		Order("name ASC").
		Find(&folders).Error
	return folders, err
}
