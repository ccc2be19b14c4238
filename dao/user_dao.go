package dao

import (
	"plumenote/model"

	"gorm.io/gorm"
)

type UserDAO struct {
	db *gorm.DB
}

// NewUserDAO 创建一个新的 UserDAO 实例
func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{db: db}
}

// CreateUser 创建新用户
func (dao *UserDAO) CreateUser(user *model.User) error {
	return dao.db.Create(user).Error
}

// GetByUsername 根据用户名获取用户
func (dao *UserDAO) GetByUsername(username string) (*model.User, error) {
	var user model.User
	err := dao.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail 根据邮箱查询用户
func (dao *UserDAO) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := dao.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Count returns the total number of registered users.
func (dao *UserDAO) Count() (int64, error) {
	var n int64
	err := dao.db.Model(&model.User{}).Count(&n).Error
	return n, err
}

// GetByIDs fetches display metadata for a set of users. Used by the
// contributor leaderboard after ranking, so only the winners are loaded.
func (dao *UserDAO) GetByIDs(ids []uint64) ([]model.User, error) {
	users := make([]model.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	err := dao.db.Where("id IN ?", ids).Find(&users).Error
	return users, err
}
