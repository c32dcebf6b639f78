package gorm

import (
	"errors"

	"gorm.io/gorm"

	"github.com/kickshopping/kickshop/pkg/model"
	"github.com/kickshopping/kickshop/pkg/server/store"
)

// Ensure UsersStore implements store.UsersStore
var _ store.UsersStore = (*UsersStore)(nil)

// UsersStore implements store.UsersStore using GORM.
type UsersStore struct {
	db *gorm.DB
}

// NewUsersStore creates a new UsersStore.
func NewUsersStore(db *gorm.DB) *UsersStore {
	return &UsersStore{db: db}
}

func (s *UsersStore) ListUsers() ([]model.User, error) {
	var users []model.User
	if tx := s.db.Order("usu_id").Find(&users); tx.Error != nil {
		return nil, tx.Error
	}
	return users, nil
}

func (s *UsersStore) UserByID(id int) (*model.User, error) {
	var user model.User
	tx := s.db.First(&user, "usu_id = ?", id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, tx.Error
	}
	return &user, nil
}

func (s *UsersStore) UserByUsername(username string) (*model.User, error) {
	var user model.User
	tx := s.db.First(&user, "usu_usuario = ?", username)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, tx.Error
	}
	return &user, nil
}

func (s *UsersStore) CreateUser(user *model.User) error {
	var count int64
	s.db.Model(&model.User{}).Where("usu_usuario = ?", user.Username).Count(&count)
	if count > 0 {
		return store.ErrConflict
	}
	return s.db.Create(user).Error
}

func (s *UsersStore) UpdateUser(user *model.User) error {
	return s.db.Save(user).Error
}

func (s *UsersStore) DeleteUser(id int) error {
	tx := s.db.Delete(&model.User{}, "usu_id = ?", id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
