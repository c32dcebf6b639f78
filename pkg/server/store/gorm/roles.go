package gorm

import (
	"errors"

	"gorm.io/gorm"

	"github.com/kickshopping/kickshop/pkg/model"
	"github.com/kickshopping/kickshop/pkg/server/store"
)

// Ensure RolesStore implements store.RolesStore
var _ store.RolesStore = (*RolesStore)(nil)

// RolesStore implements store.RolesStore using GORM.
type RolesStore struct {
	db *gorm.DB
}

// NewRolesStore creates a new RolesStore.
func NewRolesStore(db *gorm.DB) *RolesStore {
	return &RolesStore{db: db}
}

func (s *RolesStore) ListRoles() ([]model.Role, error) {
	var roles []model.Role
	if tx := s.db.Order("rol_id").Find(&roles); tx.Error != nil {
		return nil, tx.Error
	}
	return roles, nil
}

func (s *RolesStore) RoleByID(id int) (*model.Role, error) {
	var role model.Role
	tx := s.db.First(&role, "rol_id = ?", id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, tx.Error
	}
	return &role, nil
}

func (s *RolesStore) CreateRole(role *model.Role) error {
	var count int64
	s.db.Model(&model.Role{}).Where("rol_nombre = ?", role.Name).Count(&count)
	if count > 0 {
		return store.ErrConflict
	}
	return s.db.Create(role).Error
}

func (s *RolesStore) UpdateRole(role *model.Role) error {
	return s.db.Save(role).Error
}

func (s *RolesStore) DeleteRole(id int) error {
	tx := s.db.Delete(&model.Role{}, "rol_id = ?", id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
