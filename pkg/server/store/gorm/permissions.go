package gorm

import (
	"errors"

	"gorm.io/gorm"

	"github.com/kickshopping/kickshop/pkg/model"
	"github.com/kickshopping/kickshop/pkg/server/store"
)

// Ensure PermissionsStore implements store.PermissionsStore
var _ store.PermissionsStore = (*PermissionsStore)(nil)

// PermissionsStore implements store.PermissionsStore using GORM.
type PermissionsStore struct {
	db *gorm.DB
}

// NewPermissionsStore creates a new PermissionsStore.
func NewPermissionsStore(db *gorm.DB) *PermissionsStore {
	return &PermissionsStore{db: db}
}

func (s *PermissionsStore) ListPermissions(filter store.PermissionFilter) ([]model.Permission, error) {
	tx := s.db.Order("permiso_id")
	if filter.Active != nil {
		tx = tx.Where("permiso_activo = ?", *filter.Active)
	}
	if filter.Skip > 0 {
		tx = tx.Offset(filter.Skip)
	}
	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit)
	}

	var permissions []model.Permission
	if tx := tx.Find(&permissions); tx.Error != nil {
		return nil, tx.Error
	}
	return permissions, nil
}

func (s *PermissionsStore) PermissionByID(id int) (*model.Permission, error) {
	var permission model.Permission
	tx := s.db.First(&permission, "permiso_id = ?", id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, tx.Error
	}
	return &permission, nil
}

func (s *PermissionsStore) PermissionByPathMethod(path, method string) (*model.Permission, error) {
	var permission model.Permission
	tx := s.db.First(
		&permission,
		"permiso_ruta = ? AND permiso_metodo = ? AND permiso_activo = TRUE",
		path, method,
	)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, tx.Error
	}
	return &permission, nil
}

func (s *PermissionsStore) CreatePermission(permission *model.Permission) error {
	var count int64
	s.db.Model(&model.Permission{}).
		Where("permiso_nombre = ? OR (permiso_ruta = ? AND permiso_metodo = ?)",
			permission.Name, permission.Path, permission.Method).
		Count(&count)
	if count > 0 {
		return store.ErrConflict
	}
	return s.db.Create(permission).Error
}

func (s *PermissionsStore) UpdatePermission(permission *model.Permission) error {
	var count int64
	s.db.Model(&model.Permission{}).
		Where("permiso_id <> ? AND permiso_ruta = ? AND permiso_metodo = ?",
			permission.ID, permission.Path, permission.Method).
		Count(&count)
	if count > 0 {
		return store.ErrConflict
	}
	return s.db.Save(permission).Error
}

func (s *PermissionsStore) DeletePermission(id int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.RolePermission{}, "permiso_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Permission{}, "permiso_id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

// AssignToRole replaces the role's permission set with the given ids.
func (s *PermissionsStore) AssignToRole(roleID int, permissionIDs []int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Role{}).Where("rol_id = ?", roleID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return store.ErrNotFound
		}

		if err := tx.Delete(&model.RolePermission{}, "rol_id = ?", roleID).Error; err != nil {
			return err
		}
		for _, id := range permissionIDs {
			link := model.RolePermission{RoleID: roleID, PermissionID: id}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *PermissionsStore) RemoveFromRole(roleID int, permissionIDs []int) error {
	if len(permissionIDs) == 0 {
		return nil
	}
	return s.db.Delete(
		&model.RolePermission{},
		"rol_id = ? AND permiso_id IN ?", roleID, permissionIDs,
	).Error
}

func (s *PermissionsStore) PermissionsForRole(roleID int) ([]model.Permission, error) {
	var permissions []model.Permission
	tx := s.db.Raw(`
		SELECT p.*
		FROM permisos p
		INNER JOIN rol_permiso rp ON p.permiso_id = rp.permiso_id
		WHERE rp.rol_id = ?
		  AND p.permiso_activo = TRUE
		ORDER BY p.permiso_id
	`, roleID).Scan(&permissions)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return permissions, nil
}
