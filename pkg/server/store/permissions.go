package store

import "github.com/kickshopping/kickshop/pkg/model"

// PermissionFilter narrows ListPermissions.
type PermissionFilter struct {
	// Active filters on the active flag when non-nil.
	Active *bool
	Skip   int
	Limit  int
}

// PermissionsStore abstracts the permission catalog and its role
// associations.
type PermissionsStore interface {
	ListPermissions(filter PermissionFilter) ([]model.Permission, error)
	PermissionByID(id int) (*model.Permission, error)

	// PermissionByPathMethod finds the active permission for an exact
	// (path template, method) pair.
	PermissionByPathMethod(path, method string) (*model.Permission, error)

	// CreatePermission fails with ErrConflict when the name or the
	// (path, method) pair already exists. Two permissions never share a
	// (path, method) pair; this is enforced at write time.
	CreatePermission(permission *model.Permission) error
	UpdatePermission(permission *model.Permission) error
	DeletePermission(id int) error

	// AssignToRole replaces the role's permission set with the given ids.
	AssignToRole(roleID int, permissionIDs []int) error
	// RemoveFromRole removes the given permission ids from the role.
	RemoveFromRole(roleID int, permissionIDs []int) error
	// PermissionsForRole lists the active permissions linked to a role.
	PermissionsForRole(roleID int) ([]model.Permission, error)
}
