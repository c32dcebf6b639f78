package store

import "github.com/kickshopping/kickshop/pkg/model"

// RolesStore abstracts role storage operations.
type RolesStore interface {
	ListRoles() ([]model.Role, error)
	RoleByID(id int) (*model.Role, error)
	CreateRole(role *model.Role) error
	UpdateRole(role *model.Role) error
	DeleteRole(id int) error
}
