package store

import "github.com/kickshopping/kickshop/pkg/model"

// UsersStore abstracts user storage operations.
type UsersStore interface {
	ListUsers() ([]model.User, error)
	UserByID(id int) (*model.User, error)
	UserByUsername(username string) (*model.User, error)
	CreateUser(user *model.User) error
	UpdateUser(user *model.User) error
	DeleteUser(id int) error
}
