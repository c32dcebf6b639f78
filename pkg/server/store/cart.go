package store

import "github.com/kickshopping/kickshop/pkg/model"

// CartStore abstracts cart storage operations.
type CartStore interface {
	ListCartItems() ([]model.CartItem, error)
	CartItemByID(id int) (*model.CartItem, error)
	// CartForUser returns the user's items with products preloaded.
	CartForUser(userID int) ([]model.CartItem, error)

	// AddCartItem inserts the item, or increments the quantity when the
	// user already has the product in their cart.
	AddCartItem(item *model.CartItem) error
	UpdateCartItem(item *model.CartItem) error
	DeleteCartItem(id int) error
	// ClearCart removes every item for the user.
	ClearCart(userID int) error
}
