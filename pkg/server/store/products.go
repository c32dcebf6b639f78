package store

import "github.com/kickshopping/kickshop/pkg/model"

// ProductsStore abstracts catalog storage operations.
type ProductsStore interface {
	ListProducts() ([]model.Product, error)
	ProductsByCategory(category string) ([]model.Product, error)
	ProductByID(id int) (*model.Product, error)
	CreateProduct(product *model.Product) error
	UpdateProduct(product *model.Product) error
	DeleteProduct(id int) error
}
