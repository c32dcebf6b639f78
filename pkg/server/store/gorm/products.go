package gorm

import (
	"errors"

	"gorm.io/gorm"

	"github.com/kickshopping/kickshop/pkg/model"
	"github.com/kickshopping/kickshop/pkg/server/store"
)

// Ensure ProductsStore implements store.ProductsStore
var _ store.ProductsStore = (*ProductsStore)(nil)

// ProductsStore implements store.ProductsStore using GORM.
type ProductsStore struct {
	db *gorm.DB
}

// NewProductsStore creates a new ProductsStore.
func NewProductsStore(db *gorm.DB) *ProductsStore {
	return &ProductsStore{db: db}
}

func (s *ProductsStore) ListProducts() ([]model.Product, error) {
	var products []model.Product
	if tx := s.db.Order("id").Find(&products); tx.Error != nil {
		return nil, tx.Error
	}
	return products, nil
}

func (s *ProductsStore) ProductsByCategory(category string) ([]model.Product, error) {
	var products []model.Product
	tx := s.db.Where("category = ?", category).Order("id").Find(&products)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return products, nil
}

func (s *ProductsStore) ProductByID(id int) (*model.Product, error) {
	var product model.Product
	tx := s.db.First(&product, "id = ?", id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, tx.Error
	}
	return &product, nil
}

func (s *ProductsStore) CreateProduct(product *model.Product) error {
	return s.db.Create(product).Error
}

func (s *ProductsStore) UpdateProduct(product *model.Product) error {
	return s.db.Save(product).Error
}

func (s *ProductsStore) DeleteProduct(id int) error {
	tx := s.db.Delete(&model.Product{}, "id = ?", id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
