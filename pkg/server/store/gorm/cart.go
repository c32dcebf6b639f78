package gorm

import (
	"errors"

	"gorm.io/gorm"

	"github.com/kickshopping/kickshop/pkg/model"
	"github.com/kickshopping/kickshop/pkg/server/store"
)

// Ensure CartStore implements store.CartStore
var _ store.CartStore = (*CartStore)(nil)

// CartStore implements store.CartStore using GORM.
type CartStore struct {
	db *gorm.DB
}

// NewCartStore creates a new CartStore.
func NewCartStore(db *gorm.DB) *CartStore {
	return &CartStore{db: db}
}

func (s *CartStore) ListCartItems() ([]model.CartItem, error) {
	var items []model.CartItem
	if tx := s.db.Order("id").Find(&items); tx.Error != nil {
		return nil, tx.Error
	}
	return items, nil
}

func (s *CartStore) CartItemByID(id int) (*model.CartItem, error) {
	var item model.CartItem
	tx := s.db.First(&item, "id = ?", id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, tx.Error
	}
	return &item, nil
}

func (s *CartStore) CartForUser(userID int) ([]model.CartItem, error) {
	var items []model.CartItem
	tx := s.db.Preload("Product").Where("user_id = ?", userID).Order("id").Find(&items)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return items, nil
}

// AddCartItem inserts the item, or bumps the quantity when the user already
// has the product in their cart.
func (s *CartStore) AddCartItem(item *model.CartItem) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var existing model.CartItem
		err := tx.First(&existing, "user_id = ? AND product_id = ?", item.UserID, item.ProductID).Error
		if err == nil {
			existing.Quantity += item.Quantity
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			*item = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(item).Error
	})
}

func (s *CartStore) UpdateCartItem(item *model.CartItem) error {
	return s.db.Save(item).Error
}

func (s *CartStore) DeleteCartItem(id int) error {
	tx := s.db.Delete(&model.CartItem{}, "id = ?", id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *CartStore) ClearCart(userID int) error {
	return s.db.Delete(&model.CartItem{}, "user_id = ?", userID).Error
}
