package gorm

import (
	"gorm.io/gorm"

	"github.com/kickshopping/kickshop/pkg/model"
	"github.com/kickshopping/kickshop/pkg/server/store"
)

// Ensure PurchasesStore implements store.PurchasesStore
var _ store.PurchasesStore = (*PurchasesStore)(nil)

// PurchasesStore implements store.PurchasesStore using GORM.
type PurchasesStore struct {
	db *gorm.DB
}

// NewPurchasesStore creates a new PurchasesStore.
func NewPurchasesStore(db *gorm.DB) *PurchasesStore {
	return &PurchasesStore{db: db}
}

// CreatePurchase stores the purchase with its items and clears the buyer's
// cart, all in one transaction.
func (s *PurchasesStore) CreatePurchase(purchase *model.Purchase) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		items := purchase.Items
		purchase.Items = nil
		if err := tx.Create(purchase).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].PurchaseID = purchase.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		purchase.Items = items

		return tx.Delete(&model.CartItem{}, "user_id = ?", purchase.UserID).Error
	})
}

func (s *PurchasesStore) PurchasesForUser(userID int) ([]model.Purchase, error) {
	var purchases []model.Purchase
	tx := s.db.Preload("Items").Where("user_id = ?", userID).Order("id").Find(&purchases)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return purchases, nil
}
