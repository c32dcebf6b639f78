package store

import "github.com/kickshopping/kickshop/pkg/model"

// PurchasesStore abstracts purchase storage operations.
type PurchasesStore interface {
	// CreatePurchase stores the purchase with its items and clears the
	// buyer's cart in the same transaction.
	CreatePurchase(purchase *model.Purchase) error
	PurchasesForUser(userID int) ([]model.Purchase, error)
}
