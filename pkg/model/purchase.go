package model

import "time"

// Purchase is a finalized cart snapshot. The ticket is the public receipt
// identifier handed to the buyer.
type Purchase struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Ticket    string    `gorm:"column:ticket;size:36;not null;uniqueIndex" json:"ticket"`
	UserID    int       `gorm:"column:user_id;index;not null" json:"user_id"`
	Total     float64   `gorm:"column:total;not null" json:"total"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Items []PurchaseItem `gorm:"foreignKey:PurchaseID" json:"items,omitempty"`
}

func (Purchase) TableName() string {
	return "purchases"
}

// PurchaseItem is one line of a purchase, priced at checkout time.
type PurchaseItem struct {
	ID         int     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PurchaseID int     `gorm:"column:purchase_id;index;not null" json:"purchase_id"`
	ProductID  int     `gorm:"column:product_id;not null" json:"product_id"`
	Quantity   int     `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice  float64 `gorm:"column:unit_price;not null" json:"unit_price"`
}

func (PurchaseItem) TableName() string {
	return "purchase_items"
}
