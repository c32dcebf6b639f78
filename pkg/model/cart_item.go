package model

// CartItem links a user to a product with a quantity.
type CartItem struct {
	ID        int `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID    int `gorm:"column:user_id;index" json:"user_id"`
	ProductID int `gorm:"column:product_id;index" json:"product_id"`
	Quantity  int `gorm:"column:quantity;default:1" json:"quantity"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
