package model

// Product is a catalog entry.
type Product struct {
	ID          int     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"column:name;index" json:"name"`
	Description string  `gorm:"column:description" json:"description,omitempty"`
	Price       float64 `gorm:"column:price" json:"price"`
	ImageURL    string  `gorm:"column:image_url" json:"image_url,omitempty"`
	Discount    float64 `gorm:"column:discount;default:0" json:"discount"`
	Category    string  `gorm:"column:category;index" json:"category,omitempty"`
}

func (Product) TableName() string {
	return "products"
}
