package model

import "time"

// 注文明細
// PriceAtPurchaseは注文時点の価格で、あとから変えない。
type OrderItem struct {
	ID              int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID         int64     `gorm:"not null;index" json:"orderId"`
	ProductID       int64     `gorm:"not null;index" json:"productId"`
	Quantity        int64     `gorm:"not null" json:"quantity"`
	PriceAtPurchase int64     `gorm:"not null" json:"priceAtPurchase"`
	CreatedAt       time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	Product         *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// 価格×数量。int64を超えるならok=false
func (i OrderItem) LineTotal() (int64, bool) {
	return MulAmount(i.PriceAtPurchase, i.Quantity)
}
