package model

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusShipped, OrderStatusCancelled:
		return true
	}
	return false
}

// 終端（これ以上遷移できない）
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusShipped || s == OrderStatusCancelled
}

// 注文。TotalPriceは明細から計算した合計（セント）。
// 削除は物理削除で、明細もいっしょに消える。
type Order struct {
	ID         int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Status     OrderStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	TotalPrice int64       `gorm:"not null;default:0" json:"totalPrice"`
	CreatedAt  time.Time   `gorm:"not null;autoCreateTime" json:"createdAt"`
	Items      []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}
