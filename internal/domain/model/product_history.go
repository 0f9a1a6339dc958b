package model

import "time"

type HistoryType string

const (
	//入荷・キャンセルでの戻し
	HistoryTypeArrival HistoryType = "arrival"
	//出荷（注文）
	HistoryTypeDeparture HistoryType = "departure"
)

// 在庫の増減履歴。追記のみ。
type ProductHistory struct {
	ID        int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64       `gorm:"not null;index" json:"productId"`
	Type      HistoryType `gorm:"type:varchar(20);not null" json:"type"`
	Quantity  int64       `gorm:"not null" json:"quantity"`
	Timestamp time.Time   `gorm:"not null;autoCreateTime;index" json:"timestamp"`
	Product   *Product    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
}

func (ProductHistory) TableName() string {
	return "product_history"
}
