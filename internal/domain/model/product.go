package model

import (
	"time"

	"gorm.io/gorm"
)

type Category string

const (
	CategoryElectronics Category = "Electronics"
	CategoryClothing    Category = "Clothing"
	CategoryBooks       Category = "Books"
	CategoryHomeGoods   Category = "Home Goods"
)

// 管理画面で選べるカテゴリ（表示順）
var Categories = []Category{
	CategoryElectronics,
	CategoryClothing,
	CategoryBooks,
	CategoryHomeGoods,
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// 商品。priceはセント単位の整数。
// DeletedAtが入っているものは論理削除済み。
type Product struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	Supply    int64          `gorm:"not null;default:0" json:"supply"`
	Price     int64          `gorm:"not null;default:0;index" json:"price"`
	Category  Category       `gorm:"type:varchar(32);not null;index" json:"category"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt"`
}
