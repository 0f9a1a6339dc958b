package model

import "time"

// 管理者。ログインにだけ使う。
type Admin struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Email          string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	HashedPassword string    `gorm:"column:hashed_password;not null" json:"-"`
	CreatedAt      time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
