package model

import "time"

// 组成员。用户从日历中被移除后这里不会自动清理，
// 需要调用显式的prune操作。
type GroupMember struct {
	GroupID   int64 `gorm:"primaryKey;autoIncrement:false" json:"group_id"`
	UserID    int64 `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	Group Group `gorm:"foreignKey:GroupID" json:"-"`
	User  User  `gorm:"foreignKey:UserID" json:"user"`
}
