package model

import (
	"time"

	"gorm.io/gorm"
)

type Calendar struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"type:varchar(100);not null" json:"name"`
	OwnerID   int64  `gorm:"not null;index" json:"owner_id"`
	IsTeam    bool   `gorm:"default:false" json:"is_team"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Owner   User             `gorm:"foreignKey:OwnerID" json:"owner"`
	Members []CalendarMember `gorm:"foreignKey:CalendarID" json:"members,omitempty"`
}

// 日历成员及其显示顺序。
// 日历所有者永远不在这张表里，列表中始终排在第一位（相当于position 0）。
type CalendarMember struct {
	CalendarID int64 `gorm:"primaryKey;autoIncrement:false" json:"calendar_id"`
	UserID     int64 `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	Position   int   `gorm:"not null;default:0" json:"position"`
	CreatedAt  time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user"`
}
