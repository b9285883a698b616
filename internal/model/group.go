package model

import (
	"time"

	"gorm.io/gorm"
)

type Group struct {
	ID         int64  `gorm:"primaryKey" json:"id"`
	Name       string `gorm:"type:varchar(100);not null" json:"name"`
	Color      string `gorm:"type:varchar(20);not null;default:'badge-color-1'" json:"color"`
	CalendarID int64  `gorm:"not null;index" json:"calendar_id"`
	OwnerID    int64  `gorm:"not null" json:"owner_id"`
	// 显示顺序，列表按position降序排列，新组排在最上面
	Position  int `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Calendar Calendar      `gorm:"foreignKey:CalendarID" json:"-"`
	Owner    User          `gorm:"foreignKey:OwnerID" json:"-"`
	Members  []GroupMember `gorm:"foreignKey:GroupID" json:"members,omitempty"`
}
