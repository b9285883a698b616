package model

import (
	"time"

	"gorm.io/gorm"
)

type ShiftTemplate struct {
	ID         int64  `gorm:"primaryKey" json:"id"`
	Title      string `gorm:"type:varchar(100);not null" json:"title"`
	StartTime  string `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime    string `gorm:"type:varchar(5);not null" json:"end_time"`
	CalendarID int64  `gorm:"not null;index" json:"calendar_id"`
	OwnerID    int64  `gorm:"not null" json:"owner_id"`
	ShowTime   bool   `gorm:"default:true" json:"show_time"`
	ColorClass string `gorm:"type:varchar(20);not null;default:'badge-color-1'" json:"color_class"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Calendar Calendar `gorm:"foreignKey:CalendarID" json:"-"`
	Owner    User     `gorm:"foreignKey:OwnerID" json:"-"`
}
