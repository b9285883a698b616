package model

import (
	"time"

	"gorm.io/gorm"
)

type Shift struct {
	ID         int64  `gorm:"primaryKey" json:"id"`
	Title      string `gorm:"type:varchar(100);not null" json:"title"`
	Date       time.Time `gorm:"type:date;not null;index" json:"date"`
	StartTime  string `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime    string `gorm:"type:varchar(5);not null" json:"end_time"`
	CalendarID int64  `gorm:"not null;index" json:"calendar_id"`
	UserID     *int64 `gorm:"index" json:"user_id"`
	TemplateID *int64 `gorm:"index" json:"template_id"`
	ShowTime   bool   `gorm:"default:true" json:"show_time"`
	ColorClass string `gorm:"type:varchar(20);not null;default:'badge-color-1'" json:"color_class"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	User     *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Calendar Calendar       `gorm:"foreignKey:CalendarID" json:"-"`
	Template *ShiftTemplate `gorm:"foreignKey:TemplateID" json:"-"`
}

// 解析"HH:MM"格式的时间，返回从零点起的偏移
func parseClock(s string) (time.Duration, bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, false
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, true
}

// Duration 计算班次时长。
// show_time=false的班次没有可用时长；end < start表示跨午夜，加24小时。
func (s *Shift) Duration() (time.Duration, bool) {
	if !s.ShowTime {
		return 0, false
	}
	start, ok := parseClock(s.StartTime)
	if !ok {
		return 0, false
	}
	end, ok := parseClock(s.EndTime)
	if !ok {
		return 0, false
	}
	if end < start {
		end += 24 * time.Hour
	}
	return end - start, true
}

// Hours 返回以小时为单位的时长，无效时为0
func (s *Shift) Hours() float64 {
	d, ok := s.Duration()
	if !ok {
		return 0
	}
	return d.Hours()
}
