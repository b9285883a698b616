package repository

import (
	"errors"
	"go-shift-planner/internal/model"
	"go-shift-planner/pkg/db"

	"gorm.io/gorm"
)

type CalendarRepository struct {
	db *gorm.DB
}

func NewCalendarRepository() *CalendarRepository {
	return &CalendarRepository{db: db.DB}
}

// 新建日历
func (r *CalendarRepository) Create(calendar *model.Calendar) error {
	return r.db.Create(calendar).Error
}

// 根据ID查找日历，并预加载所有者和成员信息
func (r *CalendarRepository) FindByID(calendarID int64) (*model.Calendar, error) {
	var calendar model.Calendar
	err := r.db.Preload("Owner").Preload("Members").Preload("Members.User").First(&calendar, calendarID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // calendar not found
		}
		return nil, err
	}
	return &calendar, nil
}

// 查找用户拥有或加入的所有日历
func (r *CalendarRepository) FindUserCalendars(userID int64) ([]model.Calendar, error) {
	var calendars []model.Calendar
	err := r.db.
		Joins("LEFT JOIN calendar_members ON calendar_members.calendar_id = calendars.id").
		Where("calendars.owner_id = ? OR calendar_members.user_id = ?", userID, userID).
		Group("calendars.id").
		Preload("Owner").
		Order("calendars.created_at DESC").
		Find(&calendars).Error
	return calendars, err
}

// 判断用户是否是日历成员（不含所有者）
func (r *CalendarRepository) IsMember(calendarID, userID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.CalendarMember{}).
		Where("calendar_id = ? AND user_id = ?", calendarID, userID).
		Count(&count).Error
	return count > 0, err
}

// 删除日历并级联删除班次、模板、组和成员行（同一事务）
func (r *CalendarRepository) Delete(calendarID int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("calendar_id = ?", calendarID).Delete(&model.Shift{}).Error; err != nil {
			return err
		}
		if err := tx.Where("calendar_id = ?", calendarID).Delete(&model.ShiftTemplate{}).Error; err != nil {
			return err
		}
		var groupIDs []int64
		if err := tx.Model(&model.Group{}).Where("calendar_id = ?", calendarID).Pluck("id", &groupIDs).Error; err != nil {
			return err
		}
		if len(groupIDs) > 0 {
			if err := tx.Where("group_id IN ?", groupIDs).Delete(&model.GroupMember{}).Error; err != nil {
				return err
			}
			if err := tx.Where("calendar_id = ?", calendarID).Delete(&model.Group{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("calendar_id = ?", calendarID).Delete(&model.CalendarMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Calendar{}, calendarID).Error
	})
}
