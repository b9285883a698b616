package repository

import (
	"errors"
	"go-shift-planner/internal/model"
	"go-shift-planner/pkg/db"
	"time"

	"gorm.io/gorm"
)

type ShiftRepository struct {
	db *gorm.DB
}

func NewShiftRepository() *ShiftRepository {
	return &ShiftRepository{db: db.DB}
}

// 保存新班次
func (r *ShiftRepository) Create(shift *model.Shift) error {
	return r.db.Create(shift).Error
}

func (r *ShiftRepository) Update(shift *model.Shift) error {
	return r.db.Save(shift).Error
}

func (r *ShiftRepository) Delete(shiftID int64) error {
	return r.db.Delete(&model.Shift{}, shiftID).Error
}

func (r *ShiftRepository) FindByID(shiftID int64) (*model.Shift, error) {
	var shift model.Shift
	err := r.db.Preload("User").First(&shift, shiftID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &shift, nil
}

// 查询一组日历在日期区间内的所有班次（两端含），预加载执行人和模板
func (r *ShiftRepository) FindInRange(calendarIDs []int64, start, end time.Time) ([]model.Shift, error) {
	var shifts []model.Shift
	if len(calendarIDs) == 0 {
		return shifts, nil
	}
	err := r.db.Where("calendar_id IN ? AND date >= ? AND date <= ?", calendarIDs, start, end).
		Order("date ASC, start_time ASC, id ASC").
		Preload("User").
		Preload("Template").
		Find(&shifts).Error
	return shifts, err
}

// 单个日历在日期区间内的班次
func (r *ShiftRepository) FindCalendarShifts(calendarID int64, start, end time.Time) ([]model.Shift, error) {
	return r.FindInRange([]int64{calendarID}, start, end)
}
