package repository

import (
	"errors"
	"go-shift-planner/internal/model"
	"go-shift-planner/pkg/db"

	"gorm.io/gorm"
)

// 成员position映射中包含不存在的成员时整个重排中止
var ErrInvalidMember = errors.New("invalid member in position map")

// MemberRepository 维护日历成员及其显示顺序
type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository() *MemberRepository {
	return &MemberRepository{db: db.DB}
}

// 按顺序列出日历成员：position升序，相同position按user_id升序。
// 所有者不在表里，由Service层排在最前面。
func (r *MemberRepository) ListMembers(calendarID int64) ([]model.CalendarMember, error) {
	var members []model.CalendarMember
	err := r.db.Where("calendar_id = ?", calendarID).
		Order("position ASC, user_id ASC").
		Preload("User").
		Find(&members).Error
	return members, err
}

// 查找单个成员行
func (r *MemberRepository) FindMember(calendarID, userID int64) (*model.CalendarMember, error) {
	var member model.CalendarMember
	err := r.db.Where("calendar_id = ? AND user_id = ?", calendarID, userID).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

// 批量添加成员，按提交顺序依次分配 max+1..max+N 的position。
// 已经存在的成员保持原position不变。
func (r *MemberRepository) AddMembers(calendarID int64, userIDs []int64) error {
	if len(userIDs) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		maxPos, err := maxMemberPosition(tx, calendarID)
		if err != nil {
			return err
		}
		next := maxPos
		for _, userID := range userIDs {
			var count int64
			if err := tx.Model(&model.CalendarMember{}).
				Where("calendar_id = ? AND user_id = ?", calendarID, userID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			next++
			member := model.CalendarMember{
				CalendarID: calendarID,
				UserID:     userID,
				Position:   next,
			}
			if err := tx.Create(&member).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// 重排成员顺序。映射中的每个user_id都必须已经是成员，
// 否则整个操作中止，不做部分更新。
func (r *MemberRepository) ReorderMembers(calendarID int64, positions map[int64]int) error {
	if len(positions) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		for userID := range positions {
			var count int64
			if err := tx.Model(&model.CalendarMember{}).
				Where("calendar_id = ? AND user_id = ?", calendarID, userID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrInvalidMember
			}
		}
		for userID, pos := range positions {
			if err := tx.Model(&model.CalendarMember{}).
				Where("calendar_id = ? AND user_id = ?", calendarID, userID).
				Update("position", pos).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// 移除成员并删除该成员在此日历中的所有班次。
// 组成员行不在这里清理，见 GroupRepository.PruneStaleMembers。
func (r *MemberRepository) RemoveMember(calendarID, userID int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("calendar_id = ? AND user_id = ?", calendarID, userID).
			Delete(&model.Shift{}).Error; err != nil {
			return err
		}
		return tx.Where("calendar_id = ? AND user_id = ?", calendarID, userID).
			Delete(&model.CalendarMember{}).Error
	})
}

func maxMemberPosition(tx *gorm.DB, calendarID int64) (int, error) {
	var maxPos struct{ Max int }
	err := tx.Model(&model.CalendarMember{}).
		Select("COALESCE(MAX(position), 0) AS max").
		Where("calendar_id = ?", calendarID).
		Scan(&maxPos).Error
	return maxPos.Max, err
}
