package repository

import (
	"errors"
	"go-shift-planner/internal/model"
	"go-shift-planner/pkg/db"

	"gorm.io/gorm"
)

// 过滤掉无效id之后重排列表为空
var ErrEmptyGroupOrder = errors.New("group order contains no valid group ids")

type GroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository() *GroupRepository {
	return &GroupRepository{db: db.DB}
}

// 创建新组，position = 当前最大值+1，按降序排列时新组显示在最上面
func (r *GroupRepository) Create(group *model.Group) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var maxPos struct{ Max int }
		err := tx.Model(&model.Group{}).
			Select("COALESCE(MAX(position), 0) AS max").
			Where("calendar_id = ?", group.CalendarID).
			Scan(&maxPos).Error
		if err != nil {
			return err
		}
		group.Position = maxPos.Max + 1
		return tx.Create(group).Error
	})
}

// 根据ID查找组，并预加载成员信息
func (r *GroupRepository) FindByID(groupID int64) (*model.Group, error) {
	var group model.Group
	err := r.db.Preload("Members").Preload("Members.User").First(&group, groupID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // group not found
		}
		return nil, err
	}
	return &group, nil
}

// 日历的全部组：position降序，相同position按id降序，新组在前
func (r *GroupRepository) FindCalendarGroups(calendarID int64) ([]model.Group, error) {
	var groups []model.Group
	err := r.db.Where("calendar_id = ?", calendarID).
		Order("position DESC, id DESC").
		Preload("Members").
		Preload("Members.User").
		Find(&groups).Error
	return groups, err
}

// 更新组的名称和颜色
func (r *GroupRepository) Update(group *model.Group) error {
	return r.db.Model(group).Updates(map[string]interface{}{
		"name":  group.Name,
		"color": group.Color,
	}).Error
}

// 删除组及其成员行
func (r *GroupRepository) Delete(groupID int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", groupID).Delete(&model.GroupMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Group{}, groupID).Error
	})
}

// 按从上到下的顺序重排组。不属于该日历的id和重复id被丢弃；
// 列表第一个元素得到最高position（=列表长度），依次递减到1。
func (r *GroupRepository) ReorderGroups(calendarID int64, order []int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing []int64
		if err := tx.Model(&model.Group{}).Where("calendar_id = ?", calendarID).Pluck("id", &existing).Error; err != nil {
			return err
		}
		valid := make(map[int64]bool, len(existing))
		for _, id := range existing {
			valid[id] = true
		}

		// 去重并丢弃无效id，保留首次出现的顺序
		seen := make(map[int64]bool, len(order))
		cleaned := make([]int64, 0, len(order))
		for _, id := range order {
			if !valid[id] || seen[id] {
				continue
			}
			seen[id] = true
			cleaned = append(cleaned, id)
		}
		if len(cleaned) == 0 {
			return ErrEmptyGroupOrder
		}

		for i, id := range cleaned {
			pos := len(cleaned) - i
			if err := tx.Model(&model.Group{}).Where("id = ?", id).Update("position", pos).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// 将用户添加到组
func (r *GroupRepository) AddMember(groupID, userID int64) error {
	member := model.GroupMember{GroupID: groupID, UserID: userID}
	return r.db.Where(member).FirstOrCreate(&member).Error
}

// 将用户从组中移除
func (r *GroupRepository) RemoveMember(groupID, userID int64) error {
	return r.db.Where("group_id = ? AND user_id = ?", groupID, userID).Delete(&model.GroupMember{}).Error
}

// 清理组里已经不属于日历的成员。
// 成员从日历移除时不自动清理，由这里显式处理。
func (r *GroupRepository) PruneStaleMembers(calendarID int64) error {
	return r.db.Exec("DELETE FROM group_members WHERE group_id IN ("+
		"SELECT id FROM `groups` WHERE calendar_id = ?"+
		") AND user_id NOT IN ("+
		"SELECT user_id FROM calendar_members WHERE calendar_id = ?)",
		calendarID, calendarID).Error
}
