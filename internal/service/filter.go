package service

import (
	"encoding/json"
	"go-shift-planner/internal/model"
	"time"
)

// 时长分档
type DurationBucket string

const (
	DurationShort  DurationBucket = "short"  // <4h
	DurationMedium DurationBucket = "medium" // 4-8h（两端含）
	DurationLong   DurationBucket = "long"   // >8h
)

// FilterSpec 是封闭的过滤条件集合，所有字段可选，条件之间取AND。
// 班次类型统一匹配Shift.ColorClass：模板删除后班次自己的颜色仍然有效，
// 这是唯一在所有路径上都可靠的来源。
type FilterSpec struct {
	Users      []int64        `json:"users,omitempty"`
	ShiftTypes ShiftTypeList  `json:"shiftType,omitempty"`
	Duration   DurationBucket `json:"duration,omitempty"`
}

// ShiftTypeList 在JSON里既可以是单个字符串也可以是字符串数组
type ShiftTypeList []string

func (l *ShiftTypeList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = ShiftTypeList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = ShiftTypeList(many)
	return nil
}

func (f FilterSpec) IsZero() bool {
	return len(f.Users) == 0 && len(f.ShiftTypes) == 0 && f.Duration == ""
}

// Apply 过滤班次集合，只收窄不放宽
func (f FilterSpec) Apply(shifts []model.Shift) []model.Shift {
	if f.IsZero() {
		return shifts
	}

	userSet := make(map[int64]bool, len(f.Users))
	for _, id := range f.Users {
		userSet[id] = true
	}
	typeSet := make(map[string]bool, len(f.ShiftTypes))
	for _, t := range f.ShiftTypes {
		typeSet[t] = true
	}

	out := make([]model.Shift, 0, len(shifts))
	for _, s := range shifts {
		if len(userSet) > 0 {
			if s.UserID == nil || !userSet[*s.UserID] {
				continue
			}
		}
		if len(typeSet) > 0 && !typeSet[s.ColorClass] {
			continue
		}
		if f.Duration != "" {
			d, ok := s.Duration()
			// 没有可用时长的班次（show_time=false）不属于任何分档
			if !ok || bucketOf(d) != f.Duration {
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

func bucketOf(d time.Duration) DurationBucket {
	switch {
	case d < 4*time.Hour:
		return DurationShort
	case d <= 8*time.Hour:
		return DurationMedium
	default:
		return DurationLong
	}
}
