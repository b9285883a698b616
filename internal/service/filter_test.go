package service

import (
	"encoding/json"
	"go-shift-planner/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ptr(v int64) *int64 { return &v }

func testShifts() []model.Shift {
	return []model.Shift{
		{ID: 1, Title: "Morning", StartTime: "06:00", EndTime: "09:00", ShowTime: true, UserID: ptr(101), ColorClass: "badge-color-1", Date: date(2025, time.August, 4)},
		{ID: 2, Title: "Day", StartTime: "09:00", EndTime: "17:00", ShowTime: true, UserID: ptr(102), ColorClass: "badge-color-2", Date: date(2025, time.August, 4)},
		{ID: 3, Title: "Night", StartTime: "22:00", EndTime: "08:00", ShowTime: true, UserID: ptr(101), ColorClass: "badge-color-3", Date: date(2025, time.August, 5)},
		{ID: 4, Title: "On call", StartTime: "00:00", EndTime: "00:00", ShowTime: false, UserID: ptr(103), ColorClass: "badge-color-1", Date: date(2025, time.August, 6)},
		{ID: 5, Title: "Unassigned", StartTime: "10:00", EndTime: "13:00", ShowTime: true, UserID: nil, ColorClass: "badge-color-2", Date: date(2025, time.August, 7)},
	}
}

func shiftIDs(shifts []model.Shift) []int64 {
	ids := make([]int64, 0, len(shifts))
	for _, s := range shifts {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestFilterSpec_Empty(t *testing.T) {
	shifts := testShifts()
	out := FilterSpec{}.Apply(shifts)
	assert.Len(t, out, len(shifts))
}

func TestFilterSpec_Users(t *testing.T) {
	out := FilterSpec{Users: []int64{101}}.Apply(testShifts())
	assert.Equal(t, []int64{1, 3}, shiftIDs(out))

	// 未分配的班次永远不匹配users过滤
	out = FilterSpec{Users: []int64{101, 102, 103}}.Apply(testShifts())
	assert.NotContains(t, shiftIDs(out), int64(5))
}

func TestFilterSpec_ShiftType(t *testing.T) {
	out := FilterSpec{ShiftTypes: ShiftTypeList{"badge-color-2"}}.Apply(testShifts())
	assert.Equal(t, []int64{2, 5}, shiftIDs(out))
}

func TestFilterSpec_Duration(t *testing.T) {
	// short: <4h
	out := FilterSpec{Duration: DurationShort}.Apply(testShifts())
	assert.Equal(t, []int64{1, 5}, shiftIDs(out))

	// medium: 4-8h两端含，8小时的班次算medium
	out = FilterSpec{Duration: DurationMedium}.Apply(testShifts())
	assert.Equal(t, []int64{2}, shiftIDs(out))

	// long: >8h，22:00-08:00跨午夜是10小时
	out = FilterSpec{Duration: DurationLong}.Apply(testShifts())
	assert.Equal(t, []int64{3}, shiftIDs(out))
}

func TestFilterSpec_DurationExcludesHiddenTime(t *testing.T) {
	// show_time=false没有可用时长，任何分档都不包含它
	for _, bucket := range []DurationBucket{DurationShort, DurationMedium, DurationLong} {
		out := FilterSpec{Duration: bucket}.Apply(testShifts())
		assert.NotContains(t, shiftIDs(out), int64(4))
	}
}

func TestFilterSpec_Compose(t *testing.T) {
	// 条件之间是AND
	out := FilterSpec{Users: []int64{101}, Duration: DurationLong}.Apply(testShifts())
	assert.Equal(t, []int64{3}, shiftIDs(out))

	out = FilterSpec{Users: []int64{101}, ShiftTypes: ShiftTypeList{"badge-color-2"}}.Apply(testShifts())
	assert.Empty(t, out)
}

func TestShiftTypeList_Unmarshal(t *testing.T) {
	// shiftType在JSON里既可以是单个字符串也可以是数组
	var spec FilterSpec
	assert.NoError(t, json.Unmarshal([]byte(`{"shiftType":"badge-color-2"}`), &spec))
	assert.Equal(t, ShiftTypeList{"badge-color-2"}, spec.ShiftTypes)

	spec = FilterSpec{}
	assert.NoError(t, json.Unmarshal([]byte(`{"shiftType":["badge-color-1","badge-color-3"]}`), &spec))
	assert.Equal(t, ShiftTypeList{"badge-color-1", "badge-color-3"}, spec.ShiftTypes)

	spec = FilterSpec{}
	assert.Error(t, json.Unmarshal([]byte(`{"shiftType":42}`), &spec))
}

func TestBucketBoundaries(t *testing.T) {
	assert.Equal(t, DurationShort, bucketOf(3*time.Hour+59*time.Minute))
	assert.Equal(t, DurationMedium, bucketOf(4*time.Hour))
	assert.Equal(t, DurationMedium, bucketOf(8*time.Hour))
	assert.Equal(t, DurationLong, bucketOf(8*time.Hour+1*time.Minute))
}
