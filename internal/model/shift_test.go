package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShiftDuration(t *testing.T) {
	shift := &Shift{StartTime: "09:00", EndTime: "17:00", ShowTime: true}
	d, ok := shift.Duration()
	assert.True(t, ok)
	assert.Equal(t, 8*time.Hour, d)
	assert.Equal(t, 8.0, shift.Hours())
}

func TestShiftDuration_CrossesMidnight(t *testing.T) {
	// 22:00-02:00 跨午夜，应该是4小时而不是负数
	shift := &Shift{StartTime: "22:00", EndTime: "02:00", ShowTime: true}
	d, ok := shift.Duration()
	assert.True(t, ok)
	assert.Equal(t, 4*time.Hour, d)
}

func TestShiftDuration_HalfHours(t *testing.T) {
	shift := &Shift{StartTime: "08:30", EndTime: "12:15", ShowTime: true}
	d, ok := shift.Duration()
	assert.True(t, ok)
	assert.Equal(t, 3*time.Hour+45*time.Minute, d)
}

func TestShiftDuration_HiddenTime(t *testing.T) {
	// show_time=false的班次不参与时长计算
	shift := &Shift{StartTime: "09:00", EndTime: "17:00", ShowTime: false}
	_, ok := shift.Duration()
	assert.False(t, ok)
	assert.Equal(t, 0.0, shift.Hours())
}

func TestShiftDuration_Malformed(t *testing.T) {
	shift := &Shift{StartTime: "not-a-time", EndTime: "17:00", ShowTime: true}
	_, ok := shift.Duration()
	assert.False(t, ok)
}
