package repository

import (
	"go-shift-planner/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateRepository_DeleteWithDetach(t *testing.T) {
	setupScheduling(t)
	owner := createTestUser(t, "tplOwner")
	calendar := createTestCalendar(t, owner.ID)

	tplRepo := NewTemplateRepository()
	template := &model.ShiftTemplate{
		Title: "Night shift", StartTime: "22:00", EndTime: "06:00",
		CalendarID: calendar.ID, OwnerID: owner.ID,
		ShowTime: true, ColorClass: "badge-color-4",
	}
	require.NoError(t, tplRepo.Create(template))

	shiftRepo := NewShiftRepository()
	shift := &model.Shift{
		Title: "Night shift", Date: time.Date(2025, 8, 4, 0, 0, 0, 0, time.UTC),
		StartTime: "22:00", EndTime: "06:00",
		CalendarID: calendar.ID, TemplateID: &template.ID,
		ShowTime: true, ColorClass: "badge-color-1",
	}
	require.NoError(t, shiftRepo.Create(shift))

	require.NoError(t, tplRepo.DeleteWithDetach(template.ID))

	// 模板没了
	gone, err := tplRepo.FindByID(template.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	// 班次还在：template_id清空，color_class继承模板删除时的值
	detached, err := shiftRepo.FindByID(shift.ID)
	require.NoError(t, err)
	require.NotNil(t, detached)
	assert.Nil(t, detached.TemplateID)
	assert.Equal(t, "badge-color-4", detached.ColorClass)
}

func TestCalendarRepository_DeleteCascades(t *testing.T) {
	setupScheduling(t)
	owner := createTestUser(t, "cascOwner")
	member := createTestUser(t, "cascMember")
	calRepo := NewCalendarRepository()
	calendar := createTestCalendar(t, owner.ID)

	require.NoError(t, NewMemberRepository().AddMembers(calendar.ID, []int64{member.ID}))

	groupRepo := NewGroupRepository()
	group := &model.Group{Name: "Crew", CalendarID: calendar.ID, OwnerID: owner.ID}
	require.NoError(t, groupRepo.Create(group))
	require.NoError(t, groupRepo.AddMember(group.ID, member.ID))

	template := &model.ShiftTemplate{
		Title: "Day", StartTime: "09:00", EndTime: "17:00",
		CalendarID: calendar.ID, OwnerID: owner.ID, ShowTime: true,
	}
	require.NoError(t, NewTemplateRepository().Create(template))

	shift := &model.Shift{
		Title: "Day", Date: time.Date(2025, 8, 4, 0, 0, 0, 0, time.UTC),
		StartTime: "09:00", EndTime: "17:00",
		CalendarID: calendar.ID, UserID: &member.ID, ShowTime: true,
	}
	require.NoError(t, NewShiftRepository().Create(shift))

	require.NoError(t, calRepo.Delete(calendar.ID))

	deleted, err := calRepo.FindByID(calendar.ID)
	require.NoError(t, err)
	assert.Nil(t, deleted)

	goneShift, err := NewShiftRepository().FindByID(shift.ID)
	require.NoError(t, err)
	assert.Nil(t, goneShift)

	goneTpl, err := NewTemplateRepository().FindByID(template.ID)
	require.NoError(t, err)
	assert.Nil(t, goneTpl)

	goneGroup, err := groupRepo.FindByID(group.ID)
	require.NoError(t, err)
	assert.Nil(t, goneGroup)

	members, err := NewMemberRepository().ListMembers(calendar.ID)
	require.NoError(t, err)
	assert.Empty(t, members)
}
