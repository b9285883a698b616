package repository

import (
	"errors"
	"fmt"
	"go-shift-planner/internal/model"
	"go-shift-planner/pkg/db"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// --- Test Setup ---

// setupScheduling initializes DB and registers cleanup for all scheduling tables.
func setupScheduling(t *testing.T) {
	setupTestDB(t)
	t.Cleanup(func() { cleanupSchedulingTables(t) })
	cleanupSchedulingTables(t)
}

func cleanupSchedulingTables(t *testing.T) {
	for _, m := range []interface{}{
		&model.Shift{}, &model.ShiftTemplate{}, &model.GroupMember{}, &model.Group{},
		&model.CalendarMember{}, &model.Calendar{},
	} {
		if err := db.DB.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(m).Error; err != nil {
			t.Logf("Warning: failed to cleanup table for %T: %v", m, err)
		}
	}
}

var nextTestUserID int64 = 20000000

// Helper to create test users with explicit 8-digit ids.
func createTestUser(t *testing.T, username string) *model.User {
	nextTestUserID++
	user := &model.User{
		ID:       nextTestUserID,
		Username: username,
		Password: "testpassword",
		Email:    fmt.Sprintf("%s@example.com", username),
	}
	require.NoError(t, NewUserRepository().Create(user), "Failed to create test user %s", username)
	return user
}

func createTestCalendar(t *testing.T, ownerID int64) *model.Calendar {
	calendar := &model.Calendar{Name: "Test Calendar", OwnerID: ownerID, IsTeam: true}
	require.NoError(t, NewCalendarRepository().Create(calendar))
	return calendar
}

// --- Tests ---

func TestMemberRepository_AddMembersAssignsSequentialPositions(t *testing.T) {
	setupScheduling(t)
	owner := createTestUser(t, "posOwner")
	a := createTestUser(t, "posA")
	b := createTestUser(t, "posB")
	c := createTestUser(t, "posC")
	calendar := createTestCalendar(t, owner.ID)

	repo := NewMemberRepository()
	require.NoError(t, repo.AddMembers(calendar.ID, []int64{a.ID, b.ID}))

	members, err := repo.ListMembers(calendar.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	// 先提交的拿到较小的position，排在已有成员之后
	assert.Equal(t, a.ID, members[0].UserID)
	assert.Equal(t, 1, members[0].Position)
	assert.Equal(t, b.ID, members[1].UserID)
	assert.Equal(t, 2, members[1].Position)

	// 再加一个从当前最大值继续
	require.NoError(t, repo.AddMembers(calendar.ID, []int64{c.ID}))
	members, err = repo.ListMembers(calendar.ID)
	require.NoError(t, err)
	require.Len(t, members, 3)
	assert.Equal(t, c.ID, members[2].UserID)
	assert.Equal(t, 3, members[2].Position)
}

func TestMemberRepository_PositionsUniqueAfterAddAndReorder(t *testing.T) {
	setupScheduling(t)
	owner := createTestUser(t, "uniqOwner")
	calendar := createTestCalendar(t, owner.ID)
	repo := NewMemberRepository()

	var ids []int64
	for i := 0; i < 5; i++ {
		u := createTestUser(t, fmt.Sprintf("uniqMember%d", i))
		ids = append(ids, u.ID)
	}
	require.NoError(t, repo.AddMembers(calendar.ID, ids))

	require.NoError(t, repo.ReorderMembers(calendar.ID, map[int64]int{
		ids[0]: 5, ids[1]: 4, ids[2]: 3, ids[3]: 2, ids[4]: 1,
	}))

	members, err := repo.ListMembers(calendar.ID)
	require.NoError(t, err)
	require.Len(t, members, 5)

	seen := make(map[int]bool)
	for _, m := range members {
		assert.False(t, seen[m.Position], "duplicate position %d", m.Position)
		seen[m.Position] = true
		// 所有者永远不在position表里
		assert.NotEqual(t, owner.ID, m.UserID)
	}
	// 重排后逆序
	assert.Equal(t, ids[4], members[0].UserID)
	assert.Equal(t, ids[0], members[4].UserID)
}

func TestMemberRepository_ReorderRejectsNonMemberAtomically(t *testing.T) {
	setupScheduling(t)
	owner := createTestUser(t, "atomOwner")
	a := createTestUser(t, "atomA")
	b := createTestUser(t, "atomB")
	outsider := createTestUser(t, "atomOutsider")
	calendar := createTestCalendar(t, owner.ID)

	repo := NewMemberRepository()
	require.NoError(t, repo.AddMembers(calendar.ID, []int64{a.ID, b.ID}))

	// 映射里混入非成员，整体失败
	err := repo.ReorderMembers(calendar.ID, map[int64]int{
		a.ID:       9,
		outsider.ID: 10,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidMember))

	// 没有部分更新：a的position还是1
	members, err := repo.ListMembers(calendar.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, members[0].UserID)
	assert.Equal(t, 1, members[0].Position)
}

func TestMemberRepository_ListOrderTieBreakByUserID(t *testing.T) {
	setupScheduling(t)
	owner := createTestUser(t, "tieOwner")
	a := createTestUser(t, "tieA")
	b := createTestUser(t, "tieB")
	calendar := createTestCalendar(t, owner.ID)

	repo := NewMemberRepository()
	require.NoError(t, repo.AddMembers(calendar.ID, []int64{a.ID, b.ID}))
	// 人为制造相同position
	require.NoError(t, repo.ReorderMembers(calendar.ID, map[int64]int{a.ID: 7, b.ID: 7}))

	members, err := repo.ListMembers(calendar.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	// 相同position按user_id升序
	assert.Equal(t, min64(a.ID, b.ID), members[0].UserID)
}

func TestMemberRepository_RemoveMemberDeletesShiftsButNotGroupRows(t *testing.T) {
	setupScheduling(t)
	owner := createTestUser(t, "rmOwner")
	member := createTestUser(t, "rmMember")
	calendar := createTestCalendar(t, owner.ID)

	memberRepo := NewMemberRepository()
	require.NoError(t, memberRepo.AddMembers(calendar.ID, []int64{member.ID}))

	groupRepo := NewGroupRepository()
	group := &model.Group{Name: "Crew", CalendarID: calendar.ID, OwnerID: owner.ID}
	require.NoError(t, groupRepo.Create(group))
	require.NoError(t, groupRepo.AddMember(group.ID, member.ID))

	shift := &model.Shift{
		Title: "Day", Date: time.Date(2025, 8, 4, 0, 0, 0, 0, time.UTC),
		StartTime: "09:00", EndTime: "17:00",
		CalendarID: calendar.ID, UserID: &member.ID, ShowTime: true, ColorClass: "badge-color-1",
	}
	require.NoError(t, NewShiftRepository().Create(shift))

	require.NoError(t, memberRepo.RemoveMember(calendar.ID, member.ID))

	// 班次被删除
	found, err := NewShiftRepository().FindByID(shift.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	// 组成员行保留（需要显式prune）
	groupAfter, err := groupRepo.FindByID(group.ID)
	require.NoError(t, err)
	require.NotNil(t, groupAfter)
	require.Len(t, groupAfter.Members, 1)

	// 显式prune之后才清理
	require.NoError(t, groupRepo.PruneStaleMembers(calendar.ID))
	groupAfter, err = groupRepo.FindByID(group.ID)
	require.NoError(t, err)
	assert.Empty(t, groupAfter.Members)
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
