package service

import (
	"errors"
	"go-shift-planner/internal/model"
	"go-shift-planner/internal/repository"
	"go-shift-planner/pkg/logger"
	"sync"
	"time"

	"go.uber.org/zap"
)

// calendarLocks 为每个日历保存一把锁：并发的重排请求是读-改-写序列，
// 必须互斥执行才不会产生重复position。
var (
	calendarLocks   = make(map[int64]*sync.Mutex)
	calendarLocksMu sync.Mutex
)

func lockCalendar(calendarID int64) *sync.Mutex {
	calendarLocksMu.Lock()
	mu, ok := calendarLocks[calendarID]
	if !ok {
		mu = &sync.Mutex{}
		calendarLocks[calendarID] = mu
	}
	calendarLocksMu.Unlock()
	mu.Lock()
	return mu
}

// CalendarService 处理日历、成员顺序、组和模板的业务逻辑
type CalendarService struct {
	calendarRepo *repository.CalendarRepository
	memberRepo   *repository.MemberRepository
	groupRepo    *repository.GroupRepository
	shiftRepo    *repository.ShiftRepository
	templateRepo *repository.TemplateRepository
	friendRepo   *repository.FriendRepository
}

func NewCalendarService(
	calendarRepo *repository.CalendarRepository,
	memberRepo *repository.MemberRepository,
	groupRepo *repository.GroupRepository,
	shiftRepo *repository.ShiftRepository,
	templateRepo *repository.TemplateRepository,
	friendRepo *repository.FriendRepository,
) *CalendarService {
	return &CalendarService{
		calendarRepo: calendarRepo,
		memberRepo:   memberRepo,
		groupRepo:    groupRepo,
		shiftRepo:    shiftRepo,
		templateRepo: templateRepo,
		friendRepo:   friendRepo,
	}
}

// 成员列表里的一项。所有者永远排在第一位，相当于position 0。
type CalendarMemberView struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Position int    `json:"position"`
	IsOwner  bool   `json:"is_owner"`
}

// --- 访问检查 ---

// 日历必须存在且由userID拥有
func (s *CalendarService) requireOwner(calendarID, userID int64) (*model.Calendar, error) {
	calendar, err := s.calendarRepo.FindByID(calendarID)
	if err != nil {
		return nil, err
	}
	if calendar == nil {
		return nil, ErrNotFound
	}
	if calendar.OwnerID != userID {
		return nil, ErrAccessDenied
	}
	return calendar, nil
}

// 日历必须存在且userID是所有者或成员
func (s *CalendarService) requireAccess(calendarID, userID int64) (*model.Calendar, error) {
	calendar, err := s.calendarRepo.FindByID(calendarID)
	if err != nil {
		return nil, err
	}
	if calendar == nil {
		return nil, ErrNotFound
	}
	if calendar.OwnerID == userID {
		return calendar, nil
	}
	isMember, err := s.calendarRepo.IsMember(calendarID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrAccessDenied
	}
	return calendar, nil
}

// --- 日历 ---

func (s *CalendarService) CreateCalendar(ownerID int64, name string, isTeam bool) (*model.Calendar, error) {
	calendar := &model.Calendar{
		Name:    name,
		OwnerID: ownerID,
		IsTeam:  isTeam,
	}
	if err := s.calendarRepo.Create(calendar); err != nil {
		return nil, err
	}
	return calendar, nil
}

func (s *CalendarService) GetCalendar(calendarID, userID int64) (*model.Calendar, error) {
	return s.requireAccess(calendarID, userID)
}

func (s *CalendarService) ListCalendars(userID int64) ([]model.Calendar, error) {
	return s.calendarRepo.FindUserCalendars(userID)
}

// 删除日历，级联删除全部班次、模板、组和成员行
func (s *CalendarService) DeleteCalendar(calendarID, userID int64) error {
	if _, err := s.requireOwner(calendarID, userID); err != nil {
		return err
	}
	return s.calendarRepo.Delete(calendarID)
}

// --- 成员顺序 ---

// 列出日历成员：所有者第一，其余按position升序，相同position按user_id升序
func (s *CalendarService) ListMembers(calendarID, userID int64) ([]CalendarMemberView, error) {
	calendar, err := s.requireAccess(calendarID, userID)
	if err != nil {
		return nil, err
	}
	members, err := s.memberRepo.ListMembers(calendarID)
	if err != nil {
		return nil, err
	}

	views := make([]CalendarMemberView, 0, len(members)+1)
	views = append(views, CalendarMemberView{
		UserID:   calendar.OwnerID,
		Username: calendar.Owner.Username,
		Avatar:   calendar.Owner.Avatar,
		Position: 0,
		IsOwner:  true,
	})
	for _, m := range members {
		views = append(views, CalendarMemberView{
			UserID:   m.UserID,
			Username: m.User.Username,
			Avatar:   m.User.Avatar,
			Position: m.Position,
		})
	}
	return views, nil
}

// 批量添加成员。只有所有者可以添加，且只能添加自己的好友；
// 所有者本身永远不会成为成员行。
func (s *CalendarService) AddMembers(calendarID, userID int64, memberIDs []int64) error {
	calendar, err := s.requireOwner(calendarID, userID)
	if err != nil {
		return err
	}

	toAdd := make([]int64, 0, len(memberIDs))
	for _, id := range memberIDs {
		if id == calendar.OwnerID {
			continue
		}
		ok, err := s.friendRepo.AreFriends(userID, id)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFriends
		}
		toAdd = append(toAdd, id)
	}

	mu := lockCalendar(calendarID)
	defer mu.Unlock()
	return s.memberRepo.AddMembers(calendarID, toAdd)
}

// 移除成员。会删掉该成员在此日历中的班次，
// 但不清理组成员行（需要显式调用PruneGroups）。
func (s *CalendarService) RemoveMember(calendarID, userID, memberID int64) error {
	calendar, err := s.calendarRepo.FindByID(calendarID)
	if err != nil {
		return err
	}
	if calendar == nil {
		return ErrNotFound
	}
	// 所有者可以移除任何成员，成员只能自己退出
	if calendar.OwnerID != userID && userID != memberID {
		return ErrAccessDenied
	}
	member, err := s.memberRepo.FindMember(calendarID, memberID)
	if err != nil {
		return err
	}
	if member == nil {
		return ErrInvalidMember
	}
	return s.memberRepo.RemoveMember(calendarID, memberID)
}

// 重排成员。映射中的每个user_id都必须是现有成员，否则整体失败。
func (s *CalendarService) ReorderMembers(calendarID, userID int64, positions map[int64]int) error {
	if _, err := s.requireOwner(calendarID, userID); err != nil {
		return err
	}
	mu := lockCalendar(calendarID)
	defer mu.Unlock()

	if err := s.memberRepo.ReorderMembers(calendarID, positions); err != nil {
		if errors.Is(err, repository.ErrInvalidMember) {
			return ErrInvalidMember
		}
		return err
	}
	return nil
}

// --- 组 ---

func (s *CalendarService) CreateGroup(calendarID, userID int64, name, color string) (*model.Group, error) {
	if _, err := s.requireAccess(calendarID, userID); err != nil {
		return nil, err
	}
	group := &model.Group{
		Name:       name,
		Color:      color,
		CalendarID: calendarID,
		OwnerID:    userID,
	}
	mu := lockCalendar(calendarID)
	defer mu.Unlock()
	if err := s.groupRepo.Create(group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *CalendarService) ListGroups(calendarID, userID int64) ([]model.Group, error) {
	if _, err := s.requireAccess(calendarID, userID); err != nil {
		return nil, err
	}
	return s.groupRepo.FindCalendarGroups(calendarID)
}

func (s *CalendarService) UpdateGroup(groupID, userID int64, name, color string) (*model.Group, error) {
	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrNotFound
	}
	if _, err := s.requireOwner(group.CalendarID, userID); err != nil {
		return nil, err
	}
	group.Name = name
	group.Color = color
	if err := s.groupRepo.Update(group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *CalendarService) DeleteGroup(groupID, userID int64) error {
	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		return err
	}
	if group == nil {
		return ErrNotFound
	}
	if _, err := s.requireOwner(group.CalendarID, userID); err != nil {
		return err
	}
	return s.groupRepo.Delete(groupID)
}

// 按从上到下的id列表重排组
func (s *CalendarService) ReorderGroups(calendarID, userID int64, order []int64) error {
	if _, err := s.requireOwner(calendarID, userID); err != nil {
		return err
	}
	mu := lockCalendar(calendarID)
	defer mu.Unlock()

	if err := s.groupRepo.ReorderGroups(calendarID, order); err != nil {
		if errors.Is(err, repository.ErrEmptyGroupOrder) {
			return ErrEmptyGroupOrder
		}
		return err
	}
	return nil
}

// 设置组成员。成员必须是日历成员（不含日历所有者），
// 无效的id会让整个操作失败。
func (s *CalendarService) AssignGroupMembers(groupID, userID int64, memberIDs []int64) error {
	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		return err
	}
	if group == nil {
		return ErrNotFound
	}
	calendar, err := s.requireOwner(group.CalendarID, userID)
	if err != nil {
		return err
	}

	for _, id := range memberIDs {
		if id == calendar.OwnerID {
			return ErrInvalidMember
		}
		member, err := s.memberRepo.FindMember(group.CalendarID, id)
		if err != nil {
			return err
		}
		if member == nil {
			return ErrInvalidMember
		}
	}
	for _, id := range memberIDs {
		if err := s.groupRepo.AddMember(groupID, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *CalendarService) RemoveGroupMember(groupID, userID, memberID int64) error {
	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		return err
	}
	if group == nil {
		return ErrNotFound
	}
	if _, err := s.requireOwner(group.CalendarID, userID); err != nil {
		return err
	}
	return s.groupRepo.RemoveMember(groupID, memberID)
}

// 显式清理所有组里已不在日历中的成员
func (s *CalendarService) PruneGroups(calendarID, userID int64) error {
	if _, err := s.requireOwner(calendarID, userID); err != nil {
		return err
	}
	return s.groupRepo.PruneStaleMembers(calendarID)
}

// --- 模板 ---

func (s *CalendarService) CreateTemplate(calendarID, userID int64, template *model.ShiftTemplate) error {
	if _, err := s.requireAccess(calendarID, userID); err != nil {
		return err
	}
	template.CalendarID = calendarID
	template.OwnerID = userID
	return s.templateRepo.Create(template)
}

func (s *CalendarService) ListTemplates(calendarID, userID int64) ([]model.ShiftTemplate, error) {
	if _, err := s.requireAccess(calendarID, userID); err != nil {
		return nil, err
	}
	return s.templateRepo.FindCalendarTemplates(calendarID)
}

// 删除模板。班次不删，只解绑并继承模板当时的颜色。
func (s *CalendarService) DeleteTemplate(templateID, userID int64) error {
	template, err := s.templateRepo.FindByID(templateID)
	if err != nil {
		return err
	}
	if template == nil {
		return ErrNotFound
	}
	if _, err := s.requireOwner(template.CalendarID, userID); err != nil {
		return err
	}
	logger.L.Info("deleting template, detaching shifts",
		zap.Int64("templateID", templateID), zap.String("color", template.ColorClass))
	return s.templateRepo.DeleteWithDetach(templateID)
}

// --- 班次 ---

type ShiftInput struct {
	Title      string `json:"title"`
	Date       string `json:"date"` // YYYY-MM-DD
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	UserID     *int64 `json:"user_id"`
	TemplateID *int64 `json:"template_id"`
	ShowTime   *bool  `json:"show_time"`
	ColorClass string `json:"color_class"`
}

func (s *CalendarService) CreateShift(calendarID, userID int64, input ShiftInput) (*model.Shift, error) {
	if _, err := s.requireAccess(calendarID, userID); err != nil {
		return nil, err
	}
	shift, err := s.shiftFromInput(calendarID, input)
	if err != nil {
		return nil, err
	}
	if err := s.shiftRepo.Create(shift); err != nil {
		return nil, err
	}
	return shift, nil
}

func (s *CalendarService) UpdateShift(shiftID, userID int64, input ShiftInput) (*model.Shift, error) {
	existing, err := s.shiftRepo.FindByID(shiftID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}
	if _, err := s.requireAccess(existing.CalendarID, userID); err != nil {
		return nil, err
	}
	shift, err := s.shiftFromInput(existing.CalendarID, input)
	if err != nil {
		return nil, err
	}
	shift.ID = existing.ID
	shift.CreatedAt = existing.CreatedAt
	if err := s.shiftRepo.Update(shift); err != nil {
		return nil, err
	}
	return shift, nil
}

func (s *CalendarService) DeleteShift(shiftID, userID int64) error {
	shift, err := s.shiftRepo.FindByID(shiftID)
	if err != nil {
		return err
	}
	if shift == nil {
		return ErrNotFound
	}
	if _, err := s.requireAccess(shift.CalendarID, userID); err != nil {
		return err
	}
	return s.shiftRepo.Delete(shiftID)
}

func (s *CalendarService) ListShifts(calendarID, userID int64, start, end string) ([]model.Shift, error) {
	if _, err := s.requireAccess(calendarID, userID); err != nil {
		return nil, err
	}
	startDate, err := parseDate(start)
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate(end)
	if err != nil {
		return nil, err
	}
	return s.shiftRepo.FindCalendarShifts(calendarID, startDate, endDate)
}

// 从输入构造班次。指定了模板时标题、时间和颜色从模板复制，
// 输入里没写的字段用模板值补齐。
func (s *CalendarService) shiftFromInput(calendarID int64, input ShiftInput) (*model.Shift, error) {
	date, err := parseDate(input.Date)
	if err != nil {
		return nil, err
	}
	shift := &model.Shift{
		Title:      input.Title,
		Date:       date,
		StartTime:  input.StartTime,
		EndTime:    input.EndTime,
		CalendarID: calendarID,
		UserID:     input.UserID,
		ShowTime:   true,
		ColorClass: input.ColorClass,
	}
	if input.ShowTime != nil {
		shift.ShowTime = *input.ShowTime
	}
	if input.TemplateID != nil {
		template, err := s.templateRepo.FindByID(*input.TemplateID)
		if err != nil {
			return nil, err
		}
		if template == nil || template.CalendarID != calendarID {
			return nil, ErrNotFound
		}
		shift.TemplateID = input.TemplateID
		if shift.Title == "" {
			shift.Title = template.Title
		}
		if shift.StartTime == "" {
			shift.StartTime = template.StartTime
		}
		if shift.EndTime == "" {
			shift.EndTime = template.EndTime
		}
		if input.ShowTime == nil {
			shift.ShowTime = template.ShowTime
		}
		if shift.ColorClass == "" {
			shift.ColorClass = template.ColorClass
		}
	}
	if shift.ColorClass == "" {
		shift.ColorClass = "badge-color-1"
	}
	return shift, nil
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
