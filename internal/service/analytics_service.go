package service

import (
	"go-shift-planner/internal/model"
	"go-shift-planner/internal/repository"
	"go-shift-planner/pkg/logger"
	"time"

	"go.uber.org/zap"
)

// 日历可见性角色
const (
	RoleCreator     = "creator"
	RoleParticipant = "participant"
)

const trendPoints = 12

type AnalyticsRequest struct {
	Period      string          `json:"period"`
	PeriodToken string          `json:"period_token"`
	CalendarIDs []int64         `json:"calendar_ids"`
	Filters     FilterSpec      `json:"filters"`
	Comparison  *ComparisonSpec `json:"comparison,omitempty"`
}

type ComparisonSpec struct {
	Period      string `json:"period"`
	PeriodToken string `json:"period_token"`
}

type AnalyticsResult struct {
	ShiftStats           ShiftStats       `json:"shift_stats"`
	TeamAnalysis         TeamAnalysis     `json:"team_analysis"`
	TimeSlots            []TimeSlotUsage  `json:"time_slots"`
	WorkTimeDistribution []MemberStat     `json:"work_time_distribution"`
	WeekdayActivity      [7]float64       `json:"weekday_activity"`
	Trends               []TrendPoint     `json:"trends_data"`
	Comparison           *AnalyticsResult `json:"comparison,omitempty"`
}

type AnalyticsService struct {
	calendarRepo *repository.CalendarRepository
	shiftRepo    *repository.ShiftRepository
	now          func() time.Time
}

func NewAnalyticsService(calendarRepo *repository.CalendarRepository, shiftRepo *repository.ShiftRepository) *AnalyticsService {
	return &AnalyticsService{
		calendarRepo: calendarRepo,
		shiftRepo:    shiftRepo,
		now:          time.Now,
	}
}

// 解析请求用户对每个日历的角色。
// 返回可访问的日历子集、每个日历的角色，以及是否要把所有统计
// 限制到用户自己的班次（用户在所有可访问日历中都只是参与者时）。
func (s *AnalyticsService) resolveVisibility(calendarIDs []int64, userID int64) ([]int64, map[int64]string, bool, error) {
	accessible := make([]int64, 0, len(calendarIDs))
	roles := make(map[int64]string, len(calendarIDs))

	for _, id := range calendarIDs {
		calendar, err := s.calendarRepo.FindByID(id)
		if err != nil {
			return nil, nil, false, err
		}
		if calendar == nil {
			logger.L.Warn("analytics: calendar not found, dropping",
				zap.Int64("calendarID", id), zap.Int64("userID", userID))
			continue
		}
		if calendar.OwnerID == userID {
			accessible = append(accessible, id)
			roles[id] = RoleCreator
			continue
		}
		isMember, err := s.calendarRepo.IsMember(id, userID)
		if err != nil {
			return nil, nil, false, err
		}
		if !isMember {
			logger.L.Warn("analytics: access denied to calendar, dropping",
				zap.Int64("calendarID", id), zap.Int64("userID", userID))
			continue
		}
		accessible = append(accessible, id)
		roles[id] = RoleParticipant
	}

	// 只要在任意一个选中的日历里是creator，就能看到全部班次；
	// 纯参与者只能看到自己的。
	restrictToOwn := true
	for _, role := range roles {
		if role == RoleCreator {
			restrictToOwn = false
			break
		}
	}
	return accessible, roles, restrictToOwn, nil
}

// Run 执行一次完整的统计请求：
// 校验 -> 解析角色和周期区间 -> 六个聚合器 -> 可选的对比周期。
// 单个聚合器失败只记录日志并用零值代替，不会让整个请求失败。
func (s *AnalyticsService) Run(userID int64, req AnalyticsRequest) (*AnalyticsResult, error) {
	if len(req.CalendarIDs) == 0 {
		return nil, ErrNoCalendarsSelected
	}

	accessible, _, restrictToOwn, err := s.resolveVisibility(req.CalendarIDs, userID)
	if err != nil {
		return nil, err
	}
	if len(accessible) == 0 {
		return nil, ErrNoAccessibleCalendars
	}

	kind := PeriodKind(req.Period)
	start, end := ResolvePeriod(kind, req.PeriodToken, s.now())

	result := s.aggregateRange(accessible, kind, start, end, req.Filters, userID, restrictToOwn)

	if req.Comparison != nil {
		compKind := PeriodKind(req.Comparison.Period)
		compStart, compEnd := ResolvePeriod(compKind, req.Comparison.PeriodToken, s.now())
		comparison := s.aggregateRange(accessible, compKind, compStart, compEnd, req.Filters, userID, restrictToOwn)
		result.Comparison = comparison
	}
	return result, nil
}

// 对单个区间跑全部六个聚合器
func (s *AnalyticsService) aggregateRange(calendarIDs []int64, kind PeriodKind, start, end time.Time, filters FilterSpec, userID int64, restrictToOwn bool) *AnalyticsResult {
	shifts, err := s.fetchShifts(calendarIDs, start, end, filters, userID, restrictToOwn)
	if err != nil {
		logger.L.Error("analytics: shift query failed, using empty set", zap.Error(err))
		shifts = nil
	}

	result := &AnalyticsResult{}
	result.ShiftStats = safeAggregate("shift_stats", ShiftStats{}, func() (ShiftStats, error) {
		return aggregateShiftStats(shifts)
	})
	result.TeamAnalysis = safeAggregate("team_analysis", TeamAnalysis{Coverage: map[string]int{}}, func() (TeamAnalysis, error) {
		return aggregateTeamAnalysis(shifts)
	})
	result.TimeSlots = safeAggregate("time_slots", []TimeSlotUsage{}, func() ([]TimeSlotUsage, error) {
		return aggregateTimeSlots(shifts)
	})
	result.WorkTimeDistribution = safeAggregate("work_time_distribution", []MemberStat{}, func() ([]MemberStat, error) {
		return aggregateWorkTime(shifts)
	})
	result.WeekdayActivity = safeAggregate("weekday_activity", [7]float64{}, func() ([7]float64, error) {
		return aggregateWeekdayActivity(shifts)
	})
	result.Trends = safeAggregate("trends", []TrendPoint{}, func() ([]TrendPoint, error) {
		return s.trendSeries(calendarIDs, kind, start, filters, userID, restrictToOwn)
	})
	return result
}

// 查询区间内的班次并套用过滤条件和可见性限制
func (s *AnalyticsService) fetchShifts(calendarIDs []int64, start, end time.Time, filters FilterSpec, userID int64, restrictToOwn bool) ([]model.Shift, error) {
	shifts, err := s.shiftRepo.FindInRange(calendarIDs, start, end)
	if err != nil {
		return nil, err
	}
	if restrictToOwn {
		own := make([]model.Shift, 0, len(shifts))
		for _, shift := range shifts {
			if shift.UserID != nil && *shift.UserID == userID {
				own = append(own, shift)
			}
		}
		shifts = own
	}
	return filters.Apply(shifts), nil
}

// 12个点的回溯趋势序列：当前周期和之前的11个同类周期，从旧到新
func (s *AnalyticsService) trendSeries(calendarIDs []int64, kind PeriodKind, primaryStart time.Time, filters FilterSpec, userID int64, restrictToOwn bool) ([]TrendPoint, error) {
	points := make([]TrendPoint, 0, trendPoints)
	for back := trendPoints - 1; back >= 0; back-- {
		start, end := trendRange(kind, primaryStart, back)
		shifts, err := s.fetchShifts(calendarIDs, start, end, filters, userID, restrictToOwn)
		if err != nil {
			return nil, err
		}
		points = append(points, trendPointFor(trendLabel(kind, start), shifts))
	}
	return points, nil
}

// 隔离单个聚合器的失败：出错或panic时记录日志并返回零值默认
func safeAggregate[T any](name string, zero T, fn func() (T, error)) (out T) {
	defer func() {
		if r := recover(); r != nil {
			logger.L.Warn("aggregator panicked, substituting default",
				zap.String("aggregator", name), zap.Any("reason", r))
			out = zero
		}
	}()
	v, err := fn()
	if err != nil {
		logger.L.Warn("aggregator failed, substituting default",
			zap.String("aggregator", name), zap.Error(err))
		return zero
	}
	return v
}
