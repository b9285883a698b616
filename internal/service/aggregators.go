package service

import (
	"fmt"
	"go-shift-planner/internal/model"
	"math"
	"sort"
	"time"
)

type ShiftStats struct {
	TotalHours  float64 `json:"total_hours"`
	TotalShifts int     `json:"total_shifts"`
	AvgDuration int     `json:"avg_duration"` // 分钟，四舍五入
	TopTemplate string  `json:"top_template"`
}

type MemberStat struct {
	UserID   int64   `json:"user_id"`
	Username string  `json:"username"`
	Hours    float64 `json:"hours"`
	Shifts   int     `json:"shifts"`
}

type TeamAnalysis struct {
	Members         []MemberStat   `json:"members"`
	Coverage        map[string]int `json:"coverage"` // 日期(YYYY-MM-DD) -> 覆盖率百分比
	WorkloadBalance []MemberStat   `json:"workload_balance"`
}

type TimeSlotUsage struct {
	Title     string  `json:"title"`
	TimeRange string  `json:"time_range"`
	Count     int     `json:"count"`
	Percent   float64 `json:"percent"`
}

type TrendPoint struct {
	Label  string  `json:"label"`
	Hours  float64 `json:"hours"`
	Shifts int     `json:"shifts"`
	Users  int     `json:"users"`
}

const noTimeSlot = "no time"

// 班次统计：总小时数、班次数、平均时长（都只统计show_time=true的班次）
// 和最常用的模板标题。
func aggregateShiftStats(shifts []model.Shift) (ShiftStats, error) {
	var stats ShiftStats
	var totalMinutes float64

	templateCounts := make(map[string]int)
	var bestTemplate string
	var bestCount int

	for _, s := range shifts {
		d, ok := s.Duration()
		if !ok {
			continue
		}
		stats.TotalShifts++
		totalMinutes += d.Minutes()

		if s.TemplateID != nil && s.Template != nil {
			templateCounts[s.Template.Title]++
			// 只在严格超过时更新，持平保留先出现的，结果确定
			if templateCounts[s.Template.Title] > bestCount {
				bestCount = templateCounts[s.Template.Title]
				bestTemplate = s.Template.Title
			}
		}
	}

	stats.TotalHours = totalMinutes / 60
	if stats.TotalShifts > 0 {
		stats.AvgDuration = int(math.Round(totalMinutes / float64(stats.TotalShifts)))
	}
	stats.TopTemplate = bestTemplate
	return stats, nil
}

// 团队分析：按工时降序的成员排名、按天的简化覆盖率
// （min(100, 当天班次数*20)）和前10名的负载均衡序列。
func aggregateTeamAnalysis(shifts []model.Shift) (TeamAnalysis, error) {
	byUser := make(map[int64]*MemberStat)
	coverage := make(map[string]int)

	for _, s := range shifts {
		day := s.Date.Format("2006-01-02")
		coverage[day] = min(100, (countFor(coverage, day)+1)*20)

		if s.UserID == nil {
			continue
		}
		stat, ok := byUser[*s.UserID]
		if !ok {
			stat = &MemberStat{UserID: *s.UserID}
			if s.User != nil {
				stat.Username = s.User.Username
			}
			byUser[*s.UserID] = stat
		}
		stat.Hours += s.Hours()
		if s.ShowTime {
			stat.Shifts++
		}
	}

	members := make([]MemberStat, 0, len(byUser))
	for _, stat := range byUser {
		members = append(members, *stat)
	}
	sort.Slice(members, func(i, j int) bool {
		if members[i].Hours != members[j].Hours {
			return members[i].Hours > members[j].Hours
		}
		return members[i].UserID < members[j].UserID
	})

	balance := members
	if len(balance) > 10 {
		balance = balance[:10]
	}

	return TeamAnalysis{
		Members:         members,
		Coverage:        coverage,
		WorkloadBalance: balance,
	}, nil
}

// coverage里存的是百分比，这里还原出当天已计数的班次数
func countFor(coverage map[string]int, day string) int {
	return coverage[day] / 20
}

// 时段/模板使用统计：按(标题, 时间段)分组计数，
// 百分比相对show_time=true的班次总数。排序：次数降序，标题升序。
func aggregateTimeSlots(shifts []model.Shift) ([]TimeSlotUsage, error) {
	type slotKey struct{ title, timeRange string }
	counts := make(map[slotKey]int)
	var eligible int

	for _, s := range shifts {
		key := slotKey{title: s.Title, timeRange: noTimeSlot}
		if s.ShowTime {
			eligible++
			key.timeRange = fmt.Sprintf("%s-%s", s.StartTime, s.EndTime)
		}
		counts[key]++
	}

	slots := make([]TimeSlotUsage, 0, len(counts))
	for key, count := range counts {
		slot := TimeSlotUsage{Title: key.title, TimeRange: key.timeRange, Count: count}
		if eligible > 0 {
			slot.Percent = math.Round(float64(count)/float64(eligible)*1000) / 10
		}
		slots = append(slots, slot)
	}
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Count != slots[j].Count {
			return slots[i].Count > slots[j].Count
		}
		if slots[i].Title != slots[j].Title {
			return slots[i].Title < slots[j].Title
		}
		return slots[i].TimeRange < slots[j].TimeRange
	})
	return slots, nil
}

// 工时分布：每人总工时，取前6名
func aggregateWorkTime(shifts []model.Shift) ([]MemberStat, error) {
	analysis, err := aggregateTeamAnalysis(shifts)
	if err != nil {
		return nil, err
	}
	top := analysis.Members
	if len(top) > 6 {
		top = top[:6]
	}
	return top, nil
}

// 按星期聚合工时：Monday=0 .. Sunday=6，只统计show_time=true的班次
func aggregateWeekdayActivity(shifts []model.Shift) ([7]float64, error) {
	var buckets [7]float64
	for _, s := range shifts {
		d, ok := s.Duration()
		if !ok {
			continue
		}
		idx := (int(s.Date.Weekday()) + 6) % 7
		buckets[idx] += d.Hours()
	}
	return buckets, nil
}

// 趋势序列中单个周期的数据点
func trendPointFor(label string, shifts []model.Shift) TrendPoint {
	point := TrendPoint{Label: label}
	users := make(map[int64]bool)
	for _, s := range shifts {
		point.Shifts++
		point.Hours += s.Hours()
		if s.UserID != nil {
			users[*s.UserID] = true
		}
	}
	point.Hours = math.Round(point.Hours*10) / 10
	point.Users = len(users)
	return point
}

// 周期标签："W35 2025"、"Aug 2025"、"Q3 2025"、"2025"
func trendLabel(kind PeriodKind, start time.Time) string {
	switch kind {
	case PeriodWeek:
		year, week := start.ISOWeek()
		return fmt.Sprintf("W%02d %d", week, year)
	case PeriodQuarter:
		return fmt.Sprintf("Q%d %d", (int(start.Month())+2)/3, start.Year())
	case PeriodYear:
		return start.Format("2006")
	default:
		return start.Format("Jan 2006")
	}
}

// 从primary周期起点往回走i个同类周期，返回该周期的闭区间
func trendRange(kind PeriodKind, primaryStart time.Time, back int) (time.Time, time.Time) {
	switch kind {
	case PeriodWeek:
		start := primaryStart.AddDate(0, 0, -7*back)
		return start, start.AddDate(0, 0, 6)
	case PeriodQuarter:
		start := primaryStart.AddDate(0, -3*back, 0)
		return start, start.AddDate(0, 3, -1)
	case PeriodYear:
		start := primaryStart.AddDate(-back, 0, 0)
		return yearOf(start.Year())
	default:
		start := primaryStart.AddDate(0, -back, 0)
		return start, start.AddDate(0, 1, -1)
	}
}
