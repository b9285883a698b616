package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// 统计周期类型
type PeriodKind string

const (
	PeriodWeek    PeriodKind = "week"
	PeriodMonth   PeriodKind = "month"
	PeriodQuarter PeriodKind = "quarter"
	PeriodYear    PeriodKind = "year"
)

// ResolvePeriod 把周期token解析成[start, end]闭区间（只有日期，没有时刻）。
// 任何解析失败都回退到now所在的同类周期，永远不返回错误。
func ResolvePeriod(kind PeriodKind, token string, now time.Time) (time.Time, time.Time) {
	switch kind {
	case PeriodWeek:
		if start, end, err := parseWeekToken(token); err == nil {
			return start, end
		}
		return weekOf(dateOnly(now))
	case PeriodQuarter:
		if start, end, err := parseQuarterToken(token); err == nil {
			return start, end
		}
		return quarterOf(now.Year(), (int(now.Month())+2)/3)
	case PeriodYear:
		if start, end, err := parseYearToken(token); err == nil {
			return start, end
		}
		return yearOf(now.Year())
	default: // month
		if start, end, err := parseMonthToken(token); err == nil {
			return start, end
		}
		return monthOf(now.Year(), now.Month())
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ISO周：周一到周日
func weekOf(d time.Time) (time.Time, time.Time) {
	offset := (int(d.Weekday()) + 6) % 7 // Monday=0
	start := d.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 6)
}

func monthOf(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

func quarterOf(year, quarter int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(3*quarter-2), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 3, -1)
}

func yearOf(year int) (time.Time, time.Time) {
	return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)
}

// "YYYY-Www"。ISO第1周总是包含1月4日。
// token里没有"W"时按"YYYY-MM"处理，取该月1日所在的周。
func parseWeekToken(token string) (time.Time, time.Time, error) {
	if strings.Contains(token, "-W") {
		parts := strings.SplitN(token, "-W", 2)
		year, err := strconv.Atoi(parts[0])
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("bad week token %q: %w", token, err)
		}
		week, err := strconv.Atoi(parts[1])
		if err != nil || week < 1 || week > 53 {
			return time.Time{}, time.Time{}, fmt.Errorf("bad week number in %q", token)
		}
		jan4 := time.Date(year, 1, 4, 0, 0, 0, 0, time.UTC)
		week1Start, _ := weekOf(jan4)
		start := week1Start.AddDate(0, 0, (week-1)*7)
		return start, start.AddDate(0, 0, 6), nil
	}
	// 回退：按月token处理
	first, err := time.Parse("2006-01", token)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("bad week token %q: %w", token, err)
	}
	start, end := weekOf(first)
	return start, end, nil
}

func parseMonthToken(token string) (time.Time, time.Time, error) {
	first, err := time.Parse("2006-01", token)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("bad month token %q: %w", token, err)
	}
	start, end := monthOf(first.Year(), first.Month())
	return start, end, nil
}

// "YYYY-Qn"，n取1..4
func parseQuarterToken(token string) (time.Time, time.Time, error) {
	parts := strings.SplitN(token, "-Q", 2)
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("bad quarter token %q", token)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("bad quarter token %q: %w", token, err)
	}
	quarter, err := strconv.Atoi(parts[1])
	if err != nil || quarter < 1 || quarter > 4 {
		return time.Time{}, time.Time{}, fmt.Errorf("bad quarter number in %q", token)
	}
	start, end := quarterOf(year, quarter)
	return start, end, nil
}

// 4位年份，或"YYYY-MM"（只取年份部分）
func parseYearToken(token string) (time.Time, time.Time, error) {
	if year, err := strconv.Atoi(token); err == nil && len(token) == 4 {
		start, end := yearOf(year)
		return start, end, nil
	}
	first, err := time.Parse("2006-01", token)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("bad year token %q: %w", token, err)
	}
	start, end := yearOf(first.Year())
	return start, end, nil
}
