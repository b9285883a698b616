package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var testNow = date(2025, time.August, 15)

func TestResolvePeriod_Week(t *testing.T) {
	start, end := ResolvePeriod(PeriodWeek, "2025-W35", testNow)
	assert.Equal(t, date(2025, time.August, 25), start)
	assert.Equal(t, date(2025, time.August, 31), end)
	assert.Equal(t, time.Monday, start.Weekday())
	assert.Equal(t, time.Sunday, end.Weekday())
}

func TestResolvePeriod_WeekYearRollover(t *testing.T) {
	// 2025年第1周从2024-12-30开始
	start, end := ResolvePeriod(PeriodWeek, "2025-W01", testNow)
	assert.Equal(t, date(2024, time.December, 30), start)
	assert.Equal(t, date(2025, time.January, 5), end)

	// 2020年有53周
	start, end = ResolvePeriod(PeriodWeek, "2020-W53", testNow)
	assert.Equal(t, date(2020, time.December, 28), start)
	assert.Equal(t, date(2021, time.January, 3), end)
}

func TestResolvePeriod_WeekMonthFallback(t *testing.T) {
	// 没有W的token按YYYY-MM处理，取该月1日所在的周
	start, end := ResolvePeriod(PeriodWeek, "2025-08", testNow)
	assert.Equal(t, date(2025, time.July, 28), start)
	assert.Equal(t, date(2025, time.August, 3), end)
}

func TestResolvePeriod_Month(t *testing.T) {
	start, end := ResolvePeriod(PeriodMonth, "2025-08", testNow)
	assert.Equal(t, date(2025, time.August, 1), start)
	assert.Equal(t, date(2025, time.August, 31), end)
}

func TestResolvePeriod_MonthLeapFebruary(t *testing.T) {
	start, end := ResolvePeriod(PeriodMonth, "2024-02", testNow)
	assert.Equal(t, date(2024, time.February, 1), start)
	assert.Equal(t, date(2024, time.February, 29), end)

	_, end = ResolvePeriod(PeriodMonth, "2025-02", testNow)
	assert.Equal(t, date(2025, time.February, 28), end)
}

func TestResolvePeriod_Quarter(t *testing.T) {
	start, end := ResolvePeriod(PeriodQuarter, "2025-Q3", testNow)
	assert.Equal(t, date(2025, time.July, 1), start)
	assert.Equal(t, date(2025, time.September, 30), end)

	// Q4要覆盖到12月31日
	start, end = ResolvePeriod(PeriodQuarter, "2025-Q4", testNow)
	assert.Equal(t, date(2025, time.October, 1), start)
	assert.Equal(t, date(2025, time.December, 31), end)

	// Q1包含闰年2月
	start, end = ResolvePeriod(PeriodQuarter, "2024-Q1", testNow)
	assert.Equal(t, date(2024, time.January, 1), start)
	assert.Equal(t, date(2024, time.March, 31), end)
}

func TestResolvePeriod_Year(t *testing.T) {
	start, end := ResolvePeriod(PeriodYear, "2025", testNow)
	assert.Equal(t, date(2025, time.January, 1), start)
	assert.Equal(t, date(2025, time.December, 31), end)

	// "YYYY-MM"也可以，只取年份
	start, end = ResolvePeriod(PeriodYear, "2024-06", testNow)
	assert.Equal(t, date(2024, time.January, 1), start)
	assert.Equal(t, date(2024, time.December, 31), end)
}

func TestResolvePeriod_FallbackNeverFails(t *testing.T) {
	// 各种坏token都回退到now所在的周期，不panic不报错
	for _, kind := range []PeriodKind{PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear} {
		for _, token := range []string{"", "garbage", "2025-W", "-Q9", "20x5-13", "2025-Q0"} {
			start, end := ResolvePeriod(kind, token, testNow)
			assert.False(t, start.After(end), "kind=%s token=%q", kind, token)
			assert.False(t, testNow.Before(start) || testNow.After(end),
				"fallback range should contain now: kind=%s token=%q got [%s, %s]", kind, token, start, end)
		}
	}
}

func TestResolvePeriod_Spans(t *testing.T) {
	start, end := ResolvePeriod(PeriodWeek, "2025-W10", testNow)
	assert.Equal(t, 6, int(end.Sub(start).Hours()/24))

	start, end = ResolvePeriod(PeriodYear, "2025", testNow)
	assert.Equal(t, 364, int(end.Sub(start).Hours()/24))

	start, end = ResolvePeriod(PeriodYear, "2024", testNow)
	assert.Equal(t, 365, int(end.Sub(start).Hours()/24)) // 闰年
}
