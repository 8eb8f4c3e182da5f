// Package workhour turns a datetime interval into billable working hours.
package workhour

import (
	"context"
	"time"

	"go-leave/internal/holiday"

	"github.com/rickar/cal/v2"
	"github.com/shopspring/decimal"
)

const (
	workStart  = 9 * time.Hour
	workEnd    = 18 * time.Hour
	lunchStart = 12 * time.Hour
	lunchEnd   = 13 * time.Hour
)

var (
	sixty = decimal.NewFromInt(60)
	two   = decimal.NewFromInt(2)
)

//go:generate mockgen -source=calculator.go -destination=mock/calendar_mock.go -package=mock
type Calendar interface {
	EntriesBetween(ctx context.Context, start, end time.Time) ([]holiday.Entry, error)
}

type Calculator struct {
	calendar Calendar
}

func NewCalculator(calendar Calendar) *Calculator {
	return &Calculator{calendar: calendar}
}

// Hours is the authoritative figure stored on a leave record, rounded to the nearest half hour.
func (c *Calculator) Hours(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	minutes, err := c.WorkingMinutes(ctx, start, end)
	if err != nil {
		return decimal.Zero, err
	}
	return RoundHalfHour(minutes), nil
}

// PreviewHours is the figure shown while a request is being drafted, rounded to two decimals.
func (c *Calculator) PreviewHours(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	minutes, err := c.WorkingMinutes(ctx, start, end)
	if err != nil {
		return decimal.Zero, err
	}
	return RoundCents(minutes), nil
}

// WorkingMinutes counts whole working minutes in [start, end). Zero or inverted intervals yield 0.
func (c *Calculator) WorkingMinutes(ctx context.Context, start, end time.Time) (int64, error) {
	if start.IsZero() || end.IsZero() || !start.Before(end) {
		return 0, nil
	}
	entries, err := c.calendar.EntriesBetween(ctx, holiday.DateOnly(start), holiday.DateOnly(end))
	if err != nil {
		return 0, err
	}
	return CountMinutes(start, end, NewDays(entries)), nil
}

func RoundHalfHour(minutes int64) decimal.Decimal {
	halfHours := decimal.NewFromInt(minutes).Div(sixty).Mul(two).Round(0)
	return halfHours.Div(two)
}

func RoundCents(minutes int64) decimal.Decimal {
	return decimal.NewFromInt(minutes).Div(sixty).Round(2)
}

// Days classifies calendar dates. Makeup workdays win over both weekends and holidays.
type Days struct {
	holidays map[string]struct{}
	makeup   map[string]struct{}
}

func NewDays(entries []holiday.Entry) Days {
	d := Days{
		holidays: make(map[string]struct{}),
		makeup:   make(map[string]struct{}),
	}
	for _, e := range entries {
		key := dayKey(e.Date)
		if e.IsMakeupWorkday() {
			d.makeup[key] = struct{}{}
		} else {
			d.holidays[key] = struct{}{}
		}
	}
	return d
}

func (d Days) IsWorkingDay(day time.Time) bool {
	key := dayKey(day)
	if _, ok := d.makeup[key]; ok {
		return true
	}
	if cal.IsWeekend(day) {
		return false
	}
	_, off := d.holidays[key]
	return !off
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// CountMinutes intersects [start, end) with each working day's 09:00-18:00 window and drops the lunch hour.
// Both ends are truncated to the minute.
func CountMinutes(start, end time.Time, days Days) int64 {
	start = start.Truncate(time.Minute)
	end = end.Truncate(time.Minute)
	if !start.Before(end) {
		return 0
	}

	loc := start.Location()
	end = end.In(loc)
	first := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, loc)

	var total time.Duration
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		if !days.IsWorkingDay(day) {
			continue
		}
		from := latest(start, day.Add(workStart))
		to := earliest(end, day.Add(workEnd))
		if !from.Before(to) {
			continue
		}
		span := to.Sub(from)
		if overlap := earliest(to, day.Add(lunchEnd)).Sub(latest(from, day.Add(lunchStart))); overlap > 0 {
			span -= overlap
		}
		total += span
	}
	return int64(total / time.Minute)
}

func latest(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earliest(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
