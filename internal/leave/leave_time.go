package leave

import (
	"strings"
	"time"

	leaveerrors "go-leave/internal/leave/errors"

	"github.com/google/uuid"
)

const dateTimeLayout = "2006-01-02T15:04:05"

var wallClockLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// parseDateTime reads a wall-clock datetime. Offsets are dropped, the local clock reading is kept.
func parseDateTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range wallClockLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
}

func parseInterval(rawStart, rawEnd string) (time.Time, time.Time, error) {
	start, err := parseDateTime(rawStart)
	if err != nil {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidInterval
	}
	end, err := parseDateTime(rawEnd)
	if err != nil {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidInterval
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidInterval
	}
	return start, end, nil
}

// parseDateFilter turns optional YYYY-MM-DD bounds into an overlap window:
// records ending after the first day's midnight and starting before the last day's 23:59:59.
func parseDateFilter(rawStart, rawEnd string) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if s := strings.TrimSpace(rawStart); s != "" {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, nil, leaveerrors.ErrInvalidDateFilter
		}
		from = &d
	}
	if s := strings.TrimSpace(rawEnd); s != "" {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, nil, leaveerrors.ErrInvalidDateFilter
		}
		last := d.Add(24*time.Hour - time.Second)
		to = &last
	}
	return from, to, nil
}

func parseLeaveID(id string) (uuid.UUID, error) {
	v, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return uuid.Nil, leaveerrors.ErrInvalidLeaveID
	}
	return v, nil
}
