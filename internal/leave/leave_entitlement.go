package leave

import "time"

// HoursPerDay converts entitled days into bookable hours.
const HoursPerDay = 8

const maxEntitlementDays = 30

// EntitlementDays is the annual leave for the completed service time between hireDate and today:
// 3 days after six months, 7 after one year, 10 after two, 14 after three, 15 after five,
// then one more day per year from the tenth, capped at 30. A missing or future hire date gets 0.
func EntitlementDays(hireDate *time.Time, today time.Time) int {
	if hireDate == nil {
		return 0
	}
	years, months := serviceLength(*hireDate, today)
	switch {
	case years < 0:
		return 0
	case years >= 10:
		return min(maxEntitlementDays, 15+years-10)
	case years >= 5:
		return 15
	case years >= 3:
		return 14
	case years >= 2:
		return 10
	case years >= 1:
		return 7
	case months >= 6:
		return 3
	default:
		return 0
	}
}

// serviceLength counts completed years and remaining completed months, by calendar date.
func serviceLength(from, to time.Time) (years, months int) {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	total := (ty-fy)*12 + int(tm) - int(fm)
	if td < fd {
		total--
	}
	if total < 0 {
		return -1, 0
	}
	return total / 12, total % 12
}
