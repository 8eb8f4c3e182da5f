package holiday

import (
	"time"

	"github.com/google/uuid"
)

const (
	CategoryNationalHoliday = "NATIONAL_HOLIDAY"
	CategoryMakeupWorkday   = "MAKEUP_WORKDAY"
	CategoryCompanyOff      = "COMPANY_OFF"
)

const (
	SourceICS    = "ICS"
	SourceXLS    = "XLS"
	SourceAPI    = "API"
	SourceManual = "MANUAL"
)

// Entry is one dated calendar fact. Any category other than MAKEUP_WORKDAY marks the date non-working.
type Entry struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Date          time.Time `gorm:"type:date;not null;uniqueIndex:uq_holiday_date_category,priority:1"`
	Name          string    `gorm:"type:varchar(255);not null"`
	Category      string    `gorm:"type:varchar(30);not null;uniqueIndex:uq_holiday_date_category,priority:2"`
	AllDay        bool      `gorm:"not null;default:true"`
	Source        string    `gorm:"type:varchar(20);not null;index:idx_holiday_source_year,priority:1"`
	SourceYear    int       `gorm:"not null;index:idx_holiday_source_year,priority:2"`
	SourceVersion string    `gorm:"type:varchar(128)"`
	CreatedBy     string    `gorm:"type:varchar(100)"`
	CreatedAt     time.Time
}

func (Entry) TableName() string {
	return "holiday_entries"
}

func (e Entry) IsMakeupWorkday() bool {
	return e.Category == CategoryMakeupWorkday
}

func IsKnownSource(source string) bool {
	switch source {
	case SourceICS, SourceXLS, SourceAPI, SourceManual:
		return true
	default:
		return false
	}
}

// DateOnly drops the clock part and pins the date to UTC midnight.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
