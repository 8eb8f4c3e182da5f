package leave

import (
	"time"

	"go-leave/internal/attachment"
	"go-leave/internal/employee"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

type Leave struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_leave_records_company_status,priority:1"`
	EmployeeID  uuid.UUID  `gorm:"type:uuid;not null;index:idx_leave_records_employee_start,priority:1"`
	AgentID     *uuid.UUID `gorm:"type:uuid"`
	LeaveTypeID uuid.UUID  `gorm:"type:uuid;not null"`

	Reason  string          `gorm:"type:varchar(200)"`
	StartAt time.Time       `gorm:"type:timestamp;not null;index:idx_leave_records_employee_start,priority:2"`
	EndAt   time.Time       `gorm:"type:timestamp;not null"`
	Hours   decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`

	Status          string     `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leave_records_company_status,priority:2"`
	RejectionReason *string    `gorm:"type:text"`
	ReviewedAt      *time.Time
	ReviewedBy      *uuid.UUID `gorm:"type:uuid"`

	AmendmentCount int `gorm:"not null;default:0"`
	Version        int `gorm:"not null;default:1"`

	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time

	Employee    *employee.Employee      `gorm:"foreignKey:EmployeeID"`
	Agent       *employee.Employee      `gorm:"foreignKey:AgentID"`
	LeaveType   *LeaveType              `gorm:"foreignKey:LeaveTypeID"`
	Attachments []attachment.Attachment `gorm:"foreignKey:LeaveID;constraint:OnDelete:CASCADE"`
}

func (Leave) TableName() string {
	return "leave_records"
}

func (l Leave) IsPending() bool {
	return l.Status == StatusPending
}

type LeaveType struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	Active    bool      `gorm:"not null;default:true"`
	Annual    bool      `gorm:"not null;default:false"`
	SortOrder int       `gorm:"not null;default:0"`
	CreatedAt time.Time
}

func (LeaveType) TableName() string {
	return "leave_types"
}

type LeaveStatus struct {
	Code      string `gorm:"type:varchar(20);primaryKey"`
	Name      string `gorm:"type:varchar(50);not null"`
	Active    bool   `gorm:"not null;default:true"`
	Terminal  bool   `gorm:"not null;default:false"`
	SortOrder int    `gorm:"not null;default:0"`
}

func (LeaveStatus) TableName() string {
	return "leave_statuses"
}
