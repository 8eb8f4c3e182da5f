package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employee is owned by the HR directory; this service only reads it.
type Employee struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CompanyID    uuid.UUID  `gorm:"type:uuid;index"`
	DepartmentID *uuid.UUID `gorm:"type:uuid;index"`
	ManagerID    *uuid.UUID `gorm:"type:uuid"`
	FullName     string
	Email        string     `gorm:"uniqueIndex"`
	HireDate     *time.Time `gorm:"type:date"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}
