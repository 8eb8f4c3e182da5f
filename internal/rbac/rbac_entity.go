package rbac

import (
	"context"

	"go-leave/internal/access"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Role struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_role_company_name,priority:1"`
	Name        string    `gorm:"type:varchar(100);not null;uniqueIndex:uq_role_company_name,priority:2"`
	Description string    `gorm:"type:varchar(255)"`
}

type Permission struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Resource string    `gorm:"type:varchar(50);not null;uniqueIndex:uq_permission_resource_action,priority:1"`
	Action   string    `gorm:"type:varchar(50);not null;uniqueIndex:uq_permission_resource_action,priority:2"`
	Label    string    `gorm:"type:varchar(100)"`
}

type RolePermission struct {
	RoleID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	PermissionID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

type EmployeeRole struct {
	EmployeeID uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoleID     uuid.UUID `gorm:"type:uuid;primaryKey"`
}

var permissionLabels = map[string]string{
	"view_self":       "View own leave requests",
	"edit_self":       "Edit own pending leave requests",
	"delete_self":     "Delete own leave requests",
	"view_department": "View department leave requests",
	"approve":         "Approve or reject leave requests",
	"manage_all":      "Manage every leave request in the company",
}

// SeedPermissions makes sure every leave capability has a permission row roles can be granted.
func SeedPermissions(ctx context.Context, db *gorm.DB) error {
	all := access.ViewSelf | access.EditSelf | access.DeleteSelf | access.ViewDepartment | access.Approve | access.ManageAll
	for _, action := range all.Actions() {
		p := Permission{
			ID:       uuid.New(),
			Resource: access.Resource,
			Action:   action,
			Label:    permissionLabels[action],
		}
		err := db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "resource"}, {Name: "action"}},
				DoNothing: true,
			}).
			Create(&p).Error
		if err != nil {
			return err
		}
	}
	return nil
}
