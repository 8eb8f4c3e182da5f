package app

import (
	"context"

	"go-leave/internal/attachment"
	"go-leave/internal/employee"
	"go-leave/internal/holiday"
	"go-leave/internal/leave"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/rbac"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migrate creates missing tables and seeds reference data. Safe to run on every start.
func Migrate(ctx context.Context, db *gorm.DB) error {
	logger := zap.L().Named("app.migrate")

	err := db.WithContext(ctx).AutoMigrate(
		// Collaborators
		&employee.Employee{},
		&rbac.Role{},
		&rbac.Permission{},
		&rbac.RolePermission{},
		&rbac.EmployeeRole{},
		// Calendar
		&holiday.Entry{},
		// Leave
		&leave.LeaveType{},
		&leave.LeaveStatus{},
		&leave.Leave{},
		&attachment.Attachment{},
		// Messaging
		&kafka.OutboxRecord{},
	)
	if err != nil {
		return err
	}

	if err := leave.Seed(ctx, db); err != nil {
		return err
	}
	if err := rbac.SeedPermissions(ctx, db); err != nil {
		return err
	}

	logger.Info("schema migrated and reference data seeded")
	return nil
}
