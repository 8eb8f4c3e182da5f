package leave

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var defaultStatuses = []LeaveStatus{
	{Code: StatusPending, Name: "Pending", Active: true, Terminal: false, SortOrder: 1},
	{Code: StatusApproved, Name: "Approved", Active: true, Terminal: true, SortOrder: 2},
	{Code: StatusRejected, Name: "Rejected", Active: true, Terminal: true, SortOrder: 3},
}

var defaultLeaveTypes = []LeaveType{
	{Name: "Annual", Active: true, Annual: true, SortOrder: 1},
	{Name: "Sick", Active: true, SortOrder: 2},
	{Name: "Personal", Active: true, SortOrder: 3},
	{Name: "Compensatory", Active: true, SortOrder: 4},
}

// Seed inserts the reference rows the workflow depends on. Existing rows keep their names and
// activity; only the annual flag of a known leave type is refreshed.
func Seed(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&defaultStatuses).Error; err != nil {
			return err
		}
		types := make([]LeaveType, len(defaultLeaveTypes))
		copy(types, defaultLeaveTypes)
		for i := range types {
			types[i].ID = uuid.New()
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"annual"}),
		}).Create(&types).Error
	})
}
