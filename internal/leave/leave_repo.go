package leave

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-leave/internal/shared/connection"
	"go-leave/internal/tenant"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QueryFilter narrows a company's leave records. Nil fields do not restrict.
// A non-nil empty OwnerIDs matches nothing.
type QueryFilter struct {
	OwnerID      *uuid.UUID
	DepartmentID *uuid.UUID
	OwnerIDs     []uuid.UUID
	Statuses     []string
	From         *time.Time
	To           *time.Time
	Page         int
	PageSize     int
}

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *Leave) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Leave, error)
	LockByID(ctx context.Context, companyID, id uuid.UUID) (*Leave, error)
	UpdateGuarded(ctx context.Context, l *Leave, expectedVersion int) (bool, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) (int64, error)
	Query(ctx context.Context, companyID uuid.UUID, filter QueryFilter) ([]Leave, int64, error)
	FindLeaveType(ctx context.Context, id uuid.UUID) (*LeaveType, error)
	FindStatus(ctx context.Context, code string) (*LeaveStatus, error)
	ListLeaveTypes(ctx context.Context) ([]LeaveType, error)
	ListStatuses(ctx context.Context) ([]LeaveStatus, error)
	SumApprovedAnnualHours(ctx context.Context, companyID, employeeID uuid.UUID) (decimal.Decimal, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return connection.WithSQLTx(r.db, r.tx).WithContext(ctx)
}

func (r *repository) Create(ctx context.Context, l *Leave) error {
	return r.conn(ctx).Omit(clause.Associations).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*Leave, error) {
	var l Leave
	err := r.conn(ctx).
		Preload("Employee").
		Preload("Agent").
		Preload("LeaveType").
		Preload("Attachments", func(db *gorm.DB) *gorm.DB {
			return db.Order("uploaded_at ASC")
		}).
		Scopes(tenant.Scope(companyID)).
		First(&l, "id = ?", id).Error
	return &l, err
}

// LockByID reads the row FOR UPDATE. Must run inside a transaction.
func (r *repository) LockByID(ctx context.Context, companyID, id uuid.UUID) (*Leave, error) {
	var l Leave
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(tenant.Scope(companyID)).
		First(&l, "id = ?", id).Error
	return &l, err
}

// UpdateGuarded writes l only if the stored version still equals expectedVersion.
func (r *repository) UpdateGuarded(ctx context.Context, l *Leave, expectedVersion int) (bool, error) {
	res := r.conn(ctx).
		Model(&Leave{}).
		Where("id = ? AND company_id = ? AND version = ?", l.ID, l.CompanyID, expectedVersion).
		Updates(map[string]interface{}{
			"agent_id":         l.AgentID,
			"leave_type_id":    l.LeaveTypeID,
			"reason":           l.Reason,
			"start_at":         l.StartAt,
			"end_at":           l.EndAt,
			"hours":            l.Hours,
			"status":           l.Status,
			"rejection_reason": l.RejectionReason,
			"reviewed_at":      l.ReviewedAt,
			"reviewed_by":      l.ReviewedBy,
			"amendment_count":  l.AmendmentCount,
			"version":          l.Version,
			"updated_at":       l.UpdatedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) Delete(ctx context.Context, companyID, id uuid.UUID) (int64, error) {
	res := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&Leave{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *repository) Query(ctx context.Context, companyID uuid.UUID, f QueryFilter) ([]Leave, int64, error) {
	db := r.conn(ctx).Model(&Leave{}).Where("leave_records.company_id = ?", companyID)

	if f.OwnerID != nil {
		db = db.Where("leave_records.employee_id = ?", *f.OwnerID)
	}
	if f.DepartmentID != nil {
		sub := r.conn(ctx).Table("employees").Select("id").
			Where("company_id = ? AND department_id = ?", companyID, *f.DepartmentID)
		db = db.Where("leave_records.employee_id IN (?)", sub)
	}
	if f.OwnerIDs != nil {
		if len(f.OwnerIDs) == 0 {
			return []Leave{}, 0, nil
		}
		db = db.Where("leave_records.employee_id IN ?", f.OwnerIDs)
	}
	if f.Statuses != nil {
		if len(f.Statuses) == 0 {
			return []Leave{}, 0, nil
		}
		db = db.Where("leave_records.status IN ?", f.Statuses)
	}
	if f.To != nil {
		db = db.Where("leave_records.start_at < ?", *f.To)
	}
	if f.From != nil {
		db = db.Where("leave_records.end_at > ?", *f.From)
	}

	var total int64
	if err := db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, size := f.Page, f.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}

	var leaves []Leave
	err := db.Session(&gorm.Session{}).
		Preload("Employee").
		Preload("Agent").
		Preload("LeaveType").
		Order("leave_records.created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&leaves).Error
	return leaves, total, err
}

func (r *repository) FindLeaveType(ctx context.Context, id uuid.UUID) (*LeaveType, error) {
	var t LeaveType
	err := r.conn(ctx).First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) FindStatus(ctx context.Context, code string) (*LeaveStatus, error) {
	var s LeaveStatus
	err := r.conn(ctx).First(&s, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) ListLeaveTypes(ctx context.Context) ([]LeaveType, error) {
	var types []LeaveType
	err := r.conn(ctx).Where("active = ?", true).Order("sort_order ASC, name ASC").Find(&types).Error
	return types, err
}

func (r *repository) ListStatuses(ctx context.Context) ([]LeaveStatus, error) {
	var statuses []LeaveStatus
	err := r.conn(ctx).Where("active = ?", true).Order("sort_order ASC").Find(&statuses).Error
	return statuses, err
}

// SumApprovedAnnualHours totals the approved hours booked against annual leave types.
func (r *repository) SumApprovedAnnualHours(ctx context.Context, companyID, employeeID uuid.UUID) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := r.conn(ctx).Model(&Leave{}).
		Select("COALESCE(SUM(leave_records.hours), 0) AS total").
		Joins("JOIN leave_types ON leave_types.id = leave_records.leave_type_id").
		Where("leave_records.company_id = ? AND leave_records.employee_id = ?", companyID, employeeID).
		Where("leave_records.status = ? AND leave_types.annual = ?", StatusApproved, true).
		Scan(&row).Error
	return row.Total, err
}
