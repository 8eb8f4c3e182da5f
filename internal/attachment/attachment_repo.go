package attachment

import (
	"context"
	"database/sql"
	"errors"

	"go-leave/internal/shared/connection"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=attachment_repo.go -destination=mock/attachment_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	ListByLeave(ctx context.Context, leaveID uuid.UUID) ([]Attachment, error)
	FindByKey(ctx context.Context, leaveID uuid.UUID, storedKey string) (*Attachment, error)
	Create(ctx context.Context, a *Attachment) error
	DeleteByKey(ctx context.Context, leaveID uuid.UUID, storedKey string) (int64, error)
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

func (r *repository) ListByLeave(ctx context.Context, leaveID uuid.UUID) ([]Attachment, error) {
	var items []Attachment
	err := r.conn(ctx).
		Where("leave_id = ?", leaveID).
		Order("uploaded_at ASC").
		Find(&items).Error
	return items, err
}

func (r *repository) FindByKey(ctx context.Context, leaveID uuid.UUID, storedKey string) (*Attachment, error) {
	var a Attachment
	err := r.conn(ctx).
		Where("leave_id = ? AND stored_key = ?", leaveID, storedKey).
		Take(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) Create(ctx context.Context, a *Attachment) error {
	return r.conn(ctx).Create(a).Error
}

func (r *repository) DeleteByKey(ctx context.Context, leaveID uuid.UUID, storedKey string) (int64, error) {
	res := r.conn(ctx).
		Where("leave_id = ? AND stored_key = ?", leaveID, storedKey).
		Delete(&Attachment{})
	return res.RowsAffected, res.Error
}
