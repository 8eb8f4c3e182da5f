package holiday

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-leave/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=holiday_repo.go -destination=mock/holiday_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByYear(ctx context.Context, year int) ([]Entry, error)
	LatestVersion(ctx context.Context, source string, year int) (string, error)
	DeleteBySourceAndYear(ctx context.Context, source string, year int) (int64, error)
	CreateBatch(ctx context.Context, entries []Entry) error
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

func (r *repository) FindByYear(ctx context.Context, year int) ([]Entry, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	var entries []Entry
	err := r.conn(ctx).
		Where("date >= ? AND date < ?", from, to).
		Order("date ASC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) LatestVersion(ctx context.Context, source string, year int) (string, error) {
	var e Entry
	err := r.conn(ctx).
		Select("source_version").
		Where("source = ? AND source_year = ?", source, year).
		Order("created_at DESC").
		Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	return e.SourceVersion, err
}

func (r *repository) DeleteBySourceAndYear(ctx context.Context, source string, year int) (int64, error) {
	res := r.conn(ctx).
		Where("source = ? AND source_year = ?", source, year).
		Delete(&Entry{})
	return res.RowsAffected, res.Error
}

func (r *repository) CreateBatch(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.conn(ctx).CreateInBatches(entries, 200).Error
}
