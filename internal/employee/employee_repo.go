package employee

import (
	"context"

	"go-leave/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Employee, error)
	FindIDsByName(ctx context.Context, companyID, text string) ([]uuid.UUID, error)
	FindByName(ctx context.Context, companyID, text string, limit int) ([]Employee, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Employee, error) {
	var emp Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&emp, "id = ?", id).Error
	return &emp, err
}

func (r *repository) FindIDsByName(ctx context.Context, companyID, text string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Scopes(tenant.Scope(companyID)).
		Where("full_name ILIKE ?", "%"+escapeLike(text)+"%").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *repository) FindByName(ctx context.Context, companyID, text string, limit int) ([]Employee, error) {
	var emps []Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("full_name ILIKE ?", "%"+escapeLike(text)+"%").
		Order("full_name ASC").
		Limit(limit).
		Find(&emps).Error
	return emps, err
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
