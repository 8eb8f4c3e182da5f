package employee

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	employeeerrors "go-leave/internal/employee/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	DirectoryKeyPrefix = "employees:directory:"
	directoryTTL       = 10 * time.Minute

	MaxLookupResults = 20
)

func GetDirectoryKey(companyID, id string) string {
	return DirectoryKeyPrefix + companyID + ":" + id
}

// Directory is the read side of the employee collaborator used by the leave workflow.
//
//go:generate mockgen -source=employee_directory.go -destination=mock/employee_directory_mock.go -package=mock
type Directory interface {
	FindByID(ctx context.Context, companyID, id string) (Employee, error)
	SearchByName(ctx context.Context, companyID, text string) ([]uuid.UUID, error)
	// Lookup returns up to MaxLookupResults employees whose name contains text.
	Lookup(ctx context.Context, companyID, text string) ([]Employee, error)
	DepartmentOf(ctx context.Context, companyID, employeeID string) (*uuid.UUID, error)
	// Manager resolves ManagerID by a single lookup. nil when unset or gone.
	Manager(ctx context.Context, companyID, employeeID string) (*Employee, error)
}

type directory struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewDirectory(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Directory {
	l := zap.L().Named("employee.directory")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.directory")
	}
	return &directory{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (d *directory) FindByID(ctx context.Context, companyID, id string) (Employee, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Employee{}, employeeerrors.ErrInvalidEmployeeID
	}
	cacheKey := GetDirectoryKey(companyID, id)

	if d.rdb != nil {
		if cached, err := d.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var emp Employee
			if json.Unmarshal([]byte(cached), &emp) == nil {
				return emp, nil
			}
		}
	}

	v, err, _ := d.sf.Do(cacheKey, func() (interface{}, error) {
		emp, err := d.repo.FindByIDAndCompany(ctx, companyID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, employeeerrors.ErrEmployeeNotFound
			}
			return nil, err
		}

		if d.rdb != nil {
			if data, err := json.Marshal(emp); err == nil {
				if err := d.rdb.Set(ctx, cacheKey, data, directoryTTL).Err(); err != nil {
					d.logger.Warn("employee cache write failed", zap.String("employee_id", id), zap.Error(err))
				}
			}
		}
		return *emp, nil
	})
	if err != nil {
		return Employee{}, err
	}
	return v.(Employee), nil
}

func (d *directory) SearchByName(ctx context.Context, companyID, text string) ([]uuid.UUID, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	return d.repo.FindIDsByName(ctx, companyID, text)
}

func (d *directory) Lookup(ctx context.Context, companyID, text string) ([]Employee, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []Employee{}, nil
	}
	return d.repo.FindByName(ctx, companyID, text, MaxLookupResults)
}

func (d *directory) DepartmentOf(ctx context.Context, companyID, employeeID string) (*uuid.UUID, error) {
	emp, err := d.FindByID(ctx, companyID, employeeID)
	if err != nil {
		if errors.Is(err, employeeerrors.ErrEmployeeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return emp.DepartmentID, nil
}

func (d *directory) Manager(ctx context.Context, companyID, employeeID string) (*Employee, error) {
	emp, err := d.FindByID(ctx, companyID, employeeID)
	if err != nil {
		return nil, err
	}
	if emp.ManagerID == nil {
		return nil, nil
	}
	manager, err := d.FindByID(ctx, companyID, emp.ManagerID.String())
	if err != nil {
		if errors.Is(err, employeeerrors.ErrEmployeeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &manager, nil
}
