package access

import (
	"context"

	"github.com/google/uuid"
)

// Actor is the caller as seen by the leave workflow, resolved once per request.
type Actor struct {
	EmployeeID   uuid.UUID
	CompanyID    uuid.UUID
	DepartmentID *uuid.UUID
	Capabilities Capability
}

func (a Actor) Is(employeeID uuid.UUID) bool {
	return a.EmployeeID != uuid.Nil && a.EmployeeID == employeeID
}

func (a Actor) SameDepartment(departmentID *uuid.UUID) bool {
	return a.DepartmentID != nil && departmentID != nil && *a.DepartmentID == *departmentID
}

type CapabilitySource interface {
	Capabilities(companyID, employeeID string) (Capability, error)
}

type DepartmentSource interface {
	DepartmentOf(ctx context.Context, companyID, employeeID string) (*uuid.UUID, error)
}

type Resolver struct {
	capabilities CapabilitySource
	departments  DepartmentSource
}

func NewResolver(capabilities CapabilitySource, departments DepartmentSource) *Resolver {
	return &Resolver{capabilities: capabilities, departments: departments}
}

func (r *Resolver) Resolve(ctx context.Context, companyID, employeeID string) (Actor, error) {
	cid, err := uuid.Parse(companyID)
	if err != nil {
		return Actor{}, err
	}
	eid, err := uuid.Parse(employeeID)
	if err != nil {
		return Actor{}, err
	}

	caps, err := r.capabilities.Capabilities(companyID, employeeID)
	if err != nil {
		return Actor{}, err
	}
	dept, err := r.departments.DepartmentOf(ctx, companyID, employeeID)
	if err != nil {
		return Actor{}, err
	}

	return Actor{
		EmployeeID:   eid,
		CompanyID:    cid,
		DepartmentID: dept,
		Capabilities: caps,
	}, nil
}
