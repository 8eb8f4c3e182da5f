package access

import "github.com/google/uuid"

type ViewMode string

const (
	ViewSelfOnly            ViewMode = "self"
	ViewCompanyAll          ViewMode = "companyAll"
	ViewCompanyProcessed    ViewMode = "companyProcessed"
	ViewDepartmentPending   ViewMode = "departmentPending"
	ViewDepartmentProcessed ViewMode = "departmentProcessed"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
	StatusAll      = "ALL"
)

var processedStatuses = []string{StatusApproved, StatusRejected}

// Scope restricts a leave query. Nil fields mean no restriction.
type Scope struct {
	OwnerID      *uuid.UUID
	DepartmentID *uuid.UUID
	Statuses     []string
	// Filters reports whether name and date filters apply; the self view ignores them.
	Filters bool
}

// BuildScope picks the first rule that matches mode and capabilities, falling back to the actor's own records.
func BuildScope(actor Actor, mode ViewMode, status string) Scope {
	caps := actor.Capabilities

	switch {
	case mode == ViewCompanyAll && caps.Has(ManageAll):
		return Scope{Filters: true}
	case mode == ViewCompanyProcessed && caps.Has(ManageAll):
		return Scope{Statuses: processedStatuses, Filters: true}
	case mode == ViewDepartmentPending && caps.Has(ViewDepartment) && actor.DepartmentID != nil:
		dept := *actor.DepartmentID
		return Scope{DepartmentID: &dept, Statuses: []string{StatusPending}, Filters: true}
	case mode == ViewDepartmentProcessed && caps.Has(ViewDepartment) && actor.DepartmentID != nil:
		dept := *actor.DepartmentID
		return Scope{DepartmentID: &dept, Statuses: processedStatuses, Filters: true}
	}

	owner := actor.EmployeeID
	scope := Scope{OwnerID: &owner}
	if status != "" && status != StatusAll {
		scope.Statuses = []string{status}
	}
	return scope
}

func CanView(actor Actor, ownerID uuid.UUID, ownerDepartmentID *uuid.UUID) bool {
	if actor.Is(ownerID) || actor.Capabilities.Has(ManageAll) {
		return true
	}
	return actor.Capabilities.Has(ViewDepartment) && actor.SameDepartment(ownerDepartmentID)
}

func CanEdit(actor Actor, ownerID uuid.UUID) bool {
	if actor.Capabilities.Has(ManageAll) {
		return true
	}
	return actor.Is(ownerID) && actor.Capabilities.Has(EditSelf)
}

func CanDelete(actor Actor, ownerID uuid.UUID) bool {
	if actor.Capabilities.Has(ManageAll) {
		return true
	}
	return actor.Is(ownerID) && actor.Capabilities.Has(DeleteSelf)
}

// CanReview never lets owners decide their own requests.
func CanReview(actor Actor, ownerID uuid.UUID) bool {
	if actor.Is(ownerID) {
		return false
	}
	return actor.Capabilities.Any(Approve, ManageAll)
}
