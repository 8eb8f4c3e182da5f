package rbac

type EnforceRequest struct {
	EmployeeID string `json:"employee_id"`
	CompanyID  string `json:"company_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
}

type CapabilitiesResponse struct {
	EmployeeID   string   `json:"employee_id"`
	DepartmentID *string  `json:"department_id,omitempty"`
	Actions      []string `json:"actions"`
}
