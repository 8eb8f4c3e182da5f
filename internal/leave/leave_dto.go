package leave

type CreateLeaveRequest struct {
	LeaveTypeID string  `json:"leave_type_id" binding:"required,uuid"`
	AgentID     *string `json:"agent_id" binding:"omitempty,uuid"`
	Reason      string  `json:"reason" binding:"max=200"`
	Start       string  `json:"start" binding:"required"`
	End         string  `json:"end" binding:"required"`
}

// AmendLeaveRequest is a patch; nil fields keep their value. An empty AgentID clears the agent.
type AmendLeaveRequest struct {
	LeaveTypeID          *string  `json:"leave_type_id" binding:"omitempty,uuid"`
	AgentID              *string  `json:"agent_id" binding:"omitempty,max=36"`
	Reason               *string  `json:"reason" binding:"omitempty,max=200"`
	Start                *string  `json:"start"`
	End                  *string  `json:"end"`
	Version              *int     `json:"version" binding:"omitempty,min=1"`
	DeleteAttachmentKeys []string `json:"delete_attachment_keys" binding:"omitempty,max=5,dive,required"`
}

type ReviewLeaveRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason" binding:"max=500"`
}

type ListLeaveQuery struct {
	View         string `form:"view"`
	Status       string `form:"status"`
	EmployeeName string `form:"employee_name"`
	StartDate    string `form:"start_date"`
	EndDate      string `form:"end_date"`
	Page         int    `form:"page" binding:"omitempty,min=1"`
	PageSize     int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

type AgentSearchQuery struct {
	Name string `form:"name" binding:"required"`
}

type PreviewHoursQuery struct {
	Start string `form:"start" binding:"required"`
	End   string `form:"end" binding:"required"`
}

type AttachmentResponse struct {
	StoredKey   string `json:"stored_key"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	UploadedAt  string `json:"uploaded_at"`
	URL         string `json:"url"`
}

type LeaveResponse struct {
	ID              string               `json:"id"`
	EmployeeID      string               `json:"employee_id"`
	EmployeeName    string               `json:"employee_name,omitempty"`
	AgentID         *string              `json:"agent_id,omitempty"`
	AgentName       string               `json:"agent_name,omitempty"`
	LeaveTypeID     string               `json:"leave_type_id"`
	LeaveTypeName   string               `json:"leave_type_name,omitempty"`
	Reason          string               `json:"reason"`
	Start           string               `json:"start"`
	End             string               `json:"end"`
	Hours           string               `json:"hours"`
	Status          string               `json:"status"`
	RejectionReason *string              `json:"rejection_reason,omitempty"`
	ReviewedAt      *string              `json:"reviewed_at,omitempty"`
	AmendmentCount  int                  `json:"amendment_count"`
	Version         int                  `json:"version"`
	CreatedAt       string               `json:"created_at"`
	UpdatedAt       string               `json:"updated_at"`
	Attachments     []AttachmentResponse `json:"attachments"`
}

type HoursPreviewResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Hours string `json:"hours"`
}

type LeaveTypeResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Annual bool   `json:"annual"`
}

type AgentResponse struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
}

type AnnualBalanceResponse struct {
	EntitlementDays  int    `json:"entitlement_days"`
	EntitlementHours string `json:"entitlement_hours"`
	UsedHours        string `json:"used_hours"`
	BalanceHours     string `json:"balance_hours"`
}

type LeaveStatusResponse struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Terminal bool   `json:"terminal"`
}

type FormDataResponse struct {
	LeaveTypes []LeaveTypeResponse   `json:"leave_types"`
	Statuses   []LeaveStatusResponse `json:"statuses"`
}

// AttachmentFile is a stored attachment ready to stream back to the client.
type AttachmentFile struct {
	FileName    string
	ContentType string
	Data        []byte
}
