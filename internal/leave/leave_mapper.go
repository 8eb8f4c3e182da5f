package leave

import (
	"time"

	"go-leave/internal/attachment"
)

func (s *service) mapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:              l.ID.String(),
		EmployeeID:      l.EmployeeID.String(),
		LeaveTypeID:     l.LeaveTypeID.String(),
		Reason:          l.Reason,
		Start:           l.StartAt.Format(dateTimeLayout),
		End:             l.EndAt.Format(dateTimeLayout),
		Hours:           l.Hours.StringFixed(2),
		Status:          l.Status,
		RejectionReason: l.RejectionReason,
		AmendmentCount:  l.AmendmentCount,
		Version:         l.Version,
		CreatedAt:       l.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       l.UpdatedAt.UTC().Format(time.RFC3339),
		Attachments:     make([]AttachmentResponse, 0, len(l.Attachments)),
	}
	if l.Employee != nil {
		resp.EmployeeName = l.Employee.FullName
	}
	if l.AgentID != nil {
		v := l.AgentID.String()
		resp.AgentID = &v
	}
	if l.Agent != nil {
		resp.AgentName = l.Agent.FullName
	}
	if l.LeaveType != nil {
		resp.LeaveTypeName = l.LeaveType.Name
	}
	if l.ReviewedAt != nil {
		v := l.ReviewedAt.UTC().Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	for _, a := range l.Attachments {
		resp.Attachments = append(resp.Attachments, s.mapAttachment(a))
	}
	return resp
}

func (s *service) mapAttachment(a attachment.Attachment) AttachmentResponse {
	return AttachmentResponse{
		StoredKey:   a.StoredKey,
		FileName:    a.FileName,
		ContentType: a.ContentType,
		Size:        a.Size,
		UploadedAt:  a.UploadedAt.UTC().Format(time.RFC3339),
		URL:         attachment.Locator(s.baseURL, a.LeaveID, a.StoredKey, a.ContentType),
	}
}
