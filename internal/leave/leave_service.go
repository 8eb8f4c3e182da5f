package leave

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go-leave/internal/access"
	"go-leave/internal/attachment"
	"go-leave/internal/employee"
	employeeerrors "go-leave/internal/employee/errors"
	"go-leave/internal/events"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/notification"
	"go-leave/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var maxStoredHours = decimal.RequireFromString("999.99")

type HourCalculator interface {
	Hours(ctx context.Context, start, end time.Time) (decimal.Decimal, error)
	PreviewHours(ctx context.Context, start, end time.Time) (decimal.Decimal, error)
}

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor access.Actor, req CreateLeaveRequest) (LeaveResponse, error)
	Amend(ctx context.Context, actor access.Actor, id string, req AmendLeaveRequest, files []attachment.Upload) (LeaveResponse, error)
	Review(ctx context.Context, actor access.Actor, id string, req ReviewLeaveRequest) (LeaveResponse, error)
	Delete(ctx context.Context, actor access.Actor, id string) error
	Get(ctx context.Context, actor access.Actor, id string) (LeaveResponse, error)
	Query(ctx context.Context, actor access.Actor, q ListLeaveQuery) ([]LeaveResponse, int64, error)
	AddAttachment(ctx context.Context, actor access.Actor, id string, upload attachment.Upload) (AttachmentResponse, error)
	RemoveAttachment(ctx context.Context, actor access.Actor, id, storedKey string) error
	OpenAttachment(ctx context.Context, actor access.Actor, id, storedKey string) (AttachmentFile, error)
	PreviewHours(ctx context.Context, start, end string) (HoursPreviewResponse, error)
	FormData(ctx context.Context) (FormDataResponse, error)
	SearchAgents(ctx context.Context, actor access.Actor, name string) ([]AgentResponse, error)
	AnnualBalance(ctx context.Context, actor access.Actor) (AnnualBalanceResponse, error)
}

// Dependencies are the collaborators of the workflow. Notifier may be nil.
type Dependencies struct {
	Ledger    attachment.Ledger
	Directory employee.Directory
	Hours     HourCalculator
	Notifier  notification.Sender
	BaseURL   string
}

type service struct {
	db        *sql.DB
	repo      Repository
	ledger    attachment.Ledger
	directory employee.Directory
	hours     HourCalculator
	notifier  notification.Sender
	baseURL   string
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(db *sql.DB, repo Repository, deps Dependencies, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		ledger:    deps.Ledger,
		directory: deps.Directory,
		hours:     deps.Hours,
		notifier:  deps.Notifier,
		baseURL:   strings.TrimRight(deps.BaseURL, "/"),
		now:       time.Now,
		logger:    l,
	}
}

func (s *service) Create(ctx context.Context, actor access.Actor, req CreateLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create leave requested",
		zap.String("request_id", rid),
		zap.String("employee_id", actor.EmployeeID.String()),
		zap.String("start", req.Start),
		zap.String("end", req.End),
	)

	start, end, err := parseInterval(req.Start, req.End)
	if err != nil {
		s.logger.Warn("create leave validation failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	leaveTypeID, err := uuid.Parse(req.LeaveTypeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveType
	}
	agentID, err := s.resolveAgent(ctx, actor.CompanyID, actor.EmployeeID, req.AgentID)
	if err != nil {
		s.logger.Warn("create leave agent rejected", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	hours, err := s.computeHours(ctx, start, end)
	if err != nil {
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := checkLeaveType(ctx, qtx, leaveTypeID); err != nil {
		return LeaveResponse{}, err
	}

	now := s.now().UTC()
	l := &Leave{
		ID:          uuid.New(),
		CompanyID:   actor.CompanyID,
		EmployeeID:  actor.EmployeeID,
		AgentID:     agentID,
		LeaveTypeID: leaveTypeID,
		Reason:      strings.TrimSpace(req.Reason),
		StartAt:     start,
		EndAt:       end,
		Hours:       hours,
		Status:      StatusPending,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("create leave persist failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave commit failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("create leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", l.EmployeeID.String()),
		zap.String("hours", hours.String()),
	)

	saved := s.reload(ctx, l)
	s.notifyManager(ctx, saved)
	return s.mapToResponse(*saved), nil
}

func (s *service) Amend(ctx context.Context, actor access.Actor, id string, req AmendLeaveRequest, files []attachment.Upload) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	leaveID, err := parseLeaveID(id)
	if err != nil {
		return LeaveResponse{}, err
	}
	s.logger.Debug("amend leave requested",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.Int("new_files", len(files)),
		zap.Int("deleted_files", len(req.DeleteAttachmentKeys)),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("amend leave begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := lockLeave(ctx, qtx, actor.CompanyID, leaveID)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !access.CanEdit(actor, l.EmployeeID) {
		return LeaveResponse{}, leaveerrors.ErrForbidden
	}
	if !l.IsPending() {
		return LeaveResponse{}, leaveerrors.ErrNotPending
	}
	if req.Version != nil && *req.Version != l.Version {
		return LeaveResponse{}, leaveerrors.ErrVersionMismatch
	}
	expectedVersion := l.Version

	if req.LeaveTypeID != nil {
		leaveTypeID, err := uuid.Parse(*req.LeaveTypeID)
		if err != nil {
			return LeaveResponse{}, leaveerrors.ErrInvalidLeaveType
		}
		if err := checkLeaveType(ctx, qtx, leaveTypeID); err != nil {
			return LeaveResponse{}, err
		}
		l.LeaveTypeID = leaveTypeID
	}
	if req.AgentID != nil {
		agentID, err := s.resolveAgent(ctx, l.CompanyID, l.EmployeeID, req.AgentID)
		if err != nil {
			return LeaveResponse{}, err
		}
		l.AgentID = agentID
	}
	if req.Reason != nil {
		l.Reason = strings.TrimSpace(*req.Reason)
	}

	start, end := l.StartAt, l.EndAt
	if req.Start != nil {
		if start, err = parseDateTime(*req.Start); err != nil {
			return LeaveResponse{}, leaveerrors.ErrInvalidInterval
		}
	}
	if req.End != nil {
		if end, err = parseDateTime(*req.End); err != nil {
			return LeaveResponse{}, leaveerrors.ErrInvalidInterval
		}
	}
	if !start.Before(end) {
		return LeaveResponse{}, leaveerrors.ErrInvalidInterval
	}
	hours, err := s.computeHours(ctx, start, end)
	if err != nil {
		return LeaveResponse{}, err
	}
	l.StartAt, l.EndAt, l.Hours = start, end, hours

	var reconciled attachment.ReconcileResult
	if len(req.DeleteAttachmentKeys) > 0 || len(files) > 0 {
		reconciled, err = s.ledger.WithTx(tx).Reconcile(ctx, l.ID, req.DeleteAttachmentKeys, files)
		if err != nil {
			s.logger.Warn("amend leave attachment reconcile failed",
				zap.String("request_id", rid),
				zap.String("leave_id", id),
				zap.Error(err),
			)
			return LeaveResponse{}, err
		}
	}

	l.AmendmentCount++
	l.Version++
	l.UpdatedAt = s.now().UTC()

	if err := s.saveGuarded(ctx, qtx, l, expectedVersion); err != nil {
		s.ledger.Revert(ctx, l.ID, reconciled)
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("amend leave commit failed", zap.String("request_id", rid), zap.Error(err))
		s.ledger.Revert(ctx, l.ID, reconciled)
		return LeaveResponse{}, err
	}
	s.logger.Info("amend leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.Int("amendment_count", l.AmendmentCount),
	)

	return s.mapToResponse(*s.reload(ctx, l)), nil
}

// Review decides a pending request. Under concurrent reviews the first commit wins and the
// second reviewer sees the record as already reviewed.
func (s *service) Review(ctx context.Context, actor access.Actor, id string, req ReviewLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	leaveID, err := parseLeaveID(id)
	if err != nil {
		return LeaveResponse{}, err
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if status != StatusApproved && status != StatusRejected {
		return LeaveResponse{}, leaveerrors.ErrInvalidStatus
	}
	s.logger.Debug("review leave requested",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("reviewer_id", actor.EmployeeID.String()),
		zap.String("status", status),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("review leave begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := lockLeave(ctx, qtx, actor.CompanyID, leaveID)
	if err != nil {
		return LeaveResponse{}, err
	}
	if actor.Is(l.EmployeeID) {
		s.logger.Warn("review leave self review rejected", zap.String("request_id", rid), zap.String("leave_id", id))
		return LeaveResponse{}, leaveerrors.ErrSelfReview
	}
	if !access.CanReview(actor, l.EmployeeID) {
		return LeaveResponse{}, leaveerrors.ErrForbidden
	}

	ref, err := qtx.FindStatus(ctx, status)
	if err != nil {
		return LeaveResponse{}, err
	}
	if ref == nil || !ref.Active {
		return LeaveResponse{}, leaveerrors.ErrInvalidStatus
	}
	if !l.IsPending() {
		return LeaveResponse{}, leaveerrors.ErrNotPending
	}
	expectedVersion := l.Version

	now := s.now().UTC()
	reviewer := actor.EmployeeID
	l.Status = status
	l.RejectionReason = nil
	if status == StatusRejected {
		if reason := strings.TrimSpace(req.Reason); reason != "" {
			l.RejectionReason = &reason
		}
	}
	l.ReviewedAt = &now
	l.ReviewedBy = &reviewer
	l.Version++
	l.UpdatedAt = now

	if err := s.saveGuarded(ctx, qtx, l, expectedVersion); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("review leave commit failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("review leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("status", status),
	)

	saved := s.reload(ctx, l)
	s.notifyOwner(ctx, saved)
	return s.mapToResponse(*saved), nil
}

func (s *service) Delete(ctx context.Context, actor access.Actor, id string) error {
	rid := contextutil.GetRequestID(ctx)
	leaveID, err := parseLeaveID(id)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete leave begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := lockLeave(ctx, qtx, actor.CompanyID, leaveID)
	if err != nil {
		return err
	}
	if !access.CanDelete(actor, l.EmployeeID) {
		return leaveerrors.ErrForbidden
	}

	items, err := s.ledger.WithTx(tx).List(ctx, l.ID)
	if err != nil {
		return err
	}

	affected, err := qtx.Delete(ctx, l.CompanyID, l.ID)
	if err != nil {
		s.logger.Error("delete leave failed", zap.String("request_id", rid), zap.String("leave_id", id), zap.Error(err))
		return err
	}
	if affected == 0 {
		return leaveerrors.ErrLeaveNotFound
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete leave commit failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}

	keys := make([]string, len(items))
	for i, a := range items {
		keys[i] = a.StoredKey
	}
	s.ledger.Discard(ctx, l.ID, keys)

	s.logger.Info("delete leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.Int("attachments", len(keys)),
	)
	return nil
}

func (s *service) Get(ctx context.Context, actor access.Actor, id string) (LeaveResponse, error) {
	leaveID, err := parseLeaveID(id)
	if err != nil {
		return LeaveResponse{}, err
	}
	l, err := s.repo.FindByID(ctx, actor.CompanyID, leaveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if !s.canView(ctx, actor, l) {
		return LeaveResponse{}, leaveerrors.ErrForbidden
	}
	return s.mapToResponse(*l), nil
}

func (s *service) Query(ctx context.Context, actor access.Actor, q ListLeaveQuery) ([]LeaveResponse, int64, error) {
	status := strings.ToUpper(strings.TrimSpace(q.Status))
	scope := access.BuildScope(actor, access.ViewMode(q.View), status)

	filter := QueryFilter{
		OwnerID:      scope.OwnerID,
		DepartmentID: scope.DepartmentID,
		Statuses:     scope.Statuses,
		Page:         q.Page,
		PageSize:     q.PageSize,
	}

	if scope.Filters {
		filter.Statuses = narrowStatuses(scope.Statuses, status)

		if name := strings.TrimSpace(q.EmployeeName); name != "" {
			ids, err := s.directory.SearchByName(ctx, actor.CompanyID.String(), name)
			if err != nil {
				return nil, 0, err
			}
			if ids == nil {
				ids = []uuid.UUID{}
			}
			filter.OwnerIDs = ids
		}

		from, to, err := parseDateFilter(q.StartDate, q.EndDate)
		if err != nil {
			return nil, 0, err
		}
		filter.From, filter.To = from, to
	}

	leaves, total, err := s.repo.Query(ctx, actor.CompanyID, filter)
	if err != nil {
		s.logger.Error("query leave failed", zap.String("view", q.View), zap.Error(err))
		return nil, 0, err
	}

	out := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		out[i] = s.mapToResponse(l)
	}
	return out, total, nil
}

func (s *service) AddAttachment(ctx context.Context, actor access.Actor, id string, upload attachment.Upload) (AttachmentResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	leaveID, err := parseLeaveID(id)
	if err != nil {
		return AttachmentResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("add attachment begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return AttachmentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := lockLeave(ctx, qtx, actor.CompanyID, leaveID)
	if err != nil {
		return AttachmentResponse{}, err
	}
	if !access.CanEdit(actor, l.EmployeeID) {
		return AttachmentResponse{}, leaveerrors.ErrForbidden
	}
	if !l.IsPending() {
		return AttachmentResponse{}, leaveerrors.ErrNotPending
	}
	expectedVersion := l.Version

	a, err := s.ledger.WithTx(tx).Add(ctx, l.ID, upload)
	if err != nil {
		return AttachmentResponse{}, err
	}

	l.AmendmentCount++
	l.Version++
	l.UpdatedAt = s.now().UTC()
	if err := s.saveGuarded(ctx, qtx, l, expectedVersion); err != nil {
		s.ledger.Discard(ctx, l.ID, []string{a.StoredKey})
		return AttachmentResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("add attachment commit failed", zap.String("request_id", rid), zap.Error(err))
		s.ledger.Discard(ctx, l.ID, []string{a.StoredKey})
		return AttachmentResponse{}, err
	}
	s.logger.Info("add attachment success",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("stored_key", a.StoredKey),
	)
	return s.mapAttachment(a), nil
}

func (s *service) RemoveAttachment(ctx context.Context, actor access.Actor, id, storedKey string) error {
	rid := contextutil.GetRequestID(ctx)
	leaveID, err := parseLeaveID(id)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("remove attachment begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}
	defer tx.Rollback()

	l, err := lockLeave(ctx, s.repo.WithTx(tx), actor.CompanyID, leaveID)
	if err != nil {
		return err
	}
	if !access.CanDelete(actor, l.EmployeeID) {
		return leaveerrors.ErrForbidden
	}

	removed, err := s.ledger.WithTx(tx).Remove(ctx, l.ID, storedKey)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("remove attachment commit failed",
			zap.String("request_id", rid),
			zap.String("leave_id", id),
			zap.String("stored_key", storedKey),
			zap.Error(err),
		)
		s.ledger.Revert(ctx, l.ID, removed)
		return err
	}
	s.logger.Info("remove attachment success",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("stored_key", storedKey),
	)
	return nil
}

func (s *service) OpenAttachment(ctx context.Context, actor access.Actor, id, storedKey string) (AttachmentFile, error) {
	leaveID, err := parseLeaveID(id)
	if err != nil {
		return AttachmentFile{}, err
	}
	l, err := s.repo.FindByID(ctx, actor.CompanyID, leaveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttachmentFile{}, leaveerrors.ErrLeaveNotFound
		}
		return AttachmentFile{}, err
	}
	if !s.canView(ctx, actor, l) {
		return AttachmentFile{}, leaveerrors.ErrForbidden
	}

	a, data, err := s.ledger.Open(ctx, l.ID, storedKey)
	if err != nil {
		return AttachmentFile{}, err
	}
	return AttachmentFile{FileName: a.FileName, ContentType: a.ContentType, Data: data}, nil
}

// PreviewHours rounds to two decimals. An inverted interval previews as 0.
func (s *service) PreviewHours(ctx context.Context, start, end string) (HoursPreviewResponse, error) {
	from, err := parseDateTime(start)
	if err != nil {
		return HoursPreviewResponse{}, leaveerrors.ErrInvalidInterval
	}
	to, err := parseDateTime(end)
	if err != nil {
		return HoursPreviewResponse{}, leaveerrors.ErrInvalidInterval
	}

	hours, err := s.hours.PreviewHours(ctx, from, to)
	if err != nil {
		return HoursPreviewResponse{}, err
	}
	return HoursPreviewResponse{
		Start: from.Format(dateTimeLayout),
		End:   to.Format(dateTimeLayout),
		Hours: hours.StringFixed(2),
	}, nil
}

func (s *service) FormData(ctx context.Context) (FormDataResponse, error) {
	types, err := s.repo.ListLeaveTypes(ctx)
	if err != nil {
		return FormDataResponse{}, err
	}
	statuses, err := s.repo.ListStatuses(ctx)
	if err != nil {
		return FormDataResponse{}, err
	}

	resp := FormDataResponse{
		LeaveTypes: make([]LeaveTypeResponse, len(types)),
		Statuses:   make([]LeaveStatusResponse, len(statuses)),
	}
	for i, t := range types {
		resp.LeaveTypes[i] = LeaveTypeResponse{ID: t.ID.String(), Name: t.Name, Annual: t.Annual}
	}
	for i, st := range statuses {
		resp.Statuses[i] = LeaveStatusResponse{Code: st.Code, Name: st.Name, Terminal: st.Terminal}
	}
	return resp, nil
}

// SearchAgents lists colleagues who can stand in for the actor. The actor is never listed.
func (s *service) SearchAgents(ctx context.Context, actor access.Actor, name string) ([]AgentResponse, error) {
	emps, err := s.directory.Lookup(ctx, actor.CompanyID.String(), name)
	if err != nil {
		return nil, err
	}
	out := make([]AgentResponse, 0, len(emps))
	for _, e := range emps {
		if e.ID == actor.EmployeeID {
			continue
		}
		out = append(out, AgentResponse{ID: e.ID.String(), FullName: e.FullName})
	}
	return out, nil
}

// AnnualBalance is the actor's seniority entitlement minus approved annual leave. It may go negative.
func (s *service) AnnualBalance(ctx context.Context, actor access.Actor) (AnnualBalanceResponse, error) {
	emp, err := s.directory.FindByID(ctx, actor.CompanyID.String(), actor.EmployeeID.String())
	if err != nil {
		return AnnualBalanceResponse{}, err
	}

	days := EntitlementDays(emp.HireDate, s.now().UTC())
	entitled := decimal.NewFromInt(int64(days * HoursPerDay))

	used, err := s.repo.SumApprovedAnnualHours(ctx, actor.CompanyID, actor.EmployeeID)
	if err != nil {
		s.logger.Error("sum annual leave hours failed",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.String("employee_id", actor.EmployeeID.String()),
			zap.Error(err),
		)
		return AnnualBalanceResponse{}, err
	}

	return AnnualBalanceResponse{
		EntitlementDays:  days,
		EntitlementHours: entitled.StringFixed(2),
		UsedHours:        used.StringFixed(2),
		BalanceHours:     entitled.Sub(used).StringFixed(2),
	}, nil
}

func (s *service) computeHours(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	hours, err := s.hours.Hours(ctx, start, end)
	if err != nil {
		s.logger.Error("compute leave hours failed", zap.Error(err))
		return decimal.Zero, err
	}
	if hours.GreaterThan(maxStoredHours) {
		return decimal.Zero, leaveerrors.ErrIntervalTooLong
	}
	return hours, nil
}

// resolveAgent validates an optional agent id. A nil or blank id means no agent.
func (s *service) resolveAgent(ctx context.Context, companyID, ownerID uuid.UUID, raw *string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	agentID, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil {
		return nil, leaveerrors.ErrInvalidAgent
	}
	if agentID == ownerID {
		return nil, leaveerrors.ErrAgentIsOwner
	}
	if _, err := s.directory.FindByID(ctx, companyID.String(), agentID.String()); err != nil {
		if errors.Is(err, employeeerrors.ErrEmployeeNotFound) || errors.Is(err, employeeerrors.ErrInvalidEmployeeID) {
			return nil, leaveerrors.ErrInvalidAgent
		}
		return nil, err
	}
	return &agentID, nil
}

func (s *service) saveGuarded(ctx context.Context, qtx Repository, l *Leave, expectedVersion int) error {
	ok, err := qtx.UpdateGuarded(ctx, l, expectedVersion)
	if err != nil {
		s.logger.Error("persist leave failed", zap.String("leave_id", l.ID.String()), zap.Error(err))
		return err
	}
	if !ok {
		s.logger.Warn("leave version moved underneath update",
			zap.String("leave_id", l.ID.String()),
			zap.Int("expected_version", expectedVersion),
		)
		return leaveerrors.ErrVersionMismatch
	}
	return nil
}

// reload fetches the committed record with its associations, falling back to l.
func (s *service) reload(ctx context.Context, l *Leave) *Leave {
	fresh, err := s.repo.FindByID(ctx, l.CompanyID, l.ID)
	if err != nil || fresh == nil {
		s.logger.Warn("reload leave failed", zap.String("leave_id", l.ID.String()), zap.Error(err))
		return l
	}
	return fresh
}

func (s *service) canView(ctx context.Context, actor access.Actor, l *Leave) bool {
	var dept *uuid.UUID
	if l.Employee != nil {
		dept = l.Employee.DepartmentID
	} else if !actor.Is(l.EmployeeID) {
		d, err := s.directory.DepartmentOf(ctx, l.CompanyID.String(), l.EmployeeID.String())
		if err != nil {
			s.logger.Warn("resolve owner department failed", zap.String("leave_id", l.ID.String()), zap.Error(err))
		}
		dept = d
	}
	return access.CanView(actor, l.EmployeeID, dept)
}

func (s *service) notifyManager(ctx context.Context, l *Leave) {
	manager, err := s.directory.Manager(ctx, l.CompanyID.String(), l.EmployeeID.String())
	if err != nil {
		s.logger.Warn("resolve manager for notification failed", zap.String("leave_id", l.ID.String()), zap.Error(err))
		return
	}
	if manager == nil || manager.Email == "" {
		s.logger.Info("leave has no manager to notify", zap.String("leave_id", l.ID.String()))
		return
	}
	s.notify(ctx, l, events.LeaveSubmittedEvent, *manager)
}

func (s *service) notifyOwner(ctx context.Context, l *Leave) {
	owner := l.Employee
	if owner == nil {
		emp, err := s.directory.FindByID(ctx, l.CompanyID.String(), l.EmployeeID.String())
		if err != nil {
			s.logger.Warn("resolve owner for notification failed", zap.String("leave_id", l.ID.String()), zap.Error(err))
			return
		}
		owner = &emp
	}
	if owner.Email == "" {
		return
	}
	s.notify(ctx, l, events.LeaveReviewedEvent, *owner)
}

func (s *service) notify(ctx context.Context, l *Leave, eventType string, to employee.Employee) {
	if s.notifier == nil {
		return
	}
	event := events.LeaveNotificationEvent{
		EventType:      eventType,
		LeaveID:        l.ID.String(),
		CompanyID:      l.CompanyID.String(),
		RecipientID:    to.ID.String(),
		RecipientEmail: to.Email,
		RecipientName:  to.FullName,
		Status:         l.Status,
		StartAt:        l.StartAt,
		EndAt:          l.EndAt,
		Hours:          l.Hours.String(),
		Link:           s.baseURL + "/leave/records/" + l.ID.String(),
		OccurredAt:     s.now().UTC(),
	}
	if l.Employee != nil {
		event.EmployeeName = l.Employee.FullName
	}
	if l.RejectionReason != nil {
		event.RejectionReason = *l.RejectionReason
	}

	if err := s.notifier.Send(ctx, event); err != nil {
		s.logger.Warn("leave notification failed",
			zap.String("leave_id", l.ID.String()),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

func lockLeave(ctx context.Context, qtx Repository, companyID, id uuid.UUID) (*Leave, error) {
	l, err := qtx.LockByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrLeaveNotFound
		}
		return nil, err
	}
	return l, nil
}

func checkLeaveType(ctx context.Context, qtx Repository, id uuid.UUID) error {
	t, err := qtx.FindLeaveType(ctx, id)
	if err != nil {
		return err
	}
	if t == nil || !t.Active {
		return leaveerrors.ErrInvalidLeaveType
	}
	return nil
}

// narrowStatuses applies a single requested status on top of a scope's status set.
func narrowStatuses(scoped []string, status string) []string {
	if status == "" || status == access.StatusAll {
		return scoped
	}
	if scoped == nil {
		return []string{status}
	}
	for _, st := range scoped {
		if st == status {
			return []string{status}
		}
	}
	return []string{}
}
