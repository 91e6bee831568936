package service

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/amoylab/casedesk/internal/apiserver/database"
	"github.com/amoylab/casedesk/internal/common/cnst"
	"github.com/amoylab/casedesk/internal/common/dto"
	"github.com/amoylab/casedesk/internal/i18n"
	"github.com/amoylab/casedesk/internal/workflow"
	"github.com/amoylab/casedesk/pkg/metrics"
)

const (
	entityComplaint     = "complaint"
	entityInvestigation = "investigation"
)

type Complaint struct {
	db      database.Database
	engine  *workflow.Engine
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewComplaint(db database.Database, engine *workflow.Engine, m *metrics.Metrics, logger *zap.Logger) *Complaint {
	return &Complaint{
		db:      db,
		engine:  engine,
		metrics: m,
		logger:  logger.Named("service.complaint"),
	}
}

// CanAccess reports whether u may read and append to the complaint
func CanAccess(c *database.Complaint, u *database.User) bool {
	switch {
	case u.Role.IsManager():
		return true
	case c.ComplainantID == u.ID:
		return true
	case u.Role == cnst.RoleInvestigator && c.IsAssignedTo(u.ID):
		return true
	}
	return false
}

// Create files a complaint from the caller against another tenant user
func (s *Complaint) Create(ctx context.Context, caller *database.User, req *dto.CreateComplaintRequest) (*database.Complaint, error) {
	span := tracer.Start(ctx, "complaint.Create").WithAttrs(callerAttrs(caller)...)
	defer span.End()
	ctx = span.Ctx

	if req.AccusedID == caller.ID {
		return nil, i18n.ErrorSelfAccusation
	}
	accused, err := s.db.GetUserByID(ctx, caller.TenantID, req.AccusedID)
	if err != nil {
		return nil, storeError(err, i18n.ErrorAccusedNotFound, "load accused")
	}
	if !accused.IsActive {
		return nil, i18n.ErrorAccusedNotFound
	}

	c := &database.Complaint{
		TenantID:       caller.TenantID,
		ComplainantID:  caller.ID,
		AccusedID:      accused.ID,
		Type:           req.Type,
		Severity:       orDefault(req.Severity, cnst.SeverityMedium),
		Status:         cnst.ComplaintDraft,
		Priority:       orDefault(req.Priority, cnst.PriorityNormal),
		Title:          strings.TrimSpace(req.Title),
		Description:    strings.TrimSpace(req.Description),
		Location:       strings.TrimSpace(req.Location),
		IncidentDate:   req.IncidentDate.UTC(),
		ReportedDate:   s.engine.Now(),
		IsConfidential: req.IsConfidential == nil || *req.IsConfidential,
	}
	actor := actorOf(caller)
	s.engine.NewComplaintTimeline(c, actor)
	if req.Submit {
		if err := s.engine.ChangeComplaintStatus(c, cnst.ComplaintSubmitted, actor, ""); err != nil {
			return nil, complaintWorkflowError(err, string(cnst.ComplaintDraft), string(cnst.ComplaintSubmitted))
		}
	}

	if err := s.db.CreateComplaint(ctx, c); err != nil {
		span.Fail(err)
		return nil, storeError(err, nil, "create complaint")
	}
	s.metrics.ComplaintCreated(c.Type)
	s.logger.Info("complaint filed",
		zap.String("tenant_id", c.TenantID),
		zap.String("complaint_id", c.ID),
		zap.String("status", string(c.Status)))
	return c, nil
}

// List returns the complaints visible to the caller
func (s *Complaint) List(ctx context.Context, caller *database.User, q *dto.ListComplaintsQuery) ([]*database.Complaint, *i18n.Pagination, error) {
	page, limit := q.Normalize()
	filter := &database.ComplaintFilter{
		Page:       database.Page{Page: page, Limit: limit},
		TenantID:   caller.TenantID,
		Status:     q.Status,
		Type:       q.Type,
		Severity:   q.Severity,
		Priority:   q.Priority,
		AssignedTo: q.AssignedTo,
		DateFrom:   q.DateFrom,
		DateTo:     q.DateTo,
		Search:     strings.TrimSpace(q.Search),
	}
	switch caller.Role {
	case cnst.RoleEmployee:
		filter.ComplainantID = caller.ID
	case cnst.RoleInvestigator:
		filter.OwnOrAssigned = caller.ID
	}

	complaints, total, err := s.db.ListComplaints(ctx, filter)
	if err != nil {
		return nil, nil, storeError(err, nil, "list complaints")
	}
	return complaints, i18n.NewPagination(page, limit, total), nil
}

func (s *Complaint) Stats(ctx context.Context, caller *database.User) (*database.ComplaintStats, error) {
	stats, err := s.db.GetComplaintStats(ctx, caller.TenantID)
	if err != nil {
		return nil, storeError(err, nil, "complaint stats")
	}
	return stats, nil
}

// Get loads a complaint the caller may access
func (s *Complaint) Get(ctx context.Context, caller *database.User, id string) (*database.Complaint, error) {
	c, err := s.db.GetComplaint(ctx, caller.TenantID, id)
	if err != nil {
		return nil, storeError(err, i18n.ErrorComplaintNotFound, "load complaint")
	}
	if !CanAccess(c, caller) {
		return nil, i18n.ErrorComplaintAccessDenied
	}
	return c, nil
}

// Update edits a draft complaint; only its complainant or an admin may do so
func (s *Complaint) Update(ctx context.Context, caller *database.User, id string, req *dto.UpdateComplaintRequest) (*database.Complaint, error) {
	c, err := s.db.GetComplaint(ctx, caller.TenantID, id)
	if err != nil {
		return nil, storeError(err, i18n.ErrorComplaintNotFound, "load complaint")
	}
	if c.ComplainantID != caller.ID && caller.Role != cnst.RoleTenantAdmin {
		return nil, i18n.ErrorComplaintAccessDenied
	}
	if c.Status != cnst.ComplaintDraft {
		return nil, i18n.ErrorComplaintNotEditable
	}

	if req.Type != nil {
		c.Type = *req.Type
	}
	if req.Severity != nil {
		c.Severity = *req.Severity
	}
	if req.Priority != nil {
		c.Priority = *req.Priority
	}
	if req.Title != nil {
		c.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		c.Description = strings.TrimSpace(*req.Description)
	}
	if req.Location != nil {
		c.Location = strings.TrimSpace(*req.Location)
	}
	if req.IncidentDate != nil {
		c.IncidentDate = req.IncidentDate.UTC()
	}

	if err := s.db.UpdateComplaint(ctx, c); err != nil {
		return nil, storeError(err, i18n.ErrorComplaintNotFound, "update complaint")
	}
	return c, nil
}

// ChangeStatus moves the complaint to another status allowed for the caller role
func (s *Complaint) ChangeStatus(ctx context.Context, caller *database.User, id string, req *dto.ComplaintStatusRequest) (*database.Complaint, error) {
	span := tracer.Start(ctx, "complaint.ChangeStatus").WithAttrs(callerAttrs(caller)...)
	defer span.End()
	ctx = span.Ctx

	c, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	from := c.Status
	to := cnst.ComplaintStatus(req.Status)
	span.WithAttrs(
		attribute.String(cnst.AttrComplaintID, c.ID),
		attribute.String(cnst.AttrStatusFrom, string(from)),
		attribute.String(cnst.AttrStatusTo, string(to)))

	if err := s.engine.ChangeComplaintStatus(c, to, actorOf(caller), req.Notes); err != nil {
		s.logger.Info("complaint status change refused",
			zap.String("complaint_id", c.ID),
			zap.String("role", string(caller.Role)),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
			zap.Error(err))
		return nil, complaintWorkflowError(err, string(from), string(to))
	}
	if err := s.db.UpdateComplaint(ctx, c); err != nil {
		span.Fail(err)
		return nil, storeError(err, i18n.ErrorComplaintNotFound, "update complaint")
	}
	s.metrics.StatusTransition(entityComplaint, string(from), string(to))
	return c, nil
}

// Assign hands the complaint to an active investigator of the tenant
func (s *Complaint) Assign(ctx context.Context, caller *database.User, id string, req *dto.AssignInvestigatorRequest) (*database.Complaint, error) {
	c, err := s.db.GetComplaint(ctx, caller.TenantID, id)
	if err != nil {
		return nil, storeError(err, i18n.ErrorComplaintNotFound, "load complaint")
	}
	investigator, err := s.db.GetUserByID(ctx, caller.TenantID, req.InvestigatorID)
	if err != nil {
		return nil, storeError(err, i18n.ErrorInvestigatorNotFound, "load investigator")
	}
	if !investigator.IsActive || investigator.Role != cnst.RoleInvestigator {
		return nil, i18n.ErrorInvestigatorNotFound
	}

	from := c.Status
	if err := s.engine.AssignInvestigator(c, investigator.ID, actorOf(caller), req.Notes); err != nil {
		return nil, complaintWorkflowError(err, string(from), string(cnst.ComplaintInvestigating))
	}
	if err := s.db.UpdateComplaint(ctx, c); err != nil {
		return nil, storeError(err, i18n.ErrorComplaintNotFound, "update complaint")
	}
	s.metrics.StatusTransition(entityComplaint, string(from), string(c.Status))
	s.logger.Info("complaint assigned",
		zap.String("complaint_id", c.ID),
		zap.String("investigator_id", investigator.ID),
		zap.String("assigned_by", caller.ID))
	return c, nil
}

// AddEvidence attaches a file reference to the complaint
func (s *Complaint) AddEvidence(ctx context.Context, caller *database.User, id string, req *dto.ComplaintEvidenceRequest) (*database.ComplaintEvidence, error) {
	c, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	ev, err := s.engine.AddComplaintEvidence(c, database.ComplaintEvidence{
		Type:         req.Type,
		Filename:     req.Filename,
		OriginalName: req.OriginalName,
		URL:          req.URL,
		Size:         req.Size,
	}, actorOf(caller))
	if err != nil {
		return nil, complaintWorkflowError(err, string(c.Status), string(c.Status))
	}
	if err := s.db.UpdateComplaint(ctx, c); err != nil {
		return nil, storeError(err, i18n.ErrorComplaintNotFound, "update complaint")
	}
	return ev, nil
}

// Resolve records the outcome of the complaint
func (s *Complaint) Resolve(ctx context.Context, caller *database.User, id string, req *dto.ResolveComplaintRequest) (*database.Complaint, error) {
	c, err := s.db.GetComplaint(ctx, caller.TenantID, id)
	if err != nil {
		return nil, storeError(err, i18n.ErrorComplaintNotFound, "load complaint")
	}
	from := c.Status
	err = s.engine.Resolve(c, database.Resolution{
		Outcome:      req.Outcome,
		ActionsTaken: req.ActionsTaken,
		Notes:        req.Notes,
	}, actorOf(caller))
	if err != nil {
		return nil, complaintWorkflowError(err, string(from), string(cnst.ComplaintResolved))
	}
	if err := s.db.UpdateComplaint(ctx, c); err != nil {
		return nil, storeError(err, i18n.ErrorComplaintNotFound, "update complaint")
	}
	s.metrics.StatusTransition(entityComplaint, string(from), string(c.Status))
	s.logger.Info("complaint resolved",
		zap.String("complaint_id", c.ID),
		zap.String("outcome", req.Outcome),
		zap.String("resolved_by", caller.ID))
	return c, nil
}

// Timeline returns the history of a complaint the caller may access
func (s *Complaint) Timeline(ctx context.Context, caller *database.User, id string) ([]database.TimelineEntry, error) {
	c, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if c.Timeline == nil {
		return []database.TimelineEntry{}, nil
	}
	return c.Timeline, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// isNotFound reports whether err is the storage not found sentinel
func isNotFound(err error) bool {
	return errors.Is(err, database.ErrNotFound)
}
