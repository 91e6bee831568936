package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ifuryst/lol"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/amoylab/casedesk/internal/apiserver/database"
	"github.com/amoylab/casedesk/internal/common/cnst"
	"github.com/amoylab/casedesk/internal/common/dto"
	"github.com/amoylab/casedesk/internal/i18n"
	"github.com/amoylab/casedesk/internal/workflow"
	"github.com/amoylab/casedesk/pkg/metrics"
)

// Defaults of a new investigation
const (
	defaultInvestigationType = "formal"
	defaultMethodology       = "mixed"
	defaultConfidentiality   = "confidential"
	defaultRecommendPriority = "medium"
	recommendationPending    = "pending"
)

type Investigation struct {
	db      database.Database
	engine  *workflow.Engine
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewInvestigation(db database.Database, engine *workflow.Engine, m *metrics.Metrics, logger *zap.Logger) *Investigation {
	return &Investigation{
		db:      db,
		engine:  engine,
		metrics: m,
		logger:  logger.Named("service.investigation"),
	}
}

// Create opens an investigation on a complaint and assigns the complaint to
// the investigator. Both writes share one transaction.
func (s *Investigation) Create(ctx context.Context, caller *database.User, req *dto.CreateInvestigationRequest) (*database.Investigation, error) {
	span := tracer.Start(ctx, "investigation.Create").
		WithAttrs(callerAttrs(caller)...).
		WithAttrs(attribute.String(cnst.AttrComplaintID, req.ComplaintID))
	defer span.End()
	ctx = span.Ctx

	if !req.EstimatedCompletionDate.After(s.engine.Now()) {
		return nil, i18n.ErrorCompletionDateInPast
	}

	inv := &database.Investigation{
		InvestigatorID:          req.InvestigatorID,
		Priority:                orDefault(req.Priority, cnst.PriorityNormal),
		EstimatedCompletionDate: req.EstimatedCompletionDate.UTC(),
		InvestigationType:       orDefault(req.InvestigationType, defaultInvestigationType),
		Methodology:             orDefault(req.Methodology, defaultMethodology),
		Scope:                   strings.TrimSpace(req.Scope),
		Objectives:              lol.UniqSlice(req.Objectives),
		ConfidentialityLevel:    orDefault(req.ConfidentialityLevel, defaultConfidentiality),
		Notes:                   strings.TrimSpace(req.Notes),
	}
	var complaintFrom cnst.ComplaintStatus

	err := s.db.Transaction(ctx, func(ctx context.Context) error {
		c, err := s.db.GetComplaint(ctx, caller.TenantID, req.ComplaintID)
		if err != nil {
			return storeError(err, i18n.ErrorComplaintNotFound, "load complaint")
		}
		if err := s.checkInvestigator(ctx, caller.TenantID, req.InvestigatorID); err != nil {
			return err
		}
		if _, err := s.db.GetActiveInvestigation(ctx, caller.TenantID, c.ID); err == nil {
			return i18n.ErrorActiveInvestigationExists
		} else if !isNotFound(err) {
			return err
		}

		complaintFrom = c.Status
		if err := s.engine.Start(c, inv, actorOf(caller)); err != nil {
			return complaintWorkflowError(err, string(complaintFrom), string(cnst.ComplaintInvestigating))
		}
		if err := s.db.CreateInvestigation(ctx, inv); err != nil {
			return err
		}
		return s.db.UpdateComplaint(ctx, c)
	})
	if errors.Is(err, database.ErrDuplicate) {
		return nil, i18n.ErrorActiveInvestigationExists
	}
	if err != nil {
		span.Fail(err)
		return nil, storeError(err, i18n.ErrorComplaintNotFound, "create investigation")
	}

	s.metrics.StatusTransition(entityComplaint, string(complaintFrom), string(cnst.ComplaintInvestigating))
	s.logger.Info("investigation started",
		zap.String("tenant_id", inv.TenantID),
		zap.String("investigation_id", inv.ID),
		zap.String("complaint_id", inv.ComplaintID),
		zap.String("investigator_id", inv.InvestigatorID))
	return inv, nil
}

// checkInvestigator accepts active investigators, HR and admins of the tenant
func (s *Investigation) checkInvestigator(ctx context.Context, tenantID, id string) error {
	u, err := s.db.GetUserByID(ctx, tenantID, id)
	if err != nil {
		return storeError(err, i18n.ErrorInvestigatorNotFound, "load investigator")
	}
	if !u.IsActive || (u.Role != cnst.RoleInvestigator && !u.Role.IsManager()) {
		return i18n.ErrorInvestigatorNotFound
	}
	return nil
}

// List returns active investigations; investigators only see their own
func (s *Investigation) List(ctx context.Context, caller *database.User, q *dto.ListInvestigationsQuery) ([]*database.Investigation, *i18n.Pagination, error) {
	page, limit := q.Normalize()
	filter := &database.InvestigationFilter{
		Page:           database.Page{Page: page, Limit: limit},
		TenantID:       caller.TenantID,
		Status:         q.Status,
		Priority:       q.Priority,
		InvestigatorID: q.InvestigatorID,
		ComplaintID:    q.ComplaintID,
		OverdueOnly:    q.OverdueOnly,
		Now:            s.engine.Now(),
	}
	if !caller.Role.IsManager() {
		filter.InvestigatorID = caller.ID
	}
	list, total, err := s.db.ListInvestigations(ctx, filter)
	if err != nil {
		return nil, nil, storeError(err, nil, "list investigations")
	}
	return list, i18n.NewPagination(page, limit, total), nil
}

// Stats aggregates active investigations, scoped to the caller unless HR or admin
func (s *Investigation) Stats(ctx context.Context, caller *database.User) (*database.InvestigationStats, error) {
	investigatorID := ""
	if !caller.Role.IsManager() {
		investigatorID = caller.ID
	}
	stats, err := s.db.GetInvestigationStats(ctx, caller.TenantID, investigatorID, s.engine.Now())
	if err != nil {
		return nil, storeError(err, nil, "investigation stats")
	}
	return stats, nil
}

// Get returns an investigation with its computed progress
func (s *Investigation) Get(ctx context.Context, caller *database.User, id string) (*dto.InvestigationDetail, error) {
	inv, err := s.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return s.detail(inv), nil
}

func (s *Investigation) detail(inv *database.Investigation) *dto.InvestigationDetail {
	now := s.engine.Now()
	return &dto.InvestigationDetail{
		Investigation:      inv,
		ProgressPercentage: workflow.Progress(inv.Status),
		IsOverdue:          workflow.IsOverdue(inv, now),
		DurationDays:       workflow.DurationDays(inv, now),
	}
}

// load fetches an investigation the caller may work on
func (s *Investigation) load(ctx context.Context, caller *database.User, id string) (*database.Investigation, error) {
	inv, err := s.db.GetInvestigation(ctx, caller.TenantID, id)
	if err != nil {
		return nil, storeError(err, i18n.ErrorInvestigationNotFound, "load investigation")
	}
	if !workflow.CanWork(inv, actorOf(caller)) {
		return nil, i18n.ErrorInvestigationAccessDenied
	}
	return inv, nil
}

// Update edits an open investigation. A status change goes through the workflow engine.
func (s *Investigation) Update(ctx context.Context, caller *database.User, id string, req *dto.UpdateInvestigationRequest) (*dto.InvestigationDetail, error) {
	inv, err := s.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if workflow.IsTerminal(inv.Status) {
		return nil, i18n.ErrorInvestigationClosed.WithParam("Status", string(inv.Status))
	}

	from := inv.Status
	if req.Status != nil && cnst.InvestigationStatus(*req.Status) != inv.Status {
		to := cnst.InvestigationStatus(*req.Status)
		notes := ""
		if req.Notes != nil {
			notes = *req.Notes
		}
		if err := s.engine.ChangeInvestigationStatus(inv, to, actorOf(caller), notes); err != nil {
			return nil, investigationWorkflowError(err, string(from), string(to))
		}
	}
	if req.Priority != nil {
		inv.Priority = *req.Priority
	}
	if req.EstimatedCompletionDate != nil {
		if !req.EstimatedCompletionDate.After(s.engine.Now()) {
			return nil, i18n.ErrorCompletionDateInPast
		}
		inv.EstimatedCompletionDate = req.EstimatedCompletionDate.UTC()
	}
	if req.Scope != nil {
		inv.Scope = strings.TrimSpace(*req.Scope)
	}
	if req.Objectives != nil {
		inv.Objectives = lol.UniqSlice(req.Objectives)
	}
	if req.Notes != nil {
		inv.Notes = strings.TrimSpace(*req.Notes)
	}

	if err := s.db.UpdateInvestigation(ctx, inv); err != nil {
		return nil, storeError(err, i18n.ErrorInvestigationNotFound, "update investigation")
	}
	if inv.Status != from {
		s.metrics.StatusTransition(entityInvestigation, string(from), string(inv.Status))
	}
	return s.detail(inv), nil
}

// AddEvidence records evidence collected by the caller
func (s *Investigation) AddEvidence(ctx context.Context, caller *database.User, id string, req *dto.InvestigationEvidenceRequest) (*database.InvestigationEvidence, error) {
	inv, err := s.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	ev := database.InvestigationEvidence{
		Type:        req.Type,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Filename:    req.Filename,
		URL:         req.URL,
		Source:      req.Source,
		Relevance:   req.Relevance,
	}
	if req.CollectedDate != nil {
		ev.CollectedDate = req.CollectedDate.UTC()
	}
	added, err := s.engine.AddEvidence(inv, ev, actorOf(caller))
	if err != nil {
		return nil, investigationWorkflowError(err, string(inv.Status), string(inv.Status))
	}
	if err := s.db.UpdateInvestigation(ctx, inv); err != nil {
		return nil, storeError(err, i18n.ErrorInvestigationNotFound, "update investigation")
	}
	return added, nil
}

// AddInterview records an interview with an active tenant user
func (s *Investigation) AddInterview(ctx context.Context, caller *database.User, id string, req *dto.InterviewRequest) (*database.Interview, error) {
	inv, err := s.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	interviewee, err := s.db.GetUserByID(ctx, caller.TenantID, req.IntervieweeID)
	if err != nil {
		return nil, storeError(err, i18n.ErrorIntervieweeNotFound, "load interviewee")
	}
	if !interviewee.IsActive {
		return nil, i18n.ErrorIntervieweeNotFound
	}

	added, err := s.engine.AddInterview(inv, database.Interview{
		IntervieweeID:    interviewee.ID,
		InterviewerID:    caller.ID,
		InterviewDate:    req.InterviewDate.UTC(),
		DurationMinutes:  req.DurationMinutes,
		Location:         req.Location,
		Type:             req.Type,
		Summary:          req.Summary,
		KeyPoints:        req.KeyPoints,
		FollowUpRequired: req.FollowUpRequired,
		FollowUpNotes:    req.FollowUpNotes,
		RecordingURL:     req.RecordingURL,
		TranscriptURL:    req.TranscriptURL,
	}, actorOf(caller))
	if err != nil {
		return nil, investigationWorkflowError(err, string(inv.Status), string(inv.Status))
	}
	if err := s.db.UpdateInvestigation(ctx, inv); err != nil {
		return nil, storeError(err, i18n.ErrorInvestigationNotFound, "update investigation")
	}
	return added, nil
}

// AddFinding documents a finding backed by evidence of the investigation
func (s *Investigation) AddFinding(ctx context.Context, caller *database.User, id string, req *dto.FindingRequest) (*database.Finding, error) {
	inv, err := s.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	added, err := s.engine.AddFinding(inv, database.Finding{
		Category:           req.Category,
		Description:        req.Description,
		Severity:           req.Severity,
		SupportingEvidence: req.SupportingEvidence,
		Recommendations:    req.Recommendations,
	}, actorOf(caller))
	if err != nil {
		return nil, investigationWorkflowError(err, string(inv.Status), string(inv.Status))
	}
	if err := s.db.UpdateInvestigation(ctx, inv); err != nil {
		return nil, storeError(err, i18n.ErrorInvestigationNotFound, "update investigation")
	}
	return added, nil
}

// Complete closes the investigation with a conclusion and resolves its
// complaint in the same transaction.
func (s *Investigation) Complete(ctx context.Context, caller *database.User, id string, req *dto.CompleteInvestigationRequest) (*dto.InvestigationDetail, error) {
	span := tracer.Start(ctx, "investigation.Complete").
		WithAttrs(callerAttrs(caller)...).
		WithAttrs(attribute.String(cnst.AttrInvestigation, id))
	defer span.End()
	ctx = span.Ctx

	conclusion := database.Conclusion{
		Outcome:         req.Outcome,
		Summary:         strings.TrimSpace(req.Summary),
		Recommendations: make([]database.Recommendation, 0, len(req.Recommendations)),
	}
	for _, r := range req.Recommendations {
		rec := database.Recommendation{
			Type:        r.Type,
			Description: r.Description,
			Priority:    orDefault(r.Priority, defaultRecommendPriority),
			AssignedTo:  r.AssignedTo,
			Status:      recommendationPending,
		}
		if r.DueDate != nil {
			due := r.DueDate.UTC()
			rec.DueDate = &due
		}
		conclusion.Recommendations = append(conclusion.Recommendations, rec)
	}

	var (
		inv           *database.Investigation
		from          cnst.InvestigationStatus
		complaintFrom cnst.ComplaintStatus
	)
	err := s.db.Transaction(ctx, func(ctx context.Context) error {
		var err error
		if inv, err = s.load(ctx, caller, id); err != nil {
			return err
		}
		c, err := s.db.GetComplaint(ctx, caller.TenantID, inv.ComplaintID)
		if err != nil {
			return storeError(err, i18n.ErrorComplaintNotFound, "load complaint")
		}
		from, complaintFrom = inv.Status, c.Status
		if err := s.engine.Complete(inv, c, conclusion, actorOf(caller)); err != nil {
			return investigationWorkflowError(err, string(from), string(cnst.InvestigationCompleted))
		}
		if err := s.db.UpdateInvestigation(ctx, inv); err != nil {
			return err
		}
		return s.db.UpdateComplaint(ctx, c)
	})
	if err != nil {
		span.Fail(err)
		return nil, storeError(err, i18n.ErrorInvestigationNotFound, "complete investigation")
	}

	s.metrics.StatusTransition(entityInvestigation, string(from), string(cnst.InvestigationCompleted))
	s.metrics.StatusTransition(entityComplaint, string(complaintFrom), string(cnst.ComplaintResolved))
	s.logger.Info("investigation completed",
		zap.String("investigation_id", inv.ID),
		zap.String("complaint_id", inv.ComplaintID),
		zap.String("outcome", req.Outcome))
	return s.detail(inv), nil
}

// Suspend pauses an open investigation
func (s *Investigation) Suspend(ctx context.Context, caller *database.User, id, reason string) (*dto.InvestigationDetail, error) {
	return s.stop(ctx, caller, id, cnst.InvestigationSuspended, reason)
}

// Cancel ends an investigation and frees its complaint for a new one
func (s *Investigation) Cancel(ctx context.Context, caller *database.User, id, reason string) (*dto.InvestigationDetail, error) {
	return s.stop(ctx, caller, id, cnst.InvestigationCancelled, reason)
}

func (s *Investigation) stop(ctx context.Context, caller *database.User, id string, to cnst.InvestigationStatus, reason string) (*dto.InvestigationDetail, error) {
	inv, err := s.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	from := inv.Status
	actor := actorOf(caller)
	if to == cnst.InvestigationCancelled {
		err = s.engine.Cancel(inv, actor, reason)
	} else {
		err = s.engine.Suspend(inv, actor, reason)
	}
	if err != nil {
		return nil, investigationWorkflowError(err, string(from), string(to))
	}
	if err := s.db.UpdateInvestigation(ctx, inv); err != nil {
		return nil, storeError(err, i18n.ErrorInvestigationNotFound, "update investigation")
	}
	s.metrics.StatusTransition(entityInvestigation, string(from), string(to))
	s.logger.Info("investigation stopped",
		zap.String("investigation_id", inv.ID),
		zap.String("status", string(to)),
		zap.String("by", caller.ID))
	return s.detail(inv), nil
}
