package workflow

import (
	"math"
	"slices"
	"time"

	"github.com/amoylab/casedesk/internal/apiserver/database"
	"github.com/amoylab/casedesk/internal/common/cnst"
	"github.com/google/uuid"
	"github.com/ifuryst/lol"
)

var investigatorTargets = []cnst.InvestigationStatus{
	cnst.InvestigationPending, cnst.InvestigationInProgress, cnst.InvestigationEvidenceReview,
	cnst.InvestigationInterviewsPending, cnst.InvestigationAnalysis, cnst.InvestigationReportDraft,
}

var managerTargets = append(slices.Clone(investigatorTargets), cnst.InvestigationSuspended, cnst.InvestigationCancelled)

// investigationEdges is the main path used in strict mode; suspension and
// cancellation are reachable from every open status.
var investigationEdges = map[cnst.InvestigationStatus][]cnst.InvestigationStatus{
	cnst.InvestigationPending:           {cnst.InvestigationInProgress},
	cnst.InvestigationInProgress:        {cnst.InvestigationEvidenceReview, cnst.InvestigationInterviewsPending, cnst.InvestigationAnalysis},
	cnst.InvestigationEvidenceReview:    {cnst.InvestigationInProgress, cnst.InvestigationInterviewsPending, cnst.InvestigationAnalysis},
	cnst.InvestigationInterviewsPending: {cnst.InvestigationEvidenceReview, cnst.InvestigationAnalysis},
	cnst.InvestigationAnalysis:          {cnst.InvestigationEvidenceReview, cnst.InvestigationInterviewsPending, cnst.InvestigationReportDraft},
	cnst.InvestigationReportDraft:       {cnst.InvestigationAnalysis},
	cnst.InvestigationSuspended: {
		cnst.InvestigationPending, cnst.InvestigationInProgress, cnst.InvestigationEvidenceReview,
		cnst.InvestigationInterviewsPending, cnst.InvestigationAnalysis, cnst.InvestigationReportDraft,
	},
}

var progress = map[cnst.InvestigationStatus]int{
	cnst.InvestigationPending:           0,
	cnst.InvestigationInProgress:        20,
	cnst.InvestigationEvidenceReview:    40,
	cnst.InvestigationInterviewsPending: 50,
	cnst.InvestigationAnalysis:          70,
	cnst.InvestigationReportDraft:       85,
	cnst.InvestigationCompleted:         100,
}

// IsTerminal reports whether no further transition leaves status
func IsTerminal(status cnst.InvestigationStatus) bool {
	return status == cnst.InvestigationCompleted || status == cnst.InvestigationCancelled
}

// InvestigationTargets returns the statuses role may set through a plain update
func InvestigationTargets(role cnst.Role) []cnst.InvestigationStatus {
	switch {
	case role.IsManager():
		return managerTargets
	case role == cnst.RoleInvestigator:
		return investigatorTargets
	}
	return nil
}

// CanWork reports whether actor may change the investigation at all
func CanWork(inv *database.Investigation, actor Actor) bool {
	return actor.Role.IsManager() || (actor.Role == cnst.RoleInvestigator && inv.InvestigatorID == actor.ID)
}

// CheckInvestigationTransition validates a plain status update
func (e *Engine) CheckInvestigationTransition(inv *database.Investigation, to cnst.InvestigationStatus, actor Actor) error {
	if IsTerminal(inv.Status) {
		return ErrClosed
	}
	if to == cnst.InvestigationCompleted {
		return ErrUseComplete
	}
	if !CanWork(inv, actor) {
		return ErrNotAssigned
	}
	if !contains(InvestigationTargets(actor.Role), to) {
		return ErrStatusNotAllowed
	}
	if !e.strict || to == cnst.InvestigationSuspended || to == cnst.InvestigationCancelled {
		return nil
	}
	if !contains(investigationEdges[inv.Status], to) {
		return ErrInvalidTransition
	}
	return nil
}

// ChangeInvestigationStatus applies a plain status update
func (e *Engine) ChangeInvestigationStatus(inv *database.Investigation, to cnst.InvestigationStatus, actor Actor, notes string) error {
	return e.transition(inv, to, cnst.ActionStatusChanged, actor, notes)
}

// Suspend pauses the investigation
func (e *Engine) Suspend(inv *database.Investigation, actor Actor, reason string) error {
	return e.transition(inv, cnst.InvestigationSuspended, cnst.ActionSuspended, actor, reason)
}

// Cancel ends the investigation without a conclusion and releases the complaint
func (e *Engine) Cancel(inv *database.Investigation, actor Actor, reason string) error {
	return e.transition(inv, cnst.InvestigationCancelled, cnst.ActionCancelled, actor, reason)
}

func (e *Engine) transition(inv *database.Investigation, to cnst.InvestigationStatus, action cnst.TimelineAction, actor Actor, notes string) error {
	if err := e.CheckInvestigationTransition(inv, to, actor); err != nil {
		return err
	}
	prev := inv.Status
	inv.Status = to
	if to == cnst.InvestigationCancelled {
		inv.Deactivate()
	}
	inv.AppendTimeline(statusEntry(action, actor.ID, notes, string(prev), string(to), e.Now()))
	return nil
}

// Start opens an investigation on the complaint. The complaint moves to
// investigating and is assigned to the investigator.
func (e *Engine) Start(c *database.Complaint, inv *database.Investigation, actor Actor) error {
	if !actor.Role.IsManager() {
		return ErrStatusNotAllowed
	}
	if e.strict {
		if c.Status == cnst.ComplaintClosed || c.Status == cnst.ComplaintResolved {
			return ErrClosed
		}
		if c.Status != cnst.ComplaintInvestigating && !contains(complaintEdges[c.Status], cnst.ComplaintInvestigating) {
			return ErrInvalidTransition
		}
	}
	now := e.Now()

	inv.TenantID = c.TenantID
	inv.ComplaintID = c.ID
	inv.AssignedBy = actor.ID
	inv.Status = cnst.InvestigationPending
	inv.IsActive = true
	inv.ActiveKey = database.ActiveKeyFor(c.TenantID, c.ID)
	inv.AppendTimeline(database.TimelineEntry{
		Action:    cnst.ActionCreated,
		UserID:    actor.ID,
		Timestamp: now,
		NewStatus: string(inv.Status),
	})

	prev := c.Status
	c.Status = cnst.ComplaintInvestigating
	investigatorID := inv.InvestigatorID
	c.AssignedTo = &investigatorID
	c.AssignedAt = &now
	c.AppendTimeline(statusEntry(cnst.ActionInvestigationStarted, actor.ID, "", string(prev), string(c.Status), now))
	return nil
}

// Complete closes the investigation with a conclusion and resolves the complaint
// with the mapped outcome.
func (e *Engine) Complete(inv *database.Investigation, c *database.Complaint, conclusion database.Conclusion, actor Actor) error {
	if IsTerminal(inv.Status) {
		return ErrClosed
	}
	if !CanWork(inv, actor) {
		return ErrNotAssigned
	}
	now := e.Now()

	conclusion.CompletedBy = actor.ID
	conclusion.CompletedAt = now
	prev := inv.Status
	inv.SetConclusion(&conclusion)
	inv.Status = cnst.InvestigationCompleted
	inv.ActualCompletionDate = &now
	inv.AppendTimeline(statusEntry(cnst.ActionCompleted, actor.ID, conclusion.Summary, string(prev), string(inv.Status), now))

	actions := make([]string, 0, len(conclusion.Recommendations))
	for _, r := range conclusion.Recommendations {
		actions = append(actions, r.Description)
	}
	c.SetResolution(&database.Resolution{
		Outcome:      OutcomeFromConclusion(conclusion.Outcome),
		ActionsTaken: actions,
		Notes:        conclusion.Summary,
		ResolvedAt:   &now,
		ResolvedBy:   actor.ID,
	})
	prevComplaint := c.Status
	c.Status = cnst.ComplaintResolved
	c.AppendTimeline(statusEntry(cnst.ActionResolved, actor.ID, conclusion.Summary, string(prevComplaint), string(c.Status), now))
	return nil
}

// AddEvidence records collected evidence and opens its chain of custody
func (e *Engine) AddEvidence(inv *database.Investigation, ev database.InvestigationEvidence, actor Actor) (*database.InvestigationEvidence, error) {
	if err := e.checkAppend(inv, actor); err != nil {
		return nil, err
	}
	now := e.Now()
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.CollectedDate.IsZero() {
		ev.CollectedDate = now
	}
	ev.CollectedBy = actor.ID
	ev.ChainOfCustody = []database.CustodyEntry{{
		UserID:    actor.ID,
		Action:    cnst.CustodyCollected,
		Timestamp: now,
	}}
	inv.Evidence = append(inv.Evidence, ev)
	inv.AppendTimeline(database.TimelineEntry{
		Action:    cnst.ActionEvidenceCollected,
		UserID:    actor.ID,
		Timestamp: now,
		Notes:     ev.Title,
	})
	return &inv.Evidence[len(inv.Evidence)-1], nil
}

// AddInterview records an interview conducted by the actor
func (e *Engine) AddInterview(inv *database.Investigation, iv database.Interview, actor Actor) (*database.Interview, error) {
	if err := e.checkAppend(inv, actor); err != nil {
		return nil, err
	}
	now := e.Now()
	if iv.ID == "" {
		iv.ID = uuid.NewString()
	}
	if iv.InterviewerID == "" {
		iv.InterviewerID = actor.ID
	}
	iv.ConductedBy = actor.ID
	inv.Interviews = append(inv.Interviews, iv)
	inv.AppendTimeline(database.TimelineEntry{
		Action:    cnst.ActionInterviewConducted,
		UserID:    actor.ID,
		Timestamp: now,
		Notes:     iv.Type,
	})
	return &inv.Interviews[len(inv.Interviews)-1], nil
}

// AddFinding documents a finding; every supporting evidence ID must exist
func (e *Engine) AddFinding(inv *database.Investigation, f database.Finding, actor Actor) (*database.Finding, error) {
	if err := e.checkAppend(inv, actor); err != nil {
		return nil, err
	}
	if len(f.SupportingEvidence) > 0 {
		f.SupportingEvidence = lol.UniqSlice(f.SupportingEvidence)
	}
	for _, id := range f.SupportingEvidence {
		if !inv.HasEvidence(id) {
			return nil, &EvidenceError{ID: id}
		}
	}
	now := e.Now()
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	f.DocumentedBy = actor.ID
	f.DocumentedAt = now
	inv.Findings = append(inv.Findings, f)
	inv.AppendTimeline(database.TimelineEntry{
		Action:    cnst.ActionAnalysisCompleted,
		UserID:    actor.ID,
		Timestamp: now,
		Notes:     f.Category,
	})
	return &inv.Findings[len(inv.Findings)-1], nil
}

func (e *Engine) checkAppend(inv *database.Investigation, actor Actor) error {
	if IsTerminal(inv.Status) {
		return ErrClosed
	}
	if !CanWork(inv, actor) {
		return ErrNotAssigned
	}
	return nil
}

// EvidenceError names the evidence reference a finding could not resolve
type EvidenceError struct {
	ID string
}

func (e *EvidenceError) Error() string {
	return "unknown evidence reference " + e.ID
}

func (e *EvidenceError) Unwrap() error {
	return ErrUnknownEvidence
}

// OutcomeFromConclusion maps an investigation conclusion to a complaint outcome
func OutcomeFromConclusion(outcome string) string {
	if outcome == cnst.ConclusionSubstantiated {
		return cnst.OutcomeFounded
	}
	return cnst.OutcomeUnfounded
}

// Progress returns the completion percentage of status
func Progress(status cnst.InvestigationStatus) int {
	return progress[status]
}

// IsOverdue reports whether an open investigation passed its estimated completion date
func IsOverdue(inv *database.Investigation, now time.Time) bool {
	if !inv.IsActive || IsTerminal(inv.Status) {
		return false
	}
	return inv.EstimatedCompletionDate.Before(now)
}

// DurationDays counts started days from creation to completion, or to now while open
func DurationDays(inv *database.Investigation, now time.Time) int {
	end := now
	if inv.ActualCompletionDate != nil {
		end = *inv.ActualCompletionDate
	}
	d := end.Sub(inv.CreatedAt)
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Hours() / 24))
}
