package workflow

import (
	"time"

	"github.com/amoylab/casedesk/internal/apiserver/database"
	"github.com/amoylab/casedesk/internal/common/cnst"
	"github.com/google/uuid"
)

// complaintTargets lists the statuses each role may set on a complaint
var complaintTargets = map[cnst.Role][]cnst.ComplaintStatus{
	cnst.RoleEmployee:     {cnst.ComplaintDraft, cnst.ComplaintSubmitted},
	cnst.RoleInvestigator: {cnst.ComplaintInvestigating, cnst.ComplaintResolved},
	cnst.RoleHR: {
		cnst.ComplaintSubmitted, cnst.ComplaintUnderReview, cnst.ComplaintInvestigating,
		cnst.ComplaintResolved, cnst.ComplaintClosed,
	},
	cnst.RoleTenantAdmin: {
		cnst.ComplaintDraft, cnst.ComplaintSubmitted, cnst.ComplaintUnderReview,
		cnst.ComplaintInvestigating, cnst.ComplaintResolved, cnst.ComplaintClosed,
	},
}

// complaintEdges is the transition graph used in strict mode
var complaintEdges = map[cnst.ComplaintStatus][]cnst.ComplaintStatus{
	cnst.ComplaintDraft:         {cnst.ComplaintSubmitted},
	cnst.ComplaintSubmitted:     {cnst.ComplaintDraft, cnst.ComplaintUnderReview, cnst.ComplaintInvestigating},
	cnst.ComplaintUnderReview:   {cnst.ComplaintSubmitted, cnst.ComplaintInvestigating, cnst.ComplaintResolved, cnst.ComplaintClosed},
	cnst.ComplaintInvestigating: {cnst.ComplaintUnderReview, cnst.ComplaintResolved},
	cnst.ComplaintResolved:      {cnst.ComplaintInvestigating, cnst.ComplaintClosed},
	cnst.ComplaintClosed:        {},
}

// CanSetComplaintStatus reports whether role may set status
func CanSetComplaintStatus(role cnst.Role, status cnst.ComplaintStatus) bool {
	return contains(complaintTargets[role], status)
}

// CheckComplaintTransition validates moving a complaint from one status to another
func (e *Engine) CheckComplaintTransition(role cnst.Role, from, to cnst.ComplaintStatus) error {
	if !CanSetComplaintStatus(role, to) {
		return ErrStatusNotAllowed
	}
	if e.strict && !contains(complaintEdges[from], to) {
		return ErrInvalidTransition
	}
	return nil
}

// ChangeComplaintStatus moves the complaint to status and records the change.
// Reaching resolved for the first time stamps the resolver.
func (e *Engine) ChangeComplaintStatus(c *database.Complaint, to cnst.ComplaintStatus, actor Actor, notes string) error {
	if err := e.CheckComplaintTransition(actor.Role, c.Status, to); err != nil {
		return err
	}
	now := e.Now()
	prev := c.Status
	c.Status = to

	if to == cnst.ComplaintResolved {
		res := c.GetResolution()
		if res == nil {
			res = &database.Resolution{}
		}
		if res.ResolvedAt == nil {
			res.ResolvedAt = &now
			res.ResolvedBy = actor.ID
			c.SetResolution(res)
		}
	}

	c.AppendTimeline(statusEntry(cnst.ActionStatusChanged, actor.ID, notes, string(prev), string(to), now))
	return nil
}

// AssignInvestigator hands the complaint to an investigator and moves it to investigating
func (e *Engine) AssignInvestigator(c *database.Complaint, investigatorID string, actor Actor, notes string) error {
	if !actor.Role.IsManager() {
		return ErrStatusNotAllowed
	}
	if c.Status == cnst.ComplaintClosed {
		return ErrClosed
	}
	if e.strict && c.Status != cnst.ComplaintInvestigating && !contains(complaintEdges[c.Status], cnst.ComplaintInvestigating) {
		return ErrInvalidTransition
	}
	now := e.Now()
	prev := c.Status
	c.Status = cnst.ComplaintInvestigating
	c.AssignedTo = &investigatorID
	c.AssignedAt = &now
	c.AppendTimeline(statusEntry(cnst.ActionAssigned, actor.ID, notes, string(prev), string(c.Status), now))
	return nil
}

// Resolve records the outcome of a complaint and moves it to resolved
func (e *Engine) Resolve(c *database.Complaint, res database.Resolution, actor Actor) error {
	if err := e.CheckComplaintTransition(actor.Role, c.Status, cnst.ComplaintResolved); err != nil {
		return err
	}
	if actor.Role == cnst.RoleInvestigator && !c.IsAssignedTo(actor.ID) {
		return ErrNotAssigned
	}
	now := e.Now()
	prev := c.Status
	res.ResolvedAt = &now
	res.ResolvedBy = actor.ID
	c.SetResolution(&res)
	c.Status = cnst.ComplaintResolved
	c.AppendTimeline(statusEntry(cnst.ActionResolved, actor.ID, res.Notes, string(prev), string(c.Status), now))
	return nil
}

// AddComplaintEvidence attaches evidence unless the complaint is closed
func (e *Engine) AddComplaintEvidence(c *database.Complaint, ev database.ComplaintEvidence, actor Actor) (*database.ComplaintEvidence, error) {
	if c.Status == cnst.ComplaintClosed {
		return nil, ErrClosed
	}
	now := e.Now()
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	ev.UploadedAt = now
	ev.UploadedBy = actor.ID
	c.Evidence = append(c.Evidence, ev)
	c.AppendTimeline(database.TimelineEntry{
		Action:    cnst.ActionEvidenceAdded,
		UserID:    actor.ID,
		Timestamp: now,
		Notes:     ev.OriginalName,
	})
	return &c.Evidence[len(c.Evidence)-1], nil
}

// NewComplaintTimeline starts the history of a freshly filed complaint
func (e *Engine) NewComplaintTimeline(c *database.Complaint, actor Actor) {
	c.AppendTimeline(database.TimelineEntry{
		Action:    cnst.ActionCreated,
		UserID:    actor.ID,
		Timestamp: e.Now(),
		NewStatus: string(c.Status),
	})
}

func statusEntry(action cnst.TimelineAction, userID, notes, prev, next string, at time.Time) database.TimelineEntry {
	return database.TimelineEntry{
		Action:         action,
		UserID:         userID,
		Timestamp:      at,
		Notes:          notes,
		PreviousStatus: prev,
		NewStatus:      next,
	}
}
