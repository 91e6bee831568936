package workflow

import (
	"errors"
	"testing"
	"time"

	"github.com/amoylab/casedesk/internal/apiserver/database"
	"github.com/amoylab/casedesk/internal/common/cnst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newEngine(strict bool) *Engine {
	return New(strict, WithClock(func() time.Time { return fixedNow }))
}

func newComplaint(status cnst.ComplaintStatus) *database.Complaint {
	return &database.Complaint{
		ID:            "c1",
		TenantID:      "t1",
		ComplainantID: "alice",
		AccusedID:     "carol",
		Status:        status,
	}
}

func TestComplaintAllowList(t *testing.T) {
	e := newEngine(false)
	for _, role := range cnst.Roles {
		for _, status := range cnst.ComplaintStatuses {
			c := newComplaint(cnst.ComplaintSubmitted)
			err := e.ChangeComplaintStatus(c, status, Actor{ID: "u", Role: role}, "")
			if CanSetComplaintStatus(role, status) {
				assert.NoError(t, err, "%s -> %s", role, status)
				assert.Equal(t, status, c.Status)
				require.Len(t, c.Timeline, 1)
				assert.Equal(t, cnst.ActionStatusChanged, c.Timeline[0].Action)
			} else {
				assert.ErrorIs(t, err, ErrStatusNotAllowed, "%s -> %s", role, status)
				assert.Equal(t, cnst.ComplaintSubmitted, c.Status)
				assert.Empty(t, c.Timeline)
			}
		}
	}
}

func TestCanSetComplaintStatus_Roles(t *testing.T) {
	assert.True(t, CanSetComplaintStatus(cnst.RoleEmployee, cnst.ComplaintSubmitted))
	assert.False(t, CanSetComplaintStatus(cnst.RoleEmployee, cnst.ComplaintResolved))
	assert.True(t, CanSetComplaintStatus(cnst.RoleInvestigator, cnst.ComplaintResolved))
	assert.False(t, CanSetComplaintStatus(cnst.RoleHR, cnst.ComplaintDraft))
	for _, s := range cnst.ComplaintStatuses {
		assert.True(t, CanSetComplaintStatus(cnst.RoleTenantAdmin, s), s)
	}
	assert.False(t, CanSetComplaintStatus("guest", cnst.ComplaintSubmitted))
	assert.False(t, CanSetComplaintStatus(cnst.RoleTenantAdmin, "open"))
}

func TestEmployeeCannotResolve(t *testing.T) {
	c := newComplaint(cnst.ComplaintSubmitted)
	err := newEngine(false).ChangeComplaintStatus(c, cnst.ComplaintResolved, Actor{ID: "alice", Role: cnst.RoleEmployee}, "")
	assert.ErrorIs(t, err, ErrStatusNotAllowed)
}

func TestStrictComplaintTransitions(t *testing.T) {
	e := newEngine(true)
	admin := Actor{ID: "admin", Role: cnst.RoleTenantAdmin}

	c := newComplaint(cnst.ComplaintDraft)
	assert.ErrorIs(t, e.ChangeComplaintStatus(c, cnst.ComplaintResolved, admin, ""), ErrInvalidTransition)
	require.NoError(t, e.ChangeComplaintStatus(c, cnst.ComplaintSubmitted, admin, ""))

	closed := newComplaint(cnst.ComplaintClosed)
	for _, s := range cnst.ComplaintStatuses {
		assert.ErrorIs(t, e.ChangeComplaintStatus(closed, s, admin, ""), ErrInvalidTransition)
	}

	// Without strict mode only the role matters
	lax := newComplaint(cnst.ComplaintClosed)
	assert.NoError(t, newEngine(false).ChangeComplaintStatus(lax, cnst.ComplaintDraft, admin, ""))
}

func TestChangeToResolvedStampsResolver(t *testing.T) {
	e := newEngine(false)
	c := newComplaint(cnst.ComplaintInvestigating)
	require.NoError(t, e.ChangeComplaintStatus(c, cnst.ComplaintResolved, Actor{ID: "hr1", Role: cnst.RoleHR}, "done"))

	res := c.GetResolution()
	require.NotNil(t, res)
	assert.Equal(t, "hr1", res.ResolvedBy)
	assert.Equal(t, fixedNow, *res.ResolvedAt)

	// A second pass keeps the first resolver
	require.NoError(t, e.ChangeComplaintStatus(c, cnst.ComplaintResolved, Actor{ID: "admin", Role: cnst.RoleTenantAdmin}, ""))
	assert.Equal(t, "hr1", c.GetResolution().ResolvedBy)
	assert.Len(t, c.Timeline, 2)
}

func TestAssignInvestigator(t *testing.T) {
	e := newEngine(false)
	c := newComplaint(cnst.ComplaintSubmitted)

	assert.ErrorIs(t, e.AssignInvestigator(c, "bob", Actor{ID: "alice", Role: cnst.RoleEmployee}, ""), ErrStatusNotAllowed)

	require.NoError(t, e.AssignInvestigator(c, "bob", Actor{ID: "hr1", Role: cnst.RoleHR}, "please"))
	assert.Equal(t, cnst.ComplaintInvestigating, c.Status)
	assert.True(t, c.IsAssignedTo("bob"))
	require.Len(t, c.Timeline, 1)
	entry := c.Timeline[0]
	assert.Equal(t, cnst.ActionAssigned, entry.Action)
	assert.Equal(t, "submitted", entry.PreviousStatus)
	assert.Equal(t, "investigating", entry.NewStatus)

	closed := newComplaint(cnst.ComplaintClosed)
	assert.ErrorIs(t, e.AssignInvestigator(closed, "bob", Actor{ID: "hr1", Role: cnst.RoleHR}, ""), ErrClosed)
}

func TestResolve(t *testing.T) {
	e := newEngine(false)
	c := newComplaint(cnst.ComplaintInvestigating)
	bob := "bob"
	c.AssignedTo = &bob

	err := e.Resolve(c, database.Resolution{Outcome: cnst.OutcomeFounded}, Actor{ID: "dave", Role: cnst.RoleInvestigator})
	assert.ErrorIs(t, err, ErrNotAssigned)

	err = e.Resolve(c, database.Resolution{Outcome: cnst.OutcomeFounded}, Actor{ID: "alice", Role: cnst.RoleEmployee})
	assert.ErrorIs(t, err, ErrStatusNotAllowed)

	require.NoError(t, e.Resolve(c, database.Resolution{Outcome: cnst.OutcomeFounded, Notes: "ok"}, Actor{ID: "bob", Role: cnst.RoleInvestigator}))
	assert.Equal(t, cnst.ComplaintResolved, c.Status)
	res := c.GetResolution()
	require.NotNil(t, res)
	assert.Equal(t, cnst.OutcomeFounded, res.Outcome)
	assert.Equal(t, "bob", res.ResolvedBy)
	assert.Equal(t, cnst.ActionResolved, c.Timeline[len(c.Timeline)-1].Action)
}

func TestAddComplaintEvidence(t *testing.T) {
	e := newEngine(false)
	c := newComplaint(cnst.ComplaintSubmitted)

	ev, err := e.AddComplaintEvidence(c, database.ComplaintEvidence{Type: "document", OriginalName: "memo.pdf"}, Actor{ID: "alice", Role: cnst.RoleEmployee})
	require.NoError(t, err)
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, "alice", ev.UploadedBy)
	assert.Equal(t, cnst.ActionEvidenceAdded, c.Timeline[0].Action)

	c.Status = cnst.ComplaintClosed
	_, err = e.AddComplaintEvidence(c, database.ComplaintEvidence{}, Actor{ID: "alice", Role: cnst.RoleEmployee})
	assert.ErrorIs(t, err, ErrClosed)
}

func newInvestigation(t *testing.T, e *Engine) (*database.Investigation, *database.Complaint) {
	t.Helper()
	c := newComplaint(cnst.ComplaintSubmitted)
	inv := &database.Investigation{
		InvestigatorID:          "bob",
		EstimatedCompletionDate: fixedNow.Add(72 * time.Hour),
	}
	require.NoError(t, e.Start(c, inv, Actor{ID: "hr1", Role: cnst.RoleHR}))
	return inv, c
}

func TestStart(t *testing.T) {
	e := newEngine(false)
	inv, c := newInvestigation(t, e)

	assert.Equal(t, cnst.InvestigationPending, inv.Status)
	assert.True(t, inv.IsActive)
	require.NotNil(t, inv.ActiveKey)
	assert.Equal(t, "t1:c1", *inv.ActiveKey)
	assert.Equal(t, cnst.ComplaintInvestigating, c.Status)
	assert.True(t, c.IsAssignedTo("bob"))
	assert.Equal(t, cnst.ActionInvestigationStarted, c.Timeline[0].Action)

	resolved := newComplaint(cnst.ComplaintResolved)
	require.NoError(t, e.Start(resolved, &database.Investigation{InvestigatorID: "bob"}, Actor{ID: "hr1", Role: cnst.RoleHR}))
	assert.Equal(t, cnst.ComplaintInvestigating, resolved.Status)

	strict := newEngine(true)
	assert.ErrorIs(t, strict.Start(newComplaint(cnst.ComplaintResolved), &database.Investigation{}, Actor{ID: "hr1", Role: cnst.RoleHR}), ErrClosed)
	assert.ErrorIs(t, strict.Start(newComplaint(cnst.ComplaintClosed), &database.Investigation{}, Actor{ID: "hr1", Role: cnst.RoleHR}), ErrClosed)
	assert.ErrorIs(t, e.Start(newComplaint(cnst.ComplaintSubmitted), &database.Investigation{}, Actor{ID: "bob", Role: cnst.RoleInvestigator}), ErrStatusNotAllowed)
}

func TestInvestigationTransitions(t *testing.T) {
	tests := []struct {
		name   string
		strict bool
		from   cnst.InvestigationStatus
		to     cnst.InvestigationStatus
		actor  Actor
		want   error
	}{
		{"investigator moves forward", false, cnst.InvestigationPending, cnst.InvestigationInProgress, Actor{ID: "bob", Role: cnst.RoleInvestigator}, nil},
		{"other investigator", false, cnst.InvestigationPending, cnst.InvestigationInProgress, Actor{ID: "dave", Role: cnst.RoleInvestigator}, ErrNotAssigned},
		{"employee", false, cnst.InvestigationPending, cnst.InvestigationInProgress, Actor{ID: "alice", Role: cnst.RoleEmployee}, ErrNotAssigned},
		{"completed through update", false, cnst.InvestigationAnalysis, cnst.InvestigationCompleted, Actor{ID: "hr1", Role: cnst.RoleHR}, ErrUseComplete},
		{"investigator suspends", false, cnst.InvestigationAnalysis, cnst.InvestigationSuspended, Actor{ID: "bob", Role: cnst.RoleInvestigator}, ErrStatusNotAllowed},
		{"hr suspends", false, cnst.InvestigationAnalysis, cnst.InvestigationSuspended, Actor{ID: "hr1", Role: cnst.RoleHR}, nil},
		{"completed is terminal", false, cnst.InvestigationCompleted, cnst.InvestigationInProgress, Actor{ID: "hr1", Role: cnst.RoleHR}, ErrClosed},
		{"cancelled is terminal", false, cnst.InvestigationCancelled, cnst.InvestigationPending, Actor{ID: "admin", Role: cnst.RoleTenantAdmin}, ErrClosed},
		{"lax skip", false, cnst.InvestigationPending, cnst.InvestigationReportDraft, Actor{ID: "bob", Role: cnst.RoleInvestigator}, nil},
		{"strict skip", true, cnst.InvestigationPending, cnst.InvestigationReportDraft, Actor{ID: "bob", Role: cnst.RoleInvestigator}, ErrInvalidTransition},
		{"strict resume", true, cnst.InvestigationSuspended, cnst.InvestigationAnalysis, Actor{ID: "hr1", Role: cnst.RoleHR}, nil},
		{"strict cancel", true, cnst.InvestigationEvidenceReview, cnst.InvestigationCancelled, Actor{ID: "hr1", Role: cnst.RoleHR}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(tt.strict)
			inv, _ := newInvestigation(t, e)
			inv.Status = tt.from
			n := len(inv.Timeline)

			err := e.ChangeInvestigationStatus(inv, tt.to, tt.actor, "")
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
				assert.Equal(t, tt.from, inv.Status)
				assert.Len(t, inv.Timeline, n)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, inv.Status)
			assert.Len(t, inv.Timeline, n+1)
		})
	}
}

func TestCancelReleasesComplaint(t *testing.T) {
	e := newEngine(false)
	inv, _ := newInvestigation(t, e)

	require.NoError(t, e.Cancel(inv, Actor{ID: "hr1", Role: cnst.RoleHR}, "duplicate"))
	assert.Equal(t, cnst.InvestigationCancelled, inv.Status)
	assert.False(t, inv.IsActive)
	assert.Nil(t, inv.ActiveKey)
	last := inv.Timeline[len(inv.Timeline)-1]
	assert.Equal(t, cnst.ActionCancelled, last.Action)
	assert.Equal(t, "duplicate", last.Notes)

	assert.ErrorIs(t, e.Suspend(inv, Actor{ID: "hr1", Role: cnst.RoleHR}, ""), ErrClosed)
}

func TestSuspend(t *testing.T) {
	e := newEngine(false)
	inv, _ := newInvestigation(t, e)

	assert.ErrorIs(t, e.Suspend(inv, Actor{ID: "bob", Role: cnst.RoleInvestigator}, ""), ErrStatusNotAllowed)
	require.NoError(t, e.Suspend(inv, Actor{ID: "admin", Role: cnst.RoleTenantAdmin}, "leave"))
	assert.Equal(t, cnst.InvestigationSuspended, inv.Status)
	assert.True(t, inv.IsActive)
	assert.Equal(t, cnst.ActionSuspended, inv.Timeline[len(inv.Timeline)-1].Action)
}

func TestComplete(t *testing.T) {
	tests := []struct {
		outcome string
		want    string
	}{
		{cnst.ConclusionSubstantiated, cnst.OutcomeFounded},
		{cnst.ConclusionUnsubstantiated, cnst.OutcomeUnfounded},
		{cnst.ConclusionPartiallySubstantiated, cnst.OutcomeUnfounded},
		{cnst.ConclusionInconclusive, cnst.OutcomeUnfounded},
	}
	for _, tt := range tests {
		t.Run(tt.outcome, func(t *testing.T) {
			e := newEngine(false)
			inv, c := newInvestigation(t, e)

			conclusion := database.Conclusion{
				Outcome: tt.outcome,
				Summary: "summary",
				Recommendations: []database.Recommendation{
					{Type: "training", Description: "harassment training", Priority: cnst.PriorityHigh, Status: "pending"},
				},
			}
			require.NoError(t, e.Complete(inv, c, conclusion, Actor{ID: "bob", Role: cnst.RoleInvestigator}))

			assert.Equal(t, cnst.InvestigationCompleted, inv.Status)
			require.NotNil(t, inv.ActualCompletionDate)
			got := inv.GetConclusion()
			require.NotNil(t, got)
			assert.Equal(t, "bob", got.CompletedBy)

			assert.Equal(t, cnst.ComplaintResolved, c.Status)
			res := c.GetResolution()
			require.NotNil(t, res)
			assert.Equal(t, tt.want, res.Outcome)
			assert.Equal(t, []string{"harassment training"}, res.ActionsTaken)
			assert.Equal(t, cnst.ActionResolved, c.Timeline[len(c.Timeline)-1].Action)

			assert.ErrorIs(t, e.Complete(inv, c, conclusion, Actor{ID: "bob", Role: cnst.RoleInvestigator}), ErrClosed)
		})
	}
}

func TestCompleteRequiresAssignment(t *testing.T) {
	e := newEngine(false)
	inv, c := newInvestigation(t, e)
	err := e.Complete(inv, c, database.Conclusion{Outcome: cnst.ConclusionSubstantiated}, Actor{ID: "dave", Role: cnst.RoleInvestigator})
	assert.ErrorIs(t, err, ErrNotAssigned)
	assert.Equal(t, cnst.ComplaintInvestigating, c.Status)
}

func TestAppendRecords(t *testing.T) {
	e := newEngine(false)
	inv, _ := newInvestigation(t, e)
	bob := Actor{ID: "bob", Role: cnst.RoleInvestigator}

	ev, err := e.AddEvidence(inv, database.InvestigationEvidence{Type: "email", Title: "thread", Source: "mail", Relevance: "high"}, bob)
	require.NoError(t, err)
	require.Len(t, ev.ChainOfCustody, 1)
	assert.Equal(t, cnst.CustodyCollected, ev.ChainOfCustody[0].Action)
	assert.Equal(t, fixedNow, ev.CollectedDate)

	iv, err := e.AddInterview(inv, database.Interview{IntervieweeID: "carol", Type: "accused", Summary: "denied"}, bob)
	require.NoError(t, err)
	assert.Equal(t, "bob", iv.InterviewerID)

	_, err = e.AddFinding(inv, database.Finding{Category: "factual", SupportingEvidence: []string{"missing"}}, bob)
	var evErr *EvidenceError
	require.True(t, errors.As(err, &evErr))
	assert.Equal(t, "missing", evErr.ID)
	assert.ErrorIs(t, err, ErrUnknownEvidence)

	f, err := e.AddFinding(inv, database.Finding{Category: "factual", SupportingEvidence: []string{ev.ID, ev.ID}}, bob)
	require.NoError(t, err)
	assert.Equal(t, "bob", f.DocumentedBy)
	assert.Equal(t, []string{ev.ID}, f.SupportingEvidence)

	actions := make([]cnst.TimelineAction, 0, len(inv.Timeline))
	for _, entry := range inv.Timeline {
		actions = append(actions, entry.Action)
	}
	assert.Equal(t, []cnst.TimelineAction{
		cnst.ActionCreated, cnst.ActionEvidenceCollected, cnst.ActionInterviewConducted, cnst.ActionAnalysisCompleted,
	}, actions)

	_, err = e.AddEvidence(inv, database.InvestigationEvidence{}, Actor{ID: "dave", Role: cnst.RoleInvestigator})
	assert.ErrorIs(t, err, ErrNotAssigned)
}

func TestProgressAndOverdue(t *testing.T) {
	assert.Equal(t, 0, Progress(cnst.InvestigationPending))
	assert.Equal(t, 50, Progress(cnst.InvestigationInterviewsPending))
	assert.Equal(t, 100, Progress(cnst.InvestigationCompleted))
	assert.Equal(t, 0, Progress(cnst.InvestigationSuspended))
	assert.Equal(t, 0, Progress(cnst.InvestigationCancelled))

	inv := &database.Investigation{
		Status:                  cnst.InvestigationAnalysis,
		IsActive:                true,
		EstimatedCompletionDate: fixedNow.Add(-time.Hour),
	}
	assert.True(t, IsOverdue(inv, fixedNow))
	inv.Status = cnst.InvestigationCompleted
	assert.False(t, IsOverdue(inv, fixedNow))
	inv.Status = cnst.InvestigationSuspended
	assert.True(t, IsOverdue(inv, fixedNow))
	inv.IsActive = false
	assert.False(t, IsOverdue(inv, fixedNow))
}

func TestDurationDays(t *testing.T) {
	inv := &database.Investigation{CreatedAt: fixedNow.Add(-25 * time.Hour)}
	assert.Equal(t, 2, DurationDays(inv, fixedNow))

	done := fixedNow.Add(-24 * time.Hour)
	inv.ActualCompletionDate = &done
	assert.Equal(t, 1, DurationDays(inv, fixedNow))

	assert.Equal(t, 0, DurationDays(&database.Investigation{CreatedAt: fixedNow}, fixedNow))
}

func TestStatusNames(t *testing.T) {
	terminal := 0
	for _, s := range cnst.InvestigationStatuses {
		if IsTerminal(s) {
			terminal++
		}
	}
	assert.Equal(t, 2, terminal)
	assert.True(t, IsTerminal(cnst.InvestigationCancelled))
	assert.False(t, IsTerminal(cnst.InvestigationSuspended))
}
