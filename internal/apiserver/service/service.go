// Package service implements the use cases behind the HTTP handlers. Every
// method is scoped by the tenant of the caller and returns i18n errors that
// the handlers send as they are.
package service

import (
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/amoylab/casedesk/internal/apiserver/database"
	"github.com/amoylab/casedesk/internal/common/cnst"
	"github.com/amoylab/casedesk/internal/i18n"
	"github.com/amoylab/casedesk/internal/workflow"
	"github.com/amoylab/casedesk/pkg/trace"
)

var tracer = trace.Tracer(cnst.TraceService)

// Clock returns the current time; tests replace it
type Clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}

// actorOf converts the authenticated user into a workflow actor
func actorOf(u *database.User) workflow.Actor {
	return workflow.Actor{ID: u.ID, Role: u.Role}
}

func callerAttrs(u *database.User) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(cnst.AttrTenantID, u.TenantID),
		attribute.String(cnst.AttrUserID, u.ID),
		attribute.String(cnst.AttrUserRole, string(u.Role)),
	}
}

// storeError maps storage sentinels to i18n errors. notFound is used for
// ErrNotFound; anything unknown is wrapped and ends up as a 500.
func storeError(err error, notFound *i18n.ErrorWithCode, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, database.ErrNotFound) && notFound != nil:
		return notFound
	case errors.Is(err, database.ErrConcurrentUpdate):
		return i18n.ErrConcurrentUpdate
	case isI18n(err):
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isI18n(err error) bool {
	var withCode *i18n.ErrorWithCode
	var validation *i18n.ValidationError
	return errors.As(err, &withCode) || errors.As(err, &validation)
}

// complaintWorkflowError maps engine failures of a complaint transition
func complaintWorkflowError(err error, from, to string) error {
	switch {
	case errors.Is(err, workflow.ErrStatusNotAllowed):
		return i18n.ErrorStatusNotAllowed.WithParam("Status", to)
	case errors.Is(err, workflow.ErrInvalidTransition):
		return i18n.ErrorInvalidTransition.WithParam("From", from).WithParam("To", to)
	case errors.Is(err, workflow.ErrClosed):
		return i18n.ErrorComplaintClosed
	case errors.Is(err, workflow.ErrNotAssigned):
		return i18n.ErrorNotAssigned
	}
	return err
}

// investigationWorkflowError maps engine failures of an investigation operation
func investigationWorkflowError(err error, from, to string) error {
	var evErr *workflow.EvidenceError
	switch {
	case errors.As(err, &evErr):
		return i18n.ErrorEvidenceReferenceInvalid.WithParam("EvidenceID", evErr.ID)
	case errors.Is(err, workflow.ErrClosed):
		return i18n.ErrorInvestigationClosed.WithParam("Status", from)
	case errors.Is(err, workflow.ErrUseComplete):
		return i18n.ErrorUseCompleteEndpoint
	case errors.Is(err, workflow.ErrNotAssigned):
		return i18n.ErrorInvestigationAccessDenied
	case errors.Is(err, workflow.ErrStatusNotAllowed):
		return i18n.ErrorStatusNotAllowed.WithParam("Status", to)
	case errors.Is(err, workflow.ErrInvalidTransition):
		return i18n.ErrorInvalidTransition.WithParam("From", from).WithParam("To", to)
	}
	return err
}
