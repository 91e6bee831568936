package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/amoylab/casedesk/internal/apiserver/database"
	"github.com/amoylab/casedesk/internal/apiserver/service"
	"github.com/amoylab/casedesk/internal/common/dto"
	"github.com/amoylab/casedesk/internal/i18n"
	"github.com/amoylab/casedesk/internal/validator"
)

// Investigation serves /api/investigations
type Investigation struct {
	investigations *service.Investigation
}

func NewInvestigation(investigations *service.Investigation) *Investigation {
	return &Investigation{investigations: investigations}
}

// Create opens an investigation and moves its complaint to investigating
func (h *Investigation) Create(c *gin.Context) {
	var req dto.CreateInvestigationRequest
	if err := validator.BindJSON(c, &req); err != nil {
		i18n.RespondWithError(c, err)
		return
	}

	inv, err := h.investigations.Create(c.Request.Context(), caller(c), &req)
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	i18n.Created(i18n.SuccessInvestigationCreated).WithPayload(inv).Send(c)
}

func (h *Investigation) List(c *gin.Context) {
	var q dto.ListInvestigationsQuery
	if err := validator.BindQuery(c, &q); err != nil {
		i18n.RespondWithError(c, err)
		return
	}

	list, page, err := h.investigations.List(c.Request.Context(), caller(c), &q)
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	i18n.Success(i18n.SuccessInvestigationList).WithPayload(list).WithPagination(page).Send(c)
}

func (h *Investigation) Stats(c *gin.Context) {
	stats, err := h.investigations.Stats(c.Request.Context(), caller(c))
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	i18n.Success(i18n.SuccessInvestigationStats).WithPayload(stats).Send(c)
}

func (h *Investigation) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	detail, err := h.investigations.Get(c.Request.Context(), caller(c), id)
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	i18n.Success(i18n.SuccessInvestigationInfo).WithPayload(detail).Send(c)
}

func (h *Investigation) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateInvestigationRequest
	if err := validator.BindJSON(c, &req); err != nil {
		i18n.RespondWithError(c, err)
		return
	}

	detail, err := h.investigations.Update(c.Request.Context(), caller(c), id, &req)
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	i18n.Success(i18n.SuccessInvestigationUpdated).WithPayload(detail).Send(c)
}

func (h *Investigation) AddEvidence(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.InvestigationEvidenceRequest
	if err := validator.BindJSON(c, &req); err != nil {
		i18n.RespondWithError(c, err)
		return
	}

	evidence, err := h.investigations.AddEvidence(c.Request.Context(), caller(c), id, &req)
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	i18n.Created(i18n.SuccessInvestigationEvidence).WithPayload(evidence).Send(c)
}

func (h *Investigation) AddInterview(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.InterviewRequest
	if err := validator.BindJSON(c, &req); err != nil {
		i18n.RespondWithError(c, err)
		return
	}

	interview, err := h.investigations.AddInterview(c.Request.Context(), caller(c), id, &req)
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	i18n.Created(i18n.SuccessInterviewAdded).WithPayload(interview).Send(c)
}

func (h *Investigation) AddFinding(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.FindingRequest
	if err := validator.BindJSON(c, &req); err != nil {
		i18n.RespondWithError(c, err)
		return
	}

	finding, err := h.investigations.AddFinding(c.Request.Context(), caller(c), id, &req)
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	i18n.Created(i18n.SuccessFindingAdded).WithPayload(finding).Send(c)
}

// Complete concludes the investigation and resolves its complaint
func (h *Investigation) Complete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.CompleteInvestigationRequest
	if err := validator.BindJSON(c, &req); err != nil {
		i18n.RespondWithError(c, err)
		return
	}

	detail, err := h.investigations.Complete(c.Request.Context(), caller(c), id, &req)
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	i18n.Success(i18n.SuccessInvestigationComplete).WithPayload(detail).Send(c)
}

func (h *Investigation) Suspend(c *gin.Context) {
	h.stop(c, h.investigations.Suspend, i18n.SuccessInvestigationSuspend)
}

func (h *Investigation) Cancel(c *gin.Context) {
	h.stop(c, h.investigations.Cancel, i18n.SuccessInvestigationCancel)
}

type stopFunc func(ctx context.Context, caller *database.User, id, reason string) (*dto.InvestigationDetail, error)

func (h *Investigation) stop(c *gin.Context, fn stopFunc, msgID string) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.ReasonRequest
	if err := validator.BindJSON(c, &req); err != nil {
		i18n.RespondWithError(c, err)
		return
	}

	detail, err := fn(c.Request.Context(), caller(c), id, req.Reason)
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	i18n.Success(msgID).WithPayload(detail).Send(c)
}
