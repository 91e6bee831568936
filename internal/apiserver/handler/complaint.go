package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/amoylab/casedesk/internal/apiserver/service"
	"github.com/amoylab/casedesk/internal/common/dto"
	"github.com/amoylab/casedesk/internal/i18n"
	"github.com/amoylab/casedesk/internal/validator"
)

// Complaint serves /api/complaints
type Complaint struct {
	complaints *service.Complaint
}

func NewComplaint(complaints *service.Complaint) *Complaint {
	return &Complaint{complaints: complaints}
}

// Create files a complaint; the caller is the complainant
func (h *Complaint) Create(c *gin.Context) {
	var req dto.CreateComplaintRequest
	if err := validator.BindJSON(c, &req); err != nil {
		i18n.RespondWithError(c, err)
		return
	}

	complaint, err := h.complaints.Create(c.Request.Context(), caller(c), &req)
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	i18n.Created(i18n.SuccessComplaintCreated).WithPayload(complaint).Send(c)
}

func (h *Complaint) List(c *gin.Context) {
	var q dto.ListComplaintsQuery
	if err := validator.BindQuery(c, &q); err != nil {
		i18n.RespondWithError(c, err)
		return
	}

	complaints, page, err := h.complaints.List(c.Request.Context(), caller(c), &q)
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	i18n.Success(i18n.SuccessComplaintList).WithPayload(complaints).WithPagination(page).Send(c)
}

func (h *Complaint) Stats(c *gin.Context) {
	stats, err := h.complaints.Stats(c.Request.Context(), caller(c))
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	i18n.Success(i18n.SuccessComplaintStats).WithPayload(stats).Send(c)
}

func (h *Complaint) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	complaint, err := h.complaints.Get(c.Request.Context(), caller(c), id)
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	i18n.Success(i18n.SuccessComplaintInfo).WithPayload(complaint).Send(c)
}

// Update edits a draft complaint
func (h *Complaint) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateComplaintRequest
	if err := validator.BindJSON(c, &req); err != nil {
		i18n.RespondWithError(c, err)
		return
	}

	complaint, err := h.complaints.Update(c.Request.Context(), caller(c), id, &req)
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	i18n.Success(i18n.SuccessComplaintUpdated).WithPayload(complaint).Send(c)
}

// ChangeStatus moves a complaint through the workflow
func (h *Complaint) ChangeStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.ComplaintStatusRequest
	if err := validator.BindJSON(c, &req); err != nil {
		i18n.RespondWithError(c, err)
		return
	}

	complaint, err := h.complaints.ChangeStatus(c.Request.Context(), caller(c), id, &req)
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	i18n.Success(i18n.SuccessComplaintStatus).WithPayload(complaint).Send(c)
}

func (h *Complaint) Assign(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.AssignInvestigatorRequest
	if err := validator.BindJSON(c, &req); err != nil {
		i18n.RespondWithError(c, err)
		return
	}

	complaint, err := h.complaints.Assign(c.Request.Context(), caller(c), id, &req)
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	i18n.Success(i18n.SuccessComplaintAssigned).WithPayload(complaint).Send(c)
}

func (h *Complaint) AddEvidence(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.ComplaintEvidenceRequest
	if err := validator.BindJSON(c, &req); err != nil {
		i18n.RespondWithError(c, err)
		return
	}

	evidence, err := h.complaints.AddEvidence(c.Request.Context(), caller(c), id, &req)
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	i18n.Created(i18n.SuccessComplaintEvidence).WithPayload(evidence).Send(c)
}

func (h *Complaint) Resolve(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.ResolveComplaintRequest
	if err := validator.BindJSON(c, &req); err != nil {
		i18n.RespondWithError(c, err)
		return
	}

	complaint, err := h.complaints.Resolve(c.Request.Context(), caller(c), id, &req)
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	i18n.Success(i18n.SuccessComplaintResolved).WithPayload(complaint).Send(c)
}

func (h *Complaint) Timeline(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	timeline, err := h.complaints.Timeline(c.Request.Context(), caller(c), id)
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	i18n.Success(i18n.SuccessComplaintTimeline).WithPayload(timeline).Send(c)
}
