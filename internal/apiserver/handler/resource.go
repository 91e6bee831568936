package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/amoylab/casedesk/internal/apiserver/service"
	"github.com/amoylab/casedesk/internal/common/dto"
	"github.com/amoylab/casedesk/internal/i18n"
	"github.com/amoylab/casedesk/internal/validator"
)

// Resource serves the tenant catalog under /api/resources
type Resource struct {
	resources *service.Resource
}

func NewResource(resources *service.Resource) *Resource {
	return &Resource{resources: resources}
}

// Grouped lists the catalog grouped by category
func (h *Resource) Grouped(c *gin.Context) {
	includeInactive, ok := boolQuery(c, "include_inactive")
	if !ok {
		return
	}
	groups, err := h.resources.Grouped(c.Request.Context(), caller(c), includeInactive)
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	i18n.Success(i18n.SuccessResourceList).WithPayload(groups).Send(c)
}

func (h *Resource) Category(c *gin.Context) {
	entries, err := h.resources.Category(c.Request.Context(), caller(c), c.Param("category"))
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	i18n.Success(i18n.SuccessResourceList).WithPayload(entries).Send(c)
}

func (h *Resource) ValidateKey(c *gin.Context) {
	valid, err := h.resources.ValidateKey(c.Request.Context(), caller(c), c.Param("category"), c.Param("key"))
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	i18n.Success(i18n.SuccessResourceValidated).WithPayload(dto.ValidateKeyResponse{Valid: valid}).Send(c)
}

func (h *Resource) Create(c *gin.Context) {
	var req dto.CreateResourceRequest
	if err := validator.BindJSON(c, &req); err != nil {
		i18n.RespondWithError(c, err)
		return
	}

	entry, err := h.resources.Create(c.Request.Context(), caller(c), &req)
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	i18n.Created(i18n.SuccessResourceCreated).WithPayload(entry).Send(c)
}

func (h *Resource) Update(c *gin.Context) {
	var req dto.UpdateResourceRequest
	if err := validator.BindJSON(c, &req); err != nil {
		i18n.RespondWithError(c, err)
		return
	}

	entry, err := h.resources.Update(c.Request.Context(), caller(c), c.Param("category"), c.Param("key"), &req)
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	i18n.Success(i18n.SuccessResourceUpdated).WithPayload(entry).Send(c)
}

// Delete deactivates a catalog entry
func (h *Resource) Delete(c *gin.Context) {
	if err := h.resources.Delete(c.Request.Context(), caller(c), c.Param("category"), c.Param("key")); err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	i18n.Success(i18n.SuccessResourceDeleted).Send(c)
}
