package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/amoylab/casedesk/internal/apiserver/service"
	"github.com/amoylab/casedesk/internal/common/dto"
	"github.com/amoylab/casedesk/internal/i18n"
	"github.com/amoylab/casedesk/internal/validator"
)

// User serves /api/users
type User struct {
	users *service.User
}

func NewUser(users *service.User) *User {
	return &User{users: users}
}

// List handles paginated user listing
func (h *User) List(c *gin.Context) {
	var q dto.ListUsersQuery
	if err := validator.BindQuery(c, &q); err != nil {
		i18n.RespondWithError(c, err)
		return
	}

	users, page, err := h.users.List(c.Request.Context(), caller(c), &q)
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	i18n.Success(i18n.SuccessUserList).WithPayload(users).WithPagination(page).Send(c)
}

func (h *User) Stats(c *gin.Context) {
	stats, err := h.users.Stats(c.Request.Context(), caller(c))
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	i18n.Success(i18n.SuccessUserStats).WithPayload(stats).Send(c)
}

func (h *User) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	user, err := h.users.Get(c.Request.Context(), caller(c), id)
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	i18n.Success(i18n.SuccessUserInfo).WithPayload(user).Send(c)
}

// Create handles user creation; it consumes one license
func (h *User) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := validator.BindJSON(c, &req); err != nil {
		i18n.RespondWithError(c, err)
		return
	}

	user, err := h.users.Create(c.Request.Context(), caller(c), &req)
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	i18n.Created(i18n.SuccessUserCreated).WithPayload(user).Send(c)
}

func (h *User) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateUserRequest
	if err := validator.BindJSON(c, &req); err != nil {
		i18n.RespondWithError(c, err)
		return
	}

	user, err := h.users.Update(c.Request.Context(), caller(c), id, &req)
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	i18n.Success(i18n.SuccessUserUpdated).WithPayload(user).Send(c)
}

// Delete removes a user and releases its license
func (h *User) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.users.Delete(c.Request.Context(), caller(c), id); err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	i18n.Success(i18n.SuccessUserDeleted).Send(c)
}

// SetStatus sets the active flag, or toggles it when the body is empty
func (h *User) SetStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.UserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		i18n.RespondWithError(c, validator.Translate(err))
		return
	}

	user, err := h.users.SetStatus(c.Request.Context(), caller(c), id, req.IsActive)
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	i18n.Success(i18n.SuccessUserStatusChanged).WithPayload(user).Send(c)
}
