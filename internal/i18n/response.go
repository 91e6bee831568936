package i18n

import (
	"errors"
	"math"
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

// exposeDetails adds the raw error text to 5xx responses (development only)
var exposeDetails atomic.Bool

// SetExposeErrorDetails toggles raw error details on internal errors
func SetExposeErrorDetails(v bool) {
	exposeDetails.Store(v)
}

// Pagination describes one page of a list response
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewPagination computes the page count for total items
func NewPagination(page, limit int, total int64) *Pagination {
	pages := 0
	if limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return &Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

// Envelope is the body of every API response
type Envelope struct {
	Success    bool         `json:"success"`
	Message    string       `json:"message"`
	Data       any          `json:"data,omitempty"`
	Errors     []FieldError `json:"errors,omitempty"`
	Pagination *Pagination  `json:"pagination,omitempty"`
	Code       string       `json:"code,omitempty"`
	Error      string       `json:"error,omitempty"`
}

// RespondWithError sends an appropriate HTTP error response for the given error
func RespondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, Envelope{
			Message: TranslateMessage(c, ErrorValidationFailed.MessageID, nil),
			Errors:  translateFields(c, validationErr.Fields),
		})
		return
	}

	var withCode *ErrorWithCode
	if errors.As(err, &withCode) {
		body := Envelope{Message: withCode.TranslateByContext(c)}
		if withCode.Code >= http.StatusInternalServerError {
			_ = c.Error(err)
		} else {
			body.Code = withCode.MessageID
		}
		c.JSON(int(withCode.Code), body)
		return
	}

	// unexpected error: recorded for the logging middleware, hidden from the client
	_ = c.Error(err)
	body := Envelope{Message: ErrInternalServer.TranslateByContext(c)}
	if exposeDetails.Load() {
		body.Error = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}

// AbortWithError responds with err and stops the handler chain
func AbortWithError(c *gin.Context, err error) {
	RespondWithError(c, err)
	c.Abort()
}

func translateFields(c *gin.Context, fields []FieldError) []FieldError {
	out := make([]FieldError, len(fields))
	for i, f := range fields {
		out[i] = FieldError{Field: f.Field, Message: TranslateMessage(c, f.Message, map[string]any{"Field": f.Field})}
	}
	return out
}

// SuccessResponse represents a response with success message
type SuccessResponse struct {
	StatusCode int
	MsgID      string
	Data       map[string]any
	Payload    any
	Pagination *Pagination
}

// With adds a template parameter for the message
func (r *SuccessResponse) With(key string, value any) *SuccessResponse {
	if r.Data == nil {
		r.Data = make(map[string]any)
	}
	r.Data[key] = value
	return r
}

// WithPayload sets the data field of the response
func (r *SuccessResponse) WithPayload(payload any) *SuccessResponse {
	r.Payload = payload
	return r
}

// WithPagination attaches paging information
func (r *SuccessResponse) WithPagination(p *Pagination) *SuccessResponse {
	r.Pagination = p
	return r
}

// Send sends the response to the client
func (r *SuccessResponse) Send(c *gin.Context) {
	c.JSON(r.StatusCode, Envelope{
		Success:    true,
		Message:    TranslateMessage(c, r.MsgID, r.Data),
		Data:       r.Payload,
		Pagination: r.Pagination,
	})
}

// Success creates a new success response with status code 200
func Success(msgID string) *SuccessResponse {
	return &SuccessResponse{
		StatusCode: http.StatusOK,
		MsgID:      msgID,
	}
}

// Created creates a new success response with status code 201
func Created(msgID string) *SuccessResponse {
	return &SuccessResponse{
		StatusCode: http.StatusCreated,
		MsgID:      msgID,
	}
}
