package i18n

import (
	"errors"
	"fmt"
	"maps"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ErrorCode represents an HTTP status code
type ErrorCode int

// Standard HTTP status codes
const (
	ErrorBadRequest         ErrorCode = http.StatusBadRequest
	ErrorUnauthorized       ErrorCode = http.StatusUnauthorized
	ErrorForbidden          ErrorCode = http.StatusForbidden
	ErrorNotFound           ErrorCode = http.StatusNotFound
	ErrorConflict           ErrorCode = http.StatusConflict
	ErrorLocked             ErrorCode = http.StatusLocked
	ErrorTooManyRequests    ErrorCode = http.StatusTooManyRequests
	ErrorInternalServer     ErrorCode = http.StatusInternalServerError
	ErrorServiceUnavailable ErrorCode = http.StatusServiceUnavailable
)

// I18nError represents an internationalized error
type I18nError struct {
	// MessageID is the key used for translation lookup
	MessageID string
	// DefaultMessage is used when translation is not available
	DefaultMessage string
	// Data holds template parameters for the message
	Data map[string]any
}

// New creates a new I18nError with the given message ID
func New(messageID string) *I18nError {
	return &I18nError{
		MessageID:      messageID,
		DefaultMessage: messageID,
	}
}

// NewWithMessage creates a new I18nError with a message ID and default message
func NewWithMessage(messageID, defaultMessage string) *I18nError {
	return &I18nError{
		MessageID:      messageID,
		DefaultMessage: defaultMessage,
	}
}

// WithData returns a copy of the error carrying the merged template data.
// Predefined errors are shared, so they are never mutated in place.
func (e *I18nError) WithData(data map[string]any) *I18nError {
	cp := *e
	cp.Data = make(map[string]any, len(e.Data)+len(data))
	maps.Copy(cp.Data, e.Data)
	maps.Copy(cp.Data, data)
	return &cp
}

// WithParam returns a copy of the error carrying one more template parameter
func (e *I18nError) WithParam(key string, value any) *I18nError {
	return e.WithData(map[string]any{key: value})
}

// Error implements the error interface using the default language
func (e *I18nError) Error() string {
	if t := GetTranslator(); t != nil {
		if translated := t.Translate(e.MessageID, defaultLang, e.Data); translated != e.MessageID {
			return translated
		}
	}

	msg := e.DefaultMessage
	for k, v := range e.Data {
		msg = strings.ReplaceAll(msg, fmt.Sprintf("{{.%s}}", k), fmt.Sprintf("%v", v))
	}
	return msg
}

// TranslateByContext translates the error based on the context's language preference
func (e *I18nError) TranslateByContext(c *gin.Context) string {
	if t := GetTranslator(); t != nil {
		if translated := t.Translate(e.MessageID, langFromContext(c), e.Data); translated != e.MessageID {
			return translated
		}
	}
	return e.Error()
}

// ErrorWithCode is an error with a code that can be used in API responses
type ErrorWithCode struct {
	*I18nError
	Code ErrorCode
}

// NewErrorWithCode creates a new error with a code
func NewErrorWithCode(messageID string, code ErrorCode) *ErrorWithCode {
	return &ErrorWithCode{
		I18nError: New(messageID),
		Code:      code,
	}
}

// WithParam returns a copy of the error with one more template parameter
func (e *ErrorWithCode) WithParam(key string, value any) *ErrorWithCode {
	return &ErrorWithCode{I18nError: e.I18nError.WithParam(key, value), Code: e.Code}
}

// WithData returns a copy of the error with merged template data
func (e *ErrorWithCode) WithData(data map[string]any) *ErrorWithCode {
	return &ErrorWithCode{I18nError: e.I18nError.WithData(data), Code: e.Code}
}

// WithHttpCode returns a copy of the error answering with another status
func (e *ErrorWithCode) WithHttpCode(code ErrorCode) *ErrorWithCode {
	return &ErrorWithCode{I18nError: e.I18nError, Code: code}
}

// GetCode returns the error code
func (e *ErrorWithCode) GetCode() ErrorCode {
	return e.Code
}

// Is matches errors carrying the same message ID, so parametrised copies
// still satisfy errors.Is against the predefined value.
func (e *ErrorWithCode) Is(target error) bool {
	var other *ErrorWithCode
	if errors.As(target, &other) {
		return other.MessageID == e.MessageID
	}
	return false
}

// FieldError is a single failed field of a request
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries field level failures and always answers 400
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError creates a validation error
func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsI18nError checks if an error is an I18nError
func IsI18nError(err error) bool {
	return AsI18nError(err) != nil
}

// AsI18nError converts an error to an I18nError if possible, or returns nil
func AsI18nError(err error) *I18nError {
	var i18nErr *I18nError
	if errors.As(err, &i18nErr) {
		return i18nErr
	}
	var withCode *ErrorWithCode
	if errors.As(err, &withCode) {
		return withCode.I18nError
	}
	return nil
}

// TranslateError translates an error using the context's language preference
func TranslateError(c *gin.Context, err error) string {
	if err == nil {
		return ""
	}
	if i18nErr := AsI18nError(err); i18nErr != nil {
		return i18nErr.TranslateByContext(c)
	}
	return err.Error()
}
