// Package validator registers the request validation rules used by gin
// binding and turns validation failures into translated field errors.
package validator

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/amoylab/casedesk/internal/i18n"
)

var (
	rutPattern   = regexp.MustCompile(`^\d{1,2}\.\d{3}\.\d{3}-[\dkK]$`)
	slugPattern  = regexp.MustCompile(`^[a-z0-9-]+$`)
	keyPattern   = regexp.MustCompile(`^[a-z0-9_]+$`)
	phonePattern = regexp.MustCompile(`^\+56\d{9}$`)
)

// messages maps validator tags to message IDs
var messages = map[string]string{
	"required":   i18n.MsgFieldRequired,
	"email":      i18n.MsgFieldEmail,
	"min":        i18n.MsgFieldMin,
	"gte":        i18n.MsgFieldMin,
	"gt":         i18n.MsgFieldMin,
	"max":        i18n.MsgFieldMax,
	"lte":        i18n.MsgFieldMax,
	"lt":         i18n.MsgFieldMax,
	"oneof":      i18n.MsgFieldOneOf,
	"rut":        i18n.MsgFieldRUT,
	"tenantslug": i18n.MsgFieldSlug,
	"catalogkey": i18n.MsgFieldKey,
	"futuredate": i18n.MsgFieldFuture,
	"pastdate":   i18n.MsgFieldPast,
}

var once sync.Once

// IsRUT reports whether s is a dotted Chilean RUT such as 12.345.678-9
func IsRUT(s string) bool {
	return rutPattern.MatchString(s)
}

// IsTenantSlug reports whether s is a valid tenant slug
func IsTenantSlug(s string) bool {
	return s != "" && slugPattern.MatchString(s)
}

// IsCatalogKey reports whether s is a valid catalog entry key
func IsCatalogKey(s string) bool {
	return s != "" && keyPattern.MatchString(s)
}

// Register adds the custom rules and json field naming to v
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})

	rules := map[string]validator.Func{
		"rut":        stringRule(IsRUT),
		"tenantslug": stringRule(IsTenantSlug),
		"catalogkey": stringRule(IsCatalogKey),
		"phonecl":    stringRule(phonePattern.MatchString),
		"futuredate": futureDate,
		"pastdate":   pastDate,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// New returns a standalone validator reading the same binding tags as gin
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	if err := Register(v); err != nil {
		panic(err)
	}
	return v
}

// Setup registers the custom rules on the gin binding engine
func Setup() error {
	var err error
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("gin binding engine is not go-playground validator")
			return
		}
		err = Register(v)
	})
	return err
}

func stringRule(match func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || match(s)
	}
}

func futureDate(fl validator.FieldLevel) bool {
	switch v := fl.Field().Interface().(type) {
	case time.Time:
		return v.IsZero() || v.After(time.Now())
	case *time.Time:
		return v == nil || v.After(time.Now())
	}
	return false
}

func pastDate(fl validator.FieldLevel) bool {
	switch v := fl.Field().Interface().(type) {
	case time.Time:
		return !v.After(time.Now())
	case *time.Time:
		return v == nil || !v.After(time.Now())
	}
	return false
}

// Translate converts a binding error into an i18n error. Field level
// failures become a ValidationError; malformed bodies become ErrInvalidBody.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return i18n.ErrInvalidBody
	}
	fields := make([]i18n.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[fe.Tag()]
		if !ok {
			msg = i18n.MsgFieldInvalid
		}
		fields = append(fields, i18n.FieldError{Field: fieldPath(fe), Message: msg})
	}
	return i18n.NewValidationError(fields...)
}

// fieldPath drops the top level struct name from the namespace
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// BindJSON binds the request body into obj
func BindJSON(c *gin.Context, obj any) error {
	return Translate(c.ShouldBindJSON(obj))
}

// BindQuery binds the query string into obj
func BindQuery(c *gin.Context, obj any) error {
	return Translate(c.ShouldBindQuery(obj))
}

// Struct validates obj with v and translates the failure
func Struct(v *validator.Validate, obj any) error {
	return Translate(v.Struct(obj))
}
