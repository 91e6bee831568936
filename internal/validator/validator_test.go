package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amoylab/casedesk/internal/i18n"
)

type tenantForm struct {
	Name   string     `json:"name" binding:"required,min=2"`
	RUT    string     `json:"rut" binding:"required,rut"`
	Slug   string     `json:"slug" binding:"required,tenantslug"`
	Email  string     `json:"email" binding:"required,email"`
	Phone  string     `json:"phone" binding:"omitempty,phonecl"`
	Key    string     `json:"key" binding:"omitempty,catalogkey"`
	Due    *time.Time `json:"due" binding:"omitempty,futuredate"`
	Status string     `json:"status" binding:"omitempty,oneof=active inactive"`
}

func TestPatterns(t *testing.T) {
	assert.True(t, IsRUT("76.123.456-7"))
	assert.True(t, IsRUT("9.876.543-K"))
	assert.False(t, IsRUT("76123456-7"))
	assert.False(t, IsRUT("76.123.456-X"))

	assert.True(t, IsTenantSlug("acme-corp"))
	assert.False(t, IsTenantSlug("Acme"))
	assert.False(t, IsTenantSlug(""))
	assert.False(t, IsTenantSlug("acme_corp"))

	assert.True(t, IsCatalogKey("partially_founded"))
	assert.False(t, IsCatalogKey("partially-founded"))
}

func TestStruct(t *testing.T) {
	v := New()
	past := time.Now().Add(-time.Hour)
	err := Struct(v, &tenantForm{
		Name:   "A",
		RUT:    "bad",
		Slug:   "Bad Slug",
		Email:  "nope",
		Phone:  "12345",
		Key:    "Bad-Key",
		Due:    &past,
		Status: "gone",
	})
	var verr *i18n.ValidationError
	require.ErrorAs(t, err, &verr)

	got := map[string]string{}
	for _, f := range verr.Fields {
		got[f.Field] = f.Message
	}
	assert.Equal(t, map[string]string{
		"name":   i18n.MsgFieldMin,
		"rut":    i18n.MsgFieldRUT,
		"slug":   i18n.MsgFieldSlug,
		"email":  i18n.MsgFieldEmail,
		"phone":  i18n.MsgFieldInvalid,
		"key":    i18n.MsgFieldKey,
		"due":    i18n.MsgFieldFuture,
		"status": i18n.MsgFieldOneOf,
	}, got)

	future := time.Now().Add(time.Hour)
	assert.NoError(t, Struct(v, &tenantForm{
		Name:  "Acme",
		RUT:   "76.123.456-7",
		Slug:  "acme",
		Email: "contact@acme.cl",
		Phone: "+56912345678",
		Due:   &future,
	}))
}

func TestBindJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	require.NoError(t, Setup())
	require.NoError(t, Setup())

	bind := func(body string) error {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		var form tenantForm
		return BindJSON(c, &form)
	}

	assert.ErrorIs(t, bind("{not json"), i18n.ErrInvalidBody)

	var verr *i18n.ValidationError
	require.ErrorAs(t, bind(`{"name":"Acme"}`), &verr)
	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"rut", "slug", "email"}, fields)

	assert.NoError(t, bind(`{"name":"Acme","rut":"76.123.456-7","slug":"acme","email":"a@acme.cl"}`))
}

func TestTranslateNil(t *testing.T) {
	assert.NoError(t, Translate(nil))
}
