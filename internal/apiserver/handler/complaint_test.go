package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestComplaint_Lifecycle(t *testing.T) {
	s := newTestServer(t)
	alice, hr, bob := s.login("alice"), s.login("hr"), s.login("bob")

	w := s.do(http.MethodPost, "/api/complaints", alice, complaintBody(s.users["carol"].ID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := w.Body.String()
	id := gjson.Get(body, "data.id").String()
	assert.Equal(t, "draft", gjson.Get(body, "data.status").String())
	assert.Equal(t, "medium", gjson.Get(body, "data.severity").String())
	assert.Equal(t, "normal", gjson.Get(body, "data.priority").String())
	assert.True(t, gjson.Get(body, "data.is_confidential").Bool())
	assert.Equal(t, int64(1), gjson.Get(body, "data.timeline.#").Int())

	w = s.do(http.MethodPut, "/api/complaints/"+id+"/status", alice, gin.H{"status": "submitted"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, int64(2), gjson.Get(w.Body.String(), "data.timeline.#").Int())

	w = s.do(http.MethodPut, "/api/complaints/"+id+"/assign", hr, gin.H{"investigator_id": s.users["bob"].ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "investigating", gjson.Get(w.Body.String(), "data.status").String())
	assert.Equal(t, s.users["bob"].ID, gjson.Get(w.Body.String(), "data.assigned_to").String())

	w = s.do(http.MethodPut, "/api/complaints/"+id+"/resolve", bob, gin.H{
		"outcome":       "founded",
		"actions_taken": []string{"Written warning issued"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body = w.Body.String()
	assert.Equal(t, "resolved", gjson.Get(body, "data.status").String())
	assert.Equal(t, "founded", gjson.Get(body, "data.resolution.outcome").String())
	assert.Equal(t, s.users["bob"].ID, gjson.Get(body, "data.resolution.resolved_by").String())

	w = s.do(http.MethodGet, "/api/complaints/"+id+"/timeline", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	timeline := gjson.Get(w.Body.String(), "data")
	require.Equal(t, int64(4), timeline.Get("#").Int())
	assert.Equal(t, "submitted", timeline.Get("1.new_status").String())
	assert.Equal(t, "draft", timeline.Get("1.previous_status").String())
	assert.Equal(t, "resolved", timeline.Get("3.new_status").String())
}

func TestComplaint_EmployeeCannotResolve(t *testing.T) {
	s := newTestServer(t)
	alice := s.login("alice")

	body := complaintBody(s.users["carol"].ID)
	body["submit"] = true
	w := s.do(http.MethodPost, "/api/complaints", alice, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := gjson.Get(w.Body.String(), "data.id").String()
	assert.Equal(t, "submitted", gjson.Get(w.Body.String(), "data.status").String())

	w = s.do(http.MethodPut, "/api/complaints/"+id+"/status", alice, gin.H{"status": "resolved"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "ErrorStatusNotAllowed", gjson.Get(w.Body.String(), "code").String())

	w = s.do(http.MethodGet, "/api/complaints/"+id, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "submitted", gjson.Get(w.Body.String(), "data.status").String())
	assert.Equal(t, int64(2), gjson.Get(w.Body.String(), "data.timeline.#").Int())

	// the resolve endpoint is closed to employees altogether
	w = s.do(http.MethodPut, "/api/complaints/"+id+"/resolve", alice, gin.H{
		"outcome":       "founded",
		"actions_taken": []string{"Written warning issued"},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestComplaint_Visibility(t *testing.T) {
	s := newTestServer(t)
	alice, carol, hr := s.login("alice"), s.login("carol"), s.login("hr")

	w := s.do(http.MethodPost, "/api/complaints", alice, complaintBody(s.users["carol"].ID))
	require.Equal(t, http.StatusCreated, w.Code)
	id := gjson.Get(w.Body.String(), "data.id").String()

	w = s.do(http.MethodGet, "/api/complaints/"+id, carol, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/api/complaints", carol, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(0), gjson.Get(w.Body.String(), "pagination.total").Int())

	w = s.do(http.MethodGet, "/api/complaints?limit=5", hr, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), gjson.Get(w.Body.String(), "pagination.total").Int())
	assert.Equal(t, int64(5), gjson.Get(w.Body.String(), "pagination.limit").Int())
	assert.Equal(t, int64(1), gjson.Get(w.Body.String(), "pagination.totalPages").Int())

	w = s.do(http.MethodGet, "/api/complaints/stats", alice, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(http.MethodGet, "/api/complaints/stats", hr, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), gjson.Get(w.Body.String(), "data.total").Int())
}

func TestComplaint_Validation(t *testing.T) {
	s := newTestServer(t)
	alice := s.login("alice")

	body := complaintBody(s.users["alice"].ID)
	w := s.do(http.MethodPost, "/api/complaints", alice, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ErrorSelfAccusation", gjson.Get(w.Body.String(), "code").String())

	body = complaintBody(s.users["carol"].ID)
	body["incident_date"] = time.Now().Add(48 * time.Hour).Format(time.RFC3339)
	body["type"] = "unknown"
	w = s.do(http.MethodPost, "/api/complaints", alice, body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.ElementsMatch(t, []string{"type", "incident_date"}, stringsOf(gjson.Get(w.Body.String(), "errors.#.field")))

	w = s.do(http.MethodGet, "/api/complaints/not-a-uuid", alice, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ErrorInvalidID", gjson.Get(w.Body.String(), "code").String())
}

func stringsOf(r gjson.Result) []string {
	var out []string
	for _, v := range r.Array() {
		out = append(out, v.String())
	}
	return out
}
