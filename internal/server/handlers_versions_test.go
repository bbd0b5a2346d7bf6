package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	firstSnapshot  = `{"summary": "Go developer", "skills": ["Go"]}`
	secondSnapshot = `{"summary": "Senior Go developer", "skills": ["Go", "Kubernetes"]}`
)

// seed appends the two test snapshots to resume r1 and returns their ids.
func seed(t *testing.T, s *Server) (string, string) {
	t.Helper()
	first := do(t, s, http.MethodPost, "/resumes/r1/versions", `{"snapshot": `+firstSnapshot+`, "change_summary": "initial"}`)
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	second := do(t, s, http.MethodPost, "/resumes/r1/versions", `{"snapshot": `+secondSnapshot+`}`)
	require.Equal(t, http.StatusCreated, second.Code, second.Body.String())
	return decode(t, first)["version_id"].(string), decode(t, second)["version_id"].(string)
}

func TestHandleAppendVersion(t *testing.T) {
	s := newTestServer(t, nil)
	v1, v2 := seed(t, s)

	rec := do(t, s, http.MethodGet, "/resumes/r1/versions/"+v2, "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode(t, rec)
	assert.Equal(t, float64(2), got["version_number"])
	assert.Equal(t, v1, got["parent_version_id"])
	assert.Equal(t, "r1", got["resume_id"])
	assert.Equal(t, "Senior Go developer", got["snapshot"].(map[string]any)["summary"])
}

func TestHandleAppendVersion_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"malformed json", "/resumes/r1/versions", `{"snapshot":`, http.StatusBadRequest},
		{"missing snapshot", "/resumes/r1/versions", `{}`, http.StatusBadRequest},
		{"null snapshot", "/resumes/r1/versions", `{"snapshot": null}`, http.StatusBadRequest},
		{"unknown section", "/resumes/r1/versions", `{"snapshot": {"hobbies": ["chess"]}}`, http.StatusBadRequest},
		{"summary too long", "/resumes/r1/versions", `{"snapshot": {}, "change_summary": "` + longString(501) + `"}`, http.StatusBadRequest},
		{"blank resume id", "/resumes/%20/versions", `{"snapshot": {}}`, http.StatusBadRequest},
		{"unknown parent", "/resumes/r1/versions", `{"snapshot": {}, "parent_version_id": "nope"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, nil)
			rec := do(t, s, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decode(t, rec)["error"])
		})
	}
}

func TestHandleAppendVersion_ValidationDetails(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/resumes/r1/versions", `{"snapshot": {"skills": "Go"}}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "validation failed", body["error"])
	details := body["details"].([]any)
	require.NotEmpty(t, details)
	assert.Equal(t, "skills", details[0].(map[string]any)["field"])
}

func longString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'x'
	}
	return string(b)
}

func TestHandleListVersions(t *testing.T) {
	s := newTestServer(t, nil)
	_, v2 := seed(t, s)

	rec := do(t, s, http.MethodGet, "/resumes/r1/versions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(2), body["count"])

	list := body["versions"].([]any)
	require.Len(t, list, 2)
	first := list[0].(map[string]any)
	last := list[1].(map[string]any)
	assert.Equal(t, "initial", first["change_summary"])
	assert.Equal(t, false, first["is_current"])
	assert.Equal(t, v2, last["version_id"])
	assert.Equal(t, true, last["is_current"])
	assert.NotContains(t, last, "snapshot")
}

func TestHandleListVersions_UnknownResume(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodGet, "/resumes/ghost/versions", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], `resume "ghost" not found`)
}

func TestHandleGetVersion(t *testing.T) {
	s := newTestServer(t, nil)
	_, v2 := seed(t, s)

	rec := do(t, s, http.MethodGet, "/resumes/r1/versions/current", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, v2, decode(t, rec)["version_id"])

	rec = do(t, s, http.MethodGet, "/resumes/r1/versions/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGetVersion_PathValues(t *testing.T) {
	s := newTestServer(t, nil)
	v1, _ := seed(t, s)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetPathValue("resume_id", "r1")
	req.SetPathValue("version_id", v1)
	rec := httptest.NewRecorder()

	s.handleGetVersion(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decode(t, rec)["version_number"])
}

func TestHandleCurrent(t *testing.T) {
	s := newTestServer(t, nil)
	v1, v2 := seed(t, s)

	rec := do(t, s, http.MethodGet, "/resumes/r1/current", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, v2, decode(t, rec)["version_id"])

	rec = do(t, s, http.MethodPut, "/resumes/r1/current", `{"version_id": "`+v1+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, v1, decode(t, rec)["version_id"])

	rec = do(t, s, http.MethodGet, "/resumes/r1/current", "")
	assert.Equal(t, v1, decode(t, rec)["version_id"])
}

func TestHandleSetCurrent_Invalid(t *testing.T) {
	s := newTestServer(t, nil)
	seed(t, s)

	rec := do(t, s, http.MethodPut, "/resumes/r1/current", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	details := decode(t, rec)["details"].([]any)
	assert.Equal(t, "version_id", details[0].(map[string]any)["field"])

	rec = do(t, s, http.MethodPut, "/resumes/r1/current", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPut, "/resumes/r1/current", `{"version_id": "nope"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleUndoRedo(t *testing.T) {
	s := newTestServer(t, nil)
	v1, v2 := seed(t, s)

	rec := do(t, s, http.MethodPost, "/resumes/r1/redo", "")
	assert.Equal(t, http.StatusNotFound, rec.Code, "nothing to redo at the newest version")

	rec = do(t, s, http.MethodPost, "/resumes/r1/undo", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, v1, decode(t, rec)["version_id"])

	rec = do(t, s, http.MethodPost, "/resumes/r1/undo", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "no previous version")

	rec = do(t, s, http.MethodPost, "/resumes/r1/redo", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, v2, decode(t, rec)["version_id"])
}

func TestHandleExport(t *testing.T) {
	s := newTestServer(t, nil)
	v1, _ := seed(t, s)

	rec := do(t, s, http.MethodGet, "/resumes/r1/versions/"+v1+"/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `r1-v1.txt`)
	assert.Contains(t, rec.Body.String(), "Go developer")

	rec = do(t, s, http.MethodGet, "/resumes/r1/versions/current/export?format=latex", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/x-latex; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `r1-v2.tex`)
	assert.Contains(t, rec.Body.String(), "Kubernetes")

	rec = do(t, s, http.MethodGet, "/resumes/r1/versions/"+v1+"/export?format=pdf", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/resumes/r1/versions/missing/export", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
