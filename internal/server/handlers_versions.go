package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/atul48kumar90/resume-tailor-agent/internal/logger"
	"github.com/atul48kumar90/resume-tailor-agent/internal/rendering"
	"github.com/atul48kumar90/resume-tailor-agent/internal/schemas"
	"github.com/atul48kumar90/resume-tailor-agent/internal/types"
	"github.com/atul48kumar90/resume-tailor-agent/internal/versions"
	schemafiles "github.com/atul48kumar90/resume-tailor-agent/schemas"
)

// handleAppendVersion handles POST /resumes/{resume_id}/versions
func (s *Server) handleAppendVersion(w http.ResponseWriter, r *http.Request) {
	resumeID := r.PathValue("resume_id")

	raw, err := readBody(w, r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := schemas.Validate(schemafiles.AppendVersion, raw); err != nil {
		s.handleError(w, r, err)
		return
	}

	var body struct {
		Snapshot        json.RawMessage `json:"snapshot"`
		ParentVersionID string          `json:"parent_version_id"`
		ChangeSummary   string          `json:"change_summary"`
	}
	if err := decodeJSON(raw, &body); err != nil {
		s.handleError(w, r, err)
		return
	}
	snapshot, err := schemas.DecodeDocument(body.Snapshot)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	req := types.AppendVersionRequest{
		Snapshot:        snapshot,
		ParentVersionID: body.ParentVersionID,
		ChangeSummary:   body.ChangeSummary,
	}
	if err := schemas.FromValidator(req.Validate()); err != nil {
		s.handleError(w, r, err)
		return
	}

	v, err := s.store.Append(r.Context(), resumeID, req.Snapshot, req.ParentVersionID, req.ChangeSummary)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.logger.Info("version appended",
		zap.String("resume_id", resumeID),
		zap.String("version_id", v.VersionID),
		zap.Int("version_number", v.VersionNumber),
		zap.String("change_summary", logger.Truncate(v.ChangeSummary, 80)))
	s.jsonResponse(w, http.StatusCreated, v)
}

// handleListVersions handles GET /resumes/{resume_id}/versions
func (s *Server) handleListVersions(w http.ResponseWriter, r *http.Request) {
	resumeID := r.PathValue("resume_id")

	metas, err := s.store.List(r.Context(), resumeID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"resume_id": resumeID,
		"versions":  metas,
		"count":     len(metas),
	})
}

// handleGetVersion handles GET /resumes/{resume_id}/versions/{version_id}.
// The version id "current" resolves to the current version.
func (s *Server) handleGetVersion(w http.ResponseWriter, r *http.Request) {
	v, err := versions.Resolve(r.Context(), s.store, r.PathValue("resume_id"), r.PathValue("version_id"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, v)
}

// handleGetCurrent handles GET /resumes/{resume_id}/current
func (s *Server) handleGetCurrent(w http.ResponseWriter, r *http.Request) {
	v, err := s.store.GetCurrent(r.Context(), r.PathValue("resume_id"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, v)
}

// handleSetCurrent handles PUT /resumes/{resume_id}/current
func (s *Server) handleSetCurrent(w http.ResponseWriter, r *http.Request) {
	resumeID := r.PathValue("resume_id")

	raw, err := readBody(w, r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	var req types.SetCurrentRequest
	if err := decodeJSON(raw, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := schemas.FromValidator(req.Validate()); err != nil {
		s.handleError(w, r, err)
		return
	}

	if err := s.store.SetCurrent(r.Context(), resumeID, req.VersionID); err != nil {
		s.handleError(w, r, err)
		return
	}
	v, err := s.store.GetCurrent(r.Context(), resumeID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.logger.Info("current version set",
		zap.String("resume_id", resumeID),
		zap.String("version_id", v.VersionID))
	s.jsonResponse(w, http.StatusOK, v)
}

// handleUndo handles POST /resumes/{resume_id}/undo
func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.step(w, r, "undo", versions.Undo)
}

// handleRedo handles POST /resumes/{resume_id}/redo
func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	s.step(w, r, "redo", versions.Redo)
}

func (s *Server) step(w http.ResponseWriter, r *http.Request, action string,
	move func(context.Context, versions.Store, string) (*types.ResumeVersion, error)) {
	resumeID := r.PathValue("resume_id")

	v, err := move(r.Context(), s.store, resumeID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.logger.Info("current version moved",
		zap.String("action", action),
		zap.String("resume_id", resumeID),
		zap.Int("version_number", v.VersionNumber))
	s.jsonResponse(w, http.StatusOK, v)
}

// handleExport handles GET /resumes/{resume_id}/versions/{version_id}/export?format=text|latex
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = rendering.FormatText
	}

	v, err := versions.Resolve(r.Context(), s.store, r.PathValue("resume_id"), r.PathValue("version_id"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	out, err := rendering.Export(&v.Snapshot, format, s.template)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	ext := "txt"
	if format == rendering.FormatLaTeX {
		ext = "tex"
	}
	w.Header().Set("Content-Type", rendering.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", fmt.Sprintf("%s-v%d.%s", v.ResumeID, v.VersionNumber, ext)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(out)); err != nil {
		s.logger.Warn("error writing export", zap.Error(err))
	}
}
