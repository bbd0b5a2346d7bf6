package server

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/atul48kumar90/resume-tailor-agent/internal/schemas"
	"github.com/atul48kumar90/resume-tailor-agent/internal/types"
)

// handleCompareVersions handles GET and POST
// /resumes/{resume_id}/versions/{version_id}/compare?compare_with=.
// An absent compare_with compares against the current version. A POST body
// of {"requirements": ...} adds before/after ATS scores.
func (s *Server) handleCompareVersions(w http.ResponseWriter, r *http.Request) {
	var reqs *types.JobRequirementSet
	if r.Method == http.MethodPost {
		raw, err := readBody(w, r)
		if err != nil {
			s.handleError(w, r, err)
			return
		}
		if reqs, err = decodeCompareBody(raw); err != nil {
			s.handleError(w, r, err)
			return
		}
	}

	resp, err := s.compare.CompareVersions(r.Context(),
		r.PathValue("resume_id"), r.PathValue("version_id"), r.URL.Query().Get("compare_with"), reqs)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func decodeCompareBody(raw []byte) (*types.JobRequirementSet, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var body struct {
		Requirements json.RawMessage `json:"requirements"`
	}
	if err := decodeJSON(raw, &body); err != nil {
		return nil, err
	}
	return schemas.DecodeRequirements(body.Requirements)
}

// handleDiff handles POST /diff with {"before", "after", "requirements"?}.
func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	raw, err := readBody(w, r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	var body struct {
		Before       json.RawMessage `json:"before"`
		After        json.RawMessage `json:"after"`
		Requirements json.RawMessage `json:"requirements"`
	}
	if err := decodeJSON(raw, &body); err != nil {
		s.handleError(w, r, err)
		return
	}

	var req types.DiffRequest
	if req.Before, err = schemas.DecodeDocument(body.Before); err != nil {
		s.handleError(w, r, err)
		return
	}
	if req.After, err = schemas.DecodeDocument(body.After); err != nil {
		s.handleError(w, r, err)
		return
	}
	if req.Requirements, err = schemas.DecodeRequirements(body.Requirements); err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := schemas.FromValidator(req.Validate()); err != nil {
		s.handleError(w, r, err)
		return
	}

	resp, err := s.compare.CompareDocuments(r.Context(), req.Before, req.After, req.Requirements)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleScore handles POST /ats/score with {"resume", "requirements"}.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	raw, err := readBody(w, r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	var body struct {
		Resume       json.RawMessage `json:"resume"`
		Requirements json.RawMessage `json:"requirements"`
	}
	if err := decodeJSON(raw, &body); err != nil {
		s.handleError(w, r, err)
		return
	}

	var req types.ScoreRequest
	if req.Resume, err = schemas.DecodeDocument(body.Resume); err != nil {
		s.handleError(w, r, err)
		return
	}
	if req.Requirements, err = schemas.DecodeRequirements(body.Requirements); err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := schemas.FromValidator(req.Validate()); err != nil {
		s.handleError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, s.scorer.ScoreContext(r.Context(), req.Resume, req.Requirements))
}
