package api

import (
	"encoding/json"
	"net/http"
	"strings"
)

type parseRequest struct {
	Text string `json:"text"`
}

type classifyRequest struct {
	Text      string `json:"text"`
	ProgramID string `json:"program_id"`
}

// handleParse parses text synchronously. Parsing never fails, so any text
// yields a document.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		jsonError(w, "text is required", http.StatusBadRequest)
		return
	}
	doc := s.orchestrator.Deps().Parser.Parse(req.Text)
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.ProgramID == "" {
		jsonError(w, "program_id is required", http.StatusBadRequest)
		return
	}
	if !s.classifier.Known(req.ProgramID) {
		jsonError(w, "unknown program: "+req.ProgramID, http.StatusNotFound)
		return
	}
	score := s.classifier.Score(req.Text, req.ProgramID)
	writeJSON(w, http.StatusOK, map[string]any{
		"program_id": req.ProgramID,
		"matches":    score >= s.classifier.Threshold(),
		"score":      score,
		"threshold":  s.classifier.Threshold(),
	})
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}
