package api

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/curricula/internal/store"
)

type programEntry struct {
	ProgramID string                `json:"program_id"`
	Title     string                `json:"title,omitempty"`
	URL       string                `json:"url,omitempty"`
	InCatalog bool                  `json:"in_catalog"`
	Summary   *store.ProgramSummary `json:"summary,omitempty"`
}

// handleListPrograms lists catalog programs in catalog order, followed by
// stored programs that are not in the catalog.
func (s *Server) handleListPrograms(w http.ResponseWriter, r *http.Request) {
	var sum store.Summary
	if st := s.orchestrator.Deps().Store; st != nil {
		sum = st.Summary()
	}

	entries := make([]programEntry, 0, len(s.catalog.Programs)+len(sum.Programs))
	seen := make(map[string]bool, len(s.catalog.Programs))
	for _, p := range s.catalog.Programs {
		e := programEntry{ProgramID: p.ID, Title: p.Title, URL: p.URL, InCatalog: true}
		if ps, ok := sum.Programs[p.ID]; ok {
			e.Summary = &ps
			if ps.Title != "" {
				e.Title = ps.Title
			}
		}
		entries = append(entries, e)
		seen[p.ID] = true
	}

	var extra []programEntry
	for id, ps := range sum.Programs {
		if seen[id] {
			continue
		}
		extra = append(extra, programEntry{ProgramID: id, Title: ps.Title, URL: ps.URL, Summary: &ps})
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i].ProgramID < extra[j].ProgramID })

	writeJSON(w, http.StatusOK, map[string]any{
		"programs": append(entries, extra...),
	})
}

func (s *Server) handleGetProgram(w http.ResponseWriter, r *http.Request) {
	programID := chi.URLParam(r, "programID")
	st := s.orchestrator.Deps().Store
	if st == nil {
		jsonError(w, "result store unavailable", http.StatusServiceUnavailable)
		return
	}
	rec, ok := st.Get(programID)
	if !ok {
		jsonError(w, "program not found: "+programID, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleProgramHistory returns recent parse runs, newest first. The limit
// query parameter defaults to 20.
func (s *Server) handleProgramHistory(w http.ResponseWriter, r *http.Request) {
	hist := s.orchestrator.Deps().History
	if hist == nil {
		jsonError(w, "history disabled", http.StatusServiceUnavailable)
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			jsonError(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	programID := chi.URLParam(r, "programID")
	runs, err := hist.List(r.Context(), programID, limit)
	if err != nil {
		s.log.Error("history query failed", "program_id", programID, "error", err)
		jsonError(w, "failed to read history", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"program_id": programID,
		"runs":       runs,
	})
}

func (s *Server) handleRefreshProgram(w http.ResponseWriter, r *http.Request) {
	programID := chi.URLParam(r, "programID")
	p, ok := s.catalog.Program(programID)
	if !ok {
		jsonError(w, "program not in catalog: "+programID, http.StatusNotFound)
		return
	}
	job, err := s.orchestrator.SubmitRefresh(p, r.URL.Query().Get("force") == "true")
	if err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusAccepted, jobAccepted(job))
}

// handleRefreshAll queues a refresh for every catalog program.
func (s *Server) handleRefreshAll(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "true"
	results := make([]map[string]any, 0, len(s.catalog.Programs))
	for _, p := range s.catalog.Programs {
		job, err := s.orchestrator.SubmitRefresh(p, force)
		if err != nil {
			results = append(results, map[string]any{
				"program_id": p.ID,
				"error":      err.Error(),
			})
			continue
		}
		results = append(results, jobAccepted(job))
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"jobs": results})
}
