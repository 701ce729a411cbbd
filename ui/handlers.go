package ui

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fac2x2/app"
	"fac2x2/domain/core"
	"fac2x2/domain/trial"
	"fac2x2/internal/report"
)

func (s *Server) handleDesign(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeDesignRequest(w, r)
	if !ok {
		return
	}
	result, err := s.design.Run(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDesignReport(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeDesignRequest(w, r)
	if !ok {
		return
	}
	result, err := s.design.Run(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(report.RenderHTML(report.DesignMarkdown(result))); err != nil {
		log.Printf("[Server] report write failed: %v", err)
	}
}

func (s *Server) handleDesignExport(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeDesignRequest(w, r)
	if !ok {
		return
	}
	result, err := s.design.Run(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "design-"+result.ScenarioID.String()+".xlsx"))
	if err := s.excel.WriteDesign(w, result); err != nil {
		log.Printf("[Server] export write failed: %v", err)
	}
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req app.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}
	if req.Seed == 0 {
		req.Seed = s.defaultSeed
	}
	result, err := s.analysis.Run(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	var req app.SweepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}
	result, err := s.sweep.Run(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	if s.scenarios == nil {
		writeJSON(w, http.StatusOK, []*trial.DesignResult{})
		return
	}
	results, err := s.scenarios.ListDesigns(r.Context(), 50)
	if err != nil {
		writeError(w, err)
		return
	}
	if results == nil {
		results = []*trial.DesignResult{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleGetScenario(w http.ResponseWriter, r *http.Request) {
	if s.scenarios == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "persistence disabled"})
		return
	}
	id := core.ScenarioID(chi.URLParam(r, "id"))
	result, err := s.scenarios.GetDesign(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) decodeDesignRequest(w http.ResponseWriter, r *http.Request) (app.DesignRequest, bool) {
	var req app.DesignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return req, false
	}
	if req.Seed == 0 {
		req.Seed = s.defaultSeed
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[Server] response encode failed: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case core.IsDomainError(err):
		status = http.StatusBadRequest
	case core.IsConvergenceError(err):
		status = http.StatusUnprocessableEntity
	case core.IsNotFoundError(err):
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
