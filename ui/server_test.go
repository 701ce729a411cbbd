package ui

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fac2x2/app"
	"fac2x2/domain/trial"
	"fac2x2/internal/testkit"
)

func testServer() *Server {
	design := app.NewDesignService(nil)
	return NewServer(Config{
		Design:      design,
		Analysis:    app.NewAnalysisService(testkit.NewStubRegression()),
		Sweep:       app.NewSweepService(design, 2),
		DefaultSeed: 42,
	})
}

func postJSON(t *testing.T, handler http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestDesignEndpoint(t *testing.T) {
	handler := testServer().Routes()
	rec := postJSON(t, handler, "/api/design", app.DesignRequest{
		Params: testkit.CanonicalDesignParams(),
		Seed:   42,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var result trial.DesignResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.PowerOverallA < 0.70 || result.PowerOverallA > 0.73 {
		t.Fatalf("overall A power out of range: %v", result.PowerOverallA)
	}
	if len(result.Procedures) != 3 {
		t.Fatalf("expected 3 procedures, got %d", len(result.Procedures))
	}
}

func TestDesignEndpoint_BadInput(t *testing.T) {
	handler := testServer().Routes()

	params := testkit.CanonicalDesignParams()
	params.RateC = -1
	rec := postJSON(t, handler, "/api/design", app.DesignRequest{Params: params, Seed: 42})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d for invalid rate, want 400", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/design", bytes.NewReader([]byte("{not json")))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d for malformed body, want 400", rec.Code)
	}
}

func TestDesignReportEndpoint(t *testing.T) {
	handler := testServer().Routes()
	rec := postJSON(t, handler, "/api/design/report", app.DesignRequest{
		Params: testkit.CanonicalDesignParams(),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Fatalf("content type %q", ct)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("<table>")) {
		t.Fatalf("report has no table:\n%s", rec.Body.String())
	}
}

func TestDesignExportEndpoint(t *testing.T) {
	handler := testServer().Routes()
	rec := postJSON(t, handler, "/api/design/export", app.DesignRequest{
		Params: testkit.CanonicalDesignParams(),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	// xlsx files are zip archives
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Fatalf("export does not look like a workbook")
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	handler := testServer().Routes()
	rec := postJSON(t, handler, "/api/analyze", app.AnalysisRequest{
		Data:   testkit.GenerateTrialData(42, 400),
		Alpha:  0.05,
		Digits: 4,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var result trial.AnalysisResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(result.Procedures) != 3 {
		t.Fatalf("expected 3 procedures, got %d", len(result.Procedures))
	}
}

func TestScenarioEndpoints_NoPersistence(t *testing.T) {
	handler := testServer().Routes()

	req := httptest.NewRequest(http.MethodGet, "/api/scenarios", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status %d", rec.Code)
	}
	var list []*trial.DesignResult
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %d", len(list))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/scenarios/any", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get status %d, want 404", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	handler := testServer().Routes()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
}
