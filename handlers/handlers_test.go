package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"flywise/services"

	"github.com/gin-gonic/gin"
)

type stubGenerator struct {
	response string
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.response, nil
}

func testRouter(t *testing.T, ai services.Generator) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	path := filepath.Join(t.TempDir(), "prices.json")
	prices := map[string][]map[string]any{
		"MAN->MXP:2025-12": {
			{"date": "2025-12-01", "price": 120},
			{"date": "2025-12-02", "price": 95},
			{"date": "2025-12-03", "price": 110},
			{"date": "2025-12-04", "price": 88},
			{"date": "2025-12-05", "price": 104},
			{"date": "2025-12-06", "price": 99},
		},
	}
	blob, err := json.Marshal(prices)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		t.Fatal(err)
	}
	store, err := services.NewPriceStore(path)
	if err != nil {
		t.Fatalf("load store: %v", err)
	}

	rec := services.NewRecommender(ai, store)
	finder := services.NewHotelFinder(ai)

	r := gin.New()
	r.GET("/", RootHandler)
	api := r.Group("/api")
	{
		api.GET("/health", HealthHandler(store, ai != nil))
		api.POST("/recommend", RecommendHandler(rec))
		api.GET("/hotels", HotelsHandler(finder))
		api.GET("/phrase-guide/:lang", PhraseGuideHandler)
		api.POST("/report", ReportHandler)
	}
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRecommendEndpoint_MockStore(t *testing.T) {
	r := testRouter(t, nil)

	w := doJSON(t, r, http.MethodPost, "/api/recommend",
		`{"origin": " man ", "destination": "mxp", "month": "2025-12", "stay_len": 2}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}

	var result services.RecommendationResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Source != "mock" {
		t.Errorf("expected mock source, got %q", result.Source)
	}
	if result.Decision != "book" && result.Decision != "wait" {
		t.Errorf("unexpected decision %q", result.Decision)
	}
	if len(result.BestWindows) == 0 {
		t.Error("expected at least one window")
	}
}

func TestRecommendEndpoint_ErrorStatuses(t *testing.T) {
	r := testRouter(t, nil)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"missing fields", `{"origin": "MAN"}`, http.StatusBadRequest},
		{"bad month", `{"origin": "MAN", "destination": "MXP", "month": "Dec-2025", "stay_len": 2}`, http.StatusBadRequest},
		{"unknown route", `{"origin": "ZZZ", "destination": "YYY", "month": "2025-12", "stay_len": 2}`, http.StatusNotFound},
		{"malformed data blob", `{"origin": "MAN", "destination": "MXP", "month": "2025-12", "stay_len": 2, "data": {"results": "not a list"}}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/api/recommend", tt.body)
			if w.Code != tt.code {
				t.Errorf("status %d, want %d (body %s)", w.Code, tt.code, w.Body.String())
			}
		})
	}
}

func TestRecommendEndpoint_UpstreamFailureIncludesRaw(t *testing.T) {
	r := testRouter(t, &stubGenerator{response: "I am not JSON at all"})

	w := doJSON(t, r, http.MethodPost, "/api/recommend",
		`{"origin": "MAN", "destination": "MXP", "month": "2025-12", "stay_len": 2}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status %d, want 502 (body %s)", w.Code, w.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["raw"] != "I am not JSON at all" {
		t.Errorf("expected raw AI text in body, got %v", body["raw"])
	}
}

func TestHotelsEndpoint_NoAI(t *testing.T) {
	r := testRouter(t, nil)

	w := doJSON(t, r, http.MethodGet,
		"/api/hotels?destination=Milan&arrival_date=2025-12-04&departure_date=2025-12-08", "")
	if w.Code != http.StatusBadGateway {
		t.Errorf("status %d, want 502", w.Code)
	}
}

func TestHotelsEndpoint_MissingParams(t *testing.T) {
	r := testRouter(t, &stubGenerator{response: `{"hotels":[]}`})

	w := doJSON(t, r, http.MethodGet, "/api/hotels?destination=Milan", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status %d, want 400", w.Code)
	}
}

func TestPhraseGuide(t *testing.T) {
	r := testRouter(t, nil)

	w := doJSON(t, r, http.MethodGet, "/api/phrase-guide/JA", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	var guide PhraseGuide
	if err := json.Unmarshal(w.Body.Bytes(), &guide); err != nil {
		t.Fatal(err)
	}
	if guide.Code != "ja" || len(guide.Phrases) == 0 {
		t.Errorf("unexpected guide %+v", guide)
	}

	w = doJSON(t, r, http.MethodGet, "/api/phrase-guide/klingon", "")
	if err := json.Unmarshal(w.Body.Bytes(), &guide); err != nil {
		t.Fatal(err)
	}
	if guide.Code != "en" {
		t.Errorf("unknown language should fall back to English, got %q", guide.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	r := testRouter(t, nil)

	w := doJSON(t, r, http.MethodGet, "/api/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("unexpected health body %v", body)
	}
	if body["mock_routes"].(float64) != 1 {
		t.Errorf("expected 1 mock route, got %v", body["mock_routes"])
	}
	if body["ai"] != false {
		t.Errorf("expected ai=false, got %v", body["ai"])
	}
}

func TestReportEndpoint(t *testing.T) {
	r := testRouter(t, nil)

	result := services.RecommendationResult{
		Decision:   "book",
		Confidence: 0.8,
		BestWindows: []services.DateWindow{
			{Start: "2025-12-04", End: "2025-12-06", Price: 88},
		},
		Rationale: "Best window is near the monthly minimum.",
		BaselineFeatures: services.PriceStatistics{
			Min: 88, P25: 95, Median: 104, Trend3d: -0.02,
		},
		Packages: []services.PackagePlan{
			{Tier: "budget", TotalBudget: 83.6, FlightPrice: 45.98, HotelPrice: 29.26,
				Activities: []string{"Free walking tour"}},
		},
		Source: "mock",
	}
	payload, err := json.Marshal(map[string]any{
		"origin": "MAN", "destination": "MXP", "month": "2025-12", "stay_len": 2,
		"result": result,
	})
	if err != nil {
		t.Fatal(err)
	}

	w := doJSON(t, r, http.MethodPost, "/api/report", string(payload))
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type %q", ct)
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "attachment") {
		t.Errorf("expected attachment disposition, got %q", w.Header().Get("Content-Disposition"))
	}
	if !strings.HasPrefix(w.Body.String(), "%PDF") {
		t.Error("expected PDF magic bytes")
	}
}
