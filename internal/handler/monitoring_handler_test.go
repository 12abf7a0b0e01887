package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orchids/voice-monitor/internal/config"
	"github.com/orchids/voice-monitor/internal/domain"
	"github.com/orchids/voice-monitor/internal/service"
	"github.com/orchids/voice-monitor/pkg/logger"
)

func newTestRouter(t *testing.T) (*gin.Engine, *service.Monitor) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.New("test", "disabled")
	cfg := &config.Config{
		Monitor: config.MonitorConfig{DiskPath: "/"},
		Thresholds: config.ThresholdConfig{
			CPUPercent: 90, MemoryPercent: 90, DiskPercent: 85,
			CallFailureRate: 0.2, APIFailureRate: 0.2, InferenceFailureRate: 0.2,
			MinCallVolume: 10, MinRequestVolume: 20,
			ErrorBurstCount: 10, ErrorBurstWindow: 5 * time.Minute,
		},
	}
	monitor, err := service.NewMonitor(cfg, log)
	if err != nil {
		t.Fatalf("NewMonitor: %v", err)
	}

	h := NewMonitoringHandler(monitor, log)
	router := gin.New()
	router.GET("/health", h.Health)
	router.GET("/api/monitoring/dashboard", h.Dashboard)
	router.GET("/api/monitoring/history", h.History)
	router.GET("/api/monitoring/alerts", h.ListAlerts)
	router.GET("/api/monitoring/alerts/active", h.ActiveAlerts)
	router.POST("/api/monitoring/alerts", h.CreateAlert)
	router.POST("/api/monitoring/alerts/:id/resolve", h.ResolveAlert)
	return router, monitor
}

func doRequest(router *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpointReflectsProbeState(t *testing.T) {
	router, monitor := newTestRouter(t)

	if w := doRequest(router, http.MethodGet, "/health", nil); w.Code != http.StatusOK {
		t.Fatalf("healthy status = %d, want 200", w.Code)
	}

	monitor.RegisterCheck("redis", func(ctx context.Context) (domain.ProbeResult, error) {
		return domain.ProbeResult{}, errors.New("dial tcp: refused")
	})

	w := doRequest(router, http.MethodGet, "/health", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("unhealthy status = %d, want 503", w.Code)
	}
	var report domain.HealthReport
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatal(err)
	}
	if report.Overall || report.Checks["redis"].Error == "" {
		t.Errorf("report = %+v", report)
	}
}

func TestDashboardEndpoint(t *testing.T) {
	router, monitor := newTestRouter(t)
	monitor.RecordCall(true, 120)

	w := doRequest(router, http.MethodGet, "/api/monitoring/dashboard", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var envelope struct {
		Success bool                 `json:"success"`
		Data    domain.DashboardData `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatal(err)
	}
	if !envelope.Success {
		t.Fatal("expected success envelope")
	}
	if envelope.Data.Application.Calls.Total != 1 {
		t.Errorf("dashboard calls = %+v", envelope.Data.Application.Calls)
	}
}

func TestHistoryEndpointValidatesHours(t *testing.T) {
	router, _ := newTestRouter(t)

	if w := doRequest(router, http.MethodGet, "/api/monitoring/history?hours=abc", nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad hours status = %d, want 400", w.Code)
	}
	if w := doRequest(router, http.MethodGet, "/api/monitoring/history?hours=0", nil); w.Code != http.StatusBadRequest {
		t.Errorf("zero hours status = %d, want 400", w.Code)
	}
	if w := doRequest(router, http.MethodGet, "/api/monitoring/history", nil); w.Code != http.StatusOK {
		t.Errorf("default hours status = %d, want 200", w.Code)
	}
}

func TestAlertEndpointsLifecycle(t *testing.T) {
	router, _ := newTestRouter(t)

	body, _ := json.Marshal(map[string]any{
		"kind":     "manual_check",
		"severity": "high",
		"message":  "operator raised",
	})
	w := doRequest(router, http.MethodPost, "/api/monitoring/alerts", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}
	var created struct {
		Data domain.Alert `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}

	if w := doRequest(router, http.MethodGet, "/api/monitoring/alerts?severity=high", nil); w.Code != http.StatusOK {
		t.Errorf("list by severity status = %d", w.Code)
	}
	if w := doRequest(router, http.MethodGet, "/api/monitoring/alerts?severity=urgent", nil); w.Code != http.StatusBadRequest {
		t.Errorf("invalid severity status = %d, want 400", w.Code)
	}

	resolvePath := "/api/monitoring/alerts/" + created.Data.ID + "/resolve"
	if w := doRequest(router, http.MethodPost, resolvePath, nil); w.Code != http.StatusOK {
		t.Fatalf("resolve status = %d", w.Code)
	}
	if w := doRequest(router, http.MethodPost, resolvePath, nil); w.Code != http.StatusNotFound {
		t.Errorf("second resolve status = %d, want 404", w.Code)
	}

	w = doRequest(router, http.MethodGet, "/api/monitoring/alerts/active", nil)
	var active struct {
		Data []domain.Alert `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &active); err != nil {
		t.Fatal(err)
	}
	if len(active.Data) != 0 {
		t.Errorf("active alerts = %d, want 0 after resolution", len(active.Data))
	}
}

func TestCreateAlertValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	body, _ := json.Marshal(map[string]any{"kind": "x", "severity": "bogus", "message": "m"})
	if w := doRequest(router, http.MethodPost, "/api/monitoring/alerts", body); w.Code != http.StatusBadRequest {
		t.Errorf("bogus severity status = %d, want 400", w.Code)
	}

	body, _ = json.Marshal(map[string]any{"severity": "low", "message": "m"})
	if w := doRequest(router, http.MethodPost, "/api/monitoring/alerts", body); w.Code != http.StatusBadRequest {
		t.Errorf("missing kind status = %d, want 400", w.Code)
	}
}
