package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orchids/voice-monitor/internal/domain"
	"github.com/orchids/voice-monitor/internal/service"
	"github.com/orchids/voice-monitor/pkg/logger"
	"github.com/orchids/voice-monitor/pkg/response"
	"github.com/orchids/voice-monitor/pkg/validator"
)

type MonitoringHandler struct {
	monitor *service.Monitor
	log     *logger.Logger
}

func NewMonitoringHandler(monitor *service.Monitor, log *logger.Logger) *MonitoringHandler {
	return &MonitoringHandler{
		monitor: monitor,
		log:     log,
	}
}

// Health runs every registered probe and maps the verdict onto the HTTP
// status code so load balancers can act on it directly.
func (h *MonitoringHandler) Health(c *gin.Context) {
	report := h.monitor.HealthReport(c.Request.Context())

	status := http.StatusOK
	if !report.Overall {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}

func (h *MonitoringHandler) Dashboard(c *gin.Context) {
	data := h.monitor.DashboardData(c.Request.Context())
	response.Success(c, http.StatusOK, data)
}

func (h *MonitoringHandler) History(c *gin.Context) {
	hours, err := validator.ValidateHours(c.Query("hours"))
	if err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	history, err := h.monitor.MetricsHistory(hours)
	if err != nil {
		h.log.Error(c.Request.Context(), "failed to build metrics history", err, map[string]interface{}{
			"hours": hours,
		})
		response.InternalError(c, "Failed to retrieve metrics history")
		return
	}

	response.Success(c, http.StatusOK, history)
}

func (h *MonitoringHandler) ListAlerts(c *gin.Context) {
	raw := c.Query("severity")
	if raw == "" {
		response.Success(c, http.StatusOK, h.monitor.AllAlerts())
		return
	}

	severity, err := domain.ParseSeverity(raw)
	if err != nil {
		response.ValidationError(c, "severity must be one of low, medium, high, critical")
		return
	}
	response.Success(c, http.StatusOK, h.monitor.AlertsBySeverity(severity))
}

func (h *MonitoringHandler) ActiveAlerts(c *gin.Context) {
	response.Success(c, http.StatusOK, h.monitor.ActiveAlerts())
}

type createAlertRequest struct {
	Kind     string         `json:"kind" binding:"required"`
	Severity string         `json:"severity" binding:"required"`
	Title    string         `json:"title"`
	Message  string         `json:"message" binding:"required"`
	Metadata map[string]any `json:"metadata"`
}

func (h *MonitoringHandler) CreateAlert(c *gin.Context) {
	var req createAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "kind, severity and message are required")
		return
	}

	if err := validator.ValidateKind(req.Kind); err != nil {
		response.ValidationError(c, err.Error())
		return
	}
	severity, err := domain.ParseSeverity(req.Severity)
	if err != nil {
		response.ValidationError(c, "severity must be one of low, medium, high, critical")
		return
	}

	title := validator.SanitizeString(req.Title)
	if title == "" {
		title = req.Kind
	}

	alert := h.monitor.CreateAlert(req.Kind, severity, title, validator.SanitizeString(req.Message), req.Metadata)
	response.Success(c, http.StatusCreated, alert)
}

func (h *MonitoringHandler) ResolveAlert(c *gin.Context) {
	id := c.Param("id")
	if err := validator.ValidateAlertID(id); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	if !h.monitor.ResolveAlert(id) {
		response.NotFound(c, "Alert not found or already resolved")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":  "Alert resolved",
		"alert_id": id,
	})
}
