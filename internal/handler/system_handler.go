package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-records/internal/models"
	"github.com/noah-isme/sma-records/internal/service"
)

// SystemHandler serves liveness and Prometheus endpoints.
type SystemHandler struct {
	metrics *service.MetricsService
	store   *service.Store
	driver  string
}

// NewSystemHandler constructs a system handler. driver names the persistence backend
// reported by Health.
func NewSystemHandler(metrics *service.MetricsService, store *service.Store, driver string) *SystemHandler {
	return &SystemHandler{metrics: metrics, store: store, driver: driver}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *SystemHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health godoc
// @Summary Liveness with collection sizes
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	body := gin.H{"status": "ok", "driver": h.driver}
	if h.store != nil {
		snapshot := h.store.Snapshot()
		body["collections"] = map[models.Collection]int{
			models.CollectionStudents:   len(snapshot.Students),
			models.CollectionCourses:    len(snapshot.Courses),
			models.CollectionAttendance: len(snapshot.Attendance),
			models.CollectionGrades:     len(snapshot.Grades),
			models.CollectionEvents:     len(snapshot.Events),
			models.CollectionActivities: len(snapshot.Activities),
		}
	}
	c.JSON(http.StatusOK, body)
}
