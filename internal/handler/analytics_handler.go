package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-records/internal/service"
	appErrors "github.com/noah-isme/sma-records/pkg/errors"
	"github.com/noah-isme/sma-records/pkg/response"
)

// AnalyticsHandler exposes aggregation endpoints.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler constructs AnalyticsHandler.
func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// Dashboard godoc
// @Summary Dashboard overview
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /analytics/dashboard [get]
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.analytics.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dashboard, nil)
}

// LetterGrade godoc
// @Summary Letter for a score
// @Tags Analytics
// @Produce json
// @Param score query number true "Score between 0 and 100"
// @Success 200 {object} response.Envelope
// @Router /analytics/letter-grade [get]
func (h *AnalyticsHandler) LetterGrade(c *gin.Context) {
	score, err := strconv.ParseFloat(c.Query("score"), 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "score must be a number"))
		return
	}
	result, err := h.analytics.LetterGrade(c.Request.Context(), score)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// GradeDistribution godoc
// @Summary Grade count per letter
// @Tags Analytics
// @Produce json
// @Param courseId query string false "Filter by course"
// @Param studentId query string false "Filter by student"
// @Success 200 {object} response.Envelope
// @Router /analytics/grade-distribution [get]
func (h *AnalyticsHandler) GradeDistribution(c *gin.Context) {
	dist, err := h.analytics.GradeDistribution(c.Request.Context(), gradeFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dist, nil)
}

// TopStudents godoc
// @Summary Students ranked by average score
// @Tags Analytics
// @Produce json
// @Param n query int false "Number of students"
// @Success 200 {object} response.Envelope
// @Router /analytics/top-students [get]
func (h *AnalyticsHandler) TopStudents(c *gin.Context) {
	n, err := queryInt(c, "n", 0)
	if err != nil {
		response.Error(c, err)
		return
	}
	ranking, err := h.analytics.TopStudents(c.Request.Context(), n)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ranking, nil)
}

// Classes godoc
// @Summary Students grouped by class
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /analytics/classes [get]
func (h *AnalyticsHandler) Classes(c *gin.Context) {
	classes, err := h.analytics.Classes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, nil)
}

// AttendanceByDate godoc
// @Summary Attendance tallies per day
// @Tags Analytics
// @Produce json
// @Param date query string false "Filter by date"
// @Param studentId query string false "Filter by student"
// @Success 200 {object} response.Envelope
// @Router /analytics/attendance-by-date [get]
func (h *AnalyticsHandler) AttendanceByDate(c *gin.Context) {
	days, err := h.analytics.AttendanceByDate(c.Request.Context(), attendanceFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, days, nil)
}

// UpcomingEvents godoc
// @Summary Events in the coming days
// @Tags Analytics
// @Produce json
// @Param days query int false "Horizon in days"
// @Success 200 {object} response.Envelope
// @Router /analytics/upcoming-events [get]
func (h *AnalyticsHandler) UpcomingEvents(c *gin.Context) {
	days, err := queryInt(c, "days", -1)
	if err != nil {
		response.Error(c, err)
		return
	}
	events, err := h.analytics.UpcomingEvents(c.Request.Context(), days)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, nil)
}

// GPA godoc
// @Summary Grade point average of a student
// @Tags Analytics
// @Produce json
// @Param studentId query string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /analytics/gpa [get]
func (h *AnalyticsHandler) GPA(c *gin.Context) {
	gpa, err := h.analytics.GPA(c.Request.Context(), c.Query("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gpa, nil)
}

// AttendanceRate godoc
// @Summary Present share of attendance marks
// @Tags Analytics
// @Produce json
// @Param date query string false "Filter by date"
// @Param studentId query string false "Filter by student"
// @Success 200 {object} response.Envelope
// @Router /analytics/attendance-rate [get]
func (h *AnalyticsHandler) AttendanceRate(c *gin.Context) {
	rate, err := h.analytics.AttendanceRate(c.Request.Context(), attendanceFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rate, nil)
}

// AverageScore godoc
// @Summary Mean score of grades
// @Tags Analytics
// @Produce json
// @Param courseId query string false "Filter by course"
// @Param studentId query string false "Filter by student"
// @Success 200 {object} response.Envelope
// @Router /analytics/average-score [get]
func (h *AnalyticsHandler) AverageScore(c *gin.Context) {
	avg, err := h.analytics.AverageScore(c.Request.Context(), gradeFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, avg, nil)
}
