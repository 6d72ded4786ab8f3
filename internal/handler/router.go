package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers groups every endpoint handler mounted by RegisterRoutes.
type Handlers struct {
	Students   *StudentHandler
	Courses    *CourseHandler
	Attendance *AttendanceHandler
	Grades     *GradeHandler
	Events     *EventHandler
	Activities *ActivityHandler
	Analytics  *AnalyticsHandler
	Reports    *ReportHandler
	Transfer   *TransferHandler
}

// RegisterRoutes mounts the records API on r.
func RegisterRoutes(r gin.IRouter, h Handlers) {
	students := r.Group("/students")
	students.GET("", h.Students.List)
	students.POST("", h.Students.Create)
	students.GET("/:id", h.Students.Get)
	students.PATCH("/:id", h.Students.Update)
	students.DELETE("/:id", h.Students.Delete)
	students.GET("/:id/summary", h.Students.Summary)

	courses := r.Group("/courses")
	courses.GET("", h.Courses.List)
	courses.POST("", h.Courses.Create)
	courses.GET("/:id", h.Courses.Get)
	courses.PATCH("/:id", h.Courses.Update)
	courses.DELETE("/:id", h.Courses.Delete)

	attendance := r.Group("/attendance")
	attendance.GET("", h.Attendance.List)
	attendance.POST("", h.Attendance.Mark)
	attendance.GET("/:id", h.Attendance.Get)
	attendance.PATCH("/:id", h.Attendance.Update)
	attendance.DELETE("/:id", h.Attendance.Delete)

	grades := r.Group("/grades")
	grades.GET("", h.Grades.List)
	grades.POST("", h.Grades.Create)
	grades.GET("/:id", h.Grades.Get)
	grades.PATCH("/:id", h.Grades.Update)
	grades.DELETE("/:id", h.Grades.Delete)

	events := r.Group("/events")
	events.GET("", h.Events.List)
	events.POST("", h.Events.Create)
	events.GET("/:id", h.Events.Get)
	events.PATCH("/:id", h.Events.Update)
	events.DELETE("/:id", h.Events.Delete)

	activities := r.Group("/activities")
	activities.GET("", h.Activities.List)
	activities.GET("/:id", h.Activities.Get)
	activities.DELETE("/:id", h.Activities.Delete)

	analytics := r.Group("/analytics")
	analytics.GET("/dashboard", h.Analytics.Dashboard)
	analytics.GET("/letter-grade", h.Analytics.LetterGrade)
	analytics.GET("/grade-distribution", h.Analytics.GradeDistribution)
	analytics.GET("/top-students", h.Analytics.TopStudents)
	analytics.GET("/classes", h.Analytics.Classes)
	analytics.GET("/attendance-by-date", h.Analytics.AttendanceByDate)
	analytics.GET("/upcoming-events", h.Analytics.UpcomingEvents)
	analytics.GET("/gpa", h.Analytics.GPA)
	analytics.GET("/attendance-rate", h.Analytics.AttendanceRate)
	analytics.GET("/average-score", h.Analytics.AverageScore)

	reports := r.Group("/reports")
	reports.GET("/:kind", h.Reports.Generate)
	reports.GET("/:kind/export", h.Reports.Export)

	data := r.Group("/data")
	data.GET("/export", h.Transfer.Export)
	data.POST("/import", h.Transfer.Import)
}
