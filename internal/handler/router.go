package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/campushq/institute-portal-api/internal/middleware"
	"github.com/campushq/institute-portal-api/internal/models"
	"github.com/campushq/institute-portal-api/internal/service"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth       *AuthHandler
	Institutes *InstituteHandler
	Timetables *TimetableHandler
	Bookings   *BookingHandler
	Workload   *WorkloadHandler
	Exports    *ExportHandler
	Metrics    *MetricsHandler
}

// Register mounts all routes under the API prefix. Authentication is required
// for everything except institute registration, logins, metrics and signed
// export downloads.
func Register(r *gin.Engine, prefix string, auth *service.AuthService, metricsSvc *service.MetricsService, h Handlers) {
	r.Use(middleware.Metrics(metricsSvc))
	r.GET("/metrics", h.Metrics.Scrape)

	api := r.Group(prefix)

	api.POST("/auth/institute/login", h.Auth.InstituteLogin)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/institutes", h.Institutes.Register)
	api.GET("/exports/download", h.Exports.Download)

	protected := api.Group("")
	protected.Use(middleware.JWT(auth))

	protected.GET("/institutes", h.Institutes.List)

	inst := protected.Group("/institutes/:code")
	inst.Use(middleware.SameInstitute())

	inst.GET("", h.Institutes.Get)
	inst.DELETE("", middleware.RequireRoles(models.RoleAdmin), h.Institutes.Delete)

	inst.GET("/departments", h.Institutes.GetDepartments)
	inst.GET("/teachers", h.Institutes.GetTeachers)
	inst.GET("/infrastructure", h.Institutes.GetInfrastructure)

	admin := inst.Group("")
	admin.Use(middleware.RequireRoles(models.RoleAdmin))

	admin.POST("/departments", h.Institutes.AddDepartment)
	admin.PUT("/departments/:id", h.Institutes.UpdateDepartment)
	admin.DELETE("/departments/:id", h.Institutes.DeleteDepartment)

	admin.POST("/teachers", h.Institutes.AddTeacher)
	admin.PUT("/teachers/:id", h.Institutes.UpdateTeacher)
	admin.DELETE("/teachers/:id", h.Institutes.DeleteTeacher)

	admin.POST("/buildings", h.Institutes.AddBuilding)
	admin.DELETE("/buildings/:id", h.Institutes.DeleteBuilding)
	admin.POST("/rooms", h.Institutes.AddRoom)
	admin.DELETE("/rooms/:id", h.Institutes.DeleteRoom)

	inst.GET("/master-timetable", h.Timetables.GetMaster)
	admin.PUT("/master-timetable/periods", h.Timetables.UpdatePeriods)

	inst.GET("/timetables", h.Timetables.List)
	admin.POST("/timetables", h.Timetables.Create)
	inst.GET("/timetables/:year/:department/:division", h.Timetables.Get)
	admin.DELETE("/timetables/:year/:department/:division", h.Timetables.Delete)
	admin.PUT("/timetables/:year/:department/:division/slots/:day/:period", h.Timetables.SetSlot)
	admin.DELETE("/timetables/:year/:department/:division/slots/:day/:period", h.Timetables.ClearSlot)

	inst.GET("/conflicts", h.Timetables.Conflicts)

	inst.GET("/teachers/:id/workload", h.Workload.ForTeacher)
	inst.GET("/teachers/:id/workload/daily", h.Workload.DailyBreakdown)
	inst.GET("/workload-report", h.Workload.Report)

	inst.GET("/bookings", h.Bookings.List)
	inst.POST("/bookings", middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher), h.Bookings.Create)
	inst.DELETE("/bookings/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher), h.Bookings.Cancel)
	inst.GET("/rooms/available", h.Bookings.AvailableRooms)

	inst.GET("/export", h.Exports.Render)
	admin.POST("/exports", h.Exports.Enqueue)
	inst.GET("/exports/:id", h.Exports.GetJob)
	admin.POST("/imports/timetables", h.Exports.ImportTimetables)
}
