package httpserver

import (
	"github.com/acmshq/acms/internal/core/domain/user"
)

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	api := s.echo.Group("/api/v1")

	auth := api.Group("/auth", s.middleware.RateLimit.Auth())
	auth.POST("/signup", s.signup)
	auth.POST("/login", s.login)

	protected := api.Group("")
	protected.Use(s.middleware.JWT.RequireJWT())
	protected.Use(s.middleware.RateLimit.PerUser())

	protected.GET("/auth/me", s.getOwnProfile)

	users := protected.Group("/users", s.middleware.RBAC.RequireRoles(user.RoleAdmin))
	users.GET("", s.listUsers)
	users.POST("", s.createUser)
	users.GET("/:id", s.getUser)
	users.PUT("/:id", s.updateUser)
	users.DELETE("/:id", s.deleteUser)
	users.PUT("/:id/counsellor/:counsellor_id", s.assignCounsellor)

	students := protected.Group("/students")
	students.GET("/me/profile", s.getOwnStudentProfile, s.middleware.RBAC.RequireRoles(user.RoleStudent))
	students.GET("/me/attendance", s.getOwnAttendance, s.middleware.RBAC.RequireRoles(user.RoleStudent))
	students.GET("/me/marks", s.getOwnMarks, s.middleware.RBAC.RequireRoles(user.RoleStudent))
	students.GET("/me/marks/summary", s.getOwnMarksSummary, s.middleware.RBAC.RequireRoles(user.RoleStudent))
	students.GET("/assigned", s.listAssignedStudents, s.middleware.RBAC.RequireRoles(user.RoleCounsellor))
	students.GET("/:id/profile", s.getStudentProfile, s.middleware.RBAC.RequireRoles(user.RoleCounsellor, user.RoleAdmin))
	students.PUT("/:id/attendance", s.updateAttendance, s.middleware.RBAC.RequireRoles(user.RoleAdmin))
	students.PUT("/:id/marks", s.updateMarks, s.middleware.RBAC.RequireRoles(user.RoleAdmin))

	onduty := protected.Group("/onduty")
	onduty.POST("", s.fileOnDutyRequest, s.middleware.RBAC.RequireRoles(user.RoleStudent))
	onduty.GET("", s.listOnDutyRequests)
	onduty.GET("/:id", s.getOnDutyRequest)
	onduty.PUT("/:id", s.editOnDutyRequest, s.middleware.RBAC.RequireRoles(user.RoleStudent))
	onduty.PUT("/:id/approve", s.approveOnDutyRequest, s.middleware.RBAC.RequireRoles(user.RoleCounsellor))
	onduty.PUT("/:id/reject", s.rejectOnDutyRequest, s.middleware.RBAC.RequireRoles(user.RoleCounsellor))

	announcements := protected.Group("/announcements")
	announcements.GET("", s.listAnnouncements)
	announcements.POST("", s.createAnnouncement, s.middleware.RBAC.RequireRoles(user.RoleAdmin))
	announcements.PUT("/:id", s.updateAnnouncement, s.middleware.RBAC.RequireRoles(user.RoleAdmin))
	announcements.DELETE("/:id", s.deleteAnnouncement, s.middleware.RBAC.RequireRoles(user.RoleAdmin))

	protected.GET("/dashboard", s.getDashboard)

	admin := protected.Group("/admin", s.middleware.RBAC.RequireRoles(user.RoleAdmin))
	admin.GET("/audit/logs", s.getAuditLogs)
	admin.DELETE("/ratelimits/:scope/:subject", s.resetRateLimit)
}
