package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/pgs-software-club/club-service/internal/auth"
	"github.com/pgs-software-club/club-service/internal/github"
	"github.com/pgs-software-club/club-service/internal/services"
	"github.com/pgs-software-club/club-service/internal/utils"
)

type HandlerManager struct {
	authHandler         *AuthHandler
	studentHandler      *StudentHandler
	registrationHandler *RegistrationHandler
	attendanceHandler   *AttendanceHandler
	reportHandler       *ReportHandler
	publicHandler       *PublicHandler
	authMiddleware      *AdminAuthMiddleware

	serviceManager services.ServiceManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	tokens *auth.TokenService,
	githubClient *github.Client,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		authHandler:         NewAuthHandler(tokens, logger),
		studentHandler:      NewStudentHandler(serviceManager.Student(), logger),
		registrationHandler: NewRegistrationHandler(serviceManager.Registration(), logger),
		attendanceHandler:   NewAttendanceHandler(serviceManager.Attendance(), logger),
		reportHandler:       NewReportHandler(serviceManager.Report(), logger),
		publicHandler:       NewPublicHandler(githubClient, logger),
		authMiddleware:      NewAdminAuthMiddleware(tokens),
		serviceManager:      serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		// Public surface: login, self-registration, marketing data
		v1.POST("/auth/login", hm.authHandler.Login)
		v1.POST("/auth/logout", hm.authHandler.Logout)
		v1.POST("/register", hm.registrationHandler.Register)

		public := v1.Group("/public")
		{
			public.GET("/projects", hm.publicHandler.Projects)
			public.GET("/members", hm.publicHandler.Members)
		}

		// Admin surface behind the session token
		admin := v1.Group("")
		admin.Use(hm.authMiddleware.AuthMiddleware())
		{
			students := admin.Group("/students")
			{
				students.GET("", hm.studentHandler.ListStudents)
				students.POST("", hm.studentHandler.CreateStudent)
				students.GET("/next-id", hm.studentHandler.NextStudentID)
				students.POST("/verify", hm.registrationHandler.Verify)
				students.PUT("/:id", hm.studentHandler.UpdateStudent)
				students.DELETE("/:id", hm.studentHandler.DeleteStudent)
			}

			attendance := admin.Group("/attendance")
			{
				attendance.GET("", hm.attendanceHandler.ListAttendance)
				attendance.POST("", hm.attendanceHandler.RecordAttendance)
				attendance.POST("/bulk", hm.attendanceHandler.RecordBulkAttendance)
			}

			reports := admin.Group("/reports")
			{
				reports.GET("/summary", hm.reportHandler.Summary)
				reports.GET("/export", hm.reportHandler.Export)
			}

			admin.GET("/dashboard/stats", hm.reportHandler.DashboardStats)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		status := "healthy"
		code := 200
		if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
			status = "degraded"
			code = 503
		}
		c.JSON(code, gin.H{
			"status":  status,
			"service": "club-service",
		})
	})
}
