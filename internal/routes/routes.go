package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-app-server/internal/config"
	"clinic-app-server/internal/handlers"
	"clinic-app-server/internal/middleware"
	"clinic-app-server/internal/models"
	"clinic-app-server/internal/repository"
	"clinic-app-server/internal/services"
)

// Dependencies carries everything the route handlers need.
type Dependencies struct {
	DB            *gorm.DB
	Cfg           *config.Config
	Appointments  *services.AppointmentService
	Doctors       *services.DoctorService
	Availability  *services.AvailabilityService
	Dashboard     *services.DashboardService
	Notifications *repository.NotificationRepository
}

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, deps Dependencies) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(deps.DB, deps.Cfg)
	appointmentHandler := handlers.NewAppointmentHandler(deps.Appointments)
	doctorHandler := handlers.NewDoctorHandler(deps.Doctors, deps.Availability)
	dashboardHandler := handlers.NewDashboardHandler(deps.Dashboard)
	notificationHandler := handlers.NewNotificationHandler(deps.Notifications)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}

		// The doctor directory and schedules are browsable without a login so
		// prospective patients can find a bookable slot.
		publicDoctors := public.Group("/doctors")
		{
			publicDoctors.GET("", doctorHandler.List)
			publicDoctors.GET("/:id", doctorHandler.Get)
			publicDoctors.GET("/:id/availability", doctorHandler.GetAvailability)
			publicDoctors.GET("/:id/leaves", doctorHandler.GetLeaves)
			publicDoctors.GET("/:id/available-slots", doctorHandler.AvailableSlots)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(deps.Cfg))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/profile", authHandler.UpdateProfile)
		}

		// Doctor registry and schedule writes are restricted
		doctorRoutes := private.Group("/doctors")
		{
			doctorRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleAdmin), doctorHandler.Register)
			doctorRoutes.POST("/:id/availability", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin), doctorHandler.SetAvailability)
			doctorRoutes.POST("/:id/leaves", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin), doctorHandler.AddLeave)
		}

		// Appointment lifecycle
		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.POST("", middleware.RoleAuthMiddleware(models.RolePatient), appointmentHandler.Book)
			// Role-dependent scope and per-appointment authorization live in the handlers
			appointmentRoutes.GET("", appointmentHandler.List)
			appointmentRoutes.GET("/:id", appointmentHandler.Get)
			appointmentRoutes.PATCH("/:id/cancel", appointmentHandler.Cancel)
			appointmentRoutes.PATCH("/:id/reschedule", appointmentHandler.Reschedule)
		}

		// Notification history
		notificationRoutes := private.Group("/notifications")
		{
			notificationRoutes.GET("", notificationHandler.List)
			notificationRoutes.GET("/unread-count", notificationHandler.UnreadCount)
		}

		// Role-specific summary
		private.GET("/dashboard", dashboardHandler.Get)
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
