package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-client/internal/booking"
	"github.com/BruksfildServices01/barber-client/internal/handlers"
	"github.com/BruksfildServices01/barber-client/internal/history"
	"github.com/BruksfildServices01/barber-client/internal/middleware"
	"github.com/BruksfildServices01/barber-client/internal/session"
)

type Deps struct {
	Sessions   *session.Manager
	Workflow   *booking.Workflow
	Aggregator *history.Aggregator
	// DB backs the activity log; nil leaves the route out.
	DB *gorm.DB
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler := handlers.NewAuthHandler(d.Sessions)
	meHandler := handlers.NewMeHandler(d.Sessions)
	bookingHandler := handlers.NewBookingHandler(d.Workflow)
	appointmentHandler := handlers.NewAppointmentHandler(d.Aggregator)

	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)
		api.GET("/me", meHandler.GetMe)

		// ------------------------------
		// SIGNED IN
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.RequireSession(d.Sessions))
		{
			secured.GET("/booking", bookingHandler.Get)
			secured.POST("/booking/load", bookingHandler.Load)
			secured.PUT("/booking/:field", bookingHandler.Select)
			secured.POST("/booking/submit", bookingHandler.Submit)
			secured.DELETE("/booking", bookingHandler.Discard)

			secured.GET("/appointments/history", appointmentHandler.History)
			secured.GET("/appointments/next", appointmentHandler.Next)
			secured.GET("/payments", appointmentHandler.Payments)

			if d.DB != nil {
				auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)
				secured.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
