package api

import (
	"log"
	stdhttp "net/http"

	intconfig "github.com/designarthur/catdump/internal/config"
	"github.com/designarthur/catdump/internal/domain/models"
	h "github.com/designarthur/catdump/internal/http/handlers"
	"github.com/designarthur/catdump/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func NewRouter(env intconfig.Env, rdb *redis.Client) *gin.Engine {
	h.Init(env)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"success": false,
			"message": "route not found",
			"path":    c.Request.URL.Path,
			"method":  c.Request.Method,
		})
	})

	limiter := middleware.RateLimit(intconfig.LoadRateLimitConfig(), rdb)
	auth := middleware.Auth(h.JWTSecret())

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		// Auth & CSRF
		authGroup := api.Group("/auth")
		authGroup.POST("/login", h.Login)
		authGroup.POST("/register", h.Register)
		authGroup.GET("/csrf", h.CSRFToken)

		// Public intake (anonymous, CSRF double-submit + rate limited)
		public := api.Group("/public")
		public.POST("/quotes", limiter, middleware.CSRF(), h.SubmitQuote)

		// Driver endpoints: booking-token authenticated, no session, no CSRF
		driver := api.Group("/driver")
		driver.Use(limiter)
		driver.POST("/bookings/:id/status", h.DriverUpdateStatus)
		driver.POST("/bookings/:id/location", h.DriverShareLocation)

		// Customer dashboard
		quotes := api.Group("/quotes")
		quotes.Use(auth, middleware.RequireRoles(string(models.RoleCustomer), string(models.RoleAdmin)))
		quotes.GET("", h.ListMyQuotes)
		quotes.GET("/:id", h.GetMyQuote)

		// Admin back-office
		admin := api.Group("/admin")
		admin.Use(auth, middleware.RequireRoles(string(models.RoleAdmin)), middleware.CSRF())
		{
			admin.GET("/quotes", h.AdminListQuotes)
			admin.GET("/quotes/:id", h.AdminGetQuote)
			admin.GET("/quotes/:id/summary-pdf", h.GetQuoteSummaryPDF)
			admin.POST("/quotes/:id/convert", h.ConvertQuote)

			admin.GET("/bookings", h.AdminListBookings)
			admin.GET("/bookings/:id", h.AdminGetBooking)
			admin.GET("/bookings/:id/work-order", h.GetBookingWorkOrder)
			admin.POST("/bookings/:id/assign", h.AssignBooking)
			admin.PUT("/bookings/:id/status", h.AdminSetBookingStatus)

			admin.GET("/notifications", h.ListNotifications)
			admin.GET("/notifications/unread-count", h.UnreadNotificationCount)
			admin.PUT("/notifications/:id/read", h.MarkNotificationRead)
			admin.DELETE("/notifications/:id", h.DeleteNotification)
		}
	}

	return r
}
