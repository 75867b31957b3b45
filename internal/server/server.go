package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/colonyconnect/colony-api/internal/config"
	"github.com/colonyconnect/colony-api/internal/handlers"
	"github.com/colonyconnect/colony-api/internal/logger"
	"github.com/colonyconnect/colony-api/internal/middleware"
	"github.com/colonyconnect/colony-api/internal/storage/objectstore"
	"github.com/colonyconnect/colony-api/internal/storage/postgres"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	config     *config.Config
	db         *gorm.DB
}

// New creates a new server instance
func New(cfg *config.Config, db *gorm.DB) *Server {
	return &Server{
		config: cfg,
		db:     db,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	router, err := s.setupRouter()
	if err != nil {
		return err
	}

	s.httpServer = &http.Server{
		Addr:    ":" + s.config.Server.Port,
		Handler: router,

		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Get().Info("Starting HTTP server", "port", s.config.Server.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	logger.Get().Info("Shutting down HTTP server...")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

// setupRouter configures the HTTP router with middleware and routes
func (s *Server) setupRouter() (*gin.Engine, error) {
	gin.SetMode(s.config.Server.GinMode)

	router := gin.New()

	router.Use(middleware.RequestLogger())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if s.config.CORS.AllowOrigins == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = strings.Split(s.config.CORS.AllowOrigins, ",")
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowMethods = strings.Split(s.config.CORS.AllowMethods, ",")
	corsConfig.AllowHeaders = strings.Split(s.config.CORS.AllowHeaders, ",")
	router.Use(cors.New(corsConfig))

	repos := postgres.NewContainerWithDB(s.db)

	userHandler := handlers.NewUserHandler(repos.Users(), repos.Complaints(), repos.Polls(), s.config)
	pollHandler := handlers.NewPollHandler(repos.Polls())
	alertHandler := handlers.NewAlertHandler(repos.Alerts())
	announcementHandler := handlers.NewAnnouncementHandler(repos.Announcements())
	eventHandler := handlers.NewEventHandler(repos.Events())
	complaintHandler := handlers.NewComplaintHandler(repos.Complaints())

	var uploadHandler *handlers.UploadHandler
	if s.config.UploadEnabled() {
		store, err := objectstore.New(s.config)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize object storage: %w", err)
		}
		uploadHandler = handlers.NewUploadHandler(store, s.config)
	} else {
		logger.Get().Warn("Object storage not configured, upload endpoint disabled")
	}

	router.GET("/health", func(c *gin.Context) {
		if err := postgres.HealthCheck(s.db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Colony API is running",
			"status":  "healthy",
		})
	})

	s.setupAPIRoutes(router, repos, userHandler, pollHandler, alertHandler, announcementHandler, eventHandler, complaintHandler, uploadHandler)

	return router, nil
}

// setupAPIRoutes configures all API routes
func (s *Server) setupAPIRoutes(
	router *gin.Engine,
	repos *postgres.Container,
	userHandler *handlers.UserHandler,
	pollHandler *handlers.PollHandler,
	alertHandler *handlers.AlertHandler,
	announcementHandler *handlers.AnnouncementHandler,
	eventHandler *handlers.EventHandler,
	complaintHandler *handlers.ComplaintHandler,
	uploadHandler *handlers.UploadHandler,
) {
	requireAuth := middleware.RequireAuth(repos.Users(), s.config.JWT.Secret)
	requireAdmin := middleware.RequireAdmin()

	api := router.Group("/api")
	{
		// Public routes
		users := api.Group("/users")
		{
			users.POST("/register", userHandler.Register)
			users.POST("/login", userHandler.Login)
			users.GET("/profile", requireAuth, userHandler.Profile)
		}

		// Complaint submission predates authentication in the mobile app
		// and stays open.
		complaints := api.Group("/complaints")
		{
			complaints.POST("/add", complaintHandler.CreateComplaint)
			complaints.GET("/getAll", complaintHandler.GetAllComplaints)
		}

		polls := api.Group("/polls", requireAuth)
		{
			polls.GET("/active", pollHandler.GetActivePolls)
			polls.GET("/completed", pollHandler.GetCompletedPolls)
			polls.GET("/:poll_id", pollHandler.GetPoll)
			polls.POST("/:poll_id/vote", pollHandler.Vote)
		}

		alerts := api.Group("/alerts", requireAuth)
		{
			alerts.GET("", alertHandler.GetActiveAlerts)
			alerts.GET("/:alert_id", alertHandler.GetAlert)
		}

		announcements := api.Group("/announcements", requireAuth)
		{
			announcements.GET("", announcementHandler.GetAnnouncements)
			announcements.GET("/recent", announcementHandler.GetRecentAnnouncements)
			announcements.GET("/:announcement_id", announcementHandler.GetAnnouncement)
		}

		events := api.Group("/events", requireAuth)
		{
			events.GET("", eventHandler.GetEvents)
			events.GET("/:event_id", eventHandler.GetEvent)
			events.POST("/:event_id/register", eventHandler.RegisterForEvent)
		}

		if uploadHandler != nil {
			api.POST("/uploads", requireAuth, uploadHandler.UploadImage)
		}

		// Admin routes
		admin := api.Group("/admin", requireAuth, requireAdmin)
		{
			admin.GET("/dashboard", userHandler.Dashboard)

			admin.GET("/users", userHandler.ListUsers)
			admin.POST("/users", userHandler.CreateUser)
			admin.PUT("/users/:user_id", userHandler.UpdateUser)
			admin.DELETE("/users/:user_id", userHandler.DeleteUser)

			admin.GET("/polls", pollHandler.GetAllPolls)
			admin.POST("/polls", pollHandler.CreatePoll)
			admin.PUT("/polls/:poll_id/status", pollHandler.UpdatePollStatus)
			admin.DELETE("/polls/:poll_id", pollHandler.DeletePoll)

			admin.GET("/alerts", alertHandler.GetAllAlerts)
			admin.POST("/alerts", alertHandler.CreateAlert)
			admin.GET("/alerts/:alert_id", alertHandler.GetAlert)
			admin.PUT("/alerts/:alert_id", alertHandler.UpdateAlert)
			admin.DELETE("/alerts/:alert_id", alertHandler.DeleteAlert)

			admin.GET("/announcements", announcementHandler.GetAllAnnouncements)
			admin.POST("/announcements", announcementHandler.CreateAnnouncement)
			admin.PUT("/announcements/:announcement_id", announcementHandler.UpdateAnnouncement)
			admin.PATCH("/announcements/:announcement_id/status", announcementHandler.UpdateAnnouncementStatus)
			admin.DELETE("/announcements/:announcement_id", announcementHandler.DeleteAnnouncement)

			admin.GET("/events", eventHandler.GetAllEvents)
			admin.POST("/events", eventHandler.CreateEvent)
			admin.GET("/events/:event_id", eventHandler.GetEvent)
			admin.PUT("/events/:event_id", eventHandler.UpdateEvent)
			admin.PATCH("/events/:event_id/toggle-active", eventHandler.ToggleEventActive)
			admin.DELETE("/events/:event_id", eventHandler.DeleteEvent)

			admin.GET("/complaints", complaintHandler.ListComplaints)
			admin.GET("/complaints/stats/overview", complaintHandler.ComplaintStats)
			admin.GET("/complaints/:complaint_id", complaintHandler.GetComplaint)
			admin.PUT("/complaints/:complaint_id", complaintHandler.UpdateComplaint)
			admin.PATCH("/complaints/:complaint_id/status", complaintHandler.UpdateComplaintStatus)
			admin.DELETE("/complaints/:complaint_id", complaintHandler.DeleteComplaint)
		}
	}
}
