package server

import (
	"context"
	"log"
	"strings"
	"time"

	"anoa.com/freelancehub/internal/config"
	"anoa.com/freelancehub/internal/entity"
	"anoa.com/freelancehub/internal/middleware"
	"anoa.com/freelancehub/pkg/jwtauth"
	"anoa.com/freelancehub/pkg/mailer"
	"anoa.com/freelancehub/pkg/ratelimiter"
	"anoa.com/freelancehub/pkg/storage"
	"anoa.com/freelancehub/pkg/token"
	"anoa.com/freelancehub/pkg/validator"

	adminHttp "anoa.com/freelancehub/internal/modules/admin/delivery/http"
	adminService "anoa.com/freelancehub/internal/modules/admin/service"

	applicationHttp "anoa.com/freelancehub/internal/modules/application/delivery/http"
	applicationRepo "anoa.com/freelancehub/internal/modules/application/repository"
	applicationService "anoa.com/freelancehub/internal/modules/application/service"

	notiHttp "anoa.com/freelancehub/internal/modules/notification/delivery/http"
	notifRepo "anoa.com/freelancehub/internal/modules/notification/repository"
	notifService "anoa.com/freelancehub/internal/modules/notification/service"

	profileHttp "anoa.com/freelancehub/internal/modules/profile/delivery/http"
	profileService "anoa.com/freelancehub/internal/modules/profile/service"

	projectHttp "anoa.com/freelancehub/internal/modules/project/delivery/http"
	projectRepo "anoa.com/freelancehub/internal/modules/project/repository"
	projectService "anoa.com/freelancehub/internal/modules/project/service"

	ratingHttp "anoa.com/freelancehub/internal/modules/rating/delivery/http"
	ratingRepo "anoa.com/freelancehub/internal/modules/rating/repository"
	ratingService "anoa.com/freelancehub/internal/modules/rating/service"

	userHttp "anoa.com/freelancehub/internal/modules/user/delivery/http"
	userRepo "anoa.com/freelancehub/internal/modules/user/repository"
	userService "anoa.com/freelancehub/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Deps are the process-level resources the server is assembled from.
// Redis and Storage may be nil; realtime delivery, rate limiting and
// uploads are then unavailable.
type Deps struct {
	DB      *gorm.DB
	Redis   *redis.Client
	Mailer  mailer.Mailer
	Storage storage.FileStorage
	Tokens  *token.Issuer
}

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
	cron        *cron.Cron
}

func NewServer(cfg *config.Config, deps Deps) *Server {
	if err := validator.Register(); err != nil {
		log.Fatalf("failed to register validators: %v", err)
	}

	tokens := deps.Tokens
	if tokens == nil {
		tokens = token.NewIssuer()
	}
	signer := jwtauth.NewSigner(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	origins := splitOrigins(cfg.AllowedOrigins)

	userRepository := userRepo.NewUserRepository(deps.DB)
	projectRepository := projectRepo.NewProjectRepository(deps.DB)
	applicationRepository := applicationRepo.NewApplicationRepository(deps.DB)
	ratingRepository := ratingRepo.NewRatingRepository(deps.DB)

	// Notification Module
	notificationRepository := notifRepo.NewNotificationRepository(deps.DB)
	notificationSvc := notifService.NewNotificationService(notificationRepository, deps.Redis)
	notificationHandler := notiHttp.NewNotificationHandler(notificationSvc, deps.Redis, origins)

	authSvc := userService.NewAuthService(userRepository, deps.Storage, deps.Mailer, tokens, signer, userService.Settings{
		VerificationTTL: cfg.VerificationTokenTTL,
		ResetTTL:        cfg.ResetTokenTTL,
		PublicBaseURL:   cfg.PublicBaseURL,
		FrontendURL:     cfg.FrontendURL,
		UploadFolder:    cfg.CloudinaryUploadFolder,
	})
	authHandler := userHttp.NewAuthHandler(authSvc, cfg.FrontendURL)

	profileSvc := profileService.NewProfileService(userRepository, ratingRepository, deps.Storage, cfg.CloudinaryUploadFolder)
	profileHandler := profileHttp.NewProfileHandler(profileSvc)

	projectSvc := projectService.NewService(projectRepository, applicationRepository, userRepository, ratingRepository, notificationSvc)
	projectHandler := projectHttp.NewProjectHandler(projectSvc)

	applicationSvc := applicationService.NewService(applicationRepository, projectRepository, userRepository, notificationSvc, deps.Mailer)
	applicationHandler := applicationHttp.NewApplicationHandler(applicationSvc)

	ratingSvc := ratingService.NewService(ratingRepository, userRepository, applicationRepository, notificationSvc)
	ratingHandler := ratingHttp.NewRatingHandler(ratingSvc)

	adminSvc := adminService.NewAdminService(userRepository, projectRepository)
	adminHandler := adminHttp.NewAdminHandler(adminSvc)

	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@hourly", func() {
		purgeExpiredResetTokens(authSvc)
	}); err != nil {
		log.Fatalf("failed to schedule reset token purge: %v", err)
	}

	router := gin.New()

	setupCORS(router, origins)

	router.Use(gin.Recovery())
	if cfg.IsDevelopment() {
		router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
			SkipPaths: []string{"/api/notifications/ws"},
		}))
	}

	authMiddleware := middleware.NewAuthMiddleware(userRepository, signer)
	authLimiter := ratelimiter.New(deps.Redis, cfg.RateLimitAuth, cfg.RateLimitAuthWindow)

	api := router.Group("/api")

	// Public routes (no auth required)
	users := api.Group("/users")
	{
		users.POST("/register", middleware.RateLimit(authLimiter, "register"), authHandler.Register)
		users.GET("/verify/:token", middleware.RateLimit(authLimiter, "verify"), authHandler.Verify)
		users.POST("/resend-verification", middleware.RateLimit(authLimiter, "resend"), authHandler.ResendVerification)
	}

	password := api.Group("/password")
	password.Use(middleware.RateLimit(authLimiter, "password"))
	{
		password.POST("/reset-request", authHandler.RequestPasswordReset)
		password.GET("/reset/:token", authHandler.CheckResetToken)
		password.POST("/reset/:token", authHandler.ResetPassword)
	}

	auth := api.Group("/token")
	auth.Use(middleware.RateLimit(authLimiter, "login"))
	{
		auth.POST("", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
	}

	// Protected routes (apply auth middleware explicitly)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		adminGroup := protected.Group("/admin")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.GET("/statistics", adminHandler.Statistics)
			adminGroup.GET("/users", adminHandler.GetAllUsers)
			adminGroup.DELETE("/users/:id", adminHandler.DeleteUser)
			adminGroup.PATCH("/users/:id/role", adminHandler.ChangeRole)
		}

		// Profile routes
		protected.GET("/users/me", profileHandler.GetCurrentProfile)
		protected.PUT("/users/me", profileHandler.UpdateProfile)
		protected.GET("/users/:id/projects", projectHandler.GetUserProjects)
		protected.GET("/freelancers/:id", profileHandler.GetFreelancer)

		// Project routes
		protected.GET("/projects", projectHandler.ListOpenProjects)
		protected.POST("/projects", authMiddleware.RequireRole(entity.RoleClient), projectHandler.CreateProject)
		protected.GET("/projects/:id", projectHandler.GetProject)
		protected.PUT("/projects/:id", projectHandler.UpdateProject)
		protected.DELETE("/projects/:id", projectHandler.DeleteProject)
		protected.DELETE("/projects/:id/cancel", projectHandler.CancelProject)
		protected.DELETE("/projects/:id/force", projectHandler.ForceDeleteProject)
		protected.GET("/projects/:id/accepted-freelancer", projectHandler.GetAcceptedFreelancer)
		protected.GET("/client/projects", projectHandler.GetClientProjects)

		// Application routes
		protected.POST("/projects/:id/applications", applicationHandler.Submit)
		protected.PATCH("/applications/:id/accept", applicationHandler.Accept)
		protected.PATCH("/applications/:id/refuse", applicationHandler.Refuse)

		// Rating routes
		protected.POST("/freelancers/:id/ratings", ratingHandler.Rate)
		protected.GET("/freelancers/:id/ratings", ratingHandler.Get)

		// Notification routes
		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.DELETE("/notifications/:id", notificationHandler.Delete)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)
	}

	return &Server{
		engine:      router,
		db:          deps.DB,
		redisClient: deps.Redis,
		cron:        scheduler,
	}
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() *gin.Engine {
	return s.engine
}

// Run starts background jobs and blocks serving HTTP on addr.
func (s *Server) Run(addr string) error {
	s.cron.Start()
	defer s.cron.Stop()
	return s.engine.Run(addr)
}

func purgeExpiredResetTokens(svc userService.AuthService) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := svc.PurgeExpiredResetTokens(ctx)
	if err != nil {
		log.Printf("Error purging expired reset tokens: %v", err)
		return
	}
	if n > 0 {
		log.Printf("Purged %d expired reset tokens", n)
	}
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return origins
}

func setupCORS(router *gin.Engine, origins []string) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
