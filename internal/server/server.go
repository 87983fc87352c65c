package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"slotskolan.se/forum/internal/config"
	"slotskolan.se/forum/internal/middleware"
	"slotskolan.se/forum/pkg/database"
	"slotskolan.se/forum/pkg/ratelimiter"
	"slotskolan.se/forum/pkg/token"

	categoryHttp "slotskolan.se/forum/internal/modules/category/delivery/http"
	categoryRepo "slotskolan.se/forum/internal/modules/category/repository"
	categoryService "slotskolan.se/forum/internal/modules/category/service"

	likeHttp "slotskolan.se/forum/internal/modules/like/delivery/http"
	likeRepo "slotskolan.se/forum/internal/modules/like/repository"
	likeService "slotskolan.se/forum/internal/modules/like/service"

	notiHttp "slotskolan.se/forum/internal/modules/notification/delivery/http"
	notifRepo "slotskolan.se/forum/internal/modules/notification/repository"
	notifService "slotskolan.se/forum/internal/modules/notification/service"

	postHttp "slotskolan.se/forum/internal/modules/post/delivery/http"
	postRepo "slotskolan.se/forum/internal/modules/post/repository"
	postService "slotskolan.se/forum/internal/modules/post/service"

	reportHttp "slotskolan.se/forum/internal/modules/report/delivery/http"
	reportRepo "slotskolan.se/forum/internal/modules/report/repository"
	reportService "slotskolan.se/forum/internal/modules/report/service"

	reputationHttp "slotskolan.se/forum/internal/modules/reputation/delivery/http"
	reputationRepo "slotskolan.se/forum/internal/modules/reputation/repository"
	reputationService "slotskolan.se/forum/internal/modules/reputation/service"

	searchHttp "slotskolan.se/forum/internal/modules/search/delivery/http"
	searchService "slotskolan.se/forum/internal/modules/search/service"

	statHttp "slotskolan.se/forum/internal/modules/stat/delivery/http"
	statService "slotskolan.se/forum/internal/modules/stat/service"

	threadHttp "slotskolan.se/forum/internal/modules/thread/delivery/http"
	threadRepo "slotskolan.se/forum/internal/modules/thread/repository"
	threadService "slotskolan.se/forum/internal/modules/thread/service"

	userHttp "slotskolan.se/forum/internal/modules/user/delivery/http"
	userRepo "slotskolan.se/forum/internal/modules/user/repository"
	userService "slotskolan.se/forum/internal/modules/user/service"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

// NewServer wires every module. redisClient and meili may be nil; rate limiting,
// live notifications and search are then disabled.
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, meili meilisearch.ServiceManager) *Server {
	tx := database.NewTransactor(db)
	tokens := token.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	limits := ratelimiter.Limits{
		Global: cfg.RateLimitGlobal,
		Thread: cfg.RateLimitThread,
		Post:   cfg.RateLimitPost,
	}

	var searchSvc searchService.SearchService
	if meili != nil {
		searchSvc = searchService.NewMeiliSearchService(meili)
	}
	searchHandler := searchHttp.NewSearchHandler(searchSvc)

	reputationSvc := reputationService.NewReputationService(reputationRepo.NewReputationRepository(db))
	leaderboardHandler := reputationHttp.NewLeaderboardHandler(reputationSvc)

	userRepo := userRepo.NewUserRepository(db)
	userSvc := userService.NewUserService(userRepo, tokens, reputationSvc)
	userHandler := userHttp.NewUserHandler(userSvc)

	categorySvc := categoryService.NewCategoryService(categoryRepo.NewCategoryRepository(db))
	categoryHandler := categoryHttp.NewCategoryHandler(categorySvc)

	// Notification Module
	notificationSvc := notifService.NewNotificationService(notifRepo.NewNotificationRepository(db), redisClient)
	notificationHandler := notiHttp.NewNotificationHandler(notificationSvc, redisClient, cfg.AllowedOrigins)

	threadRepo := threadRepo.NewRepository(db)
	postRepo := postRepo.NewPostRepository(db)
	likeRepo := likeRepo.NewLikeRepository(db)

	postSvc := postService.NewPostService(tx, postRepo, threadRepo, likeRepo, reputationSvc, notificationSvc, searchSvc, redisClient, limits)
	postHandler := postHttp.NewPostHandler(postSvc)

	threadSvc := threadService.NewService(tx, threadRepo, postRepo, categorySvc, postSvc, reputationSvc, notificationSvc, searchSvc, redisClient, limits)
	threadHandler := threadHttp.NewThreadHandler(threadSvc)

	likeHandler := likeHttp.NewLikeHandler(likeService.NewLikeService(tx, likeRepo, postRepo))

	statHandler := statHttp.NewStatHandler(statService.NewStatService(userRepo, threadRepo, postRepo))

	reportSvc := reportService.NewReportService(tx, reportRepo.NewReportRepository(db), postRepo, notificationSvc)
	reportHandler := reportHttp.NewReportHandler(reportSvc)

	router := gin.New()
	// Without configured proxies ClientIP is the socket peer, so a spoofed
	// X-Forwarded-For cannot dodge the per-IP auth throttle.
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Printf("Invalid TRUSTED_PROXIES, trusting none: %v", err)
		_ = router.SetTrustedProxies(nil)
	}

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/api/notifications/ws"},
	}))

	authMiddleware := middleware.NewAuthMiddleware(userRepo, tokens)

	api := router.Group("/api")

	auth := api.Group("/auth")
	auth.Use(middleware.NewIPThrottle(cfg.AuthRateEvery, cfg.AuthRateBurst).Middleware())
	{
		auth.POST("/register", userHandler.Register)
		auth.POST("/login", userHandler.Login)
	}

	// Public reads; a valid token adds hasLiked and the authorId filter.
	public := api.Group("")
	public.Use(authMiddleware.OptionalAuth())
	{
		public.GET("/categories", categoryHandler.GetAllCategories)
		public.GET("/threads", threadHandler.GetAllThreads)
		public.GET("/threads/:thread_id", threadHandler.GetThread)
		public.GET("/threads/:thread_id/posts", postHandler.GetPostsByThreadID)
		public.GET("/users/:user_id", userHandler.GetProfile)
		public.GET("/users/:user_id/reputation", leaderboardHandler.GetHistory)
		public.GET("/leaderboard", leaderboardHandler.GetLeaderboard)
		public.GET("/search", searchHandler.Search)
		public.GET("/stats", statHandler.GetForumStats)
	}

	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/users/me", userHandler.GetCurrentProfile)

		// Thread routes
		protected.POST("/threads", threadHandler.CreateThread)
		protected.PUT("/threads/:thread_id", threadHandler.UpdateThread)
		protected.DELETE("/threads/:thread_id", threadHandler.DeleteThread)
		protected.PATCH("/threads/:thread_id/accept-post", threadHandler.AcceptPost)
		protected.POST("/threads/:thread_id/accept-post", threadHandler.AcceptPost)
		protected.POST("/threads/:thread_id/posts", postHandler.CreatePost)

		// Post routes
		protected.PUT("/posts/:post_id", postHandler.UpdatePost)
		protected.POST("/posts/:post_id/like", likeHandler.ToggleLike)

		protected.POST("/reports", reportHandler.CreateReport)

		// Notification routes
		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)

		staff := protected.Group("")
		staff.Use(authMiddleware.RequireStaff())
		{
			staff.PATCH("/threads/:thread_id", threadHandler.ModerateThread)
			staff.GET("/reports", reportHandler.GetReports)
			staff.PATCH("/reports", reportHandler.ResolveReport)
		}

		adminGroup := protected.Group("/admin")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.POST("/categories", categoryHandler.CreateCategory)
			adminGroup.PUT("/users/:user_id/role", userHandler.UpdateRole)
		}
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, origins []string) {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
