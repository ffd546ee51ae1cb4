package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/lichinka/ht/internal/activity"
	"github.com/lichinka/ht/internal/auth"
	"github.com/lichinka/ht/internal/clubs"
	"github.com/lichinka/ht/internal/config"
	"github.com/lichinka/ht/internal/profile"
	"github.com/lichinka/ht/internal/reservations"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
}

func New(database *sqlx.DB, cfg *config.Config, sink *activity.Sink) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

	profileRepo := profile.NewRepository(database)

	setupRepo := clubs.NewCourtSetupRepository(database)
	courtRepo := clubs.NewCourtRepository(database)
	vacancyRepo := clubs.NewVacancyRepository(database)
	setupService := clubs.NewCourtSetupService(setupRepo, courtRepo, sink)
	courtService := clubs.NewCourtService(courtRepo, setupRepo, sink)
	vacancyService := clubs.NewVacancyService(vacancyRepo, courtRepo, setupRepo)
	clubHandler := clubs.NewHandler(setupService, courtService, vacancyService, profileRepo)

	resRepo := reservations.NewRepository(database)
	resService := reservations.NewService(resRepo, vacancyRepo, courtRepo, setupRepo, profileRepo, sink)
	transferService := reservations.NewTransferService(resService, setupService, sink)
	resHandler := reservations.NewHandler(resService, transferService, setupService, profileRepo)

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/clubs/:club_id/free", clubHandler.GetFreeVacancies)
		protected.POST("/reservations", resHandler.Book)
		protected.POST("/reservations/weekly", resHandler.BookWeekly)
		protected.DELETE("/reservations/:id", resHandler.Delete)
	}

	club := router.Group("/")
	club.Use(authMiddleware, auth.RequireRole(auth.RoleClub))
	{
		club.POST("/court-setups", clubHandler.CreateCourtSetup)
		club.GET("/court-setups", clubHandler.ListCourtSetups)
		club.GET("/court-setups/active", clubHandler.GetActiveCourtSetup)
		club.GET("/court-setups/:id", clubHandler.GetCourtSetup)
		club.PUT("/court-setups/:id", clubHandler.RenameCourtSetup)
		club.DELETE("/court-setups/:id", clubHandler.DeleteCourtSetup)
		club.POST("/court-setups/:id/activate", clubHandler.ActivateCourtSetup)
		club.POST("/court-setups/:id/clone", clubHandler.CloneCourtSetup)

		club.POST("/court-setups/:id/courts", clubHandler.CreateCourt)
		club.GET("/court-setups/:id/courts", clubHandler.ListCourts)
		club.POST("/courts/:id/clone", clubHandler.CloneCourt)
		club.POST("/courts/:id/toggle-available", clubHandler.ToggleCourtAvailable)
		club.DELETE("/courts/:id", clubHandler.DeleteCourt)
		club.DELETE("/courts/:id/reservations", clubHandler.DeleteCourtReservations)

		club.GET("/court-setups/:id/vacancies", clubHandler.GetVacancyGrid)
		club.PUT("/courts/:id/prices", clubHandler.UpdatePrices)

		club.GET("/court-setups/:id/reservations", resHandler.ListForSetup)
		club.POST("/court-setups/:id/transfer", resHandler.Transfer)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/activity-queue", ActivityQueue(sink))

	return &Server{
		router: router,
		db:     database,
		config: cfg,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
