package router

import (
	"github.com/conduitlabs/conduit/backend/internal/handlers"
	appMiddleware "github.com/conduitlabs/conduit/backend/internal/middleware"
	"github.com/conduitlabs/conduit/backend/internal/models"
	"github.com/conduitlabs/conduit/backend/internal/pagination"
	"github.com/conduitlabs/conduit/backend/internal/repositories"
	"github.com/conduitlabs/conduit/backend/internal/services"
	"github.com/conduitlabs/conduit/backend/pkg/config"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, logger *zap.Logger) {
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
			)
			return nil
		},
	}))
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, cfg *config.Config, logger *zap.Logger) error {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Article{},
		&models.Favorite{},
		&models.Follow{},
	)
	if err != nil {
		return err
	}
	logger.Info("PostgreSQL auto-migrations completed")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	articleRepo := repositories.NewPostgresArticleRepository(pgdb)
	favoriteRepo := repositories.NewPostgresFavoriteRepository(pgdb)
	followRepo := repositories.NewPostgresFollowRepository(pgdb)
	commentRepo := repositories.NewMongoCommentRepository(mgClient.Database("conduit"))

	// --- Core listing pipeline ---
	codec := pagination.NewCodec(cfg.CursorSecret)
	annotator := services.NewAnnotator(userRepo, favoriteRepo, commentRepo)
	listingService := services.NewListingService(articleRepo, userRepo, followRepo, annotator, codec)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret)
	articleHandler := handlers.NewArticleHandler(listingService, articleRepo)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteRepo, articleRepo)
	profileHandler := handlers.NewProfileHandler(userRepo, followRepo)
	commentHandler := handlers.NewCommentHandler(commentRepo, articleRepo, userRepo)

	// Unauthenticated auth routes
	authGroup := e.Group("/api")
	authHandler.RegisterAuthRoutes(authGroup)

	// Anonymous-capable routes: a token is honored when present so
	// listings can annotate for the viewer, but none is required.
	public := e.Group("/api", appMiddleware.OptionalJWTAuthMiddleware(cfg.JWTSecret))
	articleHandler.RegisterPublicArticleRoutes(public)
	commentHandler.RegisterPublicCommentRoutes(public)
	profileHandler.RegisterPublicProfileRoutes(public)

	// Viewer-required routes
	protected := e.Group("/api", appMiddleware.JWTAuthMiddleware(cfg.JWTSecret))
	authHandler.RegisterUserRoutes(protected)
	articleHandler.RegisterArticleRoutes(protected)
	favoriteHandler.RegisterFavoriteRoutes(protected)
	profileHandler.RegisterProfileRoutes(protected)
	commentHandler.RegisterCommentRoutes(protected)

	logger.Info("All routes configured")
	return nil
}
