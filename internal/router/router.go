package router

import (
	"strconv"

	"github.com/anonto42/yatube/internal/cache"
	"github.com/anonto42/yatube/internal/forms"
	"github.com/anonto42/yatube/internal/handlers"
	"github.com/anonto42/yatube/internal/media"
	"github.com/anonto42/yatube/internal/middleware"
	"github.com/anonto42/yatube/internal/repositories"
	"github.com/anonto42/yatube/pkg/config"
	"github.com/anonto42/yatube/validators"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the collaborators the routes are built from.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Logger   *zap.Logger
	Cache    cache.Store
	Media    media.Storage
	Sessions *middleware.SessionManager
	Renderer echo.Renderer
	// Firebase verifies ID tokens; nil disables Firebase login.
	Firebase middleware.TokenVerifier
}

// New builds the echo instance with middleware, error pages and routes.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	e.Renderer = d.Renderer
	e.HTTPErrorHandler = handlers.HTTPErrorHandler(d.Logger)

	config.SetupMiddleware(e, d.Config, d.Logger)
	SetupRoutes(e, d)
	return e
}

// SetupRoutes wires repositories into handlers and registers every route
func SetupRoutes(e *echo.Echo, d Deps) {
	cfg := d.Config

	// --- Initialize Repositories ---
	userRepo := repositories.NewGormUserRepository(d.DB)
	groupRepo := repositories.NewGormGroupRepository(d.DB)
	postRepo := repositories.NewGormPostRepository(d.DB)
	commentRepo := repositories.NewGormCommentRepository(d.DB)
	followRepo := repositories.NewGormFollowRepository(d.DB)

	// --- Identity ---
	e.Use(d.Sessions.Middleware(userRepo))
	if d.Firebase != nil {
		e.Use(middleware.FirebaseAuthMiddleware(d.Firebase, userRepo))
	}
	requireLogin := middleware.LoginRequired(cfg.LoginURL)
	indexCache := cache.Page(d.Cache, cfg.IndexCacheTTL, viewerPageKey, d.Logger)

	v := validators.NewValidator()
	postForm := forms.NewPostForm(v, groupRepo, cfg.MaxUploadBytes)

	e.GET("/health", handlers.HealthCheck(d.DB))

	site := e.Group("")

	postHandler := handlers.NewPostHandler(postRepo, groupRepo, commentRepo, d.Media, postForm, cfg.PostsPerPage, d.Logger)
	postHandler.RegisterPostRoutes(site, requireLogin, indexCache)

	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, v)
	commentHandler.RegisterCommentRoutes(site, requireLogin)

	groupHandler := handlers.NewGroupHandler(groupRepo, postRepo, cfg.PostsPerPage)
	groupHandler.RegisterGroupRoutes(site)

	userHandler := handlers.NewUserHandler(userRepo, postRepo, followRepo, cfg.PostsPerPage)
	userHandler.RegisterUserRoutes(site)

	followHandler := handlers.NewFollowHandler(followRepo, userRepo, d.Logger)
	followHandler.RegisterFollowRoutes(site, requireLogin)

	feedHandler := handlers.NewFeedHandler(postRepo, cfg.PostsPerPage)
	feedHandler.RegisterFeedRoutes(site, requireLogin)

	mediaHandler := handlers.NewMediaHandler(d.Media)
	mediaHandler.RegisterMediaRoutes(site)

	authHandler := handlers.NewAuthHandler(userRepo, d.Sessions, d.Firebase, v, d.Logger)
	authHandler.RegisterAuthRoutes(e.Group("/auth"))

	d.Logger.Debug("routes configured", zap.Int("count", len(e.Routes())))
}

// viewerPageKey keeps cached pages per viewer, since the navigation differs.
// Only the page parameter is part of the key; other query parameters do not
// change the listing.
func viewerPageKey(c echo.Context) string {
	return strconv.FormatUint(uint64(middleware.CurrentViewer(c).ID()), 10) + ":" +
		c.Request().URL.Path + "?page=" + c.QueryParam("page")
}
