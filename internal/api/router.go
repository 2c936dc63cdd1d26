package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/bookshelf/catalog-api/docs"
	"github.com/bookshelf/catalog-api/internal/api/handler"
	"github.com/bookshelf/catalog-api/internal/api/middleware"
	"github.com/bookshelf/catalog-api/internal/core/ports"
)

// Dependencies are the services and health checks the router wires into handlers.
type Dependencies struct {
	Auth         ports.AuthService
	Users        ports.UserService
	Favorites    ports.FavoriteService
	Resolver     ports.IdentityResolver
	TokenDecoder handler.TokenDecoder
	Checks       []handler.DependencyCheck
	Logger       zerolog.Logger

	// Policy defaults to middleware.DefaultAccessPolicy.
	Policy *middleware.AccessPolicy
	// Metrics enables the Prometheus middleware and /metrics. Disable it in
	// tests that build several routers in one process.
	Metrics bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	policy := deps.Policy
	if policy == nil {
		policy = middleware.DefaultAccessPolicy()
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Logger))
	if deps.Metrics {
		e.Use(echoprometheus.NewMiddleware("bookshelf"))
		e.GET("/metrics", echoprometheus.NewHandler())
	}
	e.Use(middleware.NewRequestAuthenticator(deps.Resolver, deps.Logger).Middleware())
	e.Use(middleware.Authorize(policy))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Users, deps.TokenDecoder)
	favoriteHandler := handler.NewFavoriteHandler(deps.Favorites)
	imageHandler := handler.NewProfileImageHandler(deps.Users)

	// --- Auth routes (public) ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- User routes ---
	api := e.Group("/api")
	api.GET("/info", userHandler.Info)
	api.PUT("/update", userHandler.UpdateSelf)

	admin := api.Group("/admin")
	admin.GET("/all-info", userHandler.ListAll)
	admin.PUT("/update/:username", userHandler.AdminUpdate)
	admin.DELETE("/delete/:username", userHandler.AdminDelete)

	// --- Favorites ---
	favorites := api.Group("/favorites")
	favorites.GET("", favoriteHandler.List)
	favorites.POST("", favoriteHandler.Add)
	favorites.GET("/count", favoriteHandler.Count)
	favorites.GET("/check/:bookId", favoriteHandler.Check)
	favorites.POST("/toggle", favoriteHandler.Toggle)
	favorites.DELETE("/:bookId", favoriteHandler.Remove)

	// --- Profile images ---
	images := api.Group("/profile-image")
	images.POST("/upload", imageHandler.Upload)
	images.DELETE("", imageHandler.Delete)
	images.GET("/:username", imageHandler.Get)
	images.GET("/:username/data", imageHandler.GetData)

	// --- Health checks and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Checks...)

	e.GET("/health", healthHandler.Liveness)            // liveness
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
