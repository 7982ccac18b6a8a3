// Package router assembles the HTTP routes of the Financeiro API.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "financeiro/internal/docs" // swagger docs
	"financeiro/internal/handlers"
	"financeiro/internal/middleware"
	"financeiro/internal/models"
)

// Handlers groups the HTTP handlers mounted by New.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Category    *handlers.CategoryHandler
	Member      *handlers.MemberHandler
	Role        *handlers.RoleHandler
	User        *handlers.UserHandler
	Transaction *handlers.TransactionHandler
	Report      *handlers.ReportHandler
}

// Options configures the middleware stack.
type Options struct {
	Tokens       *middleware.TokenManager
	Authorities  middleware.AuthorityResolver
	ClientID     string
	ClientSecret string
	// AuthLimiter throttles the public token and recovery endpoints. Nil
	// disables throttling.
	AuthLimiter        *middleware.RateLimiter
	CORSAllowedOrigins []string
}

// New builds the gin engine with every route registered.
func New(h Handlers, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(opts.CORSAllowedOrigins))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	public := router.Group("")
	if opts.AuthLimiter != nil {
		public.Use(middleware.RateLimit(opts.AuthLimiter))
	}

	// OAuth2 token endpoint
	public.POST("/oauth2/token", middleware.ClientAuthMiddleware(opts.ClientID, opts.ClientSecret), h.Auth.Token)

	// Password recovery
	auth := public.Group("/auth")
	auth.POST("/recover-token", h.Auth.SendRecoverToken)
	auth.PUT("/new-password", h.Auth.SaveNewPassword)

	// Protected routes
	protected := router.Group("")
	protected.Use(middleware.AuthMiddleware(opts.Tokens, opts.Authorities))
	protected.Use(middleware.RequireRoles(models.AllAuthorities...))
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	categories := protected.Group("/categories")
	categories.GET("", h.Category.FindAll)
	categories.POST("", h.Category.Insert)
	categories.GET("/:id", h.Category.FindByID)
	categories.PUT("/:id", h.Category.Update)
	categories.DELETE("/:id", h.Category.Delete)

	members := protected.Group("/members")
	members.GET("", h.Member.FindAll)
	members.POST("", h.Member.Insert)
	members.GET("/:id", h.Member.FindByID)
	members.PUT("/:id", h.Member.Update)
	members.DELETE("/:id", h.Member.Delete)

	roles := protected.Group("/roles")
	roles.GET("", h.Role.FindAll)
	roles.GET("/:id", h.Role.FindByID)
	roles.POST("", adminOnly, h.Role.Insert)
	roles.PUT("/:id", adminOnly, h.Role.Update)
	roles.DELETE("/:id", adminOnly, h.Role.Delete)

	transactions := protected.Group("/transactions")
	transactions.GET("", h.Transaction.FindAll)
	transactions.GET("/fuel", h.Transaction.FindFuel)
	transactions.GET("/export", h.Transaction.Export)
	transactions.POST("", h.Transaction.Insert)
	transactions.GET("/:id", h.Transaction.FindByID)
	transactions.PUT("/:id", h.Transaction.Update)
	transactions.DELETE("/:id", h.Transaction.Delete)

	users := protected.Group("/users")
	users.GET("", h.User.FindAll)
	users.GET("/:id", h.User.FindByID)
	users.POST("", adminOnly, h.User.Insert)
	users.PUT("/:id", adminOnly, h.User.Update)
	users.DELETE("/:id", adminOnly, h.User.Delete)
	users.POST("/delete/:id", adminOnly, h.User.Delete)

	reports := protected.Group("/reports")
	reports.GET("/summary", h.Report.Summary)

	return router
}
