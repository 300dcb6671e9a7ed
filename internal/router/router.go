package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"billdesk/internal/config"
	"billdesk/internal/domain"
	"billdesk/internal/handler"
	"billdesk/internal/middleware"
	"billdesk/internal/service"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Bill      *handler.BillHandler
	Supplier  *handler.ContactHandler
	Party     *handler.ContactHandler
	Dashboard *handler.DashboardHandler
	Health    *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(cfg *config.Config, log *zap.Logger, authSvc service.AuthService, h Handlers) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	if !cfg.Server.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/logout", h.Auth.Logout)

	// Protected routes - require a valid session cookie
	protected := v1.Group("")
	protected.Use(middleware.Session(authSvc, cfg.Session.CookieName))

	protected.GET("/auth/me", h.Auth.Me)
	protected.POST("/auth/register", middleware.RequireRole(domain.RoleAdmin), h.Auth.Register)

	bills := protected.Group("/bill")
	bills.POST("/process", h.Bill.Process)
	bills.POST("/match", h.Bill.Match)
	bills.POST("/save", h.Bill.Save)
	bills.GET("", h.Bill.List)
	bills.GET("/export", h.Bill.Export)
	bills.GET("/:id", h.Bill.GetByID)
	bills.PUT("/:id", h.Bill.Update)
	bills.DELETE("/:id", h.Bill.Delete)

	mountContacts(protected.Group("/supplier"), h.Supplier)
	mountContacts(protected.Group("/party"), h.Party)

	users := protected.Group("/user")
	users.Use(middleware.RequireRole(domain.RoleAdmin))
	users.POST("", h.User.Create)
	users.GET("", h.User.List)
	users.GET("/:id", h.User.GetByID)
	users.PUT("/:id", h.User.Update)
	users.DELETE("/:id", h.User.Delete)

	protected.GET("/dashboard/stats", h.Dashboard.Stats)

	return r
}

func mountContacts(g *gin.RouterGroup, ch *handler.ContactHandler) {
	g.POST("", ch.Create)
	g.GET("", ch.List)
	g.GET("/match", ch.Match)
	g.GET("/:id", ch.GetByID)
	g.PUT("/:id", ch.Update)
	g.DELETE("/:id", middleware.RequireRole(domain.RoleAdmin), ch.Delete)
	g.GET("/:id/bills", ch.Bills)
}
