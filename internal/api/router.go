package api

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/coupondrop/coupondrop/internal/api/middleware"
	v1 "github.com/coupondrop/coupondrop/internal/api/v1"
	"github.com/coupondrop/coupondrop/internal/config"
	"github.com/coupondrop/coupondrop/internal/database"
)

// Deps collects everything the router wires together.
type Deps struct {
	Config       *config.Config
	DB           *database.DB
	ClaimService v1.ClaimService
	AdminService v1.AdminService
	AuthService  v1.AuthService
	Verifier     middleware.TokenVerifier
	Logger       *zap.Logger
}

// NewRouter assembles the gin engine: public claim surface, admin
// dashboard API, and the ops endpoints.
func NewRouter(deps Deps) *gin.Engine {
	if deps.Config.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(cors.New(corsConfig(deps.Config.Server.CORSOrigins)))

	// Ops surface
	router.GET("/health", func(c *gin.Context) {
		hostname, _ := os.Hostname()
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"service":  "coupondrop",
			"hostname": hostname,
		})
	})
	router.GET("/health/db", func(c *gin.Context) {
		if err := deps.DB.Postgres.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "postgres unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "postgres": "connected"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	secure := deps.Config.Auth.SecureCookies

	claimHandler := v1.NewClaimHandler(deps.ClaimService, secure)
	authHandler := v1.NewAuthHandler(deps.AuthService, secure)
	adminHandler := v1.NewAdminHandler(deps.AdminService, deps.Config.Claim.DefaultExpiryDays)

	apiV1 := router.Group("/api/v1")
	{
		// Public claim surface, behind the per-IP abuse guard.
		claimLimit := middleware.IPRateLimit(
			deps.Config.Claim.IPRatePerMinute, deps.Config.Claim.IPRateBurst)
		apiV1.POST("/claim", claimLimit, claimHandler.Claim)
		apiV1.GET("/claim/status", claimHandler.Status)

		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.AdminAuth(deps.Verifier), authHandler.Me)
		}

		admin := apiV1.Group("/admin", middleware.AdminAuth(deps.Verifier))
		{
			admin.GET("/coupons", adminHandler.ListCoupons)
			admin.POST("/coupons", adminHandler.CreateCoupon)
			admin.POST("/coupons/:id/toggle", adminHandler.ToggleCoupon)
			admin.DELETE("/coupons/:id", adminHandler.DeleteCoupon)
			admin.GET("/claims", adminHandler.ListClaims)
		}
	}

	return router
}

func corsConfig(origins string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowCredentials = true
	cfg.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}

	trimmed := strings.TrimSpace(origins)
	if trimmed == "" || trimmed == "*" {
		// Credentials + wildcard origins are rejected by gin-contrib/cors;
		// echo the caller's origin instead.
		cfg.AllowOriginFunc = func(origin string) bool { return true }
		return cfg
	}

	cfg.AllowOrigins = strings.Split(trimmed, ",")
	for i := range cfg.AllowOrigins {
		cfg.AllowOrigins[i] = strings.TrimSpace(cfg.AllowOrigins[i])
	}
	return cfg
}
