// Package router builds the gin engine and its route table.
package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"shop_backend/internal/api"
	authhandler "shop_backend/internal/feature/auth/transport/handler"
	producthandler "shop_backend/internal/feature/product/transport/handler"
	platformhandler "shop_backend/internal/platform/http/handler"
	"shop_backend/internal/platform/http/middleware"
	jwtmw "shop_backend/internal/platform/jwt"
)

// Deps are the handlers and services the routes are bound to.
type Deps struct {
	Logger      *slog.Logger
	CORSOrigins []string
	Tokens      jwtmw.TokenVerifier
	Health      *platformhandler.HealthHandler
	Auth        *authhandler.AuthHandler
	Products    *producthandler.ProductHandler
}

// NewRouter returns the configured engine.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(d.Logger),
		middleware.Recovery(d.Logger),
		cors.New(cors.Config{
			AllowOrigins:  d.CORSOrigins,
			AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders: []string{middleware.RequestIDHeader},
			MaxAge:        12 * time.Hour,
		}),
	)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "not found"})
	})

	r.GET("/healthz", d.Health.Health)
	r.HEAD("/healthz", d.Health.Health)
	r.OPTIONS("/healthz", d.Health.Health)

	users := r.Group("/api/users")
	{
		users.POST("/register", d.Auth.Register)
		users.POST("/login", d.Auth.Login)

		// bearer token required
		protected := users.Group("", jwtmw.AuthRequired(d.Tokens))
		protected.PUT("/favorites", d.Auth.UpdateFavorites)
		protected.GET("/me", d.Auth.Me)
	}

	products := r.Group("/api/products")
	{
		products.GET("", d.Products.List)
		products.POST("", d.Products.Create)
		products.GET("/suggestions", d.Products.Suggestions)
		products.GET("/results", d.Products.Results)
		products.GET("/images/:file", d.Products.Image)
		products.GET("/:id", d.Products.Get)
		products.PUT("/:id", d.Products.Update)
		products.DELETE("/:id", d.Products.Delete)
	}

	return r
}
