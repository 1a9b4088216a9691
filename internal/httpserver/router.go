package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/Haseeb044/ecommerce-backend-design/internal/middleware/auth"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	CatalogHandler *CatalogHTTP
	SearchHandler  *SearchHandler
	Guard          *authmw.Guard
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	auth := e.Group("/auth")
	auth.POST("/signup", d.AuthHandler.Signup)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/api/signup", d.AuthHandler.APISignup)
	auth.POST("/api/login", d.AuthHandler.APILogin)
	auth.POST("/logout", d.AuthHandler.Logout)
	auth.POST("/refresh", d.AuthHandler.Refresh)

	e.GET("/", d.CatalogHandler.Featured)

	products := e.Group("/products")
	products.GET("", d.CatalogHandler.GetProducts)
	products.GET("/:id", d.CatalogHandler.GetProduct)
	products.GET("/category/:category", d.CatalogHandler.GetByCategory)

	if d.SearchHandler != nil {
		e.GET("/search", d.SearchHandler.Handler)
	}

	admin := e.Group("/admin", d.Guard.RequireAdmin)
	admin.POST("/products", d.CatalogHandler.CreateProduct)
}
