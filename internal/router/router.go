package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/el-modasser/elkababgy/internal/auth"
	"github.com/el-modasser/elkababgy/internal/cart"
	"github.com/el-modasser/elkababgy/internal/menu"
	"github.com/el-modasser/elkababgy/internal/middleware"
	"github.com/el-modasser/elkababgy/internal/order"
	"github.com/el-modasser/elkababgy/internal/session"
)

// Deps are the handlers and settings the HTTP surface is built from.
type Deps struct {
	Tokens *auth.Tokens

	Menu     *menu.Handler
	Catalog  *menu.AdminHandler
	Sessions *session.Handler
	Cart     *cart.Handler
	Orders   *order.Handler
	Auth     *auth.Handler

	CORSOrigins []string
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	if len(d.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     d.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// ───────────────────────── HEALTH ─────────────────────────
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ───────────────────────── PUBLIC ─────────────────────────
	if d.Menu != nil {
		r.GET("/menu", d.Menu.Categories)
		r.GET("/menu/:category/items", d.Menu.Items)
	}
	if d.Orders != nil {
		r.GET("/branches", d.Orders.Branches)
		r.GET("/branches/:id/whatsapp", d.Orders.QuickOrder)
	}

	// ───────────────────────── SESSIONS + CART ─────────────────────────
	if d.Sessions != nil {
		r.POST("/sessions", d.Sessions.Start)
		r.DELETE("/sessions", middleware.Authenticate(d.Tokens), d.Sessions.End)
	}

	visitor := r.Group("/cart")
	visitor.Use(
		middleware.Authenticate(d.Tokens),
		middleware.RequireRole(auth.RoleVisitor),
	)
	if d.Cart != nil {
		visitor.GET("", d.Cart.Get)
		visitor.DELETE("", d.Cart.Clear)
		visitor.POST("/items", d.Cart.Add)
		visitor.PATCH("/items/:lineId", d.Cart.UpdateQuantity)
		visitor.DELETE("/items/:lineId", d.Cart.Remove)
		visitor.PUT("/notes", d.Cart.SetNotes)
		visitor.PUT("/language", d.Cart.SetLanguage)
	}
	if d.Orders != nil {
		visitor.POST("/checkout", d.Orders.Checkout)
	}

	// ───────────────────────── ADMIN ─────────────────────────
	if d.Auth != nil {
		r.POST("/admin/login", d.Auth.Login)
	}

	admin := r.Group("/admin")
	admin.Use(
		middleware.Authenticate(d.Tokens),
		middleware.RequireRole(auth.RoleAdmin),
	)
	if d.Catalog != nil {
		admin.POST("/catalog", d.Catalog.Upload)
		admin.POST("/catalog/reload", d.Catalog.Reload)
		admin.GET("/catalog/revisions", d.Catalog.Revisions)
	}

	return r
}
