package router

import (
	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
	"github.com/arghosts/affiliate-shop-sub000/internal/interfaces/http/handler"
	"github.com/arghosts/affiliate-shop-sub000/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers are the endpoint handlers mounted by RegisterAPI
type Handlers struct {
	Product   *handler.ProductHandler
	Category  *handler.CategoryHandler
	Tag       *handler.TagHandler
	Post      *handler.PostHandler
	Navbar    *handler.NavbarHandler
	Setting   *handler.SiteSettingHandler
	Auth      *handler.AuthHandler
	Import    *handler.ImportHandler
	Image     *handler.ImageHandler
	Dashboard *handler.DashboardHandler
}

// Guards holds the access and caching middleware settings of the API
type Guards struct {
	Sessions     middleware.SessionVerifier
	Session      middleware.SessionGuardConfig
	LoginLimiter *middleware.RateLimiter // nil disables login throttling
	PageCache    middleware.PageCacheConfig
}

// RegisterAPI registers the storefront, auth and admin route groups on r
func RegisterAPI(r *Router, h Handlers, g Guards) {
	r.Register(storefrontRoutes(h, g.PageCache))
	r.Register(authRoutes(h, g))
	r.Register(adminRoutes(h, g))
}

// storefrontRoutes are the public read endpoints. Each response is cached
// under the tags of the records it renders.
func storefrontRoutes(h Handlers, pc middleware.PageCacheConfig) *DomainGroup {
	productTags := []string{shared.CacheTagProducts, shared.CacheTagCategories, shared.CacheTagTags}

	g := NewDomainGroup("storefront", "")
	g.GET("/products", middleware.CachePage(pc, productTags...), h.Product.List)
	g.GET("/products/:slug", middleware.CachePage(pc, productTags...), h.Product.GetBySlug)
	g.GET("/categories", middleware.CachePage(pc, shared.CacheTagCategories), h.Category.List)
	g.GET("/tags", middleware.CachePage(pc, shared.CacheTagTags), h.Tag.List)
	g.GET("/posts", middleware.CachePage(pc, shared.CacheTagPosts), h.Post.List)
	g.GET("/posts/:slug", middleware.CachePage(pc, shared.CacheTagPosts), h.Post.GetBySlug)
	g.GET("/navbar", middleware.CachePage(pc, shared.CacheTagNavbar), h.Navbar.List)
	g.GET("/settings", middleware.CachePage(pc, shared.CacheTagSettings), h.Setting.Get)
	return g
}

func authRoutes(h Handlers, g Guards) *DomainGroup {
	login := []gin.HandlerFunc{h.Auth.Login}
	if g.LoginLimiter != nil {
		login = append([]gin.HandlerFunc{middleware.LoginRateLimit(g.LoginLimiter)}, login...)
	}

	auth := NewDomainGroup("auth", "/auth")
	auth.POST("/login", login...)
	auth.POST("/logout", h.Auth.Logout)
	auth.GET("/me", middleware.RequireSession(g.Sessions, g.Session), h.Auth.Me)
	return auth
}

func adminRoutes(h Handlers, g Guards) *DomainGroup {
	admin := NewDomainGroup("admin", "/admin")
	admin.Use(middleware.RequireSession(g.Sessions, g.Session))

	admin.GET("/dashboard", h.Dashboard.Stats)

	admin.Group("products", "/products").
		GET("", h.Product.List).
		GET("/:id", h.Product.GetByID).
		POST("", h.Product.Create).
		PUT("/:id", h.Product.Update).
		DELETE("/:id", h.Product.Delete)

	admin.Group("categories", "/categories").
		GET("", h.Category.List).
		GET("/:id", h.Category.GetByID).
		POST("", h.Category.Create).
		PUT("/:id", h.Category.Update).
		DELETE("/:id", h.Category.Delete)

	admin.Group("tags", "/tags").
		GET("", h.Tag.List).
		POST("", h.Tag.Create).
		PUT("/:id", h.Tag.Update).
		DELETE("/:id", h.Tag.Delete)

	admin.Group("posts", "/posts").
		GET("", h.Post.List).
		GET("/:id", h.Post.GetByID).
		POST("", h.Post.Create).
		PUT("/:id", h.Post.Update).
		DELETE("/:id", h.Post.Delete)

	admin.Group("navbar", "/navbar").
		GET("", h.Navbar.List).
		POST("", h.Navbar.Create).
		PUT("/:id", h.Navbar.Update).
		DELETE("/:id", h.Navbar.Delete).
		POST("/:id/move", h.Navbar.Move)

	admin.Group("settings", "/settings").
		GET("", h.Setting.Get).
		PUT("", h.Setting.Update)

	admin.POST("/import/products", h.Import.ImportProducts)
	admin.POST("/images", h.Image.Upload)
	return admin
}
