// File: internal/router/router.go
package router

import (
	"inkwell/internal/cache"
	"inkwell/internal/database"
	"inkwell/internal/flash"
	"inkwell/internal/handler"
	"inkwell/internal/handler/admin"
	"inkwell/internal/handler/auth"
	"inkwell/internal/handler/public"
	"inkwell/internal/metrics"
	"inkwell/internal/middleware"
	"inkwell/internal/service"
	"inkwell/internal/view"

	_ "inkwell/docs" // 引入 swag 產出的 docs

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Deps 路由需要的所有元件，由 cmd/service 組好後傳入
type Deps struct {
	DB      database.DB
	Cache   cache.Cache      // 未設定 REDIS_ADDR 時為 nil
	Posts   *cache.PostCache // 同上
	Hasher  *service.Hasher
	Tokens  *service.TokenIssuer
	Flashes *flash.Messenger
	Metrics *metrics.Metrics
	Cookie  auth.CookieConfig
}

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, d Deps) {
	if d.Metrics != nil {
		e.Use(middleware.Metrics(d.Metrics))
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}
	// 公開頁面也需要知道目前登入者
	e.Use(middleware.LoadUser(d.Tokens))

	// 健康檢查
	e.GET("/healthz", handler.PingHandler(d.DB, d.Cache))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.StaticFS("/static", view.Static())

	// 公開頁面
	e.GET("/", public.HomeHandler(d.DB, d.Flashes))
	e.GET("/post/:slug", public.PostHandler(d.DB, d.Posts, d.Flashes))
	e.GET("/category/:slug", public.CategoryHandler(d.DB, d.Flashes))

	// 註冊、登入、登出
	authG := e.Group("/auth")
	authG.GET("/register", auth.RegisterFormHandler(d.Flashes))
	authG.POST("/register", auth.RegisterHandler(d.DB, d.Hasher, d.Flashes))
	authG.GET("/login", auth.LoginFormHandler(d.Flashes))
	authG.POST("/login", auth.LoginHandler(d.DB, d.Hasher, d.Tokens, d.Flashes, d.Cookie, d.Metrics))
	authG.GET("/logout", auth.LogoutHandler(d.Flashes, d.Cookie))

	// 管理員專屬
	adminG := e.Group("/admin", middleware.RequireAuth(d.Tokens, d.Flashes), middleware.RequireAdmin(d.Flashes))
	adminG.GET("/dashboard", admin.DashboardHandler(d.DB, d.Flashes))
	adminG.GET("/posts", admin.PostsHandler(d.DB, d.Flashes))
	adminG.GET("/posts/new", admin.NewPostHandler(d.Flashes))
	adminG.GET("/posts/edit/:id", admin.EditPostHandler(d.DB, d.Flashes))
	adminG.POST("/posts/create", admin.CreatePostHandler(d.DB, d.Flashes))
	adminG.POST("/posts/update/:id", admin.UpdatePostHandler(d.DB, d.Posts, d.Flashes))
	adminG.POST("/posts/delete/:id", admin.DeletePostHandler(d.DB, d.Posts, d.Flashes))
	adminG.GET("/categories", admin.CategoriesHandler(d.DB, d.Flashes))
	adminG.POST("/categories/create", admin.CreateCategoryHandler(d.DB, d.Flashes))
	adminG.POST("/categories/delete/:id", admin.DeleteCategoryHandler(d.DB, d.Flashes))
}
