// @title        Inkwell
// @version      1.0
// @description  Inkwell 部落格後台的表單與頁面路由
// @host         localhost:3000
// @BasePath     /
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name token
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/flash"
	"inkwell/internal/handler/auth"
	"inkwell/internal/logger"
	"inkwell/internal/metrics"
	"inkwell/internal/router"
	"inkwell/internal/service"
	"inkwell/internal/validate"
	"inkwell/internal/view"
	"inkwell/internal/worker"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

var (
	loadConfig      = config.Load
	newPgxPool      = database.NewPgxPool
	newRedisClient  = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	rollbackFn      = database.RollbackAll
	ensureAdmin     = service.EnsureAdmin
	startServer     = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	newWorkerPool   = worker.NewPool
	exitFunc        = os.Exit
)

// run 以 "rollback" 參數執行時只回滾所有 migration
func run(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	slog.SetDefault(logger.New(cfg.Env))

	if len(args) > 0 && args[0] == "rollback" {
		if err := rollbackFn(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("Migration 回滾失敗: %v", err)
		}
		slog.Info("migrations rolled back")
		return nil
	}

	ctx := context.Background()
	db, err := newPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %v", err)
	}
	defer db.Close()

	if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("Migration 執行失敗: %v", err)
	}

	// REDIS_ADDR 未設定時 rdb 保持 nil interface
	var rdb cache.Cache
	if cfg.RedisAddr != "" {
		c, err := newRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return fmt.Errorf("Redis 連線失敗: %v", err)
		}
		defer c.Close()
		rdb = c
	}

	wp := newWorkerPool(cfg.HashWorkers)
	defer wp.Stop()
	hasher := service.NewHasher(wp, 0)

	if err := ensureAdmin(ctx, db, hasher, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return fmt.Errorf("建立管理員失敗: %v", err)
	}

	renderer, err := view.New()
	if err != nil {
		return fmt.Errorf("載入模板失敗: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validate.New()
	e.Renderer = renderer
	e.HTTPErrorHandler = view.ErrorHandler(e.DefaultHTTPErrorHandler)
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				slog.ErrorContext(c.Request().Context(), "request", append(attrs, "err", v.Error)...)
				return nil
			}
			slog.InfoContext(c.Request().Context(), "request", attrs...)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	router.Setup(e, router.Deps{
		DB:      db,
		Cache:   rdb,
		Posts:   cache.NewPostCache(rdb, cfg.PostCacheTTL),
		Hasher:  hasher,
		Tokens:  service.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpire),
		Flashes: flash.NewMessenger(cfg.SessionSecret, flash.DefaultTTL, cfg.CookieSecure),
		Metrics: metrics.New(),
		Cookie:  auth.CookieConfig{MaxAge: cfg.CookieMaxAge, Secure: cfg.CookieSecure},
	})

	slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "cache", rdb != nil)
	return startServer(e, ":"+cfg.Port)
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Print(err)
		exitFunc(1)
	}
}
