package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/xhit/go-str2duration/v2"
)

type Config struct {
	Env  string
	Port string

	DatabaseURL string

	JWTSecret     string
	JWTExpire     time.Duration
	SessionSecret string
	CookieMaxAge  time.Duration
	CookieSecure  bool

	// RedisAddr 為空時不啟用文章快取
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	PostCacheTTL  time.Duration

	HashWorkers int

	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

var loadDotenv = func() error { return godotenv.Load() }

// Load 讀取 .env（不存在時略過）與環境變數
func Load() (Config, error) {
	if err := loadDotenv(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("讀取 .env 失敗: %w", err)
	}

	cfg := Config{
		Env:           get("APP_ENV", "dev"),
		Port:          get("PORT", "3000"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
	for _, req := range []struct{ key, val string }{
		{"DATABASE_URL", cfg.DatabaseURL},
		{"JWT_SECRET", cfg.JWTSecret},
		{"SESSION_SECRET", cfg.SessionSecret},
	} {
		if req.val == "" {
			return Config{}, fmt.Errorf("環境變數 %s 未設定", req.key)
		}
	}

	var err error
	if cfg.JWTExpire, err = duration("JWT_EXPIRE", "7d"); err != nil {
		return Config{}, err
	}
	if cfg.CookieMaxAge, err = duration("COOKIE_MAX_AGE", "7d"); err != nil {
		return Config{}, err
	}
	if cfg.PostCacheTTL, err = duration("POST_CACHE_TTL", "5m"); err != nil {
		return Config{}, err
	}
	if cfg.RedisDB, err = number("REDIS_DB", 0, 0); err != nil {
		return Config{}, err
	}
	if cfg.HashWorkers, err = number("HASH_WORKERS", 4, 1); err != nil {
		return Config{}, err
	}
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		if cfg.CookieSecure, err = strconv.ParseBool(v); err != nil {
			return Config{}, fmt.Errorf("無效的 COOKIE_SECURE: %v", err)
		}
	}
	return cfg, nil
}

func get(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// duration 支援 7d、12h、90m 這類寫法
func duration(key, def string) (time.Duration, error) {
	d, err := str2duration.ParseDuration(get(key, def))
	if err != nil {
		return 0, fmt.Errorf("無效的 %s: %v", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("無效的 %s: 必須大於 0", key)
	}
	return d, nil
}

func number(key string, def, min int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("無效的 %s: %v", key, err)
	}
	if n < min {
		return 0, fmt.Errorf("無效的 %s: 不可小於 %d", key, min)
	}
	return n, nil
}
