// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/gommon/bytes"
)

// Config 為服務啟動時由環境變數讀入的設定
type Config struct {
	DatabaseURL       string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	SessionSecret     string
	SessionTTL        time.Duration
	CookieSecure      bool
	StaticRoot        string
	UploadDir         string
	MaxUploadSize     string
	AllowedExtensions []string
	HTTPAddr          string
	// ResetDatabase 啟動時先退回所有 migration，只用於開發環境
	ResetDatabase     bool
}

const (
	defaultSessionTTL        = 24 * time.Hour
	defaultStaticRoot        = "static"
	defaultUploadDir         = "uploads"
	defaultMaxUploadSize     = "16M"
	defaultAllowedExtensions = "png,jpg,jpeg,gif"
	defaultHTTPAddr          = ":8080"
)

func required(name string) (string, error) {
	v := os.Getenv(name)
	if v == "" {
		return "", fmt.Errorf("環境變數 %s 未設定", name)
	}
	return v, nil
}

func optional(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

// Load 讀取並驗證所有環境變數，缺少必要值時立即回傳錯誤
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	if cfg.DatabaseURL, err = required("DATABASE_URL"); err != nil {
		return nil, err
	}
	if cfg.RedisAddr, err = required("REDIS_ADDR"); err != nil {
		return nil, err
	}
	redisDBStr, err := required("REDIS_DB")
	if err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = strconv.Atoi(redisDBStr); err != nil {
		return nil, fmt.Errorf("無效的 REDIS_DB: %v", err)
	}
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")

	if cfg.SessionSecret, err = required("SESSION_SECRET"); err != nil {
		return nil, err
	}

	cfg.SessionTTL = defaultSessionTTL
	if v := os.Getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("無效的 SESSION_TTL: %q", v)
		}
		cfg.SessionTTL = d
	}

	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("無效的 COOKIE_SECURE: %v", err)
		}
		cfg.CookieSecure = b
	}

	cfg.StaticRoot = optional("STATIC_ROOT", defaultStaticRoot)
	cfg.UploadDir = optional("UPLOAD_DIR", defaultUploadDir)

	cfg.MaxUploadSize = optional("MAX_UPLOAD_SIZE", defaultMaxUploadSize)
	if n, err := bytes.Parse(cfg.MaxUploadSize); err != nil || n <= 0 {
		return nil, fmt.Errorf("無效的 MAX_UPLOAD_SIZE: %q", cfg.MaxUploadSize)
	}

	cfg.AllowedExtensions = parseExtensions(optional("ALLOWED_EXTENSIONS", defaultAllowedExtensions))
	if len(cfg.AllowedExtensions) == 0 {
		return nil, fmt.Errorf("無效的 ALLOWED_EXTENSIONS: 至少需要一個副檔名")
	}

	cfg.HTTPAddr = optional("HTTP_ADDR", defaultHTTPAddr)

	if v := os.Getenv("RESET_DATABASE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("無效的 RESET_DATABASE: %v", err)
		}
		cfg.ResetDatabase = b
	}
	return cfg, nil
}

// parseExtensions 將 "png, .JPG" 轉為 ["png", "jpg"]
func parseExtensions(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(p), "."))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
