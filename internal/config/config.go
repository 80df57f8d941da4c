// Package config はアプリケーション設定の読み込みを提供する。
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
// グローバル変数にはせず、参照で各コンポーネントに渡す。
type Config struct {
	// Database
	DatabaseURL string

	// Server
	ServerPort string
	BaseURL    string

	// Admin
	// AdminPathPrefix は管理画面のパスプレフィックス。推測されにくい値を設定する。
	AdminPathPrefix string
	// AdminAllowedIPs は管理画面へのアクセスを許可するIPアドレスの集合。
	// 空の場合は全リクエストを拒否する（フェイルクローズ）。
	AdminAllowedIPs []string

	// Session
	SessionMaxAge int

	// Rate Limit（req/min単位）
	RateLimitGeneral  int
	RateLimitMutation int

	// Cookie
	CookieSecure bool
	CookieDomain string
}

// settingsFile はYAML設定ファイルの構造。
// 環境変数より優先される上書き項目のみを持つ。
type settingsFile struct {
	Admin struct {
		PathPrefix string   `yaml:"pathPrefix"`
		AllowedIPs []string `yaml:"allowedIPs"`
	} `yaml:"admin"`
}

// Load は環境変数からConfigを読み込む。
// SITE_SETTINGS_FILEが指定されている場合はYAMLファイルの内容で
// 管理画面関連の設定を上書きする。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.BaseURL = os.Getenv("BASE_URL")
	if cfg.BaseURL == "" {
		missing = append(missing, "BASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.AdminPathPrefix = normalizePathPrefix(getEnvString("ADMIN_PATH_PREFIX", "/control-panel-72d3"))
	cfg.AdminAllowedIPs = splitCommaList(os.Getenv("ADMIN_ALLOWED_IPS"))
	cfg.SessionMaxAge = getEnvInt("SESSION_MAX_AGE", 86400)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 300)
	cfg.RateLimitMutation = getEnvInt("RATE_LIMIT_MUTATION", 20)
	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")

	// YAMLファイルによる上書き
	if path := os.Getenv("SITE_SETTINGS_FILE"); path != "" {
		if err := cfg.applySettingsFile(path); err != nil {
			return nil, fmt.Errorf("failed to apply settings file: %w", err)
		}
	}

	return cfg, nil
}

// applySettingsFile はYAML設定ファイルを読み込み、管理画面設定を上書きする。
func (c *Config) applySettingsFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read settings file: %w", err)
	}

	var sf settingsFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return fmt.Errorf("failed to parse settings file: %w", err)
	}

	if sf.Admin.PathPrefix != "" {
		c.AdminPathPrefix = normalizePathPrefix(sf.Admin.PathPrefix)
	}
	if len(sf.Admin.AllowedIPs) > 0 {
		c.AdminAllowedIPs = sf.Admin.AllowedIPs
	}

	return nil
}

// SessionMaxAgeDuration はセッション有効期間をtime.Durationで返す。
func (c *Config) SessionMaxAgeDuration() time.Duration {
	return time.Duration(c.SessionMaxAge) * time.Second
}

// normalizePathPrefix はパスプレフィックスを「/で始まり/で終わらない」形に正規化する。
func normalizePathPrefix(p string) string {
	p = "/" + strings.Trim(p, "/")
	return p
}

// splitCommaList はカンマ区切りの文字列を空白トリム済みのスライスに分割する。
// 空文字列はnilを返す。
func splitCommaList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}
