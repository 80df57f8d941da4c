package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/fintechrp/website/internal/model"
)

// RateLimiterConfig はレート制限の設定を保持する。
type RateLimiterConfig struct {
	GeneralRate     rate.Limit    // ページ閲覧全般のレート（req/sec）
	GeneralBurst    int           // ページ閲覧全般のバーストサイズ
	MutationRate    rate.Limit    // 投稿系（comment / like / contact / newsletter）のレート（req/sec）
	MutationBurst   int           // 投稿系のバーストサイズ
	CleanupInterval time.Duration // 期限切れエントリのクリーンアップ間隔
}

// DefaultRateLimiterConfig はデフォルトのレート制限設定を返す。
// ページ閲覧 300 req/min/IP、投稿系 20 req/min/IP。
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     rate.Limit(300.0 / 60.0),
		GeneralBurst:    300,
		MutationRate:    rate.Limit(20.0 / 60.0),
		MutationBurst:   20,
		CleanupInterval: 5 * time.Minute,
	}
}

// ipLimiter はクライアントIPごとのレートリミッターとアクセス時刻を保持する。
type ipLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter はクライアントIPごとのレート制限を管理する。
// サイトは匿名訪問者に配信するため、制限のキーには認証主体ではなく
// プロキシヘッダーミドルウェアが導出したクライアントIPを使う。
type RateLimiter struct {
	config RateLimiterConfig

	generalMu       sync.RWMutex
	generalLimiters map[string]*ipLimiter

	mutationMu       sync.RWMutex
	mutationLimiters map[string]*ipLimiter

	stopCh chan struct{}
}

// NewRateLimiter は新しいRateLimiterを生成する。
// バックグラウンドで期限切れエントリのクリーンアップを開始する。
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		config:           config,
		generalLimiters:  make(map[string]*ipLimiter),
		mutationLimiters: make(map[string]*ipLimiter),
		stopCh:           make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop はクリーンアップのバックグラウンドゴルーチンを停止する。
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// GeneralMiddleware はページ閲覧全般のレート制限ミドルウェアを返す。
// プロキシヘッダーミドルウェアの後に配置すること。
func (rl *RateLimiter) GeneralMiddleware() func(next http.Handler) http.Handler {
	return rl.middleware("general", rl.getOrCreateLimiter(&rl.generalMu, rl.generalLimiters, rl.config.GeneralRate, rl.config.GeneralBurst), rl.config.GeneralRate)
}

// MutationMiddleware は投稿系エンドポイント専用のレート制限ミドルウェアを返す。
// ページ閲覧全般のレート制限とは独立に動作する。
func (rl *RateLimiter) MutationMiddleware() func(next http.Handler) http.Handler {
	return rl.middleware("mutation", rl.getOrCreateLimiter(&rl.mutationMu, rl.mutationLimiters, rl.config.MutationRate, rl.config.MutationBurst), rl.config.MutationRate)
}

// middleware は制限種別ごとの共通ミドルウェア実装。
func (rl *RateLimiter) middleware(limitType string, getLimiter func(key string) *rate.Limiter, r rate.Limit) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			clientIP, err := ClientIPFromContext(req.Context())
			if err != nil {
				clientIP = remoteHost(req.RemoteAddr)
			}

			if !getLimiter(clientIP).Allow() {
				writeRateLimitResponse(w, r)
				slog.Warn("rate limit exceeded",
					slog.String("client_ip", clientIP),
					slog.String("limit_type", limitType),
				)
				return
			}

			next.ServeHTTP(w, req)
		})
	}
}

// getOrCreateLimiter は指定のマップからIPごとのリミッターを取得または作成する
// 関数を返す。
func (rl *RateLimiter) getOrCreateLimiter(mu *sync.RWMutex, limiters map[string]*ipLimiter, r rate.Limit, burst int) func(key string) *rate.Limiter {
	return func(key string) *rate.Limiter {
		mu.RLock()
		il, exists := limiters[key]
		mu.RUnlock()

		if exists {
			mu.Lock()
			il.lastAccess = time.Now()
			mu.Unlock()
			return il.limiter
		}

		mu.Lock()
		defer mu.Unlock()

		// ダブルチェック
		if il, exists := limiters[key]; exists {
			il.lastAccess = time.Now()
			return il.limiter
		}

		limiter := rate.NewLimiter(r, burst)
		limiters[key] = &ipLimiter{
			limiter:    limiter,
			lastAccess: time.Now(),
		}

		return limiter
	}
}

// LimiterCounts は現在管理されているリミッターのエントリ数を返す。
// テストおよびメトリクス用。
func (rl *RateLimiter) LimiterCounts() (general, mutation int) {
	rl.generalMu.RLock()
	general = len(rl.generalLimiters)
	rl.generalMu.RUnlock()

	rl.mutationMu.RLock()
	mutation = len(rl.mutationLimiters)
	rl.mutationMu.RUnlock()
	return general, mutation
}

// cleanupLoop はバックグラウンドで期限切れエントリを定期的にクリーンアップする。
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup は最終アクセス時刻がCleanupIntervalの2倍を超えたエントリを削除する。
func (rl *RateLimiter) cleanup() {
	ttl := rl.config.CleanupInterval * 2
	now := time.Now()

	rl.generalMu.Lock()
	for ip, il := range rl.generalLimiters {
		if now.Sub(il.lastAccess) > ttl {
			delete(rl.generalLimiters, ip)
		}
	}
	rl.generalMu.Unlock()

	rl.mutationMu.Lock()
	for ip, il := range rl.mutationLimiters {
		if now.Sub(il.lastAccess) > ttl {
			delete(rl.mutationLimiters, ip)
		}
	}
	rl.mutationMu.Unlock()
}

// writeRateLimitResponse は429 Too Many Requestsレスポンスを書き込む。
// Retry-Afterヘッダーにはトークンが補充されるまでの推定秒数を設定する。
func writeRateLimitResponse(w http.ResponseWriter, r rate.Limit) {
	retryAfterSec := int(math.Ceil(1.0 / float64(r)))
	if retryAfterSec < 1 {
		retryAfterSec = 1
	}

	w.Header().Set("Retry-After", strconv.Itoa(retryAfterSec))
	WriteErrorResponse(w, http.StatusTooManyRequests, &model.SiteError{
		Code:     "RATE_LIMIT_EXCEEDED",
		Message:  "Too many requests. Please try again later.",
		Category: "system",
	})
}
