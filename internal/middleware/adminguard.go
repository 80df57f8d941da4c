package middleware

import (
	"log/slog"
	"net/http"
	"strings"
)

// AdminGuardConfig は管理画面アクセス制限の設定を保持する。
type AdminGuardConfig struct {
	// PathPrefix は管理画面のパスプレフィックス（例: "/control-panel-72d3"）。
	PathPrefix string
	// AllowedIPs はアクセスを許可するクライアントIPの集合。
	// 空の場合はすべての管理画面リクエストを拒否する（フェイルクローズ）。
	AllowedIPs []string
}

// NewAdminGuardMiddleware は管理画面パスへのIP許可リスト制限を行うミドルウェアを返す。
//
// パスが管理画面プレフィックスで始まるリクエストについて、プロキシヘッダー
// ミドルウェアが導出したクライアントIP（X-Forwarded-Forの先頭トークン、
// なければ直接接続アドレス）を許可リストと照合する。許可されていない場合は
// 403を返し、ルートハンドラーは呼び出さない。詳細は漏らさない。
//
// 許可リストが空のときは起動元マシンからのリクエストも含めて全て拒否する。
// プロキシヘッダー正規化の後、ルーティングの前に実行すること。
func NewAdminGuardMiddleware(cfg AdminGuardConfig) func(next http.Handler) http.Handler {
	prefix := "/" + strings.Trim(cfg.PathPrefix, "/")

	allowed := make(map[string]struct{}, len(cfg.AllowedIPs))
	for _, ip := range cfg.AllowedIPs {
		allowed[strings.TrimSpace(ip)] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isAdminPath(r.URL.Path, prefix) {
				next.ServeHTTP(w, r)
				return
			}

			clientIP, err := ClientIPFromContext(r.Context())
			if err != nil {
				// プロキシヘッダーミドルウェアを通っていない場合は直接導出する
				clientIP = firstForwardedValue(r.Header.Get("X-Forwarded-For"))
				if clientIP == "" {
					clientIP = remoteHost(r.RemoteAddr)
				}
			}

			if _, ok := allowed[clientIP]; !ok {
				slog.Warn("admin access denied",
					slog.String("path", r.URL.Path),
					slog.String("client_ip", clientIP),
				)
				http.Error(w, "Access to admin is restricted", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// isAdminPath はパスが管理画面プレフィックス配下かを判定する。
// "/control-panel"プレフィックスに対して"/control-panel-other"のような
// 別パスが誤って一致しないよう、境界を確認する。
func isAdminPath(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	rest := path[len(prefix):]
	return rest == "" || strings.HasPrefix(rest, "/")
}
