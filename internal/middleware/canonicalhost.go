package middleware

import (
	"net/http"
	"strings"
)

// NewCanonicalHostMiddleware は単一の正規ドメインを強制するミドルウェアを返す。
//
// 実効ホストが"www."で始まる場合（大文字小文字を区別しない）、
// プレフィックスを除いた同一スキーム・パス・クエリへ301リダイレクトする。
// それ以外は素通しする。プロキシヘッダー正規化の後に実行すること。
func NewCanonicalHostMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := r.Host
			if len(host) < 4 || !strings.EqualFold(host[:4], "www.") {
				next.ServeHTTP(w, r)
				return
			}

			target := requestScheme(r) + "://" + host[4:] + r.URL.Path
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}

			http.Redirect(w, r, target, http.StatusMovedPermanently)
		})
	}
}

// requestScheme はリクエストのスキームを返す。
// TLS終端がプロキシで行われる構成ではX-Forwarded-Protoを優先する。
func requestScheme(r *http.Request) string {
	if proto := firstForwardedValue(r.Header.Get("X-Forwarded-Proto")); proto != "" {
		return proto
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}
