// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// clientIPContextKey はリクエストコンテキストにクライアントIPを格納するためのキー。
var clientIPContextKey = contextKey("client_ip")

// NewProxyHeaderMiddleware はリバースプロキシ経由のヘッダーを正規化するミドルウェアを返す。
//
// 多段プロキシを経由したリクエストではX-Forwarded-Host / X-Forwarded-Forが
// カンマ結合された複数値になることがある。先頭トークンを採り、前後の空白を
// 除去した単一値に正規化した上で、下流が読む前にリクエストメタデータを
// 書き換える。ヘッダーが存在しない場合は何もしない。
//
// クライアントIPはX-Forwarded-Forの先頭トークン、なければ直接接続の
// アドレスにフォールバックし、コンテキストに格納する。
// 他のすべてのミドルウェアより先に実行すること。
func NewProxyHeaderMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 実効ホストの正規化
			if fwdHost := firstForwardedValue(r.Header.Get("X-Forwarded-Host")); fwdHost != "" {
				r.Host = fwdHost
				r.Header.Set("X-Forwarded-Host", fwdHost)
			} else if first := firstForwardedValue(r.Host); first != "" {
				r.Host = first
			}

			// クライアントIPの導出
			ip := firstForwardedValue(r.Header.Get("X-Forwarded-For"))
			if ip != "" {
				r.Header.Set("X-Forwarded-For", ip)
			} else {
				ip = remoteHost(r.RemoteAddr)
			}

			ctx := context.WithValue(r.Context(), clientIPContextKey, ip)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// firstForwardedValue はカンマ結合されたヘッダー値から先頭トークンを取り出し、
// 前後の空白を除去して返す。空の入力には空文字列を返す。
func firstForwardedValue(v string) string {
	if v == "" {
		return ""
	}
	first, _, _ := strings.Cut(v, ",")
	return strings.TrimSpace(first)
}

// remoteHost はRemoteAddr（"host:port"形式）からホスト部分を取り出す。
func remoteHost(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}

// ClientIPFromContext はリクエストコンテキストからクライアントIPを取得する。
// プロキシヘッダーミドルウェアを通過したリクエストでのみ有効。
func ClientIPFromContext(ctx context.Context) (string, error) {
	ip, ok := ctx.Value(clientIPContextKey).(string)
	if !ok || ip == "" {
		return "", fmt.Errorf("client IP not found in context")
	}
	return ip, nil
}

// ContextWithClientIP はコンテキストにクライアントIPを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPContextKey, ip)
}
