package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/fintechrp/website/internal/model"
)

// SessionCookieName はスタッフセッションIDを保持するCookie名。
const SessionCookieName = "staff_session_id"

// staffIDContextKey はリクエストコンテキストにスタッフIDを格納するためのキー。
var staffIDContextKey = contextKey("staff_id")

// SessionFinder はセッションの検索に必要なインターフェース。
// repository.SessionRepositoryの部分集合として定義する。
type SessionFinder interface {
	FindByID(ctx context.Context, id string) (*model.Session, error)
}

// NewStaffSessionMiddleware はHTTP Only Cookieからスタッフセッションを読み取り、
// 有効ならスタッフIDをリクエストコンテキストに注入するミドルウェアを返す。
//
// 公開サイトは匿名訪問者に配信するため、セッションがない・無効な場合も
// リクエストを拒否せず匿名のまま素通しする。承認済み主体が必要な箇所
// （コメント自動承認、いいね主体の導出）はコンテキストの有無で分岐する。
func NewStaffSessionMiddleware(sessionFinder SessionFinder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			session, err := sessionFinder.FindByID(r.Context(), cookie.Value)
			if err != nil {
				slog.Error("failed to find session",
					slog.String("error", err.Error()),
				)
				next.ServeHTTP(w, r)
				return
			}
			if session == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), staffIDContextKey, session.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// StaffIDFromContext はリクエストコンテキストからスタッフIDを取得する。
// 未認証の場合はエラーを返す。
func StaffIDFromContext(ctx context.Context) (string, error) {
	staffID, ok := ctx.Value(staffIDContextKey).(string)
	if !ok || staffID == "" {
		return "", fmt.Errorf("staff ID not found in context")
	}
	return staffID, nil
}

// ContextWithStaffID はコンテキストにスタッフIDを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithStaffID(ctx context.Context, staffID string) context.Context {
	return context.WithValue(ctx, staffIDContextKey, staffID)
}
