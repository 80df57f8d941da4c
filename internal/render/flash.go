package render

import (
	"encoding/base64"
	"net/http"
)

// flashCookieName はフラッシュメッセージを一時保持するCookie名。
const flashCookieName = "flash"

// SetFlash は次のリクエストで1回だけ表示するメッセージをCookieに保存する。
// リダイレクト前に呼び出す。
func SetFlash(w http.ResponseWriter, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    base64.URLEncoding.EncodeToString([]byte(message)),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash はフラッシュメッセージを取り出し、Cookieを削除する。
// メッセージがない場合は空文字列を返す。
func PopFlash(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	decoded, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return ""
	}
	return string(decoded)
}
