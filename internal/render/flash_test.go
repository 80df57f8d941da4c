package render

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// ユニットテスト: SetFlashで保存したメッセージをPopFlashで取り出せること
func TestFlash_SetAndPopRoundTrip(t *testing.T) {
	setRec := httptest.NewRecorder()
	SetFlash(setRec, "コメントを受け付けました。承認後に表示されます。")

	cookies := setRec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	if !cookies[0].HttpOnly {
		t.Error("expected HttpOnly flash cookie")
	}

	// 次のリクエストにCookieを乗せてPopFlashする
	req := httptest.NewRequest(http.MethodGet, "/article/test/", nil)
	req.AddCookie(cookies[0])
	popRec := httptest.NewRecorder()

	got := PopFlash(popRec, req)
	if got != "コメントを受け付けました。承認後に表示されます。" {
		t.Errorf("PopFlash = %q, want original message", got)
	}

	// PopFlash後にCookieが削除されていること
	var cleared bool
	for _, c := range popRec.Result().Cookies() {
		if c.Name == flashCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected flash cookie to be cleared after PopFlash")
	}
}

// ユニットテスト: Cookieがない場合は空文字列を返すこと
func TestPopFlash_NoCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	if got := PopFlash(rec, req); got != "" {
		t.Errorf("PopFlash = %q, want empty string", got)
	}
}

// ユニットテスト: 不正なCookie値は空文字列として扱うこと
func TestPopFlash_InvalidValue(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: flashCookieName, Value: "%%%not-base64%%%"})
	rec := httptest.NewRecorder()

	if got := PopFlash(rec, req); got != "" {
		t.Errorf("PopFlash = %q, want empty string for invalid value", got)
	}
}
