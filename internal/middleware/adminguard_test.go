package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const testAdminPrefix = "/control-panel-72d3"

func newGuardedHandler(t *testing.T, allowedIPs []string, called *bool) http.Handler {
	t.Helper()
	guard := NewAdminGuardMiddleware(AdminGuardConfig{
		PathPrefix: testAdminPrefix,
		AllowedIPs: allowedIPs,
	})
	return guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	}))
}

// 許可リストに含まれるIPは管理画面に到達できることを検証
func TestAdminGuard_AllowedIP_PassesThrough(t *testing.T) {
	var called bool
	handler := newGuardedHandler(t, []string{"203.0.113.5"}, &called)

	req := httptest.NewRequest(http.MethodGet, testAdminPrefix+"/", nil)
	req = req.WithContext(ContextWithClientIP(req.Context(), "203.0.113.5"))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if !called {
		t.Error("handler should be called for allowed IP")
	}
}

// 許可リスト外のIPは403になりハンドラーが呼ばれないことを検証
func TestAdminGuard_DisallowedIP_Returns403(t *testing.T) {
	var called bool
	handler := newGuardedHandler(t, []string{"203.0.113.5"}, &called)

	req := httptest.NewRequest(http.MethodGet, testAdminPrefix+"/", nil)
	req = req.WithContext(ContextWithClientIP(req.Context(), "198.51.100.9"))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if called {
		t.Error("handler should not be called for disallowed IP")
	}
	resp := w.Result()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusForbidden)
	}

	// 拒否理由の詳細を漏らさないこと
	body := w.Body.String()
	if strings.Contains(body, "203.0.113.5") || strings.Contains(body, "allow") {
		t.Errorf("response should not leak allow-list details, got %q", body)
	}
}

// 許可リストが空のときは全リクエストが拒否されることを検証（フェイルクローズ）
func TestAdminGuard_EmptyAllowList_RejectsAll(t *testing.T) {
	var called bool
	handler := newGuardedHandler(t, nil, &called)

	req := httptest.NewRequest(http.MethodGet, testAdminPrefix+"/", nil)
	req = req.WithContext(ContextWithClientIP(req.Context(), "127.0.0.1"))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if called {
		t.Error("handler should not be called when allow-list is empty")
	}
	if w.Result().StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusForbidden)
	}
}

// 管理画面以外のパスはIPに関係なく素通しされることを検証
func TestAdminGuard_NonAdminPath_PassesThrough(t *testing.T) {
	var called bool
	handler := newGuardedHandler(t, nil, &called)

	req := httptest.NewRequest(http.MethodGet, "/articles/", nil)
	req = req.WithContext(ContextWithClientIP(req.Context(), "198.51.100.9"))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if !called {
		t.Error("handler should be called for non-admin path")
	}
}

// コンテキストにIPがないときX-Forwarded-Forから直接導出されることを検証
func TestAdminGuard_NoContextIP_DerivesFromHeaders(t *testing.T) {
	var called bool
	handler := newGuardedHandler(t, []string{"203.0.113.5"}, &called)

	req := httptest.NewRequest(http.MethodGet, testAdminPrefix+"/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if !called {
		t.Error("handler should be called when XFF first token is allowed")
	}
}

func TestIsAdminPath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want bool
	}{
		{"プレフィックス自体", testAdminPrefix, true},
		{"プレフィックス配下", testAdminPrefix + "/login/", true},
		{"境界外の類似パス", testAdminPrefix + "x/login/", false},
		{"無関係なパス", "/articles/", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isAdminPath(tt.path, testAdminPrefix); got != tt.want {
				t.Errorf("isAdminPath(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
