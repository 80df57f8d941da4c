package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func newTestRateLimiter(t *testing.T, mutationBurst int) *RateLimiter {
	t.Helper()
	rl := NewRateLimiter(RateLimiterConfig{
		GeneralRate:     rate.Limit(100),
		GeneralBurst:    100,
		MutationRate:    rate.Limit(0.01),
		MutationBurst:   mutationBurst,
		CleanupInterval: time.Hour,
	})
	t.Cleanup(rl.Stop)
	return rl
}

// バースト上限を超えた投稿系リクエストが429になることを検証
func TestRateLimiter_MutationBurstExceeded_Returns429(t *testing.T) {
	rl := newTestRateLimiter(t, 2)
	mw := rl.MutationMiddleware()

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	doRequest := func() *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/newsletter/signup/", nil)
		req = req.WithContext(ContextWithClientIP(req.Context(), "203.0.113.7"))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Result()
	}

	for i := 0; i < 2; i++ {
		if resp := doRequest(); resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i+1, resp.StatusCode, http.StatusOK)
		}
	}

	resp := doRequest()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusTooManyRequests)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Error("expected Retry-After header on 429 response")
	}
}

// IPごとに独立したリミッターが使われることを検証
func TestRateLimiter_DifferentIPs_IndependentLimits(t *testing.T) {
	rl := newTestRateLimiter(t, 1)
	mw := rl.MutationMiddleware()

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	doRequest := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/article/abc/like/", nil)
		req = req.WithContext(ContextWithClientIP(req.Context(), ip))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Result().StatusCode
	}

	if got := doRequest("203.0.113.1"); got != http.StatusOK {
		t.Fatalf("first IP: status = %d, want %d", got, http.StatusOK)
	}
	if got := doRequest("203.0.113.1"); got != http.StatusTooManyRequests {
		t.Fatalf("first IP second request: status = %d, want %d", got, http.StatusTooManyRequests)
	}
	if got := doRequest("203.0.113.2"); got != http.StatusOK {
		t.Fatalf("second IP: status = %d, want %d", got, http.StatusOK)
	}

	general, mutation := rl.LimiterCounts()
	if general != 0 {
		t.Errorf("general limiter count = %d, want 0", general)
	}
	if mutation != 2 {
		t.Errorf("mutation limiter count = %d, want 2", mutation)
	}
}

// 閲覧系と投稿系のリミッターが分離されていることを検証
func TestRateLimiter_GeneralAndMutation_AreSeparate(t *testing.T) {
	rl := newTestRateLimiter(t, 1)

	generalHandler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	mutationHandler := rl.MutationMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/contact/", nil)
	req = req.WithContext(ContextWithClientIP(req.Context(), "203.0.113.3"))

	// 投稿系の上限を使い切る
	w := httptest.NewRecorder()
	mutationHandler.ServeHTTP(w, req)
	w = httptest.NewRecorder()
	mutationHandler.ServeHTTP(w, req)
	if w.Result().StatusCode != http.StatusTooManyRequests {
		t.Fatalf("mutation status = %d, want %d", w.Result().StatusCode, http.StatusTooManyRequests)
	}

	// 閲覧系は引き続き許可される
	w = httptest.NewRecorder()
	generalHandler.ServeHTTP(w, req)
	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("general status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
}
