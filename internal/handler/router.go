package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fintechrp/website/internal/metrics"
	"github.com/fintechrp/website/internal/middleware"
)

// Pinger はヘルスチェックが叩く依存先の疎通確認インターフェース。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はルーター構築に必要な依存の集合。
type RouterDeps struct {
	Site        *SiteHandler
	Interaction *InteractionHandler
	Feed        *FeedHandler
	Admin       *AdminHandler

	SessionFinder middleware.SessionFinder
	RateLimiter   *middleware.RateLimiter
	AdminPrefix   string
	AdminIPs      []string

	StatusRecorder middleware.StatusRecorder
	Gatherer       prometheus.Gatherer

	DB Pinger
}

// NewRouter はアプリケーション全体のHTTPルーターを構築する。
//
// ミドルウェアの並び順には意味がある。プロキシヘッダーの正規化は
// クライアントIPに依存する全処理（ロギング、レート制限、管理画面の
// IP制限）より前、リカバリは最外殻に置く。
func NewRouter(deps RouterDeps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewProxyHeaderMiddleware())
	r.Use(middleware.NewLoggingMiddleware(slog.Default()))
	if deps.StatusRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.StatusRecorder))
	}
	r.Use(middleware.NewCanonicalHostMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewStaffSessionMiddleware(deps.SessionFinder))
	r.Use(middleware.NewAdminGuardMiddleware(middleware.AdminGuardConfig{
		PathPrefix: deps.AdminPrefix,
		AllowedIPs: deps.AdminIPs,
	}))
	if deps.RateLimiter != nil {
		r.Use(deps.RateLimiter.GeneralMiddleware())
	}

	mutation := func(h http.HandlerFunc) http.HandlerFunc {
		if deps.RateLimiter == nil {
			return h
		}
		return deps.RateLimiter.MutationMiddleware()(h).ServeHTTP
	}

	r.Get("/", deps.Site.Home)
	r.Get("/articles/", deps.Site.ListArticles)
	r.Get("/articles/{category}/", deps.Site.ListArticles)
	r.Get("/article/{slug}/", deps.Site.ArticleDetail)
	r.Post("/article/{slug}/comment/", mutation(deps.Interaction.SubmitComment))
	r.Post("/article/{slug}/like/", mutation(deps.Interaction.ToggleLike))

	r.Get("/contact/", deps.Interaction.ContactPage)
	r.Post("/contact/", mutation(deps.Interaction.SubmitContact))
	r.Post("/newsletter/signup/", mutation(deps.Interaction.NewsletterSignup))

	r.Get("/about/", deps.Site.About)
	r.Get("/privacy-policy/", deps.Site.PolicyPage("privacy"))
	r.Get("/terms-of-service/", deps.Site.PolicyPage("terms"))
	r.Get("/cookie-policy/", deps.Site.PolicyPage("cookie"))

	r.Get("/feed.xml", deps.Feed.Feed)
	r.Get("/robots.txt", deps.Site.Robots)

	r.Get("/healthz", newHealthHandler(deps.DB))
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.SetupMetricsRoute(deps.Gatherer))
	}

	r.Route(deps.AdminPrefix, func(admin chi.Router) {
		admin.Get("/login/", deps.Admin.LoginPage)
		admin.Post("/login/", mutation(deps.Admin.Login))

		admin.Group(func(staff chi.Router) {
			staff.Use(deps.Admin.RequireStaff)
			staff.Get("/", deps.Admin.Dashboard)
			staff.Post("/logout/", deps.Admin.Logout)
			staff.Get("/articles/new/", deps.Admin.NewArticlePage)
			staff.Post("/articles/new/", deps.Admin.CreateArticle)
			staff.Get("/articles/{id}/edit/", deps.Admin.EditArticlePage)
			staff.Post("/articles/{id}/edit/", deps.Admin.UpdateArticle)
			staff.Get("/comments/", deps.Admin.PendingComments)
			staff.Post("/comments/{id}/approve/", deps.Admin.ApproveComment)
			staff.Get("/newsletter/", deps.Admin.NewsletterList)
			staff.Get("/contacts/", deps.Admin.ContactList)
		})
	})

	r.NotFound(deps.Site.NotFound)

	return r
}

// newHealthHandler はDBへの疎通確認を含むヘルスチェックハンドラーを返す。
func newHealthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				slog.Error("healthcheck failed", slog.String("error", err.Error()))
				http.Error(w, "unhealthy", http.StatusServiceUnavailable)
				return
			}
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	}
}
