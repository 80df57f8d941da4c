// Package handler はHTTPハンドラーとルーティングを提供する。
package handler

import (
	"context"
	"errors"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fintechrp/website/internal/content"
	"github.com/fintechrp/website/internal/model"
	"github.com/fintechrp/website/internal/render"
)

// listExcerptRunes は一覧表示の抜粋文字数。
const listExcerptRunes = 200

// MetricsRecorder はハンドラーが必要とするメトリクス収集インターフェース。
// metrics.Collectorの部分集合として定義する。
type MetricsRecorder interface {
	RecordArticleView(category string)
	RecordLikeToggle(liked bool)
	RecordCommentSubmitted(autoApproved bool)
	RecordNewsletterSignup()
}

// nopMetrics はメトリクス未設定時のフォールバック実装。
type nopMetrics struct{}

func (nopMetrics) RecordArticleView(string)    {}
func (nopMetrics) RecordLikeToggle(bool)       {}
func (nopMetrics) RecordCommentSubmitted(bool) {}
func (nopMetrics) RecordNewsletterSignup()     {}

// SiteHandler は公開サイトのページハンドラー。
type SiteHandler struct {
	content  *content.Service
	renderer *render.Renderer
	metrics  MetricsRecorder
}

// NewSiteHandler はSiteHandlerを生成する。
// metricsがnilの場合は何も記録しない実装を使う。
func NewSiteHandler(contentSvc *content.Service, renderer *render.Renderer, metrics MetricsRecorder) *SiteHandler {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &SiteHandler{
		content:  contentSvc,
		renderer: renderer,
		metrics:  metrics,
	}
}

// articleView は一覧テンプレートに渡す記事と抜粋の組。
type articleView struct {
	Article *model.Article
	Excerpt string
}

// articleViews は記事リストをテンプレート用のビューに変換する。
// summaryがあればそれを抜粋に使い、なければ本文から生成する。
func articleViews(articles []*model.Article) []articleView {
	views := make([]articleView, 0, len(articles))
	for _, a := range articles {
		excerpt := a.Summary
		if excerpt == "" {
			excerpt = content.Excerpt(a.Body, listExcerptRunes)
		}
		views = append(views, articleView{Article: a, Excerpt: excerpt})
	}
	return views
}

// Home はホームページを表示する。
// GET /
func (h *SiteHandler) Home(w http.ResponseWriter, r *http.Request) {
	articles, err := h.content.Home(r.Context())
	if err != nil {
		h.renderServerError(w, err)
		return
	}

	h.renderer.HTML(w, http.StatusOK, "home.html", map[string]any{
		"Articles": articleViews(articles),
		"Flash":    render.PopFlash(w, r),
	})
}

// ListArticles は記事一覧を表示する。
// GET /articles/ および GET /articles/{category}/?q=
// 未知のカテゴリスラッグはフィルタなしとして扱う。
func (h *SiteHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	categorySlug := chi.URLParam(r, "category")
	query := r.URL.Query().Get("q")

	spec := h.content.BuildQuery(categorySlug, query)

	articles, err := h.content.List(r.Context(), spec)
	if err != nil {
		h.renderServerError(w, err)
		return
	}

	categoryLabel := "All"
	if spec.Category != nil {
		categoryLabel = spec.Category.Label()
	}

	h.renderer.HTML(w, http.StatusOK, "article_list.html", map[string]any{
		"Articles":      articleViews(articles),
		"CategoryLabel": categoryLabel,
		"Query":         spec.SearchText,
		"Flash":         render.PopFlash(w, r),
	})
}

// ArticleDetail は記事詳細を表示する。
// GET /article/{slug}/
// 存在しない記事と下書き記事はどちらも同一の404になる。
func (h *SiteHandler) ArticleDetail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	article, err := h.content.Detail(r.Context(), slug)
	if err != nil {
		h.renderContentError(w, err)
		return
	}

	h.content.RecordView(r.Context(), article.ID)
	h.metrics.RecordArticleView(string(article.Category))

	h.renderDetail(w, r.Context(), article, http.StatusOK, nil, nil, render.PopFlash(w, r))
}

// renderDetail は記事詳細ページをレンダリングする。
// コメントフォームの再表示（バリデーションエラー時）と通常表示で共用する。
func (h *SiteHandler) renderDetail(w http.ResponseWriter, ctx context.Context, article *model.Article, statusCode int, form map[string]string, formErrors map[string]string, flash string) {
	comments, err := h.content.ApprovedComments(ctx, article.ID)
	if err != nil {
		h.renderServerError(w, err)
		return
	}

	likesCount, err := h.content.LikesCount(ctx, article.ID)
	if err != nil {
		h.renderServerError(w, err)
		return
	}

	h.renderer.HTML(w, statusCode, "article_detail.html", map[string]any{
		"Article":    article,
		"Body":       template.HTML(article.Body), // サニタイズ済みHTML
		"Comments":   comments,
		"LikesCount": likesCount,
		"Form": map[string]string{
			"AuthorName":  form["name"],
			"AuthorEmail": form["email"],
			"Body":        form["body"],
		},
		"FormErrors": formErrors,
		"Flash":      flash,
	})
}

// policyPage は静的ポリシーページの定義。
type policyPage struct {
	Title string
	Body  template.HTML
}

// policyPages はポリシーキーからページ定義への固定マップ。
// 未知のキーは404になる。
var policyPages = map[string]policyPage{
	"privacy": {
		Title: "Privacy Policy",
		Body:  template.HTML("<p>We respect your privacy. Personal data submitted through this site is used only to respond to inquiries and deliver the newsletter.</p>"),
	},
	"terms": {
		Title: "Terms of Service",
		Body:  template.HTML("<p>Content on this site is provided for general information only and does not constitute financial advice.</p>"),
	},
	"cookie": {
		Title: "Cookie Policy",
		Body:  template.HTML("<p>This site uses cookies to keep track of session state and one-time notifications.</p>"),
	},
}

// PolicyPage は指定キーのポリシーページを表示する。
// GET /privacy-policy/ など。未知のキーは404を返す。
func (h *SiteHandler) PolicyPage(policyKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, ok := policyPages[policyKey]
		if !ok {
			h.renderer.NotFound(w)
			return
		}

		h.renderer.HTML(w, http.StatusOK, "policy.html", map[string]any{
			"PolicyTitle": page.Title,
			"PolicyBody":  page.Body,
		})
	}
}

// About は会社紹介ページを表示する。GET /about/
func (h *SiteHandler) About(w http.ResponseWriter, r *http.Request) {
	h.renderer.HTML(w, http.StatusOK, "about.html", nil)
}

// robotsBody はクローラー向けの固定レスポンス。
// 管理画面のパスはrobots.txtに載せると存在が露出するため記載しない。
const robotsBody = "User-agent: *\nAllow: /\n"

// Robots はrobots.txtを返す。GET /robots.txt
func (h *SiteHandler) Robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(robotsBody))
}

// NotFound は未定義ルートの404ハンドラー。
func (h *SiteHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderer.NotFound(w)
}

// renderContentError はコンテンツ取得エラーをHTTPレスポンスに変換する。
func (h *SiteHandler) renderContentError(w http.ResponseWriter, err error) {
	var siteErr *model.SiteError
	if errors.As(err, &siteErr) && siteErr.Category == "not_found" {
		h.renderer.NotFound(w)
		return
	}
	h.renderServerError(w, err)
}

// renderServerError は内部エラーページを表示する。
// 詳細はログのみに記録する。
func (h *SiteHandler) renderServerError(w http.ResponseWriter, err error) {
	logServerError(err)
	h.renderer.HTML(w, http.StatusInternalServerError, "error.html", map[string]any{
		"Title":   "Something Went Wrong",
		"Message": "An internal error occurred. Please try again later.",
	})
}
