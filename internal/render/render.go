// Package render はHTMLテンプレートのレンダリングを提供する。
//
// コアのロジックから見るとレンダリングは外部協力者であり、
// このパッケージはテンプレート識別子とコンテキストマップから
// HTMLドキュメントを生成する薄い層に留める。
package render

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/fintechrp/website/internal/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

// SiteName はテンプレートに渡すサイト名。
const SiteName = "FinTechRP"

// Renderer はテンプレート識別子からHTMLドキュメントを生成する。
// ページテンプレートはベースレイアウトと組にしてパースする。
type Renderer struct {
	pages map[string]*template.Template
}

// pageTemplates はレンダリング可能なページテンプレートの一覧。
var pageTemplates = []string{
	"home.html",
	"article_list.html",
	"article_detail.html",
	"contact.html",
	"contact_thanks.html",
	"policy.html",
	"about.html",
	"error.html",
	"admin_login.html",
	"admin_dashboard.html",
	"admin_article_form.html",
	"admin_comments.html",
	"admin_newsletter.html",
	"admin_contacts.html",
}

// New はembedされたテンプレートをパースしてRendererを生成する。
func New() (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageTemplates))
	for _, page := range pageTemplates {
		t, err := template.ParseFS(templatesFS, "templates/base.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		pages[page] = t
	}
	return &Renderer{pages: pages}, nil
}

// Context はテンプレートに渡すコンテキストマップを生成する。
// サイト名とナビゲーション用カテゴリを常に含む。
func Context(data map[string]any) map[string]any {
	ctx := map[string]any{
		"SiteName":   SiteName,
		"Categories": model.Categories(),
	}
	for k, v := range data {
		ctx[k] = v
	}
	return ctx
}

// HTML は指定テンプレートをレンダリングしてレスポンスに書き込む。
// 未知のテンプレート識別子とレンダリング失敗は500として処理する。
func (r *Renderer) HTML(w http.ResponseWriter, statusCode int, page string, data map[string]any) {
	t, ok := r.pages[page]
	if !ok {
		slog.Error("unknown template", slog.String("page", page))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := t.ExecuteTemplate(w, "base", Context(data)); err != nil {
		slog.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
	}
}

// NotFound は404ページをレンダリングする。
// 「存在しない」と「存在するが非公開」で同一の出力になる。
func (r *Renderer) NotFound(w http.ResponseWriter) {
	r.HTML(w, http.StatusNotFound, "error.html", map[string]any{
		"Title":   "Page Not Found",
		"Message": "The page you are looking for could not be found.",
	})
}
