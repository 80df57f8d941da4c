package handler

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fintechrp/website/internal/auth"
	"github.com/fintechrp/website/internal/middleware"
	"github.com/fintechrp/website/internal/model"
	"github.com/fintechrp/website/internal/render"
	"github.com/fintechrp/website/internal/repository"
	"github.com/fintechrp/website/internal/security"
)

// AdminHandler は管理画面のHTTPハンドラー。
// 管理画面への到達自体はIP許可リストのミドルウェアが制限し、
// 各操作（ログインを除く）はスタッフセッションを要求する。
type AdminHandler struct {
	auth          *auth.Service
	articles      repository.ArticleRepository
	comments      repository.CommentRepository
	newsletter    repository.NewsletterRepository
	contacts      repository.ContactRepository
	sanitizer     security.ContentSanitizerService
	renderer      *render.Renderer
	adminPrefix   string
	cookieSecure  bool
	sessionMaxAge int
}

// AdminHandlerConfig はAdminHandlerの生成パラメータ。
type AdminHandlerConfig struct {
	Auth          *auth.Service
	Articles      repository.ArticleRepository
	Comments      repository.CommentRepository
	Newsletter    repository.NewsletterRepository
	Contacts      repository.ContactRepository
	Sanitizer     security.ContentSanitizerService
	Renderer      *render.Renderer
	AdminPrefix   string
	CookieSecure  bool
	SessionMaxAge int
}

// NewAdminHandler はAdminHandlerを生成する。
func NewAdminHandler(cfg AdminHandlerConfig) *AdminHandler {
	return &AdminHandler{
		auth:          cfg.Auth,
		articles:      cfg.Articles,
		comments:      cfg.Comments,
		newsletter:    cfg.Newsletter,
		contacts:      cfg.Contacts,
		sanitizer:     cfg.Sanitizer,
		renderer:      cfg.Renderer,
		adminPrefix:   cfg.AdminPrefix,
		cookieSecure:  cfg.CookieSecure,
		sessionMaxAge: cfg.SessionMaxAge,
	}
}

// RequireStaff はスタッフセッションを要求するミドルウェア。
// 未認証のリクエストはログインページへリダイレクトする。
func (h *AdminHandler) RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.StaffIDFromContext(r.Context()); err != nil {
			http.Redirect(w, r, h.adminPrefix+"/login/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// LoginPage はログインフォームを表示する。
// GET {prefix}/login/
func (h *AdminHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.StaffIDFromContext(r.Context()); err == nil {
		http.Redirect(w, r, h.adminPrefix+"/", http.StatusSeeOther)
		return
	}
	h.renderLogin(w, http.StatusOK, "", "")
}

// Login はスタッフ認証を行いセッションCookieを発行する。
// POST {prefix}/login/
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	session, err := h.auth.Login(r.Context(), email, password)
	if err != nil {
		if err == auth.ErrInvalidCredentials {
			h.renderLogin(w, http.StatusUnauthorized, email, "Invalid email or password.")
			return
		}
		logServerError(err)
		h.renderLogin(w, http.StatusInternalServerError, email, "An internal error occurred. Please try again later.")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		MaxAge:   h.sessionMaxAge,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.adminPrefix+"/", http.StatusSeeOther)
}

func (h *AdminHandler) renderLogin(w http.ResponseWriter, statusCode int, email, errMessage string) {
	h.renderer.HTML(w, statusCode, "admin_login.html", map[string]any{
		"AdminPrefix": h.adminPrefix,
		"Form":        map[string]string{"Email": email},
		"Error":       errMessage,
	})
}

// Logout はセッションを破棄しCookieを無効化する。
// POST {prefix}/logout/
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		if err := h.auth.Logout(r.Context(), cookie.Value); err != nil {
			logServerError(err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.adminPrefix+"/login/", http.StatusSeeOther)
}

// Dashboard は全記事を公開状態込みで一覧表示する。
// GET {prefix}/
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	articles, err := h.articles.ListAll(r.Context())
	if err != nil {
		logServerError(err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.renderer.HTML(w, http.StatusOK, "admin_dashboard.html", map[string]any{
		"AdminPrefix": h.adminPrefix,
		"Articles":    articles,
	})
}

// articleForm は記事フォームの入力値。
type articleForm struct {
	Title    string
	Slug     string
	Summary  string
	Body     string
	Category string
	Status   string
	Tags     string
}

func articleFormFromRequest(r *http.Request) articleForm {
	return articleForm{
		Title:    strings.TrimSpace(r.PostFormValue("title")),
		Slug:     strings.TrimSpace(r.PostFormValue("slug")),
		Summary:  strings.TrimSpace(r.PostFormValue("summary")),
		Body:     r.PostFormValue("body"),
		Category: r.PostFormValue("category"),
		Status:   r.PostFormValue("status"),
		Tags:     r.PostFormValue("tags"),
	}
}

// slugPattern は記事スラッグとして許可する形式。
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func (f articleForm) validate() map[string]string {
	errs := map[string]string{}
	if f.Title == "" {
		errs["title"] = "Title is required."
	}
	if !slugPattern.MatchString(f.Slug) {
		errs["slug"] = "Slug must be lowercase letters, digits, and hyphens."
	}
	if strings.TrimSpace(f.Body) == "" {
		errs["body"] = "Body is required."
	}
	return errs
}

// toArticle はフォーム値を記事モデルに変換する。本文はサニタイズ済み。
func (h *AdminHandler) toArticle(f articleForm) *model.Article {
	category, ok := model.ParseCategorySlug(f.Category)
	if !ok {
		category = model.CategoryFinance
	}
	status, ok := model.ParseArticleStatus(f.Status)
	if !ok {
		status = model.StatusDraft
	}

	var tags []string
	for _, t := range strings.Split(f.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	return &model.Article{
		Slug:     f.Slug,
		Title:    f.Title,
		Summary:  f.Summary,
		Body:     h.sanitizer.SanitizeArticleBody(f.Body),
		Category: category,
		Status:   status,
		Tags:     tags,
	}
}

func (h *AdminHandler) renderArticleForm(w http.ResponseWriter, statusCode int, isNew bool, form articleForm, formErrors map[string]string) {
	h.renderer.HTML(w, statusCode, "admin_article_form.html", map[string]any{
		"AdminPrefix": h.adminPrefix,
		"IsNew":       isNew,
		"Form":        form,
		"FormErrors":  formErrors,
		"Statuses":    []model.ArticleStatus{model.StatusDraft, model.StatusPublished, model.StatusPremium},
	})
}

// NewArticlePage は記事作成フォームを表示する。
// GET {prefix}/articles/new/
func (h *AdminHandler) NewArticlePage(w http.ResponseWriter, r *http.Request) {
	h.renderArticleForm(w, http.StatusOK, true, articleForm{Status: string(model.StatusDraft)}, nil)
}

// CreateArticle は記事を作成する。
// POST {prefix}/articles/new/
func (h *AdminHandler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	form := articleFormFromRequest(r)
	if formErrors := form.validate(); len(formErrors) > 0 {
		h.renderArticleForm(w, http.StatusOK, true, form, formErrors)
		return
	}

	article := h.toArticle(form)
	article.ID = uuid.NewString()

	if err := h.articles.Create(r.Context(), article); err != nil {
		logServerError(err)
		h.renderArticleForm(w, http.StatusInternalServerError, true, form,
			map[string]string{"slug": "Could not save the article. The slug may already be in use."})
		return
	}

	http.Redirect(w, r, h.adminPrefix+"/", http.StatusSeeOther)
}

// EditArticlePage は記事編集フォームを表示する。
// GET {prefix}/articles/{id}/edit/
func (h *AdminHandler) EditArticlePage(w http.ResponseWriter, r *http.Request) {
	article, err := h.articles.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		logServerError(err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if article == nil {
		h.renderer.NotFound(w)
		return
	}

	h.renderArticleForm(w, http.StatusOK, false, articleForm{
		Title:    article.Title,
		Slug:     article.Slug,
		Summary:  article.Summary,
		Body:     article.Body,
		Category: article.Category.Slug(),
		Status:   string(article.Status),
		Tags:     strings.Join(article.Tags, ", "),
	}, nil)
}

// UpdateArticle は記事を更新する。
// POST {prefix}/articles/{id}/edit/
func (h *AdminHandler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, err := h.articles.FindByID(r.Context(), id)
	if err != nil {
		logServerError(err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if existing == nil {
		h.renderer.NotFound(w)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	form := articleFormFromRequest(r)
	if formErrors := form.validate(); len(formErrors) > 0 {
		h.renderArticleForm(w, http.StatusOK, false, form, formErrors)
		return
	}

	article := h.toArticle(form)
	article.ID = id

	if err := h.articles.Update(r.Context(), article); err != nil {
		logServerError(err)
		h.renderArticleForm(w, http.StatusInternalServerError, false, form,
			map[string]string{"slug": "Could not save the article. The slug may already be in use."})
		return
	}

	http.Redirect(w, r, h.adminPrefix+"/", http.StatusSeeOther)
}

// PendingComments は未承認コメントを一覧表示する。
// GET {prefix}/comments/
func (h *AdminHandler) PendingComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.comments.ListPending(r.Context())
	if err != nil {
		logServerError(err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.renderer.HTML(w, http.StatusOK, "admin_comments.html", map[string]any{
		"AdminPrefix": h.adminPrefix,
		"Comments":    comments,
	})
}

// ApproveComment はコメントを承認する。
// POST {prefix}/comments/{id}/approve/
func (h *AdminHandler) ApproveComment(w http.ResponseWriter, r *http.Request) {
	approved, err := h.comments.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		logServerError(err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if !approved {
		h.renderer.NotFound(w)
		return
	}
	http.Redirect(w, r, h.adminPrefix+"/comments/", http.StatusSeeOther)
}

// NewsletterList は購読者を一覧表示する。
// GET {prefix}/newsletter/
func (h *AdminHandler) NewsletterList(w http.ResponseWriter, r *http.Request) {
	subscribers, err := h.newsletter.List(r.Context())
	if err != nil {
		logServerError(err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.renderer.HTML(w, http.StatusOK, "admin_newsletter.html", map[string]any{
		"AdminPrefix": h.adminPrefix,
		"Subscribers": subscribers,
	})
}

// ContactList はお問い合わせを一覧表示する。
// GET {prefix}/contacts/
func (h *AdminHandler) ContactList(w http.ResponseWriter, r *http.Request) {
	messages, err := h.contacts.List(r.Context())
	if err != nil {
		logServerError(err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.renderer.HTML(w, http.StatusOK, "admin_contacts.html", map[string]any{
		"AdminPrefix": h.adminPrefix,
		"Messages":    messages,
	})
}
