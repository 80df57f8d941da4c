package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fintechrp/website/internal/content"
	"github.com/fintechrp/website/internal/interaction"
	"github.com/fintechrp/website/internal/middleware"
	"github.com/fintechrp/website/internal/model"
	"github.com/fintechrp/website/internal/render"
)

// InteractionHandler は投稿系エンドポイント
// （コメント・いいね・ニュースレター・お問い合わせ）のHTTPハンドラー。
type InteractionHandler struct {
	content    *content.Service
	site       *SiteHandler
	likes      *interaction.LikeService
	comments   *interaction.CommentService
	newsletter *interaction.NewsletterService
	contact    *interaction.ContactService
	renderer   *render.Renderer
	metrics    MetricsRecorder
}

// NewInteractionHandler はInteractionHandlerを生成する。
func NewInteractionHandler(
	contentSvc *content.Service,
	site *SiteHandler,
	likes *interaction.LikeService,
	comments *interaction.CommentService,
	newsletter *interaction.NewsletterService,
	contact *interaction.ContactService,
	renderer *render.Renderer,
	metrics MetricsRecorder,
) *InteractionHandler {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &InteractionHandler{
		content:    contentSvc,
		site:       site,
		likes:      likes,
		comments:   comments,
		newsletter: newsletter,
		contact:    contact,
		renderer:   renderer,
		metrics:    metrics,
	}
}

// likeResponse はいいねトグルのJSONレスポンス。
type likeResponse struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

// ToggleLike は記事のいいね状態を反転する。
// POST /article/{slug}/like/（他メソッドはルーターが405を返す）
//
// 主体は認証済みスタッフがいればそのID、いなければクライアントIP。
// レスポンスはJSON {liked, likes_count}。
func (h *InteractionHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	staffID, _ := middleware.StaffIDFromContext(r.Context())
	clientIP, err := middleware.ClientIPFromContext(r.Context())
	if err != nil {
		clientIP = r.RemoteAddr
	}
	identity := model.NewLikeIdentity(staffID, clientIP)

	result, err := h.likes.Toggle(r.Context(), slug, identity)
	if err != nil {
		writeJSONError(w, err)
		return
	}

	h.metrics.RecordLikeToggle(result.Liked)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(likeResponse{
		Liked:      result.Liked,
		LikesCount: result.LikesCount,
	})
}

// SubmitComment は記事へのコメントを投稿する。
// POST /article/{slug}/comment/
//
// バリデーションエラー時は記事詳細ページをフィールドエラー付きで
// 再表示する（HTTP 200）。成功時は記事ページへリダイレクトし、
// 承認待ちである旨のフラッシュメッセージを表示する。
func (h *InteractionHandler) SubmitComment(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	form := interaction.CommentForm{
		AuthorName:  r.PostFormValue("name"),
		AuthorEmail: r.PostFormValue("email"),
		Body:        r.PostFormValue("body"),
	}

	// バリデーションエラーはフォーム再表示で処理する
	if formErrors := form.Validate(); len(formErrors) > 0 {
		article, err := h.content.Detail(r.Context(), slug)
		if err != nil {
			h.site.renderContentError(w, err)
			return
		}
		h.site.renderDetail(w, r.Context(), article, http.StatusOK,
			map[string]string{
				"name":  form.AuthorName,
				"email": form.AuthorEmail,
				"body":  form.Body,
			},
			formErrors, "")
		return
	}

	staffID, _ := middleware.StaffIDFromContext(r.Context())

	comment, err := h.comments.Submit(r.Context(), slug, form, staffID)
	if err != nil {
		h.site.renderContentError(w, err)
		return
	}

	h.metrics.RecordCommentSubmitted(comment.IsApproved)

	if comment.IsApproved {
		render.SetFlash(w, "Your comment has been posted.")
	} else {
		render.SetFlash(w, "Thank you! Your comment is awaiting moderation.")
	}
	http.Redirect(w, r, "/article/"+slug+"/", http.StatusSeeOther)
}

// newsletterResponse はニュースレター登録のJSONレスポンス。
type newsletterResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// NewsletterSignup はニュースレター購読を登録する。
// POST /newsletter/signup/
//
// プログラムからの呼び出し（Accept: application/json または
// X-Requested-With: XMLHttpRequest）にはJSON {status, message|errors}を返し、
// 通常のフォーム送信にはフラッシュメッセージ付きリダイレクトを返す。
func (h *InteractionHandler) NewsletterSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	email := r.PostFormValue("email")
	wantsJSON := requestWantsJSON(r)

	result, err := h.newsletter.Subscribe(r.Context(), email)
	if err != nil {
		var siteErr *model.SiteError
		if errors.As(err, &siteErr) && siteErr.Category == "validation" {
			if wantsJSON {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(newsletterResponse{
					Status: "error",
					Errors: map[string]string{"email": siteErr.Message},
				})
				return
			}
			render.SetFlash(w, siteErr.Message)
			http.Redirect(w, r, redirectTarget(r), http.StatusSeeOther)
			return
		}

		logServerError(err)
		if wantsJSON {
			middleware.WriteInternalServerError(w)
			return
		}
		render.SetFlash(w, "An internal error occurred. Please try again later.")
		http.Redirect(w, r, redirectTarget(r), http.StatusSeeOther)
		return
	}

	if !result.AlreadySubscribed {
		h.metrics.RecordNewsletterSignup()
	}

	if wantsJSON {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(newsletterResponse{
			Status:  "ok",
			Message: result.Message,
		})
		return
	}

	render.SetFlash(w, result.Message)
	http.Redirect(w, r, redirectTarget(r), http.StatusSeeOther)
}

// ContactPage はお問い合わせフォームを表示する。
// GET /contact/
func (h *InteractionHandler) ContactPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.HTML(w, http.StatusOK, "contact.html", map[string]any{
		"Form":       map[string]string{},
		"FormErrors": map[string]string{},
		"Flash":      render.PopFlash(w, r),
	})
}

// SubmitContact はお問い合わせを送信する。
// POST /contact/
//
// バリデーションエラー時はフォームをフィールドエラー付きで再表示する
// （HTTP 200）。成功時はサンクスページを表示する。
func (h *InteractionHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	form := interaction.ContactForm{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Message: r.PostFormValue("message"),
	}

	if formErrors := form.Validate(); len(formErrors) > 0 {
		h.renderer.HTML(w, http.StatusOK, "contact.html", map[string]any{
			"Form": map[string]string{
				"Name":    form.Name,
				"Email":   form.Email,
				"Message": form.Message,
			},
			"FormErrors": formErrors,
		})
		return
	}

	if _, err := h.contact.Submit(r.Context(), form); err != nil {
		h.site.renderServerError(w, err)
		return
	}

	h.renderer.HTML(w, http.StatusOK, "contact_thanks.html", nil)
}

// requestWantsJSON はプログラムからのリクエストかどうかを判定する。
func requestWantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest")
}

// redirectTarget はフォーム送信後の戻り先を返す。
// Refererが無い場合はホームに戻す。
func redirectTarget(r *http.Request) string {
	if ref := r.Header.Get("Referer"); ref != "" && strings.HasPrefix(ref, "/") {
		return ref
	}
	return "/"
}

// writeJSONError はサービス層のエラーをJSONエラーレスポンスに変換する。
func writeJSONError(w http.ResponseWriter, err error) {
	var siteErr *model.SiteError
	if errors.As(err, &siteErr) {
		switch siteErr.Category {
		case "not_found":
			middleware.WriteErrorResponse(w, http.StatusNotFound, siteErr)
			return
		case "validation":
			middleware.WriteErrorResponse(w, http.StatusBadRequest, siteErr)
			return
		case "forbidden":
			middleware.WriteErrorResponse(w, http.StatusForbidden, siteErr)
			return
		}
	}

	logServerError(err)
	middleware.WriteInternalServerError(w)
}

// logServerError は内部エラーをログに記録する。
func logServerError(err error) {
	slog.Error("internal server error", slog.String("error", err.Error()))
}
