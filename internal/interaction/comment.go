package interaction

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fintechrp/website/internal/content"
	"github.com/fintechrp/website/internal/model"
	"github.com/fintechrp/website/internal/repository"
	"github.com/fintechrp/website/internal/security"
)

// CommentForm はコメント投稿フォームの入力値を表す。
type CommentForm struct {
	AuthorName  string
	AuthorEmail string
	Body        string
}

// Validate はフォームの入力値を検証し、フィールドごとのエラーを返す。
// エラーがない場合は空のマップを返す。
func (f *CommentForm) Validate() map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(f.AuthorName) == "" {
		errs["name"] = "Name is required."
	}
	if strings.TrimSpace(f.AuthorEmail) == "" {
		errs["email"] = "Email is required."
	} else if _, err := mail.ParseAddress(f.AuthorEmail); err != nil {
		errs["email"] = "Enter a valid email address."
	}
	if strings.TrimSpace(f.Body) == "" {
		errs["body"] = "Comment is required."
	}

	return errs
}

// CommentService はコメント投稿のサービス層。
type CommentService struct {
	content     *content.Service
	commentRepo repository.CommentRepository
	sanitizer   security.ContentSanitizerService
}

// NewCommentService はCommentServiceの新しいインスタンスを生成する。
func NewCommentService(
	content *content.Service,
	commentRepo repository.CommentRepository,
	sanitizer security.ContentSanitizerService,
) *CommentService {
	return &CommentService{
		content:     content,
		commentRepo: commentRepo,
		sanitizer:   sanitizer,
	}
}

// Submit はコメントを投稿する。
//
// 記事は可視性ポリシーを通して解決する。本文はプレーンテキストとして
// サニタイズされる。staffIDが空でない場合（認証済みスタッフによる投稿）は
// 自動承認され、それ以外はis_approved=falseで保存されて管理者が承認する
// まで公開表示から除外される。
func (s *CommentService) Submit(ctx context.Context, slug string, form CommentForm, staffID string) (*model.Comment, error) {
	if errs := form.Validate(); len(errs) > 0 {
		return nil, model.NewInvalidFormError("Please correct the errors below.")
	}

	article, err := s.content.Detail(ctx, slug)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	comment := &model.Comment{
		ID:          uuid.New().String(),
		ArticleID:   article.ID,
		AuthorName:  strings.TrimSpace(form.AuthorName),
		AuthorEmail: strings.TrimSpace(form.AuthorEmail),
		Body:        s.sanitizer.SanitizeCommentText(strings.TrimSpace(form.Body)),
		IsApproved:  staffID != "",
		CreatedAt:   now,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("コメントの投稿に失敗しました: %w", err)
	}

	return comment, nil
}
