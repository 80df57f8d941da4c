package interaction

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/fintechrp/website/internal/model"
	"github.com/fintechrp/website/internal/repository"
)

// SubscribeResult はニュースレター購読登録の結果を表す。
type SubscribeResult struct {
	// AlreadySubscribed はすでにアクティブな購読者だった場合true。
	AlreadySubscribed bool
	// Message は利用者向けの結果メッセージ。
	Message string
}

// NewsletterService はニュースレター購読のサービス層。
type NewsletterService struct {
	newsletterRepo repository.NewsletterRepository
}

// NewNewsletterService はNewsletterServiceの新しいインスタンスを生成する。
func NewNewsletterService(newsletterRepo repository.NewsletterRepository) *NewsletterService {
	return &NewsletterService{newsletterRepo: newsletterRepo}
}

// Subscribe はメールアドレスを購読登録する。
// 不正なメールアドレスにはバリデーションエラーを返す。
// 退会済みの購読者は再アクティブ化し、すでにアクティブな場合は
// その旨のメッセージを返す（エラーにはしない）。
func (s *NewsletterService) Subscribe(ctx context.Context, email string) (*SubscribeResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, model.NewInvalidFormError("Email is required.")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, model.NewInvalidFormError("Enter a valid email address.")
	}

	already, err := s.newsletterRepo.Subscribe(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("購読登録に失敗しました: %w", err)
	}

	if already {
		return &SubscribeResult{
			AlreadySubscribed: true,
			Message:           "You are already subscribed to our newsletter.",
		}, nil
	}

	return &SubscribeResult{
		Message: "Thank you for subscribing to our newsletter!",
	}, nil
}
