package interaction

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fintechrp/website/internal/model"
	"github.com/fintechrp/website/internal/repository"
)

// ContactForm はお問い合わせフォームの入力値を表す。
type ContactForm struct {
	Name    string
	Email   string
	Message string
}

// Validate はフォームの入力値を検証し、フィールドごとのエラーを返す。
// エラーがない場合は空のマップを返す。
func (f *ContactForm) Validate() map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(f.Name) == "" {
		errs["name"] = "Name is required."
	}
	if strings.TrimSpace(f.Email) == "" {
		errs["email"] = "Email is required."
	} else if _, err := mail.ParseAddress(f.Email); err != nil {
		errs["email"] = "Enter a valid email address."
	}
	if strings.TrimSpace(f.Message) == "" {
		errs["message"] = "Message is required."
	}

	return errs
}

// ContactService はお問い合わせ投稿のサービス層。
// 投稿は重複排除せずすべて保存する。
type ContactService struct {
	contactRepo repository.ContactRepository
}

// NewContactService はContactServiceの新しいインスタンスを生成する。
func NewContactService(contactRepo repository.ContactRepository) *ContactService {
	return &ContactService{contactRepo: contactRepo}
}

// Submit はお問い合わせメッセージを保存する。
func (s *ContactService) Submit(ctx context.Context, form ContactForm) (*model.ContactMessage, error) {
	if errs := form.Validate(); len(errs) > 0 {
		return nil, model.NewInvalidFormError("Please correct the errors below.")
	}

	msg := &model.ContactMessage{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(form.Name),
		Email:     strings.TrimSpace(form.Email),
		Message:   strings.TrimSpace(form.Message),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.contactRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("お問い合わせの送信に失敗しました: %w", err)
	}

	return msg, nil
}
