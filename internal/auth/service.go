// Package auth は編集スタッフの認証を提供する。
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/fintechrp/website/internal/model"
	"github.com/fintechrp/website/internal/repository"
)

// ErrInvalidCredentials は認証失敗を表す。
// メールアドレス不明とパスワード不一致を区別せず、同じエラーを返す。
var ErrInvalidCredentials = &model.SiteError{
	Code:     "INVALID_CREDENTIALS",
	Message:  "Invalid email or password.",
	Category: "validation",
}

// ServiceConfig はauthサービスの設定を保持する。
type ServiceConfig struct {
	// SessionMaxAge はセッションの有効期間（秒）。
	SessionMaxAge int
}

// Service はスタッフ認証のサービス層。
// ログイン成功時にDBセッションを発行し、ログアウトで破棄する。
type Service struct {
	staffRepo   repository.StaffUserRepository
	sessionRepo repository.SessionRepository
	config      ServiceConfig
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	staffRepo repository.StaffUserRepository,
	sessionRepo repository.SessionRepository,
	config ServiceConfig,
) *Service {
	return &Service{
		staffRepo:   staffRepo,
		sessionRepo: sessionRepo,
		config:      config,
	}
}

// Login はメールアドレスとパスワードでスタッフを認証し、セッションを発行する。
// 認証失敗時はErrInvalidCredentialsを返す。
func (s *Service) Login(ctx context.Context, email, password string) (*model.Session, error) {
	staff, err := s.staffRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("スタッフの取得に失敗しました: %w", err)
	}
	if staff == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	session := &model.Session{
		ID:        uuid.New().String(),
		UserID:    staff.ID,
		ExpiresAt: now.Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("セッションの作成に失敗しました: %w", err)
	}

	return session, nil
}

// Logout は指定IDのセッションを破棄する。
// セッションが存在しない場合もエラーにしない。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("セッションの削除に失敗しました: %w", err)
	}
	return nil
}
