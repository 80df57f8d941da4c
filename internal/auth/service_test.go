package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/fintechrp/website/internal/model"
)

// --- モック定義 ---

type mockStaffRepo struct {
	findByEmailFn func(ctx context.Context, email string) (*model.StaffUser, error)
}

func (m *mockStaffRepo) FindByEmail(ctx context.Context, email string) (*model.StaffUser, error) {
	return m.findByEmailFn(ctx, email)
}

func (m *mockStaffRepo) FindByID(ctx context.Context, id string) (*model.StaffUser, error) {
	return nil, nil
}

type mockSessionRepo struct {
	created   *model.Session
	deletedID string
	createErr error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = session
	return nil
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	return nil, nil
}

func (m *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	m.deletedID = id
	return nil
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return string(hash)
}

func staffRepoWith(staff *model.StaffUser) *mockStaffRepo {
	return &mockStaffRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.StaffUser, error) {
			if staff != nil && staff.Email == email {
				return staff, nil
			}
			return nil, nil
		},
	}
}

// ユニットテスト: 正しい資格情報でセッションが発行されること
func TestLogin_ValidCredentials_CreatesSession(t *testing.T) {
	staff := &model.StaffUser{
		ID:           "staff-1",
		Email:        "editor@fintechrp.com",
		Name:         "Editor",
		PasswordHash: hashPassword(t, "correct-password"),
	}
	sessionRepo := &mockSessionRepo{}
	svc := NewService(staffRepoWith(staff), sessionRepo, ServiceConfig{SessionMaxAge: 3600})

	session, err := svc.Login(context.Background(), "editor@fintechrp.com", "correct-password")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if session.UserID != "staff-1" {
		t.Errorf("UserID = %q, want %q", session.UserID, "staff-1")
	}
	if session.ID == "" {
		t.Error("expected non-empty session ID")
	}
	if sessionRepo.created == nil {
		t.Fatal("expected session to be persisted")
	}

	// 有効期限はSessionMaxAge秒後
	wantExpiry := session.CreatedAt.Add(time.Hour)
	if !session.ExpiresAt.Equal(wantExpiry) {
		t.Errorf("ExpiresAt = %v, want %v", session.ExpiresAt, wantExpiry)
	}
}

// ユニットテスト: パスワード不一致でErrInvalidCredentialsが返ること
func TestLogin_WrongPassword_ReturnsInvalidCredentials(t *testing.T) {
	staff := &model.StaffUser{
		ID:           "staff-1",
		Email:        "editor@fintechrp.com",
		PasswordHash: hashPassword(t, "correct-password"),
	}
	sessionRepo := &mockSessionRepo{}
	svc := NewService(staffRepoWith(staff), sessionRepo, ServiceConfig{SessionMaxAge: 3600})

	_, err := svc.Login(context.Background(), "editor@fintechrp.com", "wrong-password")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if sessionRepo.created != nil {
		t.Error("session should not be created for failed login")
	}
}

// ユニットテスト: 未知のメールアドレスでもパスワード不一致と同じエラーになること
func TestLogin_UnknownEmail_ReturnsSameError(t *testing.T) {
	svc := NewService(staffRepoWith(nil), &mockSessionRepo{}, ServiceConfig{SessionMaxAge: 3600})

	_, err := svc.Login(context.Background(), "nobody@fintechrp.com", "any-password")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

// ユニットテスト: セッション作成失敗時にエラーがラップされて返ること
func TestLogin_SessionCreateFailure_ReturnsError(t *testing.T) {
	staff := &model.StaffUser{
		ID:           "staff-1",
		Email:        "editor@fintechrp.com",
		PasswordHash: hashPassword(t, "correct-password"),
	}
	sessionRepo := &mockSessionRepo{createErr: errors.New("db down")}
	svc := NewService(staffRepoWith(staff), sessionRepo, ServiceConfig{SessionMaxAge: 3600})

	_, err := svc.Login(context.Background(), "editor@fintechrp.com", "correct-password")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if errors.Is(err, ErrInvalidCredentials) {
		t.Error("infrastructure failure should not be reported as invalid credentials")
	}
}

// ユニットテスト: Logoutが指定IDのセッションを削除すること
func TestLogout_DeletesSession(t *testing.T) {
	sessionRepo := &mockSessionRepo{}
	svc := NewService(staffRepoWith(nil), sessionRepo, ServiceConfig{SessionMaxAge: 3600})

	if err := svc.Logout(context.Background(), "session-9"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if sessionRepo.deletedID != "session-9" {
		t.Errorf("deleted session ID = %q, want %q", sessionRepo.deletedID, "session-9")
	}
}
