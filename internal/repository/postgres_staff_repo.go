package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fintechrp/website/internal/model"
)

// PostgresStaffUserRepo はPostgreSQLを使用した編集スタッフリポジトリ。
type PostgresStaffUserRepo struct {
	db *sql.DB
}

// NewPostgresStaffUserRepo はPostgresStaffUserRepoを生成する。
func NewPostgresStaffUserRepo(db *sql.DB) *PostgresStaffUserRepo {
	return &PostgresStaffUserRepo{db: db}
}

// FindByEmail はメールアドレスでスタッフを検索する。見つからない場合はnilを返す。
func (r *PostgresStaffUserRepo) FindByEmail(ctx context.Context, email string) (*model.StaffUser, error) {
	return r.findOne(ctx,
		`SELECT id, email, name, password_hash, created_at, updated_at
		 FROM staff_users WHERE email = $1`, email)
}

// FindByID は指定IDのスタッフを取得する。見つからない場合はnilを返す。
func (r *PostgresStaffUserRepo) FindByID(ctx context.Context, id string) (*model.StaffUser, error) {
	return r.findOne(ctx,
		`SELECT id, email, name, password_hash, created_at, updated_at
		 FROM staff_users WHERE id = $1`, id)
}

func (r *PostgresStaffUserRepo) findOne(ctx context.Context, query string, arg any) (*model.StaffUser, error) {
	user := &model.StaffUser{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("スタッフの取得に失敗しました: %w", err)
	}
	return user, nil
}

// PostgresSessionRepo はPostgreSQLを使用したセッションリポジトリ。
type PostgresSessionRepo struct {
	db *sql.DB
}

// NewPostgresSessionRepo はPostgresSessionRepoを生成する。
func NewPostgresSessionRepo(db *sql.DB) *PostgresSessionRepo {
	return &PostgresSessionRepo{db: db}
}

// Create はセッションを作成する。
func (r *PostgresSessionRepo) Create(ctx context.Context, session *model.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, expires_at, created_at)
		 VALUES ($1, $2, $3, $4)`,
		session.ID, session.UserID, session.ExpiresAt, session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("セッションの作成に失敗しました: %w", err)
	}
	return nil
}

// FindByID は指定IDのセッションを取得する。
// 見つからない場合と期限切れの場合はnilを返す。
func (r *PostgresSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	session := &model.Session{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, expires_at, created_at
		 FROM sessions WHERE id = $1`, id,
	).Scan(&session.ID, &session.UserID, &session.ExpiresAt, &session.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("セッションの取得に失敗しました: %w", err)
	}

	if session.ExpiresAt.Before(time.Now()) {
		return nil, nil
	}

	return session, nil
}

// DeleteByID は指定IDのセッションを削除する。
func (r *PostgresSessionRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("セッションの削除に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface checks
var (
	_ StaffUserRepository = (*PostgresStaffUserRepo)(nil)
	_ SessionRepository   = (*PostgresSessionRepo)(nil)
)
