package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fintechrp/website/internal/model"
)

// PostgresNewsletterRepo はPostgreSQLを使用したニュースレター購読者リポジトリ。
type PostgresNewsletterRepo struct {
	db *sql.DB
}

// NewPostgresNewsletterRepo はPostgresNewsletterRepoを生成する。
func NewPostgresNewsletterRepo(db *sql.DB) *PostgresNewsletterRepo {
	return &PostgresNewsletterRepo{db: db}
}

// Subscribe はメールアドレスを購読登録する。
// emailの一意制約を使ったUPSERTで、非アクティブな既存行は再アクティブ化する。
// すでにアクティブな行が存在した場合はalreadySubscribed=trueを返す。
func (r *PostgresNewsletterRepo) Subscribe(ctx context.Context, email string) (bool, error) {
	var wasActive sql.NullBool
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO newsletter_subscribers (id, email, is_active, created_at)
		 VALUES ($1, $2, TRUE, $3)
		 ON CONFLICT (email) DO UPDATE SET is_active = TRUE
		 RETURNING (SELECT s.is_active FROM newsletter_subscribers s WHERE s.email = $2) AS was_active`,
		uuid.New().String(), email, time.Now().UTC(),
	).Scan(&wasActive)
	if err != nil {
		return false, fmt.Errorf("購読登録に失敗しました: %w", err)
	}

	// was_activeがNULLなら新規行、TRUEなら既存アクティブ行への再登録
	return wasActive.Valid && wasActive.Bool, nil
}

// List は全購読者をcreated_at降順で返す。管理画面用。
func (r *PostgresNewsletterRepo) List(ctx context.Context) ([]*model.NewsletterSubscriber, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, email, is_active, created_at
		 FROM newsletter_subscribers
		 ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("購読者一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var subs []*model.NewsletterSubscriber
	for rows.Next() {
		s := &model.NewsletterSubscriber{}
		if err := rows.Scan(&s.ID, &s.Email, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("購読者行の読み取りに失敗しました: %w", err)
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("購読者一覧の走査に失敗しました: %w", err)
	}

	return subs, nil
}

// compile-time interface check
var _ NewsletterRepository = (*PostgresNewsletterRepo)(nil)
