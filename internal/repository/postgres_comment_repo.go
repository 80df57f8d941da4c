package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fintechrp/website/internal/model"
)

// PostgresCommentRepo はPostgreSQLを使用したコメントリポジトリ。
type PostgresCommentRepo struct {
	db *sql.DB
}

// NewPostgresCommentRepo はPostgresCommentRepoを生成する。
func NewPostgresCommentRepo(db *sql.DB) *PostgresCommentRepo {
	return &PostgresCommentRepo{db: db}
}

// ListApprovedByArticle は指定記事の承認済みコメントをcreated_at昇順で返す。
func (r *PostgresCommentRepo) ListApprovedByArticle(ctx context.Context, articleID string) ([]*model.Comment, error) {
	return r.queryComments(ctx,
		`SELECT id, article_id, author_name, author_email, body, is_approved, created_at
		 FROM comments
		 WHERE article_id = $1 AND is_approved = TRUE
		 ORDER BY created_at ASC`,
		articleID)
}

// Create はコメントを作成する。
func (r *PostgresCommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (id, article_id, author_name, author_email, body, is_approved, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		comment.ID, comment.ArticleID, comment.AuthorName, comment.AuthorEmail,
		comment.Body, comment.IsApproved, comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("コメントの作成に失敗しました: %w", err)
	}
	return nil
}

// ListPending は未承認コメントをcreated_at昇順で返す。管理画面用。
func (r *PostgresCommentRepo) ListPending(ctx context.Context) ([]*model.Comment, error) {
	return r.queryComments(ctx,
		`SELECT id, article_id, author_name, author_email, body, is_approved, created_at
		 FROM comments
		 WHERE is_approved = FALSE
		 ORDER BY created_at ASC`)
}

// Approve は指定IDのコメントを承認済みにする。
// コメントが存在しない場合はfalseを返す。
func (r *PostgresCommentRepo) Approve(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE comments SET is_approved = TRUE WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("コメントの承認に失敗しました: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("コメント承認結果の確認に失敗しました: %w", err)
	}
	return affected > 0, nil
}

// queryComments は複数コメントを取得する共通処理。
func (r *PostgresCommentRepo) queryComments(ctx context.Context, query string, args ...any) ([]*model.Comment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("コメント一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var comments []*model.Comment
	for rows.Next() {
		c := &model.Comment{}
		if err := rows.Scan(
			&c.ID, &c.ArticleID, &c.AuthorName, &c.AuthorEmail,
			&c.Body, &c.IsApproved, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("コメント行の読み取りに失敗しました: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("コメント一覧の走査に失敗しました: %w", err)
	}

	return comments, nil
}

// compile-time interface check
var _ CommentRepository = (*PostgresCommentRepo)(nil)
