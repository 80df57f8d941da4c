package repository

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/fintechrp/website/internal/model"
)

// articleColumns は記事SELECTの共通カラムリスト。
// tagsはarticle_tags/tagsをサブクエリで集約して取得する。
const articleColumns = `a.id, a.slug, a.title, a.summary, a.body, a.category, a.status,
	a.view_count, a.created_at, a.updated_at,
	COALESCE((SELECT array_agg(t.name ORDER BY t.name)
	          FROM article_tags at JOIN tags t ON t.id = at.tag_id
	          WHERE at.article_id = a.id), '{}') AS tags`

// PostgresArticleRepo はPostgreSQLを使用した記事リポジトリ。
type PostgresArticleRepo struct {
	db *sql.DB
}

// NewPostgresArticleRepo はPostgresArticleRepoを生成する。
func NewPostgresArticleRepo(db *sql.DB) *PostgresArticleRepo {
	return &PostgresArticleRepo{db: db}
}

// FindBySlug は指定スラッグの記事を取得する。見つからない場合はnilを返す。
func (r *PostgresArticleRepo) FindBySlug(ctx context.Context, slug string) (*model.Article, error) {
	return r.findOne(ctx,
		`SELECT `+articleColumns+` FROM articles a WHERE a.slug = $1`, slug)
}

// FindByID は指定IDの記事を取得する。見つからない場合はnilを返す。
func (r *PostgresArticleRepo) FindByID(ctx context.Context, id string) (*model.Article, error) {
	return r.findOne(ctx,
		`SELECT `+articleColumns+` FROM articles a WHERE a.id = $1`, id)
}

// findOne は単一記事を取得する共通処理。
func (r *PostgresArticleRepo) findOne(ctx context.Context, query string, arg any) (*model.Article, error) {
	article, err := scanArticle(r.db.QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("記事の取得に失敗しました: %w", err)
	}
	return article, nil
}

// List は検索条件に一致する公開記事をcreated_at降順で返す。
// 動的な条件組み立てにはsquirrelを使用する。
// 検索語はtitle / summary / body / タグ名への大文字小文字を区別しない
// 部分一致でOR結合し、DISTINCTで重複記事を1件に畳む。
func (r *PostgresArticleRepo) List(ctx context.Context, spec model.QuerySpec) ([]*model.Article, error) {
	builder := sq.Select(articleColumns).
		From("articles a").
		Where(sq.Eq{"a.status": []string{string(model.StatusPublished), string(model.StatusPremium)}}).
		OrderBy("a.created_at DESC").
		PlaceholderFormat(sq.Dollar)

	if spec.Category != nil {
		builder = builder.Where(sq.Eq{"a.category": string(*spec.Category)})
	}

	if spec.SearchText != "" {
		pattern := "%" + spec.SearchText + "%"
		builder = builder.
			Options("DISTINCT").
			LeftJoin("article_tags at ON at.article_id = a.id").
			LeftJoin("tags t ON t.id = at.tag_id").
			Where(sq.Or{
				sq.ILike{"a.title": pattern},
				sq.ILike{"a.summary": pattern},
				sq.ILike{"a.body": pattern},
				sq.ILike{"t.name": pattern},
			})
	}

	if spec.Limit > 0 {
		builder = builder.Limit(uint64(spec.Limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("記事一覧クエリの組み立てに失敗しました: %w", err)
	}

	return r.queryArticles(ctx, query, args...)
}

// ListAll は公開状態に関わらず全記事をcreated_at降順で返す。管理画面用。
func (r *PostgresArticleRepo) ListAll(ctx context.Context) ([]*model.Article, error) {
	return r.queryArticles(ctx,
		`SELECT `+articleColumns+` FROM articles a ORDER BY a.created_at DESC`)
}

// queryArticles は複数記事を取得する共通処理。
func (r *PostgresArticleRepo) queryArticles(ctx context.Context, query string, args ...any) ([]*model.Article, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("記事一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var articles []*model.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("記事行の読み取りに失敗しました: %w", err)
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("記事一覧の走査に失敗しました: %w", err)
	}

	return articles, nil
}

// Create は記事とタグ集合を同一トランザクションで作成する。
func (r *PostgresArticleRepo) Create(ctx context.Context, article *model.Article) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO articles (id, slug, title, summary, body, category, status, view_count, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		article.ID, article.Slug, article.Title, article.Summary, article.Body,
		string(article.Category), string(article.Status), article.ViewCount,
		article.CreatedAt, article.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("記事の作成に失敗しました: %w", err)
	}

	if err := replaceTags(ctx, tx, article.ID, article.Tags); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}
	return nil
}

// Update は記事とタグ集合を同一トランザクションで更新する。
func (r *PostgresArticleRepo) Update(ctx context.Context, article *model.Article) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE articles SET
		    slug = $2, title = $3, summary = $4, body = $5,
		    category = $6, status = $7, updated_at = $8
		 WHERE id = $1`,
		article.ID, article.Slug, article.Title, article.Summary, article.Body,
		string(article.Category), string(article.Status), article.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("記事の更新に失敗しました: %w", err)
	}

	if err := replaceTags(ctx, tx, article.ID, article.Tags); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}
	return nil
}

// IncrementViewCount は閲覧数を1加算する。
func (r *PostgresArticleRepo) IncrementViewCount(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE articles SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("閲覧数の更新に失敗しました: %w", err)
	}
	return nil
}

// replaceTags は記事のタグ集合を洗い替える。
// タグ本体は名前の一意制約でデデュープし、未使用タグの掃除は行わない。
func replaceTags(ctx context.Context, tx *sql.Tx, articleID string, tags []string) error {
	_, err := tx.ExecContext(ctx,
		`DELETE FROM article_tags WHERE article_id = $1`, articleID)
	if err != nil {
		return fmt.Errorf("記事タグの削除に失敗しました: %w", err)
	}

	for _, name := range tags {
		var tagID string
		err := tx.QueryRowContext(ctx,
			`INSERT INTO tags (id, name) VALUES ($1, $2)
			 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			 RETURNING id`,
			uuid.New().String(), name,
		).Scan(&tagID)
		if err != nil {
			return fmt.Errorf("タグの登録に失敗しました: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO article_tags (article_id, tag_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			articleID, tagID,
		)
		if err != nil {
			return fmt.Errorf("記事タグの登録に失敗しました: %w", err)
		}
	}

	return nil
}

// rowScanner はsql.Rowとsql.Rowsの共通インターフェース。
type rowScanner interface {
	Scan(dest ...any) error
}

// scanArticle は1行分の記事をスキャンする。
func scanArticle(row rowScanner) (*model.Article, error) {
	article := &model.Article{}
	var category, status string
	var tags pq.StringArray

	err := row.Scan(
		&article.ID, &article.Slug, &article.Title, &article.Summary, &article.Body,
		&category, &status, &article.ViewCount,
		&article.CreatedAt, &article.UpdatedAt, &tags,
	)
	if err != nil {
		return nil, err
	}

	article.Category = model.Category(category)
	article.Status = model.ArticleStatus(status)
	article.Tags = []string(tags)

	return article, nil
}

// compile-time interface check
var _ ArticleRepository = (*PostgresArticleRepo)(nil)
