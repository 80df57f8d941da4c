package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/fintechrp/website/internal/model"
)

// uniqueViolation はPostgreSQLの一意制約違反のエラーコード。
const uniqueViolation = "23505"

// PostgresLikeRepo はPostgreSQLを使用した「いいね」リポジトリ。
type PostgresLikeRepo struct {
	db *sql.DB
}

// NewPostgresLikeRepo はPostgresLikeRepoを生成する。
func NewPostgresLikeRepo(db *sql.DB) *PostgresLikeRepo {
	return &PostgresLikeRepo{db: db}
}

// Toggle は(記事, 主体)の「いいね」状態を原子的に反転する。
//
// 実装は単一トランザクション内の「INSERT ON CONFLICT DO NOTHING →
// 0行なら DELETE」で、(article_id, 主体)の部分一意インデックスを前提とする。
// 読み取り後に書き込む方式と違い、同一主体からの同時リクエストが
// 重複行を作ることはない。競合でINSERTが一意制約違反になった場合は
// 「すでにいいね済み」として削除側に倒す。
func (r *PostgresLikeRepo) Toggle(ctx context.Context, articleID string, identity model.LikeIdentity) (bool, int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, 0, fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	liked, err := toggleInTx(ctx, tx, articleID, identity)
	if err != nil {
		return false, 0, err
	}

	var count int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM likes WHERE article_id = $1`, articleID,
	).Scan(&count); err != nil {
		return false, 0, fmt.Errorf("いいね数の取得に失敗しました: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, 0, fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}

	return liked, count, nil
}

// toggleInTx はトランザクション内でINSERT→DELETEの反転処理を行う。
func toggleInTx(ctx context.Context, tx *sql.Tx, articleID string, identity model.LikeIdentity) (bool, error) {
	var insertSQL, deleteSQL, subject string
	if identity.IsAnonymous() {
		insertSQL = `INSERT INTO likes (id, article_id, ip_address, created_at)
		             VALUES ($1, $2, $3, $4)
		             ON CONFLICT (article_id, ip_address) WHERE ip_address IS NOT NULL DO NOTHING`
		deleteSQL = `DELETE FROM likes WHERE article_id = $1 AND ip_address = $2`
		subject = identity.IPAddress
	} else {
		insertSQL = `INSERT INTO likes (id, article_id, user_id, created_at)
		             VALUES ($1, $2, $3, $4)
		             ON CONFLICT (article_id, user_id) WHERE user_id IS NOT NULL DO NOTHING`
		deleteSQL = `DELETE FROM likes WHERE article_id = $1 AND user_id = $2`
		subject = identity.UserID
	}

	res, err := tx.ExecContext(ctx, insertSQL,
		uuid.New().String(), articleID, subject, time.Now().UTC())
	if err != nil {
		// 同時リクエストとの競合による一意制約違反は「いいね済み」として扱う
		var pqErr *pq.Error
		if !errors.As(err, &pqErr) || string(pqErr.Code) != uniqueViolation {
			return false, fmt.Errorf("いいねの作成に失敗しました: %w", err)
		}
	} else {
		inserted, err := res.RowsAffected()
		if err != nil {
			return false, fmt.Errorf("いいね作成結果の確認に失敗しました: %w", err)
		}
		if inserted == 1 {
			return true, nil
		}
	}

	// 既存の行がある: トグルオフ
	if _, err := tx.ExecContext(ctx, deleteSQL, articleID, subject); err != nil {
		return false, fmt.Errorf("いいねの削除に失敗しました: %w", err)
	}
	return false, nil
}

// CountByArticle は指定記事のいいね総数を返す。
func (r *PostgresLikeRepo) CountByArticle(ctx context.Context, articleID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM likes WHERE article_id = $1`, articleID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("いいね数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// compile-time interface check
var _ LikeRepository = (*PostgresLikeRepo)(nil)
