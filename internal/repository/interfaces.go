// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/fintechrp/website/internal/model"
)

// ArticleRepository は記事データの永続化インターフェース。
type ArticleRepository interface {
	// FindBySlug は指定スラッグの記事を取得する。見つからない場合はnilを返す。
	// 公開状態は考慮しない。可視性の判定はサービス層が行う。
	FindBySlug(ctx context.Context, slug string) (*model.Article, error)

	// FindByID は指定IDの記事を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Article, error)

	// List は検索条件に一致する公開記事（published / premium）を
	// created_at降順で返す。検索語は複数フィールドにOR結合で部分一致し、
	// 複数フィールドにマッチした記事も1件として返す。
	List(ctx context.Context, spec model.QuerySpec) ([]*model.Article, error)

	// ListAll は公開状態に関わらず全記事をcreated_at降順で返す。管理画面用。
	ListAll(ctx context.Context) ([]*model.Article, error)

	// Create は記事とタグ集合を同一トランザクションで作成する。
	Create(ctx context.Context, article *model.Article) error

	// Update は記事とタグ集合を同一トランザクションで更新する。
	Update(ctx context.Context, article *model.Article) error

	// IncrementViewCount は閲覧数を1加算する。
	IncrementViewCount(ctx context.Context, id string) error
}

// CommentRepository はコメントデータの永続化インターフェース。
type CommentRepository interface {
	// ListApprovedByArticle は指定記事の承認済みコメントをcreated_at昇順で返す。
	ListApprovedByArticle(ctx context.Context, articleID string) ([]*model.Comment, error)

	// Create はコメントを作成する。
	Create(ctx context.Context, comment *model.Comment) error

	// ListPending は未承認コメントをcreated_at昇順で返す。管理画面用。
	ListPending(ctx context.Context) ([]*model.Comment, error)

	// Approve は指定IDのコメントを承認済みにする。
	// コメントが存在しない場合はfalseを返す。
	Approve(ctx context.Context, id string) (bool, error)
}

// LikeRepository は「いいね」データの永続化インターフェース。
type LikeRepository interface {
	// Toggle は(記事, 主体)の「いいね」状態を原子的に反転する。
	// 存在しなければ作成してliked=true、存在すれば削除してliked=falseを返す。
	// 一意制約付きINSERTとDELETEを単一トランザクションで実行するため、
	// 同一主体からの同時リクエストでも重複行は生まれない。
	// 反転後の記事のいいね総数もあわせて返す。
	Toggle(ctx context.Context, articleID string, identity model.LikeIdentity) (liked bool, count int, err error)

	// CountByArticle は指定記事のいいね総数を返す。
	CountByArticle(ctx context.Context, articleID string) (int, error)
}

// NewsletterRepository はニュースレター購読者の永続化インターフェース。
type NewsletterRepository interface {
	// Subscribe はメールアドレスを購読登録する。
	// 非アクティブな既存行は再アクティブ化する。
	// すでにアクティブな場合はalreadySubscribed=trueを返す。
	Subscribe(ctx context.Context, email string) (alreadySubscribed bool, err error)

	// List は全購読者をcreated_at降順で返す。管理画面用。
	List(ctx context.Context) ([]*model.NewsletterSubscriber, error)
}

// ContactRepository はお問い合わせの永続化インターフェース。
type ContactRepository interface {
	// Create はお問い合わせメッセージを保存する。
	Create(ctx context.Context, msg *model.ContactMessage) error

	// List は全メッセージをcreated_at降順で返す。管理画面用。
	List(ctx context.Context) ([]*model.ContactMessage, error)
}

// StaffUserRepository は編集スタッフの永続化インターフェース。
type StaffUserRepository interface {
	// FindByEmail はメールアドレスでスタッフを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.StaffUser, error)

	// FindByID は指定IDのスタッフを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.StaffUser, error)
}

// SessionRepository はスタッフセッションの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
}
