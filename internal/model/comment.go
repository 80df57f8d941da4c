// Package model はドメインモデルを定義する。
package model

import "time"

// Comment は記事へのコメントを表す。
// 公開サイトには承認済み（IsApproved=true）のみがcreated_at昇順で表示される。
type Comment struct {
	ID          string
	ArticleID   string
	AuthorName  string
	AuthorEmail string
	Body        string
	IsApproved  bool
	CreatedAt   time.Time
}

// NewsletterSubscriber はニュースレター購読者を表す。
// Emailは一意。退会した購読者はIsActive=falseで保持する。
type NewsletterSubscriber struct {
	ID        string
	Email     string
	IsActive  bool
	CreatedAt time.Time
}

// ContactMessage はお問い合わせフォームからの投稿を表す。
// 重複排除は行わない。
type ContactMessage struct {
	ID        string
	Name      string
	Email     string
	Message   string
	CreatedAt time.Time
}
