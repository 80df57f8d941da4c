// Package model はドメインモデルを定義する。
package model

import "time"

// Like は記事への「いいね」を表す。
// 主体は認証済みスタッフのUserIDか訪問者のIPAddressのどちらか一方のみ。
// (article, 主体)の組につき最大1件という一意性はDB制約で保証される。
type Like struct {
	ID        string
	ArticleID string
	UserID    string // 認証済み主体。IPAddressと排他
	IPAddress string // 匿名主体。UserIDと排他
	CreatedAt time.Time
}

// LikeIdentity は「いいね」の主体を表す。
// 認証済みユーザー参照を優先し、なければ送信元IPアドレスを使う。
type LikeIdentity struct {
	UserID    string
	IPAddress string
}

// NewLikeIdentity は固定の優先順位で主体を導出する。
// userIDが空でなければ認証済み主体、そうでなければIP主体となる。
func NewLikeIdentity(userID, ipAddress string) LikeIdentity {
	if userID != "" {
		return LikeIdentity{UserID: userID}
	}
	return LikeIdentity{IPAddress: ipAddress}
}

// IsAnonymous はIPアドレス主体かどうかを返す。
func (i LikeIdentity) IsAnonymous() bool {
	return i.UserID == ""
}
