// Package model はドメインモデルを定義する。
package model

import "time"

// StaffUser は編集スタッフを表す。
// 一般訪問者はアカウントを持たず、ログインするのはスタッフのみ。
// スタッフが投稿したコメントは自動承認される。
type StaffUser struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session はスタッフのログインセッションを表す。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}
