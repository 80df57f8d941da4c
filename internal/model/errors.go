// Package model はドメインモデルを定義する。
package model

import "fmt"

// SiteError は統一エラーフォーマットを表す。
// APIレスポンスに含めるコードとカテゴリを保持する。
type SiteError struct {
	Code     string // エラーコード
	Message  string // 利用者向けメッセージ（英語）
	Category string // カテゴリ: validation, forbidden, not_found, system
}

// Error はerrorインターフェースを実装する。
func (e *SiteError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeArticleNotFound = "ARTICLE_NOT_FOUND"
	ErrCodeInvalidForm     = "INVALID_FORM"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodePolicyNotFound  = "POLICY_NOT_FOUND"
)

// NewArticleNotFoundError は記事未検出エラーを生成する。
// 記事が存在しない場合と非公開の場合で同一の形を返し、
// 未公開記事の存在を外部に漏らさない。
func NewArticleNotFoundError() *SiteError {
	return &SiteError{
		Code:     ErrCodeArticleNotFound,
		Message:  "The requested article could not be found.",
		Category: "not_found",
	}
}

// NewInvalidFormError はフォームバリデーションエラーを生成する。
func NewInvalidFormError(message string) *SiteError {
	return &SiteError{
		Code:     ErrCodeInvalidForm,
		Message:  message,
		Category: "validation",
	}
}

// NewForbiddenError は管理画面アクセス拒否エラーを生成する。
// 詳細は漏らさず固定メッセージのみを返す。
func NewForbiddenError() *SiteError {
	return &SiteError{
		Code:     ErrCodeForbidden,
		Message:  "Access to admin is restricted",
		Category: "forbidden",
	}
}
