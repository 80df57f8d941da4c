// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ContentSanitizerService は管理画面から保存される記事本文と訪問者からの
// コメントをサニタイズし、XSS攻撃などのセキュリティリスクから閲覧者を
// 保護する。bluemondayライブラリを使用した許可リストベースのポリシーで、
// 安全なタグと属性のみを通過させる。
package security

import (
	"net/url"

	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizerService はコンテンツのサニタイズ機能のインターフェースを定義する。
type ContentSanitizerService interface {
	// SanitizeArticleBody はリッチテキストエディタ由来の記事本文HTMLを
	// サニタイズして安全なHTMLを返す。
	// 許可タグ（h2, h3, p, br, a, ul, ol, li, blockquote, pre, code, strong, em, img）
	// のみを通過させ、script, iframe, styleタグおよびon*イベント属性を除去する。
	// imgタグのsrc属性はhttpsスキームのみ許可される。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	SanitizeArticleBody(rawHTML string) string

	// SanitizeCommentText は訪問者コメントをプレーンテキストとして
	// サニタイズする。すべてのHTMLタグを除去する。
	SanitizeCommentText(raw string) string
}

// contentSanitizer はContentSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type contentSanitizer struct {
	articlePolicy *bluemonday.Policy
	commentPolicy *bluemonday.Policy
}

// NewContentSanitizer はContentSanitizerServiceの新しいインスタンスを生成する。
// 初期化時にbluemondayのカスタムポリシーを構築する。
// 記事本文ポリシーの内容:
//   - 許可タグ: h2, h3, p, br, a, ul, ol, li, blockquote, pre, code, strong, em, img
//   - 禁止タグ: script, iframe, style および全てのon*イベント属性
//   - imgのsrc属性: httpsスキームのみ許可
//   - aタグ: target="_blank" と rel="noopener noreferrer" を自動付与
//
// コメントはStrictPolicyで全タグを除去する。
func NewContentSanitizer() *contentSanitizer {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"h2", "h3", "p", "br", "ul", "ol", "li",
		"blockquote", "pre", "code",
		"strong", "em",
	)

	// aタグ:
	// - href属性を許可、相対URLは不許可
	// - target="_blank" と rel="noreferrer noopener" を強制付与
	p.AllowAttrs("href").OnElements("a")
	p.AllowRelativeURLs(false)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnLinks(true)

	// imgタグ:
	// - src属性はhttpsスキームのみ許可（http, javascript, data等は拒否）
	// - alt属性を許可（アクセシビリティ確保）
	p.AllowAttrs("src").OnElements("img")
	p.AllowAttrs("alt").OnElements("img")
	p.AllowURLSchemeWithCustomPolicy("https", func(u *url.URL) bool {
		return true
	})

	return &contentSanitizer{
		articlePolicy: p,
		commentPolicy: bluemonday.StrictPolicy(),
	}
}

// SanitizeArticleBody は記事本文HTMLをサニタイズして安全なHTMLを返す。
func (s *contentSanitizer) SanitizeArticleBody(rawHTML string) string {
	return s.articlePolicy.Sanitize(rawHTML)
}

// SanitizeCommentText はコメントから全てのHTMLタグを除去する。
func (s *contentSanitizer) SanitizeCommentText(raw string) string {
	return s.commentPolicy.Sanitize(raw)
}
