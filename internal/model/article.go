// Package model はドメインモデルを定義する。
package model

import (
	"strings"
	"time"
)

// Article は公開サイトの記事を表す。
// BodyはBluemondayでサニタイズ済みのHTML。
type Article struct {
	ID        string
	Slug      string
	Title     string
	Summary   string
	Body      string // サニタイズ済みHTML
	Category  Category
	Status    ArticleStatus
	Tags      []string
	ViewCount int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsVisible は記事が公開サイトで閲覧可能かを返す。
// draft以外（published / premium）が閲覧対象。
func (a *Article) IsVisible() bool {
	return a.Status.IsVisible()
}

// Category は記事カテゴリを表す。
type Category string

const (
	// CategoryFinance は金融カテゴリ。
	CategoryFinance Category = "finance"
	// CategoryTechnology はテクノロジーカテゴリ。
	CategoryTechnology Category = "technology"
	// CategoryRealEstate は不動産カテゴリ。
	CategoryRealEstate Category = "real_estate"
	// CategoryTrade は貿易カテゴリ。
	CategoryTrade Category = "trade"
)

// Categories は全カテゴリを定義順で返す。ナビゲーション表示用。
func Categories() []Category {
	return []Category{CategoryFinance, CategoryTechnology, CategoryRealEstate, CategoryTrade}
}

// Label はカテゴリの表示名を返す。
func (c Category) Label() string {
	switch c {
	case CategoryFinance:
		return "Finance"
	case CategoryTechnology:
		return "Technology"
	case CategoryRealEstate:
		return "Real Estate"
	case CategoryTrade:
		return "Trade"
	default:
		return string(c)
	}
}

// Slug はカテゴリのURLスラッグ（ハイフン区切り）を返す。
func (c Category) Slug() string {
	return strings.ReplaceAll(string(c), "_", "-")
}

// ParseCategorySlug はURLスラッグをカテゴリに解決する。
// ハイフンをアンダースコアに正規化した上で既知カテゴリと照合する。
// 未知の値はフィルタなしとして扱うため、エラーではなくok=falseを返す。
func ParseCategorySlug(slug string) (Category, bool) {
	normalized := Category(strings.ReplaceAll(slug, "-", "_"))
	for _, c := range Categories() {
		if c == normalized {
			return c, true
		}
	}
	return "", false
}

// ArticleStatus は記事の公開状態を表す。
// 旧システムのstatus enumとis_publishedフラグの二重管理を
// 単一のタグ付き状態に統合したもの。
type ArticleStatus string

const (
	// StatusDraft は下書き状態。公開サイトには一切露出しない。
	StatusDraft ArticleStatus = "draft"
	// StatusPublished は通常公開状態。
	StatusPublished ArticleStatus = "published"
	// StatusPremium はプレミアム記事。現状は通常公開と同じ扱いで配信する。
	StatusPremium ArticleStatus = "premium"
)

// IsVisible は公開サイトで閲覧可能な状態かを返す。
func (s ArticleStatus) IsVisible() bool {
	return s == StatusPublished || s == StatusPremium
}

// ParseArticleStatus は文字列をArticleStatusに解決する。
func ParseArticleStatus(s string) (ArticleStatus, bool) {
	switch ArticleStatus(s) {
	case StatusDraft, StatusPublished, StatusPremium:
		return ArticleStatus(s), true
	}
	return "", false
}

// QuerySpec は記事一覧の検索条件を表す。
// Search/Filterクエリビルダーが生成し、リポジトリがSQLに変換する。
type QuerySpec struct {
	// Category は任意のカテゴリフィルタ。nilの場合はフィルタしない。
	Category *Category
	// SearchText はトリム済みの全文検索語。空の場合は検索しない。
	// title / summary / body / タグ名に対して大文字小文字を区別しない
	// 部分一致でOR結合され、重複記事は1件に畳まれる。
	SearchText string
	// Limit は取得上限。0は無制限。
	Limit int
}
