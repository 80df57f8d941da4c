package model

import "testing"

// カテゴリスラッグの正規化と解決を検証
func TestParseCategorySlug(t *testing.T) {
	tests := []struct {
		name   string
		slug   string
		want   Category
		wantOK bool
	}{
		{"ハイフン形式", "real-estate", CategoryRealEstate, true},
		{"アンダースコア形式", "real_estate", CategoryRealEstate, true},
		{"単一語カテゴリ", "finance", CategoryFinance, true},
		{"未知のカテゴリ", "bogus", "", false},
		{"空文字列", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCategorySlug(tt.slug)
			if ok != tt.wantOK {
				t.Fatalf("ParseCategorySlug(%q) ok = %v, want %v", tt.slug, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ParseCategorySlug(%q) = %q, want %q", tt.slug, got, tt.want)
			}
		})
	}
}

// URLスラッグがハイフン形式になることを検証
func TestCategory_Slug(t *testing.T) {
	if got := CategoryRealEstate.Slug(); got != "real-estate" {
		t.Errorf("Slug() = %q, want %q", got, "real-estate")
	}
	if got := CategoryFinance.Slug(); got != "finance" {
		t.Errorf("Slug() = %q, want %q", got, "finance")
	}
}

// 公開状態ごとの可視性を検証
func TestArticleStatus_IsVisible(t *testing.T) {
	tests := []struct {
		status ArticleStatus
		want   bool
	}{
		{StatusDraft, false},
		{StatusPublished, true},
		{StatusPremium, true},
	}

	for _, tt := range tests {
		if got := tt.status.IsVisible(); got != tt.want {
			t.Errorf("%s.IsVisible() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestParseArticleStatus(t *testing.T) {
	if _, ok := ParseArticleStatus("published"); !ok {
		t.Error("expected 'published' to parse")
	}
	if _, ok := ParseArticleStatus("archived"); ok {
		t.Error("expected 'archived' to be rejected")
	}
}

// 記事自体の可視性が状態に連動することを検証
func TestArticle_IsVisible(t *testing.T) {
	draft := &Article{Status: StatusDraft}
	if draft.IsVisible() {
		t.Error("draft article should not be visible")
	}
	published := &Article{Status: StatusPublished}
	if !published.IsVisible() {
		t.Error("published article should be visible")
	}
}
