package content

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// HTMLタグが除去されテキストのみが残ることを検証
func TestExcerpt_StripsTags(t *testing.T) {
	got := Excerpt("<h2>Heading</h2><p>First paragraph.</p><p>Second <strong>bold</strong> text.</p>", 0)

	if strings.Contains(got, "<") || strings.Contains(got, ">") {
		t.Errorf("excerpt should not contain tags, got %q", got)
	}
	for _, want := range []string{"Heading", "First paragraph.", "bold"} {
		if !strings.Contains(got, want) {
			t.Errorf("excerpt should contain %q, got %q", want, got)
		}
	}
}

// 上限を超えるテキストが切り詰められて省略記号が付くことを検証
func TestExcerpt_TruncatesLongText(t *testing.T) {
	long := "<p>" + strings.Repeat("a", 300) + "</p>"
	got := Excerpt(long, 50)

	if !strings.HasSuffix(got, "…") {
		t.Errorf("truncated excerpt should end with ellipsis, got %q", got)
	}
	if utf8.RuneCountInString(got) > 51 {
		t.Errorf("excerpt length = %d runes, want at most 51", utf8.RuneCountInString(got))
	}
}

// 上限以下のテキストはそのまま返ることを検証
func TestExcerpt_ShortTextUnchanged(t *testing.T) {
	got := Excerpt("<p>short text</p>", 50)
	if got != "short text" {
		t.Errorf("excerpt = %q, want %q", got, "short text")
	}
}

// マルチバイト文字が文字数単位で切り詰められることを検証
func TestExcerpt_MultibyteText(t *testing.T) {
	got := Excerpt("<p>"+strings.Repeat("あ", 100)+"</p>", 10)
	if utf8.RuneCountInString(got) != 11 {
		t.Errorf("excerpt length = %d runes, want 11", utf8.RuneCountInString(got))
	}
}
