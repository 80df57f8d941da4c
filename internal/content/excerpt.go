package content

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// defaultExcerptLength は抜粋のデフォルト文字数。
const defaultExcerptLength = 200

// Excerpt はサニタイズ済みHTML本文からプレーンテキストの抜粋を生成する。
// summaryが空の記事の一覧表示とRSSフィードの説明文に使用する。
// maxRunesが0以下の場合はデフォルト文字数で切り詰める。
func Excerpt(bodyHTML string, maxRunes int) string {
	if maxRunes <= 0 {
		maxRunes = defaultExcerptLength
	}

	text := stripTags(bodyHTML)
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}

	runes := []rune(text)
	return strings.TrimSpace(string(runes[:maxRunes])) + "…"
}

// stripTags はHTMLからテキストノードのみを取り出し、空白を正規化して連結する。
func stripTags(rawHTML string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(rawHTML))

	var parts []string
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			if text := strings.TrimSpace(tokenizer.Token().Data); text != "" {
				parts = append(parts, text)
			}
		}
	}

	return strings.Join(parts, " ")
}
