// Package interaction は訪問者とコンテンツの相互作用
// （いいね・コメント・ニュースレター購読・お問い合わせ）のドメインロジックを提供する。
package interaction

import (
	"context"
	"fmt"

	"github.com/fintechrp/website/internal/content"
	"github.com/fintechrp/website/internal/model"
	"github.com/fintechrp/website/internal/repository"
)

// ToggleResult は「いいね」トグルの結果を表す。
type ToggleResult struct {
	// Liked はトグル後の状態。作成された場合true、削除された場合false。
	Liked bool
	// LikesCount はトグル後の記事のいいね総数。
	LikesCount int
}

// LikeService は「いいね」トグルのサービス層。
// 可視性ポリシーを通した記事解決と、一意制約を前提とした
// 原子的なトグルを組み合わせる。
type LikeService struct {
	content  *content.Service
	likeRepo repository.LikeRepository
}

// NewLikeService はLikeServiceの新しいインスタンスを生成する。
func NewLikeService(content *content.Service, likeRepo repository.LikeRepository) *LikeService {
	return &LikeService{
		content:  content,
		likeRepo: likeRepo,
	}
}

// Toggle は(記事, 主体)の「いいね」状態を反転する。
//
// 記事は可視性ポリシーを通して解決するため、下書き記事への操作は
// 存在しない記事と同じArticleNotFoundになる。
// 同一主体から連続で呼ぶと liked=true → liked=false が交互に返り、
// いいね総数は元の値に戻る（冪等ペアリング）。
func (s *LikeService) Toggle(ctx context.Context, slug string, identity model.LikeIdentity) (*ToggleResult, error) {
	article, err := s.content.Detail(ctx, slug)
	if err != nil {
		return nil, err
	}

	liked, count, err := s.likeRepo.Toggle(ctx, article.ID, identity)
	if err != nil {
		return nil, fmt.Errorf("いいねのトグルに失敗しました: %w", err)
	}

	return &ToggleResult{Liked: liked, LikesCount: count}, nil
}
