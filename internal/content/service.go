// Package content は記事の可視性ポリシーと検索・フィルタのドメインロジックを提供する。
package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fintechrp/website/internal/model"
	"github.com/fintechrp/website/internal/repository"
)

// homePageArticles はホームページに表示する最新記事数。
const homePageArticles = 5

// Service は公開サイト向けの記事読み取りサービス。
// 公開状態（draft / published / premium）による可視性の判定を一元化する。
type Service struct {
	articleRepo repository.ArticleRepository
	commentRepo repository.CommentRepository
	likeRepo    repository.LikeRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	articleRepo repository.ArticleRepository,
	commentRepo repository.CommentRepository,
	likeRepo repository.LikeRepository,
) *Service {
	return &Service{
		articleRepo: articleRepo,
		commentRepo: commentRepo,
		likeRepo:    likeRepo,
	}
}

// BuildQuery は生のカテゴリスラッグと検索語からQuerySpecを組み立てる。
//
// カテゴリスラッグはハイフンをアンダースコアに正規化した上で既知カテゴリと
// 照合し、未知の値はフィルタなしとして無視する（エラーにしない）。
// 検索語はトリムし、空でなければそのまま保持する。大文字小文字の扱いと
// OR結合・重複排除はリポジトリのSQLが担う。
func (s *Service) BuildQuery(rawCategorySlug, rawQueryText string) model.QuerySpec {
	spec := model.QuerySpec{
		SearchText: strings.TrimSpace(rawQueryText),
	}

	if rawCategorySlug != "" {
		if category, ok := model.ParseCategorySlug(rawCategorySlug); ok {
			spec.Category = &category
		}
	}

	return spec
}

// List は検索条件に一致する公開記事を返す。
func (s *Service) List(ctx context.Context, spec model.QuerySpec) ([]*model.Article, error) {
	articles, err := s.articleRepo.List(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("記事一覧の取得に失敗しました: %w", err)
	}
	return articles, nil
}

// Home はホームページに表示する最新の公開記事を返す。
func (s *Service) Home(ctx context.Context) ([]*model.Article, error) {
	return s.List(ctx, model.QuerySpec{Limit: homePageArticles})
}

// Detail は指定スラッグの公開記事を返す。
//
// 記事が存在しない場合と下書き状態の場合のどちらもArticleNotFoundを返す。
// エラーの形を揃えることで、未公開記事の存在が認証されていない呼び出し元に
// 漏れることを防ぐ。
func (s *Service) Detail(ctx context.Context, slug string) (*model.Article, error) {
	article, err := s.articleRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("記事の取得に失敗しました: %w", err)
	}
	if article == nil || !article.IsVisible() {
		return nil, model.NewArticleNotFoundError()
	}
	return article, nil
}

// ApprovedComments は記事の承認済みコメントをcreated_at昇順で返す。
func (s *Service) ApprovedComments(ctx context.Context, articleID string) ([]*model.Comment, error) {
	comments, err := s.commentRepo.ListApprovedByArticle(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("コメント一覧の取得に失敗しました: %w", err)
	}
	return comments, nil
}

// LikesCount は記事のいいね総数を返す。
func (s *Service) LikesCount(ctx context.Context, articleID string) (int, error) {
	return s.likeRepo.CountByArticle(ctx, articleID)
}

// RecordView は記事の閲覧数を加算する。
// 閲覧数はベストエフォートの統計値であり、失敗してもページ配信は継続する。
func (s *Service) RecordView(ctx context.Context, articleID string) {
	if err := s.articleRepo.IncrementViewCount(ctx, articleID); err != nil {
		slog.Warn("failed to record article view",
			slog.String("article_id", articleID),
			slog.String("error", err.Error()),
		)
	}
}
