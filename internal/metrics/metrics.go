// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラー層から利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordArticleView(category string)
	RecordLikeToggle(liked bool)
	RecordCommentSubmitted(autoApproved bool)
	RecordNewsletterSignup()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus        *prometheus.CounterVec
	articleViews      *prometheus.CounterVec
	likeToggles       *prometheus.CounterVec
	commentsSubmitted *prometheus.CounterVec
	newsletterSignups prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fintechrp_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		articleViews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fintechrp_article_views_total",
			Help: "カテゴリ別の記事閲覧数",
		}, []string{"category"}),
		likeToggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fintechrp_like_toggles_total",
			Help: "トグル後の状態別のいいね操作数",
		}, []string{"result"}),
		commentsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fintechrp_comments_submitted_total",
			Help: "承認状態別のコメント投稿数",
		}, []string{"approval"}),
		newsletterSignups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fintechrp_newsletter_signups_total",
			Help: "ニュースレター購読登録の合計数",
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.articleViews,
		c.likeToggles,
		c.commentsSubmitted,
		c.newsletterSignups,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordArticleView は記事閲覧を記録する。
func (c *Collector) RecordArticleView(category string) {
	c.articleViews.WithLabelValues(category).Inc()
}

// RecordLikeToggle はいいね操作を記録する。
func (c *Collector) RecordLikeToggle(liked bool) {
	result := "unliked"
	if liked {
		result = "liked"
	}
	c.likeToggles.WithLabelValues(result).Inc()
}

// RecordCommentSubmitted はコメント投稿を記録する。
func (c *Collector) RecordCommentSubmitted(autoApproved bool) {
	approval := "pending"
	if autoApproved {
		approval = "auto_approved"
	}
	c.commentsSubmitted.WithLabelValues(approval).Inc()
}

// RecordNewsletterSignup はニュースレター購読登録を記録する。
func (c *Collector) RecordNewsletterSignup() {
	c.newsletterSignups.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
