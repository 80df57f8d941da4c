package handler

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/fintechrp/website/internal/content"
	"github.com/fintechrp/website/internal/model"
	"github.com/fintechrp/website/internal/render"
)

// feedItemLimit はRSSフィードに含める最新記事数。
const feedItemLimit = 20

// feedExcerptRunes はフィードのdescriptionに使う抜粋の長さ。
const feedExcerptRunes = 300

// FeedHandler はRSSフィードのHTTPハンドラー。
type FeedHandler struct {
	content *content.Service
	baseURL string
}

// NewFeedHandler はFeedHandlerを生成する。
// baseURLは末尾スラッシュなしのサイトURL（例 https://fintechrp.com）。
func NewFeedHandler(contentSvc *content.Service, baseURL string) *FeedHandler {
	return &FeedHandler{content: contentSvc, baseURL: baseURL}
}

// rssFeed はRSS 2.0のトップレベル要素。
type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	Description string `xml:"description"`
	Category    string `xml:"category"`
	PubDate     string `xml:"pubDate"`
}

// Feed は公開記事の最新20件をRSS 2.0で返す。
// GET /feed.xml
func (h *FeedHandler) Feed(w http.ResponseWriter, r *http.Request) {
	articles, err := h.content.List(r.Context(), model.QuerySpec{Limit: feedItemLimit})
	if err != nil {
		logServerError(err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	channel := rssChannel{
		Title:       render.SiteName,
		Link:        h.baseURL + "/",
		Description: render.SiteName + " - Insights on finance, technology, real estate, and trade",
		Language:    "en",
	}
	if len(articles) > 0 {
		channel.LastBuildDate = articles[0].CreatedAt.Format(time.RFC1123Z)
	}

	for _, a := range articles {
		link := h.baseURL + "/article/" + a.Slug + "/"
		description := a.Summary
		if description == "" {
			description = content.Excerpt(a.Body, feedExcerptRunes)
		}
		channel.Items = append(channel.Items, rssItem{
			Title:       a.Title,
			Link:        link,
			GUID:        link,
			Description: description,
			Category:    a.Category.Label(),
			PubDate:     a.CreatedAt.Format(time.RFC1123Z),
		})
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Write([]byte(xml.Header))
	if err := xml.NewEncoder(w).Encode(rssFeed{Version: "2.0", Channel: channel}); err != nil {
		logServerError(err)
	}
}
