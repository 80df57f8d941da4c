package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/fintechrp/website/internal/model"
)

// ErrorResponseBody はAPIエラーレスポンスの統一フォーマット。
type ErrorResponseBody struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
}

// WriteErrorResponse は統一エラーフォーマットでHTTPエラーレスポンスを書き込む。
// JSONを返すエンドポイント（like / newsletter signup）で使用する。
func WriteErrorResponse(w http.ResponseWriter, statusCode int, siteErr *model.SiteError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponseBody{
		Code:     siteErr.Code,
		Message:  siteErr.Message,
		Category: siteErr.Category,
	})
}

// WriteInternalServerError は内部サーバーエラーの統一レスポンスを書き込む。
// 詳細はログのみに記録し、ユーザーには一般的なメッセージを返す。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteErrorResponse(w, http.StatusInternalServerError, &model.SiteError{
		Code:     "INTERNAL_ERROR",
		Message:  "An internal error occurred. Please try again later.",
		Category: "system",
	})
}
