package server

import (
	"net/http"

	"github.com/Kamon-Tahara-504/HypoFrame/internal/types"
)

// errorMessages holds the user-facing Japanese message for each failure code.
var errorMessages = map[types.APIErrorCode]string{
	types.CodeTimeout:        "取得できませんでした。URLをご確認のうえ、しばらく経ってから再試行してください。",
	types.CodeCrawlForbidden: "このページは取得できませんでした。",
	types.CodeCrawlEmpty:     "十分な情報が取得できませんでした。別のURL（例：会社概要ページ）をお試しください。",
	types.CodeLLMError:       "仮説の生成に失敗しました。しばらく経ってから再試行してください。",
}

// codeStatus maps each failure code to its HTTP status. Invalid requests
// reuse CRAWL_FORBIDDEN at 400 rather than introducing an extra code.
var codeStatus = map[types.APIErrorCode]int{
	types.CodeTimeout:        http.StatusRequestTimeout,
	types.CodeCrawlForbidden: http.StatusBadRequest,
	types.CodeCrawlEmpty:     http.StatusUnprocessableEntity,
	types.CodeLLMError:       http.StatusBadGateway,
}

// apiError writes the {error, code} failure body at the code's status.
func (s *Server) apiError(w http.ResponseWriter, code types.APIErrorCode) {
	s.jsonResponse(w, codeStatus[code], types.APIError{
		Error: errorMessages[code],
		Code:  code,
	})
}
