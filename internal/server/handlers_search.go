package server

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// handleSearch returns company candidates for a free-text query. The endpoint
// is anonymous, like generation; it only proxies public search results.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		s.errorResponse(w, http.StatusBadRequest, "検索クエリ q を指定してください。")
		return
	}
	if s.searcher == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "検索機能が正しく設定されていません。")
		return
	}

	items, err := s.searcher.Search(r.Context(), query)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.errorResponse(w, http.StatusBadGateway, "検索に失敗しました。時間をおいて再試行してください。")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"items": items})
}
