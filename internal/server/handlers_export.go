package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/Kamon-Tahara-504/HypoFrame/internal/export"
	"github.com/Kamon-Tahara-504/HypoFrame/internal/types"
)

// Google OAuth tokens travel in headers rather than the body so export
// payloads stay identical to their on-disk run shapes.
const (
	googleAccessTokenHeader  = "X-Google-Access-Token"
	googleRefreshTokenHeader = "X-Google-Refresh-Token"
)

// handleExportDoc writes the letter draft into a new Google document.
func (s *Server) handleExportDoc(w http.ResponseWriter, r *http.Request) {
	tokens, ok := s.googleTokens(w, r)
	if !ok {
		return
	}

	var req types.DocExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	result, refreshed, err := s.exporter.ExportDoc(r.Context(), tokens, &req)
	if err != nil {
		s.logger.Error("doc export failed", zap.Error(err))
		s.errorResponse(w, http.StatusBadGateway, "Google ドキュメントの作成に失敗しました。")
		return
	}
	s.exportResponse(w, refreshed, tokens, result)
}

// handleExportSheet writes one result row into a new Google spreadsheet.
func (s *Server) handleExportSheet(w http.ResponseWriter, r *http.Request) {
	tokens, ok := s.googleTokens(w, r)
	if !ok {
		return
	}

	var row types.ExportRow
	if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(row); err != nil {
		s.errorResponse(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	result, refreshed, err := s.exporter.ExportSheet(r.Context(), tokens, &row)
	if err != nil {
		s.logger.Error("sheet export failed", zap.Error(err))
		s.errorResponse(w, http.StatusBadGateway, "Google スプレッドシートの作成に失敗しました。")
		return
	}
	s.exportResponse(w, refreshed, tokens, result)
}

func (s *Server) googleTokens(w http.ResponseWriter, r *http.Request) (export.Tokens, bool) {
	tokens := export.Tokens{
		AccessToken:  r.Header.Get(googleAccessTokenHeader),
		RefreshToken: r.Header.Get(googleRefreshTokenHeader),
	}
	if tokens.AccessToken == "" {
		s.errorResponse(w, http.StatusUnauthorized, "Google と連携してください。")
		return export.Tokens{}, false
	}
	return tokens, true
}

// exportResponse returns the result, echoing a refreshed access token in the
// response header so the caller can persist it.
func (s *Server) exportResponse(w http.ResponseWriter, refreshed, original export.Tokens, result any) {
	if refreshed.AccessToken != original.AccessToken {
		w.Header().Set(googleAccessTokenHeader, refreshed.AccessToken)
	}
	s.jsonResponse(w, http.StatusOK, result)
}
