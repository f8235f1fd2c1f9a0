package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/Kamon-Tahara-504/HypoFrame/internal/crawl"
	"github.com/Kamon-Tahara-504/HypoFrame/internal/pipeline"
	"github.com/Kamon-Tahara-504/HypoFrame/internal/types"
)

// handleGenerate runs the full crawl → structurize → generate chain, racing
// it against the generation timeout. Validation happens synchronously before
// any work starts.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req types.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.apiError(w, types.CodeCrawlForbidden)
		return
	}
	if !validGenerateURL(req.URL) {
		s.apiError(w, types.CodeCrawlForbidden)
		return
	}

	// An unknown focus value is dropped rather than rejected.
	var focus types.OutputFocus
	if types.ValidFocus(req.OutputFocus) {
		focus = types.OutputFocus(req.OutputFocus)
	}

	resp, code := s.runWithTimeout(r, req.URL, focus)
	if code != "" {
		s.apiError(w, code)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

type generateOutcome struct {
	resp *types.GenerateResponse
	err  error
}

// runWithTimeout races the work chain against the timeout. Losing the race
// cancels the shared context so in-flight fetches stop; the work goroutine's
// late result is then discarded via the buffered channel.
func (s *Server) runWithTimeout(r *http.Request, rawURL string, focus types.OutputFocus) (*types.GenerateResponse, types.APIErrorCode) {
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	done := make(chan generateOutcome, 1)
	go func() {
		resp, err := s.pipeline.Run(ctx, rawURL, focus)
		done <- generateOutcome{resp: resp, err: err}
	}()

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	select {
	case out := <-done:
		if out.err != nil {
			return nil, s.classifyGenerateError(out.err)
		}
		return out.resp, ""
	case <-timer.C:
		cancel()
		s.logger.Warn("generation timed out", zap.String("url", rawURL))
		return nil, types.CodeTimeout
	}
}

// classifyGenerateError maps a work-chain failure onto the closed code set.
func (s *Server) classifyGenerateError(err error) types.APIErrorCode {
	var crawlErr *pipeline.CrawlError
	if errors.As(err, &crawlErr) {
		if crawlErr.Reason == crawl.ReasonEmpty {
			return types.CodeCrawlEmpty
		}
		return types.CodeCrawlForbidden
	}
	s.logger.Error("generation failed", zap.Error(err))
	return types.CodeLLMError
}

// validGenerateURL accepts absolute http/https URLs with a host.
func validGenerateURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
