package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Kamon-Tahara-504/HypoFrame/internal/config"
	"github.com/Kamon-Tahara-504/HypoFrame/internal/db"
	"github.com/Kamon-Tahara-504/HypoFrame/internal/export"
	"github.com/Kamon-Tahara-504/HypoFrame/internal/types"
)

// fakeRunner scripts the pipeline for handler tests.
type fakeRunner struct {
	run func(ctx context.Context, url string, focus types.OutputFocus) (*types.GenerateResponse, error)
}

func (r *fakeRunner) Run(ctx context.Context, url string, focus types.OutputFocus) (*types.GenerateResponse, error) {
	return r.run(ctx, url, focus)
}

// fakeStore is an in-memory Store with the same ownership semantics as the
// database layer.
type fakeStore struct {
	runs   map[uuid.UUID]*types.Run
	owners map[uuid.UUID]uuid.UUID
	logs   map[uuid.UUID][]types.EditLog
	users  map[string]*types.User

	updateGenErr error // injected UpdateGeneration failure
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		runs:   make(map[uuid.UUID]*types.Run),
		owners: make(map[uuid.UUID]uuid.UUID),
		logs:   make(map[uuid.UUID][]types.EditLog),
		users:  make(map[string]*types.User),
	}
}

func (s *fakeStore) addRun(ownerID uuid.UUID, run *types.Run) {
	s.runs[run.ID] = run
	s.owners[run.ID] = ownerID
}

func (s *fakeStore) InsertRun(_ context.Context, ownerID uuid.UUID, ins *types.RunInsert) (uuid.UUID, error) {
	id := uuid.New()
	s.addRun(ownerID, &types.Run{
		ID:                 id,
		InputURL:           ins.InputURL,
		CompanyName:        ins.CompanyName,
		SummaryBusiness:    ins.SummaryBusiness,
		HypothesisSegment1: ins.HypothesisSegment1,
		HypothesisSegment2: ins.HypothesisSegment2,
		HypothesisSegment3: ins.HypothesisSegment3,
		HypothesisSegment4: ins.HypothesisSegment4,
		HypothesisSegment5: ins.HypothesisSegment5,
		LetterDraft:        ins.LetterDraft,
		RegeneratedCount:   ins.RegeneratedCount,
	})
	return id, nil
}

func (s *fakeStore) GetRun(_ context.Context, id, ownerID uuid.UUID) (*types.Run, error) {
	run, ok := s.runs[id]
	if !ok || s.owners[id] != ownerID {
		return nil, db.ErrNotFound
	}
	cp := *run
	return &cp, nil
}

func (s *fakeStore) ListRuns(_ context.Context, ownerID uuid.UUID, limit, offset int) ([]types.RunListItem, error) {
	items := make([]types.RunListItem, 0)
	for id, run := range s.runs {
		if s.owners[id] != ownerID {
			continue
		}
		items = append(items, types.RunListItem{ID: run.ID, InputURL: run.InputURL, CompanyName: run.CompanyName})
	}
	if offset > len(items) {
		offset = len(items)
	}
	items = items[offset:]
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *fakeStore) UpdateRun(_ context.Context, id, ownerID uuid.UUID, patch *types.RunPatch) (*types.Run, error) {
	run, ok := s.runs[id]
	if !ok || s.owners[id] != ownerID {
		return nil, db.ErrNotFound
	}
	apply := func(target string, cur *string, val *string) {
		if val == nil || *val == *cur {
			return
		}
		s.logs[id] = append(s.logs[id], types.EditLog{RunID: id, TargetField: target, Before: *cur, After: *val})
		*cur = *val
	}
	apply("segment_1", &run.HypothesisSegment1, patch.HypothesisSegment1)
	apply("segment_2", &run.HypothesisSegment2, patch.HypothesisSegment2)
	apply("segment_3", &run.HypothesisSegment3, patch.HypothesisSegment3)
	apply("segment_4", &run.HypothesisSegment4, patch.HypothesisSegment4)
	apply("segment_5", &run.HypothesisSegment5, patch.HypothesisSegment5)
	apply("letter_draft", &run.LetterDraft, patch.LetterDraft)
	cp := *run
	return &cp, nil
}

func (s *fakeStore) UpdateGeneration(_ context.Context, id, ownerID uuid.UUID, gen *types.GenerateResponse) (*types.Run, error) {
	if s.updateGenErr != nil {
		return nil, s.updateGenErr
	}
	run, ok := s.runs[id]
	if !ok || s.owners[id] != ownerID {
		return nil, db.ErrNotFound
	}
	run.SummaryBusiness = gen.SummaryBusiness
	run.Industry = gen.Industry
	run.EmployeeScale = gen.EmployeeScale
	run.DecisionMakerName = gen.DecisionMakerName
	run.IRSummary = gen.IRSummary
	run.HypothesisSegment1 = gen.HypothesisSegments[0]
	run.HypothesisSegment2 = gen.HypothesisSegments[1]
	run.HypothesisSegment3 = gen.HypothesisSegments[2]
	run.HypothesisSegment4 = gen.HypothesisSegments[3]
	run.HypothesisSegment5 = gen.HypothesisSegments[4]
	run.LetterDraft = gen.LetterDraft
	run.RegeneratedCount++
	cp := *run
	return &cp, nil
}

func (s *fakeStore) ListEditLogs(_ context.Context, runID uuid.UUID) ([]types.EditLog, error) {
	return s.logs[runID], nil
}

func (s *fakeStore) CreateUser(_ context.Context, email, passwordHash string) (*types.User, error) {
	key := strings.ToLower(email)
	if _, ok := s.users[key]; ok {
		return nil, db.ErrEmailTaken
	}
	user := &types.User{ID: uuid.New(), Email: key, PasswordHash: passwordHash}
	s.users[key] = user
	return user, nil
}

func (s *fakeStore) GetUserByEmail(_ context.Context, email string) (*types.User, error) {
	user, ok := s.users[strings.ToLower(email)]
	if !ok {
		return nil, db.ErrNotFound
	}
	return user, nil
}

// fakeExporter scripts the Google integration.
type fakeExporter struct {
	docResult   *export.DocResult
	sheetResult *export.SheetResult
	outTokens   export.Tokens
	err         error
	gotTokens   export.Tokens
}

func (e *fakeExporter) ExportDoc(_ context.Context, tokens export.Tokens, _ *types.DocExportRequest) (*export.DocResult, export.Tokens, error) {
	e.gotTokens = tokens
	out := e.outTokens
	if out == (export.Tokens{}) {
		out = tokens
	}
	return e.docResult, out, e.err
}

func (e *fakeExporter) ExportSheet(_ context.Context, tokens export.Tokens, _ *types.ExportRow) (*export.SheetResult, export.Tokens, error) {
	e.gotTokens = tokens
	out := e.outTokens
	if out == (export.Tokens{}) {
		out = tokens
	}
	return e.sheetResult, out, e.err
}

func newTestServer(t *testing.T, store Store, runner Runner, exporter Exporter) *Server {
	t.Helper()
	if store == nil {
		store = newFakeStore()
	}
	jwt := NewJWTService(&config.JWTConfig{Secret: "test-secret", ExpirationHours: 1})
	password := &config.PasswordConfig{BcryptCost: 4}
	return newServer(store, runner, exporter, jwt, password, zap.NewNop(), 5*time.Second)
}

func authHeader(t *testing.T, s *Server, userID uuid.UUID) string {
	t.Helper()
	token, err := s.jwt.GenerateToken(userID)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, h http.Handler, method, target, auth string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), out))
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil, nil, nil)
	rr := doJSON(t, s.Handler(), http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
}
