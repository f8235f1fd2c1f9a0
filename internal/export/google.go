package export

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Kamon-Tahara-504/HypoFrame/internal/types"
)

const sheetTitle = "HypoFrame エクスポート"

// Tokens is a Google OAuth token pair supplied by the caller. Only the
// access token is sent to the APIs; the refresh token is used at most once
// per export to recover from an expired access token.
type Tokens struct {
	AccessToken  string
	RefreshToken string
}

// DocResult identifies a created document.
type DocResult struct {
	DocumentID  string `json:"documentId"`
	DocumentURL string `json:"documentUrl"`
}

// SheetResult identifies a created spreadsheet.
type SheetResult struct {
	SpreadsheetID  string `json:"spreadsheetId"`
	SpreadsheetURL string `json:"spreadsheetUrl"`
}

// Exporter writes results to Google Docs and Sheets using caller-supplied
// OAuth tokens.
type Exporter struct {
	oauth      *oauth2.Config
	logger     *zap.Logger
	clientOpts []option.ClientOption
	now        func() time.Time
}

// ExporterOption configures an Exporter.
type ExporterOption func(*Exporter)

// WithClientOptions appends extra Google API client options, such as an
// endpoint override for tests.
func WithClientOptions(opts ...option.ClientOption) ExporterOption {
	return func(e *Exporter) { e.clientOpts = append(e.clientOpts, opts...) }
}

// WithTokenURL overrides the OAuth token endpoint used for refreshes.
func WithTokenURL(url string) ExporterOption {
	return func(e *Exporter) { e.oauth.Endpoint.TokenURL = url }
}

// WithClock overrides the clock used for export file names.
func WithClock(now func() time.Time) ExporterOption {
	return func(e *Exporter) { e.now = now }
}

// NewExporter creates an Exporter for the given OAuth client credentials.
func NewExporter(clientID, clientSecret string, logger *zap.Logger, opts ...ExporterOption) *Exporter {
	e := &Exporter{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
		},
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExportDoc creates a new document titled after the company name and inserts
// the letter draft. The returned tokens carry a refreshed access token when a
// refresh happened, so the caller can persist it.
func (e *Exporter) ExportDoc(ctx context.Context, tokens Tokens, req *types.DocExportRequest) (*DocResult, Tokens, error) {
	title := strings.TrimSuffix(FileName(req.CompanyName, e.now()), ".txt")

	var result *DocResult
	tokens, err := e.withRefresh(ctx, tokens, func(accessToken string) error {
		svc, err := docs.NewService(ctx, e.serviceOptions(accessToken)...)
		if err != nil {
			return fmt.Errorf("failed to create docs client: %w", err)
		}
		doc, err := svc.Documents.Create(&docs.Document{Title: title}).Context(ctx).Do()
		if err != nil {
			return err
		}
		_, err = svc.Documents.BatchUpdate(doc.DocumentId, &docs.BatchUpdateDocumentRequest{
			Requests: []*docs.Request{{
				InsertText: &docs.InsertTextRequest{
					Location: &docs.Location{Index: 1},
					Text:     req.LetterDraft,
				},
			}},
		}).Context(ctx).Do()
		if err != nil {
			return err
		}
		result = &DocResult{
			DocumentID:  doc.DocumentId,
			DocumentURL: fmt.Sprintf("https://docs.google.com/document/d/%s/edit", doc.DocumentId),
		}
		return nil
	})
	if err != nil {
		return nil, tokens, err
	}
	return result, tokens, nil
}

// ExportSheet creates a new spreadsheet and writes a header row plus one
// result row.
func (e *Exporter) ExportSheet(ctx context.Context, tokens Tokens, row *types.ExportRow) (*SheetResult, Tokens, error) {
	values := [][]interface{}{toCells(SheetHeaders), toCells(SheetRow(row))}

	var result *SheetResult
	tokens, err := e.withRefresh(ctx, tokens, func(accessToken string) error {
		svc, err := sheets.NewService(ctx, e.serviceOptions(accessToken)...)
		if err != nil {
			return fmt.Errorf("failed to create sheets client: %w", err)
		}
		ss, err := svc.Spreadsheets.Create(&sheets.Spreadsheet{
			Properties: &sheets.SpreadsheetProperties{Title: sheetTitle},
		}).Context(ctx).Do()
		if err != nil {
			return err
		}
		_, err = svc.Spreadsheets.Values.Update(ss.SpreadsheetId, "Sheet1!A1:M2", &sheets.ValueRange{
			Values: values,
		}).ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return err
		}
		result = &SheetResult{
			SpreadsheetID:  ss.SpreadsheetId,
			SpreadsheetURL: fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s", ss.SpreadsheetId),
		}
		return nil
	})
	if err != nil {
		return nil, tokens, err
	}
	return result, tokens, nil
}

// withRefresh runs op with the current access token. When the call fails
// because the access token expired and a refresh token is available, it
// refreshes the access token once and retries op once. The returned tokens
// reflect the refresh so the caller can persist the new access token.
func (e *Exporter) withRefresh(ctx context.Context, tokens Tokens, op func(accessToken string) error) (Tokens, error) {
	err := op(tokens.AccessToken)
	if err == nil {
		return tokens, nil
	}
	if !isAuthExpired(err) || tokens.RefreshToken == "" {
		return tokens, err
	}

	e.logger.Info("access token expired, refreshing")
	refreshed, refreshErr := e.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: tokens.RefreshToken}).Token()
	if refreshErr != nil {
		return tokens, fmt.Errorf("failed to refresh access token: %w", refreshErr)
	}
	tokens.AccessToken = refreshed.AccessToken

	if err := op(tokens.AccessToken); err != nil {
		return tokens, err
	}
	return tokens, nil
}

func (e *Exporter) serviceOptions(accessToken string) []option.ClientOption {
	opts := []option.ClientOption{
		option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})),
	}
	return append(opts, e.clientOpts...)
}

func isAuthExpired(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusUnauthorized
}

func toCells(row []string) []interface{} {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return cells
}
