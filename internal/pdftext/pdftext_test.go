package pdftext

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSkipsBrokenDocuments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/broken.pdf":
			_, _ = w.Write([]byte("%PDF-1.4 truncated garbage"))
		case "/notpdf.pdf":
			_, _ = w.Write([]byte("<html>not a document</html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	got := Extract(context.Background(), []string{
		srv.URL + "/broken.pdf",
		srv.URL + "/notpdf.pdf",
		srv.URL + "/missing.pdf",
	}, nil)
	assert.Equal(t, "", got)
}

func TestExtractNoURLs(t *testing.T) {
	assert.Equal(t, "", Extract(context.Background(), nil, nil))
}

func TestExtractCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, "", Extract(ctx, []string{"https://example.invalid/ir.pdf"}, nil))
}

func TestParseDocumentBrokenInput(t *testing.T) {
	assert.Equal(t, "", parseDocument([]byte("not a pdf at all"), 20))
	assert.Equal(t, "", parseDocument(nil, 20))
}
