package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePage(t *testing.T) {
	page, err := parsePage(strings.NewReader(`<html><head>
		<title> Mapo Tofu </title>
		<meta name="description" content="Sichuan classic">
		<meta property="og:description" content="Numbing and spicy">
		</head><body><nav>Home</nav><h1>Mapo   Tofu</h1><style>h1{}</style><footer>(c)</footer></body></html>`))
	require.NoError(t, err)

	assert.Equal(t, "Mapo Tofu", page.Title)
	assert.Equal(t, "Mapo Tofu", page.BestTitle())
	assert.Equal(t, "Sichuan classic", page.Description)
	assert.Equal(t, "Numbing and spicy", page.OGDescription)
	assert.Equal(t, "Mapo Tofu", page.Text)
	assert.Equal(t, "Numbing and spicy\nMapo Tofu\nSichuan classic\nMapo Tofu", page.Summary())
}

func TestParsePageTruncatesText(t *testing.T) {
	body := "<html><body>" + strings.Repeat("a ", maxPageText) + "</body></html>"
	page, err := parsePage(strings.NewReader(body))
	require.NoError(t, err)
	assert.Len(t, []rune(page.Text), maxPageText)
}

func TestEmptyPage(t *testing.T) {
	page, err := parsePage(strings.NewReader(`<html><body></body></html>`))
	require.NoError(t, err)
	assert.True(t, page.empty())
}

func TestFetchRejectsNonHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.7"))
	}))
	defer srv.Close()

	_, err := NewPageFetcher(srv.Client(), discardLogger()).Fetch(context.Background(), srv.URL)
	assert.ErrorContains(t, err, "application/pdf")
}

func TestFetchStopsReadingLargePages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><head><title>Huge</title></head><body><p>"))
		_, _ = w.Write([]byte(strings.Repeat("a", maxPageBytes)))
		_, _ = w.Write([]byte(`</p><meta property="og:title" content="Past the limit"></body></html>`))
	}))
	defer srv.Close()

	page, err := NewPageFetcher(srv.Client(), discardLogger()).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Huge", page.Title)
	assert.Empty(t, page.OGTitle)
	assert.Len(t, []rune(page.Text), maxPageText)
}
