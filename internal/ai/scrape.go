package ai

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	// maxPageText bounds how much body text of a page goes into a prompt.
	maxPageText = 8000
	// maxPageBytes bounds how much of a response is read and parsed.
	maxPageBytes = 2 << 20 // 2 MB
)

// Page is what a recipe link says about itself.
type Page struct {
	Title         string
	Description   string
	OGTitle       string
	OGDescription string
	Text          string
}

func (p *Page) BestTitle() string {
	if p.OGTitle != "" {
		return p.OGTitle
	}
	return p.Title
}

// Summary joins the non-empty parts of the page, titles first.
func (p *Page) Summary() string {
	var parts []string
	for _, s := range []string{p.OGTitle, p.OGDescription, p.Title, p.Description, p.Text} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

func (p *Page) empty() bool {
	return p.Summary() == ""
}

type PageFetcher struct {
	client *http.Client
	logger *slog.Logger
}

func NewPageFetcher(client *http.Client, logger *slog.Logger) *PageFetcher {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &PageFetcher{client: client, logger: logger}
}

func (f *PageFetcher) Fetch(ctx context.Context, link string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; KitchenFlow/1.0)")
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			f.logger.Error("failed to close page body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch page: status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(strings.ToLower(ct), "html") {
		return nil, fmt.Errorf("failed to fetch page: unexpected content type %q", ct)
	}

	return parsePage(io.LimitReader(resp.Body, maxPageBytes))
}

func parsePage(r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	doc.Find("script, style, nav, footer, iframe, noscript").Remove()

	meta := func(selector string) string {
		v, _ := doc.Find(selector).First().Attr("content")
		return strings.TrimSpace(v)
	}

	text := strings.Join(strings.Fields(doc.Find("body").Text()), " ")
	if r := []rune(text); len(r) > maxPageText {
		text = string(r[:maxPageText])
	}

	return &Page{
		Title:         strings.TrimSpace(doc.Find("title").First().Text()),
		Description:   meta(`meta[name="description"]`),
		OGTitle:       meta(`meta[property="og:title"]`),
		OGDescription: meta(`meta[property="og:description"]`),
		Text:          text,
	}, nil
}
