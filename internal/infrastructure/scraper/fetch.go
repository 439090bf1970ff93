package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ecocart/backend/internal/domain"
)

// maxPageBytes caps how much HTML is read from a single page
const maxPageBytes = 5 << 20

// fetcher downloads and parses HTML pages
type fetcher struct {
	httpClient *http.Client
	userAgent  string
}

func newFetcher(userAgent string, timeout time.Duration) *fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &fetcher{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
	}
}

// document GETs pageURL and parses it. Non-200 answers are reported as
// domain.ErrUpstreamUnreachable.
func (f *fetcher) document(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned status %d", domain.ErrUpstreamUnreachable, pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return doc, nil
}

// searchURL builds base+path?param=query with the query form-encoded
func searchURL(base, path string, params url.Values) string {
	return strings.TrimSuffix(base, "/") + path + "?" + params.Encode()
}

// absoluteURL resolves a site-relative href against the site base URL
func absoluteURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	if strings.HasPrefix(href, "/") {
		return strings.TrimSuffix(base, "/") + href
	}
	return href
}

// collapseSpace trims and collapses runs of whitespace
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
