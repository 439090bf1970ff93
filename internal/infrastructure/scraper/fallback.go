package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/ecocart/backend/internal/domain"
)

// WebFallback is the last network source: an image search result for the
// picture and the first encyclopedia paragraph for the description.
type WebFallback struct {
	fetch           *fetcher
	imageSearchURL  string
	encyclopediaURL string
	requestTimeout  time.Duration
}

// NewWebFallback creates the image search plus encyclopedia source. Each of
// the two lookups gets its own requestTimeout budget.
func NewWebFallback(imageSearchURL, encyclopediaURL, userAgent string, requestTimeout time.Duration) *WebFallback {
	if requestTimeout <= 0 {
		requestTimeout = 5 * time.Second
	}
	return &WebFallback{
		fetch:           newFetcher(userAgent, requestTimeout),
		imageSearchURL:  imageSearchURL,
		encyclopediaURL: strings.TrimSuffix(encyclopediaURL, "/"),
		requestTimeout:  requestTimeout,
	}
}

// Name implements domain.EnrichmentSource
func (w *WebFallback) Name() string {
	return "web-fallback"
}

// Attempt runs both lookups concurrently, each under its own deadline, so a
// slow image search cannot starve the encyclopedia. It fails only when both
// come back empty.
func (w *WebFallback) Attempt(ctx context.Context, productName string) domain.SourceResult {
	var (
		wg                 sync.WaitGroup
		image, description string
		imgErr, descErr    error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		reqCtx, cancel := context.WithTimeout(ctx, w.requestTimeout)
		defer cancel()
		image, imgErr = w.searchImage(reqCtx, productName)
	}()
	go func() {
		defer wg.Done()
		reqCtx, cancel := context.WithTimeout(ctx, w.requestTimeout)
		defer cancel()
		description, descErr = w.encyclopediaSummary(reqCtx, productName)
	}()
	wg.Wait()

	if imgErr != nil {
		log.Debug().Err(imgErr).Str("product", productName).Msg("Image search failed")
	}
	if descErr != nil {
		log.Debug().Err(descErr).Str("product", productName).Msg("Encyclopedia lookup failed")
	}

	if image == "" && description == "" {
		if imgErr != nil {
			return domain.Fail(imgErr)
		}
		if descErr != nil {
			return domain.Fail(descErr)
		}
		return domain.Fail(fmt.Errorf("%w: no image or summary", domain.ErrSourceEmpty))
	}

	return domain.Ok(&domain.PartialProduct{ImageURL: image, Description: description})
}

// searchImage skips the first <img> (the search engine logo) and returns the
// first remaining absolute, non-inline image source.
func (w *WebFallback) searchImage(ctx context.Context, productName string) (string, error) {
	pageURL := w.imageSearchURL + "?" + url.Values{"tbm": {"isch"}, "q": {productName}}.Encode()

	doc, err := w.fetch.document(ctx, pageURL)
	if err != nil {
		return "", err
	}

	imgs := doc.Find("img")
	if imgs.Length() < 2 {
		return "", nil
	}

	var found string
	imgs.Slice(1, goquery.ToEnd).EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src, _ := img.Attr("src")
		if strings.HasPrefix(src, "http") && !strings.HasPrefix(src, "data:") {
			found = src
			return false
		}
		return true
	})
	return found, nil
}

// encyclopediaSummary returns the first non-empty paragraph of the article
// titled after the product name.
func (w *WebFallback) encyclopediaSummary(ctx context.Context, productName string) (string, error) {
	title := strings.ReplaceAll(strings.TrimSpace(productName), " ", "_")
	doc, err := w.fetch.document(ctx, w.encyclopediaURL+"/"+url.PathEscape(title))
	if err != nil {
		return "", err
	}

	var summary string
	doc.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		summary = collapseSpace(p.Text())
		return summary == ""
	})
	return summary, nil
}
