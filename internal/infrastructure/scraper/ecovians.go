package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/ecocart/backend/internal/domain"
)

// Ecovians scrapes the Ecovians marketplace search. It is both an enrichment
// source and the resolver for a product's canonical sourceUrl.
type Ecovians struct {
	fetch   *fetcher
	baseURL string
}

// NewEcovians creates an Ecovians scraper rooted at baseURL
func NewEcovians(baseURL, userAgent string, timeout time.Duration) *Ecovians {
	return &Ecovians{
		fetch:   newFetcher(userAgent, timeout),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Name implements domain.EnrichmentSource
func (e *Ecovians) Name() string {
	return "ecovians"
}

// SearchURL is the marketplace search page for productName
func (e *Ecovians) SearchURL(productName string) string {
	return searchURL(e.baseURL, "/search", url.Values{"q": {productName}})
}

// matchingCard returns the first product card whose title contains the
// product name, case-insensitively.
func (e *Ecovians) matchingCard(ctx context.Context, productName string) (*goquery.Selection, error) {
	doc, err := e.fetch.document(ctx, e.SearchURL(productName))
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(productName))
	var match *goquery.Selection
	doc.Find(".product-card").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		title := strings.ToLower(collapseSpace(card.Find(".product-card-title").First().Text()))
		if title != "" && strings.Contains(title, needle) {
			match = card
			return false
		}
		return true
	})

	if match == nil {
		return nil, fmt.Errorf("%w: no card matching %q", domain.ErrSourceEmpty, productName)
	}
	return match, nil
}

// Attempt reads the image and title of the matching product card
func (e *Ecovians) Attempt(ctx context.Context, productName string) domain.SourceResult {
	card, err := e.matchingCard(ctx, productName)
	if err != nil {
		return domain.Fail(err)
	}

	image, _ := card.Find("img").First().Attr("src")
	title := collapseSpace(card.Find(".product-card-title").First().Text())

	return domain.Ok(&domain.PartialProduct{
		ImageURL:    absoluteURL(e.baseURL, image),
		Description: title,
		EcoHint:     titleHint(title),
	})
}

// Resolve returns the absolute link of the matching product card, or the
// search page URL when nothing matches or the site is unreachable.
func (e *Ecovians) Resolve(ctx context.Context, productName string) string {
	fallback := e.SearchURL(productName)

	card, err := e.matchingCard(ctx, productName)
	if err != nil {
		log.Debug().Err(err).Str("product", productName).Msg("Source URL falls back to search page")
		return fallback
	}

	href, ok := card.Find("a").First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return fallback
	}
	return absoluteURL(e.baseURL, href)
}
