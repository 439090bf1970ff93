package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/ecocart/backend/internal/domain"
)

const (
	earthHeroCard  = ".boost-pfs-filter-product-item"
	earthHeroTitle = ".boost-pfs-filter-product-title"
	earthHeroBadge = ".boost-pfs-filter-product-item-badge"
)

// EarthHero scrapes the EarthHero storefront. It serves both as an
// enrichment source (search page) and as the catalog listing scraper.
type EarthHero struct {
	fetch   *fetcher
	baseURL string
}

// NewEarthHero creates an EarthHero scraper rooted at baseURL
func NewEarthHero(baseURL, userAgent string, timeout time.Duration) *EarthHero {
	return &EarthHero{
		fetch:   newFetcher(userAgent, timeout),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Name implements domain.EnrichmentSource
func (e *EarthHero) Name() string {
	return "earthhero"
}

// Attempt searches the storefront and reads the first product card
func (e *EarthHero) Attempt(ctx context.Context, productName string) domain.SourceResult {
	pageURL := searchURL(e.baseURL, "/search", url.Values{
		"type": {"product"},
		"q":    {productName},
	})

	doc, err := e.fetch.document(ctx, pageURL)
	if err != nil {
		return domain.Fail(err)
	}

	card := doc.Find(earthHeroCard).First()
	if card.Length() == 0 {
		return domain.Fail(fmt.Errorf("%w: no product card", domain.ErrSourceEmpty))
	}

	image, _ := card.Find("img").First().Attr("src")
	title := collapseSpace(card.Find(earthHeroTitle).First().Text())
	if title == "" {
		title = productName
	}

	var badges []string
	card.Find(earthHeroBadge).Each(func(_ int, s *goquery.Selection) {
		badges = append(badges, collapseSpace(s.Text()))
	})

	partial := &domain.PartialProduct{
		ImageURL:    absoluteURL(e.baseURL, image),
		Description: title,
		EcoHint:     badgeHint(badges),
	}
	if partial.ImageURL == "" && partial.Description == "" {
		return domain.Fail(fmt.Errorf("%w: empty product card", domain.ErrSourceEmpty))
	}
	return domain.Ok(partial)
}

// ScrapeCatalog lists every product card on the "all products" collection page
func (e *EarthHero) ScrapeCatalog(ctx context.Context) ([]domain.CatalogProduct, error) {
	doc, err := e.fetch.document(ctx, e.baseURL+"/collections/all")
	if err != nil {
		return nil, err
	}

	products := make([]domain.CatalogProduct, 0)
	doc.Find(earthHeroCard).Each(func(_ int, card *goquery.Selection) {
		products = append(products, e.catalogProduct(card))
	})

	log.Debug().Int("count", len(products)).Msg("Scraped EarthHero catalog")
	return products, nil
}

func (e *EarthHero) catalogProduct(card *goquery.Selection) domain.CatalogProduct {
	img := card.Find(".boost-pfs-filter-product-item-flip-image").First()
	image, ok := img.Attr("data-src")
	if !ok || strings.TrimSpace(image) == "" {
		image, _ = img.Attr("src")
	}

	title := collapseSpace(card.Find(earthHeroTitle).First().Text())
	if title == "" {
		title, _ = img.Attr("alt")
		title = collapseSpace(title)
	}
	if title == "" {
		title = "No title"
	}

	brand := collapseSpace(card.Find(".boost-pfs-filter-product-vendor").First().Text())
	if brand == "" {
		brand = "No brand"
	}

	href, _ := card.Find("a").First().Attr("href")

	badges := make([]string, 0)
	card.Find(earthHeroBadge).Each(func(_ int, s *goquery.Selection) {
		if b := collapseSpace(s.Text()); b != "" {
			badges = append(badges, b)
		}
	})

	return domain.CatalogProduct{
		Title:     title,
		Price:     parsePrice(card.Find(".boost-pfs-filter-product-item-sale-price").First().Text()),
		Brand:     brand,
		Materials: []string{},
		URL:       absoluteURL(e.baseURL, href),
		Image:     absoluteURL(e.baseURL, image),
		Badges:    badges,
		Source:    "EarthHero",
	}
}

// parsePrice reads "$12.99" style prices; anything unparsable is 0
func parsePrice(raw string) float64 {
	raw = strings.TrimSpace(raw)
	raw = strings.ReplaceAll(raw, "$", "")
	raw = strings.ReplaceAll(raw, ",", "")
	if fields := strings.Fields(raw); len(fields) > 0 {
		raw = fields[0]
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return price
}
