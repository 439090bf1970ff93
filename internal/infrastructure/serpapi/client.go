package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ecocart/backend/internal/domain"
)

const maxBodyBytes = 2 << 20

var (
	sustainableKeywords = []string{"organic", "eco", "biodegradable", "sustainable"}
	harmfulKeywords     = []string{"plastic", "non-recyclable"}
)

// Client queries the SerpApi Google Shopping engine
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a new SerpApi client
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
	}
}

type searchResponse struct {
	Error           string           `json:"error"`
	ShoppingResults []shoppingResult `json:"shopping_results"`
}

type shoppingResult struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	Image       string `json:"image"`
}

// Name implements domain.EnrichmentSource
func (c *Client) Name() string {
	return "serpapi"
}

// Attempt reads the first shopping result for the product name
func (c *Client) Attempt(ctx context.Context, productName string) domain.SourceResult {
	params := url.Values{
		"q":       {productName},
		"tbm":     {"shop"},
		"api_key": {c.apiKey},
	}
	reqURL := c.baseURL + "/search.json?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.Fail(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Fail(fmt.Errorf("%w: %v", domain.ErrUpstreamUnreachable, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.Fail(fmt.Errorf("failed to read response body: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return domain.Fail(fmt.Errorf("%w: serpapi returned status %d", domain.ErrUpstreamUnreachable, resp.StatusCode))
	}

	var search searchResponse
	if err := json.Unmarshal(body, &search); err != nil {
		return domain.Fail(fmt.Errorf("failed to decode response: %w", err))
	}
	if search.Error != "" {
		return domain.Fail(fmt.Errorf("%w: %s", domain.ErrSourceEmpty, search.Error))
	}
	if len(search.ShoppingResults) == 0 {
		return domain.Fail(fmt.Errorf("%w: no shopping results", domain.ErrSourceEmpty))
	}

	return domain.Ok(toPartial(search.ShoppingResults[0]))
}

func toPartial(r shoppingResult) *domain.PartialProduct {
	image := r.Thumbnail
	if image == "" {
		image = r.Image
	}

	title := strings.TrimSpace(r.Title)
	description := title
	if d := strings.TrimSpace(r.Description); d != "" {
		description = title + ". " + d
	}

	return &domain.PartialProduct{
		ImageURL:    image,
		Description: description,
		EcoHint:     keywordHint(title + " " + r.Description),
	}
}

// keywordHint is 50, +25 for sustainable wording, -20 for harmful wording
func keywordHint(text string) int {
	text = strings.ToLower(text)
	score := 50
	for _, w := range sustainableKeywords {
		if strings.Contains(text, w) {
			score += 25
			break
		}
	}
	for _, w := range harmfulKeywords {
		if strings.Contains(text, w) {
			score -= 20
			break
		}
	}
	return score
}
