package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xeipuuv/gojsonschema"

	"github.com/ecocart/backend/internal/domain"
)

const maxBodyBytes = 1 << 20

const promptTemplate = "Provide a high-quality product image URL and a brief description for the product: %s. " +
	"Respond as JSON with 'image' and 'description'."

// answerSchema is the shape the model is asked to answer in
var answerSchema = gojsonschema.NewStringLoader(`{
	"type": "object",
	"properties": {
		"image": {"type": "string"},
		"description": {"type": "string"}
	},
	"required": ["image", "description"]
}`)

// Client asks the Gemini generative language API for an image and description
type Client struct {
	httpClient *http.Client
	baseURL    string
	model      string
	apiKey     string
}

// NewClient creates a new Gemini client
func NewClient(baseURL, model, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		model:      model,
		apiKey:     apiKey,
	}
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generationConfig struct {
	ResponseMIMEType string `json:"responseMimeType"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type answer struct {
	Image       string `json:"image"`
	Description string `json:"description"`
}

// Name implements domain.EnrichmentSource
func (c *Client) Name() string {
	return "gemini"
}

// Attempt prompts the model and parses its JSON answer
func (c *Client) Attempt(ctx context.Context, productName string) domain.SourceResult {
	text, err := c.generate(ctx, fmt.Sprintf(promptTemplate, productName))
	if err != nil {
		return domain.Fail(err)
	}

	ans, err := parseAnswer(text)
	if err != nil {
		log.Debug().Err(err).Str("product", productName).Msg("Discarding model answer")
		return domain.Fail(err)
	}

	return domain.Ok(&domain.PartialProduct{
		ImageURL:    strings.TrimSpace(ans.Image),
		Description: strings.TrimSpace(ans.Description),
	})
}

// generate sends one prompt and returns the text of the first candidate
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{ResponseMIMEType: "application/json"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpstreamUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: gemini returned status %d", domain.ErrUpstreamUnreachable, resp.StatusCode)
	}

	var gen generateResponse
	if err := json.Unmarshal(body, &gen); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	for _, cand := range gen.Candidates {
		for _, p := range cand.Content.Parts {
			if strings.TrimSpace(p.Text) != "" {
				return p.Text, nil
			}
		}
	}
	return "", fmt.Errorf("%w: no candidates", domain.ErrSourceEmpty)
}

// parseAnswer extracts the JSON object from the model text (which may be
// wrapped in a markdown fence) and validates it against answerSchema.
func parseAnswer(text string) (*answer, error) {
	raw := stripFence(text)

	result, err := gojsonschema.Validate(answerSchema, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: answer is not JSON: %v", domain.ErrSourceEmpty, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("%w: answer validation failed: %v", domain.ErrSourceEmpty, errs)
	}

	var ans answer
	if err := json.Unmarshal([]byte(raw), &ans); err != nil {
		return nil, fmt.Errorf("failed to decode answer: %w", err)
	}
	return &ans, nil
}

func stripFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
