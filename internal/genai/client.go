// internal/genai/client.go
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	apperrors "itinerary-planner/internal/common/errors"
	"itinerary-planner/internal/common/httpclient"
	"itinerary-planner/internal/common/logger"
)

// Generator produces raw text from a natural-language prompt. Agents depend on
// this interface so tests can inject fakes.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Client calls the Gemini generateContent REST endpoint.
type Client struct {
	baseURL string
	model   string
	apiKey  string
	client  *httpclient.Client
	logger  logger.Logger
}

func NewClient(baseURL, model, apiKey string, log logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		apiKey:  apiKey,
		// No client-level timeout; each attempt is bounded by its context.
		client: httpclient.New(0),
		logger: log.WithFields(map[string]interface{}{"component": "genai"}),
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateContent sends the prompt and returns the first candidate's text.
// An empty candidate list or blank text is an Upstream-Empty error.
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", apperrors.NewUnexpectedError(err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", apperrors.NewGenerationFailedError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return "", apperrors.NewGenerationFailedError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperrors.NewGenerationFailedError(fmt.Errorf("status %d", resp.StatusCode))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", apperrors.NewGenerationFailedError(fmt.Errorf("decode response: %v", err))
	}

	var text strings.Builder
	if len(out.Candidates) > 0 {
		for _, p := range out.Candidates[0].Content.Parts {
			text.WriteString(p.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", apperrors.NewUpstreamEmptyError("gemini")
	}

	c.logger.Debug("generation call completed", map[string]interface{}{
		"latencyMs": time.Since(start).Milliseconds(),
		"chars":     text.Len(),
	})

	return text.String(), nil
}
