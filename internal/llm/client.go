// Package llm provides the Hugging Face Inference API client used for
// optional message phrasing. The client is presentation-only: decision
// logic never depends on it, and a nil client simply disables phrasing.
package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	baseURL      = "https://api-inference.huggingface.co/models/"
	defaultModel = "meta-llama/Meta-Llama-3-8B-Instruct"
)

// Client wraps the Hugging Face text-generation endpoint.
type Client struct {
	apiKey     string
	modelID    string
	httpClient *http.Client

	// Rate limiting: max calls per minute.
	mu        sync.Mutex
	callCount int
	resetAt   time.Time
	maxPerMin int
}

// NewClient creates a Hugging Face client for the given model. An empty
// modelID selects the default instruct model. Returns nil if apiKey is
// empty (phrasing disabled).
func NewClient(apiKey, modelID string) *Client {
	if apiKey == "" {
		return nil
	}
	if modelID == "" {
		modelID = defaultModel
	}
	return &Client{
		apiKey:  apiKey,
		modelID: modelID,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		maxPerMin: 20, // Conservative rate limit
	}
}

// Enabled returns true if the client has a valid API key.
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// request is the inference API request body.
type request struct {
	Inputs     string     `json:"inputs"`
	Parameters parameters `json:"parameters"`
}

type parameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

// generation is one element of the inference API response.
type generation struct {
	GeneratedText string `json:"generated_text"`
}

// Generate sends a prompt to the hosted model and returns the generated
// text.
func (c *Client) Generate(prompt string, maxTokens int, temperature float64) (string, error) {
	if !c.Enabled() {
		return "", fmt.Errorf("LLM client not configured")
	}

	// Rate limiting.
	c.mu.Lock()
	now := time.Now()
	if now.After(c.resetAt) {
		c.callCount = 0
		c.resetAt = now.Add(time.Minute)
	}
	if c.callCount >= c.maxPerMin {
		c.mu.Unlock()
		return "", fmt.Errorf("rate limit exceeded (%d calls/min)", c.maxPerMin)
	}
	c.callCount++
	c.mu.Unlock()

	req := request{
		Inputs: prompt,
		Parameters: parameters{
			MaxNewTokens:   maxTokens,
			Temperature:    temperature,
			ReturnFullText: false,
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequest("POST", baseURL+c.modelID, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("API call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error %d: %s", resp.StatusCode, string(respBody))
	}

	// The hosted API returns either a list of generations or a single
	// object depending on the model wrapper.
	var list []generation
	if err := json.Unmarshal(respBody, &list); err == nil && len(list) > 0 {
		slog.Debug("inference call", "model", c.modelID, "output_len", len(list[0].GeneratedText))
		return strings.TrimSpace(list[0].GeneratedText), nil
	}
	var single generation
	if err := json.Unmarshal(respBody, &single); err == nil && single.GeneratedText != "" {
		return strings.TrimSpace(single.GeneratedText), nil
	}

	return "", fmt.Errorf("unrecognized response shape")
}
