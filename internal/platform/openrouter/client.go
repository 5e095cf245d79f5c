package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"recipeshare/internal/enhance"
)

// systemPrompt establishes the chef persona and pins the reply to a strict
// JSON shape with no surrounding prose.
const systemPrompt = `You are a professional chef, expert in all styles of cooking styles and dishes. Below I shall provide you with some ingredients and instructions on some particular recipe, alongside some reviews. What I want you to do is to get those instructions and ingredients and modify them based on the reviews to make the dish perfect. Return the modified ingredients and instructions in the following JSON format: { "ingredients": ["ingredient1", "ingredient2", ...], "instructions": ["instruction1", "instruction2", ...] }. Do not include any extra text or explanations.`

const defaultTimeout = 10 * time.Second

// Config holds the connection parameters for the completion endpoint.
type Config struct {
	APIURL  string
	APIKey  string
	Model   string
	Timeout time.Duration // defaults to 10s when zero
}

// Client calls an OpenAI-compatible chat-completions endpoint. One POST per
// invocation, no retries: retry policy, if any, belongs to the caller.
type Client struct {
	httpClient *http.Client
	apiURL     string
	apiKey     string
	model      string
}

// NewClient creates a new completion client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		apiURL:     cfg.APIURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
	}
}

// Request represents the request body for the completion endpoint.
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

// Message represents a message in the request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Response represents the response from the completion endpoint.
type Response struct {
	Choices []Choice `json:"choices"`
}

// Choice represents a choice in the response.
type Choice struct {
	Message ResponseMessage `json:"message"`
}

// ResponseMessage represents a message in the response.
type ResponseMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Complete sends the feedback text to the completion endpoint and returns
// the raw reply text. Failures surface as *enhance.UpstreamError; a
// successful reply with no content surfaces as enhance.ErrEmptyCompletion.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := Request{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.5,
	}

	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(reqBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &enhance.UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", &enhance.UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var llmResp Response
	if err := json.NewDecoder(resp.Body).Decode(&llmResp); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	if len(llmResp.Choices) == 0 || llmResp.Choices[0].Message.Content == "" {
		return "", enhance.ErrEmptyCompletion
	}

	return llmResp.Choices[0].Message.Content, nil
}
