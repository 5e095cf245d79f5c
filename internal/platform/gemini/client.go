package gemini

import (
	"context"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"recipeshare/internal/enhance"
)

const systemPrompt = `You are a professional chef, expert in all styles of cooking styles and dishes. Below I shall provide you with some ingredients and instructions on some particular recipe, alongside some reviews. What I want you to do is to get those instructions and ingredients and modify them based on the reviews to make the dish perfect. Return the modified ingredients and instructions in the following JSON format: { "ingredients": ["ingredient1", "ingredient2", ...], "instructions": ["instruction1", "instruction2", ...] }. Do not include any extra text or explanations.`

const requestTimeout = 10 * time.Second

// Client is a Gemini-backed alternative to the default completion client.
type Client struct {
	model *genai.GenerativeModel
}

// NewClient creates a new Gemini client.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	model := client.GenerativeModel("gemini-1.5-flash")
	model.SetTemperature(0.5)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}
	return &Client{model: model}, nil
}

// Complete sends the feedback text to Gemini and returns the raw reply.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &enhance.UpstreamError{Err: err}
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", enhance.ErrEmptyCompletion
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok || string(text) == "" {
		return "", enhance.ErrEmptyCompletion
	}

	return string(text), nil
}
