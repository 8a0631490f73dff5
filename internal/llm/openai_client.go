package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/noctalab/sleep-forecast/internal/domain"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

var (
	// ErrOpenAIUnavailable indicates the OpenAI service is not configured or unavailable.
	ErrOpenAIUnavailable = errors.New("OpenAI service unavailable")
	// ErrOpenAIRequest indicates an error during the OpenAI API request.
	ErrOpenAIRequest = errors.New("OpenAI request failed")
	// ErrOpenAIResponse indicates an error parsing the OpenAI response.
	ErrOpenAIResponse = errors.New("failed to parse OpenAI response")
)

const systemPrompt = `You are a non-medical sleep forecasting assistant.

You receive a model-generated forecast of a single user's sleep metrics (sleep efficiency, sleep onset latency, wake after sleep onset, total sleep time) together with their recent recorded nights. You must base your conclusions only on the provided data.

Your goals:
- Explain the forecast in clear, neutral language: where sleep efficiency is headed and how certain the model is.
- Relate the forecast trend and any early warnings to what the recent nights actually show.
- Point out which metric is driving the trend (onset latency, night-time wakefulness, total sleep time).
- Give practical, behavioral suggestions matched to the forecast.

Rules:
- Do NOT provide medical advice or diagnoses.
- Do NOT mention diseases, disorders, doctors, or treatment.
- Treat the forecast as an estimate, not a certainty; mention the uncertainty band when it is wide.
- Focus only on behavior and routines (bedtime regularity, wind-down habits, limiting time awake in bed, etc.).
- If data is limited or mixed, say that explicitly.
- Be concise and concrete.

You must respond as strict JSON with exactly this shape:

{
  "summary": "2-3 sentences summarizing the forecast and how it compares to recent nights.",
  "observations": [
    "3-6 bullet points about the forecast trajectory, the uncertainty band, and which metrics drive the trend.",
    "At least one item grounding the forecast in the recent recorded nights.",
    "If early warnings are present, one item per warning explaining it in plain language."
  ],
  "guidance": [
    "3-5 concrete, non-medical suggestions tailored to the forecast.",
    "If the trend is declining or critical, the first item must address the declining metric directly."
  ]
}

No extra fields. No comments. No backticks.`

const userPromptTemplate = `Here is JSON describing this user's forecast.

- "prediction" contains the forecast: predicted sleep efficiency with a 95%% interval, per-metric predictions, a night-by-night trajectory, the trend classification, a deterioration risk score in [0,1], and any early warnings (each with a severity and a bilingual message).
- "recent_entries" are the user's recorded nights, oldest first, with the raw metrics the forecast was trained on.

Use:
- "prediction" to describe where sleep is headed and how confident the model is,
- "recent_entries" to ground that trajectory in what actually happened.

JSON:

%s

Based on this data, respond in the required JSON format.`

// ForecastLLM is the interface for narrating forecasts using an LLM.
type ForecastLLM interface {
	// NarrateForecast takes a forecast context and returns an LLM-generated narrative.
	NarrateForecast(ctx context.Context, forecastCtx *domain.ForecastInsightsContext) (*domain.ForecastInsightsOutput, error)
}

// OpenAIClient implements ForecastLLM using the OpenAI API.
type OpenAIClient struct {
	client       openai.Client
	model        string
	systemPrompt string
}

// NewOpenAIClient creates a new OpenAI client for narrating forecasts.
// Returns nil if apiKey is empty.
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	if apiKey == "" {
		return nil
	}

	if model == "" {
		model = "gpt-4o-mini"
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	return &OpenAIClient{
		client:       client,
		model:        model,
		systemPrompt: systemPrompt,
	}
}

// SetSystemPrompt replaces the built-in system prompt, typically with one
// managed in Langfuse. Empty input keeps the current prompt.
func (c *OpenAIClient) SetSystemPrompt(prompt string) {
	if c == nil || prompt == "" {
		return
	}
	c.systemPrompt = prompt
}

// NarrateForecast calls OpenAI to turn a forecast into a readable narrative.
func (c *OpenAIClient) NarrateForecast(ctx context.Context, forecastCtx *domain.ForecastInsightsContext) (*domain.ForecastInsightsOutput, error) {
	if c == nil {
		return nil, ErrOpenAIUnavailable
	}

	contextJSON, err := json.MarshalIndent(forecastCtx, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to serialize context: %v", ErrOpenAIRequest, err)
	}

	userPrompt := fmt.Sprintf(userPromptTemplate, string(contextJSON))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(c.systemPrompt),
			openai.UserMessage(userPrompt),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenAIRequest, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in response", ErrOpenAIResponse)
	}

	content := resp.Choices[0].Message.Content

	var output domain.ForecastInsightsOutput
	if err := json.Unmarshal([]byte(content), &output); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenAIResponse, err)
	}

	return &output, nil
}
