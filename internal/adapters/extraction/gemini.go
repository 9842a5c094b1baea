package extraction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/trialworks/lemonaid/internal/domain/model"
	"github.com/trialworks/lemonaid/pkg/metrics"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

const billingPrompt = `You are extracting attorney billing records from a legal billing document.
Return ONLY a JSON object of the form:
{"entries":[{"attorney":"string","date":"YYYY-MM-DD","hours":number,"rate":number,"years_experience":number or null,"description":"string"}]}
Rules:
- one entry per billed line item
- "attorney" is the timekeeper's name exactly as written
- "rate" is the hourly rate in dollars, without currency symbols
- "years_experience" only when the document states it, otherwise null
- never invent entries; omit nothing that is present

Document:
`

const repairPrompt = `You are extracting dealership service visits from a vehicle repair order.
Return ONLY a JSON object of the form:
{"visits":[{"date_in":"YYYY-MM-DD","date_out":"YYYY-MM-DD","odometer":number,"complaint":"string","work_performed":"string","days_out_of_service":number}]}
Rules:
- one visit per repair order in the document
- "complaint" is the customer's reported concern, "work_performed" the shop's resolution
- "days_out_of_service" is the count of days between date_in and date_out inclusive of partial days
- never invent visits; omit nothing that is present

Document:
`

// GeminiExtractor implements Extractor against the Gemini API.
type GeminiExtractor struct {
	client *genai.Client
	model  string
}

// GeminiOption applies a configuration option to the GeminiExtractor.
type GeminiOption func(*GeminiExtractor)

// WithModel overrides the Gemini model name.
func WithModel(model string) GeminiOption {
	return func(e *GeminiExtractor) {
		if model != "" {
			e.model = model
		}
	}
}

// NewGeminiExtractor creates an extractor backed by the Gemini API.
func NewGeminiExtractor(ctx context.Context, apiKey string, opts ...GeminiOption) (*GeminiExtractor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	e := &GeminiExtractor{client: client, model: defaultModel}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// ExtractBilling pulls time entries out of a billing document.
func (e *GeminiExtractor) ExtractBilling(ctx context.Context, text string) ([]model.TimeEntry, error) {
	raw, err := e.generate(ctx, billingPrompt, text)
	if err != nil {
		return nil, err
	}
	return parseBilling(raw)
}

// ExtractRepairs pulls service visits out of a repair order.
func (e *GeminiExtractor) ExtractRepairs(ctx context.Context, text string) ([]model.RepairVisit, error) {
	raw, err := e.generate(ctx, repairPrompt, text)
	if err != nil {
		return nil, err
	}
	return parseRepairs(raw)
}

func (e *GeminiExtractor) generate(ctx context.Context, prompt, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyDocument
	}

	start := time.Now()
	resp, err := e.client.Models.GenerateContent(ctx, e.model,
		genai.Text(prompt+text),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			Temperature:      genai.Ptr[float32](0),
		},
	)
	metrics.RecordExtractionLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}

	raw := resp.Text()
	if raw == "" {
		return "", fmt.Errorf("%w: model returned no text", ErrMalformedOutput)
	}
	return raw, nil
}
