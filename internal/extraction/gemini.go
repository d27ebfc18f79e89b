package extraction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/CKaviya23/bank-statement-parser/internal/document"
)

const defaultGeminiModel = "gemini-2.0-flash"

// Gemini implements Extractor and Summarizer using Google Gemini.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini creates a new Gemini producer.
func NewGemini(apiKey string, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = defaultGeminiModel
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.GenerationConfig.ResponseMIMEType = "application/json"

	return &Gemini{
		client: client,
		model:  model,
	}, nil
}

// ExtractStatement sends the statement pages to Gemini and decodes the
// JSON payload from its answer.
func (g *Gemini) ExtractStatement(data []byte, contentType string) (any, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pages, err := document.Pages(data, contentType)
	if err != nil {
		return nil, err
	}

	// genai.ImageData expects just the format suffix; after document.Pages
	// everything is PNG.
	parts := make([]genai.Part, 0, len(pages)+1)
	for _, page := range pages {
		parts = append(parts, genai.ImageData("png", page))
	}
	parts = append(parts, genai.Text(extractionPrompt))

	text, err := g.generate(ctx, parts...)
	if err != nil {
		return nil, err
	}

	payload, ok := ExtractJSON(text)
	if !ok {
		return nil, &ParseError{Preview: preview(text)}
	}
	return payload, nil
}

// SummarizeFields asks Gemini for concise observations about a reconciled
// record.
func (g *Gemini) SummarizeFields(fieldsJSON []byte) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	text, err := g.generate(ctx, genai.Text(insightsPrompt+string(fieldsJSON)))
	if err != nil {
		return nil, err
	}
	return insightsFromResponse(text), nil
}

func (g *Gemini) generate(ctx context.Context, parts ...genai.Part) (string, error) {
	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from gemini")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			responseText.WriteString(string(text))
		}
	}
	return strings.TrimSpace(responseText.String()), nil
}

// Close closes the Gemini client.
func (g *Gemini) Close() error {
	return g.client.Close()
}
