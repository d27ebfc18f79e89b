package extraction

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/CKaviya23/bank-statement-parser/internal/document"
)

// Ollama implements Extractor and Summarizer against a local Ollama
// server, for running without a Gemini key. Vision models such as llava or
// qwen2-vl work best; accuracy on dense statements is noticeably below
// Gemini's.
type Ollama struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllama creates a new Ollama producer.
func NewOllama(baseURL string, modelName string) (*Ollama, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if modelName == "" {
		modelName = "llava"
	}

	return &Ollama{
		baseURL: baseURL,
		model:   modelName,
		client: &http.Client{
			// Local vision models are slow on statement-sized pages.
			Timeout: 120 * time.Second,
		},
	}, nil
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}

// ExtractStatement sends the statement pages to the Ollama chat API and
// decodes the JSON payload from its answer.
func (o *Ollama) ExtractStatement(data []byte, contentType string) (any, error) {
	pages, err := document.Pages(data, contentType)
	if err != nil {
		return nil, err
	}

	images := make([]string, 0, len(pages))
	for _, page := range pages {
		images = append(images, base64.StdEncoding.EncodeToString(page))
	}

	text, err := o.chat([]ollamaMessage{
		{
			Role:    "system",
			Content: "You are an expert at reading bank statements. Carefully read all text in the images and extract accurate information.",
		},
		{
			Role:    "user",
			Content: extractionPrompt,
			Images:  images,
		},
	})
	if err != nil {
		return nil, err
	}

	payload, ok := ExtractJSON(text)
	if !ok {
		return nil, &ParseError{Preview: preview(text)}
	}
	return payload, nil
}

// SummarizeFields asks the model for concise observations about a
// reconciled record.
func (o *Ollama) SummarizeFields(fieldsJSON []byte) ([]string, error) {
	text, err := o.chat([]ollamaMessage{
		{
			Role:    "user",
			Content: insightsPrompt + string(fieldsJSON),
		},
	})
	if err != nil {
		return nil, err
	}
	return insightsFromResponse(text), nil
}

func (o *Ollama) chat(messages []ollamaMessage) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	jsonData, err := json.Marshal(ollamaChatRequest{
		Model:    o.model,
		Stream:   false,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/api/chat", o.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling ollama API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ollama API error (status %d): %s", resp.StatusCode, string(body))
	}

	var chatResp ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	return strings.TrimSpace(chatResp.Message.Content), nil
}

// Close closes the Ollama client (no-op for HTTP client).
func (o *Ollama) Close() error {
	return nil
}
