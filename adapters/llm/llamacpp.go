package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avoronkov/personabot/domain"
)

const completionPath = "/v1/chat/completions"

// LlamaCpp talks to a llama-server (or any OpenAI-compatible) chat
// completions endpoint. The request body carries the llama.cpp sampling
// fields verbatim; the response is reduced to the first choice's text.
type LlamaCpp struct {
	baseURL string
	client  *http.Client
}

func NewLlamaCpp(baseURL string) *LlamaCpp {
	return &LlamaCpp{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type wireRequest struct {
	Messages         []wireMessage `json:"messages"`
	MaxTokens        int           `json:"max_tokens"`
	Temperature      float64       `json:"temperature"`
	MinP             float64       `json:"min_p"`
	TopP             float64       `json:"top_p"`
	TopK             float64       `json:"top_k"`
	RepeatPenalty    float64       `json:"repeat_penalty"`
	PresencePenalty  float64       `json:"presence_penalty"`
	FrequencyPenalty float64       `json:"frequency_penalty"`
	Stop             []string      `json:"stop,omitempty"`
}

type wireResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (l *LlamaCpp) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	messages := make([]wireMessage, len(req.Messages))
	for i, t := range req.Messages {
		messages[i] = wireMessage{Role: t.Speaker.WireRole(), Content: t.Content}
	}

	body, err := json.Marshal(wireRequest{
		Messages:         messages,
		MaxTokens:        req.Config.MaxTokens,
		Temperature:      req.Config.Temperature,
		MinP:             req.Config.MinP,
		TopP:             req.Config.TopP,
		TopK:             req.Config.TopK,
		RepeatPenalty:    req.Config.RepeatPenalty,
		PresencePenalty:  req.Config.PresencePenalty,
		FrequencyPenalty: req.Config.FrequencyPenalty,
		Stop:             req.Config.Stop,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, l.baseURL+completionPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("calling llama-server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("llama-server returned %s: %s", resp.Status, payload)
	}

	var result wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding completion response: %w", err)
	}
	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("llama-server returned no completion choices")
	}

	return result.Choices[0].Message.Content, nil
}
