package domain

import "context"

// Completer abstracts the text-generation backend. The reply is an opaque
// string; a cancelled or timed-out context surfaces as an ordinary error.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompletionRequest is an ordered list of role-tagged messages plus a static
// sampling block. Message order is significant and preserved on the wire.
type CompletionRequest struct {
	Messages []Turn
	Config   GenerationConfig
}

// GenerationConfig is pass-through sampling configuration. It is never
// derived from conversation state.
type GenerationConfig struct {
	MaxTokens        int
	Temperature      float64
	MinP             float64
	TopP             float64
	TopK             float64
	RepeatPenalty    float64
	PresencePenalty  float64
	FrequencyPenalty float64
	Stop             []string
}

// DefaultGenerationConfig mirrors the llama-server defaults the bot has
// always run with.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		MaxTokens:     768,
		Temperature:   1,
		MinP:          0.05,
		TopP:          1.0,
		TopK:          0,
		RepeatPenalty: 1.3,
	}
}
