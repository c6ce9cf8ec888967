package usecase

import (
	"strings"

	"github.com/avoronkov/personabot/domain"
)

// PromptBuilder renders a persona, its history and the new inbound text into
// a backend request. It never mutates conversation state: the greeting is
// synthesized into the outgoing message list when the history is empty, so
// the backend always sees an opening assistant line, but only real exchanges
// are ever stored.
type PromptBuilder struct {
	preamble string
	config   domain.GenerationConfig
}

// NewPromptBuilder wires the operator-configured style preamble and the
// static sampling block.
func NewPromptBuilder(preamble string, config domain.GenerationConfig) *PromptBuilder {
	return &PromptBuilder{preamble: preamble, config: config}
}

// Build assembles the ordered message list: preamble, persona prompt and
// user description (each only when non-empty after substitution), the
// synthesized greeting when the history is empty, the stored history as-is,
// and finally the substituted inbound user turn. The last message is exactly
// the user turn callers append to the history on success.
func (b *PromptBuilder) Build(user *domain.User, inbound string) domain.CompletionRequest {
	persona := user.CurrentPersona()

	messages := make([]domain.Turn, 0, len(persona.History)+5)
	messages = append(messages, domain.Turn{Speaker: domain.SpeakerSystem, Content: b.preamble})

	if prompt := strings.TrimSpace(persona.Prompt); prompt != "" {
		messages = append(messages, domain.Turn{
			Speaker: domain.SpeakerSystem,
			Content: domain.RenderTemplate(prompt, persona.Name, user.DisplayName),
		})
	}
	if desc := strings.TrimSpace(user.Description); desc != "" {
		messages = append(messages, domain.Turn{
			Speaker: domain.SpeakerSystem,
			Content: domain.RenderTemplate(desc, persona.Name, user.DisplayName),
		})
	}

	if len(persona.History) == 0 {
		if greeting := strings.TrimSpace(persona.Greeting); greeting != "" {
			messages = append(messages, domain.Turn{
				Speaker: domain.SpeakerAssistant,
				Content: domain.RenderTemplate(greeting, persona.Name, user.DisplayName),
			})
		}
	}

	messages = append(messages, persona.History...)
	messages = append(messages, domain.Turn{
		Speaker: domain.SpeakerUser,
		Content: domain.RenderTemplate(inbound, persona.Name, user.DisplayName),
	})

	return domain.CompletionRequest{Messages: messages, Config: b.config}
}
