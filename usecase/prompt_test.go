package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronkov/personabot/domain"
	"github.com/avoronkov/personabot/usecase"
)

const testPreamble = "You narrate stories."

func TestBuildWithEmptyHistory(t *testing.T) {
	user := domain.NewUser(1)
	user.DisplayName = "Bob"
	user.Description = "{{user}} is a sailor"
	persona := user.CurrentPersona()
	persona.Name = "Eve"
	persona.Prompt = "You are {{char}}"
	persona.Greeting = "Hello, {{user}}!"

	builder := usecase.NewPromptBuilder(testPreamble, domain.DefaultGenerationConfig())
	req := builder.Build(user, "hi {{char}}")

	require.Len(t, req.Messages, 5)

	assert.Equal(t, domain.SpeakerSystem, req.Messages[0].Speaker)
	assert.Equal(t, testPreamble, req.Messages[0].Content)

	assert.Equal(t, domain.SpeakerSystem, req.Messages[1].Speaker)
	assert.Equal(t, "You are Eve", req.Messages[1].Content)

	assert.Equal(t, domain.SpeakerSystem, req.Messages[2].Speaker)
	assert.Equal(t, "Bob is a sailor", req.Messages[2].Content)

	assert.Equal(t, domain.SpeakerAssistant, req.Messages[3].Speaker)
	assert.Equal(t, "Hello, Bob!", req.Messages[3].Content)

	assert.Equal(t, domain.SpeakerUser, req.Messages[4].Speaker)
	assert.Equal(t, "hi Eve", req.Messages[4].Content)

	// Building a prompt never mutates the stored history.
	assert.Empty(t, persona.History)
}

func TestBuildSkipsEmptySystemTurns(t *testing.T) {
	user := domain.NewUser(1)
	persona := user.CurrentPersona()
	persona.Prompt = "   "
	persona.Greeting = ""

	builder := usecase.NewPromptBuilder(testPreamble, domain.DefaultGenerationConfig())
	req := builder.Build(user, "hi")

	require.Len(t, req.Messages, 2)
	assert.Equal(t, testPreamble, req.Messages[0].Content)
	assert.Equal(t, domain.SpeakerUser, req.Messages[1].Speaker)
}

func TestBuildWithHistory(t *testing.T) {
	user := domain.NewUser(1)
	persona := user.CurrentPersona()
	persona.Prompt = ""
	user.Description = ""
	persona.AppendTurn(domain.Turn{Speaker: domain.SpeakerUser, Content: "first"}, 20)
	persona.AppendTurn(domain.Turn{Speaker: domain.SpeakerAssistant, Content: "second"}, 20)

	builder := usecase.NewPromptBuilder(testPreamble, domain.DefaultGenerationConfig())
	req := builder.Build(user, "third")

	// No synthesized greeting once history exists.
	require.Len(t, req.Messages, 4)
	assert.Equal(t, testPreamble, req.Messages[0].Content)
	assert.Equal(t, "first", req.Messages[1].Content)
	assert.Equal(t, "second", req.Messages[2].Content)
	assert.Equal(t, "third", req.Messages[3].Content)
	assert.Equal(t, domain.SpeakerUser, req.Messages[3].Speaker)
}

func TestBuildPassesThroughSamplingConfig(t *testing.T) {
	cfg := domain.DefaultGenerationConfig()
	builder := usecase.NewPromptBuilder(testPreamble, cfg)

	req := builder.Build(domain.NewUser(1), "hi")
	assert.Equal(t, cfg, req.Config)
}
