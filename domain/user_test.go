package domain_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronkov/personabot/domain"
)

func TestNewUserDefaults(t *testing.T) {
	user := domain.NewUser(42)

	assert.Equal(t, int64(42), user.ID)
	assert.Equal(t, "Вы", user.DisplayName)
	require.Len(t, user.Personas, 1)
	assert.Equal(t, 0, user.ActivePersona)
	assert.Equal(t, "AI", user.CurrentPersona().Name)
	assert.Equal(t, domain.PendingNone, user.PendingCommand)
}

func TestAppendTurnBoundedHistory(t *testing.T) {
	t.Run("never exceeds cap", func(t *testing.T) {
		persona := domain.NewDefaultPersona()
		for i := 0; i < 50; i++ {
			persona.AppendTurn(domain.Turn{Speaker: domain.SpeakerUser, Content: fmt.Sprintf("t%d", i)}, 20)
			assert.LessOrEqual(t, len(persona.History), 20)
		}
	})

	t.Run("evicts the two oldest turns at capacity", func(t *testing.T) {
		persona := domain.NewDefaultPersona()
		for i := 0; i < 20; i++ {
			persona.AppendTurn(domain.Turn{Speaker: domain.SpeakerUser, Content: fmt.Sprintf("t%d", i)}, 20)
		}
		require.Len(t, persona.History, 20)

		persona.AppendTurn(domain.Turn{Speaker: domain.SpeakerUser, Content: "t20"}, 20)

		require.Len(t, persona.History, 19)
		assert.Equal(t, "t2", persona.History[0].Content)
		assert.Equal(t, "t3", persona.History[1].Content)
		assert.Equal(t, "t20", persona.History[18].Content)
	})

	t.Run("preserves relative order of survivors", func(t *testing.T) {
		persona := domain.NewDefaultPersona()
		for i := 0; i < 21; i++ {
			persona.AppendTurn(domain.Turn{Speaker: domain.SpeakerUser, Content: fmt.Sprintf("t%d", i)}, 20)
		}
		for i, turn := range persona.History[:18] {
			assert.Equal(t, fmt.Sprintf("t%d", i+2), turn.Content)
		}
	})
}

func TestChangeActivePersona(t *testing.T) {
	user := domain.NewUser(1)
	user.AddPersona()
	require.Equal(t, 1, user.ActivePersona)

	t.Run("rejects out-of-range indices", func(t *testing.T) {
		assert.False(t, user.ChangeActivePersona(-1))
		assert.Equal(t, 1, user.ActivePersona)

		assert.False(t, user.ChangeActivePersona(2))
		assert.Equal(t, 1, user.ActivePersona)
	})

	t.Run("switches to a valid index", func(t *testing.T) {
		assert.True(t, user.ChangeActivePersona(0))
		assert.Equal(t, 0, user.ActivePersona)
	})
}

func TestAddPersonaActivates(t *testing.T) {
	user := domain.NewUser(1)
	persona := user.AddPersona()

	assert.Len(t, user.Personas, 2)
	assert.Equal(t, 1, user.ActivePersona)
	assert.Same(t, persona, user.CurrentPersona())
}

func TestLastTurnOr(t *testing.T) {
	persona := domain.NewDefaultPersona()
	assert.Equal(t, "fallback", persona.LastTurnOr("fallback"))

	persona.AppendTurn(domain.Turn{Speaker: domain.SpeakerUser, Content: "hi"}, 20)
	persona.AppendTurn(domain.Turn{Speaker: domain.SpeakerAssistant, Content: "hello"}, 20)
	assert.Equal(t, "hello", persona.LastTurnOr("fallback"))
}

func TestClearHistory(t *testing.T) {
	persona := domain.NewDefaultPersona()
	persona.AppendTurn(domain.Turn{Speaker: domain.SpeakerUser, Content: "hi"}, 20)

	persona.ClearHistory()
	assert.Empty(t, persona.History)
}

func TestCloneIsDeep(t *testing.T) {
	user := domain.NewUser(7)
	user.CurrentPersona().AppendTurn(domain.Turn{Speaker: domain.SpeakerUser, Content: "hi"}, 20)
	user.PendingCommand = domain.PendingSetDisplayName

	clone := user.Clone()
	clone.DisplayName = "Other"
	clone.CurrentPersona().History[0].Content = "changed"
	clone.AddPersona()

	assert.Equal(t, "Вы", user.DisplayName)
	assert.Equal(t, "hi", user.CurrentPersona().History[0].Content)
	assert.Len(t, user.Personas, 1)

	// Session-scoped state is not part of the persisted document.
	assert.Equal(t, domain.PendingNone, clone.PendingCommand)
}
