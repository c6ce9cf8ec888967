package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronkov/personabot/domain"
	"github.com/avoronkov/personabot/usecase"
)

func TestApplyPresentsMenus(t *testing.T) {
	menus := usecase.NewMenuStateMachine()
	user := domain.NewUser(1)

	t.Run("start menu", func(t *testing.T) {
		res := menus.Apply(user, domain.StartMenu{})
		assert.Equal(t, "Выбери категорию:", res.Text)
		require.NotNil(t, res.Menu)
		assert.Len(t, res.Menu.Rows, 3)
	})

	t.Run("re-entry is idempotent", func(t *testing.T) {
		before := user.Clone()
		first := menus.Apply(user, domain.StartMenu{})
		second := menus.Apply(user, domain.StartMenu{})
		assert.Equal(t, first, second)
		assert.Equal(t, before, user.Clone())
	})

	t.Run("persona menu lists one button per persona", func(t *testing.T) {
		user.AddPersona()
		res := menus.Apply(user, domain.PersonasMenu{})
		require.NotNil(t, res.Menu)
		// Two personas plus the four fixed rows.
		assert.Len(t, res.Menu.Rows, 6)
	})

	t.Run("unknown action gets a fixed reply", func(t *testing.T) {
		res := menus.Apply(user, domain.UnknownAction{Raw: "bogus"})
		assert.Equal(t, "Неизвестная команда.", res.Text)
	})
}

func TestRequestInputArmsPendingCommand(t *testing.T) {
	menus := usecase.NewMenuStateMachine()
	user := domain.NewUser(1)

	res := menus.Apply(user, domain.RequestInput{Tag: domain.PendingSetDisplayName})
	assert.Equal(t, domain.PendingSetDisplayName, user.PendingCommand)
	assert.Equal(t, "Введите новое имя пользователя (отображается в чате):", res.Text)
	assert.Nil(t, res.Menu)
}

func TestApplyPendingInput(t *testing.T) {
	menus := usecase.NewMenuStateMachine()

	t.Run("applies and clears in one step", func(t *testing.T) {
		user := domain.NewUser(1)
		user.PendingCommand = domain.PendingSetDisplayName

		reply, ok := menus.ApplyPendingInput(user, "Bob")
		require.True(t, ok)
		assert.Equal(t, "Имя пользователя установлено.", reply)
		assert.Equal(t, "Bob", user.DisplayName)
		assert.Equal(t, domain.PendingNone, user.PendingCommand)

		// The same text again is ordinary chat, not a re-application.
		_, ok = menus.ApplyPendingInput(user, "Bob")
		assert.False(t, ok)
	})

	t.Run("covers every tag", func(t *testing.T) {
		user := domain.NewUser(1)

		user.PendingCommand = domain.PendingSetPersonaPrompt
		_, ok := menus.ApplyPendingInput(user, "prompt text")
		require.True(t, ok)
		assert.Equal(t, "prompt text", user.CurrentPersona().Prompt)

		user.PendingCommand = domain.PendingSetDescription
		_, ok = menus.ApplyPendingInput(user, "a sailor")
		require.True(t, ok)
		assert.Equal(t, "a sailor", user.Description)

		user.PendingCommand = domain.PendingSetPersonaName
		reply, ok := menus.ApplyPendingInput(user, "Eve")
		require.True(t, ok)
		assert.Equal(t, "Eve", user.CurrentPersona().Name)
		assert.Contains(t, reply, "Eve")

		user.PendingCommand = domain.PendingSetPersonaGreeting
		_, ok = menus.ApplyPendingInput(user, "Hi there")
		require.True(t, ok)
		assert.Equal(t, "Hi there", user.CurrentPersona().Greeting)
	})

	t.Run("nothing pending reports not handled", func(t *testing.T) {
		user := domain.NewUser(1)
		_, ok := menus.ApplyPendingInput(user, "just chatting")
		assert.False(t, ok)
	})
}

func TestSelectPersona(t *testing.T) {
	menus := usecase.NewMenuStateMachine()
	user := domain.NewUser(1)
	user.AddPersona()
	user.CurrentPersona().Name = "Eve"
	user.CurrentPersona().Greeting = "Привет, {{user}}!"

	t.Run("out of range leaves selection unchanged", func(t *testing.T) {
		res := menus.Apply(user, domain.SelectPersona{Index: 5})
		assert.Equal(t, "Неверный ID персонажа.", res.Text)
		assert.Equal(t, 1, user.ActivePersona)
	})

	t.Run("valid selection reports greeting when history is empty", func(t *testing.T) {
		res := menus.Apply(user, domain.SelectPersona{Index: 1})
		assert.Equal(t, 1, user.ActivePersona)
		assert.Contains(t, res.Text, "Eve")
		assert.Contains(t, res.Text, "Привет, Вы!")
	})

	t.Run("valid selection reports last turn when history exists", func(t *testing.T) {
		user.CurrentPersona().AppendTurn(domain.Turn{Speaker: domain.SpeakerAssistant, Content: "последняя реплика"}, 20)
		res := menus.Apply(user, domain.SelectPersona{Index: 1})
		assert.Contains(t, res.Text, "последняя реплика")
	})
}

func TestClearHistoryAction(t *testing.T) {
	menus := usecase.NewMenuStateMachine()
	user := domain.NewUser(1)
	persona := user.CurrentPersona()
	persona.Greeting = "Привет, {{user}}!"
	persona.AppendTurn(domain.Turn{Speaker: domain.SpeakerUser, Content: "hi"}, 20)

	res := menus.Apply(user, domain.ClearHistory{})
	assert.Empty(t, persona.History)
	assert.Contains(t, res.Text, "История текущего чата очищена!")
	assert.Contains(t, res.Text, "Привет, Вы!")
}

func TestNewPersonaAction(t *testing.T) {
	menus := usecase.NewMenuStateMachine()
	user := domain.NewUser(1)

	res := menus.Apply(user, domain.NewPersona{})
	assert.Len(t, user.Personas, 2)
	assert.Equal(t, 1, user.ActivePersona)
	assert.Contains(t, res.Text, "[ID:1]")
}

func TestSaveDataAction(t *testing.T) {
	menus := usecase.NewMenuStateMachine()
	user := domain.NewUser(1)

	res := menus.Apply(user, domain.SaveData{})
	assert.True(t, res.SaveNow)
	assert.Equal(t, "Ваши данные сохранены.", res.Text)
}
