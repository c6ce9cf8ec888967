package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avoronkov/personabot/domain"
)

func TestParseNavigationAction(t *testing.T) {
	cases := []struct {
		token string
		want  domain.NavigationAction
	}{
		{"start_menu", domain.StartMenu{}},
		{"main_commands", domain.MainCommands{}},
		{"characters_menu", domain.PersonasMenu{}},
		{"other_settings", domain.OtherSettings{}},
		{"new_character", domain.NewPersona{}},
		{"clear_history", domain.ClearHistory{}},
		{"save_data", domain.SaveData{}},
		{"setprompt", domain.RequestInput{Tag: domain.PendingSetPersonaPrompt}},
		{"setun", domain.RequestInput{Tag: domain.PendingSetDisplayName}},
		{"setud", domain.RequestInput{Tag: domain.PendingSetDescription}},
		{"setcharname", domain.RequestInput{Tag: domain.PendingSetPersonaName}},
		{"setgreeting", domain.RequestInput{Tag: domain.PendingSetPersonaGreeting}},
		{"select_char_0", domain.SelectPersona{Index: 0}},
		{"select_char_7", domain.SelectPersona{Index: 7}},
	}

	for _, tc := range cases {
		t.Run(tc.token, func(t *testing.T) {
			got := domain.ParseNavigationAction(tc.token)
			assert.Equal(t, tc.want, got)
			// Tokens round-trip through keyboard payloads.
			assert.Equal(t, tc.token, got.Token())
		})
	}
}

func TestParseNavigationActionUnknown(t *testing.T) {
	for _, token := range []string{"", "nonsense", "select_char_", "select_char_x"} {
		got := domain.ParseNavigationAction(token)
		assert.Equal(t, domain.UnknownAction{Raw: token}, got, "token %q", token)
	}
}
