package domain

import (
	"strconv"
	"strings"
)

// PendingCommand marks which free-text prompt the user is currently
// answering. The zero value means no prompt is pending; pending input and
// ordinary chat are mutually exclusive interpretations of the next message.
type PendingCommand int

const (
	PendingNone PendingCommand = iota
	PendingSetPersonaPrompt
	PendingSetDisplayName
	PendingSetDescription
	PendingSetPersonaName
	PendingSetPersonaGreeting
)

// NavigationAction is the closed set of menu events. Transports parse their
// raw callback tokens into these variants once, at the boundary; the core
// never sees raw strings.
type NavigationAction interface {
	// Token returns the callback token a transport round-trips through its
	// keyboard payloads. Tokens match the persisted keyboards of the
	// original bot, so old inline keyboards keep working.
	Token() string
}

type (
	// StartMenu presents the top-level category menu.
	StartMenu struct{}
	// MainCommands presents the settings/actions menu.
	MainCommands struct{}
	// PersonasMenu presents the persona list.
	PersonasMenu struct{}
	// OtherSettings is a placeholder screen.
	OtherSettings struct{}
	// SelectPersona switches the active persona.
	SelectPersona struct{ Index int }
	// NewPersona appends a default persona and activates it.
	NewPersona struct{}
	// ClearHistory wipes the active persona's history.
	ClearHistory struct{}
	// SaveData persists the user document immediately.
	SaveData struct{}
	// RequestInput asks for free text and arms the given pending command.
	RequestInput struct{ Tag PendingCommand }
	// UnknownAction carries an unrecognized callback token.
	UnknownAction struct{ Raw string }
)

const selectPersonaPrefix = "select_char_"

func (StartMenu) Token() string     { return "start_menu" }
func (MainCommands) Token() string  { return "main_commands" }
func (PersonasMenu) Token() string  { return "characters_menu" }
func (OtherSettings) Token() string { return "other_settings" }
func (NewPersona) Token() string    { return "new_character" }
func (ClearHistory) Token() string  { return "clear_history" }
func (SaveData) Token() string      { return "save_data" }

func (a SelectPersona) Token() string { return selectPersonaPrefix + strconv.Itoa(a.Index) }
func (a UnknownAction) Token() string { return a.Raw }

func (a RequestInput) Token() string {
	switch a.Tag {
	case PendingSetPersonaPrompt:
		return "setprompt"
	case PendingSetDisplayName:
		return "setun"
	case PendingSetDescription:
		return "setud"
	case PendingSetPersonaName:
		return "setcharname"
	case PendingSetPersonaGreeting:
		return "setgreeting"
	}
	return ""
}

// ParseNavigationAction maps a raw callback token to its variant. Anything
// it does not recognize becomes UnknownAction, which the menu machine
// answers with a fixed reply instead of dropping it.
func ParseNavigationAction(token string) NavigationAction {
	switch token {
	case "start_menu":
		return StartMenu{}
	case "main_commands":
		return MainCommands{}
	case "characters_menu":
		return PersonasMenu{}
	case "other_settings":
		return OtherSettings{}
	case "new_character":
		return NewPersona{}
	case "clear_history":
		return ClearHistory{}
	case "save_data":
		return SaveData{}
	case "setprompt":
		return RequestInput{Tag: PendingSetPersonaPrompt}
	case "setun":
		return RequestInput{Tag: PendingSetDisplayName}
	case "setud":
		return RequestInput{Tag: PendingSetDescription}
	case "setcharname":
		return RequestInput{Tag: PendingSetPersonaName}
	case "setgreeting":
		return RequestInput{Tag: PendingSetPersonaGreeting}
	}
	if rest, ok := strings.CutPrefix(token, selectPersonaPrefix); ok {
		if index, err := strconv.Atoi(rest); err == nil {
			return SelectPersona{Index: index}
		}
	}
	return UnknownAction{Raw: token}
}
