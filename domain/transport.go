package domain

import "context"

// Messenger is the outbound side of the chat transport. SendText returns the
// transport message id of the sent message so menu messages can be removed
// later; DeleteMessage is best-effort cleanup and its failures are logged,
// never fatal.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string, menu *Menu) (int, error)
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
}

// Menu is a transport-neutral inline keyboard: rows of labelled buttons,
// each carrying a navigation action.
type Menu struct {
	Rows []MenuRow
}

type MenuRow []MenuButton

type MenuButton struct {
	Label  string
	Action NavigationAction
}

// Row is a convenience for single-button rows.
func Row(label string, action NavigationAction) MenuRow {
	return MenuRow{{Label: label, Action: action}}
}
