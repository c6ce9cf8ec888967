package usecase

import (
	"fmt"

	"github.com/avoronkov/personabot/domain"
)

// MenuStateMachine interprets navigation events and pending free-text
// replies against a user's session state. It mutates only in-memory state;
// persistence and message delivery stay with the orchestrator.
type MenuStateMachine struct{}

func NewMenuStateMachine() *MenuStateMachine {
	return &MenuStateMachine{}
}

// MenuResult is what a navigation event produces: a reply, an optional
// keyboard and a persistence hint. SaveNow marks the explicit save action,
// which the orchestrator awaits instead of persisting best-effort.
type MenuResult struct {
	Text    string
	Menu    *domain.Menu
	SaveNow bool
}

// Apply runs one navigation event. Every action returns to the idle state
// except RequestInput, which arms the pending command consumed by
// ApplyPendingInput. Re-entering a menu is idempotent.
func (m *MenuStateMachine) Apply(user *domain.User, action domain.NavigationAction) MenuResult {
	switch a := action.(type) {
	case domain.StartMenu:
		return MenuResult{Text: "Выбери категорию:", Menu: startMenu()}

	case domain.MainCommands:
		return MenuResult{Text: "Основные команды:", Menu: mainCommandsMenu()}

	case domain.PersonasMenu:
		return MenuResult{Text: "Управление персонажами:", Menu: personasMenu(user)}

	case domain.OtherSettings:
		return MenuResult{
			Text: "Тут будут другие настройки. Пока пусто.",
			Menu: &domain.Menu{Rows: []domain.MenuRow{
				domain.Row("Назад в главное меню", domain.StartMenu{}),
			}},
		}

	case domain.RequestInput:
		if prompt, ok := inputPrompts[a.Tag]; ok {
			user.PendingCommand = a.Tag
			return MenuResult{Text: prompt}
		}
		return MenuResult{Text: replyUnknownCommand}

	case domain.ClearHistory:
		persona := user.CurrentPersona()
		persona.ClearHistory()
		greeting := domain.RenderTemplate(persona.Greeting, persona.Name, user.DisplayName)
		return MenuResult{Text: "История текущего чата очищена!\n\n" + greeting}

	case domain.SaveData:
		return MenuResult{Text: "Ваши данные сохранены.", SaveNow: true}

	case domain.NewPersona:
		persona := user.AddPersona()
		return MenuResult{Text: fmt.Sprintf(
			"Создан новый персонаж '%s' [ID:%d]. Он выбран по умолчанию.",
			persona.Name, user.ActivePersona,
		)}

	case domain.SelectPersona:
		if !user.ChangeActivePersona(a.Index) {
			return MenuResult{Text: "Неверный ID персонажа."}
		}
		persona := user.CurrentPersona()
		last := domain.RenderTemplate(persona.LastTurnOr(persona.Greeting), persona.Name, user.DisplayName)
		return MenuResult{Text: fmt.Sprintf(
			"Персонаж '%s' [ID:%d] выбран.\nПоследнее (или стандартное) сообщение: %s",
			persona.Name, a.Index, last,
		)}

	default:
		return MenuResult{Text: replyUnknownCommand}
	}
}

// ApplyPendingInput consumes the armed pending command with the given free
// text. It reports false when nothing recognizable is pending; the caller
// then treats the text as ordinary chat rather than dropping it.
func (m *MenuStateMachine) ApplyPendingInput(user *domain.User, text string) (string, bool) {
	tag := user.PendingCommand
	var reply string

	switch tag {
	case domain.PendingSetPersonaPrompt:
		user.CurrentPersona().Prompt = text
		reply = "Промпт установлен."
	case domain.PendingSetDisplayName:
		user.DisplayName = text
		reply = "Имя пользователя установлено."
	case domain.PendingSetDescription:
		user.Description = text
		reply = "Описание пользователя установлено."
	case domain.PendingSetPersonaName:
		user.CurrentPersona().Name = text
		reply = fmt.Sprintf("Имя персонажа изменено на: %s.", text)
	case domain.PendingSetPersonaGreeting:
		user.CurrentPersona().Greeting = text
		reply = fmt.Sprintf("Приветствие персонажа изменено на: %s.", text)
	default:
		return "", false
	}

	user.PendingCommand = domain.PendingNone
	return reply, true
}

const replyUnknownCommand = "Неизвестная команда."

var inputPrompts = map[domain.PendingCommand]string{
	domain.PendingSetPersonaPrompt:   "Введите новый промпт для текущего персонажа AI:",
	domain.PendingSetDisplayName:     "Введите новое имя пользователя (отображается в чате):",
	domain.PendingSetDescription:     "Введите новое описание для вашего пользователя (будет использоваться AI):",
	domain.PendingSetPersonaName:     "Введите новое имя для текущего персонажа:",
	domain.PendingSetPersonaGreeting: "Введите новое приветствие для текущего персонажа:",
}

func startMenu() *domain.Menu {
	return &domain.Menu{Rows: []domain.MenuRow{
		domain.Row("Основные команды", domain.MainCommands{}),
		domain.Row("Персонажи", domain.PersonasMenu{}),
		domain.Row("Другие настройки", domain.OtherSettings{}),
	}}
}

func mainCommandsMenu() *domain.Menu {
	return &domain.Menu{Rows: []domain.MenuRow{
		domain.Row("Установить Prompt AI", domain.RequestInput{Tag: domain.PendingSetPersonaPrompt}),
		domain.Row("Установить имя пользователя", domain.RequestInput{Tag: domain.PendingSetDisplayName}),
		domain.Row("Установить описание пользователя", domain.RequestInput{Tag: domain.PendingSetDescription}),
		domain.Row("Очистить историю текущего чата", domain.ClearHistory{}),
		domain.Row("Сохранить данные", domain.SaveData{}),
		domain.Row("Назад в главное меню", domain.StartMenu{}),
	}}
}

func personasMenu(user *domain.User) *domain.Menu {
	rows := make([]domain.MenuRow, 0, len(user.Personas)+4)
	for i, persona := range user.Personas {
		rows = append(rows, domain.Row(
			fmt.Sprintf("%s [ID:%d]", persona.Name, i),
			domain.SelectPersona{Index: i},
		))
	}
	rows = append(rows,
		domain.Row("Создать нового персонажа", domain.NewPersona{}),
		domain.Row("Переименовать текущего персонажа", domain.RequestInput{Tag: domain.PendingSetPersonaName}),
		domain.Row("Изменить приветствие текущего персонажа", domain.RequestInput{Tag: domain.PendingSetPersonaGreeting}),
		domain.Row("Назад в главное меню", domain.StartMenu{}),
	)
	return &domain.Menu{Rows: rows}
}
