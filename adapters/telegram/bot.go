package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/avoronkov/personabot/domain"
	"github.com/avoronkov/personabot/usecase"
	"github.com/avoronkov/personabot/utils/log"
)

// Bot is the Telegram transport. It long-polls for updates, parses callback
// payloads into navigation actions at this boundary, and implements
// domain.Messenger for the outbound direction.
type Bot struct {
	api *tgbotapi.BotAPI
}

func NewBot(token string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot api: %w", err)
	}
	return &Bot{api: api}, nil
}

// Run blocks on the long-polling loop, dispatching updates to the service.
// Telegram delivers one update at a time per chat, which is the sequencing
// the core relies on.
func (b *Bot) Run(ctx context.Context, svc *usecase.ChatService) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)

	log.WithCtx(ctx).Info("telegram bot started receiving updates",
		zap.String("bot", b.api.Self.UserName))

	for {
		select {
		case update := <-updates:
			b.dispatch(ctx, svc, update)
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			log.WithCtx(ctx).Info("telegram bot stopped")
			return
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, svc *usecase.ChatService, update tgbotapi.Update) {
	if cq := update.CallbackQuery; cq != nil && cq.Message != nil {
		action := domain.ParseNavigationAction(cq.Data)
		svc.HandleMenuAction(ctx, cq.From.ID, cq.Message.Chat.ID, action)

		if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
			log.WithCtx(ctx).Warn("failed to acknowledge callback", zap.Error(err))
		}
		return
	}

	msg := update.Message
	if msg == nil || msg.Text == "" || msg.From == nil {
		return
	}
	svc.HandleText(ctx, msg.From.ID, msg.Chat.ID, msg.MessageID, msg.Text)
}

// SendText implements domain.Messenger.
func (b *Bot) SendText(_ context.Context, chatID int64, text string, menu *domain.Menu) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	if menu != nil {
		msg.ReplyMarkup = toMarkup(menu)
	}
	sent, err := b.api.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("sending message to chat %d: %w", chatID, err)
	}
	return sent.MessageID, nil
}

// DeleteMessage implements domain.Messenger.
func (b *Bot) DeleteMessage(_ context.Context, chatID int64, messageID int) error {
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		return fmt.Errorf("deleting message %d in chat %d: %w", messageID, chatID, err)
	}
	return nil
}

func toMarkup(menu *domain.Menu) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(menu.Rows))
	for _, row := range menu.Rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, button := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(button.Label, button.Action.Token()))
		}
		rows = append(rows, buttons)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
