package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avoronkov/personabot/domain"
	"github.com/avoronkov/personabot/utils/log"
)

// replyApology is the fixed user-visible reply for any backend failure.
// A failed exchange is never retried; the user resends to retry.
const replyApology = "Ошибка: Что-то пошло не так при генерации ответа!"

// ChatService is the top-level coordinator for one transport. It decides
// whether an inbound turn is menu interaction, pending-command input or chat
// content, drives the prompt builder and the backend, and owns persistence
// requests. Per-user events are expected to arrive sequentially from the
// transport; cross-user events run concurrently.
type ChatService struct {
	registry   *SessionRegistry
	store      domain.UserStore
	llm        domain.Completer
	messenger  domain.Messenger
	prompts    *PromptBuilder
	menu       *MenuStateMachine
	historyCap int
}

func NewChatService(
	registry *SessionRegistry,
	store domain.UserStore,
	llm domain.Completer,
	messenger domain.Messenger,
	prompts *PromptBuilder,
	menu *MenuStateMachine,
	historyCap int,
) *ChatService {
	if historyCap <= 0 {
		historyCap = domain.DefaultHistoryCap
	}
	return &ChatService{
		registry:   registry,
		store:      store,
		llm:        llm,
		messenger:  messenger,
		prompts:    prompts,
		menu:       menu,
		historyCap: historyCap,
	}
}

// HandleText processes one inbound text message. Decision order: the /start
// command, then an armed pending command, then ordinary chat. The reply text
// that was sent is returned for transports and tests that want it.
func (s *ChatService) HandleText(ctx context.Context, userID, chatID int64, messageID int, text string) string {
	ctx = withTurnContext(ctx, userID, chatID)
	text = strings.TrimSpace(text)

	user := s.registry.GetOrCreate(ctx, userID)
	user.LastRequestAt = time.Now()

	log.WithCtx(ctx).Info("received message", zap.Int("length", len(text)))

	if strings.EqualFold(text, "/start") {
		s.deleteMessage(ctx, chatID, messageID)
		s.deleteStaleMenu(ctx, chatID, user)
		res := s.menu.Apply(user, domain.StartMenu{})
		s.sendMenuReply(ctx, chatID, user, res)
		return res.Text
	}

	if user.PendingCommand != domain.PendingNone {
		if reply, ok := s.menu.ApplyPendingInput(user, text); ok {
			s.saveUser(ctx, user)
			s.deleteMessage(ctx, chatID, messageID)
			s.sendMenuReply(ctx, chatID, user, MenuResult{Text: reply})
			return reply
		}
		// Unrecognized pending tag: fall through to ordinary chat.
	}

	return s.handleChat(ctx, chatID, user, text)
}

// HandleMenuAction processes one parsed navigation event. The previously
// tracked menu message is removed first, best-effort.
func (s *ChatService) HandleMenuAction(ctx context.Context, userID, chatID int64, action domain.NavigationAction) string {
	ctx = withTurnContext(ctx, userID, chatID)

	user := s.registry.GetOrCreate(ctx, userID)
	s.deleteStaleMenu(ctx, chatID, user)

	res := s.menu.Apply(user, action)

	if res.SaveNow {
		if err := s.store.SaveUser(ctx, user); err != nil {
			log.WithCtx(ctx).Error("explicit save failed", zap.Error(err))
		}
	} else if user.PendingCommand == domain.PendingNone {
		s.saveUser(ctx, user)
	}

	s.sendMenuReply(ctx, chatID, user, res)
	return res.Text
}

// handleChat runs the backend exchange. On failure neither turn is appended
// and the fixed apology is sent instead; history is only ever extended by a
// full user/assistant pair.
func (s *ChatService) handleChat(ctx context.Context, chatID int64, user *domain.User, text string) string {
	req := s.prompts.Build(user, text)

	content, err := s.llm.Complete(ctx, req)
	if err != nil {
		log.WithCtx(ctx).Error("backend completion failed", zap.Error(err))
		s.send(ctx, chatID, replyApology, nil)
		return replyApology
	}

	// The builder's final message is the substituted inbound turn; reusing
	// it keeps substitution single-pass.
	userTurn := req.Messages[len(req.Messages)-1]
	assistantTurn := domain.Turn{Speaker: domain.SpeakerAssistant, Content: content}

	s.appendTurn(ctx, user, userTurn)
	s.appendTurn(ctx, user, assistantTurn)
	s.saveUser(ctx, user)

	s.send(ctx, chatID, content, nil)

	log.WithCtx(ctx).Info("chat exchange completed",
		zap.Int("history_len", len(user.CurrentPersona().History)),
		zap.Duration("processing_time", time.Since(user.LastRequestAt)),
	)
	return content
}

func (s *ChatService) appendTurn(ctx context.Context, user *domain.User, t domain.Turn) {
	user.CurrentPersona().AppendTurn(t, s.historyCap)
	if err := s.store.AppendTurn(ctx, user.ID, user.ActivePersona, t); err != nil {
		log.WithCtx(ctx).Error("failed to append turn to store", zap.Error(err))
	}
}

// saveUser persists best-effort: on a write failure the in-memory state
// stays authoritative for the session and the write is not retried inline.
func (s *ChatService) saveUser(ctx context.Context, user *domain.User) {
	if err := s.store.SaveUser(ctx, user); err != nil {
		log.WithCtx(ctx).Error("failed to save user", zap.Error(err))
	}
}

// sendMenuReply sends a navigation reply and tracks its message id so the
// next navigation event can remove the stale menu.
func (s *ChatService) sendMenuReply(ctx context.Context, chatID int64, user *domain.User, res MenuResult) {
	if id := s.send(ctx, chatID, res.Text, res.Menu); id != 0 {
		user.LastMenuMessageID = id
	}
}

func (s *ChatService) send(ctx context.Context, chatID int64, text string, menu *domain.Menu) int {
	id, err := s.messenger.SendText(ctx, chatID, text, menu)
	if err != nil {
		log.WithCtx(ctx).Error("failed to send message", zap.Error(err))
		return 0
	}
	return id
}

func (s *ChatService) deleteStaleMenu(ctx context.Context, chatID int64, user *domain.User) {
	if user.LastMenuMessageID == 0 {
		return
	}
	s.deleteMessage(ctx, chatID, user.LastMenuMessageID)
	user.LastMenuMessageID = 0
}

func (s *ChatService) deleteMessage(ctx context.Context, chatID int64, messageID int) {
	if messageID == 0 {
		return
	}
	if err := s.messenger.DeleteMessage(ctx, chatID, messageID); err != nil {
		log.WithCtx(ctx).Warn("failed to delete message",
			zap.Int("message_id", messageID), zap.Error(err))
	}
}

func withTurnContext(ctx context.Context, userID, chatID int64) context.Context {
	ctx = context.WithValue(ctx, "request_id", uuid.NewString())
	ctx = context.WithValue(ctx, "user_id", userID)
	ctx = context.WithValue(ctx, "chat_id", chatID)
	return ctx
}
