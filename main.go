package main

import (
	"context"
	stdlog "log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/subosito/gotenv"

	ophttp "github.com/avoronkov/personabot/adapters/http"
	"github.com/avoronkov/personabot/adapters/llm"
	"github.com/avoronkov/personabot/adapters/storage/memory"
	"github.com/avoronkov/personabot/adapters/storage/mongo"
	"github.com/avoronkov/personabot/adapters/telegram"
	"github.com/avoronkov/personabot/adapters/websocket"
	"github.com/avoronkov/personabot/config"
	"github.com/avoronkov/personabot/domain"
	"github.com/avoronkov/personabot/usecase"
)

func main() {
	gotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	store := buildStore(ctx, cfg)
	completer := buildCompleter(ctx, cfg)

	registry := usecase.NewSessionRegistry(store)
	prompts := usecase.NewPromptBuilder(cfg.SystemPreamble, domain.DefaultGenerationConfig())
	menus := usecase.NewMenuStateMachine()

	newService := func(m domain.Messenger) *usecase.ChatService {
		return usecase.NewChatService(registry, store, completer, m, prompts, menus, cfg.HistoryCap)
	}

	if cfg.TelegramToken == "" {
		stdlog.Fatal("TELEGRAM_BOT_TOKEN is not configured, check your .env file")
	}
	bot, err := telegram.NewBot(cfg.TelegramToken)
	if err != nil {
		stdlog.Fatalf("creating telegram bot: %v", err)
	}
	go bot.Run(ctx, newService(bot))

	wsServer := websocket.NewServer(newService)
	wsServer.RunHub()

	opsHandler := ophttp.NewOpsHandler(registry)

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.GET("/healthz", opsHandler.HealthCheck)
	e.GET("/api/v1/sessions/:id", opsHandler.GetSession)
	e.GET("/ws", wsServer.Handler)

	stdlog.Println("Starting ops server on :" + cfg.HTTPPort)
	stdlog.Println("Available endpoints:")
	stdlog.Println("  GET /healthz                 - Health check")
	stdlog.Println("  GET /api/v1/sessions/:id     - Session snapshot")
	stdlog.Println("  GET /ws?user_id=N            - Dev chat console")
	stdlog.Fatal(e.Start(":" + cfg.HTTPPort))
}

func buildStore(ctx context.Context, cfg *config.Config) domain.UserStore {
	if cfg.StorageBackend == config.StorageMemory {
		return memory.NewStore()
	}
	if cfg.MongoURI == "" {
		stdlog.Fatal("MONGO_CONNECTION_STRING is not configured, check your .env file")
	}
	store, err := mongo.NewStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		stdlog.Fatalf("connecting to mongodb: %v", err)
	}
	return store
}

func buildCompleter(ctx context.Context, cfg *config.Config) domain.Completer {
	switch cfg.LLMBackend {
	case config.BackendGemini:
		gemini, err := llm.NewGemini(ctx, cfg.GeminiModel)
		if err != nil {
			stdlog.Fatalf("creating gemini client: %v", err)
		}
		return gemini
	case config.BackendMock:
		return llm.NewMock()
	default:
		return llm.NewLlamaCpp(cfg.LlamaServerAddress)
	}
}
