package config

import (
	"os"
	"strconv"
)

// Backends selectable via LLM_BACKEND.
const (
	BackendLlamaCpp = "llamacpp"
	BackendGemini   = "gemini"
	BackendMock     = "mock"
)

// Storage backends selectable via STORAGE_BACKEND.
const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

// defaultPreamble is the operator style preamble emitted as the leading
// system turn of every backend request. Operators override it with
// SYSTEM_PREAMBLE; users never edit it.
const defaultPreamble = "Ты — рассказчик ролевых историй.\n" +
	"Ты отыгрываешь выбранного персонажа подробно и не выходишь из роли.\n" +
	"Отвечай на том же языке, на котором пишет пользователь."

type Config struct {
	TelegramToken string

	MongoURI      string
	MongoDatabase string

	LLMBackend         string
	LlamaServerAddress string
	GeminiModel        string

	StorageBackend string

	HTTPPort string

	SystemPreamble string
	HistoryCap     int
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// Load reads all env vars and builds the config. Keys keep the names the
// bot's .env files have always used.
func Load() *Config {
	return &Config{
		TelegramToken: getEnv("TELEGRAM_BOT_TOKEN", ""),

		MongoURI:      getEnv("MONGO_CONNECTION_STRING", ""),
		MongoDatabase: getEnv("MONGO_DATABASE_NAME", "neurochat"),

		LLMBackend:         getEnv("LLM_BACKEND", BackendLlamaCpp),
		LlamaServerAddress: getEnv("LLAMA_SERVER_ADDRESS", "http://127.0.0.1:8080"),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-2.0-flash-001"),

		StorageBackend: getEnv("STORAGE_BACKEND", StorageMongo),

		HTTPPort: getEnv("HTTP_PORT", "8081"),

		SystemPreamble: getEnv("SYSTEM_PREAMBLE", defaultPreamble),
		HistoryCap:     getIntEnv("HISTORY_CAP", 20),
	}
}
