// Package config loads process configuration from the environment.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// AIConfig selects the language model provider used for extraction and
// verification. When no key is present the system runs in heuristic mode.
type AIConfig struct {
	Provider  string
	Model     string
	GeminiKey string
	OpenAIKey string
}

// AIEnabled reports whether any provider key is configured.
func (c AIConfig) AIEnabled() bool {
	return c.GeminiKey != "" || c.OpenAIKey != ""
}

// SourcesConfig holds keys and identity for external source clients.
type SourcesConfig struct {
	NewsAPIKey   string
	FactCheckKey string
	UserAgent    string
}

// MonitorConfig controls the background misinformation sweeps.
type MonitorConfig struct {
	IntervalMinutes int
	DiscordToken    string
	DiscordChannel  string
}

type Config struct {
	AI      AIConfig
	Sources SourcesConfig
	Monitor MonitorConfig

	MCPListenAddr string
	MCPAuthToken  string
	WebListenAddr string
	RedisURL      string
}

// GetSetting returns an environment variable with a fallback default.
func GetSetting(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}

// Load reads configuration from the environment, consulting a .env file
// when one is present.
func Load() Config {
	_ = godotenv.Load()

	provider := GetSetting("AI_PROVIDER", "gemini")
	model := os.Getenv("AI_MODEL")
	if model == "" {
		switch provider {
		case "openai", "gpt":
			model = "gpt-4o-mini"
		default:
			model = "gemini-1.5-flash"
		}
	}

	return Config{
		AI: AIConfig{
			Provider:  provider,
			Model:     model,
			GeminiKey: os.Getenv("GEMINI_API_KEY"),
			OpenAIKey: os.Getenv("OPENAI_API_KEY"),
		},
		Sources: SourcesConfig{
			NewsAPIKey:   os.Getenv("NEWSAPI_KEY"),
			FactCheckKey: os.Getenv("FACTCHECK_API_KEY"),
			UserAgent:    GetSetting("HTTP_USER_AGENT", "TruthLens/0.1 (Research Project; contact@truthlens-demo.org)"),
		},
		Monitor: MonitorConfig{
			IntervalMinutes: getint("MONITOR_INTERVAL_MINUTES", 30),
			DiscordToken:    os.Getenv("DISCORD_TOKEN"),
			DiscordChannel:  os.Getenv("DISCORD_ALERT_CHANNEL"),
		},
		MCPListenAddr: GetSetting("MCP_LISTEN_ADDR", "127.0.0.1:7080"),
		MCPAuthToken:  os.Getenv("MCP_AUTH_TOKEN"),
		WebListenAddr: os.Getenv("WEB_LISTEN_ADDR"),
		RedisURL:      os.Getenv("REDIS_URL"),
	}
}
