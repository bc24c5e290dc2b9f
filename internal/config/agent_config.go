package config

import (
	"os"
	"time"
)

// AgentConfig contains the routing identifiers and endpoint for the remote
// title-agent workflow. The config is injected into the services that need
// it at construction time; nothing reads the environment after startup.
type AgentConfig struct {
	BaseURL  string        `json:"base_url"`
	AgentID  string        `json:"agent_id"`
	Workflow string        `json:"workflow"`
	Timeout  time.Duration `json:"timeout"`
}

// GetAgentConfig returns the title agent configuration from the environment,
// falling back to the development defaults.
func GetAgentConfig() *AgentConfig {
	timeout := 2 * time.Minute
	if raw := os.Getenv("TITLE_AGENT_TIMEOUT"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			timeout = parsed
		}
	}

	return &AgentConfig{
		BaseURL:  getEnv("TITLE_AGENT_BASE_URL", "http://localhost:9800"),
		AgentID:  getEnv("TITLE_AGENT_ID", "yt-title-strategist"),
		Workflow: getEnv("TITLE_AGENT_WORKFLOW", "generate_titles"),
		Timeout:  timeout,
	}
}

// getEnv gets environment variable with fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
