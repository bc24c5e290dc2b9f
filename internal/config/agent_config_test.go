package config

import (
	"testing"
	"time"
)

func TestGetAgentConfig_Defaults(t *testing.T) {
	cfg := GetAgentConfig()

	if cfg.BaseURL == "" || cfg.AgentID == "" || cfg.Workflow == "" {
		t.Errorf("routing identifiers must always be populated: %+v", cfg)
	}
	if cfg.Timeout <= 0 {
		t.Errorf("expected a positive timeout, got %v", cfg.Timeout)
	}
}

func TestGetAgentConfig_EnvOverrides(t *testing.T) {
	t.Setenv("TITLE_AGENT_BASE_URL", "http://agents.internal:9000")
	t.Setenv("TITLE_AGENT_ID", "custom-agent")
	t.Setenv("TITLE_AGENT_WORKFLOW", "custom_workflow")
	t.Setenv("TITLE_AGENT_TIMEOUT", "30s")

	cfg := GetAgentConfig()

	if cfg.BaseURL != "http://agents.internal:9000" {
		t.Errorf("unexpected base URL %q", cfg.BaseURL)
	}
	if cfg.AgentID != "custom-agent" {
		t.Errorf("unexpected agent ID %q", cfg.AgentID)
	}
	if cfg.Workflow != "custom_workflow" {
		t.Errorf("unexpected workflow %q", cfg.Workflow)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("unexpected timeout %v", cfg.Timeout)
	}
}
