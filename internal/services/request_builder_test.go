package services

import (
	"errors"
	"testing"

	"github.com/onegreenvn/title-studio-backend/internal/config"
	"github.com/onegreenvn/title-studio-backend/internal/models"
)

func testAgentConfig() *config.AgentConfig {
	return &config.AgentConfig{
		BaseURL:  "http://localhost:9800",
		AgentID:  "yt-title-strategist",
		Workflow: "generate_titles",
	}
}

func TestBuildGenerationPayload(t *testing.T) {
	tests := []struct {
		name    string
		req     models.GenerationRequest
		wantErr bool
	}{
		{
			name: "valid full request",
			req: models.GenerationRequest{
				Topic:          "Why most productivity advice fails",
				KeyPoints:      "time blocking, energy management",
				TargetAudience: "engineers",
				MainTakeaway:   "systems beat willpower",
				VariationCount: 10,
				Tone:           models.ToneBoldClaim,
			},
		},
		{
			name: "topic only gets defaults",
			req:  models.GenerationRequest{Topic: "a topic"},
		},
		{
			name:    "empty topic refuses",
			req:     models.GenerationRequest{VariationCount: 5},
			wantErr: true,
		},
		{
			name:    "whitespace topic refuses",
			req:     models.GenerationRequest{Topic: "   "},
			wantErr: true,
		},
		{
			name:    "variation count outside the allowed set",
			req:     models.GenerationRequest{Topic: "a topic", VariationCount: 7},
			wantErr: true,
		},
		{
			name:    "unknown tone",
			req:     models.GenerationRequest{Topic: "a topic", Tone: "sarcastic"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := BuildGenerationPayload(testAgentConfig(), &tt.req)

			if (err != nil) != tt.wantErr {
				t.Fatalf("BuildGenerationPayload() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			if payload["agent_id"] != "yt-title-strategist" {
				t.Errorf("missing agent routing identifier, got %v", payload["agent_id"])
			}
			if payload["workflow"] != "generate_titles" {
				t.Errorf("missing workflow identifier, got %v", payload["workflow"])
			}
			if payload["topic"] != tt.req.Topic {
				t.Errorf("topic not carried into payload, got %v", payload["topic"])
			}
			if _, ok := payload["variation_count"].(int); !ok {
				t.Errorf("variation_count must be an integer, got %T", payload["variation_count"])
			}
		})
	}
}

func TestBuildGenerationPayload_EmptyTopicError(t *testing.T) {
	_, err := BuildGenerationPayload(testAgentConfig(), &models.GenerationRequest{})

	if !errors.Is(err, ErrMissingTopic) {
		t.Errorf("expected ErrMissingTopic, got %v", err)
	}
}

func TestBuildGenerationPayload_Defaults(t *testing.T) {
	payload, err := BuildGenerationPayload(testAgentConfig(), &models.GenerationRequest{Topic: "a topic"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if payload["variation_count"] != models.DefaultVariationCount {
		t.Errorf("expected default variation count %d, got %v", models.DefaultVariationCount, payload["variation_count"])
	}
	if payload["tone"] != models.ToneCuriosityGap {
		t.Errorf("expected default tone %q, got %v", models.ToneCuriosityGap, payload["tone"])
	}
}

func TestBuildGenerationPayload_ExactFields(t *testing.T) {
	req := &models.GenerationRequest{
		Topic:          "a topic",
		KeyPoints:      "points",
		TargetAudience: "audience",
		MainTakeaway:   "takeaway",
		VariationCount: 3,
		Tone:           models.ToneHowTo,
	}

	payload, err := BuildGenerationPayload(testAgentConfig(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Five user fields plus the two routing identifiers, nothing else.
	want := map[string]interface{}{
		"agent_id":        "yt-title-strategist",
		"workflow":        "generate_titles",
		"topic":           "a topic",
		"key_points":      "points",
		"target_audience": "audience",
		"main_takeaway":   "takeaway",
		"variation_count": 3,
		"tone":            models.ToneHowTo,
	}
	if len(payload) != len(want) {
		t.Errorf("expected %d payload fields, got %d: %v", len(want), len(payload), payload)
	}
	for key, value := range want {
		if payload[key] != value {
			t.Errorf("field %s: expected %v, got %v", key, value, payload[key])
		}
	}
}
