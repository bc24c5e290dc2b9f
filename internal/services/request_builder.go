package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/onegreenvn/title-studio-backend/internal/config"
	"github.com/onegreenvn/title-studio-backend/internal/models"
)

// ErrMissingTopic is returned when a generation request has no topic. The
// caller must not invoke the agent in that case.
var ErrMissingTopic = errors.New("topic is required")

// BuildGenerationPayload assembles the agent workflow payload from the
// user-supplied fields plus the routing identifiers from cfg. Pure
// transformation, no side effects.
func BuildGenerationPayload(cfg *config.AgentConfig, req *models.GenerationRequest) (map[string]interface{}, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, ErrMissingTopic
	}

	variationCount := req.VariationCount
	if variationCount == 0 {
		variationCount = models.DefaultVariationCount
	}
	if !isAllowedVariationCount(variationCount) {
		return nil, fmt.Errorf("variation_count must be one of %v", models.VariationCounts)
	}

	tone := req.Tone
	if tone == "" {
		tone = models.ToneCuriosityGap
	}
	if !isAllowedTone(tone) {
		return nil, fmt.Errorf("unknown tone %q", tone)
	}

	return map[string]interface{}{
		"agent_id":        cfg.AgentID,
		"workflow":        cfg.Workflow,
		"topic":           topic,
		"key_points":      req.KeyPoints,
		"target_audience": req.TargetAudience,
		"main_takeaway":   req.MainTakeaway,
		"variation_count": variationCount,
		"tone":            tone,
	}, nil
}

func isAllowedVariationCount(count int) bool {
	for _, allowed := range models.VariationCounts {
		if count == allowed {
			return true
		}
	}
	return false
}

func isAllowedTone(tone string) bool {
	for _, allowed := range models.Tones {
		if tone == allowed {
			return true
		}
	}
	return false
}
