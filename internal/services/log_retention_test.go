package services

import (
	"testing"
	"time"
)

func TestNewLogRetentionService_DefaultRetention(t *testing.T) {
	svc := NewLogRetentionService(nil)

	if svc.retention != defaultLogRetentionDays*24*time.Hour {
		t.Errorf("expected %d day default retention, got %s", defaultLogRetentionDays, svc.retention)
	}
}

func TestNewLogRetentionService_RetentionFromEnv(t *testing.T) {
	t.Setenv("GENERATION_LOG_RETENTION_DAYS", "7")

	svc := NewLogRetentionService(nil)

	if svc.retention != 7*24*time.Hour {
		t.Errorf("expected 7 day retention, got %s", svc.retention)
	}
}

func TestNewLogRetentionService_InvalidEnvFallsBack(t *testing.T) {
	t.Setenv("GENERATION_LOG_RETENTION_DAYS", "not-a-number")

	svc := NewLogRetentionService(nil)

	if svc.retention != defaultLogRetentionDays*24*time.Hour {
		t.Errorf("expected default retention on bad value, got %s", svc.retention)
	}
}
