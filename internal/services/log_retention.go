package services

import (
	"os"
	"strconv"
	"time"

	"github.com/onegreenvn/title-studio-backend/internal/database/repository"

	"github.com/sirupsen/logrus"
)

const defaultLogRetentionDays = 90

type LogRetentionService struct {
	logRepo       *repository.GenerationLogRepository
	retention     time.Duration
	sweepInterval time.Duration
	stopChan      chan bool
}

func NewLogRetentionService(logRepo *repository.GenerationLogRepository) *LogRetentionService {
	days := defaultLogRetentionDays
	if raw := os.Getenv("GENERATION_LOG_RETENTION_DAYS"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			days = parsed
		}
	}
	return &LogRetentionService{
		logRepo:       logRepo,
		retention:     time.Duration(days) * 24 * time.Hour,
		sweepInterval: 24 * time.Hour,
		stopChan:      make(chan bool),
	}
}

// Start starts the generation log retention sweep
func (s *LogRetentionService) Start() {
	go s.run()
	logrus.Info("Generation log retention service started")
}

// Stop stops the generation log retention sweep
func (s *LogRetentionService) Stop() {
	s.stopChan <- true
	logrus.Info("Generation log retention service stopped")
}

func (s *LogRetentionService) run() {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	s.sweep()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopChan:
			return
		}
	}
}

func (s *LogRetentionService) sweep() {
	cutoff := time.Now().Add(-s.retention)
	if err := s.logRepo.DeleteOlderThan(cutoff); err != nil {
		logrus.Errorf("Failed to sweep old generation logs: %v", err)
		return
	}
	logrus.Info("Generation log retention sweep completed")
}
