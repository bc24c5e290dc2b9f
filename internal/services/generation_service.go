package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/onegreenvn/title-studio-backend/internal/config"
	"github.com/onegreenvn/title-studio-backend/internal/database/repository"
	"github.com/onegreenvn/title-studio-backend/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrGenerationInFlight is returned when a user triggers a generation while
// their previous attempt is still loading. The single-flight guard rejects
// the new attempt without dispatching a second request; the in-flight call
// is not cancelled.
var ErrGenerationInFlight = errors.New("a generation request is already in progress")

// GenerationService owns the per-user generation lifecycle:
// idle -> loading -> success/failure, back to loading on a new attempt, and
// back to idle on reset. Each attempt's outcome replaces the previous one
// wholesale.
type GenerationService struct {
	cfg     *config.AgentConfig
	client  *AgentClient
	logRepo *repository.GenerationLogRepository
	rabbit  *RabbitMQService

	mu       sync.Mutex
	sessions map[string]*models.GenerationSession
}

// NewGenerationService creates a generation service. logRepo and rabbit may
// be nil; attempt logging and event publishing are then skipped.
func NewGenerationService(cfg *config.AgentConfig, client *AgentClient, logRepo *repository.GenerationLogRepository, rabbit *RabbitMQService) *GenerationService {
	return &GenerationService{
		cfg:      cfg,
		client:   client,
		logRepo:  logRepo,
		rabbit:   rabbit,
		sessions: make(map[string]*models.GenerationSession),
	}
}

// Generate runs one generation attempt for the user and returns the terminal
// session snapshot. Validation errors and the single-flight guard are
// returned as errors before any state changes or network traffic; transport
// and protocol problems land in the session as a failure outcome.
func (s *GenerationService) Generate(ctx context.Context, userID string, req *models.GenerationRequest) (*models.GenerationSession, error) {
	payload, err := BuildGenerationPayload(s.cfg, req)
	if err != nil {
		return nil, err
	}

	requestID := uuid.New().String()

	s.mu.Lock()
	if current, exists := s.sessions[userID]; exists && current.State == models.SessionLoading {
		s.mu.Unlock()
		logrus.Warnf("Generation already in flight for user %s, ignoring new attempt", userID)
		return nil, ErrGenerationInFlight
	}
	s.sessions[userID] = &models.GenerationSession{
		State:     models.SessionLoading,
		RequestID: requestID,
		Request:   req,
		UpdatedAt: time.Now(),
	}
	s.mu.Unlock()

	start := time.Now()
	resp, err := s.client.InvokeWorkflow(ctx, payload)

	var outcome *models.GenerationOutcome
	var httpStatus int
	switch {
	case err != nil:
		logrus.Errorf("Title agent call failed for user %s: %v", userID, err)
		outcome = FailureOutcome(0, "failed to reach the title agent")
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		logrus.Errorf("Title agent returned status %d for user %s: %s", resp.StatusCode, userID, resp.Body)
		httpStatus = resp.StatusCode
		outcome = FailureOutcome(resp.StatusCode, resp.Body)
	default:
		httpStatus = resp.StatusCode
		outcome = NormalizeAgentBody(resp.Body)
	}

	state := models.SessionSuccess
	if outcome.Kind == models.OutcomeFailure {
		state = models.SessionFailure
	}

	session := &models.GenerationSession{
		State:     state,
		RequestID: requestID,
		Request:   req,
		Outcome:   outcome,
		UpdatedAt: time.Now(),
	}

	s.mu.Lock()
	s.sessions[userID] = session
	s.mu.Unlock()

	s.recordAttempt(userID, requestID, req, outcome, httpStatus, time.Since(start))

	return session, nil
}

// Session returns the user's current lifecycle snapshot. Users with no
// session yet are idle.
func (s *GenerationService) Session(userID string) *models.GenerationSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, exists := s.sessions[userID]; exists {
		return session
	}
	return &models.GenerationSession{State: models.SessionIdle, UpdatedAt: time.Now()}
}

// Reset clears the user's session back to idle, discarding the stored
// request fields and outcome.
func (s *GenerationService) Reset(userID string) *models.GenerationSession {
	session := &models.GenerationSession{State: models.SessionIdle, UpdatedAt: time.Now()}

	s.mu.Lock()
	s.sessions[userID] = session
	s.mu.Unlock()

	return session
}

// recordAttempt persists the attempt metadata and publishes the event.
// Both are best effort and never fail the attempt itself.
func (s *GenerationService) recordAttempt(userID, requestID string, req *models.GenerationRequest, outcome *models.GenerationOutcome, httpStatus int, duration time.Duration) {
	state := string(models.SessionSuccess)
	errorText := ""
	if outcome.Kind == models.OutcomeFailure {
		state = string(models.SessionFailure)
		errorText = outcome.Error.Message
	}

	if s.logRepo != nil {
		entry := &models.GenerationLog{
			RequestID:      requestID,
			UserID:         userID,
			Topic:          req.Topic,
			Tone:           req.Tone,
			VariationCount: req.VariationCount,
			State:          state,
			Outcome:        string(outcome.Kind),
			TitleCount:     len(outcome.Titles),
			HTTPStatus:     httpStatus,
			DurationMs:     duration.Milliseconds(),
			ErrorText:      errorText,
		}
		if err := s.logRepo.Create(entry); err != nil {
			logrus.Warnf("Failed to persist generation log for request %s: %v", requestID, err)
		}
	}

	if s.rabbit != nil {
		event := map[string]interface{}{
			"request_id":  requestID,
			"user_id":     userID,
			"topic":       req.Topic,
			"state":       state,
			"outcome":     string(outcome.Kind),
			"title_count": len(outcome.Titles),
			"http_status": httpStatus,
			"duration_ms": duration.Milliseconds(),
		}
		if err := s.rabbit.PublishAttemptEvent(event); err != nil {
			logrus.Warnf("Failed to publish generation event for request %s: %v", requestID, err)
		}
	}
}
