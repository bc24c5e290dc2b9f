package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/onegreenvn/title-studio-backend/internal/config"
	"github.com/onegreenvn/title-studio-backend/internal/models"
)

func newTestGenerationService(serverURL string) *GenerationService {
	cfg := &config.AgentConfig{
		BaseURL:  serverURL,
		AgentID:  "yt-title-strategist",
		Workflow: "generate_titles",
		Timeout:  5 * time.Second,
	}
	return NewGenerationService(cfg, NewAgentClient(cfg), nil, nil)
}

func validRequest() *models.GenerationRequest {
	return &models.GenerationRequest{Topic: "Why most productivity advice fails"}
}

func TestGenerate_SuccessWithTitles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": {"output": {"titles": [{"youtube_title": "A", "rank": 2}, {"youtube_title": "B", "rank": 1}]}}}`))
	}))
	defer server.Close()

	svc := newTestGenerationService(server.URL)

	session, err := svc.Generate(context.Background(), "user-1", validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.State != models.SessionSuccess {
		t.Fatalf("expected success state, got %s", session.State)
	}
	if session.Outcome.Kind != models.OutcomeTitles {
		t.Fatalf("expected titles outcome, got %s", session.Outcome.Kind)
	}
	if session.Outcome.Titles[0].YoutubeTitle != "B" {
		t.Errorf("expected rank-sorted titles, got %q first", session.Outcome.Titles[0].YoutubeTitle)
	}
}

func TestGenerate_NonJSONBodyIsOpaqueSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Generated OK"))
	}))
	defer server.Close()

	svc := newTestGenerationService(server.URL)

	session, err := svc.Generate(context.Background(), "user-1", validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.State != models.SessionSuccess {
		t.Fatalf("expected success state for non-JSON 2xx, got %s", session.State)
	}
	if session.Outcome.Kind != models.OutcomeOpaque || session.Outcome.RawText != "Generated OK" {
		t.Errorf("expected opaque outcome carrying the body, got %+v", session.Outcome)
	}
}

func TestGenerate_HTTPErrorIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal error"))
	}))
	defer server.Close()

	svc := newTestGenerationService(server.URL)

	session, err := svc.Generate(context.Background(), "user-1", validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.State != models.SessionFailure {
		t.Fatalf("expected failure state, got %s", session.State)
	}
	if session.Outcome.Error.StatusCode != 500 {
		t.Errorf("expected status 500, got %d", session.Outcome.Error.StatusCode)
	}
	if session.Outcome.Error.Message != "internal error" {
		t.Errorf("expected server error body, got %q", session.Outcome.Error.Message)
	}
}

func TestGenerate_TransportErrorIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // unreachable on purpose

	svc := newTestGenerationService(server.URL)

	session, err := svc.Generate(context.Background(), "user-1", validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.State != models.SessionFailure {
		t.Fatalf("expected failure state, got %s", session.State)
	}
	if session.Outcome.Error.StatusCode != 0 {
		t.Errorf("transport failures carry no HTTP status, got %d", session.Outcome.Error.StatusCode)
	}
}

func TestGenerate_ValidationErrorBeforeAnyStateChange(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	svc := newTestGenerationService(server.URL)

	_, err := svc.Generate(context.Background(), "user-1", &models.GenerationRequest{})
	if !errors.Is(err, ErrMissingTopic) {
		t.Fatalf("expected ErrMissingTopic, got %v", err)
	}
	if requests != 0 {
		t.Error("no network call may happen for an invalid request")
	}
	if state := svc.Session("user-1").State; state != models.SessionIdle {
		t.Errorf("session must stay idle after a refused build, got %s", state)
	}
}

func TestGenerate_SingleFlightGuard(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write([]byte(`{"titles": ["only one"]}`))
	}))
	defer server.Close()
	defer close(release)

	svc := newTestGenerationService(server.URL)

	done := make(chan struct{})
	go func() {
		defer close(done)
		svc.Generate(context.Background(), "user-1", validRequest())
	}()

	// Wait until the first attempt is observably loading.
	deadline := time.After(2 * time.Second)
	for svc.Session("user-1").State != models.SessionLoading {
		select {
		case <-deadline:
			t.Fatal("first attempt never reached the loading state")
		case <-time.After(5 * time.Millisecond):
		}
	}

	_, err := svc.Generate(context.Background(), "user-1", validRequest())
	if !errors.Is(err, ErrGenerationInFlight) {
		t.Errorf("expected ErrGenerationInFlight, got %v", err)
	}

	release <- struct{}{}
	<-done

	if state := svc.Session("user-1").State; state != models.SessionSuccess {
		t.Errorf("first attempt must still complete, got state %s", state)
	}
}

func TestGenerate_NewAttemptReplacesOutcome(t *testing.T) {
	failNext := true
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failNext {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("upstream down"))
			return
		}
		w.Write([]byte(`{"titles": ["fresh"]}`))
	}))
	defer server.Close()

	svc := newTestGenerationService(server.URL)

	session, _ := svc.Generate(context.Background(), "user-1", validRequest())
	if session.State != models.SessionFailure {
		t.Fatalf("expected first attempt to fail, got %s", session.State)
	}

	failNext = false
	session, _ = svc.Generate(context.Background(), "user-1", validRequest())
	if session.State != models.SessionSuccess {
		t.Fatalf("expected second attempt to succeed, got %s", session.State)
	}
	if session.Outcome.Error != nil {
		t.Error("previous failure must be replaced wholesale, not merged")
	}
}

func TestReset_ClearsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"titles": ["something"]}`))
	}))
	defer server.Close()

	svc := newTestGenerationService(server.URL)

	svc.Generate(context.Background(), "user-1", validRequest())
	session := svc.Reset("user-1")

	if session.State != models.SessionIdle {
		t.Errorf("expected idle after reset, got %s", session.State)
	}
	if session.Outcome != nil || session.Request != nil {
		t.Error("reset must discard the stored request and outcome")
	}
}

func TestSession_UnknownUserIsIdle(t *testing.T) {
	svc := newTestGenerationService("http://localhost:0")

	if state := svc.Session("nobody").State; state != models.SessionIdle {
		t.Errorf("expected idle for unknown user, got %s", state)
	}
}

func TestSessions_ArePerUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"titles": ["mine"]}`))
	}))
	defer server.Close()

	svc := newTestGenerationService(server.URL)

	svc.Generate(context.Background(), "user-1", validRequest())

	if state := svc.Session("user-2").State; state != models.SessionIdle {
		t.Errorf("user-2 must be unaffected by user-1's attempt, got %s", state)
	}
}
