package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/onegreenvn/title-studio-backend/internal/config"

	"github.com/sirupsen/logrus"
)

// AgentResponse is the raw HTTP-level result of one workflow invocation.
// Body is kept opaque here; the normalizer decides what it means.
type AgentResponse struct {
	StatusCode int
	Body       string
}

// AgentClient is the network transport to the title-agent workflow service.
type AgentClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAgentClient creates an agent client from the injected config.
func NewAgentClient(cfg *config.AgentConfig) *AgentClient {
	return &AgentClient{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// InvokeWorkflow posts the payload to the agent's workflow endpoint and
// returns the status and body. An error is returned only when the call
// itself could not complete; non-2xx statuses are reported through
// AgentResponse so the caller can surface the server's error text.
func (c *AgentClient) InvokeWorkflow(ctx context.Context, payload map[string]interface{}) (*AgentResponse, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal workflow payload: %w", err)
	}

	apiURL := fmt.Sprintf("%s/api/v1/workflows/run", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", "Title-Studio/1.0")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logrus.Errorf("HTTP request failed to title agent %s: %v", apiURL, err)
		return nil, fmt.Errorf("failed to call title agent: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &AgentResponse{
		StatusCode: resp.StatusCode,
		Body:       string(bodyBytes),
	}, nil
}
