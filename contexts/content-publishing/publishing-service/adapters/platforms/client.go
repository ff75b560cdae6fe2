package platforms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultRequestTimeout = 15 * time.Second

// GraphClient issues the write calls of the Graph-style platform APIs. Every
// call is bounded by the client timeout; a hung endpoint surfaces as a normal
// failed outcome upstream, never as a stuck orchestrator.
type GraphClient struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

func NewGraphClient(baseURL string, timeout time.Duration, logger *slog.Logger) *GraphClient {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GraphClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type graphResponse struct {
	ID    string      `json:"id"`
	Error *graphError `json:"error"`
}

type graphError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
}

// Post issues one write call and returns the opaque identifier the platform
// assigned. Platform error messages are surfaced verbatim.
func (c *GraphClient) Post(ctx context.Context, path string, values url.Values) (string, error) {
	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	request, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		endpoint,
		strings.NewReader(values.Encode()),
	)
	if err != nil {
		return "", err
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := c.http.Do(request)
	if err != nil {
		c.logger.Warn("platform write call failed",
			"event", "platform_write_call_failed",
			"module", "content-publishing/publishing-service",
			"layer", "adapter",
			"endpoint", endpoint,
			"error", err.Error(),
		)
		return "", err
	}
	defer response.Body.Close()

	var decoded graphResponse
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode platform response: %w", err)
	}
	if decoded.Error != nil && strings.TrimSpace(decoded.Error.Message) != "" {
		return "", errors.New(decoded.Error.Message)
	}
	if response.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("platform returned status %d", response.StatusCode)
	}
	if strings.TrimSpace(decoded.ID) == "" {
		return "", errors.New("platform response missing post id")
	}
	return decoded.ID, nil
}
