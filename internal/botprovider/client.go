package botprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"scribe/internal/config"
	"scribe/internal/logging"
	"scribe/internal/services"
	"scribe/internal/session"
)

const userAgent = "Scribe-Go/0.1.0"

// Metadata identifies who a session belongs to. It is stored by the
// provider and echoed back in webhooks; the daemon persists the same values
// locally.
type Metadata struct {
	CalendarEventID string `json:"calendarEventId"`
	OrganizationID  string `json:"organizationId,omitempty"`
	ProjectID       string `json:"projectId,omitempty"`
	UserID          string `json:"userId,omitempty"`
}

// BotConfig carries per-session bot parameters.
type BotConfig struct {
	BotName string `json:"botName,omitempty"`
}

// Created is the provider's answer to a session creation request.
type Created struct {
	ProviderID string
	Status     session.Status
}

// StatusReport is the provider's view of an existing session.
type StatusReport struct {
	ProviderID   string
	Status       session.Status
	RecordingID  string
	ErrorMessage string
}

// Client is the surface the reconciliation workflow dispatches bots
// through. Policies decide whether these are invoked; the client only
// performs the calls.
type Client interface {
	CreateSession(ctx context.Context, meetingURL string, meta Metadata, bot BotConfig) (Created, error)
	TerminateSession(ctx context.Context, providerID string) error
	SessionStatus(ctx context.Context, providerID string) (StatusReport, error)
}

// NewClient builds a provider client from configuration. When no base URL
// is configured, a noop implementation is returned and the daemon runs in
// browse-only mode.
func NewClient(cfg *config.Config, logger *slog.Logger) Client {
	baseURL := strings.TrimSpace(cfg.BotProvider.BaseURL)
	if baseURL == "" {
		return noopClient{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	timeout := time.Duration(cfg.BotProvider.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   cfg.BotProvider.APIToken,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.With(logging.String(logging.FieldComponent, "botprovider")),
	}
}

type httpClient struct {
	baseURL string
	token   string
	client  *http.Client
	logger  *slog.Logger
}

type createRequest struct {
	MeetingURL string   `json:"meetingUrl"`
	Metadata   Metadata `json:"metadata"`
	Bot        struct {
		Name string `json:"name,omitempty"`
	} `json:"bot"`
}

type sessionResponse struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	RecordingID string `json:"recordingId,omitempty"`
	Error       string `json:"error,omitempty"`
}

func (c *httpClient) CreateSession(ctx context.Context, meetingURL string, meta Metadata, bot BotConfig) (Created, error) {
	if strings.TrimSpace(meetingURL) == "" {
		return Created{}, services.Wrap(services.ErrInvalidInput, "botprovider", "create", "meeting URL is required", nil)
	}

	reqBody := createRequest{MeetingURL: meetingURL, Metadata: meta}
	reqBody.Bot.Name = bot.BotName

	var resp sessionResponse
	if err := c.do(ctx, http.MethodPost, "/v1/sessions", reqBody, &resp); err != nil {
		return Created{}, err
	}
	if resp.ID == "" {
		return Created{}, services.Wrap(services.ErrTransient, "botprovider", "create", "provider returned no session id", nil)
	}
	return Created{ProviderID: resp.ID, Status: parseProviderStatus(resp.Status)}, nil
}

func (c *httpClient) TerminateSession(ctx context.Context, providerID string) error {
	if strings.TrimSpace(providerID) == "" {
		return services.Wrap(services.ErrInvalidInput, "botprovider", "terminate", "provider id is required", nil)
	}
	return c.do(ctx, http.MethodDelete, "/v1/sessions/"+url.PathEscape(providerID), nil, nil)
}

func (c *httpClient) SessionStatus(ctx context.Context, providerID string) (StatusReport, error) {
	if strings.TrimSpace(providerID) == "" {
		return StatusReport{}, services.Wrap(services.ErrInvalidInput, "botprovider", "status", "provider id is required", nil)
	}

	var resp sessionResponse
	if err := c.do(ctx, http.MethodGet, "/v1/sessions/"+url.PathEscape(providerID), nil, &resp); err != nil {
		return StatusReport{}, err
	}
	return StatusReport{
		ProviderID:   resp.ID,
		Status:       parseProviderStatus(resp.Status),
		RecordingID:  resp.RecordingID,
		ErrorMessage: resp.Error,
	}, nil
}

func (c *httpClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return services.Wrap(services.ErrInvalidInput, "botprovider", "request", "encode request body", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "botprovider", "request", "build request", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTransient, "botprovider", "request", fmt.Sprintf("%s %s", method, path), err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return services.Wrap(services.ErrNotFound, "botprovider", "request", fmt.Sprintf("provider session not found (%s %s)", method, path), nil)
	case resp.StatusCode >= 300:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return services.Wrap(services.ErrTransient, "botprovider", "request",
			fmt.Sprintf("provider returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail))), nil)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return services.Wrap(services.ErrTransient, "botprovider", "request", "decode response", err)
	}
	return nil
}

// parseProviderStatus maps the provider's status vocabulary onto ours.
// Unknown values degrade to failed so reconciliation surfaces them instead
// of treating them as healthy.
func parseProviderStatus(value string) session.Status {
	if status, ok := session.ParseStatus(value); ok {
		return status
	}
	return session.StatusFailed
}

type noopClient struct{}

func (noopClient) CreateSession(context.Context, string, Metadata, BotConfig) (Created, error) {
	return Created{}, services.Wrap(services.ErrConfiguration, "botprovider", "create", "bot provider is not configured", nil)
}

func (noopClient) TerminateSession(context.Context, string) error { return nil }

func (noopClient) SessionStatus(context.Context, string) (StatusReport, error) {
	return StatusReport{}, services.Wrap(services.ErrConfiguration, "botprovider", "status", "bot provider is not configured", nil)
}
