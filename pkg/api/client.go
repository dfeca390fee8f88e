package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ecosense/notifsync/pkg/common"
	"github.com/ecosense/notifsync/pkg/models"
)

const (
	endpointAdminNotifications = "/notificaciones/admin"
	endpointOwnNotifications   = "/notificaciones/me"
	endpointUserConfig         = "/configuracion-notificaciones/me"
	endpointMarkAllRead        = "/notificaciones/leer-todas"

	configKeyPrefix = "notify_"
)

// Client talks to the dashboard backend's notification endpoints. Payload
// shapes are owned by the server; records come back raw and are normalized
// by the engine.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// FetchAdmin pulls notifications across all users (role = admin).
func (c *Client) FetchAdmin(ctx context.Context, credential string) ([]models.RawNotification, error) {
	return c.fetchNotifications(ctx, credential, endpointAdminNotifications)
}

// FetchOwn pulls only the caller's notifications (role = member).
func (c *Client) FetchOwn(ctx context.Context, credential string) ([]models.RawNotification, error) {
	return c.fetchNotifications(ctx, credential, endpointOwnNotifications)
}

func (c *Client) fetchNotifications(ctx context.Context, credential, endpoint string) ([]models.RawNotification, error) {
	var raw []models.RawNotification
	if err := c.getJSON(ctx, credential, endpoint, &raw); err != nil {
		return nil, &FetchError{Endpoint: endpoint, Err: err}
	}
	return raw, nil
}

// FetchConfig pulls the per-user preference matrix. Server fields look like
// "notify_mq135_bad"; the prefix is stripped so keys become "mq135_bad".
func (c *Client) FetchConfig(ctx context.Context, credential string) (models.UserConfig, error) {
	var raw map[string]any
	if err := c.getJSON(ctx, credential, endpointUserConfig, &raw); err != nil {
		return nil, &FetchError{Endpoint: endpointUserConfig, Err: err}
	}

	config := models.UserConfig{}
	for key, value := range raw {
		if !strings.HasPrefix(key, configKeyPrefix) {
			continue
		}
		config[strings.TrimPrefix(key, configKeyPrefix)] = truthy(value)
	}
	return config, nil
}

// MarkRead asks the server to mark one notification read. Best-effort.
func (c *Client) MarkRead(ctx context.Context, credential string, id string) error {
	endpoint := "/notificaciones/" + id + "/leer"
	if err := c.put(ctx, credential, endpoint); err != nil {
		return &MutationError{Endpoint: endpoint, Err: err}
	}
	return nil
}

// MarkAllRead asks the server to mark all of the caller's notifications read.
func (c *Client) MarkAllRead(ctx context.Context, credential string) error {
	if err := c.put(ctx, credential, endpointMarkAllRead); err != nil {
		return &MutationError{Endpoint: endpointMarkAllRead, Err: err}
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, credential, endpoint string, result any) error {
	resp, err := c.do(ctx, http.MethodGet, credential, endpoint)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) put(ctx context.Context, credential, endpoint string) error {
	resp, err := c.do(ctx, http.MethodPut, credential, endpoint)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (c *Client) do(ctx context.Context, method, credential, endpoint string) (*http.Response, error) {
	logger := common.GetLoggerWith(common.LoggerNameRemoteAPI)

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+credential)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logger.Warn("Request failed", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		logger.Warn("Request rejected",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	return resp, nil
}

func truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v == "true" || v == "1"
	default:
		return false
	}
}
