package webhook

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/skverma/milknet/internal/domain/models"
)

// Notifier pushes daily snapshots to an external HTTP endpoint.
type Notifier interface {
	NotifySnapshot(ctx context.Context, snapshot models.DailySnapshot) error
}

// Client is a resty-backed implementation of Notifier.
type Client struct {
	httpClient *resty.Client
	url        string
}

// NewClient builds a webhook client for the configured endpoint.
func NewClient(url string) *Client {
	restyClient := resty.New()
	restyClient.
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second).
		SetRetryCount(2)

	return &Client{httpClient: restyClient, url: url}
}

// NotifySnapshot posts the snapshot as JSON. A non-2xx response is an
// error.
func (c *Client) NotifySnapshot(ctx context.Context, snapshot models.DailySnapshot) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(snapshot).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("post snapshot webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("snapshot webhook returned status %d", resp.StatusCode())
	}
	return nil
}
