package webhook

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/dwarvesf/casper-bridge-relayer/internal/utils/logger"
)

// Client pings uptime monitors after a job run succeeds.
type Client struct {
	http   *resty.Client
	logger *logger.Logger
}

func New(logger *logger.Logger) *Client {
	return &Client{
		http:   resty.New().SetTimeout(10 * time.Second),
		logger: logger,
	}
}

// CallUptimeWebhook sends a GET to webhookURL. Failures are only logged.
func (c *Client) CallUptimeWebhook(ctx context.Context, webhookURL string) bool {
	if webhookURL == "" {
		return false
	}

	resp, err := c.http.R().SetContext(ctx).Get(webhookURL)
	if err != nil {
		c.logger.Error("[CallUptimeWebhook][Get]", map[string]string{
			"url":   webhookURL,
			"error": err.Error(),
		})
		return false
	}
	if resp.IsError() {
		c.logger.Warn("[CallUptimeWebhook] monitor rejected ping", map[string]string{
			"url":    webhookURL,
			"status": resp.Status(),
		})
		return false
	}

	c.logger.Debug("[CallUptimeWebhook] ping sent", map[string]string{
		"url":    webhookURL,
		"status": resp.Status(),
	})
	return true
}
