package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/pfrederiksen/boatrace-odds/internal/logger"
)

// webhookPayload is the body posted to the alert webhook
type webhookPayload struct {
	BatchID   string   `json:"batchId"`
	Alerts    []Notice `json:"alerts"`
	Timestamp string   `json:"timestamp"`
}

// webhookReply is the optional JSON answer of the webhook
type webhookReply struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// WebhookNotifier posts every batch of notices as one JSON document
type WebhookNotifier struct {
	client *resty.Client
	url    string
	now    func() time.Time
}

// NewWebhookNotifier creates a webhook notifier for url.
func NewWebhookNotifier(url string, timeout time.Duration) (*WebhookNotifier, error) {
	if url == "" {
		return nil, fmt.Errorf("webhook URL is required")
	}

	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("Content-Type", "application/json")

	return &WebhookNotifier{client: client, url: url, now: time.Now}, nil
}

// Notify posts {batchId, alerts, timestamp} to the webhook
func (n *WebhookNotifier) Notify(ctx context.Context, notices []Notice) error {
	if len(notices) == 0 {
		return nil
	}

	payload := webhookPayload{
		BatchID:   uuid.NewString(),
		Alerts:    notices,
		Timestamp: n.now().UTC().Format(time.RFC3339),
	}

	var reply webhookReply
	res, err := n.client.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&reply).
		Post(n.url)
	if err != nil {
		return fmt.Errorf("posting webhook: %w", err)
	}
	if res.IsError() {
		return fmt.Errorf("webhook error (status %d): %s", res.StatusCode(), res.String())
	}

	logger.Info("alert webhook delivered", logger.Fields{
		"batch_id": payload.BatchID,
		"alerts":   len(notices),
		"message":  reply.Message,
	})
	return nil
}
