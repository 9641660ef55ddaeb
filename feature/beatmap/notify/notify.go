package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"beatmap-cache/feature/beatmap/models"

	"go.uber.org/zap"
)

// Notifier receives status change events produced by reconciliation.
type Notifier interface {
	Notify(event models.StatusEvent)
}

// New returns a webhook notifier when a URL is configured, otherwise a
// notifier that writes events to the log.
func New(cfg Config, domain string, logger *zap.Logger) Notifier {
	if cfg.WebhookURL == "" {
		return NewLogNotifier(logger)
	}
	return NewWebhookNotifier(cfg, domain, logger)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Notify(models.StatusEvent) {}

// LogNotifier writes events to a zap logger.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(event models.StatusEvent) {
	n.logger.Info("Beatmap status changed",
		zap.String("action", string(event.Action)),
		zap.String("md5", event.New.MD5),
		zap.Int("beatmap_id", event.New.ID),
		zap.String("old_status", event.Old.Status.String()),
		zap.String("new_status", event.New.Status.String()),
	)
}

// WebhookNotifier posts events as Discord embeds.
type WebhookNotifier struct {
	url     string
	domain  string
	timeout time.Duration
	client  *http.Client
	logger  *zap.Logger
	wg      sync.WaitGroup
}

// NewWebhookNotifier creates a WebhookNotifier. domain is the public server
// domain used to build beatmap links.
func NewWebhookNotifier(cfg Config, domain string, logger *zap.Logger) *WebhookNotifier {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 5
	}

	return &WebhookNotifier{
		url:     cfg.WebhookURL,
		domain:  domain,
		timeout: time.Duration(timeout) * time.Second,
		client:  &http.Client{Timeout: time.Duration(timeout) * time.Second},
		logger:  logger.With(zap.String("component", "notify")),
	}
}

// Notify schedules delivery of event and returns immediately.
func (n *WebhookNotifier) Notify(event models.StatusEvent) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		if err := n.send(ctx, event); err != nil {
			n.logger.Error("Failed to deliver status change",
				zap.String("md5", event.New.MD5),
				zap.String("action", string(event.Action)),
				zap.Error(err),
			)
		}
	}()
}

// Wait blocks until every scheduled delivery finished.
func (n *WebhookNotifier) Wait() {
	n.wg.Wait()
}

func (n *WebhookNotifier) send(ctx context.Context, event models.StatusEvent) error {
	body, err := json.Marshal(BuildPayload(event, n.domain))
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
