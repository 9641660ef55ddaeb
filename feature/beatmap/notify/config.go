package notify

// Config holds configuration for status change notifications.
type Config struct {
	// WebhookURL is a Discord-compatible webhook. Empty logs events instead.
	WebhookURL string `mapstructure:"webhook_url" default:""`
	// TimeoutSeconds bounds a single webhook delivery.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"5"`
}
