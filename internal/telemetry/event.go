package telemetry

import "time"

type EventType string

const (
	EventClick            EventType = "click"
	EventUpgradePurchased EventType = "upgrade_purchased"
	EventUIOpen           EventType = "ui_open"
	EventRateLimited      EventType = "rate_limited"
	EventWelcomeBack      EventType = "welcome_back"
	EventScoreSynced      EventType = "score_synced"
)

type Event struct {
	ID        int       `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  string    `json:"metadata"`
}

type EventMetadata map[string]interface{}
