package telemetry

import (
	"encoding/json"
	"time"
)

type Stats struct {
	Period        string            `json:"period"`
	EventCounts   map[EventType]int `json:"event_counts"`
	Clicks        int               `json:"clicks"`
	RateLimited   int               `json:"rate_limited"`
	Purchases     int               `json:"purchases"`
	PurchasesByID map[string]int    `json:"purchases_by_id"`
	ScoreSyncs    int               `json:"score_syncs"`
	SyncFailures  int               `json:"sync_failures"`
}

// CalculateStats summarizes a session's events.
func CalculateStats(events []Event, since time.Time) (Stats, error) {
	stats := Stats{
		Period:        since.Format("2006-01-02"),
		EventCounts:   make(map[EventType]int),
		PurchasesByID: make(map[string]int),
	}

	for _, event := range events {
		stats.EventCounts[event.Type]++

		var metadata EventMetadata
		if err := json.Unmarshal([]byte(event.Metadata), &metadata); err != nil {
			continue
		}

		switch event.Type {
		case EventClick:
			stats.Clicks++
		case EventRateLimited:
			stats.RateLimited++
		case EventUpgradePurchased:
			stats.Purchases++
			if id, ok := metadata["upgrade_id"].(string); ok {
				stats.PurchasesByID[id]++
			}
		case EventScoreSynced:
			stats.ScoreSyncs++
			if ok, found := metadata["ok"].(bool); found && !ok {
				stats.SyncFailures++
			}
		}
	}

	return stats, nil
}
