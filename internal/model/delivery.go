package model

import "time"

// ProfileDelivery is the delivery bookkeeping kept for one profile.
type ProfileDelivery struct {
	LastSentAt          time.Time     `json:"last_sent_at"`
	LastTitle           string        `json:"last_title"`
	LastLevel           FallbackLevel `json:"last_level"`
	TipsSent            int           `json:"tips_sent"`
	ConsecutiveDegraded int           `json:"consecutive_degraded"`
	Paused              bool          `json:"paused"`
}

// DeliveryState survives daemon restarts. It belongs to the delivery side of
// the service; runs themselves never read it.
type DeliveryState struct {
	Profiles  map[string]*ProfileDelivery `json:"profiles"`
	UpdatedAt time.Time                   `json:"updated_at"`
}
