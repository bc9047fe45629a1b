package models

import "time"

// RefreshEvent describes one completed dataset refresh. Published to the
// events exchange and broadcast to connected dashboard clients.
type RefreshEvent struct {
	Version     string        `json:"version"`
	Period      string        `json:"period"`
	Records     int           `json:"records"`
	Dropped     int           `json:"dropped"`
	Duration    time.Duration `json:"duration_ms"`
	RefreshedAt time.Time     `json:"refreshed_at"`
}
