package model

import "time"

// Push-event payloads carried on the real-time channel. The transport is
// at-least-once and possibly out of order; consumers dedupe and discard
// events not matching the selected unit.

// InsightCreatedEvent announces a new insight for a unit.
type InsightCreatedEvent struct {
	UnitID    string    `json:"unit_id"`
	InsightID string    `json:"insight_id"`
	Timestamp time.Time `json:"timestamp"`
}

// DiseaseRiskUpdateEvent announces recomputed disease risks for a unit.
type DiseaseRiskUpdateEvent struct {
	UnitID    string    `json:"unit_id"`
	Timestamp time.Time `json:"timestamp"`
}

// GrowthStageChangedEvent announces a stage transition for a unit.
type GrowthStageChangedEvent struct {
	UnitID    string    `json:"unit_id"`
	NewStage  string    `json:"new_stage"`
	Timestamp time.Time `json:"timestamp"`
}
