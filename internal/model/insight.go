package model

import "time"

// InsightType classifies which aspect of the grow unit an insight is about.
type InsightType string

const (
	InsightTemperature  InsightType = "temperature"
	InsightHumidity     InsightType = "humidity"
	InsightLight        InsightType = "light"
	InsightSoilMoisture InsightType = "soil_moisture"
	InsightDisease      InsightType = "disease"
	InsightPest         InsightType = "pest"
	InsightGrowth       InsightType = "growth"
	InsightNutrient     InsightType = "nutrient"
	InsightGeneral      InsightType = "general"
)

// AlertLevel is the urgency attached to an insight.
type AlertLevel string

const (
	AlertInfo     AlertLevel = "info"
	AlertWarning  AlertLevel = "warning"
	AlertCritical AlertLevel = "critical"
)

// Insight is one analytics finding for a unit. Immutable once received: the next
// fetch supersedes the whole list, individual insights are never merged.
type Insight struct {
	ID          string      `json:"id"`
	Type        InsightType `json:"type"`
	AlertLevel  AlertLevel  `json:"alert_level"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	ActionItems []string    `json:"action_items,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
}
