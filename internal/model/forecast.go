package model

import "time"

// HarvestForecast predicts when the current crop will be ready.
// EstimatedDate is zero when the backend has no date yet.
type HarvestForecast struct {
	DaysRemaining int       `json:"days_remaining"`
	EstimatedDate time.Time `json:"estimated_date,omitempty"`
	Confidence    float64   `json:"confidence"` // 0..1
}

// PredictedIssue is one problem the environmental model expects on a day.
type PredictedIssue struct {
	Issue string `json:"issue"`
}

// EnvForecastDay is one day of the N-day environmental forecast.
type EnvForecastDay struct {
	Date            time.Time        `json:"date"`
	Temperature     float64          `json:"temperature"`
	Humidity        float64          `json:"humidity"`
	SoilMoisture    float64          `json:"soil_moisture"`
	PredictedIssues []PredictedIssue `json:"predicted_issues,omitempty"`
}
