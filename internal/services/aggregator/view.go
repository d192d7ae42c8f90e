package aggregator

import (
	"time"

	"github.com/Patoruzuy/SYSGrow-sub003/internal/model"
)

// View is the render sink for the dashboard panels. Implementations receive
// fully built view models and must not reach back into the aggregator; the
// HTTP snapshot view in internal/services/dashboard is the production
// implementation, tests use recording fakes.
type View interface {
	ShowInsights(InsightListView)
	ShowDiseaseRisk(RiskView)
	ShowGrowth(GrowthView)
	ShowHarvest(HarvestView)
	ShowOptimization(OptimizationView)
	ShowRecommendations(RecommendationsView)
	ShowEnvForecast(EnvForecastView)
	ShowComparison(ComparisonView)

	// ShowAwaitingSelection is the distinct display state when no unit is
	// selected; no panel data exists in that state.
	ShowAwaitingSelection()

	// Notice surfaces a one-shot, user-visible message (e.g. a growth stage
	// transition). Distinct from the Notification entity.
	Notice(message string)
}

// InsightListView is the insights panel.
type InsightListView struct {
	Failed   bool            `json:"failed,omitempty"`
	Fallback string          `json:"fallback,omitempty"`
	Items    []model.Insight `json:"items"`
}

// RiskView is the disease risk meter plus details panel.
type RiskView struct {
	Failed   bool   `json:"failed,omitempty"`
	Fallback string `json:"fallback,omitempty"`

	MeterPct    float64                    `json:"meter_pct"`
	Level       model.RiskLevel            `json:"level"`
	DiseaseType string                     `json:"disease_type,omitempty"`
	Detail      string                     `json:"detail"`
	Factors     []model.ContributingFactor `json:"factors,omitempty"`
}

// GrowthView is the growth timeline panel. Placeholder is set when the
// reported stage is not a member of the fixed stage sequence.
type GrowthView struct {
	Failed   bool   `json:"failed,omitempty"`
	Fallback string `json:"fallback,omitempty"`

	Placeholder   bool   `json:"placeholder,omitempty"`
	CurrentStage  string `json:"current_stage"`
	PrevStage     string `json:"prev_stage,omitempty"`
	NextStage     string `json:"next_stage,omitempty"`
	DaysInStage   int    `json:"days_in_stage"`
	Ready         bool   `json:"ready"`
	EstimatedDays int    `json:"estimated_days"` // -1 when unknown
}

// HarvestView is the harvest forecast panel.
type HarvestView struct {
	Failed   bool   `json:"failed,omitempty"`
	Fallback string `json:"fallback,omitempty"`

	DaysRemaining int       `json:"days_remaining"`
	EstimatedDate time.Time `json:"estimated_date,omitempty"`
	ConfidencePct float64   `json:"confidence_pct"`
}

// OptimizationView is the optimization score panel.
type OptimizationView struct {
	Failed   bool   `json:"failed,omitempty"`
	Fallback string `json:"fallback,omitempty"`

	Score        float64             `json:"score"`
	QuickActions []model.QuickAction `json:"quick_actions,omitempty"`
}

// RecommendationsView is the personalized recommendations panel.
type RecommendationsView struct {
	Failed   bool   `json:"failed,omitempty"`
	Fallback string `json:"fallback,omitempty"`

	SuccessFactors []string            `json:"success_factors,omitempty"`
	AttentionAreas []string            `json:"attention_areas,omitempty"`
	Stats          model.LearningStats `json:"stats"`
}

// EnvForecastView is the environmental forecast panel.
type EnvForecastView struct {
	Failed   bool   `json:"failed,omitempty"`
	Fallback string `json:"fallback,omitempty"`

	Days []model.EnvForecastDay `json:"days"`
}

// ComparisonView is the similar-growers panel.
type ComparisonView struct {
	Failed   bool   `json:"failed,omitempty"`
	Fallback string `json:"fallback,omitempty"`

	Growers []model.SimilarGrower `json:"growers"`
}
