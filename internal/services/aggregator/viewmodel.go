package aggregator

import (
	"fmt"

	"github.com/Patoruzuy/SYSGrow-sub003/internal/model"
)

// Pure transforms from source results to view models. Keeping these free of
// I/O lets the panel rendering logic be tested without any backend.

const (
	noRiskMeterPct = 5.0
	noRiskDetail   = "No significant disease risks detected"
)

func buildInsightsView(items []model.Insight) InsightListView {
	if items == nil {
		items = []model.Insight{}
	}
	return InsightListView{Items: items}
}

func fallbackInsightsView() InsightListView {
	return InsightListView{Failed: true, Fallback: "Unable to load insights", Items: []model.Insight{}}
}

// buildRiskView picks the highest-scored assessment. An empty set renders the
// calm baseline, not an error.
func buildRiskView(risks []model.DiseaseRiskAssessment) RiskView {
	best, ok := model.HighestRisk(risks)
	if !ok {
		return RiskView{
			MeterPct: noRiskMeterPct,
			Level:    model.RiskLow,
			Detail:   noRiskDetail,
		}
	}
	return RiskView{
		MeterPct:    best.RiskScore,
		Level:       best.RiskLevel,
		DiseaseType: best.DiseaseType,
		Detail:      fmt.Sprintf("%s risk at %.0f%%", best.DiseaseType, best.RiskScore),
		Factors:     best.ContributingFactors,
	}
}

func fallbackRiskView() RiskView {
	return RiskView{Failed: true, Fallback: "Unable to load disease risk"}
}

// buildGrowthView places the current stage on the fixed timeline. A stage
// outside the sequence degrades to a placeholder instead of crashing the
// panel.
func buildGrowthView(p model.GrowthProgress) GrowthView {
	v := GrowthView{
		CurrentStage:  p.CurrentStage,
		DaysInStage:   p.DaysInStage,
		Ready:         p.ReadyForNextStage,
		EstimatedDays: p.EstimatedDaysToNextStage,
	}
	idx := model.StageIndex(p.CurrentStage)
	if idx < 0 {
		v.Placeholder = true
		v.CurrentStage = "Unknown"
		return v
	}
	if idx > 0 {
		v.PrevStage = model.StageSequence[idx-1]
	}
	if idx < len(model.StageSequence)-1 {
		v.NextStage = model.StageSequence[idx+1]
	}
	return v
}

func fallbackGrowthView() GrowthView {
	return GrowthView{Failed: true, Fallback: "Unable to load growth progress", EstimatedDays: -1}
}

func buildHarvestView(f model.HarvestForecast) HarvestView {
	return HarvestView{
		DaysRemaining: f.DaysRemaining,
		EstimatedDate: f.EstimatedDate,
		ConfidencePct: f.Confidence * 100,
	}
}

func fallbackHarvestView() HarvestView {
	return HarvestView{Failed: true, Fallback: "Unable to load harvest forecast"}
}

func buildOptimizationView(s model.OptimizationScore) OptimizationView {
	return OptimizationView{Score: s.Score, QuickActions: s.QuickActions}
}

func fallbackOptimizationView() OptimizationView {
	return OptimizationView{Failed: true, Fallback: "Unable to load optimization score"}
}

func buildRecommendationsView(r model.Recommendations) RecommendationsView {
	return RecommendationsView{
		SuccessFactors: r.SuccessFactors,
		AttentionAreas: r.AttentionAreas,
		Stats:          r.LearningStats,
	}
}

func fallbackRecommendationsView() RecommendationsView {
	return RecommendationsView{Failed: true, Fallback: "Unable to load recommendations"}
}

func buildEnvForecastView(days []model.EnvForecastDay) EnvForecastView {
	if days == nil {
		days = []model.EnvForecastDay{}
	}
	return EnvForecastView{Days: days}
}

func fallbackEnvForecastView() EnvForecastView {
	return EnvForecastView{Failed: true, Fallback: "Unable to load environmental forecast", Days: []model.EnvForecastDay{}}
}

func buildComparisonView(growers []model.SimilarGrower) ComparisonView {
	if growers == nil {
		growers = []model.SimilarGrower{}
	}
	return ComparisonView{Growers: growers}
}

func fallbackComparisonView() ComparisonView {
	return ComparisonView{Failed: true, Fallback: "Unable to load grower comparison", Growers: []model.SimilarGrower{}}
}
