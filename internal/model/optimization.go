package model

// QuickAction is a one-tap suggestion attached to the optimization score.
type QuickAction struct {
	Type  string `json:"type"`
	Label string `json:"label"`
}

// OptimizationScore is the unit's overall tuning score, 0..100.
type OptimizationScore struct {
	Score        float64       `json:"score"`
	QuickActions []QuickAction `json:"quick_actions,omitempty"`
}

// LearningStats summarizes how much history backs the recommendations.
type LearningStats struct {
	CyclesObserved int     `json:"cycles_observed"`
	DataPoints     int     `json:"data_points"`
	Confidence     float64 `json:"confidence"`
}

// Recommendations is the personalized advice block for the operator.
type Recommendations struct {
	SuccessFactors []string      `json:"success_factors,omitempty"`
	AttentionAreas []string      `json:"attention_areas,omitempty"`
	LearningStats  LearningStats `json:"learning_stats"`
}

// SimilarGrower is one entry of the similar-growers comparison.
type SimilarGrower struct {
	SimilarityScore float64            `json:"similarity_score"`
	SuccessData     map[string]float64 `json:"success_data,omitempty"`
	KeyConditions   map[string]string  `json:"key_conditions,omitempty"`
}
