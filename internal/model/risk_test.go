package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHighestRiskEmptySetIsValid(t *testing.T) {
	_, ok := HighestRisk(nil)
	assert.False(t, ok)
	_, ok = HighestRisk([]DiseaseRiskAssessment{})
	assert.False(t, ok)
}

func TestHighestRiskTieResolvesToFirstInOrder(t *testing.T) {
	set := []DiseaseRiskAssessment{
		{DiseaseType: "A", RiskScore: 30},
		{DiseaseType: "B", RiskScore: 30},
		{DiseaseType: "C", RiskScore: 10},
	}
	for i := 0; i < 50; i++ {
		best, ok := HighestRisk(set)
		require.True(t, ok)
		assert.Equal(t, "A", best.DiseaseType)
	}
}

func TestHighestRiskPicksStrictMax(t *testing.T) {
	best, ok := HighestRisk([]DiseaseRiskAssessment{
		{DiseaseType: "blight", RiskScore: 12},
		{DiseaseType: "mildew", RiskScore: 71, RiskLevel: RiskHigh},
		{DiseaseType: "rot", RiskScore: 44},
	})
	require.True(t, ok)
	assert.Equal(t, "mildew", best.DiseaseType)
	assert.Equal(t, RiskHigh, best.RiskLevel)
}

func TestStageIndex(t *testing.T) {
	assert.Equal(t, 0, StageIndex("Germination"))
	assert.Equal(t, 3, StageIndex("Flowering"))
	assert.Equal(t, 5, StageIndex("Harvest"))
	assert.Equal(t, -1, StageIndex("Dormant"))
	assert.Equal(t, -1, StageIndex(""))
}
