package model

// RiskLevel is the qualitative bucket of a disease risk score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// ContributingFactor names one input that drove a risk score up or down.
type ContributingFactor struct {
	Factor string  `json:"factor"`
	Impact float64 `json:"impact"`
}

// DiseaseRiskAssessment is one disease's risk for a unit. RiskScore is 0..100.
type DiseaseRiskAssessment struct {
	DiseaseType         string               `json:"disease_type"`
	RiskScore           float64              `json:"risk_score"`
	RiskLevel           RiskLevel            `json:"risk_level"`
	ContributingFactors []ContributingFactor `json:"contributing_factors,omitempty"`
}

// HighestRisk returns the assessment with the strictly greatest score. Ties
// resolve to the first entry in input order, so repeated runs over the same
// set pick the same winner. ok is false when the set is empty, which is a
// valid "no risk" state rather than an error.
func HighestRisk(risks []DiseaseRiskAssessment) (best DiseaseRiskAssessment, ok bool) {
	for i, r := range risks {
		if i == 0 || r.RiskScore > best.RiskScore {
			best = r
			ok = true
		}
	}
	return best, ok
}
