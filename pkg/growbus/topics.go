package growbus

// Topic filters for the dashboard push channel. The trailing level carries
// the unit id, so subscribers filter on payload unit as well.
const (
	TopicInsightCreated     = "grow/insight/created/+"
	TopicDiseaseRiskUpdate  = "grow/risk/updated/+"
	TopicGrowthStageChanged = "grow/growth/stage/+"
)

// DashboardTopics is the full subscription set for the live dashboard.
func DashboardTopics() []string {
	return []string{TopicInsightCreated, TopicDiseaseRiskUpdate, TopicGrowthStageChanged}
}
