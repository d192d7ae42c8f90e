package growbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQosForDashboardTopics(t *testing.T) {
	assert.Equal(t, byte(1), qosFor("grow/insight/created/+"))
	assert.Equal(t, byte(1), qosFor("grow/risk/updated/unit-42"))
	assert.Equal(t, byte(1), qosFor("grow/growth/stage/+"))
	assert.Equal(t, byte(0), qosFor("grow/telemetry/raw"))
	assert.Equal(t, byte(0), qosFor(""))
}

func TestDashboardTopics(t *testing.T) {
	topics := DashboardTopics()
	assert.Len(t, topics, 3)
	assert.Contains(t, topics, TopicInsightCreated)
	assert.Contains(t, topics, TopicDiseaseRiskUpdate)
	assert.Contains(t, topics, TopicGrowthStageChanged)
}
