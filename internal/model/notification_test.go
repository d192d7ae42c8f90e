package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIrrigationRequestParsesApprovalPayload(t *testing.T) {
	n := Notification{
		MessageID:      "m1",
		RequiresAction: true,
		ActionType:     ActionIrrigationApproval,
		ActionData:     json.RawMessage(`{"request_id":7,"soil_moisture":28.4,"threshold":30.0}`),
	}

	req, ok := n.IrrigationRequest()
	require.True(t, ok)
	assert.Equal(t, int64(7), req.RequestID)
	assert.Equal(t, 28.4, req.SoilMoisture)
	assert.Equal(t, 30.0, req.Threshold)
}

func TestIrrigationRequestFailsClosed(t *testing.T) {
	cases := []struct {
		name string
		n    Notification
	}{
		{"no action type", Notification{ActionType: ActionNone, ActionData: json.RawMessage(`{"request_id":7}`)}},
		{"empty payload", Notification{ActionType: ActionIrrigationApproval}},
		{"malformed payload", Notification{ActionType: ActionIrrigationApproval, ActionData: json.RawMessage(`{not json`)}},
		{"missing request id", Notification{ActionType: ActionIrrigationApproval, ActionData: json.RawMessage(`{"soil_moisture":28.4}`)}},
		{"zero request id", Notification{ActionType: ActionIrrigationFeedback, ActionData: json.RawMessage(`{"request_id":0}`)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := tc.n.IrrigationRequest()
			assert.False(t, ok)
		})
	}
}

func TestActionableRequiresValidPayload(t *testing.T) {
	n := Notification{
		RequiresAction: true,
		ActionType:     ActionIrrigationApproval,
		ActionData:     json.RawMessage(`{"request_id":7}`),
	}
	assert.True(t, n.Actionable())

	n.ActionTaken = true
	assert.False(t, n.Actionable())

	n.ActionTaken = false
	n.ActionData = nil
	assert.False(t, n.Actionable())
}

func TestCategoryOf(t *testing.T) {
	assert.Equal(t, CategoryIrrigation, CategoryOf("irrigation_confirm"))
	assert.Equal(t, CategoryIrrigation, CategoryOf("plant_needs_water"))
	assert.Equal(t, CategoryAlerts, CategoryOf("disease_alert"))
	assert.Equal(t, CategorySystem, CategoryOf("system_update"))
	assert.Equal(t, CategorySystem, CategoryOf("something_new"))
}
