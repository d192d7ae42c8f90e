package notification

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Patoruzuy/SYSGrow-sub003/internal/model"
)

func TestBuildItemViewIdleApproval(t *testing.T) {
	n := approvalNotification("m1", false)

	v := buildItemView(n, StateIdle, "")

	assert.Equal(t, "m1", v.MessageID)
	assert.Equal(t, model.CategoryIrrigation, v.Category)
	assert.Equal(t, StateIdle, v.State)
	require.NotNil(t, v.Request)
	assert.Equal(t, int64(7), v.Request.RequestID)

	require.Len(t, v.Controls, 3)
	assert.Equal(t, []ActionControl{
		{Action: ActionApprove, Label: "Approve"},
		{Action: ActionDelay, Label: "Delay 1h"},
		{Action: ActionCancel, Label: "Cancel"},
	}, v.Controls)
}

func TestBuildItemViewPendingDisablesWholeGroup(t *testing.T) {
	v := buildItemView(approvalNotification("m1", false), StatePending, "")

	assert.Equal(t, StatePending, v.State)
	require.Len(t, v.Controls, 3)
	for _, c := range v.Controls {
		assert.True(t, c.Disabled, "control %s must be disabled while pending", c.Action)
	}
}

func TestBuildItemViewFeedbackControls(t *testing.T) {
	v := buildItemView(feedbackNotification("m2"), StateIdle, "")

	require.Len(t, v.Controls, 3)
	assert.Equal(t, FeedbackTooLittle, v.Controls[0].Action)
	assert.Equal(t, FeedbackJustRight, v.Controls[1].Action)
	assert.Equal(t, FeedbackTooMuch, v.Controls[2].Action)
}

func TestBuildItemViewTakenIsTerminal(t *testing.T) {
	n := approvalNotification("m1", true)
	n.ActionTaken = true

	v := buildItemView(n, StateIdle, "")
	assert.Equal(t, StateTaken, v.State)
	assert.Equal(t, "Action taken", v.TakenLabel)
	assert.Empty(t, v.Controls)
	assert.Nil(t, v.Request)

	v = buildItemView(n, StateTaken, "Approved")
	assert.Equal(t, "Approved", v.TakenLabel)
}

func TestBuildItemViewFailClosedWithoutRequestID(t *testing.T) {
	cases := map[string]json.RawMessage{
		"empty payload":      nil,
		"malformed payload":  json.RawMessage(`{nope`),
		"zero request id":    json.RawMessage(`{"request_id":0}`),
		"missing request id": json.RawMessage(`{"soil_moisture":28.4}`),
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			n := approvalNotification("m1", false)
			n.ActionData = data

			v := buildItemView(n, StateIdle, "")
			assert.Empty(t, v.Controls, "no controls may render without a resolvable request id")
			assert.Nil(t, v.Request)
		})
	}
}

func TestBuildItemViewNonActionableHasNoControls(t *testing.T) {
	v := buildItemView(plainNotification("m3", "system_update", false), StateIdle, "")
	assert.Empty(t, v.Controls)
	assert.Equal(t, model.CategorySystem, v.Category)
}

func TestBuildItemViewIsDeterministic(t *testing.T) {
	n := approvalNotification("m1", false)
	assert.Equal(t, buildItemView(n, StateIdle, ""), buildItemView(n, StateIdle, ""))
}
