package notification

import (
	"time"

	"github.com/Patoruzuy/SYSGrow-sub003/internal/model"
)

// View is the render sink for the notification center: the list, the unread
// badge, in-place item patches, and transient toasts. The HTTP snapshot view
// is the production implementation; tests use recording fakes.
type View interface {
	ShowList(ListView)
	PatchItem(ItemView)
	SetBadge(unread int)
	Toast(level, message string)
}

// ActionState is the optimistic-transition state of one actionable item.
type ActionState string

const (
	// StateIdle renders enabled action controls (when the item is actionable).
	StateIdle ActionState = "idle"
	// StatePending disables the controls while a submission is in flight.
	StatePending ActionState = "pending"
	// StateTaken is the permanent terminal confirmation after success.
	StateTaken ActionState = "taken"
)

// ActionControl is one rendered button in an item's action group.
type ActionControl struct {
	Action   Action `json:"action"`
	Label    string `json:"label"`
	Disabled bool   `json:"disabled,omitempty"`
}

// ItemView is the view model for one notification row.
type ItemView struct {
	MessageID  string                   `json:"message_id"`
	Type       string                   `json:"type"`
	Category   model.Category           `json:"category"`
	Severity   model.Severity           `json:"severity"`
	Title      string                   `json:"title"`
	Message    string                   `json:"message"`
	CreatedAt  time.Time                `json:"created_at"`
	Read       bool                     `json:"read"`
	State      ActionState              `json:"state,omitempty"`
	Controls   []ActionControl          `json:"controls,omitempty"`
	TakenLabel string                   `json:"taken_label,omitempty"`
	Request    *model.IrrigationRequest `json:"request,omitempty"`
}

// ListView is the view model for the whole notification list.
type ListView struct {
	Filter      Filter     `json:"filter"`
	Page        int        `json:"page"`
	TotalCount  int        `json:"total_count"`
	UnreadCount int        `json:"unread_count"`
	Items       []ItemView `json:"items"`
	Empty       bool       `json:"empty"`
}

// approvalControls and feedbackControls are the fixed action groups per
// action type.
func approvalControls(disabled bool) []ActionControl {
	return []ActionControl{
		{Action: ActionApprove, Label: "Approve", Disabled: disabled},
		{Action: ActionDelay, Label: "Delay 1h", Disabled: disabled},
		{Action: ActionCancel, Label: "Cancel", Disabled: disabled},
	}
}

func feedbackControls(disabled bool) []ActionControl {
	return []ActionControl{
		{Action: FeedbackTooLittle, Label: "Too little", Disabled: disabled},
		{Action: FeedbackJustRight, Label: "Just right", Disabled: disabled},
		{Action: FeedbackTooMuch, Label: "Too much", Disabled: disabled},
	}
}

// buildItemView is the pure transform from a notification to its row view.
// Controls render only when the payload validates (fail closed): a
// notification whose action data lacks a resolvable request id gets no
// buttons at all. The same inputs always yield the same view, which is what
// makes the failure rollback deterministic.
func buildItemView(n model.Notification, state ActionState, takenLabel string) ItemView {
	v := ItemView{
		MessageID: n.MessageID,
		Type:      n.NotificationType,
		Category:  model.CategoryOf(n.NotificationType),
		Severity:  n.Severity,
		Title:     n.Title,
		Message:   n.Message,
		CreatedAt: n.CreatedAt,
		Read:      n.InAppRead,
	}

	if n.ActionTaken || state == StateTaken {
		v.State = StateTaken
		if takenLabel == "" {
			takenLabel = "Action taken"
		}
		v.TakenLabel = takenLabel
		return v
	}

	req, ok := n.IrrigationRequest()
	if !n.RequiresAction || !ok {
		return v
	}
	v.Request = &req
	v.State = state
	disabled := state == StatePending
	switch n.ActionType {
	case model.ActionIrrigationApproval:
		v.Controls = approvalControls(disabled)
	case model.ActionIrrigationFeedback:
		v.Controls = feedbackControls(disabled)
	}
	return v
}
