package model

import (
	"encoding/json"
	"strings"
	"time"
)

// Severity of a notification as shown in the list.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
	SeveritySuccess  Severity = "success"
)

// ActionType tags what kind of decision a notification asks for.
type ActionType string

const (
	ActionNone               ActionType = "none"
	ActionIrrigationApproval ActionType = "irrigation_approval"
	ActionIrrigationFeedback ActionType = "irrigation_feedback"
)

// Notification is the central entity of the approval workflow.
//
// Lifecycle: created server-side on a trigger event, delivered on load/poll,
// InAppRead flips false→true once on first interaction, and if RequiresAction
// the ActionTaken flag flips false→true exactly once after a confirmed remote
// call. Notifications are never deleted individually; "clear all" empties the
// whole store.
type Notification struct {
	MessageID        string          `json:"message_id"`
	NotificationType string          `json:"notification_type"`
	Severity         Severity        `json:"severity"`
	Title            string          `json:"title"`
	Message          string          `json:"message"`
	CreatedAt        time.Time       `json:"created_at"`
	InAppRead        bool            `json:"in_app_read"`
	RequiresAction   bool            `json:"requires_action"`
	ActionTaken      bool            `json:"action_taken"`
	ActionType       ActionType      `json:"action_type"`
	ActionData       json.RawMessage `json:"action_data,omitempty"`
}

// IrrigationRequest is the read-only context embedded in ActionData for both
// irrigation action types. The workflow never mutates it; decisions reference
// RequestID only.
type IrrigationRequest struct {
	RequestID     int64     `json:"request_id"`
	SoilMoisture  float64   `json:"soil_moisture"`
	Threshold     float64   `json:"threshold"`
	ScheduledTime time.Time `json:"scheduled_time,omitempty"`
}

// IrrigationRequest parses ActionData as the tagged payload for the
// notification's ActionType. ok is false when the notification carries no
// irrigation action, the payload does not parse, or the request id does not
// resolve — in which case no action control may be rendered at all.
func (n Notification) IrrigationRequest() (IrrigationRequest, bool) {
	if n.ActionType != ActionIrrigationApproval && n.ActionType != ActionIrrigationFeedback {
		return IrrigationRequest{}, false
	}
	if len(n.ActionData) == 0 {
		return IrrigationRequest{}, false
	}
	var req IrrigationRequest
	if err := json.Unmarshal(n.ActionData, &req); err != nil {
		return IrrigationRequest{}, false
	}
	if req.RequestID <= 0 {
		return IrrigationRequest{}, false
	}
	return req, true
}

// Actionable reports whether the notification should render action controls:
// it still needs a decision and its payload validates.
func (n Notification) Actionable() bool {
	if !n.RequiresAction || n.ActionTaken {
		return false
	}
	_, ok := n.IrrigationRequest()
	return ok
}

// Category buckets a notification type for the client-side list filters.
type Category string

const (
	CategoryIrrigation Category = "irrigation"
	CategoryAlerts     Category = "alerts"
	CategorySystem     Category = "system"
)

// categoryByType is the fixed notification type → filter category map.
var categoryByType = map[string]Category{
	"irrigation_confirm":  CategoryIrrigation,
	"irrigation_feedback": CategoryIrrigation,
	"plant_needs_water":   CategoryIrrigation,
	"disease_alert":       CategoryAlerts,
	"pest_alert":          CategoryAlerts,
	"environment_alert":   CategoryAlerts,
	"system_update":       CategorySystem,
	"device_status":       CategorySystem,
}

// CategoryOf maps a notification type to its filter category. Unmapped types
// fall into the system bucket so every notification is reachable through some
// filter.
func CategoryOf(notificationType string) Category {
	if c, ok := categoryByType[strings.TrimSpace(notificationType)]; ok {
		return c
	}
	return CategorySystem
}
