package notification

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Patoruzuy/SYSGrow-sub003/internal/metrics"
	"github.com/Patoruzuy/SYSGrow-sub003/internal/model"
)

// Action is one of the decisions an operator can take on a notification.
type Action string

const (
	ActionApprove Action = "approve"
	ActionDelay   Action = "delay"
	ActionCancel  Action = "cancel"

	FeedbackTooLittle Action = "too_little"
	FeedbackJustRight Action = "just_right"
	FeedbackTooMuch   Action = "too_much"
)

var takenLabels = map[Action]string{
	ActionApprove:     "Approved",
	ActionDelay:       "Delayed",
	ActionCancel:      "Cancelled",
	FeedbackTooLittle: "Feedback sent",
	FeedbackJustRight: "Feedback sent",
	FeedbackTooMuch:   "Feedback sent",
}

var (
	// ErrUnknownNotification: the message id is not in the loaded collection.
	ErrUnknownNotification = errors.New("notification: unknown message id")
	// ErrNotActionable: the notification needs no decision or its payload has
	// no resolvable request id. No remote call is made.
	ErrNotActionable = errors.New("notification: not actionable")
	// ErrInvalidAction: the action does not belong to the notification's
	// action type.
	ErrInvalidAction = errors.New("notification: invalid action for notification type")
	// ErrBusy: another submission for the same notification is in flight.
	ErrBusy = errors.New("notification: action already in flight")
)

// ActionError wraps a failed remote submission. The optimistic transition
// has been rolled back by the time it is returned.
type ActionError struct {
	Action Action
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("notification: action %s failed: %v", e.Action, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }

// Executor submits irrigation decisions and feedback with an optimistic
// pending → success|failure transition on the item view. Failure reverts the
// item to the view built from the unchanged store state, which is identical
// to the pre-call view, so a retry is always possible. One submission per
// notification is allowed at a time.
type Executor struct {
	svc   Service
	store *Store
	view  View

	mu       sync.Mutex
	inflight map[string]bool
}

func NewExecutor(svc Service, store *Store, view View) *Executor {
	return &Executor{svc: svc, store: store, view: view, inflight: make(map[string]bool)}
}

func actionValidFor(t model.ActionType, a Action) bool {
	switch t {
	case model.ActionIrrigationApproval:
		return a == ActionApprove || a == ActionDelay || a == ActionCancel
	case model.ActionIrrigationFeedback:
		return a == FeedbackTooLittle || a == FeedbackJustRight || a == FeedbackTooMuch
	default:
		return false
	}
}

// Execute runs one decision against the notification with the given message
// id. The decision always references the request id embedded in the action
// data, never the notification's own id.
func (e *Executor) Execute(ctx context.Context, messageID string, action Action) error {
	n, ok := e.store.Get(messageID)
	if !ok {
		return ErrUnknownNotification
	}
	if !n.RequiresAction || n.ActionTaken {
		return ErrNotActionable
	}
	if !actionValidFor(n.ActionType, action) {
		return ErrInvalidAction
	}
	req, ok := n.IrrigationRequest()
	if !ok {
		return ErrNotActionable
	}

	e.mu.Lock()
	if e.inflight[messageID] {
		e.mu.Unlock()
		return ErrBusy
	}
	e.inflight[messageID] = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		delete(e.inflight, messageID)
		e.mu.Unlock()
	}()

	// Optimistic transition: disable the whole action group while the call
	// is in flight. This also serializes submissions from the UI side.
	e.view.PatchItem(buildItemView(n, StatePending, ""))

	var err error
	if n.ActionType == model.ActionIrrigationApproval {
		err = e.svc.SubmitDecision(ctx, req.RequestID, string(action))
	} else {
		err = e.svc.SubmitFeedback(ctx, req.RequestID, string(action))
	}
	if err != nil {
		metrics.Actions.WithLabelValues(string(action), metrics.OutcomeError).Inc()
		log.Printf("executor: %s on %s failed: %v", action, messageID, err)
		// Roll back: the store was never mutated, so rebuilding the idle view
		// restores exactly the pre-call controls.
		e.view.PatchItem(buildItemView(n, StateIdle, ""))
		e.view.Toast("error", "Could not submit your decision. Please try again.")
		return &ActionError{Action: action, Err: err}
	}

	metrics.Actions.WithLabelValues(string(action), metrics.OutcomeOK).Inc()

	// Best-effort server-side read flag; the local transition below is what
	// the badge renders from.
	if err := e.store.MarkRead(ctx, messageID); err != nil {
		log.Printf("executor: mark read after action failed: %v", err)
	}

	updated, ok := e.store.MarkActionTaken(messageID)
	if !ok {
		// Collection was reloaded out from under us; the terminal state will
		// come back on the next poll.
		updated = n
		updated.ActionTaken = true
		updated.InAppRead = true
	}
	e.view.PatchItem(buildItemView(updated, StateTaken, takenLabels[action]))
	e.view.SetBadge(e.store.UnreadCount())
	e.view.Toast("success", takenLabels[action])
	return nil
}
