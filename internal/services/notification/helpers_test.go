package notification

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/Patoruzuy/SYSGrow-sub003/internal/model"
)

type submission struct {
	requestID int64
	value     string
	feedback  bool
}

// fakeService is an in-memory Service recording every call.
type fakeService struct {
	mu sync.Mutex

	list    ListResult
	listErr error

	listCalls      int
	lastPage       int
	lastPageSize   int
	lastUnreadOnly bool

	markReadIDs  []string
	markReadErr  error
	markAllCalls int
	clearCalls   int

	submissions []submission
	decisionErr error
	feedbackErr error
	block       chan struct{}
}

func (f *fakeService) List(_ context.Context, _ string, page, pageSize int, unreadOnly bool) (ListResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	f.lastPage = page
	f.lastPageSize = pageSize
	f.lastUnreadOnly = unreadOnly
	if f.listErr != nil {
		return ListResult{}, f.listErr
	}
	return f.list, nil
}

func (f *fakeService) MarkRead(_ context.Context, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markReadIDs = append(f.markReadIDs, messageID)
	return f.markReadErr
}

func (f *fakeService) MarkAllRead(_ context.Context, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markAllCalls++
	return nil
}

func (f *fakeService) ClearAll(_ context.Context, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearCalls++
	return nil
}

func (f *fakeService) SubmitDecision(_ context.Context, requestID int64, action string) error {
	f.mu.Lock()
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submissions = append(f.submissions, submission{requestID, action, false})
	return f.decisionErr
}

func (f *fakeService) SubmitFeedback(_ context.Context, requestID int64, rating string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submissions = append(f.submissions, submission{requestID, rating, true})
	return f.feedbackErr
}

func (f *fakeService) submitted() []submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]submission, len(f.submissions))
	copy(out, f.submissions)
	return out
}

var _ Service = (*fakeService)(nil)

type toast struct {
	level   string
	message string
}

// fakeNView records every render call.
type fakeNView struct {
	mu      sync.Mutex
	lists   []ListView
	patches []ItemView
	badges  []int
	toasts  []toast
}

func (v *fakeNView) ShowList(lv ListView) {
	v.mu.Lock()
	v.lists = append(v.lists, lv)
	v.mu.Unlock()
}

func (v *fakeNView) PatchItem(iv ItemView) {
	v.mu.Lock()
	v.patches = append(v.patches, iv)
	v.mu.Unlock()
}

func (v *fakeNView) SetBadge(unread int) {
	v.mu.Lock()
	v.badges = append(v.badges, unread)
	v.mu.Unlock()
}

func (v *fakeNView) Toast(level, message string) {
	v.mu.Lock()
	v.toasts = append(v.toasts, toast{level, message})
	v.mu.Unlock()
}

func (v *fakeNView) patched() []ItemView {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]ItemView, len(v.patches))
	copy(out, v.patches)
	return out
}

var _ View = (*fakeNView)(nil)

func approvalNotification(id string, read bool) model.Notification {
	return model.Notification{
		MessageID:        id,
		NotificationType: "irrigation_confirm",
		Severity:         model.SeverityWarning,
		Title:            "Irrigation approval needed",
		Message:          "Soil moisture below threshold",
		CreatedAt:        time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		InAppRead:        read,
		RequiresAction:   true,
		ActionType:       model.ActionIrrigationApproval,
		ActionData:       json.RawMessage(`{"request_id":7,"soil_moisture":28.4,"threshold":30.0}`),
	}
}

func feedbackNotification(id string) model.Notification {
	n := approvalNotification(id, false)
	n.NotificationType = "irrigation_feedback"
	n.Title = "How was the last watering?"
	n.ActionType = model.ActionIrrigationFeedback
	return n
}

func plainNotification(id, notificationType string, read bool) model.Notification {
	return model.Notification{
		MessageID:        id,
		NotificationType: notificationType,
		Severity:         model.SeverityInfo,
		Title:            "Update",
		Message:          "Something happened",
		CreatedAt:        time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC),
		InAppRead:        read,
	}
}

// loadedStore returns a store preloaded with the fake service's current list.
func loadedStore(t *testing.T, svc *fakeService) *Store {
	t.Helper()
	s := NewStore(svc, 10)
	s.SetUnit("42")
	s.Load(context.Background(), FilterAll, 1)
	return s
}
