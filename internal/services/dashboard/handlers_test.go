package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Patoruzuy/SYSGrow-sub003/internal/model"
	"github.com/Patoruzuy/SYSGrow-sub003/internal/services/aggregator"
	"github.com/Patoruzuy/SYSGrow-sub003/internal/services/analytics"
	"github.com/Patoruzuy/SYSGrow-sub003/internal/services/notification"
)

// fakeNotifier is an in-memory notification.Service for the HTTP tests.
type fakeNotifier struct {
	mu          sync.Mutex
	list        notification.ListResult
	listErr     error
	decisionErr error
	decisions   []int64
}

func (f *fakeNotifier) List(_ context.Context, _ string, _, _ int, _ bool) (notification.ListResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return notification.ListResult{}, f.listErr
	}
	return f.list, nil
}

func (f *fakeNotifier) MarkRead(_ context.Context, _ string) error    { return nil }
func (f *fakeNotifier) MarkAllRead(_ context.Context, _ string) error { return nil }
func (f *fakeNotifier) ClearAll(_ context.Context, _ string) error    { return nil }

func (f *fakeNotifier) SubmitDecision(_ context.Context, requestID int64, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.decisionErr != nil {
		return f.decisionErr
	}
	f.decisions = append(f.decisions, requestID)
	return nil
}

func (f *fakeNotifier) SubmitFeedback(_ context.Context, requestID int64, _ string) error {
	return f.SubmitDecision(context.Background(), requestID, "")
}

var _ notification.Service = (*fakeNotifier)(nil)

func approvalItem(id string) model.Notification {
	return model.Notification{
		MessageID:        id,
		NotificationType: "irrigation_confirm",
		Severity:         model.SeverityWarning,
		Title:            "Irrigation approval needed",
		CreatedAt:        time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		RequiresAction:   true,
		ActionType:       model.ActionIrrigationApproval,
		ActionData:       json.RawMessage(`{"request_id":7,"soil_moisture":28.4,"threshold":30.0}`),
	}
}

func testServer(t *testing.T, svc *fakeNotifier) (*SnapshotView, *httptest.Server) {
	t.Helper()
	view := NewSnapshotView()
	store := notification.NewStore(svc, 10)
	store.SetUnit("42")
	executor := notification.NewExecutor(svc, store, view)
	center := notification.NewCenter(store, executor, view, time.Hour)

	srv := NewServer(view, center, analytics.NewClient("http://127.0.0.1:0", analytics.Options{Timeout: time.Second}), nil)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return view, ts
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func postJSON(t *testing.T, url string, body any, out any) int {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealthAndReadiness(t *testing.T) {
	_, ts := testServer(t, &fakeNotifier{})

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var ready map[string]bool
	code := getJSON(t, ts.URL+"/readyz", &ready)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, ready["ready"], "no push channel configured still counts as ready")
}

func TestDashboardDataServesSnapshot(t *testing.T) {
	view, ts := testServer(t, &fakeNotifier{})
	view.SetUnit("42")
	view.ShowGrowth(aggregator.GrowthView{CurrentStage: "Vegetative", PrevStage: "Seedling", NextStage: "Flowering"})

	var snap Snapshot
	code := getJSON(t, ts.URL+"/dashboard/data", &snap)

	assert.Equal(t, http.StatusOK, code)
	assert.False(t, snap.AwaitingSelection)
	assert.Equal(t, "42", snap.UnitID)
	require.NotNil(t, snap.Panels.Growth)
	assert.Equal(t, "Vegetative", snap.Panels.Growth.CurrentStage)
}

func TestNotificationListEndpoint(t *testing.T) {
	svc := &fakeNotifier{list: notification.ListResult{
		Notifications: []model.Notification{approvalItem("m1")},
		TotalCount:    1,
		UnreadCount:   1,
	}}
	_, ts := testServer(t, svc)

	var list notification.ListView
	code := getJSON(t, ts.URL+"/notifications?filter=irrigation", &list)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, notification.FilterIrrigation, list.Filter)
	assert.Equal(t, 1, list.Page)
	require.Len(t, list.Items, 1)
	assert.Equal(t, notification.StateIdle, list.Items[0].State)
	assert.Len(t, list.Items[0].Controls, 3)
}

func TestListLoadFailureDegradesToEmpty(t *testing.T) {
	svc := &fakeNotifier{listErr: errors.New("service down")}
	_, ts := testServer(t, svc)

	var list notification.ListView
	code := getJSON(t, ts.URL+"/notifications", &list)

	assert.Equal(t, http.StatusOK, code)
	assert.True(t, list.Empty)
	assert.Zero(t, list.TotalCount)
	assert.Zero(t, list.UnreadCount)
	assert.NotNil(t, list.Items)
}

func TestApproveFlowEndToEnd(t *testing.T) {
	svc := &fakeNotifier{list: notification.ListResult{
		Notifications: []model.Notification{approvalItem("m1")},
		TotalCount:    1,
		UnreadCount:   1,
	}}
	view, ts := testServer(t, svc)

	// Load the list, then approve.
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/notifications", nil))

	var out map[string]any
	code := postJSON(t, ts.URL+"/notifications/m1/action", map[string]string{"action": "approve"}, &out)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 0, out["unread_count"])

	svc.mu.Lock()
	decisions := append([]int64(nil), svc.decisions...)
	svc.mu.Unlock()
	assert.Equal(t, []int64{7}, decisions, "decision must carry the embedded request id")

	// The patched row is terminal in the snapshot, badge at zero.
	list, ok := view.NotificationList()
	require.True(t, ok)
	require.Len(t, list.Items, 1)
	assert.Equal(t, notification.StateTaken, list.Items[0].State)
	assert.Equal(t, "Approved", list.Items[0].TakenLabel)
	assert.Zero(t, view.Badge())

	// A second attempt on the same notification is rejected.
	code = postJSON(t, ts.URL+"/notifications/m1/action", map[string]string{"action": "approve"}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestActionFailureRollsBackAndMaps502(t *testing.T) {
	svc := &fakeNotifier{
		list: notification.ListResult{
			Notifications: []model.Notification{approvalItem("m1")},
			TotalCount:    1,
			UnreadCount:   1,
		},
		decisionErr: errors.New("upstream timeout"),
	}
	view, ts := testServer(t, svc)
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/notifications", nil))

	code := postJSON(t, ts.URL+"/notifications/m1/action", map[string]string{"action": "approve"}, nil)
	assert.Equal(t, http.StatusBadGateway, code)

	// The row is back to its idle, enabled state and retryable.
	list, ok := view.NotificationList()
	require.True(t, ok)
	require.Len(t, list.Items, 1)
	assert.Equal(t, notification.StateIdle, list.Items[0].State)
	for _, c := range list.Items[0].Controls {
		assert.False(t, c.Disabled)
	}
	assert.Equal(t, 1, view.Badge())
}

func TestActionErrorMapping(t *testing.T) {
	svc := &fakeNotifier{list: notification.ListResult{
		Notifications: []model.Notification{approvalItem("m1")},
		TotalCount:    1,
		UnreadCount:   1,
	}}
	_, ts := testServer(t, svc)
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/notifications", nil))

	code := postJSON(t, ts.URL+"/notifications/ghost/action", map[string]string{"action": "approve"}, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code = postJSON(t, ts.URL+"/notifications/m1/action", map[string]string{"action": "too_much"}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestClearAllRequiresConfirmation(t *testing.T) {
	svc := &fakeNotifier{list: notification.ListResult{
		Notifications: []model.Notification{approvalItem("m1")},
		TotalCount:    1,
		UnreadCount:   1,
	}}
	view, ts := testServer(t, svc)
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/notifications", nil))

	code := postJSON(t, ts.URL+"/notifications/clear", map[string]bool{"confirm": false}, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	svc.mu.Lock()
	svc.list = notification.ListResult{}
	svc.mu.Unlock()

	code = postJSON(t, ts.URL+"/notifications/clear", map[string]bool{"confirm": true}, nil)
	assert.Equal(t, http.StatusOK, code)

	list, ok := view.NotificationList()
	require.True(t, ok)
	assert.True(t, list.Empty)
	assert.Zero(t, view.Badge())
}

func TestMarkAllReadEndpoint(t *testing.T) {
	svc := &fakeNotifier{list: notification.ListResult{
		Notifications: []model.Notification{approvalItem("m1")},
		TotalCount:    1,
		UnreadCount:   1,
	}}
	_, ts := testServer(t, svc)
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/notifications", nil))

	var out map[string]int
	code := postJSON(t, ts.URL+"/notifications/read-all", nil, &out)
	assert.Equal(t, http.StatusOK, code)
	assert.Zero(t, out["unread_count"])
}
