package dashboard

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Patoruzuy/SYSGrow-sub003/internal/services/aggregator"
	"github.com/Patoruzuy/SYSGrow-sub003/internal/services/notification"
)

const maxTransient = 20

// Transient is a one-shot operator-visible message: a stage-change notice or
// an action success/failure toast.
type Transient struct {
	ID      string    `json:"id"`
	Level   string    `json:"level,omitempty"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Panels is the latest view model per dashboard panel.
type Panels struct {
	Insights        *aggregator.InsightListView     `json:"insights,omitempty"`
	DiseaseRisk     *aggregator.RiskView            `json:"disease_risk,omitempty"`
	Growth          *aggregator.GrowthView          `json:"growth,omitempty"`
	Harvest         *aggregator.HarvestView         `json:"harvest,omitempty"`
	Optimization    *aggregator.OptimizationView    `json:"optimization,omitempty"`
	Recommendations *aggregator.RecommendationsView `json:"recommendations,omitempty"`
	EnvForecast     *aggregator.EnvForecastView     `json:"env_forecast,omitempty"`
	Comparison      *aggregator.ComparisonView      `json:"comparison,omitempty"`
}

// Snapshot is the full dashboard state served to the page shell.
type Snapshot struct {
	AwaitingSelection bool                   `json:"awaiting_selection"`
	UnitID            string                 `json:"unit_id,omitempty"`
	Panels            Panels                 `json:"panels"`
	Notifications     *notification.ListView `json:"notifications,omitempty"`
	UnreadBadge       int                    `json:"unread_badge"`
	Notices           []Transient            `json:"notices,omitempty"`
	Toasts            []Transient            `json:"toasts,omitempty"`
	GeneratedAt       time.Time              `json:"generated_at"`
}

// SnapshotView is the production render sink: it retains the latest view
// model per panel plus the notification list and serves them as one JSON
// snapshot. It implements both aggregator.View and notification.View.
type SnapshotView struct {
	mu       sync.RWMutex
	unitID   string
	awaiting bool
	panels   Panels
	list     *notification.ListView
	badge    int
	notices  []Transient
	toasts   []Transient
}

func NewSnapshotView() *SnapshotView {
	return &SnapshotView{awaiting: true}
}

// SetUnit records the unit id shown in the snapshot header.
func (v *SnapshotView) SetUnit(unitID string) {
	v.mu.Lock()
	v.unitID = unitID
	v.mu.Unlock()
}

func (v *SnapshotView) ShowInsights(p aggregator.InsightListView) {
	v.mu.Lock()
	v.awaiting = false
	v.panels.Insights = &p
	v.mu.Unlock()
}

func (v *SnapshotView) ShowDiseaseRisk(p aggregator.RiskView) {
	v.mu.Lock()
	v.awaiting = false
	v.panels.DiseaseRisk = &p
	v.mu.Unlock()
}

func (v *SnapshotView) ShowGrowth(p aggregator.GrowthView) {
	v.mu.Lock()
	v.awaiting = false
	v.panels.Growth = &p
	v.mu.Unlock()
}

func (v *SnapshotView) ShowHarvest(p aggregator.HarvestView) {
	v.mu.Lock()
	v.awaiting = false
	v.panels.Harvest = &p
	v.mu.Unlock()
}

func (v *SnapshotView) ShowOptimization(p aggregator.OptimizationView) {
	v.mu.Lock()
	v.awaiting = false
	v.panels.Optimization = &p
	v.mu.Unlock()
}

func (v *SnapshotView) ShowRecommendations(p aggregator.RecommendationsView) {
	v.mu.Lock()
	v.awaiting = false
	v.panels.Recommendations = &p
	v.mu.Unlock()
}

func (v *SnapshotView) ShowEnvForecast(p aggregator.EnvForecastView) {
	v.mu.Lock()
	v.awaiting = false
	v.panels.EnvForecast = &p
	v.mu.Unlock()
}

func (v *SnapshotView) ShowComparison(p aggregator.ComparisonView) {
	v.mu.Lock()
	v.awaiting = false
	v.panels.Comparison = &p
	v.mu.Unlock()
}

// ShowAwaitingSelection clears the panels and enters the distinct no-unit
// display state.
func (v *SnapshotView) ShowAwaitingSelection() {
	v.mu.Lock()
	v.awaiting = true
	v.panels = Panels{}
	v.mu.Unlock()
}

func (v *SnapshotView) Notice(message string) {
	v.mu.Lock()
	v.notices = appendTransient(v.notices, Transient{
		ID: uuid.NewString(), Message: message, At: time.Now(),
	})
	v.mu.Unlock()
}

func (v *SnapshotView) ShowList(l notification.ListView) {
	v.mu.Lock()
	v.list = &l
	v.mu.Unlock()
}

// PatchItem replaces one row of the retained list in place, so an action
// outcome is visible without a full reload.
func (v *SnapshotView) PatchItem(item notification.ItemView) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.list == nil {
		return
	}
	for i := range v.list.Items {
		if v.list.Items[i].MessageID == item.MessageID {
			v.list.Items[i] = item
			return
		}
	}
}

func (v *SnapshotView) SetBadge(unread int) {
	v.mu.Lock()
	v.badge = unread
	if v.list != nil {
		v.list.UnreadCount = unread
	}
	v.mu.Unlock()
}

func (v *SnapshotView) Toast(level, message string) {
	v.mu.Lock()
	v.toasts = appendTransient(v.toasts, Transient{
		ID: uuid.NewString(), Level: level, Message: message, At: time.Now(),
	})
	v.mu.Unlock()
}

func appendTransient(list []Transient, t Transient) []Transient {
	list = append(list, t)
	if len(list) > maxTransient {
		list = list[len(list)-maxTransient:]
	}
	return list
}

// Snapshot returns a copy of the current dashboard state.
func (v *SnapshotView) Snapshot() Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()

	s := Snapshot{
		AwaitingSelection: v.awaiting,
		UnitID:            v.unitID,
		Panels:            v.panels,
		UnreadBadge:       v.badge,
		Notices:           append([]Transient(nil), v.notices...),
		Toasts:            append([]Transient(nil), v.toasts...),
		GeneratedAt:       time.Now(),
	}
	if v.list != nil {
		l := *v.list
		l.Items = append([]notification.ItemView(nil), v.list.Items...)
		s.Notifications = &l
	}
	return s
}

// NotificationList returns the retained list view, if one was rendered.
func (v *SnapshotView) NotificationList() (notification.ListView, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.list == nil {
		return notification.ListView{}, false
	}
	l := *v.list
	l.Items = append([]notification.ItemView(nil), v.list.Items...)
	return l, true
}

// Badge returns the current unread badge value.
func (v *SnapshotView) Badge() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.badge
}
