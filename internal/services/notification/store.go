package notification

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/Patoruzuy/SYSGrow-sub003/internal/metrics"
	"github.com/Patoruzuy/SYSGrow-sub003/internal/model"
)

// Filter selects which notifications the list shows. unread is resolved
// server-side; the category filters are applied client-side against the
// fixed type→category map.
type Filter string

const (
	FilterAll        Filter = "all"
	FilterUnread     Filter = "unread"
	FilterIrrigation Filter = "irrigation"
	FilterAlerts     Filter = "alerts"
	FilterSystem     Filter = "system"
)

// ParseFilter normalizes a filter name, defaulting to all.
func ParseFilter(s string) Filter {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case FilterUnread:
		return FilterUnread
	case FilterIrrigation:
		return FilterIrrigation
	case FilterAlerts:
		return FilterAlerts
	case FilterSystem:
		return FilterSystem
	default:
		return FilterAll
	}
}

func (f Filter) category() (model.Category, bool) {
	switch f {
	case FilterIrrigation:
		return model.CategoryIrrigation, true
	case FilterAlerts:
		return model.CategoryAlerts, true
	case FilterSystem:
		return model.CategorySystem, true
	default:
		return "", false
	}
}

// Page is the result of one Load: the visible items plus the counts the page
// controls and the badge render from. For category filters TotalCount is the
// post-filter count, so pagination reflects what the operator actually sees.
type Page struct {
	Items       []model.Notification
	TotalCount  int
	UnreadCount int
	PageNum     int
}

// ErrConfirmationRequired is returned by ClearAll without explicit
// confirmation; no remote call is made in that case.
var ErrConfirmationRequired = errors.New("notification: clear all requires confirmation")

// Store owns the notification collection and the unread counter. Nothing
// else mutates them: the executor asks for transitions and the store applies
// them only after the remote call confirmed. Any load failure collapses to
// an empty zero-count page rather than a stale or contradictory one.
type Store struct {
	svc      Service
	pageSize int

	mu     sync.Mutex
	unitID string
	items  []model.Notification
	total  int
	unread int
}

func NewStore(svc Service, pageSize int) *Store {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Store{svc: svc, pageSize: pageSize}
}

// SetUnit pins the unit whose notifications the store serves.
func (s *Store) SetUnit(unitID string) {
	s.mu.Lock()
	s.unitID = strings.TrimSpace(unitID)
	s.mu.Unlock()
}

func (s *Store) unit() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unitID
}

// PageSize returns the fixed page size.
func (s *Store) PageSize() int { return s.pageSize }

// Load fetches one page for the given filter. It never returns an error:
// the degradation policy turns any failure into an empty result with zero
// counts so the operator always sees a consistent list.
func (s *Store) Load(ctx context.Context, filter Filter, page int) Page {
	if page < 1 {
		page = 1
	}
	unit := s.unit()

	res, err := s.svc.List(ctx, unit, page, s.pageSize, filter == FilterUnread)
	if err != nil {
		metrics.NotificationLoads.WithLabelValues(metrics.OutcomeError).Inc()
		log.Printf("store: list load failed, degrading to empty: %v", err)
		s.mu.Lock()
		s.items = nil
		s.total = 0
		s.unread = 0
		s.mu.Unlock()
		return Page{Items: []model.Notification{}, PageNum: page}
	}
	metrics.NotificationLoads.WithLabelValues(metrics.OutcomeOK).Inc()

	items := res.Notifications
	total := res.TotalCount
	if cat, ok := filter.category(); ok {
		filtered := make([]model.Notification, 0, len(items))
		for _, n := range items {
			if model.CategoryOf(n.NotificationType) == cat {
				filtered = append(filtered, n)
			}
		}
		items = filtered
		total = len(filtered)
	}
	if items == nil {
		items = []model.Notification{}
	}

	s.mu.Lock()
	s.items = items
	s.total = total
	s.unread = res.UnreadCount
	s.mu.Unlock()

	return Page{Items: items, TotalCount: total, UnreadCount: res.UnreadCount, PageNum: page}
}

// Get returns the notification with the given message id from the loaded
// collection.
func (s *Store) Get(messageID string) (model.Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.items {
		if n.MessageID == messageID {
			return n, true
		}
	}
	return model.Notification{}, false
}

// Items returns a copy of the loaded collection.
func (s *Store) Items() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Notification, len(s.items))
	copy(out, s.items)
	return out
}

// UnreadCount returns the authoritative unread counter.
func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unread
}

// TotalCount returns the count backing the page controls.
func (s *Store) TotalCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// MarkRead flips one notification read. Idempotent: an already-read message
// makes no remote call and leaves the counter untouched; the counter never
// goes negative.
func (s *Store) MarkRead(ctx context.Context, messageID string) error {
	s.mu.Lock()
	for _, n := range s.items {
		if n.MessageID == messageID && n.InAppRead {
			s.mu.Unlock()
			return nil
		}
	}
	s.mu.Unlock()

	if err := s.svc.MarkRead(ctx, messageID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].MessageID == messageID && !s.items[i].InAppRead {
			s.items[i].InAppRead = true
			if s.unread > 0 {
				s.unread--
			}
			break
		}
	}
	return nil
}

// MarkAllRead clears every unread flag and zeroes the counter, atomically
// from the caller's perspective.
func (s *Store) MarkAllRead(ctx context.Context) error {
	if err := s.svc.MarkAllRead(ctx, s.unit()); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		s.items[i].InAppRead = true
	}
	s.unread = 0
	return nil
}

// ClearAll empties the collection and counters together. It refuses to call
// the backend without explicit confirmation.
func (s *Store) ClearAll(ctx context.Context, confirm bool) error {
	if !confirm {
		return ErrConfirmationRequired
	}
	if err := s.svc.ClearAll(ctx, s.unit()); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.total = 0
	s.unread = 0
	return nil
}

// MarkActionTaken applies the one-way actionTaken transition after the
// executor's remote call confirmed, and marks the notification read. The
// unread counter drops by at most one.
func (s *Store) MarkActionTaken(messageID string) (model.Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].MessageID == messageID {
			s.items[i].ActionTaken = true
			if !s.items[i].InAppRead {
				s.items[i].InAppRead = true
				if s.unread > 0 {
					s.unread--
				}
			}
			return s.items[i], true
		}
	}
	return model.Notification{}, false
}
