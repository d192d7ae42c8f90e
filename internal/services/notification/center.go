package notification

import (
	"context"
	"log"
	"sync"
	"time"
)

// Center composes the store and the executor into the user-facing list:
// filter buttons, page controls, the poll loop, and action dispatch.
type Center struct {
	store    *Store
	executor *Executor
	view     View

	pollPeriod time.Duration

	mu     sync.Mutex
	filter Filter
	page   int
	alive  bool
	cancel context.CancelFunc
}

func NewCenter(store *Store, executor *Executor, view View, pollPeriod time.Duration) *Center {
	if pollPeriod <= 0 {
		pollPeriod = time.Minute
	}
	return &Center{
		store:      store,
		executor:   executor,
		view:       view,
		pollPeriod: pollPeriod,
		filter:     FilterAll,
		page:       1,
	}
}

// Start loads the first page and begins polling. Stop (or cancelling ctx)
// ends the loop.
func (c *Center) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.alive = true
	c.cancel = cancel
	c.mu.Unlock()

	c.Refresh(runCtx)

	go func() {
		ticker := time.NewTicker(c.pollPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				c.Refresh(runCtx)
			}
		}
	}()
}

// Stop ends polling; no further list renders happen afterwards.
func (c *Center) Stop() {
	c.mu.Lock()
	c.alive = false
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Filter returns the active filter.
func (c *Center) Filter() Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Page returns the active page number.
func (c *Center) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// SetFilter switches the active filter. A filter change resets to page 1;
// re-selecting the current filter just refreshes in place.
func (c *Center) SetFilter(ctx context.Context, f Filter) {
	c.mu.Lock()
	if c.filter != f {
		c.filter = f
		c.page = 1
	}
	c.mu.Unlock()
	c.Refresh(ctx)
}

// SetPage navigates to a page, keeping the active filter.
func (c *Center) SetPage(ctx context.Context, page int) {
	if page < 1 {
		page = 1
	}
	c.mu.Lock()
	c.page = page
	c.mu.Unlock()
	c.Refresh(ctx)
}

// Refresh reloads the current filter and page in place. The page is not
// reset: only a filter change does that.
func (c *Center) Refresh(ctx context.Context) {
	c.mu.Lock()
	if !c.alive && c.cancel != nil {
		c.mu.Unlock()
		return
	}
	filter, page := c.filter, c.page
	c.mu.Unlock()

	p := c.store.Load(ctx, filter, page)

	items := make([]ItemView, 0, len(p.Items))
	for _, n := range p.Items {
		items = append(items, buildItemView(n, StateIdle, ""))
	}
	c.view.ShowList(ListView{
		Filter:      filter,
		Page:        p.PageNum,
		TotalCount:  p.TotalCount,
		UnreadCount: p.UnreadCount,
		Items:       items,
		Empty:       len(items) == 0,
	})
	c.view.SetBadge(p.UnreadCount)
}

// Execute dispatches an action on one notification. On success the executor
// patches the item in place; the list is not reloaded, the badge comes from
// the store's authoritative counter.
func (c *Center) Execute(ctx context.Context, messageID string, action Action) error {
	return c.executor.Execute(ctx, messageID, action)
}

// MarkRead marks a single notification read and updates the badge.
func (c *Center) MarkRead(ctx context.Context, messageID string) error {
	if err := c.store.MarkRead(ctx, messageID); err != nil {
		return err
	}
	c.view.SetBadge(c.store.UnreadCount())
	return nil
}

// MarkAllRead clears every unread flag and refreshes the list.
func (c *Center) MarkAllRead(ctx context.Context) error {
	if err := c.store.MarkAllRead(ctx); err != nil {
		return err
	}
	c.Refresh(ctx)
	return nil
}

// ClearAll empties the list after explicit confirmation and re-renders the
// now-empty state.
func (c *Center) ClearAll(ctx context.Context, confirm bool) error {
	if err := c.store.ClearAll(ctx, confirm); err != nil {
		return err
	}
	log.Println("center: cleared all notifications")
	c.Refresh(ctx)
	return nil
}
