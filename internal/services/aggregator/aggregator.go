package aggregator

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/Patoruzuy/SYSGrow-sub003/internal/metrics"
	"github.com/Patoruzuy/SYSGrow-sub003/internal/model"
	"github.com/Patoruzuy/SYSGrow-sub003/pkg/dedup"
	"github.com/Patoruzuy/SYSGrow-sub003/pkg/growbus"
)

// Source is everything the aggregator needs from the analytics service.
// analytics.Client is the production implementation; tests inject fakes.
type Source interface {
	RecentInsights(ctx context.Context, unitID string, limit int) ([]model.Insight, error)
	DiseaseRisks(ctx context.Context, unitID string) ([]model.DiseaseRiskAssessment, error)
	GrowthProgress(ctx context.Context, unitID string) (model.GrowthProgress, error)
	HarvestForecast(ctx context.Context, unitID string) (model.HarvestForecast, error)
	OptimizationScore(ctx context.Context, unitID string) (model.OptimizationScore, error)
	Recommendations(ctx context.Context, unitID string) (model.Recommendations, error)
	EnvironmentForecast(ctx context.Context, unitID string, days int) ([]model.EnvForecastDay, error)
	SimilarGrowers(ctx context.Context, unitID string, limit int) ([]model.SimilarGrower, error)
}

// Panel identifiers, used for the per-panel sequence guard and metrics.
const (
	panelInsights        = "insights"
	panelRisk            = "disease_risk"
	panelGrowth          = "growth"
	panelHarvest         = "harvest"
	panelOptimization    = "optimization"
	panelRecommendations = "recommendations"
	panelEnvForecast     = "env_forecast"
	panelComparison      = "comparison"
)

// Config tunes the aggregator. Zero values get defaults.
type Config struct {
	RefreshPeriod   time.Duration // periodic full reload, reconciles missed pushes
	FetchTimeout    time.Duration // bound per source call
	InsightLimit    int
	ForecastDays    int
	ComparisonLimit int
}

func (c *Config) applyDefaults() {
	if c.RefreshPeriod <= 0 {
		c.RefreshPeriod = 5 * time.Minute
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 10 * time.Second
	}
	if c.InsightLimit <= 0 {
		c.InsightLimit = 10
	}
	if c.ForecastDays <= 0 {
		c.ForecastDays = 7
	}
	if c.ComparisonLimit <= 0 {
		c.ComparisonLimit = 5
	}
}

// Aggregator orchestrates the eight panel fetches, the periodic reconciling
// refresh, and the event-driven selective refreshes. Each panel renders
// independently: one failing source degrades that panel alone.
//
// The push path is an optimization; the periodic full reload is the source
// of truth for anything the channel missed.
type Aggregator struct {
	cfg      Config
	source   Source
	view     View
	consumer growbus.IConsumer
	deduper  *dedup.Deduper

	mu       sync.Mutex
	unitID   string
	alive    bool
	cancel   context.CancelFunc
	runCtx   context.Context
	seq      map[string]uint64 // next fetch sequence per panel
	rendered map[string]uint64 // last rendered fetch sequence per panel
}

// New builds an aggregator with explicit dependencies. consumer may be nil
// when no push channel is configured; the periodic reload still runs.
func New(cfg Config, source Source, view View, consumer growbus.IConsumer) *Aggregator {
	cfg.applyDefaults()
	return &Aggregator{
		cfg:      cfg,
		source:   source,
		view:     view,
		consumer: consumer,
		deduper:  dedup.New(10*time.Minute, 20000),
		seq:      make(map[string]uint64),
		rendered: make(map[string]uint64),
	}
}

// Start attaches the push subscription and the periodic refresh. It returns
// immediately; Stop (or cancelling ctx) tears everything down.
func (a *Aggregator) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)

	a.mu.Lock()
	a.alive = true
	a.runCtx = runCtx
	a.cancel = cancel
	unit := a.unitID
	a.mu.Unlock()

	if a.consumer != nil {
		a.consumer.SetHandler(a.handleEvent)
		go a.consumer.Consume(runCtx)
	}

	go func() {
		ticker := time.NewTicker(a.cfg.RefreshPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				log.Println("aggregator: periodic full refresh")
				a.LoadAll(runCtx)
			}
		}
	}()

	if unit == "" {
		a.view.ShowAwaitingSelection()
	} else {
		go a.LoadAll(runCtx)
	}
}

// Stop cancels the ticker and subscription and guarantees that no in-flight
// fetch renders afterwards.
func (a *Aggregator) Stop() {
	a.mu.Lock()
	a.alive = false
	cancel := a.cancel
	a.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// SetUnit selects the unit the dashboard follows. Selecting a unit when none
// was selected triggers exactly one full load; clearing it shows the
// awaiting-selection state.
func (a *Aggregator) SetUnit(unitID string) {
	unitID = strings.TrimSpace(unitID)

	a.mu.Lock()
	if a.unitID == unitID {
		a.mu.Unlock()
		return
	}
	a.unitID = unitID
	running := a.alive
	runCtx := a.runCtx
	a.mu.Unlock()

	if unitID == "" {
		a.view.ShowAwaitingSelection()
		return
	}
	if running {
		go a.LoadAll(runCtx)
	}
}

// Unit returns the currently selected unit id, empty when none.
func (a *Aggregator) Unit() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.unitID
}

// LoadAll fetches every panel concurrently. The eight fetch+render pairs race
// independently; no panel blocks on a sibling and no ordering is guaranteed
// between them.
func (a *Aggregator) LoadAll(ctx context.Context) {
	unit := a.Unit()
	if unit == "" {
		a.view.ShowAwaitingSelection()
		return
	}
	a.fetchInsights(ctx, unit)
	a.fetchRisk(ctx, unit)
	a.fetchGrowth(ctx, unit)
	a.fetchHarvest(ctx, unit)
	a.fetchOptimization(ctx, unit)
	a.fetchRecommendations(ctx, unit)
	a.fetchEnvForecast(ctx, unit)
	a.fetchComparison(ctx, unit)
}

// nextSeq reserves a fetch sequence number for a panel. Sequences are taken
// at fetch start, so the guard in apply implements last-fetched-wins rather
// than last-completed-wins.
func (a *Aggregator) nextSeq(panel string) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.seq[panel]++
	return a.seq[panel]
}

// apply runs a render closure only if the aggregator is still alive and the
// completing fetch is not stale for its panel.
func (a *Aggregator) apply(panel string, seq uint64, render func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.alive {
		return
	}
	if seq <= a.rendered[panel] {
		log.Printf("aggregator: drop stale %s render (seq=%d, rendered=%d)", panel, seq, a.rendered[panel])
		return
	}
	a.rendered[panel] = seq
	render()
}

func (a *Aggregator) fetchCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, a.cfg.FetchTimeout)
}

func (a *Aggregator) fetchInsights(ctx context.Context, unit string) {
	seq := a.nextSeq(panelInsights)
	go func() {
		fctx, cancel := a.fetchCtx(ctx)
		defer cancel()
		items, err := a.source.RecentInsights(fctx, unit, a.cfg.InsightLimit)
		if err != nil {
			metrics.SourceFetches.WithLabelValues(panelInsights, metrics.OutcomeError).Inc()
			log.Printf("aggregator: insights fetch failed: %v", err)
			a.apply(panelInsights, seq, func() { a.view.ShowInsights(fallbackInsightsView()) })
			return
		}
		metrics.SourceFetches.WithLabelValues(panelInsights, metrics.OutcomeOK).Inc()
		a.apply(panelInsights, seq, func() { a.view.ShowInsights(buildInsightsView(items)) })
	}()
}

func (a *Aggregator) fetchRisk(ctx context.Context, unit string) {
	seq := a.nextSeq(panelRisk)
	go func() {
		fctx, cancel := a.fetchCtx(ctx)
		defer cancel()
		risks, err := a.source.DiseaseRisks(fctx, unit)
		if err != nil {
			metrics.SourceFetches.WithLabelValues(panelRisk, metrics.OutcomeError).Inc()
			log.Printf("aggregator: disease risk fetch failed: %v", err)
			a.apply(panelRisk, seq, func() { a.view.ShowDiseaseRisk(fallbackRiskView()) })
			return
		}
		metrics.SourceFetches.WithLabelValues(panelRisk, metrics.OutcomeOK).Inc()
		a.apply(panelRisk, seq, func() { a.view.ShowDiseaseRisk(buildRiskView(risks)) })
	}()
}

func (a *Aggregator) fetchGrowth(ctx context.Context, unit string) {
	seq := a.nextSeq(panelGrowth)
	go func() {
		fctx, cancel := a.fetchCtx(ctx)
		defer cancel()
		p, err := a.source.GrowthProgress(fctx, unit)
		if err != nil {
			metrics.SourceFetches.WithLabelValues(panelGrowth, metrics.OutcomeError).Inc()
			log.Printf("aggregator: growth fetch failed: %v", err)
			a.apply(panelGrowth, seq, func() { a.view.ShowGrowth(fallbackGrowthView()) })
			return
		}
		metrics.SourceFetches.WithLabelValues(panelGrowth, metrics.OutcomeOK).Inc()
		a.apply(panelGrowth, seq, func() { a.view.ShowGrowth(buildGrowthView(p)) })
	}()
}

func (a *Aggregator) fetchHarvest(ctx context.Context, unit string) {
	seq := a.nextSeq(panelHarvest)
	go func() {
		fctx, cancel := a.fetchCtx(ctx)
		defer cancel()
		f, err := a.source.HarvestForecast(fctx, unit)
		if err != nil {
			metrics.SourceFetches.WithLabelValues(panelHarvest, metrics.OutcomeError).Inc()
			log.Printf("aggregator: harvest fetch failed: %v", err)
			a.apply(panelHarvest, seq, func() { a.view.ShowHarvest(fallbackHarvestView()) })
			return
		}
		metrics.SourceFetches.WithLabelValues(panelHarvest, metrics.OutcomeOK).Inc()
		a.apply(panelHarvest, seq, func() { a.view.ShowHarvest(buildHarvestView(f)) })
	}()
}

func (a *Aggregator) fetchOptimization(ctx context.Context, unit string) {
	seq := a.nextSeq(panelOptimization)
	go func() {
		fctx, cancel := a.fetchCtx(ctx)
		defer cancel()
		s, err := a.source.OptimizationScore(fctx, unit)
		if err != nil {
			metrics.SourceFetches.WithLabelValues(panelOptimization, metrics.OutcomeError).Inc()
			log.Printf("aggregator: optimization fetch failed: %v", err)
			a.apply(panelOptimization, seq, func() { a.view.ShowOptimization(fallbackOptimizationView()) })
			return
		}
		metrics.SourceFetches.WithLabelValues(panelOptimization, metrics.OutcomeOK).Inc()
		a.apply(panelOptimization, seq, func() { a.view.ShowOptimization(buildOptimizationView(s)) })
	}()
}

func (a *Aggregator) fetchRecommendations(ctx context.Context, unit string) {
	seq := a.nextSeq(panelRecommendations)
	go func() {
		fctx, cancel := a.fetchCtx(ctx)
		defer cancel()
		r, err := a.source.Recommendations(fctx, unit)
		if err != nil {
			metrics.SourceFetches.WithLabelValues(panelRecommendations, metrics.OutcomeError).Inc()
			log.Printf("aggregator: recommendations fetch failed: %v", err)
			a.apply(panelRecommendations, seq, func() { a.view.ShowRecommendations(fallbackRecommendationsView()) })
			return
		}
		metrics.SourceFetches.WithLabelValues(panelRecommendations, metrics.OutcomeOK).Inc()
		a.apply(panelRecommendations, seq, func() { a.view.ShowRecommendations(buildRecommendationsView(r)) })
	}()
}

func (a *Aggregator) fetchEnvForecast(ctx context.Context, unit string) {
	seq := a.nextSeq(panelEnvForecast)
	go func() {
		fctx, cancel := a.fetchCtx(ctx)
		defer cancel()
		days, err := a.source.EnvironmentForecast(fctx, unit, a.cfg.ForecastDays)
		if err != nil {
			metrics.SourceFetches.WithLabelValues(panelEnvForecast, metrics.OutcomeError).Inc()
			log.Printf("aggregator: env forecast fetch failed: %v", err)
			a.apply(panelEnvForecast, seq, func() { a.view.ShowEnvForecast(fallbackEnvForecastView()) })
			return
		}
		metrics.SourceFetches.WithLabelValues(panelEnvForecast, metrics.OutcomeOK).Inc()
		a.apply(panelEnvForecast, seq, func() { a.view.ShowEnvForecast(buildEnvForecastView(days)) })
	}()
}

func (a *Aggregator) fetchComparison(ctx context.Context, unit string) {
	seq := a.nextSeq(panelComparison)
	go func() {
		fctx, cancel := a.fetchCtx(ctx)
		defer cancel()
		growers, err := a.source.SimilarGrowers(fctx, unit, a.cfg.ComparisonLimit)
		if err != nil {
			metrics.SourceFetches.WithLabelValues(panelComparison, metrics.OutcomeError).Inc()
			log.Printf("aggregator: comparison fetch failed: %v", err)
			a.apply(panelComparison, seq, func() { a.view.ShowComparison(fallbackComparisonView()) })
			return
		}
		metrics.SourceFetches.WithLabelValues(panelComparison, metrics.OutcomeOK).Inc()
		a.apply(panelComparison, seq, func() { a.view.ShowComparison(buildComparisonView(growers)) })
	}()
}

// handleEvent maps a push event to a selective single-panel refresh. Events
// for other units are discarded; QoS1 redeliveries are dropped by payload
// hash before unmarshalling.
func (a *Aggregator) handleEvent(topic string, msg mqtt.Message) error {
	if !a.deduper.ShouldProcess(dedup.Key(msg.Payload())) {
		return nil
	}

	a.mu.Lock()
	alive, unit, runCtx := a.alive, a.unitID, a.runCtx
	a.mu.Unlock()
	if !alive || unit == "" {
		return nil
	}

	switch {
	case strings.HasPrefix(topic, "grow/insight/created"):
		var evt model.InsightCreatedEvent
		if err := json.Unmarshal(msg.Payload(), &evt); err != nil {
			log.Printf("aggregator: bad insight_created payload: %v", err)
			return nil
		}
		if evt.UnitID != unit {
			return nil
		}
		metrics.PushEvents.WithLabelValues("insight_created").Inc()
		a.fetchInsights(runCtx, unit)

	case strings.HasPrefix(topic, "grow/risk/updated"):
		var evt model.DiseaseRiskUpdateEvent
		if err := json.Unmarshal(msg.Payload(), &evt); err != nil {
			log.Printf("aggregator: bad disease_risk_update payload: %v", err)
			return nil
		}
		if evt.UnitID != unit {
			return nil
		}
		metrics.PushEvents.WithLabelValues("disease_risk_update").Inc()
		a.fetchRisk(runCtx, unit)

	case strings.HasPrefix(topic, "grow/growth/stage"):
		var evt model.GrowthStageChangedEvent
		if err := json.Unmarshal(msg.Payload(), &evt); err != nil {
			log.Printf("aggregator: bad growth_stage_changed payload: %v", err)
			return nil
		}
		if evt.UnitID != unit {
			return nil
		}
		metrics.PushEvents.WithLabelValues("growth_stage_changed").Inc()
		a.fetchGrowth(runCtx, unit)
		a.notice("Plant entered the " + evt.NewStage + " stage")
	}
	return nil
}

// notice emits a one-shot user-visible message, guarded by liveness.
func (a *Aggregator) notice(msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.alive {
		return
	}
	a.view.Notice(msg)
}
