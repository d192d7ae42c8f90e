package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Patoruzuy/SYSGrow-sub003/internal/model"
)

// Source names, one per dashboard panel.
const (
	SourceInsights        = "insights"
	SourceDiseaseRisks    = "disease_risks"
	SourceGrowth          = "growth"
	SourceHarvest         = "harvest"
	SourceOptimization    = "optimization"
	SourceRecommendations = "recommendations"
	SourceEnvForecast     = "env_forecast"
	SourceComparison      = "comparison"
)

var allSources = []string{
	SourceInsights, SourceDiseaseRisks, SourceGrowth, SourceHarvest,
	SourceOptimization, SourceRecommendations, SourceEnvForecast, SourceComparison,
}

// Client talks to the analytics/prediction service over REST. Every source
// endpoint gets its own circuit breaker so a misbehaving endpoint trips alone,
// and every call is bounded by the configured timeout.
type Client struct {
	base     string
	http     *http.Client
	breakers map[string]*gobreaker.CircuitBreaker
	cache    *resultCache
}

// Options tunes the client; zero values fall back to defaults.
type Options struct {
	Timeout         time.Duration
	BreakerFailures uint32
	BreakerOpenFor  time.Duration
}

func NewClient(baseURL string, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = 3
	}
	if opts.BreakerOpenFor <= 0 {
		opts.BreakerOpenFor = 15 * time.Second
	}

	breakers := make(map[string]*gobreaker.CircuitBreaker, len(allSources))
	for _, s := range allSources {
		s := s
		breakers[s] = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    s,
			Timeout: opts.BreakerOpenFor,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= opts.BreakerFailures
			},
		})
	}

	return &Client{
		base:     strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:     &http.Client{Timeout: opts.Timeout},
		breakers: breakers,
		cache:    newResultCache(),
	}
}

// Status reports per-source outcome timestamps for the ops endpoint.
func (c *Client) Status() map[string]SourceStatus { return c.cache.snapshot() }

// LastGood returns the most recent successfully fetched value for a source,
// if there has been one. Useful to a caller that wants stale-but-real data
// while a source is down.
func (c *Client) LastGood(source string) (any, bool) { return c.cache.lastGood(source) }

// getJSON runs one GET through the source's breaker and decodes the body.
func (c *Client) getJSON(ctx context.Context, source, path string, q url.Values, out any) error {
	cb := c.breakers[source]
	if cb == nil {
		return &FetchError{Source: source, Err: fmt.Errorf("unknown source")}
	}

	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	_, err := cb.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("status %d", resp.StatusCode)
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		c.cache.markError(source, err)
		return &FetchError{Source: source, Err: err}
	}
	c.cache.markSuccess(source, out)
	return nil
}

func unitQuery(unitID string) url.Values {
	q := url.Values{}
	q.Set("unit_id", unitID)
	return q
}

// RecentInsights returns the most recent insights first, at most limit.
func (c *Client) RecentInsights(ctx context.Context, unitID string, limit int) ([]model.Insight, error) {
	q := unitQuery(unitID)
	q.Set("limit", strconv.Itoa(limit))
	var out []model.Insight
	if err := c.getJSON(ctx, SourceInsights, "/insights/recent", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DiseaseRisks returns the current risk set. An empty set is a valid
// "no risk" state.
func (c *Client) DiseaseRisks(ctx context.Context, unitID string) ([]model.DiseaseRiskAssessment, error) {
	var out []model.DiseaseRiskAssessment
	if err := c.getJSON(ctx, SourceDiseaseRisks, "/predictions/disease-risk", unitQuery(unitID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GrowthProgress(ctx context.Context, unitID string) (model.GrowthProgress, error) {
	var out model.GrowthProgress
	if err := c.getJSON(ctx, SourceGrowth, "/predictions/growth", unitQuery(unitID), &out); err != nil {
		return model.GrowthProgress{}, err
	}
	return out, nil
}

func (c *Client) HarvestForecast(ctx context.Context, unitID string) (model.HarvestForecast, error) {
	var out model.HarvestForecast
	if err := c.getJSON(ctx, SourceHarvest, "/predictions/harvest", unitQuery(unitID), &out); err != nil {
		return model.HarvestForecast{}, err
	}
	return out, nil
}

func (c *Client) OptimizationScore(ctx context.Context, unitID string) (model.OptimizationScore, error) {
	var out model.OptimizationScore
	if err := c.getJSON(ctx, SourceOptimization, "/predictions/optimization", unitQuery(unitID), &out); err != nil {
		return model.OptimizationScore{}, err
	}
	return out, nil
}

func (c *Client) Recommendations(ctx context.Context, unitID string) (model.Recommendations, error) {
	var out model.Recommendations
	if err := c.getJSON(ctx, SourceRecommendations, "/predictions/recommendations", unitQuery(unitID), &out); err != nil {
		return model.Recommendations{}, err
	}
	return out, nil
}

// EnvironmentForecast returns the N-day environmental forecast.
func (c *Client) EnvironmentForecast(ctx context.Context, unitID string, days int) ([]model.EnvForecastDay, error) {
	q := unitQuery(unitID)
	q.Set("days", strconv.Itoa(days))
	var out []model.EnvForecastDay
	if err := c.getJSON(ctx, SourceEnvForecast, "/predictions/environment", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SimilarGrowers returns the similar-growers comparison, at most limit rows.
func (c *Client) SimilarGrowers(ctx context.Context, unitID string, limit int) ([]model.SimilarGrower, error) {
	q := unitQuery(unitID)
	q.Set("limit", strconv.Itoa(limit))
	var out []model.SimilarGrower
	if err := c.getJSON(ctx, SourceComparison, "/predictions/similar-growers", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}
