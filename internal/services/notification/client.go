package notification

import (
	"bytes"
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

// ListResult is the server's answer to a list query. UnreadCount is the
// server-side unfiltered unread total for the unit.
type ListResult struct {
	Notifications []model.Notification `json:"notifications"`
	TotalCount    int                  `json:"total_count"`
	UnreadCount   int                  `json:"unread_count"`
}

// Service is everything the store and executor need from the notification
// backend. Client is the production implementation; tests inject fakes.
type Service interface {
	List(ctx context.Context, unitID string, page, pageSize int, unreadOnly bool) (ListResult, error)
	MarkRead(ctx context.Context, messageID string) error
	MarkAllRead(ctx context.Context, unitID string) error
	ClearAll(ctx context.Context, unitID string) error
	SubmitDecision(ctx context.Context, requestID int64, decision string) error
	SubmitFeedback(ctx context.Context, requestID int64, rating string) error
}

// Client talks to the notification service over REST behind one circuit
// breaker, with every call bounded by the configured timeout.
type Client struct {
	base    string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
}

// ClientOptions tunes the client; zero values fall back to defaults.
type ClientOptions struct {
	Timeout         time.Duration
	BreakerFailures uint32
	BreakerOpenFor  time.Duration
}

func NewClient(baseURL string, opts ClientOptions) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = 3
	}
	if opts.BreakerOpenFor <= 0 {
		opts.BreakerOpenFor = 15 * time.Second
	}
	return &Client{
		base: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http: &http.Client{Timeout: opts.Timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "notification-service",
			Timeout: opts.BreakerOpenFor,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= opts.BreakerFailures
			},
		}),
	}
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body, out any) error {
	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	_, err := c.breaker.Execute(func() (any, error) {
		var rdr *bytes.Reader
		if body != nil {
			b, err := json.Marshal(body)
			if err != nil {
				return nil, err
			}
			rdr = bytes.NewReader(b)
		} else {
			rdr = bytes.NewReader(nil)
		}
		req, err := http.NewRequestWithContext(ctx, method, u, rdr)
		if err != nil {
			return nil, err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("status %d", resp.StatusCode)
		}
		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return nil, fmt.Errorf("decode: %w", err)
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("notification service %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) List(ctx context.Context, unitID string, page, pageSize int, unreadOnly bool) (ListResult, error) {
	q := url.Values{}
	q.Set("unit_id", unitID)
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	if unreadOnly {
		q.Set("unread_only", "true")
	}
	var out ListResult
	if err := c.do(ctx, http.MethodGet, "/notifications", q, nil, &out); err != nil {
		return ListResult{}, err
	}
	return out, nil
}

func (c *Client) MarkRead(ctx context.Context, messageID string) error {
	return c.do(ctx, http.MethodPost, "/notifications/"+url.PathEscape(messageID)+"/read", nil, nil, nil)
}

func (c *Client) MarkAllRead(ctx context.Context, unitID string) error {
	q := url.Values{}
	q.Set("unit_id", unitID)
	return c.do(ctx, http.MethodPost, "/notifications/read-all", q, nil, nil)
}

func (c *Client) ClearAll(ctx context.Context, unitID string) error {
	q := url.Values{}
	q.Set("unit_id", unitID)
	return c.do(ctx, http.MethodPost, "/notifications/clear", q, nil, nil)
}

// decisionEnvelope is the wire form of an irrigation decision or feedback.
type decisionEnvelope struct {
	RequestID int64  `json:"request_id"`
	Action    string `json:"action,omitempty"`
	Rating    string `json:"rating,omitempty"`
}

func (c *Client) SubmitDecision(ctx context.Context, requestID int64, decision string) error {
	return c.do(ctx, http.MethodPost, "/irrigation/decision", nil,
		decisionEnvelope{RequestID: requestID, Action: decision}, nil)
}

func (c *Client) SubmitFeedback(ctx context.Context, requestID int64, rating string) error {
	return c.do(ctx, http.MethodPost, "/irrigation/feedback", nil,
		decisionEnvelope{RequestID: requestID, Rating: rating}, nil)
}
