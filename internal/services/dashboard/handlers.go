package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Patoruzuy/SYSGrow-sub003/internal/services/analytics"
	"github.com/Patoruzuy/SYSGrow-sub003/internal/services/notification"
)

// Server exposes the dashboard snapshot and the notification workflow over
// HTTP for the page shell.
type Server struct {
	view      *SnapshotView
	center    *notification.Center
	analytics *analytics.Client
	mqtt      mqtt.Client
}

func NewServer(view *SnapshotView, center *notification.Center, ac *analytics.Client, mq mqtt.Client) *Server {
	return &Server{view: view, center: center, analytics: ac, mqtt: mq}
}

// Router wires the HTTP surface.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/dashboard/data", s.handleDashboardData)
	r.Get("/dashboard/sources", s.handleSources)

	r.Route("/notifications", func(nr chi.Router) {
		nr.Get("/", s.handleNotificationList)
		nr.Post("/read-all", s.handleMarkAllRead)
		nr.Post("/clear", s.handleClearAll)
		nr.Post("/{messageID}/read", s.handleMarkRead)
		nr.Post("/{messageID}/action", s.handleAction)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	ready := s.mqtt == nil || s.mqtt.IsConnectionOpen()
	if !ready {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	writeJSON(w, statusOf(ready), map[string]bool{"ready": ready})
}

func statusOf(ready bool) int {
	if ready {
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}

func (s *Server) handleDashboardData(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.view.Snapshot())
}

func (s *Server) handleSources(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.analytics.Status())
}

// handleNotificationList maps the filter buttons and page controls onto the
// center: a filter change resets to page 1, page navigation keeps the filter.
func (s *Server) handleNotificationList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ctx := r.Context()

	if raw := strings.TrimSpace(q.Get("filter")); raw != "" {
		f := notification.ParseFilter(raw)
		if f != s.center.Filter() {
			s.center.SetFilter(ctx, f)
		} else if page := pageParam(q.Get("page")); page > 0 {
			s.center.SetPage(ctx, page)
		} else {
			s.center.Refresh(ctx)
		}
	} else if page := pageParam(q.Get("page")); page > 0 {
		s.center.SetPage(ctx, page)
	} else {
		s.center.Refresh(ctx)
	}

	list, ok := s.view.NotificationList()
	if !ok {
		list = notification.ListView{Filter: s.center.Filter(), Page: s.center.Page(), Items: []notification.ItemView{}, Empty: true}
	}
	writeJSON(w, http.StatusOK, list)
}

func pageParam(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 0
	}
	return n
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "messageID")
	if err := s.center.MarkRead(r.Context(), id); err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "mark read failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"unread_count": s.view.Badge()})
}

func (s *Server) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	if err := s.center.MarkAllRead(r.Context()); err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "mark all read failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"unread_count": 0})
}

type clearRequest struct {
	Confirm bool `json:"confirm"`
}

// handleClearAll requires the explicit confirmation step before the remote
// call is issued.
func (s *Server) handleClearAll(w http.ResponseWriter, r *http.Request) {
	var req clearRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	err := s.center.ClearAll(r.Context(), req.Confirm)
	switch {
	case errors.Is(err, notification.ErrConfirmationRequired):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "confirmation required"})
	case err != nil:
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "clear failed"})
	default:
		writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
	}
}

type actionRequest struct {
	Action string `json:"action"`
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "messageID")
	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	err := s.center.Execute(r.Context(), id, notification.Action(req.Action))
	var actionErr *notification.ActionError
	switch {
	case errors.Is(err, notification.ErrUnknownNotification):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown notification"})
	case errors.Is(err, notification.ErrBusy):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "action already in flight"})
	case errors.Is(err, notification.ErrNotActionable), errors.Is(err, notification.ErrInvalidAction):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	case errors.As(err, &actionErr):
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "action submission failed"})
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "unexpected error"})
	default:
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "unread_count": s.view.Badge()})
	}
}
