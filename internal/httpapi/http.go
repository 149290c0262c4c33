// Package httpapi is the thin JSON transport over the engine operations.
// It holds no roster or progress logic of its own.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"callsheet/internal/engine"
	"callsheet/internal/metrics"
	"callsheet/internal/model"
	"callsheet/internal/motivate"
	"callsheet/internal/store"
)

type Router struct {
	engine *engine.Engine
	store  *store.Store
	log    zerolog.Logger
	m      *metrics.Metrics

	// today is swappable so tests can pin the default date.
	today func() model.Day
}

func NewRouter(eng *engine.Engine, st *store.Store, log zerolog.Logger, m *metrics.Metrics) *Router {
	return &Router{engine: eng, store: st, log: log, m: m, today: model.Today}
}

// Routes builds the route table.
func (rt *Router) Routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/targets", rt.wrap("set_target", rt.setTarget)).Methods(http.MethodPut, http.MethodPost)
	r.HandleFunc("/api/progress", rt.wrap("progress", rt.progress)).Methods(http.MethodGet)
	r.HandleFunc("/api/roster", rt.wrap("roster", rt.roster)).Methods(http.MethodGet)
	r.HandleFunc("/api/contacts", rt.wrap("add_contact", rt.addContact)).Methods(http.MethodPost)
	r.HandleFunc("/api/contacts/{name}/history", rt.wrap("history", rt.history)).Methods(http.MethodGet)
	r.HandleFunc("/api/responses", rt.wrap("record_response", rt.recordResponse)).Methods(http.MethodPost)
	r.HandleFunc("/api/summary", rt.wrap("summary", rt.summary)).Methods(http.MethodGet)
	r.HandleFunc("/api/summary/bulk-add", rt.wrap("bulk_add", rt.bulkAdd)).Methods(http.MethodPost)
	r.HandleFunc("/api/calendar", rt.wrap("calendar", rt.calendar)).Methods(http.MethodGet)
	r.HandleFunc("/ops/health", rt.wrap("health", rt.health)).Methods(http.MethodGet)
	return r
}

// wrap instruments a handler with request counting and latency.
func (rt *Router) wrap(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		h(sw, r)
		rt.m.HTTPRequests.WithLabelValues(route, strconv.Itoa(sw.code)).Inc()
		rt.m.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

func (rt *Router) setTarget(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date   string `json:"date"`
		Target int    `json:"target"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rt.writeErr(w, badJSON(err))
		return
	}
	date, err := rt.dayOrToday(req.Date)
	if err != nil {
		rt.writeErr(w, err)
		return
	}
	if err := rt.engine.SetTarget(r.Context(), date, req.Target); err != nil {
		rt.writeErr(w, err)
		return
	}
	rt.writeJSON(w, http.StatusOK, map[string]any{"date": date, "target": req.Target})
}

func (rt *Router) progress(w http.ResponseWriter, r *http.Request) {
	date, err := rt.dayOrToday(r.URL.Query().Get("date"))
	if err != nil {
		rt.writeErr(w, err)
		return
	}
	p, err := rt.engine.Progress(r.Context(), date)
	if err != nil {
		rt.writeErr(w, err)
		return
	}
	rt.writeJSON(w, http.StatusOK, map[string]any{"date": date, "progress": p})
}

func (rt *Router) roster(w http.ResponseWriter, r *http.Request) {
	date, err := rt.dayOrToday(r.URL.Query().Get("date"))
	if err != nil {
		rt.writeErr(w, err)
		return
	}
	items, err := rt.engine.RosterFor(r.Context(), date)
	if err != nil {
		rt.writeErr(w, err)
		return
	}
	rt.writeJSON(w, http.StatusOK, map[string]any{"date": date, "roster": items, "count": len(items)})
}

func (rt *Router) addContact(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		Date string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rt.writeErr(w, badJSON(err))
		return
	}
	date, err := rt.dayOrToday(req.Date)
	if err != nil {
		rt.writeErr(w, err)
		return
	}
	if err := rt.engine.AddContact(r.Context(), req.Name, date); err != nil {
		rt.writeErr(w, err)
		return
	}
	rt.writeJSON(w, http.StatusCreated, map[string]any{"name": strings.TrimSpace(req.Name), "date": date})
}

func (rt *Router) history(w http.ResponseWriter, r *http.Request) {
	events, err := rt.engine.History(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		rt.writeErr(w, err)
		return
	}
	rt.writeJSON(w, http.StatusOK, map[string]any{"history": events, "count": len(events)})
}

func (rt *Router) recordResponse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		Kind string `json:"kind"`
		Date string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rt.writeErr(w, badJSON(err))
		return
	}
	kind, err := model.ParseKind(req.Kind)
	if err != nil {
		rt.writeErr(w, err)
		return
	}
	date, err := rt.dayOrToday(req.Date)
	if err != nil {
		rt.writeErr(w, err)
		return
	}
	ev, err := rt.engine.Record(r.Context(), req.Name, kind, date)
	if err != nil {
		rt.writeErr(w, err)
		return
	}
	p, err := rt.engine.Progress(r.Context(), date)
	if err != nil {
		rt.writeErr(w, err)
		return
	}
	target := 0
	if p.Target != nil {
		target = *p.Target
	}
	rt.writeJSON(w, http.StatusCreated, map[string]any{
		"event":    ev,
		"progress": p,
		"message":  motivate.For(kind, p.Attempted, target),
	})
}

func (rt *Router) summary(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r.URL.Query().Get("kinds"), r.URL.Query().Get("unattempted"))
	if err != nil {
		rt.writeErr(w, err)
		return
	}
	rows, err := rt.engine.SummaryFiltered(r.Context(), f)
	if err != nil {
		rt.writeErr(w, err)
		return
	}
	rt.writeJSON(w, http.StatusOK, map[string]any{"summary": rows, "count": len(rows)})
}

func (rt *Router) bulkAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kinds       []string `json:"kinds"`
		Unattempted bool     `json:"unattempted"`
		Date        string   `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rt.writeErr(w, badJSON(err))
		return
	}
	f := model.Filter{Unattempted: req.Unattempted}
	for _, raw := range req.Kinds {
		k, err := model.ParseKind(raw)
		if err != nil {
			rt.writeErr(w, err)
			return
		}
		f.Kinds = append(f.Kinds, k)
	}
	date, err := rt.dayOrToday(req.Date)
	if err != nil {
		rt.writeErr(w, err)
		return
	}
	added, skipped, err := rt.engine.BulkAddToToday(r.Context(), f, date)
	if err != nil {
		rt.writeErr(w, err)
		return
	}
	rt.writeJSON(w, http.StatusOK, map[string]any{
		"added":   added,
		"skipped": skipped,
		"date":    date,
	})
}

func (rt *Router) calendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	now := rt.today()
	year, month := now.Year(), now.Month()
	if v := q.Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			rt.writeErr(w, badParam("year", v))
			return
		}
		year = n
	}
	if v := q.Get("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 12 {
			rt.writeErr(w, badParam("month", v))
			return
		}
		month = time.Month(n)
	}
	days, err := rt.engine.Calendar(r.Context(), year, month)
	if err != nil {
		rt.writeErr(w, err)
		return
	}
	rt.writeJSON(w, http.StatusOK, map[string]any{"days": days})
}

func (rt *Router) health(w http.ResponseWriter, r *http.Request) {
	if err := rt.store.Health(r.Context()); err != nil {
		rt.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) dayOrToday(raw string) (model.Day, error) {
	if strings.TrimSpace(raw) == "" {
		return rt.today(), nil
	}
	return model.ParseDay(raw)
}

func parseFilter(kinds, unattempted string) (model.Filter, error) {
	var f model.Filter
	for _, raw := range strings.Split(kinds, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		// The UI spells un-attempted as a pseudo-kind.
		if strings.EqualFold(raw, "UN") {
			f.Unattempted = true
			continue
		}
		k, err := model.ParseKind(raw)
		if err != nil {
			return model.Filter{}, err
		}
		f.Kinds = append(f.Kinds, k)
	}
	if unattempted != "" {
		b, err := strconv.ParseBool(unattempted)
		if err != nil {
			return model.Filter{}, badParam("unattempted", unattempted)
		}
		f.Unattempted = f.Unattempted || b
	}
	return f, nil
}

func badJSON(err error) error {
	return &apiError{code: http.StatusBadRequest, msg: "invalid JSON: " + err.Error()}
}

func badParam(name, val string) error {
	return &apiError{code: http.StatusBadRequest, msg: "bad " + name + " parameter: " + val}
}

type apiError struct {
	code int
	msg  string
}

func (e *apiError) Error() string { return e.msg }

func (rt *Router) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		rt.log.Error().Err(err).Msg("encode response")
	}
}

func (rt *Router) writeErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	var ae *apiError
	switch {
	case errors.As(err, &ae):
		code = ae.code
	case errors.Is(err, model.ErrInvalidRequest):
		code = http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, model.ErrIdentityConflict):
		code = http.StatusConflict
	case errors.Is(err, model.ErrStoreUnavailable):
		code = http.StatusServiceUnavailable
	}
	if code >= 500 {
		rt.log.Error().Err(err).Msg("request failed")
	}
	rt.writeJSON(w, code, map[string]string{"error": err.Error()})
}
