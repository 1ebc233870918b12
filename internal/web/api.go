package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"weekcal/internal/ics"
	"weekcal/internal/layout"
	appLog "weekcal/internal/log"
	"weekcal/internal/model"
	"weekcal/internal/store"
	"weekcal/internal/view"
)

// maxRangeDays bounds ?days= on the range endpoints.
const maxRangeDays = 62

// eventsResponse is the JSON response shape for /api/events.
type eventsResponse struct {
	Events          []model.Event `json:"events"`
	RangeStart      time.Time     `json:"range_start"`
	RangeEnd        time.Time     `json:"range_end"`
	DisplayTimeZone string        `json:"display_timezone"`
	WeekStart       string        `json:"week_start"`
}

// dayLayout is one day column of /api/layout.
type dayLayout struct {
	Day    model.Day               `json:"day"`
	Events []model.PositionedEvent `json:"events"`
}

type layoutResponse struct {
	Header     view.Header       `json:"header"`
	Days       []dayLayout       `json:"days"`
	AllDay     []model.AllDayRow `json:"all_day"`
	AllDayRows int               `json:"all_day_rows"`
}

// rangeParams resolves ?<dateKey>=YYYY-MM-DD&days=N. The default start is
// the current week start (or today in day mode) and the default length is
// the configured view's visible day count.
func (s *Server) rangeParams(r *http.Request, dateKey string) (time.Time, int, error) {
	now := s.now()
	mode := s.cfg.ViewMode()
	def := model.StartOfDay(now)
	if mode == view.ModeWeek {
		def = model.StartOfWeek(now, s.cfg.Weekday())
	}

	q := r.URL.Query()
	from, err := parseDate(q.Get(dateKey), s.loc, def)
	if err != nil {
		return time.Time{}, 0, err
	}
	days := parseIntDefault(q.Get("days"), mode.VisibleDays())
	if days <= 0 {
		days = mode.VisibleDays()
	}
	if days > maxRangeDays {
		days = maxRangeDays
	}
	return from, days, nil
}

// handleEvents lists stored events touching a date range.
//
// GET /api/events?from=2026-03-01&days=7
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	from, days, err := s.rangeParams(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from date")
		return
	}
	to := model.AddDays(from, days)

	events := s.store.Range(from, to)
	appLog.Debug("api events request", "from", from.Format(time.DateOnly), "days", days, "count", len(events))

	writeJSON(w, http.StatusOK, eventsResponse{
		Events:          events,
		RangeStart:      from,
		RangeEnd:        to,
		DisplayTimeZone: s.loc.String(),
		WeekStart:       s.cfg.WeekStart,
	})
}

// handleLayout returns the positioned grid for a date range: timed events
// per day column and the all-day banner rows.
//
// GET /api/layout?date=2026-03-01&days=7
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	from, days, err := s.rangeParams(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date")
		return
	}
	writeJSON(w, http.StatusOK, s.buildLayout(from, days))
}

func (s *Server) buildLayout(from time.Time, n int) layoutResponse {
	days := model.DaysFrom(from, n, s.now())
	events := s.store.Range(from, model.AddDays(from, n))

	resp := layoutResponse{
		Header: view.HeaderFor(from, s.cfg.Weekday()),
		Days:   make([]dayLayout, 0, len(days)),
	}
	for _, d := range days {
		resp.Days = append(resp.Days, dayLayout{Day: d, Events: layout.PositionEvents(events, d)})
	}
	resp.AllDay = layout.PositionAllDayRows(events, days)
	resp.AllDayRows = layout.RowCount(resp.AllDay)
	return resp
}

// handleEventUpdate applies a partial edit: a drag commit (start/end), a
// recolor or a move to another calendar.
//
// PUT /api/events/{id}  {"start": "...", "end": "...", "color": "green", "calendar_id": "work"}
//   - 400: invalid JSON or no field set
//   - 404: unknown id
//   - 422: timed event with end <= start or spanning two dates, all-day
//     event whose end precedes its start, unknown color, blank calendar_id
func (s *Server) handleEventUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.store.Get(id); errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}

	var patch store.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ev, err := s.store.Patch(id, patch, s.loc)
	switch {
	case errors.Is(err, store.ErrEmptyPatch):
		writeError(w, http.StatusBadRequest, "start, end, color or calendar_id is required")
		return
	case errors.Is(err, store.ErrInvalidPatch):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case errors.Is(err, store.ErrNotFound):
		// Removed by a concurrent refresh.
		writeError(w, http.StatusNotFound, "event not found")
		return
	case err != nil:
		appLog.Error("event update failed", err, "id", id)
		writeError(w, http.StatusInternalServerError, "update failed")
		return
	}
	appLog.Info("event updated", "id", id,
		"start", ev.Start.Format(time.RFC3339), "end", ev.End.Format(time.RFC3339),
		"color", string(ev.Color), "calendar_id", ev.CalendarID)
	writeJSON(w, http.StatusOK, ev)
}

// handleViewConfig serves the view, drag and scroll settings the browser
// calendar mounts with.
//
// GET /api/config/view
func (s *Server) handleViewConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.cfg.Client())
}

// handleExport writes every stored event as one VCALENDAR.
func (s *Server) handleExport(w http.ResponseWriter, _ *http.Request) {
	body := ics.Encode(s.store.List(), s.clock.Now())
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="weekcal.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	res := s.Refresh(r.Context())
	status := http.StatusOK
	if res.Failed > 0 && res.Failed == res.Sources {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, res)
}
