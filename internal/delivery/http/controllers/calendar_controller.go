package controllers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"pocketcalendar/internal/delivery/http/helpers"
	"pocketcalendar/internal/domain"
	"pocketcalendar/internal/services"
	"pocketcalendar/internal/store"
)

// MonthViewSuccessResponse is the success response envelope for GET /calendar/{year}/{month}.
type MonthViewSuccessResponse struct {
	Data  *domain.MonthView `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// WatchSnapshot is one server-sent snapshot of the live calendar view.
// swagger:model WatchSnapshot
type WatchSnapshot struct {
	SelectedDate          domain.Date      `json:"selected_date"`
	VisibleMonth          domain.YearMonth `json:"visible_month"`
	EventsForSelectedDate []*domain.Event  `json:"events_for_selected_date"`
	DatesWithEvents       []domain.Date    `json:"dates_with_events"`
	Loading               bool             `json:"loading"`
	Error                 string           `json:"error,omitempty"`
}

type CalendarController struct {
	Logger      *slog.Logger
	Calendar    domain.CalendarService
	Events      domain.EventService
	Store       *store.Store
	Clock       services.Clock
	DefaultLang string
}

func NewCalendarController(logger *slog.Logger, calendar domain.CalendarService, events domain.EventService, st *store.Store, clock services.Clock, defaultLang string) *CalendarController {
	return &CalendarController{
		Logger:      logger,
		Calendar:    calendar,
		Events:      events,
		Store:       st,
		Clock:       clock,
		DefaultLang: defaultLang,
	}
}

func (c *CalendarController) lang(r *http.Request) string {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return lang
	}
	if lang := r.Header.Get("Accept-Language"); lang != "" {
		return lang
	}
	return c.DefaultLang
}

// MonthView godoc
// @Summary Get the month grid
// @Description Returns the 42-cell grid for the month, the localized weekday header, and the dates carrying events. lang picks labels and the first day of the week; selected marks the selected cell.
// @Tags calendar
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Param lang query string false "BCP 47 language tag"
// @Param selected query string false "Selected date (2006-01-02)"
// @Success 200 {object} controllers.MonthViewSuccessResponse "data contains the month view"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /calendar/{year}/{month} [get]
func (c *CalendarController) MonthView(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil || year < 1 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid year")
		return
	}
	monthNum, err := strconv.Atoi(r.PathValue("month"))
	if err != nil || monthNum < 1 || monthNum > 12 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid month")
		return
	}
	month := domain.YearMonth{Year: year, Month: time.Month(monthNum)}

	selected := domain.DateOf(c.Clock.Now())
	if raw := r.URL.Query().Get("selected"); raw != "" {
		selected, err = domain.ParseDate(raw)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid selected date")
			return
		}
	}

	view, err := c.Calendar.MonthView(r.Context(), month, c.lang(r), selected)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// Export godoc
// @Summary Export events as iCalendar
// @Description Streams the events in the inclusive from..to range as a text/calendar (.ics) document.
// @Tags calendar
// @Produce plain
// @Param from query string true "Range start (2006-01-02)"
// @Param to query string true "Range end (2006-01-02)"
// @Success 200 {string} string "iCalendar document"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /calendar/export [get]
func (c *CalendarController) Export(w http.ResponseWriter, r *http.Request) {
	from, err := domain.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid from date")
		return
	}
	to, err := domain.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid to date")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="calendar.ics"`)
	if err := c.Calendar.ExportRange(r.Context(), w, from, to); err != nil {
		// Headers may already be out; log and give up on the body.
		c.Logger.ErrorContext(r.Context(), "calendar export failed", "err", err)
	}
}

// Watch godoc
// @Summary Stream live calendar snapshots
// @Description Opens a server-sent-events stream of calendar view snapshots. A snapshot is pushed immediately and again whenever the events behind the view change. selected and month pick the initial view; both default to today.
// @Tags calendar
// @Produce text/event-stream
// @Param selected query string false "Initial selected date (2006-01-02)"
// @Param month query string false "Initial visible month (2006-01)"
// @Success 200 {object} controllers.WatchSnapshot "stream of snapshots"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /calendar/watch [get]
func (c *CalendarController) Watch(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "streaming unsupported")
		return
	}

	var selected *domain.Date
	if raw := r.URL.Query().Get("selected"); raw != "" {
		d, err := domain.ParseDate(raw)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid selected date")
			return
		}
		selected = &d
	}
	var month *domain.YearMonth
	if raw := r.URL.Query().Get("month"); raw != "" {
		t, err := time.Parse("2006-01", raw)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid month")
			return
		}
		m := domain.YearMonth{Year: t.Year(), Month: t.Month()}
		month = &m
	}

	session := services.NewCalendarSession(r.Context(), c.Store, c.Events, c.Clock)
	defer session.Close()
	if selected != nil {
		session.SelectDate(*selected)
	}
	if month != nil {
		session.SetMonth(*month)
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for state := range session.Updates() {
		payload, err := json.Marshal(WatchSnapshot{
			SelectedDate:          state.SelectedDate,
			VisibleMonth:          state.VisibleMonth,
			EventsForSelectedDate: state.EventsForSelectedDate,
			DatesWithEvents:       state.BusyDates(),
			Loading:               state.Loading,
			Error:                 state.Error,
		})
		if err != nil {
			c.Logger.ErrorContext(r.Context(), "snapshot marshal failed", "err", err)
			continue
		}
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
	}
}
