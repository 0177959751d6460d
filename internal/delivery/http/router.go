package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"pocketcalendar/internal/delivery/http/controllers"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(eventController *controllers.EventController, calendarController *controllers.CalendarController) *http.ServeMux {
	mux := http.NewServeMux()

	// Events
	mux.HandleFunc("POST /events", eventController.CreateEvent)
	mux.HandleFunc("GET /events", eventController.ListEvents)
	mux.HandleFunc("DELETE /events", eventController.DeleteAllEvents)
	mux.HandleFunc("GET /events/{eventID}", eventController.GetEventByID)
	mux.HandleFunc("PUT /events/{eventID}", eventController.UpdateEvent)
	mux.HandleFunc("DELETE /events/{eventID}", eventController.DeleteEvent)
	mux.HandleFunc("GET /days/{date}/events", eventController.EventsOnDate)

	// Calendar views
	mux.HandleFunc("GET /calendar/{year}/{month}", calendarController.MonthView)
	mux.HandleFunc("GET /calendar/export", calendarController.Export)
	mux.HandleFunc("GET /calendar/watch", calendarController.Watch)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
