package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventplanner/internal/delivery/http/controllers"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(accountController *controllers.AccountController,
	eventController *controllers.EventController,
	healthController *controllers.HealthController,
) *http.ServeMux {
	mux := http.NewServeMux()

	// Account
	mux.HandleFunc("POST /signup", accountController.SignUp)
	mux.HandleFunc("POST /login", accountController.Login)

	// Events
	mux.HandleFunc("POST /events", eventController.CreateEvent)
	mux.HandleFunc("GET /events/organized/{email}", eventController.ListOrganized)
	mux.HandleFunc("GET /events/invited/{email}", eventController.ListInvited)
	mux.HandleFunc("GET /events/all", eventController.ListAll)
	mux.HandleFunc("GET /events/search", eventController.Search)
	mux.HandleFunc("DELETE /events/{event_id}", eventController.DeleteEvent)

	// Invitations and RSVPs
	mux.HandleFunc("POST /events/invite", eventController.Invite)
	mux.HandleFunc("POST /events/respond", eventController.Respond)
	mux.HandleFunc("GET /events/responses/{event_id}", eventController.GetResponses)

	mux.HandleFunc("GET /healthz", healthController.Health)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
