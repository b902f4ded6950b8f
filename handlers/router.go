package handlers

import (
	"net/http"

	"github.com/CrowderSoup/todo-agenda/services"
	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// Store is everything the router needs from persistence.
type Store interface {
	TodoStore
	Pinger
}

// RouterOptions wires the HTTP surface. Hub may be nil, in which case the
// change feed is not mounted and writes publish nothing.
type RouterOptions struct {
	Store                 Store
	Hub                   *services.Hub
	Logger                *log.Logger
	AllowedOrigins        []string
	UpdateMissingNotFound bool
}

// NewRouter builds the HTTP handler for the service
func NewRouter(opts RouterOptions) http.Handler {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	var publisher services.Publisher
	if opts.Hub != nil {
		publisher = opts.Hub
	}

	todoHandler := NewTodoHandler(opts.Store, publisher, opts.UpdateMissingNotFound)
	healthHandler := NewHealthHandler(opts.Store)

	r := mux.NewRouter()
	r.Use(RequestLogger(opts.Logger), Recover)

	// Todo routes
	r.HandleFunc("/todos/", todoHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/todos/", todoHandler.Create).Methods(http.MethodPost)
	r.HandleFunc("/todos/{id}/", todoHandler.Get).Methods(http.MethodGet)
	r.HandleFunc("/todos/{id}/", todoHandler.Update).Methods(http.MethodPut)
	r.HandleFunc("/todos/{id}/", todoHandler.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/agenda/", todoHandler.Agenda).Methods(http.MethodGet)

	r.HandleFunc("/health/", healthHandler.Health).Methods(http.MethodGet)

	// WebSocket route for change events
	if opts.Hub != nil {
		feedHandler := NewFeedHandler(opts.Hub, opts.AllowedOrigins)
		r.HandleFunc("/ws/", feedHandler.Subscribe).Methods(http.MethodGet)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	})

	return c.Handler(r)
}
