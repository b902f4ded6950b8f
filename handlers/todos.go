package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/CrowderSoup/todo-agenda/database"
	"github.com/CrowderSoup/todo-agenda/services"
	"github.com/gorilla/mux"
)

// TodoStore is the persistence the todo endpoints need.
type TodoStore interface {
	List(ctx context.Context, filter database.TodoFilter) ([]database.Todo, error)
	GetByID(ctx context.Context, id string) (*database.Todo, error)
	ListByDueDate(ctx context.Context, date string) ([]database.Todo, error)
	Insert(ctx context.Context, todo database.Todo) error
	UpdateField(ctx context.Context, id string, field database.Field, value string) error
	DeleteByID(ctx context.Context, id string) (bool, error)
}

// TodoHandler handles the todo and agenda endpoints
type TodoHandler struct {
	store     TodoStore
	publisher services.Publisher

	// updateMissingNotFound answers 404 to updates of unknown ids. When
	// false an update of an unknown id is confirmed as a no-op.
	updateMissingNotFound bool
}

func NewTodoHandler(store TodoStore, publisher services.Publisher, updateMissingNotFound bool) *TodoHandler {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	return &TodoHandler{
		store:                 store,
		publisher:             publisher,
		updateMissingNotFound: updateMissingNotFound,
	}
}

type createRequest struct {
	ID       database.TodoID `json:"id"`
	Todo     *string         `json:"todo"`
	Category *string         `json:"category"`
	Priority *string         `json:"priority"`
	Status   *string         `json:"status"`
	DueDate  *string         `json:"dueDate"`
}

type updatedEvent struct {
	ID    database.TodoID `json:"id"`
	Field database.Field  `json:"field"`
	Value string          `json:"value"`
}

type deletedEvent struct {
	ID database.TodoID `json:"id"`
}

// List returns the todos matching the status, priority, category and
// search_q query parameters.
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := database.TodoFilter{
		Status:   q.Get("status"),
		Priority: q.Get("priority"),
		Category: q.Get("category"),
		Search:   q.Get("search_q"),
	}

	err := services.Validate(services.Fields{
		Status:   optional(filter.Status),
		Priority: optional(filter.Priority),
		Category: optional(filter.Category),
		DueDate:  optional(q.Get("dueDate")),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	todos, err := h.store.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, todos)
}

// Get returns a single todo
func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	todo, err := h.store.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, todo)
}

// Agenda returns the todos due on the date query parameter.
func (h *TodoHandler) Agenda(w http.ResponseWriter, r *http.Request) {
	date, ok := services.NormalizeDate(r.URL.Query().Get("date"))
	if !ok {
		writeError(w, r, services.ErrInvalidDueDate)
		return
	}

	todos, err := h.store.ListByDueDate(r.Context(), date)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, todos)
}

// Create adds a todo with a caller-supplied id
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	err := services.Validate(services.Fields{
		Status:   req.Status,
		Priority: req.Priority,
		Category: req.Category,
		DueDate:  req.DueDate,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	if req.ID == "" {
		writeError(w, r, services.ErrMissingID)
		return
	}

	todo := database.Todo{
		ID:       req.ID,
		Todo:     deref(req.Todo),
		Priority: deref(req.Priority),
		Status:   deref(req.Status),
		Category: deref(req.Category),
	}
	if req.DueDate != nil {
		dueDate, _ := services.NormalizeDate(*req.DueDate)
		todo.DueDate = &dueDate
	}

	if err := h.store.Insert(r.Context(), todo); err != nil {
		writeError(w, r, err)
		return
	}

	h.publisher.Publish(services.Event{Type: services.EventTodoCreated, Data: todo})
	writeText(w, http.StatusOK, "Todo Successfully Added")
}

// Update applies one field of the request body to the todo. When several
// fields are present only the first in the order status, priority, todo,
// category, dueDate is applied.
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req services.UpdateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	update, err := services.PlanUpdate(req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	err = h.store.UpdateField(r.Context(), id, update.Field, update.Value)
	switch {
	case err == nil:
		h.publisher.Publish(services.Event{
			Type: services.EventTodoUpdated,
			Data: updatedEvent{ID: database.TodoID(id), Field: update.Field, Value: update.Value},
		})
	case errors.Is(err, database.ErrNotFound) && !h.updateMissingNotFound:
		loggerFrom(r).Debug("Update matched no todo", "id", id)
	default:
		writeError(w, r, err)
		return
	}

	writeText(w, http.StatusOK, update.Field.DisplayName()+" Updated")
}

// Delete removes a todo. Deleting a missing todo succeeds.
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	deleted, err := h.store.DeleteByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if deleted {
		h.publisher.Publish(services.Event{
			Type: services.EventTodoDeleted,
			Data: deletedEvent{ID: database.TodoID(id)},
		})
	}
	writeText(w, http.StatusOK, "Todo Deleted")
}

// optional treats an empty query parameter as absent.
func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type nopPublisher struct{}

func (nopPublisher) Publish(services.Event) {}
