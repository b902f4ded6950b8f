package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/CrowderSoup/todo-agenda/database"
	"github.com/CrowderSoup/todo-agenda/services"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		loggerFrom(r).Error("Error encoding response", "err", err)
	}
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	io.WriteString(w, msg)
}

// writeError maps err onto a status code and a short message. Only server
// errors carry their cause into the log; the client always gets the message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	logger := loggerFrom(r)

	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		logger.Debug("Rejected request", "reason", validationErr.Message)
		http.Error(w, validationErr.Message, http.StatusBadRequest)
	case errors.Is(err, database.ErrNotFound):
		logger.Debug("Todo not found", "path", r.URL.Path)
		http.Error(w, "Todo Not Found", http.StatusNotFound)
	case errors.Is(err, database.ErrConstraintViolation):
		logger.Debug("Duplicate todo", "err", err)
		http.Error(w, "Todo Already Exists", http.StatusConflict)
	default:
		logger.Error("Store error", "err", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
	}
}

// decodeBody decodes a JSON request body into v. An empty body leaves v
// untouched.
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return services.ErrInvalidBody
	}
	return nil
}
