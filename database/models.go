package database

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

const (
	StatusToDo       = "TO DO"
	StatusInProgress = "IN PROGRESS"
	StatusDone       = "DONE"

	PriorityHigh   = "HIGH"
	PriorityMedium = "MEDIUM"
	PriorityLow    = "LOW"

	CategoryWork     = "WORK"
	CategoryHome     = "HOME"
	CategoryLearning = "LEARNING"
)

// Todo is the wire representation of a row in the todo table.
type Todo struct {
	ID       TodoID  `json:"id"`
	Todo     string  `json:"todo"`
	Priority string  `json:"priority"`
	Status   string  `json:"status"`
	Category string  `json:"category"`
	DueDate  *string `json:"dueDate"`
}

// TodoID is a caller-supplied identifier. It decodes from either a JSON
// string or a JSON integer and is stored as text.
type TodoID string

func (id *TodoID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = TodoID(s)
		return nil
	}
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("todo id must be a string or an integer: %s", b)
	}
	*id = TodoID(strconv.FormatInt(n, 10))
	return nil
}

// MarshalJSON writes canonical integers as numbers so an id posted as 1
// reads back as 1.
func (id TodoID) MarshalJSON() ([]byte, error) {
	s := string(id)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil && strconv.FormatInt(n, 10) == s {
		return []byte(s), nil
	}
	return json.Marshal(s)
}

// Field names one updatable column of a todo.
type Field string

const (
	FieldStatus   Field = "status"
	FieldPriority Field = "priority"
	FieldTodo     Field = "todo"
	FieldCategory Field = "category"
	FieldDueDate  Field = "dueDate"
)

// Column returns the storage column backing the field, or "" for an
// unknown field.
func (f Field) Column() string {
	switch f {
	case FieldStatus, FieldPriority, FieldTodo, FieldCategory:
		return string(f)
	case FieldDueDate:
		return "due_date"
	}
	return ""
}

// DisplayName is the human readable name used in update confirmations.
func (f Field) DisplayName() string {
	switch f {
	case FieldStatus:
		return "Status"
	case FieldPriority:
		return "Priority"
	case FieldTodo:
		return "Todo"
	case FieldCategory:
		return "Category"
	case FieldDueDate:
		return "Due Date"
	}
	return string(f)
}
