package services

import "github.com/CrowderSoup/todo-agenda/database"

// UpdateRequest is the body of a todo update. Nil fields are absent.
type UpdateRequest struct {
	Status   *string `json:"status"`
	Priority *string `json:"priority"`
	Todo     *string `json:"todo"`
	Category *string `json:"category"`
	DueDate  *string `json:"dueDate"`
}

// FieldUpdate is the single column change an update request resolves to.
type FieldUpdate struct {
	Field database.Field
	Value string
}

type candidate struct {
	field database.Field
	value *string
}

// candidates lists the updatable fields in the order they are considered.
func (r UpdateRequest) candidates() []candidate {
	return []candidate{
		{database.FieldStatus, r.Status},
		{database.FieldPriority, r.Priority},
		{database.FieldTodo, r.Todo},
		{database.FieldCategory, r.Category},
		{database.FieldDueDate, r.DueDate},
	}
}

// PlanUpdate validates r and picks the one field to apply: the first present
// field in the order status, priority, todo, category, dueDate. Other present
// fields are validated but ignored. A due date is returned in canonical form.
func PlanUpdate(r UpdateRequest) (FieldUpdate, error) {
	err := Validate(Fields{
		Status:   r.Status,
		Priority: r.Priority,
		Category: r.Category,
		DueDate:  r.DueDate,
	})
	if err != nil {
		return FieldUpdate{}, err
	}

	for _, c := range r.candidates() {
		if c.value == nil {
			continue
		}
		value := *c.value
		if c.field == database.FieldDueDate {
			value, _ = NormalizeDate(value)
		}
		return FieldUpdate{Field: c.field, Value: value}, nil
	}
	return FieldUpdate{}, ErrNoUpdates
}
