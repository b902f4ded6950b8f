package services

import (
	"errors"
	"slices"

	"github.com/CrowderSoup/todo-agenda/database"
)

// ValidationError is a client input error. Message is safe to send back.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrInvalidStatus   = &ValidationError{"Invalid Todo Status"}
	ErrInvalidPriority = &ValidationError{"Invalid Todo Priority"}
	ErrInvalidCategory = &ValidationError{"Invalid Todo Category"}
	ErrInvalidDueDate  = &ValidationError{"Invalid Due Date"}
	ErrNoUpdates       = &ValidationError{"No Updates Found"}
	ErrMissingID       = &ValidationError{"Invalid Todo Id"}
	ErrInvalidBody     = &ValidationError{"Invalid request format"}
)

var (
	validStatus   = []string{database.StatusToDo, database.StatusInProgress, database.StatusDone}
	validPriority = []string{database.PriorityHigh, database.PriorityMedium, database.PriorityLow}
	validCategory = []string{database.CategoryWork, database.CategoryHome, database.CategoryLearning}
)

// Fields holds the validated inputs of a request, whether they came from the
// query string or the body. A nil field is absent and is not checked.
type Fields struct {
	Status   *string
	Priority *string
	Category *string
	DueDate  *string
}

// Validate checks each present field against its rule and returns the first
// failure in the order status, priority, category, dueDate.
func Validate(f Fields) error {
	if f.Status != nil && !slices.Contains(validStatus, *f.Status) {
		return ErrInvalidStatus
	}
	if f.Priority != nil && !slices.Contains(validPriority, *f.Priority) {
		return ErrInvalidPriority
	}
	if f.Category != nil && !slices.Contains(validCategory, *f.Category) {
		return ErrInvalidCategory
	}
	if f.DueDate != nil {
		if _, ok := NormalizeDate(*f.DueDate); !ok {
			return ErrInvalidDueDate
		}
	}
	return nil
}

// IsValidationError reports whether err is a client input error.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
