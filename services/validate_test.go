package services

import (
	"errors"
	"fmt"
	"testing"
)

func ptr(s string) *string { return &s }

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		fields Fields
		want   error
	}{
		{"nothing present", Fields{}, nil},
		{"all valid", Fields{Status: ptr("IN PROGRESS"), Priority: ptr("MEDIUM"), Category: ptr("LEARNING"), DueDate: ptr("2021-04-04")}, nil},
		{"bad status", Fields{Status: ptr("DOING")}, ErrInvalidStatus},
		{"lowercase status", Fields{Status: ptr("done")}, ErrInvalidStatus},
		{"empty status", Fields{Status: ptr("")}, ErrInvalidStatus},
		{"bad priority", Fields{Priority: ptr("URGENT")}, ErrInvalidPriority},
		{"bad category", Fields{Category: ptr("GARDEN")}, ErrInvalidCategory},
		{"bad due date", Fields{DueDate: ptr("2021-02-30")}, ErrInvalidDueDate},
		{"status checked first", Fields{Status: ptr("x"), Priority: ptr("x"), Category: ptr("x"), DueDate: ptr("x")}, ErrInvalidStatus},
		{"priority before category", Fields{Priority: ptr("x"), Category: ptr("x")}, ErrInvalidPriority},
		{"category before date", Fields{Category: ptr("x"), DueDate: ptr("x")}, ErrInvalidCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.fields)
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestIsValidationError(t *testing.T) {
	if !IsValidationError(ErrNoUpdates) {
		t.Error("ErrNoUpdates should be a validation error")
	}
	if !IsValidationError(fmt.Errorf("wrapped: %w", ErrInvalidDueDate)) {
		t.Error("wrapped validation error not recognised")
	}
	if IsValidationError(errors.New("boom")) {
		t.Error("plain error reported as validation error")
	}
	if IsValidationError(nil) {
		t.Error("nil reported as validation error")
	}
}

func TestValidationErrorMessages(t *testing.T) {
	want := map[error]string{
		ErrInvalidStatus:   "Invalid Todo Status",
		ErrInvalidPriority: "Invalid Todo Priority",
		ErrInvalidCategory: "Invalid Todo Category",
		ErrInvalidDueDate:  "Invalid Due Date",
		ErrNoUpdates:       "No Updates Found",
	}
	for err, msg := range want {
		if err.Error() != msg {
			t.Errorf("got %q, want %q", err.Error(), msg)
		}
	}
}
