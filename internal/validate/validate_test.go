package validate

import (
	"errors"
	"fmt"
	"testing"
)

type signup struct {
	Name  string  `json:"name" validate:"notblank"`
	Email string  `json:"email" validate:"required,email"`
	Role  string  `json:"role" validate:"role"`
	Score float64 `json:"score" validate:"gte=1,lte=10"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name      string
		in        signup
		wantField string
		wantRule  string
	}{
		{"valid", signup{"Ana", "ana@x.io", "student", 5}, "", ""},
		{"blank name", signup{"   ", "ana@x.io", "student", 5}, "name", "notblank"},
		{"bad email", signup{"Ana", "nope", "student", 5}, "email", "email"},
		{"bad role", signup{"Ana", "ana@x.io", "guest", 5}, "role", "role"},
		{"score low", signup{"Ana", "ana@x.io", "admin", 0.5}, "score", "gte"},
		{"score high", signup{"Ana", "ana@x.io", "admin", 10.5}, "score", "lte"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ve *Error
			if !errors.As(err, &ve) {
				t.Fatalf("expected *Error, got %T (%v)", err, err)
			}
			if ve.Field != tt.wantField || ve.Rule != tt.wantRule {
				t.Errorf("got %s/%s, want %s/%s", ve.Field, ve.Rule, tt.wantField, tt.wantRule)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	if got := Required("comment").Error(); got != "comment is required" {
		t.Errorf("got %q", got)
	}
	if got := (&Error{Field: "rating", Rule: "lte", Param: "10"}).Error(); got != "rating must be <= 10" {
		t.Errorf("got %q", got)
	}
}

func TestIsValidation(t *testing.T) {
	if !IsValidation(fmt.Errorf("register: %w", Required("name"))) {
		t.Error("wrapped *Error should be detected")
	}
	if IsValidation(errors.New("plain")) {
		t.Error("plain error is not a validation error")
	}
}
