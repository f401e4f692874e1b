package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeDuplicateAlias, "alias %q already exists", "okhttp")

	if err.Code != ErrCodeDuplicateAlias {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeDuplicateAlias)
	}

	if err.Message != `alias "okhttp" already exists` {
		t.Errorf("Message = %v", err.Message)
	}

	expected := `DUPLICATE_ALIAS: alias "okhttp" already exists`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeNetwork, cause, "failed to fetch metadata")

	if err.Code != ErrCodeNetwork {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNetwork)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeParse, "test"), ErrCodeParse, true},
		{"non-matching code", New(ErrCodeParse, "test"), ErrCodeNetwork, false},
		{"outer code", Wrap(ErrCodeNetwork, New(ErrCodeInvalidInput, "inner"), "outer"), ErrCodeNetwork, true},
		{"inner code", Wrap(ErrCodeIO, New(ErrCodeParse, "inner"), "outer"), ErrCodeParse, true},
		{"fmt wrapped", fmt.Errorf("context: %w", New(ErrCodeCancelled, "x")), ErrCodeCancelled, true},
		{"non-Error type", errors.New("plain error"), ErrCodeInvalidInput, false},
		{"nil error", nil, ErrCodeInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeDuplicateCoordinate, "test"), ErrCodeDuplicateCoordinate},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{"wrapped", Wrap(ErrCodeIO, errors.New("disk full"), "write catalog"), "write catalog: disk full"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCategories(t *testing.T) {
	if !IsResolution(New(ErrCodeNetwork, "x")) || !IsResolution(New(ErrCodeUnresolvableVersionRef, "x")) {
		t.Error("IsResolution should match network and unresolvable ref errors")
	}
	if IsResolution(New(ErrCodeParse, "x")) {
		t.Error("IsResolution should not match parse errors")
	}
	if !IsConflict(New(ErrCodeDuplicateAlias, "x")) || !IsConflict(New(ErrCodeDuplicateCoordinate, "x")) {
		t.Error("IsConflict should match duplicate alias and coordinate errors")
	}
	if IsConflict(New(ErrCodeCancelled, "x")) {
		t.Error("IsConflict should not match cancellation")
	}
}
