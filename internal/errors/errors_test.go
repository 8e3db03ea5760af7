package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestShortBufferErrorMessage(t *testing.T) {
	err := &ShortBufferError{Operation: "read u16", Offset: 4, Need: 2, Have: 1}
	got := err.Error()
	for _, want := range []string{"read u16", "offset 4", "need 2", "have 1"} {
		if !strings.Contains(got, want) {
			t.Errorf("Error() = %q, missing %q", got, want)
		}
	}
}

func TestMalformedNameErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := &MalformedNameError{Offset: 0, Message: "bad pointer", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if !strings.Contains(err.Error(), "bad pointer") {
		t.Errorf("Error() = %q, missing message", err.Error())
	}
}

func TestTransportErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := &TransportError{Operation: "send", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestValidationErrorIncludesValueWhenPresent(t *testing.T) {
	withValue := &ValidationError{Field: "timeout", Value: -1, Message: "must be positive"}
	if !strings.Contains(withValue.Error(), "-1") {
		t.Errorf("Error() = %q, want it to include the value", withValue.Error())
	}

	withoutValue := &ValidationError{Field: "logger", Message: "cannot be nil"}
	if strings.Contains(withoutValue.Error(), "value:") {
		t.Errorf("Error() = %q, want no value clause when Value is nil", withoutValue.Error())
	}
}
