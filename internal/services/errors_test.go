package services

import (
	"errors"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	err := Wrap(ErrNotEditable, "bot", "update", "status active", nil)
	if !errors.Is(err, ErrNotEditable) {
		t.Fatalf("errors.Is(err, ErrNotEditable) = false, want true")
	}
	want := "session not editable: bot: update: status active"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapNilMarkerDefaultsToTransient(t *testing.T) {
	err := Wrap(nil, "calendar", "fetch", "", errors.New("boom"))
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("errors.Is(err, ErrTransient) = false, want true")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(ErrProviderTermination, "provider", "terminate", "", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("errors.Is(err, cause) = false, want true")
	}
	if !errors.Is(err, ErrProviderTermination) {
		t.Fatalf("errors.Is(err, ErrProviderTermination) = false, want true")
	}
}

func TestWrapEmptyDetail(t *testing.T) {
	err := Wrap(ErrInvalidInput, "", "", "", nil)
	want := "invalid input: service failure"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}
