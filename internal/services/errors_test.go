package services_test

import (
	"errors"
	"strings"
	"testing"

	"reelflow/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrValidation, "board", "drop", "target not adjacent", base)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if !strings.Contains(err.Error(), "board: drop: target not adjacent") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "controller", "patch", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
}

func TestIsRejection(t *testing.T) {
	cases := []struct {
		marker error
		want   bool
	}{
		{services.ErrValidation, true},
		{services.ErrNotFound, true},
		{services.ErrConfiguration, true},
		{services.ErrTransient, false},
		{services.ErrExternalService, false},
	}
	for _, tc := range cases {
		err := services.Wrap(tc.marker, "c", "op", "", nil)
		if got := services.IsRejection(err); got != tc.want {
			t.Fatalf("IsRejection(%v) = %v, want %v", tc.marker, got, tc.want)
		}
	}
}
