package services_test

import (
	"errors"
	"testing"

	"murmur/internal/services"
)

func TestWrapPreservesMarker(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrTranscode, "concat", "run", "ffmpeg exited", base)
	if !errors.Is(err, services.ErrTranscode) {
		t.Fatalf("expected transcode marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped cause to survive, got %v", err)
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := services.Wrap(services.ErrNotFound, "store", "playlist", "id 7", nil)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found marker, got %v", err)
	}
	if got := err.Error(); got != "not found: store: playlist: id 7" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", errors.New("x"))
	if !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("expected invalid-input default, got %v", err)
	}
}

func TestKind(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		expect string
	}{
		{"nil", nil, ""},
		{"not found", services.Wrap(services.ErrNotFound, "store", "", "", nil), "not_found"},
		{"invalid", services.Wrap(services.ErrInvalidInput, "merge", "", "", nil), "invalid_input"},
		{"asset", services.Wrap(services.ErrMissingAsset, "assets", "", "", nil), "missing_asset"},
		{"transcode", services.Wrap(services.ErrTranscode, "concat", "", "", nil), "transcode"},
		{"config", services.Wrap(services.ErrConfiguration, "config", "", "", nil), "configuration"},
		{"plain", errors.New("whatever"), "internal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.Kind(tc.err); got != tc.expect {
				t.Fatalf("Kind = %q, want %q", got, tc.expect)
			}
		})
	}
}
