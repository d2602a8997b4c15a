package assembly

import (
	"testing"
	"time"
)

func TestSlug(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Morning Digest", "morning-digest"},
		{"  Weekend  Reads!  ", "weekend-reads"},
		{"already-slugged", "already-slugged"},
		{"Ep. 42: Go & Friends", "ep-42-go-friends"},
		{"***", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Slug(tc.in); got != tc.want {
			t.Errorf("Slug(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"morning-digest", "Morning Digest"},
		{"weekend reads", "Weekend Reads"},
		{"  ", ""},
	}
	for _, tc := range cases {
		if got := DisplayName(tc.in); got != tc.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestOutputFileName(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	if got := OutputFileName("Morning Digest", "mp3", at); got != "morning-digest-20260314-092653.mp3" {
		t.Errorf("unexpected output name %q", got)
	}
	if got := OutputFileName("***", "ogg", at); got != "episode-20260314-092653.ogg" {
		t.Errorf("unexpected fallback name %q", got)
	}
}

func TestOutputFileNameUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	at := time.Date(2026, 3, 14, 14, 26, 53, 0, loc)

	if got := OutputFileName("x", "mp3", at); got != "x-20260314-092653.mp3" {
		t.Errorf("expected UTC timestamp, got %q", got)
	}
}
