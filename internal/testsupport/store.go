package testsupport

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"murmur/internal/config"
	"murmur/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewSegment registers a segment backed by a real file under the config's
// audio directory and returns the stored record.
func NewSegment(t testing.TB, st *store.Store, cfg *config.Config, articleID int64) *store.Segment {
	t.Helper()

	path := filepath.Join(cfg.Paths.AudioDir, fmt.Sprintf("segment-%d.mp3", articleID))
	WriteFile(t, path, 1024)
	duration := 12.5
	segment, err := st.AddSegment(context.Background(), articleID, path, &duration)
	if err != nil {
		t.Fatalf("store.AddSegment: %v", err)
	}
	return segment
}

// NewPlaylist creates a playlist for tests using the provided store.
func NewPlaylist(t testing.TB, st *store.Store, name string) *store.Playlist {
	t.Helper()

	playlist, err := st.CreatePlaylist(context.Background(), name, "")
	if err != nil {
		t.Fatalf("store.CreatePlaylist: %v", err)
	}
	return playlist
}
