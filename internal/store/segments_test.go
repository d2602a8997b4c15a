package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"murmur/internal/testsupport"
)

func TestAddAndGetSegment(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	path := filepath.Join(cfg.Paths.AudioDir, "article-42.mp3")
	testsupport.WriteFile(t, path, 2048)

	duration := 63.2
	segment, err := st.AddSegment(ctx, 42, path, &duration)
	if err != nil {
		t.Fatalf("AddSegment: %v", err)
	}
	if segment.ID == 0 {
		t.Fatal("expected segment ID to be assigned")
	}
	if segment.ArticleID != 42 || segment.FilePath != path {
		t.Fatalf("unexpected segment: %#v", segment)
	}
	if segment.DurationSeconds == nil || *segment.DurationSeconds != 63.2 {
		t.Fatalf("unexpected duration: %v", segment.DurationSeconds)
	}

	fetched, err := st.GetSegment(ctx, segment.ID)
	if err != nil {
		t.Fatalf("GetSegment: %v", err)
	}
	if fetched == nil || fetched.ID != segment.ID {
		t.Fatalf("unexpected fetched segment: %#v", fetched)
	}
}

func TestGetSegmentMissingReturnsNil(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	segment, err := st.GetSegment(context.Background(), 999)
	if err != nil {
		t.Fatalf("GetSegment: %v", err)
	}
	if segment != nil {
		t.Fatalf("expected nil for missing segment, got %#v", segment)
	}
}

func TestAddSegmentWithoutDuration(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	segment, err := st.AddSegment(ctx, 7, filepath.Join(cfg.Paths.AudioDir, "a.mp3"), nil)
	if err != nil {
		t.Fatalf("AddSegment: %v", err)
	}
	if segment.DurationSeconds != nil {
		t.Fatalf("expected nil duration, got %v", *segment.DurationSeconds)
	}

	if err := st.UpdateSegmentDuration(ctx, segment.ID, 41.7); err != nil {
		t.Fatalf("UpdateSegmentDuration: %v", err)
	}
	updated, err := st.GetSegment(ctx, segment.ID)
	if err != nil {
		t.Fatalf("GetSegment: %v", err)
	}
	if updated.DurationSeconds == nil || *updated.DurationSeconds != 41.7 {
		t.Fatalf("duration not corrected: %v", updated.DurationSeconds)
	}
}

func TestUpdateSegmentDurationMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	if err := st.UpdateSegmentDuration(context.Background(), 12345, 1.0); err == nil {
		t.Fatal("expected error for missing segment")
	}
}

func TestListSegmentsOrderedByID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		if _, err := st.AddSegment(ctx, i, filepath.Join(cfg.Paths.AudioDir, "s.mp3"), nil); err != nil {
			t.Fatalf("AddSegment: %v", err)
		}
	}

	segments, err := st.ListSegments(ctx)
	if err != nil {
		t.Fatalf("ListSegments: %v", err)
	}
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}
	for i := 1; i < len(segments); i++ {
		if segments[i].ID <= segments[i-1].ID {
			t.Fatalf("segments not in id order: %d then %d", segments[i-1].ID, segments[i].ID)
		}
	}
}

func TestSegmentsByIDs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	first, err := st.AddSegment(ctx, 1, filepath.Join(cfg.Paths.AudioDir, "1.mp3"), nil)
	if err != nil {
		t.Fatalf("AddSegment: %v", err)
	}
	second, err := st.AddSegment(ctx, 2, filepath.Join(cfg.Paths.AudioDir, "2.mp3"), nil)
	if err != nil {
		t.Fatalf("AddSegment: %v", err)
	}

	result, err := st.SegmentsByIDs(ctx, []int64{first.ID, second.ID, 888})
	if err != nil {
		t.Fatalf("SegmentsByIDs: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("expected 2 results, got %d", len(result))
	}
	if _, ok := result[888]; ok {
		t.Fatal("missing id should be absent from result")
	}
}
