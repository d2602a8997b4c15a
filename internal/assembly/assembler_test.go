package assembly

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"murmur/internal/config"
	"murmur/internal/media/concat"
	"murmur/internal/services"
	"murmur/internal/store"
	"murmur/internal/testsupport"
)

// fakeEngine records concatenation requests and writes the output file the
// way the real engine would, or fails without touching disk.
type fakeEngine struct {
	requests []concat.Request
	fail     error
	duration float64
}

func (f *fakeEngine) Concatenate(_ context.Context, req concat.Request) (concat.Result, error) {
	f.requests = append(f.requests, req)
	if f.fail != nil {
		return concat.Result{}, f.fail
	}
	if err := os.MkdirAll(filepath.Dir(req.OutputFile), 0o755); err != nil {
		return concat.Result{}, err
	}
	if err := os.WriteFile(req.OutputFile, []byte("audio"), 0o644); err != nil {
		return concat.Result{}, err
	}
	count := len(req.InputFiles)
	if req.IntroFile != "" {
		count++
	}
	if req.OutroFile != "" {
		count++
	}
	return concat.Result{OutputFile: req.OutputFile, DurationSeconds: f.duration, InputCount: count}, nil
}

func newTestAssembler(t *testing.T, engine concat.Engine, opts ...testsupport.ConfigOption) (*Assembler, *assemblerDeps) {
	t.Helper()

	cfg := testsupport.NewConfig(t, append([]testsupport.ConfigOption{testsupport.WithSilenceSeconds(1.3)}, opts...)...)
	st := testsupport.MustOpenStore(t, cfg)
	asm, err := New(cfg, st, engine, nil)
	if err != nil {
		t.Fatalf("assembly.New: %v", err)
	}
	return asm, &assemblerDeps{cfg: cfg, store: st}
}

type assemblerDeps struct {
	cfg   *config.Config
	store *store.Store
}

func TestMergeUnprocessedEndToEnd(t *testing.T) {
	ctx := context.Background()
	engine := &fakeEngine{duration: 98.4}
	asm, deps := newTestAssembler(t, engine)

	first := testsupport.NewSegment(t, deps.store, deps.cfg, 5)
	second := testsupport.NewSegment(t, deps.store, deps.cfg, 7)
	third := testsupport.NewSegment(t, deps.store, deps.cfg, 9)

	outcome := asm.MergeUnprocessed(ctx, "Morning Digest", DefaultMergeOptions())
	if outcome.Status != StatusSucceeded {
		t.Fatalf("expected success, got %s (err %v)", outcome.Status, outcome.Err)
	}
	if outcome.Merged == nil {
		t.Fatal("expected merged record on success")
	}
	wantIDs := []int64{first.ID, second.ID, third.ID}
	if len(outcome.Merged.SourceSegmentIDs) != len(wantIDs) {
		t.Fatalf("recorded %d source ids, want %d", len(outcome.Merged.SourceSegmentIDs), len(wantIDs))
	}
	for i, id := range wantIDs {
		if outcome.Merged.SourceSegmentIDs[i] != id {
			t.Errorf("source id[%d] = %d, want %d", i, outcome.Merged.SourceSegmentIDs[i], id)
		}
	}
	if outcome.Merged.DurationSeconds == nil || *outcome.Merged.DurationSeconds != 98.4 {
		t.Errorf("duration not recorded from engine result: %v", outcome.Merged.DurationSeconds)
	}
	if _, err := os.Stat(outcome.Merged.FilePath); err != nil {
		t.Errorf("recorded output file missing: %v", err)
	}
	if len(engine.requests) != 1 {
		t.Fatalf("engine invoked %d times, want 1", len(engine.requests))
	}
	req := engine.requests[0]
	if len(req.InputFiles) != 3 || req.InputFiles[0] != first.FilePath || req.InputFiles[2] != third.FilePath {
		t.Errorf("unexpected input order: %v", req.InputFiles)
	}
	if req.SilenceSeconds != 1.3 {
		t.Errorf("silence = %v, want configured 1.3", req.SilenceSeconds)
	}

	// Everything is now processed, so the next run has nothing to do.
	remaining, err := deps.store.UnprocessedSegments(ctx)
	if err != nil {
		t.Fatalf("UnprocessedSegments: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected empty unprocessed set after merge, got %d", len(remaining))
	}
	second2 := asm.MergeUnprocessed(ctx, "", DefaultMergeOptions())
	if second2.Status != StatusSkipped {
		t.Fatalf("expected skip on second run, got %s", second2.Status)
	}
	merged, err := deps.store.ListMerged(ctx)
	if err != nil {
		t.Fatalf("ListMerged: %v", err)
	}
	if len(merged) != 1 {
		t.Fatalf("expected exactly one ledger row, got %d", len(merged))
	}
}

func TestMergeByIDsMissingSegmentAbortsBeforeEngine(t *testing.T) {
	ctx := context.Background()
	engine := &fakeEngine{}
	asm, deps := newTestAssembler(t, engine)

	segment := testsupport.NewSegment(t, deps.store, deps.cfg, 1)

	outcome := asm.MergeByIDs(ctx, []int64{segment.ID, 9999}, "Broken", DefaultMergeOptions())
	if outcome.Status != StatusFailedValidation {
		t.Fatalf("expected failed_validation, got %s", outcome.Status)
	}
	if outcome.ErrorKind() != "not_found" {
		t.Errorf("error kind = %s, want not_found", outcome.ErrorKind())
	}
	if !strings.Contains(outcome.Err.Error(), "9999") {
		t.Errorf("error should name the missing id: %v", outcome.Err)
	}
	if len(engine.requests) != 0 {
		t.Errorf("engine must not run when resolution fails")
	}
	merged, err := deps.store.ListMerged(ctx)
	if err != nil {
		t.Fatalf("ListMerged: %v", err)
	}
	if len(merged) != 0 {
		t.Errorf("ledger must stay empty, got %d rows", len(merged))
	}
}

func TestMergeByIDsRejectsEmptyInput(t *testing.T) {
	ctx := context.Background()
	asm, _ := newTestAssembler(t, &fakeEngine{})

	if out := asm.MergeByIDs(ctx, nil, "Digest", DefaultMergeOptions()); out.ErrorKind() != "invalid_input" {
		t.Errorf("empty id list: kind = %s, want invalid_input", out.ErrorKind())
	}
	if out := asm.MergeByIDs(ctx, []int64{1}, "  ", DefaultMergeOptions()); out.ErrorKind() != "invalid_input" {
		t.Errorf("blank name: kind = %s, want invalid_input", out.ErrorKind())
	}
}

func TestMergePlaylistOrderAndDefaultName(t *testing.T) {
	ctx := context.Background()
	engine := &fakeEngine{duration: 10}
	asm, deps := newTestAssembler(t, engine)

	playlist := testsupport.NewPlaylist(t, deps.store, "morning-digest")
	a := testsupport.NewSegment(t, deps.store, deps.cfg, 1)
	b := testsupport.NewSegment(t, deps.store, deps.cfg, 2)
	c := testsupport.NewSegment(t, deps.store, deps.cfg, 3)
	for _, segment := range []int64{a.ID, b.ID, c.ID} {
		if _, err := deps.store.AddPlaylistItem(ctx, playlist.ID, segment); err != nil {
			t.Fatalf("AddPlaylistItem: %v", err)
		}
	}
	items, err := deps.store.PlaylistItems(ctx, playlist.ID)
	if err != nil {
		t.Fatalf("PlaylistItems: %v", err)
	}
	// Move the last segment to the front so playback order differs from
	// insertion order.
	if err := deps.store.MovePlaylistItem(ctx, items[2].ID, 1); err != nil {
		t.Fatalf("MovePlaylistItem: %v", err)
	}

	outcome := asm.MergePlaylist(ctx, playlist.ID, "", DefaultMergeOptions())
	if outcome.Status != StatusSucceeded {
		t.Fatalf("expected success, got %s (err %v)", outcome.Status, outcome.Err)
	}
	if outcome.Merged.Name != "Morning Digest" {
		t.Errorf("default name = %q, want title-cased playlist name", outcome.Merged.Name)
	}
	wantIDs := []int64{c.ID, a.ID, b.ID}
	for i, id := range wantIDs {
		if outcome.Merged.SourceSegmentIDs[i] != id {
			t.Errorf("source id[%d] = %d, want %d (position order)", i, outcome.Merged.SourceSegmentIDs[i], id)
		}
	}
	req := engine.requests[0]
	if req.InputFiles[0] != c.FilePath {
		t.Errorf("first input = %s, want moved segment %s", req.InputFiles[0], c.FilePath)
	}
}

func TestMergePlaylistEmptySkipped(t *testing.T) {
	ctx := context.Background()
	engine := &fakeEngine{}
	asm, deps := newTestAssembler(t, engine)

	playlist := testsupport.NewPlaylist(t, deps.store, "empty")
	outcome := asm.MergePlaylist(ctx, playlist.ID, "", DefaultMergeOptions())
	if outcome.Status != StatusSkipped {
		t.Fatalf("expected skip, got %s (err %v)", outcome.Status, outcome.Err)
	}
	if len(engine.requests) != 0 {
		t.Errorf("engine must not run for an empty playlist")
	}
}

func TestMergePlaylistUnknownPlaylist(t *testing.T) {
	ctx := context.Background()
	asm, _ := newTestAssembler(t, &fakeEngine{})

	outcome := asm.MergePlaylist(ctx, 42, "", DefaultMergeOptions())
	if outcome.Status != StatusFailedValidation || outcome.ErrorKind() != "not_found" {
		t.Fatalf("expected not_found validation failure, got %s / %s", outcome.Status, outcome.ErrorKind())
	}
}

func TestMergeEngineFailureLeavesLedgerEmpty(t *testing.T) {
	ctx := context.Background()
	engine := &fakeEngine{
		fail: services.Wrap(services.ErrTranscode, "concat", "ffmpeg", "exit status 1", nil),
	}
	asm, deps := newTestAssembler(t, engine)

	segment := testsupport.NewSegment(t, deps.store, deps.cfg, 1)
	outcome := asm.MergeByIDs(ctx, []int64{segment.ID}, "Digest", DefaultMergeOptions())
	if outcome.Status != StatusFailedTranscode {
		t.Fatalf("expected failed_transcode, got %s", outcome.Status)
	}
	if outcome.State != StateConcatenating {
		t.Errorf("failure state = %s, want concatenating", outcome.State)
	}
	merged, err := deps.store.ListMerged(ctx)
	if err != nil {
		t.Fatalf("ListMerged: %v", err)
	}
	if len(merged) != 0 {
		t.Errorf("ledger must stay empty after engine failure, got %d rows", len(merged))
	}

	// The segment stays unprocessed and a retry with a working engine
	// succeeds.
	remaining, err := deps.store.UnprocessedSegments(ctx)
	if err != nil {
		t.Fatalf("UnprocessedSegments: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("segment should remain unprocessed, got %d", len(remaining))
	}
	engine.fail = nil
	retry := asm.MergeByIDs(ctx, []int64{segment.ID}, "Digest", DefaultMergeOptions())
	if retry.Status != StatusSucceeded {
		t.Fatalf("retry should succeed, got %s (err %v)", retry.Status, retry.Err)
	}
}

func TestMergeIntroOutroMissingAsset(t *testing.T) {
	ctx := context.Background()
	engine := &fakeEngine{}
	asm, deps := newTestAssembler(t, engine)

	segment := testsupport.NewSegment(t, deps.store, deps.cfg, 1)
	opts := DefaultMergeOptions()
	opts.WithIntroOutro = true

	outcome := asm.MergeByIDs(ctx, []int64{segment.ID}, "Digest", opts)
	if outcome.Status != StatusFailedValidation {
		t.Fatalf("expected failed_validation, got %s", outcome.Status)
	}
	if outcome.ErrorKind() != "missing_asset" {
		t.Errorf("error kind = %s, want missing_asset", outcome.ErrorKind())
	}
	if outcome.State != StateValidating {
		t.Errorf("failure state = %s, want validating_inputs", outcome.State)
	}
	if len(engine.requests) != 0 {
		t.Errorf("engine must not run when assets are missing")
	}
}

func TestMergeIntroOutroIncluded(t *testing.T) {
	ctx := context.Background()
	engine := &fakeEngine{duration: 5}
	asm, deps := newTestAssembler(t, engine)

	testsupport.WriteFile(t, deps.cfg.Assembly.IntroFile, 256)
	testsupport.WriteFile(t, deps.cfg.Assembly.OutroFile, 256)
	segment := testsupport.NewSegment(t, deps.store, deps.cfg, 1)

	opts := DefaultMergeOptions()
	opts.WithIntroOutro = true
	outcome := asm.MergeByIDs(ctx, []int64{segment.ID}, "Digest", opts)
	if outcome.Status != StatusSucceeded {
		t.Fatalf("expected success, got %s (err %v)", outcome.Status, outcome.Err)
	}
	req := engine.requests[0]
	if req.IntroFile != deps.cfg.Assembly.IntroFile || req.OutroFile != deps.cfg.Assembly.OutroFile {
		t.Errorf("intro/outro not forwarded: intro=%q outro=%q", req.IntroFile, req.OutroFile)
	}
	// The ledger records only the segment ids, never the clip files.
	if len(outcome.Merged.SourceSegmentIDs) != 1 || outcome.Merged.SourceSegmentIDs[0] != segment.ID {
		t.Errorf("ledger ids = %v, want only %d", outcome.Merged.SourceSegmentIDs, segment.ID)
	}
}

func TestMergeSilenceOverride(t *testing.T) {
	ctx := context.Background()
	engine := &fakeEngine{duration: 5}
	asm, deps := newTestAssembler(t, engine)

	segment := testsupport.NewSegment(t, deps.store, deps.cfg, 1)
	opts := DefaultMergeOptions()
	opts.SilenceSeconds = 2.5
	if out := asm.MergeByIDs(ctx, []int64{segment.ID}, "Digest", opts); out.Status != StatusSucceeded {
		t.Fatalf("merge failed: %v", out.Err)
	}
	if got := engine.requests[0].SilenceSeconds; got != 2.5 {
		t.Errorf("silence override = %v, want 2.5", got)
	}
}

func TestMergeHonorsOutputFormat(t *testing.T) {
	ctx := context.Background()
	engine := &fakeEngine{duration: 5}
	asm, deps := newTestAssembler(t, engine, testsupport.WithOutputFormat("ogg"))

	segment := testsupport.NewSegment(t, deps.store, deps.cfg, 1)
	outcome := asm.MergeByIDs(ctx, []int64{segment.ID}, "Digest", DefaultMergeOptions())
	if outcome.Status != StatusSucceeded {
		t.Fatalf("merge failed: %v", outcome.Err)
	}
	if !strings.HasSuffix(outcome.Merged.FilePath, ".ogg") {
		t.Errorf("output %q should use the configured container", outcome.Merged.FilePath)
	}
	if filepath.Dir(outcome.Merged.FilePath) != deps.cfg.Paths.MergedDir {
		t.Errorf("output must land in the merged dir, got %q", outcome.Merged.FilePath)
	}
}

func TestAcquireLockConflict(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := os.MkdirAll(cfg.Paths.DataDir, 0o755); err != nil {
		t.Fatalf("mkdir data dir: %v", err)
	}

	held, err := AcquireLock(cfg)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	defer func() { _ = held.Release() }()

	if _, err := AcquireLock(cfg); err == nil {
		t.Fatal("second acquire should fail while lock is held")
	}

	if err := held.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	again, err := AcquireLock(cfg)
	if err != nil {
		t.Fatalf("reacquire after release: %v", err)
	}
	_ = again.Release()
}
