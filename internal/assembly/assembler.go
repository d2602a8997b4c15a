package assembly

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"murmur/internal/config"
	"murmur/internal/logging"
	"murmur/internal/media/concat"
	"murmur/internal/services"
	"murmur/internal/store"
)

// Assembler composes the resolver, ordering store, and concatenation engine
// into the three merge operations. Each invocation runs synchronously under
// the advisory assembly lock and writes at most one ledger row, only after
// its output file has been fully produced.
type Assembler struct {
	cfg    *config.Config
	store  *store.Store
	engine concat.Engine
	logger *slog.Logger
	now    func() time.Time
}

// New constructs an assembler with explicit dependencies.
func New(cfg *config.Config, st *store.Store, engine concat.Engine, logger *slog.Logger) (*Assembler, error) {
	if cfg == nil || st == nil || engine == nil {
		return nil, errors.New("assembler requires config, store, and engine")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Assembler{
		cfg:    cfg,
		store:  st,
		engine: engine,
		logger: logging.WithComponent(logger, "assembly"),
		now:    time.Now,
	}, nil
}

// MergeOptions adjusts a single merge invocation.
type MergeOptions struct {
	// WithIntroOutro prepends/appends the fixed intro and outro clips. Both
	// files must exist or the merge fails before any file is written.
	WithIntroOutro bool
	// SilenceSeconds overrides the configured inter-segment gap when >= 0.
	SilenceSeconds float64
}

// DefaultMergeOptions uses the configured silence gap and no intro/outro.
func DefaultMergeOptions() MergeOptions {
	return MergeOptions{SilenceSeconds: -1}
}

// MergeByIDs merges the given segments in the given order under the given
// display name. Every id must resolve or the whole operation aborts before
// any file is written.
func (a *Assembler) MergeByIDs(ctx context.Context, segmentIDs []int64, name string, opts MergeOptions) Outcome {
	if len(segmentIDs) == 0 {
		return failed(StateResolving, services.Wrap(services.ErrInvalidInput, "assembly", "merge", "empty segment id list", nil))
	}
	if strings.TrimSpace(name) == "" {
		return failed(StateResolving, services.Wrap(services.ErrInvalidInput, "assembly", "merge", "name required", nil))
	}

	lock, err := AcquireLock(a.cfg)
	if err != nil {
		return failed(StateResolving, err)
	}
	defer func() { _ = lock.Release() }()

	return a.merge(ctx, segmentIDs, name, opts)
}

// MergePlaylist merges a playlist's segments in position order. An empty
// playlist is a skip, not an error. When name is empty it derives from the
// playlist's name.
func (a *Assembler) MergePlaylist(ctx context.Context, playlistID int64, name string, opts MergeOptions) Outcome {
	lock, err := AcquireLock(a.cfg)
	if err != nil {
		return failed(StateResolving, err)
	}
	defer func() { _ = lock.Release() }()

	playlist, err := a.store.GetPlaylist(ctx, playlistID)
	if err != nil {
		return failed(StateResolving, err)
	}
	if playlist == nil {
		return failed(StateResolving, services.Wrap(services.ErrNotFound, "assembly", "merge playlist", "playlist "+strconv.FormatInt(playlistID, 10), nil))
	}

	segments, err := a.store.PlaylistSegments(ctx, playlistID)
	if err != nil {
		return failed(StateResolving, err)
	}
	if len(segments) == 0 {
		return skipped(fmt.Sprintf("playlist %q has no items", playlist.Name))
	}

	if strings.TrimSpace(name) == "" {
		name = DisplayName(playlist.Name)
	}
	ids := make([]int64, 0, len(segments))
	for _, segment := range segments {
		ids = append(ids, segment.ID)
	}
	return a.merge(ctx, ids, name, opts)
}

// MergeUnprocessed merges every segment not yet present in any ledger row, in
// ascending identifier order. Nothing unprocessed is a skip, not an error.
// The lock is held across the resolve so two concurrent runs cannot observe
// the same unprocessed set.
func (a *Assembler) MergeUnprocessed(ctx context.Context, name string, opts MergeOptions) Outcome {
	lock, err := AcquireLock(a.cfg)
	if err != nil {
		return failed(StateResolving, err)
	}
	defer func() { _ = lock.Release() }()

	segments, err := a.store.UnprocessedSegments(ctx)
	if err != nil {
		return failed(StateResolving, err)
	}
	if len(segments) == 0 {
		return skipped("no unprocessed segments")
	}

	if strings.TrimSpace(name) == "" {
		name = "Digest " + a.now().UTC().Format("2006-01-02")
	}
	ids := make([]int64, 0, len(segments))
	for _, segment := range segments {
		ids = append(ids, segment.ID)
	}
	return a.merge(ctx, ids, name, opts)
}

// merge runs the per-invocation state machine: Resolving, ValidatingInputs,
// Concatenating, Recording. The ledger is written only from Recording, which
// is reachable only from a successful concatenation; a crash between file
// write and ledger insert may leave an unreferenced output file, which the
// resolver deliberately ignores.
func (a *Assembler) merge(ctx context.Context, segmentIDs []int64, name string, opts MergeOptions) Outcome {
	byID, err := a.store.SegmentsByIDs(ctx, segmentIDs)
	if err != nil {
		return failed(StateResolving, err)
	}
	var missing []string
	inputs := make([]string, 0, len(segmentIDs))
	for _, id := range segmentIDs {
		segment, ok := byID[id]
		if !ok {
			missing = append(missing, strconv.FormatInt(id, 10))
			continue
		}
		inputs = append(inputs, segment.FilePath)
	}
	if len(missing) > 0 {
		return failed(StateResolving, services.Wrap(services.ErrNotFound, "assembly", "resolve segments", "missing ids "+strings.Join(missing, ", "), nil))
	}

	var intro, outro string
	if opts.WithIntroOutro {
		intro, outro, err = a.introOutro()
		if err != nil {
			return failed(StateValidating, err)
		}
	}

	silence := a.cfg.Assembly.SilenceSeconds
	if opts.SilenceSeconds >= 0 {
		silence = opts.SilenceSeconds
	}

	outputFile := filepath.Join(a.cfg.Paths.MergedDir, OutputFileName(name, a.cfg.Assembly.OutputFormat, a.now()))

	result, err := a.engine.Concatenate(ctx, concat.Request{
		InputFiles:     inputs,
		OutputFile:     outputFile,
		SilenceSeconds: silence,
		IntroFile:      intro,
		OutroFile:      outro,
	})
	if err != nil {
		a.logger.Error("concatenation failed",
			slog.String("name", name),
			slog.Int("segments", len(inputs)),
			slog.String("error", err.Error()))
		return failed(StateConcatenating, err)
	}

	duration := result.DurationSeconds
	merged, err := a.store.RecordMerged(ctx, name, result.OutputFile, segmentIDs, &duration)
	if err != nil {
		return failed(StateRecording, fmt.Errorf("record merged file (output %s was produced): %w", result.OutputFile, err))
	}

	a.logger.Info("merge complete",
		slog.Int64("merged_id", merged.ID),
		slog.String("name", merged.Name),
		slog.Int("segments", len(segmentIDs)),
		slog.Float64("duration_seconds", duration),
		slog.String("output", merged.FilePath))
	return succeeded(merged)
}

// introOutro validates that both fixed clips exist before a merge uses them.
func (a *Assembler) introOutro() (string, string, error) {
	intro := a.cfg.Assembly.IntroFile
	outro := a.cfg.Assembly.OutroFile
	for _, asset := range []string{intro, outro} {
		if strings.TrimSpace(asset) == "" {
			return "", "", services.Wrap(services.ErrMissingAsset, "assembly", "intro/outro", "asset path not configured", nil)
		}
		if _, err := os.Stat(asset); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", "", services.Wrap(services.ErrMissingAsset, "assembly", "intro/outro", asset, nil)
			}
			return "", "", fmt.Errorf("stat asset %q: %w", asset, err)
		}
	}
	return intro, outro, nil
}

// AssetStatus reports whether a fixed intro/outro clip is present on disk.
type AssetStatus struct {
	Path   string
	Exists bool
}

// AssetStatuses reports the intro and outro clip status for CLI inspection.
func (a *Assembler) AssetStatuses() []AssetStatus {
	statuses := make([]AssetStatus, 0, 2)
	for _, path := range []string{a.cfg.Assembly.IntroFile, a.cfg.Assembly.OutroFile} {
		_, err := os.Stat(path)
		statuses = append(statuses, AssetStatus{Path: path, Exists: err == nil})
	}
	return statuses
}
