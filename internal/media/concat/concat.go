package concat

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"murmur/internal/logging"
	"murmur/internal/media/ffprobe"
	"murmur/internal/services"
)

var (
	commandContext = exec.CommandContext
	inspectAudio   = ffprobe.Inspect
)

// Request describes one concatenation run. Intro and outro, when set, become
// ordinary list elements at the head and tail of the effective input list.
type Request struct {
	InputFiles     []string
	OutputFile     string
	SilenceSeconds float64
	IntroFile      string
	OutroFile      string
}

// Result reports a produced output file.
type Result struct {
	OutputFile      string
	DurationSeconds float64
	InputCount      int
}

// Engine concatenates ordered audio files into one output file. It has no
// knowledge of playlists, segments, or the ledger.
type Engine interface {
	Concatenate(ctx context.Context, req Request) (Result, error)
}

// Option configures the ffmpeg engine.
type Option func(*FFmpeg)

// WithBinary overrides the default ffmpeg binary name.
func WithBinary(binary string) Option {
	return func(f *FFmpeg) {
		if binary != "" {
			f.binary = binary
		}
	}
}

// WithProbeBinary overrides the default ffprobe binary name.
func WithProbeBinary(binary string) Option {
	return func(f *FFmpeg) {
		if binary != "" {
			f.probeBinary = binary
		}
	}
}

// WithLogger attaches a logger to the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(f *FFmpeg) {
		if logger != nil {
			f.logger = logging.WithComponent(logger, "concat")
		}
	}
}

// FFmpeg implements Engine by driving the ffmpeg CLI with a single-pass
// filter graph.
type FFmpeg struct {
	binary      string
	probeBinary string
	logger      *slog.Logger
}

// NewFFmpeg constructs an ffmpeg-backed engine using defaults.
func NewFFmpeg(opts ...Option) *FFmpeg {
	engine := &FFmpeg{binary: "ffmpeg", probeBinary: "ffprobe", logger: logging.NewNop()}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Concatenate validates every input, runs ffmpeg against a temporary path, and
// renames the result into place only on success. A prior file at the output
// path is never replaced by a failed run.
func (f *FFmpeg) Concatenate(ctx context.Context, req Request) (Result, error) {
	if len(req.InputFiles) == 0 {
		return Result{}, services.Wrap(services.ErrInvalidInput, "concat", "validate", "no input files", nil)
	}
	if strings.TrimSpace(req.OutputFile) == "" {
		return Result{}, services.Wrap(services.ErrInvalidInput, "concat", "validate", "output path required", nil)
	}
	if req.SilenceSeconds < 0 {
		return Result{}, services.Wrap(services.ErrInvalidInput, "concat", "validate", "silence must not be negative", nil)
	}

	inputs := make([]string, 0, len(req.InputFiles)+2)
	if req.IntroFile != "" {
		inputs = append(inputs, req.IntroFile)
	}
	inputs = append(inputs, req.InputFiles...)
	if req.OutroFile != "" {
		inputs = append(inputs, req.OutroFile)
	}

	var totalInputBytes uint64
	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return Result{}, services.Wrap(services.ErrNotFound, "concat", "validate", "input file "+input, nil)
			}
			return Result{}, fmt.Errorf("stat input %q: %w", input, err)
		}
		if info.IsDir() {
			return Result{}, services.Wrap(services.ErrInvalidInput, "concat", "validate", "input is a directory: "+input, nil)
		}
		totalInputBytes += uint64(info.Size())
	}

	outputDir := filepath.Dir(req.OutputFile)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create output directory: %w", err)
	}
	if err := checkFreeSpace(outputDir, totalInputBytes); err != nil {
		return Result{}, err
	}

	tempPath := tempOutputPath(req.OutputFile)
	args := make([]string, 0, len(inputs)*2+10)
	args = append(args, "-hide_banner", "-nostdin", "-v", "error", "-y")
	for _, input := range inputs {
		args = append(args, "-i", input)
	}
	graph := FilterGraph(len(inputs), req.SilenceSeconds)
	args = append(args, "-filter_complex", graph, "-map", "[out]", tempPath)

	f.logger.Debug("running ffmpeg concat",
		slog.Int("inputs", len(inputs)),
		slog.Float64("silence_seconds", req.SilenceSeconds),
		slog.String("output", req.OutputFile))

	cmd := commandContext(ctx, f.binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		_ = os.Remove(tempPath)
		detail := strings.TrimSpace(string(output))
		if detail == "" {
			detail = err.Error()
		}
		return Result{}, services.Wrap(services.ErrTranscode, "concat", "ffmpeg", detail, err)
	}

	duration := 0.0
	if probed, probeErr := inspectAudio(ctx, f.probeBinary, tempPath); probeErr != nil {
		f.logger.Warn("probe of merged output failed", slog.String("error", probeErr.Error()))
	} else {
		duration = probed.DurationSeconds()
	}

	if err := os.Rename(tempPath, req.OutputFile); err != nil {
		_ = os.Remove(tempPath)
		return Result{}, fmt.Errorf("finalize output: %w", err)
	}

	return Result{OutputFile: req.OutputFile, DurationSeconds: duration, InputCount: len(inputs)}, nil
}

// tempOutputPath keeps the container extension last so ffmpeg can infer the
// output format from the temporary name.
func tempOutputPath(outputFile string) string {
	dir := filepath.Dir(outputFile)
	base := filepath.Base(outputFile)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return filepath.Join(dir, stem+".partial-"+suffix+ext)
}

var _ Engine = (*FFmpeg)(nil)
