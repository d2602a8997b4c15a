// Package ffprobe wraps the ffprobe CLI for audio inspection.
//
// The assembler uses it to measure segment and episode durations; results are
// plain parsed JSON with small accessors for the fields the pipeline reads.
package ffprobe
