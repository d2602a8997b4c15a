// Package concat produces one audio file from an ordered list of inputs.
//
// The engine drives ffmpeg with a single-pass filter graph: every input but
// the last is padded with a configurable trailing silence, then all padded
// streams are concatenated in input order. Output is written to a temporary
// path and renamed into place only after ffmpeg succeeds, so a failed run
// never disturbs a previously produced file.
//
// The package is a pure file-list-to-file operation; it knows nothing about
// playlists, segments, or the ledger.
package concat
