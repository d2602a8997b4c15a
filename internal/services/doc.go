// Package services defines the error taxonomy shared by the assembly
// pipeline.
//
// Sentinel markers tag errors with a classification (not found, invalid
// input, missing asset, transcode failure, configuration). Callers wrap
// errors with Wrap so the CLI can report a stable failure kind without
// inspecting message text.
package services
