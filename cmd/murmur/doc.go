// Command murmur manages narrated audio segments, orders them into
// playlists, and assembles them into single episode files with ffmpeg.
package main
