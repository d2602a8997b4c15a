package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"murmur/internal/store"
)

func parseID(arg, noun string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", noun, arg)
	}
	return id, nil
}

// resolvePlaylist accepts either a numeric playlist id or a playlist name.
func resolvePlaylist(cmd *cobra.Command, st *store.Store, arg string) (*store.Playlist, error) {
	if id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64); err == nil && id > 0 {
		playlist, err := st.GetPlaylist(cmd.Context(), id)
		if err != nil {
			return nil, err
		}
		if playlist != nil {
			return playlist, nil
		}
	}
	playlist, err := st.GetPlaylistByName(cmd.Context(), arg)
	if err != nil {
		return nil, err
	}
	if playlist == nil {
		return nil, fmt.Errorf("playlist %q not found", arg)
	}
	return playlist, nil
}

func parseIDs(args []string, noun string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := parseID(arg, noun)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func formatDuration(seconds *float64) string {
	if seconds == nil {
		return "-"
	}
	d := time.Duration(*seconds * float64(time.Second)).Round(time.Second)
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

func formatIDList(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

func segmentRows(segments []*store.Segment) [][]string {
	rows := make([][]string, 0, len(segments))
	for _, segment := range segments {
		rows = append(rows, []string{
			strconv.FormatInt(segment.ID, 10),
			strconv.FormatInt(segment.ArticleID, 10),
			formatDuration(segment.DurationSeconds),
			formatTime(segment.CreatedAt),
			segment.FilePath,
		})
	}
	return rows
}

var segmentHeaders = []string{"ID", "Article", "Duration", "Added", "File"}

var segmentAligns = []columnAlignment{alignRight, alignRight, alignRight, alignLeft, alignLeft}
