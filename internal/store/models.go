package store

import (
	"database/sql"
	"errors"
	"time"
)

// Segment is one synthesized narration clip tied to a single source article.
// Segments are produced by the synthesis step and are read-mostly here: the
// catalog may correct a duration after probing but never deletes a segment.
type Segment struct {
	ID              int64
	ArticleID       int64
	FilePath        string
	DurationSeconds *float64
	CreatedAt       time.Time
}

// Playlist is a named, user-ordered container of segments.
type Playlist struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
}

// PlaylistItem is one (playlist, segment) membership with an explicit 1-based
// position. For any playlist, item positions are exactly 1..N.
type PlaylistItem struct {
	ID         int64
	PlaylistID int64
	SegmentID  int64
	Position   int
}

// MergedAudioFile is one produced episode file together with the ordered list
// of segment ids consumed to build it. Rows are append-only apart from
// corrective edits to name and duration.
type MergedAudioFile struct {
	ID               int64
	Name             string
	FilePath         string
	SourceSegmentIDs []int64
	DurationSeconds  *float64
	CreatedAt        time.Time
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSegment(scanner rowScanner) (*Segment, error) {
	var (
		id        int64
		articleID int64
		filePath  string
		duration  sql.NullFloat64
		createdAt sql.NullString
	)
	if err := scanner.Scan(&id, &articleID, &filePath, &duration, &createdAt); err != nil {
		return nil, err
	}

	segment := &Segment{ID: id, ArticleID: articleID, FilePath: filePath}
	if duration.Valid {
		value := duration.Float64
		segment.DurationSeconds = &value
	}
	if created, err := parseTimeString(createdAt.String); err == nil {
		segment.CreatedAt = created
	}
	return segment, nil
}

func scanPlaylist(scanner rowScanner) (*Playlist, error) {
	var (
		id          int64
		name        string
		description sql.NullString
		createdAt   sql.NullString
	)
	if err := scanner.Scan(&id, &name, &description, &createdAt); err != nil {
		return nil, err
	}

	playlist := &Playlist{ID: id, Name: name, Description: description.String}
	if created, err := parseTimeString(createdAt.String); err == nil {
		playlist.CreatedAt = created
	}
	return playlist, nil
}

func scanPlaylistItem(scanner rowScanner) (*PlaylistItem, error) {
	item := &PlaylistItem{}
	if err := scanner.Scan(&item.ID, &item.PlaylistID, &item.SegmentID, &item.Position); err != nil {
		return nil, err
	}
	return item, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableFloat(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
