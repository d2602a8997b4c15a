package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const segmentColumns = "id, article_id, file_path, duration_seconds, created_at"

// AddSegment records a synthesized narration clip in the catalog.
func (s *Store) AddSegment(ctx context.Context, articleID int64, filePath string, durationSeconds *float64) (*Segment, error) {
	if filePath == "" {
		return nil, errors.New("segment file path required")
	}

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO segments (article_id, file_path, duration_seconds, created_at) VALUES (?, ?, ?, ?)`,
		articleID,
		filePath,
		nullableFloat(durationSeconds),
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert segment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetSegment(ctx, id)
}

// GetSegment fetches a segment by identifier. Returns nil when absent.
func (s *Store) GetSegment(ctx context.Context, id int64) (*Segment, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+segmentColumns+` FROM segments WHERE id = ?`, id)
	segment, err := scanSegment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get segment: %w", err)
	}
	return segment, nil
}

// SegmentsByIDs fetches the requested segments keyed by identifier. Absent ids
// are simply missing from the result; callers decide whether that is an error.
func (s *Store) SegmentsByIDs(ctx context.Context, ids []int64) (map[int64]*Segment, error) {
	result := make(map[int64]*Segment, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	placeholders := makePlaceholders(len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+segmentColumns+` FROM segments WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("query segments by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		segment, err := scanSegment(rows)
		if err != nil {
			return nil, err
		}
		result[segment.ID] = segment
	}
	return result, rows.Err()
}

// ListSegments returns every segment ordered by identifier ascending, a proxy
// for creation order since identifiers are monotonically assigned.
func (s *Store) ListSegments(ctx context.Context) ([]*Segment, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+segmentColumns+` FROM segments ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list segments: %w", err)
	}
	defer rows.Close()

	var segments []*Segment
	for rows.Next() {
		segment, err := scanSegment(rows)
		if err != nil {
			return nil, err
		}
		segments = append(segments, segment)
	}
	return segments, rows.Err()
}

// UpdateSegmentDuration corrects the measured duration of a segment.
func (s *Store) UpdateSegmentDuration(ctx context.Context, id int64, durationSeconds float64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE segments SET duration_seconds = ? WHERE id = ?`, durationSeconds, id)
	if err != nil {
		return fmt.Errorf("update segment duration: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("segment %d does not exist", id)
	}
	return nil
}
