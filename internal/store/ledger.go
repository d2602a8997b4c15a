package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"murmur/internal/services"
)

const mergedColumns = "id, name, file_path, source_segment_ids, duration_seconds, created_at"

// RecordMerged appends a ledger row for a produced episode file, recording the
// consumed segment ids verbatim. Call this only after the output file has been
// fully written: a ledger row exists if and only if its file was produced.
func (s *Store) RecordMerged(ctx context.Context, name, filePath string, sourceSegmentIDs []int64, durationSeconds *float64) (*MergedAudioFile, error) {
	if len(sourceSegmentIDs) == 0 {
		return nil, services.Wrap(services.ErrInvalidInput, "store", "record merged", "source segment ids required", nil)
	}

	idsJSON, err := json.Marshal(sourceSegmentIDs)
	if err != nil {
		return nil, fmt.Errorf("marshal source ids: %w", err)
	}

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO merged_audio_files (name, file_path, source_segment_ids, duration_seconds, created_at)
         VALUES (?, ?, ?, ?, ?)`,
		name,
		filePath,
		string(idsJSON),
		nullableFloat(durationSeconds),
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert merged file: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetMerged(ctx, id)
}

// GetMerged fetches a ledger row by identifier. Returns nil when absent.
func (s *Store) GetMerged(ctx context.Context, id int64) (*MergedAudioFile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+mergedColumns+` FROM merged_audio_files WHERE id = ?`, id)
	merged, err := scanMerged(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get merged file: %w", err)
	}
	return merged, nil
}

// ListMerged returns every ledger row ordered by creation time.
func (s *Store) ListMerged(ctx context.Context) ([]*MergedAudioFile, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+mergedColumns+` FROM merged_audio_files ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list merged files: %w", err)
	}
	defer rows.Close()

	var merged []*MergedAudioFile
	for rows.Next() {
		entry, err := scanMerged(rows)
		if err != nil {
			return nil, err
		}
		merged = append(merged, entry)
	}
	return merged, rows.Err()
}

// RenameMerged corrects the display name of a ledger row.
func (s *Store) RenameMerged(ctx context.Context, id int64, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return services.Wrap(services.ErrInvalidInput, "store", "rename merged", "name required", nil)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE merged_audio_files SET name = ? WHERE id = ?`, newName, id)
	if err != nil {
		return fmt.Errorf("rename merged file: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "store", "rename merged", "merged file "+strconv.FormatInt(id, 10), nil)
	}
	return nil
}

// UpdateMergedDuration corrects the recorded duration of a ledger row.
func (s *Store) UpdateMergedDuration(ctx context.Context, id int64, durationSeconds float64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE merged_audio_files SET duration_seconds = ? WHERE id = ?`, durationSeconds, id)
	if err != nil {
		return fmt.Errorf("update merged duration: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "store", "update merged duration", "merged file "+strconv.FormatInt(id, 10), nil)
	}
	return nil
}

// UnprocessedSegments returns every segment whose id appears in no ledger
// row's source-id list, ordered by id ascending. The predicate is derived
// from ledger contents on every call, so it self-corrects when ledger rows
// are edited or removed. An empty result is not an error.
func (s *Store) UnprocessedSegments(ctx context.Context) ([]*Segment, error) {
	merged, err := s.ListMerged(ctx)
	if err != nil {
		return nil, err
	}

	consumed := make(map[int64]struct{})
	for _, entry := range merged {
		for _, id := range entry.SourceSegmentIDs {
			consumed[id] = struct{}{}
		}
	}

	segments, err := s.ListSegments(ctx)
	if err != nil {
		return nil, err
	}

	unprocessed := make([]*Segment, 0, len(segments))
	for _, segment := range segments {
		if _, ok := consumed[segment.ID]; ok {
			continue
		}
		unprocessed = append(unprocessed, segment)
	}
	return unprocessed, nil
}

func scanMerged(scanner rowScanner) (*MergedAudioFile, error) {
	var (
		id        int64
		name      string
		filePath  string
		idsJSON   string
		duration  sql.NullFloat64
		createdAt sql.NullString
	)
	if err := scanner.Scan(&id, &name, &filePath, &idsJSON, &duration, &createdAt); err != nil {
		return nil, err
	}

	merged := &MergedAudioFile{ID: id, Name: name, FilePath: filePath}
	if idsJSON != "" {
		if err := json.Unmarshal([]byte(idsJSON), &merged.SourceSegmentIDs); err != nil {
			return nil, fmt.Errorf("parse source ids for merged file %d: %w", id, err)
		}
	}
	if duration.Valid {
		value := duration.Float64
		merged.DurationSeconds = &value
	}
	if created, err := parseTimeString(createdAt.String); err == nil {
		merged.CreatedAt = created
	}
	return merged, nil
}
