package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"murmur/internal/services"
)

const playlistColumns = "id, name, description, created_at"

// CreatePlaylist inserts a new, empty playlist. Names are unique.
func (s *Store) CreatePlaylist(ctx context.Context, name, description string) (*Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, services.Wrap(services.ErrInvalidInput, "store", "create playlist", "name required", nil)
	}

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO playlists (name, description, created_at) VALUES (?, ?, ?)`,
		name,
		nullableString(description),
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert playlist: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetPlaylist(ctx, id)
}

// GetPlaylist fetches a playlist by identifier. Returns nil when absent.
func (s *Store) GetPlaylist(ctx context.Context, id int64) (*Playlist, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+playlistColumns+` FROM playlists WHERE id = ?`, id)
	playlist, err := scanPlaylist(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get playlist: %w", err)
	}
	return playlist, nil
}

// GetPlaylistByName fetches a playlist by its unique name. Returns nil when absent.
func (s *Store) GetPlaylistByName(ctx context.Context, name string) (*Playlist, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+playlistColumns+` FROM playlists WHERE name = ?`, name)
	playlist, err := scanPlaylist(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get playlist by name: %w", err)
	}
	return playlist, nil
}

// ListPlaylists returns every playlist ordered by creation time.
func (s *Store) ListPlaylists(ctx context.Context) ([]*Playlist, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+playlistColumns+` FROM playlists ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	defer rows.Close()

	var playlists []*Playlist
	for rows.Next() {
		playlist, err := scanPlaylist(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, playlist)
	}
	return playlists, rows.Err()
}

// RenamePlaylist updates a playlist's name.
func (s *Store) RenamePlaylist(ctx context.Context, id int64, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return services.Wrap(services.ErrInvalidInput, "store", "rename playlist", "name required", nil)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE playlists SET name = ? WHERE id = ?`, newName, id)
	if err != nil {
		return fmt.Errorf("rename playlist: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "store", "rename playlist", "playlist "+strconv.FormatInt(id, 10), nil)
	}
	return nil
}

// DeletePlaylist atomically removes a playlist and all its items. Deleting a
// playlist that does not exist reports not-found rather than success.
func (s *Store) DeletePlaylist(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM playlist_items WHERE playlist_id = ?`, id); err != nil {
			return fmt.Errorf("delete playlist items: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM playlists WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete playlist: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			return services.Wrap(services.ErrNotFound, "store", "delete playlist", "playlist "+strconv.FormatInt(id, 10), nil)
		}
		return nil
	})
}

// AddPlaylistItem appends a segment at the playlist tail (max position + 1).
// Adding a segment the playlist already contains is a no-op that returns the
// existing item. Existing items are never renumbered on insert.
func (s *Store) AddPlaylistItem(ctx context.Context, playlistID, segmentID int64) (*PlaylistItem, error) {
	var item *PlaylistItem
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM playlists WHERE id = ?`, playlistID).Scan(&exists); err != nil {
			return fmt.Errorf("check playlist: %w", err)
		}
		if exists == 0 {
			return services.Wrap(services.ErrNotFound, "store", "add item", "playlist "+strconv.FormatInt(playlistID, 10), nil)
		}

		row := tx.QueryRowContext(
			ctx,
			`SELECT id, playlist_id, segment_id, position FROM playlist_items WHERE playlist_id = ? AND segment_id = ?`,
			playlistID, segmentID,
		)
		existing, err := scanPlaylistItem(row)
		if err == nil {
			item = existing
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("check duplicate item: %w", err)
		}

		var maxPosition int
		if err := tx.QueryRowContext(
			ctx,
			`SELECT COALESCE(MAX(position), 0) FROM playlist_items WHERE playlist_id = ?`,
			playlistID,
		).Scan(&maxPosition); err != nil {
			return fmt.Errorf("max position: %w", err)
		}

		res, err := tx.ExecContext(
			ctx,
			`INSERT INTO playlist_items (playlist_id, segment_id, position) VALUES (?, ?, ?)`,
			playlistID, segmentID, maxPosition+1,
		)
		if err != nil {
			return fmt.Errorf("insert playlist item: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
		item = &PlaylistItem{ID: id, PlaylistID: playlistID, SegmentID: segmentID, Position: maxPosition + 1}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// RemovePlaylistItem deletes an item and closes the position gap it leaves,
// all inside one transaction so positions stay contiguous 1..N-1.
func (s *Store) RemovePlaylistItem(ctx context.Context, itemID int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT id, playlist_id, segment_id, position FROM playlist_items WHERE id = ?`, itemID)
		item, err := scanPlaylistItem(row)
		if errors.Is(err, sql.ErrNoRows) {
			return services.Wrap(services.ErrNotFound, "store", "remove item", "item "+strconv.FormatInt(itemID, 10), nil)
		}
		if err != nil {
			return fmt.Errorf("get playlist item: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM playlist_items WHERE id = ?`, itemID); err != nil {
			return fmt.Errorf("delete playlist item: %w", err)
		}
		if _, err := tx.ExecContext(
			ctx,
			`UPDATE playlist_items SET position = position - 1 WHERE playlist_id = ? AND position > ?`,
			item.PlaylistID, item.Position,
		); err != nil {
			return fmt.Errorf("renumber after removal: %w", err)
		}
		return nil
	})
}

// MovePlaylistItem relocates an item to newPosition, clamped into [1, N].
// Items between the old and new positions shift by one so the playlist is
// never observed with a gap or a duplicate position.
func (s *Store) MovePlaylistItem(ctx context.Context, itemID int64, newPosition int) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT id, playlist_id, segment_id, position FROM playlist_items WHERE id = ?`, itemID)
		item, err := scanPlaylistItem(row)
		if errors.Is(err, sql.ErrNoRows) {
			return services.Wrap(services.ErrNotFound, "store", "move item", "item "+strconv.FormatInt(itemID, 10), nil)
		}
		if err != nil {
			return fmt.Errorf("get playlist item: %w", err)
		}

		var count int
		if err := tx.QueryRowContext(
			ctx,
			`SELECT COUNT(1) FROM playlist_items WHERE playlist_id = ?`,
			item.PlaylistID,
		).Scan(&count); err != nil {
			return fmt.Errorf("count playlist items: %w", err)
		}

		if newPosition < 1 {
			newPosition = 1
		}
		if newPosition > count {
			newPosition = count
		}
		if newPosition == item.Position {
			return nil
		}

		if newPosition < item.Position {
			_, err = tx.ExecContext(
				ctx,
				`UPDATE playlist_items SET position = position + 1
                 WHERE playlist_id = ? AND position >= ? AND position < ?`,
				item.PlaylistID, newPosition, item.Position,
			)
		} else {
			_, err = tx.ExecContext(
				ctx,
				`UPDATE playlist_items SET position = position - 1
                 WHERE playlist_id = ? AND position > ? AND position <= ?`,
				item.PlaylistID, item.Position, newPosition,
			)
		}
		if err != nil {
			return fmt.Errorf("shift positions: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `UPDATE playlist_items SET position = ? WHERE id = ?`, newPosition, itemID); err != nil {
			return fmt.Errorf("set new position: %w", err)
		}
		return nil
	})
}

// PlaylistItems returns a playlist's items ordered by position.
func (s *Store) PlaylistItems(ctx context.Context, playlistID int64) ([]*PlaylistItem, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, playlist_id, segment_id, position FROM playlist_items WHERE playlist_id = ? ORDER BY position`,
		playlistID,
	)
	if err != nil {
		return nil, fmt.Errorf("list playlist items: %w", err)
	}
	defer rows.Close()

	var items []*PlaylistItem
	for rows.Next() {
		item, err := scanPlaylistItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// PlaylistSegments returns a playlist's segments in position order.
func (s *Store) PlaylistSegments(ctx context.Context, playlistID int64) ([]*Segment, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT s.id, s.article_id, s.file_path, s.duration_seconds, s.created_at
         FROM playlist_items pi
         JOIN segments s ON s.id = pi.segment_id
         WHERE pi.playlist_id = ?
         ORDER BY pi.position`,
		playlistID,
	)
	if err != nil {
		return nil, fmt.Errorf("list playlist segments: %w", err)
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
