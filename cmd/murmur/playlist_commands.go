package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"murmur/internal/config"
	"murmur/internal/store"
)

func newPlaylistCommand(ctx *commandContext) *cobra.Command {
	playlistCmd := &cobra.Command{
		Use:   "playlist",
		Short: "Manage ordered playlists of segments",
	}

	playlistCmd.AddCommand(newPlaylistCreateCommand(ctx))
	playlistCmd.AddCommand(newPlaylistListCommand(ctx))
	playlistCmd.AddCommand(newPlaylistShowCommand(ctx))
	playlistCmd.AddCommand(newPlaylistRenameCommand(ctx))
	playlistCmd.AddCommand(newPlaylistDeleteCommand(ctx))
	playlistCmd.AddCommand(newPlaylistAddCommand(ctx))
	playlistCmd.AddCommand(newPlaylistRemoveCommand(ctx))
	playlistCmd.AddCommand(newPlaylistMoveCommand(ctx))

	return playlistCmd
}

func newPlaylistCreateCommand(ctx *commandContext) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				playlist, err := st.CreatePlaylist(cmd.Context(), args[0], description)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created playlist %d (%s)\n", playlist.ID, playlist.Name)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Playlist description")
	return cmd
}

func newPlaylistListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List playlists",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				playlists, err := st.ListPlaylists(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, playlists)
				}
				if len(playlists) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No playlists")
					return nil
				}
				rows := make([][]string, 0, len(playlists))
				for _, playlist := range playlists {
					items, err := st.PlaylistItems(cmd.Context(), playlist.ID)
					if err != nil {
						return err
					}
					rows = append(rows, []string{
						strconv.FormatInt(playlist.ID, 10),
						playlist.Name,
						strconv.Itoa(len(items)),
						formatTime(playlist.CreatedAt),
					})
				}
				table := renderTable(
					[]string{"ID", "Name", "Items", "Created"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newPlaylistShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <playlist>",
		Short: "Show a playlist's segments in playback order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				playlist, err := resolvePlaylist(cmd, st, args[0])
				if err != nil {
					return err
				}
				items, err := st.PlaylistItems(cmd.Context(), playlist.ID)
				if err != nil {
					return err
				}
				segments, err := st.PlaylistSegments(cmd.Context(), playlist.ID)
				if err != nil {
					return err
				}

				if asJSON {
					return writeJSON(cmd, map[string]any{
						"playlist": playlist,
						"items":    items,
						"segments": segments,
					})
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Playlist %d: %s\n", playlist.ID, playlist.Name)
				if strings.TrimSpace(playlist.Description) != "" {
					fmt.Fprintf(out, "Description: %s\n", playlist.Description)
				}
				if len(items) == 0 {
					fmt.Fprintln(out, "Playlist is empty")
					return nil
				}
				rows := make([][]string, 0, len(items))
				for i, item := range items {
					rows = append(rows, []string{
						strconv.Itoa(item.Position),
						strconv.FormatInt(item.ID, 10),
						strconv.FormatInt(segments[i].ID, 10),
						formatDuration(segments[i].DurationSeconds),
						segments[i].FilePath,
					})
				}
				table := renderTable(
					[]string{"Pos", "Item", "Segment", "Duration", "File"},
					rows,
					[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignLeft},
				)
				fmt.Fprintln(out, table)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newPlaylistRenameCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <playlistID> <newName>",
		Short: "Rename a playlist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			playlistID, err := parseID(args[0], "playlist")
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				if err := st.RenamePlaylist(cmd.Context(), playlistID, args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed playlist %d to %s\n", playlistID, args[1])
				return nil
			})
		},
	}
}

func newPlaylistDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <playlistID>",
		Short: "Delete a playlist and its orderings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			playlistID, err := parseID(args[0], "playlist")
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				if err := st.DeletePlaylist(cmd.Context(), playlistID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted playlist %d\n", playlistID)
				return nil
			})
		},
	}
}

func newPlaylistAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <playlistID> <segmentID...>",
		Short: "Append segments to a playlist",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			playlistID, err := parseID(args[0], "playlist")
			if err != nil {
				return err
			}
			segmentIDs, err := parseIDs(args[1:], "segment")
			if err != nil {
				return err
			}
			return ctx.withLockedStore(func(cfg *config.Config, st *store.Store) error {
				out := cmd.OutOrStdout()
				for _, segmentID := range segmentIDs {
					item, err := st.AddPlaylistItem(cmd.Context(), playlistID, segmentID)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Segment %d at position %d\n", segmentID, item.Position)
				}
				return nil
			})
		},
	}
}

func newPlaylistRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <itemID>",
		Short: "Remove an ordering item from its playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := parseID(args[0], "item")
			if err != nil {
				return err
			}
			return ctx.withLockedStore(func(cfg *config.Config, st *store.Store) error {
				if err := st.RemovePlaylistItem(cmd.Context(), itemID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed item %d\n", itemID)
				return nil
			})
		},
	}
}

func newPlaylistMoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "move <itemID> <position>",
		Short: "Move an ordering item to a new position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := parseID(args[0], "item")
			if err != nil {
				return err
			}
			position, err := strconv.Atoi(strings.TrimSpace(args[1]))
			if err != nil {
				return fmt.Errorf("invalid position %q", args[1])
			}
			return ctx.withLockedStore(func(cfg *config.Config, st *store.Store) error {
				if err := st.MovePlaylistItem(cmd.Context(), itemID, position); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Moved item %d to position %d\n", itemID, position)
				return nil
			})
		},
	}
}
