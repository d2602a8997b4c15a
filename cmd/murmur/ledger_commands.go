package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"murmur/internal/config"
	"murmur/internal/media/ffprobe"
	"murmur/internal/store"
)

func newLedgerCommand(ctx *commandContext) *cobra.Command {
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect produced episodes",
	}

	ledgerCmd.AddCommand(newLedgerListCommand(ctx))
	ledgerCmd.AddCommand(newLedgerShowCommand(ctx))
	ledgerCmd.AddCommand(newLedgerRenameCommand(ctx))
	ledgerCmd.AddCommand(newLedgerProbeCommand(ctx))

	return ledgerCmd
}

func newLedgerListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List merged episodes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				merged, err := st.ListMerged(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, merged)
				}
				if len(merged) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No merged episodes")
					return nil
				}
				rows := make([][]string, 0, len(merged))
				for _, episode := range merged {
					rows = append(rows, []string{
						strconv.FormatInt(episode.ID, 10),
						episode.Name,
						strconv.Itoa(len(episode.SourceSegmentIDs)),
						formatDuration(episode.DurationSeconds),
						formatTime(episode.CreatedAt),
					})
				}
				table := renderTable(
					[]string{"ID", "Name", "Segments", "Duration", "Created"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newLedgerShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <episodeID>",
		Short: "Show one merged episode and its source segments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			episodeID, err := parseID(args[0], "episode")
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				episode, err := st.GetMerged(cmd.Context(), episodeID)
				if err != nil {
					return err
				}
				if episode == nil {
					return fmt.Errorf("episode %d not found", episodeID)
				}
				if asJSON {
					return writeJSON(cmd, episode)
				}

				out := cmd.OutOrStdout()
				_, statErr := os.Stat(episode.FilePath)
				fmt.Fprintf(out, "Episode %d: %s\n", episode.ID, episode.Name)
				fmt.Fprintf(out, "File:       %s (present: %s)\n", episode.FilePath, yesNo(statErr == nil))
				fmt.Fprintf(out, "Duration:   %s\n", formatDuration(episode.DurationSeconds))
				fmt.Fprintf(out, "Created:    %s\n", formatTime(episode.CreatedAt))
				fmt.Fprintf(out, "Segments:   %s\n", formatIDList(episode.SourceSegmentIDs))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newLedgerProbeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <episodeID>",
		Short: "Re-measure an episode's duration with ffprobe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			episodeID, err := parseID(args[0], "episode")
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				episode, err := st.GetMerged(cmd.Context(), episodeID)
				if err != nil {
					return err
				}
				if episode == nil {
					return fmt.Errorf("episode %d not found", episodeID)
				}
				result, err := ffprobe.Inspect(cmd.Context(), cfg.FFprobeBinary(), episode.FilePath)
				if err != nil {
					return fmt.Errorf("probe %s: %w", episode.FilePath, err)
				}
				seconds := result.DurationSeconds()
				if err := st.UpdateMergedDuration(cmd.Context(), episodeID, seconds); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Episode %d duration %s\n", episodeID, formatDuration(&seconds))
				return nil
			})
		},
	}
}

func newLedgerRenameCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <episodeID> <newName>",
		Short: "Rename a merged episode",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			episodeID, err := parseID(args[0], "episode")
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				if err := st.RenameMerged(cmd.Context(), episodeID, args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed episode %d to %s\n", episodeID, args[1])
				return nil
			})
		},
	}
}
