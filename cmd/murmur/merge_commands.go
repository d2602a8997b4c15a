package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"murmur/internal/assembly"
	"murmur/internal/config"
	"murmur/internal/store"
)

func newMergeCommand(ctx *commandContext) *cobra.Command {
	mergeCmd := &cobra.Command{
		Use:   "merge",
		Short: "Assemble segments into a single episode file",
	}

	mergeCmd.AddCommand(newMergeIDsCommand(ctx))
	mergeCmd.AddCommand(newMergePlaylistCommand(ctx))
	mergeCmd.AddCommand(newMergeUnprocessedCommand(ctx))

	return mergeCmd
}

type mergeFlags struct {
	name           string
	silenceSeconds float64
	withIntroOutro bool
	asJSON         bool
}

func (f *mergeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "Episode display name")
	cmd.Flags().Float64Var(&f.silenceSeconds, "silence", -1, "Inter-segment silence in seconds (default: configured value)")
	cmd.Flags().BoolVar(&f.withIntroOutro, "intro-outro", false, "Prepend the intro clip and append the outro clip")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "Output as JSON")
}

func (f *mergeFlags) options() assembly.MergeOptions {
	opts := assembly.DefaultMergeOptions()
	opts.SilenceSeconds = f.silenceSeconds
	opts.WithIntroOutro = f.withIntroOutro
	return opts
}

func newMergeIDsCommand(ctx *commandContext) *cobra.Command {
	var flags mergeFlags

	cmd := &cobra.Command{
		Use:   "ids <segmentID...>",
		Short: "Merge an explicit list of segments in the given order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			segmentIDs, err := parseIDs(args, "segment")
			if err != nil {
				return err
			}
			return ctx.withAssembler(func(cfg *config.Config, st *store.Store, asm *assembly.Assembler) error {
				outcome := asm.MergeByIDs(cmd.Context(), segmentIDs, flags.name, flags.options())
				return reportOutcome(cmd, outcome, flags.asJSON)
			})
		},
	}

	flags.register(cmd)
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newMergePlaylistCommand(ctx *commandContext) *cobra.Command {
	var flags mergeFlags

	cmd := &cobra.Command{
		Use:   "playlist <playlist>",
		Short: "Merge a playlist's segments in playback order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withAssembler(func(cfg *config.Config, st *store.Store, asm *assembly.Assembler) error {
				playlist, err := resolvePlaylist(cmd, st, args[0])
				if err != nil {
					return err
				}
				outcome := asm.MergePlaylist(cmd.Context(), playlist.ID, flags.name, flags.options())
				return reportOutcome(cmd, outcome, flags.asJSON)
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func newMergeUnprocessedCommand(ctx *commandContext) *cobra.Command {
	var flags mergeFlags

	cmd := &cobra.Command{
		Use:   "unprocessed",
		Short: "Merge every segment not yet part of an episode",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withAssembler(func(cfg *config.Config, st *store.Store, asm *assembly.Assembler) error {
				outcome := asm.MergeUnprocessed(cmd.Context(), flags.name, flags.options())
				return reportOutcome(cmd, outcome, flags.asJSON)
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func reportOutcome(cmd *cobra.Command, outcome assembly.Outcome, asJSON bool) error {
	if asJSON {
		payload := map[string]any{
			"status": outcome.Status,
			"state":  outcome.State,
		}
		if outcome.Merged != nil {
			payload["merged"] = outcome.Merged
		}
		if outcome.Reason != "" {
			payload["reason"] = outcome.Reason
		}
		if outcome.Err != nil {
			payload["error"] = outcome.Err.Error()
			payload["error_kind"] = outcome.ErrorKind()
		}
		if err := writeJSON(cmd, payload); err != nil {
			return err
		}
		if outcome.Failed() {
			return outcome.Err
		}
		return nil
	}

	out := cmd.OutOrStdout()
	switch outcome.Status {
	case assembly.StatusSucceeded:
		merged := outcome.Merged
		fmt.Fprintf(out, "Merged %d segments into %s\n", len(merged.SourceSegmentIDs), merged.FilePath)
		fmt.Fprintf(out, "Episode %d: %s (duration %s)\n", merged.ID, merged.Name, formatDuration(merged.DurationSeconds))
		return nil
	case assembly.StatusSkipped:
		fmt.Fprintf(out, "Nothing to merge: %s\n", outcome.Reason)
		return nil
	default:
		return outcome.Err
	}
}
