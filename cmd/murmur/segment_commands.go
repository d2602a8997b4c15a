package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"murmur/internal/config"
	"murmur/internal/media/ffprobe"
	"murmur/internal/store"
)

func newSegmentCommand(ctx *commandContext) *cobra.Command {
	segmentCmd := &cobra.Command{
		Use:   "segment",
		Short: "Manage narrated audio segments",
	}

	segmentCmd.AddCommand(newSegmentAddCommand(ctx))
	segmentCmd.AddCommand(newSegmentListCommand(ctx))
	segmentCmd.AddCommand(newSegmentProbeCommand(ctx))

	return segmentCmd
}

func newSegmentAddCommand(ctx *commandContext) *cobra.Command {
	var noProbe bool

	cmd := &cobra.Command{
		Use:   "add <articleID> <file>",
		Short: "Register a narrated segment file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			articleID, err := parseID(args[0], "article")
			if err != nil {
				return err
			}
			path, err := config.ExpandPath(args[1])
			if err != nil {
				return fmt.Errorf("resolve segment path: %w", err)
			}
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("segment file: %w", err)
			}

			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				var duration *float64
				if !noProbe {
					result, probeErr := ffprobe.Inspect(cmd.Context(), cfg.FFprobeBinary(), path)
					if probeErr == nil {
						if seconds := result.DurationSeconds(); seconds > 0 {
							duration = &seconds
						}
					}
				}
				segment, err := st.AddSegment(cmd.Context(), articleID, path, duration)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added segment %d (article %d, duration %s)\n",
					segment.ID, segment.ArticleID, formatDuration(segment.DurationSeconds))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&noProbe, "no-probe", false, "Skip duration probing with ffprobe")
	return cmd
}

func newSegmentProbeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <segmentID>",
		Short: "Re-measure a segment's duration with ffprobe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			segmentID, err := parseID(args[0], "segment")
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				segment, err := st.GetSegment(cmd.Context(), segmentID)
				if err != nil {
					return err
				}
				if segment == nil {
					return fmt.Errorf("segment %d not found", segmentID)
				}
				result, err := ffprobe.Inspect(cmd.Context(), cfg.FFprobeBinary(), segment.FilePath)
				if err != nil {
					return fmt.Errorf("probe %s: %w", segment.FilePath, err)
				}
				seconds := result.DurationSeconds()
				if err := st.UpdateSegmentDuration(cmd.Context(), segmentID, seconds); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Segment %d duration %s\n", segmentID, formatDuration(&seconds))
				return nil
			})
		},
	}
}

func newSegmentListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var unprocessedOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered segments",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				var segments []*store.Segment
				var err error
				if unprocessedOnly {
					segments, err = st.UnprocessedSegments(cmd.Context())
				} else {
					segments, err = st.ListSegments(cmd.Context())
				}
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, segments)
				}
				if len(segments) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No segments")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(segmentHeaders, segmentRows(segments), segmentAligns))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&unprocessedOnly, "unprocessed", false, "Show only segments not yet part of a merged episode")
	return cmd
}
