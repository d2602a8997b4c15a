package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newAssetsCommand(ctx *commandContext) *cobra.Command {
	assetsCmd := &cobra.Command{
		Use:   "assets",
		Short: "Inspect fixed intro/outro assets",
	}

	assetsCmd.AddCommand(newAssetsStatusCommand(ctx))

	return assetsCmd
}

func newAssetsStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the intro and outro clips exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			printAssetStatus(out, "Intro", cfg.Assembly.IntroFile, colorize)
			printAssetStatus(out, "Outro", cfg.Assembly.OutroFile, colorize)
			return nil
		},
	}
}

func printAssetStatus(out io.Writer, label, path string, colorize bool) {
	kind := statusOK
	message := path
	if _, err := os.Stat(path); err != nil {
		kind = statusWarn
		message = path + " (missing)"
	}
	fmt.Fprintln(out, renderStatusLine(label, kind, message, colorize))
}
