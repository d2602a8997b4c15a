package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"murmur/internal/config"
	"murmur/internal/store"
)

func newDBCommand(ctx *commandContext) *cobra.Command {
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Catalog database utilities",
	}

	dbCmd.AddCommand(newDBHealthCommand(ctx))

	return dbCmd
}

func newDBHealthCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check catalog database health",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				health, err := st.CheckHealth(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, health)
				}
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				fmt.Fprintf(out, "Database: %s\n", health.DBPath)
				fmt.Fprintln(out, renderStatusLine("Exists", boolStatus(health.DatabaseExists), "", colorize))
				fmt.Fprintln(out, renderStatusLine("Readable", boolStatus(health.DatabaseReadable), "", colorize))
				fmt.Fprintln(out, renderStatusLine("Integrity", boolStatus(health.IntegrityCheck), "", colorize))
				fmt.Fprintln(out, renderStatusLine("Tables", statusInfo, strings.Join(health.TablesPresent, ", "), colorize))
				if len(health.MissingTables) > 0 {
					fmt.Fprintln(out, renderStatusLine("Missing", statusError, strings.Join(health.MissingTables, ", "), colorize))
				}
				if health.Error != "" {
					fmt.Fprintln(out, renderStatusLine("Error", statusError, health.Error, colorize))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func boolStatus(ok bool) statusKind {
	if ok {
		return statusOK
	}
	return statusError
}
