package main

import (
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "equipbot",
		Short: "Equipment catalog lookup bot and administration API",
		Long: "equipbot answers equipment price and specification lookups in Telegram\n" +
			"and exposes a JSON administration API over the same PostgreSQL catalog.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newBotCmd(),
		newAdminCmd(),
		newMigrateCmd(),
		newSeedCmd(),
	)

	return rootCmd
}
