package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for siruta.
// Without a subcommand it behaves like "siruta fetch".
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "siruta",
		Short: "Download and merge the Romanian locality nomenclature",
		Long: `siruta downloads the locality nomenclature of the Romanian Ministry of
Finance (one XML document per county), converts every document to JSON and
writes all locality records, together with the county table, to data.json.

Running siruta without a subcommand is the same as running "siruta fetch"
with the same flags. Documents that cannot be downloaded or parsed are
reported on stderr and skipped.`,
		Version:       getVersion(),
		Args:          cobra.NoArgs,
		RunE:          runFetchCmd,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	addFetchFlags(cmd)

	cmd.AddCommand(NewFetchCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
