package cli

import "github.com/spf13/cobra"

// basePathFlag is the directory holding one store's on-disk artifacts,
// shared by every subcommand below. It is read into local variables per
// command invocation rather than a package-level global, so no command
// carries state across runs.
const defaultBasePath = "."

func NewRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journaldoc",
		Short: "Inspect and drive a journaled document store",
		RunE:  func(c *cobra.Command, _ []string) error { return c.Help() },
	}
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newPutCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newDumpCmd())
	cmd.AddCommand(newSnapshotCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newBenchCmd())
	return cmd
}
