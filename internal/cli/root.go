package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pgetl",
	Short: "Load Sparkify song and event-log JSON into PostgreSQL",
	Long: `pgetl reads song metadata files and event log files, reshapes them into a
star schema and inserts the rows into PostgreSQL:

  songs, artists, users, time   dimension tables
  songplays                     fact table, one row per NextSong event

Each input file is loaded in its own transaction. The first bad file stops
the run; files loaded before it stay committed.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Database connection failed
  12 - User denied approval
  13 - SQL execution failed while loading a file
  14 - Input file could not be parsed (bad JSON or missing key)`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	// -h is taken by --host, as in psql.
	rootCmd.PersistentFlags().Bool("help", false, "Help for pgetl")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
