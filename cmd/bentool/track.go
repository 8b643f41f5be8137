package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/srg/bentool/internal/bonderr"
	"github.com/srg/bentool/internal/tracker"
)

var (
	flagTrackDump string
	flagTrackLoad string
)

var trackCmd = &cobra.Command{
	Use:   "track [--dump FILE | --load FILE]",
	Short: "Run the merge engine and print reconstructed device transitions",
	Long: `Runs the merge engine (C6) to a fixpoint over the current Stream
Store and prints every RPI/AEM/BDA transition (C7). --load replaces the
Store's contents from a CSV file before tracking; --dump writes the
Store's contents to a CSV file afterward.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagTrackDump != "" && flagTrackLoad != "" {
			return &bonderr.ConfigError{Field: "--dump/--load", Err: errDumpAndLoad}
		}

		if flagTrackLoad != "" {
			f, err := os.Open(flagTrackLoad)
			if err != nil {
				return &bonderr.DataError{Detail: "open " + flagTrackLoad, Err: err}
			}
			n, err := app.eng.Load(f)
			f.Close()
			if err != nil {
				return err
			}
			printf(cmd, "loaded %d packet(s) from %s\n", n, flagTrackLoad)
		}

		merges := app.eng.Track(tracker.Options{})
		printf(cmd, "%d merge(s) performed\n", merges)
		app.eng.Report(cmd.OutOrStdout())

		if flagTrackDump != "" {
			f, err := os.Create(flagTrackDump)
			if err != nil {
				return &bonderr.DataError{Detail: "create " + flagTrackDump, Err: err}
			}
			err = app.eng.Dump(f)
			f.Close()
			if err != nil {
				return err
			}
			printf(cmd, "dumped Store to %s\n", flagTrackDump)
		}

		return nil
	},
}

func init() {
	trackCmd.Flags().StringVar(&flagTrackDump, "dump", "", "write the Stream Store to this CSV file after tracking")
	trackCmd.Flags().StringVar(&flagTrackLoad, "load", "", "replace the Stream Store from this CSV file before tracking")
}
