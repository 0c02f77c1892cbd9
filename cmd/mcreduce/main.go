// mcreduce replays the meta protocol replies captured from several
// destinations and reduces them the way an all-sync route does.
//
// Each input holds the replies one destination returned for the same
// sequence of requests. For every request position the replies of all
// destinations are reduced to the worst one, which is printed or, with
// --emit, written back in wire format.
package main

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	op         string
	configFile string
	emit       bool
	tko        bool
	stats      bool
	verbose    bool
}

func newRootCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "mcreduce [flags] [ADDR=]FILE...",
		Short: "Reduce meta protocol replies from several destinations",
		Long: `Reduce meta protocol replies from several destinations.

Each FILE holds the replies one destination returned for the same sequence
of requests ("-" reads stdin). The destination is named by the optional
ADDR prefix (host:port[:protocol]), or by the file name.

For every request position the replies are reduced to the most severe one.
Destinations with fewer replies count as local errors for the missing
positions.`,
		Example: `  # Which destination failed each request?
  mcreduce cache1:11211=a.txt cache2:11211=b.txt

  # Re-emit the reduced replies of a lease-get fan-out
  mcreduce --op lease_get --emit a.txt b.txt c.txt`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd.ErrOrStderr(), opts.verbose)
			return run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), logger, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.op, "op", "get", "operation the replies answer (get, gets, lease_get, set, delete, incr, ...)")
	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", "TOML configuration file")
	cmd.Flags().BoolVar(&opts.emit, "emit", false, "write the reduced replies in wire format")
	cmd.Flags().BoolVar(&opts.tko, "tko", false, "track destination health and turn knocked out destinations into tko replies")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "log reply counters when done")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	return cmd
}

func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().Logger()
}
