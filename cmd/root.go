package cmd

import (
	"fmt"
	"io"
	"runtime"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	verbose bool
	logJSON bool

	logger log.Logger = log.NewNopLogger()
)

var rootCmd = &cobra.Command{
	Use:   "hippo",
	Short: "Convert 8-bit RGBA PNG images to .hippo files",
	Long: `hippo converts PNG images to .hippo, a single-frame lossy format that
is a baseline JPEG bitstream under its own extension. The alpha channel is
dropped, not composited.

Only non-interlaced 8-bit RGBA PNGs are accepted; everything else is
reported and skipped.`,
	Version:      version,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		logger = newLogger(cmd.ErrOrStderr(), verbose, logJSON)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON instead of logfmt")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"hippo %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// newLogger builds the process logger. Debug lines need --verbose.
func newLogger(w io.Writer, verbose, asJSON bool) log.Logger {
	var l log.Logger
	if asJSON {
		l = log.NewJSONLogger(log.NewSyncWriter(w))
	} else {
		l = log.NewLogfmtLogger(log.NewSyncWriter(w))
	}
	l = log.With(l, "ts", log.DefaultTimestampUTC)
	if verbose {
		return level.NewFilter(l, level.AllowDebug())
	}
	return level.NewFilter(l, level.AllowInfo())
}
