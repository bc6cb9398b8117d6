package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/AnyUserName/hippo-cli/internal/probe"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>...",
	Short: "Describe PNG inputs and .hippo outputs",
	Long: `Prints format, dimensions, size and xxhash digest of each file. PNG
files also show their header fields and whether hippo can convert them;
JPEG and .hippo files show their frame type and whether the stream ends
with an EOI marker.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	var errs error
	for _, path := range args {
		info, err := probe.File(path)
		if info != nil {
			printInfo(w, info)
		}
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", path, err))
		}
	}
	return errs
}

func printInfo(w io.Writer, info *probe.Info) {
	format := info.Format
	if format == "" {
		format = "unknown"
	}
	fmt.Fprintf(w, "%s\n", info.Path)
	fmt.Fprintf(w, "  Format:      %s\n", format)
	if info.Format != "" {
		fmt.Fprintf(w, "  Dimensions:  %dx%d\n", info.Width, info.Height)
	}
	fmt.Fprintf(w, "  Size:        %s\n", formatBytes(info.Size))
	fmt.Fprintf(w, "  Digest:      %s\n", info.Digest)

	if h := info.PNG; h != nil {
		fmt.Fprintf(w, "  Color type:  %s\n", h.ColorType)
		fmt.Fprintf(w, "  Bit depth:   %d\n", h.BitDepth)
		fmt.Fprintf(w, "  Interlaced:  %t\n", h.Interlaced)
		fmt.Fprintf(w, "  Convertible: %t\n", h.Convertible())
	}
	if j := info.JPEG; j != nil {
		frame := "extended"
		switch {
		case j.Baseline:
			frame = "baseline"
		case j.Progressive:
			frame = "progressive"
		}
		fmt.Fprintf(w, "  Frame:       %s, %d-bit, %d components\n", frame, j.Precision, j.Components)
		fmt.Fprintf(w, "  EOI:         %t\n", j.HasEOI)
	}
	fmt.Fprintln(w)
}
