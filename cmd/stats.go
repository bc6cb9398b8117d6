package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/hippo-cli/internal/report"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_report>",
	Short: "Display statistics for a batch report",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	r, _, err := loadReport(args[0])
	if err != nil {
		return err
	}
	printStats(cmd.OutOrStdout(), r)
	return nil
}

// loadReport reads a report file, or the default report inside a directory.
// It returns the report and the directory its paths are relative to.
func loadReport(path string) (*report.Report, string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		path = filepath.Join(path, reportName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read report: %w", err)
	}

	var r report.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, "", fmt.Errorf("parse report: %w", err)
	}
	return &r, filepath.Dir(path), nil
}

func printStats(w io.Writer, r *report.Report) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Report version:   %d\n", r.Version)
	fmt.Fprintf(w, "  Generated:        %s\n", r.GeneratedAt)
	fmt.Fprintf(w, "  Profile:          %s (q%d)\n", r.Profile, r.Quality)
	if r.Workers > 0 {
		fmt.Fprintf(w, "  Workers:          %d\n", r.Workers)
	}
	fmt.Fprintln(w)

	s := r.Stats
	fmt.Fprintf(w, "  Converted:        %d\n", s.Converted)
	fmt.Fprintf(w, "  Failed:           %d\n", s.Failed)
	fmt.Fprintf(w, "  Input size:       %s\n", formatBytes(s.TotalInputBytes))
	fmt.Fprintf(w, "  Output size:      %s\n", formatBytes(s.TotalOutputBytes))

	var convertedInput, totalMS int64
	var pixels int64
	for _, e := range r.Entries {
		if e.Failed() {
			continue
		}
		convertedInput += e.InputSize
		totalMS += e.DurationMS
		pixels += int64(e.Width) * int64(e.Height)
	}
	if convertedInput > 0 {
		ratio := float64(s.TotalOutputBytes) / float64(convertedInput) * 100
		fmt.Fprintf(w, "  Compression:      %.1f%% of original\n", ratio)
	}
	if pixels > 0 {
		fmt.Fprintf(w, "  Bits per pixel:   %.2f\n", float64(s.TotalOutputBytes*8)/float64(pixels))
	}
	if s.Converted > 0 {
		fmt.Fprintf(w, "  Avg duration:     %d ms\n", totalMS/int64(s.Converted))
	}
	fmt.Fprintln(w)

	// Failure breakdown by kind.
	kinds := map[string]int{}
	for _, e := range r.Entries {
		if e.Failed() {
			kinds[e.Error.Kind]++
		}
	}
	if len(kinds) > 0 {
		var names []string
		for k := range kinds {
			names = append(names, k)
		}
		sort.Strings(names)
		fmt.Fprintln(w, "  Failure breakdown:")
		for _, k := range names {
			fmt.Fprintf(w, "    %-20s %4d files\n", k, kinds[k])
		}
		fmt.Fprintln(w)
	}

	// Warnings.
	var warnings []string
	for _, e := range r.Entries {
		if !e.Failed() && e.OutputSize > e.InputSize {
			warnings = append(warnings, fmt.Sprintf("%q grew from %s to %s",
				e.Input, formatBytes(e.InputSize), formatBytes(e.OutputSize)))
		}
	}
	if len(warnings) > 0 {
		fmt.Fprintf(w, "  Warnings (%d):\n", len(warnings))
		for _, msg := range warnings {
			fmt.Fprintf(w, "    ⚠ %s\n", msg)
		}
		fmt.Fprintln(w)
	}
}
