package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"github.com/AnyUserName/hippo-cli/internal/metrics"
	"github.com/AnyUserName/hippo-cli/internal/pipeline"
	"github.com/AnyUserName/hippo-cli/internal/profile"
	"github.com/AnyUserName/hippo-cli/internal/report"
)

// reportName is the default report file inside the output directory.
const reportName = "hippo.report.json"

var (
	batchOutDir  string
	batchProfile string
	batchWorkers int
	batchQuality int
	batchReport  string
	batchMetrics string
)

var batchCmd = &cobra.Command{
	Use:   "batch <input_dir>",
	Short: "Convert every PNG below a directory",
	Long: `Scans input directory for .png files (hidden directories are skipped),
converts each one to .hippo in parallel, and writes a JSON report.

Outputs mirror the input tree: <input_dir>/a/b.png becomes <out>/a/b.hippo.
Interrupting the run stops new conversions; started ones finish.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchOutDir, "out", "o", "", "output directory (default: alongside inputs)")
	batchCmd.Flags().StringVarP(&batchProfile, "profile", "p", profile.Default, "quality profile")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	batchCmd.Flags().IntVarP(&batchQuality, "quality", "q", 0, "quality 1-100 (default from profile)")
	batchCmd.Flags().StringVar(&batchReport, "report", "", "report path (default <out>/"+reportName+")")
	batchCmd.Flags().StringVar(&batchMetrics, "metrics", "", "write Prometheus metrics to this textfile")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	start := time.Now()

	prof, err := resolveProfile(cmd, batchProfile, batchQuality)
	if err != nil {
		return err
	}

	absInput, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput := absInput
	if batchOutDir != "" {
		if absOutput, err = filepath.Abs(batchOutDir); err != nil {
			return fmt.Errorf("resolve output path: %w", err)
		}
	}
	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	reportPath := batchReport
	if reportPath == "" {
		reportPath = filepath.Join(absOutput, reportName)
	}

	level.Debug(logger).Log("msg", "batch", "input", absInput, "output", absOutput,
		"profile", prof.Name, "quality", int(prof.Quality))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var m *metrics.Collector
	if batchMetrics != "" {
		m = metrics.New()
	}

	p := pipeline.New(pipeline.Config{
		InputDir:  absInput,
		OutputDir: absOutput,
		Profile:   prof,
		Workers:   batchWorkers,
		Logger:    logger,
		Metrics:   m,
	})
	r, runErr := p.Run(ctx)
	if r == nil {
		return fmt.Errorf("pipeline: %w", runErr)
	}

	if err := report.WriteJSON(r, reportPath); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := m.WriteTextfile(batchMetrics); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}

	printBatchReport(cmd.OutOrStdout(), r, reportPath, time.Since(start))

	if runErr != nil {
		if ctx.Err() == context.Canceled {
			return fmt.Errorf("interrupted: %w", runErr)
		}
		return fmt.Errorf("pipeline: %w", runErr)
	}
	return nil
}

func printBatchReport(w io.Writer, r *report.Report, reportPath string, elapsed time.Duration) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "╔══════════════════════════════════════════════════╗")
	fmt.Fprintln(w, "║              hippo batch complete                ║")
	fmt.Fprintln(w, "╚══════════════════════════════════════════════════╝")
	fmt.Fprintln(w)

	s := r.Stats
	ratio := float64(0)
	if s.TotalInputBytes > 0 {
		ratio = float64(s.TotalOutputBytes) / float64(s.TotalInputBytes) * 100
	}

	fmt.Fprintf(w, "  Converted:   %d\n", s.Converted)
	fmt.Fprintf(w, "  Failed:      %d\n", s.Failed)
	fmt.Fprintf(w, "  Input size:  %s\n", formatBytes(s.TotalInputBytes))
	fmt.Fprintf(w, "  Output size: %s\n", formatBytes(s.TotalOutputBytes))
	fmt.Fprintf(w, "  Ratio:       %.1f%% of original\n", ratio)
	fmt.Fprintf(w, "  Profile:     %s (q%d)\n", r.Profile, r.Quality)
	fmt.Fprintf(w, "  Workers:     %d\n", r.Workers)
	fmt.Fprintf(w, "  Time:        %s\n", elapsed.Round(time.Millisecond))
	fmt.Fprintln(w)

	// Top 10 heaviest inputs.
	var done []report.Entry
	for _, e := range r.Entries {
		if !e.Failed() {
			done = append(done, e)
		}
	}
	if len(done) > 0 {
		sort.SliceStable(done, func(i, j int) bool {
			return done[i].InputSize > done[j].InputSize
		})
		n := min(len(done), 10)
		fmt.Fprintf(w, "  Top %d heaviest (png → hippo):\n", n)
		for _, e := range done[:n] {
			saved := float64(0)
			if e.InputSize > 0 {
				saved = (1 - float64(e.OutputSize)/float64(e.InputSize)) * 100
			}
			fmt.Fprintf(w, "    %-40s %8s → %8s  (%+.0f%%)\n",
				truncKey(e.Input, 40),
				formatBytes(e.InputSize),
				formatBytes(e.OutputSize),
				-saved,
			)
		}
		fmt.Fprintln(w)
	}

	if s.Failed > 0 {
		fmt.Fprintf(w, "  Failures (%d):\n", s.Failed)
		for _, e := range r.Entries {
			if e.Failed() {
				fmt.Fprintf(w, "    ✗ %-40s %s\n", truncKey(e.Input, 40), e.Error.Kind)
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "  Report:      %s\n", reportPath)
	fmt.Fprintln(w)
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
