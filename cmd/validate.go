package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/hippo-cli/internal/hasher"
	"github.com/AnyUserName/hippo-cli/internal/probe"
	"github.com/AnyUserName/hippo-cli/internal/report"
)

var validateCmd = &cobra.Command{
	Use:   "validate <out_dir_or_report>",
	Short: "Validate a batch report and check its outputs on disk",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	r, baseDir, err := loadReport(args[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	errs := validateReport(r, baseDir)
	if len(errs) == 0 {
		fmt.Fprintln(w, "  ✓ Report is valid")
		fmt.Fprintf(w, "  ✓ %d outputs present and intact\n", r.Stats.Converted)
		return nil
	}

	fmt.Fprintf(w, "  ✗ Report has %d error(s):\n", len(errs))
	for _, e := range errs {
		fmt.Fprintf(w, "    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errs))
}

// validateReport checks the report's internal consistency and that each
// converted entry's output exists under baseDir with the recorded size,
// digest and dimensions.
func validateReport(r *report.Report, baseDir string) []string {
	var errs []string

	if r.Version != report.SupportedVersion {
		errs = append(errs, fmt.Sprintf("unsupported report version: %d", r.Version))
	}

	seen := map[string]bool{}
	var converted, failed int
	for _, e := range r.Entries {
		if e.Input == "" {
			errs = append(errs, "entry with empty input")
			continue
		}
		if seen[e.Input] {
			errs = append(errs, fmt.Sprintf("%q: duplicate entry", e.Input))
		}
		seen[e.Input] = true

		if e.Failed() {
			failed++
			if e.Error.Kind == "" {
				errs = append(errs, fmt.Sprintf("%q: error without kind", e.Input))
			}
			continue
		}
		converted++

		if e.Output == "" {
			errs = append(errs, fmt.Sprintf("%q: missing output path", e.Input))
			continue
		}
		if e.Width <= 0 || e.Height <= 0 {
			errs = append(errs, fmt.Sprintf("%q: invalid dimensions %dx%d", e.Input, e.Width, e.Height))
		}

		fullPath := filepath.Join(baseDir, filepath.FromSlash(e.Output))
		digest, size, err := hasher.SumFile(fullPath)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%q: output not found: %s", e.Input, e.Output))
			continue
		}
		if size != e.OutputSize {
			errs = append(errs, fmt.Sprintf("%q: size mismatch: report=%d, disk=%d", e.Input, e.OutputSize, size))
		}
		if e.Hash != "" && digest != e.Hash {
			errs = append(errs, fmt.Sprintf("%q: hash mismatch: report=%s, disk=%s", e.Input, e.Hash, digest))
		}

		info, err := probe.File(fullPath)
		switch {
		case err != nil:
			errs = append(errs, fmt.Sprintf("%q: unreadable output: %v", e.Input, err))
		case info.JPEG == nil || !info.JPEG.Baseline || !info.JPEG.HasEOI:
			errs = append(errs, fmt.Sprintf("%q: output is not a complete baseline jpeg", e.Input))
		case info.Width != e.Width || info.Height != e.Height:
			errs = append(errs, fmt.Sprintf("%q: output is %dx%d, report says %dx%d",
				e.Input, info.Width, info.Height, e.Width, e.Height))
		}
	}

	if r.Stats.Converted != converted {
		errs = append(errs, fmt.Sprintf("stats.converted mismatch: %d != %d", r.Stats.Converted, converted))
	}
	if r.Stats.Failed != failed {
		errs = append(errs, fmt.Sprintf("stats.failed mismatch: %d != %d", r.Stats.Failed, failed))
	}

	return errs
}
