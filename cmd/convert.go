package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/hippo-cli/internal/pipeline"
	"github.com/AnyUserName/hippo-cli/internal/profile"
	"github.com/AnyUserName/hippo-cli/internal/raster"
)

var (
	convertInput   string
	convertOutput  string
	convertQuality int
	convertProfile string
)

var convertCmd = &cobra.Command{
	Use:   "convert -i <input.png> [-o <output.hippo>]",
	Short: "Convert one PNG file to .hippo",
	Long: `Decodes an 8-bit RGBA PNG, drops its alpha channel and writes the RGB
pixels as a baseline JPEG bitstream. The output defaults to the input path
with a .hippo extension. The file appears only once it is complete.`,
	Args: cobra.NoArgs,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertInput, "input", "i", "", "input PNG file")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output file (default <input>.hippo)")
	convertCmd.Flags().IntVarP(&convertQuality, "quality", "q", 0, "quality 1-100 (default from profile)")
	convertCmd.Flags().StringVarP(&convertProfile, "profile", "p", profile.Default, "quality profile")
	convertCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, _ []string) error {
	prof, err := resolveProfile(cmd, convertProfile, convertQuality)
	if err != nil {
		return err
	}
	output := convertOutput
	if output == "" {
		output = pipeline.OutputPath(convertInput)
	}

	conv := pipeline.NewConverter()
	conv.Logger = logger
	res, err := conv.Convert(pipeline.Job{Input: convertInput, Output: output, Quality: prof.Quality})
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "  %s → %s  %s  q%d  %s  %s  (%s)\n",
		res.Input, res.Output, res.Dimensions, res.Quality,
		formatBytes(res.OutputSize), res.Digest, res.Duration.Round(time.Millisecond))
	return nil
}

// resolveProfile looks up the named profile and applies --quality when the
// flag was given. An explicit quality outside [1,100] is rejected.
func resolveProfile(cmd *cobra.Command, name string, quality int) (profile.Profile, error) {
	prof, err := profile.Get(name)
	if err != nil {
		return profile.Profile{}, err
	}
	if !cmd.Flags().Changed("quality") {
		return prof, nil
	}
	q, err := checkQuality(quality)
	if err != nil {
		return profile.Profile{}, err
	}
	return prof.WithQuality(q), nil
}

func checkQuality(q int) (raster.Quality, error) {
	if !raster.Quality(q).Valid() {
		return 0, fmt.Errorf("quality must be between %d and %d, got %d", raster.MinQuality, raster.MaxQuality, q)
	}
	return raster.Quality(q), nil
}
