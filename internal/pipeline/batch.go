package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"go.uber.org/multierr"

	"github.com/AnyUserName/hippo-cli/internal/failure"
	"github.com/AnyUserName/hippo-cli/internal/metrics"
	"github.com/AnyUserName/hippo-cli/internal/profile"
	"github.com/AnyUserName/hippo-cli/internal/report"
)

// Config holds all parameters for a batch run.
type Config struct {
	InputDir  string
	OutputDir string // defaults to InputDir
	Profile   profile.Profile
	Workers   int // defaults to runtime.NumCPU()
	Logger    log.Logger
	Metrics   *metrics.Collector
}

// Pipeline converts every PNG below a directory.
type Pipeline struct {
	cfg  Config
	conv *Converter
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = cfg.InputDir
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewNopLogger()
	}
	conv := NewConverter()
	conv.Logger = cfg.Logger
	conv.Metrics = cfg.Metrics
	return &Pipeline{cfg: cfg, conv: conv}
}

// Run converts every discovered PNG and returns the report. Partial
// failures are recorded in the report only. Run returns an error when no
// PNG is found, when every conversion failed, or when ctx was cancelled
// before all files were scheduled; running conversions always finish.
func (p *Pipeline) Run(ctx context.Context) (*report.Report, error) {
	logger := p.cfg.Logger

	sources, err := ScanPNGs(p.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no png files found in %s", p.cfg.InputDir)
	}
	level.Info(logger).Log("msg", "found images", "count", len(sources), "dir", p.cfg.InputDir,
		"workers", p.cfg.Workers, "quality", int(p.cfg.Profile.Quality))

	entries := make([]report.Entry, len(sources))
	failed := make([]error, len(sources))
	tasks := make([]*Task, len(sources))
	sem := make(chan struct{}, p.cfg.Workers)
	scheduled := 0
	claimed := make(map[string]string) // output rel path -> input rel path

schedule:
	for i, src := range sources {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break schedule
		case sem <- struct{}{}: // acquire
		}
		scheduled++

		rel := src.Key + "." + Extension
		entries[i] = report.Entry{Input: src.RelPath, Output: rel, InputSize: src.Size}
		out := filepath.Join(p.cfg.OutputDir, filepath.FromSlash(rel))
		if prev, ok := claimed[rel]; ok {
			failed[i] = failure.Encodef(failure.IO, out, "conflicting output: already written for %s", prev)
		} else if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			failed[i] = failure.Wrap(failure.Encode, failure.IO, out, err)
		}
		if failed[i] != nil {
			level.Warn(logger).Log("msg", "conversion skipped", "input", src.RelPath, "err", failed[i])
			<-sem
			continue
		}
		claimed[rel] = src.RelPath

		level.Debug(logger).Log("msg", "processing", "input", src.RelPath)
		t := Submit(p.conv, Job{Input: src.AbsPath, Output: out, Quality: p.cfg.Profile.Quality})
		tasks[i] = t
		go func() {
			<-t.Done()
			<-sem // release
		}()
	}

	r := report.New(p.cfg.Profile.Name, int(p.cfg.Profile.Quality))
	r.Workers = p.cfg.Workers

	var errs error
	for i := 0; i < scheduled; i++ {
		e := entries[i]
		if t := tasks[i]; t != nil {
			res, err := t.Wait()
			if err != nil {
				failed[i] = err
			} else {
				e.Width, e.Height = res.Dimensions.Width, res.Dimensions.Height
				e.OutputSize = res.OutputSize
				e.Hash = res.Digest
				e.DurationMS = res.Duration.Milliseconds()
			}
		}
		if err := failed[i]; err != nil {
			e.Output = ""
			e.Fail(err)
			errs = multierr.Append(errs, err)
		}
		r.Add(e)
	}
	r.Finalize()

	level.Info(logger).Log("msg", "batch finished", "converted", r.Stats.Converted, "failed", r.Stats.Failed,
		"input_bytes", r.Stats.TotalInputBytes, "output_bytes", r.Stats.TotalOutputBytes)

	if scheduled < len(sources) {
		return r, fmt.Errorf("interrupted after %d of %d files: %w", scheduled, len(sources), ctx.Err())
	}
	if r.Stats.Converted == 0 {
		return r, fmt.Errorf("all %d conversions failed: %w", r.Stats.Failed, errs)
	}
	if r.Stats.Failed > 0 {
		level.Warn(logger).Log("msg", "some images had errors", "failed", r.Stats.Failed, "total", len(sources))
	}
	return r, nil
}
