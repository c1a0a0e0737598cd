// Copyright (c) 2021 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package cmd implements the deltacost command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/uber-go/tally"

	"github.com/m3db/deltacost/src/deltacost/config"
	"github.com/m3db/deltacost/src/deltacost/report"
	"github.com/m3db/deltacost/src/deltacost/sample"
	"github.com/m3db/deltacost/src/deltacost/tuner"
	xconfig "github.com/m3db/deltacost/src/x/config"
	"github.com/m3db/deltacost/src/x/instrument"
)

var errNoConfigFiles = errors.New("at least one configuration file is required, use -f")

type globalFlags struct {
	configFiles []string
	format      string
	profile     string
	profilePath string
}

func (f globalFlags) reportFormat() (report.Format, error) {
	return report.ParseFormat(f.format)
}

// NewRootCommand returns the deltacost command with every subcommand.
func NewRootCommand() *cobra.Command {
	var flags globalFlags
	root := &cobra.Command{
		Use:   "deltacost",
		Short: "Tune bit widths of delta encoded object state",
		Long: `deltacost evaluates two-tier small/large variable width encodings of recorded
object state deltas and ranks bit width configurations by total cost.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&flags.format, "format", report.TextFormat.String(),
		"report format: text, json or yaml")
	root.PersistentFlags().StringVar(&flags.profile, "profile", "",
		"write a cpu or mem profile of the run")
	root.PersistentFlags().StringVar(&flags.profilePath, "profile-path", ".",
		"directory profiles are written to")

	root.AddCommand(
		newSearchCommand(&flags),
		newCoverageCommand(&flags),
		newHistogramCommand(&flags),
	)
	return root
}

func addConfigFlag(cmd *cobra.Command, flags *globalFlags) {
	cmd.Flags().StringSliceVarP(&flags.configFiles, "config", "f", nil,
		"configuration files, later files override earlier ones")
}

// startProfile starts the requested profile and returns the function that
// stops it.
func startProfile(flags *globalFlags) (func(), error) {
	var mode func(*profile.Profile)
	switch flags.profile {
	case "":
		return func() {}, nil
	case "cpu":
		mode = profile.CPUProfile
	case "mem":
		mode = profile.MemProfile
	default:
		return nil, fmt.Errorf("unknown profile: %q", flags.profile)
	}
	p := profile.Start(mode, profile.ProfilePath(flags.profilePath), profile.Quiet, profile.NoShutdownHook)
	return p.Stop, nil
}

// runConfigured loads the configuration, builds the tuner and writes the
// report produced by fn.
func runConfigured(
	out io.Writer,
	flags *globalFlags,
	fn func(context.Context, *tuner.Tuner) (report.Report, error),
) error {
	if len(flags.configFiles) == 0 {
		return errNoConfigFiles
	}
	format, err := flags.reportFormat()
	if err != nil {
		return err
	}

	var cfg config.Configuration
	if err := xconfig.LoadFiles(&cfg, flags.configFiles...); err != nil {
		return fmt.Errorf("unable to load config: %w", err)
	}

	logger, err := cfg.Logging.BuildLogger()
	if err != nil {
		return fmt.Errorf("unable to create logger: %w", err)
	}
	defer logger.Sync() // nolint: errcheck

	stop, err := startProfile(flags)
	if err != nil {
		return err
	}
	defer stop()

	iOpts := instrument.NewOptions().
		SetLogger(logger).
		SetMetricsScope(tally.NoopScope)
	source := sample.NewTextSource(cfg.Paths(), cfg.Source.NewOptions(iOpts))
	t, err := tuner.New(source, cfg, iOpts)
	if err != nil {
		return err
	}

	r, runErr := fn(context.Background(), t)
	if len(r.Fields) > 0 || len(r.Coverage) > 0 {
		if err := report.Write(out, r, format); err != nil {
			return err
		}
	}
	return runErr
}
