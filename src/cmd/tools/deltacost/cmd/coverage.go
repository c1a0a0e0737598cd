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

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/m3db/deltacost/src/deltacost/report"
	"github.com/m3db/deltacost/src/deltacost/sample"
	"github.com/m3db/deltacost/src/deltacost/tuner"
)

func newCoverageCommand(flags *globalFlags) *cobra.Command {
	var (
		axes      int
		delimiter string
	)
	cmd := &cobra.Command{
		Use:   "coverage file...",
		Short: "Report cumulative coverage of histogram files",
		Long: `Coverage reads histogram files holding one row of counts per line, ordered by
ascending magnitude bucket, and reports the share of each axis total held by
the first 2^i-1 buckets.`,
		Example: `./deltacost coverage --axes 3 position_histogram.txt`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := flags.reportFormat()
			if err != nil {
				return err
			}
			stop, err := startProfile(flags)
			if err != nil {
				return err
			}
			defer stop()

			opts := sample.NewOptions().SetDelimiter(delimiter)
			r, err := tuner.CoverageFiles(args, axes, opts)
			if err != nil {
				return err
			}
			return report.Write(cmd.OutOrStdout(), r, format)
		},
	}
	cmd.Flags().IntVar(&axes, "axes", 3, "number of axes per line")
	cmd.Flags().StringVar(&delimiter, "delimiter", ",", "value delimiter")
	return cmd
}
