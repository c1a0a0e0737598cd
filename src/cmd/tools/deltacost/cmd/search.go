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
	"context"

	"github.com/spf13/cobra"

	"github.com/m3db/deltacost/src/deltacost/report"
	"github.com/m3db/deltacost/src/deltacost/tuner"
)

func newSearchCommand(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Rank bit width configurations of every configured field",
		Long: `Search scores every small/large bit width candidate of every configured field
over its recorded samples and reports the cheapest configurations against the
absolute encoding baseline.`,
		Example: `# Search with a base configuration and a local override:
./deltacost search -f run.yaml -f override.yaml --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigured(cmd.OutOrStdout(), flags,
				func(ctx context.Context, t *tuner.Tuner) (report.Report, error) {
					return t.Search(ctx)
				})
		},
	}
	addConfigFlag(cmd, flags)
	return cmd
}
