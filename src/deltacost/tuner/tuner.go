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

// Package tuner runs the configured searches and coverage analyses of a
// tuning run.
package tuner

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/m3db/deltacost/src/deltacost/config"
	"github.com/m3db/deltacost/src/deltacost/distribution"
	"github.com/m3db/deltacost/src/deltacost/report"
	"github.com/m3db/deltacost/src/deltacost/sample"
	"github.com/m3db/deltacost/src/deltacost/search"
	xerrors "github.com/m3db/deltacost/src/x/errors"
	"github.com/m3db/deltacost/src/x/instrument"
)

// Tuner loads the datasets of a run and produces reports.
type Tuner struct {
	source sample.Source
	cfg    config.Configuration
	iOpts  instrument.Options
	logger *zap.Logger
}

// New creates a tuner for a validated configuration.
func New(source sample.Source, cfg config.Configuration, iOpts instrument.Options) (*Tuner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, xerrors.NewInvalidParamsError(err)
	}
	if iOpts == nil {
		iOpts = instrument.NewOptions()
	}
	return &Tuner{
		source: source,
		cfg:    cfg,
		iOpts:  iOpts,
		logger: iOpts.Logger(),
	}, nil
}

// load reads every configured dataset concurrently, failing on the first
// load error.
func (t *Tuner) load(ctx context.Context) ([]sample.Dataset, error) {
	var (
		datasets = make([]sample.Dataset, len(t.cfg.Fields))
		g, gCtx  = errgroup.WithContext(ctx)
	)
	for i, f := range t.cfg.Fields {
		i, field := i, f.Field
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			ds, err := t.source.Load(field)
			if err != nil {
				return xerrors.Wrapf(err, "load %s", field)
			}
			summary := sample.Summarize(ds)
			t.logger.Info("loaded dataset",
				zap.Stringer("field", field),
				zap.Int("samples", summary.Samples),
				zap.Int("identical", summary.Identical))
			datasets[i] = ds
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return datasets, nil
}

// Search ranks the configurations of every field. Fields are searched one at
// a time since each search is itself parallel. A failing field does not stop
// the others; the report holds every field that succeeded and the error
// aggregates the failures.
func (t *Tuner) Search(ctx context.Context) (report.Report, error) {
	datasets, err := t.load(ctx)
	if err != nil {
		return report.Report{}, err
	}

	var (
		r     report.Report
		multi = xerrors.NewMultiError()
		opts  = t.cfg.Search.NewOptions(t.iOpts)
		topK  = t.cfg.Search.TopKOrDefault()
	)
	for i, f := range t.cfg.Fields {
		if err := ctx.Err(); err != nil {
			multi = multi.Add(err)
			break
		}
		fr, err := t.searchField(datasets[i], f, opts, topK)
		if err != nil {
			t.logger.Error("search failed", zap.Stringer("field", f.Field), zap.Error(err))
			multi = multi.Add(xerrors.Wrapf(err, "search %s", f.Field))
			continue
		}
		r.Fields = append(r.Fields, fr)
	}
	return r, multi.FinalError()
}

func (t *Tuner) searchField(
	ds sample.Dataset,
	f config.FieldConfiguration,
	opts search.Options,
	topK int,
) (report.FieldReport, error) {
	scheme, err := f.NewScheme()
	if err != nil {
		return report.FieldReport{}, err
	}
	ranges, err := f.Ranges()
	if err != nil {
		return report.FieldReport{}, err
	}
	res, err := search.Search(ds, scheme, ranges, opts)
	if err != nil {
		return report.FieldReport{}, err
	}
	return report.NewFieldReport(ds, res, topK), nil
}

// Histograms reports the coverage of the delta magnitude histogram of every
// field.
func (t *Tuner) Histograms(ctx context.Context) (report.Report, error) {
	datasets, err := t.load(ctx)
	if err != nil {
		return report.Report{}, err
	}

	var (
		r       = report.Report{Coverage: make([]report.CoverageReport, len(datasets))}
		buckets = t.cfg.Histogram.BucketsOrDefault()
		wg      sync.WaitGroup
		errs    = make([]error, len(datasets))
	)
	for i := range datasets {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Coverage[i], errs[i] = t.histogram(datasets[i], t.cfg.Fields[i], buckets)
		}()
	}
	wg.Wait()

	multi := xerrors.NewMultiError()
	for _, err := range errs {
		multi = multi.Add(err)
	}
	if err := multi.FinalError(); err != nil {
		return report.Report{}, err
	}
	return r, nil
}

func (t *Tuner) histogram(
	ds sample.Dataset,
	f config.FieldConfiguration,
	buckets int,
) (report.CoverageReport, error) {
	scheme, err := f.NewScheme()
	if err != nil {
		return report.CoverageReport{}, err
	}
	h, err := distribution.HistogramFromDataset(ds, scheme, buckets)
	if err != nil {
		return report.CoverageReport{}, xerrors.Wrapf(err, "histogram %s", f.Field)
	}
	table, err := distribution.Coverage(h.Columns())
	if err != nil {
		return report.CoverageReport{}, xerrors.Wrapf(err, "coverage %s", f.Field)
	}
	overflow := make([]uint64, h.NumAxes())
	for axis := range overflow {
		overflow[axis] = h.Overflow(axis)
	}
	return report.NewCoverageReport(f.Field.String()+" deltas", table, overflow), nil
}

// CoverageFiles reports the coverage of histogram files holding one row of
// counts per line, ordered by ascending magnitude bucket.
func CoverageFiles(paths []string, axes int, opts sample.Options) (report.Report, error) {
	if opts == nil {
		opts = sample.NewOptions()
	}
	var r report.Report
	for _, path := range paths {
		columns, err := sample.ReadColumnsFile(path, axes, opts.Delimiter())
		if err != nil {
			return report.Report{}, err
		}
		table, err := distribution.Coverage(columns)
		if err != nil {
			return report.Report{}, xerrors.Wrapf(err, "coverage %s", path)
		}
		r.Coverage = append(r.Coverage, report.NewCoverageReport(path, table, nil))
	}
	return r, nil
}
