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

// Package search ranks bit width configurations by the total cost of a
// dataset.
package search

import (
	"errors"
	"fmt"
	"math/bits"
	"sort"
	"time"

	"github.com/uber-go/tally"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/m3db/deltacost/src/deltacost/encoding"
	"github.com/m3db/deltacost/src/deltacost/sample"
	xerrors "github.com/m3db/deltacost/src/x/errors"
	xsync "github.com/m3db/deltacost/src/x/sync"
)

var (
	errNoCandidates = errors.New("no valid candidates in the searched ranges")
	errOverflow     = errors.New("total bits overflow")
)

type searchMetrics struct {
	candidatesEvaluated tally.Counter
	candidatesSkipped   tally.Counter
	samplesEvaluated    tally.Counter
	verifyErrors        tally.Counter
	latency             tally.Timer
}

func newSearchMetrics(scope tally.Scope) searchMetrics {
	return searchMetrics{
		candidatesEvaluated: scope.Counter("candidates-evaluated"),
		candidatesSkipped:   scope.Counter("candidates-skipped"),
		samplesEvaluated:    scope.Counter("samples-evaluated"),
		verifyErrors:        scope.Counter("verify-errors"),
		latency:             scope.Timer("search-latency"),
	}
}

// Search scores every valid candidate of the ranges over the dataset and
// returns the estimates sorted by ascending total bits.
func Search(
	ds sample.Dataset,
	scheme encoding.Scheme,
	ranges []GroupRange,
	opts Options,
) (Result, error) {
	if opts == nil {
		opts = NewOptions()
	}
	if err := opts.Validate(); err != nil {
		return Result{}, xerrors.NewInvalidParamsError(err)
	}

	var (
		iOpts   = opts.InstrumentOptions()
		logger  = iOpts.Logger().With(zap.Stringer("field", scheme.Field()))
		metrics = newSearchMetrics(iOpts.MetricsScope().SubScope("search").
			Tagged(map[string]string{"field": scheme.Field().String()}))
		layout = scheme.Layout()
		start  = time.Now()
	)

	if len(ranges) != layout.NumGroups() {
		return Result{}, xerrors.NewInvalidParamsError(fmt.Errorf(
			"%s needs %d group ranges, got %d", scheme.Field(), layout.NumGroups(), len(ranges)))
	}
	candidates, skipped, err := Candidates(layout, ranges)
	if err != nil {
		return Result{}, xerrors.NewInvalidParamsError(err)
	}
	metrics.candidatesSkipped.Inc(int64(skipped))
	if len(candidates) == 0 {
		return Result{}, errNoCandidates
	}

	deltas, err := encoding.PrepareDeltas(ds, scheme)
	if err != nil {
		return Result{}, err
	}

	hi, absolute := bits.Mul64(uint64(layout.AbsoluteCost()), uint64(deltas.Len()))
	if hi != 0 {
		return Result{}, errOverflow
	}

	pool := xsync.NewWorkerPool(opts.Concurrency())
	pool.Init()

	logger.Info("searching configurations",
		zap.Int("candidates", len(candidates)),
		zap.Int("skipped", skipped),
		zap.Int("samples", deltas.Len()),
		zap.Int("workers", pool.Size()))

	var (
		estimates = make([]BandwidthEstimate, len(candidates))
		errs      = make([]error, len(candidates))
		progress  = atomic.NewInt64(0)
		done      = make(chan struct{})
		reported  = make(chan struct{})
	)
	go func() {
		defer close(reported)
		reportProgress(logger, progress, len(candidates), iOpts.ReportInterval(), done)
	}()

	wait := xsync.ForEach(pool, len(candidates), func(i int) {
		estimates[i], errs[i] = score(layout, candidates[i], deltas)
		progress.Inc()
	})
	close(done)
	<-reported

	if err := xerrors.FirstError(errs...); err != nil {
		return Result{}, err
	}
	metrics.candidatesEvaluated.Inc(int64(len(candidates)))
	metrics.samplesEvaluated.Inc(int64(len(candidates) * deltas.Len()))

	sort.SliceStable(estimates, func(i, j int) bool {
		return estimates[i].TotalBits < estimates[j].TotalBits
	})

	result := Result{
		Estimates:    estimates,
		NumSamples:   deltas.Len(),
		AbsoluteBits: absolute,
		Skipped:      skipped,
	}
	if result.Degenerate() {
		logger.Warn("searched an empty dataset, every candidate costs zero")
	}

	if opts.VerifyBest() {
		if err := verify(ds, scheme, estimates[0]); err != nil {
			metrics.verifyErrors.Inc(1)
			return Result{}, err
		}
	}

	took := time.Since(start)
	metrics.latency.Record(took)
	logger.Info("search complete",
		zap.Stringer("best", estimates[0].Configuration),
		zap.Uint64("totalBits", estimates[0].TotalBits),
		zap.Duration("took", took),
		zap.Duration("poolWait", wait))
	return result, nil
}

func score(
	layout encoding.Layout,
	cfg encoding.Configuration,
	deltas encoding.Deltas,
) (BandwidthEstimate, error) {
	eval, err := encoding.NewEvaluator(layout, cfg)
	if err != nil {
		return BandwidthEstimate{}, err
	}
	est := BandwidthEstimate{Configuration: cfg}
	for i := 0; i < deltas.Len(); i++ {
		d, escape := deltas.At(i)
		if eval.Escapes(d, escape) {
			est.Escapes++
		}
		var carry uint64
		est.TotalBits, carry = bits.Add64(est.TotalBits, uint64(eval.Cost(d, escape)), 0)
		if carry != 0 {
			return BandwidthEstimate{}, fmt.Errorf("%w: configuration %s", errOverflow, cfg)
		}
	}
	return est, nil
}

// verify encodes the dataset under the estimate's configuration and checks
// the stream length matches the estimated total.
func verify(ds sample.Dataset, scheme encoding.Scheme, est BandwidthEstimate) error {
	enc, err := encoding.NewEncoder(scheme, est.Configuration)
	if err != nil {
		return err
	}
	os := encoding.NewOStream(nil)
	for i := 0; i < ds.Len(); i++ {
		if _, err := enc.Encode(os, ds.Sample(i), ds.Reference(i)); err != nil {
			return fmt.Errorf("sample %d: %w", i, err)
		}
	}
	if uint64(os.NumBits()) != est.TotalBits {
		return fmt.Errorf("configuration %s encoded to %d bits, estimated %d",
			est.Configuration, os.NumBits(), est.TotalBits)
	}
	return nil
}

func reportProgress(
	logger *zap.Logger,
	progress *atomic.Int64,
	total int,
	interval time.Duration,
	done <-chan struct{},
) {
	if interval <= 0 {
		<-done
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			logger.Debug("search progress",
				zap.Int64("evaluated", progress.Load()),
				zap.Int("candidates", total))
		}
	}
}
