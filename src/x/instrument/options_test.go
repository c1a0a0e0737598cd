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

package instrument

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestOptionsCopyOnWrite(t *testing.T) {
	var (
		opts   = NewOptions()
		logger = zap.NewNop()
		scope  = tally.NewTestScope("deltacost", nil)
	)

	updated := opts.
		SetLogger(logger).
		SetMetricsScope(scope).
		SetReportInterval(time.Minute)

	require.Equal(t, logger, updated.Logger())
	require.Equal(t, scope, updated.MetricsScope())
	require.Equal(t, time.Minute, updated.ReportInterval())

	require.NotEqual(t, logger, opts.Logger())
	require.Equal(t, tally.NoopScope, opts.MetricsScope())
	require.Equal(t, defaultReportInterval, opts.ReportInterval())
}

func TestLoggingConfigurationBuildLogger(t *testing.T) {
	logger, err := LoggingConfiguration{}.BuildLogger()
	require.NoError(t, err)
	require.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = LoggingConfiguration{
		Level:    "warn",
		Encoding: "json",
		Fields:   map[string]interface{}{"tool": "deltacost"},
	}.BuildLogger()
	require.NoError(t, err)
	require.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	require.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestLoggingConfigurationInvalid(t *testing.T) {
	_, err := LoggingConfiguration{Level: "loud"}.BuildLogger()
	require.Error(t, err)

	_, err = LoggingConfiguration{Encoding: "xml"}.BuildLogger()
	require.Error(t, err)
}
