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
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggingConfiguration defines configuration for logging.
type LoggingConfiguration struct {
	Level    string                 `yaml:"level"`
	Encoding string                 `yaml:"encoding"`
	File     string                 `yaml:"file"`
	Fields   map[string]interface{} `yaml:"fields"`
}

// BuildLogger builds a new zap logger based on the configuration. An empty
// configuration yields a development logger writing to stderr.
func (cfg LoggingConfiguration) BuildLogger() (*zap.Logger, error) {
	zapCfg := zap.NewDevelopmentConfig()

	if cfg.Level != "" {
		var level zapcore.Level
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("unable to parse log level %s: %w", cfg.Level, err)
		}
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}

	switch cfg.Encoding {
	case "":
	case "json", "console":
		zapCfg.Encoding = cfg.Encoding
	default:
		return nil, fmt.Errorf("unknown log encoding: %s", cfg.Encoding)
	}

	if cfg.File != "" {
		zapCfg.OutputPaths = append(zapCfg.OutputPaths, cfg.File)
	}

	if len(cfg.Fields) != 0 {
		zapCfg.InitialFields = cfg.Fields
	}

	return zapCfg.Build()
}
