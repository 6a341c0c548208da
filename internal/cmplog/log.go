// Copyright 2020 Anapaya Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cmplog wraps go.uber.org/zap with the console/level config
// shape the teacher's command-line tools use (log.Setup(log.Config{...})
// before running), adapted so the resulting *zap.SugaredLogger satisfies
// cmpcontext.Logger directly.
package cmplog

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config mirrors the teacher's log.Config{Console: log.ConsoleConfig{...}}
// shape: a single console sink with a configurable level.
type Config struct {
	Level  string
	Format string // "console" or "json"
}

// Setup builds a *zap.SugaredLogger from cfg. An empty Level defaults to
// "info"; an unrecognized Format falls back to the console encoder.
func Setup(cfg Config) (*zap.SugaredLogger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, err
		}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), level)
	return zap.New(core).Sugar(), nil
}

// Nop returns a logger that discards everything, used by defaults and
// tests that don't care about log output.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
