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

package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/anapaya/cmpengine/internal/cmpconfig"
	"github.com/anapaya/cmpengine/internal/cmplog"
	"github.com/anapaya/cmpengine/internal/cmptracing"
)

// globalFlags holds the persistent flags every subcommand reads its
// defaults from, mirroring renew.go's single-RunE flags struct per
// command but hoisted to the root so every subcommand shares it.
type globalFlags struct {
	configFile string
	tracer     string
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:           "cmpctl",
		Short:         "Certificate Management Protocol client and mock responder",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&flags.configFile, "config", "", "configuration file")
	root.PersistentFlags().StringVar(&flags.tracer, "tracing-agent", "", "jaeger agent address")

	root.AddCommand(
		newEnrollCmd(&flags),
		newRenewCmd(&flags),
		newRevokeCmd(&flags),
		newGenmCmd(&flags),
		newServeMockCmd(&flags),
	)
	return root
}

// setupRuntime loads configuration, wires up tracing, and builds a
// logger, mirroring renew.go's setupTracer(...) + log.Setup(...) prelude.
// The returned cleanup func closes the tracer and flushes the logger; it
// must be deferred by the caller.
func setupRuntime(flags *globalFlags) (cmpconfig.Config, *zap.SugaredLogger, func(), error) {
	cfg, err := cmpconfig.Load(flags.configFile)
	if err != nil {
		return cmpconfig.Config{}, nil, nil, err
	}
	closer, err := cmptracing.Setup("cmpctl", flags.tracer)
	if err != nil {
		return cmpconfig.Config{}, nil, nil, err
	}
	logger, err := cmplog.Setup(cmplog.Config{Level: cfg.LogLevel})
	if err != nil {
		closer.Close()
		return cmpconfig.Config{}, nil, nil, err
	}
	cleanup := func() {
		logger.Sync()
		closer.Close()
	}
	return cfg, logger, cleanup, nil
}
