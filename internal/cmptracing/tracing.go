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

// Package cmptracing wires up opentracing-go with a jaeger-client-go
// tracer, mirroring the teacher's setupTracer(service, agentAddr) /
// tracing.CtxWith(ctx, operation) call shape around every enrollment
// transaction.
package cmptracing

import (
	"context"
	"io"

	"github.com/opentracing/opentracing-go"
	jaeger "github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
)

// Setup installs a jaeger tracer for service as the opentracing global
// tracer and returns its io.Closer. Every span is sampled. agentAddr is
// the jaeger agent the reporter sends to; an empty agentAddr leaves
// jaeger's default agent address in place and turns off span logging.
func Setup(service, agentAddr string) (io.Closer, error) {
	cfg := jaegercfg.Configuration{
		ServiceName: service,
		Sampler: &jaegercfg.SamplerConfig{
			Type:  jaeger.SamplerTypeConst,
			Param: 1,
		},
		Reporter: &jaegercfg.ReporterConfig{
			LocalAgentHostPort: agentAddr,
			LogSpans:           agentAddr != "",
		},
	}
	tracer, closer, err := cfg.NewTracer()
	if err != nil {
		return nil, err
	}
	opentracing.SetGlobalTracer(tracer)
	return closer, nil
}

// CtxWith starts a span named operation as a child of any span already in
// ctx, and returns the new span alongside a context carrying it,
// mirroring tracing.CtxWith(ctx, "certs.renew") in the teacher's CLI.
func CtxWith(ctx context.Context, operation string) (opentracing.Span, context.Context) {
	return opentracing.StartSpanFromContext(ctx, operation)
}
