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

// Package cmpmetrics declares the prometheus counters/histograms exported
// around an enrollment transaction, following the
// Event/Period/Runtime/StartTimestamp naming the teacher's ExportMetric
// interface (go/lib/periodic/internal/metrics) uses for a periodic task's
// run.
package cmpmetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cmpengine"

// Transactions is a counter of completed client transactions, labeled by
// the CMP body type that started the exchange and by outcome.
var Transactions = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "client",
	Name:      "transactions_total",
	Help:      "Total number of client transactions, by request kind and outcome.",
}, []string{"kind", "outcome"})

// TransactionDuration observes the wall-clock time an enrollment
// transaction took end to end, including any polling delay.
var TransactionDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "client",
	Name:      "transaction_duration_seconds",
	Help:      "Duration of a client transaction from first request to final response.",
	Buckets:   prometheus.DefBuckets,
}, []string{"kind"})

// RequestsHandled counts inbound requests the responder processed, by
// body type and outcome, mirroring ExportMetric.Event's "name an event as
// it happens" shape.
var RequestsHandled = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "server",
	Name:      "requests_handled_total",
	Help:      "Total number of requests the responder handled, by body type and outcome.",
}, []string{"body_type", "outcome"})

func init() {
	prometheus.MustRegister(Transactions, TransactionDuration, RequestsHandled)
}

// ObserveTransaction records a completed client transaction's outcome and
// duration since start.
func ObserveTransaction(kind, outcome string, start time.Time) {
	Transactions.WithLabelValues(kind, outcome).Inc()
	TransactionDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

// ObserveRequest records a single responder-side request outcome.
func ObserveRequest(bodyType, outcome string) {
	RequestsHandled.WithLabelValues(bodyType, outcome).Inc()
}
