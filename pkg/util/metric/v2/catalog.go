// Copyright 2022 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package v2

import "github.com/prometheus/client_golang/prometheus"

var (
	catalogInsertCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mo",
			Subsystem: "catalog",
			Name:      "insert_total",
			Help:      "Total number of entries written to the system catalog table.",
		}, []string{"type"})

	CatalogInsertCatalogCounter = catalogInsertCounter.WithLabelValues("catalog")
	CatalogInsertSchemaCounter  = catalogInsertCounter.WithLabelValues("schema")
	CatalogInsertTableCounter   = catalogInsertCounter.WithLabelValues("table")
)

var (
	CatalogDecodeCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mo",
			Subsystem: "catalog",
			Name:      "decode_total",
			Help:      "Total number of system catalog rows decoded into entries.",
		})

	catalogDecodeErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mo",
			Subsystem: "catalog",
			Name:      "decode_error_total",
			Help:      "Total number of system catalog rows that failed to decode.",
		}, []string{"kind"})

	CatalogDecodeInvalidKeyCounter       = catalogDecodeErrorCounter.WithLabelValues("invalid_key")
	CatalogDecodeInvalidEntryTypeCounter = catalogDecodeErrorCounter.WithLabelValues("invalid_entry_type")
	CatalogDecodeEmptyValueCounter       = catalogDecodeErrorCounter.WithLabelValues("empty_value")
	CatalogDecodeDeserializeCounter      = catalogDecodeErrorCounter.WithLabelValues("deserialize")
)

var (
	catalogBootstrapCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mo",
			Subsystem: "catalog",
			Name:      "bootstrap_total",
			Help:      "Total number of system catalog table bootstraps by outcome.",
		}, []string{"action"})

	CatalogBootstrapOpenCounter   = catalogBootstrapCounter.WithLabelValues("open")
	CatalogBootstrapCreateCounter = catalogBootstrapCounter.WithLabelValues("create")
)

func initCatalogMetrics() {
	registry.MustRegister(catalogInsertCounter)
	registry.MustRegister(CatalogDecodeCounter)
	registry.MustRegister(catalogDecodeErrorCounter)
	registry.MustRegister(catalogBootstrapCounter)
}
