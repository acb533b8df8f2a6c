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

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCatalogMetricsRegistered(t *testing.T) {
	CatalogInsertTableCounter.Inc()
	CatalogDecodeInvalidKeyCounter.Inc()
	CatalogBootstrapCreateCounter.Inc()
	CatalogDecodeCounter.Inc()

	families, err := GetPrometheusGatherer().Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, name := range []string{
		"mo_catalog_insert_total",
		"mo_catalog_decode_total",
		"mo_catalog_decode_error_total",
		"mo_catalog_bootstrap_total",
	} {
		require.True(t, names[name], name)
	}
}

func TestCatalogCounterLabels(t *testing.T) {
	before := testutil.ToFloat64(CatalogInsertSchemaCounter)
	CatalogInsertSchemaCounter.Inc()
	require.Equal(t, before+1, testutil.ToFloat64(CatalogInsertSchemaCounter))
	require.Equal(t, testutil.ToFloat64(catalogInsertCounter.WithLabelValues("schema")),
		testutil.ToFloat64(CatalogInsertSchemaCounter))
}
