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

package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/matrixorigin/mocatalog/pkg/common/moerr"
	"github.com/matrixorigin/mocatalog/pkg/container/vector"
	"github.com/matrixorigin/mocatalog/pkg/logutil"
	v2 "github.com/matrixorigin/mocatalog/pkg/util/metric/v2"
	"github.com/matrixorigin/mocatalog/pkg/vm/engine"
)

var _ engine.Table = (*SystemCatalogTable)(nil)

// SystemCatalogTable is the table recording which catalogs, schemas and
// tables exist. It only supports inserts and full scans.
type SystemCatalogTable struct {
	table engine.Table
}

// NewSystemCatalogTable opens the system catalog table of eng, creating
// it when it does not exist yet.
func NewSystemCatalogTable(ctx context.Context, eng engine.Engine) (*SystemCatalogTable, error) {
	sct, err := openSystemCatalog(ctx, eng)
	if err != nil {
		return nil, err
	}
	if sct != nil {
		return sct, nil
	}

	createReq := &engine.CreateTableRequest{
		Id:                SystemCatalogTableId,
		CatalogName:       SystemCatalogName,
		SchemaName:        InformationSchemaName,
		TableName:         SystemCatalogTableName,
		Desc:              systemCatalogTableDesc,
		Schema:            SystemCatalogSchema(),
		PrimaryKeyIndices: append([]int(nil), systemCatalogPrimaryKey...),
		CreateIfNotExists: true,
		TableOptions:      map[string]string{},
	}
	table, err := eng.CreateTable(ctx, engine.EngineContext{}, createReq)
	if err != nil {
		logutil.Error("failed to create system catalog table",
			zap.String("engine", eng.Name()),
			zap.Error(err))
		return nil, moerr.NewCreateSystemCatalog(ctx, err)
	}
	logutil.Info("created system catalog table",
		zap.String("engine", eng.Name()),
		zap.Uint32("table-id", SystemCatalogTableId))
	v2.CatalogBootstrapCreateCounter.Inc()
	return &SystemCatalogTable{table: table}, nil
}

// OpenSystemCatalogTable opens the system catalog table of eng without
// creating it. A missing table is ErrNoSuchTable.
func OpenSystemCatalogTable(ctx context.Context, eng engine.Engine) (*SystemCatalogTable, error) {
	sct, err := openSystemCatalog(ctx, eng)
	if err != nil {
		return nil, err
	}
	if sct == nil {
		return nil, moerr.NewNoSuchTable(ctx, SystemCatalogName, InformationSchemaName, SystemCatalogTableName)
	}
	return sct, nil
}

// openSystemCatalog returns nil, nil when the table does not exist.
func openSystemCatalog(ctx context.Context, eng engine.Engine) (*SystemCatalogTable, error) {
	openReq := &engine.OpenTableRequest{
		CatalogName: SystemCatalogName,
		SchemaName:  InformationSchemaName,
		TableName:   SystemCatalogTableName,
		TableId:     SystemCatalogTableId,
	}
	table, err := eng.OpenTable(ctx, engine.EngineContext{}, openReq)
	if err != nil {
		logutil.Error("failed to open system catalog table",
			zap.String("engine", eng.Name()),
			zap.Error(err))
		return nil, moerr.NewOpenSystemCatalog(ctx, err)
	}
	if table == nil {
		return nil, nil
	}
	logutil.Info("opened system catalog table",
		zap.String("engine", eng.Name()),
		zap.Uint32("table-id", SystemCatalogTableId))
	v2.CatalogBootstrapOpenCounter.Inc()
	return &SystemCatalogTable{table: table}, nil
}

// Schema returns the fixed schema. The stored schema is not re-checked.
func (t *SystemCatalogTable) Schema() *engine.Schema {
	return SystemCatalogSchema()
}

// Insert hands req to the engine unchanged.
func (t *SystemCatalogTable) Insert(ctx context.Context, req *engine.InsertRequest) (int, error) {
	n, err := t.table.Insert(ctx, req)
	if err != nil {
		return 0, err
	}
	recordInserts(req)
	return n, nil
}

func recordInserts(req *engine.InsertRequest) {
	vec, ok := req.ColumnsValues[EntryTypeColumnName]
	if !ok || vec == nil {
		return
	}
	for _, b := range vector.MustFixedCol[uint8](vec) {
		switch EntryType(b) {
		case EntryTypeCatalog:
			v2.CatalogInsertCatalogCounter.Inc()
		case EntryTypeSchema:
			v2.CatalogInsertSchemaCounter.Inc()
		case EntryTypeTable:
			v2.CatalogInsertTableCounter.Inc()
		}
	}
}

// Records scans every row of the table. The caller must close the
// returned reader.
func (t *SystemCatalogTable) Records(ctx context.Context) (engine.Reader, error) {
	return t.table.Scan(ctx, &engine.ScanRequest{})
}

// Scan only serves full scans. Projections, filters and limits are
// rejected with ErrNotSupported.
func (t *SystemCatalogTable) Scan(ctx context.Context, req *engine.ScanRequest) (engine.Reader, error) {
	if !req.IsFullScan() {
		return nil, moerr.NewNotSupported(ctx, "%s on system catalog table", describeScan(req))
	}
	return t.Records(ctx)
}

func describeScan(req *engine.ScanRequest) string {
	switch {
	case req.Projection != nil:
		return fmt.Sprintf("projected scan %v", req.Projection)
	case len(req.Filters) > 0:
		return fmt.Sprintf("filtered scan %v", req.Filters)
	default:
		return fmt.Sprintf("limited scan %d", *req.Limit)
	}
}
