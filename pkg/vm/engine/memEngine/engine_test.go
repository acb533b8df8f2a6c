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

package memEngine

import (
	"context"
	"sync"
	"testing"

	"github.com/lni/goutils/leaktest"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/mocatalog/pkg/vm/engine"
	"github.com/matrixorigin/mocatalog/pkg/vm/engine/enginetest"
)

func TestMemEngine(t *testing.T) {
	defer leaktest.AfterTest(t)()
	enginetest.Run(t, func(t *testing.T) engine.Engine {
		return New(WithBatchRows(2))
	})
}

func TestSnapshotScan(t *testing.T) {
	ctx := context.Background()
	e := New()
	defer e.Close()

	tbl, err := e.CreateTable(ctx, engine.EngineContext{}, enginetest.CreateRequest(t, 1, "t"))
	require.NoError(t, err)
	_, err = tbl.Insert(ctx, enginetest.InsertRequest(1, []string{"a"}, [][]byte{nil}))
	require.NoError(t, err)

	reader, err := tbl.Scan(ctx, nil)
	require.NoError(t, err)
	_, err = tbl.Insert(ctx, enginetest.InsertRequest(1, []string{"b"}, [][]byte{nil}))
	require.NoError(t, err)

	require.Equal(t, []string{"a"}, enginetest.Names(enginetest.Drain(t, reader)))
}

func TestConcurrentInsert(t *testing.T) {
	defer leaktest.AfterTest(t)()
	ctx := context.Background()
	e := New()
	defer e.Close()

	tbl, err := e.CreateTable(ctx, engine.EngineContext{}, enginetest.CreateRequest(t, 1, "t"))
	require.NoError(t, err)

	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			_, err := tbl.Insert(ctx, enginetest.InsertRequest(1, []string{name}, [][]byte{nil}))
			require.NoError(t, err)
		}(name)
	}
	wg.Wait()

	reader, err := tbl.Scan(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, names, enginetest.Names(enginetest.Drain(t, reader)))
}
