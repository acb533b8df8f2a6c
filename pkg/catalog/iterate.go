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

	"go.uber.org/zap"

	"github.com/matrixorigin/mocatalog/pkg/logutil"
	"github.com/matrixorigin/mocatalog/pkg/vm/engine"
)

// IterateEntries drains reader, decoding every row and passing the
// result to fn. A decode failure is handed to fn instead of stopping the
// iteration; fn returning an error stops it. reader is always closed.
func IterateEntries(ctx context.Context, reader engine.Reader, fn func(Entry, error) error) (err error) {
	defer func() {
		if cerr := reader.Close(); err == nil {
			err = cerr
		}
	}()
	for {
		bat, err := reader.Read(ctx)
		if err != nil {
			return err
		}
		if bat == nil {
			return nil
		}
		for i := 0; i < bat.Length(); i++ {
			if err := fn(DecodeRow(ctx, bat, i)); err != nil {
				return err
			}
		}
	}
}

// Entries loads every entry of the table. With skipCorrupt set, rows that
// fail to decode are logged and skipped, otherwise the first one aborts
// the load.
func (t *SystemCatalogTable) Entries(ctx context.Context, skipCorrupt bool) ([]Entry, error) {
	reader, err := t.Records(ctx)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	skipped := 0
	err = IterateEntries(ctx, reader, func(entry Entry, err error) error {
		if err != nil {
			if !skipCorrupt {
				return err
			}
			skipped++
			logutil.Warn("skip corrupt system catalog entry", zap.Error(err))
			return nil
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	logutil.Info("loaded system catalog entries",
		zap.Int("entries", len(entries)),
		zap.Int("skipped", skipped))
	return entries, nil
}
