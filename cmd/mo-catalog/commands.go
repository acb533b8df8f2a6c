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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/matrixorigin/mocatalog/pkg/catalog"
	"github.com/matrixorigin/mocatalog/pkg/common/moerr"
	"github.com/matrixorigin/mocatalog/pkg/logutil"
	"github.com/matrixorigin/mocatalog/pkg/vm/engine"
)

func bootstrapCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap",
		Short: "Open or create the system catalog table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, catalog.NewSystemCatalogTable, func(ctx context.Context, e *env) error {
				fmt.Fprintf(cmd.OutOrStdout(), "system catalog table ready on %s engine\n", e.eng.Name())
				return nil
			})
		},
	}
}

type listedEntry struct {
	Type    string          `json:"type"`
	Key     string          `json:"key"`
	TableId *engine.TableId `json:"table_id,omitempty"`
}

func listCommand(opts *options) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the catalogs, schemas and tables recorded in the system catalog table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, catalog.OpenSystemCatalogTable, func(ctx context.Context, e *env) error {
				entries, err := e.table.Entries(ctx, e.cfg.Catalog.SkipCorruptEntries)
				if err != nil {
					return err
				}
				listed := make([]listedEntry, 0, len(entries))
				for _, entry := range entries {
					l := listedEntry{Type: entry.EntryType().String(), Key: entry.Key()}
					if t, ok := entry.(catalog.TableEntry); ok {
						l.TableId = &t.TableId
					}
					listed = append(listed, l)
				}
				return printEntries(cmd, listed, asJSON)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print entries as JSON")
	return cmd
}

func printEntries(cmd *cobra.Command, listed []listedEntry, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(listed)
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tKEY\tTABLE ID")
	for _, l := range listed {
		id := "-"
		if l.TableId != nil {
			id = fmt.Sprint(*l.TableId)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", l.Type, l.Key, id)
	}
	return w.Flush()
}

func registerCatalogCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "register-catalog <catalog>",
		Short: "Record a catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, catalog.NewSystemCatalogTable, func(ctx context.Context, e *env) error {
				if err := checkName(ctx, args[0]); err != nil {
					return err
				}
				return insert(ctx, cmd, e, catalog.BuildCatalogInsertRequest(args[0]))
			})
		},
	}
}

func registerSchemaCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "register-schema <catalog> <schema>",
		Short: "Record a schema",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, catalog.NewSystemCatalogTable, func(ctx context.Context, e *env) error {
				for _, name := range args {
					if err := checkName(ctx, name); err != nil {
						return err
					}
				}
				return insert(ctx, cmd, e, catalog.BuildSchemaInsertRequest(args[0], args[1]))
			})
		},
	}
}

func registerTableCommand(opts *options) *cobra.Command {
	var tableId uint32
	cmd := &cobra.Command{
		Use:   "register-table <catalog> <schema> <table>",
		Short: "Record a table and its id",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, catalog.NewSystemCatalogTable, func(ctx context.Context, e *env) error {
				for _, name := range args {
					if err := checkName(ctx, name); err != nil {
						return err
					}
				}
				return insert(ctx, cmd, e,
					catalog.BuildTableInsertRequest(engine.FullTableName(args[0], args[1], args[2]), tableId))
			})
		},
	}
	cmd.Flags().Uint32Var(&tableId, "id", 0, "table id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

// checkName rejects names the key format cannot carry.
func checkName(ctx context.Context, name string) error {
	if name == "" || strings.Contains(name, ".") {
		return moerr.NewInvalidArg(ctx, "name", name)
	}
	return nil
}

func insert(ctx context.Context, cmd *cobra.Command, e *env, req *engine.InsertRequest) error {
	n, err := e.table.Insert(ctx, req)
	if err != nil {
		return err
	}
	key := req.ColumnsValues[catalog.KeyColumnName].GetBytes(0)
	logutil.Debugf("registered %s in system catalog table", key)
	fmt.Fprintf(cmd.OutOrStdout(), "%d row(s) written for %s\n", n, key)
	return nil
}
