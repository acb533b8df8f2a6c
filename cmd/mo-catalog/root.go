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
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matrixorigin/mocatalog/pkg/catalog"
	"github.com/matrixorigin/mocatalog/pkg/common/moerr"
	"github.com/matrixorigin/mocatalog/pkg/config"
	"github.com/matrixorigin/mocatalog/pkg/logutil"
	v2 "github.com/matrixorigin/mocatalog/pkg/util/metric/v2"
	"github.com/matrixorigin/mocatalog/pkg/vm/engine"
	"github.com/matrixorigin/mocatalog/pkg/vm/engine/memEngine"
	"github.com/matrixorigin/mocatalog/pkg/vm/engine/pb"
)

type options struct {
	configFile string
	engineType string
	dataDir    string
	logLevel   string
}

// openFunc opens the system catalog table of an engine.
type openFunc func(ctx context.Context, eng engine.Engine) (*catalog.SystemCatalogTable, error)

// env is what every subcommand runs against.
type env struct {
	cfg     *config.Config
	eng     engine.Engine
	table   *catalog.SystemCatalogTable
	metrics *http.Server
}

func rootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:          "mo-catalog",
		Short:        "Inspect and populate the system catalog table",
		SilenceUsage: true,
	}
	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "TOML config file")
	flags.StringVar(&opts.engineType, "engine", "", "storage engine, mem or pebble")
	flags.StringVar(&opts.dataDir, "data-dir", "", "pebble data directory")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level")

	cmd.AddCommand(
		bootstrapCommand(opts),
		listCommand(opts),
		registerCatalogCommand(opts),
		registerSchemaCommand(opts),
		registerTableCommand(opts),
	)
	return cmd
}

func (opts *options) loadConfig() (*config.Config, error) {
	var cfg *config.Config
	if opts.configFile != "" {
		var err error
		if cfg, err = config.ParseConfigFromFile(opts.configFile); err != nil {
			return nil, err
		}
	} else {
		cfg = config.Default()
	}
	if opts.engineType != "" {
		cfg.Engine.Type = opts.engineType
	}
	if opts.dataDir != "" {
		cfg.Engine.DataDir = opts.dataDir
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	cfg.SetDefaultValues()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run sets up logging, the engine and the system catalog table, calls fn
// and tears everything down again. A panic in fn is returned as an
// internal error so the engine still gets closed.
func (opts *options) run(cmd *cobra.Command, open openFunc, fn func(ctx context.Context, e *env) error) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	logutil.SetupMOLogger(&cfg.Log)
	defer logutil.Sync()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	e, err := openEnv(ctx, cfg, open)
	if err != nil {
		return err
	}
	defer e.close()
	return runSafely(ctx, e, fn)
}

func runSafely(ctx context.Context, e *env, fn func(ctx context.Context, e *env) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = moerr.ConvertPanicError(ctx, r)
			logutil.Error("command panicked", zap.Error(err))
		}
	}()
	return fn(ctx, e)
}

func openEnv(ctx context.Context, cfg *config.Config, open openFunc) (*env, error) {
	e := &env{cfg: cfg}
	if cfg.Metric.Enable {
		e.metrics = serveMetrics(cfg.Metric.Port)
	}
	eng, err := newEngine(cfg)
	if err != nil {
		e.close()
		return nil, err
	}
	e.eng = eng
	if e.table, err = open(ctx, eng); err != nil {
		e.close()
		return nil, err
	}
	return e, nil
}

func (e *env) close() {
	if e.eng != nil {
		if err := e.eng.Close(); err != nil {
			logutil.Error("failed to close engine", zap.Error(err))
		}
	}
	if e.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = e.metrics.Shutdown(ctx)
	}
}

func newEngine(cfg *config.Config) (engine.Engine, error) {
	switch cfg.Engine.Type {
	case config.EngineTypeMem:
		return memEngine.New(memEngine.WithBatchRows(cfg.Engine.ScanBatchRows)), nil
	case config.EngineTypePebble:
		return pb.Open(cfg.Engine.DataDir, pb.WithBatchRows(cfg.Engine.ScanBatchRows))
	}
	return nil, moerr.NewBadConfig(context.Background(), "invalid engine type %s", cfg.Engine.Type)
}

func serveMetrics(port int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(v2.GetPrometheusGatherer(), promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logutil.Error("metrics server stopped", zap.Error(err))
		}
	}()
	logutil.Info("prometheus metrics server started",
		zap.String("addr", srv.Addr),
		zap.String("path", "/metrics"))
	return srv
}
