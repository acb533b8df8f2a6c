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

package logutil

import (
	"context"
	"os"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/matrixorigin/mocatalog/pkg/common/moerr"
)

const (
	defaultLogMaxSize = 512
	logTimeLayout     = "2006/01/02 15:04:05.000000 -0700"
)

// LogConfig log config
type LogConfig struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	Filename   string `toml:"filename"`
	MaxSize    int    `toml:"max-size"`
	MaxDays    int    `toml:"max-days"`
	MaxBackups int    `toml:"max-backups"`
	// StacktraceLevel is the lowest level that records a stack trace,
	// one of debug/info/warn/error/dpanic/panic/fatal. Default fatal.
	StacktraceLevel string `toml:"stacktrace-level"`
}

// ZapSink is one encoder/syncer pair a logger core writes to.
type ZapSink struct {
	enc zapcore.Encoder
	out zapcore.WriteSyncer
}

var globalLogger atomic.Value

func init() {
	SetupMOLogger(&LogConfig{Level: "info", Format: "console"})
}

// SetupMOLogger builds the process wide logger from conf. An unsupported
// format or a directory given as the log file panics.
func SetupMOLogger(conf *LogConfig) {
	logger := conf.build()
	replaceGlobalLogger(logger)
	logger.Debug("logger init finished", zap.String("level", conf.Level), zap.String("format", conf.Format))
}

func (cfg *LogConfig) build() *zap.Logger {
	sinks := cfg.getSinks()
	level := cfg.getLevel()
	cores := make([]zapcore.Core, 0, len(sinks))
	for _, sink := range sinks {
		cores = append(cores, zapcore.NewCore(sink.enc, sink.out, level))
	}
	return zap.New(zapcore.NewTee(cores...), cfg.getOptions()...)
}

func replaceGlobalLogger(logger *zap.Logger) {
	globalLogger.Store(logger)
}

// GetGlobalLogger returns the process wide logger.
func GetGlobalLogger() *zap.Logger {
	return globalLogger.Load().(*zap.Logger)
}

func (cfg *LogConfig) getLevel() zap.AtomicLevel {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		panic(moerr.NewBadConfig(context.Background(), "unknown log level: %s", cfg.Level))
	}
	return level
}

func (cfg *LogConfig) getStacktraceLevel() zapcore.Level {
	if cfg.StacktraceLevel == "" {
		return zapcore.FatalLevel
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.StacktraceLevel)); err != nil {
		panic(moerr.NewBadConfig(context.Background(), "unknown stacktrace level: %s", cfg.StacktraceLevel))
	}
	return level
}

func (cfg *LogConfig) getSinks() []ZapSink {
	return []ZapSink{{cfg.getEncoder(), cfg.getSyncer()}}
}

func (cfg *LogConfig) getEncoder() zapcore.Encoder {
	return getLoggerEncoder(cfg.Format)
}

func (cfg *LogConfig) getSyncer() zapcore.WriteSyncer {
	if cfg.Filename == "" || cfg.Filename == "console" {
		return getConsoleSyncer()
	}

	if stat, err := os.Stat(cfg.Filename); err == nil {
		if stat.IsDir() {
			panic("log file can't be a directory")
		}
	}

	if cfg.MaxSize == 0 {
		cfg.MaxSize = defaultLogMaxSize
	}

	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSize,
		MaxAge:     cfg.MaxDays,
		MaxBackups: cfg.MaxBackups,
		LocalTime:  true,
		Compress:   false,
	})
}

func (cfg *LogConfig) getOptions() []zap.Option {
	return []zap.Option{
		zap.AddStacktrace(cfg.getStacktraceLevel()),
		zap.AddCaller(),
	}
}

func getConsoleSyncer() zapcore.WriteSyncer {
	return zapcore.Lock(os.Stdout)
}

func getLoggerEncoder(format string) zapcore.Encoder {
	encoderConfig := zapcore.EncoderConfig{
		MessageKey:       "msg",
		LevelKey:         "level",
		TimeKey:          "time",
		NameKey:          "name",
		CallerKey:        "caller",
		StacktraceKey:    "stacktrace",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeTime:       encodeTime,
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: " ",
	}

	switch format {
	case "json":
		return zapcore.NewJSONEncoder(encoderConfig)
	case "console", "":
		return zapcore.NewConsoleEncoder(encoderConfig)
	default:
		panic(moerr.NewInternalError(context.Background(), "unsupported log format: %s", format))
	}
}

func encodeTime(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format(logTimeLayout))
}
