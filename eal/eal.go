// File: eal/eal.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// One-time runtime initialization and ordered teardown. The runtime is
// an explicit idempotency-checked singleton rather than ambient mutable
// state: Init succeeds exactly once per process (until Teardown), and
// components register teardown hooks that gate Teardown on all pools and
// ports being destroyed first.

package eal

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/momentics/hioload-pkt/api"
)

var (
	mu          sync.Mutex
	initialized bool
	cfg         *Config
	logger      = zap.NewNop()
	hooks       []func() error
)

// Init performs process-wide initialization. Must be called exactly once
// before any pool or port is created; a second call without an
// intervening Teardown fails with ErrAlreadyExists.
func Init(c *Config) error {
	mu.Lock()
	defer mu.Unlock()
	if initialized {
		return api.ErrAlreadyExists
	}
	if c == nil {
		c = DefaultConfig()
	}
	l, err := buildLogger(c)
	if err != nil {
		return err
	}
	cfg = c
	logger = l
	initialized = true
	logger.Info("runtime initialized",
		zap.String("log_level", c.LogLevel),
		zap.Bool("hugepages", c.Hugepages),
		zap.Int("numa_node", c.NUMANode))
	return nil
}

// Teardown shuts the runtime down. Every registered hook must succeed —
// hooks fail while pools or ports are still alive, which keeps teardown
// ordering honest. On failure the runtime stays initialized.
func Teardown() error {
	mu.Lock()
	defer mu.Unlock()
	if !initialized {
		return api.ErrRuntimeNotInitialized
	}
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i](); err != nil {
			logger.Error("teardown blocked", zap.Error(err))
			return err
		}
	}
	logger.Info("runtime teardown complete")
	logger.Sync() //nolint:errcheck
	hooks = nil
	cfg = nil
	logger = zap.NewNop()
	initialized = false
	return nil
}

// Initialized reports whether Init has completed.
func Initialized() bool {
	mu.Lock()
	defer mu.Unlock()
	return initialized
}

// RuntimeConfig returns the active config, or defaults when the runtime
// is down (so read-only callers never nil-check).
func RuntimeConfig() *Config {
	mu.Lock()
	defer mu.Unlock()
	if cfg == nil {
		return DefaultConfig()
	}
	return cfg
}

// Logger returns the process logger. Nop before Init and after Teardown.
func Logger() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// OnTeardown registers a hook consulted by Teardown in reverse
// registration order. Hooks veto teardown by returning an error.
func OnTeardown(fn func() error) {
	mu.Lock()
	defer mu.Unlock()
	hooks = append(hooks, fn)
}

func buildLogger(c *Config) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.Set(c.LogLevel); err != nil {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "unknown log level").
			WithContext("level", c.LogLevel)
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var sink zapcore.WriteSyncer
	if c.LogFile != "" {
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   c.LogFile,
			MaxSize:    c.LogMaxSizeMB,
			MaxBackups: c.LogMaxBackups,
		})
	} else {
		sink = zapcore.AddSync(os.Stderr)
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), sink, level)
	return zap.New(core), nil
}
