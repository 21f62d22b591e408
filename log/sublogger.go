package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	errEmptyLoggerName     = errors.New("cannot have empty logger name")
	errSubLoggerAlreadySet = errors.New("sub logger already registered")
	errSubLoggerNotFound   = errors.New("sub logger not found")
	errNilWriter           = errors.New("io.Writer is nil")
)

// NewSubLogger allows for a new sub logger to be registered.
func NewSubLogger(name string) (*SubLogger, error) {
	if name == "" {
		return nil, errEmptyLoggerName
	}
	name = strings.ToUpper(name)
	mu.Lock()
	defer mu.Unlock()
	if _, ok := subLoggers[name]; ok {
		return nil, fmt.Errorf("%w: %s", errSubLoggerAlreadySet, name)
	}
	return registerNewSubLogger(name), nil
}

// SetOutput overrides the default output with a new writer
func (sl *SubLogger) SetOutput(o io.Writer) error {
	if o == nil {
		return errNilWriter
	}
	mu.Lock()
	sl.output = o
	mu.Unlock()
	return nil
}

// SetLevels overrides the default levels with new levels; levelception
func (sl *SubLogger) SetLevels(newLevels Levels) {
	mu.Lock()
	sl.levels = newLevels
	mu.Unlock()
}

// GetLevels returns current functional log levels
func (sl *SubLogger) GetLevels() Levels {
	mu.RLock()
	defer mu.RUnlock()
	return sl.levels
}

// Name returns the upper case sub logger name
func (sl *SubLogger) Name() string {
	return sl.name
}

// getFields snapshots the sub logger state for a single log event. The
// caller must hold the read lock.
func (sl *SubLogger) getFields() *logFields {
	if sl == nil || globalLogConfig == nil || globalLogConfig.Enabled == nil || !*globalLogConfig.Enabled {
		return nil
	}
	fields := logFieldsPool.Get().(*logFields)
	fields.info = sl.levels.Info
	fields.warn = sl.levels.Warn
	fields.debug = sl.levels.Debug
	fields.error = sl.levels.Error
	fields.name = sl.name
	fields.output = sl.output
	fields.logger = logger
	return fields
}

func registerNewSubLogger(name string) *SubLogger {
	temp := &SubLogger{
		name:   strings.ToUpper(name),
		output: os.Stdout,
		levels: splitLevel("INFO|WARN|DEBUG|ERROR"),
	}
	subLoggers[temp.name] = temp
	return temp
}

// register all loggers at package init()
func init() {
	Global = registerNewSubLogger("LOG")
	ConfigMgr = registerNewSubLogger("CONFIG")
	DatabaseMgr = registerNewSubLogger("DATABASE")
	Ledger = registerNewSubLogger("LEDGER")
	OrderEngine = registerNewSubLogger("ORDERENGINE")
	Runner = registerNewSubLogger("RUNNER")
	Strategy = registerNewSubLogger("STRATEGY")
	Report = registerNewSubLogger("REPORT")
}
