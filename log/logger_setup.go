package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/thrasher-corp/papertrader/common"
	"github.com/thrasher-corp/papertrader/common/convert"
)

var (
	errSubloggerConfigIsNil     = errors.New("sublogger config is nil")
	errUnhandledOutputWriter    = errors.New("unhandled output writer")
	errFileLoggingNotConfigured = errors.New("file output requested but file logging is not configured")
)

func getWriters(s *SubLoggerConfig) (io.Writer, error) {
	if s == nil {
		return nil, errSubloggerConfigIsNil
	}
	mw, err := MultiWriter()
	if err != nil {
		return nil, err
	}
	outputWriters := strings.Split(s.Output, "|")
	for x := range outputWriters {
		var writer io.Writer
		switch strings.ToLower(strings.TrimSpace(outputWriters[x])) {
		case "stdout", "console":
			writer = os.Stdout
		case "stderr":
			writer = os.Stderr
		case "file":
			if !fileLoggingConfiguredCorrectly {
				return nil, errFileLoggingNotConfigured
			}
			writer = globalLogFile
		default:
			return nil, fmt.Errorf("%w: %s", errUnhandledOutputWriter, outputWriters[x])
		}
		if err = mw.Add(writer); err != nil {
			return nil, err
		}
	}
	return mw, nil
}

// GenDefaultSettings return struct with known sane/working logger settings
func GenDefaultSettings() Config {
	return Config{
		Enabled: convert.BoolPtr(true),
		SubLoggerConfig: SubLoggerConfig{
			Level:  "INFO|DEBUG|WARN|ERROR",
			Output: "console",
		},
		LoggerFileConfig: &FileConfig{
			FileName: "log.txt",
			Rotate:   convert.BoolPtr(false),
			MaxSize:  0,
		},
		AdvancedSettings: AdvancedSettings{
			ShowLogSystemName: convert.BoolPtr(false),
			Spacer:            spacer,
			TimeStampFormat:   timestampFormat,
			Headers: Headers{
				Info:  "[INFO]",
				Warn:  "[WARN]",
				Debug: "[DEBUG]",
				Error: "[ERROR]",
			},
		},
	}
}

// SetupGlobalLogger applies the config to every registered sub logger. File
// output is written under dir when a file name is configured
func SetupGlobalLogger(c *Config, dir string) error {
	if c == nil {
		return fmt.Errorf("%w: log config", common.ErrNilPointer)
	}
	mu.Lock()
	defer mu.Unlock()

	if err := globalLogFile.Close(); err != nil {
		return err
	}
	fileLoggingConfiguredCorrectly = false
	if c.LoggerFileConfig != nil && c.LoggerFileConfig.FileName != "" && dir != "" {
		if err := common.CreateDir(dir); err != nil {
			return err
		}
		logPath = dir
		globalLogFile = &Rotate{
			FileName: c.LoggerFileConfig.FileName,
			MaxSize:  c.LoggerFileConfig.MaxSize,
			Rotate:   c.LoggerFileConfig.Rotate,
		}
		fileLoggingConfiguredCorrectly = true
	}

	globalLogConfig = c
	logger = newLogger(c)
	for _, sl := range subLoggers {
		output, err := getWriters(&c.SubLoggerConfig)
		if err != nil {
			return err
		}
		sl.levels = splitLevel(c.Level)
		sl.output = output
	}
	return setupSubLoggers(c.SubLoggers)
}

// SetupSubLoggers configure all sub loggers with provided configuration values
func SetupSubLoggers(s []SubLoggerConfig) error {
	mu.Lock()
	defer mu.Unlock()
	return setupSubLoggers(s)
}

func setupSubLoggers(s []SubLoggerConfig) error {
	for x := range s {
		output, err := getWriters(&s[x])
		if err != nil {
			return err
		}
		sl, ok := subLoggers[strings.ToUpper(s[x].Name)]
		if !ok {
			return fmt.Errorf("%w: %s", errSubLoggerNotFound, s[x].Name)
		}
		sl.levels = splitLevel(s[x].Level)
		sl.output = output
	}
	return nil
}

// CloseLogger is called on shutdown of application
func CloseLogger() error {
	mu.Lock()
	defer mu.Unlock()
	return globalLogFile.Close()
}

func newLogger(c *Config) Logger {
	return Logger{
		ShowLogSystemName: c.AdvancedSettings.ShowLogSystemName != nil && *c.AdvancedSettings.ShowLogSystemName,
		TimestampFormat:   c.AdvancedSettings.TimeStampFormat,
		Spacer:            c.AdvancedSettings.Spacer,
		ErrorHeader:       c.AdvancedSettings.Headers.Error,
		InfoHeader:        c.AdvancedSettings.Headers.Info,
		WarnHeader:        c.AdvancedSettings.Headers.Warn,
		DebugHeader:       c.AdvancedSettings.Headers.Debug,
	}
}

func splitLevel(level string) (l Levels) {
	enabledLevels := strings.Split(level, "|")
	for x := range enabledLevels {
		switch level := strings.ToUpper(strings.TrimSpace(enabledLevels[x])); level {
		case "DEBUG":
			l.Debug = true
		case "INFO":
			l.Info = true
		case "WARN":
			l.Warn = true
		case "ERROR":
			l.Error = true
		}
	}
	return
}
