package log

import (
	"io"
	"sync"
)

const (
	timestampFormat = " 02/01/2006 15:04:05 "
	spacer          = " | "
	// DefaultMaxFileSize for logger rotation file, in megabytes
	DefaultMaxFileSize int64 = 100

	megabyte = 1024 * 1024
)

var (
	logger = Logger{}
	// fileLoggingConfiguredCorrectly is set during setup if file logging meets requirements
	fileLoggingConfiguredCorrectly bool
	// globalLogConfig holds global configuration options for logger
	globalLogConfig = &Config{}
	// globalLogFile holds the rotating file writer shared by all file outputs
	globalLogFile = &Rotate{}

	logFieldsPool = &sync.Pool{New: func() any { return &logFields{} }}

	// logPath system path to store log files in
	logPath string

	// read/write mutex for logger
	mu = &sync.RWMutex{}
)

// Config holds configuration settings loaded from the run config
type Config struct {
	Enabled *bool `json:"enabled"`
	SubLoggerConfig
	LoggerFileConfig *FileConfig       `json:"fileSettings,omitempty"`
	AdvancedSettings AdvancedSettings  `json:"advancedSettings"`
	SubLoggers       []SubLoggerConfig `json:"subloggers,omitempty"`
}

// AdvancedSettings holds the line layout of every log event
type AdvancedSettings struct {
	ShowLogSystemName *bool   `json:"showLogSystemName"`
	Spacer            string  `json:"spacer"`
	TimeStampFormat   string  `json:"timeStampFormat"`
	Headers           Headers `json:"headers"`
}

// Headers are the level prefixes written at the start of each line
type Headers struct {
	Info  string `json:"info"`
	Warn  string `json:"warn"`
	Debug string `json:"debug"`
	Error string `json:"error"`
}

// SubLoggerConfig holds sub logger configuration settings loaded from the run config
type SubLoggerConfig struct {
	Name   string `json:"name,omitempty"`
	Level  string `json:"level"`
	Output string `json:"output"`
}

// FileConfig holds the log file settings
type FileConfig struct {
	FileName string `json:"filename,omitempty"`
	Rotate   *bool  `json:"rotate,omitempty"`
	MaxSize  int64  `json:"maxsize,omitempty"`
}

// Logger each instance of logger settings
type Logger struct {
	ShowLogSystemName                                bool
	TimestampFormat                                  string
	InfoHeader, ErrorHeader, DebugHeader, WarnHeader string
	Spacer                                           string
}

// Levels flags for each sub logger type
type Levels struct {
	Info, Debug, Warn, Error bool
}

type multiWriter struct {
	writers []io.Writer
	mu      sync.RWMutex
}

// Rotate struct for each instance of Rotate
type Rotate struct {
	FileName string
	Rotate   *bool
	MaxSize  int64

	size   int64
	output io.WriteCloser
	mu     sync.Mutex
}
