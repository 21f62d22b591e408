package common

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Time formats shared by the CLI, config and reporting
const (
	SimpleTimeFormat             = "2006-01-02 15:04:05"
	SimpleTimeFormatWithTimezone = "2006-01-02 15:04:05 MST"
)

var (
	// ErrNilPointer defines an error for a nil pointer
	ErrNilPointer = errors.New("nil pointer")
	// ErrNilArguments is a common error response to highlight that nils were passed in
	// when they should not have been
	ErrNilArguments = errors.New("received nil argument(s)")
	// ErrDateUnset is an error for start end check calculations
	ErrDateUnset = errors.New("date unset")
	// ErrStartAfterEnd is an error for start end check calculations
	ErrStartAfterEnd = errors.New("start date after end date")
	// ErrStartEqualsEnd is an error for start end check calculations
	ErrStartEqualsEnd = errors.New("start date equals end date")
	// ErrStartAfterTimeNow is an error for start end check calculations
	ErrStartAfterTimeNow = errors.New("start date is after current time")
)

// StartEndTimeCheck provides some basic checks which occur
// frequently in the codebase
func StartEndTimeCheck(start, end time.Time) error {
	if start.IsZero() || start.Equal(time.Unix(0, 0)) {
		return fmt.Errorf("start %w", ErrDateUnset)
	}
	if end.IsZero() || end.Equal(time.Unix(0, 0)) {
		return fmt.Errorf("end %w", ErrDateUnset)
	}
	if start.After(time.Now()) {
		return ErrStartAfterTimeNow
	}
	if start.After(end) {
		return ErrStartAfterEnd
	}
	if start.Equal(end) {
		return ErrStartEqualsEnd
	}
	return nil
}

// GetDefaultDataDir returns the default data directory
// Windows - C:\Users\%USER%\AppData\Roaming\PaperTrader
// Linux/Unix or OSX - $HOME/.papertrader
func GetDefaultDataDir(env string) string {
	if env == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "PaperTrader")
	}
	usr, err := os.UserHomeDir()
	if err != nil {
		dir, err := os.Getwd()
		if err != nil {
			return "."
		}
		return filepath.Join(dir, ".papertrader")
	}
	return filepath.Join(usr, ".papertrader")
}

// CreateDir creates a directory based on the supplied parameter
func CreateDir(dir string) error {
	_, err := os.Stat(dir)
	if !os.IsNotExist(err) {
		return nil
	}
	return os.MkdirAll(dir, 0o770)
}
