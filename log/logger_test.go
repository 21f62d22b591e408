package log

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thrasher-corp/papertrader/common"
	"github.com/thrasher-corp/papertrader/common/convert"
)

// testConfig returns a console config; the log tests mutate package state
// so they do not run in parallel
func testConfig() *Config {
	c := GenDefaultSettings()
	c.LoggerFileConfig = nil
	return &c
}

func TestGenDefaultSettings(t *testing.T) {
	c := GenDefaultSettings()
	require.NotNil(t, c.Enabled)
	assert.True(t, *c.Enabled)
	assert.Equal(t, "INFO|DEBUG|WARN|ERROR", c.Level)
	assert.Equal(t, "console", c.Output)
	assert.Equal(t, spacer, c.AdvancedSettings.Spacer)
	assert.Equal(t, "[INFO]", c.AdvancedSettings.Headers.Info)
}

func TestSplitLevel(t *testing.T) {
	l := splitLevel("INFO|warn")
	assert.Equal(t, Levels{Info: true, Warn: true}, l)
	assert.Equal(t, Levels{}, splitLevel(""))
}

func TestSetupGlobalLogger(t *testing.T) {
	assert.ErrorIs(t, SetupGlobalLogger(nil, ""), common.ErrNilPointer)

	c := testConfig()
	c.Output = "carrier pigeon"
	assert.ErrorIs(t, SetupGlobalLogger(c, ""), errUnhandledOutputWriter)

	c = testConfig()
	c.Output = "file"
	assert.ErrorIs(t, SetupGlobalLogger(c, ""), errFileLoggingNotConfigured)

	c = testConfig()
	c.SubLoggers = []SubLoggerConfig{{Name: "nope", Level: "INFO", Output: "console"}}
	assert.ErrorIs(t, SetupGlobalLogger(c, ""), errSubLoggerNotFound)

	c = testConfig()
	c.SubLoggers = []SubLoggerConfig{{Name: "ledger", Level: "ERROR", Output: "stderr"}}
	require.NoError(t, SetupGlobalLogger(c, ""))
	assert.Equal(t, Levels{Error: true}, Ledger.GetLevels())
	assert.Equal(t, Levels{Info: true, Debug: true, Warn: true, Error: true}, Runner.GetLevels())
}

func TestLogOutput(t *testing.T) {
	require.NoError(t, SetupGlobalLogger(testConfig(), ""))
	var buf bytes.Buffer
	require.NoError(t, Strategy.SetOutput(&buf))
	assert.ErrorIs(t, Strategy.SetOutput(nil), errNilWriter)

	Infof(Strategy, "entered %s", "long")
	line := buf.String()
	assert.True(t, strings.HasPrefix(line, "[INFO] | "), "line should start with the info header")
	assert.True(t, strings.HasSuffix(line, " | entered long\n"), "line should end with the message")

	buf.Reset()
	Strategy.SetLevels(Levels{Error: true})
	Debugf(Strategy, "hidden %d", 1)
	Warn(Strategy, "hidden")
	assert.Empty(t, buf.String(), "disabled levels should not write")
	Errorln(Strategy, "shown", 2)
	assert.Contains(t, buf.String(), "[ERROR]")
	assert.Contains(t, buf.String(), "shown 2\n")
}

func TestShowLogSystemName(t *testing.T) {
	c := testConfig()
	c.AdvancedSettings.ShowLogSystemName = convert.BoolPtr(true)
	require.NoError(t, SetupGlobalLogger(c, ""))
	var buf bytes.Buffer
	require.NoError(t, Report.SetOutput(&buf))
	Info(Report, "summary")
	assert.True(t, strings.HasPrefix(buf.String(), "[INFO] | REPORT | "), "line should carry the sub logger name")
}

func TestLoggerDisabled(t *testing.T) {
	c := testConfig()
	c.Enabled = convert.BoolPtr(false)
	require.NoError(t, SetupGlobalLogger(c, ""))
	var buf bytes.Buffer
	require.NoError(t, Global.SetOutput(&buf))
	Info(Global, "nothing")
	assert.Empty(t, buf.String())
}

func TestFileLogging(t *testing.T) {
	dir := t.TempDir()
	c := testConfig()
	c.Output = "file"
	c.LoggerFileConfig = &FileConfig{FileName: "papertrader.log", Rotate: convert.BoolPtr(true)}
	require.NoError(t, SetupGlobalLogger(c, dir))
	Info(OrderEngine, "filled")
	require.NoError(t, CloseLogger())

	data, err := os.ReadFile(filepath.Join(dir, "papertrader.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "filled")
	require.NoError(t, SetupGlobalLogger(testConfig(), ""))
}

func TestNewSubLogger(t *testing.T) {
	_, err := NewSubLogger("")
	assert.ErrorIs(t, err, errEmptyLoggerName)
	sl, err := NewSubLogger("custom")
	require.NoError(t, err)
	assert.Equal(t, "CUSTOM", sl.Name())
	_, err = NewSubLogger("CUSTOM")
	assert.ErrorIs(t, err, errSubLoggerAlreadySet)
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()
	var a, b bytes.Buffer
	mw, err := MultiWriter(&a, &b)
	require.NoError(t, err)
	assert.ErrorIs(t, mw.Add(&a), errWriterAlreadyLoaded)
	n, err := mw.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", a.String())
	assert.Equal(t, "hello", b.String())

	require.NoError(t, mw.Remove(&a))
	assert.ErrorIs(t, mw.Remove(&a), errWriterNotFound)
	_, err = mw.Write([]byte("!"))
	require.NoError(t, err)
	assert.Equal(t, "hello", a.String())
	assert.Equal(t, "hello!", b.String())
}

func TestRotateWrite(t *testing.T) {
	mu.Lock()
	logPath = t.TempDir()
	mu.Unlock()
	r := &Rotate{FileName: "rotate.log", MaxSize: 1}
	_, err := r.Write(make([]byte, megabyte+1))
	assert.ErrorIs(t, err, errExceedsMaxFileSize)
	n, err := r.Write([]byte("data"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	require.NoError(t, r.Close())
	require.NoError(t, r.Close(), "closing twice should not error")
}
