package log

import (
	"fmt"
	"io"
	"log"
	"time"
)

// Info takes a pointer subLogger struct and string sends to the output writer
func Info(sl *SubLogger, data string) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(infoLevel, data)
}

// Infoln takes a pointer subLogger struct and interface sends to the output writer
func Infoln(sl *SubLogger, v ...any) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(infoLevel, fmt.Sprintln(v...))
}

// Infof takes a pointer subLogger struct, string and interface formats sends to the output writer
func Infof(sl *SubLogger, data string, v ...any) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stagef(infoLevel, data, v...)
}

// Debug takes a pointer subLogger struct and string sends to the output writer
func Debug(sl *SubLogger, data string) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(debugLevel, data)
}

// Debugf takes a pointer subLogger struct, string and interface formats sends to the output writer
func Debugf(sl *SubLogger, data string, v ...any) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stagef(debugLevel, data, v...)
}

// Warn takes a pointer subLogger struct & string and sends to the output writer
func Warn(sl *SubLogger, data string) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(warnLevel, data)
}

// Warnf takes a pointer subLogger struct, string and interface formats sends to the output writer
func Warnf(sl *SubLogger, data string, v ...any) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stagef(warnLevel, data, v...)
}

// Error takes a pointer subLogger struct & interface formats and sends to the output writer
func Error(sl *SubLogger, data string) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(errorLevel, data)
}

// Errorln takes a pointer subLogger struct, string & interface formats and sends to the output writer
func Errorln(sl *SubLogger, v ...any) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(errorLevel, fmt.Sprintln(v...))
}

// Errorf takes a pointer subLogger struct, string and interface formats and sends to the output writer
func Errorf(sl *SubLogger, data string, v ...any) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stagef(errorLevel, data, v...)
}

func displayError(err error) {
	if err != nil {
		log.Printf("Logger write error: %v\n", err)
	}
}

type level uint8

const (
	infoLevel level = iota
	debugLevel
	warnLevel
	errorLevel
)

// header returns the configured header for the level and whether the level
// is enabled for this sub logger
func (l *logFields) header(lvl level) (string, bool) {
	switch lvl {
	case infoLevel:
		return l.logger.InfoHeader, l.info
	case debugLevel:
		return l.logger.DebugHeader, l.debug
	case warnLevel:
		return l.logger.WarnHeader, l.warn
	case errorLevel:
		return l.logger.ErrorHeader, l.error
	}
	return "", false
}

// stagef formats then writes a log event
func (l *logFields) stagef(lvl level, data string, v ...any) {
	if l == nil {
		return
	}
	if _, ok := l.header(lvl); !ok {
		logFieldsPool.Put(l)
		return
	}
	l.stage(lvl, fmt.Sprintf(data, v...))
}

// stage writes a log event
func (l *logFields) stage(lvl level, data string) {
	if l == nil {
		return
	}
	defer logFieldsPool.Put(l)
	header, ok := l.header(lvl)
	if !ok || l.output == nil {
		return
	}
	displayError(l.logger.write(l.output, header, l.name, data))
}

func (l *Logger) write(w io.Writer, header, name, data string) error {
	b := make([]byte, 0, len(header)+len(name)+len(data)+48)
	b = append(b, header...)
	if l.ShowLogSystemName {
		b = append(b, l.Spacer...)
		b = append(b, name...)
	}
	b = append(b, l.Spacer...)
	if l.TimestampFormat != "" {
		b = time.Now().AppendFormat(b, l.TimestampFormat)
	}
	b = append(b, l.Spacer...)
	b = append(b, data...)
	if data == "" || data[len(data)-1] != '\n' {
		b = append(b, '\n')
	}
	_, err := w.Write(b)
	return err
}
