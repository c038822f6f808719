package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Level задает порог логирования
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelInfo:
		return "info"
	default:
		return "debug"
	}
}

// ParseLevel разбирает уровень из конфигурации
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return LevelError, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "", "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Logger пишет сообщения с префиксом уровня и местом вызова.
// Экземпляр передается в сервисы явно.
type Logger struct {
	level  Level
	error  *log.Logger
	warn   *log.Logger
	info   *log.Logger
	debug  *log.Logger
	closer io.Closer
}

const logFlags = log.Ldate | log.Ltime | log.Lshortfile

// NewLogger создает новый экземпляр Logger
func NewLogger(w io.Writer, level Level) *Logger {
	return &Logger{
		level: level,
		error: log.New(w, "ERROR: ", logFlags),
		warn:  log.New(w, "WARN: ", logFlags),
		info:  log.New(w, "INFO: ", logFlags),
		debug: log.New(w, "DEBUG: ", logFlags),
	}
}

// NewFileLogger пишет одновременно в w и в файл arletbank.log в каталоге dir
func NewFileLogger(w io.Writer, dir string, level Level) (*Logger, error) {
	// Создаем директорию для логов, если она не существует
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(dir, "arletbank.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := NewLogger(io.MultiWriter(w, f), level)
	l.closer = f
	return l, nil
}

// Discard возвращает логгер, который ничего не пишет
func Discard() *Logger {
	return NewLogger(io.Discard, LevelError)
}

// Level возвращает текущий порог
func (l *Logger) Level() Level { return l.level }

// Close закрывает файл лога, если он был открыт
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func (l *Logger) output(level Level, dst *log.Logger, format string, v ...interface{}) {
	if level > l.level {
		return
	}
	// 3: output -> Info/Error/... -> вызывающий код
	_ = dst.Output(3, fmt.Sprintf(format, v...))
}

// Error логирует сообщение об ошибке
func (l *Logger) Error(format string, v ...interface{}) {
	l.output(LevelError, l.error, format, v...)
}

// Warn логирует предупреждение
func (l *Logger) Warn(format string, v ...interface{}) {
	l.output(LevelWarn, l.warn, format, v...)
}

// Info логирует информационное сообщение
func (l *Logger) Info(format string, v ...interface{}) {
	l.output(LevelInfo, l.info, format, v...)
}

// Debug логирует отладочное сообщение
func (l *Logger) Debug(format string, v ...interface{}) {
	l.output(LevelDebug, l.debug, format, v...)
}

// LogOperation логирует операцию с длительностью
func (l *Logger) LogOperation(operation string, startTime time.Time, err error) {
	duration := time.Since(startTime)
	if err != nil {
		l.output(LevelError, l.error, "Operation %s failed after %v: %v", operation, duration, err)
		return
	}
	l.output(LevelInfo, l.info, "Operation %s completed in %v", operation, duration)
}
