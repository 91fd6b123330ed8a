// Package logging provides the structured leveled logger shared by pullconfd
// and pullconf-agent.
//
// It wraps github.com/voodooEntity/archivist (grounded on the teacher
// pack's voodooEntity-cyberbrain, whose src/system/cerebrum/scheduler.go
// and src/system/observer/observer.go hold a *archivist.Archivist and call
// Info/Warning/Error/Debug against it), giving pullconf a five-level
// scheme (trace, debug, info, warn, error) driven by PULLCONF_LOG_FORMAT/
// LOG_LEVEL, with two selectable renderings of the message body: logfmt
// and json.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/voodooEntity/archivist"
)

// Level is pullconf's log level, one step finer than archivist's own (it
// adds Trace below Debug so LOG_LEVEL=trace can ask for more detail than
// debug).
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel parses LOG_LEVEL values. Unknown values default to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// archivistLogLevel maps a Level onto archivist's LEVEL_* scale. Trace and
// Debug both need archivist's LEVEL_DEBUG so its debug gate is open at
// all; the finer trace/debug split is carried by the debug threshold
// below instead.
func (l Level) archivistLogLevel() int {
	switch l {
	case LevelTrace, LevelDebug:
		return archivist.LEVEL_DEBUG
	case LevelWarn:
		return archivist.LEVEL_WARNING
	case LevelError:
		return archivist.LEVEL_ERROR
	default:
		return archivist.LEVEL_INFO
	}
}

// archivistDebugThreshold maps a Level onto archivist's DEBUG_LEVEL_*
// scale. Logger.Debug tags its calls DEBUG_LEVEL_TRACE (archivist's
// coarsest granularity, always visible once debug logging is on at all);
// Logger.Trace tags its calls DEBUG_LEVEL_MAX (archivist's finest), which
// only clears the threshold when the configured Level is LevelTrace.
func (l Level) archivistDebugThreshold() int {
	if l == LevelTrace {
		return archivist.DEBUG_LEVEL_MAX
	}
	return archivist.DEBUG_LEVEL_TRACE
}

// Format selects the on-wire rendering of a log line's message body.
type Format int

const (
	FormatLogfmt Format = iota
	FormatJSON
)

// ParseFormat parses PULLCONF_LOG_FORMAT. Unknown values default to logfmt.
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), "json") {
		return FormatJSON
	}
	return FormatLogfmt
}

// Config configures a Logger.
type Config struct {
	Level   Level
	Format  Format
	Service string // component name attached to every line, e.g. "loader", "scheduler"
	Output  io.Writer
}

// Logger wraps an *archivist.Archivist with pullconf's level/service/
// key-value conventions. archivist itself only understands a message
// string; Logger renders the caller's key-value pairs into that string
// before handing it to archivist, so callers keep writing
// log.Info("msg", "key", value, ...) regardless of the render format.
type Logger struct {
	arch    *archivist.Archivist
	format  Format
	service string
	fields  []any
}

// New builds a Logger per Config. A zero Config yields an info-level
// logfmt logger on stderr.
func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	arch := archivist.New(&archivist.Config{
		Logger:     log.New(out, "", 0),
		LogLevel:   cfg.Level.archivistLogLevel(),
		DebugLevel: cfg.Level.archivistDebugThreshold(),
	})

	return &Logger{arch: arch, format: cfg.Format, service: cfg.Service}
}

// With returns a Logger scoped to a sub-component, preserving level/format
// and prepending args to every subsequent line.
func (l *Logger) With(args ...any) *Logger {
	fields := make([]any, 0, len(l.fields)+len(args))
	fields = append(fields, l.fields...)
	fields = append(fields, args...)
	return &Logger{arch: l.arch, format: l.format, service: l.service, fields: fields}
}

// Trace logs at the finest granularity; only emitted when LOG_LEVEL=trace.
func (l *Logger) Trace(msg string, args ...any) {
	l.arch.Debug(archivist.DEBUG_LEVEL_MAX, l.render(msg, args))
}

// Tracef is the printf-style counterpart to Trace.
func (l *Logger) Tracef(format string, a ...any) {
	l.Trace(fmt.Sprintf(format, a...))
}

// Debug logs at debug granularity; emitted when LOG_LEVEL is debug or trace.
func (l *Logger) Debug(msg string, args ...any) {
	l.arch.Debug(archivist.DEBUG_LEVEL_TRACE, l.render(msg, args))
}

// Info logs at info granularity.
func (l *Logger) Info(msg string, args ...any) {
	l.arch.Info(l.render(msg, args))
}

// Warn logs at warning granularity.
func (l *Logger) Warn(msg string, args ...any) {
	l.arch.Warning(l.render(msg, args))
}

// Error logs at error granularity.
func (l *Logger) Error(msg string, args ...any) {
	l.arch.Error(l.render(msg, args))
}

// render folds the component tag, any With-scoped fields, and the call's
// own key-value pairs into the single message string archivist expects.
func (l *Logger) render(msg string, args []any) string {
	kvs := make([]any, 0, 2+len(l.fields)+len(args))
	if l.service != "" {
		kvs = append(kvs, "component", l.service)
	}
	kvs = append(kvs, l.fields...)
	kvs = append(kvs, args...)

	if l.format == FormatJSON {
		return renderJSON(msg, kvs)
	}
	return renderLogfmt(msg, kvs)
}

func renderLogfmt(msg string, kvs []any) string {
	var b strings.Builder
	b.WriteString("msg=")
	b.WriteString(logfmtValue(msg))
	for i := 0; i+1 < len(kvs); i += 2 {
		b.WriteByte(' ')
		b.WriteString(fmt.Sprintf("%v", kvs[i]))
		b.WriteByte('=')
		b.WriteString(logfmtValue(fmt.Sprintf("%v", kvs[i+1])))
	}
	return b.String()
}

func logfmtValue(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\"=") {
		return strconv.Quote(s)
	}
	return s
}

func renderJSON(msg string, kvs []any) string {
	fields := make(map[string]any, len(kvs)/2+1)
	fields["msg"] = msg
	for i := 0; i+1 < len(kvs); i += 2 {
		fields[fmt.Sprintf("%v", kvs[i])] = kvs[i+1]
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return msg
	}
	return string(b)
}
