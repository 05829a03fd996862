package output

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/natefinch/lumberjack.v2"
)

// consoleHandler writes bare messages, without timestamps or level prefixes
type consoleHandler struct {
	out       io.Writer
	errOut    io.Writer
	debugMode bool
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	if level == slog.LevelDebug {
		return h.debugMode
	}
	return true
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	w := h.out
	if record.Level >= slog.LevelWarn {
		w = h.errOut
	}
	_, err := fmt.Fprintln(w, record.Message)
	return err
}

func (h *consoleHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

func (h *consoleHandler) WithGroup(_ string) slog.Handler {
	return h
}

// fanoutHandler sends each record to every handler that accepts it
type fanoutHandler []slog.Handler

func (h fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, handler := range h {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		if err := handler.Handle(ctx, record.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (h fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanoutHandler, len(h))
	for i, handler := range h {
		out[i] = handler.WithAttrs(attrs)
	}
	return out
}

func (h fanoutHandler) WithGroup(name string) slog.Handler {
	out := make(fanoutHandler, len(h))
	for i, handler := range h {
		out[i] = handler.WithGroup(name)
	}
	return out
}

// rotatingFile opens the log file with rotation limits taken from the
// environment
func rotatingFile(path string) *lumberjack.Logger {
	logger := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    1, // megabytes
		MaxBackups: 2,
		MaxAge:     30, // days
	}
	if n, err := strconv.Atoi(os.Getenv("PSTACK_LOG_MAX_SIZE")); err == nil && n > 0 {
		logger.MaxSize = n
	}
	if n, err := strconv.Atoi(os.Getenv("PSTACK_LOG_MAX_BACKUPS")); err == nil && n >= 0 {
		logger.MaxBackups = n
	}
	if n, err := strconv.Atoi(os.Getenv("PSTACK_LOG_MAX_AGE")); err == nil && n > 0 {
		logger.MaxAge = n
	}
	return logger
}

// SplogOptions configures a Splog
type SplogOptions struct {
	// Out receives info and debug output; defaults to stdout
	Out io.Writer
	// Err receives warnings and errors; defaults to stderr
	Err io.Writer
	// LogFile enables a rotated debug log when set
	LogFile string
	// Debug shows debug messages on the console
	Debug bool
}

// Splog provides structured logging and console output
type Splog struct {
	logger  *slog.Logger
	out     io.Writer
	logFile io.Closer
}

// NewSplog creates a console-only splog. Debug messages are shown when the
// DEBUG environment variable is set.
func NewSplog() *Splog {
	splog, _ := NewSplogWithOptions(SplogOptions{Debug: os.Getenv("DEBUG") != ""})
	return splog
}

// NewSplogWithOptions creates a splog, optionally mirroring everything to a
// rotated log file
func NewSplogWithOptions(opts SplogOptions) (*Splog, error) {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}

	splog := &Splog{out: opts.Out}
	handlers := fanoutHandler{&consoleHandler{out: opts.Out, errOut: opts.Err, debugMode: opts.Debug}}

	if opts.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(opts.LogFile), 0750); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file := rotatingFile(opts.LogFile)
		splog.logFile = file
		handlers = append(handlers, slog.NewTextHandler(file, &slog.HandlerOptions{
			Level: slog.LevelDebug,
			ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey {
					return slog.String(a.Key, a.Value.Time().Format("2006-01-02 15:04:05.000"))
				}
				return a
			},
		}))
	}

	splog.logger = slog.New(handlers)
	return splog, nil
}

func (s *Splog) log(level slog.Level, prefix, format string, args []interface{}) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	s.logger.Log(context.Background(), level, prefix+msg)
}

// Info writes an info message
func (s *Splog) Info(format string, args ...interface{}) {
	s.log(slog.LevelInfo, "", format, args)
}

// Debug writes a debug message
func (s *Splog) Debug(format string, args ...interface{}) {
	s.log(slog.LevelDebug, "", format, args)
}

// Warn writes a warning message
func (s *Splog) Warn(format string, args ...interface{}) {
	s.log(slog.LevelWarn, "warning: ", format, args)
}

// Error writes an error message
func (s *Splog) Error(format string, args ...interface{}) {
	s.log(slog.LevelError, "error: ", format, args)
}

// Tip writes a hint
func (s *Splog) Tip(format string, args ...interface{}) {
	s.log(slog.LevelInfo, "hint: ", format, args)
}

// Page writes raw output, such as a diff, without going through the log file
func (s *Splog) Page(content string) {
	_, _ = fmt.Fprint(s.out, content)
}

// Newline writes a newline
func (s *Splog) Newline() {
	_, _ = fmt.Fprintln(s.out)
}

// Close closes the log file if one was opened
func (s *Splog) Close() error {
	if s.logFile != nil {
		return s.logFile.Close()
	}
	return nil
}
