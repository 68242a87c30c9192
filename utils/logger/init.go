package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// ServiceName is reported to the OTel log bridge.
const ServiceName = "imgcache"

var Logger *slog.Logger

func init() {
	if Logger == nil {
		Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{}))
	}
}

// Options selects the handler chain built by Init.
type Options struct {
	Level      string
	Format     string // "json" or "text"
	EnableOTel bool
	Output     io.Writer
}

// Init builds the process logger, installs it as the slog default and
// returns it. Records always pass through TraceContextHandler so stdout
// lines carry trace_id/span_id; with OTel enabled they are also exported
// through the otelslog bridge.
func Init(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	level := ParseLevel(opts.Level)

	handlerOpts := &slog.HandlerOptions{Level: level}
	var stdout slog.Handler
	if strings.EqualFold(opts.Format, "text") {
		stdout = slog.NewTextHandler(out, handlerOpts)
	} else {
		stdout = slog.NewJSONHandler(out, handlerOpts)
	}

	var handler slog.Handler = NewTraceContextHandler(stdout)
	if opts.EnableOTel {
		handler = NewMultiHandler(handler, level)
	}

	Logger = slog.New(handler).With("service", ServiceName)
	slog.SetDefault(Logger)
	return Logger
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
