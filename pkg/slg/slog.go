package slg

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

type slogStruct struct {
	Name string
}

var slogKey = &slogStruct{Name: "slog"}

// GetSlog returns the logger stored on ctx, or slog.Default when there is none.
func GetSlog(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(slogKey).(*slog.Logger); ok && log != nil {
		return log
	}

	return slog.Default()
}

func WithSlog(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, slogKey, log)
}

type Config struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// New builds a text or json logger writing to w.
func New(w io.Writer, cfg *Config) (*slog.Logger, error) {
	var level slog.Level
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("failed to parse log level: %w", err)
		}
	}

	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
}
