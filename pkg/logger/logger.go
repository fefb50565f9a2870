// Package logger holds the process-wide zerolog logger.
//
// Call Init once from main; library code receives a zerolog.Logger by
// injection and only the composition root reaches for Get or Component.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options controls logger behaviour at initialisation time.
type Options struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Defaults to "info" when empty or unrecognised.
	Level string
	// Pretty switches to zerolog's console writer. Production runs emit JSON.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
	// Service is attached to every entry as the "service" field.
	Service string
}

var (
	mu   sync.Mutex
	once sync.Once
	root *zerolog.Logger
)

// Init builds the process logger. Only the first call has any effect; later
// calls return the logger built by the first.
func Init(opts Options) zerolog.Logger {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano

		lvl := parseLevel(opts.Level)
		zerolog.SetGlobalLevel(lvl)

		ctx := zerolog.New(writer(opts)).Level(lvl).With().Timestamp().Caller()
		if opts.Service != "" {
			ctx = ctx.Str("service", opts.Service)
		}
		l := ctx.Logger()

		mu.Lock()
		root = &l
		mu.Unlock()
	})
	return Get()
}

func writer(opts Options) io.Writer {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		return zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return out
}

// Get returns the process logger. It panics before Init.
func Get() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if root == nil {
		panic("logger: Get() called before Init()")
	}
	return *root
}

// Component returns a child logger tagged with a component name such as
// "dispatcher" or "http".
func Component(name string) zerolog.Logger {
	return Get().With().Str("component", name).Logger()
}

// Reset forgets the process logger so the next Init rebuilds it. Tests only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	once = sync.Once{}
	root = nil
}

// parseLevel maps a LOG_LEVEL value to a zerolog level; unknown values mean info.
func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
