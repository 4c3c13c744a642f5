package logging

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// ConsoleLogger writes one colorized line per entry:
//
//	15:04:05.000 INF [agent-3] Agent docked energy=12
type ConsoleLogger struct {
	mu       *sync.Mutex
	out      io.Writer
	scope    string
	minLevel string
	colors   levelColors
	now      func() time.Time
}

type levelColors struct {
	debug, info, warning, error, faint *color.Color
}

func newLevelColors(enabled bool) levelColors {
	c := levelColors{
		debug:   color.New(color.FgMagenta),
		info:    color.New(color.FgCyan),
		warning: color.New(color.FgYellow),
		error:   color.New(color.FgRed, color.Bold),
		faint:   color.New(color.FgHiBlack),
	}
	for _, col := range []*color.Color{c.debug, c.info, c.warning, c.error, c.faint} {
		if enabled {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
	}
	return c
}

// NewConsoleLogger creates a logger writing to out. A nil out means stdout.
func NewConsoleLogger(out io.Writer, minLevel string, useColor bool) *ConsoleLogger {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleLogger{
		mu:       &sync.Mutex{},
		out:      out,
		minLevel: minLevel,
		colors:   newLevelColors(useColor),
		now:      time.Now,
	}
}

// WithScope returns a child logger sharing the same output
func (l *ConsoleLogger) WithScope(scope string) Logger {
	child := *l
	child.scope = scope
	return &child
}

func (l *ConsoleLogger) Log(level, message string, metadata map[string]interface{}) {
	if !Enabled(level, l.minLevel) {
		return
	}

	var buf strings.Builder
	buf.WriteString(l.colors.faint.Sprint(l.now().Format("15:04:05.000") + " "))

	switch level {
	case LevelDebug:
		buf.WriteString(l.colors.debug.Sprint("DBG "))
	case LevelInfo:
		buf.WriteString(l.colors.info.Sprint("INF "))
	case LevelWarning:
		buf.WriteString(l.colors.warning.Sprint("WRN "))
	case LevelError:
		buf.WriteString(l.colors.error.Sprint("ERR "))
	default:
		buf.WriteString("??? ")
	}

	if l.scope != "" {
		buf.WriteString("[" + l.scope + "] ")
	}
	buf.WriteString(message)

	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		buf.WriteString(l.colors.faint.Sprint(" " + k + "="))
		buf.WriteString(fmt.Sprint(metadata[k]))
	}
	buf.WriteString("\n")

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, buf.String())
}

var _ ScopedLogger = (*ConsoleLogger)(nil)
