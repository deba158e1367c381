// Package logx contains logging extensions for apex/log.
package logx

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/fatih/color"
)

// Handler is an [log.Handler] emitting compact lines prefixed
// by the time elapsed since the handler was created.
//
// The zero value is invalid; use [NewHandlerWithDefaultSettings].
type Handler struct {
	// Emoji OPTIONALLY decorates log levels using emojis.
	Emoji bool

	// Now is the MANDATORY func to obtain the current time.
	Now func() time.Time

	// StartTime is the MANDATORY time when we started logging.
	StartTime time.Time

	// Writer is the MANDATORY writer where to write logs.
	Writer io.Writer

	// mu provides mutual exclusion.
	mu sync.Mutex
}

// NewHandlerWithDefaultSettings creates a new [Handler] using
// the current time as start time and the stderr as writer.
func NewHandlerWithDefaultSettings() *Handler {
	return &Handler{
		Emoji:     false,
		Now:       time.Now,
		StartTime: time.Now(),
		Writer:    os.Stderr,
	}
}

var _ log.Handler = &Handler{}

// levelColor maps log levels to colors.
var levelColor = map[log.Level]*color.Color{
	log.DebugLevel: color.New(color.FgWhite),
	log.InfoLevel:  color.New(color.FgBlue),
	log.WarnLevel:  color.New(color.FgYellow),
	log.ErrorLevel: color.New(color.FgRed),
	log.FatalLevel: color.New(color.FgRed, color.Bold),
}

// levelEmoji maps log levels to emojis.
var levelEmoji = map[log.Level]string{
	log.WarnLevel:  "🚨",
	log.ErrorLevel: "🔥",
	log.FatalLevel: "🚒",
}

// HandleLog implements [log.Handler].
func (h *Handler) HandleLog(e *log.Entry) error {
	elapsed := h.Now().Sub(h.StartTime)
	level := fmt.Sprintf("<%s>", e.Level.String())
	if h.Emoji {
		if v := levelEmoji[e.Level]; v != "" {
			level = v
		}
	}
	if c := levelColor[e.Level]; c != nil {
		level = c.Sprint(level)
	}
	var fields strings.Builder
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fields.WriteString(fmt.Sprintf(" %s=%v", name, e.Fields.Get(name)))
	}
	line := fmt.Sprintf("[%10.6f] %s %s%s\n", elapsed.Seconds(), level, e.Message, fields.String())
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.Writer, line)
	return err
}
