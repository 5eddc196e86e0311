// logger provides named, colour-tagged line loggers for the app's components.
package logger

import (
	"io"
	"log"

	"github.com/gookit/color"
)

// Logger writes one line per message, tagged with the component name.
type Logger struct {
	name  string
	color color.Color
	out   *log.Logger
	debug bool
}

// New returns a logger tagging its lines with name, rendered in c.
func New(name string, c color.Color, w io.Writer) *Logger {
	return &Logger{
		name:  name,
		color: c,
		out:   log.New(w, "", log.LstdFlags),
	}
}

// Discard returns a logger that writes nothing.
func Discard() *Logger {
	return New("", color.FgDefault, io.Discard)
}

// WithDebug enables or disables Debug lines.
func (l *Logger) WithDebug(enabled bool) *Logger {
	l.debug = enabled
	return l
}

func (l *Logger) Info(msg string) {
	l.write(color.FgGreen, "INFO", msg)
}

func (l *Logger) Warning(msg string) {
	l.write(color.FgYellow, "WARN", msg)
}

func (l *Logger) Error(msg string) {
	l.write(color.FgRed, "ERROR", msg)
}

// Debug lines are dropped unless enabled with WithDebug.
func (l *Logger) Debug(msg string) {
	if l.debug {
		l.write(color.FgGray, "DEBUG", msg)
	}
}

func (l *Logger) write(level color.Color, tag, msg string) {
	l.out.Printf("%s %s %s", l.color.Sprint("["+l.name+"]"), level.Sprint(tag), msg)
}
