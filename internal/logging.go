package internal

import (
	"io"
	"os"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LevelSet map[zapcore.Level]bool

func (ls LevelSet) Enabled(l zapcore.Level) bool {
	return ls[l]
}

var logLevels = LevelSet{zapcore.InfoLevel: true}

// SetAllowedLogLevels replaces the global logger with one that prints the
// given levels on stdout. Warnings and errors always go to stderr.
func SetAllowedLogLevels(levels ...zapcore.Level) {
	newLevels := make(LevelSet)
	for _, lvl := range levels {
		newLevels[lvl] = true
	}
	logLevels = newLevels
	InitLogger()
}

func InitLogger() {
	zap.ReplaceGlobals(NewLogger(os.Stdout, ColorWriter(os.Stderr, color.FgYellow), logLevels))
}

type colorWriter struct {
	out   io.Writer
	color *color.Color
}

// ColorWriter paints everything written to out. Color is dropped when the
// terminal does not support it.
func ColorWriter(out io.Writer, attr color.Attribute) io.Writer {
	return &colorWriter{out: out, color: color.New(attr)}
}

func (w *colorWriter) Write(p []byte) (int, error) {
	if _, err := w.color.Fprint(w.out, string(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// NewLogger builds the bare console logger used by the CLI: no timestamps,
// levels or callers, just the message.
func NewLogger(stdout, stderr io.Writer, levels LevelSet) *zap.Logger {
	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey:  "msg",
		EncodeLevel: zapcore.CapitalLevelEncoder,
		EncodeTime:  zapcore.ISO8601TimeEncoder,
	})

	outCore := zapcore.NewCore(encoder, zapcore.AddSync(stdout), zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l < zapcore.WarnLevel && levels.Enabled(l)
	}))

	errCore := zapcore.NewCore(encoder, zapcore.AddSync(stderr), zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= zapcore.WarnLevel
	}))

	return zap.New(zapcore.NewTee(outCore, errCore))
}
