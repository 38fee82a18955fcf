package app

import (
	"bytes"
	"io"
	"log/slog"

	"watchface/hal"
)

// newLogger returns a text logger that writes one record per line to l.
func newLogger(l hal.Logger, level slog.Leveler) *slog.Logger {
	if l == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(lineWriter{l: l}, &slog.HandlerOptions{Level: level}))
}

type lineWriter struct {
	l hal.Logger
}

func (w lineWriter) Write(p []byte) (int, error) {
	w.l.WriteLineBytes(bytes.TrimRight(p, "\n"))
	return len(p), nil
}
