// SPDX-License-Identifier: MIT

// Package logging builds the slog loggers used by the tbmodels CLI.
// Library packages never log unless handed a logger through their options.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

var (
	// ErrLevel indicates an unknown level name.
	ErrLevel = errors.New("logging: unknown level")

	// ErrFormat indicates an unknown output format.
	ErrFormat = errors.New("logging: unknown format")
)

// ParseLevel maps debug, info, warn or error (any case, with optional
// offsets such as "info+2") to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("%q: %w", s, ErrLevel)
	}

	return l, nil
}

// New returns a logger writing to w in the given format ("text" or "json")
// at the given minimum level.
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	l, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: l}
	switch strings.ToLower(format) {
	case "", FormatText:
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("%q: %w", format, ErrFormat)
	}
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger { return slog.New(slog.DiscardHandler) }
