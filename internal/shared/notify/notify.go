// Package notify carries operator-visible messages from the panel to whatever
// surface renders them.
package notify

import (
	"context"
	"log/slog"
)

// Level ranks how loudly a notice should be shown.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notice is a single operator-visible message.
type Notice struct {
	Level     Level
	Operation string
	Message   string
	Err       error
}

// Notifier delivers notices to the operator.
type Notifier interface {
	Notify(ctx context.Context, notice Notice)
}

// Func adapts a plain function to Notifier.
type Func func(ctx context.Context, notice Notice)

// Notify calls f.
func (f Func) Notify(ctx context.Context, notice Notice) { f(ctx, notice) }

// Discard drops every notice.
var Discard Notifier = Func(func(context.Context, Notice) {})

// LogNotifier writes notices through slog. Used when no interactive surface is attached.
type LogNotifier struct {
	Logger *slog.Logger
}

// Notify logs the notice at a level matching its severity.
func (n LogNotifier) Notify(ctx context.Context, notice Notice) {
	if n.Logger == nil {
		return
	}
	attrs := []slog.Attr{slog.String("operation", notice.Operation)}
	level := slog.LevelInfo
	if notice.Level == LevelError {
		level = slog.LevelWarn
	}
	if notice.Err != nil {
		attrs = append(attrs, slog.String("error", notice.Err.Error()))
	}
	n.Logger.LogAttrs(ctx, level, notice.Message, attrs...)
}
