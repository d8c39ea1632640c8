// Package correlation tags everything one kiosk event causes (transition,
// store command, log lines) with a short shared ID and the source that
// raised the event.
package correlation

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
)

// Source names what raised a kiosk event.
type Source string

const (
	// SourceBridge marks events posted by the presentation layer.
	SourceBridge Source = "bridge"
	// SourceTimer marks scan-delay and countdown fires.
	SourceTimer Source = "timer"
)

type (
	idKey     struct{}
	sourceKey struct{}
)

// NewID returns 8 hex characters. Enough to tell apart the handful of
// events in one visit; it is never used as a visitor identifier.
func NewID() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, idKey{}, id)
}

// ID reports the event ID carried by ctx, if any.
func ID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(idKey{}).(string)
	return id, ok && id != ""
}

// Ensure gives ctx an event ID unless it already has one. Dispatch calls it
// so events from tests and timers are traceable like bridge requests.
func Ensure(ctx context.Context) context.Context {
	if _, ok := ID(ctx); ok {
		return ctx
	}
	return WithID(ctx, NewID())
}

func WithSource(ctx context.Context, src Source) context.Context {
	return context.WithValue(ctx, sourceKey{}, src)
}

// SourceOf reports which side raised the event carried by ctx.
func SourceOf(ctx context.Context) (Source, bool) {
	src, ok := ctx.Value(sourceKey{}).(Source)
	return src, ok && src != ""
}

// Handler stamps "correlation_id" and "source" onto records whose context
// carries them.
type Handler struct {
	inner slog.Handler
}

func NewHandler(inner slog.Handler) *Handler {
	return &Handler{inner: inner}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	if id, ok := ID(ctx); ok {
		r.AddAttrs(slog.String("correlation_id", id))
	}
	if src, ok := SourceOf(ctx); ok {
		r.AddAttrs(slog.String("source", string(src)))
	}
	if err := h.inner.Handle(ctx, r); err != nil {
		return fmt.Errorf("correlation handler: %w", err)
	}
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{inner: h.inner.WithAttrs(attrs)}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{inner: h.inner.WithGroup(name)}
}
