// SPDX-License-Identifier: Apache-2.0

// Package log provides a slog.Handler wrapper that redacts security
// sensitive attributes before they reach the destination handler.  The
// engine never logs token or key bytes directly, but provider and caller
// supplied attributes pass through here as a second line of defence.
package log

import (
	"context"
	"log/slog"
	"strings"
)

// sensitiveKeys lists attribute keys whose values are redacted.  Matching
// is case insensitive and applies to key substrings, so "peer_password"
// is caught as well.
var sensitiveKeys = []string{
	"password",
	"secret",
	"token",
	"key",
	"ticket",
	"cred",
	"authenticator",
}

const redacted = "[REDACTED]"

// RedactingHandler is a slog.Handler that redacts sensitive attributes and
// forwards the record to the next handler.
type RedactingHandler struct {
	next slog.Handler
}

// NewRedactingHandler wraps next with redaction.
func NewRedactingHandler(next slog.Handler) *RedactingHandler {
	return &RedactingHandler{next: next}
}

// Enabled implements slog.Handler.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	var attrs []slog.Attr

	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, redactAttr(a))
		return true
	})

	newRecord := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	newRecord.AddAttrs(attrs...)

	return h.next.Handle(ctx, newRecord)
}

// WithAttrs implements slog.Handler.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redactedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redactedAttrs[i] = redactAttr(a)
	}

	return &RedactingHandler{next: h.next.WithAttrs(redactedAttrs)}
}

// WithGroup implements slog.Handler.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{next: h.next.WithGroup(name)}
}

func redactAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		members := a.Value.Group()
		redactedMembers := make([]slog.Attr, len(members))
		for i, m := range members {
			redactedMembers[i] = redactAttr(m)
		}

		return slog.Attr{Key: a.Key, Value: slog.GroupValue(redactedMembers...)}
	}

	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, redacted)
	}

	return a
}

func isSensitiveKey(key string) bool {
	key = strings.ToLower(key)

	// length suffixes describe sizes, not contents
	if strings.HasSuffix(key, "_len") || strings.HasSuffix(key, "_size") {
		return false
	}

	for _, s := range sensitiveKeys {
		if strings.Contains(key, s) {
			return true
		}
	}

	return false
}
