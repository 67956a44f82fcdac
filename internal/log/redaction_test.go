// SPDX-License-Identifier: Apache-2.0

package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newCapture() (*bytes.Buffer, *slog.Logger) {
	var buf bytes.Buffer
	handler := NewRedactingHandler(slog.NewTextHandler(&buf, nil))

	return &buf, slog.New(handler)
}

func TestRedactsSensitiveAttrs(t *testing.T) {
	a := assert.New(t)
	buf, logger := newCapture()

	logger.Info("step",
		slog.String("peer_password", "hunter2"),
		slog.String("session_key", "deadbeef"),
		slog.String("round", "2"),
	)

	out := buf.String()
	a.NotContains(out, "hunter2")
	a.NotContains(out, "deadbeef")
	a.Contains(out, "[REDACTED]")
	a.Contains(out, "round=2")
}

func TestLengthSuffixesPassThrough(t *testing.T) {
	a := assert.New(t)
	buf, logger := newCapture()

	logger.Info("step",
		slog.Int("token_len", 1432),
		slog.Int("token_size", 1432),
		slog.String("token", "YIIH..."),
	)

	out := buf.String()
	a.Contains(out, "token_len=1432")
	a.Contains(out, "token_size=1432")
	a.NotContains(out, "YIIH")
}

func TestRedactsInsideGroups(t *testing.T) {
	a := assert.New(t)
	buf, logger := newCapture()

	logger.Info("step",
		slog.Group("handshake",
			slog.String("ticket", "krbtgt-bytes"),
			slog.String("provider", "kerberos"),
		),
	)

	out := buf.String()
	a.NotContains(out, "krbtgt-bytes")
	a.Contains(out, "provider=kerberos")
}

func TestRedactsWithAttrs(t *testing.T) {
	a := assert.New(t)
	buf, logger := newCapture()

	logger.With(slog.String("credential", "secret-bytes")).Info("step")

	out := buf.String()
	a.NotContains(out, "secret-bytes")
	a.Contains(out, "[REDACTED]")
}
