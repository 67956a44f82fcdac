// SPDX-License-Identifier: Apache-2.0

package secnego

import (
	"bytes"
	"fmt"
)

// Token is one opaque protocol message exchanged during the handshake.  The
// bytes are mechanism defined and are never interpreted by the engine.
//
// Tokens are immutable values: the constructor and accessor both copy, so a
// Token can never alias caller-owned memory.
type Token struct {
	b []byte
}

// NewToken creates a token from a byte sequence received from the peer.
// The bytes are copied.
func NewToken(b []byte) Token {
	if len(b) == 0 {
		return Token{}
	}

	return Token{b: bytes.Clone(b)}
}

// Bytes returns a copy of the token bytes.  A zero-length token returns nil.
func (t Token) Bytes() []byte {
	return bytes.Clone(t.b)
}

// Len returns the number of bytes in the token.
func (t Token) Len() int {
	return len(t.b)
}

// Empty reports whether the token carries no bytes.  Empty tokens are
// legal: an acceptor's final round may produce one.
func (t Token) Empty() bool {
	return len(t.b) == 0
}

// Equal reports bytewise equality.
func (t Token) Equal(other Token) bool {
	return bytes.Equal(t.b, other.b)
}

// String describes the token without exposing its contents; token bytes are
// security sensitive and must not end up in logs.
func (t Token) String() string {
	return fmt.Sprintf("Token(%d bytes)", len(t.b))
}
