// SPDX-License-Identifier: Apache-2.0

package krb5

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapUnwrapRoundTrip(t *testing.T) {
	inner := []byte("ap-req-bytes")

	framed := wrapToken(inner, tokenIDAPReq)
	assert.Equal(t, byte(0x60), framed[0])
	assert.True(t, bytes.Contains(framed, krb5OID))

	got, err := unwrapInitialToken(framed)
	require.NoError(t, err)
	assert.Equal(t, inner, got)
}

func TestWrapUnwrapLongForm(t *testing.T) {
	// large enough to force the long form DER length
	inner := bytes.Repeat([]byte{0xAB}, 4096)

	framed := wrapToken(inner, tokenIDAPReq)
	got, err := unwrapInitialToken(framed)
	require.NoError(t, err)
	assert.Equal(t, inner, got)
}

func TestUnwrapBareAPReq(t *testing.T) {
	// AP-REQ without GSS framing starts with APPLICATION 14 (0x6e)
	raw := []byte{0x6e, 0x03, 0x01, 0x02, 0x03}

	got, err := unwrapInitialToken(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, got)
}

func TestUnwrapRejectsWrongTokenID(t *testing.T) {
	framed := wrapToken([]byte("ap-rep-bytes"), tokenIDAPRep)

	_, err := unwrapInitialToken(framed)
	assert.ErrorContains(t, err, "token ID")
}

func TestUnwrapRejectsTruncated(t *testing.T) {
	framed := wrapToken([]byte("ap-req-bytes"), tokenIDAPReq)

	for _, n := range []int{1, 3, len(framed) / 2} {
		_, err := unwrapInitialToken(framed[:n])
		assert.Error(t, err, "prefix of %d bytes", n)
	}
}

func TestLengthEncoding(t *testing.T) {
	cases := []struct {
		n    int
		want []byte
	}{
		{0, []byte{0x00}},
		{127, []byte{0x7f}},
		{128, []byte{0x81, 0x80}},
		{300, []byte{0x82, 0x01, 0x2c}},
		{70000, []byte{0x83, 0x01, 0x11, 0x70}},
	}

	for _, c := range cases {
		enc := encodeLength(c.n)
		assert.Equal(t, c.want, enc, "length %d", c.n)

		n, consumed, err := parseLength(enc)
		require.NoError(t, err)
		assert.Equal(t, c.n, n)
		assert.Equal(t, len(enc), consumed)
	}
}

func TestParseLengthErrors(t *testing.T) {
	_, _, err := parseLength(nil)
	assert.Error(t, err)

	// long form claiming more bytes than present
	_, _, err = parseLength([]byte{0x84, 0x01})
	assert.Error(t, err)

	// absurdly wide length field
	_, _, err = parseLength([]byte{0x89, 1, 2, 3, 4, 5, 6, 7, 8, 9})
	assert.Error(t, err)
}
