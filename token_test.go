// SPDX-License-Identifier: Apache-2.0

package secnego

import (
	"testing"
)

func TestTokenCopiesOnCreate(t *testing.T) {
	assert := NewAssert(t)

	src := []byte{0x60, 0x81, 0x07}
	tok := NewToken(src)

	src[0] = 0xFF
	assert.Equal([]byte{0x60, 0x81, 0x07}, tok.Bytes())
}

func TestTokenCopiesOnRead(t *testing.T) {
	assert := NewAssert(t)

	tok := NewToken([]byte{1, 2, 3})

	b := tok.Bytes()
	b[0] = 0xFF
	assert.Equal([]byte{1, 2, 3}, tok.Bytes())
}

func TestTokenEmpty(t *testing.T) {
	assert := NewAssert(t)

	assert.True(Token{}.Empty())
	assert.True(NewToken(nil).Empty())
	assert.True(NewToken([]byte{}).Empty())
	assert.Nil(NewToken(nil).Bytes())
	assert.Zero(NewToken(nil).Len())

	tok := NewToken([]byte{1})
	assert.False(tok.Empty())
	assert.Equal(1, tok.Len())
}

func TestTokenEqual(t *testing.T) {
	assert := NewAssert(t)

	assert.True(NewToken([]byte("abc")).Equal(NewToken([]byte("abc"))))
	assert.False(NewToken([]byte("abc")).Equal(NewToken([]byte("abd"))))
	assert.True(Token{}.Equal(NewToken(nil)))
}

func TestTokenStringHidesContents(t *testing.T) {
	assert := NewAssert(t)

	tok := NewToken([]byte("hunter2"))
	assert.Equal("Token(7 bytes)", tok.String())
	assert.NotContains(tok.String(), "hunter2")
}
