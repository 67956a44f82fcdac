package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAuthzHeader(t *testing.T) {
	h := http.Header{}
	typ, tok := parseAuthzHeader(&h)
	assert.Empty(t, typ)
	assert.Empty(t, tok)

	h.Set("Authorization", "Negotiate YIIH")
	typ, tok = parseAuthzHeader(&h)
	assert.Equal(t, "negotiate", typ)
	assert.Equal(t, "YIIH", tok)

	h.Set("Authorization", "Negotiate")
	typ, tok = parseAuthzHeader(&h)
	assert.Empty(t, typ)
	assert.Empty(t, tok)
}
