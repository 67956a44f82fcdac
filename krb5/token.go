// SPDX-License-Identifier: Apache-2.0

package krb5

import "fmt"

// RFC 1964 token IDs for the krb5 mechanism.
const (
	tokenIDAPReq uint16 = 0x0100
	tokenIDAPRep uint16 = 0x0200
)

// DER encoding of the krb5 mechanism OID 1.2.840.113554.1.2.2, including
// the OID tag and length.
var krb5OID = []byte{0x06, 0x09, 0x2a, 0x86, 0x48, 0x86, 0xf7, 0x12, 0x01, 0x02, 0x02}

// unwrapInitialToken strips the GSS-API initial context token framing from
// an incoming token and returns the raw AP-REQ.
//
// Initial context tokens (RFC 2743 section 3.1) look like
//
//	0x60 <length> 0x06 <oid-length> <oid> <token-id> <inner>
//
// where the two byte token ID must identify an AP-REQ.  A token that does
// not start with the 0x60 application tag is taken to be a bare AP-REQ,
// which some initiators send.
func unwrapInitialToken(token []byte) ([]byte, error) {
	if len(token) < 2 {
		return nil, fmt.Errorf("token too short: %d bytes", len(token))
	}

	if token[0] != 0x60 {
		return token, nil
	}

	offset := 1
	length, lenBytes, err := parseLength(token[offset:])
	if err != nil {
		return nil, fmt.Errorf("token framing: %w", err)
	}
	offset += lenBytes

	if offset+length > len(token) {
		return nil, fmt.Errorf("token truncated: framing claims %d bytes, have %d", offset+length, len(token))
	}

	if offset >= len(token) || token[offset] != 0x06 {
		return nil, fmt.Errorf("token framing: missing mechanism OID")
	}
	offset++

	if offset >= len(token) {
		return nil, fmt.Errorf("token framing: truncated OID length")
	}
	oidLen := int(token[offset])
	offset++
	offset += oidLen

	if offset+2 > len(token) {
		return nil, fmt.Errorf("token framing: truncated token ID")
	}

	tokenID := uint16(token[offset])<<8 | uint16(token[offset+1])
	if tokenID != tokenIDAPReq {
		return nil, fmt.Errorf("unexpected krb5 token ID 0x%04x", tokenID)
	}
	offset += 2

	return token[offset:], nil
}

// wrapToken frames a Kerberos message as a GSS-API mechanism token:
// application tag, length, krb5 OID, token ID, message.
func wrapToken(inner []byte, tokenID uint16) []byte {
	content := make([]byte, 0, len(krb5OID)+2+len(inner))
	content = append(content, krb5OID...)
	content = append(content, byte(tokenID>>8), byte(tokenID))
	content = append(content, inner...)

	lengthBytes := encodeLength(len(content))

	framed := make([]byte, 0, 1+len(lengthBytes)+len(content))
	framed = append(framed, 0x60)
	framed = append(framed, lengthBytes...)
	framed = append(framed, content...)

	return framed
}

// encodeLength encodes n as a DER length field.
func encodeLength(n int) []byte {
	if n < 128 {
		return []byte{byte(n)}
	}

	var b []byte
	for n > 0 {
		b = append([]byte{byte(n)}, b...)
		n >>= 8
	}

	return append([]byte{byte(0x80 | len(b))}, b...)
}

// parseLength decodes a DER length field, returning the length and the
// number of bytes consumed.
func parseLength(data []byte) (int, int, error) {
	if len(data) == 0 {
		return 0, 0, fmt.Errorf("empty length field")
	}

	first := data[0]
	if first < 0x80 {
		return int(first), 1, nil
	}

	numBytes := int(first & 0x7f)
	if numBytes == 0 || numBytes > 4 {
		return 0, 0, fmt.Errorf("unsupported length of %d bytes", numBytes)
	}
	if 1+numBytes > len(data) {
		return 0, 0, fmt.Errorf("truncated length field")
	}

	length := 0
	for i := 1; i <= numBytes; i++ {
		length = length<<8 | int(data[i])
	}

	return length, 1 + numBytes, nil
}
