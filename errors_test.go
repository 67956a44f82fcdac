// SPDX-License-Identifier: Apache-2.0

package secnego

import (
	"errors"
	"fmt"
	"testing"
)

func TestAuthErrorUnwrapsToSentinel(t *testing.T) {
	assert := NewAssert(t)

	cases := []struct {
		code Status
		want error
	}{
		{StatusInsufficientMemory, ErrInsufficientMemory},
		{StatusInvalidHandle, ErrInvalidHandle},
		{StatusUnsupportedFunction, ErrUnsupported},
		{StatusTargetUnknown, ErrTargetUnknown},
		{StatusInternalError, ErrInternal},
		{StatusInvalidToken, ErrInvalidToken},
		{StatusQopNotSupported, ErrQopNotSupported},
		{StatusNoImpersonation, ErrNoImpersonation},
		{StatusLogonDenied, ErrLogonDenied},
		{StatusUnknownCredentials, ErrUnknownCredentials},
		{StatusNoCredentials, ErrNoCredentials},
		{StatusMessageAltered, ErrMessageAltered},
		{StatusOutOfSequence, ErrOutOfSequenceToken},
		{StatusNoAuthenticatingAuthority, ErrNoAuthority},
		{StatusContextExpired, ErrContextExpired},
		{StatusIncompleteMessage, ErrIncompleteMessage},
		{StatusBufferTooSmall, ErrBufferTooSmall},
		{StatusWrongPrincipal, ErrWrongPrincipal},
	}

	for _, c := range cases {
		err := &AuthError{Code: c.code}
		assert.ErrorIs(err, c.want, "code 0x%08x", uint32(c.code))
	}
}

func TestAuthErrorUnknownCode(t *testing.T) {
	assert := NewAssert(t)

	err := &AuthError{Code: Status(0x80091234)}
	assert.ErrorIs(err, ErrUnknownSecurityCode)
	assert.Contains(err.Error(), "0x80091234")
}

func TestAuthErrorThroughWrapping(t *testing.T) {
	assert := NewAssert(t)

	// classification survives ordinary %w wrapping
	err := fmt.Errorf("accept: %w", &AuthError{Code: StatusLogonDenied})
	assert.ErrorIs(err, ErrLogonDenied)

	var authErr *AuthError
	assert.True(errors.As(err, &authErr))
	assert.Equal(StatusLogonDenied, authErr.Code)
}

func TestAuthErrorMessage(t *testing.T) {
	assert := NewAssert(t)

	err := &AuthError{Code: StatusLogonDenied}
	assert.Contains(err.Error(), "authentication failed")
	assert.Contains(err.Error(), "logon was denied")
	assert.Contains(err.Error(), "0x8009030c")
}
