// SPDX-License-Identifier: Apache-2.0

package secnego

import (
	"errors"
	"fmt"
)

// Engine usage errors.  These indicate a broken caller contract rather than
// a failure of the authentication exchange itself.
var (
	// ErrSequence is returned when an operation is invoked in the wrong
	// handshake state: Step after completion, or AccessToken/Impersonate
	// before completion.
	ErrSequence = errors.New("operation invoked out of sequence for the negotiation state")

	// ErrDisposed is returned by every operation on a closed Acceptor.
	ErrDisposed = errors.New("the acceptor has been closed")

	// ErrTokenTooLarge is returned when a token does not fit in the fixed
	// capacity output buffer.  The capacity is not negotiable; see
	// MaxTokenSize.
	ErrTokenTooLarge = errors.New("token exceeds the output buffer capacity")
)

// Sentinel errors corresponding to well-known native failure codes.  An
// *AuthError unwraps to one of these, so callers can classify failures with
// errors.Is without inspecting the numeric code.
var (
	ErrInsufficientMemory  = errors.New("not enough memory to complete the request")
	ErrInvalidHandle       = errors.New("an invalid handle was supplied")
	ErrUnsupported         = errors.New("the function is not supported by the provider")
	ErrTargetUnknown       = errors.New("the target was not recognized")
	ErrInternal            = errors.New("an internal provider error occurred")
	ErrInvalidToken        = errors.New("the token is malformed or was not recognized")
	ErrQopNotSupported     = errors.New("the quality of protection requested is not supported")
	ErrNoImpersonation     = errors.New("impersonation is not supported for this context")
	ErrLogonDenied         = errors.New("the logon was denied")
	ErrUnknownCredentials  = errors.New("the supplied credentials were not recognized")
	ErrNoCredentials       = errors.New("no credentials are available")
	ErrMessageAltered      = errors.New("the message has been altered")
	ErrOutOfSequenceToken  = errors.New("the message was received out of sequence")
	ErrNoAuthority         = errors.New("no authority could be contacted for authentication")
	ErrContextExpired      = errors.New("the security context has expired")
	ErrIncompleteMessage   = errors.New("the supplied message is incomplete")
	ErrBufferTooSmall      = errors.New("the supplied buffer is too small")
	ErrWrongPrincipal      = errors.New("the peer principal does not match the expected principal")
	ErrUnknownSecurityCode = errors.New("the provider returned an unknown security status")
)

// AuthError is a fatal negotiation failure reported by a Provider.  It
// always carries the native status code for diagnosability, and unwraps to
// the matching sentinel error.
type AuthError struct {
	// Code is the native security status returned by the provider.
	Code Status
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s (0x%08x)", e.Unwrap().Error(), uint32(e.Code))
}

func (e *AuthError) Unwrap() error {
	switch e.Code {
	case StatusInsufficientMemory:
		return ErrInsufficientMemory
	case StatusInvalidHandle:
		return ErrInvalidHandle
	case StatusUnsupportedFunction:
		return ErrUnsupported
	case StatusTargetUnknown:
		return ErrTargetUnknown
	case StatusInternalError:
		return ErrInternal
	case StatusInvalidToken:
		return ErrInvalidToken
	case StatusQopNotSupported:
		return ErrQopNotSupported
	case StatusNoImpersonation:
		return ErrNoImpersonation
	case StatusLogonDenied:
		return ErrLogonDenied
	case StatusUnknownCredentials:
		return ErrUnknownCredentials
	case StatusNoCredentials:
		return ErrNoCredentials
	case StatusMessageAltered:
		return ErrMessageAltered
	case StatusOutOfSequence:
		return ErrOutOfSequenceToken
	case StatusNoAuthenticatingAuthority:
		return ErrNoAuthority
	case StatusContextExpired:
		return ErrContextExpired
	case StatusIncompleteMessage:
		return ErrIncompleteMessage
	case StatusBufferTooSmall:
		return ErrBufferTooSmall
	case StatusWrongPrincipal:
		return ErrWrongPrincipal
	}

	return ErrUnknownSecurityCode
}
