// SPDX-License-Identifier: Apache-2.0

package secnego

import "fmt"

// Status is a native 32-bit security status code returned by a Provider's
// negotiate call.  The numbering follows the SSPI SEC_E_* / SEC_I_* values
// so that codes surfaced in errors can be looked up directly against
// provider documentation.
//
// Only the four success codes are part of the negotiation contract; any
// other value is an error and terminates the handshake.
type Status uint32

// Success codes.  These form the closed set a Provider may return from
// NegotiateStep without failing the handshake.
const (
	// StatusOK indicates the security context is fully established.
	StatusOK Status = 0x00000000

	// StatusContinueNeeded indicates the caller must send the output token
	// to the peer and feed the peer's reply into another step.
	StatusContinueNeeded Status = 0x00090312

	// StatusCompleteNeeded indicates the output token must be finalized
	// with CompleteToken before use; the context is then established.
	StatusCompleteNeeded Status = 0x00090313

	// StatusCompleteAndContinue combines both: finalize the token, send it,
	// and continue with another step.
	StatusCompleteAndContinue Status = 0x00090314
)

// Error codes.  The well-known subset of native failure codes; providers
// may return values outside this list and they are still surfaced verbatim.
const (
	StatusInsufficientMemory        Status = 0x80090300
	StatusInvalidHandle             Status = 0x80090301
	StatusUnsupportedFunction       Status = 0x80090302
	StatusTargetUnknown             Status = 0x80090303
	StatusInternalError             Status = 0x80090304
	StatusInvalidToken              Status = 0x80090308
	StatusQopNotSupported           Status = 0x8009030A
	StatusNoImpersonation           Status = 0x8009030B
	StatusLogonDenied               Status = 0x8009030C
	StatusUnknownCredentials        Status = 0x8009030D
	StatusNoCredentials             Status = 0x8009030E
	StatusMessageAltered            Status = 0x8009030F
	StatusOutOfSequence             Status = 0x80090310
	StatusNoAuthenticatingAuthority Status = 0x80090311
	StatusContextExpired            Status = 0x80090317
	StatusIncompleteMessage         Status = 0x80090318
	StatusBufferTooSmall            Status = 0x80090321
	StatusWrongPrincipal            Status = 0x80090322
)

// ContinueNeeded reports whether the peer is expected to answer with
// another token after this status.
func (s Status) ContinueNeeded() bool {
	return s == StatusContinueNeeded || s == StatusCompleteAndContinue
}

// CompletionRequired reports whether the output token must be passed to
// CompleteToken before it is read.
func (s Status) CompletionRequired() bool {
	return s == StatusCompleteNeeded || s == StatusCompleteAndContinue
}

// IsError reports whether the status is outside the negotiation success set.
func (s Status) IsError() bool {
	switch s {
	case StatusOK, StatusContinueNeeded, StatusCompleteNeeded, StatusCompleteAndContinue:
		return false
	}
	return true
}

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusContinueNeeded:
		return "continue needed"
	case StatusCompleteNeeded:
		return "complete needed"
	case StatusCompleteAndContinue:
		return "complete and continue"
	}

	desc, ok := statusText[s]
	if !ok {
		desc = "unknown security status"
	}
	return fmt.Sprintf("%s (0x%08x)", desc, uint32(s))
}

var statusText = map[Status]string{
	StatusInsufficientMemory:        "not enough memory to complete the request",
	StatusInvalidHandle:             "an invalid handle was supplied",
	StatusUnsupportedFunction:       "the function is not supported by the provider",
	StatusTargetUnknown:             "the target was not recognized",
	StatusInternalError:             "an internal provider error occurred",
	StatusInvalidToken:              "the token is malformed or was not recognized",
	StatusQopNotSupported:           "the quality of protection requested is not supported",
	StatusNoImpersonation:           "impersonation is not supported for this context",
	StatusLogonDenied:               "the logon was denied",
	StatusUnknownCredentials:        "the supplied credentials were not recognized",
	StatusNoCredentials:             "no credentials are available",
	StatusMessageAltered:            "the message has been altered",
	StatusOutOfSequence:             "the message was received out of sequence",
	StatusNoAuthenticatingAuthority: "no authority could be contacted for authentication",
	StatusContextExpired:            "the security context has expired",
	StatusIncompleteMessage:         "the supplied message is incomplete",
	StatusBufferTooSmall:            "the supplied buffer is too small",
	StatusWrongPrincipal:            "the peer principal does not match the expected principal",
}
