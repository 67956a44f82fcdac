// SPDX-License-Identifier: Apache-2.0

package secnego

import (
	"net"
	"time"
)

// DataRep selects the data representation the provider should assume for
// the peer.  The values follow the native SECURITY_*_DREP constants.
type DataRep uint32

const (
	DataRepNetwork DataRep = 0x00
	DataRepNative  DataRep = 0x10
)

// ContextHandle is the opaque, provider-defined negotiation state.  A
// handle is created by the first NegotiateStep of a handshake, mutated in
// place by every later step, and must be released exactly once with
// DeleteContext.  Handles are owned by a single Acceptor and are not safe
// for concurrent use.
type ContextHandle any

// Credential is an opaque reference to pre-established acceptor
// credentials.  Credentials are created by provider packages (or natively
// by the caller), may be shared read-only between many acceptors, and are
// never released by the engine: the owner calls Release after every
// acceptor borrowing the credential has been closed.
type Credential interface {
	Release() error
}

// AccessToken is the identity bound to an established security context.
type AccessToken interface {
	// Principal returns the authenticated peer name.
	Principal() string

	// Close releases any native resources backing the token.
	Close() error
}

// LifetimeStatus defines the possible states of a Lifetime value.
type LifetimeStatus int

const (
	// LifetimeAvailable indicates that ExpiresAt is valid.
	LifetimeAvailable LifetimeStatus = iota

	// LifetimeExpired indicates the context has expired; ExpiresAt is not valid.
	LifetimeExpired

	// LifetimeIndefinite indicates the context does not expire; ExpiresAt is not valid.
	LifetimeIndefinite
)

// Lifetime is the advisory expiry a provider reports for a context.  The
// engine surfaces it but never enforces it.  The status is kept separate
// from the expiry time because overloading the time value, as the native
// APIs do, does not translate to Go.
type Lifetime struct {
	Status    LifetimeStatus
	ExpiresAt time.Time
}

// MakeLifetime builds a Lifetime from a remaining duration.  A zero
// duration means the context has already expired.
func MakeLifetime(remaining time.Duration) Lifetime {
	status := LifetimeAvailable
	if remaining == 0 {
		status = LifetimeExpired
	}

	return Lifetime{
		Status:    status,
		ExpiresAt: time.Now().Add(remaining),
	}
}

// ChannelBinding carries data that cryptographically binds the security
// context to an outer channel, typically a TLS session.  Only Data takes
// part in the exchange; the addresses are accepted for parity with
// providers that include them in the binding hash.
type ChannelBinding struct {
	InitiatorAddr net.Addr
	AcceptorAddr  net.Addr
	Data          []byte
}

// StepResult carries the auxiliary outputs of one negotiate call alongside
// its status, replacing the native API's pile of out-parameters.
type StepResult struct {
	// Status classifies the round; see the Status success set.
	Status Status

	// Context is the updated context handle.  On the first round this is
	// the newly created handle; the engine retains it even when Status is
	// an error code so the handle can still be released.
	Context ContextHandle

	// Flags are the context attributes granted so far.  Valid on every
	// round, not only the final one.
	Flags ContextFlag

	// Expiry is the advisory lifetime of the (possibly partial) context.
	Expiry Lifetime
}

// Provider is the call contract for an opaque negotiation mechanism.  It is
// the only boundary the engine depends on: the engine drives the handshake
// and owns all buffers, the provider implements the cryptography.
//
// Implementations live in their own packages (krb5, sspi) and register
// themselves with RegisterProvider.
type Provider interface {
	// Name identifies the provider in logs and registry lookups.
	Name() string

	// NegotiateStep advances the handshake by one round.  ctx is nil on
	// the very first round only.  input holds the peer token buffer and,
	// optionally, a channel bindings buffer; output holds one fixed
	// capacity token buffer the provider writes through Buffer.SetBytes.
	//
	// A non-nil error reports a mechanism-internal failure with no native
	// status; protocol failures are reported through StepResult.Status.
	NegotiateStep(cred Credential, ctx ContextHandle, input, output []Buffer, flags ContextFlag, rep DataRep) (StepResult, error)

	// CompleteToken finalizes the output buffers of a round whose status
	// was StatusCompleteNeeded or StatusCompleteAndContinue.  It must be
	// called before the output token is read.
	CompleteToken(ctx ContextHandle, output []Buffer) error

	// QueryAccessToken returns the identity bound to an established
	// context.
	QueryAccessToken(ctx ContextHandle) (AccessToken, error)

	// Impersonate makes the calling thread act as the authenticated peer.
	Impersonate(ctx ContextHandle) error

	// RevertToSelf undoes a previous Impersonate on the same context.
	RevertToSelf(ctx ContextHandle) error

	// DeleteContext releases the context handle.  Called at most once per
	// handle.
	DeleteContext(ctx ContextHandle) error
}
