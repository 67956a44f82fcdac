// SPDX-License-Identifier: Apache-2.0

package secnego

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	ilog "github.com/golang-auth/go-secnego/internal/log"
)

// AcceptorOptions collects the optional parameters of NewAcceptor.  Use
// the With* functions rather than filling this in directly.
type AcceptorOptions struct {
	Flags          ContextFlag
	DataRep        DataRep
	ChannelBinding *ChannelBinding
	Logger         *slog.Logger
}

// AcceptorOption configures an Acceptor.
type AcceptorOption func(o *AcceptorOptions)

// WithRequestFlags sets the context attributes requested from the provider.
// ContextFlagAllocateMemory is always stripped: the engine owns its output
// buffers and never delegates allocation to the provider.
func WithRequestFlags(flags ContextFlag) AcceptorOption {
	return func(o *AcceptorOptions) {
		o.Flags = flags
	}
}

// WithDataRep sets the data representation passed to the provider.  The
// default is DataRepNative.
func WithDataRep(rep DataRep) AcceptorOption {
	return func(o *AcceptorOptions) {
		o.DataRep = rep
	}
}

// WithChannelBinding binds the handshake to an outer channel.  The binding
// is passed to the provider as an extra input buffer on every round.
func WithChannelBinding(cb *ChannelBinding) AcceptorOption {
	return func(o *AcceptorOptions) {
		o.ChannelBinding = cb
	}
}

// WithLogger enables handshake tracing.  The logger's handler is wrapped
// with redaction so sensitive attributes cannot leak; token contents are
// never logged, only lengths.
func WithLogger(logger *slog.Logger) AcceptorOption {
	return func(o *AcceptorOptions) {
		o.Logger = logger
	}
}

// Acceptor drives the server side of a multi-round security context
// negotiation against an opaque Provider.  The caller feeds it each token
// received from the peer and sends back the token each round produces,
// until Complete reports true.
//
// An Acceptor is not safe for concurrent use: the context handle is
// mutated in place by every round and rounds must be applied in the exact
// order tokens arrive from the peer.  Concurrent sessions need distinct
// Acceptors; they may share one Credential.
//
// Close must be called when the Acceptor is no longer needed, and the
// borrowed Credential must outlive the Acceptor.
type Acceptor struct {
	provider Provider
	cred     Credential
	reqFlags ContextFlag
	dataRep  DataRep
	cb       *ChannelBinding
	logger   *slog.Logger
	id       uuid.UUID

	ctx       ContextHandle
	round     int
	complete  bool
	disposed  bool
	flags     ContextFlag
	expiry    Lifetime
	lastToken Token
}

// NewAcceptor creates an acceptor-side negotiation engine using the given
// provider and borrowed credential.
func NewAcceptor(provider Provider, cred Credential, opts ...AcceptorOption) (*Acceptor, error) {
	if provider == nil {
		return nil, fmt.Errorf("new acceptor: provider is required")
	}
	if cred == nil {
		return nil, fmt.Errorf("new acceptor: %w", ErrNoCredentials)
	}

	o := AcceptorOptions{
		DataRep: DataRepNative,
	}
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	} else {
		logger = slog.New(ilog.NewRedactingHandler(logger.Handler()))
	}

	a := &Acceptor{
		provider: provider,
		cred:     cred,
		reqFlags: o.Flags &^ ContextFlagAllocateMemory,
		dataRep:  o.DataRep,
		cb:       o.ChannelBinding,
		id:       uuid.New(),
	}
	a.logger = logger.With(
		slog.String("provider", provider.Name()),
		slog.String("handshake_id", a.id.String()),
	)

	return a, nil
}

// Step advances the handshake by one round with a token received from the
// peer.  It returns the token to send back, which may be empty even on
// intermediate rounds.
//
// Calling Step after Complete reports true is a caller bug and fails with
// ErrSequence; a failed round is terminal and is never retried internally.
func (a *Acceptor) Step(tokenIn Token) (Token, error) {
	if a.disposed {
		return Token{}, fmt.Errorf("step: %w", ErrDisposed)
	}
	if a.complete {
		return Token{}, fmt.Errorf("step: negotiation already complete: %w", ErrSequence)
	}

	input := []Buffer{
		{Type: BufferTypeToken, Data: tokenIn.Bytes()},
	}
	if a.cb != nil && len(a.cb.Data) > 0 {
		input = append(input, Buffer{Type: BufferTypeChannelBindings, Data: a.cb.Data})
	}
	output := []Buffer{
		NewTokenBuffer(MaxTokenSize),
	}

	// nil context handle signals the first round to the provider
	res, err := a.provider.NegotiateStep(a.cred, a.ctx, input, output, a.reqFlags, a.dataRep)
	a.round++

	// retain the handle even on failure so Close can release it
	if res.Context != nil {
		a.ctx = res.Context
	}

	if err != nil {
		a.logger.Debug("negotiate step failed", slog.Int("round", a.round), slog.Any("error", err))
		return Token{}, fmt.Errorf("negotiate step: %w", err)
	}

	// flags and expiry reflect the most recent round, whatever its status
	a.flags = res.Flags
	a.expiry = res.Expiry

	if res.Status.IsError() {
		authErr := &AuthError{Code: res.Status}
		a.logger.Debug("negotiate step rejected",
			slog.Int("round", a.round),
			slog.String("status", fmt.Sprintf("0x%08x", uint32(res.Status))),
		)
		return Token{}, authErr
	}

	if res.Status.CompletionRequired() {
		if err := a.provider.CompleteToken(a.ctx, output); err != nil {
			return Token{}, fmt.Errorf("complete token: %w", err)
		}
	}

	outBuf := FindBuffer(output, BufferTypeToken)
	if outBuf == nil || len(outBuf.Data) > MaxTokenSize {
		return Token{}, fmt.Errorf("output token: %w", ErrTokenTooLarge)
	}

	tokenOut := NewToken(outBuf.Data)
	a.lastToken = tokenOut
	a.complete = !res.Status.ContinueNeeded()

	a.logger.Debug("negotiate step",
		slog.Int("round", a.round),
		slog.String("status", res.Status.String()),
		slog.Int("token_in_len", tokenIn.Len()),
		slog.Int("token_out_len", tokenOut.Len()),
		slog.Bool("complete", a.complete),
	)

	return tokenOut, nil
}

// Complete reports whether the context is fully established and no further
// rounds are required.
func (a *Acceptor) Complete() bool {
	return a.complete
}

// ContextFlags returns the context attributes granted by the most recent
// round.
func (a *Acceptor) ContextFlags() ContextFlag {
	return a.flags
}

// ExpiresAt returns the advisory context lifetime reported by the most
// recent round.  The engine surfaces it but does not enforce it.
func (a *Acceptor) ExpiresAt() Lifetime {
	return a.expiry
}

// LastToken returns the outbound token produced by the most recent
// successful round.
func (a *Acceptor) LastToken() Token {
	return a.lastToken
}

// AccessToken returns the identity bound to the established context.  It
// fails with ErrSequence before the handshake completes.
func (a *Acceptor) AccessToken() (AccessToken, error) {
	if a.disposed {
		return nil, fmt.Errorf("access token: %w", ErrDisposed)
	}
	if !a.complete {
		return nil, fmt.Errorf("access token: negotiation not complete: %w", ErrSequence)
	}

	return a.provider.QueryAccessToken(a.ctx)
}

// Impersonate begins acting as the authenticated peer.  The returned scope
// must be closed to revert; reversion happens exactly once regardless of
// how the scope ends.  Impersonate fails with ErrSequence before the
// handshake completes.
func (a *Acceptor) Impersonate() (*ImpersonationScope, error) {
	if a.disposed {
		return nil, fmt.Errorf("impersonate: %w", ErrDisposed)
	}
	if !a.complete {
		return nil, fmt.Errorf("impersonate: negotiation not complete: %w", ErrSequence)
	}

	if err := a.provider.Impersonate(a.ctx); err != nil {
		return nil, fmt.Errorf("impersonate: %w", err)
	}

	a.logger.Debug("impersonation started")

	return &ImpersonationScope{
		provider: a.provider,
		ctx:      a.ctx,
		logger:   a.logger,
	}, nil
}

// Close releases the context handle, if one was ever created, and marks
// the Acceptor unusable.  It is idempotent: the handle is released at most
// once and calls after the first are no-ops.
func (a *Acceptor) Close() error {
	if a.disposed {
		return nil
	}
	a.disposed = true

	if a.ctx == nil {
		// negotiation never advanced past construction
		return nil
	}

	ctx := a.ctx
	a.ctx = nil

	if err := a.provider.DeleteContext(ctx); err != nil {
		return fmt.Errorf("delete context: %w", err)
	}

	a.logger.Debug("context released", slog.Int("rounds", a.round))

	return nil
}
