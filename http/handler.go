// SPDX-License-Identifier: Apache-2.0

package http

import (
	"context"
	"crypto/x509"
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/golang-auth/go-secnego"
)

type ContextKey int

const (
	ctxPeerName ContextKey = iota
)

// PeerName is the authenticated identity of the requesting peer.
type PeerName struct {
	// PrincipalName is the fully qualified name of the peer
	PrincipalName string
}

func setPeerName(r *http.Request, peerName *PeerName) *http.Request {
	newCtx := context.WithValue(r.Context(), ctxPeerName, peerName)
	return r.WithContext(newCtx)
}

// GetPeerName returns the peer name from the request context if available.
// This can be used by the 'next' http handler called by [Handler.ServeHTTP]
func GetPeerName(r *http.Request) (*PeerName, bool) {
	peerName, ok := r.Context().Value(ctxPeerName).(*PeerName)
	return peerName, ok
}

// Handler is a http.Handler that performs Negotiate authentication and
// passes the peer name to the next handler
type Handler struct {
	provider   secnego.Provider
	credential secnego.Credential
	next       http.Handler
	serverCert *x509.Certificate
	logger     *slog.Logger
}

// HandlerOption is a function that can be used to configure the Handler
type HandlerOption func(s *Handler)

// WithEndpointBinding makes the handler bind each handshake to the TLS
// session using a tls-server-end-point binding over the given server
// certificate.  Requests arriving over plain HTTP are not bound.
func WithEndpointBinding(serverCert *x509.Certificate) HandlerOption {
	return func(s *Handler) {
		s.serverCert = serverCert
	}
}

// WithLogger sets the logger passed to each per-request acceptor
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(s *Handler) {
		s.logger = logger
	}
}

// NewHandler creates a new Handler accepting contexts with the given
// provider and credential, passing authenticated requests to next
func NewHandler(provider secnego.Provider, credential secnego.Credential, next http.Handler, options ...HandlerOption) *Handler {
	h := &Handler{
		provider:   provider,
		credential: credential,
		next:       next,
	}
	for _, option := range options {
		option(h)
	}
	return h
}

// ServeHTTP performs the Negotiate authentication and passes the peer name
// to the next handler.  It doesn't seem possible to support any more than
// one negotiation round trip per request with the Go [http.Server]
// implementation without hijacking the connection, so multi-round
// mechanisms fail here unless they can establish the context in one step.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	authzType, authzToken := parseAuthzHeader(&r.Header)
	if authzType == "negotiate" && len(authzToken) > 0 {
		outToken, pn, err := h.NegotiateOnce(r, authzToken)
		if err != nil {
			w.Header().Set("WWW-Authenticate", "Negotiate")
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if outToken != "" {
			// mutual authentication reply for the peer to verify
			w.Header().Set("WWW-Authenticate", "Negotiate "+outToken)
		}
		r = setPeerName(r, pn)
	} else {
		w.Header().Set("WWW-Authenticate", "Negotiate")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	h.next.ServeHTTP(w, r)
}

// NegotiateOnce performs a single negotiation round trip to establish the
// context and returns the output token and peer name.
func (h *Handler) NegotiateOnce(r *http.Request, negotiateToken string) (string, *PeerName, error) {
	outToken := ""

	rawToken, err := base64.StdEncoding.DecodeString(negotiateToken)
	if err != nil {
		return "", nil, err
	}

	opts := []secnego.AcceptorOption{}
	if h.serverCert != nil && r.TLS != nil {
		binding, err := EndpointBinding(r.TLS, h.serverCert)
		if err != nil {
			return "", nil, err
		}
		opts = append(opts, secnego.WithChannelBinding(binding))
	}
	if h.logger != nil {
		opts = append(opts, secnego.WithLogger(h.logger))
	}

	acceptor, err := secnego.NewAcceptor(h.provider, h.credential, opts...)
	if err != nil {
		return "", nil, err
	}
	defer acceptor.Close() //nolint:errcheck

	respToken, err := acceptor.Step(secnego.NewToken(rawToken))
	if err != nil {
		return "", nil, err
	}
	if !acceptor.Complete() {
		return "", nil, errMoreRoundsNeeded
	}
	if !respToken.Empty() {
		outToken = base64.StdEncoding.EncodeToString(respToken.Bytes())
	}

	pn := PeerName{}
	id, err := acceptor.AccessToken()
	if err == nil {
		pn.PrincipalName = id.Principal()
		_ = id.Close()
	}

	return outToken, &pn, nil
}
