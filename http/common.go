// SPDX-License-Identifier: Apache-2.0

package http

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"

	cb "github.com/golang-auth/go-channelbinding"

	"github.com/golang-auth/go-secnego"
)

// errMoreRoundsNeeded is returned when the mechanism wants another round
// trip, which the single-round HTTP handler cannot provide.
var errMoreRoundsNeeded = errors.New("mechanism needs more negotiation rounds than HTTP allows")

// EndpointBinding builds a tls-server-end-point channel binding over the
// server certificate, tying the negotiation to the TLS session it rides on.
func EndpointBinding(tlsState *tls.ConnectionState, serverCert *x509.Certificate) (*secnego.ChannelBinding, error) {
	if serverCert == nil {
		// must be the client side then -- the server cert is in the peer certificates list
		if tlsState == nil || len(tlsState.PeerCertificates) == 0 {
			return nil, fmt.Errorf("no server certificate found in TLS connection state, needed for channel binding")
		}
		serverCert = tlsState.PeerCertificates[0]
	}

	data, err := cb.MakeTLSChannelBinding(*tlsState, serverCert, cb.TLSChannelBindingEndpoint)
	if err != nil {
		return nil, fmt.Errorf("channel binding: %w", err)
	}

	binding := &secnego.ChannelBinding{
		Data: data,
	}
	return binding, nil
}
