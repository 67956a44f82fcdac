// SPDX-License-Identifier: Apache-2.0

/*
Package secnego implements the acceptor side of a multi-round, opaque-token
security context negotiation, in the style of the native AcceptSecurityContext
loop.  The engine drives the handshake; the cryptography lives behind the
narrow Provider call contract and is supplied by mechanism packages such as
krb5 (pure Go Kerberos) and sspi (Windows).

A server accepts a context by feeding each token received from the peer
into an Acceptor until it reports completion:

	p := secnego.MustNewProvider("kerberos")
	cred, err := krb5.AcquireCredential("HTTP/www.example.com", "")
	...
	acceptor, err := secnego.NewAcceptor(p, cred)
	...
	defer acceptor.Close()

	for !acceptor.Complete() {
		tokenOut, err := acceptor.Step(recvToken())
		if err != nil {
			return err
		}
		if !tokenOut.Empty() {
			sendToken(tokenOut)
		}
	}

	id, err := acceptor.AccessToken()
	...

Once complete, the caller may temporarily assume the negotiated identity:

	scope, err := acceptor.Impersonate()
	...
	defer scope.Close()

Acceptors are single-session and single-goroutine: rounds must be applied
in the order tokens arrive from the peer.  A Credential may be shared
read-only between any number of acceptors and must outlive all of them.
*/
package secnego
