// SPDX-License-Identifier: Apache-2.0

/*
Package http provides HTTP Negotiate (SPNEGO-style) authentication on top
of the secnego acceptor engine.

Handler wraps another http.Handler and authenticates each request from its
Authorization header before passing it on.  The authenticated peer name is
made available to the next handler through the request context:

	p := secnego.MustNewProvider("kerberos")
	cred, err := krb5.AcquireCredential("HTTP/www.example.com", "")
	...
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		name, _ := secnegohttp.GetPeerName(r)
		fmt.Fprintf(w, "hello, %s", name.PrincipalName)
	})

	handler := secnegohttp.NewHandler(p, cred, mux)
	log.Fatal(http.ListenAndServeTLS(":8443", certFile, keyFile, handler))

Because the Go http.Server offers no way to hold a connection open across
responses, only mechanisms that complete in a single round trip can be
used here.
*/
package http
