// SPDX-License-Identifier: Apache-2.0

/*
Package sspi provides a Windows acceptor provider for the secnego engine,
backed by the native SSPI Negotiate package.  It registers itself under
the name "sspi".

Unlike the pure Go kerberos provider, this provider supports the full
contract: multi-round SPNEGO and NTLM exchanges, token finalization,
querying the peer's access token, and thread impersonation.

On non-Windows platforms the package still registers its name, but the
constructor fails, so provider selection code can treat the platform
difference as an ordinary lookup error.
*/
package sspi
