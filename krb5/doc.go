// SPDX-License-Identifier: Apache-2.0

/*
Package krb5 provides a pure Go Kerberos 5 acceptor provider for the
secnego engine, built on gokrb5.  It registers itself under the name
"kerberos".

The provider verifies an initiator's AP-REQ against a service keytab and
establishes the context in a single round.  When the initiator requests
mutual authentication, the round's output token carries an AP-REP for the
initiator to verify.

Impersonation is not available: a pure Go process has no per-thread
security identity to assume.  Impersonate fails with a wrapped
secnego.ErrUnsupported; use the sspi provider on Windows when
impersonation is needed.
*/
package krb5
