// SPDX-License-Identifier: Apache-2.0

package krb5

import (
	"fmt"
	"os"
	"time"

	"github.com/jcmturner/gokrb5/v8/keytab"
)

// keytabEnv names the environment variable consulted when no keytab path
// is given, matching the convention of the MIT tools.
const keytabEnv = "KRB5_KTNAME"

const defaultKeytabPath = "/etc/krb5.keytab"

const defaultMaxClockSkew = 5 * time.Minute

// Credential holds the acceptor's service keytab and principal.  It may be
// shared read-only between any number of acceptors.
type Credential struct {
	kt        *keytab.Keytab
	principal string
	skew      time.Duration
}

// CredentialOption configures AcquireCredential.
type CredentialOption func(c *Credential)

// WithMaxClockSkew sets the clock skew tolerated when validating
// authenticator timestamps.  The default is five minutes.
func WithMaxClockSkew(d time.Duration) CredentialOption {
	return func(c *Credential) {
		c.skew = d
	}
}

// AcquireCredential loads the service keytab for the given principal.  An
// empty keytabPath falls back to $KRB5_KTNAME and then the system default
// keytab location.
func AcquireCredential(principal, keytabPath string, opts ...CredentialOption) (*Credential, error) {
	if principal == "" {
		return nil, fmt.Errorf("acquire credential: service principal is required")
	}

	if keytabPath == "" {
		keytabPath = os.Getenv(keytabEnv)
	}
	if keytabPath == "" {
		keytabPath = defaultKeytabPath
	}

	kt, err := keytab.Load(keytabPath)
	if err != nil {
		return nil, fmt.Errorf("acquire credential: load keytab %s: %w", keytabPath, err)
	}

	c := &Credential{
		kt:        kt,
		principal: principal,
		skew:      defaultMaxClockSkew,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Principal returns the service principal the credential was acquired for.
func (c *Credential) Principal() string {
	return c.principal
}

// Release implements secnego.Credential.  The keytab is plain memory, so
// there is nothing to free; key material is dropped with the Credential.
func (c *Credential) Release() error {
	return nil
}
