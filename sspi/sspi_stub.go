// SPDX-License-Identifier: Apache-2.0

//go:build !windows

package sspi

import (
	"fmt"
	"runtime"

	"github.com/golang-auth/go-secnego"
)

func init() {
	secnego.RegisterProvider("sspi", func() (secnego.Provider, error) {
		return nil, fmt.Errorf("the sspi provider is only available on windows, not %s", runtime.GOOS)
	})
}

// Credential is a placeholder on non-Windows platforms.
type Credential struct{}

// AcquireCredential always fails off Windows.
func AcquireCredential(packageName string) (*Credential, error) {
	return nil, fmt.Errorf("the sspi provider is only available on windows, not %s", runtime.GOOS)
}

// Release implements secnego.Credential.
func (c *Credential) Release() error { return nil }
