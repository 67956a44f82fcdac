// SPDX-License-Identifier: Apache-2.0

package secnego

import (
	"fmt"
	"strings"
	"sync"
)

// ProviderConstructor builds a fresh Provider instance.
type ProviderConstructor func() (Provider, error)

type providerRegistry struct {
	mu   sync.RWMutex
	libs map[string]ProviderConstructor
}

var registry = providerRegistry{
	libs: make(map[string]ProviderConstructor),
}

// RegisterProvider is called by provider implementations, usually from an
// init function, to make a mechanism available by name.  Names are case
// insensitive.  Registering the same name twice panics.
func RegisterProvider(name string, f ProviderConstructor) {
	name = strings.ToLower(name)

	registry.mu.Lock()
	defer registry.mu.Unlock()

	if _, ok := registry.libs[name]; ok {
		panic("secnego: cannot register two providers named " + name)
	}

	registry.libs[name] = f
}

// NewProvider returns a new instance of the named provider.
func NewProvider(name string) (Provider, error) {
	name = strings.ToLower(name)

	registry.mu.RLock()
	f, ok := registry.libs[name]
	registry.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("no provider registered with name %q", name)
	}

	return f()
}

// MustNewProvider is like NewProvider but panics on failure.  Intended for
// program initialization where a missing provider is not recoverable.
func MustNewProvider(name string) Provider {
	p, err := NewProvider(name)
	if err != nil {
		panic(err)
	}

	return p
}

// Providers returns the registered provider names.
func Providers() (l []string) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	l = make([]string, 0, len(registry.libs))
	for name := range registry.libs {
		l = append(l, name)
	}

	return
}
