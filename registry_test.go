// SPDX-License-Identifier: Apache-2.0

package secnego

import (
	"errors"
	"testing"
)

func TestRegistryRoundTrip(t *testing.T) {
	assert := NewAssert(t)

	RegisterProvider("Test-RoundTrip", func() (Provider, error) {
		return &fakeProvider{}, nil
	})

	// lookups are case insensitive
	p, err := NewProvider("test-roundtrip")
	assert.NoErrorFatal(err)
	assert.Equal("fake", p.Name())

	assert.Contains(Providers(), "test-roundtrip")
}

func TestRegistryUnknownProvider(t *testing.T) {
	assert := NewAssert(t)

	_, err := NewProvider("no-such-mechanism")
	assert.Error(err)

	assert.Panics(func() {
		MustNewProvider("no-such-mechanism")
	})
}

func TestRegistryDuplicatePanics(t *testing.T) {
	assert := NewAssert(t)

	RegisterProvider("test-duplicate", func() (Provider, error) {
		return &fakeProvider{}, nil
	})

	assert.Panics(func() {
		RegisterProvider("Test-Duplicate", func() (Provider, error) {
			return &fakeProvider{}, nil
		})
	})
}

func TestRegistryConstructorError(t *testing.T) {
	assert := NewAssert(t)

	boom := errors.New("mechanism unavailable")
	RegisterProvider("test-broken", func() (Provider, error) {
		return nil, boom
	})

	_, err := NewProvider("test-broken")
	assert.ErrorIs(err, boom)
}
