// SPDX-License-Identifier: Apache-2.0

package secnego

import "errors"

// MaxTokenSize is the fixed capacity of the output token buffer allocated
// for each negotiation round.  A provider needing a larger token fails the
// round with ErrTokenTooLarge; the engine never grows the buffer.
const MaxTokenSize = 64 * 1024

// BufferType tags the role of a Buffer within a negotiate call.  The
// assigned numbers follow the native SECBUFFER_* convention.
type BufferType uint32

const (
	BufferTypeEmpty           BufferType = 0
	BufferTypeData            BufferType = 1
	BufferTypeToken           BufferType = 2
	BufferTypeChannelBindings BufferType = 14
)

// Buffer is one typed byte region passed across the Provider call contract.
// The engine owns the backing storage; providers write results through
// SetBytes so the fixed capacity is enforced at the boundary.
type Buffer struct {
	Type BufferType
	Data []byte
}

// NewTokenBuffer allocates an empty token buffer with the given capacity.
func NewTokenBuffer(capacity int) Buffer {
	return Buffer{
		Type: BufferTypeToken,
		Data: make([]byte, 0, capacity),
	}
}

// Cap returns the capacity of the backing storage.
func (b *Buffer) Cap() int {
	return cap(b.Data)
}

// SetBytes replaces the buffer contents.  It fails with ErrTokenTooLarge if
// p does not fit in the backing storage; the contents are unchanged in that
// case.
func (b *Buffer) SetBytes(p []byte) error {
	if len(p) > cap(b.Data) {
		return ErrTokenTooLarge
	}

	b.Data = b.Data[:len(p)]
	copy(b.Data, p)

	return nil
}

// Zero overwrites the buffer contents.  Used to scrub key or token material
// before a buffer is released.
func (b *Buffer) Zero() {
	clear(b.Data[:cap(b.Data)])
}

// FindBuffer returns the first buffer of the given type, or nil.
func FindBuffer(bufs []Buffer, t BufferType) *Buffer {
	for i := range bufs {
		if bufs[i].Type == t {
			return &bufs[i]
		}
	}

	return nil
}

// ResourceList collects per-round resources and releases them in reverse
// acquisition order.  Release runs each function at most once, continues
// past failures, and is itself idempotent, so it is safe to defer on every
// exit path including the error path.
type ResourceList struct {
	releases []func() error
	released bool
}

// Add registers a release function.  Calling Add after Release panics; the
// list is single use.
func (l *ResourceList) Add(release func() error) {
	if l.released {
		panic("secnego: Add on a released ResourceList")
	}

	l.releases = append(l.releases, release)
}

// Release runs the registered functions in reverse order and returns the
// joined errors, if any.
func (l *ResourceList) Release() error {
	if l.released {
		return nil
	}
	l.released = true

	var errs []error
	for i := len(l.releases) - 1; i >= 0; i-- {
		if err := l.releases[i](); err != nil {
			errs = append(errs, err)
		}
	}
	l.releases = nil

	return errors.Join(errs...)
}
