// SPDX-License-Identifier: Apache-2.0

package secnego

import "strings"

// ContextFlag is a bitmask of context attributes requested from, or
// returned by, a Provider.  The assigned numbers follow the acceptor-side
// (ASC_REQ_*) convention so that returned attribute masks from native
// providers can be stored without translation.
type ContextFlag uint32

const (
	ContextFlagDelegate       ContextFlag = 1 << iota // delegate credentials to the acceptor
	ContextFlagMutualAuth                             // peer requested mutual authentication
	ContextFlagReplayDetect                           // enable replay detection for signed/sealed messages
	ContextFlagSequenceDetect                         // enable out-of-sequence detection
	ContextFlagConf                                   // confidentiality (message sealing) available
	ContextFlagUseSessionKey
	_
	_
	ContextFlagAllocateMemory // provider allocates output buffers; always cleared by the engine
	ContextFlagUseDceStyle
	ContextFlagDatagram
	ContextFlagConnection // connection-oriented context
	_
	_
	_
	ContextFlagExtendedError
	ContextFlagStream
	ContextFlagInteg // integrity (message signing) available
	_
	ContextFlagIdentify // acceptor may identify but not impersonate the peer
)

// FlagList expands a flag mask into its individual set bits.
func FlagList(f ContextFlag) (fl []ContextFlag) {
	t := ContextFlag(1)
	for i := 0; i < 32; i++ {
		if f&t != 0 {
			fl = append(fl, t)
		}

		t <<= 1
	}

	return
}

// FlagName returns a human readable name for a single flag bit.
func FlagName(f ContextFlag) string {
	switch f {
	case ContextFlagDelegate:
		return "Delegation"
	case ContextFlagMutualAuth:
		return "Mutual authentication"
	case ContextFlagReplayDetect:
		return "Message replay detection"
	case ContextFlagSequenceDetect:
		return "Out of sequence message detection"
	case ContextFlagConf:
		return "Confidentiality"
	case ContextFlagUseSessionKey:
		return "Use session key"
	case ContextFlagAllocateMemory:
		return "Provider allocates memory"
	case ContextFlagUseDceStyle:
		return "DCE style"
	case ContextFlagDatagram:
		return "Datagram"
	case ContextFlagConnection:
		return "Connection"
	case ContextFlagExtendedError:
		return "Extended errors"
	case ContextFlagStream:
		return "Stream"
	case ContextFlagInteg:
		return "Integrity"
	case ContextFlagIdentify:
		return "Identify only"
	}

	return "Unknown"
}

func (f ContextFlag) String() string {
	names := make([]string, 0, 8)
	for _, fl := range FlagList(f) {
		names = append(names, FlagName(fl))
	}

	return strings.Join(names, ", ")
}
