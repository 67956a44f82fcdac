// SPDX-License-Identifier: Apache-2.0

package secnego

import (
	"log/slog"
	"sync"
)

// ImpersonationScope lets the caller act under the negotiated identity
// until Close is called.  A scope can only be obtained from a completed
// Acceptor; see Acceptor.Impersonate.
//
// Close reverts the identity exactly once no matter how many times it is
// called or on which exit path, so the usual pattern is:
//
//	scope, err := acceptor.Impersonate()
//	if err != nil {
//		return err
//	}
//	defer scope.Close()
type ImpersonationScope struct {
	provider Provider
	ctx      ContextHandle
	logger   *slog.Logger

	once      sync.Once
	revertErr error
}

// Close reverts to the original identity.  Only the first call performs
// the revert; later calls return the result of that first revert.
func (s *ImpersonationScope) Close() error {
	s.once.Do(func() {
		s.revertErr = s.provider.RevertToSelf(s.ctx)
		if s.logger != nil {
			s.logger.Debug("impersonation reverted", slog.Any("error", s.revertErr))
		}
	})

	return s.revertErr
}
