package netutil

import (
	"errors"
	"net"
	"syscall"
)

// IsAddressInUseError reports whether err is an EADDRINUSE bind failure.
func IsAddressInUseError(err error) bool {
	return opErrno(err, syscall.EADDRINUSE)
}

// IsConnectionRefusedError reports whether err is a dial that found nobody
// listening. The CLI turns it into a "is thinkmapd running?" hint.
func IsConnectionRefusedError(err error) bool {
	return opErrno(err, syscall.ECONNREFUSED)
}

// opErrno matches errno inside a *net.OpError anywhere in err's chain, so
// url.Error and fmt wrappers are seen through.
func opErrno(err error, errno syscall.Errno) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) && errors.Is(opErr.Err, errno)
}
