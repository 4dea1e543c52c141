package quorumtest

import (
	"testing"

	"github.com/iov-one/quorum"
)

// ParseAddress takes an address in a human readable format and returns
// its binary representation. This function is a test helper that is using
// quorum.ParseAddress function functionality.
func ParseAddress(t testing.TB, encodedAddress string) quorum.Address {
	t.Helper()

	addr, err := quorum.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}

// Addr returns a stable address for a name. Use it for participants of a
// scenario that do not need to sign anything.
func Addr(name string) quorum.Address {
	return quorum.NewCondition("test", "named", []byte(name)).Address()
}
