package crypto

import "runtime"

// Wipe overwrites derived key material once a message has been sealed or
// opened.
//
//go:noinline
func Wipe(b []byte) {
	clear(b)
	runtime.KeepAlive(&b)
}

// Destroy wipes the keyring's secret at shutdown. Messages sealed afterwards
// cannot be opened by anyone, so callers stop sending first.
func (k *Keyring) Destroy() {
	Wipe(k.secret[:])
	k.encoded = ""
}
