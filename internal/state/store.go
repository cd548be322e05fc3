// Package state provides the durable key-value store that mirrors client
// session state (token, user record, cart snapshot) across runs.
//
// The store is a passive mirror: writes flow one way, state to store, except
// at startup when the managers hydrate from it. Corrupt entries decode to
// ErrCorruptEntry and are treated by callers as absence.
package state

import "github.com/go-faster/errors"

// Well-known entry keys.
const (
	KeyToken = "token"
	KeyUser  = "user"
	KeyCart  = "cart"
)

// ErrCorruptEntry is returned by the codecs when a persisted payload cannot
// be decoded. Callers discard the entry and proceed as if it were absent.
var ErrCorruptEntry = errors.New("corrupt state entry")

// Store is durable, string-keyed storage for small binary values.
type Store interface {
	// Get returns the value for key and whether the key exists.
	Get(key string) ([]byte, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
	// Close releases the underlying resources.
	Close() error
}
