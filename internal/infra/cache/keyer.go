package cache

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// ErrKeyDerivation is returned when the parameter object cannot be
// serialized for hashing (e.g. it contains a channel or func value).
var ErrKeyDerivation = errors.New("cache: key derivation failed")

// DeriveKey builds a deterministic cache key "{prefix}:{hash}" from an
// arbitrary parameter object.
//
// Params are canonicalized with encoding/json, which marshals map keys in
// sorted order with no extraneous whitespace, so structurally-equal inputs
// produce the same bytes regardless of insertion order. The canonical bytes
// are hashed with xxhash64 truncated to 8 hex characters. The key is a
// memoization handle, not a security boundary: the truncated non-cryptographic
// hash carries an accepted, negligible collision probability.
func DeriveKey(prefix string, params any) (string, error) {
	canonical, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrKeyDerivation, err)
	}
	sum := xxhash.Sum64(canonical)
	return fmt.Sprintf("%s:%08x", prefix, uint32(sum)), nil
}
