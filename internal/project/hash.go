package project

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest is a SHA-256 value, the same shape as source.File.Hash.
type Digest [32]byte

// Combine hashes content followed by each part in order.
func Combine(content Digest, parts ...string) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, p := range parts {
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(p))
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

func (d Digest) IsZero() bool {
	return d == Digest{}
}
