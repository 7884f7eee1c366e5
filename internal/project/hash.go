package project

import (
	"crypto/sha256"
	"encoding/binary"
)

// Digest is a SHA-256 sum, the same shape as source.File.Hash.
type Digest [32]byte

// Combine hashes content followed by parts. Callers must pass parts in a
// fixed order.
func Combine(content Digest, parts ...Digest) Digest {
	buf := make([]byte, 0, len(Digest{})*(len(parts)+1))
	buf = append(buf, content[:]...)
	for _, p := range parts {
		buf = append(buf, p[:]...)
	}
	return sha256.Sum256(buf)
}

// HashStrings hashes values with a length prefix before each one, so that
// ("ab", "c") and ("a", "bc") differ.
func HashStrings(values ...string) Digest {
	var buf []byte
	for _, v := range values {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(len(v)))
		buf = append(buf, v...)
	}
	return sha256.Sum256(buf)
}
