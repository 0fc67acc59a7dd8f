package arith

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

// ByteLen returns the number of bytes needed to encode values modulo m,
// i.e. ceil(bitlen(m)/8).
func ByteLen(m *big.Int) int {
	return (m.BitLen() + 7) / 8
}

// FixedBytes encodes x as a fixed-width big-endian integer of the given
// byte length. It fails if x is negative or does not fit.
func FixedBytes(x *big.Int, size int) ([]byte, error) {
	if x == nil || x.Sign() < 0 {
		return nil, errors.New("cannot encode nil or negative integer")
	}
	b := x.Bytes()
	if len(b) > size {
		return nil, errors.Errorf("integer needs %d bytes, field width is %d", len(b), size)
	}
	out := make([]byte, size)
	copy(out[size-len(b):], b)
	return out, nil
}

// AppendFixed appends the fixed-width big-endian encoding of x to buf.
// The transcript hashing below depends on this layout; see HashMod.
func AppendFixed(buf []byte, x *big.Int, size int) ([]byte, error) {
	enc, err := FixedBytes(x, size)
	if err != nil {
		return nil, err
	}
	return append(buf, enc...), nil
}

// AppendLenPrefixed appends data preceded by its 8-byte big-endian length.
// Variable-length transcript fields (session context, identity strings)
// use this form so that no two distinct field sequences share an encoding.
func AppendLenPrefixed(buf, data []byte) []byte {
	var l [8]byte
	binary.BigEndian.PutUint64(l[:], uint64(len(data)))
	buf = append(buf, l[:]...)
	return append(buf, data...)
}

// HashMod hashes the transcript bytes with SHA3-256 and reduces the digest
// modulo q. This is the single random-oracle instantiation shared by every
// non-interactive protocol in the module.
func HashMod(q *big.Int, transcript []byte) *big.Int {
	digest := sha3.Sum256(transcript)
	c := new(big.Int).SetBytes(digest[:])
	return c.Mod(c, q)
}
