package zk

import (
	"math/big"

	"github.com/zkident/zkid-go/api/group"
	"github.com/zkident/zkid-go/internal/arith"
)

// Transcript is a complete non-interactive proof (t, c, s).
//
// Its serialized form, and the byte layout hashed to derive the
// challenge, use the following conventions:
//
//   - group elements (t, y) are fixed-width big-endian integers of
//     ceil(bitlen(p)/8) bytes
//   - scalars (c, s) are fixed-width big-endian integers of
//     ceil(bitlen(q)/8) bytes
//   - the context is prefixed by its 8-byte big-endian length
//
// The challenge hashes enc(t) || enc(y) || len(ctx) || ctx in that order.
// Bytes serializes t || c || s with the same widths.
type Transcript struct {
	T *big.Int // commitment, a group element
	C *big.Int // hash-derived challenge
	S *big.Int // response
}

// Bytes returns the canonical fixed-width serialization t || c || s.
func (tr *Transcript) Bytes(params *group.Params) ([]byte, error) {
	buf, err := arith.AppendFixed(nil, tr.T, params.PByteLen())
	if err != nil {
		return nil, err
	}
	buf, err = arith.AppendFixed(buf, tr.C, params.QByteLen())
	if err != nil {
		return nil, err
	}
	return arith.AppendFixed(buf, tr.S, params.QByteLen())
}

// ParseTranscript decodes the serialization produced by Bytes. Length
// mismatches fail with MalformedProofError; value-level checks happen at
// verification.
func ParseTranscript(params *group.Params, data []byte) (*Transcript, error) {
	pLen, qLen := params.PByteLen(), params.QByteLen()
	if len(data) != pLen+2*qLen {
		return nil, &group.MalformedProofError{Reason: "transcript has wrong length"}
	}
	return &Transcript{
		T: new(big.Int).SetBytes(data[:pLen]),
		C: new(big.Int).SetBytes(data[pLen : pLen+qLen]),
		S: new(big.Int).SetBytes(data[pLen+qLen:]),
	}, nil
}

// challenge derives the Fiat-Shamir challenge for commitment t, public
// element y and context.
func challenge(params *group.Params, t, y *big.Int, context []byte) (*big.Int, error) {
	buf, err := arith.AppendFixed(nil, t, params.PByteLen())
	if err != nil {
		return nil, err
	}
	buf, err = arith.AppendFixed(buf, y, params.PByteLen())
	if err != nil {
		return nil, err
	}
	buf = arith.AppendLenPrefixed(buf, context)
	return arith.HashMod(params.Q(), buf), nil
}
