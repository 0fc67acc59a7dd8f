package group

import (
	"math/big"

	"github.com/zkident/zkid-go/internal/arith"
)

// KeyPair holds an identity's private scalar x in [1, q-1] and the public
// element y = g^x mod p. The private scalar is unexported, is never
// serialized and can only be exercised through Respond.
type KeyPair struct {
	params *Params
	x      *big.Int
	y      *big.Int
	wiped  bool
}

// GenerateKeyPair draws a fresh key pair over the given parameters using
// crypto/rand. Malformed parameters fail with InvalidParameterError.
func GenerateKeyPair(params *Params) (*KeyPair, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	x, err := params.RandomScalar()
	if err != nil {
		return nil, &InvalidParameterError{Reason: err.Error()}
	}
	return &KeyPair{params: params, x: x, y: params.ExpG(x)}, nil
}

// Params returns the group the key pair was generated over.
func (k *KeyPair) Params() *Params { return k.params }

// Public returns a copy of the public element y = g^x mod p.
func (k *KeyPair) Public() *big.Int { return new(big.Int).Set(k.y) }

// Respond computes nonce + challenge*x mod q, the prover's third message
// in a Schnorr exchange. This is the only operation that touches the
// private scalar; x itself is never released.
func (k *KeyPair) Respond(nonce, challenge *big.Int) (*big.Int, error) {
	if k.wiped {
		return nil, &InvalidParameterError{Reason: "key pair has been wiped"}
	}
	s := new(big.Int).Mul(challenge, k.x)
	s.Add(s, nonce)
	return s.Mod(s, k.params.q), nil
}

// Wipe zeroes the private scalar. The key pair is unusable afterwards;
// call it when the identity is decommissioned.
func (k *KeyPair) Wipe() {
	arith.Wipe(k.x)
	k.wiped = true
}
