package ageproof

import (
	"math/big"

	"golang.org/x/crypto/sha3"

	"github.com/zkident/zkid-go/api/group"
	"github.com/zkident/zkid-go/internal/arith"
)

// AgeBits is the width of the range proof: age - threshold must fit in
// this many bits. Ages and thresholds are confined to [0, 2^AgeBits - 1].
const AgeBits = 7

// MaxAge is the largest age a credential can commit to.
const MaxAge = 1<<AgeBits - 1

// pedersenSeed domain-separates the derivation of the second generator.
const pedersenSeed = "zkid-go/ageproof/pedersen-h/v1"

// IssuerParams extends the group parameters with the second Pedersen
// generator h. Both sides derive h deterministically from the group
// description, so no party ever knows log_g h.
type IssuerParams struct {
	grp *group.Params
	h   *big.Int
}

// NewIssuerParams derives the Pedersen generator for the given group.
func NewIssuerParams(grp *group.Params) (*IssuerParams, error) {
	h, err := deriveH(grp)
	if err != nil {
		return nil, err
	}
	return &IssuerParams{grp: grp, h: h}, nil
}

// Group returns the underlying group parameters.
func (ip *IssuerParams) Group() *group.Params { return ip.grp }

// H returns a copy of the Pedersen generator.
func (ip *IssuerParams) H() *big.Int { return new(big.Int).Set(ip.h) }

// deriveH hashes the group description into the order-q subgroup: the
// digest is reduced mod p and raised to (p-1)/q, which lands in the
// subgroup while leaving the discrete log relative to g unknown. The
// counter advances past the rare degenerate outputs 0 and 1.
func deriveH(grp *group.Params) (*big.Int, error) {
	p, q := grp.P(), grp.Q()
	exp := new(big.Int).Sub(p, big.NewInt(1))
	exp.Div(exp, q)

	seed, err := arith.AppendFixed([]byte(pedersenSeed), p, arith.ByteLen(p))
	if err != nil {
		return nil, err
	}
	seed, err = arith.AppendFixed(seed, q, arith.ByteLen(p))
	if err != nil {
		return nil, err
	}
	seed, err = arith.AppendFixed(seed, grp.G(), arith.ByteLen(p))
	if err != nil {
		return nil, err
	}

	one := big.NewInt(1)
	for counter := byte(0); counter < 255; counter++ {
		digest := sha3.Sum256(append(seed, counter))
		e := new(big.Int).SetBytes(digest[:])
		e.Mod(e, p)
		h := new(big.Int).Exp(e, exp, p)
		if h.Sign() != 0 && h.Cmp(one) != 0 {
			return h, nil
		}
	}
	return nil, &group.ParameterError{Reason: "could not derive a Pedersen generator"}
}
