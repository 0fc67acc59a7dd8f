// Package arith is the arithmetic engine behind the api packages. It
// provides modular big-integer helpers, cryptographically secure scalar
// sampling, safe-prime generation and the canonical byte encodings used
// in proof transcripts.
package arith

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/pkg/errors"
)

var one = big.NewInt(1)

// primalityRounds is the number of Miller-Rabin rounds used on top of the
// Baillie-PSW test performed by ProbablyPrime.
const primalityRounds = 20

// IsPrime reports whether n is a probable prime.
func IsPrime(n *big.Int) bool {
	return n != nil && n.ProbablyPrime(primalityRounds)
}

// RandScalar returns a uniform scalar in [1, q-1] drawn from crypto/rand.
func RandScalar(q *big.Int) (*big.Int, error) {
	return randScalar(rand.Reader, q)
}

// RandBelow returns a uniform scalar in [0, q-1] drawn from crypto/rand.
func RandBelow(q *big.Int) (*big.Int, error) {
	c, err := rand.Int(rand.Reader, q)
	if err != nil {
		return nil, errors.Wrap(err, "sampling scalar")
	}
	return c, nil
}

func randScalar(r io.Reader, q *big.Int) (*big.Int, error) {
	qMinusOne := new(big.Int).Sub(q, one)
	if qMinusOne.Sign() <= 0 {
		return nil, errors.Errorf("modulus %v too small for nonzero scalar", q)
	}
	x, err := rand.Int(r, qMinusOne)
	if err != nil {
		return nil, errors.Wrap(err, "sampling scalar")
	}
	return x.Add(x, one), nil // shift [0, q-2] to [1, q-1]
}

// SafePrime searches for a safe prime p = 2q+1 with p of the given bit
// length. The search is bounded; exhaustion returns an error rather than
// looping forever.
func SafePrime(bits, maxAttempts int) (p, q *big.Int, err error) {
	if bits < 3 {
		return nil, nil, errors.Errorf("bit length %d too small for a safe prime", bits)
	}
	for i := 0; i < maxAttempts; i++ {
		q, err = rand.Prime(rand.Reader, bits-1)
		if err != nil {
			return nil, nil, errors.Wrap(err, "sampling prime candidate")
		}
		p = new(big.Int).Lsh(q, 1)
		p.Add(p, one)
		if p.ProbablyPrime(primalityRounds) {
			return p, q, nil
		}
	}
	return nil, nil, errors.Errorf("no %d-bit safe prime found in %d attempts", bits, maxAttempts)
}

// InSubgroup reports whether el is a member of the order-q subgroup of
// (Z/pZ)*, i.e. 1 <= el < p and el^q = 1 mod p.
func InSubgroup(el, p, q *big.Int) bool {
	if el == nil || el.Sign() <= 0 || el.Cmp(p) >= 0 {
		return false
	}
	return new(big.Int).Exp(el, q, p).Cmp(one) == 0
}

// InRange reports whether s is a canonical scalar, 0 <= s < q.
func InRange(s, q *big.Int) bool {
	return s != nil && s.Sign() >= 0 && s.Cmp(q) < 0
}

// Wipe zeroes the limbs backing x and resets it to zero, so the old value
// no longer lives in the word slice big.Int keeps around.
func Wipe(x *big.Int) {
	if x == nil {
		return
	}
	w := x.Bits()
	for i := range w {
		w[i] = 0
	}
	x.SetInt64(0)
}
