package group

import (
	"fmt"
	"math/big"

	"github.com/zkident/zkid-go/internal/arith"
)

// MinSecurityBits is the smallest modulus size Generate accepts. With a
// safe prime p = 2q+1 this keeps the subgroup order q at 224 bits or
// more, the floor for resisting known discrete-log attacks.
const MinSecurityBits = 225

// safePrimeAttempts bounds the search in Generate. Safe primes of the
// sizes we accept are dense enough that exhaustion signals a broken
// random source rather than bad luck.
const safePrimeAttempts = 100000

var one = big.NewInt(1)

// Params describes a prime-order subgroup of (Z/pZ)*. Values are
// immutable after construction; accessors return fresh copies.
type Params struct {
	p *big.Int // prime modulus
	q *big.Int // prime subgroup order, q | p-1
	g *big.Int // generator of the order-q subgroup
}

// Generate constructs fresh group parameters with a safe prime modulus of
// the given bit length. It fails with ParameterError when securityBits is
// below MinSecurityBits or when the bounded safe-prime search exhausts.
func Generate(securityBits int) (*Params, error) {
	if securityBits < MinSecurityBits {
		return nil, &ParameterError{Reason: fmt.Sprintf(
			"%d-bit modulus gives a subgroup below 224 bits, minimum is %d", securityBits, MinSecurityBits)}
	}
	p, q, err := arith.SafePrime(securityBits, safePrimeAttempts)
	if err != nil {
		return nil, &ParameterError{Reason: err.Error()}
	}
	g, err := subgroupGenerator(p)
	if err != nil {
		return nil, &ParameterError{Reason: err.Error()}
	}
	return &Params{p: p, q: q, g: g}, nil
}

// subgroupGenerator picks a generator of the order-q subgroup of a
// safe-prime group. Squares mod p form exactly that subgroup, so a random
// square other than 1 generates it.
func subgroupGenerator(p *big.Int) (*big.Int, error) {
	for {
		h, err := arith.RandScalar(p)
		if err != nil {
			return nil, err
		}
		g := new(big.Int).Exp(h, big.NewInt(2), p)
		if g.Cmp(one) != 0 {
			return g, nil
		}
	}
}

// NewParams wraps externally supplied parameters after validating their
// structure: p and q prime, q dividing p-1, g of order q and g != 1.
// Unlike Generate it applies no size floor, so interoperating callers can
// load groups of any size (including deliberately tiny test groups).
func NewParams(p, q, g *big.Int) (*Params, error) {
	params := &Params{
		p: new(big.Int).Set(p),
		q: new(big.Int).Set(q),
		g: new(big.Int).Set(g),
	}
	if err := params.validate(); err != nil {
		return nil, err
	}
	return params, nil
}

func (pr *Params) validate() error {
	if pr == nil || pr.p == nil || pr.q == nil || pr.g == nil {
		return &InvalidParameterError{Reason: "nil parameters"}
	}
	if !arith.IsPrime(pr.p) {
		return &InvalidParameterError{Reason: "modulus is not prime"}
	}
	if !arith.IsPrime(pr.q) {
		return &InvalidParameterError{Reason: "subgroup order is not prime"}
	}
	pm1 := new(big.Int).Sub(pr.p, one)
	if new(big.Int).Mod(pm1, pr.q).Sign() != 0 {
		return &InvalidParameterError{Reason: "subgroup order does not divide p-1"}
	}
	if pr.g.Cmp(one) <= 0 || pr.g.Cmp(pr.p) >= 0 {
		return &InvalidParameterError{Reason: "generator outside (1, p)"}
	}
	if new(big.Int).Exp(pr.g, pr.q, pr.p).Cmp(one) != 0 {
		return &InvalidParameterError{Reason: "generator does not have order q"}
	}
	return nil
}

// P returns a copy of the prime modulus.
func (pr *Params) P() *big.Int { return new(big.Int).Set(pr.p) }

// Q returns a copy of the subgroup order.
func (pr *Params) Q() *big.Int { return new(big.Int).Set(pr.q) }

// G returns a copy of the generator.
func (pr *Params) G() *big.Int { return new(big.Int).Set(pr.g) }

// PByteLen is the fixed width, in bytes, of an encoded group element.
func (pr *Params) PByteLen() int { return arith.ByteLen(pr.p) }

// QByteLen is the fixed width, in bytes, of an encoded scalar.
func (pr *Params) QByteLen() int { return arith.ByteLen(pr.q) }

// ExpG returns g^x mod p.
func (pr *Params) ExpG(x *big.Int) *big.Int {
	return new(big.Int).Exp(pr.g, x, pr.p)
}

// Exp returns base^x mod p.
func (pr *Params) Exp(base, x *big.Int) *big.Int {
	return new(big.Int).Exp(base, x, pr.p)
}

// Mul returns a*b mod p.
func (pr *Params) Mul(a, b *big.Int) *big.Int {
	r := new(big.Int).Mul(a, b)
	return r.Mod(r, pr.p)
}

// Inv returns the inverse of a mod p.
func (pr *Params) Inv(a *big.Int) *big.Int {
	return new(big.Int).ModInverse(a, pr.p)
}

// AddQ returns a+b mod q.
func (pr *Params) AddQ(a, b *big.Int) *big.Int {
	r := new(big.Int).Add(a, b)
	return r.Mod(r, pr.q)
}

// SubQ returns a-b mod q.
func (pr *Params) SubQ(a, b *big.Int) *big.Int {
	r := new(big.Int).Sub(a, b)
	return r.Mod(r, pr.q)
}

// MulQ returns a*b mod q.
func (pr *Params) MulQ(a, b *big.Int) *big.Int {
	r := new(big.Int).Mul(a, b)
	return r.Mod(r, pr.q)
}

// RandomScalar draws a uniform scalar in [1, q-1] from crypto/rand.
func (pr *Params) RandomScalar() (*big.Int, error) {
	return arith.RandScalar(pr.q)
}

// RandomChallenge draws a uniform challenge in [0, q-1] from crypto/rand.
func (pr *Params) RandomChallenge() (*big.Int, error) {
	return arith.RandBelow(pr.q)
}

// IsElement reports whether el is a member of the order-q subgroup.
func (pr *Params) IsElement(el *big.Int) bool {
	return arith.InSubgroup(el, pr.p, pr.q)
}

// IsScalar reports whether s lies in [0, q-1].
func (pr *Params) IsScalar(s *big.Int) bool {
	return arith.InRange(s, pr.q)
}

// Equal reports whether two parameter sets describe the same group.
func (pr *Params) Equal(other *Params) bool {
	if pr == nil || other == nil {
		return pr == other
	}
	return pr.p.Cmp(other.p) == 0 && pr.q.Cmp(other.q) == 0 && pr.g.Cmp(other.g) == 0
}
