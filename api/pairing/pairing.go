package pairing

import (
	"bytes"
	"crypto/rand"
	"math/big"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bn256"
	"golang.org/x/crypto/sha3"
)

// PairingMismatchError reports a group element outside the expected
// curve or prime-order subgroup. Pairing is undefined and insecure on
// such inputs, so verification halts before any pairing call.
type PairingMismatchError struct {
	Reason string
}

func (e *PairingMismatchError) Error() string { return "pairing: subgroup violation: " + e.Reason }

// Params are the public parameters of the scheme, shared by provers and
// verifiers. All fields were produced by Setup and are immutable.
type Params struct {
	a    *bn256.G1 // g1^alpha, first factor of the identity map
	h    *bn256.G1 // g1^delta, blinding factor of the identity map
	aHat *bn256.G2 // gHat^alpha
	hHat *bn256.G2 // gHat^delta
	v    *bn256.GT // e(g1, gHat)^(alpha*beta), the relation constant
}

// Authority holds the master secret and extracts identity keys. Only the
// issuer of a deployment ever sees one.
type Authority struct {
	params *Params
	g0Hat  *bn256.G2 // gHat^(alpha*beta), the master key
}

// IdentityKey is the extracted private key of one identity.
type IdentityKey struct {
	identity string
	d0, d1   *bn256.G2
}

// Identity returns the identity string the key was extracted for.
func (k *IdentityKey) Identity() string { return k.identity }

// Setup generates fresh master parameters. The master scalars alpha,
// beta and delta exist only inside this function; everything the
// Authority retains is the single G2 master key.
func Setup() (*Authority, *Params, error) {
	alpha, err := randomScalar()
	if err != nil {
		return nil, nil, err
	}
	beta, err := randomScalar()
	if err != nil {
		return nil, nil, err
	}
	delta, err := randomScalar()
	if err != nil {
		return nil, nil, err
	}

	alphaBeta := new(big.Int).Mul(alpha, beta)
	alphaBeta.Mod(alphaBeta, bn256.Order)

	params := &Params{
		a:    new(bn256.G1).ScalarBaseMult(alpha),
		h:    new(bn256.G1).ScalarBaseMult(delta),
		aHat: new(bn256.G2).ScalarBaseMult(alpha),
		hHat: new(bn256.G2).ScalarBaseMult(delta),
		v:    bn256.Pair(g1Gen(), new(bn256.G2).ScalarBaseMult(alphaBeta)),
	}
	authority := &Authority{
		params: params,
		g0Hat:  new(bn256.G2).ScalarBaseMult(alphaBeta),
	}
	return authority, params, nil
}

// DeriveIdentityKey maps an identity string to its public G1 element,
// u_ID = a^H(ID) * h. The map is deterministic and collision-resistant:
// identity alone determines the public key.
func DeriveIdentityKey(params *Params, identity string) *bn256.G1 {
	u := new(bn256.G1).ScalarMult(params.a, identityScalar(identity))
	return u.Add(u, params.h)
}

// Extract issues the private key for an identity: d0 = g0Hat *
// (aHat^H(ID) * hHat)^r, d1 = gHat^r with fresh r. Extraction is
// randomized; two extractions of one identity yield different, equally
// valid keys.
func (a *Authority) Extract(identity string) (*IdentityKey, error) {
	r, err := randomScalar()
	if err != nil {
		return nil, err
	}
	d0 := new(bn256.G2).ScalarMult(a.params.aHat, identityScalar(identity))
	d0.Add(d0, a.params.hHat)
	d0.ScalarMult(d0, r)
	d0.Add(d0, a.g0Hat)
	return &IdentityKey{
		identity: identity,
		d0:       d0,
		d1:       new(bn256.G2).ScalarBaseMult(r),
	}, nil
}

func g1Gen() *bn256.G1 {
	return new(bn256.G1).ScalarBaseMult(big.NewInt(1))
}

// identityScalar is the H of the identity map: SHA3-256 of the identity
// string reduced mod the group order.
func identityScalar(identity string) *big.Int {
	digest := sha3.Sum256([]byte(identity))
	k := new(big.Int).SetBytes(digest[:])
	return k.Mod(k, bn256.Order)
}

// randomScalar draws a uniform scalar in [1, Order) from crypto/rand.
func randomScalar() (*big.Int, error) {
	for {
		k, err := rand.Int(rand.Reader, bn256.Order)
		if err != nil {
			return nil, errors.Wrap(err, "pairing: sampling scalar")
		}
		if k.Sign() > 0 {
			return k, nil
		}
	}
}

// orderPlusOne is used by the subgroup checks: for P in the prime-order
// subgroup, (Order+1)*P == P; outside it the equality fails with
// overwhelming probability.
var orderPlusOne = new(big.Int).Add(bn256.Order, big.NewInt(1))

func checkG2Member(p *bn256.G2) bool {
	if p == nil {
		return false
	}
	cycled := new(bn256.G2).ScalarMult(p, orderPlusOne)
	return bytes.Equal(cycled.Marshal(), p.Marshal())
}

func checkGTMember(t *bn256.GT) bool {
	if t == nil {
		return false
	}
	cycled := new(bn256.GT).ScalarMult(t, orderPlusOne)
	return bytes.Equal(cycled.Marshal(), t.Marshal())
}
