package ageproof

import (
	"math/big"

	"github.com/zkident/zkid-go/api/group"
	"github.com/zkident/zkid-go/internal/arith"
)

// Credential is an issuer-bound commitment to an age: C = g^age * h^rho.
// The age and the opening randomness rho live only inside the credential
// held by the prover; the commitment C is what an issuer publishes or
// signs.
type Credential struct {
	params *IssuerParams
	age    int64
	rho    *big.Int
	c      *big.Int
}

// IssueCredential commits to an age with fresh randomness. The age is
// fixed at issuance; it must lie in [0, MaxAge].
func IssueCredential(params *IssuerParams, age int64) (*Credential, error) {
	if params == nil {
		return nil, &group.InvalidParameterError{Reason: "nil issuer parameters"}
	}
	if age < 0 || age > MaxAge {
		return nil, &group.InvalidParameterError{Reason: "age outside the committable range"}
	}
	grp := params.grp
	rho, err := grp.RandomScalar()
	if err != nil {
		return nil, err
	}
	c := grp.Mul(grp.ExpG(big.NewInt(age)), grp.Exp(params.h, rho))
	return &Credential{params: params, age: age, rho: rho, c: c}, nil
}

// Commitment returns a copy of the public commitment C.
func (cr *Credential) Commitment() *big.Int { return new(big.Int).Set(cr.c) }

// Params returns the issuer parameters the credential was issued under.
func (cr *Credential) Params() *IssuerParams { return cr.params }

// Wipe erases the opening secret. The credential can no longer prove
// anything afterwards.
func (cr *Credential) Wipe() {
	arith.Wipe(cr.rho)
	cr.age = -1
}
