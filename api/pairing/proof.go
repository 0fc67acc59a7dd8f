package pairing

import (
	"bytes"
	"math/big"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bn256"

	"github.com/zkident/zkid-go/api/group"
	"github.com/zkident/zkid-go/internal/arith"
)

// Proof is a non-interactive proof of possession of an identity key.
// T is the GT commitment, C the hash-derived challenge and S0, S1 the G2
// responses.
type Proof struct {
	T      *bn256.GT
	C      *big.Int
	S0, S1 *bn256.G2
}

// ProveRequest carries the prover's inputs. Context binds the proof to a
// session exactly as in the zk package.
type ProveRequest struct {
	Params            *Params
	Key               *IdentityKey
	Context           []byte
	AllowEmptyContext bool
}

// ProveResponse is returned by Prove.
type ProveResponse struct {
	Proof *Proof
}

// Prove demonstrates possession of the identity key (d0, d1) for the
// key's identity: commit with fresh G2 nonces, derive the challenge from
// the transcript hash, respond with S_i = nonce_i + c*d_i.
func Prove(req *ProveRequest) (*ProveResponse, error) {
	if req == nil || req.Params == nil || req.Key == nil {
		return nil, errors.New("pairing: nil request")
	}
	if len(req.Context) == 0 && !req.AllowEmptyContext {
		return nil, errors.New("pairing: empty context requires AllowEmptyContext")
	}

	r0, err := randomScalar()
	if err != nil {
		return nil, err
	}
	r1, err := randomScalar()
	if err != nil {
		return nil, err
	}

	uID := DeriveIdentityKey(req.Params, req.Key.identity)
	n0 := new(bn256.G2).ScalarBaseMult(r0)
	n1 := new(bn256.G2).ScalarBaseMult(r1)

	// T = e(g1, gHat^r0) * e(u_ID, gHat^r1)^-1
	t := bn256.Pair(g1Gen(), n0)
	t.Add(t, new(bn256.GT).Neg(bn256.Pair(uID, n1)))

	c := challengeScalar(t, uID, req.Context)

	s0 := new(bn256.G2).ScalarMult(req.Key.d0, c)
	s0.Add(s0, n0)
	s1 := new(bn256.G2).ScalarMult(req.Key.d1, c)
	s1.Add(s1, n1)

	return &ProveResponse{Proof: &Proof{T: t, C: c, S0: s0, S1: s1}}, nil
}

// VerifyRequest carries the verifier's inputs. Identity, Context and
// AllowEmptyContext must match the values used at prove time.
type VerifyRequest struct {
	Params            *Params
	Identity          string
	Context           []byte
	AllowEmptyContext bool
	Proof             *Proof
}

// VerifyResponse indicates whether the proof was accepted.
type VerifyResponse struct {
	Valid bool
}

// Verify checks a proof of possession. Subgroup membership of S0, S1 and
// T is established before any pairing is evaluated; failures surface as
// PairingMismatchError. The recomputed challenge must match the embedded
// one, then the acceptance predicate e(g1,S0)*e(u_ID,S1)^-1 == T * v^c is
// evaluated.
func Verify(req *VerifyRequest) (*VerifyResponse, error) {
	if req == nil || req.Params == nil {
		return nil, errors.New("pairing: nil request")
	}
	if req.Proof == nil {
		return nil, &group.MalformedProofError{Reason: "missing proof"}
	}
	if len(req.Context) == 0 && !req.AllowEmptyContext {
		return nil, errors.New("pairing: empty context requires AllowEmptyContext")
	}

	pr := req.Proof
	if pr.C == nil || !arith.InRange(pr.C, bn256.Order) {
		return nil, &group.MalformedProofError{Reason: "challenge out of range"}
	}
	if !checkG2Member(pr.S0) {
		return nil, &PairingMismatchError{Reason: "response S0 outside the prime-order subgroup"}
	}
	if !checkG2Member(pr.S1) {
		return nil, &PairingMismatchError{Reason: "response S1 outside the prime-order subgroup"}
	}
	if !checkGTMember(pr.T) {
		return nil, &PairingMismatchError{Reason: "commitment outside the prime-order subgroup"}
	}

	uID := DeriveIdentityKey(req.Params, req.Identity)
	if challengeScalar(pr.T, uID, req.Context).Cmp(pr.C) != 0 {
		return &VerifyResponse{Valid: false}, nil
	}

	// e(g1, S0) * e(u_ID, S1)^-1
	lhs := bn256.Pair(g1Gen(), pr.S0)
	lhs.Add(lhs, new(bn256.GT).Neg(bn256.Pair(uID, pr.S1)))

	// T * v^c
	rhs := new(bn256.GT).ScalarMult(req.Params.v, pr.C)
	rhs.Add(rhs, pr.T)

	return &VerifyResponse{Valid: gtEqual(lhs, rhs)}, nil
}

// challengeScalar hashes marshal(T) || marshal(u_ID) || len(ctx) || ctx
// with SHA3-256 and reduces mod the group order.
func challengeScalar(t *bn256.GT, uID *bn256.G1, context []byte) *big.Int {
	buf := append([]byte(nil), t.Marshal()...)
	buf = append(buf, uID.Marshal()...)
	buf = arith.AppendLenPrefixed(buf, context)
	return arith.HashMod(bn256.Order, buf)
}

func gtEqual(a, b *bn256.GT) bool {
	return bytes.Equal(a.Marshal(), b.Marshal())
}
