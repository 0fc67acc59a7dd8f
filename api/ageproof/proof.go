package ageproof

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/zkident/zkid-go/api/group"
	"github.com/zkident/zkid-go/internal/arith"
)

// BitProof is a two-branch OR proof that one bit commitment opens to 0
// or 1. Exactly one branch is honestly computed; the other is simulated.
// Which is which is indistinguishable to the verifier.
type BitProof struct {
	T0, T1 *big.Int // branch commitments
	C0, C1 *big.Int // branch challenges, C0+C1 = global challenge mod q
	S0, S1 *big.Int // branch responses
}

// Proof is a complete age-threshold proof: one commitment and OR proof
// per bit of age-threshold, plus the link proof tying the bits back to
// the credential commitment.
type Proof struct {
	BitCommitments []*big.Int
	Bits           []BitProof
	LinkT          *big.Int // commitment of the h-opening proof
	LinkS          *big.Int // response of the h-opening proof
	C              *big.Int // global Fiat-Shamir challenge
}

// ProveRequest carries the prover's inputs. Context binds the proof to a
// verification event; a proof never transfers to another threshold or
// context.
type ProveRequest struct {
	Credential        *Credential
	Threshold         int64
	Context           []byte
	AllowEmptyContext bool
}

// ProveResponse is returned by ProveAboveThreshold.
type ProveResponse struct {
	Proof *Proof
}

// ProveAboveThreshold proves that the committed age is at least the
// threshold. The prover always runs to completion: a credential below
// the threshold yields a well-formed proof that verifies false, so a
// verifier cannot tell an under-threshold holder from an impostor by the
// failure mode.
func ProveAboveThreshold(req *ProveRequest) (*ProveResponse, error) {
	if req == nil || req.Credential == nil {
		return nil, errors.New("ageproof: nil request")
	}
	cred := req.Credential
	if cred.age < 0 {
		return nil, &group.InvalidParameterError{Reason: "credential has been wiped"}
	}
	if req.Threshold < 0 || req.Threshold > MaxAge {
		return nil, &group.InvalidParameterError{Reason: "threshold outside the provable range"}
	}
	if len(req.Context) == 0 && !req.AllowEmptyContext {
		return nil, errors.New("ageproof: empty context requires AllowEmptyContext")
	}

	params := cred.params
	grp := params.grp

	// Decompose d = age - threshold, wrapping mod 2^AgeBits. For an
	// in-range credential the bits reconstruct d exactly; an under-age
	// credential wraps and the link proof below cannot hold.
	d := (cred.age - req.Threshold) & MaxAge

	bitRho := make([]*big.Int, AgeBits)
	bitCommitments := make([]*big.Int, AgeBits)
	bits := make([]int, AgeBits)
	for i := 0; i < AgeBits; i++ {
		rho, err := grp.RandomScalar()
		if err != nil {
			return nil, err
		}
		bits[i] = int((d >> uint(i)) & 1)
		bitRho[i] = rho
		bitCommitments[i] = grp.Mul(grp.ExpG(big.NewInt(int64(bits[i]))), grp.Exp(params.h, rho))
	}

	// First flow of every OR proof: an honest commitment on the real
	// branch, a simulated transcript on the other.
	type bitSecrets struct {
		w, cSim, sSim *big.Int
	}
	secrets := make([]bitSecrets, AgeBits)
	t0s := make([]*big.Int, AgeBits)
	t1s := make([]*big.Int, AgeBits)
	for i := 0; i < AgeBits; i++ {
		w, err := grp.RandomScalar()
		if err != nil {
			return nil, err
		}
		cSim, err := grp.RandomChallenge()
		if err != nil {
			return nil, err
		}
		sSim, err := grp.RandomChallenge()
		if err != nil {
			return nil, err
		}
		secrets[i] = bitSecrets{w: w, cSim: cSim, sSim: sSim}

		honest := grp.Exp(params.h, w)
		if bits[i] == 0 {
			t0s[i] = honest
			t1s[i] = simulatedCommitment(params, statementOne(params, bitCommitments[i]), cSim, sSim)
		} else {
			t1s[i] = honest
			t0s[i] = simulatedCommitment(params, bitCommitments[i], cSim, sSim)
		}
	}

	// Link proof first flow: D = C * g^-threshold * prod C_i^-2^i must
	// open as h^delta.
	delta := new(big.Int).Set(cred.rho)
	for i := 0; i < AgeBits; i++ {
		weighted := new(big.Int).Lsh(bitRho[i], uint(i))
		delta = grp.SubQ(delta, weighted)
	}
	wLink, err := grp.RandomScalar()
	if err != nil {
		return nil, err
	}
	linkT := grp.Exp(params.h, wLink)

	c := challengeScalar(params, cred.c, req.Threshold, bitCommitments, t0s, t1s, linkT, req.Context)

	proof := &Proof{
		BitCommitments: bitCommitments,
		Bits:           make([]BitProof, AgeBits),
		LinkT:          linkT,
		LinkS:          grp.AddQ(wLink, grp.MulQ(c, delta)),
		C:              c,
	}
	for i := 0; i < AgeBits; i++ {
		cReal := grp.SubQ(c, secrets[i].cSim)
		sReal := grp.AddQ(secrets[i].w, grp.MulQ(cReal, bitRho[i]))
		if bits[i] == 0 {
			proof.Bits[i] = BitProof{
				T0: t0s[i], C0: cReal, S0: sReal,
				T1: t1s[i], C1: secrets[i].cSim, S1: secrets[i].sSim,
			}
		} else {
			proof.Bits[i] = BitProof{
				T0: t0s[i], C0: secrets[i].cSim, S0: secrets[i].sSim,
				T1: t1s[i], C1: cReal, S1: sReal,
			}
		}
	}
	return &ProveResponse{Proof: proof}, nil
}

// VerifyRequest carries the verifier's inputs. Commitment is the public
// credential commitment C; Threshold and Context must match the values
// used at prove time.
type VerifyRequest struct {
	Params            *IssuerParams
	Commitment        *big.Int
	Threshold         int64
	Context           []byte
	AllowEmptyContext bool
	Proof             *Proof
}

// VerifyResponse indicates whether the proof was accepted.
type VerifyResponse struct {
	Valid bool
}

// Verify checks an age-threshold proof: every bit proof, the challenge
// binding, and the link equation. Structural violations fail with
// group.MalformedProofError; an honest mismatch is Valid=false.
func Verify(req *VerifyRequest) (*VerifyResponse, error) {
	if req == nil || req.Params == nil {
		return nil, errors.New("ageproof: nil request")
	}
	if len(req.Context) == 0 && !req.AllowEmptyContext {
		return nil, errors.New("ageproof: empty context requires AllowEmptyContext")
	}
	if req.Threshold < 0 || req.Threshold > MaxAge {
		return nil, &group.InvalidParameterError{Reason: "threshold outside the provable range"}
	}

	params := req.Params
	grp := params.grp
	pr := req.Proof
	if pr == nil {
		return nil, &group.MalformedProofError{Reason: "missing proof"}
	}
	if !grp.IsElement(req.Commitment) {
		return nil, &group.MalformedProofError{Reason: "credential commitment is not a group member"}
	}
	if len(pr.BitCommitments) != AgeBits || len(pr.Bits) != AgeBits {
		return nil, &group.MalformedProofError{Reason: "wrong number of bit proofs"}
	}
	if !grp.IsElement(pr.LinkT) || !grp.IsScalar(pr.LinkS) || !grp.IsScalar(pr.C) {
		return nil, &group.MalformedProofError{Reason: "link proof values out of range"}
	}
	t0s := make([]*big.Int, AgeBits)
	t1s := make([]*big.Int, AgeBits)
	for i := 0; i < AgeBits; i++ {
		bp := pr.Bits[i]
		if !grp.IsElement(pr.BitCommitments[i]) || !grp.IsElement(bp.T0) || !grp.IsElement(bp.T1) {
			return nil, &group.MalformedProofError{Reason: "bit proof element is not a group member"}
		}
		if !grp.IsScalar(bp.C0) || !grp.IsScalar(bp.C1) || !grp.IsScalar(bp.S0) || !grp.IsScalar(bp.S1) {
			return nil, &group.MalformedProofError{Reason: "bit proof scalar out of range"}
		}
		t0s[i], t1s[i] = bp.T0, bp.T1
	}

	c := challengeScalar(params, req.Commitment, req.Threshold, pr.BitCommitments, t0s, t1s, pr.LinkT, req.Context)
	if c.Cmp(pr.C) != 0 {
		return &VerifyResponse{Valid: false}, nil
	}

	for i := 0; i < AgeBits; i++ {
		bp := pr.Bits[i]
		if grp.AddQ(bp.C0, bp.C1).Cmp(c) != 0 {
			return &VerifyResponse{Valid: false}, nil
		}
		// branch 0: C_i opens as h^s
		lhs := grp.Exp(params.h, bp.S0)
		rhs := grp.Mul(bp.T0, grp.Exp(pr.BitCommitments[i], bp.C0))
		if lhs.Cmp(rhs) != 0 {
			return &VerifyResponse{Valid: false}, nil
		}
		// branch 1: C_i * g^-1 opens as h^s
		lhs = grp.Exp(params.h, bp.S1)
		rhs = grp.Mul(bp.T1, grp.Exp(statementOne(params, pr.BitCommitments[i]), bp.C1))
		if lhs.Cmp(rhs) != 0 {
			return &VerifyResponse{Valid: false}, nil
		}
	}

	// Link equation: h^LinkS == LinkT * D^c with
	// D = C * g^-threshold * prod C_i^-2^i.
	d := grp.Mul(req.Commitment, grp.Inv(grp.ExpG(big.NewInt(req.Threshold))))
	for i := 0; i < AgeBits; i++ {
		weight := new(big.Int).Lsh(big.NewInt(1), uint(i))
		d = grp.Mul(d, grp.Inv(grp.Exp(pr.BitCommitments[i], weight)))
	}
	lhs := grp.Exp(params.h, pr.LinkS)
	rhs := grp.Mul(pr.LinkT, grp.Exp(d, c))
	return &VerifyResponse{Valid: lhs.Cmp(rhs) == 0}, nil
}

// statementOne maps a bit commitment to the branch-1 statement
// C_i * g^-1, which is an h-power exactly when the bit is 1.
func statementOne(params *IssuerParams, cI *big.Int) *big.Int {
	grp := params.grp
	return grp.Mul(cI, grp.Inv(grp.G()))
}

// simulatedCommitment produces the simulated branch commitment
// t = h^s * X^-c, which satisfies the branch equation h^s == t * X^c for
// the pre-chosen (c, s) regardless of whether X is an h-power.
func simulatedCommitment(params *IssuerParams, x, c, s *big.Int) *big.Int {
	grp := params.grp
	t := grp.Exp(params.h, s)
	return grp.Mul(t, grp.Inv(grp.Exp(x, c)))
}

// challengeScalar derives the global Fiat-Shamir challenge. Layout:
// enc(h) || enc(C) || threshold(8B BE) || per bit enc(C_i)||enc(T0)||enc(T1)
// || enc(LinkT) || len(ctx) || ctx, all elements fixed-width big-endian.
func challengeScalar(params *IssuerParams, commitment *big.Int, threshold int64, bitCommitments, t0s, t1s []*big.Int, linkT *big.Int, context []byte) *big.Int {
	grp := params.grp
	pLen := grp.PByteLen()

	buf, _ := arith.AppendFixed(nil, params.h, pLen)
	buf, _ = arith.AppendFixed(buf, commitment, pLen)
	var th [8]byte
	binary.BigEndian.PutUint64(th[:], uint64(threshold))
	buf = append(buf, th[:]...)
	for i := range bitCommitments {
		buf, _ = arith.AppendFixed(buf, bitCommitments[i], pLen)
		buf, _ = arith.AppendFixed(buf, t0s[i], pLen)
		buf, _ = arith.AppendFixed(buf, t1s[i], pLen)
	}
	buf, _ = arith.AppendFixed(buf, linkT, pLen)
	buf = arith.AppendLenPrefixed(buf, context)
	return arith.HashMod(grp.Q(), buf)
}
