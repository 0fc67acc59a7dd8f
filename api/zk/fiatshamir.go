package zk

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/zkident/zkid-go/api/group"
	"github.com/zkident/zkid-go/api/schnorr"
)

// ProveRequest carries the prover's inputs.
//
//   - Params and Key describe the group and the identity proving
//     knowledge of its private scalar.
//   - Context binds the proof to one session or message. A proof made
//     under context A never verifies under context B.
//   - AllowEmptyContext must be set to produce a proof with no context.
//     Such a proof is bound only to the public key and can be replayed
//     across sessions, so the weak mode is an explicit choice.
type ProveRequest struct {
	Params            *group.Params
	Key               *group.KeyPair
	Context           []byte
	AllowEmptyContext bool
}

// ProveResponse is returned by Prove.
type ProveResponse struct {
	Transcript *Transcript
}

// Prove produces a single-message proof of knowledge of the private
// scalar: the Schnorr commitment step runs as in the interactive
// protocol, the challenge is derived from the transcript hash and the
// response closes the proof. No interaction round-trip is required.
func Prove(req *ProveRequest) (*ProveResponse, error) {
	if req == nil {
		return nil, errors.New("zk: nil request")
	}
	if len(req.Context) == 0 && !req.AllowEmptyContext {
		return nil, errors.New("zk: empty context requires AllowEmptyContext")
	}

	prover, err := schnorr.NewProver(req.Params, req.Key)
	if err != nil {
		return nil, err
	}
	cm, err := prover.Commit()
	if err != nil {
		return nil, err
	}
	c, err := challenge(req.Params, cm.T, req.Key.Public(), req.Context)
	if err != nil {
		return nil, err
	}
	resp, err := prover.Respond(&schnorr.Challenge{C: c})
	if err != nil {
		return nil, err
	}
	return &ProveResponse{Transcript: &Transcript{T: cm.T, C: c, S: resp.S}}, nil
}

// VerifyRequest carries the verifier's inputs. Context and
// AllowEmptyContext must match the values used at prove time.
type VerifyRequest struct {
	Params            *group.Params
	PublicKey         *big.Int
	Context           []byte
	AllowEmptyContext bool
	Transcript        *Transcript
}

// VerifyResponse indicates whether the proof was accepted. A well-formed
// but false proof yields Valid=false with a nil error.
type VerifyResponse struct {
	Valid bool
}

// Verify recomputes the challenge from the received commitment and
// rejects the transcript if it differs from the embedded one, even when
// the algebraic equation alone would hold; a substituted challenge never
// passes. It then checks g^s == t * y^c mod p. Structural violations
// fail with group.MalformedProofError.
func Verify(req *VerifyRequest) (*VerifyResponse, error) {
	if req == nil {
		return nil, errors.New("zk: nil request")
	}
	if req.Transcript == nil {
		return nil, &group.MalformedProofError{Reason: "missing transcript"}
	}
	if len(req.Context) == 0 && !req.AllowEmptyContext {
		return nil, errors.New("zk: empty context requires AllowEmptyContext")
	}

	tr := req.Transcript
	if !req.Params.IsElement(tr.T) {
		return nil, &group.MalformedProofError{Reason: "commitment is not a group member"}
	}
	if !req.Params.IsScalar(tr.C) {
		return nil, &group.MalformedProofError{Reason: "challenge out of range"}
	}
	if !req.Params.IsScalar(tr.S) {
		return nil, &group.MalformedProofError{Reason: "response out of range"}
	}

	expected, err := challenge(req.Params, tr.T, req.PublicKey, req.Context)
	if err != nil {
		return nil, err
	}
	if expected.Cmp(tr.C) != 0 {
		return &VerifyResponse{Valid: false}, nil
	}
	valid, err := schnorr.VerifyTranscript(req.Params, req.PublicKey, tr.T, tr.C, tr.S)
	if err != nil {
		return nil, err
	}
	return &VerifyResponse{Valid: valid}, nil
}
