package schnorr

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/zkident/zkid-go/api/group"
	"github.com/zkident/zkid-go/internal/arith"
)

// Commitment is the prover's first message, t = g^r mod p for a fresh
// secret nonce r.
type Commitment struct {
	T *big.Int
}

// Challenge is the verifier's message, a uniform scalar c in [0, q-1].
type Challenge struct {
	C *big.Int
}

// Response is the prover's final message, s = r + c*x mod q.
type Response struct {
	S *big.Int
}

type proverState int

const (
	proverInit proverState = iota
	proverCommitted
	proverResponded
)

// Prover holds the secret side of one identification session. A Prover is
// single-use per commitment: after Respond the retained nonce is erased
// and a fresh Commit is required before answering another challenge.
// Concurrent sessions for the same identity must each use their own
// Prover so every session draws an independent nonce.
type Prover struct {
	params *group.Params
	key    *group.KeyPair
	nonce  *big.Int
	state  proverState
}

// NewProver binds a prover role to a key pair. The key pair must have
// been generated over the same parameters.
func NewProver(params *group.Params, key *group.KeyPair) (*Prover, error) {
	if key == nil || !params.Equal(key.Params()) {
		return nil, &group.InvalidParameterError{Reason: "key pair does not match group parameters"}
	}
	return &Prover{params: params, key: key, state: proverInit}, nil
}

// Commit draws a fresh random nonce r and returns t = g^r mod p. The
// nonce is retained for the following Respond and is never derived from
// the private key.
func (p *Prover) Commit() (*Commitment, error) {
	if p.state == proverCommitted {
		return nil, errors.New("schnorr: commitment already outstanding, respond or abandon it first")
	}
	r, err := p.params.RandomScalar()
	if err != nil {
		return nil, errors.Wrap(err, "schnorr: drawing nonce")
	}
	p.nonce = r
	p.state = proverCommitted
	return &Commitment{T: p.params.ExpG(r)}, nil
}

// Respond answers the verifier's challenge with s = r + c*x mod q and
// erases the nonce. A second Respond for the same commitment fails:
// answering two distinct challenges from one nonce reveals the private
// key.
func (p *Prover) Respond(ch *Challenge) (*Response, error) {
	if p.state != proverCommitted {
		return nil, errors.New("schnorr: no live commitment, call Commit first")
	}
	if ch == nil || !p.params.IsScalar(ch.C) {
		return nil, &group.MalformedProofError{Reason: "challenge out of range"}
	}
	s, err := p.key.Respond(p.nonce, ch.C)
	if err != nil {
		return nil, err
	}
	arith.Wipe(p.nonce)
	p.nonce = nil
	p.state = proverResponded
	return &Response{S: s}, nil
}

// Abandon discards a half-built session, erasing the retained nonce.
func (p *Prover) Abandon() {
	arith.Wipe(p.nonce)
	p.nonce = nil
	p.state = proverInit
}

type verifierState int

const (
	verifierInit verifierState = iota
	verifierChallenged
	verifierDone
)

// Verifier holds the public side of one identification session.
type Verifier struct {
	params     *group.Params
	public     *big.Int
	commitment *big.Int
	challenge  *big.Int
	state      verifierState
}

// NewVerifier binds a verifier role to a public element. The public
// element must be a member of the order-q subgroup.
func NewVerifier(params *group.Params, public *big.Int) (*Verifier, error) {
	if !params.IsElement(public) {
		return nil, &group.InvalidParameterError{Reason: "public element is not a group member"}
	}
	return &Verifier{params: params, public: new(big.Int).Set(public), state: verifierInit}, nil
}

// Challenge accepts the prover's commitment and returns a uniformly
// random challenge. A commitment outside the group fails with
// MalformedProofError before any challenge is issued.
func (v *Verifier) Challenge(cm *Commitment) (*Challenge, error) {
	if v.state != verifierInit {
		return nil, errors.New("schnorr: challenge already issued")
	}
	if cm == nil || !v.params.IsElement(cm.T) {
		return nil, &group.MalformedProofError{Reason: "commitment is not a group member"}
	}
	c, err := v.params.RandomChallenge()
	if err != nil {
		return nil, errors.Wrap(err, "schnorr: drawing challenge")
	}
	v.commitment = new(big.Int).Set(cm.T)
	v.challenge = c
	v.state = verifierChallenged
	return &Challenge{C: c}, nil
}

// Verify checks the prover's response against the session transcript.
// It returns false with a nil error on an honest mismatch; a response
// scalar out of range fails with MalformedProofError.
func (v *Verifier) Verify(resp *Response) (bool, error) {
	if v.state != verifierChallenged {
		return false, errors.New("schnorr: no outstanding challenge")
	}
	v.state = verifierDone
	if resp == nil {
		return false, &group.MalformedProofError{Reason: "missing response"}
	}
	return VerifyTranscript(v.params, v.public, v.commitment, v.challenge, resp.S)
}

// VerifyTranscript checks a complete transcript (t, c, s) against the
// public element y: accept iff g^s == t * y^c mod p. Malformed inputs
// fail with MalformedProofError, distinct from the boolean rejection of a
// well-formed but false transcript.
func VerifyTranscript(params *group.Params, y, t, c, s *big.Int) (bool, error) {
	if !params.IsElement(y) {
		return false, &group.MalformedProofError{Reason: "public element is not a group member"}
	}
	if !params.IsElement(t) {
		return false, &group.MalformedProofError{Reason: "commitment is not a group member"}
	}
	if !params.IsScalar(c) {
		return false, &group.MalformedProofError{Reason: "challenge out of range"}
	}
	if !params.IsScalar(s) {
		return false, &group.MalformedProofError{Reason: "response out of range"}
	}
	lhs := params.ExpG(s)
	rhs := params.Mul(t, params.Exp(y, c))
	return lhs.Cmp(rhs) == 0, nil
}
