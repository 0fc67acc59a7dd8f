package schnorr

import (
	"context"
	"math/big"

	"github.com/pkg/errors"

	"github.com/zkident/zkid-go/api/group"
	"github.com/zkident/zkid-go/api/transport"
	"github.com/zkident/zkid-go/internal/arith"
)

// Wire format of the interactive session: the commitment is a fixed-width
// big-endian element of PByteLen bytes; challenge and response are
// fixed-width big-endian scalars of QByteLen bytes. Both sides must share
// identical group parameters out of band.

// RunProver drives the prover role of one identification session over a
// messenger: send t, await c, send s. The half-built session is discarded
// on any transport error.
func RunProver(ctx context.Context, m transport.Messenger, verifierIndex int, params *group.Params, key *group.KeyPair) error {
	prover, err := NewProver(params, key)
	if err != nil {
		return err
	}
	cm, err := prover.Commit()
	if err != nil {
		return err
	}
	defer prover.Abandon()

	buf, err := arith.FixedBytes(cm.T, params.PByteLen())
	if err != nil {
		return errors.Wrap(err, "schnorr: encoding commitment")
	}
	if err := m.MessageSend(ctx, verifierIndex, buf); err != nil {
		return errors.Wrap(err, "schnorr: sending commitment")
	}

	raw, err := m.MessageReceive(ctx, verifierIndex)
	if err != nil {
		return errors.Wrap(err, "schnorr: awaiting challenge")
	}
	if len(raw) != params.QByteLen() {
		return &group.MalformedProofError{Reason: "challenge has wrong length"}
	}
	resp, err := prover.Respond(&Challenge{C: new(big.Int).SetBytes(raw)})
	if err != nil {
		return err
	}

	sBuf, err := arith.FixedBytes(resp.S, params.QByteLen())
	if err != nil {
		return errors.Wrap(err, "schnorr: encoding response")
	}
	return errors.Wrap(m.MessageSend(ctx, verifierIndex, sBuf), "schnorr: sending response")
}

// RunVerifier drives the verifier role of one identification session over
// a messenger: await t, send c, await s, verify. The boolean result is
// the protocol outcome; errors are structural or transport failures.
func RunVerifier(ctx context.Context, m transport.Messenger, proverIndex int, params *group.Params, public *big.Int) (bool, error) {
	verifier, err := NewVerifier(params, public)
	if err != nil {
		return false, err
	}

	raw, err := m.MessageReceive(ctx, proverIndex)
	if err != nil {
		return false, errors.Wrap(err, "schnorr: awaiting commitment")
	}
	if len(raw) != params.PByteLen() {
		return false, &group.MalformedProofError{Reason: "commitment has wrong length"}
	}
	ch, err := verifier.Challenge(&Commitment{T: new(big.Int).SetBytes(raw)})
	if err != nil {
		return false, err
	}

	cBuf, err := arith.FixedBytes(ch.C, params.QByteLen())
	if err != nil {
		return false, errors.Wrap(err, "schnorr: encoding challenge")
	}
	if err := m.MessageSend(ctx, proverIndex, cBuf); err != nil {
		return false, errors.Wrap(err, "schnorr: sending challenge")
	}

	raw, err = m.MessageReceive(ctx, proverIndex)
	if err != nil {
		return false, errors.Wrap(err, "schnorr: awaiting response")
	}
	if len(raw) != params.QByteLen() {
		return false, &group.MalformedProofError{Reason: "response has wrong length"}
	}
	return verifier.Verify(&Response{S: new(big.Int).SetBytes(raw)})
}
