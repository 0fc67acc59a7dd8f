// Package schnorr implements the three-move interactive Schnorr
// identification protocol: proof of knowledge of the discrete log x of a
// public element y = g^x mod p.
//
// The exchange is a strict commit/challenge/respond handshake:
//
//	prover, _ := schnorr.NewProver(params, kp)
//	verifier, _ := schnorr.NewVerifier(params, kp.Public())
//
//	t, _ := prover.Commit()        // prover -> verifier
//	c, _ := verifier.Challenge(t)  // verifier -> prover
//	s, _ := prover.Respond(c)      // prover -> verifier
//	ok, _ := verifier.Verify(s)    // g^s == t * y^c mod p
//
// Commitment, Challenge and Response are distinct single-use values. A
// Prover refuses to answer two challenges from one commitment: reusing the
// nonce r across challenges would let anyone solve for x, so the nonce is
// erased the moment Respond runs.
//
// RunProver and RunVerifier carry the same handshake over any
// transport.Messenger for callers whose two roles live in different
// processes. A well-formed but false proof makes Verify return false with
// a nil error; only structurally invalid messages produce a
// group.MalformedProofError.
package schnorr
