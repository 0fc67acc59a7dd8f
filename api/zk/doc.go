// Package zk implements the non-interactive variant of the Schnorr
// identification protocol via the Fiat-Shamir transform: the verifier's
// challenge is replaced by a hash of the transcript, collapsing the
// three-move exchange into a single message.
//
// The challenge is derived as
//
//	c = SHA3-256(enc(t) || enc(y) || len(ctx) || ctx) mod q
//
// where enc() is the fixed-width big-endian element encoding and ctx is a
// caller-supplied context that binds the proof to one session or message.
// See Transcript for the exact byte layout; any deviation breaks
// verification across implementations.
//
// Example
//
//	pr, err := zk.Prove(&zk.ProveRequest{
//	    Params:  params,
//	    Key:     kp,
//	    Context: []byte("login:alice:2026-08-29"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	vr, err := zk.Verify(&zk.VerifyRequest{
//	    Params:     params,
//	    PublicKey:  kp.Public(),
//	    Context:    []byte("login:alice:2026-08-29"),
//	    Transcript: pr.Transcript,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !vr.Valid {
//	    log.Fatal("proof rejected")
//	}
//
// A proof made for one context never verifies under another. Omitting the
// context binds the proof to the public key alone, which permits replay
// across sessions; that weaker mode must be requested explicitly with
// AllowEmptyContext.
package zk
